// Command assign reads a roster JSON document (students, capacities,
// options) and writes the assignment result as JSON. By default it reads
// stdin and writes stdout, so it can sit in a pipeline after prefconvert.
package main

import (
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"

	"github.com/courseforge/projmatch/internal/roster"
	"github.com/courseforge/projmatch/internal/solver"
)

func main() {
	inPath := flag.String("in", "-", "roster JSON file, - for stdin")
	outPath := flag.String("out", "-", "result file, - for stdout")
	flag.Parse()

	in := os.Stdin
	if *inPath != "-" {
		f, err := os.Open(*inPath)
		if err != nil {
			log.Fatalf("Open input: %v", err)
		}
		defer f.Close()
		in = f
	}

	out := os.Stdout
	if *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("Create output: %v", err)
		}
		defer f.Close()
		out = f
	}

	if err := assign(in, out); err != nil {
		log.Fatalf("Assignment failed: %v", err)
	}
}

func assign(in io.Reader, out io.Writer) error {
	ro, err := roster.Decode(in)
	if err != nil {
		return err
	}

	res, err := solver.Solve(ro)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
