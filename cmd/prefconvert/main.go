// Command prefconvert converts a preferences CSV export into solver roster
// JSON files, one per course/semester pair found in the sheet.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/courseforge/projmatch/internal/prefs"
	"github.com/courseforge/projmatch/internal/roster"
)

func main() {
	csvPath := flag.String("csv", "", "path to the preferences CSV export (required)")
	outDir := flag.String("out", ".", "directory to write roster JSON files into")
	capacity := flag.Int("capacity", roster.DefaultProjectCapacity, "capacity applied to every project")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := convert(*csvPath, *outDir, *capacity); err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}
}

func convert(csvPath, outDir string, capacity int) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open CSV: %w", err)
	}
	defer f.Close()

	converter := prefs.NewConverter()
	converter.Capacity = capacity

	rosters, err := converter.Convert(f)
	if err != nil {
		return err
	}
	if len(rosters) == 0 {
		return fmt.Errorf("no rosters found in %s", csvPath)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, cr := range rosters {
		body, err := json.MarshalIndent(cr.Roster, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal roster %s %s: %w", cr.Course, cr.Semester, err)
		}
		path := filepath.Join(outDir, prefs.FileName(cr.Course, cr.Semester))
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Printf("Wrote %s (%d students)", path, len(cr.Roster.Students))
	}
	return nil
}
