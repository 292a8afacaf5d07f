// Package report summarizes an assignment result: how many students got
// their first or a top-three choice, and how many went unassigned.
package report

import (
	"fmt"
	"strings"

	"github.com/courseforge/projmatch/internal/solver"
)

// Stats is the summary of one assignment run.
type Stats struct {
	Assigned       int     `json:"assigned"`
	Unassigned     int     `json:"unassigned"`
	FirstChoice    int     `json:"firstChoice"`
	FirstChoicePct float64 `json:"firstChoicePct"`
	TopThree       int     `json:"topThree"`
	TopThreePct    float64 `json:"topThreePct"`
}

// Build computes statistics for a solver result.
func Build(res *solver.Result) Stats {
	st := Stats{
		Assigned:   len(res.Assigned),
		Unassigned: len(res.Unassigned),
	}
	for _, a := range res.Assigned {
		if a.Rank == 1 {
			st.FirstChoice++
		}
		if a.Rank <= 3 {
			st.TopThree++
		}
	}
	if st.Assigned > 0 {
		st.FirstChoicePct = float64(st.FirstChoice) / float64(st.Assigned) * 100
		st.TopThreePct = float64(st.TopThree) / float64(st.Assigned) * 100
	}
	return st
}

// String renders the stats as the familiar check output.
func (st Stats) String() string {
	if st.Assigned == 0 {
		return "No assigned students found.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Students with assignments counted: %d\n", st.Assigned)
	fmt.Fprintf(&b, "Got 1st choice: %d (%.1f%%)\n", st.FirstChoice, st.FirstChoicePct)
	fmt.Fprintf(&b, "Got top-3 choice: %d (%.1f%%)\n", st.TopThree, st.TopThreePct)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total unassigned students: %d\n", st.Unassigned)
	return b.String()
}
