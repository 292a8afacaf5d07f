// Package prefs converts a preferences spreadsheet export into solver
// rosters, one per course/semester pair.
package prefs

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/courseforge/projmatch/internal/roster"
)

// Column headers expected in the preferences CSV.
const (
	colBUID               = "BUID"
	colFullName           = "Full Name"
	colCourse             = "Course"
	colSemester           = "Semester"
	colSection            = "Discussion Section"
	colAdditionalSections = "Additional Discussion Section Availability"
)

// choiceColumns in rank order; blank cells are skipped.
var choiceColumns = []string{
	"1st Choice Project",
	"2nd Choice Project",
	"3rd Choice Project",
	"4th Choice Project",
	"5th Choice Project",
}

// CourseRoster is one converted roster with the course/semester it belongs to.
type CourseRoster struct {
	Course   string
	Semester string
	Roster   *roster.Roster
}

// Converter turns preference CSV rows into rosters.
type Converter struct {
	// Capacity applied to every project found in the sheet. The export has
	// no per-project capacity column.
	Capacity int
	// Options copied into every produced roster.
	Options roster.Options
}

// NewConverter creates a converter with the standard capacity and options.
func NewConverter() *Converter {
	return &Converter{
		Capacity: roster.DefaultProjectCapacity,
		Options:  roster.DefaultOptions(),
	}
}

// Convert reads the whole CSV and produces one roster per course/semester
// pair, ordered by course then semester. Rows with a blank course or
// semester are skipped.
func (c *Converter) Convert(r io.Reader) ([]CourseRoster, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colBUID, colFullName, colCourse, colSemester} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("CSV missing required column %q", required)
		}
	}

	type group struct {
		students []roster.Student
		projects map[string]bool
	}
	groups := make(map[[2]string]*group)

	cell := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row: %w", err)
		}

		course := cell(record, colCourse)
		semester := cell(record, colSemester)
		if course == "" || semester == "" {
			continue
		}

		buid := cell(record, colBUID)
		student := roster.Student{
			// BUID doubles as prefId: unique per student in the export.
			PrefID:      buid,
			BUID:        buid,
			StudentName: cell(record, colFullName),
			SectionID:   cell(record, colSection),
			SectionIDs:  splitSections(cell(record, colAdditionalSections)),
		}

		key := [2]string{course, semester}
		g, ok := groups[key]
		if !ok {
			g = &group{projects: make(map[string]bool)}
			groups[key] = g
		}

		for rank, col := range choiceColumns {
			proj := cell(record, col)
			if proj == "" {
				continue
			}
			g.projects[proj] = true
			student.Choices = append(student.Choices, roster.Choice{
				ProjectID:   proj,
				ProjectName: proj,
				Rank:        rank + 1,
			})
		}

		g.students = append(g.students, student)
	}

	out := make([]CourseRoster, 0, len(groups))
	for key, g := range groups {
		capacities := make(map[string]int, len(g.projects))
		for proj := range g.projects {
			capacities[proj] = c.Capacity
		}
		out = append(out, CourseRoster{
			Course:   key[0],
			Semester: key[1],
			Roster: &roster.Roster{
				Students:   g.students,
				Capacities: capacities,
				Options:    c.Options,
			},
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Course != out[j].Course {
			return out[i].Course < out[j].Course
		}
		return out[i].Semester < out[j].Semester
	})
	return out, nil
}

// splitSections splits the comma-separated additional-availability cell.
func splitSections(raw string) []string {
	var secs []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			secs = append(secs, s)
		}
	}
	return secs
}

// FileName is the output file name for a converted roster.
func FileName(course, semester string) string {
	safeCourse := strings.ReplaceAll(course, "/", "_")
	safeSemester := strings.ReplaceAll(semester, " ", "_")
	return safeCourse + "__" + safeSemester + ".json"
}
