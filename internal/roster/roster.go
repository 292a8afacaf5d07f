// Package roster defines the assignment input format: students with ranked
// project choices, per-project capacities, and solver options.
package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Default option values applied when the input leaves them unset.
const (
	DefaultTeamSizeTarget     = 8
	DefaultMinTeamSize        = 4
	DefaultMaxSectionsPerTeam = 2
	DefaultSwapPasses         = 2
	DefaultProjectCapacity    = 24
)

// Choice is one ranked project preference. Rank 1 is the first choice.
type Choice struct {
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Rank        int    `json:"rank"`
}

// Student is one preference submission.
type Student struct {
	PrefID      string   `json:"prefId"`
	BUID        string   `json:"buid"`
	StudentName string   `json:"studentName"`
	Choices     []Choice `json:"choices"`
	SectionID   string   `json:"sectionId,omitempty"`
	SectionIDs  []string `json:"sectionIds,omitempty"`
}

// Sections returns every discussion section the student can attend: the
// primary section first, then the additional ones.
func (s *Student) Sections() []string {
	var secs []string
	if s.SectionID != "" {
		secs = append(secs, s.SectionID)
	}
	secs = append(secs, s.SectionIDs...)
	return secs
}

// Options tunes the solver.
type Options struct {
	TeamSizeTarget     int `json:"teamSizeTarget"`
	MinTeamSize        int `json:"minTeamSize"`
	MaxSectionsPerTeam int `json:"maxSectionsPerTeam"`
	SwapPasses         int `json:"swapPasses"`
}

// DefaultOptions returns the standard solver options.
func DefaultOptions() Options {
	return Options{
		TeamSizeTarget:     DefaultTeamSizeTarget,
		MinTeamSize:        DefaultMinTeamSize,
		MaxSectionsPerTeam: DefaultMaxSectionsPerTeam,
		SwapPasses:         DefaultSwapPasses,
	}
}

// Roster is the full solver input for one course offering.
type Roster struct {
	Students   []Student      `json:"students"`
	Capacities map[string]int `json:"capacities"`
	Options    Options        `json:"options"`
}

var (
	// ErrIncomplete indicates the input is missing one of the required
	// top-level sections (students, capacities, options).
	ErrIncomplete = errors.New("input data doesn't have all information needed")
)

// Decode reads a roster from JSON, requiring all three top-level keys to be
// present the way the original stdin format does.
func Decode(r io.Reader) (*Roster, error) {
	var raw struct {
		Students   *[]Student      `json:"students"`
		Capacities *map[string]int `json:"capacities"`
		Options    *Options        `json:"options"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	if raw.Students == nil || raw.Capacities == nil || raw.Options == nil {
		return nil, ErrIncomplete
	}

	ro := &Roster{
		Students:   *raw.Students,
		Capacities: *raw.Capacities,
		Options:    *raw.Options,
	}
	if err := ro.Validate(); err != nil {
		return nil, err
	}
	return ro, nil
}

// Validate checks structural sanity: every choice must name a project and
// carry a positive rank, and every chosen project should have a capacity
// entry so the solver can bound it.
func (ro *Roster) Validate() error {
	if ro.Students == nil || ro.Capacities == nil {
		return ErrIncomplete
	}
	for _, s := range ro.Students {
		if s.PrefID == "" {
			return fmt.Errorf("student %q: missing prefId", s.StudentName)
		}
		for _, c := range s.Choices {
			if c.ProjectID == "" {
				return fmt.Errorf("student %s: choice with empty projectId", s.PrefID)
			}
			if c.Rank <= 0 {
				return fmt.Errorf("student %s: choice %s has non-positive rank %d", s.PrefID, c.ProjectID, c.Rank)
			}
		}
	}
	return nil
}

// ProjectNames returns the display name for each project id, falling back to
// the id itself when no choice carries a name for it.
func (ro *Roster) ProjectNames() map[string]string {
	names := make(map[string]string, len(ro.Capacities))
	for id := range ro.Capacities {
		names[id] = id
	}
	for _, s := range ro.Students {
		for _, c := range s.Choices {
			if c.ProjectName != "" {
				names[c.ProjectID] = c.ProjectName
			}
		}
	}
	return names
}
