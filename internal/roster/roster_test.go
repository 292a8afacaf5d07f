package roster

import (
	"errors"
	"strings"
	"testing"
)

const validInput = `{
  "students": [
    {"prefId": "U1", "buid": "U1", "studentName": "Ada",
     "choices": [{"projectId": "p1", "projectName": "Apollo", "rank": 1}],
     "sectionId": "A1", "sectionIds": ["A2", "A3"]}
  ],
  "capacities": {"p1": 8},
  "options": {"teamSizeTarget": 8, "minTeamSize": 4, "maxSectionsPerTeam": 2, "swapPasses": 2}
}`

func TestDecode_Valid(t *testing.T) {
	ro, err := Decode(strings.NewReader(validInput))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(ro.Students) != 1 {
		t.Fatalf("Students length = %d, want 1", len(ro.Students))
	}
	if ro.Capacities["p1"] != 8 {
		t.Fatalf("Capacities[p1] = %d, want 8", ro.Capacities["p1"])
	}
	if ro.Options.MinTeamSize != 4 {
		t.Fatalf("MinTeamSize = %d, want 4", ro.Options.MinTeamSize)
	}
}

func TestDecode_MissingSections(t *testing.T) {
	inputs := []string{
		`{"capacities": {}, "options": {}}`,
		`{"students": [], "options": {}}`,
		`{"students": [], "capacities": {}}`,
	}
	for _, in := range inputs {
		if _, err := Decode(strings.NewReader(in)); !errors.Is(err, ErrIncomplete) {
			t.Fatalf("Decode(%s) error = %v, want ErrIncomplete", in, err)
		}
	}
}

func TestDecode_InvalidChoice(t *testing.T) {
	in := `{
	  "students": [{"prefId": "U1", "buid": "U1", "studentName": "Ada",
	    "choices": [{"projectId": "", "projectName": "x", "rank": 1}]}],
	  "capacities": {}, "options": {}
	}`
	if _, err := Decode(strings.NewReader(in)); err == nil {
		t.Fatal("Decode should reject a choice with empty projectId")
	}
}

func TestStudent_Sections(t *testing.T) {
	s := Student{SectionID: "A1", SectionIDs: []string{"A2", "A3"}}
	got := s.Sections()
	want := []string{"A1", "A2", "A3"}
	if len(got) != len(want) {
		t.Fatalf("Sections = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sections = %v, want %v", got, want)
		}
	}

	none := Student{}
	if secs := none.Sections(); len(secs) != 0 {
		t.Fatalf("Sections of sectionless student = %v, want empty", secs)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.TeamSizeTarget != 8 || opts.MinTeamSize != 4 || opts.MaxSectionsPerTeam != 2 || opts.SwapPasses != 2 {
		t.Fatalf("DefaultOptions = %+v", opts)
	}
}

func TestProjectNames(t *testing.T) {
	ro, err := Decode(strings.NewReader(validInput))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	names := ro.ProjectNames()
	if names["p1"] != "Apollo" {
		t.Fatalf("ProjectNames[p1] = %q, want Apollo", names["p1"])
	}
}
