package solver

import (
	"testing"

	"github.com/courseforge/projmatch/internal/roster"
)

func student(prefID string, sections []string, choices ...roster.Choice) roster.Student {
	var primary string
	var extra []string
	if len(sections) > 0 {
		primary = sections[0]
		extra = sections[1:]
	}
	return roster.Student{
		PrefID:      prefID,
		BUID:        prefID,
		StudentName: "Student " + prefID,
		Choices:     choices,
		SectionID:   primary,
		SectionIDs:  extra,
	}
}

func choice(projectID string, rank int) roster.Choice {
	return roster.Choice{ProjectID: projectID, ProjectName: projectID, Rank: rank}
}

func assignedProject(t *testing.T, res *Result, prefID string) Assigned {
	t.Helper()
	for _, a := range res.Assigned {
		if a.PrefID == prefID {
			return a
		}
	}
	t.Fatalf("student %s not assigned; unassigned = %+v", prefID, res.Unassigned)
	return Assigned{}
}

func TestSolve_EveryoneGetsFirstChoice(t *testing.T) {
	ro := &roster.Roster{
		Students: []roster.Student{
			student("s1", nil, choice("p1", 1), choice("p2", 2)),
			student("s2", nil, choice("p2", 1), choice("p1", 2)),
		},
		Capacities: map[string]int{"p1": 8, "p2": 8},
		Options:    roster.Options{},
	}

	res, err := Solve(ro)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if len(res.Assigned) != 2 || len(res.Unassigned) != 0 {
		t.Fatalf("assigned=%d unassigned=%d, want 2/0", len(res.Assigned), len(res.Unassigned))
	}
	if a := assignedProject(t, res, "s1"); a.ProjectID != "p1" || a.Rank != 1 {
		t.Fatalf("s1 assigned %s rank %d, want p1 rank 1", a.ProjectID, a.Rank)
	}
	if a := assignedProject(t, res, "s2"); a.ProjectID != "p2" || a.Rank != 1 {
		t.Fatalf("s2 assigned %s rank %d, want p2 rank 1", a.ProjectID, a.Rank)
	}
	if res.TotalCost == nil || *res.TotalCost != 4 {
		t.Fatalf("TotalCost = %v, want 4", res.TotalCost)
	}
}

func TestSolve_CapacityContentionPrefersGlobalOptimum(t *testing.T) {
	// s1 can only take p1. s2 prefers p1 but has a fallback. The optimal
	// solution routes s2 to its second choice instead of dropping s1.
	ro := &roster.Roster{
		Students: []roster.Student{
			student("s1", nil, choice("p1", 1)),
			student("s2", nil, choice("p1", 1), choice("p2", 2)),
		},
		Capacities: map[string]int{"p1": 1, "p2": 1},
		Options:    roster.Options{},
	}

	res, err := Solve(ro)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if len(res.Unassigned) != 0 {
		t.Fatalf("unassigned = %+v, want none", res.Unassigned)
	}
	if a := assignedProject(t, res, "s1"); a.ProjectID != "p1" {
		t.Fatalf("s1 assigned %s, want p1", a.ProjectID)
	}
	if a := assignedProject(t, res, "s2"); a.ProjectID != "p2" || a.Rank != 2 {
		t.Fatalf("s2 assigned %s rank %d, want p2 rank 2", a.ProjectID, a.Rank)
	}
}

func TestSolve_OverflowBecomesUnassignedWithReason(t *testing.T) {
	ro := &roster.Roster{
		Students: []roster.Student{
			student("s1", nil, choice("p1", 1)),
			student("s2", nil, choice("p1", 1)),
		},
		Capacities: map[string]int{"p1": 1},
		Options:    roster.Options{},
	}

	res, err := Solve(ro)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if len(res.Assigned) != 1 || len(res.Unassigned) != 1 {
		t.Fatalf("assigned=%d unassigned=%d, want 1/1", len(res.Assigned), len(res.Unassigned))
	}
	if res.Unassigned[0].Reason != ReasonNoCapacity {
		t.Fatalf("reason = %q, want %q", res.Unassigned[0].Reason, ReasonNoCapacity)
	}
	// One weight-1 assignment minus one penalty of 2*1+1.
	if res.TotalCost == nil || *res.TotalCost != -2 {
		t.Fatalf("TotalCost = %v, want -2", res.TotalCost)
	}
}

func TestSolve_UndersizedProjectIsClosed(t *testing.T) {
	ro := &roster.Roster{
		Students: []roster.Student{
			student("s1", nil, choice("p1", 1)),
			student("s2", nil, choice("p1", 1)),
		},
		Capacities: map[string]int{"p1": 8},
		Options:    roster.Options{MinTeamSize: 4},
	}

	res, err := Solve(ro)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if len(res.Assigned) != 0 || len(res.Unassigned) != 2 {
		t.Fatalf("assigned=%d unassigned=%d, want 0/2 (team below minimum)", len(res.Assigned), len(res.Unassigned))
	}
}

func TestSolve_MinimumWaivedForSmallCapacityProjects(t *testing.T) {
	// minTeamSize >= capacity waives the minimum for that project.
	ro := &roster.Roster{
		Students: []roster.Student{
			student("s1", nil, choice("p1", 1)),
			student("s2", nil, choice("p1", 1)),
		},
		Capacities: map[string]int{"p1": 3},
		Options:    roster.Options{MinTeamSize: 4},
	}

	res, err := Solve(ro)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if len(res.Assigned) != 2 {
		t.Fatalf("assigned=%d, want 2", len(res.Assigned))
	}
}

func TestSolve_ClosingOneProjectReroutesStudents(t *testing.T) {
	// Three students on p1 and one on p2 with minTeamSize 3: p2 is closed
	// and its student falls back to p1.
	ro := &roster.Roster{
		Students: []roster.Student{
			student("s1", nil, choice("p1", 1)),
			student("s2", nil, choice("p1", 1)),
			student("s3", nil, choice("p1", 1)),
			student("s4", nil, choice("p2", 1), choice("p1", 2)),
		},
		Capacities: map[string]int{"p1": 8, "p2": 8},
		Options:    roster.Options{MinTeamSize: 3},
	}

	res, err := Solve(ro)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if len(res.Unassigned) != 0 {
		t.Fatalf("unassigned = %+v, want none", res.Unassigned)
	}
	if a := assignedProject(t, res, "s4"); a.ProjectID != "p1" || a.Rank != 2 {
		t.Fatalf("s4 assigned %s rank %d, want p1 rank 2", a.ProjectID, a.Rank)
	}
}

func TestSolve_SectionModeDropsSectionlessStudents(t *testing.T) {
	ro := &roster.Roster{
		Students: []roster.Student{
			student("s1", []string{"A"}, choice("p1", 1)),
			student("s2", nil, choice("p1", 1)),
		},
		Capacities: map[string]int{"p1": 8},
		Options:    roster.Options{MaxSectionsPerTeam: 2, SwapPasses: 2},
	}

	res, err := Solve(ro)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if a := assignedProject(t, res, "s1"); a.ProjectID != "p1" {
		t.Fatalf("s1 assigned %s, want p1", a.ProjectID)
	}
	if len(res.Unassigned) != 1 || res.Unassigned[0].PrefID != "s2" {
		t.Fatalf("unassigned = %+v, want s2 only", res.Unassigned)
	}
}

func TestSolve_SectionRepairMovesStudentToLaterChoice(t *testing.T) {
	// p1 can use one section; two students sit in A, one in B. The B
	// student has a fallback project and is moved there.
	ro := &roster.Roster{
		Students: []roster.Student{
			student("s1", []string{"A"}, choice("p1", 1)),
			student("s2", []string{"A"}, choice("p1", 1)),
			student("s3", []string{"B"}, choice("p1", 1), choice("p2", 2)),
		},
		Capacities: map[string]int{"p1": 8, "p2": 8},
		Options:    roster.Options{MaxSectionsPerTeam: 1, SwapPasses: 2},
	}

	res, err := Solve(ro)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if len(res.Unassigned) != 0 {
		t.Fatalf("unassigned = %+v, want none", res.Unassigned)
	}
	if a := assignedProject(t, res, "s3"); a.ProjectID != "p2" || a.Rank != 2 {
		t.Fatalf("s3 assigned %s rank %d, want p2 rank 2", a.ProjectID, a.Rank)
	}
}

func TestSolve_SectionRepairDropsStudentWithoutAlternatives(t *testing.T) {
	ro := &roster.Roster{
		Students: []roster.Student{
			student("s1", []string{"A"}, choice("p1", 1)),
			student("s2", []string{"A"}, choice("p1", 1)),
			student("s3", []string{"B"}, choice("p1", 1)),
		},
		Capacities: map[string]int{"p1": 8},
		Options:    roster.Options{MaxSectionsPerTeam: 1, SwapPasses: 2},
	}

	res, err := Solve(ro)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if len(res.Assigned) != 2 || len(res.Unassigned) != 1 {
		t.Fatalf("assigned=%d unassigned=%d, want 2/1", len(res.Assigned), len(res.Unassigned))
	}
	if res.Unassigned[0].PrefID != "s3" || res.Unassigned[0].Reason != ReasonNoCapacity {
		t.Fatalf("unassigned = %+v, want s3 with capacity reason", res.Unassigned[0])
	}
}

func TestSolve_SectionLimitDefaultsToOnePerTeam(t *testing.T) {
	// Options that set only minTeamSize still allow one section per team;
	// a zero MaxSectionsPerTeam must not drop every sectioned student.
	ro := &roster.Roster{
		Students: []roster.Student{
			student("s1", []string{"A"}, choice("p1", 1)),
			student("s2", []string{"A"}, choice("p1", 1)),
		},
		Capacities: map[string]int{"p1": 8},
		Options:    roster.Options{MinTeamSize: 1},
	}

	res, err := Solve(ro)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if len(res.Assigned) != 2 || len(res.Unassigned) != 0 {
		t.Fatalf("assigned=%d unassigned=%d, want 2/0", len(res.Assigned), len(res.Unassigned))
	}
	for _, prefID := range []string{"s1", "s2"} {
		if a := assignedProject(t, res, prefID); a.ProjectID != "p1" || a.Rank != 1 {
			t.Fatalf("%s assigned %s rank %d, want p1 rank 1", prefID, a.ProjectID, a.Rank)
		}
	}
}

func TestSolve_EmptyRoster(t *testing.T) {
	ro := &roster.Roster{
		Students:   []roster.Student{},
		Capacities: map[string]int{},
		Options:    roster.Options{},
	}
	res, err := Solve(ro)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if len(res.Assigned) != 0 || len(res.Unassigned) != 0 {
		t.Fatalf("result = %+v, want empty", res)
	}
	if res.TotalCost == nil || *res.TotalCost != 0 {
		t.Fatalf("TotalCost = %v, want 0", res.TotalCost)
	}
}

func TestMinCostFlow_PrefersCheaperPath(t *testing.T) {
	// Two disjoint unit paths with different costs; one unit takes the
	// cheaper one.
	g := newFlowGraph(4)
	g.addEdge(0, 1, 1, 5)
	g.addEdge(0, 2, 1, 1)
	g.addEdge(1, 3, 1, 0)
	g.addEdge(2, 3, 1, 0)

	flow, cost := g.minCostFlow(0, 3, 1)
	if flow != 1 || cost != 1 {
		t.Fatalf("flow=%d cost=%d, want 1/1", flow, cost)
	}
}

func TestMinCostFlow_HandlesNegativeCosts(t *testing.T) {
	g := newFlowGraph(3)
	g.addEdge(0, 1, 2, -3)
	g.addEdge(1, 2, 1, 0)

	flow, cost := g.minCostFlow(0, 2, 5)
	if flow != 1 || cost != -3 {
		t.Fatalf("flow=%d cost=%d, want 1/-3", flow, cost)
	}
}
