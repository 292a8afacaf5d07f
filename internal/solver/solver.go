// Package solver assigns students to projects from their ranked choices.
//
// The assignment with capacities and unassignment penalties is solved
// exactly as a min-cost max-flow. Minimum team size is enforced by closing
// undersized projects and re-solving; discussion-section limits are enforced
// by a bounded number of repair passes over the flow solution.
package solver

import (
	"sort"

	"github.com/courseforge/projmatch/internal/roster"
)

// ReasonNoCapacity explains a student left without any workable choice.
const ReasonNoCapacity = "No available capacity for ranked choices"

// Assigned is one student placed on a project.
type Assigned struct {
	PrefID      string `json:"prefId"`
	BUID        string `json:"buid"`
	StudentName string `json:"studentName"`
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Rank        int    `json:"rank"`
}

// Unassigned is one student the solver could not place.
type Unassigned struct {
	PrefID      string `json:"prefId"`
	BUID        string `json:"buid"`
	StudentName string `json:"studentName"`
	Reason      string `json:"reason"`
}

// Result is the solver output. TotalCost is the objective value: total
// preference score minus the penalty for each unassigned student. It is
// null only when no solution was computed.
type Result struct {
	Assigned   []Assigned   `json:"assigned"`
	Unassigned []Unassigned `json:"unassigned"`
	TotalCost  *float64     `json:"totalCost"`
}

// candidate is one feasible (student, project) pairing with its score weight.
type candidate struct {
	projectID   string
	projectName string
	rank        int
	weight      int
}

// Solve computes an assignment for the roster.
func Solve(ro *roster.Roster) (*Result, error) {
	if err := ro.Validate(); err != nil {
		return nil, err
	}

	// Options may arrive partially filled; an unset section limit means
	// one section per team, not zero.
	opts := ro.Options
	if opts.MaxSectionsPerTeam <= 0 {
		opts.MaxSectionsPerTeam = 1
	}

	if len(ro.Students) == 0 {
		zero := 0.0
		return &Result{Assigned: []Assigned{}, Unassigned: []Unassigned{}, TotalCost: &zero}, nil
	}

	// Preference weight: first choice of a five-item list scores 5, the
	// fifth scores 1. Weights depend on each student's own list length.
	maxWeight := 0
	candidates := make(map[string][]candidate, len(ro.Students))
	for i := range ro.Students {
		s := &ro.Students[i]
		if len(s.Choices) > maxWeight {
			maxWeight = len(s.Choices)
		}
		seen := make(map[string]bool, len(s.Choices))
		for _, c := range s.Choices {
			if seen[c.ProjectID] {
				continue
			}
			seen[c.ProjectID] = true
			if _, ok := ro.Capacities[c.ProjectID]; !ok {
				continue
			}
			candidates[s.PrefID] = append(candidates[s.PrefID], candidate{
				projectID:   c.ProjectID,
				projectName: c.ProjectName,
				rank:        c.Rank,
				weight:      len(s.Choices) - c.Rank + 1,
			})
		}
	}
	penalty := len(ro.Students)*maxWeight + 1

	// With sections in play a student who listed none can never be placed:
	// each assignment must occupy exactly one of the student's sections.
	sectionMode := false
	for i := range ro.Students {
		if len(ro.Students[i].Sections()) > 0 {
			sectionMode = true
			break
		}
	}
	eligible := make([]*roster.Student, 0, len(ro.Students))
	for i := range ro.Students {
		s := &ro.Students[i]
		if sectionMode && len(s.Sections()) == 0 {
			continue
		}
		eligible = append(eligible, s)
	}

	caps := make(map[string]int, len(ro.Capacities))
	for p, c := range ro.Capacities {
		caps[p] = c
	}

	// Closing a project and re-solving mirrors the ILP's y-variables: a
	// used project either meets the minimum team size or takes no one.
	var assignment map[string]candidate
	for {
		assignment = solveFlow(eligible, candidates, caps, penalty)

		violating := ""
		violatingCount := 0
		for _, p := range sortedProjects(caps) {
			count := 0
			for _, c := range assignment {
				if c.projectID == p {
					count++
				}
			}
			min := effectiveMin(opts.MinTeamSize, ro.Capacities[p])
			if count > 0 && count < min {
				if violating == "" || count < violatingCount {
					violating = p
					violatingCount = count
				}
			}
		}
		if violating == "" {
			break
		}
		caps[violating] = 0
	}

	if sectionMode {
		dropped := repairSections(assignment, eligible, caps, opts)
		for _, prefID := range dropped {
			delete(assignment, prefID)
		}
	}

	// Assemble output in input order, as the original does.
	result := &Result{Assigned: []Assigned{}, Unassigned: []Unassigned{}}
	score := 0
	for i := range ro.Students {
		s := &ro.Students[i]
		if c, ok := assignment[s.PrefID]; ok {
			score += c.weight
			result.Assigned = append(result.Assigned, Assigned{
				PrefID:      s.PrefID,
				BUID:        s.BUID,
				StudentName: s.StudentName,
				ProjectID:   c.projectID,
				ProjectName: c.projectName,
				Rank:        c.rank,
			})
			continue
		}
		result.Unassigned = append(result.Unassigned, Unassigned{
			PrefID:      s.PrefID,
			BUID:        s.BUID,
			StudentName: s.StudentName,
			Reason:      ReasonNoCapacity,
		})
	}

	total := float64(score - penalty*len(result.Unassigned))
	result.TotalCost = &total
	return result, nil
}

// effectiveMin waives the minimum when it meets or exceeds the project's
// capacity, matching the original model.
func effectiveMin(minTeamSize, capacity int) int {
	if minTeamSize >= capacity {
		return 0
	}
	return minTeamSize
}

// solveFlow solves the capacity assignment exactly, ignoring minimum team
// size and sections. Returns the chosen candidate per assigned prefId.
func solveFlow(students []*roster.Student, candidates map[string][]candidate, caps map[string]int, penalty int) map[string]candidate {
	projects := sortedProjects(caps)
	projectNode := make(map[string]int, len(projects))

	// Node layout: source, students, projects, sink.
	source := 0
	sink := 1 + len(students) + len(projects)
	for i, p := range projects {
		projectNode[p] = 1 + len(students) + i
	}

	g := newFlowGraph(sink + 1)
	for i, s := range students {
		sNode := 1 + i
		g.addEdge(source, sNode, 1, 0)
		// Staying unassigned is always available, at the penalty cost.
		g.addEdge(sNode, sink, 1, penalty)
		for _, c := range candidates[s.PrefID] {
			if caps[c.projectID] <= 0 {
				continue
			}
			g.addEdge(sNode, projectNode[c.projectID], 1, -c.weight)
		}
	}
	for _, p := range projects {
		if caps[p] > 0 {
			g.addEdge(projectNode[p], sink, caps[p], 0)
		}
	}

	g.minCostFlow(source, sink, len(students))

	assignment := make(map[string]candidate)
	for i, s := range students {
		sNode := 1 + i
		for _, e := range g.edges[sNode] {
			if e.to == source || e.to == sink || e.cap != 0 {
				continue
			}
			// A saturated student→project edge carries this student.
			p := projects[e.to-1-len(students)]
			for _, c := range candidates[s.PrefID] {
				if c.projectID == p {
					assignment[s.PrefID] = c
					break
				}
			}
			break
		}
	}
	return assignment
}

func sortedProjects(caps map[string]int) []string {
	projects := make([]string, 0, len(caps))
	for p := range caps {
		projects = append(projects, p)
	}
	sort.Strings(projects)
	return projects
}
