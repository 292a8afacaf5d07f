package solver

import (
	"sort"

	"github.com/courseforge/projmatch/internal/roster"
)

// repairSections makes the flow solution respect discussion sections: every
// assigned student must share one of a project's chosen sections, and a
// project uses at most Options.MaxSectionsPerTeam sections. Students who
// cannot be covered are moved to a later choice with room in a compatible
// section; after Options.SwapPasses passes the stragglers are dropped.
// Returns the prefIds to unassign. The assignment map is mutated in place.
func repairSections(assignment map[string]candidate, students []*roster.Student, caps map[string]int, opts roster.Options) []string {
	byPrefID := make(map[string]*roster.Student, len(students))
	for _, s := range students {
		byPrefID[s.PrefID] = s
	}

	passes := opts.SwapPasses
	if passes < 0 {
		passes = 0
	}

	for pass := 0; ; pass++ {
		chosen := chooseProjectSections(assignment, byPrefID, opts.MaxSectionsPerTeam)
		uncovered := uncoveredStudents(assignment, byPrefID, chosen)
		if len(uncovered) == 0 {
			return nil
		}
		if pass >= passes {
			return uncovered
		}

		moved := false
		counts := projectCounts(assignment)
		for _, prefID := range uncovered {
			s := byPrefID[prefID]
			current := assignment[prefID]
			for _, c := range orderedCandidates(s, caps) {
				if c.projectID == current.projectID {
					continue
				}
				if counts[c.projectID] >= caps[c.projectID] {
					continue
				}
				if !sectionFits(s, chosen[c.projectID], counts[c.projectID], opts.MaxSectionsPerTeam) {
					continue
				}
				counts[current.projectID]--
				counts[c.projectID]++
				assignment[prefID] = c
				moved = true
				break
			}
		}
		if !moved {
			// No candidate move exists; further passes cannot help.
			chosen = chooseProjectSections(assignment, byPrefID, opts.MaxSectionsPerTeam)
			return uncoveredStudents(assignment, byPrefID, chosen)
		}
	}
}

// orderedCandidates lists a student's open choices in rank order.
func orderedCandidates(s *roster.Student, caps map[string]int) []candidate {
	var out []candidate
	seen := make(map[string]bool, len(s.Choices))
	for _, c := range s.Choices {
		if seen[c.ProjectID] || caps[c.ProjectID] <= 0 {
			continue
		}
		seen[c.ProjectID] = true
		out = append(out, candidate{
			projectID:   c.ProjectID,
			projectName: c.ProjectName,
			rank:        c.Rank,
			weight:      len(s.Choices) - c.Rank + 1,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].rank < out[j].rank })
	return out
}

// sectionFits reports whether a student can join a project given its chosen
// sections: either one of the student's sections is already in use there, or
// the project is empty and still free to pick its sections.
func sectionFits(s *roster.Student, chosen map[string]bool, members, maxSections int) bool {
	if members == 0 {
		return maxSections > 0
	}
	for _, sec := range s.Sections() {
		if chosen[sec] {
			return true
		}
	}
	return len(chosen) < maxSections
}

// chooseProjectSections picks up to maxSections sections per project,
// greedily taking the section covering the most still-uncovered members.
func chooseProjectSections(assignment map[string]candidate, byPrefID map[string]*roster.Student, maxSections int) map[string]map[string]bool {
	members := make(map[string][]string)
	for prefID, c := range assignment {
		members[c.projectID] = append(members[c.projectID], prefID)
	}

	chosen := make(map[string]map[string]bool, len(members))
	for projectID, prefIDs := range members {
		sort.Strings(prefIDs)
		covered := make(map[string]bool, len(prefIDs))
		picked := make(map[string]bool)
		for len(picked) < maxSections {
			counts := make(map[string]int)
			for _, prefID := range prefIDs {
				if covered[prefID] {
					continue
				}
				for _, sec := range byPrefID[prefID].Sections() {
					if !picked[sec] {
						counts[sec]++
					}
				}
			}
			best := ""
			for sec, n := range counts {
				if n == 0 {
					continue
				}
				if best == "" || n > counts[best] || (n == counts[best] && sec < best) {
					best = sec
				}
			}
			if best == "" {
				break
			}
			picked[best] = true
			for _, prefID := range prefIDs {
				if covered[prefID] {
					continue
				}
				for _, sec := range byPrefID[prefID].Sections() {
					if sec == best {
						covered[prefID] = true
						break
					}
				}
			}
		}
		chosen[projectID] = picked
	}
	return chosen
}

// uncoveredStudents lists, in stable order, assigned students whose sections
// miss all of their project's chosen sections.
func uncoveredStudents(assignment map[string]candidate, byPrefID map[string]*roster.Student, chosen map[string]map[string]bool) []string {
	var out []string
	for prefID, c := range assignment {
		s := byPrefID[prefID]
		fits := false
		for _, sec := range s.Sections() {
			if chosen[c.projectID][sec] {
				fits = true
				break
			}
		}
		if !fits {
			out = append(out, prefID)
		}
	}
	sort.Strings(out)
	return out
}

// projectCounts tallies current members per project.
func projectCounts(assignment map[string]candidate) map[string]int {
	counts := make(map[string]int)
	for _, c := range assignment {
		counts[c.projectID]++
	}
	return counts
}
