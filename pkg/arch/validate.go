package arch

import (
	"fmt"
	"slices"
)

// GroupProblem describes one inconsistency in the group containment tree.
type GroupProblem struct {
	GroupID string
	Reason  string
}

func (p GroupProblem) String() string { return fmt.Sprintf("%s: %s", p.GroupID, p.Reason) }

// ValidateGroups reports unresolved child references, unknown parents and
// containment cycles. It never modifies g. Builder.Build does not call it;
// scanners produce tree-shaped groups and callers decide whether problems
// matter to them.
func ValidateGroups(g ArchitectureGraph) []GroupProblem {
	known := make(map[string]bool, len(g.Nodes)+len(g.Groups))
	for _, n := range g.Nodes {
		known[n.ID] = true
	}
	groups := make(map[string]LogicalGroup, len(g.Groups))
	for _, grp := range g.Groups {
		known[grp.ID] = true
		groups[grp.ID] = grp
	}

	var problems []GroupProblem
	for _, grp := range g.Groups {
		for _, child := range grp.Children {
			if !known[child] {
				problems = append(problems, GroupProblem{grp.ID, fmt.Sprintf("unresolved child %q", child)})
			}
		}
		if grp.Parent != "" {
			if _, ok := groups[grp.Parent]; !ok {
				problems = append(problems, GroupProblem{grp.ID, fmt.Sprintf("unknown parent %q", grp.Parent)})
			}
		}
	}

	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(groups))
	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		for _, child := range containedGroups(groups, id) {
			switch color[child] {
			case gray:
				return true
			case white:
				if visit(child) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}
	for _, grp := range g.Groups {
		if color[grp.ID] == white && visit(grp.ID) {
			problems = append(problems, GroupProblem{grp.ID, "containment cycle"})
		}
	}
	return problems
}

// containedGroups lists the groups nested in id, either as declared children
// or through their Parent field.
func containedGroups(groups map[string]LogicalGroup, id string) []string {
	var out []string
	for _, child := range groups[id].Children {
		if _, ok := groups[child]; ok {
			out = append(out, child)
		}
	}
	for gid, grp := range groups {
		if grp.Parent == id && !slices.Contains(out, gid) {
			out = append(out, gid)
		}
	}
	slices.Sort(out)
	return out
}
