package transform

import "github.com/matzehuels/archgraph/pkg/dag"

type visit uint8

const (
	unseen visit = iota
	onStack
	done
)

// BreakCycles removes the back edges of a depth-first search and returns
// them in the order [dag.DAG.Edges] lists them. Afterwards g is acyclic.
//
// The search roots are the source nodes first, then every node still
// unvisited, both in insertion order, so the same graph always loses the
// same edges. An edge into a node that is still on the search stack closes
// a cycle; a self-loop is the shortest such edge.
func BreakCycles(g *dag.DAG) []dag.Edge {
	state := make(map[string]visit, g.NodeCount())
	closing := make(map[dag.Edge]bool)

	var walk func(id string)
	walk = func(id string) {
		state[id] = onStack
		for _, next := range g.Children(id) {
			switch state[next] {
			case unseen:
				walk(next)
			case onStack:
				closing[dag.Edge{From: id, To: next}] = true
			}
		}
		state[id] = done
	}
	roots := append(g.Sources(), g.Nodes()...)
	for _, n := range roots {
		if state[n.ID] == unseen {
			walk(n.ID)
		}
	}
	if len(closing) == 0 {
		return nil
	}

	var removed []dag.Edge
	for _, e := range g.Edges() {
		if closing[e] {
			removed = append(removed, e)
		}
	}
	for _, e := range removed {
		g.RemoveEdge(e.From, e.To)
	}
	return removed
}

// ReverseEdges adds each edge back pointing the other way and returns the
// ones it added, still in their original orientation. Self-loops and edges
// whose reverse is already present are skipped.
func ReverseEdges(g *dag.DAG, edges []dag.Edge) []dag.Edge {
	var added []dag.Edge
	for _, e := range edges {
		if e.From == e.To || g.HasEdge(e.To, e.From) {
			continue
		}
		if g.AddEdge(dag.Edge{From: e.To, To: e.From}) == nil {
			added = append(added, e)
		}
	}
	return added
}
