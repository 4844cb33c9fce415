package transform

import "github.com/matzehuels/archgraph/pkg/dag"

// AssignLayers puts every node one row below its deepest parent, so sources
// land on row 0 and each edge points strictly downward. Rows already on the
// nodes are overwritten.
//
// The graph must be acyclic; nodes that sit on a cycle are missing from the
// topological order and end up on row 0. Run [BreakCycles] first.
func AssignLayers(g *dag.DAG) {
	depth := make(map[string]int, g.NodeCount())
	for _, n := range g.Nodes() {
		depth[n.ID] = 0
	}
	// Parents come before children in a topological order, so each node's
	// depth is final by the time it is visited.
	for _, id := range g.TopoOrder() {
		below := depth[id] + 1
		for _, child := range g.Children(id) {
			depth[child] = max(depth[child], below)
		}
	}
	g.SetRows(depth)
}
