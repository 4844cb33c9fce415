package transform

import "github.com/matzehuels/archgraph/pkg/dag"

// Result summarizes what [Normalize] changed.
type Result struct {
	// Removed holds every back-edge taken out to make the graph acyclic,
	// including self-loops.
	Removed []dag.Edge
	// Reversed holds the subset of Removed that was reinserted pointing the
	// other way. Edges keep their original orientation here.
	Reversed []dag.Edge
	// Chains holds one entry per long edge split by [Subdivide].
	Chains []Chain
	// MaxRow is the deepest row after layering.
	MaxRow int
}

// Normalize prepares g for ordering in place: it breaks cycles, reinserts
// the removed edges reversed, assigns rows, and subdivides long edges. After
// Normalize returns, [dag.DAG.Validate] succeeds.
func Normalize(g *dag.DAG) Result {
	var res Result
	res.Removed = BreakCycles(g)
	res.Reversed = ReverseEdges(g, res.Removed)
	AssignLayers(g)
	res.Chains = Subdivide(g)
	res.MaxRow = g.MaxRow()
	return res
}
