package transform

import (
	"strconv"

	"github.com/matzehuels/archgraph/pkg/dag"
)

// Chain records how a long edge was split. Via lists the virtual nodes from
// top to bottom.
type Chain struct {
	From string
	To   string
	Via  []string
}

// Subdivide replaces every edge that skips rows with a path of single-row
// hops through virtual nodes, and returns one [Chain] per replaced edge.
//
//	gateway (row 0) → db (row 3)
//	gateway → gateway_sub_1 → gateway_sub_2 → db
//
// Virtual nodes are named "<source>_sub_<row>", with "__<n>" appended when
// that name is taken. Their Origin is the edge's source. Rows must already
// be assigned, normally by [AssignLayers].
func Subdivide(g *dag.DAG) []Chain {
	taken := make(map[string]bool, g.NodeCount())
	for _, n := range g.Nodes() {
		taken[n.ID] = true
	}
	fresh := func(origin string, row int) string {
		base := origin + "_sub_" + strconv.Itoa(row)
		id := base
		for n := 1; taken[id]; n++ {
			id = base + "__" + strconv.Itoa(n)
		}
		taken[id] = true
		return id
	}

	var chains []Chain
	for _, e := range g.Edges() {
		src, ok1 := g.Node(e.From)
		dst, ok2 := g.Node(e.To)
		if !ok1 || !ok2 || dst.Row-src.Row < 2 {
			continue
		}
		g.RemoveEdge(e.From, e.To)

		c := Chain{From: e.From, To: e.To}
		prev := e.From
		for row := src.Row + 1; row < dst.Row; row++ {
			id := fresh(e.From, row)
			mustAdd(g.AddNode(dag.Node{ID: id, Row: row, Virtual: true, Origin: e.From}))
			mustAdd(g.AddEdge(dag.Edge{From: prev, To: id}))
			c.Via = append(c.Via, id)
			prev = id
		}
		mustAdd(g.AddEdge(dag.Edge{From: prev, To: e.To}))
		chains = append(chains, c)
	}
	return chains
}

// mustAdd panics on an insertion error. Subdivide only adds fresh IDs and
// edges between nodes it knows exist, so an error is a bug.
func mustAdd(err error) {
	if err != nil {
		panic(err)
	}
}
