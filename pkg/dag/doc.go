// Package dag holds the layered graph the layout engine works on.
//
// Architecture diagrams read top to bottom: entry points such as CDNs and
// gateways first, the services they call below, datastores last. The layout
// copies an architecture graph into a [DAG], assigns every node a row with
// the [transform] package, orders each row, and then places coordinates.
//
//	g := dag.New()
//	_ = g.AddNode(dag.Node{ID: "api", Row: 0})
//	_ = g.AddNode(dag.Node{ID: "db", Row: 1})
//	_ = g.AddEdge(dag.Edge{From: "api", To: "db"})
//	err := g.Validate() // nil: one row down, no cycle
//
// Every listing follows insertion order, so two graphs built by the same
// sequence of calls lay out identically.
//
// [CountCrossings] and [CountLayerCrossings] score row orderings by counting
// inversions with a Fenwick tree; [CountPairCrossingsWithPos] scores a
// single adjacent swap.
//
// [transform]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/dag/transform
package dag
