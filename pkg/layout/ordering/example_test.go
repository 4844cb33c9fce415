package ordering_test

import (
	"fmt"

	"github.com/matzehuels/archgraph/pkg/dag"
	"github.com/matzehuels/archgraph/pkg/layout/ordering"
)

func ExampleBarycentric() {
	// api fans out to two functions that share a database
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "api", Row: 0})
	_ = g.AddNode(dag.Node{ID: "fn1", Row: 1})
	_ = g.AddNode(dag.Node{ID: "fn2", Row: 1})
	_ = g.AddNode(dag.Node{ID: "db", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "api", To: "fn1"})
	_ = g.AddEdge(dag.Edge{From: "api", To: "fn2"})
	_ = g.AddEdge(dag.Edge{From: "fn1", To: "db"})
	_ = g.AddEdge(dag.Edge{From: "fn2", To: "db"})

	orders := ordering.Barycentric{Passes: 24}.OrderRows(g)

	fmt.Println("Row count:", len(orders))
	fmt.Println("Row 1:", orders[1])
	// Output:
	// Row count: 3
	// Row 1: [fn1 fn2]
}

func ExampleBarycentric_crossingMinimization() {
	// Classic crossing example: X pattern
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "web", Row: 0})
	_ = g.AddNode(dag.Node{ID: "worker", Row: 0})
	_ = g.AddNode(dag.Node{ID: "queue", Row: 1})
	_ = g.AddNode(dag.Node{ID: "cache", Row: 1})

	// web→cache, worker→queue
	_ = g.AddEdge(dag.Edge{From: "web", To: "cache"})
	_ = g.AddEdge(dag.Edge{From: "worker", To: "queue"})

	initial := dag.CountLayerCrossings(g, []string{"web", "worker"}, []string{"queue", "cache"})
	fmt.Println("Initial crossings:", initial)

	orders := ordering.Barycentric{}.OrderRows(g)

	fmt.Println("After ordering:", dag.CountLayerCrossings(g, orders[0], orders[1]))
	// Output:
	// Initial crossings: 1
	// After ordering: 0
}
