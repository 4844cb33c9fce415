package layout_test

import (
	"fmt"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/layout"
)

func ExampleCompute() {
	g := arch.ArchitectureGraph{
		Nodes: []arch.Component{
			{ID: "api", Name: "API", Type: arch.TypeAPI},
			{ID: "fn1", Name: "Orders", Type: arch.TypeCompute},
			{ID: "fn2", Name: "Billing", Type: arch.TypeCompute},
			{ID: "db", Name: "Postgres", Type: arch.TypeDatabase},
		},
		Edges: []arch.Connection{
			{ID: "e1", From: "api", To: "fn1", Type: arch.ConnInvoke},
			{ID: "e2", From: "api", To: "fn2", Type: arch.ConnInvoke},
			{ID: "e3", From: "fn1", To: "db", Type: arch.ConnQuery},
			{ID: "e4", From: "fn2", To: "db", Type: arch.ConnQuery},
		},
	}

	l := layout.Compute(g)

	for _, n := range l.Nodes {
		fmt.Printf("%s at (%.0f, %.0f)\n", n.ID, n.X, n.Y)
	}
	fmt.Printf("canvas %.0fx%.0f\n", l.Width, l.Height)
	// Output:
	// api at (210, 70)
	// fn1 at (110, 210)
	// fn2 at (310, 210)
	// db at (210, 350)
	// canvas 420x420
}

func ExampleCompute_empty() {
	l := layout.Compute(arch.ArchitectureGraph{})
	fmt.Println(len(l.Nodes), len(l.Edges), l.Width, l.Height)
	// Output:
	// 0 0 0 0
}
