package graph_test

import (
	"fmt"

	"github.com/matzehuels/archgraph/pkg/graph"
)

func ExampleUnmarshalGraph() {
	data := []byte(`{
	  "nodes": [
	    {"id": "lambda-api", "name": "api", "type": "compute"},
	    {"id": "dynamodb-users", "name": "users", "type": "database"}
	  ],
	  "edges": [{"id": "e1", "from": "lambda-api", "to": "dynamodb-users", "type": "query"}]
	}`)

	g, err := graph.UnmarshalGraph(data)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("Nodes:", len(g.Nodes))
	fmt.Println("Edges:", len(g.Edges))
	fmt.Println("Groups:", len(g.Groups))
	// Output:
	// Nodes: 2
	// Edges: 1
	// Groups: 0
}
