package pipeline_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/archgraph/pkg/pipeline"
)

func ExampleGenerate() {
	root, _ := os.MkdirTemp("", "orders")
	defer os.RemoveAll(root)
	compose := "services:\n  api:\n    image: node:20\n    depends_on: [cache]\n  cache:\n    image: redis:7\n"
	_ = os.WriteFile(filepath.Join(root, "compose.yaml"), []byte(compose), 0o644)

	res, err := pipeline.Generate(context.Background(), root, pipeline.Options{Animate: pipeline.Bool(false)})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, n := range res.Graph.Nodes {
		fmt.Println(n.ID, n.Type)
	}
	fmt.Println("edges:", len(res.Layout.Edges))
	// Output:
	// docker-api compute
	// docker-cache cache
	// edges: 1
}
