// Package pkg provides the core libraries for archgraph architecture
// discovery and visualization.
//
// # Overview
//
// archgraph reads the infrastructure code already present in a project
// (Terraform, Docker Compose, plugin manifests), merges what each scanner
// finds into one architecture graph, positions it in layers, and draws it
// as an animated SVG diagram.
//
// # Architecture
//
// The data flow through archgraph:
//
//	Project directory
//	         ↓
//	    [scan] registry (terraform, compose, plugin scanners)
//	         ↓
//	    [arch] Builder (merge partial results into one graph)
//	         ↓
//	    [layout] engine (layering, ordering, coordinates)
//	         ↓
//	    [render/svg] (animated diagram), [render/nodelink] (Graphviz)
//	         ↓
//	    SVG/PDF/PNG/DOT/JSON output
//
// # Quick Start
//
// Generate a diagram for a project in one call:
//
//	res, err := pipeline.Generate(ctx, "./shop", pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("architecture.svg", res.SVG, 0o644)
//
// # Main Packages
//
// ## Domain
//
// [arch] - Component, Connection and LogicalGroup types, the merge Builder,
// and deterministic id helpers.
//
// [scan] - The Scanner contract and the Registry that runs scanners with
// panic isolation and per-scanner timeouts. The built-in scanners live in
// [scan/terraform], [scan/compose] and [scan/plugin]; [scan/defaults] wires
// them in merge-precedence order.
//
// ## Layout
//
// [dag] - Row-based directed graph used as the working form of the layout.
//
// [dag/transform] - Cycle breaking, longest-path layering and subdivision of
// long edges.
//
// [layout] - Coordinate assignment and edge routing. [layout/ordering]
// reduces crossings with the barycenter heuristic.
//
// ## Visualization
//
// [render/svg] - The animated diagram. [render/nodelink] - Graphviz export.
// [render] - SVG to PDF/PNG conversion.
//
// ## Infrastructure
//
// [pipeline] - Scan → merge → layout → render, shared by the CLI, the HTTP
// server and library callers.
//
// [cache] - Layout and artifact caching with file, memory and Redis backends.
//
// [config] - archgraph.toml loading and environment overrides.
//
// [graph] - JSON serialization of graphs and layouts.
//
// [observability] - Hooks for metrics, with a Prometheus implementation.
//
// [errors] - Coded errors and input validation.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/layout/...    # Specific package
//	go test -run Example ./...  # Examples only
//
// [arch]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/arch
// [scan]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/scan
// [scan/terraform]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/scan/terraform
// [scan/compose]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/scan/compose
// [scan/plugin]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/scan/plugin
// [scan/defaults]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/scan/defaults
// [dag]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/dag/transform
// [layout]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/layout
// [layout/ordering]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/layout/ordering
// [render]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/config
// [graph]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/graph
// [observability]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/errors
package pkg
