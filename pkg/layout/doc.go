// Package layout positions an architecture graph for drawing.
//
// # Overview
//
// [Compute] turns an [arch.ArchitectureGraph] into a [Result]: a box per
// component, a polyline per connection, and the canvas size. The drawing is
// layered and flows top to bottom, so callers sit above what they call.
//
// # Phases
//
//  1. Ranking: the graph is copied into a [dag.DAG], back-edges are
//     reversed, and every node gets the longest distance from a source as
//     its rank. Long edges are split into chains of zero-width bend points.
//     See [transform.Normalize].
//  2. Ordering: nodes within each rank are ordered to reduce crossings,
//     by default with [ordering.Barycentric].
//  3. Coordinates: ranks are stacked with RankSep between them, each as
//     tall as its tallest box. Within a rank boxes keep at least NodeSep
//     apart and are pulled toward the mean position of their neighbours.
//  4. Routing: a connection leaves the bottom center of its source, passes
//     through its bend points and enters the top center of its target.
//     Self-loops are drawn as a small loop on the right side of the box.
//
// Box sizes come from a [SizeTable] keyed by component type; unknown types
// are 140×60. Node X and Y are box centers. The whole drawing is shifted so
// that its bounding box, edges included, starts at Margin.
//
// # Determinism
//
// Every phase iterates in insertion order and uses stable sorts, so the
// same graph always yields the same coordinates.
//
// # Degenerate Input
//
// An empty graph returns [Empty] without running any phase. Connections
// whose endpoints are missing are omitted from the result. Duplicate
// component ids keep the first occurrence.
//
// [dag.DAG]: github.com/matzehuels/archgraph/pkg/dag#DAG
// [transform.Normalize]: github.com/matzehuels/archgraph/pkg/dag/transform#Normalize
// [ordering.Barycentric]: github.com/matzehuels/archgraph/pkg/layout/ordering#Barycentric
package layout
