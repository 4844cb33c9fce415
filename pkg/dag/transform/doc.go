// Package transform provides graph transformations that prepare a DAG for
// layered layout.
//
// # Overview
//
// Architecture graphs arrive with feedback loops (a worker that calls back
// into the API that enqueued it), edges that skip several tiers, and no row
// assignment at all. This package turns such a graph into the canonical
// form the ordering phase expects:
//
//   - The graph is acyclic
//   - Every node has a row
//   - Every edge connects consecutive rows
//
// [Normalize] applies the pipeline in the correct order and reports what it
// changed.
//
// # Cycle Breaking
//
// [BreakCycles] removes DFS back-edges and returns them. [ReverseEdges] puts
// them back pointing the other way so the connection still influences
// layering and ordering.
//
// # Layer Assignment
//
// [AssignLayers] computes each node's row as its longest distance from a
// source, visiting nodes in topological order.
//
// # Edge Subdivision
//
// [Subdivide] breaks long edges into chains of single-row hops by inserting
// virtual nodes:
//
//	Before: gateway (row 0) → db (row 3)
//	After:  gateway → gateway_sub_1 → gateway_sub_2 → db
//
// The returned [Chain] values let the layout turn virtual node positions into
// edge bend points.
//
// # Usage
//
//	res := transform.Normalize(g) // modifies g in place
//
// For fine-grained control, apply the steps individually:
//
//	removed := transform.BreakCycles(g)
//	transform.ReverseEdges(g, removed)
//	transform.AssignLayers(g)
//	chains := transform.Subdivide(g)
package transform
