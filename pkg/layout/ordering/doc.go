// Package ordering decides the left-to-right arrangement of nodes within each
// row of a layered graph.
//
// # The Ordering Problem
//
// Once every component has a row, the diagram is readable only if edges
// between neighbouring rows cross as little as possible. Finding the
// minimum is NP-hard, so this package uses the classic heuristic.
//
// # Barycentric Heuristic
//
// The [Barycentric] orderer implements the Sugiyama barycenter method. It
// positions each node near the average position of its neighbours, then
// improves the result through alternating sweeps:
//
//  1. Start from insertion order in every row
//  2. Top-down: sort each row by its parents' average positions
//  3. Bottom-up: sort each row by its children's average positions
//  4. After each sweep, swap adjacent nodes while that reduces crossings
//  5. Return the best ordering found
//
// Stable sorting and insertion-ordered inputs make the result deterministic.
//
// # Usage
//
// The [Orderer] interface allows algorithms to be used interchangeably:
//
//	var orderer ordering.Orderer = ordering.Barycentric{Passes: 24}
//	orders := orderer.OrderRows(g) // map[row][]nodeID
package ordering
