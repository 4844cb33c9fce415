// Package arch defines the architecture model produced by scanners and the
// merge engine that folds their partial results into one graph.
//
// # Model
//
// A [Component] is a discovered infrastructure or structural entity, a
// [Connection] is a directed relationship between two components, and a
// [LogicalGroup] is a named boundary (VPC, subnet, plugin package) that
// contains other entities by id. All three are keyed by their ID field: two
// values sharing an ID are the same logical entity no matter which scanner
// produced them.
//
// Connections may reference component ids that no scanner produced. Such
// dangling endpoints are tolerated everywhere in this package.
//
// # Extraction Contract
//
// Scanners report what they found as a [Partial]. [EmptyPartial] is the
// canonical result for "nothing found" and for recoverable failures such as
// an unparsable manifest.
//
// # Merging
//
// A [Builder] accumulates partial results for one analysis run:
//
//	b := arch.NewBuilder("shop")
//	for _, p := range partials {
//	    b.Merge(p)
//	}
//	g := b.Build()
//
// Merge is insert-or-overwrite by id: a later entity with the same id fully
// replaces the earlier one. Partials must therefore be merged in a stable,
// caller-controlled order. Build returns an independent snapshot and does not
// reset the builder.
//
// # Concurrency
//
// A Builder is owned by a single analysis run and is not safe for concurrent
// use. An [ArchitectureGraph] returned by Build is never mutated by this
// package.
package arch
