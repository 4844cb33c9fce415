// Package scan defines the Scanner contract and the Registry that runs
// scanners against a project root.
//
// A scanner discovers architecture components in one family of artifacts
// (Terraform resources, compose services, plugin manifests) and returns them
// as an [arch.Partial]. Scanners know nothing about each other; the Registry
// asks each one whether it applies, runs the applicable ones in registration
// order, and isolates failures so one broken scanner never aborts the batch.
//
// # Writing a scanner
//
// Implement [Scanner]. CanHandle must return false instead of failing when
// paths are missing. Extract should return [arch.EmptyPartial] with a nil
// error for recoverable problems such as an unparsable manifest; a non-nil
// error (or a panic) is treated as an unexpected failure and the scanner is
// skipped.
//
// Registration order is load-bearing: the merge engine resolves id
// collisions with last-writer-wins, so later scanners take precedence.
package scan

import (
	"context"

	"github.com/matzehuels/archgraph/pkg/arch"
)

// Scanner extracts architecture components from one kind of artifact.
type Scanner interface {
	// Name identifies the scanner in logs, metrics, and configuration.
	Name() string

	// CanHandle reports whether the project at root contains artifacts this
	// scanner understands. It may perform bounded I/O.
	CanHandle(ctx context.Context, root string) bool

	// Extract scans root and returns the components it found.
	Extract(ctx context.Context, root string) (arch.Partial, error)
}
