package pipeline

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// Generate analyses the project at root and returns the merged graph, its
// layout, and the rendered SVG. It runs without a cache; use a [Runner] to
// reuse layouts across calls.
//
// The only errors are an invalid root or options, and cancellation of ctx.
// Scanners that fail are skipped, so a broken manifest yields a smaller graph
// rather than an error.
func Generate(ctx context.Context, root string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return NewRunner(nil, nil, logger).Execute(ctx, root, opts)
}
