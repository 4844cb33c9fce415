package scan

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/observability"
)

// Registry holds scanners and runs them against a project root.
//
// A Registry is safe for concurrent AnalyzeAll calls once registration is
// complete. Register is not synchronized.
type Registry struct {
	scanners []Scanner
	disabled map[string]bool
	timeout  time.Duration
	logger   *log.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report skipped scanners.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTimeout bounds each scanner invocation. A scanner that exceeds the
// deadline is skipped like any other failing scanner. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithDisabled skips the named scanners even when they are registered.
func WithDisabled(names ...string) Option {
	return func(r *Registry) {
		for _, n := range names {
			r.disabled[n] = true
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		disabled: make(map[string]bool),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends scanners. Later scanners win id collisions during merge.
func (r *Registry) Register(s ...Scanner) {
	for _, sc := range s {
		if sc != nil {
			r.scanners = append(r.scanners, sc)
		}
	}
}

// Scanners returns the registered scanners in registration order.
func (r *Registry) Scanners() []Scanner {
	return slices.Clone(r.scanners)
}

// Names returns the registered scanner names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.scanners))
	for i, s := range r.scanners {
		names[i] = s.Name()
	}
	return names
}

// Outcome describes what happened to one scanner during a run.
type Outcome struct {
	Scanner  string
	Handled  bool // CanHandle returned true
	Skipped  bool // disabled by configuration
	Nodes    int
	Duration time.Duration
	Err      error // non-nil when the scanner failed and its result was dropped
}

// Report is the full result of a registry run.
type Report struct {
	Partials []arch.Partial
	Outcomes []Outcome
}

// Failed returns the outcomes of scanners whose results were dropped.
func (r Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// AnalyzeAll runs every applicable scanner and returns their partial results
// in registration order. Failing scanners are logged and skipped.
func (r *Registry) AnalyzeAll(ctx context.Context, root string) []arch.Partial {
	rep, _ := r.Run(ctx, root)
	return rep.Partials
}

// Run is AnalyzeAll with per-scanner outcomes. The only error it returns is
// the context's, when ctx is cancelled between scanners; the report then
// holds whatever was collected so far.
func (r *Registry) Run(ctx context.Context, root string) (Report, error) {
	rep := Report{Partials: []arch.Partial{}}

	for _, s := range r.scanners {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		name := s.Name()
		if r.disabled[name] {
			r.logger.Debug("scanner disabled", "scanner", name)
			rep.Outcomes = append(rep.Outcomes, Outcome{Scanner: name, Skipped: true})
			continue
		}

		if !safeCanHandle(ctx, s, root) {
			r.logger.Debug("scanner not applicable", "scanner", name)
			rep.Outcomes = append(rep.Outcomes, Outcome{Scanner: name})
			continue
		}

		observability.Scan().OnScanStart(ctx, name)
		start := time.Now()
		p, err := r.extract(ctx, s, root)
		out := Outcome{Scanner: name, Handled: true, Duration: time.Since(start), Err: err}
		if err == nil {
			p = normalize(p)
			out.Nodes = len(p.Nodes)
			rep.Partials = append(rep.Partials, p)
			r.logger.Debug("scanner finished", "scanner", name, "nodes", out.Nodes, "edges", len(p.Edges), "duration", out.Duration)
		} else {
			r.logger.Warn("scanner failed, skipping", "scanner", name, "error", err)
		}
		observability.Scan().OnScanComplete(ctx, name, out.Nodes, out.Duration, err)
		rep.Outcomes = append(rep.Outcomes, out)
	}

	return rep, nil
}

func (r *Registry) extract(ctx context.Context, s Scanner, root string) (arch.Partial, error) {
	if r.timeout <= 0 {
		return safeExtract(ctx, s, root)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type result struct {
		p   arch.Partial
		err error
	}
	done := make(chan result, 1)
	go func() {
		p, err := safeExtract(ctx, s, root)
		done <- result{p, err}
	}()

	select {
	case res := <-done:
		if res.err == nil || ctx.Err() == nil {
			return res.p, res.err
		}
	case <-ctx.Done():
	}
	return arch.Partial{}, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "scanner %s exceeded %s", s.Name(), r.timeout)
}

func safeCanHandle(ctx context.Context, s Scanner, root string) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
		}
	}()
	return s.CanHandle(ctx, root)
}

func safeExtract(ctx context.Context, s Scanner, root string) (p arch.Partial, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.New(errors.ErrCodeScanFailed, "scanner %s panicked: %v", s.Name(), rec)
		}
	}()
	p, err = s.Extract(ctx, root)
	if err != nil {
		return arch.Partial{}, errors.Wrap(errors.ErrCodeScanFailed, err, "scanner %s", s.Name())
	}
	return p, nil
}

// normalize replaces nil lists with empty ones so every partial has the
// same shape as EmptyPartial.
func normalize(p arch.Partial) arch.Partial {
	if p.Nodes == nil {
		p.Nodes = []arch.Component{}
	}
	if p.Edges == nil {
		p.Edges = []arch.Connection{}
	}
	if p.Groups == nil {
		p.Groups = []arch.LogicalGroup{}
	}
	if p.SourceFiles == nil {
		p.SourceFiles = []string{}
	}
	return p
}

// String renders an outcome for log and CLI output.
func (o Outcome) String() string {
	switch {
	case o.Skipped:
		return fmt.Sprintf("%s: disabled", o.Scanner)
	case !o.Handled:
		return fmt.Sprintf("%s: not applicable", o.Scanner)
	case o.Err != nil:
		return fmt.Sprintf("%s: failed (%v)", o.Scanner, o.Err)
	default:
		return fmt.Sprintf("%s: %d components in %s", o.Scanner, o.Nodes, o.Duration.Round(time.Millisecond))
	}
}
