package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/layout"
	"github.com/matzehuels/archgraph/pkg/observability"
	"github.com/matzehuels/archgraph/pkg/render"
	"github.com/matzehuels/archgraph/pkg/render/nodelink"
	"github.com/matzehuels/archgraph/pkg/render/svg"
	"github.com/matzehuels/archgraph/pkg/scan"
	"github.com/matzehuels/archgraph/pkg/scan/defaults"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    DefaultTTL,
	}
}

// Execute runs the complete scan → merge → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, root string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := errors.ValidateProjectRoot(root); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := r.Logger.With("run", runID[:8])

	scanStart := time.Now()
	g, report, err := r.scan(ctx, root, opts, logger)
	if err != nil {
		return nil, err
	}
	scanTime := time.Since(scanStart)

	res, err := r.finish(ctx, g, opts, logger)
	if err != nil {
		return nil, err
	}
	res.RunID = runID
	res.Scan = report
	res.Stats.ScanTime = scanTime
	return res, nil
}

// ExecuteGraph runs layout and render over an already merged graph, such
// as one read from a graph.json file.
func (r *Runner) ExecuteGraph(ctx context.Context, g arch.ArchitectureGraph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	res, err := r.finish(ctx, g, opts, r.Logger.With("run", runID[:8]))
	if err != nil {
		return nil, err
	}
	res.RunID = runID
	return res, nil
}

func (r *Runner) finish(ctx context.Context, g arch.ArchitectureGraph, opts Options, logger *log.Logger) (*Result, error) {
	res := &Result{
		Graph:     g,
		GraphHash: GraphHash(g),
		Stats: Stats{
			NodeCount:  len(g.Nodes),
			EdgeCount:  len(g.Edges),
			GroupCount: len(g.Groups),
		},
	}

	layoutStart := time.Now()
	l, layoutHit, err := r.ComputeLayout(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	res.Layout = l
	res.Stats.LayoutTime = time.Since(layoutStart)
	res.CacheInfo.LayoutHit = layoutHit
	logger.Info("computed layout",
		"width", l.Width,
		"height", l.Height,
		"cached", layoutHit,
		"duration", res.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.Render(ctx, l, g, opts)
	if err != nil {
		return nil, err
	}
	res.Artifacts = artifacts
	res.SVG = artifacts[FormatSVG]
	res.Stats.RenderTime = time.Since(renderStart)
	res.CacheInfo.RenderHit = renderHit
	logger.Info("rendered",
		"formats", opts.Formats,
		"bytes", len(res.SVG),
		"cached", renderHit,
		"duration", res.Stats.RenderTime)

	return res, nil
}

// Scan runs the registry over root and merges the partial results.
func (r *Runner) Scan(ctx context.Context, root string, opts Options) (arch.ArchitectureGraph, scan.Report, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return arch.ArchitectureGraph{}, scan.Report{}, err
	}
	if err := errors.ValidateProjectRoot(root); err != nil {
		return arch.ArchitectureGraph{}, scan.Report{}, err
	}
	return r.scan(ctx, root, opts, r.Logger)
}

func (r *Runner) scan(ctx context.Context, root string, opts Options, logger *log.Logger) (arch.ArchitectureGraph, scan.Report, error) {
	reg := opts.Registry
	if reg == nil {
		reg = defaults.NewRegistry(
			scan.WithLogger(logger),
			scan.WithTimeout(opts.ScanTimeout),
			scan.WithDisabled(opts.DisabledScanners...),
		)
	}

	report, err := reg.Run(ctx, root)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return arch.ArchitectureGraph{}, report, errors.Wrap(errors.ErrCodeTimeout, err, "scan %s", root)
		}
		return arch.ArchitectureGraph{}, report, fmt.Errorf("scan %s: %w", root, err)
	}
	for _, o := range report.Outcomes {
		if o.Handled && o.Err == nil {
			logger.Info("scanned", "scanner", o.Scanner, "nodes", o.Nodes, "duration", o.Duration)
		}
	}

	mergeStart := time.Now()
	b := arch.NewBuilder(opts.ResolveProjectName(root), arch.WithClock(opts.Clock))
	for _, p := range report.Partials {
		b.Merge(p)
	}
	g := b.Build()
	mergeTime := time.Since(mergeStart)
	observability.Pipeline().OnMergeComplete(ctx, len(g.Nodes), len(g.Edges), mergeTime)

	logger.Info("merged",
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"groups", len(g.Groups),
		"duration", mergeTime)
	return g, report, nil
}

// ComputeLayout positions g, reading and populating the layout cache.
// The bool reports a cache hit.
func (r *Runner) ComputeLayout(ctx context.Context, g arch.ArchitectureGraph, opts Options) (layout.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return layout.Result{}, false, err
	}
	key := r.Keyer.LayoutKey(GraphHash(g), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, ok := r.get(ctx, key, "layout"); ok {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				return cached, true, nil
			}
			// undecodable entries are recomputed and overwritten
		}
	}

	observability.Pipeline().OnLayoutStart(ctx, len(g.Nodes))
	start := time.Now()
	l := layout.ComputeContext(ctx, g, opts.LayoutOptions()...)
	err := ctx.Err()
	observability.Pipeline().OnLayoutComplete(ctx, time.Since(start), err)
	if err != nil {
		return layout.Result{}, false, fmt.Errorf("layout: %w", err)
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		r.set(ctx, key, "layout", data)
	}
	return l, false, nil
}

// Render produces every requested format from l, reading and populating the
// artifact cache. g is needed only for the "dot" format. The bool reports
// that every artifact came from cache.
func (r *Runner) Render(ctx context.Context, l layout.Result, g arch.ArchitectureGraph, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	// DOT output is built from the graph, not the layout
	keyFor := func(format string) string {
		if format == FormatDOT {
			return r.Keyer.ArtifactKey(GraphHash(g), opts.ArtifactKeyOpts(format))
		}
		return r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := !opts.Refresh
	for _, format := range opts.Formats {
		if !allCached {
			break
		}
		data, ok := r.get(ctx, keyFor(format), "artifact")
		if !ok {
			allCached = false
			break
		}
		artifacts[format] = data
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	for _, format := range opts.Formats {
		data, err := r.renderFormat(ctx, l, g, format, artifacts, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		r.set(ctx, keyFor(format), "artifact", data)
	}
	return artifacts, false, nil
}

func (r *Runner) renderFormat(ctx context.Context, l layout.Result, g arch.ArchitectureGraph, format string, done map[string][]byte, opts Options) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data = svg.Render(l, svg.WithOptions(opts.SVGOptions()))
	case FormatDOT:
		data = []byte(nodelink.ToDOT(g, nodelink.Options{}))
	case FormatPNG, FormatPDF:
		src, ok := done[FormatSVG]
		if !ok {
			src = svg.Render(l, svg.WithOptions(opts.SVGOptions()))
		}
		data, err = render.Convert(ctx, src, render.Format(format), opts.Scale)
		if err != nil {
			err = errors.Wrap(errors.ErrCodeUnsupported, err, "render %s", format)
		}
	default:
		err = errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}

	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	return data, err
}

// get reads key, treating backend errors as misses.
func (r *Runner) get(ctx context.Context, key, keyType string) ([]byte, bool) {
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		ok = false
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	return data, ok
}

// set stores data under key; failures are logged, never fatal.
func (r *Runner) set(ctx context.Context, key, keyType string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// GraphHash hashes the serialized graph with the analysis timestamp cleared,
// so re-analysing an unchanged project yields the same hash.
func GraphHash(g arch.ArchitectureGraph) string {
	g.Metadata.AnalyzedAt = time.Time{}
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
