// Package pipeline runs the scan → merge → layout → render pipeline that
// turns a project directory into an architecture diagram.
//
// The CLI, the HTTP server, and library callers all go through this package
// so defaults, caching, and logging behave the same everywhere.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Scan: run every applicable scanner from the registry over the root
//  2. Merge: fold the partial results into one graph (last writer wins)
//  3. Layout: position components and route connections
//  4. Render: produce the SVG document and any extra formats
//
// Scanning always runs; layouts and rendered documents are cached by the
// content hash of their input.
//
// # Usage
//
// The one-call entry point:
//
//	res, err := pipeline.Generate(ctx, "./my-project", pipeline.Options{})
//	os.WriteFile("diagram.svg", res.SVG, 0o644)
//
// With a cache and logger:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, root, opts)
//
// Run individual stages:
//
//	g, report, err := runner.Scan(ctx, root, opts)
//	l, hit, err := runner.ComputeLayout(ctx, g, opts)
//	artifacts, hit, err := runner.Render(ctx, l, g, opts)
package pipeline

import (
	"io"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/layout"
	"github.com/matzehuels/archgraph/pkg/layout/ordering"
	"github.com/matzehuels/archgraph/pkg/render/svg"
	"github.com/matzehuels/archgraph/pkg/scan"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Server
// =============================================================================

const (
	// DefaultWidth is the default SVG width in pixels.
	DefaultWidth = svg.DefaultWidth

	// DefaultHeight is the default SVG height in pixels.
	DefaultHeight = svg.DefaultHeight

	// DefaultPadding is the default inner margin of the SVG canvas.
	DefaultPadding = svg.DefaultPadding

	// DefaultAnimate controls flow animation when Options.Animate is nil.
	DefaultAnimate = svg.DefaultAnimate

	// DefaultNodeSep is the default horizontal gap between components.
	DefaultNodeSep = layout.DefaultNodeSep

	// DefaultRankSep is the default vertical gap between rows.
	DefaultRankSep = layout.DefaultRankSep

	// DefaultMargin is the default layout margin.
	DefaultMargin = layout.DefaultMargin

	// DefaultScanTimeout bounds each scanner; zero means no limit.
	DefaultScanTimeout time.Duration = 0

	// DefaultTTL is how long layouts and artifacts stay cached.
	DefaultTTL = cache.DefaultTTL
)

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
	FormatDOT = "dot"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// The zero value is valid: every field has a default.
type Options struct {
	// ProjectName is the diagram title. Empty means the root directory's
	// base name.
	ProjectName string `json:"project_name,omitempty" validate:"omitempty,max=256"`

	// Animate draws flow markers along connections. Nil means DefaultAnimate.
	Animate *bool `json:"animate,omitempty"`

	// Render options
	Width   float64  `json:"width,omitempty" validate:"gte=0"`
	Height  float64  `json:"height,omitempty" validate:"gte=0"`
	Padding float64  `json:"padding,omitempty" validate:"gte=0"`
	Formats []string `json:"formats,omitempty" validate:"omitempty,dive,oneof=svg png pdf dot"`
	Scale   float64  `json:"scale,omitempty" validate:"gte=0"`

	// Layout options
	NodeSep float64 `json:"nodesep,omitempty" validate:"gte=0"`
	RankSep float64 `json:"ranksep,omitempty" validate:"gte=0"`
	Margin  float64 `json:"margin,omitempty" validate:"gte=0"`

	// Scan options
	ScanTimeout      time.Duration `json:"scan_timeout,omitempty" validate:"gte=0"`
	DisabledScanners []string      `json:"disabled_scanners,omitempty"`

	// Refresh bypasses cached layouts and artifacts (results are still stored).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger      `json:"-" validate:"-"`
	Orderer  ordering.Orderer `json:"-" validate:"-"`
	Registry *scan.Registry   `json:"-" validate:"-"`
	Clock    func() time.Time `json:"-" validate:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and HTTP responses.
	RunID string

	// Graph is the merged architecture graph.
	Graph arch.ArchitectureGraph

	// GraphHash is the content hash of the graph, excluding the analysis
	// timestamp.
	GraphHash string

	// Layout is the positioned form of Graph.
	Layout layout.Result

	// SVG is the rendered diagram.
	SVG []byte

	// Artifacts holds every requested format, including "svg".
	Artifacts map[string][]byte

	// Scan describes what each scanner contributed.
	Scan scan.Report

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	GroupCount int
	ScanTime   time.Duration
	MergeTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks field ranges and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateStruct(errors.ErrCodeInvalidInput, o); err != nil {
		return err
	}
	if o.ProjectName != "" {
		if err := errors.ValidateProjectName(o.ProjectName); err != nil {
			return err
		}
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if o.Clock == nil {
		o.Clock = time.Now
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.NodeSep == 0 {
		o.NodeSep = DefaultNodeSep
	}
	if o.RankSep == 0 {
		o.RankSep = DefaultRankSep
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	} else if !slices.Contains(o.Formats, FormatSVG) {
		// the SVG is always produced; other formats derive from it
		o.Formats = append([]string{FormatSVG}, o.Formats...)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// AnimateEnabled resolves the Animate tri-state.
func (o *Options) AnimateEnabled() bool {
	if o.Animate == nil {
		return DefaultAnimate
	}
	return *o.Animate
}

// ResolveProjectName returns ProjectName, falling back to the base name of
// root.
func (o *Options) ResolveProjectName(root string) string {
	if o.ProjectName != "" {
		return o.ProjectName
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Base(root)
	}
	return filepath.Base(abs)
}

// LayoutOptions converts the options into layout engine options.
func (o *Options) LayoutOptions() []layout.Option {
	opts := []layout.Option{
		layout.WithNodeSep(o.NodeSep),
		layout.WithRankSep(o.RankSep),
		layout.WithMargin(o.Margin),
	}
	if o.Orderer != nil {
		opts = append(opts, layout.WithOrderer(o.Orderer))
	}
	return opts
}

// SVGOptions converts the options into SVG renderer options.
func (o *Options) SVGOptions() svg.Options {
	return svg.Options{
		Width:   o.Width,
		Height:  o.Height,
		Padding: o.Padding,
		Animate: o.AnimateEnabled(),
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		NodeSep: o.NodeSep,
		RankSep: o.RankSep,
		Margin:  o.Margin,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		Width:   o.Width,
		Height:  o.Height,
		Padding: o.Padding,
		Animate: o.AnimateEnabled(),
		Scale:   o.Scale,
	}
}

// Bool returns a pointer to b, for Options.Animate.
func Bool(b bool) *bool { return &b }
