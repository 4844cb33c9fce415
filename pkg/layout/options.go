package layout

import "github.com/matzehuels/archgraph/pkg/layout/ordering"

// Spacing defaults in layout units.
const (
	DefaultNodeSep = 60.0
	DefaultRankSep = 80.0
	DefaultMargin  = 40.0
)

const (
	// edgeSep is the horizontal gap between neighbouring bend points.
	edgeSep = 20.0
	// parallelOffset separates connections that share both endpoints.
	parallelOffset = 8.0
	// loopReach is how far a self-loop extends to the right of its node.
	loopReach = 24.0
	// refineRounds is the number of coordinate refinement sweeps.
	refineRounds = 4
)

// Options configures [Compute].
type Options struct {
	NodeSep float64
	RankSep float64
	Margin  float64
	Sizes   SizeTable
	Orderer ordering.Orderer
}

// Option mutates Options.
type Option func(*Options)

// WithNodeSep sets the minimum horizontal gap between boxes in a rank.
func WithNodeSep(v float64) Option { return func(o *Options) { o.NodeSep = v } }

// WithRankSep sets the vertical gap between ranks.
func WithRankSep(v float64) Option { return func(o *Options) { o.RankSep = v } }

// WithMargin sets the empty border around the drawing.
func WithMargin(v float64) Option { return func(o *Options) { o.Margin = v } }

// WithSizes replaces the size table.
func WithSizes(t SizeTable) Option { return func(o *Options) { o.Sizes = t } }

// WithOrderer replaces the within-rank ordering algorithm.
func WithOrderer(ord ordering.Orderer) Option { return func(o *Options) { o.Orderer = ord } }

func newOptions(opts ...Option) Options {
	o := Options{
		NodeSep: DefaultNodeSep,
		RankSep: DefaultRankSep,
		Margin:  DefaultMargin,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.NodeSep < 0 {
		o.NodeSep = DefaultNodeSep
	}
	if o.RankSep < 0 {
		o.RankSep = DefaultRankSep
	}
	if o.Margin < 0 {
		o.Margin = DefaultMargin
	}
	if o.Sizes == nil {
		o.Sizes = DefaultSizes()
	}
	if o.Orderer == nil {
		o.Orderer = ordering.Barycentric{}
	}
	return o
}
