package layout

import (
	"context"
	"math"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/dag"
	"github.com/matzehuels/archgraph/pkg/dag/transform"
	"github.com/matzehuels/archgraph/pkg/layout/ordering"
)

// Compute positions g with a layered top-to-bottom drawing. See the package
// documentation for the phases. Compute never fails: an empty graph yields
// [Empty], and dangling connections are left out of the result.
func Compute(g arch.ArchitectureGraph, opts ...Option) Result {
	return ComputeContext(context.Background(), g, opts...)
}

// ComputeContext is like [Compute] but stops crossing reduction early when
// ctx is done, keeping the best ordering found so far.
func ComputeContext(ctx context.Context, g arch.ArchitectureGraph, opts ...Option) Result {
	if g.IsEmpty() {
		return Empty()
	}
	e := newEngine(g, newOptions(opts...))
	e.rank()
	e.order(ctx)
	e.place()
	return e.result()
}

type engine struct {
	opts  Options
	graph arch.ArchitectureGraph

	nodes []arch.Component
	sizes map[string]Size
	loops map[string]int // self-loop count per node

	dag    *dag.DAG
	chains map[[2]string][]string
	rows   []int
	orders map[int][]string

	x    map[string]float64
	rowY map[int]float64
}

func newEngine(g arch.ArchitectureGraph, opts Options) *engine {
	e := &engine{
		opts:   opts,
		graph:  g,
		sizes:  make(map[string]Size, len(g.Nodes)),
		loops:  make(map[string]int),
		dag:    dag.New(),
		chains: make(map[[2]string][]string),
		x:      make(map[string]float64),
		rowY:   make(map[int]float64),
	}
	for _, c := range g.Nodes {
		if err := e.dag.AddNode(dag.Node{ID: c.ID}); err != nil {
			continue
		}
		e.nodes = append(e.nodes, c)
		e.sizes[c.ID] = opts.Sizes.Lookup(c.Type)
	}
	for _, c := range g.Edges {
		if !e.known(c.From) || !e.known(c.To) {
			continue
		}
		if c.IsSelfLoop() {
			e.loops[c.From]++
			continue
		}
		if e.dag.HasEdge(c.From, c.To) {
			continue
		}
		_ = e.dag.AddEdge(dag.Edge{From: c.From, To: c.To})
	}
	return e
}

func (e *engine) known(id string) bool {
	_, ok := e.sizes[id]
	return ok
}

// rank makes the DAG acyclic, assigns rows and splits long edges.
func (e *engine) rank() {
	res := transform.Normalize(e.dag)
	for _, c := range res.Chains {
		e.chains[[2]string{c.From, c.To}] = c.Via
	}
	e.rows = e.dag.RowIDs()
}

func (e *engine) order(ctx context.Context) {
	var orders map[int][]string
	if co, ok := e.opts.Orderer.(ordering.ContextOrderer); ok {
		orders = co.OrderRowsContext(ctx, e.dag)
	} else {
		orders = e.opts.Orderer.OrderRows(e.dag)
	}

	e.orders = make(map[int][]string, len(e.rows))
	for _, r := range e.rows {
		want := e.dag.NodesInRow(r)
		if got := orders[r]; len(got) == len(want) {
			e.orders[r] = got
		} else {
			e.orders[r] = dag.NodeIDs(want)
		}
	}
}

// size returns the box of a node. Subdividers are points.
func (e *engine) size(id string) Size {
	return e.sizes[id]
}

// rightReach is how far a node's geometry extends right of its center.
func (e *engine) rightReach(id string) float64 {
	r := e.size(id).Width / 2
	if n := e.loops[id]; n > 0 {
		r += loopReach + float64(n-1)*parallelOffset
	}
	return r
}

// gap is the minimum center distance between neighbours in a rank. A bend
// point takes half the node separation on each side, so two boxes with bend
// points between them are still NodeSep apart.
func (e *engine) gap(left, right string) float64 {
	var sep float64
	switch l, r := e.known(left), e.known(right); {
	case l && r:
		sep = e.opts.NodeSep
	case l || r:
		sep = e.opts.NodeSep / 2
	default:
		sep = edgeSep
	}
	return e.rightReach(left) + e.size(right).Width/2 + sep
}

func (e *engine) place() {
	top := 0.0
	for _, r := range e.rows {
		h := 0.0
		for _, id := range e.orders[r] {
			h = math.Max(h, e.size(id).Height)
		}
		e.rowY[r] = top + h/2
		top += h + e.opts.RankSep
	}
	e.assignX()
}

func (e *engine) positioned(c arch.Component) PositionedNode {
	s := e.size(c.ID)
	n, _ := e.dag.Node(c.ID)
	return PositionedNode{
		Component: c,
		X:         e.x[c.ID],
		Y:         e.rowY[n.Row],
		Width:     s.Width,
		Height:    s.Height,
	}
}

func (e *engine) result() Result {
	res := Result{
		Nodes: make([]PositionedNode, 0, len(e.nodes)),
		Edges: make([]PositionedEdge, 0, len(e.graph.Edges)),
	}
	for _, c := range e.nodes {
		res.Nodes = append(res.Nodes, e.positioned(c))
	}
	res.Edges = e.routeAll(res.Nodes)

	bb := newBounds()
	for _, n := range res.Nodes {
		bb.add(n.Left(), n.Top())
		bb.add(n.Right(), n.Bottom())
	}
	for _, ed := range res.Edges {
		for _, p := range ed.Points {
			bb.add(p.X, p.Y)
		}
	}

	m := e.opts.Margin
	dx, dy := m-bb.minX, m-bb.minY
	for i := range res.Nodes {
		res.Nodes[i].X += dx
		res.Nodes[i].Y += dy
	}
	for i := range res.Edges {
		for j := range res.Edges[i].Points {
			res.Edges[i].Points[j].X += dx
			res.Edges[i].Points[j].Y += dy
		}
	}
	res.Width = bb.maxX - bb.minX + 2*m
	res.Height = bb.maxY - bb.minY + 2*m
	return res
}

type bounds struct {
	minX, minY, maxX, maxY float64
}

func newBounds() bounds {
	return bounds{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
	}
}

func (b *bounds) add(x, y float64) {
	b.minX = math.Min(b.minX, x)
	b.minY = math.Min(b.minY, y)
	b.maxX = math.Max(b.maxX, x)
	b.maxY = math.Max(b.maxY, y)
}
