package layout

import (
	"slices"

	"github.com/matzehuels/archgraph/pkg/arch"
)

// routeAll produces one polyline per connection whose endpoints were both
// placed, in connection order. Connections between the same pair of nodes
// are spread apart horizontally.
func (e *engine) routeAll(nodes []PositionedNode) []PositionedEdge {
	byID := make(map[string]PositionedNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	total := make(map[[2]string]int)
	for _, c := range e.graph.Edges {
		if e.known(c.From) && e.known(c.To) {
			total[pairKey(c)]++
		}
	}

	seen := make(map[[2]string]int)
	edges := make([]PositionedEdge, 0, len(e.graph.Edges))
	for _, c := range e.graph.Edges {
		src, okS := byID[c.From]
		dst, okD := byID[c.To]
		if !okS || !okD {
			continue
		}
		key := pairKey(c)
		k := seen[key]
		seen[key]++

		var pts []Point
		if c.IsSelfLoop() {
			pts = selfLoop(src, loopReach+float64(k)*parallelOffset)
		} else {
			pts = e.route(src, dst)
			dx := (float64(k) - float64(total[key]-1)/2) * parallelOffset
			for i := range pts {
				pts[i].X += dx
			}
		}
		edges = append(edges, PositionedEdge{Connection: c, Points: pts})
	}
	return edges
}

func pairKey(c arch.Connection) [2]string {
	if c.From <= c.To {
		return [2]string{c.From, c.To}
	}
	return [2]string{c.To, c.From}
}

// route draws a connection along the edge or subdivider chain that carries
// it in the layered graph. Reversed back-edges are walked backwards so the
// polyline still starts at the connection's source.
func (e *engine) route(src, dst PositionedNode) []Point {
	if pts, ok := e.path(src, dst); ok {
		return pts
	}
	if pts, ok := e.path(dst, src); ok {
		slices.Reverse(pts)
		return pts
	}
	return []Point{{X: src.X, Y: src.Y}, {X: dst.X, Y: dst.Y}}
}

// path goes from the bottom center of upper through any bend points to the
// top center of lower.
func (e *engine) path(upper, lower PositionedNode) ([]Point, bool) {
	via, long := e.chains[[2]string{upper.ID, lower.ID}]
	if !long && !e.dag.HasEdge(upper.ID, lower.ID) {
		return nil, false
	}

	pts := make([]Point, 0, len(via)+2)
	pts = append(pts, Point{X: upper.X, Y: upper.Bottom()})
	for _, id := range via {
		n, _ := e.dag.Node(id)
		pts = append(pts, Point{X: e.x[id], Y: e.rowY[n.Row]})
	}
	pts = append(pts, Point{X: lower.X, Y: lower.Top()})
	return pts, true
}

// selfLoop leaves the right side of n, swings out by reach and comes back
// lower down the same side.
func selfLoop(n PositionedNode, reach float64) []Point {
	right := n.Right()
	y1, y2 := n.Y-n.Height/4, n.Y+n.Height/4
	return []Point{
		{X: right, Y: y1},
		{X: right + reach, Y: y1},
		{X: right + reach, Y: y2},
		{X: right, Y: y2},
	}
}
