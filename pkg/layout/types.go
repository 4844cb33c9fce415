package layout

import "github.com/matzehuels/archgraph/pkg/arch"

// Point is a position in layout space. The origin is the top-left corner
// and Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PositionedNode is a component with its box. X and Y are the center of
// the box.
type PositionedNode struct {
	arch.Component
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Left returns the x coordinate of the box's left edge.
func (n PositionedNode) Left() float64 { return n.X - n.Width/2 }

// Right returns the x coordinate of the box's right edge.
func (n PositionedNode) Right() float64 { return n.X + n.Width/2 }

// Top returns the y coordinate of the box's top edge.
func (n PositionedNode) Top() float64 { return n.Y - n.Height/2 }

// Bottom returns the y coordinate of the box's bottom edge.
func (n PositionedNode) Bottom() float64 { return n.Y + n.Height/2 }

// PositionedEdge is a connection with its routed polyline. Points always
// holds at least two entries.
type PositionedEdge struct {
	arch.Connection
	Points []Point `json:"points"`
}

// Midpoint returns the point halfway along the polyline by segment count,
// which is where edge labels are placed.
func (e PositionedEdge) Midpoint() Point {
	if len(e.Points) == 0 {
		return Point{}
	}
	if len(e.Points)%2 == 1 {
		return e.Points[len(e.Points)/2]
	}
	a, b := e.Points[len(e.Points)/2-1], e.Points[len(e.Points)/2]
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Result is the positioned form of an architecture graph.
type Result struct {
	Nodes  []PositionedNode `json:"nodes"`
	Edges  []PositionedEdge `json:"edges"`
	Width  float64          `json:"width"`
	Height float64          `json:"height"`
}

// IsEmpty reports whether the layout has no nodes.
func (r Result) IsEmpty() bool { return len(r.Nodes) == 0 }

// Node returns the positioned node with the given id.
func (r Result) Node(id string) (PositionedNode, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PositionedNode{}, false
}

// Empty returns the canonical layout of an empty graph: empty lists and
// zero dimensions.
func Empty() Result {
	return Result{Nodes: []PositionedNode{}, Edges: []PositionedEdge{}}
}
