package dag

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrEmptyID is returned by [DAG.AddNode] for a node without an ID.
	ErrEmptyID = errors.New("dag: empty node id")

	// ErrDuplicateNode is returned by [DAG.AddNode] when the ID is taken.
	ErrDuplicateNode = errors.New("dag: duplicate node")

	// ErrUnknownNode is returned by [DAG.AddEdge] when an endpoint is missing.
	ErrUnknownNode = errors.New("dag: unknown node")

	// ErrRowSpan is returned by [DAG.Validate] for an edge that does not go
	// exactly one row down.
	ErrRowSpan = errors.New("dag: edge does not connect consecutive rows")

	// ErrCycle is returned by [DAG.Validate] when the graph is cyclic.
	ErrCycle = errors.New("dag: cycle")
)

// Node is a vertex of the layered graph.
type Node struct {
	ID  string
	Row int // 0 is the top row

	// Virtual marks a bend point inserted on an edge that spans several
	// rows. Origin names the source of that edge.
	Virtual bool
	Origin  string
}

// Edge is a directed connection.
type Edge struct {
	From, To string
}

// DAG is a directed graph whose nodes are assigned to rows. Nodes, rows and
// adjacency lists all keep insertion order, so everything computed from a
// DAG is deterministic. A DAG is not safe for concurrent mutation.
type DAG struct {
	ids   []string
	nodes map[string]*Node
	succ  map[string][]string
	pred  map[string][]string
	edges int
	rows  map[int][]*Node
}

// New returns an empty graph.
func New() *DAG {
	return &DAG{
		nodes: map[string]*Node{},
		succ:  map[string][]string{},
		pred:  map[string][]string{},
		rows:  map[int][]*Node{},
	}
}

// AddNode inserts n into row n.Row.
func (d *DAG) AddNode(n Node) error {
	switch {
	case n.ID == "":
		return ErrEmptyID
	case d.nodes[n.ID] != nil:
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
	}
	p := &n
	d.ids = append(d.ids, n.ID)
	d.nodes[n.ID] = p
	d.rows[n.Row] = append(d.rows[n.Row], p)
	return nil
}

// AddEdge inserts from→to. Parallel edges are allowed; row spans are only
// checked by Validate.
func (d *DAG) AddEdge(e Edge) error {
	for _, id := range [2]string{e.From, e.To} {
		if d.nodes[id] == nil {
			return fmt.Errorf("%w: %s", ErrUnknownNode, id)
		}
	}
	d.succ[e.From] = append(d.succ[e.From], e.To)
	d.pred[e.To] = append(d.pred[e.To], e.From)
	d.edges++
	return nil
}

// RemoveEdge deletes every from→to edge.
func (d *DAG) RemoveEdge(from, to string) {
	before := len(d.succ[from])
	d.succ[from] = slices.DeleteFunc(d.succ[from], func(id string) bool { return id == to })
	d.pred[to] = slices.DeleteFunc(d.pred[to], func(id string) bool { return id == from })
	d.edges -= before - len(d.succ[from])
}

// HasEdge reports whether from→to exists.
func (d *DAG) HasEdge(from, to string) bool { return slices.Contains(d.succ[from], to) }

// Node looks up a node by ID. The pointer aliases the graph's copy.
func (d *DAG) Node(id string) (*Node, bool) {
	n := d.nodes[id]
	return n, n != nil
}

// Nodes lists every node in insertion order.
func (d *DAG) Nodes() []*Node {
	out := make([]*Node, len(d.ids))
	for i, id := range d.ids {
		out[i] = d.nodes[id]
	}
	return out
}

// Edges lists every edge, grouped by source in node insertion order.
func (d *DAG) Edges() []Edge {
	out := make([]Edge, 0, d.edges)
	for _, from := range d.ids {
		for _, to := range d.succ[from] {
			out = append(out, Edge{From: from, To: to})
		}
	}
	return out
}

func (d *DAG) NodeCount() int { return len(d.ids) }
func (d *DAG) EdgeCount() int { return d.edges }

// Children returns the successors of id. Callers must not modify it.
func (d *DAG) Children(id string) []string { return d.succ[id] }

// Parents returns the predecessors of id. Callers must not modify it.
func (d *DAG) Parents(id string) []string { return d.pred[id] }

func (d *DAG) InDegree(id string) int { return len(d.pred[id]) }

// Sources lists the nodes without predecessors in insertion order.
func (d *DAG) Sources() []*Node {
	var out []*Node
	for _, id := range d.ids {
		if len(d.pred[id]) == 0 {
			out = append(out, d.nodes[id])
		}
	}
	return out
}

// SetRows moves the listed nodes to new rows and reindexes. Unlisted nodes
// stay where they are.
func (d *DAG) SetRows(rows map[string]int) {
	clear(d.rows)
	for _, id := range d.ids {
		n := d.nodes[id]
		if r, ok := rows[id]; ok {
			n.Row = r
		}
		d.rows[n.Row] = append(d.rows[n.Row], n)
	}
}

// NodesInRow lists the nodes of row r in insertion order.
func (d *DAG) NodesInRow(r int) []*Node { return d.rows[r] }

// RowIDs returns the occupied rows in ascending order.
func (d *DAG) RowIDs() []int { return slices.Sorted(maps.Keys(d.rows)) }

// MaxRow returns the deepest occupied row, or 0 for an empty graph.
func (d *DAG) MaxRow() int {
	deepest := 0
	for r := range d.rows {
		deepest = max(deepest, r)
	}
	return deepest
}

// Validate reports ErrRowSpan when an edge skips or climbs rows and ErrCycle
// when the graph is not acyclic. A layered graph whose edges all go one row
// down cannot be cyclic, so the cycle check matters only for graphs that
// were never layered.
func (d *DAG) Validate() error {
	for _, from := range d.ids {
		for _, to := range d.succ[from] {
			if d.nodes[to].Row != d.nodes[from].Row+1 {
				return fmt.Errorf("%w: %s→%s", ErrRowSpan, from, to)
			}
		}
	}
	if len(d.TopoOrder()) != len(d.ids) {
		return ErrCycle
	}
	return nil
}

// TopoOrder returns node IDs in a topological order (Kahn's algorithm,
// ties broken by insertion order). Nodes on a cycle are left out.
func (d *DAG) TopoOrder() []string {
	indeg := make(map[string]int, len(d.ids))
	var queue []string
	for _, id := range d.ids {
		indeg[id] = len(d.pred[id])
		if indeg[id] == 0 {
			queue = append(queue, id)
		}
	}
	order := make([]string, 0, len(d.ids))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, c := range d.succ[id] {
			if indeg[c]--; indeg[c] == 0 {
				queue = append(queue, c)
			}
		}
	}
	return order
}

// PosMap maps each ID to its index in ids.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs returns the IDs of nodes.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
