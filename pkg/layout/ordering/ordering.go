package ordering

import (
	"context"

	"github.com/matzehuels/archgraph/pkg/dag"
)

// Orderer is an interface for horizontal row ordering algorithms.
// An orderer determines the horizontal sequence of nodes in each row
// to minimize edge crossings.
type Orderer interface {
	OrderRows(g *dag.DAG) map[int][]string
}

// ContextOrderer is an Orderer that supports cancellation via a context.
// When the context is done it returns the best ordering found so far.
type ContextOrderer interface {
	Orderer
	OrderRowsContext(ctx context.Context, g *dag.DAG) map[int][]string
}

// InsertionOrder keeps every row in node insertion order. It is useful as a
// baseline in tests and for graphs where the caller already chose an order.
type InsertionOrder struct{}

// OrderRows implements [Orderer].
func (InsertionOrder) OrderRows(g *dag.DAG) map[int][]string {
	return initialOrders(g)
}

func initialOrders(g *dag.DAG) map[int][]string {
	rows := g.RowIDs()
	orders := make(map[int][]string, len(rows))
	for _, r := range rows {
		orders[r] = dag.NodeIDs(g.NodesInRow(r))
	}
	return orders
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for r, ids := range orders {
		out[r] = append([]string(nil), ids...)
	}
	return out
}
