package ordering

import (
	"context"
	"slices"

	"github.com/matzehuels/archgraph/pkg/dag"
)

// DefaultPasses is the number of sweeps [Barycentric] runs when Passes is
// not set.
const DefaultPasses = 24

// maxTransposeRounds bounds the adjacent-swap loop after each sweep.
const maxTransposeRounds = 8

// Barycentric orders rows with the Sugiyama barycenter heuristic followed by
// adjacent-swap transposition.
//
// Sweeps alternate direction: even passes order each row by the mean
// position of its parents in the row above, odd passes by the mean position
// of its children in the row below. Nodes without neighbours in the
// reference row keep their current position. Sorting is stable, so ties
// preserve the previous order and the result depends only on insertion
// order. The best ordering by [dag.CountCrossings] is kept, and the search
// stops early once it reaches zero crossings.
type Barycentric struct {
	// Passes is the number of sweeps. Zero means DefaultPasses.
	Passes int
}

// OrderRows implements [Orderer].
func (b Barycentric) OrderRows(g *dag.DAG) map[int][]string {
	return b.OrderRowsContext(context.Background(), g)
}

// OrderRowsContext implements [ContextOrderer].
func (b Barycentric) OrderRowsContext(ctx context.Context, g *dag.DAG) map[int][]string {
	orders := initialOrders(g)
	rows := g.RowIDs()
	if len(rows) < 2 {
		return orders
	}

	passes := b.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}

	best := cloneOrders(orders)
	bestScore := dag.CountCrossings(g, orders)
	for pass := 0; pass < passes && bestScore > 0; pass++ {
		if ctx.Err() != nil {
			break
		}
		if pass%2 == 0 {
			for i := 1; i < len(rows); i++ {
				orders[rows[i]] = sortByBarycenter(g, orders[rows[i]], orders[rows[i-1]], true)
			}
		} else {
			for i := len(rows) - 2; i >= 0; i-- {
				orders[rows[i]] = sortByBarycenter(g, orders[rows[i]], orders[rows[i+1]], false)
			}
		}
		transpose(g, orders, rows)

		if score := dag.CountCrossings(g, orders); score < bestScore {
			best = cloneOrders(orders)
			bestScore = score
		}
	}
	return best
}

// sortByBarycenter reorders row by the mean position of each node's
// neighbours in ref. useParents selects the row above as reference.
func sortByBarycenter(g *dag.DAG, row, ref []string, useParents bool) []string {
	refPos := dag.PosMap(ref)

	type entry struct {
		id     string
		center float64
	}
	entries := make([]entry, len(row))
	for i, id := range row {
		nbrs := g.Children(id)
		if useParents {
			nbrs = g.Parents(id)
		}
		sum, n := 0.0, 0
		for _, nb := range nbrs {
			if p, ok := refPos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		center := float64(i)
		if n > 0 {
			center = sum / float64(n)
		}
		entries[i] = entry{id: id, center: center}
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		switch {
		case a.center < b.center:
			return -1
		case a.center > b.center:
			return 1
		}
		return 0
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}

// transpose swaps adjacent nodes while doing so strictly reduces the
// crossings against both neighbouring rows.
func transpose(g *dag.DAG, orders map[int][]string, rows []int) {
	for round := 0; round < maxTransposeRounds; round++ {
		improved := false
		for i, r := range rows {
			var above, below map[string]int
			if i > 0 {
				above = dag.PosMap(orders[rows[i-1]])
			}
			if i < len(rows)-1 {
				below = dag.PosMap(orders[rows[i+1]])
			}

			row := orders[r]
			for j := 0; j+1 < len(row); j++ {
				u, v := row[j], row[j+1]
				if pairCost(g, v, u, above, below) < pairCost(g, u, v, above, below) {
					row[j], row[j+1] = v, u
					improved = true
				}
			}
		}
		if !improved {
			return
		}
	}
}

func pairCost(g *dag.DAG, left, right string, above, below map[string]int) int {
	cost := 0
	if above != nil {
		cost += dag.CountPairCrossingsWithPos(g, left, right, above, true)
	}
	if below != nil {
		cost += dag.CountPairCrossingsWithPos(g, left, right, below, false)
	}
	return cost
}
