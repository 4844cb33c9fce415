package dag

import "slices"

// CountCrossings sums [CountLayerCrossings] over each pair of consecutive
// rows in orders, which maps a row to its node IDs from left to right.
func CountCrossings(g *DAG, orders map[int][]string) int {
	total := 0
	for r, upper := range orders {
		if lower, ok := orders[r+1]; ok {
			total += CountLayerCrossings(g, upper, lower)
		}
	}
	return total
}

// CountLayerCrossings counts crossing edge pairs between an upper and a
// lower row. Edges (a,b) and (c,d) cross when a is left of c and b is right
// of d, so sorting the edges by upper position turns the count into the
// number of inversions among lower positions, which a Fenwick tree counts in
// O(E log V).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	at := PosMap(lower)

	// upper positions are visited in order, so only each node's targets need
	// sorting
	var targets []int
	for _, id := range upper {
		start := len(targets)
		for _, c := range g.Children(id) {
			if p, ok := at[c]; ok {
				targets = append(targets, p)
			}
		}
		slices.Sort(targets[start:])
	}

	tree := make(fenwick, len(lower)+1)
	crossings := 0
	for seen, p := range targets {
		crossings += seen - tree.prefix(p)
		tree.add(p)
	}
	return crossings
}

// fenwick counts inserted positions; index 0 is unused.
type fenwick []int

func (f fenwick) add(pos int) {
	for i := pos + 1; i < len(f); i += i & -i {
		f[i]++
	}
}

// prefix returns how many inserted positions are <= pos.
func (f fenwick) prefix(pos int) int {
	n := 0
	for i := pos + 1; i > 0; i -= i & -i {
		n += f[i]
	}
	return n
}

// CountPairCrossingsWithPos counts the crossings between the edges of two
// neighbours, left placed before right, and an adjacent row whose positions
// are given by adjPos. up selects the row above (parents) instead of the row
// below (children). Swap decisions compare this against the reversed pair.
func CountPairCrossingsWithPos(g *DAG, left, right string, adjPos map[string]int, up bool) int {
	neighbours := g.Children
	if up {
		neighbours = g.Parents
	}
	n := 0
	for _, a := range neighbours(left) {
		pa, ok := adjPos[a]
		if !ok {
			continue
		}
		for _, b := range neighbours(right) {
			if pb, ok := adjPos[b]; ok && pb < pa {
				n++
			}
		}
	}
	return n
}
