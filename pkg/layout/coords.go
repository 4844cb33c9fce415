package layout

// assignX places every node of every row horizontally.
//
// Each row starts tightly packed and centered on zero. Refinement sweeps
// then pull nodes toward the mean x of their neighbours in the previous
// row, alternating between parents (downward) and children (upward). A
// sweep solves the row exactly: it finds the positions closest in the
// least-squares sense to the targets that still respect the minimum gaps,
// which is an isotonic regression solved with pool-adjacent-violators.
func (e *engine) assignX() {
	for _, r := range e.rows {
		row := e.orders[r]
		if len(row) == 0 {
			continue
		}
		offs := e.offsets(row)
		shift := -(offs[0] + offs[len(offs)-1]) / 2
		for i, id := range row {
			e.x[id] = offs[i] + shift
		}
	}

	for round := 0; round < refineRounds; round++ {
		down := round%2 == 0
		if down {
			for i := 1; i < len(e.rows); i++ {
				e.refineRow(e.orders[e.rows[i]], true)
			}
		} else {
			for i := len(e.rows) - 2; i >= 0; i-- {
				e.refineRow(e.orders[e.rows[i]], false)
			}
		}
	}
}

// offsets returns the packed position of each node relative to the first.
func (e *engine) offsets(row []string) []float64 {
	offs := make([]float64, len(row))
	for i := 1; i < len(row); i++ {
		offs[i] = offs[i-1] + e.gap(row[i-1], row[i])
	}
	return offs
}

func (e *engine) refineRow(row []string, useParents bool) {
	if len(row) == 0 {
		return
	}
	want := make([]float64, len(row))
	for i, id := range row {
		nbrs := e.dag.Children(id)
		if useParents {
			nbrs = e.dag.Parents(id)
		}
		want[i] = e.x[id]
		if len(nbrs) > 0 {
			sum := 0.0
			for _, nb := range nbrs {
				sum += e.x[nb]
			}
			want[i] = sum / float64(len(nbrs))
		}
	}
	for i, x := range fitRow(want, e.offsets(row)) {
		e.x[row[i]] = x
	}
}

// fitRow returns the positions closest to want such that position i+1 is at
// least offs[i+1]-offs[i] right of position i. offs must be non-decreasing
// and start at zero.
func fitRow(want, offs []float64) []float64 {
	type block struct {
		sum float64
		n   int
	}
	mean := func(b block) float64 { return b.sum / float64(b.n) }

	blocks := make([]block, 0, len(want))
	for i, w := range want {
		blocks = append(blocks, block{sum: w - offs[i], n: 1})
		for len(blocks) > 1 {
			a, b := blocks[len(blocks)-2], blocks[len(blocks)-1]
			if mean(a) <= mean(b) {
				break
			}
			blocks = append(blocks[:len(blocks)-2], block{sum: a.sum + b.sum, n: a.n + b.n})
		}
	}

	out := make([]float64, 0, len(want))
	for _, b := range blocks {
		m := mean(b)
		for range b.n {
			out = append(out, m)
		}
	}
	for i := range out {
		out[i] += offs[i]
	}
	return out
}
