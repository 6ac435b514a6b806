package layout

import "github.com/tangleguard/layered/pkg/errors"

// rank assigns every vertex a non-negative rank such that each forward edge
// points from a lower rank to a strictly higher one, with the minimum
// possible height.
//
// Longest-path layering via a topological traversal (Kahn's algorithm):
// sources start at rank 0 and every vertex lands at one plus the maximum
// rank of its predecessors. A pull-down pass then lifts each vertex to just
// above its nearest successor, shortening long edges without growing the
// height; this is a quality improvement, not a correctness requirement.
//
// Fails with an INTERNAL_INVARIANT error if the forward edge set still
// contains a cycle, which would mean the acyclifier is broken.
func (g *graph) rank() error {
	n := len(g.verts)
	indeg := make([]int, n)
	out := make([][]int, n)
	for _, e := range g.edges {
		if e.loop {
			continue
		}
		out[e.from] = append(out[e.from], e.to)
		indeg[e.to]++
	}

	queue := make([]int, 0, n)
	for v := 0; v < n; v++ {
		if indeg[v] == 0 {
			queue = append(queue, v)
		}
	}

	topo := make([]int, 0, n)
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		topo = append(topo, v)

		for _, w := range out[v] {
			if r := g.verts[v].rank + 1; r > g.verts[w].rank {
				g.verts[w].rank = r
			}
			indeg[w]--
			if indeg[w] == 0 {
				queue = append(queue, w)
			}
		}
	}

	if len(topo) != n {
		return errors.New(errors.ErrCodeInternalInvariant,
			"forward edges contain a cycle: %d of %d vertices ranked", len(topo), n)
	}

	// Pull-down pass: visit in reverse topological order and move each vertex
	// with successors to min(successor ranks) - 1. Ranks only grow, so edge
	// constraints stay intact.
	for i := len(topo) - 1; i >= 0; i-- {
		v := topo[i]
		if len(out[v]) == 0 {
			continue
		}
		min := g.verts[out[v][0]].rank
		for _, w := range out[v][1:] {
			if g.verts[w].rank < min {
				min = g.verts[w].rank
			}
		}
		if min-1 > g.verts[v].rank {
			g.verts[v].rank = min - 1
		}
	}

	return nil
}

// subdivide replaces every edge spanning more than one rank with a chain of
// dummy vertices so that all internal segments connect adjacent ranks. It
// also materializes the dense layering and the per-vertex segment adjacency
// the orderer and positioner iterate over.
func (g *graph) subdivide() {
	maxRank := 0
	for _, v := range g.verts {
		if v.rank > maxRank {
			maxRank = v.rank
		}
	}

	g.chains = make([][]int, len(g.edges))
	for i := range g.edges {
		e := g.edges[i]
		if e.loop {
			continue
		}
		span := g.verts[e.to].rank - g.verts[e.from].rank
		for seq := 1; seq < span; seq++ {
			d := g.addDummy(i, seq, g.verts[e.from].rank+seq)
			g.chains[i] = append(g.chains[i], d)
		}
	}

	g.up = make([][]int, len(g.verts))
	g.down = make([][]int, len(g.verts))
	addSegment := func(u, v int) {
		g.down[u] = append(g.down[u], v)
		g.up[v] = append(g.up[v], u)
	}
	for i, e := range g.edges {
		if e.loop {
			continue
		}
		prev := e.from
		for _, d := range g.chains[i] {
			addSegment(prev, d)
			prev = d
		}
		addSegment(prev, e.to)
	}

	g.layers = make([][]int, maxRank+1)
	if len(g.verts) == 0 {
		g.layers = nil
		return
	}
	for v := range g.verts {
		r := g.verts[v].rank
		g.layers[r] = append(g.layers[r], v)
	}
}
