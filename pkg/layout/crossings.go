package layout

import "slices"

// countCrossings returns the total number of edge crossings across all
// adjacent rank pairs for the given orderings.
func (g *graph) countCrossings(layers [][]int) int {
	if len(layers) < 2 {
		return 0
	}
	maxWidth := 0
	for _, l := range layers {
		if len(l) > maxWidth {
			maxWidth = len(l)
		}
	}
	ws := newCrossingWorkspace(maxWidth, len(g.verts))

	total := 0
	for r := 0; r < len(layers)-1; r++ {
		total += g.countLayerCrossings(layers[r], layers[r+1], ws)
	}
	return total
}

// crossingWorkspace provides reusable buffers for crossing counts, so a
// sweep over all rank pairs allocates once instead of per pair.
type crossingWorkspace struct {
	ft  []int // Fenwick tree over lower-rank positions
	pos []int // vertex -> position in the lower rank
}

func newCrossingWorkspace(maxWidth, numVerts int) *crossingWorkspace {
	return &crossingWorkspace{
		ft:  make([]int, maxWidth+1),
		pos: make([]int, numVerts),
	}
}

// countLayerCrossings counts crossings between two adjacent ranks using a
// Fenwick tree (binary indexed tree) in O(E log V), where E is the number of
// segments between the ranks and V the width of the lower rank.
//
// Two segments (u1,v1) and (u2,v2) cross iff pos(u1) < pos(u2) and
// pos(v1) > pos(v2). Walking the upper rank left to right, each segment
// crosses every previously seen segment whose target lies strictly to the
// right of its own; the Fenwick tree answers that count per segment. Targets
// of one source are processed query-first, update-after, so segments sharing
// a source never count against each other.
func (g *graph) countLayerCrossings(upper, lower []int, ws *crossingWorkspace) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	for p, v := range lower {
		ws.pos[v] = p
	}
	limit := len(lower) + 1
	for i := 0; i < limit; i++ {
		ws.ft[i] = 0
	}

	crossings, total := 0, 0
	targets := make([]int, 0, 8)
	for _, u := range upper {
		targets = targets[:0]
		for _, v := range g.down[u] {
			targets = append(targets, ws.pos[v])
		}
		slices.Sort(targets)

		for _, p := range targets {
			lessOrEqual := 0
			for q := p + 1; q > 0; q -= q & (-q) {
				lessOrEqual += ws.ft[q]
			}
			crossings += total - lessOrEqual
		}
		for _, p := range targets {
			total++
			for idx := p + 1; idx < limit; idx += idx & (-idx) {
				ws.ft[idx]++
			}
		}
	}
	return crossings
}
