package layout

import (
	"cmp"
	"slices"

	"github.com/tangleguard/layered/pkg/errors"
)

// order chooses a left-to-right permutation for every rank, heuristically
// minimizing edge crossings between adjacent ranks.
//
// The initial order comes from a breadth-first traversal seeded at vertices
// with no incoming segments, in input order; within a rank, vertices sort by
// first-visit time. Sweeps then alternate direction up to opts.MaxSweeps
// times: a downward sweep reorders ranks 1..R-1 by weights computed from the
// fixed rank above, an upward sweep reorders ranks R-2..0 from the rank
// below. Each sweep ends with a transpose pass that swaps adjacent pairs
// whenever that reduces crossings.
//
// A sweep is accepted only if it lowers the total crossing count; otherwise
// the previous best order is restored. The loop stops early once both
// directions fail to improve, so accepted counts are monotone non-increasing.
func (g *graph) order(opts Options) [][]int {
	layers := g.initialOrder()
	if len(layers) < 2 {
		return layers
	}

	pos := make([]int, len(g.verts))
	setPositions(layers, pos)

	best := cloneLayers(layers)
	bestN := g.countCrossings(layers)
	weights := make([]float64, len(g.verts))

	stale := 0
	for sweep := 0; sweep < opts.MaxSweeps && bestN > 0; sweep++ {
		if sweep%2 == 0 {
			for r := 1; r < len(layers); r++ {
				g.reorderRank(layers[r], g.up, pos, opts.Heuristic, weights)
			}
		} else {
			for r := len(layers) - 2; r >= 0; r-- {
				g.reorderRank(layers[r], g.down, pos, opts.Heuristic, weights)
			}
		}
		g.transpose(layers, pos)

		if n := g.countCrossings(layers); n < bestN {
			bestN = n
			copyLayers(best, layers)
			stale = 0
		} else {
			copyLayers(layers, best)
			setPositions(layers, pos)
			stale++
			if stale >= 2 {
				break
			}
		}
	}
	return best
}

// initialOrder performs the seeding BFS over unit-rank segments.
func (g *graph) initialOrder() [][]int {
	visit := make([]int, len(g.verts))
	for i := range visit {
		visit[i] = -1
	}

	count := 0
	var queue []int
	for v := range g.verts {
		if len(g.up[v]) == 0 {
			visit[v] = count
			count++
			queue = append(queue, v)
		}
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range g.down[v] {
			if visit[w] < 0 {
				visit[w] = count
				count++
				queue = append(queue, w)
			}
		}
	}

	layers := make([][]int, len(g.layers))
	for r, l := range g.layers {
		layer := slices.Clone(l)
		slices.SortStableFunc(layer, func(a, b int) int { return cmp.Compare(visit[a], visit[b]) })
		layers[r] = layer
	}
	return layers
}

// reorderRank recomputes weights for one rank against its fixed neighbor
// rank and stable-sorts the rank by weight. Vertices with no neighbors on
// the fixed side keep their current index as weight, so they stay put; the
// stable sort breaks weight ties by previous position.
func (g *graph) reorderRank(layer []int, nbrs [][]int, pos []int, h Heuristic, weights []float64) {
	buf := make([]float64, 0, 8)
	for i, v := range layer {
		buf = buf[:0]
		for _, w := range nbrs[v] {
			buf = append(buf, float64(pos[w]))
		}
		slices.Sort(buf)
		if h == Barycenter {
			weights[v] = barycenterWeight(buf, float64(i))
		} else {
			weights[v] = medianWeight(buf, float64(i))
		}
	}
	slices.SortStableFunc(layer, func(a, b int) int { return cmp.Compare(weights[a], weights[b]) })
	for i, v := range layer {
		pos[v] = i
	}
}

// medianWeight is the Gansner-style weighted median of sorted neighbor
// positions. Two neighbors yield their average. For larger even counts the
// result is biased toward the side with the tighter spread; when both gaps
// collapse it falls back to the lower median. own is returned when there are
// no neighbors.
func medianWeight(ps []float64, own float64) float64 {
	m := len(ps) / 2
	switch {
	case len(ps) == 0:
		return own
	case len(ps)%2 == 1:
		return ps[m]
	case len(ps) == 2:
		return (ps[0] + ps[1]) / 2
	default:
		left := ps[m-1] - ps[0]
		right := ps[len(ps)-1] - ps[m]
		if left+right == 0 {
			return ps[m-1]
		}
		return (ps[m-1]*right + ps[m]*left) / (left + right)
	}
}

// barycenterWeight is the mean of the neighbor positions, or own when there
// are none.
func barycenterWeight(ps []float64, own float64) float64 {
	if len(ps) == 0 {
		return own
	}
	sum := 0.0
	for _, p := range ps {
		sum += p
	}
	return sum / float64(len(ps))
}

// transpose sweeps every rank swapping adjacent pairs whenever the swap
// strictly reduces crossings against both neighbor ranks. Each accepted swap
// lowers the total crossing count, so the loop terminates.
func (g *graph) transpose(layers [][]int, pos []int) {
	improved := true
	for improved {
		improved = false
		for _, layer := range layers {
			for i := 0; i+1 < len(layer); i++ {
				v, w := layer[i], layer[i+1]
				if g.pairCrossings(w, v, pos) < g.pairCrossings(v, w, pos) {
					layer[i], layer[i+1] = w, v
					pos[v], pos[w] = pos[w], pos[v]
					improved = true
				}
			}
		}
	}
}

// pairCrossings counts the crossings among the segments of left and right
// when left sits immediately before right in their rank.
func (g *graph) pairCrossings(left, right int, pos []int) int {
	crossings := 0
	for _, a := range g.up[left] {
		for _, b := range g.up[right] {
			if pos[a] > pos[b] {
				crossings++
			}
		}
	}
	for _, a := range g.down[left] {
		for _, b := range g.down[right] {
			if pos[a] > pos[b] {
				crossings++
			}
		}
	}
	return crossings
}

// verifyLayers checks the orderer's post-condition: each rank's sequence is
// a permutation of exactly the vertices assigned to that rank.
func (g *graph) verifyLayers(layers [][]int) error {
	if len(layers) != len(g.layers) {
		return errors.New(errors.ErrCodeInternalInvariant,
			"orderer produced %d ranks, want %d", len(layers), len(g.layers))
	}
	seen := make([]bool, len(g.verts))
	for r, layer := range layers {
		if len(layer) != len(g.layers[r]) {
			return errors.New(errors.ErrCodeInternalInvariant,
				"rank %d has %d vertices, want %d", r, len(layer), len(g.layers[r]))
		}
		for _, v := range layer {
			if v < 0 || v >= len(g.verts) || g.verts[v].rank != r || seen[v] {
				return errors.New(errors.ErrCodeInternalInvariant,
					"rank %d sequence is not a permutation of its vertices", r)
			}
			seen[v] = true
		}
	}
	return nil
}

func setPositions(layers [][]int, pos []int) {
	for _, layer := range layers {
		for i, v := range layer {
			pos[v] = i
		}
	}
}

func cloneLayers(layers [][]int) [][]int {
	out := make([][]int, len(layers))
	for i, l := range layers {
		out[i] = slices.Clone(l)
	}
	return out
}

func copyLayers(dst, src [][]int) {
	for i := range src {
		copy(dst[i], src[i])
	}
}
