package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/tangleguard/layered/pkg/errors"
)

// testSource is a minimal Source for driving the pipeline in tests.
type testSource struct {
	nodes []string
	edges [][2]string
}

func (s testSource) NodeIDs() []string      { return s.nodes }
func (s testSource) EdgePairs() [][2]string { return s.edges }

func mustCompute(t *testing.T, src Source, opts Options) *Result {
	t.Helper()
	res, err := Compute(src, opts)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	return res
}

func TestComputeEmptyGraph(t *testing.T) {
	res := mustCompute(t, testSource{}, Options{})

	if len(res.Positions) != 0 {
		t.Errorf("Positions has %d entries, want 0", len(res.Positions))
	}
	if len(res.Layers) != 0 {
		t.Errorf("Layers has %d entries, want 0", len(res.Layers))
	}
	if res.Crossings != 0 {
		t.Errorf("Crossings = %d, want 0", res.Crossings)
	}
}

func TestComputeSingleNode(t *testing.T) {
	res := mustCompute(t, testSource{nodes: []string{"a"}}, Options{})

	if got := res.Positions["a"]; got != (Point{}) {
		t.Errorf("position of a = %v, want (0, 0)", got)
	}
	if !reflect.DeepEqual(res.Layers, [][]string{{"a"}}) {
		t.Errorf("Layers = %v, want [[a]]", res.Layers)
	}
	if res.Crossings != 0 {
		t.Errorf("Crossings = %d, want 0", res.Crossings)
	}
}

func TestComputeChain(t *testing.T) {
	src := testSource{
		nodes: []string{"a", "b", "c", "d"},
		edges: [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}},
	}
	res := mustCompute(t, src, Options{})

	want := [][]string{{"a"}, {"b"}, {"c"}, {"d"}}
	if !reflect.DeepEqual(res.Layers, want) {
		t.Errorf("Layers = %v, want %v", res.Layers, want)
	}
	if res.Crossings != 0 {
		t.Errorf("Crossings = %d, want 0", res.Crossings)
	}

	// A chain should be drawn straight.
	x := res.Positions["a"].X
	for _, id := range []string{"b", "c", "d"} {
		if math.Abs(res.Positions[id].X-x) > DefaultNodeSeparation/10 {
			t.Errorf("x(%s) = %v, want within %v of %v", id, res.Positions[id].X, DefaultNodeSeparation/10, x)
		}
	}
}

func TestComputeDiamond(t *testing.T) {
	src := testSource{
		nodes: []string{"a", "b", "c", "d"},
		edges: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}},
	}
	res := mustCompute(t, src, Options{})

	if len(res.Layers) != 3 || len(res.Layers[0]) != 1 || len(res.Layers[1]) != 2 || len(res.Layers[2]) != 1 {
		t.Fatalf("Layers = %v, want [[a] [b c] [d]] up to middle order", res.Layers)
	}
	if res.Crossings != 0 {
		t.Errorf("Crossings = %d, want 0", res.Crossings)
	}

	lo := math.Min(res.Positions["b"].X, res.Positions["c"].X)
	hi := math.Max(res.Positions["b"].X, res.Positions["c"].X)
	for _, id := range []string{"a", "d"} {
		if x := res.Positions[id].X; x < lo || x > hi {
			t.Errorf("x(%s) = %v, want within [%v, %v]", id, x, lo, hi)
		}
	}
}

func TestComputeCompleteBipartite(t *testing.T) {
	// K(2,2) forces exactly one crossing no matter how the ranks are
	// permuted; the orderer must not report more than that minimum.
	src := testSource{
		nodes: []string{"a", "b", "x", "y"},
		edges: [][2]string{{"a", "x"}, {"a", "y"}, {"b", "x"}, {"b", "y"}},
	}
	res := mustCompute(t, src, Options{})

	if res.Crossings != 1 {
		t.Errorf("Crossings = %d, want 1 (the K(2,2) minimum)", res.Crossings)
	}
}

func TestComputeAvoidableCrossing(t *testing.T) {
	// a→x, a→y, b→x has a crossing-free order; the sweeps must find it.
	src := testSource{
		nodes: []string{"a", "b", "x", "y"},
		edges: [][2]string{{"a", "x"}, {"a", "y"}, {"b", "x"}},
	}
	res := mustCompute(t, src, Options{})

	if res.Crossings != 0 {
		t.Errorf("Crossings = %d, want 0", res.Crossings)
	}
}

func TestComputeCycle(t *testing.T) {
	src := testSource{
		nodes: []string{"a", "b", "c"},
		edges: [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
	}
	res := mustCompute(t, src, Options{})

	var feedback []EdgePath
	for _, e := range res.Edges {
		if e.Reversed {
			feedback = append(feedback, e)
		}
	}
	if len(feedback) != 1 {
		t.Fatalf("got %d feedback edges, want 1", len(feedback))
	}

	fb := feedback[0]
	if fb.From != "c" || fb.To != "a" {
		t.Errorf("feedback edge = %s→%s, want c→a", fb.From, fb.To)
	}
	if fb.Points[0] != res.Positions[fb.From] {
		t.Errorf("feedback polyline starts at %v, want source position %v", fb.Points[0], res.Positions[fb.From])
	}
	if last := fb.Points[len(fb.Points)-1]; last != res.Positions[fb.To] {
		t.Errorf("feedback polyline ends at %v, want target position %v", last, res.Positions[fb.To])
	}

	// The surviving two edges define the chain a→b→c.
	want := [][]string{{"a"}, {"b"}, {"c"}}
	if !reflect.DeepEqual(res.Layers, want) {
		t.Errorf("Layers = %v, want %v", res.Layers, want)
	}
}

func TestComputeSelfLoop(t *testing.T) {
	src := testSource{
		nodes: []string{"a", "b"},
		edges: [][2]string{{"a", "a"}, {"a", "b"}},
	}
	res := mustCompute(t, src, Options{})

	var loop *EdgePath
	for i := range res.Edges {
		if res.Edges[i].From == "a" && res.Edges[i].To == "a" {
			loop = &res.Edges[i]
		}
	}
	if loop == nil {
		t.Fatal("self loop missing from edge output")
	}
	if !loop.Reversed {
		t.Error("self loop should be classified as feedback")
	}
	pos := res.Positions["a"]
	if loop.Points[0] != pos || loop.Points[len(loop.Points)-1] != pos {
		t.Errorf("self loop polyline should start and end at %v, got %v", pos, loop.Points)
	}
	if len(loop.Points) < 3 {
		t.Errorf("self loop arc has %d points, want bend points between the endpoints", len(loop.Points))
	}
}

func TestComputeParallelEdgesMerged(t *testing.T) {
	src := testSource{
		nodes: []string{"a", "b"},
		edges: [][2]string{{"a", "b"}, {"a", "b"}, {"a", "b"}},
	}
	res := mustCompute(t, src, Options{})

	if len(res.Edges) != 1 {
		t.Errorf("got %d polylines, want 1 (parallel edges merge at ingest)", len(res.Edges))
	}
}

func TestComputeLongEdgeBendPoints(t *testing.T) {
	// a→c spans two ranks: its polyline must carry one interior bend point
	// at the middle rank.
	src := testSource{
		nodes: []string{"a", "b", "c"},
		edges: [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}},
	}
	res := mustCompute(t, src, Options{})

	var long *EdgePath
	for i := range res.Edges {
		if res.Edges[i].From == "a" && res.Edges[i].To == "c" {
			long = &res.Edges[i]
		}
	}
	if long == nil {
		t.Fatal("edge a→c missing")
	}
	if len(long.Points) != 3 {
		t.Fatalf("a→c polyline has %d points, want 3", len(long.Points))
	}
	if y := long.Points[1].Y; y != DefaultRankSeparation {
		t.Errorf("bend point y = %v, want %v (middle rank)", y, DefaultRankSeparation)
	}
}

// tangleFixture is a moderately dense graph with cycles, long edges and a
// disconnected component, used by the invariant and determinism tests.
func tangleFixture() testSource {
	return testSource{
		nodes: []string{"app", "api", "auth", "db", "log", "util", "cfg", "ext"},
		edges: [][2]string{
			{"app", "api"}, {"app", "auth"}, {"api", "db"}, {"auth", "db"},
			{"api", "log"}, {"auth", "log"}, {"app", "util"}, {"db", "util"},
			{"log", "util"}, {"util", "app"}, {"cfg", "api"}, {"app", "db"},
		},
	}
}

func TestComputeUniversalInvariants(t *testing.T) {
	src := tangleFixture()
	opts := Options{NodeSeparation: 40, RankSeparation: 60}
	res := mustCompute(t, src, opts)

	// Every node appears in exactly one layer and has one position.
	seen := map[string]int{}
	for _, layer := range res.Layers {
		for _, id := range layer {
			seen[id]++
		}
	}
	for _, id := range src.nodes {
		if seen[id] != 1 {
			t.Errorf("node %s appears in %d layers, want 1", id, seen[id])
		}
		if _, ok := res.Positions[id]; !ok {
			t.Errorf("node %s has no position", id)
		}
	}
	if len(res.Positions) != len(src.nodes) {
		t.Errorf("Positions has %d entries, want %d", len(res.Positions), len(src.nodes))
	}

	// Within each rank x is strictly increasing with minimum separation.
	for r, layer := range res.Layers {
		for i := 1; i < len(layer); i++ {
			prev, cur := res.Positions[layer[i-1]], res.Positions[layer[i]]
			if cur.X < prev.X+opts.NodeSeparation {
				t.Errorf("rank %d: x(%s)=%v too close to x(%s)=%v", r, layer[i], cur.X, layer[i-1], prev.X)
			}
		}
	}

	// y grows with rank by at least the rank separation.
	rankOf := map[string]int{}
	for r, layer := range res.Layers {
		for _, id := range layer {
			rankOf[id] = r
			if want := float64(r) * opts.RankSeparation; res.Positions[id].Y != want {
				t.Errorf("y(%s) = %v, want %v", id, res.Positions[id].Y, want)
			}
		}
	}

	// Non-feedback edges point strictly down in rank; feedback edges point up.
	for _, e := range res.Edges {
		if e.From == e.To {
			continue
		}
		if e.Reversed {
			if rankOf[e.From] <= rankOf[e.To] {
				t.Errorf("feedback edge %s→%s: rank %d ≤ %d", e.From, e.To, rankOf[e.From], rankOf[e.To])
			}
		} else if rankOf[e.From] >= rankOf[e.To] {
			t.Errorf("edge %s→%s: rank %d ≥ %d", e.From, e.To, rankOf[e.From], rankOf[e.To])
		}
	}

	// Polylines connect the endpoint positions.
	for _, e := range res.Edges {
		if len(e.Points) < 2 {
			t.Fatalf("edge %s→%s has %d points", e.From, e.To, len(e.Points))
		}
		if e.Points[0] != res.Positions[e.From] {
			t.Errorf("edge %s→%s starts at %v, want %v", e.From, e.To, e.Points[0], res.Positions[e.From])
		}
		if last := e.Points[len(e.Points)-1]; last != res.Positions[e.To] {
			t.Errorf("edge %s→%s ends at %v, want %v", e.From, e.To, last, res.Positions[e.To])
		}
	}
}

func TestComputeDeterminism(t *testing.T) {
	src := tangleFixture()
	first := mustCompute(t, src, Options{})
	for i := 0; i < 3; i++ {
		again := mustCompute(t, src, Options{})
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run", i+2)
		}
	}
}

func TestComputeCrossingsMatchNaiveCount(t *testing.T) {
	src := tangleFixture()
	res := mustCompute(t, src, Options{})

	// Recount on the emitted order, dummies included, the slow way.
	g, err := newGraph(src)
	if err != nil {
		t.Fatal(err)
	}
	g.acyclify()
	if err := g.rank(); err != nil {
		t.Fatal(err)
	}
	g.subdivide()
	layers := g.order(Options{}.withDefaults())

	if naive := naiveCrossings(g, layers); res.Crossings != naive {
		t.Errorf("Crossings = %d, naive recount = %d", res.Crossings, naive)
	}
}

func TestComputeLeftToRight(t *testing.T) {
	src := testSource{
		nodes: []string{"a", "b", "c"},
		edges: [][2]string{{"a", "b"}, {"a", "c"}},
	}
	tb := mustCompute(t, src, Options{Direction: TopToBottom})
	lr := mustCompute(t, src, Options{Direction: LeftToRight})

	for id, p := range tb.Positions {
		if got := lr.Positions[id]; got.X != p.Y || got.Y != p.X {
			t.Errorf("position of %s = %v under LeftToRight, want axes of %v swapped", id, got, p)
		}
	}
	if !reflect.DeepEqual(tb.Layers, lr.Layers) {
		t.Errorf("Layers differ between directions: %v vs %v", tb.Layers, lr.Layers)
	}
}

func TestComputeReversedChainFlips(t *testing.T) {
	fwd := mustCompute(t, testSource{
		nodes: []string{"a", "b", "c"},
		edges: [][2]string{{"a", "b"}, {"b", "c"}},
	}, Options{})
	rev := mustCompute(t, testSource{
		nodes: []string{"a", "b", "c"},
		edges: [][2]string{{"b", "a"}, {"c", "b"}},
	}, Options{})

	want := [][]string{{"c"}, {"b"}, {"a"}}
	if !reflect.DeepEqual(rev.Layers, want) {
		t.Errorf("reversed chain Layers = %v, want %v", rev.Layers, want)
	}
	if fwd.Positions["a"].Y != rev.Positions["c"].Y {
		t.Errorf("flip mismatch: y(a fwd)=%v, y(c rev)=%v", fwd.Positions["a"].Y, rev.Positions["c"].Y)
	}
}

func TestComputeInvalidOptions(t *testing.T) {
	cases := []struct {
		name string
		opts Options
	}{
		{"negative node separation", Options{NodeSeparation: -1}},
		{"negative rank separation", Options{RankSeparation: -5}},
		{"negative sweeps", Options{MaxSweeps: -1}},
		{"unknown direction", Options{Direction: Direction(9)}},
		{"unknown heuristic", Options{Heuristic: Heuristic(9)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(testSource{nodes: []string{"a"}}, tc.opts)
			if !errors.Is(err, errors.ErrCodeInvalidOption) {
				t.Errorf("Compute() error = %v, want INVALID_OPTION", err)
			}
		})
	}
}

func TestComputeInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		src  testSource
	}{
		{"empty node ID", testSource{nodes: []string{""}}},
		{"duplicate node ID", testSource{nodes: []string{"a", "a"}}},
		{"unknown edge source", testSource{nodes: []string{"a"}, edges: [][2]string{{"x", "a"}}}},
		{"unknown edge target", testSource{nodes: []string{"a"}, edges: [][2]string{{"a", "x"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.src, Options{})
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Compute() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestComputeBarycenterHeuristic(t *testing.T) {
	src := tangleFixture()
	res := mustCompute(t, src, Options{Heuristic: Barycenter})

	again := mustCompute(t, src, Options{Heuristic: Barycenter})
	if !reflect.DeepEqual(res, again) {
		t.Error("barycenter runs are not deterministic")
	}
}

// naiveCrossings recounts crossings with the O(E²) pair scan, used as the
// reference for the Fenwick-tree implementation.
func naiveCrossings(g *graph, layers [][]int) int {
	pos := make([]int, len(g.verts))
	setPositions(layers, pos)

	total := 0
	for r := 0; r < len(layers)-1; r++ {
		type seg struct{ u, v int }
		var segs []seg
		for _, u := range layers[r] {
			for _, v := range g.down[u] {
				segs = append(segs, seg{pos[u], pos[v]})
			}
		}
		for i := 0; i < len(segs); i++ {
			for j := i + 1; j < len(segs); j++ {
				a, b := segs[i], segs[j]
				if (a.u < b.u && a.v > b.v) || (b.u < a.u && b.v > a.v) {
					total++
				}
			}
		}
	}
	return total
}
