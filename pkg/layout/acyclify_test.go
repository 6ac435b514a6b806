package layout

import "testing"

func buildGraph(t *testing.T, src testSource) *graph {
	t.Helper()
	g, err := newGraph(src)
	if err != nil {
		t.Fatalf("newGraph() error: %v", err)
	}
	return g
}

func reversedCount(g *graph) int {
	n := 0
	for _, e := range g.edges {
		if e.reversed {
			n++
		}
	}
	return n
}

func TestAcyclifyDAGUntouched(t *testing.T) {
	g := buildGraph(t, testSource{
		nodes: []string{"a", "b", "c", "d"},
		edges: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}},
	})
	g.acyclify()

	if n := reversedCount(g); n != 0 {
		t.Errorf("reversed %d edges of a DAG, want 0", n)
	}
}

func TestAcyclifyTwoNodeCycle(t *testing.T) {
	g := buildGraph(t, testSource{
		nodes: []string{"a", "b"},
		edges: [][2]string{{"a", "b"}, {"b", "a"}},
	})
	g.acyclify()

	if n := reversedCount(g); n != 1 {
		t.Fatalf("reversed %d edges, want 1", n)
	}
	// The reversed edge's endpoints were swapped, so both edges now agree.
	for _, e := range g.edges {
		if e.from != 0 || e.to != 1 {
			t.Errorf("edge %d→%d after acyclify, want 0→1", e.from, e.to)
		}
	}
}

func TestAcyclifyTriangle(t *testing.T) {
	g := buildGraph(t, testSource{
		nodes: []string{"a", "b", "c"},
		edges: [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
	})
	g.acyclify()

	if n := reversedCount(g); n != 1 {
		t.Errorf("reversed %d edges, want 1", n)
	}
	if !g.edges[2].reversed {
		t.Error("expected the closing edge c→a to be the feedback edge")
	}
	if err := g.rank(); err != nil {
		t.Errorf("forward edges still cyclic after acyclify: %v", err)
	}
}

func TestAcyclifySelfLoopExcluded(t *testing.T) {
	g := buildGraph(t, testSource{
		nodes: []string{"a"},
		edges: [][2]string{{"a", "a"}},
	})
	g.acyclify()

	if !g.edges[0].loop {
		t.Error("self loop not flagged at ingest")
	}
	if g.edges[0].reversed {
		t.Error("self loop endpoints must not be swapped")
	}
	if err := g.rank(); err != nil {
		t.Errorf("rank() error: %v", err)
	}
}

func TestAcyclifyNestedCycles(t *testing.T) {
	// a→b→c→a and b→d→b share vertex b.
	g := buildGraph(t, testSource{
		nodes: []string{"a", "b", "c", "d"},
		edges: [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"b", "d"}, {"d", "b"}},
	})
	g.acyclify()

	if n := reversedCount(g); n != 2 {
		t.Errorf("reversed %d edges, want 2", n)
	}
	if err := g.rank(); err != nil {
		t.Errorf("forward edges still cyclic after acyclify: %v", err)
	}
}
