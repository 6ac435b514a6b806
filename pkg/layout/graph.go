package layout

import "github.com/tangleguard/layered/pkg/errors"

// Source is the traversal interface the engine requires from the caller's
// graph container. Node IDs must be unique, non-empty strings; the engine
// never mutates the source. Enumeration order is significant: it seeds the
// deterministic tie-breaking used throughout the pipeline.
type Source interface {
	// NodeIDs enumerates all node identifiers.
	NodeIDs() []string

	// EdgePairs enumerates all directed edges as (source, target) ID pairs.
	EdgePairs() [][2]string
}

// vertexKind distinguishes caller-supplied vertices from the synthetic ones
// the layerer inserts to subdivide long edges.
type vertexKind int

const (
	vertexReal vertexKind = iota
	vertexDummy
)

// vertex is a node of the internal graph, addressed by its dense index.
type vertex struct {
	kind vertexKind
	id   string // real: the caller's node ID
	edge int    // dummy: index of the owning edge
	seq  int    // dummy: 1-based position within the owning edge's chain
	rank int
}

// edge is one merged input edge. After the acyclifier runs, endpoints are
// oriented forward (from low rank to high rank) and reversed records whether
// the caller's direction was flipped. Self loops never enter the pipeline;
// they carry loop=true and are handled at emission.
type edge struct {
	from     int
	to       int
	reversed bool
	loop     bool
}

// graph is the internal pipeline representation. It is built once per layout
// invocation and discarded afterwards; no state survives between calls.
//
// Dense slices indexed by vertex keep the per-rank inner loops free of hash
// lookups. chains, up and down are populated by subdivide.
type graph struct {
	verts  []vertex
	edges  []edge
	chains [][]int // per edge: dummy vertices in source→target order
	up     [][]int // per vertex: unit-span segment sources
	down   [][]int // per vertex: unit-span segment targets
	layers [][]int // per rank: vertices, order unspecified until the orderer runs
}

// newGraph ingests the source graph. Parallel edges are merged silently;
// self loops are kept but flagged so the pipeline skips them.
func newGraph(src Source) (*graph, error) {
	ids := src.NodeIDs()

	g := &graph{verts: make([]vertex, 0, len(ids))}
	index := make(map[string]int, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node ID must not be empty")
		}
		if _, dup := index[id]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate node ID %q", id)
		}
		index[id] = len(g.verts)
		g.verts = append(g.verts, vertex{kind: vertexReal, id: id, edge: -1})
	}

	seen := make(map[[2]int]bool)
	for _, pair := range src.EdgePairs() {
		from, ok := index[pair[0]]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge references unknown source node %q", pair[0])
		}
		to, ok := index[pair[1]]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge references unknown target node %q", pair[1])
		}
		if seen[[2]int{from, to}] {
			continue
		}
		seen[[2]int{from, to}] = true
		g.edges = append(g.edges, edge{from: from, to: to, loop: from == to})
	}

	return g, nil
}

// addDummy appends a dummy vertex for edge e at the given rank and returns
// its index. seq is the 1-based position within the edge's chain.
func (g *graph) addDummy(e, seq, rank int) int {
	v := len(g.verts)
	g.verts = append(g.verts, vertex{kind: vertexDummy, edge: e, seq: seq, rank: rank})
	return v
}

// rankCount returns the number of ranks. Valid only after subdivide ran.
func (g *graph) rankCount() int { return len(g.layers) }
