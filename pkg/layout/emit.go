package layout

// emit projects the internal layout back to the caller's node identifiers.
// Dummy vertices disappear from the node output; their coordinates survive
// only as bend points inside edge polylines. Feedback edges are emitted in
// the caller's original direction by reversing their chain. For LeftToRight
// the axes are swapped here, so the rest of the pipeline is written once for
// the canonical top-to-bottom orientation.
func (g *graph) emit(layers [][]int, coords []Point, crossings int, opts Options) *Result {
	res := &Result{
		Positions: make(map[string]Point, len(g.verts)),
		Edges:     make([]EdgePath, 0, len(g.edges)),
		Layers:    make([][]string, len(layers)),
		Crossings: crossings,
	}

	project := func(p Point) Point {
		if opts.Direction == LeftToRight {
			return Point{X: p.Y, Y: p.X}
		}
		return p
	}

	for r, layer := range layers {
		ids := make([]string, 0, len(layer))
		for _, v := range layer {
			if g.verts[v].kind != vertexReal {
				continue
			}
			ids = append(ids, g.verts[v].id)
			res.Positions[g.verts[v].id] = project(coords[v])
		}
		res.Layers[r] = ids
	}

	for i, e := range g.edges {
		if e.loop {
			res.Edges = append(res.Edges, g.emitSelfLoop(e, coords, opts, project))
			continue
		}

		points := make([]Point, 0, len(g.chains[i])+2)
		points = append(points, project(coords[e.from]))
		for _, d := range g.chains[i] {
			points = append(points, project(coords[d]))
		}
		points = append(points, project(coords[e.to]))

		from, to := g.verts[e.from].id, g.verts[e.to].id
		if e.reversed {
			from, to = to, from
			for l, r := 0, len(points)-1; l < r; l, r = l+1, r-1 {
				points[l], points[r] = points[r], points[l]
			}
		}
		res.Edges = append(res.Edges, EdgePath{From: from, To: to, Points: points, Reversed: e.reversed})
	}

	return res
}

// emitSelfLoop draws a self loop as a small arc beside the node: the
// polyline starts and ends at the node's position with two bend points
// offset toward the next column. Self loops count as feedback edges.
func (g *graph) emitSelfLoop(e edge, coords []Point, opts Options, project func(Point) Point) EdgePath {
	p := coords[e.from]
	dx := opts.NodeSeparation / 4
	dy := opts.RankSeparation / 8
	points := []Point{
		project(p),
		project(Point{X: p.X + dx, Y: p.Y - dy}),
		project(Point{X: p.X + dx, Y: p.Y + dy}),
		project(p),
	}
	id := g.verts[e.from].id
	return EdgePath{From: id, To: id, Points: points, Reversed: true}
}
