package layout

// Compute runs the full layout pipeline on the source graph and returns the
// result in the caller's node identifiers.
//
// The pipeline is a pure function: the source is read once, all scratch
// structures live only for the duration of the call, and two runs with the
// same input and options produce identical results. Independent computations
// may run concurrently without synchronization.
//
// Stages run in order: the acyclifier marks a feedback edge set so the rest
// of the pipeline sees a DAG; the layerer assigns ranks and subdivides long
// edges with dummy vertices; the orderer permutes each rank to reduce
// crossings; the positioner assigns coordinates; emission translates back to
// input node IDs.
//
// An empty source yields an empty, well-formed result rather than an error.
// Errors carry the codes of the errors package: INVALID_OPTION for bad
// options, INVALID_INPUT for malformed sources (empty or duplicate node IDs,
// edges naming unknown nodes), and INTERNAL_INVARIANT when a stage
// post-condition is violated, which indicates a bug in this package.
func Compute(src Source, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	g, err := newGraph(src)
	if err != nil {
		return nil, err
	}
	if len(g.verts) == 0 {
		return &Result{
			Positions: map[string]Point{},
			Edges:     []EdgePath{},
			Layers:    [][]string{},
		}, nil
	}

	g.acyclify()
	if err := g.rank(); err != nil {
		return nil, err
	}
	g.subdivide()

	layers := g.order(opts)
	if err := g.verifyLayers(layers); err != nil {
		return nil, err
	}

	coords := g.position(layers, opts)
	crossings := g.countCrossings(layers)

	return g.emit(layers, coords, crossings, opts), nil
}
