// Package layout computes planar coordinates for directed graphs, producing
// layered drawings in the style of the Sugiyama framework.
//
// # Overview
//
// [Compute] is the single entry point: it takes a [Source] describing the
// caller's graph and an [Options] record, and returns a [Result] with a
// position for every node, a polyline route for every edge, the final
// per-rank orderings, and the crossing count of the drawing.
//
// Internally the engine runs four stages over a private graph representation
// that grows synthetic vertices between phases:
//
//  1. Acyclifier: marks a feedback edge set via depth-first search so the
//     downstream stages can treat the graph as a DAG. Feedback edges are
//     drawn against the rank direction and restored at emission.
//  2. Layerer: longest-path ranking with a pull-down compaction pass, then
//     subdivision of long edges into unit-rank segments through dummy
//     vertices.
//  3. Orderer: iterative crossing reduction with median (default) or
//     barycenter weights, adjacent-pair transposition, and Fenwick-tree
//     crossing counting.
//  4. Positioner: neighbor-averaging coordinate sweeps with minimum
//     separation repair.
//
// # Input Policies
//
// Parallel edges are merged silently at ingest and emit a single polyline.
// Self loops never constrain layering; they are classified as feedback and
// emitted as a small arc beside their node. An empty graph is not an error.
//
// # Determinism
//
// All sorts are stable and every tie breaks on a vertex's previous position
// or input order, so the same input and options always produce the same
// drawing, across runs and platforms.
package layout
