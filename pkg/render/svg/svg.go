// Package svg renders computed layouts as standalone SVG documents for
// human inspection. It consumes the layout result unchanged; all geometry
// decisions belong to the layout engine.
package svg

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/tangleguard/layered/pkg/layout"
)

const (
	margin     = 40.0
	nodeRadius = 14.0
	fontSize   = 11
)

// Option configures the renderer.
type Option func(*renderer)

type renderer struct {
	labels    map[string]string
	showGrid  bool
	edgeColor string
	nodeColor string
}

// WithLabels overrides node display labels. Nodes missing from the map fall
// back to their ID.
func WithLabels(labels map[string]string) Option {
	return func(r *renderer) { r.labels = labels }
}

// WithRankGuides draws a faint horizontal guide at each distinct node y
// coordinate, which is one per rank in a top-to-bottom layout.
func WithRankGuides() Option {
	return func(r *renderer) { r.showGrid = true }
}

// Render produces a standalone SVG document for the layout result.
// Edges draw first so nodes sit on top; feedback edges are dashed.
// Output is deterministic: nodes render in sorted ID order.
func Render(res *layout.Result, opts ...Option) []byte {
	r := &renderer{edgeColor: "#6b7280", nodeColor: "#dbeafe"}
	for _, opt := range opts {
		opt(r)
	}

	minX, minY, maxX, maxY := bounds(res)
	width := maxX - minX + 2*margin
	height := maxY - minY + 2*margin
	dx, dy := margin-minX, margin-minY

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height)
	buf.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	if r.showGrid {
		r.writeRankGuides(&buf, res, dx, dy, width)
	}
	r.writeEdges(&buf, res, dx, dy)
	r.writeNodes(&buf, res, dx, dy)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) writeRankGuides(buf *bytes.Buffer, res *layout.Result, dx, dy, width float64) {
	seen := map[float64]bool{}
	var ys []float64
	for _, p := range res.Positions {
		if !seen[p.Y] {
			seen[p.Y] = true
			ys = append(ys, p.Y)
		}
	}
	sort.Float64s(ys)
	for _, y := range ys {
		fmt.Fprintf(buf, `  <line x1="0" y1="%.1f" x2="%.0f" y2="%.1f" stroke="#f3f4f6"/>`+"\n",
			y+dy, width, y+dy)
	}
}

func (r *renderer) writeEdges(buf *bytes.Buffer, res *layout.Result, dx, dy float64) {
	for _, e := range res.Edges {
		var pts bytes.Buffer
		for i, p := range e.Points {
			if i > 0 {
				pts.WriteByte(' ')
			}
			fmt.Fprintf(&pts, "%.1f,%.1f", p.X+dx, p.Y+dy)
		}
		dash := ""
		if e.Reversed {
			dash = ` stroke-dasharray="5,3"`
		}
		fmt.Fprintf(buf, `  <polyline points="%s" fill="none" stroke="%s" stroke-width="1.5"%s/>`+"\n",
			pts.String(), r.edgeColor, dash)
	}
}

func (r *renderer) writeNodes(buf *bytes.Buffer, res *layout.Result, dx, dy float64) {
	ids := make([]string, 0, len(res.Positions))
	for id := range res.Positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		p := res.Positions[id]
		label := id
		if r.labels != nil {
			if l, ok := r.labels[id]; ok && l != "" {
				label = l
			}
		}
		fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.0f" fill="%s" stroke="#1e3a5f" stroke-width="1.5"/>`+"\n",
			p.X+dx, p.Y+dy, nodeRadius, r.nodeColor)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%d" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			p.X+dx, p.Y+dy, fontSize, escape(label))
	}
}

// bounds returns the extent of every drawn coordinate, including bend points.
func bounds(res *layout.Result) (minX, minY, maxX, maxY float64) {
	first := true
	visit := func(p layout.Point) {
		if first {
			minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			first = false
			return
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	for _, p := range res.Positions {
		visit(p)
	}
	for _, e := range res.Edges {
		for _, p := range e.Points {
			visit(p)
		}
	}
	return minX, minY, maxX, maxY
}

func escape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
