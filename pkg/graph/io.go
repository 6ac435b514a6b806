package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tangleguard/layered/pkg/errors"
	"github.com/tangleguard/layered/pkg/layout"
)

// File is the canonical JSON serialization of an input graph. The format is
// designed for round-trip fidelity: node and edge order is preserved, so a
// re-imported graph lays out identically.
type File struct {
	Nodes []NodeJSON `json:"nodes"`
	Edges []EdgeJSON `json:"edges"`
}

// NodeJSON is the serialized form of a node.
type NodeJSON struct {
	ID    string         `json:"id"`
	Label string         `json:"label,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
}

// EdgeJSON is the serialized form of an edge.
type EdgeJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Layout is the serialized form of a computed layout, pairing the engine's
// result with the options that shaped it.
type Layout struct {
	layout.Result

	Direction string `json:"direction,omitempty"`
	Heuristic string `json:"heuristic,omitempty"`
}

// FromGraph converts a Graph to its serialization format, preserving
// insertion order.
func FromGraph(g *Graph) File {
	nodes := g.Nodes()
	out := File{
		Nodes: make([]NodeJSON, len(nodes)),
		Edges: make([]EdgeJSON, 0, g.EdgeCount()),
	}
	for i, n := range nodes {
		nj := NodeJSON{ID: n.ID, Label: n.Label}
		if len(n.Meta) > 0 {
			nj.Meta = n.Meta
		}
		out.Nodes[i] = nj
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, EdgeJSON{From: e.From, To: e.To})
	}
	return out
}

// ToGraph converts a serialized File back to a Graph.
func ToGraph(f File) (*Graph, error) {
	g := New()
	for _, nj := range f.Nodes {
		if err := g.AddNode(Node{ID: nj.ID, Label: nj.Label, Meta: nj.Meta}); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
	}
	for _, ej := range f.Edges {
		if err := g.AddEdge(Edge{From: ej.From, To: ej.To}); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", ej.From, ej.To, err)
		}
	}
	return g, nil
}

// MarshalGraph converts a Graph to indented JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	return json.MarshalIndent(FromGraph(g), "", "  ")
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (*Graph, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph JSON")
	}
	return ToGraph(f)
}

// ReadGraphFile loads a graph from a JSON file.
func ReadGraphFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "graph file %s not found", path)
	}
	if err != nil {
		return nil, err
	}
	return UnmarshalGraph(data)
}

// WriteGraphFile writes a graph to a JSON file.
func WriteGraphFile(g *Graph, path string) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// MarshalLayout converts a layout to indented JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes to a layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout JSON")
	}
	return l, nil
}

// ReadLayoutFile loads a layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Layout{}, errors.New(errors.ErrCodeFileNotFound, "layout file %s not found", path)
	}
	if err != nil {
		return Layout{}, err
	}
	return UnmarshalLayout(data)
}

// WriteLayoutFile writes a layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
