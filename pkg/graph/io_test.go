package graph

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tangleguard/layered/pkg/errors"
	"github.com/tangleguard/layered/pkg/layout"
)

func buildDiamond(t *testing.T) *Graph {
	t.Helper()
	g := New()
	for _, id := range []string{"a", "b", "c", "d"} {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []Edge{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}} {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestGraphRoundTrip(t *testing.T) {
	g := buildDiamond(t)

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph() error: %v", err)
	}
	back, err := UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph() error: %v", err)
	}

	if !reflect.DeepEqual(g.NodeIDs(), back.NodeIDs()) {
		t.Errorf("node order changed: %v vs %v", g.NodeIDs(), back.NodeIDs())
	}
	if !reflect.DeepEqual(g.EdgePairs(), back.EdgePairs()) {
		t.Errorf("edges changed: %v vs %v", g.EdgePairs(), back.EdgePairs())
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	g := buildDiamond(t)
	path := filepath.Join(t.TempDir(), "graph.json")

	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile() error: %v", err)
	}
	back, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile() error: %v", err)
	}
	if back.NodeCount() != 4 || back.EdgeCount() != 4 {
		t.Errorf("round trip lost data: %d nodes, %d edges", back.NodeCount(), back.EdgeCount())
	}
}

func TestReadGraphFileMissing(t *testing.T) {
	_, err := ReadGraphFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestUnmarshalGraphInvalidJSON(t *testing.T) {
	_, err := UnmarshalGraph([]byte("{not json"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	g := buildDiamond(t)
	res, err := layout.Compute(g, layout.Options{})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	l := Layout{Result: *res, Direction: layout.TopToBottom.String(), Heuristic: layout.Median.String()}
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile() error: %v", err)
	}

	back, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error: %v", err)
	}
	if !reflect.DeepEqual(l, back) {
		t.Error("layout changed across serialization round trip")
	}
}
