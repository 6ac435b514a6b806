// Package gallery provides a small library of canned graphs used by the
// examples command and the HTTP API. Each example builds a fresh graph on
// every call, so callers may mutate the result freely.
package gallery

import (
	"fmt"
	"math/rand"

	"github.com/tangleguard/layered/pkg/graph"
)

// Example is a named graph with a short description of what it exercises.
type Example struct {
	Name        string
	Description string
	Build       func() *graph.Graph
}

// Examples returns the full gallery in display order.
func Examples() []Example {
	return []Example{
		{
			Name:        "chain",
			Description: "a straight four-node pipeline",
			Build:       Chain,
		},
		{
			Name:        "diamond",
			Description: "one split that rejoins a rank later",
			Build:       Diamond,
		},
		{
			Name:        "binary-tree",
			Description: "a depth-three binary fan-out",
			Build:       BinaryTree,
		},
		{
			Name:        "tangle",
			Description: "two ranks sharing children, forcing crossings",
			Build:       Tangle,
		},
		{
			Name:        "ring",
			Description: "a five-node cycle broken by the acyclifier",
			Build:       Ring,
		},
		{
			Name:        "long-edges",
			Description: "skip connections spanning several ranks",
			Build:       LongEdges,
		},
		{
			Name:        "random-dag",
			Description: "a seeded pseudo-random DAG of thirty nodes",
			Build:       func() *graph.Graph { return RandomDAG(30, 42) },
		},
	}
}

// Lookup returns the example with the given name.
func Lookup(name string) (Example, bool) {
	for _, ex := range Examples() {
		if ex.Name == name {
			return ex, true
		}
	}
	return Example{}, false
}

// Chain builds a → b → c → d.
func Chain() *graph.Graph {
	return build([]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}})
}

// Diamond builds the classic split-rejoin shape.
func Diamond() *graph.Graph {
	return build([]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}})
}

// BinaryTree builds a complete binary tree of depth three.
func BinaryTree() *graph.Graph {
	g := graph.New()
	mustAddNode(g, "n1")
	for i := 2; i <= 15; i++ {
		mustAddNode(g, fmt.Sprintf("n%d", i))
		mustAddEdge(g, fmt.Sprintf("n%d", i/2), fmt.Sprintf("n%d", i))
	}
	return g
}

// Tangle builds two parents sharing children plus an extra rank, a shape
// whose crossings the orderer can only partly remove.
func Tangle() *graph.Graph {
	return build([]string{"app", "lib", "log", "net", "db", "fs"},
		[][2]string{
			{"app", "log"}, {"app", "net"}, {"app", "db"},
			{"lib", "log"}, {"lib", "db"},
			{"net", "fs"}, {"db", "fs"}, {"log", "fs"},
		})
}

// Ring builds a five-node directed cycle.
func Ring() *graph.Graph {
	ids := []string{"a", "b", "c", "d", "e"}
	edges := make([][2]string, len(ids))
	for i, id := range ids {
		edges[i] = [2]string{id, ids[(i+1)%len(ids)]}
	}
	return build(ids, edges)
}

// LongEdges builds a chain with skip connections spanning two, three and four
// ranks.
func LongEdges() *graph.Graph {
	return build([]string{"a", "b", "c", "d", "e"},
		[][2]string{
			{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "e"},
			{"a", "c"}, {"a", "e"}, {"b", "e"},
		})
}

// RandomDAG builds a pseudo-random DAG with n nodes. Edges only point from
// lower to higher node indices, so the result is acyclic, and the generator
// is seeded, so the same arguments always build the same graph.
func RandomDAG(n int, seed int64) *graph.Graph {
	rng := rand.New(rand.NewSource(seed))
	g := graph.New()
	for i := 0; i < n; i++ {
		mustAddNode(g, fmt.Sprintf("v%02d", i))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			// Favor short edges so ranks stay populated.
			if rng.Float64() < 2.5/float64(j-i+6) {
				mustAddEdge(g, fmt.Sprintf("v%02d", i), fmt.Sprintf("v%02d", j))
			}
		}
	}
	return g
}

func build(ids []string, edges [][2]string) *graph.Graph {
	g := graph.New()
	for _, id := range ids {
		mustAddNode(g, id)
	}
	for _, e := range edges {
		mustAddEdge(g, e[0], e[1])
	}
	return g
}

func mustAddNode(g *graph.Graph, id string) {
	if err := g.AddNode(graph.Node{ID: id}); err != nil {
		panic(err)
	}
}

func mustAddEdge(g *graph.Graph, from, to string) {
	if err := g.AddEdge(graph.Edge{From: from, To: to}); err != nil {
		panic(err)
	}
}
