// SPDX-License-Identifier: MIT
// Package: dbn/interaction
//
// graph.go: co-scope adjacency and the min-fill ordering heuristic.
//
// Contract:
//   • adjacency lives in a core.Graph: symmetric and loop-free.
//   • Every variable of every input table is a vertex, isolated or not.
//   • Query methods return id-sorted slices; nothing depends on map order.
//
// Complexity:
//   • New: O(Σ width(f)²). MinFill: O(n² · Δ²) for n candidates, max degree Δ.

package interaction

import (
	"github.com/katalvlaran/dbn/core"
	"github.com/katalvlaran/dbn/factor"
)

// Graph is the undirected interaction graph of a batch of tables.
type Graph struct {
	adj   *core.Graph             // vertex ids are variable ids, first-seen order
	index map[int]factor.Variable // id → variable
}

// New builds the interaction graph: for every table and every unordered
// pair of distinct scope variables, one undirected edge.
func New(tables []factor.Table) *Graph {
	g := &Graph{
		adj:   core.NewGraph(),
		index: make(map[int]factor.Variable),
	}
	for _, t := range tables {
		scope := t.Domain().Scope()
		for _, v := range scope {
			g.addVertex(v)
		}
		for i := 0; i < len(scope); i++ {
			for j := i + 1; j < len(scope); j++ {
				connect(g.adj, scope[i].ID, scope[j].ID)
			}
		}
	}

	return g
}

// addVertex registers v. Arena ids are never negative, so AddVertex cannot fail.
func (g *Graph) addVertex(v factor.Variable) {
	if _, ok := g.index[v.ID]; ok {
		return
	}
	g.index[v.ID] = v
	_ = g.adj.AddVertex(v.ID)
}

// connect adds the edge u–w unless it is already there.
func connect(adj *core.Graph, u, w int) {
	if !adj.HasEdge(u, w) {
		_ = adj.AddEdge(u, w)
	}
}

// Variables returns the vertices in first-seen order.
func (g *Graph) Variables() []factor.Variable {
	ids := g.adj.Vertices()
	out := make([]factor.Variable, len(ids))
	for i, id := range ids {
		out[i] = g.index[id]
	}

	return out
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return g.adj.VertexCount() }

// HasVariable reports whether v appears in some table.
func (g *Graph) HasVariable(v factor.Variable) bool { return g.adj.HasVertex(v.ID) }

// HasEdge reports whether u and w share a table scope.
func (g *Graph) HasEdge(u, w factor.Variable) bool { return g.adj.HasEdge(u.ID, w.ID) }

// Degree returns the number of neighbors of v (0 if v is unknown).
func (g *Graph) Degree(v factor.Variable) int {
	d, err := g.adj.Degree(v.ID)
	if err != nil {
		return 0
	}

	return d
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int { return g.adj.EdgeCount() }

// Neighbors returns v's neighbors sorted by id (nil if v is unknown).
func (g *Graph) Neighbors(v factor.Variable) []factor.Variable {
	ids, err := g.adj.NeighborIDs(v.ID)
	if err != nil {
		return nil
	}
	out := make([]factor.Variable, len(ids))
	for i, id := range ids {
		out[i] = g.index[id]
	}

	return out
}

// MinFill computes a greedy min-fill elimination order over candidates.
//
// Implementation:
//   - Stage 1: for every remaining candidate x, count the unordered pairs of
//     x's unprocessed neighbors that are not adjacent (the fill-in edges
//     eliminating x would add). Non-candidate neighbors (query variables)
//     count as unprocessed.
//   - Stage 2: pick the first candidate with the minimal count in the current
//     candidate order, append it to the order, mark it processed.
//   - Stage 3: remove it from the candidate slice, keeping relative order.
//
// Candidates absent from the graph have no neighbors (fill 0). candidates is
// not modified.
func (g *Graph) MinFill(candidates []factor.Variable) []factor.Variable {
	remaining := make([]factor.Variable, len(candidates))
	copy(remaining, candidates)
	processed := make(map[int]struct{}, len(candidates))
	order := make([]factor.Variable, 0, len(candidates))

	for len(remaining) > 0 {
		best, bestFill := 0, -1
		for i, x := range remaining {
			fill := fillCount(g.adj, x.ID, processed)
			if bestFill < 0 || fill < bestFill {
				best, bestFill = i, fill
			}
		}
		x := remaining[best]
		order = append(order, x)
		processed[x.ID] = struct{}{}
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return order
}

// fillCount counts the missing edges among the unprocessed neighbors of id.
func fillCount(adj *core.Graph, id int, processed map[int]struct{}) int {
	nbrs := live(adj, id, processed)
	count := 0
	for i := 0; i < len(nbrs); i++ {
		for j := i + 1; j < len(nbrs); j++ {
			if !adj.HasEdge(nbrs[i], nbrs[j]) {
				count++
			}
		}
	}

	return count
}

// live returns the unprocessed neighbor ids of id, sorted. Unknown ids have none.
func live(adj *core.Graph, id int, processed map[int]struct{}) []int {
	ids, err := adj.NeighborIDs(id)
	if err != nil {
		return nil
	}
	out := ids[:0]
	for _, n := range ids {
		if _, done := processed[n]; !done {
			out = append(out, n)
		}
	}

	return out
}

// InducedWidth returns the size of the largest neighborhood met while
// eliminating order with fill edges added (the treewidth bound of the
// order). Fill edges go to a clone; the receiver is not modified.
func (g *Graph) InducedWidth(order []factor.Variable) int {
	sim := g.adj.Clone()
	processed := make(map[int]struct{}, len(order))
	width := 0
	for _, v := range order {
		nbrs := live(sim, v.ID, processed)
		if len(nbrs) > width {
			width = len(nbrs)
		}
		for i := 0; i < len(nbrs); i++ {
			for j := i + 1; j < len(nbrs); j++ {
				connect(sim, nbrs[i], nbrs[j])
			}
		}
		processed[v.ID] = struct{}{}
	}

	return width
}
