// File: methods_edges.go
// Role: Edge lifecycle & queries: AddEdge, HasEdge, EdgeCount.
//
// Concurrency:
//   - Endpoints are created through AddVertex before muEdgeAdj is taken.
//   - Mutations under the muEdgeAdj write lock, queries under its read lock.

package core

// AddEdge connects u and w, creating missing endpoints.
//
// Steps:
//  1. Validate ids and the loop constraint.
//  2. Ensure both vertices via AddVertex.
//  3. Lock muEdgeAdj; reject an existing edge (ErrMultiEdgeNotAllowed).
//  4. Record the edge in both adjacency buckets.
//
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(u, w int) error {
	if u < 0 || w < 0 {
		return ErrNegativeVertexID
	}
	if u == w && !g.allowLoops {
		return ErrLoopNotAllowed
	}
	if err := g.AddVertex(u); err != nil {
		return err
	}
	if err := g.AddVertex(w); err != nil {
		return err
	}

	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()
	if _, ok := g.adjacency[u][w]; ok {
		return ErrMultiEdgeNotAllowed
	}
	g.adjacency[u][w] = struct{}{}
	g.adjacency[w][u] = struct{}{}
	g.edges++

	return nil
}

// HasEdge reports whether u and w are adjacent. Symmetric.
// Complexity: O(1).
func (g *Graph) HasEdge(u, w int) bool {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	_, ok := g.adjacency[u][w]

	return ok
}

// EdgeCount returns the number of undirected edges (self-loops included).
func (g *Graph) EdgeCount() int {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return g.edges
}
