// File: methods_vertices.go
// Role: Vertex lifecycle & queries.
//
// Determinism:
//   - Vertices() returns ids in insertion order.
//
// Concurrency:
//   - Vertex catalog protected by muVert; adjacency bootstrap under muEdgeAdj.

package core

// AddVertex inserts a vertex if missing (idempotent).
//
// Implementation:
//   - Stage 1: Validate id >= 0 (ErrNegativeVertexID).
//   - Stage 2: Under muVert, register the id and record its insertion rank.
//   - Stage 3: Under muEdgeAdj, bootstrap an empty adjacency bucket.
//
// Complexity: O(1) amortized.
func (g *Graph) AddVertex(id int) error {
	if id < 0 {
		return ErrNegativeVertexID
	}
	g.muVert.Lock()
	defer g.muVert.Unlock()
	if _, exists := g.vertices[id]; exists {
		return nil
	}
	g.vertices[id] = struct{}{}
	g.order = append(g.order, id)

	g.muEdgeAdj.Lock()
	g.adjacency[id] = make(map[int]struct{})
	g.muEdgeAdj.Unlock()

	return nil
}

// HasVertex reports whether the vertex id exists.
// Complexity: O(1).
func (g *Graph) HasVertex(id int) bool {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	_, ok := g.vertices[id]

	return ok
}

// Vertices returns all vertex ids in insertion order. The slice is a copy.
// Complexity: O(V).
func (g *Graph) Vertices() []int {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	out := make([]int, len(g.order))
	copy(out, g.order)

	return out
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	return len(g.order)
}

// Degree returns the number of distinct neighbors of id; a self-loop counts
// once.
//
// Errors:
//   - ErrVertexNotFound: id is not in the graph.
//
// Complexity: O(1).
func (g *Graph) Degree(id int) (int, error) {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	if _, ok := g.vertices[id]; !ok {
		return 0, ErrVertexNotFound
	}
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.adjacency[id]), nil
}
