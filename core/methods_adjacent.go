// File: methods_adjacent.go
// Role: Neighborhood queries.
// Determinism:
//   - NeighborIDs() returns unique ids sorted ascending.

package core

import "sort"

// NeighborIDs returns the ids adjacent to id, sorted ascending. The slice
// is freshly allocated.
//
// Errors:
//   - ErrVertexNotFound: id is not in the graph.
//
// Complexity: O(k log k) for k neighbors.
func (g *Graph) NeighborIDs(id int) ([]int, error) {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	if _, ok := g.vertices[id]; !ok {
		return nil, ErrVertexNotFound
	}
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	ids := make([]int, 0, len(g.adjacency[id]))
	for n := range g.adjacency[id] {
		ids = append(ids, n)
	}
	sort.Ints(ids)

	return ids, nil
}
