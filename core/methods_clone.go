// File: methods_clone.go
// Role: Cloning graph instances.
// Concurrency:
//   - Read locks for snapshotting; the source graph is not mutated.

package core

// Clone returns a deep copy of the Graph: configuration, vertex order and
// adjacency. Edges added to the clone never show up in the source.
//
// Complexity: O(V + E)
func (g *Graph) Clone() *Graph {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	var opts []GraphOption
	if g.allowLoops {
		opts = append(opts, WithLoops())
	}
	clone := NewGraph(opts...)
	clone.order = append(make([]int, 0, len(g.order)), g.order...)
	for id := range g.vertices {
		clone.vertices[id] = struct{}{}
	}
	for id, nbrs := range g.adjacency {
		cp := make(map[int]struct{}, len(nbrs))
		for n := range nbrs {
			cp[n] = struct{}{}
		}
		clone.adjacency[id] = cp
	}
	clone.edges = g.edges

	return clone
}
