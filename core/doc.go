// Package core provides a thread-safe, undirected, unweighted in-memory
// graph over integer vertex ids, the structure behind interaction graphs.
//
// The Graph G = (V,E) keeps:
//
//   - Vertices in insertion order (Vertices), with O(1) membership.
//   - Simple undirected edges via mirrored nested maps:
//     adjacency[u][w] = struct{}{} and adjacency[w][u] = struct{}{}
//   - Self-loops only when built WithLoops.
//   - Separate sync.RWMutex for vertices (muVert) and edges+adjacency
//     (muEdgeAdj), always acquired in that order.
//
// Core Methods:
//
//	// Vertex lifecycle
//	AddVertex(id int) error            // O(1)
//	HasVertex(id int) bool             // O(1)
//	Vertices() []int                   // insertion order
//
//	// Edge lifecycle
//	AddEdge(u, w int) error            // O(1), creates missing endpoints
//	HasEdge(u, w int) bool             // O(1), symmetric
//	NeighborIDs(id int) ([]int, error) // sorted ascending
//	Degree(id int) (int, error)
//
//	// Whole graph
//	Clone() *Graph                     // deep copy, O(V+E)
//
// Errors are sentinels checked with errors.Is: ErrNegativeVertexID,
// ErrVertexNotFound, ErrLoopNotAllowed, ErrMultiEdgeNotAllowed.
//
// Example:
//
//	g := core.NewGraph()
//	_ = g.AddEdge(0, 1)
//	_ = g.AddEdge(1, 2)
//	nbrs, _ := g.NeighborIDs(1) // [0 2]
package core
