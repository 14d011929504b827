// Package core: Graph, GraphOption, sentinel errors and the NewGraph
// constructor.
//
// Errors:
//
//	ErrNegativeVertexID    - vertex id below zero.
//	ErrVertexNotFound      - requested vertex does not exist.
//	ErrLoopNotAllowed      - self-loop when loops are disabled.
//	ErrMultiEdgeNotAllowed - the edge is already present.
package core

import (
	"errors"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrNegativeVertexID indicates a vertex id below zero.
	ErrNegativeVertexID = errors.New("core: negative vertex id")

	// ErrVertexNotFound indicates an operation referenced a non-existent vertex.
	ErrVertexNotFound = errors.New("core: vertex not found")

	// ErrLoopNotAllowed indicates a self-loop was attempted when loops are disabled.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrMultiEdgeNotAllowed indicates the edge between the endpoints already exists.
	ErrMultiEdgeNotAllowed = errors.New("core: multi-edges not allowed")
)

// GraphOption configures behavior of a Graph before creation.
type GraphOption func(g *Graph)

// WithLoops permits self-loops (edges from a vertex to itself).
func WithLoops() GraphOption {
	return func(g *Graph) { g.allowLoops = true }
}

// Graph is an undirected simple graph over non-negative int ids.
//
// muVert protects the vertex catalog; muEdgeAdj protects adjacency and the
// edge counter.
type Graph struct {
	muVert    sync.RWMutex // guards vertices, order
	muEdgeAdj sync.RWMutex // guards adjacency, edges

	allowLoops bool

	vertices map[int]struct{}
	order    []int // insertion order

	adjacency map[int]map[int]struct{} // id → neighbor ids, mirrored
	edges     int
}

// NewGraph creates an empty Graph. By default, no loops.
// Complexity: O(1)
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		vertices:  make(map[int]struct{}),
		adjacency: make(map[int]map[int]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Looped reports whether self-loops are allowed.
func (g *Graph) Looped() bool { return g.allowLoops }
