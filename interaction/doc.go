// Package interaction provides the undirected co-scope graph of a factor set
// and the elimination-order heuristics built on it.
//
// Two variables are adjacent when some factor mentions both. The graph is a
// read-only view built once by New; it is never updated incrementally.
//
// What:
//
//   - New(tables):      O(Σ width(f)²) construction.
//   - Neighbors/HasEdge/Degree: adjacency queries (deterministic, id-sorted).
//   - MinFill(candidates): greedy min-fill elimination order.
//   - InducedWidth(order): largest clique an order creates when eliminated.
//
// MinFill determinism:
//
//	Ties are broken by candidate scan order: the first variable with the
//	minimal fill count in the current candidate slice wins, and the winner
//	is removed from the slice with the order of the others preserved.
//	Eliminated variables stay in the adjacency structure and are only
//	marked processed; no fill edges are inserted while ordering.
//
// Example:
//
//	g := interaction.New(tables)
//	order := g.MinFill(hidden) // eliminate hidden, keep the rest
package interaction
