// SPDX-License-Identifier: MIT
// Package: dbn/gen
//
// markov.go: static Markov network fixtures.
//
// Contract:
//   • Every variable carries the configured cardinality (WithCardinality).
//   • Potentials are drawn from [0.1, 1.1), so every joint state has positive
//     mass and the partition function is never 0.
//   • Variable 0 additionally carries a unary potential.
//
// Determinism:
//   • Chain emits (i, i+1) for i ascending; Grid emits, per cell in
//     row-major order, the right then the bottom neighbor table.

package gen

import (
	"fmt"

	"github.com/katalvlaran/dbn/factor"
	"github.com/katalvlaran/dbn/model"
)

const (
	methodChain = "Chain"
	methodGrid  = "Grid"
	minChain    = 2
	minGridDim  = 1
	minWeight   = 0.1
)

// Chain returns a MARKOV model over n variables linked in a path.
//
// Errors:
//   - ErrTooSmall: n < 2.
func Chain(n int, opts ...Option) (*model.Model, error) {
	if n < minChain {
		return nil, fmt.Errorf("%s: n=%d (must be ≥ %d): %w", methodChain, n, minChain, ErrTooSmall)
	}
	cfg := newConfig(opts...)
	edges := make([][2]int, 0, n-1)
	for i := 0; i+1 < n; i++ {
		edges = append(edges, [2]int{i, i + 1})
	}

	return pairwise(methodChain, cfg, n, edges)
}

// Grid returns a MARKOV model over a rows×cols lattice with 4-neighborhood;
// cell (r, c) is variable r*cols+c.
//
// Errors:
//   - ErrTooSmall: rows < 1 or cols < 1.
func Grid(rows, cols int, opts ...Option) (*model.Model, error) {
	if rows < minGridDim || cols < minGridDim {
		return nil, fmt.Errorf("%s: rows=%d, cols=%d (each must be ≥ %d): %w",
			methodGrid, rows, cols, minGridDim, ErrTooSmall)
	}
	cfg := newConfig(opts...)
	var edges [][2]int
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			u := r*cols + c
			if c+1 < cols {
				edges = append(edges, [2]int{u, u + 1})
			}
			if r+1 < rows {
				edges = append(edges, [2]int{u, u + cols})
			}
		}
	}

	return pairwise(methodGrid, cfg, rows*cols, edges)
}

// pairwise builds the unary table of variable 0 followed by one table per edge.
func pairwise(method string, cfg config, n int, edges [][2]int) (*model.Model, error) {
	cards := make([]int, n)
	for i := range cards {
		cards[i] = cfg.card
	}
	arena, err := factor.NewArena(cards...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	m := &model.Model{Kind: model.Markov, Arena: arena}

	add := func(ids ...int) error {
		vars, err := arena.Lookup(ids)
		if err != nil {
			return err
		}
		size := 1
		for _, v := range vars {
			size *= v.Card
		}
		values := make([]float64, size)
		for i := range values {
			values[i] = minWeight + cfg.rng.Float64()
		}
		f, err := factor.NewDenseScope(vars, values)
		if err != nil {
			return err
		}
		m.Factors = append(m.Factors, f)

		return nil
	}

	if err := add(0); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	for _, e := range edges {
		if err := add(e[0], e[1]); err != nil {
			return nil, fmt.Errorf("%s: edge %v: %w", method, e, err)
		}
	}

	return m, nil
}
