// SPDX-License-Identifier: MIT
// Package: dbn/factor
//
// arena.go: single owner of every Variable of a model.
//
// Contract:
//   • Ids are dense: the i-th added variable has ID == i.
//   • Variables are never mutated nor removed; the arena only grows.
//   • Everything else (domains, tables, orders) refers to variables by value
//     or by id, never by address.
//
// Complexity:
//   • Add/Get: O(1) amortized. Clone: O(n).

package factor

import "fmt"

// Arena is an append-only store of variables.
// The zero value is an empty arena ready to use.
type Arena struct {
	vars []Variable // vars[i].ID == i
}

// NewArena creates an arena holding one variable per cardinality, with ids
// 0..len(cards)-1 in argument order.
// Returns ErrInvalidArgument if any cardinality is < 1.
func NewArena(cards ...int) (*Arena, error) {
	a := &Arena{vars: make([]Variable, 0, len(cards))}
	for _, c := range cards {
		if _, err := a.Add(c); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Add appends a fresh variable with the next free id.
// Returns ErrInvalidArgument if card < 1.
func (a *Arena) Add(card int) (Variable, error) {
	if card < 1 {
		return Variable{}, fmt.Errorf("Arena.Add: cardinality %d: %w", card, ErrInvalidArgument)
	}
	v := Variable{ID: len(a.vars), Card: card}
	a.vars = append(a.vars, v)

	return v, nil
}

// Get returns the variable with the given id or an *IndexError.
func (a *Arena) Get(id int) (Variable, error) {
	if id < 0 || id >= len(a.vars) {
		return Variable{}, indexErr("Arena.Get", id, len(a.vars))
	}

	return a.vars[id], nil
}

// Lookup resolves a list of ids, preserving order.
func (a *Arena) Lookup(ids []int) ([]Variable, error) {
	out := make([]Variable, len(ids))
	for i, id := range ids {
		v, err := a.Get(id)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

// Len returns the number of variables.
func (a *Arena) Len() int { return len(a.vars) }

// Variables returns a copy of all variables in id order.
func (a *Arena) Variables() []Variable {
	out := make([]Variable, len(a.vars))
	copy(out, a.vars)

	return out
}

// Clone returns an independent arena with the same variables. Appending to
// the clone never affects the original.
func (a *Arena) Clone() *Arena {
	return &Arena{vars: a.Variables()}
}
