// SPDX-License-Identifier: MIT

// Package factor: the Table capability interface.
// Every factor representation implements Table; the elimination engine and
// the forward filter are written against this interface only, so the storage
// (flat dense array, compressed sparse map, ...) is chosen at configuration
// time through a Backend rather than at each call site.
package factor

// Table is a real-valued function over the instantiations of a Domain.
//
// Contract (all implementations):
//   - Tables are values: every operation returns a new Table and never
//     mutates the receiver or the argument.
//   - Partition() is exactly Σ cells on return from any operation.
//   - A failed operation returns a nil Table and a sentinel-wrapped error.
//   - Cell order follows the Domain convention (last variable fastest).
type Table interface {
	// Domain returns the table's domain. Callers must not mutate it.
	Domain() *Domain

	// Size returns the number of cells (Domain().Size()).
	Size() int

	// Width returns the number of scope variables.
	Width() int

	// Partition returns the cached sum of all cells.
	Partition() float64

	// InScope reports whether v (by id) belongs to the scope.
	InScope(v Variable) bool

	// At returns the cell at a flat position or ErrIndexOutOfRange.
	At(pos int) (float64, error)

	// Values returns a dense copy of all cells.
	Values() []float64

	// Product multiplies two tables over the union of their scopes
	// (receiver scope first, then the other's novel variables).
	Product(other Table) (Table, error)

	// SumOut marginalizes v away; identity copy when v is not in scope.
	SumOut(v Variable) (Table, error)

	// Condition slices the table at the evidence values of in-scope keys.
	// Keys outside the scope are ignored. No renormalization.
	Condition(ev Evidence) (Table, error)

	// Normalize divides every cell by the partition (new partition == 1).
	// Returns ErrDegenerateDistribution when the partition is 0.
	Normalize() (Table, error)

	// Rename relabels scope variables (see Domain.Rename); cells unchanged.
	Rename(mapping map[int]Variable) (Table, error)
}

// Marginal sums out every scope variable of t not listed in keep.
// Variables in keep but not in t's scope are ignored.
// Complexity: one SumOut per removed variable.
func Marginal(t Table, keep []Variable) (Table, error) {
	keepIDs := make(map[int]struct{}, len(keep))
	for _, v := range keep {
		keepIDs[v.ID] = struct{}{}
	}
	out := t
	var err error
	for _, v := range t.Domain().Scope() {
		if _, ok := keepIDs[v.ID]; ok {
			continue
		}
		if out, err = out.SumOut(v); err != nil {
			return nil, factorErrorf("Marginal", err)
		}
	}
	if out == t {
		// Nothing removed: still hand back an independent value.
		return t.Rename(nil)
	}

	return out, nil
}
