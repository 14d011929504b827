// SPDX-License-Identifier: MIT

package factor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Permute returns t with its cells reordered onto scope, which must hold
// exactly t's variables (any order). The representation of t is kept.
//
// Errors:
//   - ErrInvalidArgument: scope is not a permutation of t's scope.
//
// Complexity: O(size · width).
func Permute(t Table, scope []Variable) (Table, error) {
	dom, err := NewDomain(scope...)
	if err != nil {
		return nil, factorErrorf("Permute", err)
	}
	src := t.Domain()
	if !dom.Equivalent(src) {
		return nil, fmt.Errorf("Permute: %v is not a permutation of %v: %w", dom, src, ErrInvalidArgument)
	}
	values := make([]float64, dom.Size())
	inst := make([]int, dom.Width())
	for p := range values {
		q, err := src.PositionAligned(inst, dom)
		if err != nil {
			return nil, factorErrorf("Permute", err)
		}
		if values[p], err = t.At(q); err != nil {
			return nil, factorErrorf("Permute", err)
		}
		dom.Next(inst, nil)
	}
	if _, sparse := t.(*Sparse); sparse {
		return NewSparse(dom, values)
	}

	return NewDense(dom, values)
}

// EqualApprox reports whether a and b hold the same variable set and agree
// cell by cell, after aligning b onto a's scope order, within tol (absolute
// or relative, as gonum floats.EqualApprox).
func EqualApprox(a, b Table, tol float64) bool {
	if !a.Domain().Equivalent(b.Domain()) {
		return false
	}
	aligned, err := Permute(b, a.Domain().Scope())
	if err != nil {
		return false
	}

	return floats.EqualApprox(a.Values(), aligned.Values(), tol)
}
