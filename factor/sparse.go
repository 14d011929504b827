// SPDX-License-Identifier: MIT
// Package: dbn/factor
//
// sparse.go: compressed table storing only non-zero cells.
//
// Contract:
//   • entries holds exactly the non-zero cells, keyed by flat position.
//   • Zero cells are implicit; At returns 0 for them.
//   • Operations iterate entries in ascending position order so that
//     floating-point accumulation (and therefore every result) is
//     deterministic.
//
// Complexity:
//   • Memory O(nnz). Product O(nnz(f) · Π card(novel vars of other)).
//   • SumOut/Condition/Normalize O(nnz · width).
//
// Deterministic circuit models (0/1 conditional tables) are the target: most
// of their cells are zero, and so are most cells of their products.

package factor

import (
	"fmt"
	"sort"
)

// Sparse is a table that stores only its non-zero cells.
type Sparse struct {
	dom       *Domain
	entries   map[int]float64 // position → non-zero value
	partition float64
}

// NewSparse builds a sparse table over dom from a dense cell slice
// (len(values) == dom.Size()); zeros are dropped.
func NewSparse(dom *Domain, values []float64) (*Sparse, error) {
	if dom == nil {
		return nil, fmt.Errorf("NewSparse: nil domain: %w", ErrInvalidArgument)
	}
	if len(values) != dom.Size() {
		return nil, fmt.Errorf("NewSparse: %d values for domain size %d: %w", len(values), dom.Size(), ErrInvalidArgument)
	}
	s := &Sparse{dom: dom, entries: make(map[int]float64)}
	for pos, v := range values {
		s.put(pos, v)
	}

	return s, nil
}

// put stores a cell, skipping zeros, and updates the partition.
func (s *Sparse) put(pos int, v float64) {
	if v == 0 {
		return
	}
	s.entries[pos] += v
	if s.entries[pos] == 0 {
		delete(s.entries, pos)
	}
	s.partition += v
}

// positions returns the stored positions in ascending order.
func (s *Sparse) positions() []int {
	keys := make([]int, 0, len(s.entries))
	for pos := range s.entries {
		keys = append(keys, pos)
	}
	sort.Ints(keys)

	return keys
}

// Domain returns the table's domain.
func (s *Sparse) Domain() *Domain { return s.dom }

// Size returns the number of logical cells (zeros included).
func (s *Sparse) Size() int { return s.dom.Size() }

// Width returns the number of scope variables.
func (s *Sparse) Width() int { return s.dom.Width() }

// NonZero returns the number of stored cells.
func (s *Sparse) NonZero() int { return len(s.entries) }

// Partition returns Σ cells.
func (s *Sparse) Partition() float64 { return s.partition }

// InScope reports whether v belongs to the scope.
func (s *Sparse) InScope(v Variable) bool { return s.dom.InScope(v) }

// At returns the cell at pos (0 for implicit cells).
func (s *Sparse) At(pos int) (float64, error) {
	if pos < 0 || pos >= s.dom.Size() {
		return 0, indexErr("Sparse.At", pos, s.dom.Size())
	}

	return s.entries[pos], nil
}

// Values expands the table into a dense cell slice.
func (s *Sparse) Values() []float64 {
	out := make([]float64, s.dom.Size())
	for pos, v := range s.entries {
		out[pos] = v
	}

	return out
}

// Product multiplies s by other over the union domain.
// Only the non-zero cells of s are visited; for each, every completion over
// the variables other adds is looked up through PositionAligned.
func (s *Sparse) Product(other Table) (Table, error) {
	dom, err := s.dom.Union(other.Domain())
	if err != nil {
		return nil, factorErrorf("Sparse.Product", err)
	}
	out := &Sparse{dom: dom, entries: make(map[int]float64)}

	// Novel variables: result positions [s.Width(), dom.Width()).
	novel := dom.scope[s.dom.Width():]
	novelDom := mustDomain(novel)
	src := make([]int, s.dom.Width())
	inst := make([]int, dom.Width())
	sub := make([]int, len(novel))

	for _, pos := range s.positions() {
		a := s.entries[pos]
		s.dom.decode(pos, src)
		copy(inst, src)
		for i := range sub {
			sub[i] = 0
		}
		for n := 0; n < novelDom.Size(); n++ {
			copy(inst[len(src):], sub)
			q, err := other.Domain().PositionAligned(inst, dom)
			if err != nil {
				return nil, factorErrorf("Sparse.Product", err)
			}
			b, err := other.At(q)
			if err != nil {
				return nil, factorErrorf("Sparse.Product", err)
			}
			if b != 0 {
				p, _ := dom.Position(inst)
				out.put(p, a*b)
			}
			novelDom.Next(sub, nil)
		}
	}

	return out, nil
}

// SumOut marginalizes v away (identity copy when v is not in scope).
func (s *Sparse) SumOut(v Variable) (Table, error) {
	if !s.dom.InScope(v) {
		return s.clone(s.dom), nil
	}
	dom := s.dom.Without(v)
	out := &Sparse{dom: dom, entries: make(map[int]float64)}
	inst := make([]int, s.dom.Width())
	for _, pos := range s.positions() {
		s.dom.decode(pos, inst)
		p, err := dom.PositionAligned(inst, s.dom)
		if err != nil {
			return nil, factorErrorf("Sparse.SumOut", err)
		}
		out.put(p, s.entries[pos])
	}

	return out, nil
}

// Condition keeps the cells consistent with ev and drops the fixed variables.
func (s *Sparse) Condition(ev Evidence) (Table, error) {
	if _, err := evidenceBase(s.dom, ev, "Sparse.Condition"); err != nil {
		return nil, err
	}
	dom := s.dom.Restrict(ev)
	out := &Sparse{dom: dom, entries: make(map[int]float64)}
	inst := make([]int, s.dom.Width())
	for _, pos := range s.positions() {
		s.dom.decode(pos, inst)
		if !consistent(s.dom, inst, ev) {
			continue
		}
		p, err := dom.PositionAligned(inst, s.dom)
		if err != nil {
			return nil, factorErrorf("Sparse.Condition", err)
		}
		out.put(p, s.entries[pos])
	}

	return out, nil
}

// consistent reports whether inst agrees with every in-scope evidence value.
func consistent(dom *Domain, inst []int, ev Evidence) bool {
	for i, v := range dom.scope {
		if val, fixed := ev[v.ID]; fixed && inst[i] != val {
			return false
		}
	}

	return true
}

// Normalize returns s scaled to partition 1.
// Errors: ErrDegenerateDistribution when the partition is 0.
func (s *Sparse) Normalize() (Table, error) {
	if s.partition == 0 {
		return nil, fmt.Errorf("Sparse.Normalize: %v: %w", s.dom, ErrDegenerateDistribution)
	}
	out := &Sparse{dom: s.dom, entries: make(map[int]float64, len(s.entries)), partition: 1}
	for pos, v := range s.entries {
		out.entries[pos] = v / s.partition
	}
	out.dom, _ = s.dom.Rename(nil)

	return out, nil
}

// Rename relabels scope variables; stored positions are untouched.
func (s *Sparse) Rename(mapping map[int]Variable) (Table, error) {
	dom, err := s.dom.Rename(mapping)
	if err != nil {
		return nil, factorErrorf("Sparse.Rename", err)
	}

	return s.clone(dom), nil
}

// clone copies the entries onto dom (same size and offsets as s.dom).
func (s *Sparse) clone(dom *Domain) *Sparse {
	if dom == s.dom {
		dom, _ = s.dom.Rename(nil)
	}
	out := &Sparse{dom: dom, entries: make(map[int]float64, len(s.entries)), partition: s.partition}
	for pos, v := range s.entries {
		out.entries[pos] = v
	}

	return out
}

// String implements fmt.Stringer.
func (s *Sparse) String() string {
	return fmt.Sprintf("Sparse(%v, nnz:%d, partition:%g)", s.dom, len(s.entries), s.partition)
}
