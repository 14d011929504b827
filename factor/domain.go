// SPDX-License-Identifier: MIT
// Package: dbn/factor
//
// domain.go: ordered scopes and mixed-radix addressing.
//
// Convention (fixed, enforced by tests):
//   • The LAST scope variable varies fastest: offsets[width-1] == 1 and
//     offsets[i] == offsets[i+1] * card(scope[i+1]).
//   • position(inst) = Σ inst[i]·offsets[i] is a bijection from the cross
//     product of the state spaces onto [0, size).
//   • The empty scope has size 1 (a single, zero-width instantiation).
//
// Determinism:
//   • Scope order is caller order with later duplicates dropped.
//   • Domains are compared through variable ids only (InScope / Index).

package factor

import (
	"fmt"
	"math"
	"strings"
)

// Domain is an ordered, duplicate-free scope with its offset table.
// A Domain is immutable once built; every transformation returns a new one.
type Domain struct {
	scope   []Variable  // ordered, no duplicate ids
	offsets []int       // mixed-radix multipliers, last == 1
	size    int         // Π card(v)
	index   map[int]int // variable id → scope position
}

// NewDomain builds a domain over scope.
//
// Implementation:
//   - Stage 1 (Validate): cardinalities ≥ 1; equal ids must carry equal cards.
//   - Stage 2 (Dedupe): keep the first occurrence of every id.
//   - Stage 3 (Offsets): right-to-left product of cardinalities.
//
// Errors:
//   - ErrInvalidArgument: card < 1, conflicting duplicate, or size overflow.
//
// Complexity: O(width) time and memory.
func NewDomain(scope ...Variable) (*Domain, error) {
	d := &Domain{
		scope: make([]Variable, 0, len(scope)),
		index: make(map[int]int, len(scope)),
	}
	for _, v := range scope {
		if v.Card < 1 {
			return nil, fmt.Errorf("NewDomain: variable %d has cardinality %d: %w", v.ID, v.Card, ErrInvalidArgument)
		}
		if pos, seen := d.index[v.ID]; seen {
			if d.scope[pos].Card != v.Card {
				return nil, fmt.Errorf("NewDomain: variable %d declared with cardinalities %d and %d: %w",
					v.ID, d.scope[pos].Card, v.Card, ErrInvalidArgument)
			}
			continue // duplicate, same variable
		}
		d.index[v.ID] = len(d.scope)
		d.scope = append(d.scope, v)
	}

	// Offsets: last variable fastest.
	d.offsets = make([]int, len(d.scope))
	size := 1
	for i := len(d.scope) - 1; i >= 0; i-- {
		d.offsets[i] = size
		if size > math.MaxInt/d.scope[i].Card {
			return nil, fmt.Errorf("NewDomain: table size overflows int: %w", ErrInvalidArgument)
		}
		size *= d.scope[i].Card
	}
	d.size = size

	return d, nil
}

// mustDomain is used internally where the scope is known to be valid
// (derived from already validated domains).
func mustDomain(scope []Variable) *Domain {
	d, err := NewDomain(scope...)
	if err != nil {
		panic("factor: internal scope became invalid: " + err.Error())
	}

	return d
}

// Width returns the number of variables in scope.
func (d *Domain) Width() int { return len(d.scope) }

// Size returns the number of instantiations (table cells).
func (d *Domain) Size() int { return d.size }

// Scope returns a copy of the scope.
func (d *Domain) Scope() []Variable {
	out := make([]Variable, len(d.scope))
	copy(out, d.scope)

	return out
}

// Var returns the i-th scope variable.
func (d *Domain) Var(i int) (Variable, error) {
	if i < 0 || i >= len(d.scope) {
		return Variable{}, indexErr("Domain.Var", i, len(d.scope))
	}

	return d.scope[i], nil
}

// Offset returns the multiplier of the i-th scope variable.
func (d *Domain) Offset(i int) (int, error) {
	if i < 0 || i >= len(d.scope) {
		return 0, indexErr("Domain.Offset", i, len(d.scope))
	}

	return d.offsets[i], nil
}

// InScope reports whether a variable with v's id belongs to the scope.
func (d *Domain) InScope(v Variable) bool {
	_, ok := d.index[v.ID]

	return ok
}

// Index returns the scope position of the variable with id, if present.
func (d *Domain) Index(id int) (int, bool) {
	pos, ok := d.index[id]

	return pos, ok
}

// stride returns the offset of the variable with id, or 0 when absent.
// A zero stride lets aligned iteration ignore variables the domain lacks.
func (d *Domain) stride(id int) int {
	if pos, ok := d.index[id]; ok {
		return d.offsets[pos]
	}

	return 0
}

// Position maps a full-length instantiation to its flat index.
//
// Errors:
//   - ErrIndexOutOfRange: len(inst) != Width() or inst[i] ∉ [0, card).
//
// Complexity: O(width).
func (d *Domain) Position(inst []int) (int, error) {
	if len(inst) != len(d.scope) {
		return 0, fmt.Errorf("Domain.Position: %d components, want %d: %w", len(inst), len(d.scope), ErrIndexOutOfRange)
	}
	pos := 0
	for i, val := range inst {
		if val < 0 || val >= d.scope[i].Card {
			return 0, valueErr("Domain.Position", d.scope[i], val)
		}
		pos += val * d.offsets[i]
	}

	return pos, nil
}

// Assignment pins one variable to a value; used by PositionAligned to supply
// coordinates the source instantiation lacks.
type Assignment struct {
	VarID int
	Value int
}

// PositionAligned returns the position in d consistent with inst, an
// instantiation indexed by src's scope.
//
// Variables of d found in src copy their value from inst; an explicit
// Assignment overrides both sources; variables in neither default to 0
// (broadcast of a narrower operand over a wider iteration domain).
//
// Errors:
//   - ErrIndexOutOfRange: len(inst) != src.Width() or a value exceeds its card.
//
// Complexity: O(width(d) + len(over)).
func (d *Domain) PositionAligned(inst []int, src *Domain, over ...Assignment) (int, error) {
	if len(inst) != src.Width() {
		return 0, fmt.Errorf("Domain.PositionAligned: %d components, want %d: %w", len(inst), src.Width(), ErrIndexOutOfRange)
	}
	pos := 0
	for i, v := range d.scope {
		val := 0
		if j, ok := src.index[v.ID]; ok {
			val = inst[j]
		}
		for _, a := range over {
			if a.VarID == v.ID {
				val = a.Value
			}
		}
		if val < 0 || val >= v.Card {
			return 0, valueErr("Domain.PositionAligned", v, val)
		}
		pos += val * d.offsets[i]
	}

	return pos, nil
}

// Instantiation decodes a flat position back into per-variable values.
// It is the inverse of Position.
func (d *Domain) Instantiation(pos int) ([]int, error) {
	if pos < 0 || pos >= d.size {
		return nil, indexErr("Domain.Instantiation", pos, d.size)
	}
	inst := make([]int, len(d.scope))
	d.decode(pos, inst)

	return inst, nil
}

// decode writes the instantiation of a valid pos into inst (len == width).
func (d *Domain) decode(pos int, inst []int) {
	for i := range d.scope {
		inst[i] = pos / d.offsets[i]
		pos %= d.offsets[i]
	}
}

// Next advances inst in place like an odometer, last position fastest.
// Positions whose variable is a key of ev are held fixed (skipped).
// After the last instantiation the counter wraps to all-zero (non-fixed)
// positions; callers detect the end by counting iterations, not by sentinel.
//
// Complexity: O(1) amortized, O(width) worst case.
func (d *Domain) Next(inst []int, ev Evidence) {
	for i := len(d.scope) - 1; i >= 0; i-- {
		if ev != nil {
			if _, fixed := ev[d.scope[i].ID]; fixed {
				continue
			}
		}
		inst[i]++
		if inst[i] < d.scope[i].Card {
			return
		}
		inst[i] = 0
	}
}

// Restrict returns a domain without the variables that are keys of ev.
// Keys not in scope are ignored. Relative order is preserved.
func (d *Domain) Restrict(ev Evidence) *Domain {
	kept := make([]Variable, 0, len(d.scope))
	for _, v := range d.scope {
		if _, fixed := ev[v.ID]; !fixed {
			kept = append(kept, v)
		}
	}

	return mustDomain(kept)
}

// Without returns the domain minus v (identity copy if v is absent).
func (d *Domain) Without(v Variable) *Domain {
	return d.Restrict(Evidence{v.ID: 0})
}

// Union returns d's scope followed by the variables of o not in d.
//
// Errors:
//   - ErrInvalidArgument: a shared id carries different cardinalities.
func (d *Domain) Union(o *Domain) (*Domain, error) {
	scope := make([]Variable, 0, len(d.scope)+len(o.scope))
	scope = append(scope, d.scope...)
	scope = append(scope, o.scope...)

	return NewDomain(scope...)
}

// Rename relabels scope variables: every variable whose id is a key of
// mapping is replaced by the mapped variable. Positions, offsets and size
// are unchanged.
//
// Errors:
//   - ErrInvalidArgument: the mapping changes a cardinality or makes two
//     scope positions share an id.
func (d *Domain) Rename(mapping map[int]Variable) (*Domain, error) {
	scope := make([]Variable, len(d.scope))
	index := make(map[int]int, len(d.scope))
	for i, v := range d.scope {
		if nv, ok := mapping[v.ID]; ok {
			if nv.Card != v.Card {
				return nil, fmt.Errorf("Domain.Rename: %v -> %v changes cardinality: %w", v, nv, ErrInvalidArgument)
			}
			v = nv
		}
		if _, dup := index[v.ID]; dup {
			return nil, fmt.Errorf("Domain.Rename: variable %d appears twice: %w", v.ID, ErrInvalidArgument)
		}
		index[v.ID] = i
		scope[i] = v
	}
	offsets := make([]int, len(d.offsets))
	copy(offsets, d.offsets)

	return &Domain{scope: scope, offsets: offsets, size: d.size, index: index}, nil
}

// Equivalent reports whether d and o hold the same variable set
// (order-insensitive, by id).
func (d *Domain) Equivalent(o *Domain) bool {
	if len(d.scope) != len(o.scope) {
		return false
	}
	for _, v := range d.scope {
		if !o.InScope(v) {
			return false
		}
	}

	return true
}

// String implements fmt.Stringer: "Domain(width:2, size:4, scope:{X0[2], X1[2]})".
func (d *Domain) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Domain(width:%d, size:%d, scope:{", len(d.scope), d.size)
	for i, v := range d.scope {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteString("})")

	return sb.String()
}
