// Package factor provides the dense factor representation.
// Dense stores one cell per instantiation in a flat slice, in domain order
// (last scope variable fastest), for performance and cache friendliness.
package factor

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Dense is a table backed by a flat []float64 of length Domain().Size().
type Dense struct {
	dom       *Domain   // exclusively owned
	values    []float64 // len == dom.Size()
	partition float64   // Σ values
}

// NewDense creates a table over dom. values is copied; nil means all zeros.
// Stage 1 (Validate): len(values) must equal dom.Size().
// Stage 2 (Prepare): copy values and compute the partition.
// Complexity: O(size) time and memory.
func NewDense(dom *Domain, values []float64) (*Dense, error) {
	if dom == nil {
		return nil, fmt.Errorf("NewDense: nil domain: %w", ErrInvalidArgument)
	}
	data := make([]float64, dom.Size())
	if values != nil {
		if len(values) != dom.Size() {
			return nil, fmt.Errorf("NewDense: %d values for domain size %d: %w", len(values), dom.Size(), ErrInvalidArgument)
		}
		copy(data, values)
	}

	return &Dense{dom: dom, values: data, partition: floats.Sum(data)}, nil
}

// NewDenseScope is NewDomain followed by NewDense.
func NewDenseScope(scope []Variable, values []float64) (*Dense, error) {
	dom, err := NewDomain(scope...)
	if err != nil {
		return nil, err
	}

	return NewDense(dom, values)
}

// Constant returns a table over dom with every cell equal to value.
func Constant(dom *Domain, value float64) *Dense {
	data := make([]float64, dom.Size())
	for i := range data {
		data[i] = value
	}

	return &Dense{dom: dom, values: data, partition: value * float64(len(data))}
}

// Unit returns the multiplicative identity: a zero-width table holding 1.
func Unit() *Dense {
	return Constant(mustDomain(nil), 1)
}

// Domain returns the table's domain.
func (f *Dense) Domain() *Domain { return f.dom }

// Size returns the number of cells.
func (f *Dense) Size() int { return len(f.values) }

// Width returns the number of scope variables.
func (f *Dense) Width() int { return f.dom.Width() }

// Partition returns Σ cells.
func (f *Dense) Partition() float64 { return f.partition }

// InScope reports whether v belongs to the scope.
func (f *Dense) InScope(v Variable) bool { return f.dom.InScope(v) }

// At returns the cell at pos.
// Complexity: O(1).
func (f *Dense) At(pos int) (float64, error) {
	if pos < 0 || pos >= len(f.values) {
		return 0, indexErr("Dense.At", pos, len(f.values))
	}

	return f.values[pos], nil
}

// Set assigns the cell at pos and keeps the partition exact.
// It is the only mutating method and exists for loaders that fill a table
// cell by cell; tables handed to algorithms must not be mutated.
// Complexity: O(1).
func (f *Dense) Set(pos int, v float64) error {
	if pos < 0 || pos >= len(f.values) {
		return indexErr("Dense.Set", pos, len(f.values))
	}
	f.partition += v - f.values[pos]
	f.values[pos] = v

	return nil
}

// Values returns a copy of the cells.
func (f *Dense) Values() []float64 {
	out := make([]float64, len(f.values))
	copy(out, f.values)

	return out
}

// Clone returns a deep copy (independent domain and storage).
// Complexity: O(size).
func (f *Dense) Clone() *Dense {
	dom, _ := f.dom.Rename(nil) // identity rename == deep copy
	data := make([]float64, len(f.values))
	copy(data, f.values)

	return &Dense{dom: dom, values: data, partition: f.partition}
}

// Product multiplies f by other over the union domain.
//
// Implementation:
//   - Stage 1: result domain = f's scope, then other's novel variables.
//   - Stage 2: walk result positions in order with an odometer; the aligned
//     positions j (in f) and k (in other) move by the per-variable strides of
//     each operand (stride 0 for variables an operand lacks), which is the
//     incremental form of PositionAligned.
//   - Stage 3: accumulate the partition while filling.
//
// Complexity: O(size(result) · 1) amortized, plus O(width) setup.
func (f *Dense) Product(other Table) (Table, error) {
	dom, err := f.dom.Union(other.Domain())
	if err != nil {
		return nil, factorErrorf("Dense.Product", err)
	}
	od, isDense := other.(*Dense)
	var ovals []float64
	if isDense {
		ovals = od.values
	}

	width := dom.Width()
	s1 := make([]int, width) // strides in f
	s2 := make([]int, width) // strides in other
	for i, v := range dom.scope {
		s1[i] = f.dom.stride(v.ID)
		s2[i] = other.Domain().stride(v.ID)
	}

	out := make([]float64, dom.Size())
	inst := make([]int, width)
	var (
		j, k int
		sum  float64
		b    float64
	)
	for p := range out {
		if isDense {
			b = ovals[k]
		} else if b, err = other.At(k); err != nil {
			return nil, factorErrorf("Dense.Product", err)
		}
		out[p] = f.values[j] * b
		sum += out[p]

		// Odometer step, last variable fastest.
		for l := width - 1; l >= 0; l-- {
			inst[l]++
			if inst[l] < dom.scope[l].Card {
				j += s1[l]
				k += s2[l]
				break
			}
			inst[l] = 0
			j -= (dom.scope[l].Card - 1) * s1[l]
			k -= (dom.scope[l].Card - 1) * s2[l]
		}
	}

	return &Dense{dom: dom, values: out, partition: sum}, nil
}

// SumOut marginalizes v away.
// For every result cell the card(v) source cells differing only in v are
// added; when v is not in scope an independent copy is returned.
// Complexity: O(size(f)).
func (f *Dense) SumOut(v Variable) (Table, error) {
	pos, ok := f.dom.Index(v.ID)
	if !ok {
		return f.Clone(), nil
	}
	card := f.dom.scope[pos].Card
	vstride := f.dom.offsets[pos]
	dom := f.dom.Without(v)

	width := dom.Width()
	strides := make([]int, width)
	for i, u := range dom.scope {
		strides[i] = f.dom.stride(u.ID)
	}

	out := make([]float64, dom.Size())
	inst := make([]int, width)
	base := 0
	var sum float64
	for p := range out {
		acc := 0.0
		for t := 0; t < card; t++ {
			acc += f.values[base+t*vstride]
		}
		out[p] = acc
		sum += acc

		for l := width - 1; l >= 0; l-- {
			inst[l]++
			if inst[l] < dom.scope[l].Card {
				base += strides[l]
				break
			}
			inst[l] = 0
			base -= (dom.scope[l].Card - 1) * strides[l]
		}
	}

	return &Dense{dom: dom, values: out, partition: sum}, nil
}

// Condition slices f at the evidence values of in-scope keys.
// Errors: *IndexError (ErrIndexOutOfRange) for an evidence value ≥ card.
// Complexity: O(size(result) + width).
func (f *Dense) Condition(ev Evidence) (Table, error) {
	base, err := evidenceBase(f.dom, ev, "Dense.Condition")
	if err != nil {
		return nil, err
	}
	dom := f.dom.Restrict(ev)

	width := dom.Width()
	strides := make([]int, width)
	for i, u := range dom.scope {
		strides[i] = f.dom.stride(u.ID)
	}

	out := make([]float64, dom.Size())
	inst := make([]int, width)
	var sum float64
	for p := range out {
		out[p] = f.values[base]
		sum += out[p]

		for l := width - 1; l >= 0; l-- {
			inst[l]++
			if inst[l] < dom.scope[l].Card {
				base += strides[l]
				break
			}
			inst[l] = 0
			base -= (dom.scope[l].Card - 1) * strides[l]
		}
	}

	return &Dense{dom: dom, values: out, partition: sum}, nil
}

// evidenceBase validates the in-scope evidence values and returns the flat
// offset contributed by them.
func evidenceBase(dom *Domain, ev Evidence, op string) (int, error) {
	base := 0
	for i, v := range dom.scope {
		val, fixed := ev[v.ID]
		if !fixed {
			continue
		}
		if val < 0 || val >= v.Card {
			return 0, valueErr(op, v, val)
		}
		base += val * dom.offsets[i]
	}

	return base, nil
}

// Normalize returns f scaled so that its partition is exactly 1.
// Errors: ErrDegenerateDistribution when the partition is 0.
// Complexity: O(size).
func (f *Dense) Normalize() (Table, error) {
	if f.partition == 0 {
		return nil, fmt.Errorf("Dense.Normalize: %v: %w", f.dom, ErrDegenerateDistribution)
	}
	out := f.Clone()
	floats.Scale(1/f.partition, out.values)
	out.partition = 1

	return out, nil
}

// Rename relabels scope variables; cell order is untouched.
func (f *Dense) Rename(mapping map[int]Variable) (Table, error) {
	dom, err := f.dom.Rename(mapping)
	if err != nil {
		return nil, factorErrorf("Dense.Rename", err)
	}
	data := make([]float64, len(f.values))
	copy(data, f.values)

	return &Dense{dom: dom, values: data, partition: f.partition}, nil
}

// String implements fmt.Stringer for easy debugging.
// Complexity: O(size) for string construction.
func (f *Dense) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Factor(%v, values:[", f.dom)
	for i, v := range f.values {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%g", v)
	}
	sb.WriteString("])")

	return sb.String()
}
