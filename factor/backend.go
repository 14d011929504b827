// SPDX-License-Identifier: MIT

package factor

import "fmt"

// Backend selects a table representation at configuration time.
// Algorithms convert their inputs once through Convert and seed their
// accumulators with Unit; every later operation stays inside the chosen
// representation because Table operations keep the receiver's type.
type Backend interface {
	// Name identifies the backend in logs and reports ("dense", "sparse").
	Name() string

	// Unit returns the zero-width table holding 1.
	Unit() Table

	// Convert returns t in this backend's representation. Tables already in
	// the representation are returned as is.
	Convert(t Table) (Table, error)
}

// DenseBackend stores every cell.
var DenseBackend Backend = denseBackend{}

// SparseBackend stores only non-zero cells.
var SparseBackend Backend = sparseBackend{}

type denseBackend struct{}

func (denseBackend) Name() string { return "dense" }

func (denseBackend) Unit() Table { return Unit() }

func (denseBackend) Convert(t Table) (Table, error) {
	switch tt := t.(type) {
	case *Dense:
		return tt, nil
	case *Sparse:
		return NewDense(tt.dom, tt.Values())
	default:
		return nil, fmt.Errorf("dense.Convert: %T: %w", t, ErrBackendMismatch)
	}
}

type sparseBackend struct{}

func (sparseBackend) Name() string { return "sparse" }

func (sparseBackend) Unit() Table {
	s, _ := NewSparse(mustDomain(nil), []float64{1})

	return s
}

func (sparseBackend) Convert(t Table) (Table, error) {
	switch tt := t.(type) {
	case *Sparse:
		return tt, nil
	case *Dense:
		return NewSparse(tt.dom, tt.values)
	default:
		return nil, fmt.Errorf("sparse.Convert: %T: %w", t, ErrBackendMismatch)
	}
}

// BackendByName resolves "dense" or "sparse".
func BackendByName(name string) (Backend, error) {
	switch name {
	case DenseBackend.Name():
		return DenseBackend, nil
	case SparseBackend.Name():
		return SparseBackend, nil
	default:
		return nil, fmt.Errorf("BackendByName: %q: %w", name, ErrBackendMismatch)
	}
}

// ConvertAll converts every table through b, preserving order.
func ConvertAll(b Backend, tables []Table) ([]Table, error) {
	out := make([]Table, len(tables))
	for i, t := range tables {
		c, err := b.Convert(t)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}

	return out, nil
}
