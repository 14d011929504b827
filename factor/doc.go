// Package factor provides the discrete factor algebra used by exact inference:
// variables, mixed-radix domains and real-valued tables over those domains.
//
// The factor package provides:
//
//   - Variable: immutable {ID, Card} descriptor of a discrete random variable.
//   - Arena: a growable, append-only store of variables with dense ids.
//   - Domain: an ordered, duplicate-free scope plus a mixed-radix addressing
//     scheme. The LAST scope variable varies fastest (offset 1).
//   - Table: the capability interface implemented by every factor
//     representation (Product, SumOut, Condition, Normalize, Rename, ...).
//   - Dense: a flat []float64 table, one cell per instantiation.
//   - Sparse: a compressed table that stores only non-zero cells.
//   - Backend: selects the representation (DenseBackend, SparseBackend).
//
// Every factor-producing operation returns a fresh value: no two tables share
// value storage, and the cached partition (sum of all cells) is always exact
// on return. Errors are sentinel values (see errors.go) matched with errors.Is.
//
// Quick example:
//
//	a := factor.Variable{ID: 0, Card: 2}
//	b := factor.Variable{ID: 1, Card: 2}
//	pa, _ := factor.NewDenseScope([]factor.Variable{a}, []float64{0.5, 0.5})
//	pba, _ := factor.NewDenseScope([]factor.Variable{a, b}, []float64{0.9, 0.1, 0.2, 0.8})
//	joint, _ := pa.Product(pba)
//	pb, _ := joint.SumOut(a) // [0.55 0.45]
package factor
