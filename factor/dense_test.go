// Package factor_test contains unit tests for the Dense implementation
// of the Table interface in the factor package.
package factor_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/dbn/factor"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalid ensures NewDense rejects a value slice of the wrong length.
func TestNewDenseInvalid(t *testing.T) {
	_, err := factor.NewDenseScope([]factor.Variable{varA, varB}, []float64{1, 2, 3})
	require.ErrorIs(t, err, factor.ErrInvalidArgument)

	_, err = factor.NewDense(nil, nil)
	require.ErrorIs(t, err, factor.ErrInvalidArgument)

	z, err := factor.NewDenseScope([]factor.Variable{varC}, nil) // nil means zeros
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0}, z.Values())
}

// TestDenseAtSet verifies bounds checks and that Set keeps the partition exact.
func TestDenseAtSet(t *testing.T) {
	f := mustDense(t, []factor.Variable{varA, varB}, []float64{1, 2, 3, 4})
	require.Equal(t, 10.0, f.Partition())

	_, err := f.At(4)
	require.ErrorIs(t, err, factor.ErrIndexOutOfRange)
	_, err = f.At(-1)
	require.ErrorIs(t, err, factor.ErrIndexOutOfRange)
	require.ErrorIs(t, f.Set(4, 1), factor.ErrIndexOutOfRange)

	require.NoError(t, f.Set(2, 0.5))
	v, err := f.At(2)
	require.NoError(t, err)
	require.Equal(t, 0.5, v)
	require.InDelta(t, 7.5, f.Partition(), tol)
}

// TestScenarioA is the two-variable end-to-end check:
// P(A)=[.5,.5], P(B|A)=[[.9,.1],[.2,.8]] ⇒ P(B)=[.55,.45].
func TestScenarioA(t *testing.T) {
	pa := mustDense(t, []factor.Variable{varA}, []float64{0.5, 0.5})
	pba := mustDense(t, []factor.Variable{varA, varB}, []float64{0.9, 0.1, 0.2, 0.8})

	joint, err := pa.Product(pba)
	require.NoError(t, err)
	requireTable(t, []float64{0.45, 0.05, 0.1, 0.4}, []factor.Variable{varA, varB}, joint)

	pb, err := joint.SumOut(varA)
	require.NoError(t, err)
	requireTable(t, []float64{0.55, 0.45}, []factor.Variable{varB}, pb)
}

// TestDenseProductConsistency checks, for random overlapping scopes, that
// every cell of the product equals the product of the aligned operand cells,
// on both the dense fast path and the generic At path.
func TestDenseProductConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(1337))
	cases := []struct {
		name   string
		s1, s2 []factor.Variable
	}{
		{"disjoint", []factor.Variable{varA}, []factor.Variable{varC}},
		{"overlap", []factor.Variable{varA, varC}, []factor.Variable{varC, varB}},
		{"reversed", []factor.Variable{varA, varB, varC}, []factor.Variable{varC, varA}},
		{"wider-right", []factor.Variable{varB}, []factor.Variable{varD, varC, varB}},
		{"unit", nil, []factor.Variable{varA, varC}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f1 := mustDense(t, tc.s1, randValues(rng, sizeOf(tc.s1), 0))
			f2 := mustDense(t, tc.s2, randValues(rng, sizeOf(tc.s2), 0))

			for _, other := range []factor.Table{f2, hide{f2}} {
				p, err := f1.Product(other)
				require.NoError(t, err)
				require.Equal(t, factor.IDs(tc.s1), factor.IDs(p.Domain().Scope())[:len(tc.s1)])

				sum := 0.0
				for pos := 0; pos < p.Size(); pos++ {
					inst, err := p.Domain().Instantiation(pos)
					require.NoError(t, err)
					q1, err := f1.Domain().PositionAligned(inst, p.Domain())
					require.NoError(t, err)
					q2, err := f2.Domain().PositionAligned(inst, p.Domain())
					require.NoError(t, err)
					a, _ := f1.At(q1)
					b, _ := f2.At(q2)
					got, err := p.At(pos)
					require.NoError(t, err)
					require.InDelta(t, a*b, got, tol)
					sum += got
				}
				require.InDelta(t, sum, p.Partition(), tol)
			}
		})
	}
}

// TestDenseSumOut checks the marginalization property and the identity case.
func TestDenseSumOut(t *testing.T) {
	rng := rand.New(rand.NewSource(4242))
	scope := []factor.Variable{varA, varC, varB}
	f := mustDense(t, scope, randValues(rng, sizeOf(scope), 0))

	for _, v := range scope {
		m, err := f.SumOut(v)
		require.NoError(t, err)
		require.False(t, m.InScope(v))
		require.Equal(t, 2, m.Width())

		for pos := 0; pos < m.Size(); pos++ {
			inst, _ := m.Domain().Instantiation(pos)
			want := 0.0
			for val := 0; val < v.Card; val++ {
				q, err := f.Domain().PositionAligned(inst, m.Domain(), factor.Assignment{VarID: v.ID, Value: val})
				require.NoError(t, err)
				x, _ := f.At(q)
				want += x
			}
			got, _ := m.At(pos)
			require.InDelta(t, want, got, tol)
		}
		require.InDelta(t, f.Partition(), m.Partition(), tol)
	}

	// Not in scope: independent copy.
	same, err := f.SumOut(varD)
	require.NoError(t, err)
	requireTable(t, f.Values(), scope, same)
	require.NotSame(t, f.Domain(), same.Domain())
}

// TestDenseCondition slices the table and validates evidence values.
func TestDenseCondition(t *testing.T) {
	f := mustDense(t, []factor.Variable{varA, varB}, []float64{0.9, 0.1, 0.2, 0.8})

	c, err := f.Condition(factor.Evidence{varA.ID: 1, varD.ID: 0}) // D ignored
	require.NoError(t, err)
	requireTable(t, []float64{0.2, 0.8}, []factor.Variable{varB}, c)

	c, err = f.Condition(factor.Evidence{varB.ID: 0})
	require.NoError(t, err)
	requireTable(t, []float64{0.9, 0.2}, []factor.Variable{varA}, c)

	c, err = f.Condition(factor.Evidence{varA.ID: 0, varB.ID: 1})
	require.NoError(t, err)
	requireTable(t, []float64{0.1}, nil, c)

	_, err = f.Condition(factor.Evidence{varA.ID: 2})
	require.ErrorIs(t, err, factor.ErrIndexOutOfRange)
}

// TestDenseNormalize checks closure, idempotence and the degenerate case.
func TestDenseNormalize(t *testing.T) {
	f := mustDense(t, []factor.Variable{varC}, []float64{1, 2, 5})

	n1, err := f.Normalize()
	require.NoError(t, err)
	require.InDelta(t, 1.0, n1.Partition(), tol)
	requireTable(t, []float64{0.125, 0.25, 0.625}, []factor.Variable{varC}, n1)

	n2, err := n1.Normalize()
	require.NoError(t, err)
	require.InDeltaSlice(t, n1.Values(), n2.Values(), tol)
	require.Equal(t, []float64{1, 2, 5}, f.Values()) // receiver untouched

	zero := mustDense(t, []factor.Variable{varA}, []float64{0, 0})
	n, err := zero.Normalize()
	require.ErrorIs(t, err, factor.ErrDegenerateDistribution)
	require.Nil(t, n)
}

// TestDenseRename relabels positions without moving cells.
func TestDenseRename(t *testing.T) {
	f := mustDense(t, []factor.Variable{varA, varB}, []float64{1, 2, 3, 4})
	primeB := factor.Variable{ID: 11, Card: 2}

	r, err := f.Rename(map[int]factor.Variable{varB.ID: primeB})
	require.NoError(t, err)
	requireTable(t, []float64{1, 2, 3, 4}, []factor.Variable{varA, primeB}, r)
	require.True(t, f.InScope(varB)) // receiver untouched

	_, err = f.Rename(map[int]factor.Variable{varB.ID: varC})
	require.ErrorIs(t, err, factor.ErrInvalidArgument)
}

// TestMarginalPermuteEqualApprox covers the package-level helpers.
func TestMarginalPermuteEqualApprox(t *testing.T) {
	f := mustDense(t, []factor.Variable{varA, varB}, []float64{0.45, 0.05, 0.1, 0.4})

	m, err := factor.Marginal(f, []factor.Variable{varB})
	require.NoError(t, err)
	requireTable(t, []float64{0.55, 0.45}, []factor.Variable{varB}, m)

	all, err := factor.Marginal(f, []factor.Variable{varA, varB, varC})
	require.NoError(t, err)
	requireTable(t, f.Values(), []factor.Variable{varA, varB}, all)

	p, err := factor.Permute(f, []factor.Variable{varB, varA})
	require.NoError(t, err)
	requireTable(t, []float64{0.45, 0.1, 0.05, 0.4}, []factor.Variable{varB, varA}, p)
	require.True(t, factor.EqualApprox(f, p, tol))

	_, err = factor.Permute(f, []factor.Variable{varB})
	require.ErrorIs(t, err, factor.ErrInvalidArgument)

	g := mustDense(t, []factor.Variable{varA, varB}, []float64{0.45, 0.05, 0.1, 0.41})
	require.False(t, factor.EqualApprox(f, g, tol))
	require.False(t, factor.EqualApprox(f, m, tol))
}

// TestUnit verifies the multiplicative identity.
func TestUnit(t *testing.T) {
	u := factor.Unit()
	require.Equal(t, 0, u.Width())
	require.Equal(t, []float64{1}, u.Values())

	f := mustDense(t, []factor.Variable{varC}, []float64{1, 2, 3})
	p, err := u.Product(f)
	require.NoError(t, err)
	requireTable(t, f.Values(), []factor.Variable{varC}, p)

	c := factor.Constant(f.Domain(), 2)
	require.Equal(t, 6.0, c.Partition())
	require.Contains(t, f.String(), "values:[1, 2, 3]")
}
