// SPDX-License-Identifier: MIT
// Package factor_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic fixtures (seeded random tables) for the
//     dense and sparse property tests.
//   • Mask concrete table types so generic (At-based) paths are exercised.

package factor_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/dbn/factor"
	"github.com/stretchr/testify/require"
)

// tol is the numeric tolerance used by every property test.
const tol = 1e-9

// Variables shared by the fixtures: A, B binary, C ternary, D binary.
var (
	varA = factor.Variable{ID: 0, Card: 2}
	varB = factor.Variable{ID: 1, Card: 2}
	varC = factor.Variable{ID: 2, Card: 3}
	varD = factor.Variable{ID: 3, Card: 2}
)

// hide wraps any Table to hide its concrete type from type assertions,
// forcing the At-based fallback paths in code under test.
type hide struct {
	factor.Table
}

// randValues returns n seeded values in [0,1); a share zeroFrac of them is
// forced to 0 so sparse tables actually drop cells.
func randValues(rng *rand.Rand, n int, zeroFrac float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		if rng.Float64() < zeroFrac {
			continue
		}
		out[i] = rng.Float64()
	}

	return out
}

// mustDense builds a dense table or fails the test.
func mustDense(tb testing.TB, scope []factor.Variable, values []float64) *factor.Dense {
	tb.Helper()
	f, err := factor.NewDenseScope(scope, values)
	require.NoError(tb, err)

	return f
}

// mustSparse builds a sparse table or fails the test.
func mustSparse(tb testing.TB, scope []factor.Variable, values []float64) *factor.Sparse {
	tb.Helper()
	dom, err := factor.NewDomain(scope...)
	require.NoError(tb, err)
	s, err := factor.NewSparse(dom, values)
	require.NoError(tb, err)

	return s
}

// sizeOf is Π card over scope.
func sizeOf(scope []factor.Variable) int {
	n := 1
	for _, v := range scope {
		n *= v.Card
	}

	return n
}

// requireTable asserts that got has exactly the scope ids of want (in order)
// and matching cells within tol, and that its partition is exact.
func requireTable(tb testing.TB, want []float64, wantScope []factor.Variable, got factor.Table) {
	tb.Helper()
	require.NotNil(tb, got)
	require.Equal(tb, factor.IDs(wantScope), factor.IDs(got.Domain().Scope()))
	require.InDeltaSlice(tb, want, got.Values(), tol)
	sum := 0.0
	for _, v := range got.Values() {
		sum += v
	}
	require.InDelta(tb, sum, got.Partition(), tol)
}
