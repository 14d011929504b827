package elimination_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/katalvlaran/dbn/elimination"
	"github.com/katalvlaran/dbn/factor"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

var (
	vA = factor.Variable{ID: 0, Card: 2}
	vB = factor.Variable{ID: 1, Card: 2}
)

func mustDense(t testing.TB, scope []factor.Variable, values []float64) factor.Table {
	t.Helper()
	f, err := factor.NewDenseScope(scope, values)
	require.NoError(t, err)

	return f
}

// scenarioA returns P(A)=[.5,.5] and P(B|A)=[[.9,.1],[.2,.8]].
func scenarioA(t testing.TB) []factor.Table {
	return []factor.Table{
		mustDense(t, []factor.Variable{vA}, []float64{0.5, 0.5}),
		mustDense(t, []factor.Variable{vA, vB}, []float64{0.9, 0.1, 0.2, 0.8}),
	}
}

// network builds a seeded random network of n variables with cycle-closing
// pairwise tables and a few triples, so buckets overlap non-trivially.
func network(t testing.TB, seed int64, n int) ([]factor.Variable, []factor.Table) {
	rng := rand.New(rand.NewSource(seed))
	vars := make([]factor.Variable, n)
	for i := range vars {
		vars[i] = factor.Variable{ID: i, Card: 2 + rng.Intn(2)}
	}
	var tables []factor.Table
	add := func(scope ...factor.Variable) {
		size := 1
		for _, v := range scope {
			size *= v.Card
		}
		values := make([]float64, size)
		for i := range values {
			values[i] = 0.1 + rng.Float64()
		}
		tables = append(tables, mustDense(t, scope, values))
	}
	for i := 0; i < n; i++ {
		add(vars[i], vars[(i+1)%n])
	}
	add(vars[0], vars[n/2], vars[n-1])
	add(vars[1])

	return vars, tables
}

// permutations returns every ordering of vs.
func permutations(vs []factor.Variable) [][]factor.Variable {
	if len(vs) <= 1 {
		return [][]factor.Variable{append([]factor.Variable(nil), vs...)}
	}
	var out [][]factor.Variable
	for i := range vs {
		rest := make([]factor.Variable, 0, len(vs)-1)
		rest = append(rest, vs[:i]...)
		rest = append(rest, vs[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]factor.Variable{vs[i]}, p...))
		}
	}

	return out
}

// TestScenarioA eliminates A from P(A)·P(B|A).
func TestScenarioA(t *testing.T) {
	got, err := elimination.Eliminate(scenarioA(t), []factor.Variable{vA}, []factor.Variable{vB})
	require.NoError(t, err)
	require.Equal(t, []int{vB.ID}, factor.IDs(got.Domain().Scope()))
	require.InDeltaSlice(t, []float64{0.55, 0.45}, got.Values(), tol)

	m, err := elimination.Marginal(scenarioA(t), []factor.Variable{vB})
	require.NoError(t, err)
	require.True(t, factor.EqualApprox(got, m, tol))

	z, err := elimination.PartitionFunction(scenarioA(t))
	require.NoError(t, err)
	require.InDelta(t, 1.0, z, tol)
}

// TestOrderIndependence eliminates the same hidden set in every possible
// order, on both backends, and requires identical results.
func TestOrderIndependence(t *testing.T) {
	vars, tables := network(t, 2024, 6)
	query := []factor.Variable{vars[5], vars[2]}
	hidden := []factor.Variable{vars[0], vars[1], vars[3], vars[4]}

	want, err := elimination.Marginal(tables, query)
	require.NoError(t, err)
	require.Equal(t, factor.IDs(query), factor.IDs(want.Domain().Scope()))

	for _, order := range permutations(hidden) {
		for _, b := range []factor.Backend{factor.DenseBackend, factor.SparseBackend} {
			got, err := elimination.Eliminate(tables, order, query, elimination.WithBackend(b))
			require.NoError(t, err)
			require.True(t, factor.EqualApprox(want, got, tol), "order %v backend %s", order, b.Name())
		}
	}
}

// TestMarginalMatchesBruteForce compares against the explicit joint.
func TestMarginalMatchesBruteForce(t *testing.T) {
	vars, tables := network(t, 99, 5)
	joint := tables[0]
	var err error
	for _, tb := range tables[1:] {
		joint, err = joint.Product(tb)
		require.NoError(t, err)
	}
	query := []factor.Variable{vars[3]}
	want, err := factor.Marginal(joint, query)
	require.NoError(t, err)

	got, err := elimination.Marginal(tables, query)
	require.NoError(t, err)
	require.True(t, factor.EqualApprox(want, got, tol))

	z, err := elimination.PartitionFunction(tables)
	require.NoError(t, err)
	require.InDelta(t, joint.Partition(), z, 1e-6)
}

// TestMalformedOrder covers the three ways an order can be invalid.
func TestMalformedOrder(t *testing.T) {
	vC := factor.Variable{ID: 2, Card: 2}
	cases := []struct {
		name  string
		order []factor.Variable
		query []factor.Variable
		varID int
	}{
		{"missing", nil, []factor.Variable{vB}, vA.ID},
		{"duplicate", []factor.Variable{vA, vC, vA}, []factor.Variable{vB}, vA.ID},
		{"queried", []factor.Variable{vA, vB}, []factor.Variable{vB}, vB.ID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := elimination.Eliminate(scenarioA(t), tc.order, tc.query)
			require.Nil(t, got)
			require.ErrorIs(t, err, elimination.ErrMalformedOrder)
			var oe *elimination.OrderError
			require.True(t, errors.As(err, &oe))
			require.Equal(t, tc.varID, oe.VarID)
		})
	}
}

// TestEliminateEdgeCases covers empty buckets, tables without order
// variables and order variables that appear in no table.
func TestEliminateEdgeCases(t *testing.T) {
	ghost := factor.Variable{ID: 7, Card: 4}
	tables := append(scenarioA(t), mustDense(t, []factor.Variable{vB}, []float64{2, 1}))

	var stats elimination.Stats
	got, err := elimination.Eliminate(tables, []factor.Variable{ghost, vA}, []factor.Variable{vB},
		elimination.WithStats(&stats))
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1.1, 0.45}, got.Values(), tol)
	require.Equal(t, 2, stats.Eliminated)
	require.Equal(t, 1, stats.SumOuts)
	require.Equal(t, 1, stats.InducedWidth())
	require.Equal(t, 4, stats.MaxTableSize)

	// Nothing to eliminate: the product of all tables, in query order.
	all, err := elimination.Eliminate(scenarioA(t), nil, []factor.Variable{vB, vA})
	require.NoError(t, err)
	require.Equal(t, []int{vB.ID, vA.ID}, factor.IDs(all.Domain().Scope()))
	require.InDeltaSlice(t, []float64{0.45, 0.1, 0.05, 0.4}, all.Values(), tol)

	// No tables at all: the unit table.
	unit, err := elimination.Eliminate(nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []float64{1}, unit.Values())
}

// TestEliminateLogsBuckets checks that debug records reach the logger.
func TestEliminateLogsBuckets(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := elimination.Marginal(scenarioA(t), []factor.Variable{vB}, elimination.WithLogger(logger))
	require.NoError(t, err)
	require.Contains(t, buf.String(), "msg=eliminate")
	require.Contains(t, buf.String(), "var=0")
}

// TestSparseBackendKeepsRepresentation ensures the backend choice reaches the result.
func TestSparseBackendKeepsRepresentation(t *testing.T) {
	got, err := elimination.Marginal(scenarioA(t), []factor.Variable{vB}, elimination.WithBackend(factor.SparseBackend))
	require.NoError(t, err)
	require.IsType(t, &factor.Sparse{}, got)
	require.InDeltaSlice(t, []float64{0.55, 0.45}, got.Values(), tol)
}

// TestMinFillOrder checks that the query is excluded and scan order is first-seen.
func TestMinFillOrder(t *testing.T) {
	require.Equal(t, []factor.Variable{vA}, elimination.MinFillOrder(scenarioA(t), []factor.Variable{vB}))
	require.Equal(t, []factor.Variable{vA, vB}, elimination.MinFillOrder(scenarioA(t), nil))
}
