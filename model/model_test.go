package model_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/dbn/factor"
	"github.com/katalvlaran/dbn/model"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// loadIdentity reads the one-state, one-sensor identity DBN fixture.
func loadIdentity(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.LoadModel(filepath.Join("testdata", "identity.duai"))
	require.NoError(t, err)

	return m
}

// requireSameModel compares two models structurally.
func requireSameModel(t *testing.T, want, got *model.Model) {
	t.Helper()
	require.Equal(t, want.Kind, got.Kind)
	require.Equal(t, want.Arena.Variables(), got.Arena.Variables())
	require.Equal(t, want.Transition, got.Transition)
	require.Equal(t, want.Sensor, got.Sensor)
	require.Equal(t, want.Prior, got.Prior)
	require.Len(t, got.Factors, len(want.Factors))
	for i := range want.Factors {
		require.Equal(t, factor.IDs(want.Factors[i].Domain().Scope()), factor.IDs(got.Factors[i].Domain().Scope()), "factor %d", i)
		require.Equal(t, want.Factors[i].Values(), got.Factors[i].Values(), "factor %d", i)
	}
}

// TestReadDUAI checks every section of the identity fixture.
func TestReadDUAI(t *testing.T) {
	m := loadIdentity(t)
	require.Equal(t, model.Dynamic, m.Kind)
	require.Equal(t, 3, m.Arena.Len())
	require.Equal(t, map[int]int{1: 0}, m.Transition)
	require.Equal(t, []int{2}, m.Sensor)
	require.Equal(t, []int{0}, m.Prior)
	require.Len(t, m.Factors, 3)
	require.Equal(t, []float64{1, 0, 0, 1}, m.Factors[1].Values())

	current, next := m.Interface()
	require.Equal(t, []factor.Variable{{ID: 0, Card: 2}}, current)
	require.Equal(t, []factor.Variable{{ID: 1, Card: 2}}, next)
	require.Equal(t, []factor.Variable{{ID: 2, Card: 2}}, m.Sensors())
	require.Empty(t, m.InternalVariables())

	parts, err := m.Partition()
	require.NoError(t, err)
	require.Len(t, parts.Prior, 1)
	require.Len(t, parts.Transition, 1)
	require.Len(t, parts.Sensor, 1)
	require.Same(t, m.Factors[0], parts.Prior[0])
	require.Same(t, m.Factors[1], parts.Transition[0])
	require.Same(t, m.Factors[2], parts.Sensor[0])
}

// TestWriteDUAIGolden renders the fixture and compares it with the golden file.
func TestWriteDUAIGolden(t *testing.T) {
	m := loadIdentity(t)
	var buf bytes.Buffer
	require.NoError(t, model.WriteDUAI(&buf, m))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "identity.duai", buf.Bytes())

	back, err := model.ReadDUAI(&buf)
	require.NoError(t, err)
	requireSameModel(t, m, back)
}

// TestReadDUAIErrors covers the error taxonomy of the DUAI reader.
func TestReadDUAIErrors(t *testing.T) {
	const tail = "# Observations\n1\n2\n# Domains\n1 0\n2 1 0\n2 2 0\n# Factors\n2 .5 .5\n4 1 0 0 1\n4 1 0 0 1\n"
	const head = "DBAYES\n# Variables\n3\n2 2 2\n# Interface\n2\n0 1\n"
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"static header", "BAYES\n", model.ErrUnsupportedKind},
		{"empty", "", model.ErrSyntax},
		{"missing section", head, model.ErrSyntax},
		{"unknown section", head + "# Extra\n1\n" + tail, model.ErrSyntax},
		{"repeated section", head + "# Interface\n2\n0 1\n" + tail, model.ErrSyntax},
		{"before variables", "DBAYES\n# Interface\n2\n0 1\n", model.ErrSyntax},
		{"odd interface", "DBAYES\n# Variables\n3\n2 2 2\n# Interface\n3\n0 1 2\n" + tail, model.ErrSyntax},
		{"not a number", strings.Replace(head+tail, "2 .5 .5", "2 .5 x", 1), model.ErrSyntax},
		{"table size", strings.Replace(head+tail, "2 .5 .5", "3 .5 .5 0", 1), model.ErrInconsistent},
		{"unknown variable", strings.Replace(head+tail, "1 0\n2 1 0", "1 7\n2 1 0", 1), model.ErrInconsistent},
		{"repeated scope variable", strings.Replace(head+tail, "2 2 0\n", "2 2 2\n", 1), model.ErrInconsistent},
		{"sensor is interface", strings.Replace(head+tail, "# Observations\n1\n2", "# Observations\n1\n0", 1), model.ErrInconsistent},
		{"trailing value", head + tail + "9\n", model.ErrSyntax},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := model.ReadDUAI(strings.NewReader(tc.in))
			require.Nil(t, m)
			require.ErrorIs(t, err, tc.want)
		})
	}

	// Syntax errors carry the line.
	_, err := model.ReadDUAI(strings.NewReader(strings.Replace(head+tail, "2 .5 .5", "2 .5 x", 1)))
	var se *model.SyntaxError
	require.True(t, errors.As(err, &se))
	require.Equal(t, 16, se.Line)
}

// TestDeclaredCountsBounded feeds counts far beyond the file length; the
// readers must fail with a syntax error before allocating anything.
func TestDeclaredCountsBounded(t *testing.T) {
	const huge = "100000000000000"
	models := map[string]string{
		"uai variables": "BAYES\n" + huge + "\n2 2\n",
		"uai factors":   "BAYES\n2\n2 2\n" + huge + "\n1 0\n",
		"uai scope":     "BAYES\n2\n2 2\n1\n" + huge + " 0\n",
		"duai prior":    "DBAYES\n# Variables\n3\n2 2 2\n# Prior\n" + huge + "\n0\n",
	}
	for name, in := range models {
		t.Run(name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				if strings.HasPrefix(in, "DBAYES") {
					_, err = model.ReadDUAI(strings.NewReader(in))
				} else {
					_, err = model.ReadUAI(strings.NewReader(in))
				}
			})
			require.ErrorIs(t, err, model.ErrSyntax)
		})
	}

	streams := map[string]string{
		"steps":        "1 " + huge + "\n2 0\n",
		"sensors":      huge + " 1\n2 0\n",
		"state":        "1 1\n2 0\n" + huge + " 0\n",
		"empty stream": "0 " + huge + "\n",
		"overflow":     "4611686018427387904 4\n2 0\n",
	}
	for name, in := range streams {
		t.Run(name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				_, err = model.ReadEvidence(strings.NewReader(in))
			})
			require.ErrorIs(t, err, model.ErrSyntax)
		})
	}

	// A stream without sensors stays readable.
	o, err := model.ReadEvidence(strings.NewReader("0 3\n"))
	require.NoError(t, err)
	require.Equal(t, 3, o.Len())
}

// TestReadUAI loads the two-node static fixture.
func TestReadUAI(t *testing.T) {
	m, err := model.LoadModel(filepath.Join("testdata", "scenario_a.uai"))
	require.NoError(t, err)
	require.Equal(t, model.Bayes, m.Kind)
	require.Len(t, m.Factors, 2)
	require.Equal(t, []int{0, 1}, factor.IDs(m.Factors[1].Domain().Scope()))
	require.Equal(t, []float64{0.9, 0.1, 0.2, 0.8}, m.Factors[1].Values())

	var buf bytes.Buffer
	require.NoError(t, model.WriteUAI(&buf, m))
	back, err := model.ReadUAI(&buf)
	require.NoError(t, err)
	requireSameModel(t, m, back)

	_, err = model.ReadUAI(strings.NewReader("DBAYES\n"))
	require.ErrorIs(t, err, model.ErrUnsupportedKind)
	_, err = model.ReadUAI(strings.NewReader("MARKOV\n1\n2\n1\n1 0\n3 1 2 3\n"))
	require.ErrorIs(t, err, model.ErrInconsistent)
	_, err = model.ReadUAI(strings.NewReader("MARKOV\n1\n2\n1\n1 0\n2 1\n"))
	require.ErrorIs(t, err, model.ErrSyntax)
	require.ErrorIs(t, model.WriteUAI(&buf, loadIdentity(t)), model.ErrUnsupportedKind)
}

// TestEvidence reads, validates and writes observation streams.
func TestEvidence(t *testing.T) {
	m := loadIdentity(t)
	o, err := model.LoadObservations(filepath.Join("testdata", "identity.evid"))
	require.NoError(t, err)
	require.Equal(t, 3, o.Len())
	require.Equal(t, []factor.Evidence{{2: 0}, {2: 0}, {2: 0}}, o.Steps)
	require.Equal(t, []int{0}, o.State)
	require.NoError(t, o.Validate(m))

	partial, err := model.ReadEvidence(strings.NewReader("2 2\n4 1 *\n3 * 0\n"))
	require.NoError(t, err)
	require.Equal(t, []factor.Evidence{{4: 1}, {3: 0}}, partial.Steps)
	require.Nil(t, partial.State)

	var buf bytes.Buffer
	require.NoError(t, model.WriteEvidence(&buf, partial))
	require.Equal(t, "2 2\n3 * 0\n4 1 *\n0\n", buf.String())

	_, err = model.ReadEvidence(strings.NewReader("1 1\n2 0\n2 0\n"))
	require.ErrorIs(t, err, model.ErrSyntax) // short state row
	_, err = model.ReadEvidence(strings.NewReader("2 1\n2 0\n2 1\n"))
	require.ErrorIs(t, err, model.ErrSyntax) // sensor row repeated
	_, err = model.ReadEvidence(strings.NewReader("1 2\n2 0\n"))
	require.ErrorIs(t, err, model.ErrSyntax) // short row

	bad := []*model.Observations{
		{Steps: []factor.Evidence{{0: 1}}},
		{Steps: []factor.Evidence{{2: 2}}},
		{Steps: []factor.Evidence{{2: 0}}, State: []int{1}},
	}
	for _, b := range bad {
		require.ErrorIs(t, b.Validate(m), model.ErrInconsistent)
	}
}

// TestYAML checks that the YAML rendering matches the DUAI fixture.
func TestYAML(t *testing.T) {
	want := loadIdentity(t)
	m, err := model.LoadModel(filepath.Join("testdata", "identity.yaml"))
	require.NoError(t, err)
	requireSameModel(t, want, m)

	var buf bytes.Buffer
	require.NoError(t, model.WriteYAMLModel(&buf, m))
	back, err := model.ReadYAMLModel(&buf)
	require.NoError(t, err)
	requireSameModel(t, m, back)

	o, err := model.LoadObservations(filepath.Join("testdata", "identity_obs.yaml"))
	require.NoError(t, err)
	require.Equal(t, []factor.Evidence{{2: 0}, {2: 0}, {}}, o.Steps)
	require.NoError(t, o.Validate(m))

	buf.Reset()
	require.NoError(t, model.WriteYAMLObservations(&buf, o))
	ob, err := model.ReadYAMLObservations(&buf)
	require.NoError(t, err)
	require.Equal(t, o, ob)

	_, err = model.ReadYAMLModel(strings.NewReader("kind: DBAYES\nvariabls: [2]\n"))
	require.ErrorIs(t, err, model.ErrSyntax)
	_, err = model.ReadYAMLModel(strings.NewReader("kind: HMM\nvariables: [2]\n"))
	require.ErrorIs(t, err, model.ErrUnsupportedKind)
	_, err = model.ReadYAMLModel(strings.NewReader("kind: MARKOV\nvariables: [2]\nfactors:\n  - {scope: [0], values: [1]}\n"))
	require.ErrorIs(t, err, model.ErrInconsistent)
}

// TestValidate covers inconsistencies that parse fine.
func TestValidate(t *testing.T) {
	arena, err := factor.NewArena(2, 3, 2, 2)
	require.NoError(t, err)
	tr := func(scope []int, values []float64) *factor.Dense {
		vars, err := arena.Lookup(scope)
		require.NoError(t, err)
		f, err := factor.NewDenseScope(vars, values)
		require.NoError(t, err)

		return f
	}

	cases := []struct {
		name string
		m    *model.Model
	}{
		{"no arena", &model.Model{Kind: model.Markov}},
		{"card mismatch", &model.Model{Kind: model.Dynamic, Arena: arena, Transition: map[int]int{1: 0}}},
		{"no interface", &model.Model{Kind: model.Dynamic, Arena: arena}},
		{"shared role", &model.Model{Kind: model.Dynamic, Arena: arena, Transition: map[int]int{2: 0}, Sensor: []int{0}}},
		{"prior not current", &model.Model{Kind: model.Dynamic, Arena: arena, Transition: map[int]int{2: 0}, Prior: []int{3}}},
		{"undeclared sensor", &model.Model{Kind: model.Dynamic, Arena: arena, Transition: map[int]int{2: 0}, Sensor: []int{9}}},
		{"static with sensors", &model.Model{Kind: model.Bayes, Arena: arena, Sensor: []int{3}}},
		{"undeclared internal", &model.Model{
			Kind: model.Dynamic, Arena: arena, Transition: map[int]int{2: 0}, Sensor: []int{3}, Internal: []int{},
			Factors: []*factor.Dense{tr([]int{0, 1}, []float64{1, 0, 0, 0, 1, 0})},
		}},
		{"transition touches sensor", &model.Model{
			Kind: model.Dynamic, Arena: arena, Transition: map[int]int{2: 0}, Sensor: []int{3},
			Factors: []*factor.Dense{tr([]int{2, 3}, []float64{1, 0, 0, 1})},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.m.Validate(), model.ErrInconsistent)
		})
	}

	_, err = model.ParseKind("HMM")
	require.ErrorIs(t, err, model.ErrUnsupportedKind)

	ok := &model.Model{Kind: model.Dynamic, Arena: arena, Transition: map[int]int{2: 0}, Sensor: []int{3}}
	require.NoError(t, ok.Validate())
	require.Equal(t, []factor.Variable{{ID: 1, Card: 3}}, ok.InternalVariables())

	declared := &model.Model{
		Kind: model.Dynamic, Arena: arena, Transition: map[int]int{2: 0}, Sensor: []int{3}, Internal: []int{1},
		Factors: []*factor.Dense{tr([]int{0, 1}, []float64{1, 0, 0, 0, 1, 0})},
	}
	require.NoError(t, declared.Validate())
}

// TestSaveLoad writes every format to a temporary directory and reads it back.
func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	m := loadIdentity(t)
	for _, name := range []string{"m.duai", "m.yaml", "m.yml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, model.SaveModel(path, m))
		back, err := model.LoadModel(path)
		require.NoError(t, err)
		requireSameModel(t, m, back)
	}

	o := &model.Observations{Steps: []factor.Evidence{{2: 1}, {2: 0}}, State: []int{0}}
	for _, name := range []string{"o.evid", "o.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, model.SaveObservations(path, o))
		back, err := model.LoadObservations(path)
		require.NoError(t, err)
		require.Equal(t, o, back)
	}

	_, err := model.LoadModel(filepath.Join(dir, "m.bif"))
	require.ErrorIs(t, err, model.ErrUnsupportedKind)
	_, err = model.LoadObservations(filepath.Join(dir, "o.csv"))
	require.ErrorIs(t, err, model.ErrUnsupportedKind)
	require.ErrorIs(t, model.SaveModel(filepath.Join(dir, "m.uai"), m), model.ErrUnsupportedKind)
	require.ErrorIs(t, model.SaveObservations(filepath.Join(dir, "o.txt"), o), model.ErrUnsupportedKind)

	_, err = model.LoadModel(filepath.Join(dir, "missing.duai"))
	require.True(t, errors.Is(err, os.ErrNotExist))
}
