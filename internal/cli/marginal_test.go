package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenarioA = filepath.Join("testdata", "scenario_a.uai")

func TestMarginalText(t *testing.T) {
	code, out, errOut := run(t, "marginal", scenarioA, "--query", "1")
	require.Equal(t, ExitSuccess, code, errOut)
	newGoldie(t).Assert(t, "marginal_scenario_a", []byte(out))
}

func TestMarginalBackendsAgree(t *testing.T) {
	var reports []marginalReport
	for _, backend := range []string{"dense", "sparse"} {
		code, out, errOut := run(t, "marginal", scenarioA, "-q", "1", "--backend", backend, "--format", "json")
		require.Equal(t, ExitSuccess, code, errOut)

		var resp struct {
			Data marginalReport `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		reports = append(reports, resp.Data)
	}
	for _, r := range reports {
		assert.Equal(t, []int{0}, r.Order)
		assert.Equal(t, []int{1}, r.Scope)
		assert.InDelta(t, 1.0, r.Z, 1e-12)
		assert.InDeltaSlice(t, []float64{0.55, 0.45}, r.Marginal, 1e-12)
	}
}

func TestMarginalPartitionOnly(t *testing.T) {
	code, out, errOut := run(t, "marginal", identityModel, "--format", "json")
	require.Equal(t, ExitSuccess, code, errOut)

	var resp struct {
		Data marginalReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Data.Order, 3)
	assert.Empty(t, resp.Data.Scope)
	assert.Empty(t, resp.Data.Marginal)
	assert.InDelta(t, 1.0, resp.Data.Z, 1e-12)
}

// TestMarginalIsolatedQuery asks for a variable that no table mentions; it
// is reported with a uniform marginal instead of being dropped.
func TestMarginalIsolatedQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isolated.uai")
	require.NoError(t, os.WriteFile(path, []byte("MARKOV\n2\n2 2\n1\n1 0\n\n2\n 0.3 0.7\n"), 0o644))

	code, out, errOut := run(t, "marginal", path, "--query", "0,1", "--format", "json")
	require.Equal(t, ExitSuccess, code, errOut)
	var resp struct {
		Data marginalReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []int{0, 1}, resp.Data.Scope)
	assert.InDelta(t, 1.0, resp.Data.Z, 1e-12)
	assert.InDeltaSlice(t, []float64{0.15, 0.15, 0.35, 0.35}, resp.Data.Marginal, 1e-12)

	code, out, errOut = run(t, "marginal", path, "--query", "1")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "P(X1) = [0.5 0.5]")
}

func TestMarginalExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no model", []string{"marginal"}, ExitUsage},
		{"bad backend", []string{"marginal", scenarioA, "--backend", "gpu"}, ExitUsage},
		{"unknown query", []string{"marginal", scenarioA, "--query", "7"}, ExitUsage},
		{"missing model", []string{"marginal", filepath.Join(t.TempDir(), "none.uai")}, ExitModel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := run(t, tt.args...)
			assert.Equal(t, tt.want, code, errOut)
		})
	}
}
