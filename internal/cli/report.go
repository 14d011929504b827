package cli

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/dbn/factor"
	"github.com/katalvlaran/dbn/filter"
	"github.com/katalvlaran/dbn/model"
)

// agreementTol is the largest belief difference between methods that is
// still reported as agreement.
const agreementTol = 1e-9

// filterReport is the output of the filtering command.
type filterReport struct {
	Model     string      `json:"model"`
	Kind      string      `json:"kind"`
	Variables int         `json:"variables"`
	Factors   int         `json:"factors"`
	Evidence  string      `json:"evidence"`
	Steps     int         `json:"steps"`
	Runs      []methodRun `json:"runs"`
}

// methodRun holds the per-variable marginals of one method.
type methodRun struct {
	Method  string       `json:"method"`
	State   []int        `json:"state"`
	Beliefs []stepBelief `json:"beliefs"`

	result *filter.Result
}

// stepBelief maps a variable name ("X4") to its marginal after one step.
type stepBelief struct {
	Step      int                  `json:"step"`
	Marginals map[string][]float64 `json:"marginals"`
}

func newFilterReport(modelPath, evidencePath string, m *model.Model, obs *model.Observations) *filterReport {
	return &filterReport{
		Model:     filepath.Base(modelPath),
		Kind:      string(m.Kind),
		Variables: m.Arena.Len(),
		Factors:   len(m.Factors),
		Evidence:  filepath.Base(evidencePath),
		Steps:     obs.Len(),
	}
}

// add records the single-variable marginals of every state variable, or of
// every interface variable when the run reports no state.
func (r *filterReport) add(res *filter.Result) error {
	state := res.State
	if len(state) == 0 {
		state = factor.IDs(res.Current)
	}
	run := methodRun{Method: res.Method.String(), State: state, result: res}
	run.Beliefs = make([]stepBelief, len(res.Steps))
	for t := range run.Beliefs {
		run.Beliefs[t] = stepBelief{Step: t + 1, Marginals: make(map[string][]float64, len(state))}
	}
	for _, id := range state {
		marg, err := res.Project([]int{id})
		if err != nil {
			return err
		}
		for t, b := range marg {
			run.Beliefs[t].Marginals[varName(id)] = b.Values()
		}
	}
	r.Runs = append(r.Runs, run)
	return nil
}

// compare logs the largest belief difference between the first method and
// every other one.
func (r *filterReport) compare(logger *slog.Logger) {
	if len(r.Runs) < 2 {
		return
	}
	ref := r.Runs[0].result
	for _, run := range r.Runs[1:] {
		diff := 0.0
		for t, b := range run.result.Steps {
			d := floats.Distance(ref.Steps[t].Values(), b.Values(), math.Inf(1))
			diff = math.Max(diff, d)
		}
		if diff > agreementTol {
			logger.Warn("methods disagree", "reference", r.Runs[0].Method, "method", run.Method, "max_diff", diff)
			continue
		}
		logger.Info("methods agree", "reference", r.Runs[0].Method, "method", run.Method, "max_diff", diff)
	}
}

// String renders the text report.
func (r *filterReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "model: %s (%s, %d variables, %d factors)\n", r.Model, r.Kind, r.Variables, r.Factors)
	fmt.Fprintf(&sb, "evidence: %s (%d steps)\n", r.Evidence, r.Steps)
	for _, run := range r.Runs {
		fmt.Fprintf(&sb, "\nmethod: %s\n", run.Method)
		for _, b := range run.Beliefs {
			fmt.Fprintf(&sb, "t=%d", b.Step)
			for _, id := range run.State {
				name := varName(id)
				fmt.Fprintf(&sb, " %s=%s", name, formatVector(b.Marginals[name]))
			}
			sb.WriteByte('\n')
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// marginalReport is the output of the marginal command.
type marginalReport struct {
	Model        string    `json:"model"`
	Kind         string    `json:"kind"`
	Variables    int       `json:"variables"`
	Factors      int       `json:"factors"`
	Order        []int     `json:"order"`
	InducedWidth int       `json:"induced_width"`
	MaxTableSize int       `json:"max_table_size"`
	Z            float64   `json:"z"`
	Scope        []int     `json:"scope,omitempty"`
	Marginal     []float64 `json:"marginal,omitempty"`
}

// String renders the text report.
func (r *marginalReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "model: %s (%s, %d variables, %d factors)\n", r.Model, r.Kind, r.Variables, r.Factors)
	fmt.Fprintf(&sb, "order: %s\n", varNames(r.Order))
	fmt.Fprintf(&sb, "induced width: %d\n", r.InducedWidth)
	fmt.Fprintf(&sb, "largest table: %d\n", r.MaxTableSize)
	fmt.Fprintf(&sb, "Z = %s", formatFloat(r.Z))
	if len(r.Scope) > 0 {
		fmt.Fprintf(&sb, "\nP(%s) = %s", strings.Join(strings.Fields(varNames(r.Scope)), ","), formatVector(r.Marginal))
	}
	return sb.String()
}

func varName(id int) string {
	return "X" + strconv.Itoa(id)
}

func varNames(ids []int) string {
	if len(ids) == 0 {
		return "-"
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = varName(id)
	}
	return strings.Join(names, " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func formatVector(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatFloat(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
