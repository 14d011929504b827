// SPDX-License-Identifier: MIT

package filter

import (
	"fmt"
	"strconv"

	"github.com/katalvlaran/dbn/factor"
	"github.com/katalvlaran/dbn/model"
)

// Method selects a filtering implementation. The numeric values are the
// command-line selectors.
type Method int

// Filtering implementations.
const (
	Unrolled        Method = 1 // full re-elimination of the unrolled network
	Interface       Method = 2 // interface algorithm, dense tables
	InterfaceSparse Method = 3 // interface algorithm, sparse tables
)

// String implements fmt.Stringer.
func (m Method) String() string {
	switch m {
	case Unrolled:
		return "unrolled"
	case Interface:
		return "interface"
	case InterfaceSparse:
		return "interface-sparse"
	default:
		return "method(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseMethod resolves a selector "1", "2" or "3".
func ParseMethod(s string) (Method, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < int(Unrolled) || n > int(InterfaceSparse) {
		return 0, fmt.Errorf("ParseMethod: %q: %w", s, ErrUnknownMethod)
	}

	return Method(n), nil
}

// Result is the trace of one filtering run.
type Result struct {
	Method  Method
	Current []factor.Variable // current interface variables, sorted by id
	State   []int             // ids reported by Marginals
	Steps   []factor.Table    // Steps[t] is the normalized belief after step t+1
}

// newResult validates the run inputs and resolves the reported state ids.
func newResult(method Method, current []factor.Variable, obs *model.Observations, o Options) (*Result, error) {
	if obs == nil || obs.Len() == 0 {
		return nil, fmt.Errorf("Run: %w", ErrNoSteps)
	}
	state := o.state
	if state == nil {
		state = obs.State
	}
	known := make(map[int]bool, len(current))
	for _, v := range current {
		known[v.ID] = true
	}
	for _, id := range state {
		if !known[id] {
			return nil, fmt.Errorf("Run: variable %d: %w", id, ErrUnknownStateVariable)
		}
	}

	return &Result{
		Method:  method,
		Current: append([]factor.Variable(nil), current...),
		State:   append([]int(nil), state...),
		Steps:   make([]factor.Table, 0, obs.Len()),
	}, nil
}

// Project returns, for every step, the belief marginalized onto state and
// laid out in the order of state.
//
// Errors:
//   - ErrUnknownStateVariable: an id is not carried by the beliefs.
func (r *Result) Project(state []int) ([]factor.Table, error) {
	byID := make(map[int]factor.Variable, len(r.Current))
	for _, v := range r.Current {
		byID[v.ID] = v
	}
	vars := make([]factor.Variable, len(state))
	for i, id := range state {
		v, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("Project: variable %d: %w", id, ErrUnknownStateVariable)
		}
		vars[i] = v
	}

	out := make([]factor.Table, len(r.Steps))
	for t, b := range r.Steps {
		for _, v := range vars {
			if !b.InScope(v) {
				return nil, fmt.Errorf("Project: step %d: variable %d: %w", t+1, v.ID, ErrUnknownStateVariable)
			}
		}
		m, err := factor.Marginal(b, vars)
		if err != nil {
			return nil, filterErrorf("Project", err)
		}
		if out[t], err = factor.Permute(m, vars); err != nil {
			return nil, filterErrorf("Project", err)
		}
	}

	return out, nil
}

// Marginals projects every step onto r.State, or returns the full beliefs
// when no state variable is set.
func (r *Result) Marginals() ([]factor.Table, error) {
	if len(r.State) == 0 {
		return r.Steps, nil
	}

	return r.Project(r.State)
}

// Run filters obs through m with the selected method.
//
// Errors:
//   - ErrUnknownMethod: method is not one of the three implementations.
//   - any NewSession / Session.Run error.
func Run(m *model.Model, obs *model.Observations, method Method, opts ...Option) (*Result, error) {
	switch method {
	case Unrolled:
		return runUnrolled(m, obs, opts...)
	case Interface, InterfaceSparse:
		if method == InterfaceSparse {
			opts = append(opts[:len(opts):len(opts)], WithBackend(factor.SparseBackend))
		}
		s, err := NewSession(m, opts...)
		if err != nil {
			return nil, err
		}
		res, err := s.Run(obs)
		if err != nil {
			return nil, err
		}
		res.Method = method

		return res, nil
	default:
		return nil, fmt.Errorf("Run: %v: %w", method, ErrUnknownMethod)
	}
}
