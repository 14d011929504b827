// SPDX-License-Identifier: MIT
// Package: dbn/model
//
// model.go: in-memory models and observation streams.
//
// Contract:
//   • Variables live in one factor.Arena; everything else stores ids.
//   • Factors are dense tables over arena variables (cards must agree).
//   • For DBAYES models Transition maps every next-slice id to its
//     current-slice twin; the two carry the same cardinality.
//
// Determinism:
//   • Interface() is sorted by current id; Partition keeps file order.

package model

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/dbn/factor"
)

// Kind is the model header.
type Kind string

// Supported model kinds.
const (
	Bayes   Kind = "BAYES"
	Markov  Kind = "MARKOV"
	Dynamic Kind = "DBAYES"
)

// ParseKind validates a header word.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Bayes, Markov, Dynamic:
		return k, nil
	default:
		return "", fmt.Errorf("header %q: %w", s, ErrUnsupportedKind)
	}
}

// Model is a discrete graphical model, static or dynamic.
type Model struct {
	Kind       Kind
	Arena      *factor.Arena
	Factors    []*factor.Dense
	Prior      []int       // current ids whose tables form the prior; nil ⇒ all current ids
	Transition map[int]int // next id → current id
	Sensor     []int       // observed variable ids
	Internal   []int       // the only ids the sensor model may eliminate; nil ⇒ derived
}

// Parts is the classification of a dynamic model's tables.
type Parts struct {
	Prior      []factor.Table // scope within the prior set
	Transition []factor.Table // scope touches a next-slice variable
	Sensor     []factor.Table // everything else
}

// Tables returns the factors as tables, in file order.
func (m *Model) Tables() []factor.Table {
	out := make([]factor.Table, len(m.Factors))
	for i, f := range m.Factors {
		out[i] = f
	}

	return out
}

// Interface returns the interface pairs sorted by current id:
// current[i] and next[i] are the two slices of one persistent variable.
func (m *Model) Interface() (current, next []factor.Variable) {
	nexts := make([]int, 0, len(m.Transition))
	for n := range m.Transition {
		nexts = append(nexts, n)
	}
	sort.Slice(nexts, func(i, j int) bool { return m.Transition[nexts[i]] < m.Transition[nexts[j]] })

	current = make([]factor.Variable, len(nexts))
	next = make([]factor.Variable, len(nexts))
	for i, n := range nexts {
		current[i], _ = m.Arena.Get(m.Transition[n])
		next[i], _ = m.Arena.Get(n)
	}

	return current, next
}

// Sensors returns the sensor variables in declaration order.
func (m *Model) Sensors() []factor.Variable {
	vars, _ := m.Arena.Lookup(m.Sensor)

	return vars
}

// priorSet returns the ids that may appear in prior tables.
func (m *Model) priorSet() map[int]struct{} {
	set := make(map[int]struct{})
	if m.Prior != nil {
		for _, id := range m.Prior {
			set[id] = struct{}{}
		}

		return set
	}
	for _, cur := range m.Transition {
		set[cur] = struct{}{}
	}

	return set
}

// Partition splits the tables of a dynamic model.
//
// A table is a transition table when its scope holds a next-slice variable;
// otherwise a prior table when its scope lies within the prior set; otherwise
// a sensor table. Transition tables may only mention interface variables.
//
// Errors:
//   - ErrInconsistent: a transition table mentions a non-interface variable.
func (m *Model) Partition() (Parts, error) {
	prior := m.priorSet()
	current := make(map[int]struct{}, len(m.Transition))
	for _, cur := range m.Transition {
		current[cur] = struct{}{}
	}

	var p Parts
	for i, f := range m.Factors {
		scope := f.Domain().Scope()
		touchesNext, inPrior := false, true
		for _, v := range scope {
			if _, ok := m.Transition[v.ID]; ok {
				touchesNext = true
			}
			if _, ok := prior[v.ID]; !ok {
				inPrior = false
			}
		}
		switch {
		case touchesNext:
			for _, v := range scope {
				_, isNext := m.Transition[v.ID]
				_, isCur := current[v.ID]
				if !isNext && !isCur {
					return Parts{}, inconsistentf("factor %d: transition table mentions non-interface variable %d", i, v.ID)
				}
			}
			p.Transition = append(p.Transition, f)
		case inPrior && len(scope) > 0:
			p.Prior = append(p.Prior, f)
		default:
			p.Sensor = append(p.Sensor, f)
		}
	}

	return p, nil
}

// InternalVariables returns the variables eliminated out of the sensor model:
// the declared Internal ids, or every variable that is neither an interface
// nor a sensor variable.
func (m *Model) InternalVariables() []factor.Variable {
	if m.Internal != nil {
		vars, _ := m.Arena.Lookup(m.Internal)

		return vars
	}
	skip := make(map[int]struct{}, 2*len(m.Transition)+len(m.Sensor))
	for n, c := range m.Transition {
		skip[n] = struct{}{}
		skip[c] = struct{}{}
	}
	for _, id := range m.Sensor {
		skip[id] = struct{}{}
	}
	var out []factor.Variable
	for _, v := range m.Arena.Variables() {
		if _, ok := skip[v.ID]; !ok {
			out = append(out, v)
		}
	}

	return out
}

// Validate checks the model for internal consistency.
//
// Errors:
//   - ErrInconsistent with the first violation found.
func (m *Model) Validate() error {
	if m.Arena == nil {
		return inconsistentf("model has no variables")
	}
	if _, err := ParseKind(string(m.Kind)); err != nil {
		return err
	}
	for i, f := range m.Factors {
		for _, v := range f.Domain().Scope() {
			av, err := m.Arena.Get(v.ID)
			if err != nil {
				return inconsistentf("factor %d: unknown variable %d", i, v.ID)
			}
			if av.Card != v.Card {
				return inconsistentf("factor %d: variable %d has cardinality %d, declared %d", i, v.ID, v.Card, av.Card)
			}
		}
	}
	if m.Kind != Dynamic {
		if len(m.Transition)+len(m.Sensor)+len(m.Prior)+len(m.Internal) > 0 {
			return inconsistentf("%s model declares dynamic sections", m.Kind)
		}

		return nil
	}

	return m.validateDynamic()
}

func (m *Model) validateDynamic() error {
	if len(m.Transition) == 0 {
		return inconsistentf("DBAYES model has no interface")
	}
	role := make(map[int]string)
	claim := func(id int, r string) error {
		if _, err := m.Arena.Get(id); err != nil {
			return inconsistentf("%s variable %d is not declared", r, id)
		}
		if prev, ok := role[id]; ok {
			return inconsistentf("variable %d is both %s and %s", id, prev, r)
		}
		role[id] = r

		return nil
	}
	nexts := make([]int, 0, len(m.Transition))
	for n := range m.Transition {
		nexts = append(nexts, n)
	}
	sort.Ints(nexts)
	for _, n := range nexts {
		c := m.Transition[n]
		if err := claim(n, "next"); err != nil {
			return err
		}
		if err := claim(c, "current"); err != nil {
			return err
		}
		nv, _ := m.Arena.Get(n)
		cv, _ := m.Arena.Get(c)
		if cv.Card != nv.Card {
			return inconsistentf("interface pair %d/%d has cardinalities %d and %d", c, n, cv.Card, nv.Card)
		}
	}
	for _, id := range m.Sensor {
		if err := claim(id, "sensor"); err != nil {
			return err
		}
	}
	for _, id := range m.Internal {
		if err := claim(id, "internal"); err != nil {
			return err
		}
	}
	for _, id := range m.Prior {
		if role[id] != "current" {
			return inconsistentf("prior variable %d is not a current interface variable", id)
		}
	}
	parts, err := m.Partition()
	if err != nil {
		return err
	}
	if m.Internal == nil {
		return nil
	}
	for _, t := range parts.Sensor {
		for _, v := range t.Domain().Scope() {
			if _, ok := role[v.ID]; !ok {
				return inconsistentf("sensor table variable %d is not declared internal", v.ID)
			}
		}
	}

	return nil
}

// Observations is a stream of per-step evidence over sensor variables.
type Observations struct {
	Steps []factor.Evidence // Steps[t] maps sensor id → observed state
	State []int             // current interface ids to report
}

// Len returns the number of steps.
func (o *Observations) Len() int { return len(o.Steps) }

// Validate checks the stream against m: every key is a sensor of m with a
// value inside its cardinality, and every state id is a current interface id.
func (o *Observations) Validate(m *Model) error {
	sensors := make(map[int]factor.Variable, len(m.Sensor))
	for _, v := range m.Sensors() {
		sensors[v.ID] = v
	}
	for t, ev := range o.Steps {
		for _, id := range ev.Keys() {
			v, ok := sensors[id]
			if !ok {
				return inconsistentf("step %d: variable %d is not a sensor", t+1, id)
			}
			if val := ev[id]; val < 0 || val >= v.Card {
				return inconsistentf("step %d: sensor %d observed %d, cardinality %d", t+1, id, val, v.Card)
			}
		}
	}
	current := make(map[int]struct{}, len(m.Transition))
	for _, cur := range m.Transition {
		current[cur] = struct{}{}
	}
	for _, id := range o.State {
		if _, ok := current[id]; !ok {
			return inconsistentf("state variable %d is not a current interface variable", id)
		}
	}

	return nil
}
