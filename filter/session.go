// SPDX-License-Identifier: MIT
// Package: dbn/filter
//
// session.go: the interface algorithm.
//
// Contract:
//   • A Session owns its cached projection order, sensor model and belief;
//     nothing is shared between sessions.
//   • The belief is always normalized and laid out in current-id order.
//   • A failed Step leaves the previous belief in place.
//
// Complexity per step:
//   • One elimination over |transition|+1 tables plus one product with the
//     conditioned sensor model; independent of the number of past steps.

package filter

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/dbn/elimination"
	"github.com/katalvlaran/dbn/factor"
	"github.com/katalvlaran/dbn/model"
)

// Session filters one dynamic model, one observation at a time.
type Session struct {
	opts Options
	elim []elimination.Option

	current   []factor.Variable       // interface, current slice (sorted by id)
	next      []factor.Variable       // next[i] is the twin of current[i]
	toCurrent map[int]factor.Variable // next id → current variable
	sensors   []factor.Variable
	sensorIDs map[int]factor.Variable

	transition []factor.Table
	sensor     factor.Table      // over current ∪ sensors, internals eliminated
	order      []factor.Variable // projection order, fixed at construction

	belief factor.Table
	steps  int
}

// NewSession prepares a session: it converts the transition tables, builds
// the initial belief and the sensor model, and fixes the projection order.
//
// Errors:
//   - model.ErrUnsupportedKind: m is not a dynamic model.
//   - model.ErrInconsistent: see model.(*Model).Partition.
//   - factor.ErrDegenerateDistribution: the prior tables multiply to zero.
func NewSession(m *model.Model, opts ...Option) (*Session, error) {
	if m.Kind != model.Dynamic {
		return nil, fmt.Errorf("NewSession: %s: %w", m.Kind, model.ErrUnsupportedKind)
	}
	parts, err := m.Partition()
	if err != nil {
		return nil, filterErrorf("NewSession", err)
	}

	o := gatherOptions(opts...)
	s := &Session{
		opts: o,
		elim: []elimination.Option{elimination.WithLogger(o.logger), elimination.WithBackend(o.backend)},
	}
	s.current, s.next = m.Interface()
	s.toCurrent = make(map[int]factor.Variable, len(s.next))
	for i, v := range s.next {
		s.toCurrent[v.ID] = s.current[i]
	}
	s.sensors = m.Sensors()
	s.sensorIDs = make(map[int]factor.Variable, len(s.sensors))
	for _, v := range s.sensors {
		s.sensorIDs[v.ID] = v
	}

	if s.transition, err = factor.ConvertAll(o.backend, parts.Transition); err != nil {
		return nil, filterErrorf("NewSession", err)
	}
	if s.belief, err = s.initialBelief(parts.Prior); err != nil {
		return nil, err
	}
	if s.sensor, err = s.sensorModel(parts.Sensor, m.InternalVariables()); err != nil {
		return nil, err
	}

	// The belief may span every current variable, so the order is computed
	// against a placeholder table over all of them.
	dom, err := factor.NewDomain(s.current...)
	if err != nil {
		return nil, filterErrorf("NewSession", err)
	}
	project := append(append([]factor.Table(nil), s.transition...), factor.Constant(dom, 1))
	s.order = elimination.MinFillOrder(project, s.next)

	o.logger.Debug("session",
		slog.String("backend", o.backend.Name()),
		slog.Int("interface", len(s.current)),
		slog.Int("sensors", len(s.sensors)),
		slog.Int("internal", len(m.InternalVariables())),
		slog.Int("sensor_model", s.sensor.Size()))

	return s, nil
}

// initialBelief multiplies and normalizes the prior tables.
func (s *Session) initialBelief(prior []factor.Table) (factor.Table, error) {
	tables, err := factor.ConvertAll(s.opts.backend, prior)
	if err != nil {
		return nil, filterErrorf("NewSession", err)
	}
	belief := s.opts.backend.Unit()
	for _, t := range tables {
		if belief, err = belief.Product(t); err != nil {
			return nil, filterErrorf("NewSession", err)
		}
	}
	if belief, err = belief.Normalize(); err != nil {
		return nil, fmt.Errorf("NewSession: prior: %w", err)
	}

	return alignCurrent(belief, s.current)
}

// sensorModel eliminates the internal variables out of the product of the
// sensor tables, leaving a table over current interface and sensor variables.
//
// Errors:
//   - model.ErrInconsistent: a sensor table variable is neither kept nor internal.
func (s *Session) sensorModel(tables []factor.Table, internal []factor.Variable) (factor.Table, error) {
	if len(tables) == 0 {
		return s.opts.backend.Unit(), nil
	}
	keep := make([]factor.Variable, 0, len(s.current)+len(s.sensors))
	keep = append(keep, s.current...)
	keep = append(keep, s.sensors...)
	declared := make(map[int]bool, len(internal))
	for _, v := range internal {
		declared[v.ID] = true
	}
	order := elimination.MinFillOrder(tables, keep)
	for _, v := range order {
		if !declared[v.ID] {
			return nil, fmt.Errorf("NewSession: sensor model: variable %d is not internal: %w", v.ID, model.ErrInconsistent)
		}
	}
	out, err := elimination.Eliminate(tables, order, keep, s.elim...)
	if err != nil {
		return nil, filterErrorf("NewSession: sensor model", err)
	}

	return out, nil
}

// Step folds one observation into the belief and returns the new belief.
//
// Errors:
//   - factor.ErrInvalidArgument: an evidence key is not a sensor.
//   - factor.ErrIndexOutOfRange: an observed value exceeds its cardinality.
//   - factor.ErrDegenerateDistribution: the observation has probability 0.
func (s *Session) Step(ev factor.Evidence) (factor.Table, error) {
	t := s.steps + 1
	if err := checkEvidence(t, ev, s.sensorIDs); err != nil {
		return nil, err
	}

	// Project.
	tables := make([]factor.Table, 0, len(s.transition)+1)
	tables = append(tables, s.transition...)
	tables = append(tables, s.belief)
	projected, err := elimination.Eliminate(tables, s.order, s.next, s.elim...)
	if err != nil {
		return nil, fmt.Errorf("Step %d: project: %w", t, err)
	}
	if projected, err = projected.Rename(s.toCurrent); err != nil {
		return nil, fmt.Errorf("Step %d: project: %w", t, err)
	}

	// Update.
	likelihood, err := s.sensor.Condition(ev)
	if err != nil {
		return nil, fmt.Errorf("Step %d: update: %w", t, err)
	}
	for _, v := range s.sensors {
		if _, seen := ev[v.ID]; seen {
			continue
		}
		if likelihood, err = likelihood.SumOut(v); err != nil {
			return nil, fmt.Errorf("Step %d: update: %w", t, err)
		}
	}
	joint, err := projected.Product(likelihood)
	if err != nil {
		return nil, fmt.Errorf("Step %d: update: %w", t, err)
	}
	s.opts.logger.Debug("step",
		slog.Int("t", t),
		slog.Int("observed", len(ev)),
		slog.Float64("partition", joint.Partition()),
		slog.Int("size", joint.Size()))

	belief, err := joint.Normalize()
	if err != nil {
		return nil, fmt.Errorf("Step %d: %w", t, err)
	}
	if belief, err = alignCurrent(belief, s.current); err != nil {
		return nil, fmt.Errorf("Step %d: %w", t, err)
	}
	s.belief = belief
	s.steps++

	return belief, nil
}

// Belief returns the current belief (the prior before the first step).
func (s *Session) Belief() factor.Table { return s.belief }

// Steps returns the number of observations folded in so far.
func (s *Session) Steps() int { return s.steps }

// Current returns the current-slice interface variables, sorted by id.
func (s *Session) Current() []factor.Variable {
	return append([]factor.Variable(nil), s.current...)
}

// Run steps through every observation of obs and collects the beliefs.
// The reported state variables are WithStateVariables, else obs.State.
//
// Errors:
//   - ErrNoSteps: obs has no step.
//   - ErrUnknownStateVariable: a state id is not a current interface id.
//   - any Step error.
func (s *Session) Run(obs *model.Observations) (*Result, error) {
	res, err := newResult(Interface, s.current, obs, s.opts)
	if err != nil {
		return nil, err
	}
	if s.opts.backend == factor.SparseBackend {
		res.Method = InterfaceSparse
	}
	for _, ev := range obs.Steps {
		b, err := s.Step(ev)
		if err != nil {
			return nil, filterErrorf("Run", err)
		}
		res.Steps = append(res.Steps, b)
	}

	return res, nil
}

// checkEvidence rejects an observation of a non-sensor variable and a value
// outside its sensor's states, whether or not the sensor model mentions it.
func checkEvidence(t int, ev factor.Evidence, sensors map[int]factor.Variable) error {
	for _, id := range ev.Keys() {
		v, ok := sensors[id]
		if !ok {
			return fmt.Errorf("Step %d: variable %d is not a sensor: %w", t, id, factor.ErrInvalidArgument)
		}
		if val := ev[id]; val < 0 || val >= v.Card {
			return fmt.Errorf("Step %d: %w", t, &factor.IndexError{Op: "Step", Index: val, Limit: v.Card, VarID: id})
		}
	}

	return nil
}

// alignCurrent lays t out in current-id order over the variables it holds.
func alignCurrent(t factor.Table, current []factor.Variable) (factor.Table, error) {
	scope := make([]factor.Variable, 0, len(current))
	for _, v := range current {
		if t.InScope(v) {
			scope = append(scope, v)
		}
	}
	if len(scope) != t.Width() {
		return nil, fmt.Errorf("belief %v holds a non-interface variable: %w", t.Domain(), factor.ErrInvalidArgument)
	}

	return factor.Permute(t, scope)
}
