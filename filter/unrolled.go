// SPDX-License-Identifier: MIT
// Package: dbn/filter
//
// unrolled.go: reference filter over the time-expanded network.
//
// Slice 0 is the prior over the model's own current variables. Every step
// appends one slice: fresh variables for the next interface variables, the
// sensors and the internal variables, the transition tables between the
// previous and the new slice, and the sensor tables of the new slice. The
// belief after step t is the normalized marginal of the whole network,
// conditioned on all observations so far, over slice t.
//
// Fresh variables are appended to a clone of the model's arena; the model
// itself is never modified.

package filter

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/dbn/elimination"
	"github.com/katalvlaran/dbn/factor"
	"github.com/katalvlaran/dbn/model"
)

// unroller holds the network unrolled so far.
type unroller struct {
	opts  Options
	elim  []elimination.Option
	arena *factor.Arena

	current []factor.Variable
	next    []factor.Variable
	locals  []factor.Variable // sensor-slice variables other than current ones
	sensors map[int]factor.Variable

	transition []factor.Table
	sensor     []factor.Table

	slice    map[int]factor.Variable // current id → its variable in the last slice
	tables   []factor.Table
	evidence factor.Evidence
	steps    int
}

func newUnroller(m *model.Model, o Options) (*unroller, error) {
	if m.Kind != model.Dynamic {
		return nil, fmt.Errorf("Unrolled: %s: %w", m.Kind, model.ErrUnsupportedKind)
	}
	parts, err := m.Partition()
	if err != nil {
		return nil, filterErrorf("Unrolled", err)
	}
	u := &unroller{
		opts:     o,
		elim:     []elimination.Option{elimination.WithLogger(o.logger), elimination.WithBackend(o.backend)},
		arena:    m.Arena.Clone(),
		sensors:  make(map[int]factor.Variable, len(m.Sensor)),
		evidence: make(factor.Evidence),
	}
	u.current, u.next = m.Interface()
	if u.transition, err = factor.ConvertAll(o.backend, parts.Transition); err != nil {
		return nil, filterErrorf("Unrolled", err)
	}
	if u.sensor, err = factor.ConvertAll(o.backend, parts.Sensor); err != nil {
		return nil, filterErrorf("Unrolled", err)
	}
	if u.tables, err = factor.ConvertAll(o.backend, parts.Prior); err != nil {
		return nil, filterErrorf("Unrolled", err)
	}

	isCurrent := make(map[int]bool, len(u.current))
	u.slice = make(map[int]factor.Variable, len(u.current))
	for _, v := range u.current {
		isCurrent[v.ID] = true
		u.slice[v.ID] = v
	}
	seen := make(map[int]bool)
	addLocal := func(v factor.Variable) {
		if !isCurrent[v.ID] && !seen[v.ID] {
			seen[v.ID] = true
			u.locals = append(u.locals, v)
		}
	}
	for _, t := range u.sensor {
		for _, v := range t.Domain().Scope() {
			addLocal(v)
		}
	}
	for _, v := range m.Sensors() {
		u.sensors[v.ID] = v
		addLocal(v)
	}

	return u, nil
}

// fresh appends a variable with v's cardinality to the unrolled arena.
func (u *unroller) fresh(v factor.Variable) (factor.Variable, error) {
	return u.arena.Add(v.Card)
}

// step appends one slice, records ev and returns the belief over the new
// slice, expressed over the model's current variables.
func (u *unroller) step(ev factor.Evidence) (factor.Table, error) {
	t := u.steps + 1
	if err := checkEvidence(t, ev, u.sensors); err != nil {
		return nil, err
	}

	// Transition: previous slice → new slice.
	mapping := make(map[int]factor.Variable, 2*len(u.current))
	advanced := make(map[int]factor.Variable, len(u.current))
	for i, c := range u.current {
		nv, err := u.fresh(u.next[i])
		if err != nil {
			return nil, fmt.Errorf("Step %d: %w", t, err)
		}
		mapping[c.ID] = u.slice[c.ID]
		mapping[u.next[i].ID] = nv
		advanced[c.ID] = nv
	}
	for _, tr := range u.transition {
		r, err := tr.Rename(mapping)
		if err != nil {
			return nil, fmt.Errorf("Step %d: unroll: %w", t, err)
		}
		u.tables = append(u.tables, r)
	}
	u.slice = advanced

	// Sensor tables of the new slice.
	local := make(map[int]factor.Variable, len(u.current)+len(u.locals))
	for _, c := range u.current {
		local[c.ID] = u.slice[c.ID]
	}
	for _, v := range u.locals {
		nv, err := u.fresh(v)
		if err != nil {
			return nil, fmt.Errorf("Step %d: %w", t, err)
		}
		local[v.ID] = nv
	}
	for _, st := range u.sensor {
		r, err := st.Rename(local)
		if err != nil {
			return nil, fmt.Errorf("Step %d: unroll: %w", t, err)
		}
		u.tables = append(u.tables, r)
	}
	for _, id := range ev.Keys() {
		u.evidence[local[id].ID] = ev[id]
	}

	// Full elimination over the conditioned network.
	conditioned := make([]factor.Table, len(u.tables))
	for i, tb := range u.tables {
		c, err := tb.Condition(u.evidence)
		if err != nil {
			return nil, fmt.Errorf("Step %d: %w", t, err)
		}
		conditioned[i] = c
	}
	query := make([]factor.Variable, len(u.current))
	back := make(map[int]factor.Variable, len(u.current))
	for i, c := range u.current {
		query[i] = u.slice[c.ID]
		back[query[i].ID] = c
	}
	var stats elimination.Stats
	marginal, err := elimination.Marginal(conditioned, query, append(u.elim, elimination.WithStats(&stats))...)
	if err != nil {
		return nil, fmt.Errorf("Step %d: %w", t, err)
	}
	u.opts.logger.Debug("unrolled step",
		slog.Int("t", t),
		slog.Int("variables", u.arena.Len()),
		slog.Int("tables", len(conditioned)),
		slog.Int("induced_width", stats.InducedWidth()),
		slog.Float64("partition", marginal.Partition()))

	belief, err := marginal.Normalize()
	if err != nil {
		return nil, fmt.Errorf("Step %d: %w", t, err)
	}
	if belief, err = belief.Rename(back); err != nil {
		return nil, fmt.Errorf("Step %d: %w", t, err)
	}
	if belief, err = alignCurrent(belief, u.current); err != nil {
		return nil, fmt.Errorf("Step %d: %w", t, err)
	}
	u.steps++

	return belief, nil
}

// runUnrolled is Run for the Unrolled method.
func runUnrolled(m *model.Model, obs *model.Observations, opts ...Option) (*Result, error) {
	o := gatherOptions(opts...)
	u, err := newUnroller(m, o)
	if err != nil {
		return nil, err
	}
	res, err := newResult(Unrolled, u.current, obs, o)
	if err != nil {
		return nil, err
	}
	for _, ev := range obs.Steps {
		b, err := u.step(ev)
		if err != nil {
			return nil, filterErrorf("Run", err)
		}
		res.Steps = append(res.Steps, b)
	}

	return res, nil
}
