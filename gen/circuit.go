// SPDX-License-Identifier: MIT
// Package: dbn/gen
//
// circuit.go: digital circuit diagnosis DBN.
//
// Variable layout (all binary):
//   • 0 .. inputs-1                 input wires (observed)
//   • inputs .. inputs+gates-1      gate outputs; the last one is the
//                                   circuit output (observed)
//   • inputs+gates+2k, +2k+1        health k: current, next
//
// Tables, in this order:
//   • one prior [p, 1-p] per input wire,
//   • one CPT per gate over (output, gate inputs.., health current),
//   • per health variable: prior [p, 1-p] over current and persistence
//     [p1, p2, 1-p1, 1-p2] over (next, current).
//
// Gate CPT: health 0 ⇒ 0.5 for both outputs; health 1 ⇒ deterministic.
// Health variables are assigned to gates round-robin over a shuffled order.

package gen

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/dbn/factor"
	"github.com/katalvlaran/dbn/model"
)

const (
	methodCircuit = "Circuit"
	minInputs     = 2
	minGates      = 1
	minHealth     = 1
	binary        = 2
	brokenGate    = 0.5 // output probability of a gate with health 0
)

// gateKind is the boolean function of a healthy gate.
type gateKind int

const (
	gateNot gateKind = iota + 1
	gateAnd
	gateOr
)

// eval applies the gate to its input states.
func (k gateKind) eval(in []int) int {
	switch k {
	case gateNot:
		return 1 - in[0]
	case gateAnd:
		return in[0] & in[1]
	default:
		return in[0] | in[1]
	}
}

// Circuit generates a circuit DBN and a random observation stream over its
// sensors; the stream reports the current health variables.
//
// Errors:
//   - ErrTooSmall: inputs < 2, gates < 1 or health < 1.
func Circuit(inputs, gates, health int, opts ...Option) (*model.Model, *model.Observations, error) {
	if inputs < minInputs || gates < minGates || health < minHealth {
		return nil, nil, fmt.Errorf("%s: inputs=%d, gates=%d, health=%d (minimum %d, %d, %d): %w",
			methodCircuit, inputs, gates, health, minInputs, minGates, minHealth, ErrTooSmall)
	}
	cfg := newConfig(opts...)
	rng := cfg.rng

	wires := inputs + gates
	cards := make([]int, wires+2*health)
	for i := range cards {
		cards[i] = binary
	}
	arena, err := factor.NewArena(cards...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", methodCircuit, err)
	}
	healthID := func(k int) int { return wires + 2*k }

	m := &model.Model{Kind: model.Dynamic, Arena: arena, Transition: make(map[int]int, health)}
	for k := 0; k < health; k++ {
		m.Transition[healthID(k)+1] = healthID(k)
		m.Prior = append(m.Prior, healthID(k))
	}
	for i := 0; i < inputs; i++ {
		m.Sensor = append(m.Sensor, i)
	}
	m.Sensor = append(m.Sensor, wires-1)

	add := func(scope []int, values []float64) error {
		vars, err := arena.Lookup(scope)
		if err != nil {
			return err
		}
		f, err := factor.NewDenseScope(vars, values)
		if err != nil {
			return err
		}
		m.Factors = append(m.Factors, f)

		return nil
	}

	// Inputs.
	for i := 0; i < inputs; i++ {
		p := rng.Float64()
		if err := add([]int{i}, []float64{p, 1 - p}); err != nil {
			return nil, nil, fmt.Errorf("%s: input %d: %w", methodCircuit, i, err)
		}
	}

	// Gates.
	owners := rng.Perm(health)
	next := 0
	for j := inputs; j < wires; j++ {
		kind, in := wiring(rng, inputs, j, j == wires-1)
		scope := append([]int{j}, in...)
		scope = append(scope, healthID(owners[next]))
		next = (next + 1) % health
		if err := add(scope, gateTable(kind, len(scope))); err != nil {
			return nil, nil, fmt.Errorf("%s: gate %d: %w", methodCircuit, j, err)
		}
	}

	// Health.
	for k := 0; k < health; k++ {
		cur := healthID(k)
		p := rng.Float64()
		if err := add([]int{cur}, []float64{p, 1 - p}); err != nil {
			return nil, nil, fmt.Errorf("%s: health %d: %w", methodCircuit, k, err)
		}
		p1, p2 := rng.Float64(), rng.Float64()
		if err := add([]int{cur + 1, cur}, []float64{p1, p2, 1 - p1, 1 - p2}); err != nil {
			return nil, nil, fmt.Errorf("%s: health %d: %w", methodCircuit, k, err)
		}
	}

	obs := &model.Observations{Steps: make([]factor.Evidence, cfg.steps), State: append([]int(nil), m.Prior...)}
	for t := range obs.Steps {
		ev := make(factor.Evidence, len(m.Sensor))
		for _, id := range m.Sensor {
			ev[id] = rng.Intn(binary)
		}
		obs.Steps[t] = ev
	}

	return m, obs, nil
}

// wiring picks the function and the input wires of gate j. The output gate
// reads the two previous wires; other two-input gates take one primary input
// and one distinct earlier wire.
func wiring(rng *rand.Rand, inputs, j int, output bool) (gateKind, []int) {
	if output {
		return gateKind(int(gateAnd) + rng.Intn(2)), []int{j - 1, j - 2}
	}
	kind := gateKind(1 + rng.Intn(3))
	if kind == gateNot {
		return kind, []int{rng.Intn(j)}
	}
	a := rng.Intn(inputs)
	b := rng.Intn(j)
	for b == a {
		b = rng.Intn(j)
	}

	return kind, []int{a, b}
}

// gateTable enumerates (output, inputs.., health) with the last variable
// fastest.
func gateTable(kind gateKind, width int) []float64 {
	inst := make([]int, width)
	values := make([]float64, 1<<width)
	for p := range values {
		switch {
		case inst[width-1] == 0:
			values[p] = brokenGate
		case inst[0] == kind.eval(inst[1:width-1]):
			values[p] = 1
		}
		for d := width - 1; d >= 0; d-- {
			inst[d]++
			if inst[d] < binary {
				break
			}
			inst[d] = 0
		}
	}

	return values
}
