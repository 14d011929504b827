// SPDX-License-Identifier: MIT
// Package: dbn/gen
//
// options.go: functional options for the generators.
//
// Contract:
//   • Options are functional (type Option func(*config)) and applied in order.
//   • Option constructors panic on meaningless inputs; generators do not.
//   • Determinism is explicit: without WithSeed/WithRand, DefaultSeed is used.

package gen

import "math/rand"

// Defaults applied by newConfig.
const (
	DefaultSeed         int64 = 1  // seed of the default random source
	DefaultObservations       = 10 // steps of a generated observation stream
	DefaultCardinality        = 2  // states per variable of Chain and Grid
)

// config is the resolved set of knobs shared by all generators.
type config struct {
	rng   *rand.Rand
	steps int
	card  int
}

// Option customizes a generator.
type Option func(*config)

// WithSeed seeds a fresh random source.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand shares an explicit random source. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("gen: WithRand(nil)")
	}

	return func(c *config) {
		c.rng = r
	}
}

// WithObservations sets the number of generated steps. Panics if steps < 1.
func WithObservations(steps int) Option {
	if steps < 1 {
		panic("gen: WithObservations(steps<1)")
	}

	return func(c *config) {
		c.steps = steps
	}
}

// WithCardinality sets the number of states of every Chain and Grid
// variable. Panics if card < 1.
func WithCardinality(card int) Option {
	if card < 1 {
		panic("gen: WithCardinality(card<1)")
	}

	return func(c *config) {
		c.card = card
	}
}

func newConfig(opts ...Option) config {
	c := config{steps: DefaultObservations, card: DefaultCardinality}
	for _, opt := range opts {
		opt(&c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(DefaultSeed))
	}

	return c
}
