// Package gen builds seeded models for tests, benchmarks and the command line.
//
// What:
//
//   - Circuit(inputs, gates, health): a dynamic model of a digital circuit
//     whose gates fail silently. Inputs and the output wire are observed;
//     every gate depends on one persistent health variable. A gate with
//     health 0 emits a fair coin; with health 1 it computes not/and/or.
//   - Chain(n), Grid(rows, cols): static Markov networks with strictly
//     positive random potentials, used to exercise elimination orders.
//
// Determinism:
//
//	All randomness flows through one *rand.Rand (WithSeed / WithRand).
//	The same seed and parameters always produce the same model and
//	observation stream. Without options DefaultSeed is used.
//
// Example:
//
//	m, obs, err := gen.Circuit(4, 6, 2, gen.WithSeed(7), gen.WithObservations(20))
//	if err != nil {
//		return err
//	}
//	res, err := filter.Run(m, obs, filter.Interface)
package gen
