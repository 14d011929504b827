// Package elimination implements exact inference by bucket elimination over
// factor.Table values.
//
// Eliminate runs three explicit phases, with no recursion:
//
//  1. Bucketing: one bucket per order variable; every input table goes to
//     the bucket of the first order variable in its scope, or is multiplied
//     straight into the result when its scope holds no order variable.
//  2. Elimination: buckets are processed front to back. A bucket's tables are
//     multiplied together, the bucket variable is summed out, and the
//     product lands in the bucket of the first later order variable left in
//     its scope (or in the result).
//  3. Finalize: the result, seeded with the unit table, spans exactly the
//     query variables that occur in some table.
//
// The result does not depend on the order (up to floating-point rounding);
// the order only drives intermediate table sizes. Marginal picks a min-fill
// order (package interaction) over the non-query variables.
//
// Example:
//
//	pb, err := elimination.Marginal(tables, []factor.Variable{b},
//		elimination.WithLogger(logger))
package elimination
