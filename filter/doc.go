// Package filter tracks the belief state of a dynamic model through a stream
// of observations (recursive Bayesian filtering).
//
// A dynamic model (model.Dynamic) splits into prior, transition and sensor
// tables. The belief is a table over the current-slice interface variables.
// It starts as the normalized product of the prior tables, and every
// observation step applies
//
//  1. Project: eliminate the current interface variables from
//     {transition tables} ∪ {belief}; the result is over next-slice
//     variables and is renamed back onto their current-slice twins.
//  2. Update: condition the sensor model on the step's evidence, sum out the
//     sensors the step leaves unobserved, multiply with the projection and
//     normalize.
//
// The sensor model is computed once per Session: the product of the sensor
// tables with every internal variable eliminated in min-fill order. The
// projection order is also fixed once per Session and never shared between
// sessions.
//
// Methods:
//
//	Unrolled         reference: re-unrolls the network every step and runs a
//	                 full elimination (quadratic in the number of steps).
//	Interface        the incremental algorithm above over dense tables.
//	InterfaceSparse  the same algorithm over compressed sparse tables.
//
// All three produce the same beliefs up to floating-point rounding.
//
// Example:
//
//	res, err := filter.Run(m, obs, filter.Interface, filter.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	marginals, err := res.Marginals() // per step, over the state variables
package filter
