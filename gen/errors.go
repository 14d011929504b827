// SPDX-License-Identifier: MIT
// Package: dbn/gen
//
// errors.go: sentinel errors for the gen package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Constructors attach context with %w; they never panic at runtime.
//   • Option constructors (WithX) panic on meaningless values instead.

package gen

import "errors"

// ErrTooSmall indicates a size parameter below the constructor's minimum
// (inputs, gates, health variables, chain length, grid dimensions).
var ErrTooSmall = errors.New("gen: parameter too small")
