// SPDX-License-Identifier: MIT
// Package factor: sentinel error set.
// All public operations return these sentinels (possibly wrapped with call-site
// context via fmt.Errorf("%s: %w")); tests MUST match them via errors.Is.
// No operation panics on user-triggered error conditions.

package factor

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange indicates a flat position or an instantiation component
	// outside the declared bounds. Never silently clamped.
	ErrIndexOutOfRange = errors.New("factor: index out of range")

	// ErrInvalidArgument indicates malformed input: a non-positive cardinality,
	// a scope with two variables sharing an id but not a cardinality, a
	// cardinality-changing rename or a value slice of the wrong length.
	ErrInvalidArgument = errors.New("factor: invalid argument")

	// ErrDegenerateDistribution is returned by Normalize on a zero-partition
	// (all-zero) table instead of producing NaN/Inf cells.
	ErrDegenerateDistribution = errors.New("factor: degenerate distribution")

	// ErrBackendMismatch indicates a Table implementation unknown to a Backend.
	ErrBackendMismatch = errors.New("factor: unsupported table implementation")
)

// noVar marks an IndexError that is not tied to a particular variable.
const noVar = -1

// IndexError carries the structured context of an out-of-range access.
// It unwraps to ErrIndexOutOfRange.
type IndexError struct {
	Op    string // operation that detected the violation
	Index int    // offending index or value
	Limit int    // exclusive upper bound
	VarID int    // variable the index refers to, or -1
}

// Error implements error.
func (e *IndexError) Error() string {
	if e.VarID == noVar {
		return fmt.Sprintf("factor: %s: index %d out of range [0,%d)", e.Op, e.Index, e.Limit)
	}

	return fmt.Sprintf("factor: %s: value %d of variable %d out of range [0,%d)",
		e.Op, e.Index, e.VarID, e.Limit)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// indexErr builds an *IndexError for a flat position.
func indexErr(op string, index, limit int) error {
	return &IndexError{Op: op, Index: index, Limit: limit, VarID: noVar}
}

// valueErr builds an *IndexError for a variable assignment.
func valueErr(op string, v Variable, value int) error {
	return &IndexError{Op: op, Index: value, Limit: v.Card, VarID: v.ID}
}

// factorErrorf wraps err with the operation tag, mirroring the call-site
// wrapping used across the module.
func factorErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
