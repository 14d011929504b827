// SPDX-License-Identifier: MIT

package elimination

import (
	"errors"
	"fmt"
)

// ErrMalformedOrder indicates an elimination order that does not cover the
// input tables: a scope variable in neither the order nor the query, a
// variable listed twice, or a variable both eliminated and queried.
var ErrMalformedOrder = errors.New("elimination: malformed order")

// OrderError reports the variable that makes an order malformed.
// It unwraps to ErrMalformedOrder.
type OrderError struct {
	VarID  int
	Reason string
}

// Error implements error.
func (e *OrderError) Error() string {
	return fmt.Sprintf("elimination: malformed order: variable %d %s", e.VarID, e.Reason)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *OrderError) Unwrap() error { return ErrMalformedOrder }

// Reasons carried by OrderError.
const (
	reasonMissing   = "appears in a table but not in the order or the query"
	reasonDuplicate = "appears twice in the order"
	reasonQueried   = "is both eliminated and queried"
)

// eliminationErrorf wraps err with the operation tag.
func eliminationErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
