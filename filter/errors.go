// SPDX-License-Identifier: MIT

package filter

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSteps indicates an observation stream without any step.
	ErrNoSteps = errors.New("filter: no observation steps")

	// ErrUnknownStateVariable indicates a reporting variable that is not a
	// current interface variable carried by the belief.
	ErrUnknownStateVariable = errors.New("filter: unknown state variable")

	// ErrUnknownMethod indicates a method selector other than 1, 2 or 3.
	ErrUnknownMethod = errors.New("filter: unknown method")
)

// filterErrorf wraps err with the operation tag.
func filterErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
