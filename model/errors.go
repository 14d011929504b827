// SPDX-License-Identifier: MIT

package model

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax indicates a malformed model or observation file.
	ErrSyntax = errors.New("model: syntax error")

	// ErrUnsupportedKind indicates an unknown model header or file extension.
	ErrUnsupportedKind = errors.New("model: unsupported kind")

	// ErrInconsistent indicates a well-formed file whose content contradicts
	// itself: an unknown variable id, a table of the wrong size, an interface
	// pair with different cardinalities, or observations that do not match
	// the model's sensors.
	ErrInconsistent = errors.New("model: inconsistent model")
)

// SyntaxError locates a parse failure. It unwraps to ErrSyntax.
type SyntaxError struct {
	Line int    // 1-based line number, 0 when unknown (end of input)
	Msg  string // what was expected
}

// Error implements error.
func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("model: syntax error at end of input: %s", e.Msg)
	}

	return fmt.Sprintf("model: syntax error on line %d: %s", e.Line, e.Msg)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// syntaxErrorf builds a *SyntaxError.
func syntaxErrorf(line int, format string, args ...any) error {
	return &SyntaxError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// inconsistentf wraps ErrInconsistent with context.
func inconsistentf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInconsistent)
}
