// SPDX-License-Identifier: MIT

// Package filter: functional configuration of a filtering session.
package filter

import (
	"io"
	"log/slog"

	"github.com/katalvlaran/dbn/factor"
)

// DefaultBackend is the table representation used when WithBackend is absent.
var DefaultBackend = factor.DenseBackend

// Options holds the resolved configuration of a session.
type Options struct {
	logger  *slog.Logger
	backend factor.Backend
	state   []int
}

// Option mutates Options.
type Option func(*Options)

// WithLogger routes debug records (per-step partition and belief size) to l.
// A nil logger keeps the default, which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBackend selects the table representation of the session.
func WithBackend(b factor.Backend) Option {
	return func(o *Options) {
		if b != nil {
			o.backend = b
		}
	}
}

// WithStateVariables sets the current interface ids Result.Marginals
// reports, overriding the ids of the observation stream.
func WithStateVariables(ids ...int) Option {
	return func(o *Options) {
		o.state = append([]int(nil), ids...)
	}
}

// gatherOptions applies opts over the defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		backend: DefaultBackend,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
