// SPDX-License-Identifier: MIT

// Package elimination: functional configuration. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults,
//   - WithX constructors,
//   - gatherOptions helper (internal).
package elimination

import (
	"io"
	"log/slog"

	"github.com/katalvlaran/dbn/factor"
)

// DefaultBackend is the table representation used when WithBackend is absent.
var DefaultBackend = factor.DenseBackend

// Stats collects counters of one elimination run. Pass a *Stats through
// WithStats; it is reset at the start of every run.
type Stats struct {
	Eliminated   int // order variables processed (empty buckets included)
	Products     int // pairwise table products
	SumOuts      int // sum-outs performed
	MaxTableSize int // largest intermediate table, in cells
	MaxWidth     int // widest bucket product, in variables
}

// InducedWidth is the realized induced width: the widest bucket product
// minus its eliminated variable.
func (s *Stats) InducedWidth() int {
	if s.MaxWidth == 0 {
		return 0
	}

	return s.MaxWidth - 1
}

func (s *Stats) observe(t factor.Table) {
	if t.Size() > s.MaxTableSize {
		s.MaxTableSize = t.Size()
	}
	if t.Width() > s.MaxWidth {
		s.MaxWidth = t.Width()
	}
}

// Options holds the resolved configuration of a run.
type Options struct {
	logger  *slog.Logger
	backend factor.Backend
	stats   *Stats
}

// Option mutates Options.
type Option func(*Options)

// WithLogger routes debug records (bucket sizes, eliminated variables) to l.
// A nil logger keeps the default, which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBackend selects the table representation; inputs are converted once.
func WithBackend(b factor.Backend) Option {
	return func(o *Options) {
		if b != nil {
			o.backend = b
		}
	}
}

// WithStats records counters of the run into s.
func WithStats(s *Stats) Option {
	return func(o *Options) {
		if s != nil {
			o.stats = s
		}
	}
}

// gatherOptions applies opts over the defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		backend: DefaultBackend,
		stats:   &Stats{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	*o.stats = Stats{}

	return o
}
