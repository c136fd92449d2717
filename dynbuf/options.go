// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dynbuf

// DefaultInitialGrowth is the capacity an empty buffer jumps to on its first
// preserving growth.
const DefaultInitialGrowth = 8

// Option configures a Buffer during creation.
//
// Example:
//
//	buf, err := dynbuf.New[geometry.ColoredLine](alloc, 0, dynbuf.WithLabel("model_lines"))
type Option func(*options)

type options struct {
	label         string
	initialGrowth int
}

func defaultOptions() options {
	return options{
		label:         "dynbuf",
		initialGrowth: DefaultInitialGrowth,
	}
}

// WithLabel sets the debug label passed to the allocator and used in logs
// and errors.
func WithLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.label = label
		}
	}
}

// WithInitialGrowth sets the capacity an empty buffer jumps to on its first
// preserving growth. Values below 1 keep DefaultInitialGrowth.
func WithInitialGrowth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.initialGrowth = n
		}
	}
}
