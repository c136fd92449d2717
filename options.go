// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package spline

// EvalOption configures curve sampling.
//
// Example:
//
//	// Sample only the first half of the parameter domain.
//	pts, err := spline.Evaluate(c, 32, spline.WithRange(0, 0.5))
type EvalOption func(*evalOptions)

// evalOptions holds optional configuration for sampling.
type evalOptions struct {
	lo, hi float64
	ranged bool
}

// WithRange restricts sampling to the parameter interval [lo, hi] of the
// normalized domain. Samples are still spread at equal parameter steps and
// the first and last samples are the curve points at lo and hi.
func WithRange(lo, hi float64) EvalOption {
	return func(o *evalOptions) {
		o.lo, o.hi = lo, hi
		o.ranged = true
	}
}
