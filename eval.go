// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package spline

import (
	"fmt"
	"slices"
	"sort"

	"github.com/cwbudde/algo-vecmath"
)

// Evaluate samples the curve at sampleCount equally spaced parameter values
// and returns the curve points in parameter order.
//
// The first and last points are exactly the first and last control point
// positions. Samples are equally spaced in the curve parameter, not in arc
// length.
//
// Evaluate returns an error wrapping ErrInvalidArgument if sampleCount < 2.
// It is safe to call concurrently on the same curve.
func Evaluate(c *Curve, sampleCount int, opts ...EvalOption) ([]Vec3, error) {
	var e Evaluator
	return e.AppendPoints(nil, c, sampleCount, opts...)
}

// Points is shorthand for Evaluate(c, sampleCount, opts...).
func (c *Curve) Points(sampleCount int, opts ...EvalOption) ([]Vec3, error) {
	return Evaluate(c, sampleCount, opts...)
}

// Evaluator samples curves, reusing its basis scratch space between calls.
// The zero value is ready to use.
//
// An Evaluator is not safe for concurrent use.
type Evaluator struct {
	scratch []float64
}

// scratchFor returns the basis, left and right difference arrays for a
// curve of the given degree, carved from a single allocation.
func (e *Evaluator) scratchFor(degree int) (bases, left, right []float64) {
	n := degree + 1
	if cap(e.scratch) < 3*n {
		e.scratch = make([]float64, 3*n)
	}
	s := e.scratch[:3*n]
	return s[:n:n], s[n : 2*n : 2*n], s[2*n:]
}

// AppendPoints samples c like Evaluate and appends the points to dst.
func (e *Evaluator) AppendPoints(dst []Vec3, c *Curve, sampleCount int, opts ...EvalOption) ([]Vec3, error) {
	if sampleCount < 2 {
		return dst, fmt.Errorf("%w: sample count %d, need at least 2", ErrInvalidArgument, sampleCount)
	}

	last := len(c.positions) - 1
	start, end := c.knots[c.degree], c.knots[last+1]
	lo, hi := start, end

	var o evalOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.ranged {
		if !(o.lo >= start && o.lo <= o.hi && o.hi <= end) {
			return dst, fmt.Errorf("%w: range [%g, %g] outside [%g, %g]",
				ErrInvalidArgument, o.lo, o.hi, start, end)
		}
		lo, hi = o.lo, o.hi
	}

	bases, left, right := e.scratchFor(c.degree)
	dst = slices.Grow(dst, sampleCount)
	step := (hi - lo) / float64(sampleCount-1)

	// u only increases, so the active span index k only moves forward.
	k := c.degree
	for i := 0; i < sampleCount; i++ {
		u := lo + float64(i)*step
		switch {
		case i == 0 && lo == start:
			dst = append(dst, c.positions[0])
			continue
		case i == sampleCount-1:
			if hi == end {
				dst = append(dst, c.positions[last])
				continue
			}
			u = hi
		}
		for k < last && (u >= c.knots[k+1] || c.knots[k+1]-c.knots[k] < knotEpsilon) {
			k++
		}
		c.basis(k, u, bases, left, right)
		dst = append(dst, c.combine(k, bases))
	}
	return dst, nil
}

// At returns the curve point at parameter u in [0, 1].
//
// At locates the knot span by binary search; prefer Evaluate for sweeps.
func (c *Curve) At(u float64) (Vec3, error) {
	if !(u >= 0 && u <= 1) {
		return Vec3{}, fmt.Errorf("%w: parameter %g outside [0, 1]", ErrInvalidArgument, u)
	}
	switch u {
	case 0:
		return c.Start(), nil
	case 1:
		return c.End(), nil
	}
	var e Evaluator
	bases, left, right := e.scratchFor(c.degree)
	k := c.span(u)
	c.basis(k, u, bases, left, right)
	return c.combine(k, bases), nil
}

// Basis returns the index of the knot span containing u and the degree+1
// non-rational basis values of the control points k-degree..k at u.
// The values are non-negative and sum to one.
func (c *Curve) Basis(u float64) (k int, values []float64, err error) {
	if !(u >= 0 && u <= 1) {
		return 0, nil, fmt.Errorf("%w: parameter %g outside [0, 1]", ErrInvalidArgument, u)
	}
	var e Evaluator
	bases, left, right := e.scratchFor(c.degree)
	k = c.span(u)
	c.basis(k, u, bases, left, right)
	return k, bases, nil
}

// span returns the index k of the non-degenerate knot span
// [knots[k], knots[k+1]) containing u. The last span also contains 1.
func (c *Curve) span(u float64) int {
	last := len(c.positions) - 1
	k := sort.Search(len(c.knots), func(i int) bool { return c.knots[i] > u }) - 1
	return min(max(k, c.degree), last)
}

// basis computes the degree+1 non-zero basis functions at u in span k with
// the triangular Cox–de Boor recurrence. left and right hold the knot
// differences u-knots[k+1-j] and knots[k+j]-u.
func (c *Curve) basis(k int, u float64, bases, left, right []float64) {
	bases[0] = 1
	for j := 1; j <= c.degree; j++ {
		left[j] = u - c.knots[k+1-j]
		right[j] = c.knots[k+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			tmp := bases[r] / (right[r+1] + left[j-r])
			bases[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		bases[j] = saved
	}
}

// combine returns the rational combination of the control points active in
// span k. bases is scaled by the weights in place.
func (c *Curve) combine(k int, bases []float64) Vec3 {
	first := k - c.degree
	vecmath.MulBlockInPlace(bases, c.weights[first:k+1])

	var p Vec3
	for i, b := range bases {
		p = p.Add(c.positions[first+i].Mul(b))
	}
	return p.Div(vecmath.Sum(bases))
}
