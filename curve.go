// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package spline

import (
	"errors"
	"fmt"
	"math"
)

// Curve errors.
var (
	// ErrInvalidCurve is returned when a curve description violates the
	// clamped NURBS invariants.
	ErrInvalidCurve = errors.New("spline: invalid curve")

	// ErrInvalidArgument is returned when an evaluation argument is out of range.
	ErrInvalidArgument = errors.New("spline: invalid argument")
)

// knotEpsilon is the tolerance under which two knots are the same value.
const knotEpsilon = 0x1p-52

// ControlPoint is a weighted control point of a rational curve.
type ControlPoint struct {
	// Weight is the homogeneous weight. It must be positive.
	Weight float64

	// Pos is the control point position.
	Pos Vec3
}

// CP is a convenience function to create a ControlPoint.
func CP(weight float64, pos Vec3) ControlPoint {
	return ControlPoint{Weight: weight, Pos: pos}
}

// Curve is a clamped rational B-spline (NURBS) curve.
//
// The knot vector is normalized: the first degree+1 knots are 0 and the last
// degree+1 knots are 1, so the curve starts at the first control point and
// ends at the last one.
//
// A Curve is immutable after construction and safe for concurrent use.
type Curve struct {
	degree    int
	weights   []float64
	positions []Vec3
	knots     []float64
}

// New creates a curve of the given degree from control points and a knot
// vector. The inputs are copied.
//
// New returns an error wrapping ErrInvalidCurve if:
//   - degree is negative or there are fewer than degree+1 control points
//   - len(knots) != len(points)+degree+1
//   - a weight is not positive or a coordinate is not finite
//   - the knots are not non-decreasing within [0, 1]
//   - the knot vector is not clamped, or an end knot repeats more than
//     degree+1 times
func New(degree int, points []ControlPoint, knots []float64) (*Curve, error) {
	if err := validate(degree, points, knots); err != nil {
		return nil, err
	}

	c := &Curve{
		degree:    degree,
		weights:   make([]float64, len(points)),
		positions: make([]Vec3, len(points)),
		knots:     make([]float64, len(knots)),
	}
	for i, p := range points {
		c.weights[i] = p.Weight
		c.positions[i] = p.Pos
	}
	copy(c.knots, knots)
	return c, nil
}

// MustNew is like New but panics if the description is invalid.
// It is intended for curves built from literals.
func MustNew(degree int, points []ControlPoint, knots []float64) *Curve {
	c, err := New(degree, points, knots)
	if err != nil {
		panic(err)
	}
	return c
}

func validate(degree int, points []ControlPoint, knots []float64) error {
	if degree < 0 {
		return fmt.Errorf("%w: negative degree %d", ErrInvalidCurve, degree)
	}
	if len(points) < degree+1 {
		return fmt.Errorf("%w: %d control points, degree %d needs at least %d",
			ErrInvalidCurve, len(points), degree, degree+1)
	}
	if want := len(points) + degree + 1; len(knots) != want {
		return fmt.Errorf("%w: %d knots, want %d", ErrInvalidCurve, len(knots), want)
	}
	for i, p := range points {
		if !(p.Weight > 0) || math.IsInf(p.Weight, 0) {
			return fmt.Errorf("%w: control point %d has weight %g", ErrInvalidCurve, i, p.Weight)
		}
		if !p.Pos.IsFinite() {
			return fmt.Errorf("%w: control point %d is not finite", ErrInvalidCurve, i)
		}
	}
	for i, k := range knots {
		if !(k >= 0 && k <= 1) {
			return fmt.Errorf("%w: knot %d = %g outside [0, 1]", ErrInvalidCurve, i, k)
		}
		if i > 0 && k < knots[i-1] {
			return fmt.Errorf("%w: knot %d decreases", ErrInvalidCurve, i)
		}
	}
	last := len(knots) - 1
	for i := 0; i <= degree; i++ {
		if knots[i] != 0 || knots[last-i] != 1 {
			return fmt.Errorf("%w: knot vector is not clamped", ErrInvalidCurve)
		}
	}
	if knots[degree+1] == 0 || knots[len(points)-1] == 1 {
		return fmt.Errorf("%w: end knot multiplicity exceeds degree+1", ErrInvalidCurve)
	}
	return nil
}

// Degree returns the polynomial degree of the curve.
func (c *Curve) Degree() int { return c.degree }

// Len returns the number of control points.
func (c *Curve) Len() int { return len(c.positions) }

// ControlPoints returns a copy of the control points.
func (c *Curve) ControlPoints() []ControlPoint {
	out := make([]ControlPoint, len(c.positions))
	for i := range out {
		out[i] = ControlPoint{Weight: c.weights[i], Pos: c.positions[i]}
	}
	return out
}

// Knots returns a copy of the knot vector.
func (c *Curve) Knots() []float64 {
	out := make([]float64, len(c.knots))
	copy(out, c.knots)
	return out
}

// Start returns the first control point position, where the curve begins.
func (c *Curve) Start() Vec3 { return c.positions[0] }

// End returns the last control point position, where the curve ends.
func (c *Curve) End() Vec3 { return c.positions[len(c.positions)-1] }

// UniformKnots returns a clamped knot vector for n control points of the
// given degree with equally spaced interior knots.
func UniformKnots(n, degree int) []float64 {
	if n < degree+1 || degree < 0 {
		return nil
	}
	knots := make([]float64, n+degree+1)
	spans := n - degree
	for i := degree + 1; i < n; i++ {
		knots[i] = float64(i-degree) / float64(spans)
	}
	for i := n; i < len(knots); i++ {
		knots[i] = 1
	}
	return knots
}
