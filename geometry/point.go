// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geometry

import (
	"math"

	"github.com/gogpu/spline"
)

// Point is a position or direction in canvas space.
type Point struct {
	X, Y float64
}

// Pt returns Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// FromVec3 projects a curve point onto the canvas plane.
func FromVec3(v spline.Vec3) Point {
	return Point{X: v.X, Y: v.Y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns p scaled by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dot returns p·q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the z component of p×q. It is positive when q lies
// counter-clockwise of p.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the Euclidean norm of p.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns |p-q|.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// IsNaN reports whether either coordinate is NaN.
func (p Point) IsNaN() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y)
}

// Vertex converts the point to the float32 vertex stored in line records.
func (p Point) Vertex() Vertex {
	return Vertex{X: float32(p.X), Y: float32(p.Y)}
}
