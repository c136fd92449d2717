// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geometry

import (
	"iter"
	"math"
)

// Line is a segment between two canvas points.
type Line struct {
	Start, End Point
}

// NewLine creates a line from its endpoint coordinates.
func NewLine(x0, y0, x1, y1 float64) Line {
	return Line{Start: Pt(x0, y0), End: Pt(x1, y1)}
}

// LineFromPoints creates a line between a and b.
// It reports false if any coordinate is NaN.
func LineFromPoints(a, b Point) (Line, bool) {
	if a.IsNaN() || b.IsNaN() {
		return Line{}, false
	}
	return Line{Start: a, End: b}, true
}

// Record converts the line to its float32 vertex record.
func (l Line) Record() LineRecord {
	return LineRecord{Start: l.Start.Vertex(), End: l.End.Vertex()}
}

// Ray is a half-line from Origin along Direction.
type Ray struct {
	Origin    Point
	Direction Point
}

// rayParallelEpsilon is the threshold under which a ray and a line are
// treated as parallel.
const rayParallelEpsilon = 1e-6

// IntersectLine returns the ray parameter t at which the ray crosses the
// segment l, so that At(t) is the intersection point.
// It reports false if the ray is parallel to l or misses it.
func (r Ray) IntersectLine(l Line) (float64, bool) {
	v1 := r.Origin.Sub(l.Start)
	s := l.End.Sub(l.Start)
	v3 := Pt(-r.Direction.Y, r.Direction.X)

	dot := s.Dot(v3)
	if math.Abs(dot) < rayParallelEpsilon {
		return 0, false
	}

	t1 := s.Cross(v1) / dot
	t2 := v1.Dot(v3) / dot
	if t1 >= 0 && t2 >= 0 && t2 <= 1 {
		return t1, true
	}
	return 0, false
}

// IntersectLines returns the smallest ray parameter over all segments the ray
// crosses.
func (r Ray) IntersectLines(lines iter.Seq[Line]) (float64, bool) {
	best, found := math.Inf(1), false
	for l := range lines {
		if t, ok := r.IntersectLine(l); ok && t < best {
			best, found = t, true
		}
	}
	return best, found
}

// At returns the point Origin + Direction*t.
func (r Ray) At(t float64) Point {
	return r.Origin.Add(r.Direction.Mul(t))
}
