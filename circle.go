// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package spline

import "math"

// Circle returns the exact quadratic NURBS representation of a circle in the
// XY plane: nine control points on the circumscribed square with corner
// weights √2/2 and four quadrant spans. The curve starts and ends at
// center + (r, 0) and runs counter-clockwise.
func Circle(center Vec3, r float64) *Curve {
	w := math.Sqrt2 / 2
	corners := [9][2]float64{
		{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0},
	}
	points := make([]ControlPoint, len(corners))
	for i, c := range corners {
		weight := 1.0
		if i%2 == 1 {
			weight = w
		}
		points[i] = CP(weight, center.Add(V2(c[0]*r, c[1]*r)))
	}
	knots := []float64{0, 0, 0, 0.25, 0.25, 0.5, 0.5, 0.75, 0.75, 1, 1, 1}
	return MustNew(2, points, knots)
}
