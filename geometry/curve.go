// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geometry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/spline"
	"github.com/gogpu/spline/dynbuf"
)

// DefaultSamples is the number of points each curve is sampled at.
const DefaultSamples = 64

// ErrNoCurve is returned when replacing a curve at an index that was never
// added.
var ErrNoCurve = errors.New("geometry: no curve at index")

type curveEntry struct {
	curve *spline.Curve
	color Color
}

// CurveGeometry samples a set of curves into colored line segments.
//
// Every Update rewrites the whole line buffer with Write, so growth never
// copies the previous frame's segments.
type CurveGeometry struct {
	mu      sync.Mutex
	curves  []curveEntry
	samples int
	eval    spline.Evaluator
	points  []spline.Vec3
	lines   []ColoredLine
	buf     *dynbuf.Buffer[ColoredLine]
}

// NewCurveGeometry creates an empty curve set whose segments live in stores
// from alloc. A samples value below 2 uses DefaultSamples.
func NewCurveGeometry(alloc dynbuf.Allocator[ColoredLine], samples int, opts ...dynbuf.Option) (*CurveGeometry, error) {
	if samples < 2 {
		samples = DefaultSamples
	}
	opts = append([]dynbuf.Option{dynbuf.WithLabel("curve_lines")}, opts...)
	buf, err := dynbuf.New(alloc, 0, opts...)
	if err != nil {
		return nil, fmt.Errorf("geometry: curve buffer: %w", err)
	}
	return &CurveGeometry{samples: samples, buf: buf}, nil
}

// AddCurve appends a curve drawn in color and returns its index.
func (g *CurveGeometry) AddCurve(c *spline.Curve, color Color) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.curves = append(g.curves, curveEntry{curve: c, color: color})
	return len(g.curves) - 1
}

// SetCurve replaces the curve at index i, keeping its color.
func (g *CurveGeometry) SetCurve(i int, c *spline.Curve) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i < 0 || i >= len(g.curves) {
		return fmt.Errorf("%w: %d of %d", ErrNoCurve, i, len(g.curves))
	}
	g.curves[i].curve = c
	return nil
}

// Len returns the number of curves.
func (g *CurveGeometry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.curves)
}

// Update samples every curve and writes the resulting segments, replacing
// the previous content of the line buffer.
func (g *CurveGeometry) Update() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.lines = g.lines[:0]
	for _, e := range g.curves {
		var err error
		g.points, err = g.eval.AppendPoints(g.points[:0], e.curve, g.samples)
		if err != nil {
			return fmt.Errorf("geometry: sample curve: %w", err)
		}
		g.lines = appendPolyline(g.lines, g.points, e.color)
	}
	return g.buf.Write(g.lines)
}

// Lines returns a view of the segments written by the last Update.
func (g *CurveGeometry) Lines() dynbuf.View[ColoredLine] {
	return g.buf.Get()
}

// Release frees the line buffer.
func (g *CurveGeometry) Release() {
	g.buf.Release()
}

// appendPolyline appends one segment per consecutive pair of points.
func appendPolyline(dst []ColoredLine, pts []spline.Vec3, c Color) []ColoredLine {
	for i := 1; i < len(pts); i++ {
		dst = append(dst, ColoredLine{
			Start: FromVec3(pts[i-1]).Vertex(),
			End:   FromVec3(pts[i]).Vertex(),
			Color: c,
		})
	}
	return dst
}
