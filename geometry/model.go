// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geometry

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/gogpu/spline/dynbuf"
)

// ErrNoRegion is returned when asking for a region that was never added.
var ErrNoRegion = errors.New("geometry: no region at index")

// ModelGeometry holds closed polygonal regions of the model. Each region's
// edges are appended to the line buffer as it is added; existing edges are
// kept across buffer growth.
type ModelGeometry struct {
	mu      sync.Mutex
	regions [][]Point
	buf     *dynbuf.Buffer[ColoredLine]
}

// NewModelGeometry creates an empty model whose edges live in stores from
// alloc.
func NewModelGeometry(alloc dynbuf.Allocator[ColoredLine], opts ...dynbuf.Option) (*ModelGeometry, error) {
	opts = append([]dynbuf.Option{dynbuf.WithLabel("model_lines")}, opts...)
	buf, err := dynbuf.New(alloc, 0, opts...)
	if err != nil {
		return nil, fmt.Errorf("geometry: model buffer: %w", err)
	}
	return &ModelGeometry{buf: buf}, nil
}

// AddRegion closes the polygon through pts and appends its len(pts) edges
// in color. An empty region is ignored.
func (g *ModelGeometry) AddRegion(color Color, pts []Point) error {
	if len(pts) == 0 {
		return nil
	}
	closed := append(slices.Clone(pts), pts[0])

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.buf.ExtendN(len(closed)-1, edges(closed, color)); err != nil {
		return fmt.Errorf("geometry: add region: %w", err)
	}
	g.regions = append(g.regions, closed)
	return nil
}

// Regions returns the number of regions added.
func (g *ModelGeometry) Regions() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.regions)
}

// Region returns a copy of region i's closed outline, whose last point
// repeats the first. It returns ErrNoRegion if i is out of range.
func (g *ModelGeometry) Region(i int) ([]Point, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i < 0 || i >= len(g.regions) {
		return nil, fmt.Errorf("%w: %d of %d", ErrNoRegion, i, len(g.regions))
	}
	return slices.Clone(g.regions[i]), nil
}

// Edges returns every region edge as a Line, for hit testing with Ray.
func (g *ModelGeometry) Edges() iter.Seq[Line] {
	g.mu.Lock()
	regions := slices.Clone(g.regions)
	g.mu.Unlock()
	return func(yield func(Line) bool) {
		for _, r := range regions {
			for i := 1; i < len(r); i++ {
				if !yield(Line{Start: r[i-1], End: r[i]}) {
					return
				}
			}
		}
	}
}

// Lines returns a view of all region edges.
func (g *ModelGeometry) Lines() dynbuf.View[ColoredLine] {
	return g.buf.Get()
}

// Release frees the line buffer.
func (g *ModelGeometry) Release() {
	g.buf.Release()
}

func edges(pts []Point, c Color) iter.Seq[ColoredLine] {
	return func(yield func(ColoredLine) bool) {
		for i := 1; i < len(pts); i++ {
			l := ColoredLine{Start: pts[i-1].Vertex(), End: pts[i].Vertex(), Color: c}
			if !yield(l) {
				return
			}
		}
	}
}
