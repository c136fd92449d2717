// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster draws line records into an image on the CPU, for previews
// and tests where no GPU is available.
package raster

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/spline/geometry"
)

// DefaultLineWidth is the stroke width in pixels.
const DefaultLineWidth = 1.5

// Canvas is an RGBA image showing canvas space through a View.
type Canvas struct {
	img   *image.RGBA
	view  geometry.View
	toPx  geometry.Matrix
	width float64
	ras   *vector.Rasterizer
}

// New creates a canvas of the view's pixel size filled with background.
func New(view geometry.View, background geometry.Color) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, view.Width, view.Height))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(background.NRGBA()), image.Point{}, xdraw.Src)
	return &Canvas{
		img:   img,
		view:  view,
		toPx:  view.PixelMatrix(),
		width: DefaultLineWidth,
		ras:   vector.NewRasterizer(view.Width, view.Height),
	}
}

// SetLineWidth sets the stroke width in pixels. Non-positive widths are
// ignored.
func (c *Canvas) SetLineWidth(w float64) {
	if w > 0 {
		c.width = w
	}
}

// Image returns the drawn image.
func (c *Canvas) Image() *image.RGBA { return c.img }

// DrawLines draws uncolored records in a single color.
func (c *Canvas) DrawLines(lines []geometry.LineRecord, color geometry.Color) {
	c.ras.Reset(c.view.Width, c.view.Height)
	n := 0
	for _, l := range lines {
		if c.addSegment(l.Start, l.End) {
			n++
		}
	}
	c.fill(n, color)
}

// DrawColoredLines draws records in their own colors. Lines sharing a color
// are rasterized in one pass, in order of first appearance.
func (c *Canvas) DrawColoredLines(lines []geometry.ColoredLine) {
	var order []geometry.Color
	groups := make(map[geometry.Color][]geometry.ColoredLine)
	for _, l := range lines {
		if _, ok := groups[l.Color]; !ok {
			order = append(order, l.Color)
		}
		groups[l.Color] = append(groups[l.Color], l)
	}
	for _, col := range order {
		c.ras.Reset(c.view.Width, c.view.Height)
		n := 0
		for _, l := range groups[col] {
			if c.addSegment(l.Start, l.End) {
				n++
			}
		}
		c.fill(n, col)
	}
}

func (c *Canvas) fill(segments int, color geometry.Color) {
	if segments == 0 {
		return
	}
	c.ras.DrawOp = xdraw.Over
	c.ras.Draw(c.img, c.img.Bounds(), image.NewUniform(color.NRGBA()), image.Point{})
}

// addSegment adds the segment as a quad of the stroke width. Degenerate and
// non-finite segments are skipped.
func (c *Canvas) addSegment(a, b geometry.Vertex) bool {
	p := c.toPx.TransformPoint(a.Point())
	q := c.toPx.TransformPoint(b.Point())
	d := q.Sub(p)
	length := d.Length()
	if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return false
	}
	half := c.width / 2
	nx, ny := -d.Y/length*half, d.X/length*half

	c.ras.MoveTo(float32(p.X+nx), float32(p.Y+ny))
	c.ras.LineTo(float32(q.X+nx), float32(q.Y+ny))
	c.ras.LineTo(float32(q.X-nx), float32(q.Y-ny))
	c.ras.LineTo(float32(p.X-nx), float32(p.Y-ny))
	c.ras.ClosePath()
	return true
}
