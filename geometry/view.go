// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geometry

// View is the pan and zoom state of a canvas shown in a pixel viewport.
//
// Canvas coordinates are mapped to normalized screen coordinates in
// [-1, 1] (y up) by translating by Translation and scaling by
// Zoom/Width and Zoom/Height. Screen coordinates are mapped to pixels with
// y pointing down.
type View struct {
	Width, Height int
	Zoom          float64
	Translation   Point
}

// NewView creates a view of the given pixel size with zoom 1 and no
// translation.
func NewView(width, height int) View {
	return View{Width: width, Height: height, Zoom: 1}
}

// ScreenMatrix maps canvas space to normalized screen space.
func (v View) ScreenMatrix() Matrix {
	return Translate(v.Translation.X, v.Translation.Y).
		Then(Scale(v.Zoom/float64(v.Width), v.Zoom/float64(v.Height)))
}

// pixelToScreen maps pixels to normalized screen space.
func (v View) pixelToScreen() Matrix {
	w := float64(v.Width) / 2
	h := float64(v.Height) / 2
	return Translate(-w, -h).Then(Scale(1/w, -1/h))
}

// PixelMatrix maps canvas space to pixels.
func (v View) PixelMatrix() Matrix {
	toPixel, _ := v.pixelToScreen().Invert()
	return v.ScreenMatrix().Then(toPixel)
}

// CanvasPoint maps a pixel position back to canvas space.
// It reports false for a degenerate view (zero size or zoom).
func (v View) CanvasPoint(pixel Point) (Point, bool) {
	inv, ok := v.PixelMatrix().Invert()
	if !ok {
		return Point{}, false
	}
	return inv.TransformPoint(pixel), true
}

// ZoomBy scales the zoom by 1 + steps/10, one step per scroll-wheel line.
func (v *View) ZoomBy(steps float64) {
	v.Zoom *= 1 + steps/10
}

// Pan moves the canvas so that it follows a pointer drag of delta pixels.
func (v *View) Pan(delta Point) {
	screen := v.pixelToScreen().TransformVector(delta)
	inv, ok := v.ScreenMatrix().Invert()
	if !ok {
		return
	}
	v.Translation = v.Translation.Add(inv.TransformVector(screen))
}
