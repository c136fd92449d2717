// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geometry

import "image/color"

// Color is a straight-alpha RGBA color with components in [0, 1], laid out
// the way vertex records carry it.
type Color struct {
	R, G, B, A float32
}

// Line colors used by the producers.
var (
	Black = Color{0, 0, 0, 1}
	White = Color{1, 1, 1, 1}
	Blue  = Color{0.1, 0.1, 0.9, 1}
	Red   = Color{0.9, 0.1, 0.1, 1}
	Green = Color{0.1, 0.9, 0.1, 1}
)

// RGBA creates a color from float components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// NRGBA converts to an 8-bit non-premultiplied color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// Array returns the components as an array in RGBA order.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

func clamp255(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x + 0.5
}
