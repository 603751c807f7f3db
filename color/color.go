// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package color defines the RGBA color type used by
// materials, lights and debug primitives.
package color

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGBA color of float32.
// Components are expected to be in the range [0, 1].
type Color [4]float32

// Common colors.
var (
	Black = Color{0, 0, 0, 1}
	White = Color{1, 1, 1, 1}
	Red   = Color{1, 0, 0, 1}
	Green = Color{0, 1, 0, 1}
	Blue  = Color{0, 0, 1, 1}
)

// RGB creates an opaque color.
func RGB(r, g, b float32) Color { return Color{r, g, b, 1} }

// Gray creates an opaque gray color of intensity x.
func Gray(x float32) Color { return Color{x, x, x, 1} }

// FromHSV creates an opaque color from hue, saturation
// and value. h is in the range [0, 1] and wraps around,
// so 0 and 1 both yield red.
func FromHSV(h, s, v float32) Color {
	hh := float64(h)
	hh -= math.Floor(hh)
	c := colorful.Hsv(360*hh, float64(s), float64(v)).Clamped()
	return Color{float32(c.R), float32(c.G), float32(c.B), 1}
}

// Hue creates a fully saturated, opaque color of hue h.
func Hue(h float32) Color { return FromHSV(h, 1, 1) }

// HSV returns the hue, saturation and value of c.
// Hue is in the range [0, 1).
func (c Color) HSV() (h, s, v float32) {
	x := colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}
	hh, ss, vv := x.Hsv()
	return float32(hh / 360), float32(ss), float32(vv)
}

// Alpha returns c with its alpha component replaced.
func (c Color) Alpha(a float32) Color {
	c[3] = a
	return c
}

// R, G, B and A return the individual components of c.
func (c Color) R() float32 { return c[0] }
func (c Color) G() float32 { return c[1] }
func (c Color) B() float32 { return c[2] }
func (c Color) A() float32 { return c[3] }

// Hex returns c (without alpha) as a "#rrggbb" string.
func (c Color) Hex() string {
	x := colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}
	return x.Clamped().Hex()
}
