// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package render

import (
	"math"

	"github.com/gviegas/pointscene/color"
	"github.com/gviegas/pointscene/linear"
)

// LightType is the type of a Light.
type LightType int

// Types of light.
const (
	Directional LightType = iota
	Point
	Spot
)

func (t LightType) String() string {
	switch t {
	case Directional:
		return "directional"
	case Point:
		return "point"
	case Spot:
		return "spot"
	}
	return "unknown"
}

// Light defines a light source.
// The zero value for Light is not valid; one must
// call DirectionalLight.Light, PointLight.Light or
// SpotLight.Light to create an initialized Light.
type Light struct {
	layout LightLayout
	// Used to reconstruct the inner/outer
	// cone angles.
	// Ignored if the type is not Spot.
	cosOuter float32
}

// Type returns the type of l.
func (l *Light) Type() LightType { return l.layout.Type() }

// Layout returns the layout of l.
func (l *Light) Layout() LightLayout { return l.layout }

// SetDirection sets the direction of l.
// It does not normalize d.
// Only applies to directional and spot lights.
func (l *Light) SetDirection(d *linear.V3) { l.layout.SetDirection(d) }

// Direction returns the direction of l.
// Only applies to directional and spot lights.
func (l *Light) Direction() linear.V3 { return l.layout.Direction() }

// SetPosition sets the position of l.
// Only applies to point and spot lights.
func (l *Light) SetPosition(p *linear.V3) { l.layout.SetPosition(p) }

// Position returns the position of l.
// Only applies to point and spot lights.
func (l *Light) Position() linear.V3 { return l.layout.Position() }

// SetIntensity sets the intensity of l.
func (l *Light) SetIntensity(i float32) { l.layout.SetIntensity(max(0, i)) }

// Intensity returns the intensity of l.
func (l *Light) Intensity() float32 { return l.layout.Intensity() }

// SetRange sets the falloff range of l.
// Only applies to point and spot lights.
func (l *Light) SetRange(r float32) { l.layout.SetRange(r) }

// Range returns the falloff range of l.
// Only applies to point and spot lights.
func (l *Light) Range() float32 { return l.layout.Range() }

// SetColor sets the RGB color of l.
// Alpha is ignored.
func (l *Light) SetColor(c color.Color) { l.layout.SetColor(&linear.V3{c[0], c[1], c[2]}) }

// Color returns the color of l.
func (l *Light) Color() color.Color {
	rgb := l.layout.Color()
	return color.RGB(rgb[0], rgb[1], rgb[2])
}

// SetConeAngles sets the inner/outer cone angles of l.
// Cone angles that exceed math.Pi/2, or that are less
// than zero, will be clamped. The inner angle will be
// adjusted such that it is less than the outer angle.
// Only applies to spot lights.
func (l *Light) SetConeAngles(inner, outer float32) {
	var (
		i      = max(0, min(float64(inner), math.Pi/2-1e-6))
		o      = max(i+1e-6, min(float64(outer), math.Pi/2))
		cosi   = math.Cos(i)
		coso   = math.Cos(o)
		scale  = 1 / (cosi - coso)
		offset = scale * -coso
	)
	l.layout.SetAngScale(float32(scale))
	l.layout.SetAngOffset(float32(offset))
	l.cosOuter = float32(coso)
}

// ConeAngles returns the inner/outer cone angles of l.
// Note that it returns the clamped angles (see the doc
// for Light.SetConeAngles).
// Only applies to spot lights.
func (l *Light) ConeAngles() (inner, outer float32) {
	scale := l.layout.AngScale()
	coso := l.cosOuter
	cosi := (1 / scale) + coso
	inner = float32(math.Acos(float64(cosi)))
	outer = float32(math.Acos(float64(coso)))
	return
}

// DirectionalLight is a light that behaves as if located
// infinitely far away.
// The light is emitted in the given Direction.
type DirectionalLight struct {
	Direction linear.V3
	Intensity float32
	Color     color.Color
}

// Light creates the light source described by t.
// t.Direction need not be normalized.
func (t *DirectionalLight) Light() (light Light) {
	var d linear.V3
	d.Norm(&t.Direction)
	light.layout.SetType(Directional)
	light.SetIntensity(t.Intensity)
	light.SetColor(t.Color)
	light.SetDirection(&d)
	return
}

// PointLight is an omnidirectional, positional light.
// The light is emitted in all directions from the
// given Position.
// Range determines the area affected by the light.
type PointLight struct {
	Position  linear.V3
	Range     float32
	Intensity float32
	Color     color.Color
}

// Light creates the light source described by t.
// t.Range may be set to 0 or less to indicate an
// infinite range.
func (t *PointLight) Light() (light Light) {
	light.layout.SetType(Point)
	light.SetIntensity(t.Intensity)
	light.SetRange(t.Range)
	light.SetColor(t.Color)
	light.SetPosition(&t.Position)
	return
}

// SpotLight is a directional, positional light.
// The light is emitted in a cone in the given Direction
// from the given Position.
// InnerAngle and OuterAngle (in radians), alongside
// Range, determine the area affected by the light.
type SpotLight struct {
	Direction  linear.V3
	Position   linear.V3
	InnerAngle float32
	OuterAngle float32
	Range      float32
	Intensity  float32
	Color      color.Color
}

// Light creates the light source described by t.
// t.Direction need not be normalized.
// t.Range may be set to 0 or less to indicate an
// infinite range.
// The cone angles will be adjusted as per
// Light.SetConeAngles.
func (t *SpotLight) Light() (light Light) {
	var d linear.V3
	d.Norm(&t.Direction)
	light.layout.SetType(Spot)
	light.SetIntensity(t.Intensity)
	light.SetRange(t.Range)
	light.SetColor(t.Color)
	light.SetConeAngles(t.InnerAngle, t.OuterAngle)
	light.SetPosition(&t.Position)
	light.SetDirection(&d)
	return
}
