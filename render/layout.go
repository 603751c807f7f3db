// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package render

import (
	"math"
	"time"
	"unsafe"

	"github.com/gviegas/pointscene/linear"
)

// FrameLayout is the layout of per-frame, global data.
// It is defined as follows:
//
//	[0:16]  | view-projection matrix
//	[16:32] | view matrix
//	[32:48] | projection matrix
//	[48]    | elapsed time in seconds
//	[49]    | number of lights
//	[50]    | viewport's width
//	[51]    | viewport's height
//	[52]    | near plane
//	[53]    | far plane
//	[54:57] | camera position
//	[57:64] | (unused)
type FrameLayout [64]float32

// SetVP sets the view-projection matrix.
func (l *FrameLayout) SetVP(m *linear.M4) { copyM4(l[:16], m) }

// SetV sets the view matrix.
func (l *FrameLayout) SetV(m *linear.M4) { copyM4(l[16:32], m) }

// SetP sets the projection matrix.
func (l *FrameLayout) SetP(m *linear.M4) { copyM4(l[32:48], m) }

// SetTime sets the elapsed time.
func (l *FrameLayout) SetTime(d time.Duration) { l[48] = float32(d.Seconds()) }

// SetLightCount sets the number of lights.
func (l *FrameLayout) SetLightCount(n int) { l[49] = math.Float32frombits(uint32(n)) }

// LightCount returns the number of lights.
func (l *FrameLayout) LightCount() int { return int(math.Float32bits(l[49])) }

// SetViewport sets the viewport size.
func (l *FrameLayout) SetViewport(width, height float32) { l[50], l[51] = width, height }

// SetZRange sets the near and far planes.
func (l *FrameLayout) SetZRange(near, far float32) { l[52], l[53] = near, far }

// SetEye sets the camera position.
func (l *FrameLayout) SetEye(p *linear.V3) { l[54], l[55], l[56] = p[0], p[1], p[2] }

// LightLayout is the layout of light data.
// It is defined as follows:
//
//	[0]     | whether the light is unused
//	[1]     | light type
//	[2]     | intensity
//	[3]     | range
//	[4:7]   | color
//	[7]     | angular scale
//	[8:11]  | position
//	[11]    | angular offset
//	[12:15] | direction
//	[15]    | (unused)
type LightLayout [16]float32

// SetUnused sets whether the light is unused.
func (l *LightLayout) SetUnused(unused bool) {
	var bool32 uint32
	if unused {
		bool32 = 1
	}
	l[0] = math.Float32frombits(bool32)
}

// SetType sets the light type.
func (l *LightLayout) SetType(typ LightType) { l[1] = math.Float32frombits(uint32(typ)) }

// Type returns the light type.
func (l *LightLayout) Type() LightType { return LightType(math.Float32bits(l[1])) }

// SetIntensity sets the intensity.
func (l *LightLayout) SetIntensity(i float32) { l[2] = i }

// Intensity returns the intensity.
func (l *LightLayout) Intensity() float32 { return l[2] }

// SetRange sets the range.
// Used for PointLight and SpotLight.
func (l *LightLayout) SetRange(rng float32) { l[3] = rng }

// Range returns the range.
func (l *LightLayout) Range() float32 { return l[3] }

// SetColor sets the color.
func (l *LightLayout) SetColor(c *linear.V3) { l[4], l[5], l[6] = c[0], c[1], c[2] }

// Color returns the color.
func (l *LightLayout) Color() linear.V3 { return linear.V3{l[4], l[5], l[6]} }

// SetAngScale sets the angular scale.
// Used for SpotLight.
func (l *LightLayout) SetAngScale(s float32) { l[7] = s }

// AngScale returns the angular scale.
func (l *LightLayout) AngScale() float32 { return l[7] }

// SetPosition sets the position.
// Used for PointLight and SpotLight.
func (l *LightLayout) SetPosition(p *linear.V3) { l[8], l[9], l[10] = p[0], p[1], p[2] }

// Position returns the position.
func (l *LightLayout) Position() linear.V3 { return linear.V3{l[8], l[9], l[10]} }

// SetAngOffset sets the angular offset.
// Used for SpotLight.
func (l *LightLayout) SetAngOffset(off float32) { l[11] = off }

// AngOffset returns the angular offset.
func (l *LightLayout) AngOffset() float32 { return l[11] }

// SetDirection sets the direction.
// Used for DirectionalLight and SpotLight.
func (l *LightLayout) SetDirection(d *linear.V3) { l[12], l[13], l[14] = d[0], d[1], d[2] }

// Direction returns the direction.
func (l *LightLayout) Direction() linear.V3 { return linear.V3{l[12], l[13], l[14]} }

// DrawLayout is the layout of per-draw data.
// It is defined as follows:
//
//	[0:16]  | model-view-projection matrix
//	[16:32] | world matrix
//	[32:48] | normal matrix
//	[48]    | object ID
//	[49:64] | (unused)
type DrawLayout [64]float32

// SetMVP sets the model-view-projection matrix.
func (l *DrawLayout) SetMVP(m *linear.M4) { copyM4(l[:16], m) }

// SetWorld sets the world matrix.
func (l *DrawLayout) SetWorld(m *linear.M4) { copyM4(l[16:32], m) }

// SetNormal sets the normal matrix.
func (l *DrawLayout) SetNormal(m *linear.M4) { copyM4(l[32:48], m) }

// SetID sets the object's ID.
func (l *DrawLayout) SetID(id ObjectID) { l[48] = math.Float32frombits(uint32(id)) }

// ID returns the object's ID.
func (l *DrawLayout) ID() ObjectID { return ObjectID(math.Float32bits(l[48])) }

func copyM4(dst []float32, m *linear.M4) {
	copy(dst, unsafe.Slice((*float32)(unsafe.Pointer(m)), 16))
}
