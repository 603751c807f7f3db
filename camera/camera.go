// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package camera implements a camera with view and
// projection transforms.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/pointscene/linear"
)

// ProjType is the type of projection.
type ProjType int

// Projection types.
const (
	Perspective ProjType = iota
	Orthographic
)

// Mode determines the pivot of Camera.ApplyTransform.
type Mode int

// Transform modes.
const (
	// Free rotates about the camera's position.
	Free Mode = iota
	// Target rotates about the camera's target point.
	Target
)

// Default parameters of New.
const (
	DefaultFOV   = 50 * math32.Pi / 180
	DefaultZNear = 1
	DefaultZFar  = 1000
)

// minZNear is the smallest near plane distance that
// FitZRange will produce.
const minZNear = 1e-3

// Camera is a view into the scene.
// Its frame maps camera space into world space; the camera
// looks down its local -Z axis, with +Y up.
// The zero value for Camera is not valid; use New.
type Camera struct {
	frame  linear.M4
	fov    float32
	zNear  float32
	zFar   float32
	focal  float32
	zoom   float32
	proj   ProjType
	width  float32
	height float32

	view     linear.M4
	projMat  linear.M4
	viewProj linear.M4
	invVP    linear.M4
}

// New creates a perspective camera at the origin looking
// down -Z, with a 1x1 viewport.
func New() *Camera {
	c := &Camera{
		fov:    DefaultFOV,
		zNear:  DefaultZNear,
		zFar:   DefaultZFar,
		focal:  1,
		zoom:   1,
		proj:   Perspective,
		width:  1,
		height: 1,
	}
	c.frame.I()
	c.update()
	return c
}

// Frame returns the camera-to-world transform.
func (c *Camera) Frame() linear.M4 { return c.frame }

// SetFrame replaces the camera-to-world transform.
// It must be a rigid transform.
func (c *Camera) SetFrame(m *linear.M4) {
	c.frame = *m
	c.update()
}

// Position returns the position of c in world space.
func (c *Camera) Position() linear.V3 { return c.frame.Translation() }

// SetPosition moves c to p, keeping its orientation.
func (c *Camera) SetPosition(p *linear.V3) {
	c.frame.SetTranslation(p)
	c.update()
}

// Direction returns the viewing direction of c.
func (c *Camera) Direction() linear.V3 {
	v := c.frame[2].V3()
	v.Scale(-1, &v)
	return v
}

// Up returns the up vector of c.
func (c *Camera) Up() linear.V3 { return c.frame[1].V3() }

// Right returns the right vector of c.
func (c *Camera) Right() linear.V3 { return c.frame[0].V3() }

// FocalDistance returns the distance from the position of
// c to its target point.
func (c *Camera) FocalDistance() float32 { return c.focal }

// SetFocalDistance sets the distance from the position of
// c to its target point. d must be positive.
func (c *Camera) SetFocalDistance(d float32) { c.focal = d }

// TargetPoint returns the point c orbits in Target mode.
func (c *Camera) TargetPoint() linear.V3 {
	p := c.Position()
	d := c.Direction()
	d.Scale(c.focal, &d)
	p.Add(&p, &d)
	return p
}

// ApplyTransform applies t to the frame of c.
// In Free mode t is applied about the camera position; in
// Target mode it is applied about the target point, and
// the focal distance is updated so that the target point
// stays fixed.
func (c *Camera) ApplyTransform(t *linear.M4, mode Mode) {
	var pivot linear.V3
	switch mode {
	case Free:
		pivot = c.Position()
	case Target:
		pivot = c.TargetPoint()
	}
	var to, from, m linear.M4
	to.Translate(-pivot[0], -pivot[1], -pivot[2])
	from.Translate(pivot[0], pivot[1], pivot[2])
	m.Mul(t, &to)
	m.Mul(&from, &m)
	c.frame.Mul(&m, &c.frame)
	if mode == Target {
		p := c.Position()
		if d := p.Dist(&pivot); d > 0 {
			c.focal = d
		}
	}
	c.update()
}

// Rotate rotates c by q about the pivot defined by mode.
func (c *Camera) Rotate(q *linear.Q, mode Mode) {
	var m linear.M4
	m.RotateQ(q)
	c.ApplyTransform(&m, mode)
}

// SetDirection rotates c about its position so that it
// looks along d. d must not be the zero vector.
func (c *Camera) SetDirection(d *linear.V3) {
	var to linear.V3
	to.Norm(d)
	from := c.Direction()
	q := rotationBetween(&from, &to)
	c.Rotate(&q, Free)
}

// rotationBetween returns the shortest rotation that takes
// unit vector a to unit vector b.
func rotationBetween(a, b *linear.V3) (q linear.Q) {
	cos := a.Dot(b)
	switch {
	case cos >= 1-1e-6:
		q.I()
		return
	case cos <= -1+1e-6:
		// Any axis orthogonal to a will do.
		axis := linear.V3{1, 0, 0}
		if math32.Abs(a[0]) > 0.9 {
			axis = linear.V3{0, 1, 0}
		}
		axis.Cross(a, &axis)
		axis.Norm(&axis)
		q.Rotate(math32.Pi, &axis)
		return
	}
	var axis linear.V3
	axis.Cross(a, b)
	axis.Norm(&axis)
	q.Rotate(math32.Acos(cos), &axis)
	return
}

// LookAt places c at eye, looking at target, with up
// as the approximate up direction.
// The focal distance becomes the distance from eye to
// target.
func (c *Camera) LookAt(eye, target, up *linear.V3) {
	var f, s, u linear.V3
	f.Sub(target, eye)
	dist := f.Len()
	f.Norm(&f)
	s.Cross(&f, up)
	s.Norm(&s)
	u.Cross(&s, &f)
	c.frame = linear.M4{
		{s[0], s[1], s[2], 0},
		{u[0], u[1], u[2], 0},
		{-f[0], -f[1], -f[2], 0},
		{eye[0], eye[1], eye[2], 1},
	}
	if dist > 0 {
		c.focal = dist
	}
	c.update()
}

// FOV returns the vertical field of view in radians.
func (c *Camera) FOV() float32 { return c.fov }

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float32) {
	c.fov = fov
	c.update()
}

// ZNear returns the distance to the near plane.
func (c *Camera) ZNear() float32 { return c.zNear }

// ZFar returns the distance to the far plane.
func (c *Camera) ZFar() float32 { return c.zFar }

// SetZRange sets the distances to the near and far planes.
func (c *Camera) SetZRange(near, far float32) {
	c.zNear, c.zFar = near, far
	c.update()
}

// Zoom returns the zoom factor, which is the width of the
// view volume of an orthographic projection.
func (c *Camera) Zoom() float32 { return c.zoom }

// SetZoom sets the zoom factor.
func (c *Camera) SetZoom(z float32) {
	c.zoom = z
	c.update()
}

// ProjType returns the type of projection of c.
func (c *Camera) ProjType() ProjType { return c.proj }

// SetProjType sets the type of projection of c.
func (c *Camera) SetProjType(p ProjType) {
	c.proj = p
	c.update()
}

// Viewport returns the viewport size in pixels.
func (c *Camera) Viewport() (width, height float32) { return c.width, c.height }

// SetViewport sets the viewport size in pixels and
// recomputes the projection matrix.
func (c *Camera) SetViewport(width, height float32) {
	c.width, c.height = width, height
	c.update()
}

// View returns the view matrix (world to camera space).
func (c *Camera) View() *linear.M4 { return &c.view }

// Proj returns the projection matrix.
func (c *Camera) Proj() *linear.M4 { return &c.projMat }

// ViewProj returns Proj() ⋅ View().
func (c *Camera) ViewProj() *linear.M4 { return &c.viewProj }

func (c *Camera) update() {
	c.updateView()
	c.updateProj()
	c.viewProj.Mul(&c.projMat, &c.view)
	c.invVP.Invert(&c.viewProj)
}

// updateView computes the view matrix as a look-at
// transform from the frame's position and axes.
func (c *Camera) updateView() {
	e := c.Position()
	var f, up, s, u linear.V3
	dir := c.Direction()
	f.Norm(&dir)
	upv := c.Up()
	up.Norm(&upv)
	s.Cross(&f, &up)
	u.Cross(&s, &f)
	c.view = linear.M4{
		{s[0], u[0], -f[0], 0},
		{s[1], u[1], -f[1], 0},
		{s[2], u[2], -f[2], 0},
		{-s.Dot(&e), -u.Dot(&e), f.Dot(&e), 1},
	}
}

func (c *Camera) updateProj() {
	switch c.proj {
	case Orthographic:
		dx := c.zoom * 0.5
		dy := c.height * dx / c.width
		c.projMat.Ortho(-dx, dx, -dy, dy, c.zNear, c.zFar)
	case Perspective:
		c.projMat.Perspective(c.fov, c.width/c.height, c.zNear, c.zFar)
	}
}
