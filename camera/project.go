// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package camera

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/pointscene/linear"
)

// Project maps the world-space point p to screen space.
// x and y are in pixels, with the origin at the top-left
// corner of the viewport; depth is in [0, 1] for points
// between the near and far planes.
func (c *Camera) Project(p *linear.V3) (x, y, depth float32) {
	v := linear.V4{p[0], p[1], p[2], 1}
	v.Mul(&c.viewProj, &v)
	if v[3] != 0 {
		v.Scale(1/v[3], &v)
	}
	x = (v[0] + 1) * 0.5 * c.width
	y = (1 - v[1]) * 0.5 * c.height
	depth = (v[2] + 1) * 0.5
	return
}

// Unproject is the inverse of Project.
func (c *Camera) Unproject(x, y, depth float32) linear.V3 {
	ndc := linear.V4{
		2*x/c.width - 1,
		1 - 2*y/c.height,
		2*depth - 1,
		1,
	}
	ndc.Mul(&c.invVP, &ndc)
	if ndc[3] != 0 {
		ndc.Scale(1/ndc[3], &ndc)
	}
	return ndc.V3()
}

// Ray returns the world-space ray through the pixel (x, y).
// origin lies on the near plane and dir is normalized.
func (c *Camera) Ray(x, y float32) (origin, dir linear.V3) {
	origin = c.Unproject(x, y, 0)
	far := c.Unproject(x, y, 1)
	dir.Sub(&far, &origin)
	dir.Norm(&dir)
	return
}

// FitBox moves c along its current direction so that the
// sphere bounding box is entirely in view, then fits the
// depth range to it.
// The target point becomes the box center.
// It does nothing if box is empty.
func (c *Camera) FitBox(box *linear.AABB) {
	if box.IsEmpty() {
		return
	}
	center := box.Center()
	diag := box.Diagonal()
	r := max(diag.Len()*0.5, minZNear)

	var dist float32
	switch c.proj {
	case Perspective:
		fov := c.fov
		if c.width < c.height {
			// Horizontal field of view is the narrower.
			fov = 2 * math32.Atan(math32.Tan(fov*0.5)*c.width/c.height)
		}
		dist = r / math32.Sin(fov*0.5)
	case Orthographic:
		dist = 2 * r
		c.zoom = 2 * r * max(1, c.width/c.height)
	}

	dir := c.Direction()
	dir.Scale(-dist, &dir)
	pos := center
	pos.Add(&pos, &dir)
	c.frame.SetTranslation(&pos)
	c.focal = dist
	c.zNear = max(dist-r, minZNear)
	c.zFar = dist + r
	c.update()
}

// FitZRange sets the near and far planes so that the
// depth range covers box, as seen from the current view.
// The near plane never goes below a small positive
// distance. It does nothing if box is empty or lies
// entirely behind the camera.
func (c *Camera) FitZRange(box *linear.AABB) {
	if box.IsEmpty() {
		return
	}
	near := math32.Inf(1)
	far := math32.Inf(-1)
	for _, p := range box.Corners() {
		v := c.view.MulPoint(&p)
		// The camera looks down -Z.
		near = min(near, -v[2])
		far = max(far, -v[2])
	}
	if far <= 0 {
		return
	}
	c.zNear = max(near, minZNear)
	c.zFar = far
	if c.zFar <= c.zNear {
		c.zFar = c.zNear * 2
	}
	c.update()
}
