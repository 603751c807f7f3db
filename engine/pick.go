// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/pointscene/camera"
	"github.com/gviegas/pointscene/linear"
)

// PickResult describes a picked point.
type PickResult struct {
	Component *PointCloudComponent
	// Index of the point in the component's cloud.
	Index int
	// Position of the point in world space.
	Point linear.V3
	// Distance along the pick ray to the projection of
	// the point onto it.
	Distance float32
}

// Resize sets the size of the viewport, in pixels.
func (e *Engine) Resize(width, height float32) { e.camera.SetViewport(width, height) }

// Pick returns the point nearest to the camera among those
// that project within a w×h pixel area centered at (x, y).
// If both w and h are zero, an area of Config.PickPixels
// pixels is used.
// Only visible, pickable point clouds are considered.
// Pixel coordinates have their origin at the top-left
// corner of the viewport.
func (e *Engine) Pick(x, y, w, h float32) (res PickResult, ok bool) {
	px := max(w, h) / 2
	if px <= 0 {
		px = e.cfg.PickPixels
	}
	origin, dir := e.camera.Ray(x, y)
	res.Distance = math32.Inf(1)
	for _, pc := range e.geometry.PointClouds() {
		o := pc.Object()
		if o == nil || !o.Visible || !o.Pickable || pc.Cloud().Len() == 0 {
			continue
		}
		world := o.World()
		var inv linear.M4
		inv.Invert(&world)
		lo := inv.MulPoint(&origin)
		ld := inv.MulDir(&dir)
		// Object-space length of a unit of world length
		// along the ray.
		scale := ld.Len()
		if scale == 0 {
			continue
		}

		box := pc.Cloud().Bounds()
		wbox := box.Transform(&world)
		center := wbox.Center()
		var toCenter linear.V3
		toCenter.Sub(&center, &origin)
		radius := e.pixelSize(toCenter.Dot(&dir)) * px

		hit, found := pc.Cloud().KdTree().RayNearest(&lo, &ld, radius*scale)
		if !found {
			continue
		}
		if t := hit.T / scale; t < res.Distance {
			res = PickResult{
				Component: pc,
				Index:     hit.Index,
				Point:     world.MulPoint(&pc.Cloud().Vertices()[hit.Index]),
				Distance:  t,
			}
			ok = true
		}
	}
	if !ok {
		return PickResult{}, false
	}
	e.logger.Debug("engine: picked", "component", res.Component.Name(), "index", res.Index)
	return
}

// pixelSize returns the world-space size of a pixel at
// distance dist from the camera.
func (e *Engine) pixelSize(dist float32) float32 {
	c := e.camera
	w, h := c.Viewport()
	if c.ProjType() == camera.Orthographic {
		return c.Zoom() / w
	}
	// The ray starts at the near plane.
	dist = max(dist+c.ZNear(), c.ZNear())
	return 2 * dist * math32.Tan(c.FOV()/2) / h
}
