// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// AABB is an axis-aligned bounding box.
// The zero value is a degenerate box at the origin;
// use EmptyAABB to create a box that can be grown
// with Extend.
type AABB struct {
	Min V3
	Max V3
}

// EmptyAABB returns a box that contains nothing.
// Its Min is +Inf and its Max is -Inf, so that any
// call to Extend or Merge replaces both.
func EmptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: V3{inf, inf, inf},
		Max: V3{-inf, -inf, -inf},
	}
}

// IsEmpty returns whether b contains no points.
func (b *AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Extend grows b to contain p.
func (b *AABB) Extend(p *V3) {
	b.Min.Min(&b.Min, p)
	b.Max.Max(&b.Max, p)
}

// Merge grows b to contain c.
// Merging an empty box is a no-op.
func (b *AABB) Merge(c *AABB) {
	if c.IsEmpty() {
		return
	}
	b.Min.Min(&b.Min, &c.Min)
	b.Max.Max(&b.Max, &c.Max)
}

// Center returns the center of b.
func (b *AABB) Center() (c V3) {
	c.Add(&b.Min, &b.Max)
	c.Scale(0.5, &c)
	return
}

// Diagonal returns Max - Min.
func (b *AABB) Diagonal() (d V3) {
	d.Sub(&b.Max, &b.Min)
	return
}

// LargestDim returns the axis along which b is widest.
func (b *AABB) LargestDim() int {
	d := b.Diagonal()
	dim := 0
	for i := 1; i < 3; i++ {
		if d[i] > d[dim] {
			dim = i
		}
	}
	return dim
}

// Contains returns whether p is inside b (inclusive).
func (b *AABB) Contains(p *V3) bool {
	for i := range p {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Corners returns the eight corners of b.
// Corner i takes Max along axis k when bit k of i is set.
func (b *AABB) Corners() (c [8]V3) {
	for i := range c {
		for k := 0; k < 3; k++ {
			if i&(1<<k) != 0 {
				c[i][k] = b.Max[k]
			} else {
				c[i][k] = b.Min[k]
			}
		}
	}
	return
}

// Transform returns the box that bounds b after
// transformation by m.
func (b *AABB) Transform(m *M4) AABB {
	t := EmptyAABB()
	if b.IsEmpty() {
		return t
	}
	for _, c := range b.Corners() {
		p := m.MulPoint(&c)
		t.Extend(&p)
	}
	return t
}

// SqDist returns the squared distance from p to b.
// It is zero when p is inside b.
func (b *AABB) SqDist(p *V3) (d float32) {
	for i := range p {
		var x float32
		switch {
		case p[i] < b.Min[i]:
			x = b.Min[i] - p[i]
		case p[i] > b.Max[i]:
			x = p[i] - b.Max[i]
		}
		d += x * x
	}
	return
}

// RayIntersect computes the parametric interval along the
// ray origin + t⋅dir that lies inside b, using the slab
// method.
// ok is false when the ray misses b or when b is behind
// the origin.
func (b *AABB) RayIntersect(origin, dir *V3) (tmin, tmax float32, ok bool) {
	tmin = math32.Inf(-1)
	tmax = math32.Inf(1)
	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t0 := (b.Min[i] - origin[i]) * inv
		t1 := (b.Max[i] - origin[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tmin = max(tmin, t0)
		tmax = min(tmax, t1)
		if tmin > tmax {
			return 0, 0, false
		}
	}
	if tmax < 0 {
		return 0, 0, false
	}
	return tmin, tmax, true
}
