// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package kdtree

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/pointscene/linear"
)

// RayHit is the result of a ray query.
type RayHit struct {
	Neighbor
	// Distance along the ray to the projection of the
	// point onto it.
	T float32
}

// RayNearest returns the point closest to origin, along the
// ray origin + t⋅dir (t ≥ 0), among those whose distance to
// the ray is at most radius.
// The SqDist of the result is the squared distance between
// the point and the ray.
// ok is false if no point qualifies.
func (t *Tree) RayNearest(origin, dir *linear.V3, radius float32) (hit RayHit, ok bool) {
	if len(t.nodes) == 0 || radius < 0 {
		return
	}
	var d linear.V3
	if dir.Dot(dir) == 0 {
		return
	}
	d.Norm(dir)
	boxes := t.NodeBoxes()
	sq := radius * radius
	hit.T = math32.Inf(1)
	hit.Index = -1

	stack := make([]int, 1, 2*MaxDepth)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		box := boxes[id]
		box.Min.Sub(&box.Min, &linear.V3{radius, radius, radius})
		box.Max.Add(&box.Max, &linear.V3{radius, radius, radius})
		tmin, _, in := box.RayIntersect(origin, &d)
		if !in || tmin > hit.T {
			continue
		}
		n := &t.nodes[id]
		if !n.leaf {
			stack = append(stack, n.FirstChild+1, n.FirstChild)
			continue
		}
		for _, i := range t.indices[n.Start : n.Start+n.Size] {
			var v linear.V3
			v.Sub(&t.points[i], origin)
			s := v.Dot(&d)
			if s < 0 || s >= hit.T {
				continue
			}
			if perp := v.Dot(&v) - s*s; perp <= sq {
				hit = RayHit{Neighbor{i, max(0, perp)}, s}
			}
		}
	}
	return hit, hit.Index >= 0
}
