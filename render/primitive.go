// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package render

import (
	"github.com/gviegas/pointscene/color"
	"github.com/gviegas/pointscene/linear"
)

// LineMesh is a set of colored line segments.
// Vertices 2i and 2i+1 form the i-th segment.
type LineMesh struct {
	Vertices []linear.V3
	Colors   []color.Color
}

// Topology implements Drawable.
func (m *LineMesh) Topology() Topology { return Lines }

// VertexCount implements Drawable.
func (m *LineMesh) VertexCount() int { return len(m.Vertices) }

// Bounds implements Drawable.
func (m *LineMesh) Bounds() linear.AABB {
	b := linear.EmptyAABB()
	for i := range m.Vertices {
		b.Extend(&m.Vertices[i])
	}
	return b
}

// SegmentCount returns the number of segments in m.
func (m *LineMesh) SegmentCount() int { return len(m.Vertices) / 2 }

func (m *LineMesh) add(a, b *linear.V3, c color.Color) {
	m.Vertices = append(m.Vertices, *a, *b)
	m.Colors = append(m.Colors, c, c)
}

// NewLineMesh creates a mesh from pairs of points, all of
// the same color.
// A trailing unpaired point is ignored.
func NewLineMesh(points []linear.V3, c color.Color) *LineMesh {
	n := len(points) &^ 1
	m := &LineMesh{
		Vertices: make([]linear.V3, 0, n),
		Colors:   make([]color.Color, 0, n),
	}
	for i := 0; i < n; i += 2 {
		m.add(&points[i], &points[i+1], c)
	}
	return m
}

// aabbEdges lists the 12 edges of a box as pairs of
// corner indices (see linear.AABB.Corners).
var aabbEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}

// NewAABBMesh creates the wireframe of box.
// It has 12 segments, or none if box is empty.
func NewAABBMesh(box *linear.AABB, c color.Color) *LineMesh {
	m := new(LineMesh)
	if box.IsEmpty() {
		return m
	}
	m.Vertices = make([]linear.V3, 0, 24)
	m.Colors = make([]color.Color, 0, 24)
	corners := box.Corners()
	for _, e := range aabbEdges {
		m.add(&corners[e[0]], &corners[e[1]], c)
	}
	return m
}

// NewFrameMesh creates the axes of the coordinate frame
// xf, each scale long.
// X is red, Y is green and Z is blue.
func NewFrameMesh(xf *linear.M4, scale float32) *LineMesh {
	m := &LineMesh{
		Vertices: make([]linear.V3, 0, 6),
		Colors:   make([]color.Color, 0, 6),
	}
	o := xf.Translation()
	for i, c := range [3]color.Color{color.Red, color.Green, color.Blue} {
		var axis linear.V3
		axis[i] = scale
		axis = xf.MulDir(&axis)
		axis.Add(&o, &axis)
		m.add(&o, &axis, c)
	}
	return m
}
