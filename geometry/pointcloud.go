// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package geometry implements point cloud geometry.
package geometry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gviegas/pointscene/color"
	"github.com/gviegas/pointscene/kdtree"
	"github.com/gviegas/pointscene/linear"
)

const prefix = "geometry: "

func newGeomErr(reason string) error { return errors.New(prefix + reason) }

// ErrAttribLen means that an attribute does not have one
// element per vertex.
var ErrAttribLen = newGeomErr("attribute length mismatch")

// PointCloud is a set of unconnected points with optional
// per-vertex normals and colors.
// The k-d tree over its vertices is built on first use
// and rebuilt after the vertices change.
// Accessors are safe for concurrent use; mutators are not.
type PointCloud struct {
	vertices []linear.V3
	normals  []linear.V3
	colors   []color.Color

	mu     sync.Mutex
	cfg    kdtree.Config
	tree   *kdtree.Tree
	bounds *linear.AABB
}

// NewPointCloud creates a point cloud from vertices.
// It takes ownership of the slice.
func NewPointCloud(vertices []linear.V3) *PointCloud {
	return &PointCloud{vertices: vertices, cfg: kdtree.DefaultConfig()}
}

// Len returns the number of vertices.
func (p *PointCloud) Len() int { return len(p.vertices) }

// Vertices returns the vertices of p.
// The slice must not be modified; use SetVertices.
func (p *PointCloud) Vertices() []linear.V3 { return p.vertices }

// Normals returns the normals of p, or nil.
func (p *PointCloud) Normals() []linear.V3 { return p.normals }

// Colors returns the colors of p, or nil.
func (p *PointCloud) Colors() []color.Color { return p.colors }

// HasNormals reports whether p has per-vertex normals.
func (p *PointCloud) HasNormals() bool { return p.normals != nil }

// HasColors reports whether p has per-vertex colors.
func (p *PointCloud) HasColors() bool { return p.colors != nil }

// invalidate discards the cached tree and bounds.
func (p *PointCloud) invalidate() {
	p.mu.Lock()
	p.tree = nil
	p.bounds = nil
	p.mu.Unlock()
}

// SetVertices replaces the vertices of p.
// Normals and colors are dropped if their length no
// longer matches.
func (p *PointCloud) SetVertices(vertices []linear.V3) {
	p.vertices = vertices
	if len(p.normals) != len(vertices) {
		p.normals = nil
	}
	if len(p.colors) != len(vertices) {
		p.colors = nil
	}
	p.invalidate()
}

// Append adds vertices to p.
// It fails if p has normals or colors, since the new
// vertices would lack them.
func (p *PointCloud) Append(vertices ...linear.V3) error {
	if p.HasNormals() || p.HasColors() {
		return fmt.Errorf("%w: Append on a point cloud with attributes", ErrAttribLen)
	}
	p.vertices = append(p.vertices, vertices...)
	p.invalidate()
	return nil
}

// SetNormals sets the per-vertex normals of p.
// A nil slice removes them.
func (p *PointCloud) SetNormals(normals []linear.V3) error {
	if normals != nil && len(normals) != len(p.vertices) {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrAttribLen, len(normals), len(p.vertices))
	}
	p.normals = normals
	return nil
}

// SetColors sets the per-vertex colors of p.
// A nil slice removes them.
func (p *PointCloud) SetColors(colors []color.Color) error {
	if colors != nil && len(colors) != len(p.vertices) {
		return fmt.Errorf("%w: %d colors for %d vertices", ErrAttribLen, len(colors), len(p.vertices))
	}
	p.colors = colors
	return nil
}

// Transform applies m to the vertices of p, and its
// inverse transpose to the normals.
func (p *PointCloud) Transform(m *linear.M4) {
	for i := range p.vertices {
		p.vertices[i] = m.MulPoint(&p.vertices[i])
	}
	if p.normals != nil {
		var n linear.M4
		n.Invert(m)
		n.Transpose(&n)
		for i := range p.normals {
			v := n.MulDir(&p.normals[i])
			if v.Dot(&v) > 0 {
				v.Norm(&v)
			}
			p.normals[i] = v
		}
	}
	p.invalidate()
}

// SetKdTreeConfig sets the configuration used to build the
// k-d tree. The current tree, if any, is discarded.
func (p *PointCloud) SetKdTreeConfig(cfg *kdtree.Config) {
	p.mu.Lock()
	p.cfg = *cfg
	p.tree = nil
	p.mu.Unlock()
}

// KdTree returns the k-d tree over the vertices of p,
// building it if needed.
func (p *PointCloud) KdTree() *kdtree.Tree {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree == nil {
		p.tree = kdtree.Build(p.vertices, &p.cfg)
	}
	return p.tree
}

// HasKdTree reports whether the k-d tree is built.
func (p *PointCloud) HasKdTree() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tree != nil
}

// Bounds returns the bounding box of the vertices of p.
// It is empty if p has no vertices.
func (p *PointCloud) Bounds() linear.AABB {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bounds == nil {
		b := linear.EmptyAABB()
		for i := range p.vertices {
			b.Extend(&p.vertices[i])
		}
		p.bounds = &b
	}
	return *p.bounds
}
