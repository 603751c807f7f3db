// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package geometry

import (
	"context"
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/pointscene/color"
	"github.com/gviegas/pointscene/kdtree"
	"github.com/gviegas/pointscene/linear"
)

func TestPointCloud(t *testing.T) {
	pc := NewPointCloud([]linear.V3{{0, 0, 0}, {1, 2, 3}, {-1, 0, 5}})
	assert.Equal(t, 3, pc.Len())
	assert.False(t, pc.HasNormals())
	assert.False(t, pc.HasColors())

	b := pc.Bounds()
	assert.Equal(t, linear.V3{-1, 0, 0}, b.Min)
	assert.Equal(t, linear.V3{1, 2, 5}, b.Max)

	assert.False(t, pc.HasKdTree(), "the tree is built lazily")
	tree := pc.KdTree()
	assert.True(t, pc.HasKdTree())
	assert.Same(t, tree, pc.KdTree())
	n, ok := tree.Nearest(&linear.V3{0.9, 2, 3})
	require.True(t, ok)
	assert.Equal(t, 1, n.Index)

	require.NoError(t, pc.Append(linear.V3{10, 10, 10}))
	assert.False(t, pc.HasKdTree(), "mutation invalidates the tree")
	assert.Equal(t, 4, pc.KdTree().Len())
	assert.Equal(t, linear.V3{10, 10, 10}, pc.Bounds().Max)

	err := pc.SetNormals(make([]linear.V3, 3))
	assert.True(t, errors.Is(err, ErrAttribLen), "have %v", err)
	require.NoError(t, pc.SetColors(make([]color.Color, 4)))
	assert.True(t, errors.Is(pc.Append(linear.V3{}), ErrAttribLen))
	require.NoError(t, pc.SetNormals([]linear.V3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}}))

	var m linear.M4
	m.Scale(2, 2, 0.5)
	pc.Transform(&m)
	assert.Equal(t, linear.V3{2, 4, 1.5}, pc.Vertices()[1])
	assert.Equal(t, linear.V3{0, 0, 1}, pc.Normals()[0], "normals stay normalized")
	assert.False(t, pc.HasKdTree())
	assert.Equal(t, linear.V3{20, 20, 5}, pc.Bounds().Max)

	pc.SetVertices([]linear.V3{{1, 1, 1}})
	assert.False(t, pc.HasNormals(), "mismatched normals are dropped")
	assert.False(t, pc.HasColors())
	assert.Equal(t, 1, pc.KdTree().Len())

	cfg := kdtree.Config{MinCellSize: 1, MaxDepth: 4}
	pc.SetKdTreeConfig(&cfg)
	assert.False(t, pc.HasKdTree())

	empty := NewPointCloud(nil)
	eb := empty.Bounds()
	assert.True(t, eb.IsEmpty())
	assert.Zero(t, empty.KdTree().Len())
}

func TestGenerate(t *testing.T) {
	for _, s := range []Shape{Cube, Sphere, Plane} {
		pc, err := Generate(s, 500, 7)
		require.NoError(t, err, s)
		require.Equal(t, 500, pc.Len())
		assert.True(t, pc.HasColors())
		box := linear.AABB{Min: linear.V3{-1, -1, -1}, Max: linear.V3{1, 1, 1}}
		for i, v := range pc.Vertices() {
			require.True(t, box.Contains(&v), "%v: vertex %d = %v", s, i, v)
			switch s {
			case Sphere:
				assert.InDelta(t, 1, v.Len(), 1e-5)
			case Plane:
				assert.Zero(t, v[2])
			}
		}
		assert.Equal(t, s != Cube, pc.HasNormals(), s)

		again, _ := Generate(s, 500, 7)
		assert.Equal(t, pc.Vertices(), again.Vertices(), "same seed, same cloud")

		parsed, err := ParseShape(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseShape("torus")
	assert.Error(t, err)
	_, err = Generate(Shape(9), 1, 0)
	assert.Error(t, err)
	_, err = Generate(Cube, -1, 0)
	assert.Error(t, err)
}

func TestEstimateNormals(t *testing.T) {
	ctx := context.Background()

	plane, err := Generate(Plane, 2000, 3)
	require.NoError(t, err)
	require.NoError(t, plane.EstimateNormals(ctx, 12, 4, &linear.V3{0, 0, 10}))
	for i, n := range plane.Normals() {
		require.InDelta(t, 1, n[2], 1e-3, "normal %d = %v", i, n)
	}

	sphere, err := Generate(Sphere, 4000, 5)
	require.NoError(t, err)
	want := sphere.Normals()
	sphere.SetNormals(nil)
	require.NoError(t, sphere.EstimateNormals(ctx, 16, 0, nil))
	bad := 0
	for i, n := range sphere.Normals() {
		assert.InDelta(t, 1, n.Len(), 1e-4)
		if n.Dot(&want[i]) < math32.Cos(15*math32.Pi/180) {
			bad++
		}
	}
	assert.Less(t, bad, 40, "normals off by more than 15 degrees")

	assert.Error(t, sphere.EstimateNormals(ctx, 2, 1, nil))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, sphere.EstimateNormals(canceled, 8, 1, nil))
}
