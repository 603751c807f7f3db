// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/pointscene/color"
	"github.com/gviegas/pointscene/entity"
	"github.com/gviegas/pointscene/linear"
)

var lineBox = linear.AABB{Min: linear.V3{-1, -2, -3}, Max: linear.V3{1, 2, 3}}

type testComponent struct{ entity.BaseComponent }

func newTestComponent(t *testing.T, m *entity.Manager, name string) *testComponent {
	e := m.Create(name, nil)
	c := &testComponent{entity.NewBaseComponent("test", e)}
	require.NoError(t, e.AddComponent(c))
	return c
}

func TestPrimitives(t *testing.T) {
	m := NewAABBMesh(&lineBox, color.Red)
	assert.Equal(t, Lines, m.Topology())
	assert.Equal(t, 12, m.SegmentCount())
	assert.Equal(t, 24, m.VertexCount())
	assert.Len(t, m.Colors, 24)
	assert.Equal(t, lineBox, m.Bounds())

	// Every edge is axis-aligned, spans the box and each
	// axis has four edges.
	var perAxis [3]int
	for i := 0; i < len(m.Vertices); i += 2 {
		a, b := m.Vertices[i], m.Vertices[i+1]
		diff := 0
		for k := range 3 {
			if a[k] != b[k] {
				diff++
				perAxis[k]++
				assert.Equal(t, lineBox.Max[k]-lineBox.Min[k], b[k]-a[k])
			}
		}
		assert.Equal(t, 1, diff, "edge %d", i/2)
	}
	assert.Equal(t, [3]int{4, 4, 4}, perAxis)

	empty := linear.EmptyAABB()
	assert.Zero(t, NewAABBMesh(&empty, color.Red).VertexCount())

	l := NewLineMesh([]linear.V3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, color.Green)
	assert.Equal(t, 1, l.SegmentCount())
	assert.Equal(t, []color.Color{color.Green, color.Green}, l.Colors)

	var xf linear.M4
	xf.Translate(1, 2, 3)
	f := NewFrameMesh(&xf, 2)
	require.Equal(t, 3, f.SegmentCount())
	assert.Equal(t, linear.V3{1, 2, 3}, f.Vertices[0])
	assert.Equal(t, linear.V3{3, 2, 3}, f.Vertices[1])
	assert.Equal(t, linear.V3{1, 4, 3}, f.Vertices[3])
	assert.Equal(t, linear.V3{1, 2, 5}, f.Vertices[5])
	assert.Equal(t, color.Blue, f.Colors[4])
}

func TestObject(t *testing.T) {
	em := entity.NewManager(nil)
	c := newTestComponent(t, em, "e")
	var xf linear.M4
	xf.Translate(10, 0, 0)
	c.Entity().SetTransform(&xf)
	em.Update()

	o := NewObject("o", c, Geometry, NewAABBMesh(&lineBox, color.White), NewPlainMaterial("o"))
	assert.True(t, o.Visible)
	assert.True(t, o.Pickable)
	o.Local.Translate(0, 1, 0)
	w := o.World()
	assert.Equal(t, linear.V3{10, 1, 0}, w.Translation())
	b := o.Bounds()
	assert.Equal(t, linear.V3{9, -1, -3}, b.Min)
	assert.Equal(t, linear.V3{11, 3, 3}, b.Max)

	free := NewObject("free", nil, Debug, nil, nil)
	assert.False(t, free.Pickable)
	fb := free.Bounds()
	assert.True(t, fb.IsEmpty())
	assert.False(t, free.IsTransparent())
}

func TestObjectManager(t *testing.T) {
	em := entity.NewManager(nil)
	c1 := newTestComponent(t, em, "a")
	c2 := newTestComponent(t, em, "b")

	m := NewObjectManager(nil)
	var ids []ObjectID
	for i, c := range []entity.Component{c1, c2, c1, nil} {
		o := NewObject(string(rune('w'+i)), c, Geometry, nil, nil)
		ids = append(ids, m.Add(o))
	}
	assert.Equal(t, []ObjectID{0, 1, 2, 3}, ids)
	assert.Equal(t, 4, m.Len())
	o, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, "x", o.Name)
	assert.ElementsMatch(t, []ObjectID{0, 2}, m.OwnedBy(c1))

	o, err := m.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, "x", o.Name)
	_, ok = m.Get(1)
	assert.False(t, ok)
	_, err = m.Remove(1)
	assert.True(t, errors.Is(err, ErrNotFound), "have %v", err)
	_, ok = m.Get(-1)
	assert.False(t, ok)

	// IDs are reused.
	assert.Equal(t, ObjectID(1), m.Add(NewObject("x2", c2, Geometry, nil, nil)))

	assert.Equal(t, 2, m.RemoveOwnedBy(c1))
	assert.Equal(t, 2, m.Len())
	assert.Empty(t, m.OwnedBy(c1))

	// All iterates over a snapshot.
	n := 0
	for id := range m.All() {
		_, err := m.Remove(id)
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 2, n)
	assert.Zero(t, m.Len())

	m.Add(NewObject("y", nil, Geometry, nil, nil))
	m.Clear()
	assert.Zero(t, m.Len())
}
