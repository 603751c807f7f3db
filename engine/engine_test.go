// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/pointscene/color"
	"github.com/gviegas/pointscene/entity"
	"github.com/gviegas/pointscene/geometry"
	"github.com/gviegas/pointscene/linear"
	"github.com/gviegas/pointscene/render"
	"github.com/gviegas/pointscene/task"
)

type testSystem struct {
	entity.BaseSystem
	inits int
	tasks int
	keys  []string
	eat   string
}

func (s *testSystem) Initialize() error { s.inits++; return nil }

func (s *testSystem) GenerateTasks(q *task.Queue, fi *entity.FrameInfo) {
	q.Register("test", func(context.Context) error { s.tasks++; return nil })
}

func (s *testSystem) AddComponentToEntity(e *entity.Entity) (entity.Component, error) {
	return nil, ErrNotFound
}

func (s *testSystem) HandleKeyEvent(e *entity.KeyEvent) bool {
	s.keys = append(s.keys, e.Key)
	return e.Key == s.eat
}

func newTestEngine(t *testing.T, config *Config) *Engine {
	t.Helper()
	e, err := New(config, nil)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	e.Resize(100, 100)
	e.Camera().LookAt(&linear.V3{0, 0, 5}, &linear.V3{}, &linear.V3{0, 1, 0})
	return e
}

func TestConfig(t *testing.T) {
	dfl := DefaultConfig()
	require.NoError(t, dfl.Validate())
	assert.Equal(t, 6, dfl.BoxDepth)
	assert.Equal(t, render.MaxLight, dfl.MaxLight)

	c, err := LoadConfig(strings.NewReader("box_depth = 3\nfov = 60.0\nresource_dir = \"/res\"\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, c.BoxDepth)
	assert.Equal(t, float32(60), c.FOV)
	assert.Equal(t, "/res", c.ResourceDir)
	assert.Equal(t, dfl.MinCellSize, c.MinCellSize, "omitted keys keep their defaults")

	_, err = LoadConfig(strings.NewReader("colour = 1\n"))
	assert.ErrorIs(t, err, ErrConfig)
	_, err = LoadConfig(strings.NewReader("z_near = 0.0\n"))
	assert.ErrorIs(t, err, ErrConfig)
	_, err = LoadConfig(strings.NewReader("box_depth = \"deep\"\n"))
	assert.ErrorIs(t, err, ErrConfig)

	bad := dfl
	bad.MaxDepth = 100
	assert.ErrorIs(t, Configure(&bad), ErrConfig)
	_, err = New(&bad, nil)
	assert.ErrorIs(t, err, ErrConfig)

	kc := c.KdTreeConfig(nil)
	assert.Equal(t, c.MinCellSize, kc.MinCellSize)
	assert.Equal(t, c.MaxDepth, kc.MaxDepth)

	custom := dfl
	custom.BoxDepth = 2
	require.NoError(t, Configure(&custom))
	defer Configure(&dfl)
	e, err := New(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, e.Config().BoxDepth)
}

func TestEngine(t *testing.T) {
	e, err := New(nil, nil)
	require.NoError(t, err)
	_, err = e.Step(context.Background(), time.Millisecond)
	assert.ErrorIs(t, err, ErrState)

	first := &testSystem{eat: "A"}
	second := &testSystem{eat: "C"}
	require.NoError(t, e.RegisterSystem("first", first, 2000))
	require.NoError(t, e.Initialize())
	assert.ErrorIs(t, e.Initialize(), ErrState)
	require.NoError(t, e.RegisterSystem("second", second, 1))
	assert.ErrorIs(t, e.RegisterSystem("second", second, 1), ErrExists)
	assert.Equal(t, 1, first.inits)
	assert.Equal(t, 1, second.inits)
	assert.Equal(t, []string{"first", GeometrySystemName, "second"}, e.SystemNames())

	sys, ok := e.System(GeometrySystemName)
	require.True(t, ok)
	assert.Same(t, e.Geometry(), sys)
	_, ok = e.System("third")
	assert.False(t, ok)

	assert.True(t, e.HandleKeyEvent(&entity.KeyEvent{Key: "A", Press: true}))
	assert.True(t, e.HandleKeyEvent(&entity.KeyEvent{Key: "C", Press: true}))
	assert.False(t, e.HandleKeyEvent(&entity.KeyEvent{Key: "D", Press: true}))
	assert.Equal(t, []string{"A", "C", "D"}, first.keys)
	assert.Equal(t, []string{"C", "D"}, second.keys, "handled events stop at the first system")
	assert.False(t, e.HandleMouseEvent(&entity.MouseEvent{}))

	_, ok = e.Entities().Get(SystemEntityName)
	assert.True(t, ok)

	for i := range 3 {
		f, err := e.Step(context.Background(), 10*time.Millisecond)
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, uint64(i), e.FrameInfo().Frame)
	}
	assert.Equal(t, 30*time.Millisecond, e.FrameInfo().Elapsed)
	assert.Equal(t, 3, first.tasks)
	assert.Equal(t, 3, second.tasks)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Step(canceled, time.Millisecond)
	assert.Error(t, err)

	e.Shutdown()
	assert.Zero(t, e.Objects().Len())
	_, err = e.Step(context.Background(), time.Millisecond)
	assert.ErrorIs(t, err, ErrState)
	require.NoError(t, e.Initialize())
	assert.Equal(t, []string{"first", GeometrySystemName, "second"}, e.SystemNames())
}

func TestPointCloudComponent(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	pc, err := geometry.Generate(geometry.Cube, 1000, 1)
	require.NoError(t, err)
	ent := e.Entities().Create("cloud", nil)
	c, err := e.Geometry().AddPointCloud(ent, "cloud/pc", pc)
	require.NoError(t, err)
	_, err = e.Geometry().AddPointCloud(ent, "cloud/pc", pc)
	assert.ErrorIs(t, err, entity.ErrExists)
	assert.Len(t, ent.Components(), 1, "failed additions leave nothing attached")

	assert.Equal(t, 1, e.Objects().Len())
	assert.True(t, c.Material().ColoredByVertexAttrib())
	assert.False(t, pc.HasKdTree())
	o, ok := e.Objects().Get(c.ObjectID())
	require.True(t, ok)
	assert.Same(t, c.Object(), o)
	assert.Equal(t, render.Points, o.Drawable.Topology())
	assert.Equal(t, 1000, o.Drawable.VertexCount())

	f, err := e.Step(ctx, time.Millisecond)
	require.NoError(t, err)
	assert.True(t, pc.HasKdTree(), "the geometry task builds the tree")
	require.Len(t, f.Passes[render.LightingOpaque], 1)
	assert.Same(t, o, f.Passes[render.LightingOpaque][0].Object)
	assert.Len(t, f.Passes[render.ZPrepass], 1)
	assert.Empty(t, f.Passes[render.LightingTransparent])

	c.Material().Alpha = 0.5
	f, err = e.Step(ctx, time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, f.Passes[render.LightingOpaque])
	assert.Empty(t, f.Passes[render.ZPrepass], "transparent clouds skip the prepass")
	require.Len(t, f.Passes[render.LightingTransparent], 1)
	assert.Same(t, o, f.Passes[render.LightingTransparent][0].Object)

	empty, err := e.Geometry().AddComponentToEntity(e.Entities().Create("empty", nil))
	require.NoError(t, err)
	assert.Equal(t, "empty/cloud", empty.Name())
	assert.Len(t, e.Geometry().PointClouds(), 2)

	require.NoError(t, e.Entities().Remove(ent))
	assert.Equal(t, 1, e.Objects().Len())
	assert.Len(t, e.Geometry().PointClouds(), 1)
	assert.Nil(t, c.Object())
}

func TestToggleBoundingBoxes(t *testing.T) {
	config := DefaultConfig()
	config.BoxDepth = 3
	config.MinCellSize = 8
	e := newTestEngine(t, &config)
	ctx := context.Background()

	pc, err := geometry.Generate(geometry.Cube, 1000, 2)
	require.NoError(t, err)
	ent := e.Entities().Create("cloud", nil)
	_, err = e.Geometry().AddPointCloud(ent, "cloud/pc", pc)
	require.NoError(t, err)
	sysEnt, ok := e.Entities().Get(SystemEntityName)
	require.True(t, ok)
	_, err = e.Geometry().AddPointCloud(sysEnt, "system/pc", geometry.NewPointCloud([]linear.V3{{0, 0, 0}, {1, 1, 1}}))
	require.NoError(t, err)

	shown, err := e.ToggleBoundingBoxes()
	require.NoError(t, err)
	assert.True(t, shown)
	assert.True(t, e.BoundingBoxesShown())

	boxes := e.BoundingBoxEntities()
	require.Len(t, boxes, 7, "levels 0, 1 and 2 of the tree")
	for i, b := range boxes {
		assert.Equal(t, "cloudBB"+string(rune('0'+i)), b.Name())
		assert.Same(t, ent, b.Parent())
	}
	assert.Equal(t, 2+7, e.Objects().Len())

	dc, ok := boxes[0].Component("cloudBB0/debug")
	require.True(t, ok)
	ids := dc.(*DebugComponent).Objects()
	require.Len(t, ids, 1)
	o, _ := e.Objects().Get(ids[0])
	mesh := o.Drawable.(*render.LineMesh)
	assert.Equal(t, 24, mesh.VertexCount())
	assert.Equal(t, color.Hue(0), mesh.Colors[0])
	assert.Equal(t, pc.Bounds(), mesh.Bounds())

	f, err := e.Step(ctx, time.Millisecond)
	require.NoError(t, err)
	assert.Len(t, f.Debug, 7)

	shown, err = e.ToggleBoundingBoxes()
	require.NoError(t, err)
	assert.False(t, shown)
	assert.Empty(t, e.BoundingBoxEntities())
	assert.Equal(t, 2, e.Objects().Len())
	_, ok = e.Entities().Get("cloudBB0")
	assert.False(t, ok)

	assert.True(t, e.HandleKeyEvent(&entity.KeyEvent{Key: "B", Press: true}))
	assert.True(t, e.BoundingBoxesShown())
	require.NoError(t, e.Entities().Remove(ent))
	assert.Equal(t, 1, e.Objects().Len(), "boxes go away with their cloud")
	assert.True(t, e.HandleKeyEvent(&entity.KeyEvent{Key: "B", Press: true}))
	assert.False(t, e.BoundingBoxesShown())

	shown, err = e.ToggleBoundingBoxes()
	require.NoError(t, err)
	assert.False(t, shown, "the system display entity has no boxes")
}

func TestToggleBoundingBoxesShared(t *testing.T) {
	config := DefaultConfig()
	config.BoxDepth = 2
	config.MinCellSize = 8
	e := newTestEngine(t, &config)

	ent := e.Entities().Create("cloud", nil)
	for i, name := range []string{"cloud/a", "cloud/b"} {
		pc, err := geometry.Generate(geometry.Cube, 1000, uint64(i+1))
		require.NoError(t, err)
		_, err = e.Geometry().AddPointCloud(ent, name, pc)
		require.NoError(t, err)
	}

	shown, err := e.ToggleBoundingBoxes()
	require.NoError(t, err)
	require.True(t, shown)

	boxes := e.BoundingBoxEntities()
	require.Len(t, boxes, 6)
	var names []string
	for _, b := range boxes {
		names = append(names, b.Name())
		assert.Same(t, ent, b.Parent())
		dc, ok := b.Component(b.Name() + "/debug")
		require.True(t, ok, b.Name())
		assert.Len(t, dc.(*DebugComponent).Objects(), 1)
	}
	assert.ElementsMatch(t, []string{
		"cloudBB0", "cloudBB1", "cloudBB2",
		"cloudBB0_1", "cloudBB1_1", "cloudBB2_1",
	}, names)
	assert.Equal(t, 2+6, e.Objects().Len())

	shown, err = e.ToggleBoundingBoxes()
	require.NoError(t, err)
	assert.False(t, shown)
	assert.Empty(t, e.BoundingBoxEntities())
	assert.Equal(t, 2, e.Objects().Len())
	for _, name := range names {
		_, ok := e.Entities().Get(name)
		assert.False(t, ok, name)
	}
}

func TestPick(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	pc := geometry.NewPointCloud([]linear.V3{{0, 0, 0}, {0.5, 0, 0}, {0, 0, -1}})
	ent := e.Entities().Create("cloud", nil)
	c, err := e.Geometry().AddPointCloud(ent, "cloud/pc", pc)
	require.NoError(t, err)
	_, err = e.Step(ctx, time.Millisecond)
	require.NoError(t, err)

	res, ok := e.Pick(50, 50, 0, 0)
	require.True(t, ok)
	assert.Same(t, c, res.Component)
	assert.Equal(t, 0, res.Index, "the nearest point along the ray wins")
	assert.InDelta(t, 4, res.Distance, 1e-2)

	x, y, _ := e.Camera().Project(&linear.V3{0.5, 0, 0})
	res, ok = e.Pick(x, y, 0, 0)
	require.True(t, ok)
	assert.Equal(t, 1, res.Index)

	_, ok = e.Pick(2, 2, 0, 0)
	assert.False(t, ok)

	var m linear.M4
	m.Translate(1, 0, 0)
	ent.SetTransform(&m)
	_, err = e.Step(ctx, time.Millisecond)
	require.NoError(t, err)
	x, y, _ = e.Camera().Project(&linear.V3{1, 0, 0})
	res, ok = e.Pick(x, y, 0, 0)
	require.True(t, ok)
	assert.Equal(t, 0, res.Index)
	assert.InDelta(t, 1, res.Point[0], 1e-5)

	c.Object().Pickable = false
	_, ok = e.Pick(x, y, 0, 0)
	assert.False(t, ok)
}
