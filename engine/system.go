// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"context"
	"fmt"

	"github.com/gviegas/pointscene/entity"
	"github.com/gviegas/pointscene/geometry"
	"github.com/gviegas/pointscene/task"
)

// GeometrySystem manages the point cloud and debug
// components of the scene.
type GeometrySystem struct {
	entity.BaseSystem
	eng *Engine
}

func newGeometrySystem(e *Engine) *GeometrySystem { return &GeometrySystem{eng: e} }

// Initialize implements entity.System.
func (s *GeometrySystem) Initialize() error { return nil }

// GenerateTasks registers one task per point cloud
// component. Each task builds the component's k-d tree if
// needed and keeps its material in sync with the cloud.
func (s *GeometrySystem) GenerateTasks(q *task.Queue, fi *entity.FrameInfo) {
	for c := range s.Components() {
		pc, ok := c.(*PointCloudComponent)
		if !ok {
			continue
		}
		q.Register(GeometrySystemName+"/"+pc.Name(), func(context.Context) error {
			return pc.update()
		})
	}
}

// AddComponentToEntity implements entity.System.
// It creates an empty point cloud component named
// "<entity>/cloud".
func (s *GeometrySystem) AddComponentToEntity(e *entity.Entity) (entity.Component, error) {
	return s.AddPointCloud(e, e.Name()+"/cloud", geometry.NewPointCloud(nil))
}

// AddPointCloud creates a component named name that
// renders pc, attaches it to e and registers it.
// The k-d tree of pc is configured from the engine's
// configuration.
func (s *GeometrySystem) AddPointCloud(e *entity.Entity, name string, pc *geometry.PointCloud) (*PointCloudComponent, error) {
	kcfg := s.eng.cfg.KdTreeConfig(s.eng.logger)
	pc.SetKdTreeConfig(&kcfg)
	c := &PointCloudComponent{
		BaseComponent: entity.NewBaseComponent(name, e),
		sys:           s,
		cloud:         pc,
	}
	if err := s.attach(e, c); err != nil {
		return nil, err
	}
	s.eng.logger.Debug("engine: point cloud added", "entity", e.Name(), "component", name, "points", pc.Len())
	return c, nil
}

// AddDebug creates an empty debug component named name,
// attaches it to e and registers it.
func (s *GeometrySystem) AddDebug(e *entity.Entity, name string) (*DebugComponent, error) {
	c := &DebugComponent{
		BaseComponent: entity.NewBaseComponent(name, e),
		sys:           s,
	}
	if err := s.attach(e, c); err != nil {
		return nil, err
	}
	return c, nil
}

// attach adds c to e and to s, then initializes it.
// Nothing is left attached on failure.
func (s *GeometrySystem) attach(e *entity.Entity, c entity.Component) error {
	if err := e.AddComponent(c); err != nil {
		return err
	}
	if err := s.AddComponent(c); err != nil {
		e.RemoveComponent(c.Name())
		return err
	}
	if err := c.Initialize(); err != nil {
		s.RemoveComponentOf(c)
		e.RemoveComponent(c.Name())
		c.Destroy()
		return fmt.Errorf("%sinitialize component %q: %w", prefix, c.Name(), err)
	}
	return nil
}

// PointClouds returns the point cloud components sorted
// by name.
func (s *GeometrySystem) PointClouds() []*PointCloudComponent {
	var pcs []*PointCloudComponent
	for c := range s.Components() {
		if pc, ok := c.(*PointCloudComponent); ok {
			pcs = append(pcs, pc)
		}
	}
	return pcs
}
