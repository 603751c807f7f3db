// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"fmt"

	"github.com/gviegas/pointscene/color"
	"github.com/gviegas/pointscene/entity"
	"github.com/gviegas/pointscene/render"
)

// BoundingBoxesShown reports whether the k-d tree boxes
// created by ToggleBoundingBoxes are in the scene.
func (e *Engine) BoundingBoxesShown() bool { return len(e.boxes) > 0 }

// BoundingBoxEntities returns the entities created by the
// last call to ToggleBoundingBoxes, in creation order.
func (e *Engine) BoundingBoxEntities() []*entity.Entity { return e.boxes }

// ToggleBoundingBoxes shows or hides the k-d tree boxes of
// every point cloud in the scene and returns whether they
// are now shown.
//
// Showing creates, for each point cloud component, one
// child entity of its entity per box returned by
// LevelBoxes(Config.BoxDepth), named "<entity>BB<i>" with
// i counting from zero for each component. The entity
// manager makes the names unique when an entity holds more
// than one cloud. Each box is drawn in a hue given by its
// depth. The system display entity is skipped.
//
// Hiding removes those entities.
func (e *Engine) ToggleBoundingBoxes() (bool, error) {
	if !e.init {
		return false, fmt.Errorf("%w: ToggleBoundingBoxes before Initialize", ErrState)
	}
	if len(e.boxes) > 0 {
		e.removeBoxes()
		return false, nil
	}
	limit := e.cfg.BoxDepth
	for _, pc := range e.geometry.PointClouds() {
		owner := pc.Entity()
		if owner == e.sysEnt || owner.Name() == SystemEntityName {
			continue
		}
		boxes := pc.Cloud().KdTree().LevelBoxes(limit)
		for i, lb := range boxes {
			// Create may suffix the name when another cloud
			// of owner already has a box i.
			ent := e.entities.Create(fmt.Sprintf("%sBB%d", owner.Name(), i), owner)
			name := ent.Name()
			e.boxes = append(e.boxes, ent)
			dc, err := e.geometry.AddDebug(ent, name+"/debug")
			if err != nil {
				e.removeBoxes()
				return false, err
			}
			c := color.Hue(float32(lb.Depth) / float32(limit))
			if _, err := dc.AddPrimitive(name, render.NewAABBMesh(&lb.Box, c)); err != nil {
				e.removeBoxes()
				return false, err
			}
		}
		e.logger.Debug("engine: bounding boxes shown", "entity", owner.Name(), "boxes", len(boxes))
	}
	return len(e.boxes) > 0, nil
}

func (e *Engine) removeBoxes() {
	for _, b := range e.boxes {
		// The owner may have been removed along with
		// its children.
		if err := e.entities.Remove(b); err != nil && !errors.Is(err, entity.ErrNotFound) {
			e.logger.Warn("engine: remove bounding box", "entity", b.Name(), "err", err)
		}
	}
	e.boxes = nil
}
