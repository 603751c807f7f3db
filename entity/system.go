// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package entity

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/gviegas/pointscene/task"
)

// System manages a kind of Component.
type System interface {
	// Initialize is called once, when the system is
	// registered with the engine.
	Initialize() error

	// GenerateTasks registers the work the system must
	// perform for the frame described by fi.
	GenerateTasks(q *task.Queue, fi *FrameInfo)

	// AddComponent registers c with the system.
	AddComponent(c Component) error

	// RemoveComponent unregisters the component named
	// name. It returns whether it was registered.
	RemoveComponent(name string) bool

	// HandleKeyEvent returns whether e was handled.
	HandleKeyEvent(e *KeyEvent) bool

	// HandleMouseEvent returns whether e was handled.
	HandleMouseEvent(e *MouseEvent) bool

	// AddComponentToEntity creates the system's component
	// for e, attaches it to e and registers it.
	AddComponentToEntity(e *Entity) (Component, error)

	// UnregisterEntity unregisters every component of e.
	UnregisterEntity(e *Entity)
}

// BaseSystem provides the component bookkeeping of a
// System. It is meant to be embedded; the embedding type
// implements Initialize, GenerateTasks and
// AddComponentToEntity.
type BaseSystem struct {
	components map[string]Component
}

// AddComponent implements System.
func (s *BaseSystem) AddComponent(c Component) error {
	if s.components == nil {
		s.components = make(map[string]Component)
	}
	if _, ok := s.components[c.Name()]; ok {
		return fmt.Errorf("%w: component %q", ErrExists, c.Name())
	}
	s.components[c.Name()] = c
	return nil
}

// RemoveComponent implements System.
func (s *BaseSystem) RemoveComponent(name string) bool {
	if _, ok := s.components[name]; !ok {
		return false
	}
	delete(s.components, name)
	return true
}

// RemoveComponentOf unregisters c if it is the component
// registered under its name.
func (s *BaseSystem) RemoveComponentOf(c Component) bool {
	if x, ok := s.components[c.Name()]; !ok || x != c {
		return false
	}
	delete(s.components, c.Name())
	return true
}

// Component returns the component registered as name.
func (s *BaseSystem) Component(name string) (Component, bool) {
	c, ok := s.components[name]
	return c, ok
}

// Components returns an iterator over the registered
// components, sorted by name.
func (s *BaseSystem) Components() iter.Seq[Component] {
	return func(yield func(Component) bool) {
		for _, k := range slices.Sorted(maps.Keys(s.components)) {
			if !yield(s.components[k]) {
				return
			}
		}
	}
}

// Len returns the number of registered components.
func (s *BaseSystem) Len() int { return len(s.components) }

// HandleKeyEvent implements System.
func (s *BaseSystem) HandleKeyEvent(*KeyEvent) bool { return false }

// HandleMouseEvent implements System.
func (s *BaseSystem) HandleMouseEvent(*MouseEvent) bool { return false }

// UnregisterEntity implements System.
func (s *BaseSystem) UnregisterEntity(e *Entity) {
	for k, c := range s.components {
		if c.Entity() == e {
			delete(s.components, k)
		}
	}
}
