// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package entity implements the entity/component/system
// model of the scene.
package entity

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gviegas/pointscene/linear"
	"github.com/gviegas/pointscene/node"
)

const prefix = "entity: "

func newEntErr(reason string) error { return errors.New(prefix + reason) }

var (
	// ErrExists means that a name is already in use.
	ErrExists = newEntErr("name already in use")

	// ErrNotFound means that a named item does not exist.
	ErrNotFound = newEntErr("not found")
)

// ID identifies an Entity in a Manager.
type ID int

// Entity is a named object of the scene.
// It holds a local transform and a list of components,
// and has no behavior of its own.
type Entity struct {
	id         ID
	name       string
	local      linear.M4
	changed    bool
	node       node.Node
	parent     *Entity
	components []Component
	mgr        *Manager
}

// ID returns the identifier of e.
func (e *Entity) ID() ID { return e.id }

// Name returns the unique name of e.
func (e *Entity) Name() string { return e.name }

// Parent returns the parent entity of e, or nil.
func (e *Entity) Parent() *Entity { return e.parent }

// Local returns the local transform of e.
// It implements node.Interface.
func (e *Entity) Local() *linear.M4 { return &e.local }

// Changed implements node.Interface.
func (e *Entity) Changed() bool {
	c := e.changed
	e.changed = false
	return c
}

// SetTransform replaces the local transform of e.
func (e *Entity) SetTransform(m *linear.M4) {
	e.local = *m
	e.changed = true
}

// World returns the world transform of e as of the last
// call to Manager.Update.
func (e *Entity) World() *linear.M4 { return e.mgr.graph.World(e.node) }

// Components returns the components of e in the order
// they were added.
// It must not be modified.
func (e *Entity) Components() []Component { return e.components }

// Component returns the component of e named name.
func (e *Entity) Component(name string) (Component, bool) {
	for _, c := range e.components {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// AddComponent attaches c to e.
// Component names are unique within an entity.
func (e *Entity) AddComponent(c Component) error {
	if _, ok := e.Component(c.Name()); ok {
		return fmt.Errorf("%w: component %q of entity %q", ErrExists, c.Name(), e.name)
	}
	e.components = append(e.components, c)
	return nil
}

// RemoveComponent detaches the component named name
// from e and returns it.
func (e *Entity) RemoveComponent(name string) (Component, error) {
	i := slices.IndexFunc(e.components, func(c Component) bool { return c.Name() == name })
	if i < 0 {
		return nil, fmt.Errorf("%w: component %q of entity %q", ErrNotFound, name, e.name)
	}
	c := e.components[i]
	e.components = slices.Delete(e.components, i, i+1)
	return c, nil
}

func (e *Entity) String() string { return fmt.Sprintf("Entity(%d, %q)", e.id, e.name) }
