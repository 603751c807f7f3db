// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package entity

// Component is a piece of data or behavior attached to
// an Entity and managed by a System.
type Component interface {
	// Name returns the name of the component.
	// It is unique within its entity and within the
	// system that manages it.
	Name() string

	// Entity returns the entity that owns the component.
	Entity() *Entity

	// Initialize is called once, after the component is
	// attached to its entity and registered with its
	// system.
	Initialize() error

	// Destroy is called when the component's entity is
	// removed.
	Destroy()
}

// BaseComponent provides the bookkeeping of a Component.
// It is meant to be embedded.
type BaseComponent struct {
	name   string
	entity *Entity
}

// NewBaseComponent creates a BaseComponent.
func NewBaseComponent(name string, e *Entity) BaseComponent {
	return BaseComponent{name: name, entity: e}
}

// Name implements Component.
func (c *BaseComponent) Name() string { return c.name }

// Entity implements Component.
func (c *BaseComponent) Entity() *Entity { return c.entity }

// Initialize implements Component.
func (c *BaseComponent) Initialize() error { return nil }

// Destroy implements Component.
func (c *BaseComponent) Destroy() {}
