// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package render

import (
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/gviegas/pointscene/entity"
	"github.com/gviegas/pointscene/internal/idmap"
	"github.com/gviegas/pointscene/linear"
)

// Topology is the primitive topology of a Drawable.
type Topology int

// Primitive topologies.
const (
	Points Topology = iota
	Lines
	Triangles
)

// Drawable is the geometry of a render object.
type Drawable interface {
	Topology() Topology
	VertexCount() int
	// Bounds returns the bounding box in object space.
	Bounds() linear.AABB
}

// ObjectType classifies render objects.
type ObjectType int

// Render object types.
const (
	// Scene geometry.
	Geometry ObjectType = iota
	// Debug display (e.g. bounding boxes).
	Debug
	// Overlays.
	UIObject
)

// Object is something to be rendered.
// Its world transform is the owner entity's world
// transform composed with Local.
type Object struct {
	Name      string
	Type      ObjectType
	Owner     entity.Component
	Drawable  Drawable
	Material  Material
	Technique *Technique
	Local     linear.M4
	Visible   bool
	Pickable  bool
}

// NewObject creates a visible render object with an
// identity local transform and no technique.
// Only Geometry objects are pickable by default.
func NewObject(name string, owner entity.Component, typ ObjectType, d Drawable, m Material) *Object {
	o := &Object{
		Name:     name,
		Type:     typ,
		Owner:    owner,
		Drawable: d,
		Material: m,
		Visible:  true,
		Pickable: typ == Geometry,
	}
	o.Local.I()
	return o
}

// World returns the world transform of o.
func (o *Object) World() (m linear.M4) {
	if o.Owner == nil || o.Owner.Entity() == nil {
		return o.Local
	}
	m.Mul(o.Owner.Entity().World(), &o.Local)
	return
}

// Bounds returns the bounding box of o in world space.
func (o *Object) Bounds() linear.AABB {
	if o.Drawable == nil {
		return linear.EmptyAABB()
	}
	b := o.Drawable.Bounds()
	w := o.World()
	return b.Transform(&w)
}

// IsTransparent reports whether o is drawn in the
// transparent pass.
func (o *Object) IsTransparent() bool { return o.Material != nil && o.Material.IsTransparent() }

// ObjectID identifies an Object in an ObjectManager.
type ObjectID int

// ObjectManager stores render objects.
// It is safe for concurrent use.
type ObjectManager struct {
	mu     sync.RWMutex
	objs   idmap.Map[ObjectID, *Object]
	logger *slog.Logger
}

// NewObjectManager creates an empty ObjectManager.
func NewObjectManager(logger *slog.Logger) *ObjectManager {
	return &ObjectManager{logger: orDefault(logger)}
}

// Add inserts o into m.
// The returned ID is valid until o is removed.
func (m *ObjectManager) Add(o *Object) ObjectID {
	m.mu.Lock()
	id := m.objs.Insert(o)
	m.mu.Unlock()
	m.logger.Debug("render: object added", "id", id, "name", o.Name)
	return id
}

// Get returns the object identified by id.
func (m *ObjectManager) Get(id ObjectID) (*Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.objs.Has(id) {
		return nil, false
	}
	return *m.objs.Get(id), true
}

// Remove removes the object identified by id.
func (m *ObjectManager) Remove(id ObjectID) (*Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.objs.Has(id) {
		return nil, fmt.Errorf("%w: object %d", ErrNotFound, id)
	}
	return m.objs.Remove(id), nil
}

// RemoveOwnedBy removes every object whose owner is c.
// It returns the number of objects removed.
func (m *ObjectManager) RemoveOwnedBy(c entity.Component) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []ObjectID
	for id, o := range m.objs.All() {
		if (*o).Owner == c {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		m.objs.Remove(id)
	}
	return len(ids)
}

// OwnedBy returns the IDs of the objects whose owner is c.
func (m *ObjectManager) OwnedBy(c entity.Component) []ObjectID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []ObjectID
	for id, o := range m.objs.All() {
		if (*o).Owner == c {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns the number of objects in m.
func (m *ObjectManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objs.Len()
}

// All returns an iterator over a snapshot of the objects
// in m. The manager may be modified during iteration.
func (m *ObjectManager) All() iter.Seq2[ObjectID, *Object] {
	m.mu.RLock()
	ids := make([]ObjectID, 0, m.objs.Len())
	objs := make([]*Object, 0, m.objs.Len())
	for id, o := range m.objs.All() {
		ids = append(ids, id)
		objs = append(objs, *o)
	}
	m.mu.RUnlock()
	return func(yield func(ObjectID, *Object) bool) {
		for i := range ids {
			if !yield(ids[i], objs[i]) {
				return
			}
		}
	}
}

// Clear removes all objects.
func (m *ObjectManager) Clear() {
	m.mu.Lock()
	m.objs.Clear()
	m.mu.Unlock()
}
