// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package entity

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/btree"

	"github.com/gviegas/pointscene/internal/idmap"
	"github.com/gviegas/pointscene/linear"
	"github.com/gviegas/pointscene/node"
)

const btreeDegree = 8

// Manager owns the entities of a scene.
// Entity names are unique within a Manager.
type Manager struct {
	ids      idmap.Map[ID, *Entity]
	byName   *btree.BTreeG[*Entity]
	graph    node.Graph
	onRemove []func(*Entity)
	logger   *slog.Logger
}

// NewManager creates an empty manager.
// logger may be nil, in which case slog.Default() is used.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		byName: btree.NewG(btreeDegree, func(a, b *Entity) bool { return a.name < b.name }),
		logger: logger,
	}
	var w linear.M4
	w.I()
	m.graph.SetWorld(&w)
	return m
}

// Create creates a new entity as a child of parent (or as
// a root if parent is nil).
// If name is already in use, a "_N" suffix is appended,
// N being the smallest positive integer that makes the
// name unique.
func (m *Manager) Create(name string, parent *Entity) *Entity {
	unique := name
	for n := 1; m.has(unique); n++ {
		unique = name + "_" + strconv.Itoa(n)
	}
	e := &Entity{name: unique, mgr: m, changed: true}
	e.local.I()
	e.id = m.ids.Insert(e)
	pnode := node.Nil
	if parent != nil {
		pnode = parent.node
		e.parent = parent
	}
	e.node = m.graph.Insert(e, pnode)
	m.byName.ReplaceOrInsert(e)
	m.logger.Debug("entity: created", "name", unique, "id", e.id)
	return e
}

func (m *Manager) has(name string) bool {
	_, ok := m.byName.Get(&Entity{name: name})
	return ok
}

// Get returns the entity named name.
func (m *Manager) Get(name string) (*Entity, bool) {
	return m.byName.Get(&Entity{name: name})
}

// ByID returns the entity identified by id.
func (m *Manager) ByID(id ID) (*Entity, bool) {
	if !m.ids.Has(id) {
		return nil, false
	}
	return *m.ids.Get(id), true
}

// Len returns the number of entities.
func (m *Manager) Len() int { return m.ids.Len() }

// Entities returns all entities sorted by name.
func (m *Manager) Entities() []*Entity {
	es := make([]*Entity, 0, m.byName.Len())
	m.byName.Ascend(func(e *Entity) bool {
		es = append(es, e)
		return true
	})
	return es
}

// Children returns the immediate descendants of e.
func (m *Manager) Children(e *Entity) []*Entity {
	var es []*Entity
	for n := range m.graph.Children(e.node) {
		es = append(es, m.graph.Get(n).(*Entity))
	}
	return es
}

// OnRemove registers fn to be called for each entity
// that is removed, before its components are destroyed.
func (m *Manager) OnRemove(fn func(*Entity)) { m.onRemove = append(m.onRemove, fn) }

// Remove removes e and all of its descendants.
func (m *Manager) Remove(e *Entity) error {
	if x, ok := m.ByID(e.id); !ok || x != e {
		return fmt.Errorf("%w: %v", ErrNotFound, e)
	}
	m.removeRec(e)
	m.graph.Remove(e.node)
	return nil
}

func (m *Manager) removeRec(e *Entity) {
	for _, c := range m.Children(e) {
		m.removeRec(c)
	}
	for _, fn := range m.onRemove {
		fn(e)
	}
	for _, c := range e.components {
		c.Destroy()
	}
	m.byName.Delete(e)
	m.ids.Remove(e.id)
	m.logger.Debug("entity: removed", "name", e.name, "id", e.id)
}

// RemoveNamed removes the entity named name.
func (m *Manager) RemoveNamed(name string) error {
	e, ok := m.Get(name)
	if !ok {
		return fmt.Errorf("%w: entity %q", ErrNotFound, name)
	}
	return m.Remove(e)
}

// DeleteAll removes every entity.
func (m *Manager) DeleteAll() {
	for _, e := range m.Entities() {
		if e.parent != nil {
			continue
		}
		if err := m.Remove(e); err != nil {
			m.logger.Warn("entity: remove", "name", e.name, "err", err)
		}
	}
}

// Update recomputes world transforms.
func (m *Manager) Update() { m.graph.Update() }
