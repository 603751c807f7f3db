// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package render

import (
	"fmt"
	"iter"
	"sync"
)

// Pass identifies a rendering pass.
type Pass int

// Rendering passes, in the order a frame executes them.
const (
	ZPrepass Pass = iota
	LightingOpaque
	LightingTransparent
	UI

	NumPass int = iota
)

func (p Pass) String() string {
	switch p {
	case ZPrepass:
		return "ZPrepass"
	case LightingOpaque:
		return "LightingOpaque"
	case LightingTransparent:
		return "LightingTransparent"
	case UI:
		return "UI"
	}
	return fmt.Sprintf("Pass(%d)", int(p))
}

// Technique associates a shader configuration with each
// pass in which an object is drawn.
// The zero value is an empty technique.
type Technique struct {
	configs [NumPass]ShaderConfig
	set     [NumPass]bool
}

// SetConfiguration sets the configuration used in pass.
func (t *Technique) SetConfiguration(cfg ShaderConfig, pass Pass) {
	t.configs[pass] = cfg
	t.set[pass] = true
}

// RemoveConfiguration clears the configuration of pass.
func (t *Technique) RemoveConfiguration(pass Pass) {
	t.configs[pass] = ShaderConfig{}
	t.set[pass] = false
}

// Configuration returns the configuration used in pass.
// ok is false if t is not drawn in pass.
func (t *Technique) Configuration(pass Pass) (cfg ShaderConfig, ok bool) {
	return t.configs[pass], t.set[pass]
}

// HasConfiguration reports whether t is drawn in pass.
func (t *Technique) HasConfiguration(pass Pass) bool { return t.set[pass] }

// Passes returns an iterator over the passes in which t
// is drawn, in execution order.
func (t *Technique) Passes() iter.Seq[Pass] {
	return func(yield func(Pass) bool) {
		for i := range NumPass {
			if t.set[i] && !yield(Pass(i)) {
				return
			}
		}
	}
}

// TechniqueBuilder fills in the configurations of a
// technique for a given material.
// transparent tells whether the material is transparent.
type TechniqueBuilder func(t *Technique, transparent bool) error

// TechniqueRegistry maps material names to the builder
// of their default technique.
// It is safe for concurrent use.
type TechniqueRegistry struct {
	mu       sync.RWMutex
	builders map[string]TechniqueBuilder
}

// NewTechniqueRegistry creates an empty TechniqueRegistry.
func NewTechniqueRegistry() *TechniqueRegistry {
	return &TechniqueRegistry{builders: make(map[string]TechniqueBuilder)}
}

// RegisterDefault registers b as the default technique
// builder of the material named name.
// It returns false if one is already registered.
func (r *TechniqueRegistry) RegisterDefault(name string, b TechniqueBuilder) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.builders[name]; ok {
		return false
	}
	r.builders[name] = b
	return true
}

// RemoveDefault removes the default technique builder of
// the material named name.
// It returns false if there is none.
func (r *TechniqueRegistry) RemoveDefault(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.builders[name]; !ok {
		return false
	}
	delete(r.builders, name)
	return true
}

// Default returns the default technique builder of the
// material named name.
func (r *TechniqueRegistry) Default(name string) (TechniqueBuilder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: default technique for material %q", ErrNotFound, name)
	}
	return b, nil
}

// Build creates a new technique using the default builder
// of the material named name.
func (r *TechniqueRegistry) Build(name string, transparent bool) (*Technique, error) {
	b, err := r.Default(name)
	if err != nil {
		return nil, err
	}
	t := new(Technique)
	if err := b(t, transparent); err != nil {
		return nil, err
	}
	return t, nil
}
