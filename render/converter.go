// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package render

import (
	"maps"
	"slices"
	"sync"

	"github.com/gviegas/pointscene/color"
)

// MaterialData is a material as described by an asset,
// before conversion to a Material.
// Nil fields take the material's defaults.
type MaterialData struct {
	// Name of the instance to create.
	Name string
	// Material name, which selects the converter.
	Type           string
	Diffuse        *color.Color
	Specular       *color.Color
	Shininess      float32
	Opacity        *float32
	PerVertexColor bool
}

// ConverterFunc converts asset material data into a
// Material.
type ConverterFunc func(*MaterialData) (Material, error)

// ConverterRegistry maps material names to converters.
// It is safe for concurrent use.
type ConverterRegistry struct {
	mu    sync.RWMutex
	funcs map[string]ConverterFunc
}

// NewConverterRegistry creates an empty ConverterRegistry.
func NewConverterRegistry() *ConverterRegistry {
	return &ConverterRegistry{funcs: make(map[string]ConverterFunc)}
}

// Register adds fn as the converter of name.
// It returns false if a converter with the same name
// exists.
func (r *ConverterRegistry) Register(name string, fn ConverterFunc) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.funcs[name]; ok {
		return false
	}
	r.funcs[name] = fn
	return true
}

// Remove removes the converter of name.
// It returns false if there is none.
func (r *ConverterRegistry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.funcs[name]; !ok {
		return false
	}
	delete(r.funcs, name)
	return true
}

// Converter returns the converter of name.
func (r *ConverterRegistry) Converter(name string) (fn ConverterFunc, ok bool) {
	r.mu.RLock()
	fn, ok = r.funcs[name]
	r.mu.RUnlock()
	return
}

// Names returns the names of all converters, sorted.
func (r *ConverterRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.funcs))
}
