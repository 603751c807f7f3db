// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package render

import (
	"fmt"
	"maps"
	"slices"

	"github.com/gviegas/pointscene/color"
)

func newMatErr(reason string) error { return newRenderErr("material: " + reason) }

// Aspect tells whether a material may produce
// translucent fragments.
type Aspect int

// Material aspects.
const (
	Opaque Aspect = iota
	Transparent
)

// Material defines the properties applied to a render
// object's geometry during rendering.
type Material interface {
	// InstanceName is the name of this instance.
	InstanceName() string
	// MaterialName names the kind of material, which is
	// also the key of its default technique.
	MaterialName() string
	Aspect() Aspect
	IsTransparent() bool

	// Dirty reports whether the material's properties
	// changed since the last call to Update.
	Dirty() bool
	// NeedUpdate marks the material as dirty.
	NeedUpdate()
	// Update refreshes the parameters from the
	// material's properties if it is dirty.
	Update()
	// UpdateFromParameters sets the material's properties
	// from its parameters.
	UpdateFromParameters() error
	Parameters() *Parameters

	ColoredByVertexAttrib() bool
	SetColoredByVertexAttrib(bool)
}

// BaseMaterial implements the bookkeeping parts of
// Material. It is meant to be embedded.
type BaseMaterial struct {
	instance string
	material string
	aspect   Aspect
	dirty    bool
	params   Parameters
}

// NewBaseMaterial creates a dirty BaseMaterial.
func NewBaseMaterial(instanceName, materialName string, aspect Aspect) BaseMaterial {
	return BaseMaterial{
		instance: instanceName,
		material: materialName,
		aspect:   aspect,
		dirty:    true,
	}
}

// InstanceName implements Material.
func (m *BaseMaterial) InstanceName() string { return m.instance }

// MaterialName implements Material.
func (m *BaseMaterial) MaterialName() string { return m.material }

// Aspect implements Material.
func (m *BaseMaterial) Aspect() Aspect { return m.aspect }

// IsTransparent implements Material.
func (m *BaseMaterial) IsTransparent() bool { return m.aspect == Transparent }

// Dirty implements Material.
func (m *BaseMaterial) Dirty() bool { return m.dirty }

// NeedUpdate implements Material.
func (m *BaseMaterial) NeedUpdate() { m.dirty = true }

// Parameters implements Material.
func (m *BaseMaterial) Parameters() *Parameters { return &m.params }

// clean reports whether m was dirty and clears the flag.
func (m *BaseMaterial) clean() bool {
	d := m.dirty
	m.dirty = false
	return d
}

// Parameters is a named set of rendering parameters, as
// bound to shader uniforms.
// The zero value is an empty set.
type Parameters struct {
	vals map[string]any
}

func (p *Parameters) set(name string, v any) {
	if p.vals == nil {
		p.vals = make(map[string]any)
	}
	p.vals[name] = v
}

// SetScalar sets a float parameter.
func (p *Parameters) SetScalar(name string, v float32) { p.set(name, v) }

// SetInt sets an integer parameter.
func (p *Parameters) SetInt(name string, v int) { p.set(name, v) }

// SetBool sets a boolean parameter.
func (p *Parameters) SetBool(name string, v bool) { p.set(name, v) }

// SetColor sets a color parameter.
func (p *Parameters) SetColor(name string, v color.Color) { p.set(name, v) }

func get[T any](p *Parameters, name string) (v T, ok bool) {
	x, found := p.vals[name]
	if !found {
		return
	}
	v, ok = x.(T)
	return
}

// Scalar returns the float parameter name.
func (p *Parameters) Scalar(name string) (float32, bool) { return get[float32](p, name) }

// Int returns the integer parameter name.
func (p *Parameters) Int(name string) (int, bool) { return get[int](p, name) }

// Bool returns the boolean parameter name.
func (p *Parameters) Bool(name string) (bool, bool) { return get[bool](p, name) }

// Color returns the color parameter name.
func (p *Parameters) Color(name string) (color.Color, bool) { return get[color.Color](p, name) }

// Has reports whether a parameter named name exists.
func (p *Parameters) Has(name string) bool {
	_, ok := p.vals[name]
	return ok
}

// Remove removes the parameter name.
func (p *Parameters) Remove(name string) { delete(p.vals, name) }

// Len returns the number of parameters.
func (p *Parameters) Len() int { return len(p.vals) }

// Names returns the parameter names, sorted.
func (p *Parameters) Names() []string { return slices.Sorted(maps.Keys(p.vals)) }

// kind returns the metadata type name of the
// parameter name.
func (p *Parameters) kind(name string) string {
	switch p.vals[name].(type) {
	case float32:
		return "scalar"
	case int:
		return "int"
	case bool:
		return "bool"
	case color.Color:
		return "color"
	}
	return ""
}

// Scalar/Color/Bool accessors that fail loudly, used by
// UpdateFromParameters implementations.

func scalarParam(p *Parameters, name string, dst *float32) error {
	if !p.Has(name) {
		return nil
	}
	v, ok := p.Scalar(name)
	if !ok {
		return newMatErr(fmt.Sprintf("parameter %q is not a scalar", name))
	}
	*dst = v
	return nil
}

func colorParam(p *Parameters, name string, dst *color.Color) error {
	if !p.Has(name) {
		return nil
	}
	v, ok := p.Color(name)
	if !ok {
		return newMatErr(fmt.Sprintf("parameter %q is not a color", name))
	}
	*dst = v
	return nil
}

func boolParam(p *Parameters, name string, dst *bool) error {
	if !p.Has(name) {
		return nil
	}
	v, ok := p.Bool(name)
	if !ok {
		return newMatErr(fmt.Sprintf("parameter %q is not a bool", name))
	}
	*dst = v
	return nil
}
