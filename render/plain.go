// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package render

import (
	"github.com/gviegas/pointscene/color"
)

// PlainName is the material name of PlainMaterial.
const PlainName = "Plain"

const (
	plainConfig  = "Plain"
	plainShaders = "Materials/Plain/"
)

// PlainMaterial is an unlit material, used mostly for
// debug primitives.
type PlainMaterial struct {
	BaseMaterial
	Color     color.Color
	perVertex bool
}

// NewPlainMaterial creates a white PlainMaterial.
func NewPlainMaterial(instanceName string) *PlainMaterial {
	return &PlainMaterial{
		BaseMaterial: NewBaseMaterial(instanceName, PlainName, Opaque),
		Color:        color.White,
	}
}

// IsTransparent implements Material.
func (m *PlainMaterial) IsTransparent() bool { return m.Color[3] < 1 }

// ColoredByVertexAttrib implements Material.
func (m *PlainMaterial) ColoredByVertexAttrib() bool { return m.perVertex }

// SetColoredByVertexAttrib implements Material.
func (m *PlainMaterial) SetColoredByVertexAttrib(state bool) {
	if m.perVertex != state {
		m.perVertex = state
		m.NeedUpdate()
	}
}

// Update implements Material.
func (m *PlainMaterial) Update() {
	if !m.clean() {
		return
	}
	p := m.Parameters()
	p.SetColor("material.color", m.Color)
	p.SetBool("material.perVertexColor", m.perVertex)
}

// UpdateFromParameters implements Material.
func (m *PlainMaterial) UpdateFromParameters() error {
	p := m.Parameters()
	if err := colorParam(p, "material.color", &m.Color); err != nil {
		return err
	}
	return boolParam(p, "material.perVertexColor", &m.perVertex)
}

// RegisterPlain registers the shader configuration,
// default technique and converter of PlainMaterial in lib.
func RegisterPlain(lib *Library) error {
	err := lib.Shaders.Add(ShaderConfig{
		Name:     plainConfig,
		Vertex:   lib.ShaderPath(plainShaders + "Plain.vert.glsl"),
		Fragment: lib.ShaderPath(plainShaders + "Plain.frag.glsl"),
	})
	if err != nil {
		return err
	}
	shaders := lib.Shaders
	lib.Techniques.RegisterDefault(PlainName, func(t *Technique, transparent bool) error {
		cfg, err := shaders.Get(plainConfig)
		if err != nil {
			return err
		}
		if transparent {
			t.SetConfiguration(cfg, LightingTransparent)
		} else {
			t.SetConfiguration(cfg, LightingOpaque)
		}
		// Plain objects may be drawn as UI overlays.
		t.SetConfiguration(cfg, UI)
		return nil
	})
	lib.Converters.Register(PlainName, func(d *MaterialData) (Material, error) {
		m := NewPlainMaterial(d.Name)
		if d.Diffuse != nil {
			m.Color = *d.Diffuse
		}
		if d.Opacity != nil {
			m.Color = m.Color.Alpha(*d.Opacity)
		}
		m.SetColoredByVertexAttrib(d.PerVertexColor)
		return m, nil
	})
	lib.logger.Debug("render: material registered", "material", PlainName)
	return nil
}

// UnregisterPlain removes the default technique and
// converter of PlainMaterial from lib.
func UnregisterPlain(lib *Library) {
	lib.Techniques.RemoveDefault(PlainName)
	lib.Converters.Remove(PlainName)
}
