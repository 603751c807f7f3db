// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package render

import (
	"github.com/gviegas/pointscene/color"
)

// PointCloudName is the material name of
// PointCloudMaterial.
const PointCloudName = "PointCloud"

// Shader configuration names used by PointCloudMaterial.
const (
	pointCloudConfig   = "PointCloud"
	pointCloudZConfig  = "ZprepassPointCloud"
	pointCloudInclude  = "/PointCloud.glsl"
	pointCloudShaders  = "Materials/PointCloud/"
	pointCloudVertex   = pointCloudShaders + "PointCloud.vert.glsl"
	pointCloudFragment = pointCloudShaders + "PointCloud.frag.glsl"
	pointCloudZFrag    = pointCloudShaders + "PointCloudZPrepass.frag.glsl"
)

// PointCloudMaterial is a Blinn-Phong material for
// unconnected points.
type PointCloudMaterial struct {
	BaseMaterial
	Kd            color.Color
	Ks            color.Color
	Ns            float32
	Alpha         float32
	perVertex     bool
	RenderAsSplat bool
}

// NewPointCloudMaterial creates a PointCloudMaterial with
// default properties.
func NewPointCloudMaterial(instanceName string) *PointCloudMaterial {
	return &PointCloudMaterial{
		BaseMaterial: NewBaseMaterial(instanceName, PointCloudName, Opaque),
		Kd:           color.Color{0.7, 0.7, 0.7, 1},
		Ks:           color.Color{0.3, 0.3, 0.3, 1},
		Ns:           64,
		Alpha:        1,
	}
}

// IsTransparent implements Material.
func (m *PointCloudMaterial) IsTransparent() bool { return m.Alpha < 1 }

// ColoredByVertexAttrib implements Material.
func (m *PointCloudMaterial) ColoredByVertexAttrib() bool { return m.perVertex }

// SetColoredByVertexAttrib implements Material.
// m becomes dirty only if the state changes.
func (m *PointCloudMaterial) SetColoredByVertexAttrib(state bool) {
	old := m.perVertex
	m.perVertex = state
	if old != state {
		m.NeedUpdate()
	}
}

// Update implements Material.
func (m *PointCloudMaterial) Update() {
	if !m.clean() {
		return
	}
	p := m.Parameters()
	p.SetColor("material.kd", m.Kd)
	p.SetColor("material.ks", m.Ks)
	p.SetScalar("material.ns", m.Ns)
	p.SetScalar("material.alpha", min(m.Alpha, m.Kd[3]))
	p.SetBool("material.perVertexColor", m.perVertex)
	p.SetBool("material.renderAsSplat", m.RenderAsSplat)
}

// UpdateFromParameters implements Material.
func (m *PointCloudMaterial) UpdateFromParameters() error {
	p := m.Parameters()
	perVertex := m.perVertex
	for _, err := range [...]error{
		colorParam(p, "material.kd", &m.Kd),
		colorParam(p, "material.ks", &m.Ks),
		scalarParam(p, "material.ns", &m.Ns),
		scalarParam(p, "material.alpha", &m.Alpha),
		boolParam(p, "material.perVertexColor", &perVertex),
		boolParam(p, "material.renderAsSplat", &m.RenderAsSplat),
	} {
		if err != nil {
			return err
		}
	}
	m.perVertex = perVertex
	return nil
}

// RegisterPointCloud registers the shader configurations,
// default technique and converter of PointCloudMaterial
// in lib.
// It may be called more than once.
func RegisterPointCloud(lib *Library) error {
	lib.Shaders.AddNamedString(pointCloudInclude, lib.ShaderPath(pointCloudShaders+"PointCloud.glsl"))
	for _, cfg := range [...]ShaderConfig{
		{
			Name:     pointCloudConfig,
			Vertex:   lib.ShaderPath(pointCloudVertex),
			Fragment: lib.ShaderPath(pointCloudFragment),
		},
		{
			Name:     pointCloudZConfig,
			Vertex:   lib.ShaderPath(pointCloudVertex),
			Fragment: lib.ShaderPath(pointCloudZFrag),
		},
	} {
		if err := lib.Shaders.Add(cfg); err != nil {
			return err
		}
	}
	shaders := lib.Shaders
	lib.Techniques.RegisterDefault(PointCloudName, func(t *Technique, transparent bool) error {
		light, err := shaders.Get(pointCloudConfig)
		if err != nil {
			return err
		}
		if transparent {
			t.SetConfiguration(light, LightingTransparent)
			return nil
		}
		t.SetConfiguration(light, LightingOpaque)
		z, err := shaders.Get(pointCloudZConfig)
		if err != nil {
			return err
		}
		t.SetConfiguration(z, ZPrepass)
		return nil
	})
	lib.Converters.Register(PointCloudName, convertPointCloud)
	lib.logger.Debug("render: material registered", "material", PointCloudName)
	return nil
}

// UnregisterPointCloud removes the default technique and
// converter of PointCloudMaterial from lib.
// Shader configurations are kept, since other techniques
// may refer to them.
func UnregisterPointCloud(lib *Library) {
	lib.Techniques.RemoveDefault(PointCloudName)
	lib.Converters.Remove(PointCloudName)
}

func convertPointCloud(d *MaterialData) (Material, error) {
	m := NewPointCloudMaterial(d.Name)
	if d.Diffuse != nil {
		m.Kd = *d.Diffuse
	}
	if d.Specular != nil {
		m.Ks = *d.Specular
	}
	if d.Shininess > 0 {
		m.Ns = d.Shininess
	}
	if d.Opacity != nil {
		m.Alpha = *d.Opacity
	}
	m.SetColoredByVertexAttrib(d.PerVertexColor)
	return m, nil
}
