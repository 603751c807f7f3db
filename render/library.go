// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package render

import (
	"fmt"
	"log/slog"
	"path"

	"github.com/gviegas/pointscene/entity"
)

// Library bundles the registries through which materials
// make themselves available to the rest of the engine.
type Library struct {
	Shaders    *ShaderFactory
	Techniques *TechniqueRegistry
	Converters *ConverterRegistry

	resourceDir string
	logger      *slog.Logger
}

// NewLibrary creates an empty Library.
// Shader paths are resolved relative to resourceDir.
// If logger is nil, slog.Default() is used.
func NewLibrary(resourceDir string, logger *slog.Logger) *Library {
	logger = orDefault(logger)
	return &Library{
		Shaders:     NewShaderFactory(logger),
		Techniques:  NewTechniqueRegistry(),
		Converters:  NewConverterRegistry(),
		resourceDir: resourceDir,
		logger:      logger,
	}
}

// ResourceDir returns the resource root of l.
func (l *Library) ResourceDir() string { return l.resourceDir }

// ShaderPath returns the path of the shader file rel under
// the resource root.
func (l *Library) ShaderPath(rel string) string {
	return path.Join(l.resourceDir, "Shaders", rel)
}

// RegisterDefaults registers the built-in materials.
func (l *Library) RegisterDefaults() error {
	for _, reg := range [...]func(*Library) error{
		RegisterPlain,
		RegisterPointCloud,
	} {
		if err := reg(l); err != nil {
			return err
		}
	}
	return nil
}

// Convert creates a Material from d using the converter
// registered for d.Type.
func (l *Library) Convert(d *MaterialData) (Material, error) {
	fn, ok := l.Converters.Converter(d.Type)
	if !ok {
		return nil, fmt.Errorf("%w: converter for material %q", ErrNotFound, d.Type)
	}
	return fn(d)
}

// Technique builds the default technique of m.
func (l *Library) Technique(m Material) (*Technique, error) {
	if m == nil {
		return nil, newMatErr("nil Material")
	}
	return l.Techniques.Build(m.MaterialName(), m.IsTransparent())
}

// NewObject creates a render object whose technique is
// the default technique of m.
func (l *Library) NewObject(name string, owner entity.Component, typ ObjectType, d Drawable, m Material) (*Object, error) {
	t, err := l.Technique(m)
	if err != nil {
		return nil, err
	}
	o := NewObject(name, owner, typ, d, m)
	o.Technique = t
	return o, nil
}

// NewPrimitive creates a debug render object for mesh,
// with a per-vertex colored PlainMaterial.
func (l *Library) NewPrimitive(name string, owner entity.Component, mesh *LineMesh) (*Object, error) {
	m := NewPlainMaterial(name)
	m.SetColoredByVertexAttrib(true)
	o, err := l.NewObject(name, owner, Debug, mesh, m)
	if err != nil {
		return nil, err
	}
	o.Pickable = false
	return o, nil
}
