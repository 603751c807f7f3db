// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package render

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// ShaderConfig describes a shader program by the paths of
// its stages and the preprocessor definitions it is built
// with.
// Geometry is optional.
type ShaderConfig struct {
	Name     string
	Vertex   string
	Fragment string
	Geometry string
	Defines  []string
}

// AddDefine adds a preprocessor definition to c.
// Duplicates are ignored.
func (c *ShaderConfig) AddDefine(def string) {
	if !slices.Contains(c.Defines, def) {
		c.Defines = append(c.Defines, def)
	}
}

// Equal reports whether c and d describe the same
// program.
func (c *ShaderConfig) Equal(d *ShaderConfig) bool {
	return c.Name == d.Name &&
		c.Vertex == d.Vertex &&
		c.Fragment == d.Fragment &&
		c.Geometry == d.Geometry &&
		slices.Equal(c.Defines, d.Defines)
}

// IsComplete reports whether c names at least a vertex and
// a fragment stage.
func (c *ShaderConfig) IsComplete() bool { return c.Vertex != "" && c.Fragment != "" }

// ShaderFactory stores shader configurations by name,
// together with the named strings (include files) that
// shader sources may refer to.
// It is safe for concurrent use.
type ShaderFactory struct {
	mu      sync.RWMutex
	configs map[string]ShaderConfig
	named   map[string]string
	logger  *slog.Logger
}

// NewShaderFactory creates an empty ShaderFactory.
func NewShaderFactory(logger *slog.Logger) *ShaderFactory {
	return &ShaderFactory{
		configs: make(map[string]ShaderConfig),
		named:   make(map[string]string),
		logger:  orDefault(logger),
	}
}

// Add registers cfg under cfg.Name.
// Adding a configuration equal to one already registered
// is a no-op. Adding a different configuration under an
// existing name fails with ErrExists.
func (f *ShaderFactory) Add(cfg ShaderConfig) error {
	if cfg.Name == "" {
		return newRenderErr("shader configuration has no name")
	}
	if !cfg.IsComplete() {
		return newRenderErr(fmt.Sprintf("shader configuration %q is incomplete", cfg.Name))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if old, ok := f.configs[cfg.Name]; ok {
		if old.Equal(&cfg) {
			return nil
		}
		return fmt.Errorf("%w: shader configuration %q", ErrExists, cfg.Name)
	}
	cfg.Defines = slices.Clone(cfg.Defines)
	f.configs[cfg.Name] = cfg
	f.logger.Debug("render: shader configuration added", "name", cfg.Name)
	return nil
}

// Get returns the configuration registered under name.
func (f *ShaderFactory) Get(name string) (ShaderConfig, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	cfg, ok := f.configs[name]
	if !ok {
		return ShaderConfig{}, fmt.Errorf("%w: shader configuration %q", ErrNotFound, name)
	}
	cfg.Defines = slices.Clone(cfg.Defines)
	return cfg, nil
}

// Remove removes the configuration registered under name.
// It returns false if there is none.
func (f *ShaderFactory) Remove(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.configs[name]; !ok {
		return false
	}
	delete(f.configs, name)
	return true
}

// Names returns the names of all configurations, sorted.
func (f *ShaderFactory) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Sorted(maps.Keys(f.configs))
}

// AddNamedString maps the include name (e.g.
// "/PointCloud.glsl") to the file at path.
// An existing mapping is replaced.
func (f *ShaderFactory) AddNamedString(name, path string) {
	f.mu.Lock()
	f.named[name] = path
	f.mu.Unlock()
}

// NamedString returns the path mapped to name.
func (f *ShaderFactory) NamedString(name string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	path, ok := f.named[name]
	return path, ok
}
