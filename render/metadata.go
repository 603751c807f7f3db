// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package render

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed metadata/*.yaml
var metadataFS embed.FS

// ParamMeta describes a material parameter for editing
// interfaces.
type ParamMeta struct {
	// One of "scalar", "int", "bool" or "color".
	Type        string   `yaml:"type"`
	Description string   `yaml:"description"`
	Editable    bool     `yaml:"editable"`
	Minimum     *float64 `yaml:"minimum,omitempty"`
	Maximum     *float64 `yaml:"maximum,omitempty"`
}

// Metadata maps parameter names to their descriptions.
type Metadata map[string]ParamMeta

// LoadMetadata returns the parameter metadata of the
// material named materialName.
func LoadMetadata(materialName string) (Metadata, error) {
	name := "metadata/" + strings.ToLower(materialName) + ".yaml"
	b, err := metadataFS.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: metadata for material %q", ErrNotFound, materialName)
		}
		return nil, err
	}
	var md Metadata
	if err := yaml.Unmarshal(b, &md); err != nil {
		return nil, fmt.Errorf("%smetadata for material %q: %w", prefix, materialName, err)
	}
	return md, nil
}

// Validate checks that every parameter of p described by
// md has the described type and lies within the described
// range.
// Parameters that md does not describe are ignored.
func (md Metadata) Validate(p *Parameters) error {
	for _, name := range p.Names() {
		meta, ok := md[name]
		if !ok {
			continue
		}
		if k := p.kind(name); k != meta.Type {
			return newMatErr(fmt.Sprintf("parameter %q has type %s, want %s", name, k, meta.Type))
		}
		var x float64
		switch meta.Type {
		case "scalar":
			v, _ := p.Scalar(name)
			x = float64(v)
		case "int":
			v, _ := p.Int(name)
			x = float64(v)
		default:
			continue
		}
		if meta.Minimum != nil && x < *meta.Minimum {
			return newMatErr(fmt.Sprintf("parameter %q below minimum (%v < %v)", name, x, *meta.Minimum))
		}
		if meta.Maximum != nil && x > *meta.Maximum {
			return newMatErr(fmt.Sprintf("parameter %q above maximum (%v > %v)", name, x, *meta.Maximum))
		}
	}
	return nil
}
