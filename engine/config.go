// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/pelletier/go-toml/v2"

	"github.com/gviegas/pointscene/kdtree"
	"github.com/gviegas/pointscene/render"
)

const (
	dflBoxDepth   = 6
	dflFOV        = 50
	dflZNear      = 1
	dflZFar       = 1000
	dflPickPixels = 4
)

// Config is used to configure the engine.
type Config struct {
	// Cells of the k-d tree containing at most this
	// many points become leaves.
	//
	// Default is kdtree.DefaultMinCellSize.
	MinCellSize int `toml:"min_cell_size"`

	// The maximum depth of the k-d tree.
	//
	// Default is kdtree.MaxDepth.
	MaxDepth int `toml:"max_depth"`

	// The number of k-d tree levels whose boxes are
	// shown by ToggleBoundingBoxes.
	//
	// Default is 6.
	BoxDepth int `toml:"box_depth"`

	// The number of goroutines used to run the tasks
	// of a frame. Zero means runtime.NumCPU().
	//
	// Default is 0.
	Workers int `toml:"workers"`

	// The root of the resource tree holding the
	// shader files.
	//
	// Default is "Resources".
	ResourceDir string `toml:"resource_dir"`

	// The maximum number of lights per frame.
	//
	// Default is render.MaxLight.
	MaxLight int `toml:"max_light"`

	// The vertical field of view of the camera,
	// in degrees.
	//
	// Default is 50.
	FOV float32 `toml:"fov"`

	// The distance from the camera to the near plane.
	//
	// Default is 1.
	ZNear float32 `toml:"z_near"`

	// The distance from the camera to the far plane.
	//
	// Default is 1000.
	ZFar float32 `toml:"z_far"`

	// The radius, in pixels, within which Pick
	// accepts a point.
	//
	// Default is 4.
	PickPixels float32 `toml:"pick_pixels"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MinCellSize: kdtree.DefaultMinCellSize,
		MaxDepth:    kdtree.MaxDepth,
		BoxDepth:    dflBoxDepth,
		Workers:     0,
		ResourceDir: "Resources",
		MaxLight:    render.MaxLight,
		FOV:         dflFOV,
		ZNear:       dflZNear,
		ZFar:        dflZFar,
		PickPixels:  dflPickPixels,
	}
}

// Validate checks that c is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.MinCellSize < 1 {
		errs = append(errs, fmt.Errorf("min_cell_size must be positive (have %d)", c.MinCellSize))
	}
	if c.MaxDepth < 1 || c.MaxDepth > kdtree.MaxDepth {
		errs = append(errs, fmt.Errorf("max_depth must be in [1, %d] (have %d)", kdtree.MaxDepth, c.MaxDepth))
	}
	if c.BoxDepth < 0 {
		errs = append(errs, fmt.Errorf("box_depth must not be negative (have %d)", c.BoxDepth))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative (have %d)", c.Workers))
	}
	if c.MaxLight < 1 {
		errs = append(errs, fmt.Errorf("max_light must be positive (have %d)", c.MaxLight))
	}
	if !(c.FOV > 0 && c.FOV < 180) {
		errs = append(errs, fmt.Errorf("fov must be in (0, 180) (have %g)", c.FOV))
	}
	if !(c.ZNear > 0 && c.ZFar > c.ZNear) {
		errs = append(errs, fmt.Errorf("z range must satisfy 0 < z_near < z_far (have %g, %g)", c.ZNear, c.ZFar))
	}
	if c.PickPixels < 0 {
		errs = append(errs, fmt.Errorf("pick_pixels must not be negative (have %g)", c.PickPixels))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfig, errors.Join(errs...))
	}
	return nil
}

// KdTreeConfig returns the k-d tree configuration
// described by c.
func (c *Config) KdTreeConfig(logger *slog.Logger) kdtree.Config {
	return kdtree.Config{
		MinCellSize: c.MinCellSize,
		MaxDepth:    c.MaxDepth,
		Logger:      logger,
	}
}

func (c *Config) fovRadians() float32 { return c.FOV * math32.Pi / 180 }

// LoadConfig decodes a TOML configuration from r.
// Keys that r omits keep their default values.
// Unknown keys are an error.
func LoadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&c); err != nil {
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfig, serr.String())
		}
		return Config{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

var cfg Config

// Configure replaces the configuration used by engines
// created with a nil Config.
func Configure(config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	cfg = *config
	return nil
}

func init() {
	config := DefaultConfig()
	Configure(&config)
}
