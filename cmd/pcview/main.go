// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Command pcview builds a synthetic point cloud scene and
// queries it: k-d tree boxes, nearest neighbors and
// picking through the camera.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gviegas/pointscene/engine"
	"github.com/gviegas/pointscene/geometry"
)

type options struct {
	configPath string
	shape      string
	count      int
	seed       uint64
	width      float32
	height     float32
	verbosity  int
	quiet      bool

	logger *slog.Logger
	config engine.Config
}

// LevelFromFlags returns the log level for the given
// verbosity flags, the most verbose taking precedence.
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "pcview",
		Short:         "Query a synthetic point cloud scene",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
	}
	f := root.PersistentFlags()
	f.StringVarP(&o.configPath, "config", "c", "", "TOML configuration file")
	f.StringVar(&o.shape, "shape", geometry.Cube.String(), "cloud shape (cube, sphere or plane)")
	f.IntVarP(&o.count, "count", "n", 10000, "number of points")
	f.Uint64Var(&o.seed, "seed", 1, "random seed")
	f.Float32Var(&o.width, "width", 800, "viewport width in pixels")
	f.Float32Var(&o.height, "height", 600, "viewport height in pixels")
	f.CountVarP(&o.verbosity, "verbose", "v", "log more (-vv for debug output)")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "log errors only")

	root.AddCommand(
		newInfoCmd(o),
		newBoxesCmd(o),
		newNearestCmd(o),
		newPickCmd(o),
	)
	return root
}

// setup configures logging and loads the configuration.
func (o *options) setup(cmd *cobra.Command) error {
	level := LevelFromFlags(o.verbosity > 1, o.verbosity == 1, o.quiet)
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	o.config = engine.DefaultConfig()
	if o.configPath != "" {
		file, err := os.Open(o.configPath)
		if err != nil {
			return err
		}
		defer file.Close()
		if o.config, err = engine.LoadConfig(file); err != nil {
			return fmt.Errorf("%s: %w", o.configPath, err)
		}
	}
	if o.count < 0 {
		return fmt.Errorf("invalid point count %d", o.count)
	}
	if o.width <= 0 || o.height <= 0 {
		return fmt.Errorf("invalid viewport %gx%g", o.width, o.height)
	}
	return nil
}

// scene creates an engine holding the synthetic cloud in
// an entity named "cloud", with the camera fit to it.
// One frame is stepped so that world transforms and the
// k-d tree are up to date.
func (o *options) scene(ctx context.Context) (*engine.Engine, *engine.PointCloudComponent, error) {
	shape, err := geometry.ParseShape(o.shape)
	if err != nil {
		return nil, nil, err
	}
	pc, err := geometry.Generate(shape, o.count, o.seed)
	if err != nil {
		return nil, nil, err
	}
	eng, err := engine.New(&o.config, o.logger)
	if err != nil {
		return nil, nil, err
	}
	if err := eng.Initialize(); err != nil {
		return nil, nil, err
	}
	ent := eng.Entities().Create("cloud", nil)
	comp, err := eng.Geometry().AddPointCloud(ent, "cloud/pc", pc)
	if err != nil {
		return nil, nil, err
	}
	eng.Resize(o.width, o.height)
	bounds := pc.Bounds()
	eng.Camera().FitBox(&bounds)
	if _, err := eng.Step(ctx, 0); err != nil {
		return nil, nil, err
	}
	o.logger.Info("pcview: scene ready", "shape", shape, "points", pc.Len(), "seed", o.seed)
	return eng, comp, nil
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "pcview:", err)
		os.Exit(1)
	}
}
