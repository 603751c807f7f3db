// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package engine ties together the scene, its systems and
// the renderer.
package engine

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/gviegas/pointscene/camera"
	"github.com/gviegas/pointscene/entity"
	"github.com/gviegas/pointscene/render"
	"github.com/gviegas/pointscene/task"
)

const prefix = "engine: "

func newEngErr(reason string) error { return errors.New(prefix + reason) }

var (
	// ErrConfig means that a configuration is invalid.
	ErrConfig = newEngErr("invalid configuration")

	// ErrExists means that a system is already registered
	// under a given name.
	ErrExists = newEngErr("system already registered")

	// ErrNotFound means that a system or entity does not
	// exist.
	ErrNotFound = newEngErr("not found")

	// ErrState means that an operation is not valid in the
	// engine's current state.
	ErrState = newEngErr("invalid state")
)

// SystemEntityName is the name of the entity that holds
// engine-owned display components. It is never given
// bounding boxes.
const SystemEntityName = "System Display Entity"

// GeometrySystemName is the name under which the
// GeometrySystem is registered.
const GeometrySystemName = "GeometrySystem"

type sysEntry struct {
	name     string
	priority int
	sys      entity.System
}

// Engine owns a scene and produces render frames from it.
// It is not safe for concurrent use.
type Engine struct {
	cfg      Config
	logger   *slog.Logger
	entities *entity.Manager
	systems  []sysEntry
	lib      *render.Library
	objects  *render.ObjectManager
	renderer *render.Renderer
	camera   *camera.Camera
	queue    *task.Queue
	frame    entity.FrameInfo
	steps    uint64
	geometry *GeometrySystem
	sysEnt   *entity.Entity
	boxes    []*entity.Entity
	init     bool
}

// New creates a new engine.
// If config is nil, the configuration last given to
// Configure is used.
// logger may be nil, in which case slog.Default() is used.
func New(config *Config, logger *slog.Logger) (*Engine, error) {
	c := cfg
	if config != nil {
		if err := config.Validate(); err != nil {
			return nil, err
		}
		c = *config
	}
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		cfg:      c,
		logger:   logger,
		entities: entity.NewManager(logger),
		lib:      render.NewLibrary(c.ResourceDir, logger),
		objects:  render.NewObjectManager(logger),
		renderer: render.NewRenderer(c.MaxLight, logger),
		camera:   camera.New(),
		queue:    task.New(logger),
	}
	e.camera.SetFOV(c.fovRadians())
	e.camera.SetZRange(c.ZNear, c.ZFar)
	e.geometry = newGeometrySystem(e)
	return e, nil
}

// Initialize registers the default materials and the
// GeometrySystem, then initializes every registered
// system.
// It must be called once, before Step.
func (e *Engine) Initialize() error {
	if e.init {
		return fmt.Errorf("%w: Initialize called twice", ErrState)
	}
	if err := e.lib.RegisterDefaults(); err != nil {
		return err
	}
	if err := e.RegisterSystem(GeometrySystemName, e.geometry, 1000); err != nil {
		return err
	}
	for _, s := range e.systems {
		if err := s.sys.Initialize(); err != nil {
			return fmt.Errorf("%sinitialize system %q: %w", prefix, s.name, err)
		}
	}
	e.entities.OnRemove(func(x *entity.Entity) {
		for _, s := range e.systems {
			s.sys.UnregisterEntity(x)
		}
	})
	e.sysEnt = e.entities.Create(SystemEntityName, nil)
	e.init = true
	e.logger.Info("engine: initialized", "systems", len(e.systems))
	return nil
}

// RegisterSystem registers sys under name.
// Systems with higher priority generate their tasks and
// receive input events first.
// Systems registered after Initialize are initialized
// immediately.
func (e *Engine) RegisterSystem(name string, sys entity.System, priority int) error {
	if slices.ContainsFunc(e.systems, func(s sysEntry) bool { return s.name == name }) {
		return fmt.Errorf("%w: %q", ErrExists, name)
	}
	if e.init {
		if err := sys.Initialize(); err != nil {
			return fmt.Errorf("%sinitialize system %q: %w", prefix, name, err)
		}
	}
	e.systems = append(e.systems, sysEntry{name, priority, sys})
	slices.SortStableFunc(e.systems, func(a, b sysEntry) int {
		return cmp.Or(cmp.Compare(b.priority, a.priority), cmp.Compare(a.name, b.name))
	})
	e.logger.Debug("engine: system registered", "name", name, "priority", priority)
	return nil
}

// System returns the system registered under name.
func (e *Engine) System(name string) (entity.System, bool) {
	i := slices.IndexFunc(e.systems, func(s sysEntry) bool { return s.name == name })
	if i < 0 {
		return nil, false
	}
	return e.systems[i].sys, true
}

// SystemNames returns the names of the registered systems
// in priority order.
func (e *Engine) SystemNames() []string {
	s := make([]string, len(e.systems))
	for i := range e.systems {
		s[i] = e.systems[i].name
	}
	return s
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Entities returns the entity manager.
func (e *Engine) Entities() *entity.Manager { return e.entities }

// Library returns the material library.
func (e *Engine) Library() *render.Library { return e.lib }

// Objects returns the render object manager.
func (e *Engine) Objects() *render.ObjectManager { return e.objects }

// Renderer returns the renderer.
func (e *Engine) Renderer() *render.Renderer { return e.renderer }

// Camera returns the camera.
func (e *Engine) Camera() *camera.Camera { return e.camera }

// Geometry returns the GeometrySystem.
func (e *Engine) Geometry() *GeometrySystem { return e.geometry }

// FrameInfo returns the description of the last frame.
func (e *Engine) FrameInfo() entity.FrameInfo { return e.frame }

// Step advances the scene by dt and collects a frame.
// Every system registers its tasks, which then run on up
// to Config.Workers goroutines. World transforms are
// updated before the frame is collected.
func (e *Engine) Step(ctx context.Context, dt time.Duration) (*render.Frame, error) {
	if !e.init {
		return nil, fmt.Errorf("%w: Step before Initialize", ErrState)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.frame.Frame = e.steps
	e.steps++
	e.frame.Dt = dt
	e.frame.Elapsed += dt

	e.queue.Reset()
	for _, s := range e.systems {
		s.sys.GenerateTasks(e.queue, &e.frame)
	}
	start := time.Now()
	if err := e.queue.Run(ctx, e.cfg.Workers); err != nil {
		return nil, err
	}
	e.entities.Update()
	f := e.renderer.Collect(e.camera, e.objects, e.frame.Elapsed)
	e.logger.Debug("engine: step",
		"frame", e.frame.Frame,
		"tasks", e.queue.Len(),
		"took", time.Since(start))
	return f, nil
}

// HandleKeyEvent dispatches ev to the systems in priority
// order until one handles it.
// Pressing "B" toggles the bounding boxes when no system
// handles it.
func (e *Engine) HandleKeyEvent(ev *entity.KeyEvent) bool {
	for _, s := range e.systems {
		if s.sys.HandleKeyEvent(ev) {
			return true
		}
	}
	if ev.Key == "B" && ev.Press && ev.Mods == 0 {
		if _, err := e.ToggleBoundingBoxes(); err != nil {
			e.logger.Warn("engine: toggle bounding boxes", "err", err)
		}
		return true
	}
	return false
}

// HandleMouseEvent dispatches ev to the systems in
// priority order until one handles it.
func (e *Engine) HandleMouseEvent(ev *entity.MouseEvent) bool {
	for _, s := range e.systems {
		if s.sys.HandleMouseEvent(ev) {
			return true
		}
	}
	return false
}

// Shutdown removes every entity and render object.
// The engine must be initialized again before use.
func (e *Engine) Shutdown() {
	e.boxes = nil
	e.entities.DeleteAll()
	e.objects.Clear()
	e.renderer.ClearLights()
	e.systems = slices.DeleteFunc(e.systems, func(s sysEntry) bool { return s.sys == entity.System(e.geometry) })
	e.entities = entity.NewManager(e.logger)
	e.lib = render.NewLibrary(e.cfg.ResourceDir, e.logger)
	e.geometry = newGeometrySystem(e)
	e.sysEnt = nil
	e.frame = entity.FrameInfo{}
	e.steps = 0
	e.init = false
	e.logger.Info("engine: shut down")
}
