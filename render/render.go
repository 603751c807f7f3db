// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package render implements the rendering front end:
// shader configurations, render techniques, materials,
// render objects and draw list collection.
// GPU programs are not part of this package; a backend
// consumes the draw lists that Renderer.Collect produces.
package render

import (
	"errors"
	"log/slog"
)

const prefix = "render: "

func newRenderErr(reason string) error { return errors.New(prefix + reason) }

var (
	// ErrNotFound means that a named resource
	// (configuration, technique, converter or
	// render object) is not registered.
	ErrNotFound = newRenderErr("not found")

	// ErrExists means that a different resource
	// is already registered under the same name.
	ErrExists = newRenderErr("already exists")
)

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
