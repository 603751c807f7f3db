// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package entity

import (
	"time"
)

// FrameInfo describes the frame being processed.
type FrameInfo struct {
	// Frame number, starting at 0.
	Frame uint64
	// Time elapsed since the previous frame.
	Dt time.Duration
	// Time elapsed since the first frame.
	Elapsed time.Duration
}

// Mod is a set of keyboard modifiers.
type Mod uint8

// Keyboard modifiers.
const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	// Key name, e.g. "B" or "Escape".
	Key   string
	Press bool
	Mods  Mod
}

// MouseButton identifies a mouse button.
type MouseButton int

// Mouse buttons.
const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// MouseKind is the kind of a mouse event.
type MouseKind int

// Mouse event kinds.
const (
	MouseMove MouseKind = iota
	MousePress
	MouseRelease
	MouseWheel
)

// MouseEvent is a mouse event.
// X and Y are in window pixels, origin at the top left.
type MouseEvent struct {
	Kind   MouseKind
	Button MouseButton
	X, Y   float32
	Wheel  float32
	Mods   Mod
}
