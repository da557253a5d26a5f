// Package component defines the external contract every root component
// and surface-bound component implements (spec §6).
package component

import "github.com/Gurpartap/tape-tui/key"

// RenderCursor is returned by an optional Cursor implementation to report
// the hardware-cursor position in the component's own frame coordinates.
type RenderCursor struct {
	Row, Col int
}

// Component is the contract the runtime drives every tick. Render must
// be pure within a single tick: the compositor's measure pass may invoke
// it to derive an Auto-sized surface's dimensions, and a second
// invocation within the same tick must return identical output.
type Component interface {
	// Render produces the component's lines for the given width.
	Render(width int) []string

	// HandleEvent delivers a structured input event already routed to
	// this component by runtime arbitration.
	HandleEvent(ev key.InputEvent)
}

// ViewportSizer is implemented by components bound to a surface; the
// compositor calls SetViewportSize with the allocated dimensions before
// each Render.
type ViewportSizer interface {
	SetViewportSize(cols, rows int)
}

// CursorReporter is an optional Component extension reporting an
// explicit cursor position, taking precedence over any CURSOR_MARKER
// found in the rendered text.
type CursorReporter interface {
	CursorPos() (RenderCursor, bool)
}

// Invalidator is an optional Component extension letting a component
// mark its internal render cache dirty without waiting for the next
// natural state change.
type Invalidator interface {
	Invalidate()
}

// KeyReleaseWanter is an optional Component extension. Components that
// don't implement it are assumed not to want key-release events, per
// spec §4.7 ("filter events with event_type == Release unless the
// target's wants_key_release is true").
type KeyReleaseWanter interface {
	WantsKeyRelease() bool
}

// FocusAdapter is an optional Component extension letting a container
// component (e.g. a form) report and change an internally focused
// child without the runtime needing to know about its substructure.
type FocusAdapter interface {
	FocusedChild() (any, bool)
	SetFocusedChild(any)
}
