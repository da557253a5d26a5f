package runtime

import (
	"github.com/Gurpartap/tape-tui/diag"
	"github.com/Gurpartap/tape-tui/registry"
	"github.com/Gurpartap/tape-tui/surface"
)

// commandKind tags the variant carried by a command.
type commandKind int

const (
	cmdRequestRender commandKind = iota
	cmdSetTitle
	cmdShowSurface
	cmdHideSurface
	cmdCloseSurface
	cmdUpdateSurfaceOptions
	cmdSurfaceSetZ
	cmdSurfaceRaise
	cmdSurfaceLower
	cmdSurfaceBringToFront
	cmdSurfaceSendToBack
	cmdSurfaceTransaction
	cmdRootSet
	cmdRootPush
	cmdRootPop
	cmdFocusSet
	cmdQuit
	cmdCustom
)

// command is a single unit of work posted to a Handle's queue. Every
// field not used by Kind is left zero.
type command struct {
	kind        commandKind
	surfaceID   surface.ID
	options     surface.Options
	z           uint32
	transaction *surface.Transaction
	componentID registry.ComponentID
	title       string
	custom      any
}

// Handle is the cross-goroutine interface to a running Runtime. A
// component's HandleEvent only ever sees the Runtime from inside its own
// event-loop goroutine; anything wanting to affect the runtime from
// elsewhere (an async fetch's completion callback, a signal, another
// goroutine entirely) posts a command through a Handle instead of
// touching Runtime state directly.
type Handle struct {
	queue chan command
	sink  diag.Sink
}

func newHandle(capacity int, sink diag.Sink) *Handle {
	return &Handle{queue: make(chan command, capacity), sink: sink}
}

func (h *Handle) push(c command) {
	select {
	case h.queue <- c:
	default:
		if h.sink != nil {
			h.sink.Report(diag.Event{
				Code:     diag.CodeTerminalIO,
				Severity: diag.SeverityWarning,
				Message:  "runtime command queue full, dropping command",
			})
		}
	}
}

// RequestRender marks the next event-loop tick as needing a render pass
// even if nothing else changed.
func (h *Handle) RequestRender() { h.push(command{kind: cmdRequestRender}) }

// SetTitle queues the terminal title escape sequence.
func (h *Handle) SetTitle(title string) { h.push(command{kind: cmdSetTitle, title: title}) }

// ShowSurface un-hides a surface without changing its z-order.
func (h *Handle) ShowSurface(id surface.ID) { h.push(command{kind: cmdShowSurface, surfaceID: id}) }

// HideSurface hides a surface without discarding its binding.
func (h *Handle) HideSurface(id surface.ID) { h.push(command{kind: cmdHideSurface, surfaceID: id}) }

// CloseSurface removes a surface entirely.
func (h *Handle) CloseSurface(id surface.ID) { h.push(command{kind: cmdCloseSurface, surfaceID: id}) }

// UpdateSurfaceOptions replaces a surface's layout options.
func (h *Handle) UpdateSurfaceOptions(id surface.ID, opts surface.Options) {
	h.push(command{kind: cmdUpdateSurfaceOptions, surfaceID: id, options: opts})
}

// SetSurfaceZ assigns a surface an explicit z value.
func (h *Handle) SetSurfaceZ(id surface.ID, z uint32) {
	h.push(command{kind: cmdSurfaceSetZ, surfaceID: id, z: z})
}

// RaiseSurface swaps a surface with its next-higher visible neighbor.
func (h *Handle) RaiseSurface(id surface.ID) { h.push(command{kind: cmdSurfaceRaise, surfaceID: id}) }

// LowerSurface swaps a surface with its next-lower visible neighbor.
func (h *Handle) LowerSurface(id surface.ID) { h.push(command{kind: cmdSurfaceLower, surfaceID: id}) }

// BringSurfaceToFront assigns a surface the highest z in the stack.
func (h *Handle) BringSurfaceToFront(id surface.ID) {
	h.push(command{kind: cmdSurfaceBringToFront, surfaceID: id})
}

// SendSurfaceToBack assigns a surface the lowest z in the stack.
func (h *Handle) SendSurfaceToBack(id surface.ID) {
	h.push(command{kind: cmdSurfaceSendToBack, surfaceID: id})
}

// ApplySurfaceTransaction applies a batch of surface mutations atomically
// within one event-loop tick.
func (h *Handle) ApplySurfaceTransaction(t *surface.Transaction) {
	h.push(command{kind: cmdSurfaceTransaction, transaction: t})
}

// RootSet replaces the entire root stack with a single component.
func (h *Handle) RootSet(id registry.ComponentID) { h.push(command{kind: cmdRootSet, componentID: id}) }

// RootPush pushes a new component onto the root stack, making it the
// active root until popped.
func (h *Handle) RootPush(id registry.ComponentID) {
	h.push(command{kind: cmdRootPush, componentID: id})
}

// RootPop pops the active root, restoring whatever was pushed before it.
// A no-op once only one root remains.
func (h *Handle) RootPop() { h.push(command{kind: cmdRootPop}) }

// FocusSet changes which component receives keyboard input ahead of the
// root, remembering the previous focus for arbitration's
// previous-focus step.
func (h *Handle) FocusSet(id registry.ComponentID) { h.push(command{kind: cmdFocusSet, componentID: id}) }

// Quit requests that the runtime's Run loop exit after the current tick.
func (h *Handle) Quit() { h.push(command{kind: cmdQuit}) }

// Custom delivers an arbitrary payload to the runtime's registered custom
// command handler, for application-defined commands the kernel doesn't
// know about.
func (h *Handle) Custom(payload any) { h.push(command{kind: cmdCustom, custom: payload}) }
