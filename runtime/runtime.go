// Package runtime is the event-loop kernel: it owns the terminal backend,
// drives input through the key parser and arbitration chain, composites
// surfaces onto the active root, and drives the diff renderer, all under
// the Elm-style single-threaded ownership the teacher's tea.Program uses
// (tea/internal/application/program/program.go) — one goroutine owns
// every mutable field here; everything else reaches in through a Handle.
package runtime

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Gurpartap/tape-tui/component"
	"github.com/Gurpartap/tape-tui/crash"
	"github.com/Gurpartap/tape-tui/diag"
	"github.com/Gurpartap/tape-tui/input"
	"github.com/Gurpartap/tape-tui/key"
	"github.com/Gurpartap/tape-tui/registry"
	"github.com/Gurpartap/tape-tui/render"
	"github.com/Gurpartap/tape-tui/surface"
	"github.com/Gurpartap/tape-tui/termbackend"
	"github.com/Gurpartap/tape-tui/termcmd"
)

// State is the runtime's own lifecycle state, distinct from the terminal
// backend's raw-mode state.
type State int

const (
	StateInit State = iota
	StateRunning
	StateStopped
)

// DefaultIdleWindow is how long RunBlockingOnce waits for the next event
// before polling the input buffer's idle-flush deadline. It intentionally
// matches input.DefaultIdleTimeout so a bare byte sitting in the buffer
// never waits longer than the partial-sequence timeout to be delivered.
const DefaultIdleWindow = input.DefaultIdleTimeout

// maxDrainBatch bounds how many already-queued events a single tick will
// coalesce before forcing a render — a burst larger than this still
// renders promptly instead of starving the terminal update.
const maxDrainBatch = 256

// shutdownDrainMaxWait and shutdownDrainIdleWait bound Stop's best-effort
// read of whatever the terminal already buffered (a delayed capability
// or cursor-position response) before cooked mode is restored.
const (
	shutdownDrainMaxWait  = 100 * time.Millisecond
	shutdownDrainIdleWait = 10 * time.Millisecond
)

// ErrAlreadyStarted is returned by Start on a Runtime that isn't in
// StateInit.
var ErrAlreadyStarted = errors.New("runtime: already started")

// debugDumpKey is the key combo the runtime intercepts itself, ahead of
// component dispatch, when EnvConfig.Debug is set.
const debugDumpKey = "ctrl+d"

// Runtime drives one terminal session end to end. It is not safe for
// concurrent use — every exported method except those on Handle must be
// called from the same goroutine that called Start.
type Runtime struct {
	state State

	backend    termbackend.Backend
	gate       *termcmd.Gate
	renderer   *render.Renderer
	surfaces   *surface.Stack
	compositor *surface.Compositor
	components *registry.Registry

	env  EnvConfig
	sink diag.Sink

	handle *Handle

	inputBuf *input.Buffer
	inputCh  chan []byte
	resizeCh chan [2]int

	onCustom func(any)

	rootStack     []registry.ComponentID
	focused       registry.ComponentID
	previousFocus registry.ComponentID

	captureSurface *surface.ID

	termCols, termRows int
	lastContentRows    int

	crashGuard *crash.CrashCleanup

	renderRequested bool
	quitRequested   bool
}

// New builds a Runtime bound to backend. components must outlive the
// Runtime. sink may be nil, in which case diagnostics are discarded.
func New(backend termbackend.Backend, components *registry.Registry, env EnvConfig, sink diag.Sink) *Runtime {
	if sink == nil {
		sink = diag.NoopSink{}
	}
	gate, err := termcmd.New(env.WriteLogPath)
	if err != nil {
		sink.Report(diag.Event{
			Code:     diag.CodeTerminalIO,
			Severity: diag.SeverityWarning,
			Message:  "could not open write log, continuing without one",
			Context:  map[string]any{"error": err.Error()},
		})
		gate, _ = termcmd.New("")
	}

	renderer := render.NewRenderer()
	renderer.Sink = sink
	renderer.DebugRedraw = env.DebugRedraw

	rt := &Runtime{
		backend:    backend,
		gate:       gate,
		renderer:   renderer,
		surfaces:   surface.NewStack(),
		components: components,
		env:        env,
		sink:       sink,
		inputBuf:   input.NewBuffer(),
		inputCh:    make(chan []byte, 64),
		resizeCh:   make(chan [2]int, 1),
	}
	rt.compositor = surface.NewCompositor(rt.surfaces, components)
	rt.handle = newHandle(256, sink)
	return rt
}

// Handle returns the cross-goroutine handle for this Runtime.
func (rt *Runtime) Handle() *Handle { return rt.handle }

// Surfaces exposes the surface stack for callers that need to Add a
// surface before or during the run (Add itself isn't routed through
// Handle since it returns a fresh ID synchronously and surface creation
// is always driven by the same goroutine that owns the bound component).
func (rt *Runtime) Surfaces() *surface.Stack { return rt.surfaces }

// Components exposes the registry components are registered into.
func (rt *Runtime) Components() *registry.Registry { return rt.components }

// OnCustom registers the handler invoked for Handle.Custom payloads.
func (rt *Runtime) OnCustom(fn func(any)) { rt.onCustom = fn }

// SetRoot establishes the initial root component before Start.
func (rt *Runtime) SetRoot(id registry.ComponentID) {
	rt.rootStack = []registry.ComponentID{id}
}

// State reports the runtime's current lifecycle state.
func (rt *Runtime) State() State { return rt.state }

// Start enters raw mode, enables bracketed paste and the Kitty keyboard
// protocol, installs crash-safe teardown, and renders the first frame.
func (rt *Runtime) Start() error {
	if rt.state != StateInit {
		return ErrAlreadyStarted
	}

	if err := rt.backend.Start(rt.onInput, rt.onResize); err != nil {
		return fmt.Errorf("runtime: start backend: %w", err)
	}
	rt.termCols, rt.termRows = rt.backend.Columns(), rt.backend.Rows()

	// SIGWINCH forwarding is left nil here: termbackend.Unix already owns
	// its own SIGWINCH subscription and reports real post-resize
	// dimensions through onResize, which is strictly more useful than the
	// bare wake callback crash.Install can forward. The parameter stays
	// for a Backend that has no native resize notification of its own.
	rt.crashGuard = crash.Install(nil)

	rt.gate.PushAll([]termcmd.Cmd{
		termcmd.PasteOn(),
		termcmd.QueryKittySupport(),
		termcmd.EnableKitty(),
	})
	if err := rt.gate.Flush(rt.backend); err != nil {
		rt.reportIOErr(err, "flush startup sequence")
	}

	// SetKittyProtocolActive stays false until the terminal's reply to
	// QueryKittySupport arrives and is recognized in ingestBufferedEvent
	// — a terminal that doesn't support the protocol never answers, so
	// input keeps falling through to modifyOtherKeys/legacy decoding.

	rt.state = StateRunning
	rt.RenderNow()
	return nil
}

// Stop reverses Start, in the order spec §4.7 lays out: disable the
// Kitty protocol and bracketed paste and restore the cursor, pause
// input so nothing else competes for the fd, drain whatever the
// terminal already buffered while still in raw mode, then let the
// backend leave raw mode — mirroring the teacher's capture-then-restore
// discipline (tty_control_unix.go) applied to the kernel's own escape
// sequences rather than SIGTTOU disposition.
func (rt *Runtime) Stop() {
	if rt.state != StateRunning {
		return
	}
	rt.state = StateStopped

	rt.gate.PushAll([]termcmd.Cmd{
		termcmd.DisableKitty(),
		termcmd.PasteOff(),
		termcmd.ShowCursor(),
	})
	if err := rt.gate.Flush(rt.backend); err != nil {
		rt.reportIOErr(err, "flush teardown sequence")
	}

	if rt.crashGuard != nil {
		rt.crashGuard.Uninstall()
		rt.crashGuard = nil
	}

	if err := rt.backend.PauseInput(); err != nil {
		rt.reportIOErr(err, "pause input")
	}
	rt.backend.DrainInput(shutdownDrainMaxWait, shutdownDrainIdleWait)

	if err := rt.backend.Stop(); err != nil {
		rt.reportIOErr(err, "stop backend")
	}
	if err := rt.gate.Close(); err != nil {
		rt.reportIOErr(err, "close write log")
	}
}

// Run blocks until the runtime is asked to quit (via Handle.Quit or a
// component-triggered command), driving RunBlockingOnce on a loop.
func (rt *Runtime) Run() error {
	if err := rt.Start(); err != nil {
		return err
	}
	defer rt.Stop()
	for !rt.quitRequested {
		rt.RunBlockingOnce(DefaultIdleWindow)
	}
	return nil
}

// RunOnce drains whatever input, resize, and command events are already
// queued, without blocking, and renders once if anything changed. It
// returns whether any event was processed.
func (rt *Runtime) RunOnce() bool {
	processed := rt.drainPending()
	if ev := rt.inputBuf.Tick(); ev != nil {
		rt.ingestBufferedEvent(*ev)
		processed = true
	}
	rt.renderIfRequested()
	return processed
}

// RunBlockingOnce waits up to idle for the next event, then coalesces
// whatever else has queued up within one bounded drain window before
// issuing a single render pass — the "coalesced bounded-drain-window
// scheduling" the kernel uses instead of the teacher's render-per-message
// loop, so a burst of paste bytes or a storm of coalesced resizes costs
// one diff pass, not one per message.
func (rt *Runtime) RunBlockingOnce(idle time.Duration) {
	timer := time.NewTimer(idle)
	defer timer.Stop()

	gotSomething := false
	select {
	case data := <-rt.inputCh:
		rt.ingestInput(data)
		gotSomething = true
	case sz := <-rt.resizeCh:
		rt.ingestResize(sz)
		gotSomething = true
	case c := <-rt.handle.queue:
		rt.applyCommand(c)
		gotSomething = true
	case <-timer.C:
	}

	if rt.drainPending() {
		gotSomething = true
	}
	if ev := rt.inputBuf.Tick(); ev != nil {
		rt.ingestBufferedEvent(*ev)
		gotSomething = true
	}

	if gotSomething {
		rt.renderIfRequested()
	}
}

// RenderNow forces an unconditional render pass, used for the first
// frame and whenever a caller can't wait for the next natural tick.
func (rt *Runtime) RenderNow() {
	rt.renderRequested = true
	rt.doRender()
}

func (rt *Runtime) drainPending() bool {
	processed := false
	for i := 0; i < maxDrainBatch; i++ {
		select {
		case data := <-rt.inputCh:
			rt.ingestInput(data)
			processed = true
		case sz := <-rt.resizeCh:
			rt.ingestResize(sz)
			processed = true
		case c := <-rt.handle.queue:
			rt.applyCommand(c)
			processed = true
		default:
			return processed
		}
	}
	return processed
}

func (rt *Runtime) renderIfRequested() {
	if !rt.renderRequested {
		return
	}
	rt.doRender()
}

// onInput is called from the backend's reader goroutine; it only ever
// hands bytes to the event-loop goroutine through inputCh, preserving
// single-threaded ownership of every other field.
func (rt *Runtime) onInput(data []byte) {
	select {
	case rt.inputCh <- data:
	default:
		rt.sink.Report(diag.Event{
			Code:     diag.CodeTerminalIO,
			Severity: diag.SeverityWarning,
			Message:  "input channel full, dropping bytes",
		})
	}
}

// onResize is called from the backend's resize-watching goroutine. The
// channel's capacity of 1 plus this drain-and-replace dance coalesces a
// SIGWINCH burst (a window drag fires many in quick succession) down to
// the single latest size by the time the event loop observes it — the
// resize-debouncing supplement.
func (rt *Runtime) onResize(cols, rows int) {
	sz := [2]int{cols, rows}
	select {
	case rt.resizeCh <- sz:
		return
	default:
	}
	select {
	case <-rt.resizeCh:
	default:
	}
	select {
	case rt.resizeCh <- sz:
	default:
	}
}

func (rt *Runtime) ingestInput(data []byte) {
	for _, ev := range rt.inputBuf.Feed(data) {
		rt.ingestBufferedEvent(ev)
	}
}

func (rt *Runtime) ingestBufferedEvent(ev input.Event) {
	switch ev.Kind {
	case input.EventData:
		data := ev.Data
		if remaining, found := key.ExtractKittyQuerySupport(data); found {
			rt.backend.SetKittyProtocolActive(true)
			data = remaining
		}
		for _, kev := range key.ParseAll(data, rt.backend.KittyProtocolActive()) {
			rt.dispatch(kev)
		}
	case input.EventPaste:
		rt.dispatch(key.InputEvent{Kind: key.EventPaste, Paste: ev.Text})
	}
}

// ingestResize implements spec §4.7 step 1 in full: update terminal
// dimensions, recompute the inline viewport clamp, mark the renderer for
// full redraw, route the event to components, and request a render.
func (rt *Runtime) ingestResize(sz [2]int) {
	rt.termCols, rt.termRows = sz[0], sz[1]
	rt.renderer.ClampViewport(rt.lastContentRows, rt.termRows)
	rt.renderer.ForceFullRedraw()
	rt.dispatch(key.InputEvent{Kind: key.EventResize, Cols: rt.termCols, Rows: rt.termRows})
	rt.renderRequested = true
}

// dispatch routes a single structured key/paste event through the
// arbitration chain of spec §4.7: capture surface, previous focus,
// focused component, root — in that order, first match wins.
func (rt *Runtime) dispatch(ev key.InputEvent) {
	target := rt.resolveTarget()
	if target == nil {
		return
	}
	if ev.IsKeyRelease() && !wantsKeyRelease(target) {
		return
	}
	if rt.env.Debug && ev.Kind == key.EventKey && key.MatchesKey(ev, debugDumpKey) {
		rt.dumpDebugState()
		return
	}
	target.HandleEvent(ev)
	rt.renderRequested = true
}

func wantsKeyRelease(c component.Component) bool {
	w, ok := c.(component.KeyReleaseWanter)
	return ok && w.WantsKeyRelease()
}

func (rt *Runtime) resolveTarget() component.Component {
	if id, ok := rt.captureSurfaceTarget(); ok {
		if c, ok := rt.lookupComponent(id); ok {
			return c
		}
	}
	if !rt.previousFocus.IsZero() {
		if c, ok := rt.lookupComponent(rt.previousFocus); ok {
			return c
		}
	}
	if !rt.focused.IsZero() {
		if c, ok := rt.lookupComponent(rt.focused); ok {
			return c
		}
	}
	if len(rt.rootStack) > 0 {
		if c, ok := rt.lookupComponent(rt.rootStack[len(rt.rootStack)-1]); ok {
			return c
		}
	}
	return nil
}

// captureSurfaceTarget returns the topmost visible surface with
// InputPolicy == Capture, if any.
func (rt *Runtime) captureSurfaceTarget() (registry.ComponentID, bool) {
	visible := rt.surfaces.Visible()
	for i := len(visible) - 1; i >= 0; i-- {
		if visible[i].Options.InputPolicy == surface.Capture {
			return visible[i].Component, true
		}
	}
	return registry.ComponentID{}, false
}

func (rt *Runtime) lookupComponent(id registry.ComponentID) (component.Component, bool) {
	raw, ok := rt.components.Get(id)
	if !ok {
		return nil, false
	}
	c, ok := raw.(component.Component)
	if !ok {
		rt.sink.Report(diag.Event{
			Code:     diag.CodeInvalidComponent,
			Severity: diag.SeverityError,
			Message:  "registered value does not implement component.Component",
			Context:  map[string]any{"id": id.String()},
		})
		return nil, false
	}
	return c, true
}

func (rt *Runtime) dumpDebugState() {
	rt.sink.Report(diag.Event{
		Code:     diag.CodeTerminalIO,
		Severity: diag.SeverityInfo,
		Message:  "debug state dump",
		Context: map[string]any{
			"cols":             rt.termCols,
			"rows":             rt.termRows,
			"contentRows":      rt.lastContentRows,
			"surfaces":         len(rt.surfaces.Ordered()),
			"kittyActive":      rt.backend.KittyProtocolActive(),
			"viewportTop":      rt.renderer.State().PreviousViewportTop,
			"maxLinesRendered": rt.renderer.State().MaxLinesRendered,
		},
	})
}

func (rt *Runtime) currentRoot() (registry.ComponentID, bool) {
	if len(rt.rootStack) == 0 {
		return registry.ComponentID{}, false
	}
	return rt.rootStack[len(rt.rootStack)-1], true
}

func (rt *Runtime) doRender() {
	rootID, ok := rt.currentRoot()
	if !ok {
		rt.renderRequested = false
		return
	}
	comp, ok := rt.lookupComponent(rootID)
	if !ok {
		rt.renderRequested = false
		return
	}

	cols, rows := rt.termCols, rt.termRows
	lines := comp.Render(cols)
	cursor := resolveCursor(comp, lines)

	composed := rt.compositor.Composite(lines, cols, rows, rt.renderer.State().MaxLinesRendered)
	for i, l := range composed {
		composed[i] = strings.ReplaceAll(l, render.CursorMarker, "")
	}

	shrink := rt.renderer.State().HasRendered && len(composed) < rt.lastContentRows
	rt.lastContentRows = len(composed)

	cmds := rt.renderer.Render(render.Input{
		Lines:         composed,
		Width:         cols,
		Rows:          rows,
		Cursor:        cursor,
		Shrink:        shrink,
		HasSurfaces:   len(rt.surfaces.Visible()) > 0,
		ClearOnShrink: rt.env.ClearOnShrink,
	})

	rt.gate.PushAll(cmds)
	if err := rt.gate.Flush(rt.backend); err != nil {
		rt.reportIOErr(err, "flush render")
	}
	rt.renderRequested = false
}

// resolveCursor strips any CURSOR_MARKER found in lines (mutating them in
// place) and returns its position, unless comp implements CursorReporter
// and reports an explicit position, which always takes precedence (spec
// §3, §4.7).
func resolveCursor(comp component.Component, lines []string) *render.CursorPos {
	var markerPos *render.CursorPos
	for i, l := range lines {
		stripped, col, found := render.StripCursorMarker(l)
		if found {
			lines[i] = stripped
			markerPos = &render.CursorPos{Row: i, Col: col}
		}
	}
	if cr, ok := comp.(component.CursorReporter); ok {
		if pos, present := cr.CursorPos(); present {
			return &render.CursorPos{Row: pos.Row, Col: pos.Col}
		}
	}
	return markerPos
}

func (rt *Runtime) reportIOErr(err error, action string) {
	rt.sink.Report(diag.Event{
		Code:     diag.CodeTerminalIO,
		Severity: diag.SeverityError,
		Message:  action,
		Context:  map[string]any{"error": err.Error()},
	})
}
