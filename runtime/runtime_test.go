package runtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gurpartap/tape-tui/diag"
	"github.com/Gurpartap/tape-tui/key"
	"github.com/Gurpartap/tape-tui/registry"
	"github.com/Gurpartap/tape-tui/termbackend"
)

// stubComponent is a minimal component.Component for tests.
type stubComponent struct {
	lines    []string
	events   []key.InputEvent
	wantsRel bool
}

func (s *stubComponent) Render(width int) []string { return s.lines }
func (s *stubComponent) HandleEvent(ev key.InputEvent) {
	s.events = append(s.events, ev)
}
func (s *stubComponent) WantsKeyRelease() bool { return s.wantsRel }

func newTestRuntime(t *testing.T) (*Runtime, *termbackend.Fake, *stubComponent, registry.ComponentID) {
	t.Helper()
	fake := termbackend.NewFake()
	reg := registry.New()
	comp := &stubComponent{lines: []string{"hello"}}
	id := reg.Register(comp)

	rt := New(fake, reg, EnvConfig{ClearOnShrink: true}, &diag.CollectingSink{})
	rt.SetRoot(id)
	require.NoError(t, rt.Start())
	t.Cleanup(rt.Stop)
	return rt, fake, comp, id
}

func TestStartRendersFirstFrame(t *testing.T) {
	_, fake, _, _ := newTestRuntime(t)
	assert.Contains(t, string(fake.Output()), "hello")
}

func TestStartEnablesPasteAndKitty(t *testing.T) {
	_, fake, _, _ := newTestRuntime(t)
	out := string(fake.Output())
	assert.Contains(t, out, "\x1b[?2004h")
	assert.Contains(t, out, "\x1b[?u")
	assert.Contains(t, out, "\x1b[>7u")
}

func TestKittyQuerySupportResponseActivatesProtocol(t *testing.T) {
	rt, fake, _, _ := newTestRuntime(t)
	assert.False(t, fake.KittyProtocolActive())

	fake.Feed([]byte("\x1b[?1u"))
	rt.RunOnce()

	assert.True(t, fake.KittyProtocolActive())
}

func TestKittyQuerySupportResponseNotDispatchedAsKey(t *testing.T) {
	rt, fake, comp, _ := newTestRuntime(t)
	fake.Feed([]byte("\x1b[?1u"))
	rt.RunOnce()

	assert.Empty(t, comp.events)
}

func TestStopDrainsInput(t *testing.T) {
	fake := termbackend.NewFake()
	reg := registry.New()
	comp := &stubComponent{lines: []string{"x"}}
	id := reg.Register(comp)

	rt := New(fake, reg, EnvConfig{}, diag.NoopSink{})
	rt.SetRoot(id)
	require.NoError(t, rt.Start())

	rt.Stop()
	assert.Equal(t, 1, fake.DrainCalls())
}

func TestInputReachesRootComponentByDefault(t *testing.T) {
	rt, fake, comp, _ := newTestRuntime(t)
	fake.Feed([]byte("a"))
	rt.RunOnce()
	require.Len(t, comp.events, 1)
	assert.Equal(t, "a", comp.events[0].KeyID)
}

func TestFocusSetRoutesAheadOfRoot(t *testing.T) {
	rt, fake, rootComp, _ := newTestRuntime(t)
	focusComp := &stubComponent{lines: []string{"focused"}}
	focusID := rt.Components().Register(focusComp)

	rt.Handle().FocusSet(focusID)
	rt.RunOnce()

	fake.Feed([]byte("x"))
	rt.RunOnce()

	assert.Empty(t, rootComp.events)
	require.Len(t, focusComp.events, 1)
	assert.Equal(t, "x", focusComp.events[0].KeyID)
}

func TestKeyReleaseFilteredUnlessWanted(t *testing.T) {
	rt, fake, comp, _ := newTestRuntime(t)
	fake.SetKittyProtocolActive(true)
	// Kitty release sequence for 'a' (code 97) with event-type 3 (release).
	fake.Feed([]byte("\x1b[97;1:3u"))
	rt.RunOnce()
	assert.Empty(t, comp.events)

	comp.wantsRel = true
	fake.Feed([]byte("\x1b[97;1:3u"))
	rt.RunOnce()
	require.Len(t, comp.events, 1)
	assert.Equal(t, key.Release, comp.events[0].EventType)
}

func TestResizeClampsViewportAndRerenders(t *testing.T) {
	rt, fake, comp, _ := newTestRuntime(t)
	comp.lines = []string{"l1", "l2", "l3", "l4", "l5"}
	rt.Handle().RequestRender()
	rt.RunOnce()

	before := rt.renderer.State().PreviousViewportTop

	fake.Resize(80, 3)
	rt.RunOnce()

	assert.GreaterOrEqual(t, rt.renderer.State().PreviousViewportTop, before)
	assert.Equal(t, 80, rt.termCols)
	assert.Equal(t, 3, rt.termRows)

	require.NotEmpty(t, comp.events)
	last := comp.events[len(comp.events)-1]
	assert.Equal(t, key.EventResize, last.Kind)
	assert.Equal(t, 80, last.Cols)
	assert.Equal(t, 3, last.Rows)
}

func TestResizeForcesFullRedraw(t *testing.T) {
	rt, fake, comp, _ := newTestRuntime(t)
	comp.lines = []string{"l1", "l2"}
	rt.Handle().RequestRender()
	rt.RunOnce()

	fake.Resize(80, 24)
	rt.RunOnce()

	assert.Contains(t, string(fake.Output()), "\x1b[3J\x1b[2J\x1b[H")
}

func TestQuitStopsRunLoop(t *testing.T) {
	fake := termbackend.NewFake()
	reg := registry.New()
	comp := &stubComponent{lines: []string{"x"}}
	id := reg.Register(comp)
	rt := New(fake, reg, EnvConfig{}, diag.NoopSink{})
	rt.SetRoot(id)

	require.NoError(t, rt.Start())
	rt.Handle().Quit()

	done := make(chan struct{})
	go func() {
		for !rt.quitRequested {
			rt.RunBlockingOnce(time.Millisecond)
		}
		rt.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for quit")
	}
	assert.Equal(t, StateStopped, rt.State())
}

func TestSetTitleFlushesEscapeSequence(t *testing.T) {
	rt, fake, _, _ := newTestRuntime(t)
	rt.Handle().SetTitle("demo")
	rt.RunOnce()
	assert.Contains(t, string(fake.Output()), "demo")
}

func TestCustomCommandInvokesHandler(t *testing.T) {
	rt, _, _, _ := newTestRuntime(t)
	var got any
	rt.OnCustom(func(payload any) { got = payload })
	rt.Handle().Custom("ping")
	rt.RunOnce()
	assert.Equal(t, "ping", got)
}
