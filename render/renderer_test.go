package render

import (
	"testing"

	"github.com/Gurpartap/tape-tui/diag"
	"github.com/Gurpartap/tape-tui/termcmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeAll(cmds []termcmd.Cmd) []byte {
	var out []byte
	for _, c := range cmds {
		out = append(out, c.Encode()...)
	}
	return out
}

func TestScenario1_RepeatedRenderIsNoop(t *testing.T) {
	r := NewRenderer()
	first := r.Render(Input{Lines: []string{"hello"}, Width: 10, Rows: 24})
	assert.Equal(t, []byte("\x1b[?2026hhello\x1b[0m\x1b]8;;\x07\r\n\x1b[?2026l"), encodeAll(first))

	second := r.Render(Input{Lines: []string{"hello"}, Width: 10, Rows: 24})
	assert.Equal(t, []byte("\x1b[?2026h\x1b[?2026l"), encodeAll(second))
}

func TestScenario2_AppendedLineDoesNotClearFirst(t *testing.T) {
	r := NewRenderer()
	r.Render(Input{Lines: []string{"abc"}, Width: 10, Rows: 24})
	cmds := r.Render(Input{Lines: []string{"abc", "def"}, Width: 10, Rows: 24})

	var clearedLine, sawNewContent bool
	for _, c := range cmds {
		if c.Kind == termcmd.ClearLine {
			clearedLine = true
		}
		if c.Kind == termcmd.RawBytes && string(c.Bytes) == "def\x1b[0m\x1b]8;;\x07" {
			sawNewContent = true
		}
	}
	assert.True(t, sawNewContent, "expected the appended line's content to be written")
	assert.True(t, clearedLine, "the newly written row is still cleared before its content is written")
	for _, c := range cmds {
		require.NotEqual(t, "abc\x1b[0m\x1b]8;;\x07", string(c.Bytes), "previous line must not be rewritten")
	}
}

func TestScenario3_WidthChangeForcesFullClear(t *testing.T) {
	r := NewRenderer()
	r.Render(Input{Lines: []string{"x"}, Width: 10, Rows: 24})
	cmds := r.Render(Input{Lines: []string{"x"}, Width: 12, Rows: 24})

	want := []byte("\x1b[?2026h\x1b[3J\x1b[2J\x1b[Hx\x1b[0m\x1b]8;;\x07\x1b[?2026l")
	assert.Equal(t, want, encodeAll(cmds))
}

func TestInvariant_AlwaysSyncEnveloped(t *testing.T) {
	r := NewRenderer()
	cmds := r.Render(Input{Lines: []string{"a"}, Width: 5, Rows: 10})
	require.NotEmpty(t, cmds)
	assert.Equal(t, termcmd.SyncOn, cmds[0].Kind)
	assert.Equal(t, termcmd.SyncOff, cmds[len(cmds)-1].Kind)
}

func TestHardWidthClampOnDiffPath(t *testing.T) {
	r := NewRenderer()
	clamped := r.clampToWidth("this is far too long\x1b[0m\x1b]8;;\x07", 5, false, true, 0)
	assert.Equal(t, "this \x1b[0m\x1b]8;;\x07", clamped)
}

func TestHardWidthClampReportsDiagnostic(t *testing.T) {
	sink := &diag.CollectingSink{}
	r := NewRenderer()
	r.Sink = sink
	r.clampToWidth("this is far too long\x1b[0m\x1b]8;;\x07", 5, false, true, 2)

	events := sink.Snapshot()
	if assert.Len(t, events, 1) {
		assert.Equal(t, diag.CodeWidthClamped, events[0].Code)
	}
}

func TestHardWidthClampPanicsWhenDebugRedrawSet(t *testing.T) {
	r := NewRenderer()
	r.DebugRedraw = true
	assert.Panics(t, func() {
		r.clampToWidth("this is far too long\x1b[0m\x1b]8;;\x07", 5, false, true, 0)
	})
}

func TestCursorMarkerStripped(t *testing.T) {
	line := "hello\x1b_pi:c\x07world"
	stripped, col, found := StripCursorMarker(line)
	assert.True(t, found)
	assert.Equal(t, "helloworld", stripped)
	assert.Equal(t, 5, col)
}

func TestNoCursorMarkerFound(t *testing.T) {
	_, _, found := StripCursorMarker("plain text")
	assert.False(t, found)
}

func TestClampViewportNoopBeforeFirstRender(t *testing.T) {
	r := NewRenderer()
	r.ClampViewport(10, 3)
	assert.Equal(t, 0, r.State().PreviousViewportTop)
}

func TestClampViewportTracksShrunkTerminal(t *testing.T) {
	r := NewRenderer()
	r.Render(Input{Lines: []string{"1", "2", "3", "4", "5"}, Width: 10, Rows: 24})

	r.ClampViewport(5, 3)
	assert.Equal(t, 2, r.State().PreviousViewportTop)

	r.ClampViewport(5, 24)
	assert.Equal(t, 0, r.State().PreviousViewportTop)
}
