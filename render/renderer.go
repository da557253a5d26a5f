package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Gurpartap/tape-tui/diag"
	"github.com/Gurpartap/tape-tui/termcmd"
	"github.com/Gurpartap/tape-tui/text"
)

// Input bundles the diff renderer's inputs for one call (spec §4.5).
type Input struct {
	Lines         []string
	Width         int
	Rows          int
	Cursor        *CursorPos
	IsImageLine   func(i int) bool
	Shrink        bool // caller reports the content area shrank since the last call
	HasSurfaces   bool
	ClearOnShrink bool
}

// Renderer computes the minimal terminal commands to transform the
// previously displayed frame into a new one, under a synchronized-update
// envelope. A zero-value Renderer is ready to use.
type Renderer struct {
	state State

	// StrictWidth mirrors the diff-path "strict" mode used when clamping
	// an over-width line; snapshotted once per Render call so a
	// mid-render config change (not possible in today's single-threaded
	// runtime, but documented at the data-model level) can't split a
	// render across two behaviors. Always true in the current kernel.
	StrictWidth bool

	// Sink receives a CodeWidthClamped event whenever the diff path
	// clamps an over-width line (spec §7). Nil discards the event.
	Sink diag.Sink

	// DebugRedraw opts into the hard-crash mode of spec §7: an
	// over-width line on the diff path panics instead of being clamped.
	DebugRedraw bool

	forceFullRedraw bool
}

// NewRenderer returns a ready-to-use Renderer.
func NewRenderer() *Renderer {
	return &Renderer{StrictWidth: true}
}

// State returns a snapshot of the renderer's retained state, for tests
// and diagnostics.
func (r *Renderer) State() State { return r.state }

// ClampViewport recomputes the tracked viewport top after a terminal
// resize that changes the visible row count, without forcing a full
// clear: previous_viewport_top <- max(0, content_rows - terminal_rows)
// (spec §4.7). HardwareCursorRow shifts by the same delta so the next
// diff's relative cursor motion starts from a consistent baseline.
func (r *Renderer) ClampViewport(contentRows, terminalRows int) {
	if !r.state.HasRendered {
		return
	}
	newTop := contentRows - terminalRows
	if newTop < 0 {
		newTop = 0
	}
	delta := newTop - r.state.PreviousViewportTop
	r.state.PreviousViewportTop = newTop
	r.state.HardwareCursorRow -= delta
	if r.state.HardwareCursorRow < 0 {
		r.state.HardwareCursorRow = 0
	}
}

// ForceFullRedraw marks the renderer so the next Render call takes the
// full-clear path regardless of width or shrink state, used by the
// runtime after a resize (spec §4.7 step 1, "mark renderer for full
// redraw").
func (r *Renderer) ForceFullRedraw() {
	r.forceFullRedraw = true
}

// Render runs the five-case dispatch of spec §4.5 and returns the
// terminal commands to flush through the output gate.
func (r *Renderer) Render(in Input) []termcmd.Cmd {
	strictWidth := r.StrictWidth
	normalized := normalize(in.Lines, in.IsImageLine)

	forceFullRedraw := r.forceFullRedraw
	r.forceFullRedraw = false

	var body []termcmd.Cmd
	switch {
	case !r.state.HasRendered:
		body = r.firstRender(normalized, in.Width, in.Rows)
	case forceFullRedraw:
		body = r.fullClear(normalized, in.Width, in.Rows)
	case r.state.PreviousWidth != in.Width:
		body = r.fullClear(normalized, in.Width, in.Rows)
	case in.Shrink && !in.HasSurfaces && in.ClearOnShrink:
		body = r.fullClear(normalized, in.Width, in.Rows)
	default:
		body = r.diffPath(normalized, in.Width, in.Rows, in.HasSurfaces, in.IsImageLine, strictWidth, in.Cursor)
	}

	body = append(body, r.placeCursor(in.Cursor, in.Width)...)

	cmds := make([]termcmd.Cmd, 0, len(body)+2)
	cmds = append(cmds, termcmd.SyncUpdateOn())
	cmds = append(cmds, body...)
	cmds = append(cmds, termcmd.SyncUpdateOff())
	return cmds
}

// normalize appends SEGMENT_RESET to every non-image line, resetting SGR
// state and closing any open OSC-8 hyperlink (spec §4.5 step 2).
func normalize(lines []string, isImageLine func(int) bool) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if isImageLine != nil && isImageLine(i) {
			out[i] = l
			continue
		}
		out[i] = l + text.SegmentReset
	}
	return out
}

func (r *Renderer) firstRender(lines []string, width, rows int) []termcmd.Cmd {
	var cmds []termcmd.Cmd
	if len(lines) > 0 {
		cmds = []termcmd.Cmd{termcmd.RawString(joinLines(lines, true))}
	}
	r.state.HasRendered = true
	r.state.PreviousLines = append([]string(nil), lines...)
	r.state.PreviousWidth = width
	r.state.MaxLinesRendered = len(lines)
	r.settleAfterBulkWrite(len(lines), rows)
	return cmds
}

func (r *Renderer) fullClear(lines []string, width, rows int) []termcmd.Cmd {
	cmds := []termcmd.Cmd{{Kind: termcmd.ClearScreen}}
	if len(lines) > 0 {
		cmds = append(cmds, termcmd.RawString(joinLines(lines, false)))
	}
	r.state.HasRendered = true
	r.state.PreviousLines = append([]string(nil), lines...)
	r.state.PreviousWidth = width
	r.state.MaxLinesRendered = len(lines)
	r.settleAfterBulkWrite(len(lines), rows)
	return cmds
}

// settleAfterBulkWrite updates the physical-cursor bookkeeping after a
// bulk write that relied on the terminal's own line-feed handling
// (first render, full clear) rather than explicit cursor motion.
func (r *Renderer) settleAfterBulkWrite(total, rows int) {
	r.state.CursorRow = total - 1
	if r.state.CursorRow < 0 {
		r.state.CursorRow = 0
	}
	r.state.PreviousViewportTop = viewportTop(total, rows)
	r.state.HardwareCursorRow = total - 1 - r.state.PreviousViewportTop
	if r.state.HardwareCursorRow < 0 {
		r.state.HardwareCursorRow = 0
	}
}

func viewportTop(total, rows int) int {
	if rows <= 0 {
		return 0
	}
	top := total - rows
	if top < 0 {
		top = 0
	}
	return top
}

func joinLines(lines []string, trailingNewline bool) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(l)
	}
	if trailingNewline && len(lines) > 0 {
		b.WriteString("\r\n")
	}
	return b.String()
}

// diffPath implements spec §4.5 step 4: the minimal-edit path taken when
// neither a first render nor a width/shrink-triggered full clear apply.
func (r *Renderer) diffPath(lines []string, width, rows int, hasSurfaces bool, isImageLine func(int) bool, strictWidth bool, cursor *CursorPos) []termcmd.Cmd {
	prev := r.state.PreviousLines

	if cmds, ok := r.tryInsertBeforeFastPath(lines, width, hasSurfaces, isImageLine, cursor); ok {
		return cmds
	}

	first, last := changedRange(prev, lines)
	if first == -1 {
		// No change: reposition only, via placeCursor in the caller.
		r.state.MaxLinesRendered = maxInt(r.state.MaxLinesRendered, len(lines))
		return nil
	}

	if first < r.state.PreviousViewportTop {
		// The change reaches above our tracked editable window; there is
		// no safe relative-motion path back to it on an inline terminal.
		return r.fullClear(lines, width, rows)
	}

	var cmds []termcmd.Cmd
	for i := first; i <= last; i++ {
		var oldLine, newLine string
		hasOld := i < len(prev)
		hasNew := i < len(lines)
		if hasOld {
			oldLine = prev[i]
		}
		if hasNew {
			newLine = lines[i]
		}
		if oldLine == newLine {
			continue
		}

		content := ""
		if hasNew {
			imageLine := isImageLine != nil && isImageLine(i)
			content = r.clampToWidth(newLine, width, imageLine, strictWidth, i)
		}

		target := i - r.state.PreviousViewportTop
		if target < 0 {
			target = 0
		}

		if target >= rows && rows > 0 {
			cmds = append(cmds, r.moveToPhysicalRow(rows-1)...)
			cmds = append(cmds, termcmd.RawString("\r\n"+content))
			r.state.HardwareCursorRow = rows - 1
			r.state.PreviousViewportTop++
			continue
		}

		cmds = append(cmds, r.moveToPhysicalRow(target)...)
		cmds = append(cmds, termcmd.ClearCurrentLine())
		if content != "" {
			cmds = append(cmds, termcmd.RawString(content))
		}
		r.state.HardwareCursorRow = target
	}

	r.state.PreviousLines = append([]string(nil), lines...)
	r.state.MaxLinesRendered = maxInt(r.state.MaxLinesRendered, len(lines))
	return cmds
}

// clampToWidth enforces hard-width on the diff path only: a non-image
// line whose visible width exceeds width is clamped by stripping any
// trailing SEGMENT_RESET, slicing strictly to width, and re-appending
// SEGMENT_RESET (spec §4.5). This is a renderer invariant violation
// (spec §7): at default it clamps and reports CodeWidthClamped; with
// DebugRedraw set it panics instead.
func (r *Renderer) clampToWidth(line string, width int, isImage bool, strict bool, row int) string {
	if isImage {
		return line
	}
	if text.VisibleWidth(line) <= width {
		return line
	}

	if r.DebugRedraw {
		panic(fmt.Sprintf("render: line %d exceeds width %d on diff path", row, width))
	}
	if r.Sink != nil {
		r.Sink.Report(diag.Event{
			Code:     diag.CodeWidthClamped,
			Severity: diag.SeverityWarning,
			Message:  "line exceeded width on diff path, clamping",
			Context:  map[string]any{"row": row, "width": width},
		})
	}

	trimmed := strings.TrimSuffix(line, text.SegmentReset)
	clamped := text.SliceByColumn(trimmed, 0, width, strict)
	return clamped + text.SegmentReset
}

func (r *Renderer) moveToPhysicalRow(target int) []termcmd.Cmd {
	var cmds []termcmd.Cmd
	delta := target - r.state.HardwareCursorRow
	switch {
	case delta > 0:
		cmds = append(cmds, termcmd.Down(delta))
	case delta < 0:
		cmds = append(cmds, termcmd.Up(-delta))
	}
	cmds = append(cmds, termcmd.Col(1))
	return cmds
}

// placeCursor implements spec §4.5 step 5.
func (r *Renderer) placeCursor(cursor *CursorPos, width int) []termcmd.Cmd {
	if cursor == nil {
		return nil
	}
	col := cursor.Col
	if col > width-1 {
		col = width - 1
	}
	if col < 0 {
		col = 0
	}
	targetRow := cursor.Row - r.state.PreviousViewportTop
	delta := targetRow - r.state.HardwareCursorRow

	cmds := []termcmd.Cmd{termcmd.Col(col + 1)}
	switch {
	case delta > 0:
		cmds = append(cmds, termcmd.Down(delta))
	case delta < 0:
		cmds = append(cmds, termcmd.Up(-delta))
	}
	r.state.HardwareCursorRow = targetRow
	return cmds
}

func changedRange(prev, next []string) (first, last int) {
	maxLen := maxInt(len(prev), len(next))
	first, last = -1, -1
	for i := 0; i < maxLen; i++ {
		var a, b string
		if i < len(prev) {
			a = prev[i]
		}
		if i < len(next) {
			b = next[i]
		}
		if a != b {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	return
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func insertLinesSeq(n int) string {
	return "\x1b[" + strconv.Itoa(n) + "L"
}
