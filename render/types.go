// Package render implements the output gate's diff renderer: the
// minimal-edit algorithm that turns a new frame into the terminal
// commands needed to transform the previously displayed frame into it,
// under a synchronized-update envelope (spec §4.5).
package render

import (
	"strings"

	"github.com/Gurpartap/tape-tui/text"
)

// Span is a styled run of text within a Line, or an opaque image payload
// when IsImage is set (image spans are never width-checked).
type Span struct {
	Text    string
	IsImage bool
}

// Line is one row of a Frame: one or more Spans plus a line-level image
// summary (true if any span in the line is an image span).
type Line struct {
	Spans   []Span
	IsImage bool
}

// Flatten concatenates a Line's spans into the single styled string the
// renderer operates on.
func (l Line) Flatten() string {
	if len(l.Spans) == 1 {
		return l.Spans[0].Text
	}
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Frame is the root component's rendered output for one tick: an ordered
// sequence of Lines.
type Frame []Line

// FlattenAll returns the plain styled-string form of every line, the
// shape the diff renderer's core algorithm consumes.
func (f Frame) FlattenAll() []string {
	out := make([]string, len(f))
	for i, l := range f {
		out[i] = l.Flatten()
	}
	return out
}

// IsImageLine reports whether row i of f is an image line.
func (f Frame) IsImageLine(i int) bool {
	if i < 0 || i >= len(f) {
		return false
	}
	return f[i].IsImage
}

// CursorPos is a frame-coordinate cursor position. Col is clamped to
// width-1 before any terminal motion is emitted.
type CursorPos struct {
	Row, Col int
}

// CursorMarker is the byte sequence a component embeds in its rendered
// text to report the hardware-cursor position: ESC _ p i : c BEL. At
// most one marker may appear per component; the runtime strips every
// marker from the composited lines before they reach the renderer.
const CursorMarker = "\x1b_pi:c\x07"

// StripCursorMarker removes the first CursorMarker found in line, if
// any, returning the marker-free line and the visible-column position
// the marker occupied (measured up to the marker, per spec §3).
func StripCursorMarker(line string) (stripped string, col int, found bool) {
	idx := strings.Index(line, CursorMarker)
	if idx < 0 {
		return line, 0, false
	}
	before := line[:idx]
	after := line[idx+len(CursorMarker):]
	return before + after, text.VisibleWidth(before), true
}
