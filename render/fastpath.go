package render

import "github.com/Gurpartap/tape-tui/termcmd"

// tryInsertBeforeFastPath implements the optional optimization of spec
// §4.5: when the new frame is exactly the previous frame with N lines
// prepended, and every guard holds, emit a scroll-loop insert instead of
// rewriting the whole frame. Any guard failure falls back to the
// baseline diff path.
func (r *Renderer) tryInsertBeforeFastPath(lines []string, width int, hasSurfaces bool, isImageLine func(int) bool, cursor *CursorPos) ([]termcmd.Cmd, bool) {
	if hasSurfaces || cursor != nil {
		return nil, false
	}
	if width != r.state.PreviousWidth {
		return nil, false
	}
	prev := r.state.PreviousLines
	if len(lines) <= len(prev) {
		return nil, false
	}

	prepended := len(lines) - len(prev)
	if prepended > r.state.PreviousViewportTop {
		// The prepended lines would land above our tracked editable
		// window; there's no safe relative-motion path there.
		return nil, false
	}
	for i, l := range prev {
		if lines[prepended+i] != l {
			return nil, false
		}
	}
	for i := 0; i < prepended; i++ {
		if isImageLine != nil && isImageLine(i) {
			return nil, false
		}
	}

	cmds := r.moveToPhysicalRow(0)
	cmds = append(cmds, termcmd.RawString(insertLinesSeq(prepended)))
	for i := 0; i < prepended; i++ {
		cmds = append(cmds, termcmd.RawString(r.clampToWidth(lines[i], width, false, r.StrictWidth, i)))
		if i < prepended-1 {
			cmds = append(cmds, termcmd.RawString("\r\n"))
		}
	}

	r.state.HardwareCursorRow = prepended - 1
	r.state.PreviousViewportTop -= prepended
	if r.state.PreviousViewportTop < 0 {
		r.state.PreviousViewportTop = 0
	}
	r.state.PreviousLines = append([]string(nil), lines...)
	r.state.MaxLinesRendered = len(lines)
	return cmds, true
}
