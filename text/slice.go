package text

// SliceByColumn returns the substring of s whose visible columns lie in
// [start, start+length), preserving any escape sequences that fall inside
// the window and replaying the style state that was active at the cut
// point so the slice is visually correct in isolation.
//
// In strict mode, a grapheme cluster that would straddle the right
// boundary is dropped entirely rather than emitted partially. A single
// SegmentReset is appended when the slice opens a style (SGR run or
// OSC-8 hyperlink) that it does not itself close.
func SliceByColumn(s string, start, length int, strict bool) string {
	if length <= 0 || start < 0 {
		return ""
	}
	end := start + length

	before := &styleTracker{}
	inWindow := false
	opened := false

	var out []byte
	col := 0

	for _, it := range tokenize(s) {
		if it.kind == itemEscape {
			if !inWindow {
				before.see(it.s)
				continue
			}
			out = append(out, it.s...)
			trackWindowOpen(it.s, &opened)
			continue
		}

		// itemGrapheme
		if col >= end {
			break
		}
		if col < start {
			col += it.w
			continue
		}
		if !inWindow {
			inWindow = true
			out = append(out, before.replay()...)
			opened = before.active()
		}
		if strict && col+it.w > end {
			break
		}
		out = append(out, it.s...)
		col += it.w
	}

	if opened {
		out = append(out, SegmentReset...)
	}
	return string(out)
}

// trackWindowOpen updates opened to reflect whether a style run begun
// inside the current slice window remains unclosed.
func trackWindowOpen(esc string, opened *bool) {
	switch classify(esc) {
	case styleSGRReset, styleHyperlinkClose:
		*opened = false
	case styleSGR, styleHyperlinkOpen:
		*opened = true
	}
}
