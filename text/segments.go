package text

import "strings"

// Segments decomposes a rendered line into a prefix, the style state
// active at the start of a "hole" region, the hole's own payload, and a
// suffix — exactly what the surface compositor needs to splice a
// transparent window into a line without corrupting the surrounding
// style runs.
type Segments struct {
	Prefix  string
	Style   string
	Payload string
	Suffix  string
}

// ExtractSegments slices line into the region [start, start+length) (the
// hole a surface will paint into) plus everything before and after it.
// Style is the escape-sequence state that must be replayed immediately
// after Prefix for the hole's contents to render with the style that was
// active at that column, independent of what the hole writes.
func ExtractSegments(line string, start, length int) Segments {
	if start < 0 {
		start = 0
	}
	if length < 0 {
		length = 0
	}
	total := VisibleWidth(line)

	prefix := SliceByColumn(line, 0, start, true)
	style := styleStateAt(line, start)
	payload := strings.TrimSuffix(strings.TrimPrefix(SliceByColumn(line, start, length, true), style), SegmentReset)

	suffixStart := start + length
	suffixLen := total - suffixStart
	if suffixLen < 0 {
		suffixLen = 0
	}
	suffix := SliceByColumn(line, suffixStart, suffixLen, true)

	return Segments{
		Prefix:  prefix,
		Style:   style,
		Payload: payload,
		Suffix:  suffix,
	}
}

// styleStateAt replays the escape sequences that are live at the given
// visible column of line — the same bookkeeping SliceByColumn performs
// for its own cut point, exposed standalone for the compositor.
func styleStateAt(line string, column int) string {
	tracker := &styleTracker{}
	col := 0
	for _, it := range tokenize(line) {
		if it.kind == itemEscape {
			if col <= column {
				tracker.see(it.s)
			}
			continue
		}
		if col >= column {
			break
		}
		col += it.w
	}
	return tracker.replay()
}
