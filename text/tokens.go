package text

import "strings"

// SegmentReset is the two-sequence terminator that resets SGR state and
// closes any open OSC-8 hyperlink: CSI 0 m followed by OSC 8 ; ; BEL.
const SegmentReset = "\x1b[0m\x1b]8;;\x07"

type itemKind int

const (
	itemGrapheme itemKind = iota
	itemEscape
)

// item is one grapheme cluster or one complete escape sequence, in the
// order it appears in the source string.
type item struct {
	kind itemKind
	s    string
	w    int // visible width; always 0 for itemEscape
}

// tokenize splits s into grapheme clusters and escape sequences, in order.
// Escape sequences are recognized using the same framing rules the input
// buffer uses for incoming terminal bytes (spec §4.2): CSI terminated by a
// byte in 0x40..0x7E, OSC/DCS/APC terminated by BEL or ST, SS3 terminated
// by one final byte, and any other ESC-prefixed byte treated as a bare
// two-byte sequence.
func tokenize(s string) []item {
	var items []item
	i := 0
	for i < len(s) {
		if s[i] == 0x1B {
			end := scanEscape(s, i)
			items = append(items, item{kind: itemEscape, s: s[i:end]})
			i = end
			continue
		}
		j := i
		for j < len(s) && s[j] != 0x1B {
			j++
		}
		items = append(items, graphemeItems(s[i:j])...)
		i = j
	}
	return items
}

// scanEscape returns the index just past the escape sequence starting at
// s[i] (s[i] must be ESC). If the sequence is truncated (no terminator
// found before the end of s), it returns len(s) — the caller treats the
// remainder as a single unterminated escape token, same as the input
// buffer's idle-flush behavior for a partial sequence.
func scanEscape(s string, i int) int {
	n := len(s)
	if i >= n || s[i] != 0x1B {
		return i
	}
	if i+1 >= n {
		return n
	}
	switch s[i+1] {
	case '[': // CSI — final byte in 0x40..0x7E
		j := i + 2
		for j < n {
			if s[j] >= 0x40 && s[j] <= 0x7E {
				return j + 1
			}
			j++
		}
		return n
	case ']', 'P', '_': // OSC, DCS, APC — terminated by BEL or ST (ESC \)
		j := i + 2
		for j < n {
			if s[j] == 0x07 {
				return j + 1
			}
			if s[j] == 0x1B && j+1 < n && s[j+1] == '\\' {
				return j + 2
			}
			j++
		}
		return n
	case 'O': // SS3 — exactly one final byte
		if i+2 < n {
			return i + 3
		}
		return n
	default: // bare two-byte ESC sequence
		return i + 2
	}
}

// graphemeItems clusters a run of text with no embedded escape bytes into
// width-tagged grapheme items.
func graphemeItems(s string) []item {
	var items []item
	for _, cluster := range graphemeClusters(s) {
		items = append(items, item{kind: itemGrapheme, s: cluster, w: ClusterWidth(cluster)})
	}
	return items
}

// styleKind classifies an escape sequence for the purposes of style-state
// carry across a slice or wrap boundary.
type styleKind int

const (
	styleNone styleKind = iota
	styleSGR
	styleSGRReset
	styleHyperlinkOpen
	styleHyperlinkClose
)

func classify(esc string) styleKind {
	switch {
	case esc == "\x1b[0m" || esc == "\x1b[m":
		return styleSGRReset
	case strings.HasSuffix(esc, "m") && strings.HasPrefix(esc, "\x1b["):
		return styleSGR
	case esc == "\x1b]8;;\x07" || esc == "\x1b]8;;\x1b\\":
		return styleHyperlinkClose
	case strings.HasPrefix(esc, "\x1b]8;"):
		return styleHyperlinkOpen
	default:
		return styleNone
	}
}

// styleTracker accumulates the SGR and OSC-8 escape sequences that are
// "live" at a given point in a string, so a slice that starts mid-stream
// can replay the style state that was in effect at the cut point.
type styleTracker struct {
	sgr       []string
	hyperlink string // empty when no hyperlink is open
}

func (t *styleTracker) see(esc string) {
	switch classify(esc) {
	case styleSGRReset:
		t.sgr = nil
	case styleSGR:
		t.sgr = append(t.sgr, esc)
	case styleHyperlinkOpen:
		t.hyperlink = esc
	case styleHyperlinkClose:
		t.hyperlink = ""
	}
}

// replay returns the escape sequences needed to reproduce the current
// style state at the start of a new slice or wrapped line.
func (t *styleTracker) replay() string {
	if len(t.sgr) == 0 && t.hyperlink == "" {
		return ""
	}
	var b strings.Builder
	for _, s := range t.sgr {
		b.WriteString(s)
	}
	b.WriteString(t.hyperlink)
	return b.String()
}

func (t *styleTracker) active() bool {
	return len(t.sgr) > 0 || t.hyperlink != ""
}
