package text

import "strings"

// word is a run of items with no embedded space grapheme, or a single
// space grapheme on its own (isSpace).
type word struct {
	items   []item
	width   int
	isSpace bool
}

// WrapWithANSI word-wraps s to width columns, carrying ANSI/OSC-8 style
// state across line breaks. A hyperlink that spans a break is re-opened
// at the start of the continuation line, since the diff renderer treats
// each resulting line as independently redrawable.
func WrapWithANSI(s string, width int) []string {
	if width <= 0 {
		width = 1
	}
	words := wordsFromItems(tokenize(s))

	var lines []string
	var cur strings.Builder
	curWidth := 0
	tracker := &styleTracker{}

	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curWidth = 0
	}

	for _, w := range words {
		if w.isSpace {
			if curWidth == 0 {
				continue // don't start a line with a space
			}
			if curWidth+w.width > width {
				flush()
				if tracker.active() {
					cur.WriteString(tracker.replay())
				}
				continue
			}
			cur.WriteString(w.items[0].s)
			curWidth += w.width
			continue
		}

		if curWidth > 0 && curWidth+w.width > width {
			flush()
			if tracker.active() {
				cur.WriteString(tracker.replay())
			}
		}

		for _, it := range w.items {
			if it.kind == itemEscape {
				cur.WriteString(it.s)
				tracker.see(it.s)
				continue
			}
			if curWidth > 0 && curWidth+it.w > width {
				flush()
				if tracker.active() {
					cur.WriteString(tracker.replay())
				}
			}
			cur.WriteString(it.s)
			curWidth += it.w
		}
	}

	if cur.Len() > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// wordsFromItems groups a token stream into words, splitting on plain
// (non-escape) space graphemes. Escape sequences attach to the word they
// immediately precede or follow.
func wordsFromItems(items []item) []word {
	var words []word
	var cur word

	flushWord := func() {
		if len(cur.items) > 0 {
			words = append(words, cur)
			cur = word{}
		}
	}

	for _, it := range items {
		if it.kind == itemGrapheme && it.s == " " {
			flushWord()
			words = append(words, word{items: []item{it}, width: it.w, isSpace: true})
			continue
		}
		cur.items = append(cur.items, it)
		if it.kind == itemGrapheme {
			cur.width += it.w
		}
	}
	flushWord()
	return words
}
