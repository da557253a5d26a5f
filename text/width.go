package text

import (
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"github.com/unilibs/uniwidth"
)

// TabWidth is the column width a bare tab character normalizes to, per
// spec: "Tabs normalize to 3."
const TabWidth = 3

// EastAsianAmbiguousWide controls whether ambiguous-width East Asian
// codepoints (the Unicode "Ambiguous" width class) are measured as wide
// (2 columns, common in CJK locales) or narrow (1 column, the default).
// It defaults to false, no package in this module sets it, and it is read
// by every width computation in this package.
var EastAsianAmbiguousWide = false

// VisibleWidth returns the sum of per-grapheme widths of s, skipping all
// recognized escape sequences. See package doc for the full rule set.
func VisibleWidth(s string) int {
	w := 0
	for _, it := range tokenize(s) {
		if it.kind == itemGrapheme {
			w += it.w
		}
	}
	return w
}

// graphemeClusters splits a plain (escape-free) string into grapheme
// clusters using uniseg, the same grapheme-segmentation engine the
// teacher's unicode service uses for "truly complex" Unicode spans.
func graphemeClusters(s string) []string {
	if s == "" {
		return nil
	}
	var clusters []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}
	return clusters
}

// ClusterWidth returns the visible width of a single grapheme cluster:
// zero for control/combining/default-ignorable/variation-selector/ZWJ/
// surrogate content and all recognized escape sequences, two for RGI
// emoji clusters and East-Asian wide graphemes, and the cluster's
// Unicode width (usually one) otherwise.
func ClusterWidth(cluster string) int {
	if cluster == "\t" {
		return TabWidth
	}
	runes := []rune(cluster)
	if len(runes) == 0 {
		return 0
	}
	r0 := runes[0]

	if isZeroWidthRune(r0) {
		return 0
	}

	if len(runes) == 1 {
		return runeWidth(r0)
	}

	// Multi-rune cluster: emoji + modifier/ZWJ sequence, or base +
	// combining marks. RGI emoji clusters render at width 2 regardless of
	// how many codepoints make them up; combining sequences take the
	// width of the base rune.
	if clusterHasEmojiPresentation(runes) {
		return 2
	}
	return runeWidth(r0)
}

// runeWidth is the single-rune width fast path. uniwidth.RuneWidth
// handles the overwhelming majority of codepoints (ASCII, CJK, emoji) in
// O(1); go-runewidth's East Asian Width table is consulted only when the
// caller has opted into ambiguous-wide measurement, since uniwidth does
// not expose that toggle.
func runeWidth(r rune) int {
	if EastAsianAmbiguousWide {
		runewidth.DefaultCondition.EastAsianWidth = true
		return runewidth.DefaultCondition.RuneWidth(r)
	}
	return uniwidth.RuneWidth(r)
}

// isZeroWidthRune reports whether r is a control character, combining
// mark, default-ignorable codepoint, variation selector, zero-width
// joiner, or UTF-16 surrogate — all zero visible width per spec.
func isZeroWidthRune(r rune) bool {
	switch {
	case r < 0x20 || (r >= 0x7F && r < 0xA0):
		return true // C0/C1 control
	case r == 0x200D: // zero-width joiner
		return true
	case r >= 0xFE00 && r <= 0xFE0F: // variation selectors
		return true
	case r >= 0xE0100 && r <= 0xE01EF: // variation selectors supplement
		return true
	case r >= 0xD800 && r <= 0xDFFF: // surrogate range
		return true
	case r == 0x00AD || r == 0x200B || r == 0xFEFF: // soft hyphen, ZWSP, BOM
		return true
	case r == 0x115F || r == 0x1160 || r == 0x3164 || r == 0xFFA0: // Hangul fillers
		return true
	case unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf):
		return true
	}
	return false
}

// clusterHasEmojiPresentation reports whether a multi-rune grapheme
// cluster should be measured as an RGI emoji cluster (width 2): any
// multi-rune cluster that starts with an emoji-range codepoint qualifies,
// whether or not it carries a skin-tone modifier, an emoji presentation
// selector, or a ZWJ.
func clusterHasEmojiPresentation(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	if !isEmojiRange(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		switch {
		case r == 0x200D: // ZWJ sequence
			return true
		case r >= 0x1F3FB && r <= 0x1F3FF: // skin tone modifiers
			return true
		case r == 0xFE0F: // emoji presentation selector
			return true
		}
	}
	return isEmojiRange(runes[0])
}

func isEmojiRange(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flags)
		return true
	}
	return false
}
