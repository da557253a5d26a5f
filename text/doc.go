// Package text provides grapheme-aware visible-width measurement,
// column-accurate slicing, and ANSI-preserving word wrap for strings that
// may embed CSI/OSC/APC/DCS escape sequences.
//
// All three entry points — VisibleWidth, SliceByColumn, and
// WrapWithANSI — share the same escape-aware tokenizer (tokenize), and the
// last two share the same style-state bookkeeping (styleTracker), so a caller that slices a
// styled string and later re-measures the result gets numbers consistent
// with what was actually written to the terminal.
package text
