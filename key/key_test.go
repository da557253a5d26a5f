package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKittyShiftEnter(t *testing.T) {
	ev, ok := Parse([]byte("\x1b[13;2u"), true)
	assert.True(t, ok)
	assert.Equal(t, EventKey, ev.Kind)
	assert.Equal(t, "shift+enter", ev.KeyID)
	assert.Equal(t, Press, ev.EventType)
}

func TestKittyAltEnter(t *testing.T) {
	ev, ok := Parse([]byte("\x1b[13;3u"), true)
	assert.True(t, ok)
	assert.Equal(t, "alt+enter", ev.KeyID)
}

func TestKittyRepeatAndRelease(t *testing.T) {
	ev, ok := Parse([]byte("\x1b[97;1:2u"), true)
	assert.True(t, ok)
	assert.Equal(t, Repeat, ev.EventType)

	ev, ok = Parse([]byte("\x1b[97;1:3u"), true)
	assert.True(t, ok)
	assert.Equal(t, Release, ev.EventType)
	assert.True(t, ev.IsKeyRelease())
}

func TestKittyCtrlCBaseLayoutFallback(t *testing.T) {
	// A Cyrillic codepoint under ctrl, with base-layout key 'c' in the
	// third colon-separated field — must resolve to ctrl+c.
	ev, ok := Parse([]byte("\x1b[1089::99;5u"), true)
	assert.True(t, ok)
	assert.Equal(t, "ctrl+c", ev.KeyID)
}

func TestKittyLatinShiftedNotRebased(t *testing.T) {
	// Shift+a reports the shifted Latin codepoint 'A' (65); it must not
	// be rebased to the unshifted base key.
	ev, ok := Parse([]byte("\x1b[65;2u"), true)
	assert.True(t, ok)
	assert.Equal(t, "shift+A", ev.KeyID)
}

func TestLegacyBareEnterHasNoModifier(t *testing.T) {
	ev, ok := Parse([]byte("\r"), false)
	assert.True(t, ok)
	assert.Equal(t, "enter", ev.KeyID)
	assert.Equal(t, Modifiers(0), ev.Modifiers)
}

func TestLegacyAltEnterCollapsesToPlainEnter(t *testing.T) {
	ev, ok := Parse([]byte("\x1b\r"), false)
	assert.True(t, ok)
	assert.Equal(t, "enter", ev.KeyID)
}

func TestModifyOtherKeysDisambiguatesShiftEnter(t *testing.T) {
	ev, ok := Parse([]byte("\x1b[27;2;13~"), false)
	assert.True(t, ok)
	assert.Equal(t, "shift+enter", ev.KeyID)
}

func TestLegacyCtrlLetter(t *testing.T) {
	ev, ok := Parse([]byte{0x03}, false)
	assert.True(t, ok)
	assert.Equal(t, "ctrl+c", ev.KeyID)
}

func TestLegacyArrowWithModifier(t *testing.T) {
	ev, ok := Parse([]byte("\x1b[1;5A"), false)
	assert.True(t, ok)
	assert.Equal(t, "ctrl+up", ev.KeyID)
}

func TestLegacyPlainArrow(t *testing.T) {
	ev, ok := Parse([]byte("\x1b[A"), false)
	assert.True(t, ok)
	assert.Equal(t, "up", ev.KeyID)
}

func TestLegacyAltPrintable(t *testing.T) {
	ev, ok := Parse([]byte("\x1bc"), false)
	assert.True(t, ok)
	assert.Equal(t, "alt+c", ev.KeyID)
}

func TestSS3FunctionKey(t *testing.T) {
	ev, ok := Parse([]byte("\x1bOP"), false)
	assert.True(t, ok)
	assert.Equal(t, "f1", ev.KeyID)
}

func TestCSITildeNavigation(t *testing.T) {
	ev, ok := Parse([]byte("\x1b[3~"), false)
	assert.True(t, ok)
	assert.Equal(t, "delete", ev.KeyID)
}

func TestPrintableByte(t *testing.T) {
	ev, ok := Parse([]byte("a"), false)
	assert.True(t, ok)
	assert.Equal(t, "a", ev.KeyID)
}

func TestParseAllTextBurst(t *testing.T) {
	events := ParseAll([]byte("abc"), false)
	if assert.Len(t, events, 1) {
		assert.Equal(t, EventText, events[0].Kind)
		assert.Equal(t, "abc", events[0].Text)
	}
}

func TestParseAllMixedUnits(t *testing.T) {
	events := ParseAll([]byte("\x1b[A\x1b[B"), false)
	if assert.Len(t, events, 2) {
		assert.Equal(t, "up", events[0].KeyID)
		assert.Equal(t, "down", events[1].KeyID)
	}
}

func TestMatchesKeyIgnoresModifierOrder(t *testing.T) {
	ev := InputEvent{Kind: EventKey, KeyID: "ctrl+shift+up"}
	assert.True(t, MatchesKey(ev, "shift+ctrl+up"))
	assert.True(t, MatchesKey(ev, "ctrl+shift+up"))
	assert.False(t, MatchesKey(ev, "ctrl+up"))
}

func TestReparseIsStable(t *testing.T) {
	cases := []string{"\x1b[A", "\x1b[1;5A", "\r", "\x03", "\x1bOP", "\x1b[3~"}
	for _, seq := range cases {
		ev, ok := Parse([]byte(seq), false)
		assert.True(t, ok, "seq %q", seq)
		ev2, ok2 := Parse([]byte(seq), false)
		assert.True(t, ok2)
		assert.Equal(t, ev, ev2, "re-parsing %q must be stable", seq)
	}
}

func TestExtractKittyQuerySupportStripsResponse(t *testing.T) {
	remaining, found := ExtractKittyQuerySupport([]byte("\x1b[?1u"))
	assert.True(t, found)
	assert.Empty(t, remaining)
}

func TestExtractKittyQuerySupportLeavesOtherDataAlone(t *testing.T) {
	remaining, found := ExtractKittyQuerySupport([]byte("abc"))
	assert.False(t, found)
	assert.Equal(t, []byte("abc"), remaining)
}

func TestExtractKittyQuerySupportStripsAmongOtherUnits(t *testing.T) {
	remaining, found := ExtractKittyQuerySupport([]byte("a\x1b[?15ub"))
	assert.True(t, found)
	assert.Equal(t, []byte("ab"), remaining)
}

func TestExtractKittyQuerySupportDoesNotMatchKittyKeyEvent(t *testing.T) {
	remaining, found := ExtractKittyQuerySupport([]byte("\x1b[13;2u"))
	assert.False(t, found)
	assert.Equal(t, []byte("\x1b[13;2u"), remaining)
}

func TestParseLegacyAndModifyOtherKeysRejectQuerySupportResponse(t *testing.T) {
	_, ok := parseLegacyCSI([]byte("\x1b[?1u"))
	assert.False(t, ok)

	_, ok = parseModifyOtherKeys([]byte("\x1b[?1u"))
	assert.False(t, ok)
}
