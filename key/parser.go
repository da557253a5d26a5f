package key

import (
	"unicode/utf8"

	"github.com/Gurpartap/tape-tui/input"
)

// ParseAll splits a framed EventData byte run into its constituent units
// and parses each, in order: Kitty keyboard protocol first when active,
// then modifyOtherKeys, then legacy encodings (spec §4.3). A multi-byte
// run of plain, non-escape bytes is returned as a single Text event
// rather than one Key event per byte, so a fast typed or IME-composed
// burst doesn't fragment into spurious individual keys.
func ParseAll(data []byte, kittyActive bool) []InputEvent {
	units := input.SplitUnits(data)
	events := make([]InputEvent, 0, len(units))
	for _, u := range units {
		if len(u) == 0 {
			continue
		}
		if u[0] != 0x1B && len(u) > 1 && utf8.Valid(u) {
			events = append(events, InputEvent{Kind: EventText, Text: string(u)})
			continue
		}
		if ev, ok := Parse(u, kittyActive); ok {
			events = append(events, ev)
		}
	}
	return events
}

// Parse decodes a single unit (one escape sequence, or one plain byte)
// into an InputEvent, trying each encoding in precedence order and
// falling through to the next on failure.
func Parse(unit []byte, kittyActive bool) (InputEvent, bool) {
	if kittyActive {
		if ev, ok := parseKitty(unit); ok {
			return ev, true
		}
	}
	if ev, ok := parseModifyOtherKeys(unit); ok {
		return ev, true
	}
	return parseLegacy(unit)
}
