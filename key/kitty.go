package key

import (
	"strconv"
	"strings"

	"github.com/Gurpartap/tape-tui/input"
)

// isKittyQuerySupportResponse matches the Kitty keyboard protocol
// capability query response: CSI ? <flags> u, sent unprompted by a
// terminal that supports the protocol in reply to a CSI ? u query.
func isKittyQuerySupportResponse(seq []byte) bool {
	if len(seq) < 4 || seq[0] != 0x1B || seq[1] != '[' || seq[2] != '?' || seq[len(seq)-1] != 'u' {
		return false
	}
	for _, b := range seq[3 : len(seq)-1] {
		if b < '0' || b > '9' {
			return false
		}
	}
	return true
}

// ExtractKittyQuerySupport scans data for a Kitty capability query
// response, reporting whether one was found and returning data with any
// such response stripped out so the normal key parser never sees it.
func ExtractKittyQuerySupport(data []byte) (remaining []byte, found bool) {
	units := input.SplitUnits(data)
	out := make([]byte, 0, len(data))
	for _, u := range units {
		if isKittyQuerySupportResponse(u) {
			found = true
			continue
		}
		out = append(out, u...)
	}
	return out, found
}

// parseKitty decodes a Kitty keyboard protocol key event:
//
//	CSI unicode-key[:alternate-key[:base-layout-key]] ; modifiers[:event-type] u
//
// Only the fields this kernel acts on are decoded; trailing
// associated-text fields (a further ";text-as-codepoints") are ignored.
func parseKitty(seq []byte) (InputEvent, bool) {
	if len(seq) < 4 || seq[0] != 0x1B || seq[1] != '[' || seq[len(seq)-1] != 'u' {
		return InputEvent{}, false
	}
	body := string(seq[2 : len(seq)-1])
	fields := strings.Split(body, ";")
	if len(fields) == 0 || fields[0] == "" {
		return InputEvent{}, false
	}

	codeParts := strings.Split(fields[0], ":")
	unicodeKey, err := strconv.Atoi(codeParts[0])
	if err != nil {
		return InputEvent{}, false
	}
	baseKey := 0
	if len(codeParts) >= 3 {
		baseKey, _ = strconv.Atoi(codeParts[2])
	}

	mods := Modifiers(0)
	evType := Press
	if len(fields) >= 2 && fields[1] != "" {
		modParts := strings.Split(fields[1], ":")
		modCode, _ := strconv.Atoi(modParts[0])
		mods = decodeKittyModifiers(modCode)
		if len(modParts) >= 2 {
			eventCode, _ := strconv.Atoi(modParts[1])
			evType = kittyEventType(eventCode)
		}
	}

	// Non-Latin codepoints (a remapped layout producing a different
	// character than the physical key's base letter) fall back to the
	// base-layout key so that e.g. ctrl+c still matches ctrl+c under
	// Dvorak or Colemak. Latin-labeled keys keep their reported,
	// possibly-shifted value.
	resolveCode := unicodeKey
	if !isLatinLetter(rune(unicodeKey)) && baseKey != 0 {
		resolveCode = baseKey
	}

	base := kittyKeyName(resolveCode)
	if base == "" {
		return InputEvent{}, false
	}

	// Kitty is the only encoding able to disambiguate shift+enter from
	// alt+enter; both resolve normally here via their distinct mods.
	keyID := compose(base, mods)

	return InputEvent{
		Kind:      EventKey,
		KeyID:     keyID,
		Modifiers: mods,
		EventType: evType,
	}, true
}
