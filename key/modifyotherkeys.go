package key

import (
	"strconv"
	"strings"
)

// parseModifyOtherKeys decodes xterm's modifyOtherKeys format:
//
//	CSI 27 ; modifiers ; code ~
//
// Unlike the bare single-byte legacy encodings, this format carries an
// explicit modifier field, so it can disambiguate shift+enter from
// alt+enter even without Kitty active.
func parseModifyOtherKeys(seq []byte) (InputEvent, bool) {
	if len(seq) < 4 || seq[0] != 0x1B || seq[1] != '[' || seq[len(seq)-1] != '~' {
		return InputEvent{}, false
	}
	body := string(seq[2 : len(seq)-1])
	fields := strings.Split(body, ";")
	if len(fields) != 3 || fields[0] != "27" {
		return InputEvent{}, false
	}
	modCode, err := strconv.Atoi(fields[1])
	if err != nil {
		return InputEvent{}, false
	}
	code, err := strconv.Atoi(fields[2])
	if err != nil {
		return InputEvent{}, false
	}

	mods := decodeKittyModifiers(modCode)
	base := kittyKeyName(code)
	if base == "" {
		return InputEvent{}, false
	}
	return InputEvent{
		Kind:      EventKey,
		KeyID:     compose(base, mods),
		Modifiers: mods,
		EventType: Press,
	}, true
}
