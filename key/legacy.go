package key

import "strconv"

// parseLegacy decodes the non-Kitty, non-modifyOtherKeys encodings: SS3
// function keys, CSI arrows/navigation keys with an optional modifier
// parameter, bare control bytes, DEL, and single printable bytes.
// Grounded in the teacher's legacy key table
// (tea/internal/infrastructure/ansi/parser.go).
func parseLegacy(seq []byte) (InputEvent, bool) {
	if len(seq) == 0 {
		return InputEvent{}, false
	}

	if seq[0] == 0x1B {
		if len(seq) == 1 {
			return InputEvent{}, false
		}
		if len(seq) == 2 {
			return parseAltByte(seq[1])
		}
		if seq[1] == 'O' && len(seq) == 3 {
			if name, ok := ss3Final[seq[2]]; ok {
				return keyEvent(name, 0), true
			}
			return InputEvent{}, false
		}
		if seq[1] == '[' {
			return parseLegacyCSI(seq)
		}
		return InputEvent{}, false
	}

	if len(seq) == 1 {
		return parseControlOrPrintable(seq[0])
	}
	return InputEvent{}, false
}

// parseAltByte handles ESC followed by exactly one more byte: the
// xterm-style meta/alt encoding. Enter collapses to plain "enter" with
// no modifier — under legacy encodings shift+enter and alt+enter are
// genuinely indistinguishable from a bare enter, so adding alt here
// would assert a distinction the terminal never actually reported.
func parseAltByte(b byte) (InputEvent, bool) {
	ev, ok := parseControlOrPrintable(b)
	if !ok {
		return InputEvent{}, false
	}
	if ev.KeyID == "enter" {
		return ev, true
	}
	ev.Modifiers |= ModAlt
	ev.KeyID = compose(baseName(ev), ev.Modifiers)
	return ev, true
}

// baseName strips any modifier prefix that parseControlOrPrintable may
// already have applied (e.g. ctrl+c) before re-composing with alt added.
func baseName(ev InputEvent) string {
	if ev.Modifiers.Has(ModCtrl) {
		// ctrl+<letter> — the letter is the last rune of KeyID.
		r := []rune(ev.KeyID)
		return string(r[len(r)-1])
	}
	return ev.KeyID
}

func parseControlOrPrintable(b byte) (InputEvent, bool) {
	switch b {
	case 0x0D, 0x0A:
		return keyEvent("enter", 0), true
	case 0x09:
		return keyEvent("tab", 0), true
	case 0x08, 0x7F:
		return keyEvent("backspace", 0), true
	case 0x1B:
		return keyEvent("escape", 0), true
	case 0x20:
		return InputEvent{Kind: EventKey, KeyID: " ", EventType: Press}, true
	}
	if b >= 1 && b <= 26 {
		letter := string(rune('a' + b - 1))
		return InputEvent{
			Kind:      EventKey,
			KeyID:     compose(letter, ModCtrl),
			Modifiers: ModCtrl,
			EventType: Press,
		}, true
	}
	if b >= 0x20 && b < 0x7F {
		return InputEvent{Kind: EventKey, KeyID: string(rune(b)), EventType: Press}, true
	}
	return InputEvent{}, false
}

func keyEvent(name string, mods Modifiers) InputEvent {
	return InputEvent{Kind: EventKey, KeyID: compose(name, mods), Modifiers: mods, EventType: Press}
}

// parseLegacyCSI handles ESC [ sequences: arrows/home/end with an
// optional "1;mods" prefix, and ESC [ n [; mods] ~ navigation keys.
func parseLegacyCSI(seq []byte) (InputEvent, bool) {
	body := seq[2:]
	if len(body) == 0 {
		return InputEvent{}, false
	}
	final := body[len(body)-1]
	params := string(body[:len(body)-1])

	if final == '~' {
		parts := splitParams(params)
		if len(parts) == 0 {
			return InputEvent{}, false
		}
		n, err := strconv.Atoi(parts[0])
		if err != nil {
			return InputEvent{}, false
		}
		name, ok := legacyCSITilde[n]
		if !ok {
			return InputEvent{}, false
		}
		mods := Modifiers(0)
		if len(parts) >= 2 {
			mv, _ := strconv.Atoi(parts[1])
			mods = decodeKittyModifiers(mv)
		}
		return keyEvent(name, mods), true
	}

	name, ok := legacyCSIFinal[final]
	if !ok {
		return InputEvent{}, false
	}
	mods := Modifiers(0)
	if params != "" {
		parts := splitParams(params)
		if len(parts) == 2 && parts[0] == "1" {
			mv, _ := strconv.Atoi(parts[1])
			mods = decodeKittyModifiers(mv)
		}
	}
	return keyEvent(name, mods), true
}

func splitParams(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ';' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
