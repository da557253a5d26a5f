package key

import "strings"

// decodeKittyModifiers decodes the 1-indexed modifier bitmask shared by
// the Kitty protocol and xterm's modifyOtherKeys: value 0 or 1 means no
// modifiers, otherwise bits = value-1 with shift=1, alt=2, ctrl=4,
// super=8.
func decodeKittyModifiers(value int) Modifiers {
	if value <= 1 {
		return 0
	}
	bits := value - 1
	var m Modifiers
	if bits&1 != 0 {
		m |= ModShift
	}
	if bits&2 != 0 {
		m |= ModAlt
	}
	if bits&4 != 0 {
		m |= ModCtrl
	}
	if bits&8 != 0 {
		m |= ModSuper
	}
	return m
}

func kittyEventType(value int) Type {
	switch value {
	case 2:
		return Repeat
	case 3:
		return Release
	default:
		return Press
	}
}

// compose builds the canonical "mod+mod+key" key id in a fixed modifier
// order (ctrl, alt, shift, super) so that two encodings of the same
// logical key always produce an identical KeyID.
func compose(base string, mods Modifiers) string {
	if mods == 0 {
		return base
	}
	var parts []string
	if mods.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if mods.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	if mods.Has(ModShift) {
		parts = append(parts, "shift")
	}
	if mods.Has(ModSuper) {
		parts = append(parts, "super")
	}
	parts = append(parts, base)
	return strings.Join(parts, "+")
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
