package key

import "fmt"

// kittyNamed maps the well-known Kitty functional-key codepoints (the
// Private Use Area block documented by the Kitty keyboard protocol) to
// their canonical key name.
var kittyNamed = map[int]string{
	9:   "tab",
	13:  "enter",
	27:  "escape",
	127: "backspace",

	57348: "insert",
	57349: "delete",
	57350: "left",
	57351: "right",
	57352: "up",
	57353: "down",
	57354: "pageup",
	57355: "pagedown",
	57356: "home",
	57357: "end",
	57358: "capslock",
	57359: "scrolllock",
	57360: "numlock",
	57361: "printscreen",
	57362: "pause",
	57363: "menu",
}

func init() {
	for i := 0; i < 35; i++ {
		kittyNamed[57364+i] = fmt.Sprintf("f%d", i+1)
	}
}

// kittyKeyName resolves a Kitty unicode-key codepoint to a canonical key
// name: a functional-key name from the table above, or the literal
// character for anything else.
func kittyKeyName(code int) string {
	if name, ok := kittyNamed[code]; ok {
		return name
	}
	if code <= 0 {
		return ""
	}
	return string(rune(code))
}

// legacyCSITilde maps the numeric argument of a CSI n ~ sequence to a
// canonical key name, grounded in the teacher's legacy key table
// (tea/internal/infrastructure/ansi/parser.go).
var legacyCSITilde = map[int]string{
	1:  "home",
	2:  "insert",
	3:  "delete",
	4:  "end",
	5:  "pageup",
	6:  "pagedown",
	7:  "home",
	8:  "end",
	11: "f1",
	12: "f2",
	13: "f3",
	14: "f4",
	15: "f5",
	17: "f6",
	18: "f7",
	19: "f8",
	20: "f9",
	21: "f10",
	23: "f11",
	24: "f12",
	25: "f13",
	26: "f14",
	28: "f15",
	29: "f16",
	31: "f17",
	32: "f18",
	33: "f19",
	34: "f20",
}

// legacyCSIFinal maps a CSI final byte with no numeric argument (plain
// ESC [ A, ESC [ H, ...) to a canonical key name.
var legacyCSIFinal = map[byte]string{
	'A': "up",
	'B': "down",
	'C': "right",
	'D': "left",
	'H': "home",
	'F': "end",
	'Z': "shift+tab",
}

// ss3Final maps an SS3 (ESC O x) final byte to a canonical key name.
var ss3Final = map[byte]string{
	'A': "up",
	'B': "down",
	'C': "right",
	'D': "left",
	'H': "home",
	'F': "end",
	'P': "f1",
	'Q': "f2",
	'R': "f3",
	'S': "f4",
}
