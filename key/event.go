// Package key turns framed escape sequences (as produced by package
// input) into structured InputEvents, covering the Kitty keyboard
// protocol, modifyOtherKeys, and legacy encodings, in that precedence
// order (spec §4.3).
package key

// EventKind tags the InputEvent variant.
type EventKind int

const (
	EventKey EventKind = iota
	EventText
	EventPaste
	EventResize
)

// Type distinguishes press/repeat/release for a Key event. Only the
// Kitty protocol can report Repeat or Release; legacy encodings always
// produce Press.
type Type int

const (
	Press Type = iota
	Repeat
	Release
)

// Modifiers is a bitset of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
	ModSuper
)

func (m Modifiers) Has(flag Modifiers) bool { return m&flag != 0 }

// InputEvent is the structured output of Parse.
type InputEvent struct {
	Kind EventKind

	// EventKey fields.
	KeyID     string // canonical key name, e.g. "a", "enter", "shift+enter"
	Modifiers Modifiers
	EventType Type

	// EventText fields.
	Text string

	// EventPaste fields (mirrors input.Event's paste text).
	Paste string

	// EventResize fields.
	Cols, Rows int
}

// IsKeyRelease reports whether e is a key-release event. Per spec §4.3,
// bracketed-paste delimiter events are never treated as a release
// regardless of the active protocol — EventPaste simply never sets this.
func (e InputEvent) IsKeyRelease() bool {
	return e.Kind == EventKey && e.EventType == Release
}
