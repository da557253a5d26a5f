package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Gurpartap/tape-tui/key"
	"github.com/Gurpartap/tape-tui/render"
	"github.com/Gurpartap/tape-tui/runtime"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AAFF")).Bold(true)
	echoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")).Italic(true)
)

// transcript is the demo's root component: an inline-first scrollback of
// committed lines plus a single live input line, the shape spec.md calls
// out as the kernel's core use case (REPLs, chat clients, coding agents).
type transcript struct {
	handle *runtime.Handle

	history []string
	input   []rune
	cursor  int
}

func newTranscript(h *runtime.Handle) *transcript {
	return &transcript{
		handle:  h,
		history: []string{helpStyle.Render("ctrl+c to quit, enter to submit a line")},
	}
}

func (t *transcript) Render(width int) []string {
	lines := make([]string, 0, len(t.history)+1)
	lines = append(lines, t.history...)

	before := string(t.input[:t.cursor])
	after := string(t.input[t.cursor:])
	live := promptStyle.Render("> ") + echoStyle.Render(before) + render.CursorMarker + echoStyle.Render(after)
	lines = append(lines, live)
	return lines
}

func (t *transcript) HandleEvent(ev key.InputEvent) {
	switch ev.Kind {
	case key.EventText:
		t.insert([]rune(ev.Text))
	case key.EventKey:
		t.handleKey(ev)
	case key.EventPaste:
		t.insert([]rune(ev.Paste))
	}
}

func (t *transcript) handleKey(ev key.InputEvent) {
	switch ev.KeyID {
	case "ctrl+c", "ctrl+d":
		t.handle.Quit()
	case "enter":
		t.commit()
	case "backspace":
		t.backspace()
	case "left":
		if t.cursor > 0 {
			t.cursor--
		}
	case "right":
		if t.cursor < len(t.input) {
			t.cursor++
		}
	default:
		if len(ev.KeyID) == 1 {
			t.insert([]rune(ev.KeyID))
		}
	}
}

func (t *transcript) insert(r []rune) {
	t.input = append(t.input[:t.cursor], append(append([]rune(nil), r...), t.input[t.cursor:]...)...)
	t.cursor += len(r)
}

func (t *transcript) backspace() {
	if t.cursor == 0 {
		return
	}
	t.input = append(t.input[:t.cursor-1], t.input[t.cursor:]...)
	t.cursor--
}

func (t *transcript) commit() {
	line := strings.TrimRight(string(t.input), " ")
	t.history = append(t.history, promptStyle.Render("> ")+echoStyle.Render(line))
	t.input = nil
	t.cursor = 0
}
