// Package termbackend implements the terminal backend contract (spec
// §6): raw-mode lifecycle, input delivery, resize notification, and
// output, behind an interface the runtime drives without knowing it is
// talking to a real tty.
package termbackend

import "time"

// Backend is the terminal I/O contract the runtime drives every tick.
type Backend interface {
	// Start enters raw mode and begins delivering input and resize
	// events to the given callbacks from background goroutines. It must
	// not be called twice without an intervening Stop.
	Start(onInput func([]byte), onResize func(cols, rows int)) error

	// PauseInput unblocks and joins the input-reading goroutine and stops
	// resize notification, without leaving raw mode. Safe to call on an
	// already-paused, already-stopped, or never-started Backend. Stop
	// calls this itself, so a caller that wants the spec §4.7 teardown
	// order (pause, then drain, then restore cooked mode) calls
	// PauseInput explicitly before DrainInput and Stop.
	PauseInput() error

	// Stop leaves raw mode, calling PauseInput first if it hasn't run
	// yet. Safe to call on an already-stopped or never-started Backend.
	Stop() error

	// DrainInput reads any input the terminal has already buffered
	// (e.g. a delayed response to a capability query) for up to maxWait,
	// returning early once idleWait has elapsed with nothing new. Must be
	// called only after PauseInput, once the read loop is no longer
	// competing for the fd — either before Stop (while still raw) or
	// after it.
	DrainInput(maxWait, idleWait time.Duration) []byte

	// Write sends data to the terminal. In the kernel its only caller is
	// a termcmd.Gate flush.
	Write(data []byte) (int, error)

	// Columns and Rows report the terminal's current size, falling back
	// to 80x24 if the size cannot be determined (matches the teacher's
	// ANSITerminal.Size() fallback behavior).
	Columns() int
	Rows() int

	// KittyProtocolActive reports whether the runtime has confirmed the
	// terminal answered its Kitty keyboard protocol capability query.
	KittyProtocolActive() bool
	SetKittyProtocolActive(active bool)
}
