//go:build unix || darwin

package termbackend

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Unix is the Backend implementation for Linux/macOS/BSD terminals,
// grounded on terminal/infrastructure/unix/ansi.go's term.GetSize
// fallback-to-80x24 behavior and tea/internal/infrastructure/input/
// cancelable_reader.go's SetReadDeadline-based cancellation of a
// blocked os.Stdin.Read.
type Unix struct {
	in  *os.File
	out *os.File

	mu       sync.Mutex
	oldState *term.State
	started  bool
	paused   bool

	kittyActive atomic.Bool

	stopResize chan struct{}
	readerDone chan struct{}

	onInput  func([]byte)
	onResize func(cols, rows int)
}

// NewUnix returns a Backend bound to os.Stdin/os.Stdout.
func NewUnix() *Unix {
	return &Unix{in: os.Stdin, out: os.Stdout}
}

var _ Backend = (*Unix)(nil)

// Start enters raw mode on stdin and launches the input-reading and
// SIGWINCH-watching goroutines.
func (u *Unix) Start(onInput func([]byte), onResize func(cols, rows int)) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.started {
		return fmt.Errorf("termbackend: already started")
	}

	state, err := term.MakeRaw(int(u.in.Fd()))
	if err != nil {
		return fmt.Errorf("termbackend: enter raw mode: %w", err)
	}

	u.oldState = state
	u.onInput = onInput
	u.onResize = onResize
	u.started = true
	u.paused = false
	u.readerDone = make(chan struct{})
	u.stopResize = make(chan struct{})

	go u.readLoop()
	go u.resizeLoop()

	return nil
}

func (u *Unix) readLoop() {
	defer close(u.readerDone)
	buf := make([]byte, 4096)
	for {
		n, err := u.in.Read(buf)
		if n > 0 && u.onInput != nil {
			data := make([]byte, n)
			copy(data, buf[:n])
			u.onInput(data)
		}
		if err != nil {
			return
		}
	}
}

func (u *Unix) resizeLoop() {
	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, syscall.SIGWINCH)
	defer signal.Stop(sigCh)
	for {
		select {
		case <-sigCh:
			if u.onResize != nil {
				cols, rows := u.size()
				u.onResize(cols, rows)
			}
		case <-u.stopResize:
			return
		}
	}
}

func (u *Unix) size() (cols, rows int) {
	ws, err := unix.IoctlGetWinsize(int(u.out.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

// Columns reports the terminal's current column count.
func (u *Unix) Columns() int { c, _ := u.size(); return c }

// Rows reports the terminal's current row count.
func (u *Unix) Rows() int { _, r := u.size(); return r }

// Write implements termcmd.Writer against stdout.
func (u *Unix) Write(data []byte) (int, error) { return u.out.Write(data) }

// KittyProtocolActive reports the last value set by SetKittyProtocolActive.
func (u *Unix) KittyProtocolActive() bool { return u.kittyActive.Load() }

// SetKittyProtocolActive records whether the runtime's capability query
// was answered affirmatively.
func (u *Unix) SetKittyProtocolActive(active bool) { u.kittyActive.Store(active) }

// PauseInput unblocks the reader goroutine via SetReadDeadline(time.Now())
// — the same technique the teacher's CancelableReader uses to cancel a
// blocked stdin Read on all platforms that support file deadlines — and
// waits for it to exit, along with the SIGWINCH watcher, without
// touching raw-mode terminal state. Splitting this out of Stop lets the
// runtime drain whatever the terminal already buffered while the fd is
// still in raw mode, before cooked mode is restored (spec §4.7).
func (u *Unix) PauseInput() error {
	u.mu.Lock()
	if !u.started || u.paused {
		u.mu.Unlock()
		return nil
	}
	u.paused = true
	u.mu.Unlock()

	close(u.stopResize)
	_ = u.in.SetReadDeadline(time.Now())
	<-u.readerDone
	_ = u.in.SetReadDeadline(time.Time{})
	return nil
}

// Stop pauses input if PauseInput hasn't already run, then restores the
// prior cooked-mode terminal state.
func (u *Unix) Stop() error {
	u.mu.Lock()
	if !u.started {
		u.mu.Unlock()
		return nil
	}
	oldState := u.oldState
	u.mu.Unlock()

	if err := u.PauseInput(); err != nil {
		return err
	}

	u.mu.Lock()
	u.started = false
	u.mu.Unlock()

	if oldState != nil {
		return term.Restore(int(u.in.Fd()), oldState)
	}
	return nil
}

// DrainInput reads whatever the terminal has already buffered (for
// example a delayed Kitty capability or cursor-position response) for
// up to maxWait, returning as soon as idleWait passes with nothing new.
// Must only be called after PauseInput, once the normal read loop has
// exited and stopped competing for the fd.
func (u *Unix) DrainInput(maxWait, idleWait time.Duration) []byte {
	deadline := time.Now().Add(maxWait)
	lastData := time.Now()
	var collected []byte
	buf := make([]byte, 4096)

	for time.Now().Before(deadline) {
		_ = u.in.SetReadDeadline(time.Now().Add(idleWait))
		n, err := u.in.Read(buf)
		if n > 0 {
			collected = append(collected, buf[:n]...)
			lastData = time.Now()
			continue
		}
		if err != nil && time.Since(lastData) >= idleWait {
			break
		}
	}
	_ = u.in.SetReadDeadline(time.Time{})
	return collected
}
