package crash

import (
	"sync"

	"github.com/Gurpartap/tape-tui/termcmd"
)

var (
	procMu    sync.Mutex
	procCount int
	procSig   *signalGuard
)

// CrashCleanup is one runtime instance's crash-safe teardown: on panic
// or on SIGINT/SIGTERM/SIGHUP it shows the cursor, disables bracketed
// paste, and disables the Kitty keyboard protocol, writing the
// assembled commands through a fresh termcmd.Gate to a HookTerminal
// rather than the runtime's normal (possibly already-unwound) terminal
// backend. Multiple runtimes share one process-global signal
// subscription, refcounted across Install/Uninstall.
type CrashCleanup struct {
	handle Handle
}

// Install registers this runtime's teardown and, if it is the first
// active runtime in the process, installs the shared SIGINT/SIGTERM/
// SIGHUP/SIGWINCH handler. Only the resize passed by that first Install
// is wired to SIGWINCH, and it stays in place until the last Uninstall;
// the resize argument of any later Install while one is active is
// ignored.
func Install(resize func()) *CrashCleanup {
	c := &CrashCleanup{}
	c.handle = Register(func() {
		term := OpenHookTerminal()
		defer term.Close()
		flushTeardown(term)
	})

	procMu.Lock()
	if procCount == 0 {
		procSig = installSignals(resize)
	}
	procCount++
	procMu.Unlock()

	return c
}

// Uninstall deactivates this runtime's cleanup node and, if it was the
// last active runtime, tears down the process-global signal
// subscription cleanly (no re-raise — this is a graceful exit).
func (c *CrashCleanup) Uninstall() {
	c.handle.Unregister()

	procMu.Lock()
	procCount--
	if procCount <= 0 {
		procCount = 0
		if procSig != nil {
			procSig.close()
			procSig = nil
		}
	}
	procMu.Unlock()
}

// RunNow executes this runtime's teardown immediately, once. It shares
// the exactly-once semantics of the crash path via the same Handle.
func (c *CrashCleanup) RunNow() {
	c.handle.Run()
}

// flushTeardown assembles the three teardown commands and flushes them
// through a one-shot Gate straight to term.
func flushTeardown(term *HookTerminal) {
	gate, err := termcmd.New("")
	if err != nil {
		return
	}
	defer gate.Close()
	gate.PushAll([]termcmd.Cmd{
		termcmd.ShowCursor(),
		termcmd.PasteOff(),
		termcmd.DisableKitty(),
	})
	_ = gate.Flush(term)
}
