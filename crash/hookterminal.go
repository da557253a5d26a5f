package crash

import (
	"errors"

	"golang.org/x/sys/unix"
)

// HookTerminal is a best-effort, non-blocking writer to the controlling
// terminal, used only during crash teardown where the runtime's normal
// terminal backend may already be gone or stdout/stderr redirected
// elsewhere. A write here must never block the signal or panic path:
// partial writes on EAGAIN are simply dropped rather than retried.
type HookTerminal struct {
	fd int
	ok bool
}

// OpenHookTerminal opens /dev/tty non-blocking. ok is false when no
// controlling terminal exists (detached process, most test harnesses);
// callers treat a closed HookTerminal as a silent no-op, never an
// error worth surfacing mid-crash.
func OpenHookTerminal() *HookTerminal {
	fd, err := unix.Open("/dev/tty", unix.O_WRONLY|unix.O_NONBLOCK|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return &HookTerminal{ok: false}
	}
	return &HookTerminal{fd: fd, ok: true}
}

// Write implements termcmd.Writer. It attempts to deliver all of b,
// retrying on EINTR and giving up silently on EAGAIN/EWOULDBLOCK or any
// other error. Teardown sequences are short fixed-size escape
// sequences, so a dropped trailing fragment on a full tty buffer is an
// acceptable loss next to the alternative of hanging the process during
// a crash — Write always reports success so a termcmd.Gate flushing to
// a HookTerminal never treats a best-effort drop as a reason to abort
// the rest of teardown.
func (h *HookTerminal) Write(b []byte) (int, error) {
	if !h.ok {
		return len(b), nil
	}
	remaining := b
	for len(remaining) > 0 {
		n, err := unix.Write(h.fd, remaining)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			break
		}
		if n <= 0 {
			break
		}
		remaining = remaining[n:]
	}
	return len(b), nil
}

// Close releases the underlying fd, if one was opened.
func (h *HookTerminal) Close() {
	if h.ok {
		_ = unix.Close(h.fd)
		h.ok = false
	}
}
