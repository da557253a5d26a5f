package crash

import (
	"fmt"
	"os"
	"reflect"
	"sync"
)

// PanicHandler observes a recovered panic value after best-effort
// cleanup has already run, before the panic is re-raised. A nil
// previous handler is valid and simply means none was chained.
type PanicHandler func(recovered any)

var (
	handlerMu sync.Mutex
	handler   PanicHandler
)

// InstallPanicHandler swaps in h as the process-global handler and
// returns whatever was installed before it, so the caller can restore
// it later. The teacher's tty_control_unix.go chains around SIGTTOU
// with signal.Ignore/signal.Reset rather than overwrite-and-forget;
// this applies the same capture-then-restore discipline to panics.
func InstallPanicHandler(h PanicHandler) (previous PanicHandler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	previous = handler
	handler = h
	return previous
}

// UninstallPanicHandler restores previous only if the currently
// installed handler is still the one identified by expected — a fat
// pointer identity comparison, since Go func values aren't otherwise
// comparable. If some other caller has since replaced the handler,
// this is a no-op: uninstalling stale state would clobber a handler
// installed after ours.
func UninstallPanicHandler(expected, previous PanicHandler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if sameFunc(handler, expected) {
		handler = previous
	}
}

func sameFunc(a, b PanicHandler) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// Recover must be deferred at the top of the runtime's event loop
// goroutine (and any goroutine it spawns that touches the terminal).
// On a panic it runs every registered cleanup, invokes the chained
// handler if any, logs the panic value, and re-panics so the process
// still terminates with a nonzero exit status and the original value.
func Recover() {
	r := recover()
	if r == nil {
		return
	}
	RunBestEffort()

	handlerMu.Lock()
	h := handler
	handlerMu.Unlock()
	if h != nil {
		h(r)
	}

	fmt.Fprintf(os.Stderr, "tape-tui: fatal: %v\n", r)
	panic(r)
}
