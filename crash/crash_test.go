package crash

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRunBestEffortRunsOnce(t *testing.T) {
	var calls int32
	h := Register(func() { atomic.AddInt32(&calls, 1) })
	defer h.Unregister()

	RunBestEffort()
	RunBestEffort()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestUnregisterStopsFutureRuns(t *testing.T) {
	var calls int32
	h := Register(func() { atomic.AddInt32(&calls, 1) })
	h.Unregister()

	RunBestEffort()

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestHandleRunIsIndependentOfRunBestEffort(t *testing.T) {
	var calls int32
	h := Register(func() { atomic.AddInt32(&calls, 1) })
	defer h.Unregister()

	h.Run()
	RunBestEffort() // already ran: must not run again
	h.Run()         // already ran: must not run again

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRunBestEffortSwallowsPanickingCleanup(t *testing.T) {
	var ranAfter int32
	h1 := Register(func() { panic("boom") })
	h2 := Register(func() { atomic.AddInt32(&ranAfter, 1) })
	defer h1.Unregister()
	defer h2.Unregister()

	assert.NotPanics(t, func() { RunBestEffort() })
	assert.Equal(t, int32(1), atomic.LoadInt32(&ranAfter))
}

func TestPanicHandlerInstallUninstallChaining(t *testing.T) {
	var outerCalled, innerCalled bool
	outer := func(any) { outerCalled = true }
	prevOuter := InstallPanicHandler(outer)
	defer UninstallPanicHandler(outer, prevOuter)

	inner := func(any) { innerCalled = true }
	prevInner := InstallPanicHandler(inner)

	UninstallPanicHandler(inner, prevInner)

	handlerMu.Lock()
	current := handler
	handlerMu.Unlock()

	assert.True(t, sameFunc(current, outer))
	assert.False(t, outerCalled)
	assert.False(t, innerCalled)
}

func TestUninstallPanicHandlerNoopIfReplaced(t *testing.T) {
	first := func(any) {}
	prevFirst := InstallPanicHandler(first)

	second := func(any) {}
	InstallPanicHandler(second)

	// Uninstalling the stale "first" identity must not clobber "second".
	UninstallPanicHandler(first, prevFirst)

	handlerMu.Lock()
	current := handler
	handlerMu.Unlock()
	assert.True(t, sameFunc(current, second))

	// cleanup
	UninstallPanicHandler(second, nil)
}

func TestHookTerminalWriteNeverBlocksWhenUnavailable(t *testing.T) {
	term := &HookTerminal{ok: false}
	n, err := term.Write([]byte("\x1b[?25h"))
	assert.NoError(t, err)
	assert.Equal(t, len("\x1b[?25h"), n)
	term.Close() // no-op, must not panic
}
