package termbackend

import (
	"bytes"
	"sync"
	"time"
)

// Fake is a no-op, in-memory Backend for tests that don't have a real
// tty, grounded on testing/null_terminal.go's all-methods-succeed
// pattern. Write is captured instead of discarded so a test can assert
// on emitted bytes, and Columns/Rows/size are settable so resize
// behavior can be exercised deterministically.
type Fake struct {
	mu         sync.Mutex
	cols       int
	rows       int
	out        bytes.Buffer
	kitty      bool
	started    bool
	drainCalls int

	onInput  func([]byte)
	onResize func(cols, rows int)
}

// NewFake returns a Fake sized 80x24.
func NewFake() *Fake {
	return &Fake{cols: 80, rows: 24}
}

var _ Backend = (*Fake)(nil)

func (f *Fake) Start(onInput func([]byte), onResize func(cols, rows int)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
	f.onInput = onInput
	f.onResize = onResize
	return nil
}

// PauseInput is a no-op: Fake has no background reader goroutine to
// join, so there is nothing to pause ahead of DrainInput/Stop.
func (f *Fake) PauseInput() error { return nil }

func (f *Fake) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = false
	return nil
}

func (f *Fake) DrainInput(maxWait, idleWait time.Duration) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drainCalls++
	return nil
}

// DrainCalls reports how many times DrainInput has been invoked, for
// tests asserting that a caller drains input during teardown. It does
// not record the order of DrainInput relative to other calls.
func (f *Fake) DrainCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.drainCalls
}

func (f *Fake) Write(data []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.Write(data)
}

// Output returns everything written so far.
func (f *Fake) Output() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.out.Bytes()...)
}

func (f *Fake) Columns() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cols
}

func (f *Fake) Rows() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows
}

func (f *Fake) KittyProtocolActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.kitty
}

func (f *Fake) SetKittyProtocolActive(active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kitty = active
}

// Resize updates the fake's reported size and, if started, invokes the
// registered onResize callback — a test's way of simulating SIGWINCH.
func (f *Fake) Resize(cols, rows int) {
	f.mu.Lock()
	f.cols, f.rows = cols, rows
	cb := f.onResize
	started := f.started
	f.mu.Unlock()
	if started && cb != nil {
		cb(cols, rows)
	}
}

// Feed simulates terminal input arriving, invoking the registered
// onInput callback — a test's way of driving the runtime without a
// real tty.
func (f *Fake) Feed(data []byte) {
	f.mu.Lock()
	cb := f.onInput
	started := f.started
	f.mu.Unlock()
	if started && cb != nil {
		cb(data)
	}
}
