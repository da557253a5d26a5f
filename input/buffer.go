// Package input turns a raw terminal byte stream into framed events:
// complete escape sequences, bracketed-paste blocks, and plain text runs.
// It never interprets a sequence's meaning — that's the key package's job.
package input

import (
	"time"
)

// EventKind tags the variant carried by an Event.
type EventKind int

const (
	EventData EventKind = iota
	EventPaste
)

// Event is the framed output of Buffer.Feed: either a run of complete
// byte sequences ready for the key parser, or the inner text of a
// bracketed-paste block.
type Event struct {
	Kind EventKind
	Data []byte // EventData: one or more complete sequences
	Text string // EventPaste: the pasted text, paste markers stripped
}

const (
	pasteStart = "\x1b[200~"
	pasteEnd   = "\x1b[201~"

	// DefaultIdleTimeout is the default partial-sequence flush window
	// (spec §4.2: "configurable", aliased as Timeout/IdleMs).
	DefaultIdleTimeout = 10 * time.Millisecond
)

// Buffer is the input framing state machine. It is not safe for
// concurrent use; the runtime owns a single Buffer fed from its one
// input-reading goroutine.
type Buffer struct {
	// Timeout is the idle-flush window; IdleMs is the same value in
	// milliseconds, kept in sync so callers can use either name
	// (spec §4.2: "exposes a configurable idle timeout aliased as
	// timeout and idle_ms").
	Timeout time.Duration

	pending    []byte
	inPaste    bool
	pasteBuf   []byte
	lastPartial time.Time
}

// NewBuffer creates a Buffer with the default idle timeout.
func NewBuffer() *Buffer {
	return &Buffer{Timeout: DefaultIdleTimeout}
}

// IdleMs returns Timeout in milliseconds.
func (b *Buffer) IdleMs() int64 { return b.Timeout.Milliseconds() }

// SetIdleMs sets Timeout from a millisecond count.
func (b *Buffer) SetIdleMs(ms int64) { b.Timeout = time.Duration(ms) * time.Millisecond }

// Feed consumes raw terminal bytes and returns zero or more framed
// events. A byte run that completes one or more escape sequences (or
// plain printable bytes) yields an EventData; a complete bracketed-paste
// block yields a single EventPaste once ESC [ 201 ~ is seen.
func (b *Buffer) Feed(raw []byte) []Event {
	b.pending = append(b.pending, rewriteHighBit(raw)...)

	var events []Event
	for {
		ev, consumed, ok := b.frameOne()
		if !ok {
			break
		}
		if consumed == 0 {
			break
		}
		if ev != nil {
			events = append(events, *ev)
		}
	}
	if len(b.pending) > 0 {
		b.lastPartial = time.Now()
	}
	return events
}

// rewriteHighBit rewrites a lone high-bit byte (>= 0x80) as ESC + (byte -
// 0x80), letting legacy meta-modified keys parse (spec §4.2).
func rewriteHighBit(raw []byte) []byte {
	if len(raw) != 1 || raw[0] < 0x80 {
		return raw
	}
	return []byte{0x1B, raw[0] - 0x80}
}

// frameOne attempts to extract a single framed unit from b.pending. ok is
// false when more bytes are needed.
func (b *Buffer) frameOne() (ev *Event, consumed int, ok bool) {
	if len(b.pending) == 0 {
		return nil, 0, false
	}

	if b.inPaste {
		return b.consumePaste()
	}

	if idx := indexPasteStart(b.pending); idx == 0 {
		b.pending = b.pending[len(pasteStart):]
		b.inPaste = true
		b.pasteBuf = b.pasteBuf[:0]
		return nil, len(pasteStart), true
	}

	// Find the longest run of complete, non-paste-start sequences at the
	// front of pending, stopping before an incomplete trailing sequence
	// or the start of a paste block.
	end := 0
	for end < len(b.pending) {
		if startsWith(b.pending[end:], pasteStart) {
			break
		}
		seqEnd, complete := sequenceEnd(b.pending[end:])
		if !complete {
			break
		}
		end += seqEnd
	}

	if end > 0 {
		data := make([]byte, end)
		copy(data, b.pending[:end])
		b.pending = b.pending[end:]
		return &Event{Kind: EventData, Data: data}, end, true
	}

	// Nothing complete yet. Flush as-is if the partial sequence has aged
	// past Timeout.
	if !b.lastPartial.IsZero() && time.Since(b.lastPartial) >= b.Timeout {
		data := b.pending
		b.pending = nil
		b.lastPartial = time.Time{}
		return &Event{Kind: EventData, Data: data}, len(data), true
	}
	return nil, 0, false
}

func (b *Buffer) consumePaste() (ev *Event, consumed int, ok bool) {
	idx := indexOf(b.pending, pasteEnd)
	if idx < 0 {
		b.pasteBuf = append(b.pasteBuf, b.pending...)
		n := len(b.pending)
		b.pending = nil
		return nil, n, n > 0
	}
	b.pasteBuf = append(b.pasteBuf, b.pending[:idx]...)
	n := idx + len(pasteEnd)
	b.pending = b.pending[n:]
	b.inPaste = false
	text := string(b.pasteBuf)
	b.pasteBuf = nil
	return &Event{Kind: EventPaste, Text: text}, n, true
}

// Tick lets the runtime's idle wait drive the 10 ms partial-sequence
// flush even when no new bytes have arrived, by re-checking the idle
// deadline against the wall clock. Returns nil when nothing is due.
func (b *Buffer) Tick() *Event {
	if len(b.pending) == 0 || b.lastPartial.IsZero() {
		return nil
	}
	if time.Since(b.lastPartial) < b.Timeout {
		return nil
	}
	return b.FlushPartial()
}

// FlushPartial force-flushes any partial sequence regardless of age.
// Tick calls it once the idle deadline has passed.
func (b *Buffer) FlushPartial() *Event {
	if len(b.pending) == 0 {
		return nil
	}
	data := b.pending
	b.pending = nil
	b.lastPartial = time.Time{}
	return &Event{Kind: EventData, Data: data}
}

// HasPending reports whether the buffer is holding an unflushed partial
// sequence or an in-progress paste block.
func (b *Buffer) HasPending() bool {
	return len(b.pending) > 0 || b.inPaste
}
