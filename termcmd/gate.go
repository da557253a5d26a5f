package termcmd

import (
	"bytes"
	"fmt"
	"os"
	"sync"
)

// singleWriteThreshold and streamChunkSize implement the flush strategy
// from spec §4.4: encode into one buffer under the threshold, otherwise
// stream through a bounded working buffer.
const (
	singleWriteThreshold = 64 * 1024
	streamChunkSize      = 16 * 1024
	directWriteThreshold = 16 * 1024 // large RawBytes payloads bypass the working buffer when streaming
)

// Writer is the minimal surface a terminal backend must expose to the
// gate: a single Write call. Implemented by *os.File for the Unix
// backend and by any test double.
type Writer interface {
	Write(p []byte) (int, error)
}

// Gate is the single serialization point for everything the kernel
// writes to the terminal. The runtime and diff renderer route 100% of
// their output through a Gate; nothing else in the kernel writes to the
// terminal.
type Gate struct {
	mu       sync.Mutex
	cmds     []Cmd
	writeLog *os.File // PI_TUI_WRITE_LOG mirror, nil when unset
}

// New creates an empty Gate. writeLogPath, if non-empty, is opened for
// append and every flushed byte buffer is mirrored to it — the
// PI_TUI_WRITE_LOG diagnostic aid from spec §6.
func New(writeLogPath string) (*Gate, error) {
	g := &Gate{}
	if writeLogPath != "" {
		f, err := os.OpenFile(writeLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("termcmd: open write log: %w", err)
		}
		g.writeLog = f
	}
	return g, nil
}

// Push appends cmd to the pending command list.
func (g *Gate) Push(cmd Cmd) {
	g.mu.Lock()
	g.cmds = append(g.cmds, cmd)
	g.mu.Unlock()
}

// PushAll appends a batch of commands, preserving order.
func (g *Gate) PushAll(cmds []Cmd) {
	g.mu.Lock()
	g.cmds = append(g.cmds, cmds...)
	g.mu.Unlock()
}

// Pending reports the number of commands waiting to be flushed.
func (g *Gate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.cmds)
}

// Flush drains the pending command list to w, choosing a single buffered
// write when the conservative size estimate fits under 64 KiB and
// streaming through a 16 KiB working buffer otherwise. On the streamed
// path, RawBytes payloads of 16 KiB or more are written through directly
// so they are never copied into the working buffer; the single-write
// path copies every payload into its one buffer.
func (g *Gate) Flush(w Writer) error {
	g.mu.Lock()
	cmds := g.cmds
	g.cmds = nil
	g.mu.Unlock()

	if len(cmds) == 0 {
		return nil
	}

	total := 0
	for _, c := range cmds {
		total += c.encodedLenUpperBound()
	}

	var err error
	if total <= singleWriteThreshold {
		err = g.flushSingle(w, cmds)
	} else {
		err = g.flushStreamed(w, cmds)
	}
	if err != nil {
		return fmt.Errorf("termcmd: flush: %w", err)
	}
	return nil
}

func (g *Gate) flushSingle(w Writer, cmds []Cmd) error {
	var buf bytes.Buffer
	for _, c := range cmds {
		buf.Write(c.Encode())
	}
	return g.writeThrough(w, buf.Bytes())
}

func (g *Gate) flushStreamed(w Writer, cmds []Cmd) error {
	var working bytes.Buffer
	flushWorking := func() error {
		if working.Len() == 0 {
			return nil
		}
		if err := g.writeThrough(w, working.Bytes()); err != nil {
			return err
		}
		working.Reset()
		return nil
	}

	for _, c := range cmds {
		if c.Kind == RawBytes && len(c.Bytes) >= directWriteThreshold {
			if err := flushWorking(); err != nil {
				return err
			}
			if err := g.writeThrough(w, c.Bytes); err != nil {
				return err
			}
			continue
		}
		enc := c.Encode()
		working.Write(enc)
		if working.Len() >= streamChunkSize {
			if err := flushWorking(); err != nil {
				return err
			}
		}
	}
	return flushWorking()
}

func (g *Gate) writeThrough(w Writer, b []byte) error {
	if g.writeLog != nil {
		_, _ = g.writeLog.Write(b)
	}
	_, err := w.Write(b)
	return err
}

// Close releases the write-log file handle, if any.
func (g *Gate) Close() error {
	if g.writeLog == nil {
		return nil
	}
	return g.writeLog.Close()
}
