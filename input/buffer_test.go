package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedPlainBytes(t *testing.T) {
	b := NewBuffer()
	events := b.Feed([]byte("ab"))
	require.Len(t, events, 1)
	assert.Equal(t, EventData, events[0].Kind)
	assert.Equal(t, []byte("ab"), events[0].Data)
}

func TestFeedBracketedPaste(t *testing.T) {
	b := NewBuffer()
	events := b.Feed([]byte("\x1b[200~hi\x1b[201~"))
	require.Len(t, events, 1)
	assert.Equal(t, EventPaste, events[0].Kind)
	assert.Equal(t, "hi", events[0].Text)
}

func TestFeedPasteSplitAcrossCalls(t *testing.T) {
	b := NewBuffer()
	events := b.Feed([]byte("\x1b[200~hel"))
	assert.Empty(t, events)
	events = b.Feed([]byte("lo\x1b[201~"))
	require.Len(t, events, 1)
	assert.Equal(t, "hello", events[0].Text)
}

func TestFeedCompleteCSISequence(t *testing.T) {
	b := NewBuffer()
	events := b.Feed([]byte("\x1b[A"))
	require.Len(t, events, 1)
	assert.Equal(t, []byte("\x1b[A"), events[0].Data)
}

func TestPartialSequenceFlushesAfterIdle(t *testing.T) {
	b := NewBuffer()
	b.Timeout = time.Millisecond
	events := b.Feed([]byte("\x1b["))
	assert.Empty(t, events)
	time.Sleep(5 * time.Millisecond)
	ev := b.Tick()
	require.NotNil(t, ev)
	assert.Equal(t, []byte("\x1b["), ev.Data)
}

func TestHighBitByteRewritten(t *testing.T) {
	b := NewBuffer()
	events := b.Feed([]byte{0x80 + 'c'})
	require.Len(t, events, 1)
	assert.Equal(t, []byte{0x1B, 'c'}, events[0].Data)
}

func TestFeedOSCTerminatedByBEL(t *testing.T) {
	b := NewBuffer()
	events := b.Feed([]byte("\x1b]0;title\x07"))
	require.Len(t, events, 1)
	assert.Equal(t, []byte("\x1b]0;title\x07"), events[0].Data)
}

func TestFeedOSCTerminatedByST(t *testing.T) {
	b := NewBuffer()
	events := b.Feed([]byte("\x1b]0;title\x1b\\"))
	require.Len(t, events, 1)
	assert.Equal(t, []byte("\x1b]0;title\x1b\\"), events[0].Data)
}

func TestFeedOSCSplitAcrossST(t *testing.T) {
	b := NewBuffer()
	events := b.Feed([]byte("\x1b]0;tit"))
	assert.Empty(t, events)
	events = b.Feed([]byte("le\x1b\\"))
	require.Len(t, events, 1)
	assert.Equal(t, []byte("\x1b]0;title\x1b\\"), events[0].Data)
}
