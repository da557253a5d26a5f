package termcmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWireSequences(t *testing.T) {
	assert.Equal(t, []byte("\x1b[?2026h"), SyncUpdateOn().Encode())
	assert.Equal(t, []byte("\x1b[?2026l"), SyncUpdateOff().Encode())
	assert.Equal(t, []byte("\x1b[?2004h"), PasteOn().Encode())
	assert.Equal(t, []byte("\x1b[?2004l"), PasteOff().Encode())
	assert.Equal(t, []byte("\x1b[>7u"), EnableKitty().Encode())
	assert.Equal(t, []byte("\x1b[<u"), DisableKitty().Encode())
	assert.Equal(t, []byte("\x1b[?u"), QueryKittySupport().Encode())
	assert.Equal(t, []byte("\x1b[3J\x1b[2J\x1b[H"), ClearWholeScreen().Encode())
	assert.Equal(t, []byte("\x1b[12G"), Col(12).Encode())
	assert.Equal(t, []byte("\x1b[3A"), Up(3).Encode())
}

func TestGateFlushSingleWrite(t *testing.T) {
	g, err := New("")
	require.NoError(t, err)
	g.Push(SyncUpdateOn())
	g.PushAll([]Cmd{RawString("hello"), SyncUpdateOff()})

	var buf bytes.Buffer
	require.NoError(t, g.Flush(&buf))
	assert.Equal(t, "\x1b[?2026hhello\x1b[?2026l", buf.String())
	assert.Equal(t, 0, g.Pending())
}

func TestGateFlushStreamsLargePayload(t *testing.T) {
	g, err := New("")
	require.NoError(t, err)
	big := bytes.Repeat([]byte("x"), singleWriteThreshold+1)
	g.Push(Raw(big))

	var buf bytes.Buffer
	require.NoError(t, g.Flush(&buf))
	assert.Equal(t, big, buf.Bytes())
}
