package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Gurpartap/tape-tui/diag"
)

func TestLoadEnvConfigDefaults(t *testing.T) {
	cfg := LoadEnvConfig(MapEnv{}, diag.NoopSink{})
	assert.False(t, cfg.HardwareCursor)
	assert.True(t, cfg.ClearOnShrink)
	assert.Empty(t, cfg.WriteLogPath)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.DebugRedraw)
}

func TestLoadEnvConfigParsesTruthyValues(t *testing.T) {
	cfg := LoadEnvConfig(MapEnv{
		"PI_HARDWARE_CURSOR": "1",
		"PI_CLEAR_ON_SHRINK": "false",
		"PI_TUI_WRITE_LOG":   "/tmp/tape-tui.log",
		"PI_TUI_DEBUG":       "yes",
		"PI_DEBUG_REDRAW":    "On",
	}, diag.NoopSink{})

	assert.True(t, cfg.HardwareCursor)
	assert.False(t, cfg.ClearOnShrink)
	assert.Equal(t, "/tmp/tape-tui.log", cfg.WriteLogPath)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.DebugRedraw)
}

func TestLoadEnvConfigUnknownValueReportsAndFallsBack(t *testing.T) {
	sink := &diag.CollectingSink{}
	cfg := LoadEnvConfig(MapEnv{"PI_TUI_DEBUG": "maybe"}, sink)

	assert.False(t, cfg.Debug)
	events := sink.Snapshot()
	if assert.Len(t, events, 1) {
		assert.Equal(t, diag.CodeUnknownEnvValue, events[0].Code)
	}
}
