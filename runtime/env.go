package runtime

import (
	"os"
	"strings"

	"github.com/Gurpartap/tape-tui/diag"
)

// EnvReader is the port the runtime reads its five environment toggles
// through, mirroring the teacher's OsEnvironmentProvider/EnvironmentProvider
// split: a real adapter backs production use, a map backs tests.
type EnvReader interface {
	Lookup(key string) (string, bool)
}

// OSEnv reads from the process environment via os.LookupEnv.
type OSEnv struct{}

func (OSEnv) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// MapEnv is a fixed-value EnvReader for tests.
type MapEnv map[string]string

func (m MapEnv) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

const (
	envHardwareCursor = "PI_HARDWARE_CURSOR"
	envClearOnShrink  = "PI_CLEAR_ON_SHRINK"
	envWriteLog       = "PI_TUI_WRITE_LOG"
	envDebug          = "PI_TUI_DEBUG"
	envDebugRedraw    = "PI_DEBUG_REDRAW"
)

// EnvConfig is the runtime's environment-derived configuration, read once
// at construction time (spec §7's five env toggles).
type EnvConfig struct {
	HardwareCursor bool
	ClearOnShrink  bool
	WriteLogPath   string
	Debug          bool
	DebugRedraw    bool
}

// LoadEnvConfig reads the five toggles through r, reporting an unknown
// boolean value to sink rather than silently falling back — the caller
// still gets the documented default, but gets to know its environment
// was malformed.
func LoadEnvConfig(r EnvReader, sink diag.Sink) EnvConfig {
	path, _ := r.Lookup(envWriteLog)
	return EnvConfig{
		HardwareCursor: parseBool(r, sink, envHardwareCursor, false),
		ClearOnShrink:  parseBool(r, sink, envClearOnShrink, true),
		WriteLogPath:   path,
		Debug:          parseBool(r, sink, envDebug, false),
		DebugRedraw:    parseBool(r, sink, envDebugRedraw, false),
	}
}

func parseBool(r EnvReader, sink diag.Sink, key string, def bool) bool {
	raw, ok := r.Lookup(key)
	if !ok || raw == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		if sink != nil {
			sink.Report(diag.Event{
				Code:     diag.CodeUnknownEnvValue,
				Severity: diag.SeverityWarning,
				Message:  "unrecognized boolean value, using default",
				Context:  map[string]any{"key": key, "value": raw, "default": def},
			})
		}
		return def
	}
}
