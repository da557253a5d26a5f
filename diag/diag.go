// Package diag implements the structured diagnostics sink of spec §7:
// configuration errors, invalid-id errors, and clamp-and-log renderer
// invariant violations all flow through here instead of panicking.
package diag

import (
	"log"
	"os"
	"sync"
)

// Severity classifies a diagnostic event.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Code identifies the category of a diagnostic event, so a caller can
// filter or count without string-matching Message.
type Code string

const (
	CodeUnknownEnvValue   Code = "unknown_env_value"
	CodeInvalidSurfaceOpt Code = "invalid_surface_option"
	CodeInvalidComponent  Code = "invalid_component_id"
	CodeInvalidSurface    Code = "invalid_surface_id"
	CodeWidthClamped      Code = "width_clamped"
	CodeTerminalIO        Code = "terminal_io"
)

// Event is a single structured diagnostic.
type Event struct {
	Code     Code
	Severity Severity
	Message  string
	Context  map[string]any
}

// Sink receives diagnostic events. Report must never block and must
// never panic — a sink implementation that does either defeats the
// purpose of routing errors away from the render/input hot path.
type Sink interface {
	Report(Event)
}

// stderrSink is the default sink installed when the caller never sets
// one, grounded in the teacher's plain log.Printf("WARNING: ...") usage
// (tea/internal/application/program/tty_control_unix.go) rather than any
// structured-logging library — none appears anywhere in the retrieval
// pack, so stdlib log is the idiomatic match here.
type stderrSink struct {
	mu     sync.Mutex
	logger *log.Logger
}

// NewStderrSink returns the default Sink, which writes one line per
// event to stderr via the standard logger with a fixed prefix.
func NewStderrSink() Sink {
	return &stderrSink{logger: log.New(os.Stderr, "[tape-tui] ", log.LstdFlags)}
}

func (s *stderrSink) Report(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Printf("%s %s: %s %v", e.Severity, e.Code, e.Message, e.Context)
}

// NoopSink discards every event. Useful in tests that don't care about
// diagnostics but must supply a non-nil Sink.
type NoopSink struct{}

func (NoopSink) Report(Event) {}

// CollectingSink records every event it receives, for assertions in
// tests that DO care about diagnostics.
type CollectingSink struct {
	mu     sync.Mutex
	Events []Event
}

func (s *CollectingSink) Report(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, e)
}

func (s *CollectingSink) Snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.Events))
	copy(out, s.Events)
	return out
}
