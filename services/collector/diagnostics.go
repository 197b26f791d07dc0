package collector

import (
	"sync"

	"github.com/rs/zerolog"
)

// Level classifies a diagnostic event.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
)

func (l Level) String() string {
	if l == LevelWarning {
		return "warning"
	}
	return "info"
}

// Diagnostic is a single non-fatal resolution event: a skipped pattern, an
// empty directory, a glob that matched nothing. Fatal conditions are returned
// as errors, never emitted here.
type Diagnostic struct {
	Level    Level
	Artifact string
	Pattern  string
	Message  string
}

// Sink receives diagnostics. Implementations must be safe for concurrent use.
type Sink interface {
	Emit(d Diagnostic)
}

// LogSink adapts diagnostics onto a zerolog logger.
type LogSink struct {
	Logger zerolog.Logger
}

func (s LogSink) Emit(d Diagnostic) {
	evt := s.Logger.Info()
	if d.Level == LevelWarning {
		evt = s.Logger.Warn()
	}
	if d.Artifact != "" {
		evt = evt.Str("artifact", d.Artifact)
	}
	if d.Pattern != "" {
		evt = evt.Str("pattern", d.Pattern)
	}
	evt.Msg(d.Message)
}

// Recorder collects diagnostics in memory, mostly for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Diagnostic
}

func (r *Recorder) Emit(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, d)
}

// Events returns a copy of everything emitted so far.
func (r *Recorder) Events() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.events))
	copy(out, r.events)
	return out
}

// Warnings returns only the warning-level events.
func (r *Recorder) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Events() {
		if d.Level == LevelWarning {
			out = append(out, d)
		}
	}
	return out
}
