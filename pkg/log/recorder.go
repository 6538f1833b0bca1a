package log

import "sync"

// Level identifies the severity of a recorded entry.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelNotice
	LevelWarn
	LevelError
	LevelFatal
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelNotice:
		return "notice"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Entry is a single message captured by a Recorder.
type Entry struct {
	Level   Level
	Message string
	Fields  []Field
}

// Recorder implements Logger by keeping every message in memory.
// It is safe for concurrent use and is intended for tests.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(level Level, msg string, fields []Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg, Fields: fields})
}

// Debug records a debug-level message.
func (r *Recorder) Debug(msg string, fields ...Field) { r.record(LevelDebug, msg, fields) }

// Info records an info-level message.
func (r *Recorder) Info(msg string, fields ...Field) { r.record(LevelInfo, msg, fields) }

// Notice records a notice-level message.
func (r *Recorder) Notice(msg string, fields ...Field) { r.record(LevelNotice, msg, fields) }

// Warn records a warning-level message.
func (r *Recorder) Warn(msg string, fields ...Field) { r.record(LevelWarn, msg, fields) }

// Error records an error-level message.
func (r *Recorder) Error(msg string, fields ...Field) { r.record(LevelError, msg, fields) }

// Fatal records a fatal-level message.
func (r *Recorder) Fatal(msg string, fields ...Field) { r.record(LevelFatal, msg, fields) }

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]Entry, len(r.entries))
	copy(cp, r.entries)
	return cp
}

// Count returns how many entries were recorded at the given level.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Reset discards all recorded entries.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}
