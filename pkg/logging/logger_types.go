package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Level represents a log level
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	// WarnLevel covers recoverable conditions such as stale outcomes or
	// missing nodes in lenient mode
	WarnLevel
	// ErrorLevel covers failed fetches the user has to retry
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name in any case. Unknown names map to
// InfoLevel; config validation rejects them before they get here.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Format selects how entries are encoded.
type Format string

const (
	FormatJSON Format = "json"
	// FormatText writes one key=value line per entry
	FormatText Format = "text"
)

// ParseFormat converts a format name. The empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown log format %q", s)
	}
}

// Field is a key-value pair attached to an entry
type Field struct {
	Key   string
	Value any
}

// Logger is the structured logger every package receives.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child logger that prepends fields to every entry
	With(fields ...Field) Logger
	// Enabled reports whether entries at level would be written
	Enabled(level Level) bool
}

// Entry is one log record before encoding.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Fields  []Field
}

type encoder func(e Entry) ([]byte, error)

// StreamLogger writes encoded entries to an io.Writer.
// Children created by With share the parent's writer lock.
type StreamLogger struct {
	out    io.Writer
	level  Level
	encode encoder
	fields []Field
	mu     *sync.Mutex
	now    func() time.Time
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field)   {}
func (NopLogger) Info(string, ...Field)    {}
func (NopLogger) Warn(string, ...Field)    {}
func (NopLogger) Error(string, ...Field)   {}
func (n NopLogger) With(...Field) Logger   { return n }
func (NopLogger) Enabled(level Level) bool { return false }

func NewNopLogger() Logger { return NopLogger{} }

// TimedOperation logs an operation with its latency when it ends.
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}
