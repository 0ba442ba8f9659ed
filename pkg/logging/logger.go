package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// New returns a logger writing entries at or above level to out.
func New(out io.Writer, level Level, format Format) *StreamLogger {
	enc := encodeJSON
	if format == FormatText {
		enc = encodeText
	}
	return &StreamLogger{
		out:    out,
		level:  level,
		encode: enc,
		mu:     &sync.Mutex{},
		now:    time.Now,
	}
}

// NewFileLogger appends to path, creating it and its directory as needed.
// The TUI owns the terminal, so an empty path discards logs and returns a
// nil closer.
func NewFileLogger(path string, level Level, format Format) (Logger, io.Closer, error) {
	if path == "" {
		return NewNopLogger(), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level, format), f, nil
}

func (l *StreamLogger) write(level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}
	entry := Entry{Time: l.now(), Level: level, Message: msg}
	if len(l.fields)+len(fields) > 0 {
		entry.Fields = make([]Field, 0, len(l.fields)+len(fields))
		entry.Fields = append(entry.Fields, l.fields...)
		entry.Fields = append(entry.Fields, fields...)
	}

	data, err := l.encode(entry)
	if err != nil {
		data = fmt.Appendf(nil, "%s %s encode log entry: %v\n", entry.Time.Format(time.RFC3339), ErrorLevel, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(data)
}

func (l *StreamLogger) Debug(msg string, fields ...Field) { l.write(DebugLevel, msg, fields) }
func (l *StreamLogger) Info(msg string, fields ...Field)  { l.write(InfoLevel, msg, fields) }
func (l *StreamLogger) Warn(msg string, fields ...Field)  { l.write(WarnLevel, msg, fields) }
func (l *StreamLogger) Error(msg string, fields ...Field) { l.write(ErrorLevel, msg, fields) }

func (l *StreamLogger) Enabled(level Level) bool { return level >= l.level }

func (l *StreamLogger) With(fields ...Field) Logger {
	child := *l
	child.fields = make([]Field, 0, len(l.fields)+len(fields))
	child.fields = append(child.fields, l.fields...)
	child.fields = append(child.fields, fields...)
	return &child
}
