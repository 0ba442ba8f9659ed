package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var fixedTime = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func newTestLogger(buf *bytes.Buffer, level Level, format Format) *StreamLogger {
	l := New(buf, level, format)
	l.now = func() time.Time { return fixedTime }
	return l
}

func decode(t *testing.T, line string) jsonEntry {
	t.Helper()
	var e jsonEntry
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		t.Fatalf("unmarshal %q: %v", line, err)
	}
	return e
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"Info", InfoLevel},
		{"warn", WarnLevel},
		{"WARNING", WarnLevel},
		{"error", ErrorLevel},
		{"loud", InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
	if got := Level(42).String(); got != "UNKNOWN" {
		t.Errorf("Level(42).String() = %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatJSON, "json": FormatJSON, "TEXT": FormatText} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestJSONEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, DebugLevel, FormatJSON)

	logger.Info("expand", NodeKey("category-infections"), Count(3), Bool("clicked", true))

	e := decode(t, strings.TrimSpace(buf.String()))
	if e.Level != "INFO" || e.Message != "expand" {
		t.Errorf("entry = %+v", e)
	}
	if e.Time != fixedTime.Format(time.RFC3339Nano) {
		t.Errorf("time = %q", e.Time)
	}
	if e.Fields["node"] != "category-infections" || e.Fields["count"] != float64(3) || e.Fields["clicked"] != true {
		t.Errorf("fields = %v", e.Fields)
	}
}

func TestJSONOmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	newTestLogger(&buf, InfoLevel, FormatJSON).Info("initialized")

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["fields"]; ok {
		t.Error("fields key should be omitted when empty")
	}
}

func TestTextEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, DebugLevel, FormatText)

	logger.Warn("node missing", NodeKey("disease-Sepsis"), Filters("p:<:0.05 and odds_ratio:>:2"), Error(nil))

	want := `2024-03-01T12:30:00Z WARN  "node missing" node=disease-Sepsis filters="p:<:0.05 and odds_ratio:>:2" error=<nil>` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("text entry\n got %q\nwant %q", got, want)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, WarnLevel, FormatJSON)

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d entries, want 2", len(lines))
	}
	if decode(t, lines[0]).Level != "WARN" || decode(t, lines[1]).Level != "ERROR" {
		t.Errorf("levels = %s", buf.String())
	}
	if logger.Enabled(InfoLevel) || !logger.Enabled(ErrorLevel) {
		t.Error("Enabled disagrees with the configured level")
	}
	if NewNopLogger().Enabled(ErrorLevel) {
		t.Error("nop logger reports enabled")
	}
}

func TestWithPrependsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, InfoLevel, FormatText)
	child := logger.With(Component("gateway"))
	grandchild := child.With(RequestID("r1"))

	logger.Info("parent")
	grandchild.Info("child", Endpoint("/api/get-info/"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d entries, want 2", len(lines))
	}
	if strings.Contains(lines[0], "component=") {
		t.Errorf("parent picked up child fields: %s", lines[0])
	}
	if !strings.HasSuffix(lines[1], "child component=gateway request_id=r1 endpoint=/api/get-info/") {
		t.Errorf("child entry = %s", lines[1])
	}
}

func TestLaterFieldOverridesInJSON(t *testing.T) {
	var buf bytes.Buffer
	newTestLogger(&buf, InfoLevel, FormatJSON).With(Kind("category")).Info("x", Kind("disease"))

	if got := decode(t, strings.TrimSpace(buf.String())).Fields["kind"]; got != "disease" {
		t.Errorf("kind = %v, want disease", got)
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, DebugLevel, FormatJSON)

	StartTimer(logger, "fetch", Endpoint("/api/graph-data/")).End(Status(200))
	StartTimer(logger, "fetch", Endpoint("/api/get-info/")).EndError(errors.New("connection refused"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d entries, want 2", len(lines))
	}

	ok := decode(t, lines[0])
	if ok.Level != "DEBUG" || ok.Message != "fetch" || ok.Fields["status"] != float64(200) {
		t.Errorf("End entry = %+v", ok)
	}
	if _, has := ok.Fields["latency"]; !has {
		t.Error("End entry missing latency")
	}

	failed := decode(t, lines[1])
	if failed.Level != "ERROR" || failed.Message != "fetch failed" || failed.Fields["error"] != "connection refused" {
		t.Errorf("EndError entry = %+v", failed)
	}
}

func TestFieldConstructors(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"Duration", Duration("timeout", 5*time.Second), "timeout", "5s"},
		{"Error", Error(errors.New("boom")), "error", "boom"},
		{"NodeKey", NodeKey("allele-A_01"), "node", "allele-A_01"},
		{"Operation", Operation("navigate"), "operation", "navigate"},
		{"Status", Status(502), "status", 502},
		{"Latency", Latency(time.Millisecond), "latency", "1ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("%s = %+v, want {%s %v}", tt.name, tt.field, tt.key, tt.value)
			}
		})
	}
}

func TestNewFileLogger(t *testing.T) {
	t.Run("empty path discards", func(t *testing.T) {
		logger, closer, err := NewFileLogger("", DebugLevel, FormatJSON)
		if err != nil || closer != nil {
			t.Fatalf("NewFileLogger(\"\") = %v, %v", closer, err)
		}
		if _, ok := logger.(NopLogger); !ok {
			t.Errorf("logger = %T, want NopLogger", logger)
		}
	})

	t.Run("appends to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "explorer.log")
		for i := 0; i < 2; i++ {
			logger, closer, err := NewFileLogger(path, InfoLevel, FormatText)
			if err != nil {
				t.Fatal(err)
			}
			logger.Info("started")
			if err := closer.Close(); err != nil {
				t.Fatal(err)
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if n := strings.Count(string(data), "started"); n != 2 {
			t.Errorf("file has %d entries, want 2", n)
		}
	})
}
