package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type jsonEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// encodeJSON writes one object per line. A later field with the same key
// overrides an earlier one.
func encodeJSON(e Entry) ([]byte, error) {
	je := jsonEntry{
		Time:    e.Time.Format(time.RFC3339Nano),
		Level:   e.Level.String(),
		Message: e.Message,
	}
	if len(e.Fields) > 0 {
		je.Fields = make(map[string]any, len(e.Fields))
		for _, f := range e.Fields {
			je.Fields[f.Key] = f.Value
		}
	}
	data, err := json.Marshal(je)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// encodeText writes "time LEVEL msg key=value ..." keeping field order.
func encodeText(e Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(e.Time.Format(time.RFC3339))
	b.WriteByte(' ')
	fmt.Fprintf(&b, "%-5s ", e.Level)
	b.WriteString(quoteIfNeeded(e.Message))
	for _, f := range e.Fields {
		b.WriteByte(' ')
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(quoteIfNeeded(textValue(f.Value)))
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func textValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
