package logging

import "time"

func String(key, value string) Field    { return Field{Key: key, Value: value} }
func Int(key string, value int) Field   { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Error records err under "error". A nil error records a nil value.
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Component(name string) Field { return String("component", name) }

// Explorer fields

// NodeKey identifies a graph node by its key, e.g. "disease-Asthma".
func NodeKey(id string) Field   { return String("node", id) }
func Kind(kind string) Field    { return String("kind", kind) }
func Operation(op string) Field { return String("operation", op) }
func Filters(expr string) Field { return String("filters", expr) }
func Count(n int) Field         { return Int("count", n) }

// Gateway fields

func Endpoint(path string) Field    { return String("endpoint", path) }
func Status(code int) Field         { return Int("status", code) }
func RequestID(id string) Field     { return String("request_id", id) }
func Latency(d time.Duration) Field { return Duration("latency", d) }
