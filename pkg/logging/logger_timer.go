package logging

import "time"

// StartTimer begins timing an operation. fields are attached to the
// final entry.
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{logger: logger, msg: msg, start: time.Now(), fields: fields}
}

func (t *TimedOperation) Elapsed() time.Duration { return time.Since(t.start) }

// End logs the operation at debug level with its latency.
func (t *TimedOperation) End(fields ...Field) {
	t.logger.Debug(t.msg, t.collect(fields)...)
}

// EndError logs the operation as failed with its latency.
func (t *TimedOperation) EndError(err error, fields ...Field) {
	t.logger.Error(t.msg+" failed", t.collect(append(fields, Error(err)))...)
}

func (t *TimedOperation) collect(extra []Field) []Field {
	all := make([]Field, 0, len(t.fields)+len(extra)+1)
	all = append(all, t.fields...)
	all = append(all, extra...)
	return append(all, Latency(t.Elapsed()))
}
