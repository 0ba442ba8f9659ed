package health

import (
	"context"
	"time"
)

// AliveCheck always reports healthy.
func AliveCheck(ctx context.Context) Check {
	return Check{Status: StatusHealthy, Message: "Running"}
}

// BackendCheck reports the backend unhealthy when ping fails and degraded
// when it answers slower than slow.
func BackendCheck(ping func(ctx context.Context) error, slow time.Duration) CheckFunc {
	return func(ctx context.Context) Check {
		start := time.Now()
		err := ping(ctx)
		latency := time.Since(start)

		check := Check{Details: map[string]any{"latency_ms": latency.Milliseconds()}}
		switch {
		case err != nil:
			check.Status = StatusUnhealthy
			check.Message = err.Error()
		case slow > 0 && latency > slow:
			check.Status = StatusDegraded
			check.Message = "Backend responding slowly"
		default:
			check.Status = StatusHealthy
			check.Message = "Backend reachable"
		}
		return check
	}
}
