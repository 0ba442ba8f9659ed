// Package health reports whether the explorer process is alive and whether
// the PheWAS backend it depends on is reachable.
package health

import (
	"context"
	"time"
)

// DefaultTimeout bounds a whole round of checks.
const DefaultTimeout = 3 * time.Second

// NewChecker creates a checker. A timeout of 0 uses DefaultTimeout.
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{
		liveChecks:  make(map[string]CheckFunc),
		readyChecks: make(map[string]CheckFunc),
		started:     time.Now(),
		timeout:     timeout,
	}
}

// RegisterLivenessCheck registers a check of the process itself.
func (c *Checker) RegisterLivenessCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.liveChecks[name] = check
}

// RegisterReadinessCheck registers a check of a dependency.
func (c *Checker) RegisterReadinessCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readyChecks[name] = check
}

// CheckLiveness runs the liveness checks.
func (c *Checker) CheckLiveness(ctx context.Context) Response {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.perform(ctx, c.liveChecks)
}

// CheckReadiness runs the readiness checks.
func (c *Checker) CheckReadiness(ctx context.Context) Response {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.perform(ctx, c.readyChecks)
}

func (c *Checker) perform(ctx context.Context, checks map[string]CheckFunc) Response {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp := Response{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make(map[string]Check, len(checks)),
		Uptime:    time.Since(c.started),
	}
	for name, fn := range checks {
		start := time.Now()
		check := fn(ctx)
		check.Name = name
		check.Duration = time.Since(start)
		check.LastChecked = start
		resp.Checks[name] = check

		// Worst status wins
		switch {
		case check.Status == StatusUnhealthy:
			resp.Status = StatusUnhealthy
		case check.Status == StatusDegraded && resp.Status != StatusUnhealthy:
			resp.Status = StatusDegraded
		}
	}
	return resp
}
