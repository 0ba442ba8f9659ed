package explorer

import "context"

// Runner executes effects one at a time on the calling goroutine and
// applies their outcomes, until no follow-up work is left. It serves the
// CLI and tests, where deterministic ordering matters more than overlap.
type Runner struct {
	explorer *Explorer
}

// NewRunner creates a runner that owns e.
func NewRunner(e *Explorer) *Runner {
	return &Runner{explorer: e}
}

// Run drains effects and everything they trigger. It stops at the first
// error returned by Apply or when ctx is done.
func (r *Runner) Run(ctx context.Context, effects ...Effect) error {
	queue := effects
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		eff := queue[0]
		queue = queue[1:]

		next, err := r.explorer.Apply(eff(ctx))
		if err != nil {
			return err
		}
		queue = append(queue, next...)
	}
	return nil
}

// Do runs an interaction that may return effects, then drains them.
func (r *Runner) Do(ctx context.Context, op func(e *Explorer) ([]Effect, error)) error {
	effects, err := op(r.explorer)
	if err != nil {
		return err
	}
	return r.Run(ctx, effects...)
}
