package workflow

import (
	"context"
	"fmt"
	"log/slog"
)

// Executor drives a turn through the step graph. Steps name their
// successors, so the graph is implicit in the outcomes; the executor
// enforces the step budget and the registry boundary.
type Executor struct {
	registry *Registry
	maxSteps int
	logger   *slog.Logger
}

// NewExecutor creates an executor over the given registry.
func NewExecutor(registry *Registry, cfg Config, logger *slog.Logger) *Executor {
	return &Executor{
		registry: registry,
		maxSteps: cfg.MaxSteps,
		logger:   logger.With("system", "workflow"),
	}
}

// Run executes steps starting at start until one returns a terminal
// outcome. Exceeding the step budget returns ErrRoutingLoopExceeded.
func (e *Executor) Run(ctx context.Context, t *Turn, start string) (Outcome, error) {
	current := start

	for range e.maxSteps {
		fn, ok := e.registry.Lookup(current)
		if !ok {
			return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownStep, current)
		}

		e.logger.DebugContext(ctx, "executing step", "step", current, "session", t.Session.ID)

		out, err := fn(ctx, t)
		if err != nil {
			return Outcome{}, fmt.Errorf("step %s: %w", current, err)
		}

		if out.Terminal() {
			return out, nil
		}

		current = out.next
	}

	return Outcome{}, fmt.Errorf("%w: budget %d starting at %s", ErrRoutingLoopExceeded, e.maxSteps, start)
}
