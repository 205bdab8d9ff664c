package replay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/keyecho/internal/event"
)

// Engine executes a macro's event sequence against an ordered list of
// delivery tiers, from most faithful to most permissive.
//
// Tiers execute in strict order. A tier is never retried, tiers are never
// mixed within one replay, and the first successful tier short-circuits the
// rest. Only total failure of every tier surfaces as a failed outcome;
// individual tier failures are recovered by falling through.
//
// The engine itself holds no shared mutable state; re-entrancy control is
// the controller's responsibility.
type Engine struct {
	tiers []Strategy
}

// NewEngine creates an engine with tiers in fallback order.
func NewEngine(tiers ...Strategy) *Engine {
	return &Engine{tiers: tiers}
}

// Replay attempts delivery of the sequence.
//
// An empty sequence is a no-op reported as success-with-nothing-done, not
// an error: no tier runs and no synthetic input is issued.
func (e *Engine) Replay(ctx context.Context, seq []event.InputEvent) Outcome {
	if len(seq) == 0 {
		return Outcome{Status: StatusNoAction}
	}

	var (
		attempted []string
		failures  []error
	)

	for _, tier := range e.tiers {
		attempted = append(attempted, tier.Name())

		err := tier.Attempt(ctx, seq)
		if err == nil {
			slog.Info("replay delivered",
				"tier", tier.Name(),
				"events", len(seq),
			)
			return Outcome{Status: StatusDelivered, Tier: tier.Name(), Attempted: attempted}
		}

		slog.Warn("replay tier failed, falling through",
			"tier", tier.Name(),
			"error", err,
		)
		failures = append(failures, fmt.Errorf("%s: %w", tier.Name(), err))
	}

	slog.Error("replay failed on all tiers", "tiers", attempted)
	return Outcome{
		Status:    StatusFailed,
		Attempted: attempted,
		Err:       errors.Join(failures...),
	}
}

// Tiers returns the configured tier names in order.
// Used for diagnostics and testing.
func (e *Engine) Tiers() []string {
	names := make([]string, len(e.tiers))
	for i, t := range e.tiers {
		names[i] = t.Name()
	}
	return names
}
