package replay

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/keyecho/internal/event"
)

// DefaultInjectDelay is the fixed inter-event delay for direct injection.
// Replay uses fixed delays, not recorded capture deltas.
const DefaultInjectDelay = 25 * time.Millisecond

// Synthesizer constructs and delivers a single synthetic hardware-level
// event, with the event's modifier mask translated into the platform's
// modifier representation. The highest-privilege delivery variant.
type Synthesizer interface {
	Post(ctx context.Context, ev event.InputEvent) error
}

// Injector is tier 1: direct synthetic injection.
//
// It replays every event in recorded order, both down and up phases, each
// as a discrete synthetic input separated by a small fixed delay. The tier
// is all-or-nothing at macro granularity: if the platform refuses to
// construct any single event, the whole tier aborts and the engine falls
// through to the next tier. Events already posted are not undone.
type Injector struct {
	synth Synthesizer
	delay time.Duration
}

// NewInjector creates the direct injection tier. A non-positive delay
// disables inter-event spacing (used by tests).
func NewInjector(synth Synthesizer, delay time.Duration) *Injector {
	return &Injector{synth: synth, delay: delay}
}

// Name implements Strategy.
func (j *Injector) Name() string { return "inject" }

// Attempt implements Strategy.
func (j *Injector) Attempt(ctx context.Context, seq []event.InputEvent) error {
	for i, ev := range seq {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := j.synth.Post(ctx, ev); err != nil {
			// All-or-nothing: a single synthesis failure aborts the tier.
			return &SynthesisError{Index: i, Code: ev.Code, Err: err}
		}

		slog.Debug("synthetic event posted",
			"index", i,
			"channel", ev.Channel.String(),
			"code", ev.Code,
			"pressed", ev.Pressed,
		)

		if j.delay > 0 && i < len(seq)-1 {
			time.Sleep(j.delay)
		}
	}
	return nil
}
