package replay

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/keyecho/internal/event"
)

// DefaultTapDelay is the fixed spacing between best-effort taps. Larger
// than the tier-1 delay because the permissive delivery path is slower to
// settle.
const DefaultTapDelay = 60 * time.Millisecond

// Dispatcher delivers a best-effort tap - a synthesized down and, after a
// short internal delay, a synthesized up - through the most permissive
// available injection path.
type Dispatcher interface {
	Tap(ctx context.Context, ev event.InputEvent) error
}

// Tapper is tier 3: the best-effort fallback.
//
// It replays down-phase events only; up phases are dropped and synthesized
// by the dispatcher. This tier is inherently lossy - it cannot reproduce
// held-key or chorded sequences - and exists only to maximize the chance
// that something happens under restrictive runtime conditions. Per-tap
// failures are logged and skipped; the tier fails only when nothing at all
// was delivered.
type Tapper struct {
	disp  Dispatcher
	delay time.Duration
}

// NewTapper creates the best-effort tier. A non-positive delay disables
// spacing (used by tests).
func NewTapper(disp Dispatcher, delay time.Duration) *Tapper {
	return &Tapper{disp: disp, delay: delay}
}

// Name implements Strategy.
func (t *Tapper) Name() string { return "tap" }

// Attempt implements Strategy.
func (t *Tapper) Attempt(ctx context.Context, seq []event.InputEvent) error {
	attempted, delivered := 0, 0

	for _, ev := range seq {
		if !ev.Pressed {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		attempted++
		if err := t.disp.Tap(ctx, ev); err != nil {
			slog.Warn("best-effort tap failed",
				"code", ev.Code,
				"channel", ev.Channel.String(),
				"error", err,
			)
			continue
		}
		delivered++

		if t.delay > 0 {
			time.Sleep(t.delay)
		}
	}

	if attempted == 0 || delivered == 0 {
		return ErrUnsupported
	}
	return nil
}
