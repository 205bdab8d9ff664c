package replay

import (
	"context"
	"log/slog"

	"github.com/roach88/keyecho/internal/event"
)

// Keystroke is one higher-level "type this key with these modifiers held"
// action derived from a down/up pair.
type Keystroke struct {
	Code      int
	Modifiers uint8
	Label     string
}

// Automator issues keystroke actions through a platform scripting or
// automation facility. Less faithful than direct injection but available
// under more restrictive runtime conditions.
type Automator interface {
	Keystroke(ctx context.Context, ks Keystroke) error
}

// Scripter is tier 2: scripted keystroke automation.
//
// It re-derives keystroke actions from the recorded sequence and issues
// them one at a time. Unlike tier 1, a failed action is logged and counted
// but never aborts the remaining actions; the tier reports overall success
// only if every derived action succeeded.
type Scripter struct {
	auto Automator
}

// NewScripter creates the scripted automation tier.
func NewScripter(auto Automator) *Scripter {
	return &Scripter{auto: auto}
}

// Name implements Strategy.
func (s *Scripter) Name() string { return "script" }

// Attempt implements Strategy.
func (s *Scripter) Attempt(ctx context.Context, seq []event.InputEvent) error {
	actions := DeriveKeystrokes(seq)
	if len(actions) == 0 {
		return ErrUnsupported
	}

	failed := 0
	for i, ks := range actions {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.auto.Keystroke(ctx, ks); err != nil {
			// Per-action failure: log and continue with the rest.
			slog.Warn("keystroke action failed",
				"index", i,
				"code", ks.Code,
				"error", err,
			)
			failed++
		}
	}

	if failed > 0 {
		return &ActionsError{Failed: failed, Total: len(actions)}
	}
	return nil
}

// DeriveKeystrokes scans a sequence for keyboard down events and pairs each
// with its nearest following up event of the same code. Orphaned downs with
// no matching up still produce a single action. Each pairing consumes the
// up event so it cannot pair twice.
//
// Modifier-key transitions and mouse events produce no actions: modifier
// state travels in each keystroke's mask, and mouse input has no scripted
// equivalent.
func DeriveKeystrokes(seq []event.InputEvent) []Keystroke {
	paired := make([]bool, len(seq))
	var actions []Keystroke

	for i, ev := range seq {
		if !ev.Pressed || ev.Channel != event.ChannelKeyboard || ev.IsModifierKey() {
			continue
		}

		// Pair with the nearest following unconsumed up of the same code.
		for j := i + 1; j < len(seq); j++ {
			if !paired[j] && !seq[j].Pressed && seq[j].Channel == event.ChannelKeyboard && seq[j].Code == ev.Code {
				paired[j] = true
				break
			}
		}

		actions = append(actions, Keystroke{
			Code:      ev.Code,
			Modifiers: ev.Modifiers,
			Label:     ev.Label,
		})
	}

	return actions
}
