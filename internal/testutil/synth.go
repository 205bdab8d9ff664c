package testutil

import (
	"context"
	"sync"

	"github.com/roach88/keyecho/internal/event"
	"github.com/roach88/keyecho/internal/replay"
)

// Call is one recorded synthetic-input action.
type Call struct {
	Op        string // "post", "keystroke" or "tap"
	Channel   event.Channel
	Code      int
	Modifiers uint8
	Pressed   bool
}

// SynthRecorder records every synthetic-input action instead of delivering
// it. It satisfies all three replay tier interfaces, with scriptable
// failures so tests can force fallthrough between tiers.
//
// Thread-safe.
type SynthRecorder struct {
	mu    sync.Mutex
	calls []Call

	// PostErr, when non-nil, fails every direct injection (tier 1 aborts).
	PostErr error
	// KeystrokeFailCodes fails scripted keystrokes for the listed key codes.
	KeystrokeFailCodes map[int]bool
	// TapErr, when non-nil, fails every tap (tier 3 delivers nothing).
	TapErr error
}

// NewSynthRecorder creates a recorder that accepts everything.
func NewSynthRecorder() *SynthRecorder {
	return &SynthRecorder{}
}

func (r *SynthRecorder) record(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

// Post implements replay.Synthesizer.
func (r *SynthRecorder) Post(ctx context.Context, ev event.InputEvent) error {
	if r.PostErr != nil {
		return r.PostErr
	}
	r.record(Call{Op: "post", Channel: ev.Channel, Code: ev.Code, Modifiers: ev.Modifiers, Pressed: ev.Pressed})
	return nil
}

// Keystroke implements replay.Automator.
func (r *SynthRecorder) Keystroke(ctx context.Context, ks replay.Keystroke) error {
	if r.KeystrokeFailCodes[ks.Code] {
		return replay.ErrUnsupported
	}
	r.record(Call{Op: "keystroke", Channel: event.ChannelKeyboard, Code: ks.Code, Modifiers: ks.Modifiers, Pressed: true})
	return nil
}

// Tap implements replay.Dispatcher.
func (r *SynthRecorder) Tap(ctx context.Context, ev event.InputEvent) error {
	if r.TapErr != nil {
		return r.TapErr
	}
	r.record(Call{Op: "tap", Channel: ev.Channel, Code: ev.Code, Modifiers: ev.Modifiers, Pressed: true})
	return nil
}

// Calls returns a snapshot of everything recorded so far.
func (r *SynthRecorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallsOf returns the recorded calls for one op.
func (r *SynthRecorder) CallsOf(op string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears the recording.
func (r *SynthRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
