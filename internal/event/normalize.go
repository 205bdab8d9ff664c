package event

import "time"

// Raw is the tuple a capture source delivers for one hardware event.
// It carries no identity or label; Normalize derives those.
type Raw struct {
	Channel   Channel
	Code      int
	Modifiers uint8
	Pressed   bool
}

// Normalizer converts raw platform input tuples into InputEvent values.
//
// Normalize is deterministic given (channel, code, pressed, modifiers):
// the label is a pure function of channel and code, and only the identity
// fields (token, capture time) vary between calls.
//
// Thread-safety: a Normalizer touches no shared mutable state and may be
// called concurrently from any capture goroutine, provided its
// TokenGenerator is itself thread-safe (both provided implementations are).
type Normalizer struct {
	tokens TokenGenerator
	now    func() time.Time
}

// NewNormalizer creates a Normalizer using the given token generator and
// wall-clock time.
func NewNormalizer(tokens TokenGenerator) *Normalizer {
	return &Normalizer{tokens: tokens, now: time.Now}
}

// NewNormalizerAt creates a Normalizer with an injected clock for tests.
func NewNormalizerAt(tokens TokenGenerator, now func() time.Time) *Normalizer {
	return &Normalizer{tokens: tokens, now: now}
}

// Normalize builds an InputEvent from a raw capture tuple.
// No side effects; the returned event is immutable.
func (n *Normalizer) Normalize(raw Raw) InputEvent {
	return InputEvent{
		Channel:    raw.Channel,
		Code:       raw.Code,
		Modifiers:  raw.Modifiers,
		Pressed:    raw.Pressed,
		Label:      DeriveLabel(raw.Channel, raw.Code),
		Token:      n.tokens.Generate(),
		CapturedAt: n.now(),
	}
}
