package engine

import (
	"github.com/roach88/keyecho/internal/event"
	"github.com/roach88/keyecho/internal/macro"
)

// Match finds the at-most-one macro whose binding matches a live event.
//
// Only call Match for down-phase events, and only when the controller is
// neither recording nor replaying - both conditions are the caller's
// responsibility. A binding's own Pressed phase is never checked.
//
// Matching rule, evaluated in candidate order, first match wins:
//   - binding channel and code must equal the event's
//   - a zero modifier mask is a wildcard: any held modifiers accepted
//   - a non-zero mask requires an exact match with the event's mask
//
// At most one macro fires per qualifying event even when several
// candidates would match; the matcher stops at the first hit by policy.
// Candidate order is whatever order the macro cache happens to hold
// (newest first as listed from storage). When two candidates bind the same
// key with overlapping modifier rules, which one fires depends on that
// incidental order and is non-deterministic across cache refreshes.
func Match(ev event.InputEvent, candidates []*macro.Macro) *macro.Macro {
	for _, m := range candidates {
		b := m.Binding
		if b == nil {
			continue
		}
		if b.Channel != ev.Channel || b.Code != ev.Code {
			continue
		}
		if b.Modifiers == 0 || b.Modifiers == ev.Modifiers {
			return m
		}
	}
	return nil
}
