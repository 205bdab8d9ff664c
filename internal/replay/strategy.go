package replay

import (
	"context"

	"github.com/roach88/keyecho/internal/event"
)

// Strategy is one delivery tier: a single way of pushing an event sequence
// into the OS input subsystem.
//
// Tiers are interchangeable behind this interface so the engine can iterate
// an ordered list and each tier can be unit-tested with fake sinks. Attempt
// returns nil only when the tier delivered the whole sequence by its own
// standard of fidelity; any error means the engine falls through to the
// next tier.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, seq []event.InputEvent) error
}

// Status classifies the overall result of a replay.
type Status int

const (
	// StatusDelivered means one tier delivered the sequence.
	StatusDelivered Status = iota + 1
	// StatusNoAction means the sequence was empty; success with nothing done.
	StatusNoAction
	// StatusFailed means every tier failed.
	StatusFailed
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusDelivered:
		return "delivered"
	case StatusNoAction:
		return "no-action"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome reports how a replay ended.
type Outcome struct {
	Status Status
	// Tier is the name of the tier that delivered, empty otherwise.
	Tier string
	// Attempted lists the tiers tried, in order.
	Attempted []string
	// Err aggregates per-tier failures when Status is StatusFailed.
	Err error
}

// Success reports whether the replay ended without overall failure.
// An empty-sequence no-action outcome counts as success.
func (o Outcome) Success() bool {
	return o.Status != StatusFailed
}
