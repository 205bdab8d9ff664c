package testutil

import (
	"context"

	"github.com/roach88/keyecho/internal/event"
)

// ScriptedSource is a capture source that replays a fixed list of raw
// tuples into the sink, then returns. Implements platform.CaptureSource.
type ScriptedSource struct {
	Events []event.Raw
}

// Run feeds every scripted event to sink in order. Stops early if the
// context is cancelled or the sink refuses an event.
func (s *ScriptedSource) Run(ctx context.Context, sink func(event.Raw) bool) error {
	for _, raw := range s.Events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !sink(raw) {
			return nil
		}
	}
	return nil
}
