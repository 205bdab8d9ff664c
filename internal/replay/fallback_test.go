package replay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keyecho/internal/event"
)

// fakeDispatcher records taps and can fail on chosen codes.
type fakeDispatcher struct {
	taps      []event.InputEvent
	failCodes map[int]bool
}

func (f *fakeDispatcher) Tap(ctx context.Context, ev event.InputEvent) error {
	if f.failCodes[ev.Code] {
		return errors.New("dispatch failed")
	}
	f.taps = append(f.taps, ev)
	return nil
}

func TestTapper_ReplaysDownPhasesOnly(t *testing.T) {
	disp := &fakeDispatcher{}
	tier := NewTapper(disp, 0)

	require.NoError(t, tier.Attempt(context.Background(), copyPasteSequence()))
	require.Len(t, disp.taps, 2, "up phases are dropped")
	assert.Equal(t, 8, disp.taps[0].Code)
	assert.Equal(t, 9, disp.taps[1].Code)
	assert.True(t, disp.taps[0].Pressed)
}

func TestTapper_PartialDeliveryStillSucceeds(t *testing.T) {
	disp := &fakeDispatcher{failCodes: map[int]bool{8: true}}
	tier := NewTapper(disp, 0)

	// Best-effort: one failed tap does not fail the tier as long as
	// something was delivered.
	require.NoError(t, tier.Attempt(context.Background(), copyPasteSequence()))
	require.Len(t, disp.taps, 1)
	assert.Equal(t, 9, disp.taps[0].Code)
}

func TestTapper_NothingDeliveredFails(t *testing.T) {
	disp := &fakeDispatcher{failCodes: map[int]bool{8: true, 9: true}}
	tier := NewTapper(disp, 0)

	err := tier.Attempt(context.Background(), copyPasteSequence())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestTapper_NoDownEventsFails(t *testing.T) {
	tier := NewTapper(&fakeDispatcher{}, 0)
	err := tier.Attempt(context.Background(), []event.InputEvent{keyUp(8, 0)})
	assert.ErrorIs(t, err, ErrUnsupported)
}
