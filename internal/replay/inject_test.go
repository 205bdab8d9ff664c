package replay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keyecho/internal/event"
)

// fakeSynth records posted events and can refuse at a given index.
type fakeSynth struct {
	posted   []event.InputEvent
	failAt   int // -1 = never fail
	failWith error
}

func newFakeSynth() *fakeSynth {
	return &fakeSynth{failAt: -1, failWith: errors.New("platform refused event")}
}

func (f *fakeSynth) Post(ctx context.Context, ev event.InputEvent) error {
	if f.failAt >= 0 && len(f.posted) == f.failAt {
		return f.failWith
	}
	f.posted = append(f.posted, ev)
	return nil
}

func copyPasteSequence() []event.InputEvent {
	return []event.InputEvent{
		keyDown(8, event.ModCommand), keyUp(8, event.ModCommand),
		keyDown(9, event.ModCommand), keyUp(9, event.ModCommand),
	}
}

func TestInjector_PreservesOrderAndPhases(t *testing.T) {
	synth := newFakeSynth()
	tier := NewInjector(synth, 0)
	seq := copyPasteSequence()

	require.NoError(t, tier.Attempt(context.Background(), seq))
	require.Len(t, synth.posted, 4, "exactly one synthetic event per recorded event")

	for i := range seq {
		assert.Equal(t, seq[i].Code, synth.posted[i].Code)
		assert.Equal(t, seq[i].Pressed, synth.posted[i].Pressed)
		assert.Equal(t, seq[i].Modifiers, synth.posted[i].Modifiers)
	}
}

func TestInjector_AllOrNothingOnSynthesisFailure(t *testing.T) {
	synth := newFakeSynth()
	synth.failAt = 2
	tier := NewInjector(synth, 0)

	err := tier.Attempt(context.Background(), copyPasteSequence())

	require.Error(t, err)
	assert.True(t, IsSynthesisError(err))

	var se *SynthesisError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Index)
	assert.Len(t, synth.posted, 2, "tier aborts at the refused event")
}

func TestInjector_ContextCancellationAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	synth := newFakeSynth()
	tier := NewInjector(synth, 0)

	err := tier.Attempt(ctx, copyPasteSequence())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, synth.posted)
}
