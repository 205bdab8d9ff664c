package replay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keyecho/internal/event"
)

// fakeAutomator records keystrokes and can fail on chosen codes.
type fakeAutomator struct {
	issued    []Keystroke
	failCodes map[int]bool
}

func (f *fakeAutomator) Keystroke(ctx context.Context, ks Keystroke) error {
	if f.failCodes[ks.Code] {
		return errors.New("automation failure")
	}
	f.issued = append(f.issued, ks)
	return nil
}

func modDown(code int) event.InputEvent {
	return event.InputEvent{
		Channel: event.ChannelKeyboard,
		Code:    code,
		Pressed: true,
		Label:   event.DeriveLabel(event.ChannelKeyboard, code),
	}
}

func mouseDown() event.InputEvent {
	return event.InputEvent{
		Channel: event.ChannelMouse,
		Code:    event.MousePrimary,
		Pressed: true,
		Label:   event.DeriveLabel(event.ChannelMouse, event.MousePrimary),
	}
}

func TestDeriveKeystrokes_PairsDownsWithNearestUp(t *testing.T) {
	seq := copyPasteSequence()

	actions := DeriveKeystrokes(seq)
	require.Len(t, actions, 2)
	assert.Equal(t, 8, actions[0].Code)
	assert.Equal(t, event.ModCommand, actions[0].Modifiers)
	assert.Equal(t, 9, actions[1].Code)
}

func TestDeriveKeystrokes_OrphanedDownIsSingleAction(t *testing.T) {
	seq := []event.InputEvent{
		keyDown(8, 0), // no matching up
		keyDown(9, 0), keyUp(9, 0),
	}

	actions := DeriveKeystrokes(seq)
	require.Len(t, actions, 2)
	assert.Equal(t, 8, actions[0].Code)
	assert.Equal(t, 9, actions[1].Code)
}

// Repeated downs of the same code must each pair with their own up: an up
// event is consumed by exactly one down.
func TestDeriveKeystrokes_UpConsumedOnce(t *testing.T) {
	seq := []event.InputEvent{
		keyDown(8, 0), keyUp(8, 0),
		keyDown(8, 0), keyUp(8, 0),
	}

	actions := DeriveKeystrokes(seq)
	assert.Len(t, actions, 2)
}

func TestDeriveKeystrokes_SkipsModifierTransitionsAndMouse(t *testing.T) {
	seq := []event.InputEvent{
		modDown(55), // command down
		keyDown(8, event.ModCommand), keyUp(8, event.ModCommand),
		mouseDown(),
	}

	actions := DeriveKeystrokes(seq)
	require.Len(t, actions, 1)
	assert.Equal(t, 8, actions[0].Code)
}

func TestScripter_AllActionsSucceed(t *testing.T) {
	auto := &fakeAutomator{}
	tier := NewScripter(auto)

	require.NoError(t, tier.Attempt(context.Background(), copyPasteSequence()))
	assert.Len(t, auto.issued, 2)
}

// A failed action is logged and skipped, never aborting the rest; the tier
// still reports overall failure so the engine can fall through.
func TestScripter_PartialFailureContinuesButFailsOverall(t *testing.T) {
	auto := &fakeAutomator{failCodes: map[int]bool{8: true}}
	tier := NewScripter(auto)

	err := tier.Attempt(context.Background(), copyPasteSequence())

	var ae *ActionsError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 1, ae.Failed)
	assert.Equal(t, 2, ae.Total)
	require.Len(t, auto.issued, 1, "remaining actions still run after a failure")
	assert.Equal(t, 9, auto.issued[0].Code)
}

func TestScripter_NothingDerivableIsUnsupported(t *testing.T) {
	tier := NewScripter(&fakeAutomator{})
	err := tier.Attempt(context.Background(), []event.InputEvent{mouseDown()})
	assert.ErrorIs(t, err, ErrUnsupported)
}
