package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keyecho/internal/event"
)

func testClock() func() time.Time {
	return func() time.Time { return time.Unix(1700000000, 0) }
}

func kbd(code int, mods uint8, pressed bool) event.InputEvent {
	return event.InputEvent{
		Channel:   event.ChannelKeyboard,
		Code:      code,
		Modifiers: mods,
		Pressed:   pressed,
		Label:     event.DeriveLabel(event.ChannelKeyboard, code),
	}
}

func mouse(code int, pressed bool) event.InputEvent {
	return event.InputEvent{
		Channel: event.ChannelMouse,
		Code:    code,
		Pressed: pressed,
		Label:   event.DeriveLabel(event.ChannelMouse, code),
	}
}

func TestSession_RecordsInArrivalOrder(t *testing.T) {
	s := NewSessionAt(testClock())
	require.True(t, s.Start("copy-paste", nil))

	seq := []event.InputEvent{
		kbd(8, event.ModCommand, true), kbd(8, event.ModCommand, false),
		kbd(9, event.ModCommand, true), kbd(9, event.ModCommand, false),
	}
	for _, ev := range seq {
		s.Append(ev)
	}

	m := s.Stop()
	require.NotNil(t, m)
	assert.Equal(t, "copy-paste", m.Name)
	require.Len(t, m.Sequence, 4)
	for i := range seq {
		assert.Equal(t, seq[i].Code, m.Sequence[i].Code)
		assert.Equal(t, seq[i].Pressed, m.Sequence[i].Pressed)
	}
}

func TestSession_StartWhileRecordingIsNoOp(t *testing.T) {
	s := NewSessionAt(testClock())
	require.True(t, s.Start("first", nil))
	s.Append(kbd(0, 0, true))

	// A second start must not silently reset the in-progress buffer.
	assert.False(t, s.Start("second", nil))

	m := s.Stop()
	require.NotNil(t, m)
	assert.Equal(t, "first", m.Name)
	assert.Len(t, m.Sequence, 1)
}

func TestSession_StopTrimsTrailingStopClick(t *testing.T) {
	s := NewSessionAt(testClock())
	require.True(t, s.Start("m", nil))
	s.Append(kbd(0, 0, true))
	s.Append(kbd(0, 0, false))
	s.Append(mouse(event.MousePrimary, true)) // the operator's stop click

	m := s.Stop()
	require.NotNil(t, m)
	require.Len(t, m.Sequence, 2, "trailing mouse-primary-down is discarded")
	assert.Equal(t, event.ChannelKeyboard, m.Sequence[1].Channel)
}

func TestSession_TrailingPrimaryUpIsKept(t *testing.T) {
	s := NewSessionAt(testClock())
	require.True(t, s.Start("m", nil))
	s.Append(mouse(event.MousePrimary, true))
	s.Append(mouse(event.MousePrimary, false))

	m := s.Stop()
	require.NotNil(t, m)
	assert.Len(t, m.Sequence, 2, "only a trailing down is the stop-click heuristic")
}

func TestSession_OnlyStopClickYieldsNil(t *testing.T) {
	s := NewSessionAt(testClock())
	require.True(t, s.Start("m", nil))
	s.Append(mouse(event.MousePrimary, true))

	assert.Nil(t, s.Stop(), "empty after trimming yields no macro")
	assert.False(t, s.Recording())
}

func TestSession_EmptyRecordingYieldsNil(t *testing.T) {
	s := NewSessionAt(testClock())
	require.True(t, s.Start("m", nil))
	assert.Nil(t, s.Stop())
}

func TestSession_StopIsIdempotent(t *testing.T) {
	s := NewSessionAt(testClock())
	assert.Nil(t, s.Stop(), "stop while idle yields nil")

	require.True(t, s.Start("m", nil))
	s.Append(kbd(0, 0, true))
	require.NotNil(t, s.Stop())
	assert.Nil(t, s.Stop(), "second stop yields nil")
}

func TestSession_RestartResetsBuffer(t *testing.T) {
	s := NewSessionAt(testClock())
	require.True(t, s.Start("first", nil))
	s.Append(kbd(0, 0, true))
	require.NotNil(t, s.Stop())

	require.True(t, s.Start("second", nil))
	s.Append(kbd(1, 0, true))
	m := s.Stop()
	require.NotNil(t, m)
	require.Len(t, m.Sequence, 1)
	assert.Equal(t, 1, m.Sequence[0].Code)
}

func TestSession_ForwardsToLiveEditCallback(t *testing.T) {
	s := NewSessionAt(testClock())

	var mirrored []event.InputEvent
	require.True(t, s.Start("m", func(ev event.InputEvent) {
		mirrored = append(mirrored, ev)
	}))

	s.Append(kbd(55, 0, true)) // modifier transitions are captured too
	s.Append(kbd(8, event.ModCommand, true))

	require.Len(t, mirrored, 2, "every appended event is mirrored synchronously")
	assert.Equal(t, 55, mirrored[0].Code)
	assert.Equal(t, 8, mirrored[1].Code)
}

func TestSession_AppendWhileIdleIsIgnored(t *testing.T) {
	s := NewSessionAt(testClock())
	s.Append(kbd(0, 0, true))

	require.True(t, s.Start("m", nil))
	s.Append(kbd(1, 0, true))
	m := s.Stop()
	require.NotNil(t, m)
	assert.Len(t, m.Sequence, 1)
}
