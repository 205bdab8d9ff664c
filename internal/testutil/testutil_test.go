package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keyecho/internal/event"
	"github.com/roach88/keyecho/internal/replay"
)

func TestSteppingClock(t *testing.T) {
	start := time.Unix(1700000000, 0).UTC()
	c := NewSteppingClock(start, time.Second)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start.Add(time.Second), c.Now())

	c.Reset(start)
	assert.Equal(t, start, c.Now(), "reset replays identical timestamps")
}

func TestScriptedSource(t *testing.T) {
	src := &ScriptedSource{Events: []event.Raw{
		{Channel: event.ChannelKeyboard, Code: 8, Pressed: true},
		{Channel: event.ChannelKeyboard, Code: 8, Pressed: false},
	}}

	var got []event.Raw
	err := src.Run(context.Background(), func(raw event.Raw) bool {
		got = append(got, raw)
		return true
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 8, got[0].Code)
}

func TestScriptedSource_SinkStopsEarly(t *testing.T) {
	src := &ScriptedSource{Events: make([]event.Raw, 5)}

	count := 0
	err := src.Run(context.Background(), func(event.Raw) bool {
		count++
		return count < 2
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSynthRecorder(t *testing.T) {
	r := NewSynthRecorder()

	require.NoError(t, r.Post(context.Background(), event.InputEvent{
		Channel: event.ChannelKeyboard, Code: 8, Modifiers: event.ModCommand, Pressed: true,
	}))
	require.NoError(t, r.Keystroke(context.Background(), replay.Keystroke{Code: 9, Modifiers: event.ModCommand}))
	require.NoError(t, r.Tap(context.Background(), event.InputEvent{
		Channel: event.ChannelKeyboard, Code: 0, Pressed: true,
	}))

	assert.Len(t, r.Calls(), 3)
	assert.Len(t, r.CallsOf("post"), 1)
	assert.Len(t, r.CallsOf("keystroke"), 1)

	r.Reset()
	assert.Empty(t, r.Calls())
}

func TestSynthRecorder_ScriptedFailures(t *testing.T) {
	r := NewSynthRecorder()
	r.PostErr = replay.ErrUnsupported
	r.KeystrokeFailCodes = map[int]bool{9: true}

	assert.Error(t, r.Post(context.Background(), event.InputEvent{Channel: event.ChannelKeyboard, Code: 8, Pressed: true}))
	assert.Error(t, r.Keystroke(context.Background(), replay.Keystroke{Code: 9}))
	assert.NoError(t, r.Keystroke(context.Background(), replay.Keystroke{Code: 8}))

	// Failed actions are not recorded.
	assert.Len(t, r.Calls(), 1)
}
