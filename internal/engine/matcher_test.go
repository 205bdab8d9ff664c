package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keyecho/internal/event"
	"github.com/roach88/keyecho/internal/macro"
)

func boundMacro(name string, channel event.Channel, code int, mods uint8) *macro.Macro {
	m := macro.New(name, time.Unix(1700000000, 0))
	m.Binding = &event.InputEvent{
		Channel:   channel,
		Code:      code,
		Modifiers: mods,
		Pressed:   true,
		Label:     event.DeriveLabel(channel, code),
	}
	return m
}

func TestMatch_WildcardModifierMask(t *testing.T) {
	// Mask 0 is a wildcard: any held modifiers are accepted.
	candidates := []*macro.Macro{boundMacro("m", event.ChannelKeyboard, 96, 0)}

	testCases := []struct {
		name string
		mods uint8
	}{
		{"no modifiers", 0},
		{"shift held", event.ModShift},
		{"chord held", event.ModCommand | event.ModOption},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ev := kbd(96, tc.mods, true)
			assert.Same(t, candidates[0], Match(ev, candidates))
		})
	}
}

func TestMatch_NonZeroMaskRequiresExactMatch(t *testing.T) {
	candidates := []*macro.Macro{boundMacro("m", event.ChannelKeyboard, 0, event.ModCommand)}

	assert.Nil(t, Match(kbd(0, 0, true), candidates), "bare key must not match a ⌘-bound macro")
	assert.Nil(t, Match(kbd(0, event.ModCommand|event.ModShift, true), candidates), "superset mask is not exact")
	assert.NotNil(t, Match(kbd(0, event.ModCommand, true), candidates))
}

func TestMatch_ChannelAndCodeMustMatch(t *testing.T) {
	candidates := []*macro.Macro{boundMacro("m", event.ChannelKeyboard, 96, 0)}

	assert.Nil(t, Match(kbd(97, 0, true), candidates))
	assert.Nil(t, Match(mouse(96, true), candidates), "same code on another channel must not match")
}

func TestMatch_UnboundMacrosAreSkipped(t *testing.T) {
	unbound := macro.New("unbound", time.Now())
	bound := boundMacro("bound", event.ChannelKeyboard, 96, 0)

	got := Match(kbd(96, 0, true), []*macro.Macro{unbound, bound})
	assert.Same(t, bound, got)
}

// With overlapping bindings the first candidate in cache order wins; at
// most one macro fires per event.
func TestMatch_FirstMatchWins(t *testing.T) {
	first := boundMacro("first", event.ChannelKeyboard, 96, 0)
	second := boundMacro("second", event.ChannelKeyboard, 96, 0)

	got := Match(kbd(96, event.ModShift, true), []*macro.Macro{first, second})
	require.NotNil(t, got)
	assert.Same(t, first, got)
}

func TestMatch_MouseBinding(t *testing.T) {
	candidates := []*macro.Macro{boundMacro("m", event.ChannelMouse, event.MouseMiddle, 0)}
	assert.NotNil(t, Match(mouse(event.MouseMiddle, true), candidates))
	assert.Nil(t, Match(mouse(event.MousePrimary, true), candidates))
}

func TestMatch_NoCandidates(t *testing.T) {
	assert.Nil(t, Match(kbd(96, 0, true), nil))
}
