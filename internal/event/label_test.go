package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveLabel_KeyboardKnownKeys(t *testing.T) {
	testCases := []struct {
		name  string
		code  int
		label string
	}{
		{"letter uppercased", 8, "C"},
		{"another letter", 9, "V"},
		{"digit", 18, "1"},
		{"return symbol", 36, "↩"},
		{"space symbol", 49, "␣"},
		{"arrow", 123, "←"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.label, DeriveLabel(ChannelKeyboard, tc.code))
		})
	}
}

func TestDeriveLabel_ModifierKeyLabelsAsSymbolAlone(t *testing.T) {
	testCases := []struct {
		name  string
		code  int
		label string
	}{
		{"command", 55, "⌘"},
		{"right command", 54, "⌘"},
		{"shift", 56, "⇧"},
		{"control", 59, "⌃"},
		{"option", 58, "⌥"},
		{"fn", 63, "fn"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.label, DeriveLabel(ChannelKeyboard, tc.code))
		})
	}
}

func TestDeriveLabel_UnknownCodesDegrade(t *testing.T) {
	assert.Equal(t, "Key 96", DeriveLabel(ChannelKeyboard, 96))
	assert.Equal(t, "Button 7", DeriveLabel(ChannelMouse, 7))
}

func TestDeriveLabel_MouseOrdinals(t *testing.T) {
	assert.Equal(t, "Primary Click", DeriveLabel(ChannelMouse, MousePrimary))
	assert.Equal(t, "Secondary Click", DeriveLabel(ChannelMouse, MouseSecondary))
	assert.Equal(t, "Middle Click", DeriveLabel(ChannelMouse, MouseMiddle))
}

// Labels must be a pure function of (channel, code): repeated derivation
// always yields the same result, and modifier state never leaks in.
func TestDeriveLabel_Pure(t *testing.T) {
	for _, code := range []int{0, 8, 36, 55, 96, 500} {
		first := DeriveLabel(ChannelKeyboard, code)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, DeriveLabel(ChannelKeyboard, code))
		}
	}
}

func TestDescribeModifiers(t *testing.T) {
	testCases := []struct {
		name string
		mask uint8
		want string
	}{
		{"empty", 0, ""},
		{"shift only", ModShift, "⇧"},
		{"command only", ModCommand, "⌘"},
		{"fixed display order", ModShift | ModControl | ModOption | ModCommand, "⌃⌥⇧⌘"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DescribeModifiers(tc.mask))
		})
	}
}
