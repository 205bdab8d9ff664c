package macro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keyecho/internal/event"
)

func TestNew_CreatesEmptyMacro(t *testing.T) {
	now := time.Unix(1700000000, 0)
	m := New("copy-paste", now)

	require.NotEmpty(t, m.ID)
	assert.Equal(t, "copy-paste", m.Name)
	assert.True(t, m.Empty())
	assert.False(t, m.HasBinding())
	assert.Equal(t, now, m.CreatedAt)
}

func TestValidName(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		valid bool
	}{
		{"plain name", "My Macro", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"trimmed nonempty", " x ", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidName(tc.input))
		})
	}
}

func TestBindingLabel(t *testing.T) {
	m := New("m", time.Now())
	assert.Equal(t, "", m.BindingLabel())

	m.Binding = &event.InputEvent{
		Channel:   event.ChannelKeyboard,
		Code:      9,
		Modifiers: event.ModCommand | event.ModShift,
		Label:     event.DeriveLabel(event.ChannelKeyboard, 9),
	}
	assert.Equal(t, "⇧⌘V", m.BindingLabel())
}
