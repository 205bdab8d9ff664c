package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/keyecho/internal/event"
	"github.com/roach88/keyecho/internal/replay"
)

// OSA delivers scripted keystrokes through osascript and System Events.
// Keyboard only; mouse events are unsupported and fall through to the
// next tier.
type OSA struct {
	// Tool is the osascript binary; defaults to "osascript" on PATH.
	Tool string
}

// NewOSA creates an adapter using osascript from PATH.
func NewOSA() *OSA {
	return &OSA{Tool: "osascript"}
}

// Keystroke types one complete key action via System Events.
func (o *OSA) Keystroke(ctx context.Context, ks replay.Keystroke) error {
	script := fmt.Sprintf("tell application \"System Events\" to key code %d", ks.Code)
	if using := osaModifiers(ks.Modifiers); using != "" {
		script += " using {" + using + "}"
	}
	return run(ctx, o.Tool, "-e", script)
}

// Tap presses a single key without modifiers.
func (o *OSA) Tap(ctx context.Context, ev event.InputEvent) error {
	if ev.Channel != event.ChannelKeyboard {
		return fmt.Errorf("%w: channel %s", replay.ErrUnsupported, ev.Channel)
	}
	script := fmt.Sprintf("tell application \"System Events\" to key code %d", ev.Code)
	return run(ctx, o.Tool, "-e", script)
}

// osaModifiers renders a modifier mask as a System Events "using" list.
func osaModifiers(mask uint8) string {
	var parts []string
	if mask&event.ModControl != 0 {
		parts = append(parts, "control down")
	}
	if mask&event.ModOption != 0 {
		parts = append(parts, "option down")
	}
	if mask&event.ModShift != 0 {
		parts = append(parts, "shift down")
	}
	if mask&event.ModCommand != 0 {
		parts = append(parts, "command down")
	}
	return strings.Join(parts, ", ")
}
