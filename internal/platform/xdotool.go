package platform

import (
	"context"
	"fmt"

	"github.com/roach88/keyecho/internal/event"
	"github.com/roach88/keyecho/internal/replay"
)

// Xdo delivers synthetic input through the xdotool binary. It satisfies
// all three replay tier interfaces: Post injects raw down/up transitions,
// Keystroke types modifier chords, and Tap presses single keys.
type Xdo struct {
	// Tool is the xdotool binary; defaults to "xdotool" on PATH.
	Tool string
}

// NewXdo creates an adapter using xdotool from PATH.
func NewXdo() *Xdo {
	return &Xdo{Tool: "xdotool"}
}

// Post injects one raw input transition, preserving the event's phase.
func (x *Xdo) Post(ctx context.Context, ev event.InputEvent) error {
	switch ev.Channel {
	case event.ChannelKeyboard:
		sym, err := keysymFor(ev.Code)
		if err != nil {
			return fmt.Errorf("%w: %v", replay.ErrUnsupported, err)
		}
		verb := "keyup"
		if ev.Pressed {
			verb = "keydown"
		}
		return run(ctx, x.Tool, verb, sym)

	case event.ChannelMouse:
		button, err := buttonFor(ev.Code)
		if err != nil {
			return fmt.Errorf("%w: %v", replay.ErrUnsupported, err)
		}
		verb := "mouseup"
		if ev.Pressed {
			verb = "mousedown"
		}
		return run(ctx, x.Tool, verb, button)

	default:
		return fmt.Errorf("%w: channel %d", replay.ErrUnsupported, ev.Channel)
	}
}

// Keystroke types one complete key action with its modifier chord.
func (x *Xdo) Keystroke(ctx context.Context, ks replay.Keystroke) error {
	sym, err := keysymFor(ks.Code)
	if err != nil {
		return fmt.Errorf("%w: %v", replay.ErrUnsupported, err)
	}
	return run(ctx, x.Tool, "key", chordFor(ks.Modifiers, sym))
}

// Tap presses a single key or button without modifiers.
func (x *Xdo) Tap(ctx context.Context, ev event.InputEvent) error {
	switch ev.Channel {
	case event.ChannelKeyboard:
		sym, err := keysymFor(ev.Code)
		if err != nil {
			return fmt.Errorf("%w: %v", replay.ErrUnsupported, err)
		}
		return run(ctx, x.Tool, "key", sym)

	case event.ChannelMouse:
		button, err := buttonFor(ev.Code)
		if err != nil {
			return fmt.Errorf("%w: %v", replay.ErrUnsupported, err)
		}
		return run(ctx, x.Tool, "click", button)

	default:
		return fmt.Errorf("%w: channel %d", replay.ErrUnsupported, ev.Channel)
	}
}
