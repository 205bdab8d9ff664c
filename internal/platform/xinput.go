package platform

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/roach88/keyecho/internal/event"
)

// XInput captures live input by streaming `xinput test-xi2 --root` and
// parsing its raw event records. X keycodes are translated into the
// engine's code space; keys outside the translation table are dropped.
type XInput struct {
	// Tool is the xinput binary; defaults to "xinput" on PATH.
	Tool string
}

// NewXInput creates a capture source using xinput from PATH.
func NewXInput() *XInput {
	return &XInput{Tool: "xinput"}
}

// X raw event type numbers from XI2.
const (
	xiRawKeyPress      = 13
	xiRawKeyRelease    = 14
	xiRawButtonPress   = 15
	xiRawButtonRelease = 16
)

// X modifier-state bits (the "effective" mask).
const (
	xModShift   = 1 << 0
	xModControl = 1 << 2
	xModAlt     = 1 << 3
	xModSuper   = 1 << 6
)

// evdevToCode translates X keycodes (evdev scancode + 8) into the engine's
// key code space. Mirrors the keysym table in reverse.
var evdevToCode = map[int]int{
	38: 0, 39: 1, 40: 2, 41: 3, 43: 4, 42: 5, // a s d f h g
	52: 6, 53: 7, 54: 8, 55: 9, 56: 11, // z x c v b
	24: 12, 25: 13, 26: 14, 27: 15, 29: 16, 28: 17, // q w e r y t
	32: 31, 30: 32, 31: 34, 33: 35, 46: 37, // o u i p l
	44: 38, 45: 40, 57: 45, 58: 46, // j k n m

	10: 18, 11: 19, 12: 20, 13: 21, 15: 22, 14: 23, // 1 2 3 4 6 5
	18: 25, 16: 26, 17: 28, 19: 29, // 9 7 8 0

	36: 36, 23: 48, 65: 49, 22: 51, 9: 53, // Return Tab space BackSpace Escape
	119: 117, 110: 115, 115: 119, 112: 116, 117: 121, // Delete Home End Prior Next
	113: 123, 114: 124, 116: 125, 111: 126, // Left Right Down Up

	50: 56, 62: 60, 64: 58, 108: 61, // Shift_L Shift_R Alt_L Alt_R
	37: 59, 105: 62, 133: 55, 134: 54, 66: 57, // Control_L Control_R Super_L Super_R Caps
}

// xButtonToCode translates X button numbers to the mouse code space.
var xButtonToCode = map[int]int{
	1: event.MousePrimary,
	2: event.MouseMiddle,
	3: event.MouseSecondary,
}

// Run streams raw events until the context is cancelled, the sink refuses
// an event, or the xinput process exits.
func (x *XInput) Run(ctx context.Context, sink func(event.Raw) bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, x.Tool, "test-xi2", "--root")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("xinput stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start xinput: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	var (
		eventType int
		detail    int
		haveEvent bool
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "EVENT type "):
			eventType = parseEventType(line)
			detail = -1
			haveEvent = eventType >= xiRawKeyPress && eventType <= xiRawButtonRelease

		case haveEvent && strings.HasPrefix(line, "detail:"):
			detail, _ = strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "detail:")))

		case haveEvent && strings.HasPrefix(line, "modifiers:"):
			// The modifiers line is the last field we need; emit here.
			raw, ok := translate(eventType, detail, parseEffectiveMask(line))
			haveEvent = false
			if !ok {
				continue
			}
			if !sink(raw) {
				cancel()
				_ = cmd.Wait()
				return nil
			}
		}
	}

	if err := cmd.Wait(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("xinput exited: %w", err)
	}
	return ctx.Err()
}

// translate converts one parsed XI2 record to an engine raw tuple.
func translate(eventType, detail int, mask uint8) (event.Raw, bool) {
	switch eventType {
	case xiRawKeyPress, xiRawKeyRelease:
		code, ok := evdevToCode[detail]
		if !ok {
			return event.Raw{}, false
		}
		return event.Raw{
			Channel:   event.ChannelKeyboard,
			Code:      code,
			Modifiers: mask,
			Pressed:   eventType == xiRawKeyPress,
		}, true

	case xiRawButtonPress, xiRawButtonRelease:
		code, ok := xButtonToCode[detail]
		if !ok {
			return event.Raw{}, false
		}
		return event.Raw{
			Channel:   event.ChannelMouse,
			Code:      code,
			Modifiers: mask,
			Pressed:   eventType == xiRawButtonPress,
		}, true
	}
	return event.Raw{}, false
}

// parseEventType extracts N from "EVENT type N (RawKeyPress)".
func parseEventType(line string) int {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0
	}
	n, _ := strconv.Atoi(fields[2])
	return n
}

// parseEffectiveMask extracts the effective modifier state from a line like
// "modifiers: locked 0 latched 0 base 0x4 effective 0x4" and folds it into
// the engine's four-bit mask.
func parseEffectiveMask(line string) uint8 {
	fields := strings.Fields(line)
	for i := 0; i < len(fields)-1; i++ {
		if fields[i] == "effective" {
			v, err := strconv.ParseUint(strings.TrimPrefix(fields[i+1], "0x"), 16, 32)
			if err != nil {
				return 0
			}
			var mask uint8
			if v&xModShift != 0 {
				mask |= event.ModShift
			}
			if v&xModControl != 0 {
				mask |= event.ModControl
			}
			if v&xModAlt != 0 {
				mask |= event.ModOption
			}
			if v&xModSuper != 0 {
				mask |= event.ModCommand
			}
			return mask
		}
	}
	return 0
}
