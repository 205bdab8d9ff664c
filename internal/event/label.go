package event

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// upper uppercases single-character key symbols for display.
// cases.Caser is not safe for concurrent use, so each call takes a fresh
// caser; label derivation is cheap and happens once per event.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// modifierSymbols maps modifier key codes to their display symbol.
// Left and right variants share a symbol.
var modifierSymbols = map[int]string{
	54: "⌘", // right command
	55: "⌘",
	56: "⇧",
	57: "⇪", // caps lock
	58: "⌥",
	59: "⌃",
	60: "⇧", // right shift
	61: "⌥", // right option
	62: "⌃", // right control
	63: "fn",
}

// keySymbols maps common hardware key codes to display symbols.
// This is intentionally a partial table: unknown codes degrade to a generic
// "Key <code>" label instead of failing. The full mapping lives with the
// presentation layer.
var keySymbols = map[int]string{
	0: "a", 1: "s", 2: "d", 3: "f", 4: "h", 5: "g",
	6: "z", 7: "x", 8: "c", 9: "v", 11: "b",
	12: "q", 13: "w", 14: "e", 15: "r", 16: "y", 17: "t",
	31: "o", 32: "u", 34: "i", 35: "p", 37: "l", 38: "j",
	40: "k", 45: "n", 46: "m",
	18: "1", 19: "2", 20: "3", 21: "4", 22: "6", 23: "5",
	25: "9", 26: "7", 28: "8", 29: "0",
	24: "=", 27: "-", 30: "]", 33: "[", 39: "'", 41: ";",
	42: "\\", 43: ",", 44: "/", 47: ".", 50: "`",
	36:  "↩", // return
	48:  "⇥", // tab
	49:  "␣", // space
	51:  "⌫", // delete
	53:  "⎋", // escape
	123: "←", 124: "→", 125: "↓", 126: "↑",
}

// isModifierCode reports whether a keyboard code is itself a modifier key.
func isModifierCode(code int) bool {
	_, ok := modifierSymbols[code]
	return ok
}

// DeriveLabel computes the human-readable label for an event.
//
// The result is a pure function of (channel, code): two events with the same
// channel and code always get the same label, regardless of modifier mask,
// phase or identity fields. Held modifiers are rendered separately by
// consumers, so non-modifier key labels carry no modifier annotation.
//
// Keyboard: a modifier key labels as its symbol alone; a known key labels as
// its plain symbol, uppercased when it is a single character; anything else
// degrades to "Key <code>". Mouse: a canned ordinal per button, degrading to
// "Button <code>".
func DeriveLabel(channel Channel, code int) string {
	switch channel {
	case ChannelKeyboard:
		if sym, ok := modifierSymbols[code]; ok {
			return sym
		}
		if sym, ok := keySymbols[code]; ok {
			if len([]rune(sym)) == 1 {
				return upper(sym)
			}
			return sym
		}
		return fmt.Sprintf("Key %d", code)

	case ChannelMouse:
		switch code {
		case MousePrimary:
			return "Primary Click"
		case MouseSecondary:
			return "Secondary Click"
		case MouseMiddle:
			return "Middle Click"
		default:
			return fmt.Sprintf("Button %d", code)
		}

	default:
		return fmt.Sprintf("Key %d", code)
	}
}

// DescribeModifiers renders a modifier mask as a symbol string, in the
// fixed display order control, option, shift, command. Empty mask renders
// as the empty string.
func DescribeModifiers(mask uint8) string {
	var out string
	if mask&ModControl != 0 {
		out += "⌃"
	}
	if mask&ModOption != 0 {
		out += "⌥"
	}
	if mask&ModShift != 0 {
		out += "⇧"
	}
	if mask&ModCommand != 0 {
		out += "⌘"
	}
	return out
}
