package platform

import (
	"fmt"

	"github.com/roach88/keyecho/internal/event"
)

// keysyms maps the capture key codes to X keysym names understood by
// xdotool. The code space follows the capture layer's layout table; codes
// absent here cannot be delivered through the xdotool adapters.
var keysyms = map[int]string{
	0:  "a",
	1:  "s",
	2:  "d",
	3:  "f",
	4:  "h",
	5:  "g",
	6:  "z",
	7:  "x",
	8:  "c",
	9:  "v",
	11: "b",
	12: "q",
	13: "w",
	14: "e",
	15: "r",
	16: "y",
	17: "t",
	31: "o",
	32: "u",
	34: "i",
	35: "p",
	37: "l",
	38: "j",
	40: "k",
	45: "n",
	46: "m",

	18: "1",
	19: "2",
	20: "3",
	21: "4",
	22: "6",
	23: "5",
	25: "9",
	26: "7",
	28: "8",
	29: "0",

	36:  "Return",
	48:  "Tab",
	49:  "space",
	51:  "BackSpace",
	53:  "Escape",
	117: "Delete",
	115: "Home",
	119: "End",
	116: "Prior",
	121: "Next",
	123: "Left",
	124: "Right",
	125: "Down",
	126: "Up",
}

// modifierKeysyms maps modifier key codes to their X keysyms for direct
// down/up injection.
var modifierKeysyms = map[int]string{
	54: "Super_R",
	55: "Super_L",
	56: "Shift_L",
	60: "Shift_R",
	58: "Alt_L",
	61: "Alt_R",
	59: "Control_L",
	62: "Control_R",
	57: "Caps_Lock",
}

// keysymFor resolves a keyboard code to an xdotool keysym.
func keysymFor(code int) (string, error) {
	if sym, ok := keysyms[code]; ok {
		return sym, nil
	}
	if sym, ok := modifierKeysyms[code]; ok {
		return sym, nil
	}
	return "", fmt.Errorf("no keysym for key code %d", code)
}

// chordFor builds an xdotool chord string ("ctrl+shift+c") from a modifier
// mask and a base keysym.
func chordFor(mask uint8, sym string) string {
	chord := ""
	if mask&event.ModControl != 0 {
		chord += "ctrl+"
	}
	if mask&event.ModOption != 0 {
		chord += "alt+"
	}
	if mask&event.ModShift != 0 {
		chord += "shift+"
	}
	if mask&event.ModCommand != 0 {
		chord += "super+"
	}
	return chord + sym
}

// buttonFor maps a mouse button code to the xdotool button number.
func buttonFor(code int) (string, error) {
	switch code {
	case event.MousePrimary:
		return "1", nil
	case event.MouseMiddle:
		return "2", nil
	case event.MouseSecondary:
		return "3", nil
	default:
		return "", fmt.Errorf("no button for mouse code %d", code)
	}
}
