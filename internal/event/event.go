package event

import "time"

// Channel identifies the input device class an event came from.
type Channel int

const (
	// ChannelKeyboard is a keyboard key event.
	ChannelKeyboard Channel = iota + 1
	// ChannelMouse is a mouse button event.
	ChannelMouse
)

// String returns the wire name of the channel.
func (c Channel) String() string {
	switch c {
	case ChannelKeyboard:
		return "keyboard"
	case ChannelMouse:
		return "mouse"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler for JSON storage.
func (c Channel) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Unknown names decode to the zero Channel rather than failing; the
// store treats such rows as corrupt and skips them.
func (c *Channel) UnmarshalText(text []byte) error {
	switch string(text) {
	case "keyboard":
		*c = ChannelKeyboard
	case "mouse":
		*c = ChannelMouse
	default:
		*c = 0
	}
	return nil
}

// Modifier bitmask values. A mask is the set of modifiers held at the
// moment an event was captured, independent of the event's own code.
const (
	ModShift   uint8 = 1 << 0
	ModControl uint8 = 1 << 1
	ModOption  uint8 = 1 << 2
	ModCommand uint8 = 1 << 3
)

// Mouse button codes, channel-scoped.
const (
	MousePrimary   = 0
	MouseSecondary = 1
	MouseMiddle    = 2
)

// InputEvent is one captured or replayed input occurrence.
//
// All fields except Token and CapturedAt are part of the event's durable
// identity and survive a store round-trip. Token and CapturedAt exist only
// to tell otherwise-identical simultaneous events apart in live views; they
// are regenerated on decode, never recovered.
//
// InputEvent is immutable after construction. Copies are cheap and safe to
// share across goroutines.
type InputEvent struct {
	Channel   Channel
	Code      int
	Modifiers uint8
	Pressed   bool // true = press/down, false = release/up
	Label     string

	// Token is a locally-unique identity for UI lists. Not persisted.
	Token string
	// CapturedAt is the wall-clock capture time, used only for
	// live-display recency. Not persisted; irrelevant to replay timing.
	CapturedAt time.Time
}

// SameKey reports whether two events refer to the same physical key or
// button, ignoring phase, modifiers and identity.
func (e InputEvent) SameKey(other InputEvent) bool {
	return e.Channel == other.Channel && e.Code == other.Code
}

// IsMousePrimaryDown reports whether the event is a primary mouse button
// press. The recording session uses this to trim the operator's stop click.
func (e InputEvent) IsMousePrimaryDown() bool {
	return e.Channel == ChannelMouse && e.Code == MousePrimary && e.Pressed
}

// IsModifierKey reports whether a keyboard event's own code is a modifier
// key (shift, control, option, command and variants).
func (e InputEvent) IsModifierKey() bool {
	return e.Channel == ChannelKeyboard && isModifierCode(e.Code)
}
