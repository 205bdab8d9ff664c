package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// wireEvent is the storage representation of an InputEvent.
//
// Token and CapturedAt are deliberately absent: they are not part of the
// durable identity of an event. A decoded InputEvent always gets a freshly
// generated token and a fresh capture time, never the original's.
type wireEvent struct {
	Channel   Channel `json:"channel"`
	Code      int     `json:"code"`
	Modifiers uint8   `json:"modifiers"`
	Pressed   bool    `json:"pressed"`
	Label     string  `json:"label"`
}

// decodeTokens generates identity tokens for decoded events.
var decodeTokens TokenGenerator = UUIDGenerator{}

// MarshalJSON encodes only the persisted fields.
func (e InputEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEvent{
		Channel:   e.Channel,
		Code:      e.Code,
		Modifiers: e.Modifiers,
		Pressed:   e.Pressed,
		Label:     e.Label,
	})
}

// UnmarshalJSON decodes the persisted fields and assigns a fresh identity.
func (e *InputEvent) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode input event: %w", err)
	}
	*e = InputEvent{
		Channel:    w.Channel,
		Code:       w.Code,
		Modifiers:  w.Modifiers,
		Pressed:    w.Pressed,
		Label:      w.Label,
		Token:      decodeTokens.Generate(),
		CapturedAt: time.Now(),
	}
	return nil
}

// EncodeSequence serializes an event sequence to JSON TEXT for storage.
// A nil or empty sequence encodes as "[]" so storage never holds NULL
// sequences for live-edited macros.
func EncodeSequence(seq []InputEvent) (string, error) {
	if len(seq) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(seq)
	if err != nil {
		return "", fmt.Errorf("encode sequence: %w", err)
	}
	return string(data), nil
}

// DecodeSequence parses JSON TEXT back into an event sequence,
// preserving order. Every decoded event carries a fresh identity token.
func DecodeSequence(data string) ([]InputEvent, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var seq []InputEvent
	if err := json.Unmarshal([]byte(data), &seq); err != nil {
		return nil, fmt.Errorf("decode sequence: %w", err)
	}
	return seq, nil
}

// EncodeBinding serializes an optional trigger binding. Nil encodes as the
// empty string, which the store maps to NULL.
func EncodeBinding(b *InputEvent) (string, error) {
	if b == nil {
		return "", nil
	}
	data, err := json.Marshal(*b)
	if err != nil {
		return "", fmt.Errorf("encode binding: %w", err)
	}
	return string(data), nil
}

// DecodeBinding parses an optional trigger binding; empty input yields nil.
func DecodeBinding(data string) (*InputEvent, error) {
	if data == "" {
		return nil, nil
	}
	var ev InputEvent
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		return nil, fmt.Errorf("decode binding: %w", err)
	}
	return &ev, nil
}
