package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/keyecho/internal/event"
	"github.com/roach88/keyecho/internal/macro"
)

// marshalSequence converts an event sequence to JSON TEXT for storage.
// Order is preserved exactly; it is the replay order.
func marshalSequence(seq []event.InputEvent) (string, error) {
	data, err := event.EncodeSequence(seq)
	if err != nil {
		return "", fmt.Errorf("marshal sequence: %w", err)
	}
	return data, nil
}

// unmarshalSequence parses JSON TEXT back into an event sequence.
// Decoded events carry fresh identity tokens, never the originals'.
func unmarshalSequence(data string) ([]event.InputEvent, error) {
	seq, err := event.DecodeSequence(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal sequence: %w", err)
	}
	return seq, nil
}

// marshalSteps converts the display projection to JSON TEXT.
func marshalSteps(steps []macro.Step) (string, error) {
	if len(steps) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(steps)
	if err != nil {
		return "", fmt.Errorf("marshal steps: %w", err)
	}
	return string(data), nil
}

// unmarshalSteps parses the display projection from JSON TEXT.
func unmarshalSteps(data string) ([]macro.Step, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var steps []macro.Step
	if err := json.Unmarshal([]byte(data), &steps); err != nil {
		return nil, fmt.Errorf("unmarshal steps: %w", err)
	}
	return steps, nil
}
