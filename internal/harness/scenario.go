package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/keyecho/internal/event"
)

// Scenario defines a conformance test scenario: a sequence of recording,
// binding, live-input and execution steps run against a real controller
// with scripted input and a recording synthetic-input sink.
type Scenario struct {
	// Name uniquely identifies this scenario; it names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Failures configures scripted sink failures, to exercise tier
	// fallthrough.
	Failures Failures `yaml:"failures,omitempty"`

	// Steps is the ordered list of operations to perform.
	Steps []Step `yaml:"steps"`
}

// Failures configures which synthetic-input operations fail.
type Failures struct {
	// Inject fails every direct injection, disabling tier 1.
	Inject bool `yaml:"inject,omitempty"`
	// KeystrokeCodes fails scripted keystrokes for the listed key codes.
	KeystrokeCodes []int `yaml:"keystroke_codes,omitempty"`
	// Tap fails every best-effort tap, disabling tier 3.
	Tap bool `yaml:"tap,omitempty"`
}

// Step is one scenario operation. Op selects the kind; the other fields
// apply per kind.
type Step struct {
	// Op is "record", "bind", "input" or "exec".
	Op string `yaml:"op"`

	// Name is the macro name to record (record).
	Name string `yaml:"name,omitempty"`

	// Macro references an existing macro by name (bind, exec).
	Macro string `yaml:"macro,omitempty"`

	// Trigger is the key press consumed by binding-await mode (bind).
	// Its pressed flag is implied.
	Trigger *EventSpec `yaml:"trigger,omitempty"`

	// Events are raw input tuples to feed (record, input).
	Events []EventSpec `yaml:"events,omitempty"`

	// Force skips the authorization check (exec).
	Force bool `yaml:"force,omitempty"`

	// ExpectReplays is how many replays this input burst must start;
	// the runner waits for them to finish before the next step (input).
	ExpectReplays int `yaml:"expect_replays,omitempty"`
}

// EventSpec is the YAML form of one raw input tuple.
type EventSpec struct {
	// Channel is "keyboard" (default) or "mouse".
	Channel string `yaml:"channel,omitempty"`

	Code int `yaml:"code"`

	// Modifiers lists held modifiers: shift, control, option, command.
	Modifiers []string `yaml:"modifiers,omitempty"`

	Pressed bool `yaml:"pressed"`
}

// Raw converts the scenario event form to an engine raw tuple.
func (e *EventSpec) Raw() (event.Raw, error) {
	channel := event.ChannelKeyboard
	switch e.Channel {
	case "", "keyboard":
	case "mouse":
		channel = event.ChannelMouse
	default:
		return event.Raw{}, fmt.Errorf("unknown channel %q", e.Channel)
	}

	var mask uint8
	for _, m := range e.Modifiers {
		switch m {
		case "shift":
			mask |= event.ModShift
		case "control":
			mask |= event.ModControl
		case "option":
			mask |= event.ModOption
		case "command":
			mask |= event.ModCommand
		default:
			return event.Raw{}, fmt.Errorf("unknown modifier %q", m)
		}
	}

	return event.Raw{
		Channel:   channel,
		Code:      e.Code,
		Modifiers: mask,
		Pressed:   e.Pressed,
	}, nil
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos surface as load errors instead of silently skipped
// steps.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step *Step) error {
	switch step.Op {
	case "record":
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required for record", index)
		}
		if len(step.Events) == 0 {
			return fmt.Errorf("steps[%d]: events list is required for record", index)
		}
	case "bind":
		if step.Macro == "" {
			return fmt.Errorf("steps[%d]: macro is required for bind", index)
		}
		if step.Trigger == nil {
			return fmt.Errorf("steps[%d]: trigger is required for bind", index)
		}
	case "input":
		if len(step.Events) == 0 {
			return fmt.Errorf("steps[%d]: events list is required for input", index)
		}
		if step.ExpectReplays < 0 {
			return fmt.Errorf("steps[%d]: expect_replays must be non-negative", index)
		}
	case "exec":
		if step.Macro == "" {
			return fmt.Errorf("steps[%d]: macro is required for exec", index)
		}
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}

	// Event specs must convert cleanly regardless of op.
	for j, ev := range step.Events {
		if _, err := ev.Raw(); err != nil {
			return fmt.Errorf("steps[%d].events[%d]: %w", index, j, err)
		}
	}
	if step.Trigger != nil {
		if _, err := step.Trigger.Raw(); err != nil {
			return fmt.Errorf("steps[%d].trigger: %w", index, err)
		}
	}
	return nil
}
