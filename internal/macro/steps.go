package macro

import (
	"strings"

	"github.com/roach88/keyecho/internal/event"
)

// StepKind discriminates typed display steps.
type StepKind string

const (
	StepKey   StepKind = "key"
	StepMouse StepKind = "mouse"
	StepText  StepKind = "text"
	StepDelay StepKind = "delay"
)

// Step is one typed entry of the legacy display representation.
//
// Steps exist for richer list rendering only. The replay engine reads
// Sequence exclusively; Steps are write-only from its perspective and must
// never be treated as replay-authoritative.
type Step struct {
	Kind      StepKind `json:"kind"`
	Label     string   `json:"label,omitempty"`
	Modifiers uint8    `json:"modifiers,omitempty"`
	Text      string   `json:"text,omitempty"`
	Millis    int      `json:"millis,omitempty"`
}

// ProjectSteps derives the display projection from an event sequence.
//
// Down-phase events become key/mouse steps; up phases are folded away since
// the display shows actions, not transitions. Consecutive plain printable
// keys collapse into a single text step.
func ProjectSteps(seq []event.InputEvent) []Step {
	var steps []Step
	var text strings.Builder

	flushText := func() {
		if text.Len() == 0 {
			return
		}
		steps = append(steps, Step{Kind: StepText, Text: text.String()})
		text.Reset()
	}

	for _, ev := range seq {
		if !ev.Pressed {
			continue
		}

		switch {
		case ev.Channel == event.ChannelMouse:
			flushText()
			steps = append(steps, Step{Kind: StepMouse, Label: ev.Label})

		case ev.IsModifierKey():
			// Modifier transitions are visible in chord labels, not as
			// standalone steps.
			continue

		case ev.Modifiers == 0 && len([]rune(ev.Label)) == 1:
			text.WriteString(ev.Label)

		default:
			flushText()
			steps = append(steps, Step{
				Kind:      StepKey,
				Label:     ev.Label,
				Modifiers: ev.Modifiers,
			})
		}
	}
	flushText()

	return steps
}

// DisplayString renders the steps as a single summary line.
func (m *Macro) DisplayString() string {
	steps := m.Steps
	if steps == nil {
		steps = ProjectSteps(m.Sequence)
	}

	parts := make([]string, 0, len(steps))
	for _, s := range steps {
		switch s.Kind {
		case StepText:
			parts = append(parts, "\""+s.Text+"\"")
		case StepKey:
			parts = append(parts, event.DescribeModifiers(s.Modifiers)+s.Label)
		case StepMouse:
			parts = append(parts, s.Label)
		case StepDelay:
			parts = append(parts, "wait")
		}
	}
	return strings.Join(parts, " · ")
}
