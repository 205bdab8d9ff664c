// Package macro defines the storable automation unit: a named, ordered
// sequence of input events with an optional trigger binding.
package macro

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/keyecho/internal/event"
)

// Macro is a named, replayable sequence of input events.
//
// Sequence order is semantically meaningful: it is the replay order, and it
// stores both down and up phases exactly as they occurred during capture.
//
// Binding, when set, is the trigger descriptor. Only its Channel, Code and
// Modifiers are meaningful at trigger time; its Pressed phase is not checked.
//
// Steps is a legacy display projection of Sequence. It is written for richer
// list rendering and is never consumed by the replay engine.
type Macro struct {
	ID        string
	Name      string
	Sequence  []event.InputEvent
	Binding   *event.InputEvent
	CreatedAt time.Time
	Steps     []Step
}

// New creates an empty macro: no sequence, no binding. The macro is mutated
// incrementally by recording callbacks and binding assignment.
func New(name string, now time.Time) *Macro {
	return &Macro{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      name,
		CreatedAt: now,
	}
}

// ValidName reports whether a proposed name may be persisted.
// Empty (or whitespace-only) name edits are discarded, not saved.
func ValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}

// HasBinding reports whether the macro has a trigger binding.
func (m *Macro) HasBinding() bool {
	return m.Binding != nil
}

// Empty reports whether the macro has nothing to replay.
func (m *Macro) Empty() bool {
	return len(m.Sequence) == 0
}

// BindingLabel renders the trigger for display: held modifier symbols
// followed by the key label, or empty when unbound.
func (m *Macro) BindingLabel() string {
	if m.Binding == nil {
		return ""
	}
	return event.DescribeModifiers(m.Binding.Modifiers) + m.Binding.Label
}
