package engine

import (
	"time"

	"github.com/roach88/keyecho/internal/event"
	"github.com/roach88/keyecho/internal/macro"
)

// LiveEditFunc mirrors each recorded event into live storage so the
// presentation layer can show the growing sequence in near-real-time.
// Called synchronously from the loop goroutine, in arrival order.
type LiveEditFunc func(ev event.InputEvent)

// Session is the recording state machine: Idle → Recording → Idle.
//
// A Session is not safe for concurrent use. The controller serializes all
// calls onto its single loop goroutine; nothing else may touch it.
type Session struct {
	recording bool
	name      string
	onEvent   LiveEditFunc
	buffer    []event.InputEvent
	now       func() time.Time
}

// NewSession creates an idle session.
func NewSession() *Session {
	return &Session{now: time.Now}
}

// NewSessionAt creates an idle session with an injected clock for tests.
func NewSessionAt(now func() time.Time) *Session {
	return &Session{now: now}
}

// Recording reports whether a recording is in progress.
func (s *Session) Recording() bool {
	return s.recording
}

// Start transitions Idle → Recording and resets the event buffer.
//
// Starting while already recording is a no-op returning false: an
// in-progress buffer is never silently reset. onEvent may be nil.
func (s *Session) Start(name string, onEvent LiveEditFunc) bool {
	if s.recording {
		return false
	}
	s.recording = true
	s.name = name
	s.onEvent = onEvent
	s.buffer = s.buffer[:0]
	return true
}

// Append buffers one normalized event in arrival order and forwards it to
// the live-edit callback. Every event counts: keyboard, mouse, and modifier
// transitions, both down and up phases. Ignored while idle.
func (s *Session) Append(ev event.InputEvent) {
	if !s.recording {
		return
	}
	s.buffer = append(s.buffer, ev)
	if s.onEvent != nil {
		s.onEvent(ev)
	}
}

// Stop transitions Recording → Idle and yields the candidate macro.
//
// If the last buffered event is a mouse-primary-button down, it is
// discarded unconditionally: that press is assumed to be the operator's
// click on the stop control, not an intended action. If the buffer is empty
// after trimming, Stop yields nil and the operator must retry.
//
// Stop is idempotent: calling it while idle yields nil.
func (s *Session) Stop() *macro.Macro {
	if !s.recording {
		return nil
	}
	s.recording = false
	s.onEvent = nil

	buf := s.buffer
	if n := len(buf); n > 0 && buf[n-1].IsMousePrimaryDown() {
		buf = buf[:n-1]
	}
	if len(buf) == 0 {
		return nil
	}

	m := macro.New(s.name, s.now())
	m.Sequence = make([]event.InputEvent, len(buf))
	copy(m.Sequence, buf)
	m.Steps = macro.ProjectSteps(m.Sequence)
	return m
}
