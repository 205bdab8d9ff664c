package replay

import (
	"errors"
	"fmt"
)

// ErrUnsupported marks an event whose code has no known synthesis mapping
// for the sink it was handed to. Treated as an action failure, never fatal
// to the process.
var ErrUnsupported = errors.New("no synthesis mapping for input")

// SynthesisError is a per-event failure from the direct injection tier:
// the platform refused to construct the synthetic event. Tier 1 is
// all-or-nothing at macro granularity, so one SynthesisError aborts the
// whole tier.
type SynthesisError struct {
	Index int // position in the sequence
	Code  int
	Err   error
}

// Error implements the error interface.
func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesize event %d (code %d): %v", e.Index, e.Code, e.Err)
}

// Unwrap exposes the underlying platform error.
func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// IsSynthesisError reports whether err is a per-event synthesis failure.
// Uses errors.As to handle wrapped errors.
func IsSynthesisError(err error) bool {
	var se *SynthesisError
	return errors.As(err, &se)
}

// ActionsError aggregates per-action failures from the scripted keystroke
// tier. Individual actions never abort the tier; the tier fails overall
// when any action failed.
type ActionsError struct {
	Failed int
	Total  int
}

// Error implements the error interface.
func (e *ActionsError) Error() string {
	return fmt.Sprintf("%d of %d keystroke actions failed", e.Failed, e.Total)
}
