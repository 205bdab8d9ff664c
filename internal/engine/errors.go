package engine

import (
	"errors"
	"fmt"
)

// ControlError represents a user-visible, recoverable failure from the
// controller. Nothing in this package is fatal to the process: every
// failure path returns control with the re-entrancy flag cleared.
type ControlError struct {
	// Code identifies the error category.
	Code ControlErrorCode

	// Message is a human-readable description.
	Message string

	// MacroID identifies the affected macro, when known.
	MacroID string

	// Err is the underlying cause, when any.
	Err error
}

// ControlErrorCode categorizes controller errors.
type ControlErrorCode string

const (
	// ErrCodeReplayBusy indicates replay was requested while one is in
	// progress. Callers drop it silently; it is logged in debug mode only.
	ErrCodeReplayBusy ControlErrorCode = "REPLAY_IN_PROGRESS"

	// ErrCodeAuthDenied indicates replay was attempted without the OS
	// input-control grant and without force.
	ErrCodeAuthDenied ControlErrorCode = "AUTHORIZATION_DENIED"

	// ErrCodeReplayFailed indicates every delivery tier failed.
	ErrCodeReplayFailed ControlErrorCode = "REPLAY_FAILED"
)

// Error implements the error interface.
func (e *ControlError) Error() string {
	if e.MacroID != "" {
		return fmt.Sprintf("%s: %s (macro=%s)", e.Code, e.Message, e.MacroID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause.
func (e *ControlError) Unwrap() error {
	return e.Err
}

// IsBusyError returns true if the error is a re-entrancy rejection.
// Uses errors.As to handle wrapped errors.
func IsBusyError(err error) bool {
	var ce *ControlError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeReplayBusy
	}
	return false
}

// IsAuthError returns true if the error is an authorization rejection.
// Uses errors.As to handle wrapped errors.
func IsAuthError(err error) bool {
	var ce *ControlError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeAuthDenied
	}
	return false
}

// NewBusyError creates a ControlError for a rejected re-entrant replay.
func NewBusyError(macroID string) *ControlError {
	return &ControlError{
		Code:    ErrCodeReplayBusy,
		Message: "a replay is already in progress",
		MacroID: macroID,
	}
}

// NewAuthError creates a ControlError for a missing input-control grant.
func NewAuthError(macroID string) *ControlError {
	return &ControlError{
		Code:    ErrCodeAuthDenied,
		Message: "input control is not authorized",
		MacroID: macroID,
	}
}

// NewReplayFailedError creates a ControlError for total tier failure.
func NewReplayFailedError(macroID string, err error) *ControlError {
	return &ControlError{
		Code:    ErrCodeReplayFailed,
		Message: "all delivery tiers failed",
		MacroID: macroID,
		Err:     err,
	}
}
