package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestControlError_Message(t *testing.T) {
	err := NewBusyError("macro-1")
	assert.Contains(t, err.Error(), "REPLAY_IN_PROGRESS")
	assert.Contains(t, err.Error(), "macro-1")
}

func TestIsBusyError(t *testing.T) {
	assert.True(t, IsBusyError(NewBusyError("m")))
	assert.True(t, IsBusyError(fmt.Errorf("wrapped: %w", NewBusyError("m"))))
	assert.False(t, IsBusyError(NewAuthError("m")))
	assert.False(t, IsBusyError(errors.New("plain")))
	assert.False(t, IsBusyError(nil))
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(NewAuthError("m")))
	assert.True(t, IsAuthError(fmt.Errorf("wrapped: %w", NewAuthError("m"))))
	assert.False(t, IsAuthError(NewBusyError("m")))
}

func TestNewReplayFailedError_Unwraps(t *testing.T) {
	cause := errors.New("inject: refused")
	err := NewReplayFailedError("m", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "REPLAY_FAILED")
}
