// Package platform adapts OS input facilities to the engine's interfaces.
//
// Capture sources feed raw input tuples into the controller; delivery
// adapters satisfy the replay package's tier interfaces by shelling out to
// the host's input tools. Everything here is exec-based so the engine core
// stays free of cgo and OS-specific build tags.
package platform

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/roach88/keyecho/internal/event"
)

// CaptureSource delivers raw input tuples from the OS event stream.
//
// Run blocks until the context is cancelled or the underlying stream ends,
// calling sink for every observed event in OS delivery order. A false
// return from sink means the consumer has stopped; Run should exit.
type CaptureSource interface {
	Run(ctx context.Context, sink func(event.Raw) bool) error
}

// run executes an external tool, returning stderr in the error when the
// tool fails so the replay log carries the actual diagnostic.
func run(ctx context.Context, tool string, args ...string) error {
	cmd := exec.CommandContext(ctx, tool, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s %s: %w: %s", tool, args[0], err, msg)
		}
		return fmt.Errorf("%s %s: %w", tool, args[0], err)
	}
	return nil
}
