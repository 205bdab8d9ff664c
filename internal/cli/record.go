package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/keyecho/internal/engine"
	"github.com/roach88/keyecho/internal/event"
	"github.com/roach88/keyecho/internal/macro"
	"github.com/roach88/keyecho/internal/platform"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	Duration time.Duration

	// Source overrides the live capture source (for testing).
	Source platform.CaptureSource
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record <name>",
		Short: "Record a new macro from live input",
		Long: `Record a new macro from the live input stream.

Recording runs until the duration elapses or Ctrl-C is pressed. Every
keyboard and mouse transition is captured in arrival order; a trailing
primary-button click (the press that stops the recording) is discarded.
Captured events are mirrored into the library as they arrive, so an
interrupted recording still leaves the partial sequence behind.

Example:
  keyecho record copy-paste
  keyecho record open-editor --duration 10s`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return recordMacro(opts, args[0], cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Duration, "duration", 30*time.Second, "maximum recording length")

	return cmd
}

func recordMacro(opts *RecordOptions, name string, cmd *cobra.Command) error {
	setupLogging(opts.Verbose)

	if !macro.ValidName(name) {
		return NewExitError(ExitCommandError, "macro name must not be empty")
	}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithTimeout(parentCtx, opts.Duration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	// The macro row exists before the first event so the live mirror has
	// somewhere to append.
	m := macro.New(name, time.Now())
	if err := st.CreateMacro(ctx, m); err != nil {
		return WrapExitError(ExitCommandError, "failed to create macro", err)
	}

	ctrl := engine.New(st, buildReplayEngine(cfg), platform.StaticAuthorizer{Grant: true},
		engine.WithIntervals(0, 0),
	)

	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = ctrl.Run(loopCtx)
	}()

	ctrl.StartRecording(name, func(ev event.InputEvent) {
		if err := st.AppendEvent(context.Background(), m.ID, ev); err != nil {
			slog.Error("live mirror append failed", "macro_id", m.ID, "error", err)
		}
	})

	source := opts.Source
	if source == nil {
		source = &platform.XInput{Tool: cfg.Tools.Xinput}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recording %q. Press Ctrl-C to stop.\n", name)
	if err := source.Run(ctx, ctrl.HandleRaw); err != nil && ctx.Err() == nil {
		return WrapExitError(ExitFailure, "capture source error", err)
	}

	recorded := ctrl.StopRecording()
	stopLoop()
	<-loopDone

	// Persistence uses a fresh context: the recording one is likely expired.
	saveCtx := context.Background()
	if recorded == nil {
		// Nothing captured beyond the stop click; drop the placeholder row.
		if err := st.DeleteMacro(saveCtx, m.ID); err != nil {
			slog.Error("failed to remove empty macro", "macro_id", m.ID, "error", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing captured; macro discarded.")
		return nil
	}

	if err := st.SaveSequence(saveCtx, m.ID, recorded.Sequence); err != nil {
		return WrapExitError(ExitCommandError, "failed to save macro", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %q: %d events (%s)\n",
		name, len(recorded.Sequence), recorded.DisplayString())
	return nil
}
