package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/keyecho/internal/engine"
	"github.com/roach88/keyecho/internal/platform"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions

	// Source overrides the live capture source (for testing).
	// If nil, defaults to the xinput stream.
	Source platform.CaptureSource
	// Auth overrides the authorizer (for testing).
	Auth engine.Authorizer
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the capture-and-replay daemon",
		Long: `Start the keyecho daemon.

The daemon opens the macro library, attaches to the live input stream,
and dispatches bound macros when their trigger keys are pressed.

Example:
  keyecho run
  keyecho run --config ~/.config/keyecho/keyecho.toml --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(opts, cmd)
		},
	}

	return cmd
}

func runDaemon(opts *RunOptions, cmd *cobra.Command) error {
	setupLogging(opts.Verbose)

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	slog.Info("opening macro database", "path", cfg.DatabasePath)
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	auth := opts.Auth
	if auth == nil {
		auth = platform.ToolAuthorizer{Tool: cfg.Tools.Xdotool}
	}
	source := opts.Source
	if source == nil {
		source = &platform.XInput{Tool: cfg.Tools.Xinput}
	}

	ctrl := engine.New(st, buildReplayEngine(cfg), auth,
		engine.WithClearCode(cfg.ClearKeyCode),
		engine.WithIntervals(cfg.CacheRefresh(), cfg.AuthRecheck()),
	)

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	// Capture runs beside the controller loop; the sink result propagates
	// queue shutdown back into the source.
	captureDone := make(chan error, 1)
	go func() {
		captureDone <- source.Run(ctx, ctrl.HandleRaw)
	}()

	slog.Info("daemon starting", "db", cfg.DatabasePath)
	fmt.Fprintln(cmd.OutOrStdout(), "keyecho running. Press Ctrl-C to stop.")

	if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "engine error", err)
	}

	if err := <-captureDone; err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("capture source error", "error", err)
	}

	slog.Info("daemon stopped gracefully")
	return nil
}
