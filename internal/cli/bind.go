package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/keyecho/internal/event"
	"github.com/roach88/keyecho/internal/platform"
	"github.com/roach88/keyecho/internal/store"
)

// BindOptions holds flags for the bind command.
type BindOptions struct {
	*RootOptions
	Clear   bool
	Timeout time.Duration

	// Source overrides the live capture source (for testing).
	Source platform.CaptureSource
}

// NewBindCommand creates the bind command.
func NewBindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BindOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bind <macro>",
		Short: "Bind a macro to a trigger key",
		Long: `Bind a macro to the next pressed key or mouse button.

Exactly one down-phase event is consumed: that key (with its held
modifiers) becomes the macro's trigger. Pressing the configured clear
key removes the existing binding instead. Modifiers held during the
press are part of the trigger; a binding recorded without modifiers
matches regardless of modifier state.

Example:
  keyecho bind copy-paste
  keyecho bind copy-paste --clear`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return bindMacro(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "remove the binding without capturing a key")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "how long to wait for a key press")

	return cmd
}

func bindMacro(opts *BindOptions, ref string, cmd *cobra.Command) error {
	setupLogging(opts.Verbose)

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	m, err := findMacro(ctx, st, ref)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("no macro %q", ref), err)
		}
		return WrapExitError(ExitCommandError, "failed to load macro", err)
	}

	if opts.Clear {
		if err := st.ClearBinding(ctx, m.ID); err != nil {
			return WrapExitError(ExitCommandError, "failed to clear binding", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Binding cleared for %q.\n", m.Name)
		return nil
	}

	source := opts.Source
	if source == nil {
		source = &platform.XInput{Tool: cfg.Tools.Xinput}
	}

	captureCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	fmt.Fprintf(cmd.OutOrStdout(), "Press the trigger key for %q...\n", m.Name)

	// Consume exactly one down-phase event, mirroring the daemon's
	// binding-await mode.
	norm := event.NewNormalizer(event.UUIDGenerator{})
	var captured *event.InputEvent
	runErr := source.Run(captureCtx, func(raw event.Raw) bool {
		ev := norm.Normalize(raw)
		if !ev.Pressed {
			return true
		}
		captured = &ev
		return false
	})
	if runErr != nil && captured == nil {
		if errors.Is(runErr, context.DeadlineExceeded) {
			return NewExitError(ExitFailure, "timed out waiting for a key press")
		}
		return WrapExitError(ExitFailure, "capture source error", runErr)
	}
	if captured == nil {
		return NewExitError(ExitFailure, "input stream ended before a key was pressed")
	}

	if captured.Channel == event.ChannelKeyboard && captured.Code == cfg.ClearKeyCode {
		if err := st.ClearBinding(ctx, m.ID); err != nil {
			return WrapExitError(ExitCommandError, "failed to clear binding", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Binding cleared for %q.\n", m.Name)
		return nil
	}

	if err := st.SetBinding(ctx, m.ID, *captured); err != nil {
		return WrapExitError(ExitCommandError, "failed to set binding", err)
	}

	label := captured.Label
	if mods := event.DescribeModifiers(captured.Modifiers); mods != "" {
		label = mods + label
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Bound %q to %s.\n", m.Name, label)
	return nil
}
