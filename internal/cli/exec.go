package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/keyecho/internal/engine"
	"github.com/roach88/keyecho/internal/platform"
	"github.com/roach88/keyecho/internal/store"
)

// ExecOptions holds flags for the exec command.
type ExecOptions struct {
	*RootOptions
	Force bool

	// Replayer overrides the delivery tiers (for testing).
	Replayer engine.Replayer
	// Auth overrides the authorizer (for testing).
	Auth engine.Authorizer
}

// execResult is the JSON projection of a replay outcome.
type execResult struct {
	Macro  string `json:"macro"`
	Status string `json:"status"`
	Tier   string `json:"tier,omitempty"`
}

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExecOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "exec <macro>",
		Short: "Replay a macro now",
		Long: `Replay a macro immediately, without waiting for its trigger.

The macro may be referenced by ID or by name; with duplicate names the
most recently created macro wins.

Example:
  keyecho exec copy-paste
  keyecho exec copy-paste --force`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execMacro(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "skip the authorization check")

	return cmd
}

func execMacro(opts *ExecOptions, ref string, cmd *cobra.Command) error {
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
	m, err := findMacro(ctx, st, ref)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("no macro %q", ref), err)
		}
		return WrapExitError(ExitCommandError, "failed to load macro", err)
	}

	replayer := opts.Replayer
	if replayer == nil {
		replayer = buildReplayEngine(cfg)
	}
	auth := opts.Auth
	if auth == nil {
		auth = platform.ToolAuthorizer{Tool: cfg.Tools.Xdotool}
	}

	ctrl := engine.New(st, replayer, auth)
	ctrl.RecheckAuth(ctx)

	outcome, err := ctrl.ExecuteMacro(ctx, m, opts.Force)
	if err != nil {
		var ctrlErr *engine.ControlError
		if errors.As(err, &ctrlErr) {
			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			_ = f.Error(string(ctrlErr.Code), ctrlErr.Message, nil)
			return WrapExitError(ExitFailure, "replay failed", err)
		}
		return WrapExitError(ExitFailure, "replay failed", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return f.Success(execResult{Macro: m.Name, Status: outcome.Status.String(), Tier: outcome.Tier})
	}
	if outcome.Tier != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Replayed %q via %s tier.\n", m.Name, outcome.Tier)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Macro %q has no events, nothing replayed.\n", m.Name)
	}
	return nil
}
