package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/keyecho/internal/store"
)

// NewRemoveCommand creates the rm command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <macro>",
		Short: "Delete a macro",
		Long: `Delete a macro and its binding from the library.

Example:
  keyecho rm copy-paste`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return removeMacro(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func removeMacro(opts *RootOptions, ref string, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts)
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

	if err := st.DeleteMacro(ctx, m.ID); err != nil {
		return WrapExitError(ExitCommandError, "failed to delete macro", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q.\n", m.Name)
	return nil
}
