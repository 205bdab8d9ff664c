package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/keyecho/internal/store"
)

// NewRenameCommand creates the rename command.
func NewRenameCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <macro> <new-name>",
		Short: "Rename a macro",
		Long: `Rename a macro. The new name must not be empty or whitespace-only.

Example:
  keyecho rename copy-paste clipboard-dance`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return renameMacro(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func renameMacro(opts *RootOptions, ref, newName string, cmd *cobra.Command) error {
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

	if err := st.RenameMacro(ctx, m.ID, newName); err != nil {
		if errors.Is(err, store.ErrEmptyName) {
			return WrapExitError(ExitCommandError, "new name must not be empty", err)
		}
		return WrapExitError(ExitCommandError, "failed to rename macro", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Renamed %q to %q.\n", m.Name, newName)
	return nil
}
