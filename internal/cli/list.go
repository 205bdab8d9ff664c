package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/keyecho/internal/macro"
)

// macroRow is the JSON projection of one macro for list output.
type macroRow struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Binding string `json:"binding,omitempty"`
	Events  int    `json:"events"`
	Steps   string `json:"steps,omitempty"`
	Created string `json:"created_at"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved macros",
		Long: `List every macro in the library, newest first.

Example:
  keyecho list
  keyecho list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listMacros(rootOpts, cmd)
		},
	}

	return cmd
}

func listMacros(opts *RootOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	macros, err := st.ListMacros(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list macros", err)
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		rows := make([]macroRow, 0, len(macros))
		for _, m := range macros {
			rows = append(rows, toRow(m))
		}
		return f.Success(rows)
	}

	if len(macros) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No macros recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBINDING\tEVENTS\tSTEPS\tCREATED")
	for _, m := range macros {
		binding := m.BindingLabel()
		if binding == "" {
			binding = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			m.Name, binding, len(m.Sequence), m.DisplayString(),
			m.CreatedAt.Format(time.DateTime),
		)
	}
	return w.Flush()
}

func toRow(m *macro.Macro) macroRow {
	return macroRow{
		ID:      m.ID,
		Name:    m.Name,
		Binding: m.BindingLabel(),
		Events:  len(m.Sequence),
		Steps:   m.DisplayString(),
		Created: m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
