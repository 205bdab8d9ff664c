package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keyecho/internal/event"
	"github.com/roach88/keyecho/internal/macro"
	"github.com/roach88/keyecho/internal/store"
)

// testConfig writes a config file pointing at a temp database and returns
// its path together with the database path.
func testConfig(t *testing.T) (configPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "macros.db")
	configPath = filepath.Join(dir, "keyecho.toml")
	doc := fmt.Sprintf("database_path = %q\n\n[polling]\ncache_refresh_sec = 0\nauth_recheck_sec = 0\n", dbPath)
	require.NoError(t, os.WriteFile(configPath, []byte(doc), 0o644))
	return configPath, dbPath
}

// seedMacro inserts one macro directly through the store layer.
func seedMacro(t *testing.T, dbPath, name string, seq []event.InputEvent) *macro.Macro {
	t.Helper()
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	m := macro.New(name, time.Now())
	m.Sequence = seq
	m.Steps = macro.ProjectSteps(seq)
	require.NoError(t, st.CreateMacro(context.Background(), m))
	return m
}

// loadMacro reads one macro back for assertions.
func loadMacro(t *testing.T, dbPath, id string) *macro.Macro {
	t.Helper()
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	m, err := st.GetMacro(context.Background(), id)
	require.NoError(t, err)
	return m
}

// runCLI executes the root command with args and returns combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// bareCommand returns a command shell for driving command funcs directly.
func bareCommand() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	return cmd, &buf
}

func keyEvent(code int, mods uint8, pressed bool) event.InputEvent {
	return event.InputEvent{
		Channel:   event.ChannelKeyboard,
		Code:      code,
		Modifiers: mods,
		Pressed:   pressed,
		Label:     event.DeriveLabel(event.ChannelKeyboard, code),
	}
}
