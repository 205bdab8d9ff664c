package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExec_UnknownMacro(t *testing.T) {
	configPath, _ := testConfig(t)

	_, err := runCLI(t, "--config", configPath, "exec", "ghost")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExec_EmptyMacroIsNoAction(t *testing.T) {
	configPath, dbPath := testConfig(t)
	seedMacro(t, dbPath, "empty", nil)

	// An empty macro never reaches the delivery tiers, so this passes even
	// with no input tools on the host.
	out, err := runCLI(t, "--config", configPath, "exec", "empty", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "no events")
}

func TestExec_ResolvesByID(t *testing.T) {
	configPath, dbPath := testConfig(t)
	m := seedMacro(t, dbPath, "empty", nil)

	_, err := runCLI(t, "--config", configPath, "exec", m.ID, "--force")
	require.NoError(t, err)
}
