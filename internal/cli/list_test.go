package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keyecho/internal/event"
)

func TestList_Empty(t *testing.T) {
	configPath, _ := testConfig(t)

	out, err := runCLI(t, "--config", configPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No macros recorded.")
}

func TestList_Text(t *testing.T) {
	configPath, dbPath := testConfig(t)
	seedMacro(t, dbPath, "copy-paste", []event.InputEvent{
		keyEvent(8, event.ModCommand, true),
		keyEvent(8, event.ModCommand, false),
	})

	out, err := runCLI(t, "--config", configPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "copy-paste")
	assert.Contains(t, out, "⌘C")
}

func TestList_JSON(t *testing.T) {
	configPath, dbPath := testConfig(t)
	m := seedMacro(t, dbPath, "copy-paste", []event.InputEvent{
		keyEvent(8, event.ModCommand, true),
	})

	out, err := runCLI(t, "--config", configPath, "--format", "json", "list")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	rows, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, m.ID, row["id"])
	assert.Equal(t, "copy-paste", row["name"])
	assert.Equal(t, float64(1), row["events"])
}
