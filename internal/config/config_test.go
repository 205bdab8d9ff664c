package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotEmpty(t, cfg.DatabasePath)
	assert.Equal(t, 51, cfg.ClearKeyCode)
	assert.Equal(t, 25*time.Millisecond, cfg.InjectDelay())
	assert.Equal(t, 60*time.Millisecond, cfg.TapDelay())
	assert.Equal(t, 5*time.Second, cfg.CacheRefresh())
	assert.Equal(t, 10*time.Second, cfg.AuthRecheck())
	assert.Equal(t, "xdotool", cfg.Tools.Xdotool)
}

func TestRead_OverlaysDefaults(t *testing.T) {
	doc := `
database_path = "/tmp/macros.db"

[replay]
inject_delay_ms = 10

[tools]
xdotool = "/usr/local/bin/xdotool"
`
	cfg, err := Read(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/macros.db", cfg.DatabasePath)
	assert.Equal(t, 10*time.Millisecond, cfg.InjectDelay())
	assert.Equal(t, "/usr/local/bin/xdotool", cfg.Tools.Xdotool)

	// Untouched fields keep their defaults.
	assert.Equal(t, 51, cfg.ClearKeyCode)
	assert.Equal(t, 60*time.Millisecond, cfg.TapDelay())
	assert.Equal(t, "xinput", cfg.Tools.Xinput)
}

func TestRead_RejectsInvalid(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{"empty database path", `database_path = ""`},
		{"negative clear code", `clear_key_code = -1`},
		{"negative delay", "[replay]\ninject_delay_ms = -5"},
		{"negative interval", "[polling]\nauth_recheck_sec = -1"},
		{"malformed toml", `database_path = `},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tc.doc))
			assert.Error(t, err)
		})
	}
}

func TestReadFromFile_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := ReadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().ClearKeyCode, cfg.ClearKeyCode)
}

func TestReadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyecho.toml")
	require.NoError(t, os.WriteFile(path, []byte(`database_path = "x.db"`), 0o644))

	cfg, err := ReadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x.db", cfg.DatabasePath)
}

func TestZeroIntervalDisablesPoller(t *testing.T) {
	doc := "[polling]\ncache_refresh_sec = 0\nauth_recheck_sec = 0"
	cfg, err := Read(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.CacheRefresh())
	assert.Equal(t, time.Duration(0), cfg.AuthRecheck())
}
