// Package config loads the daemon's TOML configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the daemon configuration.
type Config struct {
	// DatabasePath is the SQLite macro library file.
	DatabasePath string `toml:"database_path"`

	// ClearKeyCode is the key that removes a binding during binding-await
	// mode instead of assigning one.
	ClearKeyCode int `toml:"clear_key_code"`

	Replay  ReplayConfig  `toml:"replay"`
	Polling PollingConfig `toml:"polling"`
	Tools   ToolsConfig   `toml:"tools"`
}

// ReplayConfig tunes the delivery tiers.
type ReplayConfig struct {
	// InjectDelayMS is the pause between direct-injection events.
	InjectDelayMS int `toml:"inject_delay_ms"`
	// TapDelayMS is the pause between best-effort key taps.
	TapDelayMS int `toml:"tap_delay_ms"`
}

// PollingConfig tunes the controller's periodic tasks.
type PollingConfig struct {
	// CacheRefreshSec is the macro-cache refresh interval.
	CacheRefreshSec int `toml:"cache_refresh_sec"`
	// AuthRecheckSec is the authorization re-check interval.
	AuthRecheckSec int `toml:"auth_recheck_sec"`
}

// ToolsConfig names the external delivery and capture binaries.
type ToolsConfig struct {
	Xdotool   string `toml:"xdotool"`
	Xinput    string `toml:"xinput"`
	Osascript string `toml:"osascript"`
}

// Default returns a configuration with the standard database location under
// the user config dir and the stock tool names.
func Default() *Config {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return &Config{
		DatabasePath: filepath.Join(base, "keyecho", "macros.db"),
		ClearKeyCode: 51,
		Replay: ReplayConfig{
			InjectDelayMS: 25,
			TapDelayMS:    60,
		},
		Polling: PollingConfig{
			CacheRefreshSec: 5,
			AuthRecheckSec:  10,
		},
		Tools: ToolsConfig{
			Xdotool:   "xdotool",
			Xinput:    "xinput",
			Osascript: "osascript",
		},
	}
}

// Read decodes a Config from the reader, overlaying the defaults.
func Read(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFromFile reads a Config from path. A missing file is not an error:
// the defaults apply.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if c.ClearKeyCode < 0 {
		return fmt.Errorf("clear_key_code must not be negative")
	}
	if c.Replay.InjectDelayMS < 0 || c.Replay.TapDelayMS < 0 {
		return fmt.Errorf("replay delays must not be negative")
	}
	if c.Polling.CacheRefreshSec < 0 || c.Polling.AuthRecheckSec < 0 {
		return fmt.Errorf("polling intervals must not be negative")
	}
	return nil
}

// InjectDelay returns the tier-1 inter-event pause.
func (c *Config) InjectDelay() time.Duration {
	return time.Duration(c.Replay.InjectDelayMS) * time.Millisecond
}

// TapDelay returns the tier-3 inter-tap pause.
func (c *Config) TapDelay() time.Duration {
	return time.Duration(c.Replay.TapDelayMS) * time.Millisecond
}

// CacheRefresh returns the macro-cache refresh interval; zero disables it.
func (c *Config) CacheRefresh() time.Duration {
	return time.Duration(c.Polling.CacheRefreshSec) * time.Second
}

// AuthRecheck returns the authorization re-check interval; zero disables it.
func (c *Config) AuthRecheck() time.Duration {
	return time.Duration(c.Polling.AuthRecheckSec) * time.Second
}
