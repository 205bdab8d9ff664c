package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"runtime"

	"github.com/roach88/keyecho/internal/config"
	"github.com/roach88/keyecho/internal/macro"
	"github.com/roach88/keyecho/internal/platform"
	"github.com/roach88/keyecho/internal/replay"
	"github.com/roach88/keyecho/internal/store"
)

// setupLogging configures the process-wide slog handler.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadConfig reads the config file named by the global flag, or the
// defaults when none is given.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	if opts.Config == "" {
		return config.Default(), nil
	}
	return config.ReadFromFile(opts.Config)
}

// openStore opens the macro library at the configured path.
func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open macro database", err)
	}
	return st, nil
}

// buildReplayEngine assembles the three delivery tiers from the configured
// tools. On macOS the scripted tier goes through osascript; elsewhere all
// tiers use xdotool.
func buildReplayEngine(cfg *config.Config) *replay.Engine {
	xdo := &platform.Xdo{Tool: cfg.Tools.Xdotool}

	var auto replay.Automator = xdo
	if runtime.GOOS == "darwin" {
		auto = &platform.OSA{Tool: cfg.Tools.Osascript}
	}

	return replay.NewEngine(
		replay.NewInjector(xdo, cfg.InjectDelay()),
		replay.NewScripter(auto),
		replay.NewTapper(xdo, cfg.TapDelay()),
	)
}

// findMacro resolves a macro reference: exact ID first, then name.
func findMacro(ctx context.Context, st *store.Store, ref string) (*macro.Macro, error) {
	m, err := st.GetMacro(ctx, ref)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return st.FindMacroByName(ctx, ref)
}
