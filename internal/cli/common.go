package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/danieljhkim/uiforge/internal/clock"
	"github.com/danieljhkim/uiforge/internal/config"
	"github.com/danieljhkim/uiforge/internal/engine"
	"github.com/danieljhkim/uiforge/internal/hash"
	"github.com/danieljhkim/uiforge/internal/logging"
	"github.com/danieljhkim/uiforge/internal/stores"
)

// app bundles what a command needs to run.
type app struct {
	paths  *config.Paths
	cfg    *config.Config
	logger *slog.Logger
	engine *engine.Engine
}

// Close releases the engine's store.
func (a *app) Close() error {
	return a.engine.Close()
}

// newApp loads configuration and creates an engine with real implementations
// of all dependencies. Short-lived commands log warnings only unless
// --verbose is set; serve logs at the configured level.
func newApp(ctx context.Context, serving bool) (*app, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	cfg, err := config.Load(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if storeBackend != "" {
		cfg.Store.Backend = storeBackend
		cfg.Store.Path = ""
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		cfg.ResolveStorePath(paths)
	}

	logCfg := cfg.Log
	switch {
	case verbose:
		logCfg.Level = "debug"
	case !serving:
		logCfg.Level = "warn"
	}
	logger, err := logging.New(logCfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	store, err := stores.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	logger.Debug("store opened", "backend", cfg.Store.Backend, "path", cfg.Store.Path)

	eng := engine.New(store, hash.NewSHA256Hasher(), clock.RealClock{}, logger, nil)
	return &app{paths: paths, cfg: cfg, logger: logger, engine: eng}, nil
}

// parseID parses a version id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid version id %q: must be a non-negative integer", arg)
	}
	return id, nil
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON writes v as indented JSON to the command output.
func outputJSON(v interface{}) error {
	return writeJSON(out, v)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
