// Package integration runs the full generation stack against every store
// backend and the HTTP transport.
package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/danieljhkim/uiforge/internal/clock"
	"github.com/danieljhkim/uiforge/internal/config"
	"github.com/danieljhkim/uiforge/internal/engine"
	"github.com/danieljhkim/uiforge/internal/hash"
	"github.com/danieljhkim/uiforge/internal/logging"
	"github.com/danieljhkim/uiforge/internal/planner"
	"github.com/danieljhkim/uiforge/internal/registry"
	"github.com/danieljhkim/uiforge/internal/stores"
	"github.com/danieljhkim/uiforge/internal/tree"
)

var epoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// storeConfigs returns one configuration per backend, rooted in a fresh
// temporary directory.
func storeConfigs(t *testing.T) []config.StoreConfig {
	t.Helper()
	paths := config.PathsAt(t.TempDir())
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}
	return []config.StoreConfig{
		{Backend: config.BackendMemory},
		{Backend: config.BackendFile, Path: paths.HistoryFile()},
		{Backend: config.BackendSQLite, Path: filepath.Join(paths.Data, "versions.db")},
	}
}

// setupTestEngine opens the store described by cfg and wires an engine with
// deterministic ids and timestamps around it.
func setupTestEngine(t *testing.T, cfg config.StoreConfig) *engine.Engine {
	t.Helper()
	store, err := stores.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open(%s) error = %v", cfg.Backend, err)
	}
	eng := engine.New(store, hash.NewSHA256Hasher(), clock.NewSteppingClock(epoch, time.Second),
		logging.Discard(), planner.NewSequenceIDs())
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func generate(t *testing.T, eng *engine.Engine, text string) *engine.GenerateResult {
	t.Helper()
	res, err := eng.Generate(context.Background(), &engine.GenerateRequest{UserText: text})
	if err != nil {
		t.Fatalf("Generate(%q) error = %v", text, err)
	}
	return res
}

func kinds(n *tree.Node) []registry.Kind {
	out := make([]registry.Kind, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, c.Kind)
	}
	return out
}

func equalKinds(a, b []registry.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
