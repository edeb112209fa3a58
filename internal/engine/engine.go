// Package engine runs the UI generation pipeline against the version history.
//
// The engine is the layer between the transports (CLI, HTTP) and the pure
// pipeline packages. One Generate call normalizes the request text, plans
// against the latest version's tree, builds, validates and explains, and only
// when every stage succeeds appends a new version to the store.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Generate/Preview: Run the pipeline, with or without recording a version
//   - Versions/Version/Current: Read the history
//   - Restore/Import: Append versions whose tree did not come from a request
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/danieljhkim/uiforge/internal/clock"
	"github.com/danieljhkim/uiforge/internal/hash"
	"github.com/danieljhkim/uiforge/internal/planner"
	"github.com/danieljhkim/uiforge/internal/stores"
	"github.com/danieljhkim/uiforge/internal/tree"
)

// Engine orchestrates all uiforge operations.
// It is the main API surface called by the CLI and the HTTP server.
type Engine struct {
	planner *planner.Planner
	store   stores.VersionStore
	hasher  hash.Hasher
	clock   clock.Clock
	logger  *slog.Logger

	// mu is held from reading the latest version to appending the next one,
	// so concurrent requests form a linear history.
	mu sync.Mutex
}

// New creates a new Engine with the given dependencies. A nil ids derives
// modal ids from content with hasher.
func New(
	store stores.VersionStore,
	hasher hash.Hasher,
	clk clock.Clock,
	logger *slog.Logger,
	ids planner.IDSource,
) *Engine {
	if ids == nil {
		ids = planner.NewContentIDs(hasher)
	}
	return &Engine{
		planner: planner.New(ids),
		store:   store,
		hasher:  hasher,
		clock:   clk,
		logger:  logger,
	}
}

// Close closes the underlying store.
func (e *Engine) Close() error {
	return e.store.Close()
}

// latest returns the newest version, or nil when the history is empty.
func (e *Engine) latest(ctx context.Context) (*stores.Version, error) {
	v, err := e.store.Latest(ctx)
	if errors.Is(err, stores.ErrEmptyHistory) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest version: %w", err)
	}
	return v, nil
}

// record fingerprints t and appends it as the next version.
func (e *Engine) record(ctx context.Context, t *tree.Node, explanation, userText string, restoredFrom *int64) (*stores.Version, error) {
	fp, err := e.hasher.Fingerprint(t)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint tree: %w", err)
	}
	v, err := e.store.Append(ctx, stores.Draft{
		Tree:         t,
		Explanation:  explanation,
		UserText:     userText,
		Timestamp:    e.clock.Now(),
		Fingerprint:  fp,
		RestoredFrom: restoredFrom,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record version: %w", err)
	}
	return v, nil
}
