// Package stores keeps the append-only history of generated UI versions.
//
// Three backends implement VersionStore:
//   - MemoryStore: process-local, lost on exit
//   - FileStore: a single JSON document replaced atomically on every append
//   - SQLiteStore: a SQLite table whose schema is managed by migrations
//
// Every backend serializes appends and assigns ids 0, 1, 2, ... in append
// order. Versions handed out are copies; mutating them does not affect the
// stored history.
package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/danieljhkim/uiforge/internal/config"
	"github.com/danieljhkim/uiforge/internal/fsops"
)

var (
	// ErrVersionNotFound is returned when no version has the requested id.
	ErrVersionNotFound = errors.New("version not found")

	// ErrEmptyHistory is returned by Latest when nothing has been appended.
	ErrEmptyHistory = errors.New("no versions yet")

	// ErrNilTree is returned when appending a draft without a tree.
	ErrNilTree = errors.New("version has no tree")
)

// VersionStore is an append-only history of versions.
type VersionStore interface {
	// Append records d as the next version and returns it with its id.
	Append(ctx context.Context, d Draft) (*Version, error)

	// List returns every version, oldest first.
	List(ctx context.Context) ([]*Version, error)

	// Get returns the version with the given id.
	Get(ctx context.Context, id int64) (*Version, error)

	// Latest returns the most recent version.
	Latest(ctx context.Context) (*Version, error)

	// Close releases the store's resources.
	Close() error
}

// Open creates the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StoreConfig) (VersionStore, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile:
		return OpenFileStore(fsops.NewRealFS(), cfg.Path)
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func notFound(id int64) error {
	return fmt.Errorf("%w: %d", ErrVersionNotFound, id)
}

func cloneAll(in []*Version) []*Version {
	out := make([]*Version, len(in))
	for i, v := range in {
		out[i] = v.Clone()
	}
	return out
}
