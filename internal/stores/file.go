package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/danieljhkim/uiforge/internal/fsops"
	"github.com/danieljhkim/uiforge/internal/tree"
)

// FileStore is a VersionStore persisted as one JSON document that other
// processes may share. Every append takes a lock file next to the document,
// re-reads it, and rewrites it atomically, so ids stay dense even when a
// server and a CLI run append to the same history. Reads re-read the
// document. A failed write leaves the file unchanged.
type FileStore struct {
	fs   fsops.FS
	path string

	mu sync.Mutex
}

// OpenFileStore opens the history at path. A missing file is an empty
// history; an existing one must decode.
func OpenFileStore(fs fsops.FS, path string) (*FileStore, error) {
	s := &FileStore{fs: fs, path: path}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the history file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) lockPath() string {
	return s.path + ".lock"
}

// load reads every version from disk.
func (s *FileStore) load() ([]*Version, error) {
	exists, err := s.fs.Exists(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat history %s: %w", s.path, err)
	}
	if !exists {
		return nil, nil
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history %s: %w", s.path, err)
	}
	versions, err := decodeHistory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load history %s: %w", s.path, err)
	}
	return versions, nil
}

// Append records d as the next version and rewrites the history file.
func (s *FileStore) Append(ctx context.Context, d Draft) (*Version, error) {
	if d.Tree == nil {
		return nil, ErrNilTree
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.fs.Lock(ctx, s.lockPath())
	if err != nil {
		return nil, err
	}
	defer func() { _ = unlock() }()

	versions, err := s.load()
	if err != nil {
		return nil, err
	}
	v := d.version(int64(len(versions)))
	versions = append(versions, v)

	data, err := json.MarshalIndent(&HistoryFile{SchemaVersion: historySchemaVersion, Versions: versions}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.fs.AtomicWrite(s.path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write history: %w", err)
	}
	return v, nil
}

// List returns every version, oldest first.
func (s *FileStore) List(context.Context) ([]*Version, error) {
	return s.load()
}

// Get returns the version with the given id.
func (s *FileStore) Get(_ context.Context, id int64) (*Version, error) {
	versions, err := s.load()
	if err != nil {
		return nil, err
	}
	if id < 0 || id >= int64(len(versions)) {
		return nil, notFound(id)
	}
	return versions[id], nil
}

// Latest returns the most recent version.
func (s *FileStore) Latest(context.Context) (*Version, error) {
	versions, err := s.load()
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, ErrEmptyHistory
	}
	return versions[len(versions)-1], nil
}

// Close is a no-op; every append is already on disk.
func (s *FileStore) Close() error {
	return nil
}

// storedVersion mirrors Version with the tree left raw so that it can be
// checked against the tree schema before decoding.
type storedVersion struct {
	ID           int64           `json:"id"`
	Tree         json.RawMessage `json:"tree"`
	Explanation  string          `json:"explanation"`
	UserText     string          `json:"userText"`
	Timestamp    time.Time       `json:"timestamp"`
	Fingerprint  string          `json:"fingerprint,omitempty"`
	RestoredFrom *int64          `json:"restoredFrom,omitempty"`
}

var errCorruptHistory = errors.New("corrupt history")

func decodeHistory(data []byte) ([]*Version, error) {
	var doc struct {
		SchemaVersion int             `json:"schemaVersion"`
		Versions      []storedVersion `json:"versions"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorruptHistory, err)
	}
	if doc.SchemaVersion != historySchemaVersion {
		return nil, fmt.Errorf("unsupported history schema version %d", doc.SchemaVersion)
	}

	versions := make([]*Version, 0, len(doc.Versions))
	for i, sv := range doc.Versions {
		if sv.ID != int64(i) {
			return nil, fmt.Errorf("%w: version at position %d has id %d", errCorruptHistory, i, sv.ID)
		}
		n, err := tree.Decode(sv.Tree)
		if err != nil {
			return nil, fmt.Errorf("%w: version %d: %v", errCorruptHistory, sv.ID, err)
		}
		versions = append(versions, &Version{
			ID:           sv.ID,
			Tree:         n,
			Explanation:  sv.Explanation,
			UserText:     sv.UserText,
			Timestamp:    sv.Timestamp,
			Fingerprint:  sv.Fingerprint,
			RestoredFrom: sv.RestoredFrom,
		})
	}
	return versions, nil
}
