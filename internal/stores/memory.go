package stores

import (
	"context"
	"sync"
)

// MemoryStore is a VersionStore held in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	versions []*Version
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append records d as the next version.
func (s *MemoryStore) Append(_ context.Context, d Draft) (*Version, error) {
	if d.Tree == nil {
		return nil, ErrNilTree
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v := d.version(int64(len(s.versions)))
	s.versions = append(s.versions, v)
	return v.Clone(), nil
}

// List returns every version, oldest first.
func (s *MemoryStore) List(context.Context) ([]*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.versions), nil
}

// Get returns the version with the given id.
func (s *MemoryStore) Get(_ context.Context, id int64) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 0 || id >= int64(len(s.versions)) {
		return nil, notFound(id)
	}
	return s.versions[id].Clone(), nil
}

// Latest returns the most recent version.
func (s *MemoryStore) Latest(context.Context) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.versions) == 0 {
		return nil, ErrEmptyHistory
	}
	return s.versions[len(s.versions)-1].Clone(), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
