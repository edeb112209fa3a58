package fsops

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// FakeFS is an in-memory FS for tests. Errors can be injected per operation.
type FakeFS struct {
	mu    sync.Mutex
	files map[string][]byte
	locks map[string]chan struct{}

	// WriteErr, when set, is returned by every AtomicWrite.
	WriteErr error

	// ReadErr, when set, is returned by every ReadFile.
	ReadErr error

	// LockErr, when set, is returned by every Lock.
	LockErr error

	// Writes counts successful AtomicWrite calls.
	Writes int
}

// NewFakeFS creates an empty FakeFS.
func NewFakeFS() *FakeFS {
	return &FakeFS{files: make(map[string][]byte), locks: make(map[string]chan struct{})}
}

// ReadFile returns a copy of the stored contents.
func (f *FakeFS) ReadFile(path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	data, ok := f.files[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// AtomicWrite stores a copy of data.
func (f *FakeFS) AtomicWrite(path string, data []byte, _ os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteErr != nil {
		return fmt.Errorf("failed to write %s: %w", path, f.WriteErr)
	}
	f.files[path] = append([]byte(nil), data...)
	f.Writes++
	return nil
}

// Exists reports whether path has been written.
func (f *FakeFS) Exists(path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[path]
	return ok, nil
}

// Remove deletes path.
func (f *FakeFS) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[path]; !ok {
		return &os.PathError{Op: "remove", Path: path, Err: os.ErrNotExist}
	}
	delete(f.files, path)
	return nil
}

// Put seeds path with data.
func (f *FakeFS) Put(path string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = append([]byte(nil), data...)
}

// Lock holds an in-memory lock per path until the returned func is called.
func (f *FakeFS) Lock(ctx context.Context, path string) (func() error, error) {
	f.mu.Lock()
	if f.LockErr != nil {
		f.mu.Unlock()
		return nil, fmt.Errorf("failed to lock %s: %w", path, f.LockErr)
	}
	sem, ok := f.locks[path]
	if !ok {
		sem = make(chan struct{}, 1)
		f.locks[path] = sem
	}
	f.mu.Unlock()

	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to lock %s: %w", path, ctx.Err())
	}
	var once sync.Once
	return func() error {
		once.Do(func() { <-sem })
		return nil
	}, nil
}
