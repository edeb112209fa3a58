package stores

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/uiforge/internal/config"
	"github.com/danieljhkim/uiforge/internal/fsops"
	"github.com/danieljhkim/uiforge/internal/registry"
	"github.com/danieljhkim/uiforge/internal/tree"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleTree(title string) *tree.Node {
	return tree.New(registry.Card, tree.NewProps().Set("title", title)).Append(
		tree.New(registry.Table, tree.NewProps().
			Set("headers", []any{"Name", "Email"}).
			Set("rows", []any{[]any{"a", "b"}})),
		tree.New(registry.Button, tree.NewProps().Set("children", "Go").Set("size", 2.0)),
	)
}

func draft(i int) Draft {
	return Draft{
		Tree:        sampleTree("v" + string(rune('a'+i))),
		Explanation: "explained",
		UserText:    "request",
		Timestamp:   baseTime.Add(time.Duration(i) * time.Second),
		Fingerprint: "fp",
	}
}

// backends returns a fresh instance of every VersionStore implementation.
func backends(t *testing.T) map[string]VersionStore {
	t.Helper()
	dir := t.TempDir()

	fileStore, err := OpenFileStore(fsops.NewRealFS(), filepath.Join(dir, "versions.json"))
	require.NoError(t, err)

	sqliteStore, err := OpenSQLite(context.Background(), filepath.Join(dir, "db", "versions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]VersionStore{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

func TestVersionStore_Contract(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Latest(ctx)
			assert.ErrorIs(t, err, ErrEmptyHistory)

			list, err := store.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)

			for i := 0; i < 3; i++ {
				v, err := store.Append(ctx, draft(i))
				require.NoError(t, err)
				assert.Equal(t, int64(i), v.ID, "ids start at 0 and increase by one")
			}

			from := int64(1)
			d := draft(3)
			d.RestoredFrom = &from
			restored, err := store.Append(ctx, d)
			require.NoError(t, err)
			assert.Equal(t, int64(3), restored.ID)
			require.NotNil(t, restored.RestoredFrom)
			assert.Equal(t, int64(1), *restored.RestoredFrom)

			list, err = store.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 4)
			for i, v := range list {
				assert.Equal(t, int64(i), v.ID)
				want := draft(i)
				assert.True(t, tree.Equal(want.Tree, v.Tree), "tree %d round trips", i)
				assert.True(t, want.Timestamp.Equal(v.Timestamp))
				assert.Equal(t, "explained", v.Explanation)
				assert.Equal(t, "request", v.UserText)
				assert.Equal(t, "fp", v.Fingerprint)
			}
			assert.Nil(t, list[0].RestoredFrom)

			got, err := store.Get(ctx, 2)
			require.NoError(t, err)
			assert.True(t, tree.Equal(draft(2).Tree, got.Tree))

			_, err = store.Get(ctx, 4)
			assert.ErrorIs(t, err, ErrVersionNotFound)
			_, err = store.Get(ctx, -1)
			assert.ErrorIs(t, err, ErrVersionNotFound)

			latest, err := store.Latest(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(3), latest.ID)

			_, err = store.Append(ctx, Draft{})
			assert.ErrorIs(t, err, ErrNilTree)
		})
	}
}

func TestVersionStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			d := draft(0)
			v, err := store.Append(ctx, d)
			require.NoError(t, err)

			// mutate everything the caller holds
			d.Tree.Children = nil
			v.Tree.Props.Set("title", "changed")

			got, err := store.Get(ctx, 0)
			require.NoError(t, err)
			assert.True(t, tree.Equal(draft(0).Tree, got.Tree))

			got.Tree.Append(tree.New(registry.Chart, nil))
			again, err := store.Latest(ctx)
			require.NoError(t, err)
			assert.Len(t, again.Tree.Children, 2)
		})
	}
}

func TestVersionStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			const writers = 20
			var wg sync.WaitGroup
			errs := make(chan error, writers)
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					if _, err := store.Append(ctx, draft(i%5)); err != nil {
						errs <- err
					}
				}(i)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				t.Fatalf("append failed: %v", err)
			}

			list, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, writers)
			for i, v := range list {
				assert.Equal(t, int64(i), v.ID)
			}
		})
	}
}

func TestFileStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "h", "versions.json")

	s, err := OpenFileStore(fsops.NewRealFS(), path)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := s.Append(ctx, draft(i))
		require.NoError(t, err)
	}

	reopened, err := OpenFileStore(fsops.NewRealFS(), path)
	require.NoError(t, err)
	list, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, tree.Equal(draft(1).Tree, list[1].Tree))

	v, err := reopened.Append(ctx, draft(2))
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.ID)
}

func TestFileStore_FailedWriteKeepsHistory(t *testing.T) {
	ctx := context.Background()
	fs := fsops.NewFakeFS()

	s, err := OpenFileStore(fs, "/h.json")
	require.NoError(t, err)
	_, err = s.Append(ctx, draft(0))
	require.NoError(t, err)

	fs.WriteErr = errors.New("disk full")
	_, err = s.Append(ctx, draft(1))
	require.Error(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	fs.WriteErr = nil
	v, err := s.Append(ctx, draft(1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.ID, "a failed append does not consume an id")
}

func TestFileStore_HandlesShareOneHistory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")

	server, err := OpenFileStore(fsops.NewRealFS(), path)
	require.NoError(t, err)
	cli, err := OpenFileStore(fsops.NewRealFS(), path)
	require.NoError(t, err)

	fromServer := draft(0)
	fromServer.UserText = "from server"
	v, err := server.Append(ctx, fromServer)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.ID)

	latest, err := cli.Latest(ctx)
	require.NoError(t, err, "a second handle sees appends made through the first")
	assert.Equal(t, "from server", latest.UserText)

	fromCLI := draft(1)
	fromCLI.UserText = "from cli"
	v, err = cli.Append(ctx, fromCLI)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.ID)

	reopened, err := OpenFileStore(fsops.NewRealFS(), path)
	require.NoError(t, err)
	list, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "from server", list[0].UserText)
	assert.Equal(t, "from cli", list[1].UserText)
}

func TestFileStore_ConcurrentHandles(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")

	const handles, perHandle = 4, 5
	var wg sync.WaitGroup
	errs := make(chan error, handles*perHandle)
	for h := 0; h < handles; h++ {
		s, err := OpenFileStore(fsops.NewRealFS(), path)
		require.NoError(t, err)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perHandle; i++ {
				if _, err := s.Append(ctx, draft(i)); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("append failed: %v", err)
	}

	s, err := OpenFileStore(fsops.NewRealFS(), path)
	require.NoError(t, err)
	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, handles*perHandle)
	for i, v := range list {
		assert.Equal(t, int64(i), v.ID)
	}
}

func TestFileStore_LockFailure(t *testing.T) {
	fs := fsops.NewFakeFS()
	s, err := OpenFileStore(fs, "/h.json")
	require.NoError(t, err)

	fs.LockErr = errors.New("lock held")
	_, err = s.Append(context.Background(), draft(0))
	assert.ErrorContains(t, err, "lock held")
	assert.Equal(t, 0, fs.Writes)
}

func TestFileStore_RejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "{"},
		{name: "wrong schema version", data: `{"schemaVersion":9,"versions":[]}`},
		{name: "ids out of order", data: `{"schemaVersion":1,"versions":[{"id":1,"tree":{"component":"Card","props":{},"children":[]}}]}`},
		{name: "tree without component", data: `{"schemaVersion":1,"versions":[{"id":0,"tree":{"props":{}}}]}`},
		{name: "tree with extra field", data: `{"schemaVersion":1,"versions":[{"id":0,"tree":{"component":"Card","style":1}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := fsops.NewFakeFS()
			fs.Put("/h.json", []byte(tt.data))

			_, err := OpenFileStore(fs, "/h.json")
			assert.Error(t, err)
		})
	}
}

func TestFileStore_ReadError(t *testing.T) {
	fs := fsops.NewFakeFS()
	fs.Put("/h.json", []byte(`{"schemaVersion":1,"versions":[]}`))
	fs.ReadErr = errors.New("permission denied")

	_, err := OpenFileStore(fs, "/h.json")
	assert.ErrorContains(t, err, "permission denied")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.StoreConfig
		want    any
		wantErr bool
	}{
		{name: "memory", cfg: config.StoreConfig{Backend: config.BackendMemory}, want: &MemoryStore{}},
		{name: "file", cfg: config.StoreConfig{Backend: config.BackendFile, Path: filepath.Join(dir, "v.json")}, want: &FileStore{}},
		{name: "sqlite", cfg: config.StoreConfig{Backend: config.BackendSQLite, Path: filepath.Join(dir, "v.db")}, want: &SQLiteStore{}},
		{name: "unknown", cfg: config.StoreConfig{Backend: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			assert.IsType(t, tt.want, s)
		})
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	require.NoError(t, Migrate(path))
	require.NoError(t, Migrate(path))

	db, err := openDB(path)
	require.NoError(t, err)
	defer db.Close()

	var version int
	var dirty bool
	require.NoError(t, db.QueryRow(`SELECT version, dirty FROM schema_migrations`).Scan(&version, &dirty))
	assert.Equal(t, 1, version)
	assert.False(t, dirty)

	var indexes int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND tbl_name = 'versions' AND sql IS NOT NULL`,
	).Scan(&indexes))
	assert.Zero(t, indexes, "versions is only read by id")
}
