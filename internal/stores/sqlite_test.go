package stores

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var versionColumns = []string{"id", "tree", "explanation", "user_text", "created_at", "fingerprint", "restored_from"}

const treeJSON = `{"component":"Card","props":{"title":"UI"},"children":[]}`

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewSQLiteStore(db), mock
}

func TestSQLiteStore_AppendCommits(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(nextVersionID)).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO versions")).
		WithArgs(int64(7), sqlmock.AnyArg(), "explained", "request", "2024-05-01T12:00:00Z", "fp", nil).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	v, err := store.Append(context.Background(), draft(0))
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.ID)
}

func TestSQLiteStore_AppendRollsBack(t *testing.T) {
	tests := []struct {
		name  string
		setup func(mock sqlmock.Sqlmock)
	}{
		{
			name: "begin fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("locked"))
			},
		},
		{
			name: "id allocation fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(nextVersionID)).WillReturnError(errors.New("io error"))
				mock.ExpectRollback()
			},
		},
		{
			name: "insert fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(nextVersionID)).
					WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(0))
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO versions")).WillReturnError(errors.New("constraint failed"))
				mock.ExpectRollback()
			},
		},
		{
			name: "commit fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(nextVersionID)).
					WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(0))
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO versions")).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit().WillReturnError(errors.New("disk full"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			tt.setup(mock)

			v, err := store.Append(context.Background(), draft(0))
			assert.Error(t, err)
			assert.Nil(t, v)
		})
	}
}

func TestSQLiteStore_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectVersion + " WHERE id = ?")).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows(versionColumns).
				AddRow(2, treeJSON, "e", "u", "2024-05-01T12:00:01.5Z", "fp", 1))

		v, err := store.Get(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), v.ID)
		assert.Equal(t, "Card", v.Tree.Kind.String())
		assert.True(t, v.Timestamp.Equal(time.Date(2024, 5, 1, 12, 0, 1, 500_000_000, time.UTC)))
		require.NotNil(t, v.RestoredFrom)
		assert.Equal(t, int64(1), *v.RestoredFrom)
	})

	t.Run("missing", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectVersion + " WHERE id = ?")).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(versionColumns))

		_, err := store.Get(context.Background(), 9)
		assert.ErrorIs(t, err, ErrVersionNotFound)
	})

	t.Run("corrupt tree", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectVersion)).
			WillReturnRows(sqlmock.NewRows(versionColumns).
				AddRow(0, `{"props":{}}`, "e", "u", "2024-05-01T12:00:00Z", "", nil))

		_, err := store.Get(context.Background(), 0)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrVersionNotFound)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectVersion)).
			WillReturnRows(sqlmock.NewRows(versionColumns).
				AddRow(0, treeJSON, "e", "u", "yesterday", "", nil))

		_, err := store.Get(context.Background(), 0)
		assert.ErrorContains(t, err, "bad timestamp")
	})
}

func TestSQLiteStore_List(t *testing.T) {
	t.Run("rows", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectVersion + " ORDER BY id")).
			WillReturnRows(sqlmock.NewRows(versionColumns).
				AddRow(0, treeJSON, "a", "u", "2024-05-01T12:00:00Z", "", nil).
				AddRow(1, treeJSON, "b", "u", "2024-05-01T12:00:01Z", "", nil))

		list, err := store.List(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "b", list[1].Explanation)
	})

	t.Run("query error", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectVersion)).WillReturnError(errors.New("no such table"))

		_, err := store.List(context.Background())
		assert.ErrorContains(t, err, "no such table")
	})

	t.Run("row error", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectVersion)).
			WillReturnRows(sqlmock.NewRows(versionColumns).
				AddRow(0, treeJSON, "a", "u", "2024-05-01T12:00:00Z", "", nil).
				RowError(0, errors.New("checksum mismatch")))

		_, err := store.List(context.Background())
		assert.Error(t, err)
	})
}

func TestSQLiteStore_LatestEmpty(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectVersion + " ORDER BY id DESC LIMIT 1")).
		WillReturnRows(sqlmock.NewRows(versionColumns))

	_, err := store.Latest(context.Background())
	assert.ErrorIs(t, err, ErrEmptyHistory)
}
