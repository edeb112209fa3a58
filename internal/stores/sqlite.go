package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/danieljhkim/uiforge/internal/tree"
)

// SQLiteStore is a VersionStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// openDB opens the SQLite database at path with a single connection.
func openDB(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	return db, nil
}

// OpenSQLite migrates and opens the database at path, creating it if needed.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	if err := Migrate(path); err != nil {
		return nil, err
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewSQLiteStore(db), nil
}

// NewSQLiteStore wraps an already migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const (
	selectVersion = `SELECT id, tree, explanation, user_text, created_at, fingerprint, restored_from FROM versions`
	nextVersionID = `SELECT COALESCE(MAX(id), -1) + 1 FROM versions`
	insertVersion = `INSERT INTO versions (id, tree, explanation, user_text, created_at, fingerprint, restored_from) VALUES (?, ?, ?, ?, ?, ?, ?)`
)

// Append records d as the next version inside one transaction.
func (s *SQLiteStore) Append(ctx context.Context, d Draft) (*Version, error) {
	if d.Tree == nil {
		return nil, ErrNilTree
	}
	treeJSON, err := json.Marshal(d.Tree)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tree: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	if err := tx.QueryRowContext(ctx, nextVersionID).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to allocate version id: %w", err)
	}

	var restored sql.NullInt64
	if d.RestoredFrom != nil {
		restored = sql.NullInt64{Int64: *d.RestoredFrom, Valid: true}
	}
	if _, err := tx.ExecContext(ctx, insertVersion,
		id, string(treeJSON), d.Explanation, d.UserText,
		d.Timestamp.UTC().Format(time.RFC3339Nano), d.Fingerprint, restored,
	); err != nil {
		return nil, fmt.Errorf("failed to insert version %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit version %d: %w", id, err)
	}
	return d.version(id), nil
}

// List returns every version, oldest first.
func (s *SQLiteStore) List(ctx context.Context) ([]*Version, error) {
	rows, err := s.db.QueryContext(ctx, selectVersion+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	versions := []*Version{}
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	return versions, nil
}

// Get returns the version with the given id.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*Version, error) {
	v, err := scanVersion(s.db.QueryRowContext(ctx, selectVersion+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	return v, err
}

// Latest returns the most recent version.
func (s *SQLiteStore) Latest(ctx context.Context) (*Version, error) {
	v, err := scanVersion(s.db.QueryRowContext(ctx, selectVersion+` ORDER BY id DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmptyHistory
	}
	return v, err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVersion(row scanner) (*Version, error) {
	var (
		v         Version
		treeJSON  string
		createdAt string
		restored  sql.NullInt64
	)
	if err := row.Scan(&v.ID, &treeJSON, &v.Explanation, &v.UserText, &createdAt, &v.Fingerprint, &restored); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read version: %w", err)
	}

	n, err := tree.Decode([]byte(treeJSON))
	if err != nil {
		return nil, fmt.Errorf("version %d: %w", v.ID, err)
	}
	v.Tree = n

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("version %d: bad timestamp %q: %w", v.ID, createdAt, err)
	}
	v.Timestamp = ts

	if restored.Valid {
		from := restored.Int64
		v.RestoredFrom = &from
	}
	return &v, nil
}
