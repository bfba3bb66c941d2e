package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"scs-go/internal/cache/migrations"
	"scs-go/internal/scs"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteCache stores cached collections in a single SQLite table:
//
//	kv(key TEXT PRIMARY KEY, value BLOB, updated_at TIMESTAMP)
type SQLiteCache struct {
	db      *sql.DB
	path    string
	rebuilt *migrations.Status
}

// NewSQLiteCache opens (creating if needed) the cache database at path and
// brings its schema up to date. path can be ":memory:".
//
// A database whose schema cannot be migrated (dirty, or written by a newer
// binary) is deleted and created again; the cache only holds copies.
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	status, err := migrations.Inspect(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("inspecting cache schema: %w", err)
	}

	var rebuilt *migrations.Status
	if !status.Usable() && path != ":memory:" {
		db.Close()
		if err := removeDatabase(path); err != nil {
			return nil, err
		}
		if db, err = OpenConnection(path); err != nil {
			return nil, err
		}
		rebuilt = &status
	}

	if err := migrations.Apply(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating cache schema: %w", err)
	}

	return &SQLiteCache{db: db, path: path, rebuilt: rebuilt}, nil
}

// removeDatabase deletes a database file and its journal files.
func removeDatabase(path string) error {
	for _, p := range []string{path, path + "-journal", path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing stale cache %s: %w", p, err)
		}
	}
	return nil
}

// Rebuilt returns the schema status that caused the database to be
// recreated at open, if it was.
func (c *SQLiteCache) Rebuilt() (migrations.Status, bool) {
	if c.rebuilt == nil {
		return migrations.Status{}, false
	}
	return *c.rebuilt, true
}

// OpenConnection opens a SQLite connection configured for the cache.
// The pool is limited to one connection so ":memory:" databases are shared
// by every query.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Schema reports the schema status of the open database.
func (c *SQLiteCache) Schema() (migrations.Status, error) {
	return migrations.Inspect(c.db)
}

func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := c.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cache key %s: %w", key, err)
	}
	return value, true, nil
}

func (c *SQLiteCache) Put(ctx context.Context, key string, value []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("writing cache key %s: %w", key, err)
	}
	return nil
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Compile-time check that SQLiteCache implements scs.Cache interface
var _ scs.Cache = (*SQLiteCache)(nil)
