// Package migrations keeps the schema of the SQLite cache in step with the
// SQL files embedded in the binary.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var files embed.FS

const filesDir = "files"

// Status is the schema version of a cache database next to the newest
// version embedded in the binary.
type Status struct {
	Version uint // 0 when the database was never migrated
	Latest  uint
	Dirty   bool
}

// Usable reports whether Apply can bring the database to Latest. A dirty
// schema, or one written by a newer binary, cannot be migrated.
func (s Status) Usable() bool {
	return !s.Dirty && s.Version <= s.Latest
}

func (s Status) String() string {
	state := "clean"
	if s.Dirty {
		state = "dirty"
	}
	return fmt.Sprintf("schema v%d of v%d (%s)", s.Version, s.Latest, state)
}

// Latest returns the highest version among the embedded up migrations.
func Latest() (uint, error) {
	entries, err := fs.ReadDir(files, filesDir)
	if err != nil {
		return 0, fmt.Errorf("listing migrations: %w", err)
	}
	var latest uint
	for _, e := range entries {
		m, err := source.Parse(e.Name())
		if err != nil {
			return 0, fmt.Errorf("migration %s: %w", e.Name(), err)
		}
		if m.Direction == source.Up && m.Version > latest {
			latest = m.Version
		}
	}
	return latest, nil
}

// Inspect reads the schema version of db.
func Inspect(db *sql.DB) (Status, error) {
	latest, err := Latest()
	if err != nil {
		return Status{}, err
	}

	// m is left open: closing it would close db.
	m, err := open(db)
	if err != nil {
		return Status{}, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{Latest: latest}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("reading schema version: %w", err)
	}
	return Status{Version: version, Latest: latest, Dirty: dirty}, nil
}

// Apply runs every pending up migration against db.
func Apply(db *sql.DB) error {
	m, err := open(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

func open(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(files, filesDir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations: %w", err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("opening schema table: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("preparing migrations: %w", err)
	}
	return m, nil
}
