package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var migrationFiles embed.FS

// ErrNoVersion is returned by CheckDBMigrationStatus for a catalog that has
// never been migrated.
var ErrNoVersion = errors.New("catalog database has no schema version (run `catalog migrate`)")

// Status describes where a catalog database sits relative to the embedded migrations.
type Status struct {
	Current uint
	Latest  uint
	Dirty   bool
}

// Behind returns how many migrations still have to be applied.
func (s Status) Behind() uint {
	if s.Current >= s.Latest {
		return 0
	}
	return s.Latest - s.Current
}

// ReadStatus reports the schema version of db and the newest embedded version.
// Current is 0 when no migration has run yet.
func ReadStatus(db *sql.DB) (*Status, error) {
	m, err := newMigrate(db)
	if err != nil {
		return nil, err
	}
	// m is not closed: closing it would close db, which belongs to the caller.

	latest, err := Latest()
	if err != nil {
		return nil, err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return &Status{Latest: latest}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading schema version: %w", err)
	}
	return &Status{Current: version, Latest: latest, Dirty: dirty}, nil
}

// CheckDBMigrationStatus returns nil only when db is exactly at the newest
// embedded schema version.
func CheckDBMigrationStatus(db *sql.DB) error {
	st, err := ReadStatus(db)
	if err != nil {
		return err
	}

	switch {
	case st.Current == 0 && !st.Dirty:
		return ErrNoVersion
	case st.Dirty:
		return fmt.Errorf("catalog database is dirty at version %d; a previous migration failed", st.Current)
	case st.Current < st.Latest:
		return fmt.Errorf("catalog database is at version %d, binary expects %d (%d migrations pending)",
			st.Current, st.Latest, st.Behind())
	case st.Current > st.Latest:
		return fmt.Errorf("catalog database version %d is newer than this binary (%d); upgrade catalog",
			st.Current, st.Latest)
	}
	return nil
}

// MigrateUp applies every pending migration. A database that is already
// current is not an error.
func MigrateUp(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Latest returns the highest migration version embedded in the binary.
func Latest() (uint, error) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return 0, fmt.Errorf("reading embedded migrations: %w", err)
	}
	defer src.Close()

	return lastVersion(src)
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return nil, fmt.Errorf("reading embedded migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("wrapping catalog database for migrate: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("creating migrate instance: %w", err)
	}
	return m, nil
}

// lastVersion walks the source forward; Next fails once there is nothing after v.
func lastVersion(src source.Driver) (uint, error) {
	v, err := src.First()
	if err != nil {
		return 0, err
	}
	for {
		next, err := src.Next(v)
		if err != nil {
			return v, nil
		}
		v = next
	}
}
