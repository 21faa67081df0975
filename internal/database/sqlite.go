package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"catalog-go/internal/catalog"
	"catalog-go/internal/database/migrations"
	"catalog-go/internal/database/sqlc"
)

// connectionParams are applied to every connection through the DSN so that
// pooled connections all behave the same way. Immediate transactions take the
// write lock up front, which keeps concurrent upserts from failing with
// SQLITE_BUSY on lock upgrade.
const connectionParams = "_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"

// SQLiteDatabase implements catalog.Database on SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
	clock   catalog.Clock
	idgen   catalog.IDGenerator
}

// NewSQLiteDatabase opens the catalog at path, or an in-memory catalog for
// ":memory:". A nil clock or idgen uses the real clock and random UUIDs.
func NewSQLiteDatabase(path string, clock catalog.Clock, idgen catalog.IDGenerator) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    path,
		clock:   catalog.ClockOrReal(clock),
		idgen:   catalog.IDGeneratorOrUUID(idgen),
	}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing connection opened with OpenConnection.
func NewSQLiteDatabaseFromDB(db *sql.DB, clock catalog.Clock, idgen catalog.IDGenerator) *SQLiteDatabase {
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		clock:   catalog.ClockOrReal(clock),
		idgen:   catalog.IDGeneratorOrUUID(idgen),
	}
}

// OpenConnection opens and configures a SQLite connection pool.
// File databases use WAL. An in-memory database lives and dies with its
// connection, so the pool is pinned to one.
func OpenConnection(path string) (*sql.DB, error) {
	dsn := path + "?" + connectionParams
	if path != ":memory:" {
		dsn += "&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Path returns the database file path (or ":memory:").
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Migrate applies every pending embedded migration.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// MigrationStatus reports the schema version relative to the binary.
func (s *SQLiteDatabase) MigrationStatus() (*migrations.Status, error) {
	return migrations.ReadStatus(s.db)
}

// BackupTo writes a consistent copy of the database to destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// inTx runs fn inside a transaction. fn must only use qtx: an in-memory
// database has a single connection.
func (s *SQLiteDatabase) inTx(ctx context.Context, fn func(tx *sql.Tx, qtx *sqlc.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx, s.queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", mapConstraint(err))
	}
	return nil
}

// mapConstraint translates SQLite constraint failures into catalog error kinds.
func mapConstraint(err error) error {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%v: %w", err, catalog.ErrDuplicateKey)
	case sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%v: %w", err, catalog.ErrNotFound)
	case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
		return fmt.Errorf("%v: %w", err, catalog.ErrInvariantViolation)
	}
	return err
}

func ptrs[T any](items []T) []*T {
	result := make([]*T, len(items))
	for i := range items {
		result[i] = &items[i]
	}
	return result
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func notFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, catalog.ErrNotFound)
}

// Compile-time check that SQLiteDatabase implements catalog.Database
var _ catalog.Database = (*SQLiteDatabase)(nil)
