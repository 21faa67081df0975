package testutil

import (
	"testing"

	"catalog-go/internal/catalog"
	"catalog-go/internal/database"
)

// NewTestDatabase creates an in-memory catalog with the schema applied and a
// library named "main". It is closed when the test completes.
func NewTestDatabase(t *testing.T) catalog.Database {
	t.Helper()
	return NewTestDatabaseWith(t, FixedClock(), NewStubIDGenerator())
}

// NewTestDatabaseWith is NewTestDatabase with an explicit clock and id source.
func NewTestDatabaseWith(t *testing.T, clock catalog.Clock, ids catalog.IDGenerator) catalog.Database {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if _, err := sqlDB.Exec(database.Schema); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	db := database.NewSQLiteDatabaseFromDB(sqlDB, clock, ids)
	t.Cleanup(func() {
		db.Close()
	})

	if _, err := db.CreateLibrary("main"); err != nil {
		t.Fatalf("failed to create library: %v", err)
	}
	return db
}
