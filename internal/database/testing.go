package database

import (
	"context"
	"testing"
)

// NewInMemory returns a migrated in-memory SQLite database closed at test cleanup.
func NewInMemory(t testing.TB) *DB {
	t.Helper()
	db, err := New(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate in-memory db: %v", err)
	}
	return db
}
