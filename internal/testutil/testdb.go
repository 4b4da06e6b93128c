package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/nutrilog/internal/db"
	"github.com/alexanderramin/nutrilog/internal/docstore"
)

// NewTestDB creates a migrated in-memory SQLite database closed at test end.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestStore returns a document store over a fresh in-memory database.
func NewTestStore(t *testing.T) *docstore.SQLiteStore {
	t.Helper()
	store := docstore.NewSQLiteStore(NewTestDB(t))
	t.Cleanup(func() {
		_ = store.Close(context.Background())
	})
	return store
}
