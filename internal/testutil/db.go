// Package testutil provides shared helpers for tests that need a real store.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/nutrilog/nutrilog/internal/database"
)

// OpenTestDB opens a migrated SQLite database in a per-test temp directory.
// The store is an embedded file, so integration tests need no containers.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nutrition.db")
	db, err := database.Open(path)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}
