package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/pdfpress/internal/db"
)

// setupTestDB creates an in-memory database with the full schema and
// seeded catalogs.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// A plain :memory: DSN gives every pooled connection its own empty
	// database, so back the test database with a temp file instead.
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	database, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if _, err := database.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if err := db.InitSchema(database); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}
	return database
}

func float64Ptr(v float64) *float64 { return &v }
