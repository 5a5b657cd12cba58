// ABOUTME: Tests for database connection and schema initialization
// ABOUTME: Verifies all tables exist after opening
package sqlite

import (
	"path/filepath"
	"testing"
)

func TestOpenInMemory(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	if db.Path() != ":memory:" {
		t.Errorf("Path() = %q, want :memory:", db.Path())
	}
}

func TestOpen_CreatesSchemaAndDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "coach.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	tables := []string{"conversations", "messages", "coach_index", "profiles"}
	for _, table := range tables {
		var name string
		err := db.QueryRow(`
			SELECT name FROM sqlite_master WHERE type='table' AND name=?
		`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestDB_Close(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}

	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
