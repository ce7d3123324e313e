// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"database/sql"
	"testing"

	"pantree/internal/db"
	"pantree/internal/repository"
	pantrysql "pantree/sql"

	_ "modernc.org/sqlite"
)

// SetupTestDB creates a temporary in-memory SQLite database with migrations applied.
// Returns the repository and a cleanup function that should be deferred.
func SetupTestDB(t *testing.T) (*repository.Repository, func()) {
	t.Helper()

	database, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// Ensure in-memory DB uses a single connection to avoid per-connection isolation
	database.SetMaxOpenConns(1)
	database.SetMaxIdleConns(1)

	if _, err := database.Exec("PRAGMA foreign_keys = ON"); err != nil {
		database.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := db.ApplyMigrations(database, pantrysql.MigrationsFS); err != nil {
		database.Close()
		t.Fatalf("failed to apply migrations: %v", err)
	}

	// Verify critical tables exist
	var count int
	err = database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('families', 'users', 'sessions', 'categories', 'items', 'activity_events', 'media_deletions')").Scan(&count)
	if err != nil {
		database.Close()
		t.Fatalf("failed to verify tables: %v", err)
	}
	if count != 7 {
		database.Close()
		t.Fatalf("expected 7 critical tables, found %d", count)
	}

	repo := repository.New(database)

	cleanup := func() {
		database.Close()
	}

	return repo, cleanup
}
