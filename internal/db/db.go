package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	pantrysql "pantree/sql"
)

// InitDB opens a SQLite database at path and applies embedded migrations.
func InitDB(path string) (*sql.DB, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Enable foreign keys
	if _, err := database.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		database.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Writers queue instead of failing immediately under concurrent load.
	if _, err := database.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		database.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := ApplyMigrations(database, pantrysql.MigrationsFS); err != nil {
		database.Close()
		return nil, err
	}

	return database, nil
}
