// Package sqlite provides an embedded SQLite store for users, their exercise
// logs, and the audit trail. It backs local runs and the integration tests.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const dayLayout = "2006-01-02"

// Open creates a SQLite connection at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the tables and indexes if they do not exist.
func Migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		count INTEGER NOT NULL DEFAULT 0 CHECK (count >= 0)
	);

	CREATE TABLE IF NOT EXISTS exercises (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL REFERENCES users(id),
		description TEXT NOT NULL,
		duration INTEGER NOT NULL CHECK (duration >= 0),
		date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_exercises_user_id ON exercises(user_id);

	CREATE TABLE IF NOT EXISTS exercise_events (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		description TEXT NOT NULL,
		duration INTEGER NOT NULL,
		date TEXT NOT NULL,
		recorded_at DATETIME NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}
