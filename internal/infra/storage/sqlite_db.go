package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// InitSQLite initializes the local SQLite database and creates the
// schemas for the event ledger and unit snapshots.
func InitSQLite(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			event_type TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			target_id TEXT,
			payload TEXT,
			tick INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_game ON events(game_id, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_events_type ON events(game_id, event_type)`,
		`CREATE TABLE IF NOT EXISTS units (
			unit_id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			callsign TEXT NOT NULL,
			team TEXT NOT NULL,
			x REAL NOT NULL DEFAULT 0,
			z REAL NOT NULL DEFAULT 0,
			facing REAL NOT NULL DEFAULT 0,
			alive INTEGER NOT NULL DEFAULT 1,
			state TEXT NOT NULL DEFAULT 'idle',
			last_updated DATETIME NOT NULL
		)`,
	}

	for _, schema := range schemas {
		if _, err := db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}
