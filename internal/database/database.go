package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBPath returns the default path to the forecast cache
func DBPath() string {
	return filepath.Join("data", "weather.db")
}

// Open opens the cache database at dbPath
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// WithDB opens the database, runs fn and always closes the connection,
// including when fn fails.
func WithDB(dbPath string, fn func(db *sql.DB) error) error {
	db, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db)
}

// Reset deletes the database file if present and makes sure its directory exists
func Reset(dbPath string) error {
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing database: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		_ = os.Remove(dbPath + suffix)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// EnsureSchema creates the region, prefecture, area and weather tables.
// Safe to call on an existing database.
func EnsureSchema(dbPath string) error {
	return WithDB(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(`
			CREATE TABLE IF NOT EXISTS region (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				code TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL
			);
			CREATE TABLE IF NOT EXISTS prefecture (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				region_id INTEGER,
				code TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				FOREIGN KEY (region_id) REFERENCES region (id)
			);
			CREATE TABLE IF NOT EXISTS area (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				prefecture_id INTEGER,
				code TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				FOREIGN KEY (prefecture_id) REFERENCES prefecture (id)
			);
			CREATE TABLE IF NOT EXISTS weather (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				date TEXT NOT NULL,
				area_id INTEGER,
				code TEXT NOT NULL,
				area_name TEXT,
				weather_description TEXT,
				wind TEXT,
				wave TEXT,
				fetched_at DATETIME,
				FOREIGN KEY (area_id) REFERENCES area (id)
			);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_weather_key ON weather(date, area_id, code);
			CREATE INDEX IF NOT EXISTS idx_prefecture_region ON prefecture(region_id);
			CREATE INDEX IF NOT EXISTS idx_area_prefecture ON area(prefecture_id);
		`)
		if err != nil {
			return fmt.Errorf("creating cache tables: %w", err)
		}
		return nil
	})
}
