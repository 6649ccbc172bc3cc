// Package store persists normalized activities, their recordings and
// their summaries in a local SQLite database.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database holding imported activities.
type Store struct {
	db *sql.DB
}

// Open opens the database at path, creating it and its schema when
// needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			file_hash TEXT UNIQUE,
			name TEXT,
			sport TEXT,
			sub_sport TEXT,
			workout TEXT,
			device_manufacturer TEXT,
			device_model TEXT,
			datetime_start TEXT,
			datetime_end TEXT,
			duration INTEGER,
			distance REAL,
			heartrate_mean INTEGER,
			heartrate_median INTEGER
		);

		CREATE TABLE IF NOT EXISTS summaries (
			activity_id INTEGER NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
			sample_count INTEGER NOT NULL,
			heartrate_min REAL,
			heartrate_max REAL,
			speed_mean REAL,
			speed_max REAL,
			cadence_mean REAL,
			distance_total REAL,
			altitude_min REAL,
			altitude_max REAL
		);

		CREATE TABLE IF NOT EXISTS recordings (
			activity_id INTEGER NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			samples TEXT NOT NULL,
			UNIQUE (activity_id, name)
		);
	`)
	return err
}

// HashFile returns the SHA-256 hex digest of the file at path. The
// importer stores it as the activity's file_hash and uses it to skip
// files imported before.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
