// Package sqlite provides a SQLite-backed implementation of the storage
// interfaces and of docstore.Store.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/tabie/internal/docstore"
	"github.com/mmynk/tabie/internal/storage"
)

var (
	_ storage.UserStore   = (*SQLiteStore)(nil)
	_ storage.RewardStore = (*SQLiteStore)(nil)
	_ docstore.Store      = (*SQLiteStore)(nil)
)

// SQLiteStore implements the storage interfaces using SQLite.
// Tab subscribers are served by an in-process hub, so every writer of a
// given database must go through the same SQLiteStore.
type SQLiteStore struct {
	db  *sql.DB
	hub *docstore.Hub
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Tab updates are read-modify-write; a single connection serializes them.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, hub: docstore.NewHub()}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping() error {
	return s.db.Ping()
}
