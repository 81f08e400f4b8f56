// Package localstore provides the durable on-device key-value store that
// mirrors the client's in-memory state.
package localstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Slot keys. Each slot holds a full JSON snapshot and is overwritten on save.
const (
	KeyProfile    = "profile"
	KeyWorkouts   = "workouts"
	KeyBiomarkers = "biomarkers"
)

// SQLite is a key-value store backed by a SQLite file in the state directory.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the store at dir/athletelog.db.
func OpenSQLite(dir string) (*SQLite, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "athletelog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	// A single connection serializes writers; SQLite would otherwise report
	// SQLITE_BUSY under concurrent persists.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS imported_files (
		path        TEXT PRIMARY KEY,
		hash        TEXT NOT NULL,
		workouts    INTEGER NOT NULL,
		imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating imported_files table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Get returns the value stored under key. ok is false if the slot is empty.
func (s *SQLite) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	var v string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading slot %s: %w", key, err)
	}
	return []byte(v), true, nil
}

// Put overwrites the slot.
func (s *SQLite) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	return nil
}

// IsImported reports whether a file with the same path and hash was imported before.
func (s *SQLite) IsImported(ctx context.Context, path, hash string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM imported_files WHERE path = ? AND hash = ?`,
		path, hash,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkImported records a successful import of path.
func (s *SQLite) MarkImported(ctx context.Context, path, hash string, workouts int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO imported_files (path, hash, workouts) VALUES (?, ?, ?)`,
		path, hash, workouts,
	)
	return err
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// HashFile computes the SHA-256 hash of a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
