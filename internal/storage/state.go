// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists client-side UI state between runs: the selected
// model, incognito and search-mode flags, sidebar collapse, and the cloud
// service selection. Conversation history itself lives server-side; this
// store never holds messages.
package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrKeyNotFound   = errors.New("state key not found")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// WELL-KNOWN KEYS
// =============================================================================

// Keys for the scalar flags the UI persists between runs.
const (
	KeySelectedModel    = "selected_model"
	KeyIncognito        = "incognito"
	KeySearchMode       = "search_mode"
	KeySidebarCollapsed = "sidebar_collapsed"
	KeyCloudServiceKey  = "cloud_service_key"
)

// =============================================================================
// STATE STORE
// =============================================================================

// StateStore is a small key/value table in a local SQLite database.
type StateStore struct {
	db *sql.DB
}

// DefaultPath returns ~/.thinkchat/state.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".thinkchat", "state.db"), nil
}

// Open opens (or creates) the state database at path.
func Open(path string) (*StateStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Join(ErrDatabaseError, err)
	}

	// Single connection avoids SQLITE_BUSY on concurrent writes.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &StateStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS state (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS session_titles (
		session_id TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(schema); err != nil {
		return errors.Join(ErrDatabaseError, err)
	}
	return nil
}

// Close releases the database.
func (s *StateStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// SCALAR FLAGS
// =============================================================================

// Get returns the stored value for key.
func (s *StateStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", errors.Join(ErrDatabaseError, err)
	}
	return value, nil
}

// Set stores a value for key, replacing any previous value.
func (s *StateStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return errors.Join(ErrDatabaseError, err)
	}
	return nil
}

// GetBool returns a boolean flag; missing keys return the fallback.
func (s *StateStore) GetBool(key string, fallback bool) bool {
	v, err := s.Get(key)
	if err != nil {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// SetBool stores a boolean flag.
func (s *StateStore) SetBool(key string, value bool) error {
	return s.Set(key, strconv.FormatBool(value))
}

// GetString returns a string value; missing keys return the fallback.
func (s *StateStore) GetString(key, fallback string) string {
	v, err := s.Get(key)
	if err != nil {
		return fallback
	}
	return v
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *StateStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM state WHERE key = ?`, key); err != nil {
		return errors.Join(ErrDatabaseError, err)
	}
	return nil
}

// =============================================================================
// SESSION TITLE CACHE
// =============================================================================

// The sidebar shows server summaries immediately after a rename commits,
// before the next refetch. The title cache bridges that window and also
// keeps renamed titles visible when the backend is briefly unreachable.

// CacheTitle stores a renamed session title.
func (s *StateStore) CacheTitle(sessionID, title string) error {
	_, err := s.db.Exec(
		`INSERT INTO session_titles (session_id, title, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`,
		sessionID, title, time.Now().UTC(),
	)
	if err != nil {
		return errors.Join(ErrDatabaseError, err)
	}
	return nil
}

// CachedTitle returns the cached title for a session, or "" if none.
func (s *StateStore) CachedTitle(sessionID string) string {
	var title string
	err := s.db.QueryRow(`SELECT title FROM session_titles WHERE session_id = ?`, sessionID).Scan(&title)
	if err != nil {
		return ""
	}
	return title
}

// DropTitle removes a cached title, used when a session is deleted.
func (s *StateStore) DropTitle(sessionID string) error {
	if _, err := s.db.Exec(`DELETE FROM session_titles WHERE session_id = ?`, sessionID); err != nil {
		return errors.Join(ErrDatabaseError, err)
	}
	return nil
}
