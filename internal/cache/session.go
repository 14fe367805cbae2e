package cache

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fragmede/safechain/internal/store"
)

var _ store.Backend = (*DB)(nil)

// Read returns the session value stored under key.
func (d *DB) Read(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading session key %q: %w", key, err)
	}
	return value, nil
}

// Write stores value under key, replacing any previous value.
func (d *DB) Write(key, value string) error {
	_, err := d.db.Exec(`INSERT OR REPLACE INTO session (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("writing session key %q: %w", key, err)
	}
	return nil
}

// Remove deletes the value stored under key, if any.
func (d *DB) Remove(key string) error {
	_, err := d.db.Exec(`DELETE FROM session WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("removing session key %q: %w", key, err)
	}
	return nil
}
