// Package store provides the key/value slots that back the local session.
//
// A Backend holds small string values under fixed keys. The session layer
// depends only on this interface, so the same code runs against a sqlite or
// bbolt file on an interactive machine and against memory in tests or
// headless runs where nothing should touch disk.
package store

import "errors"

// ErrNotFound is returned by Read when the key has no record.
var ErrNotFound = errors.New("record not found")

// Backend persists string values under fixed keys.
type Backend interface {
	// Read returns the value stored under key, or ErrNotFound.
	Read(key string) (string, error)
	// Write creates or replaces the value stored under key.
	Write(key, value string) error
	// Remove deletes the value stored under key. Removing a missing key is
	// not an error.
	Remove(key string) error
}

// Backend kinds accepted by the configuration layer.
const (
	KindSQLite = "sqlite"
	KindBolt   = "bolt"
	KindMemory = "memory"
)
