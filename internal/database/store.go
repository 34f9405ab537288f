// Package database provides storage backends for the anniversary app.
package database

import "errors"

// ErrNotFound is returned by GetRecord when no value is stored under a key.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for database operations.
// Both SQLite and PostgreSQL implementations satisfy this interface.
type Store interface {
	Close() error

	// DatabaseType returns the name of the database backend ("SQLite" or "PostgreSQL").
	DatabaseType() string

	// GetRecord returns the text stored under key, or ErrNotFound.
	GetRecord(key string) (string, error)
	// PutRecord replaces the text stored under key.
	PutRecord(key, value string) error
}
