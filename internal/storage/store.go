// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Backend.Get when no blob is stored under a key.
var ErrNotFound = errors.New("storage: key not found")

// Backend defines the interface for named-blob persistence.
// The tracker keeps its whole document in a single blob, so a backend only
// needs whole-value reads and overwrites. This abstraction allows swapping
// storage backends (SQLite, Redis, memory) without changing the tracker.
type Backend interface {
	// Get returns the blob stored under key.
	// Returns ErrNotFound if nothing has been stored yet.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the blob stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases any resources held by the backend.
	Close() error
}
