// Package kvstore persists the tracker state as string values under logical
// keys, the way a mobile app uses its local async storage.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrClosed is returned by a store used after Close.
var ErrClosed = errors.New("store is closed")

// Store is a string key/value store.
type Store interface {
	// Get returns the value of key, or false if key was never set.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set replaces the value of key.
	Set(ctx context.Context, key, value string) error
	// Close releases the resources of the store.
	Close() error
}

// Open returns the store described by dsn:
//
//	mem:                     in-memory, lost on exit
//	file:<dir>               one file per key in dir
//	sqlite:<path>            a SQLite database file
//	postgres://...           a PostgreSQL database (also postgresql://)
func Open(ctx context.Context, dsn string) (Store, error) {
	scheme, rest, _ := strings.Cut(dsn, ":")
	switch scheme {
	case "mem", "memory":
		return NewMemory(), nil
	case "file":
		return OpenDir(rest)
	case "sqlite", "sqlite3":
		return OpenSQLite(ctx, rest)
	case "postgres", "postgresql":
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported store %q: want mem:, file:, sqlite: or postgres://", dsn)
	}
}
