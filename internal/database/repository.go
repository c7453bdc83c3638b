package database

import (
	"context"
	"errors"
)

// ErrStoreNotConfigured is returned when no preference store is registered
// under the requested backend name.
var ErrStoreNotConfigured = errors.New("preference store not configured")

// PreferenceStore persists the flat key-value preference record.
type PreferenceStore interface {
	// Load returns all stored preference values. An empty store yields an
	// empty map, not an error.
	Load(ctx context.Context) (map[string]string, error)
	// Save upserts the given keys. Keys not present are left untouched.
	Save(ctx context.Context, values map[string]string) error
	// Reset removes every stored preference.
	Reset(ctx context.Context) error
	// Name identifies the backend (file, postgres, mariadb, mock).
	Name() string
}
