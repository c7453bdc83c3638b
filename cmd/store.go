package cmd

import (
	"context"
	"fmt"

	"github.com/kozaktomas/photo-grid/internal/config"
	"github.com/kozaktomas/photo-grid/internal/database"
	"github.com/kozaktomas/photo-grid/internal/database/file"
	"github.com/kozaktomas/photo-grid/internal/database/mariadb"
	"github.com/kozaktomas/photo-grid/internal/database/postgres"
)

// openPreferenceStore initializes the configured preference backend and
// returns it with a function that releases its resources.
func openPreferenceStore(ctx context.Context, cfg *config.Config) (database.PreferenceStore, func(), error) {
	backend := cfg.Preferences.Backend
	if backendOverride != "" {
		backend = backendOverride
	}

	cleanup := func() {}
	switch backend {
	case config.BackendFile:
		if _, err := file.Initialize(cfg.Preferences.Path); err != nil {
			return nil, nil, fmt.Errorf("failed to open preference file: %w", err)
		}
	case config.BackendPostgres:
		pool, err := postgres.Initialize(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		cleanup = func() { pool.Close() }
	case config.BackendMariaDB:
		pool, err := mariadb.Initialize(ctx, cfg.MariaDB.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize MariaDB: %w", err)
		}
		cleanup = func() { pool.Close() }
	default:
		return nil, nil, fmt.Errorf("unknown preference backend %q (expected file, postgres or mariadb)", backend)
	}

	store, err := database.GetPreferenceStore(backend)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return store, cleanup, nil
}
