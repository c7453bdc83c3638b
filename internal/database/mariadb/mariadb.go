// Package mariadb stores preferences in MariaDB or MySQL.
package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/kozaktomas/photo-grid/internal/database"
)

// BackendName is the registry name of the MariaDB store.
const BackendName = "mariadb"

const createPreferencesTable = "CREATE TABLE IF NOT EXISTS preferences (" +
	"`key` VARCHAR(64) NOT NULL PRIMARY KEY, " +
	"value TEXT NOT NULL, " +
	"updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP" +
	") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"

// Pool manages a MariaDB connection pool.
type Pool struct {
	db *sql.DB
}

// NewPool opens a MariaDB connection pool and pings it, giving up after ten
// seconds or when ctx is done.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	if dsn == "" {
		return nil, errors.New("MariaDB DSN is required")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MariaDB: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MariaDB: %w", err)
	}

	return &Pool{db: db}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() error {
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}

// EnsureSchema creates the preferences table if it does not exist.
func (p *Pool) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createPreferencesTable); err != nil {
		return fmt.Errorf("create preferences table: %w", err)
	}
	return nil
}

// Initialize connects, creates the schema and registers the MariaDB backend.
func Initialize(ctx context.Context, dsn string) (*Pool, error) {
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.EnsureSchema(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	repo := NewPreferenceRepository(pool)
	database.RegisterPreferenceStore(BackendName, func() database.PreferenceStore { return repo })
	return pool, nil
}
