package postgres

import (
	"context"
	"fmt"
)

// PreferenceRepository provides PostgreSQL-backed preference storage.
type PreferenceRepository struct {
	pool *Pool
}

// NewPreferenceRepository creates a new PostgreSQL preference repository.
func NewPreferenceRepository(pool *Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

// Name implements database.PreferenceStore.
func (r *PreferenceRepository) Name() string {
	return BackendName
}

// Load returns every stored preference.
func (r *PreferenceRepository) Load(ctx context.Context) (map[string]string, error) {
	rows, err := r.pool.db.QueryContext(ctx, "SELECT key, value FROM preferences")
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preferences: %w", err)
	}
	return values, nil
}

// Save upserts all values in a single transaction.
func (r *PreferenceRepository) Save(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	tx, err := r.pool.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO preferences (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`
	for k, v := range values {
		if _, err := tx.ExecContext(ctx, query, k, v); err != nil {
			return fmt.Errorf("save preference %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit preferences: %w", err)
	}
	return nil
}

// Reset deletes all stored preferences.
func (r *PreferenceRepository) Reset(ctx context.Context) error {
	if _, err := r.pool.db.ExecContext(ctx, "DELETE FROM preferences"); err != nil {
		return fmt.Errorf("reset preferences: %w", err)
	}
	return nil
}
