package preferences

import (
	"context"
	"fmt"

	"github.com/kozaktomas/photo-grid/internal/database"
)

// Load reads the stored preferences and merges them over Defaults.
func Load(ctx context.Context, store database.PreferenceStore) (Preferences, error) {
	values, err := store.Load(ctx)
	if err != nil {
		return Defaults(), fmt.Errorf("load preferences from %s: %w", store.Name(), err)
	}
	return FromStrings(values), nil
}

// Save writes every preference key.
func Save(ctx context.Context, store database.PreferenceStore, p Preferences) error {
	if err := store.Save(ctx, p.Strings()); err != nil {
		return fmt.Errorf("save preferences to %s: %w", store.Name(), err)
	}
	return nil
}
