package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-grid/internal/config"
	"github.com/kozaktomas/photo-grid/internal/layout"
	"github.com/kozaktomas/photo-grid/internal/preferences"
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Compute how many pictures fit on a sheet",
	Long: `Compute the picture grid for a paper format.

Flags that are not given fall back to the stored preferences.

Example:
  photo-grid grid --paper A4 --width 35 --height 45
  photo-grid grid --shape round --width 50 --json`,
	RunE: runGrid,
}

func init() {
	rootCmd.AddCommand(gridCmd)
	addLayoutFlags(gridCmd)
	gridCmd.Flags().Bool("json", false, "Output as JSON")
}

// storedPreferences reads the preferences from the configured backend. When
// the backend is unavailable it warns and returns the defaults.
func storedPreferences(ctx context.Context, cfg *config.Config) preferences.Preferences {
	store, closeStore, err := openPreferenceStore(ctx, cfg)
	if err != nil {
		fmt.Printf("Warning: %v; using default preferences\n", err)
		return preferences.Defaults()
	}
	defer closeStore()

	p, err := preferences.Load(ctx, store)
	if err != nil {
		fmt.Printf("Warning: %v; using default preferences\n", err)
	}
	return p
}

type gridOutput struct {
	Layout layout.LayoutConfig `json:"layout"`
	Grid   layout.Grid         `json:"grid"`
	Count  int                 `json:"count"`
}

func runGrid(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	p, err := applyLayoutFlags(cmd, storedPreferences(cmd.Context(), cfg))
	if err != nil {
		return err
	}
	lc, err := p.Layout()
	if err != nil {
		return err
	}

	grid, err := layout.ComputeGrid(lc)
	if err != nil {
		return fmt.Errorf("layout does not fit: %w", err)
	}

	if mustGetBool(cmd, "json") {
		return outputJSON(gridOutput{Layout: lc, Grid: grid, Count: grid.Count()})
	}

	fmt.Printf("Paper:    %s (%g x %g mm)\n", lc.Paper.Name, lc.Paper.WidthMM(), lc.Paper.HeightMM())
	fmt.Printf("Picture:  %g x %g mm (%s)\n", grid.PictureWidth, grid.PictureHeight, lc.Shape)
	fmt.Printf("Margin:   %g mm, spacing %g mm\n", lc.MarginMM, lc.SpacingMM)
	fmt.Printf("Grid:     %d rows x %d columns = %d pictures\n", grid.Rows, grid.Columns, grid.Count())
	fmt.Printf("Offset:   %.2f mm left, %.2f mm top\n", grid.OffsetX, grid.OffsetY)
	return nil
}
