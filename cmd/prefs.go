package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-grid/internal/config"
	"github.com/kozaktomas/photo-grid/internal/database"
	"github.com/kozaktomas/photo-grid/internal/preferences"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change the stored sheet preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored preferences merged over the defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPreferenceStore(cmd.Context(), func(ctx context.Context, store database.PreferenceStore) error {
			p, err := preferences.Load(ctx, store)
			if err != nil {
				return err
			}
			if mustGetBool(cmd, "json") {
				return outputJSON(p)
			}
			fmt.Printf("Backend: %s\n\n", store.Name())
			fmt.Print(p.Describe())
			return nil
		})
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set key=value [key=value...]",
	Short: "Change preferences",
	Long: `Change one or more preferences. Keys:
  selectedPaperSizeIndex, pictureWidth, pictureHeight, margins, spacing,
  allowWhitespace, showCropMarks, isDarkMode, placeholderShape

Example:
  photo-grid prefs set pictureWidth=35 pictureHeight=45 placeholderShape=round`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPreferenceStore(cmd.Context(), func(ctx context.Context, store database.PreferenceStore) error {
			p, err := preferences.Load(ctx, store)
			if err != nil {
				return err
			}
			for _, arg := range args {
				key, value, err := parseAssignment(arg)
				if err != nil {
					return err
				}
				if p, err = preferences.Apply(p, key, value); err != nil {
					return err
				}
			}
			if _, err := p.Layout(); err != nil {
				return fmt.Errorf("refusing to save: %w", err)
			}
			if err := preferences.Save(ctx, store, p); err != nil {
				return err
			}
			fmt.Printf("Saved %d preference(s) to %s\n", len(args), store.Name())
			return nil
		})
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPreferenceStore(cmd.Context(), func(ctx context.Context, store database.PreferenceStore) error {
			if err := store.Reset(ctx); err != nil {
				return fmt.Errorf("reset preferences in %s: %w", store.Name(), err)
			}
			fmt.Println("Preferences reset to defaults")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsShowCmd, prefsSetCmd, prefsResetCmd)
	prefsShowCmd.Flags().Bool("json", false, "Output as JSON")
}

func withPreferenceStore(ctx context.Context, fn func(context.Context, database.PreferenceStore) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, closeStore, err := openPreferenceStore(ctx, config.Load())
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(ctx, store)
}
