package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var backendOverride string

var rootCmd = &cobra.Command{
	Use:   "photo-grid",
	Short: "Lay out photos on print sheets",
	Long: `Photo Grid arranges pictures of a fixed size on a paper format, fits
each photo into its placeholder and renders the sheet for printing.

Sheet defaults (paper, picture size, margins, spacing, shape) are kept in a
preference store: a local file by default, or PostgreSQL / MariaDB.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&backendOverride, "backend", "", "Preference backend: file, postgres or mariadb (overrides PREFERENCES_BACKEND)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
