package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-grid/internal/config"
	"github.com/kozaktomas/photo-grid/internal/sheet"
	"github.com/kozaktomas/photo-grid/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Photo Grid API server.

The server keeps sheets in memory and exposes paper sizes, grid computation,
fit calculations, preferences and sheet editing and rendering under /api/v1.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to (overrides WEB_HOST)")
}

// resolveServeHostPort takes the address from the environment unless a flag
// was given explicitly.
func resolveServeHostPort(cmd *cobra.Command, cfg *config.Config) (int, string) {
	port := cfg.Web.Port
	host := cfg.Web.Host
	if cmd.Flags().Changed("port") {
		port = mustGetInt(cmd, "port")
	}
	if cmd.Flags().Changed("host") {
		host = mustGetString(cmd, "host")
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openPreferenceStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	fmt.Printf("Using %s preference backend\n", store.Name())

	port, host := resolveServeHostPort(cmd, cfg)
	server := web.NewServer(cfg, port, host, store, sheet.NewManager())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Photo Grid on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
