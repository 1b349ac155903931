package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/socialite/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve pages with widgets activated on request",
	Long: `Starts an HTTP server that renders pages from pages_dir on request under
/pages/, exposes the network registry under /api/networks and the
activity log under /api/activity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}

		renderer, reg, err := newRenderer(cfg)
		if err != nil {
			return err
		}

		database, err := openActivityDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:        cfg.Server.Port,
			PagesDir:    cfg.PagesDir,
			AllowAll:    cfg.Server.AllowAll,
			AssumeReady: cfg.AssumeReady,
		}, database, reg, renderer)
		srv.SetLogger(slog.Default())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "socialite server %s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
		fmt.Fprintf(os.Stderr, "  Pages: %s\n", cfg.PagesDir)
		fmt.Fprintf(os.Stderr, "  Networks: %v\n", cfg.EnabledNetworks())

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
