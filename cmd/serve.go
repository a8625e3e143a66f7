package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kagai-portal/hanamachi/internal/server"
	"github.com/kagai-portal/hanamachi/internal/site"
)

var (
	servePort    int
	serveNoBuild bool
	serveRemote  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site and serve it for local preview",
	Long: `Builds the site, then serves the output directory under the configured
base path together with the map, calendar and detail endpoints.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveNoBuild, "no-build", false, "serve the existing output without rebuilding")
	serveCmd.Flags().StringVar(&serveRemote, "remote", "", "base URL to fetch data documents from")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Serve.Port = servePort
	}

	logger := newLogger(cfg)
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !serveNoBuild {
		res, err := buildSite(ctx, cfg, serveRemote, true, logger)
		if err != nil {
			printBuildResult(cfg, res)
			return err
		}
		fmt.Fprintf(os.Stderr, "Built %d pages into %s\n", len(res.Pages), cfg.OutputDir)
	}

	src, err := newSource(cfg, serveRemote)
	if err != nil {
		return err
	}
	srv := server.New(server.Config{
		Port:     cfg.Serve.Port,
		Dir:      cfg.OutputDir,
		BasePath: cfg.BasePath(),
		AllowAll: true,
	}, site.NewRegistries(cfg, src, logger), logger)

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown failed", zap.Error(err))
		}
	}()

	fmt.Fprintf(os.Stderr, "hanamachi %s serving %s\n", Version, cfg.OutputDir)
	fmt.Fprintf(os.Stderr, "  http://localhost:%d%s\n", cfg.Serve.Port, cfg.BasePath())

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
