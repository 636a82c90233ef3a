package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jmartel/sitetext/internal/api"
	"github.com/jmartel/sitetext/internal/clock/system"
	"github.com/jmartel/sitetext/internal/crawler"
	"github.com/jmartel/sitetext/internal/logging"
)

// newServeCmd creates the 'serve' subcommand exposing the crawl upload
// endpoint over HTTP.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the HTTP crawl service",
		Long: `Starts an HTTP server accepting uploaded URL lists on /v1/crawls and
running one batch crawl per upload. Health and Prometheus metrics endpoints
are exposed alongside.`,
		RunE: runServeCommand,
	}
}

func runServeCommand(cmd *cobra.Command, _ []string) error {
	logger := logging.L

	cfg, err := crawler.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load crawler config: %w", err)
	}

	fetcher, err := crawler.NewCollyFetcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}
	sink := crawler.NewFileSystemSink(logger)
	batch := crawler.NewBatch(fetcher, sink, system.New(), logger)

	server := api.NewServer(batch, api.Defaults{
		OutputDir:      cfg.OutputDir,
		MaxConcurrency: viper.GetInt("server.default_max_concurrency"),
		MaxDepth:       cfg.MaxDepth,
		Workers:        cfg.Workers,
	}, logger)

	addr := viper.GetString("server.listen_addr")
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-cmd.Context().Done():
	}

	shutdownTimeout := viper.GetDuration("server.shutdown_timeout")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}
