package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/medialib/internal/config"
	"github.com/alfredjeanlab/medialib/internal/events"
	"github.com/alfredjeanlab/medialib/internal/server"
	"github.com/alfredjeanlab/medialib/internal/store/postgres"
	"github.com/alfredjeanlab/medialib/internal/store/sqlite"
	"github.com/alfredjeanlab/medialib/internal/store/sqlstore"
	mediasync "github.com/alfredjeanlab/medialib/internal/sync"
)

const presetSyncDebounce = 2 * time.Second

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the medialib HTTP server",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Open the database and apply migrations.
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		logger.Info("database ready", "driver", cfg.DBDriver)

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = events.NoopPublisher{}
			logger.Info("events disabled (MEDIALIB_NATS_URL not set)")
		}

		mediaServer := server.NewMediaServer(store, publisher, logger)
		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           mediaServer.NewHTTPHandler(cfg.AuthToken),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start the preset backup scheduler if any destinations are configured.
		var scheduler *mediasync.Scheduler
		var presetWatch *events.NATSSubscriber
		if cfg.SyncEnabled() {
			dests := syncDestinations(context.Background(), cfg, logger)
			if len(dests) > 0 {
				scheduler = mediasync.NewScheduler(store, dests, cfg.SyncInterval, logger)
				scheduler.Start()
				logger.Info("sync scheduler started", "interval", cfg.SyncInterval)
				presetWatch = watchPresets(scheduler, cfg.NATSURL, logger)
			}
		}

		if cfg.AuthToken == "" {
			logger.Warn("authentication disabled (MEDIALIB_AUTH_TOKEN not set)")
		}
		logger.Info("medialib server started", "http_addr", cfg.HTTPAddr)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		if scheduler != nil {
			scheduler.Stop()
			logger.Info("sync scheduler stopped")
		}
		if presetWatch != nil {
			presetWatch.Close()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}

func openStore(cfg *config.Config) (*sqlstore.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DatabaseURL)
	case config.DriverSQLite:
		return sqlite.Open(cfg.DatabaseURL)
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
}

// watchPresets subscribes the scheduler to preset changes on the bus. It
// returns nil when events are disabled or the subscription fails.
func watchPresets(scheduler *mediasync.Scheduler, natsURL string, logger *slog.Logger) *events.NATSSubscriber {
	if natsURL == "" {
		return nil
	}
	sub, err := events.NewNATSSubscriber(natsURL)
	if err != nil {
		logger.Error("preset watch disabled", "err", err)
		return nil
	}
	if err := scheduler.WatchPresets(sub, presetSyncDebounce); err != nil {
		logger.Error("preset watch disabled", "err", err)
		sub.Close()
		return nil
	}
	logger.Info("sync on preset change enabled", "debounce", presetSyncDebounce)
	return sub
}

// syncDestinations builds the configured backup destinations. A destination
// that fails to initialise is logged and skipped.
func syncDestinations(ctx context.Context, cfg *config.Config, logger *slog.Logger) []mediasync.Destination {
	var dests []mediasync.Destination

	if cfg.SyncFile != "" {
		d, err := mediasync.NewFileDestination(cfg.SyncFile)
		if err != nil {
			logger.Error("failed to create file sync destination", "err", err)
		} else {
			dests = append(dests, d)
			logger.Info("sync destination enabled", "dest", d.Name())
		}
	}

	if cfg.SyncS3Bucket != "" {
		d, err := mediasync.NewS3Destination(ctx,
			cfg.SyncS3Bucket,
			cfg.SyncS3Key,
			cfg.SyncS3Region,
			cfg.SyncS3Endpoint,
		)
		if err != nil {
			logger.Error("failed to create S3 sync destination", "err", err)
		} else {
			dests = append(dests, d)
			logger.Info("sync destination enabled", "dest", d.Name())
		}
	}

	return dests
}
