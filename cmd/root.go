package cmd

import (
	"context"
	"fmt"
	"os"

	"epos-sync/core/config"
	"epos-sync/core/lock"
	"epos-sync/core/logger"
	"epos-sync/core/storage"
	"epos-sync/feature/productsync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "epos-sync",
	Short: "EPOS to storefront product sync",
	Long: `epos-sync reconciles the EPOS product catalog (source of truth) into the storefront
catalog so that price, stock, brand and buyability follow the point of sale.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting.
		// "debug" selects the development config for ISO8601 timestamps.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// setup loads configuration, builds the logger and wires the sync service.
// The returned cleanup closes the run lock backend.
func setup(ctx context.Context) (*config.Config, *zap.Logger, *productsync.Service, func(), error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	// Credentials live in cfg from here on
	config.ScrubEnv()

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	locker, err := lock.New(ctx, cfg.Lock)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to initialize run lock: %w", err)
	}
	if cfg.Lock.Enabled() {
		l.Info("Run lock enabled", zap.String("redis", cfg.Lock.RedisAddr), zap.String("key", cfg.Lock.Key))
	}

	var archive *productsync.Archive
	if cfg.Sync.ArchiveReports {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			_ = locker.Close()
			return nil, nil, nil, nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket); err != nil {
			_ = locker.Close()
			return nil, nil, nil, nil, err
		}
		archive = productsync.NewArchive(client, cfg.Storage.Bucket)
	}

	svc := productsync.NewService(cfg.Source, cfg.Destination, locker, archive, l)
	cleanup := func() {
		if err := locker.Close(); err != nil {
			l.Warn("Failed to close run lock", zap.Error(err))
		}
		_ = l.Sync()
	}
	return cfg, l, svc, cleanup, nil
}
