package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"epos-sync/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	dryRunSync          bool
	continueOnErrorSync bool
)

// syncCmd runs one reconciliation of EPOS products into the storefront.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile storefront products with EPOS",
	Long: `Reads the EPOS and storefront catalogs, then updates, soft deletes and creates
storefront products so they match EPOS.

A failed write aborts the run; writes already made are kept.

Examples:
  # Report what would change
  epos-sync sync --dry-run

  # Apply, recording failed SKUs instead of stopping at the first one
  epos-sync sync --continue-on-error`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Plan and report without writing (overrides SYNC_DRY_RUN)")
	syncCmd.Flags().BoolVar(&continueOnErrorSync, "continue-on-error", false, "Record failed writes and keep going (overrides SYNC_CONTINUE_ON_ERROR)")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, l, svc, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := reconcile.ReconcileOptions{
		DryRun:          cfg.Sync.DryRun,
		ContinueOnError: cfg.Sync.ContinueOnError,
	}
	if cmd.Flags().Changed("dry-run") {
		opts.DryRun = dryRunSync
	}
	if cmd.Flags().Changed("continue-on-error") {
		opts.ContinueOnError = continueOnErrorSync
	}

	report, err := svc.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	l.Info("Sync summary",
		zap.String("run_id", report.RunID),
		zap.Int("updated", report.Result.Updated),
		zap.Int("deleted", report.Result.SoftDeleted),
		zap.Int("inserted", report.Result.Inserted),
		zap.Int("reinstated", report.Result.Reinstated),
		zap.Int("brands_created", report.Brands.BrandsCreated),
		zap.Int64("duration_ms", report.DurationMS),
	)

	if report.Failed() {
		return fmt.Errorf("sync finished with %d failed writes: %v", len(report.FailedSKUs), report.FailedSKUs)
	}
	return nil
}
