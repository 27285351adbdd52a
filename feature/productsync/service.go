package productsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"epos-sync/core/database"
	"epos-sync/core/lock"
	"epos-sync/core/logger"
	"epos-sync/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ErrRunInProgress is returned when another process holds the run lock.
var ErrRunInProgress = errors.New("a sync run is already in progress")

// ConnectFunc opens a database connection.
type ConnectFunc func(cfg database.Config) (*gorm.DB, error)

// Service runs product syncs.
type Service struct {
	source      database.Config
	destination database.Config
	locker      lock.Locker
	archive     *Archive
	logger      *zap.Logger
	connect     ConnectFunc

	group    singleflight.Group
	flightMu sync.Mutex
	flights  map[string]*flight

	mu   sync.RWMutex
	last *RunReport
}

// flight is the context of one shared run. It is cancelled once every caller waiting
// on the run has gone away.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// NewService creates a sync service. archive may be nil to keep reports in memory only.
func NewService(source, destination database.Config, locker lock.Locker, archive *Archive, logger *zap.Logger) *Service {
	if locker == nil {
		locker = lock.Noop{}
	}
	return &Service{
		source:      source,
		destination: destination,
		locker:      locker,
		archive:     archive,
		logger:      logger,
		connect:     database.Connect,
	}
}

// Run performs one sync. Concurrent calls with the same options share a single run.
// The shared run is cancelled only when every caller's context is done, so one
// disconnected HTTP client does not abort a run others are waiting on.
//
// The returned report is never nil once the run has started, even when err is not.
func (s *Service) Run(ctx context.Context, opts reconcile.ReconcileOptions) (*RunReport, error) {
	key := fmt.Sprintf("sync:dry=%t:continue=%t", opts.DryRun, opts.ContinueOnError)

	f := s.join(ctx, key)
	stop := context.AfterFunc(ctx, func() { s.leave(key, f) })
	defer func() {
		if stop() {
			s.leave(key, f)
		}
	}()

	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.run(f.ctx, opts)
	})
	if shared {
		s.logger.Debug("Joined in-flight sync run")
	}

	report, _ := v.(*RunReport)
	return report, err
}

// join registers a caller of the run identified by key and returns its flight.
func (s *Service) join(ctx context.Context, key string) *flight {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()

	if s.flights == nil {
		s.flights = make(map[string]*flight)
	}
	f, ok := s.flights[key]
	if !ok {
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: runCtx, cancel: cancel}
		s.flights[key] = f
	}
	f.waiters++
	return f
}

// leave drops a caller from f and cancels the run when no caller is left.
func (s *Service) leave(key string, f *flight) {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if s.flights[key] == f {
		delete(s.flights, key)
	}
}

// LastReport returns the report of the most recent run, or nil.
func (s *Service) LastReport() *RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Archive returns the report archive, or nil when archiving is disabled.
func (s *Service) Archive() *Archive {
	return s.archive
}

// Check opens both databases and runs the schema preflight.
func (s *Service) Check(ctx context.Context) (*SchemaReport, error) {
	src, dst, closeAll, err := s.open()
	if err != nil {
		return nil, err
	}
	defer closeAll()

	return Preflight(ctx, src, dst)
}

func (s *Service) run(ctx context.Context, opts reconcile.ReconcileOptions) (*RunReport, error) {
	runID := uuid.NewString()
	l := logger.WithRunID(s.logger, runID)

	release, err := s.locker.Obtain(ctx)
	if errors.Is(err, lock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %w", ErrRunInProgress, err)
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(context.Background()); err != nil {
			l.Warn("Failed to release run lock", zap.Error(err))
		}
	}()

	report := newRunReport(runID, opts, time.Now().UTC())
	l.Info("Starting product sync", zap.Bool("dry_run", opts.DryRun), zap.Bool("continue_on_error", opts.ContinueOnError))

	err = s.execute(ctx, l, opts, report)
	report.finish(time.Now().UTC(), err)

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	if s.archive != nil {
		if name, archErr := s.archive.Put(ctx, report); archErr != nil {
			l.Warn("Failed to archive run report", zap.Error(archErr))
		} else {
			l.Info("Archived run report", zap.String("object", name))
		}
	}

	if err != nil {
		l.Error("Product sync failed", zap.Error(err), zap.Int64("duration_ms", report.DurationMS))
		return report, err
	}

	l.Info("Product sync complete",
		zap.String("status", report.Status),
		zap.Int64("duration_ms", report.DurationMS),
	)
	return report, nil
}

// execute runs the phases of one sync and fills report as it goes.
func (s *Service) execute(ctx context.Context, l *zap.Logger, opts reconcile.ReconcileOptions, report *RunReport) error {
	src, dst, closeAll, err := s.open()
	if err != nil {
		return err
	}
	defer closeAll()

	schema, err := Preflight(ctx, src, dst)
	if err != nil {
		return err
	}
	if err := schema.Err(); err != nil {
		return err
	}

	adapter := NewAdapter(src, dst, l)
	defer func() { report.Brands = adapter.BrandStats() }()

	snap, err := reconcile.BuildSnapshot(ctx, adapter)
	if err != nil {
		return err
	}
	report.SourceProducts = len(snap.Source)
	report.DestinationProducts = len(snap.Destination)
	l.Info("Found EPOS products", zap.Int("count", report.SourceProducts))
	l.Info("Found web products", zap.Int("count", report.DestinationProducts))

	plan := reconcile.Plan(snap, adapter)
	report.Plan = plan.Summary
	report.DuplicateSourceSKUs = plan.DuplicateSourceKeys
	report.DuplicateDestinationSKUs = plan.DuplicateDestinationKeys
	if n := len(plan.DuplicateDestinationKeys); n > 0 {
		l.Warn("Duplicate web SKUs", zap.Int("count", n), zap.Strings("skus", plan.DuplicateDestinationKeys))
	}
	if n := len(plan.DuplicateSourceKeys); n > 0 {
		l.Warn("Duplicate EPOS SKUs", zap.Int("count", n), zap.Strings("skus", plan.DuplicateSourceKeys))
	}
	LogPlan(l, plan)

	if opts.DryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	result, err := reconcile.ApplyPlan(ctx, adapter, plan, opts)
	if result != nil {
		report.Result = *result
	}
	l.Info("Updated web products", zap.Int("count", report.Result.Updated))
	l.Info("Deleted web products", zap.Int("count", report.Result.SoftDeleted))
	l.Info("New web products",
		zap.Int("inserted", report.Result.Inserted),
		zap.Int("reinstated", report.Result.Reinstated),
		zap.Int("unchanged", report.Result.Unchanged),
	)
	if n := len(report.Result.Failures); n > 0 {
		l.Warn("Writes failed", zap.Int("count", n), zap.Strings("skus", report.Result.FailedKeys()))
	}
	return err
}

// open connects to both databases. closeAll releases whatever was opened.
func (s *Service) open() (src, dst *gorm.DB, closeAll func(), err error) {
	src, err = s.connect(s.source)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to source database: %w", err)
	}

	dst, err = s.connect(s.destination)
	if err != nil {
		_ = database.Close(src)
		return nil, nil, nil, fmt.Errorf("failed to connect to destination database: %w", err)
	}

	closeAll = func() {
		if err := database.Close(dst); err != nil {
			s.logger.Warn("Failed to close destination database", zap.Error(err))
		}
		if err := database.Close(src); err != nil {
			s.logger.Warn("Failed to close source database", zap.Error(err))
		}
	}
	return src, dst, closeAll, nil
}

// LogPlan logs the plan summary and a sample of its actions.
func LogPlan(l *zap.Logger, plan *reconcile.ReconcilePlan) {
	s := plan.Summary

	l.Info("Reconciliation report",
		zap.Int("source_products", s.SourceItems),
		zap.Int("web_products", s.DestinationItems),
		zap.Int("matched", s.Matched),
		zap.Int("in_sync", s.InSync),
	)

	if len(plan.Actions) == 0 {
		return
	}

	l.Info("Planned actions",
		zap.Int("updates", s.Updates),
		zap.Int("soft_deletes", s.SoftDeletes),
		zap.Int("creates", s.Creates),
		zap.Int("total_actions", len(plan.Actions)),
	)

	maxShow := min(5, len(plan.Actions))
	for _, action := range plan.Actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("sku", action.Key),
			zap.String("reason", action.Reason),
		)
	}
	if len(plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}
