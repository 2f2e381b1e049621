package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/domain"
	"github.com/choochoo-labs/conductor/internal/logger"
	"github.com/choochoo-labs/conductor/internal/staging"
)

const (
	SWEEP_CYCLE_INTERVAL = 1 * time.Minute // Time to sleep between sweep cycles
)

// StagingSweeperConfig holds configuration for the staging sweeper
type StagingSweeperConfig struct {
	WorkerPoolSize int           // Concurrent workers
	StuckThreshold time.Duration // Entries older than this are considered stuck
}

// stagingSweeper marks staging entries abandoned by crashed or hung pipelines
// as failed, so operators see them in the admin surface before their TTL
// expires them silently.
type stagingSweeper struct {
	config    *StagingSweeperConfig
	staging   staging.Store
	pool      pond.Pool
	clock     adapter.Clock
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewStagingSweeper creates a new staging sweeper
func NewStagingSweeper(
	config *StagingSweeperConfig,
	stagingStore staging.Store,
	clock adapter.Clock,
) Sweeper {
	return &stagingSweeper{
		config:    config,
		staging:   stagingStore,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *stagingSweeper) Name() string {
	return "staging-sweeper"
}

// Start begins the sweeper's main loop
func (s *stagingSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh) // Signal that we've stopped
	}()

	logger.InfoCtx(ctx, "Starting staging sweeper",
		zap.Int("worker_pool_size", s.config.WorkerPoolSize),
		zap.Duration("stuck_threshold", s.config.StuckThreshold),
	)

	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithContext(ctx),
	)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Staging sweeper stopping due to context cancellation", zap.Error(ctx.Err()))
			s.cleanup()
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Staging sweeper stop requested")
			s.cleanup()
			return nil
		default:
			if err := s.runSweepCycle(ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.ErrorCtx(ctx, err)
				}
			}
			if !s.sleep(ctx, SWEEP_CYCLE_INTERVAL) {
				s.cleanup()
				return nil
			}
		}
	}
}

// cleanup stops the worker pool and waits for tasks to complete
func (s *stagingSweeper) cleanup() {
	if s.pool != nil {
		s.pool.StopAndWait()
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *stagingSweeper) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping staging sweeper")

	close(s.stopChan)

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Staging sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Staging sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runSweepCycle runs a single sweep cycle
func (s *stagingSweeper) runSweepCycle(ctx context.Context) error {
	startTime := s.clock.Now()

	entries, err := s.staging.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list staging entries: %w", err)
	}

	now := s.clock.Now()
	var stuck []*domain.StagingEntry
	for _, entry := range entries {
		if !isActive(entry.Status) {
			continue
		}
		if staging.IsStuck(entry, s.config.StuckThreshold, now) {
			stuck = append(stuck, entry)
		}
	}

	if len(stuck) == 0 {
		return nil
	}

	logger.InfoCtx(ctx, "Found stuck staging entries", zap.Int("count", len(stuck)))

	var markedCount atomic.Int32
	for _, entry := range stuck {
		s.pool.Submit(func() {
			age := now.Sub(entry.CreatedAt)
			reason := fmt.Sprintf("stuck in status %q for %s", entry.Status, age.Round(time.Second))
			if err := s.staging.UpdateStatus(ctx, entry.TokenID, domain.StagingStatusFailed, reason); err != nil {
				logger.ErrorCtx(ctx, fmt.Errorf("failed to mark staging entry stuck: %w", err),
					zap.Uint64("token_id", entry.TokenID),
				)
				return
			}
			markedCount.Add(1)
			logger.InfoCtx(ctx, "Marked stuck staging entry as failed",
				zap.Uint64("token_id", entry.TokenID),
				zap.String("previous_status", string(entry.Status)),
				zap.Duration("age", age),
			)
		})
	}

	s.pool.StopAndWait()

	// Recreate pool for next cycle
	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithContext(ctx),
	)

	logger.InfoCtx(ctx, "Sweep cycle completed",
		zap.Duration("duration", s.clock.Since(startTime)),
		zap.Int("stuck", len(stuck)),
		zap.Int32("marked", markedCount.Load()),
	)

	return nil
}

// isActive reports whether a staging status still represents a live pipeline
func isActive(status domain.StagingStatus) bool {
	switch status {
	case domain.StagingStatusPending, domain.StagingStatusGenerating, domain.StagingStatusMinting:
		return true
	}
	return false
}

// sleep waits for the given duration, returning false if interrupted by
// context cancellation or a stop request
func (s *stagingSweeper) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-s.clock.After(d):
		return true
	case <-ctx.Done():
		return false
	case <-s.stopChan:
		return false
	}
}
