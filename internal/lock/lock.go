// Package lock provides short-lived, named mutual-exclusion leases backed by
// the shared store. A lock is a bare flag with a TTL: crash safety comes from
// expiry, not from ownership tokens. The TTL must exceed the worst-case
// pipeline duration with margin; a lock that expires while its owner is still
// running is bounded downstream by the write-once and consistency-validation
// invariants.
package lock

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/domain"
	"github.com/choochoo-labs/conductor/internal/logger"
)

// Manager defines the interface for distributed lock operations
//
//go:generate mockgen -source=lock.go -destination=../mocks/lock.go -package=mocks -mock_names=Manager=MockLockManager
type Manager interface {
	// Acquire sets the named flag only if absent, auto-expiring after ttl.
	// Returns false when the lock is already held; callers treat this as
	// "operation already in progress", not a failure.
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)

	// Release unconditionally clears the named flag
	Release(ctx context.Context, name string) error

	// WithLock runs fn under the named lock, releasing it on every exit path.
	// Returns domain.ErrLockContention when the lock is already held.
	WithLock(ctx context.Context, name string, ttl time.Duration, fn func(ctx context.Context) error) error
}

type manager struct {
	redis adapter.RedisClient
}

// NewManager creates a new lock manager backed by the shared store
func NewManager(redis adapter.RedisClient) Manager {
	return &manager{redis: redis}
}

// Acquire sets the named flag only if absent
func (m *manager) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	acquired, err := m.redis.SetNX(ctx, name, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", name, err)
	}

	return acquired, nil
}

// Release unconditionally clears the named flag
func (m *manager) Release(ctx context.Context, name string) error {
	if err := m.redis.Del(ctx, name).Err(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", name, err)
	}

	return nil
}

// WithLock runs fn under the named lock with guaranteed release
func (m *manager) WithLock(ctx context.Context, name string, ttl time.Duration, fn func(ctx context.Context) error) error {
	acquired, err := m.Acquire(ctx, name, ttl)
	if err != nil {
		return err
	}
	if !acquired {
		return domain.ErrLockContention
	}

	// Release on every exit path, including panics bubbling out of fn.
	// Release uses a background context so a canceled request context
	// cannot leave the lock held until expiry.
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := m.Release(releaseCtx, name); err != nil {
			logger.Warn("failed to release lock, waiting for expiry", zap.Error(err), zap.String("lock", name))
		}
	}()

	return fn(ctx)
}
