// Package ratelimit budgets outbound calls to the social-graph API across
// all orchestrator processes. The primary limiter is distributed (redis_rate
// against the shared store); when Redis is unreachable each process falls
// back to a local limiter with a reduced budget so the upstream quota is not
// blown by the fleet.
package ratelimit

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/logger"
)

// Config holds rate limiter configuration for one upstream provider
type Config struct {
	Provider          string        // provider name, used as the Redis key suffix
	RequestsPerSecond int           // shared budget across all processes
	Burst             int           // local-fallback burst size
	MaxQueueTime      time.Duration // longest a request may wait for a token
	MaxWorkers        int           // concurrent outbound requests
	MaxQueueSize      int           // pending requests before rejection
	RedisKeyPrefix    string
}

// RequestFunc is a function that performs the actual API request
type RequestFunc func(ctx context.Context) (interface{}, error)

type requestResult struct {
	value interface{}
	err   error
}

// Proxy defines the interface for the rate-limiting proxy
//
//go:generate mockgen -source=proxy.go -destination=../mocks/ratelimit_proxy.go -package=mocks -mock_names=Proxy=MockRateLimitProxy
type Proxy interface {
	// Request submits a rate-limited request for execution
	Request(ctx context.Context, fn RequestFunc) (interface{}, error)

	// Close gracefully shuts down the proxy
	Close() error
}

type proxy struct {
	config         Config
	pool           pond.ResultPool[*requestResult]
	distributed    adapter.RedisRateLimiter
	local          *rate.Limiter
	clock          adapter.Clock
	closed         atomic.Bool
	redisAvailable atomic.Bool
}

// NewProxy creates a new rate-limiting proxy
func NewProxy(cfg Config, rc adapter.RedisClient, clock adapter.Clock) (Proxy, error) {
	if cfg.Provider == "" || cfg.RequestsPerSecond <= 0 {
		return nil, fmt.Errorf("invalid rate limiter configuration: provider=%q rps=%d", cfg.Provider, cfg.RequestsPerSecond)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerSecond
	}
	if cfg.MaxQueueTime == 0 {
		cfg.MaxQueueTime = 30 * time.Second
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 10
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 256
	}
	if cfg.RedisKeyPrefix == "" {
		cfg.RedisKeyPrefix = "train:ratelimit:"
	}

	// The local fallback runs at half the shared budget: several processes
	// may fall back at once and together must stay under the quota.
	localRate := max(float64(cfg.RequestsPerSecond)/2, 1.0)

	p := &proxy{
		config:      cfg,
		pool:        pond.NewResultPool[*requestResult](cfg.MaxWorkers, pond.WithQueueSize(cfg.MaxQueueSize)),
		distributed: rc.NewRateLimiter(),
		local:       rate.NewLimiter(rate.Limit(localRate), cfg.Burst),
		clock:       clock,
	}
	p.redisAvailable.Store(true)

	logger.Info("Rate limit proxy initialized",
		zap.String("provider", cfg.Provider),
		zap.Int("requests_per_second", cfg.RequestsPerSecond),
		zap.Int("max_workers", cfg.MaxWorkers),
	)

	return p, nil
}

// Request submits a rate-limited request with type safety. A nil proxy
// executes the function directly.
func Request[T any](ctx context.Context, p Proxy, fn func(ctx context.Context) (T, error)) (T, error) {
	if p == nil {
		return fn(ctx)
	}

	var zero T
	result, err := p.Request(ctx, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

// Request submits a rate-limited request for execution
func (p *proxy) Request(ctx context.Context, fn RequestFunc) (interface{}, error) {
	if p.closed.Load() {
		return nil, fmt.Errorf("proxy is closed")
	}

	queueCtx, cancel := context.WithTimeout(ctx, p.config.MaxQueueTime)
	defer cancel()

	resultTask := p.pool.Submit(func() *requestResult {
		if err := p.acquireToken(queueCtx); err != nil {
			return &requestResult{err: err}
		}
		value, err := fn(queueCtx)
		return &requestResult{value: value, err: err}
	})

	result, err := resultTask.Wait()
	if err != nil {
		return nil, err
	}
	if result.err != nil {
		return nil, result.err
	}
	return result.value, nil
}

// Close gracefully shuts down the proxy
func (p *proxy) Close() error {
	if p.closed.CompareAndSwap(false, true) {
		p.pool.StopAndWait()
	}
	return nil
}

// acquireToken blocks until a rate limit token is available
func (p *proxy) acquireToken(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if p.redisAvailable.Load() {
			allowed, retryAfter, err := p.tryDistributedLimit(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				// Redis error: fall back to the local limiter and let the
				// next request probe the distributed one again.
				p.redisAvailable.Store(false)
				logger.Warn("Distributed rate limiter unavailable, falling back to local",
					zap.String("provider", p.config.Provider),
					zap.Error(err),
				)
				continue
			}
			if allowed {
				return nil
			}

			// Rate limited: sleep with jitter (50-150% of retryAfter) and retry
			if retryAfter <= 0 {
				retryAfter = 50 * time.Millisecond
			}
			jitter := time.Duration(float64(retryAfter) * (0.5 + rand.Float64())) //nolint:gosec,G404
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-p.clock.After(jitter):
			}
			continue
		}

		if err := p.local.Wait(ctx); err != nil {
			return err
		}
		p.redisAvailable.Store(true) // probe the distributed limiter again next time
		return nil
	}
}

// tryDistributedLimit attempts to acquire a token from the distributed limiter
func (p *proxy) tryDistributedLimit(ctx context.Context) (bool, time.Duration, error) {
	key := p.config.RedisKeyPrefix + p.config.Provider

	res, err := p.distributed.Allow(ctx, key, redis_rate.PerSecond(p.config.RequestsPerSecond))
	if err != nil {
		return false, 0, err
	}

	if res.Allowed == 0 {
		logger.Debug("Rate limit token unavailable, waiting",
			zap.String("provider", p.config.Provider),
			zap.Duration("retry_after", res.RetryAfter),
		)
		return false, res.RetryAfter, nil
	}

	return true, 0, nil
}
