// Package generation deduplicates expensive artifact-generation work per
// token id. The generator performs costly external uploads that must not run
// twice for the same token id: concurrent in-process callers are coalesced
// onto one in-flight invocation, and completed results are persisted to the
// shared store so other processes reuse them. Failures clear the slot so a
// later call retries instead of replaying a cached failure.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/domain"
)

// GeneratorFunc produces the artifacts for one token id. It is invoked at
// most once per token id for any number of concurrent callers.
type GeneratorFunc func(ctx context.Context) (*domain.PendingGeneration, error)

// Cache defines the interface for the idempotent generation cache
//
//go:generate mockgen -source=cache.go -destination=../mocks/generation.go -package=mocks -mock_names=Cache=MockGenerationCache
type Cache interface {
	// GetOrGenerate returns the cached result for tokenID, or invokes
	// generate exactly once and caches its result. Concurrent callers for
	// the same token id observe the same result.
	GetOrGenerate(ctx context.Context, tokenID uint64, generate GeneratorFunc) (*domain.PendingGeneration, error)

	// Invalidate removes the cached result for tokenID
	Invalidate(ctx context.Context, tokenID uint64) error
}

type cache struct {
	redis adapter.RedisClient
	group singleflight.Group
	ttl   time.Duration
}

// NewCache creates a new generation cache. ttl bounds how long a completed
// result is reused; it is independent of the staging expiry so a genuinely
// stuck generation does not poison future attempts forever.
func NewCache(redis adapter.RedisClient, ttl time.Duration) Cache {
	return &cache{
		redis: redis,
		ttl:   ttl,
	}
}

// GetOrGenerate returns the cached result or runs generate exactly once
func (c *cache) GetOrGenerate(ctx context.Context, tokenID uint64, generate GeneratorFunc) (*domain.PendingGeneration, error) {
	// Fast path: a completed result from this or another process
	if cached, err := c.load(ctx, tokenID); err != nil {
		return nil, err
	} else if cached != nil {
		return cached, nil
	}

	// Coalesce concurrent in-process callers onto one invocation. On error
	// the singleflight slot drops and nothing is persisted, so the next
	// call retries.
	result, err, _ := c.group.Do(strconv.FormatUint(tokenID, 10), func() (interface{}, error) {
		// Re-check under the flight: another process may have finished
		// while this caller waited.
		if cached, err := c.load(ctx, tokenID); err != nil {
			return nil, err
		} else if cached != nil {
			return cached, nil
		}

		generated, err := generate(ctx)
		if err != nil {
			return nil, err
		}
		if generated == nil {
			return nil, fmt.Errorf("generator returned no result for token %d", tokenID)
		}

		if err := c.persist(ctx, tokenID, generated); err != nil {
			return nil, err
		}

		return generated, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.PendingGeneration), nil
}

// Invalidate removes the cached result for tokenID
func (c *cache) Invalidate(ctx context.Context, tokenID uint64) error {
	c.group.Forget(strconv.FormatUint(tokenID, 10))

	if err := c.redis.Del(ctx, domain.GenerationKey(tokenID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate generation cache for token %d: %w", tokenID, err)
	}

	return nil
}

// load reads a completed result from the shared store, nil when absent
func (c *cache) load(ctx context.Context, tokenID uint64) (*domain.PendingGeneration, error) {
	raw, err := c.redis.Get(ctx, domain.GenerationKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read generation cache for token %d: %w", tokenID, err)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()

	var generated domain.PendingGeneration
	if err := dec.Decode(&generated); err != nil {
		return nil, fmt.Errorf("malformed generation cache entry for token %d: %w", tokenID, err)
	}

	return &generated, nil
}

// persist writes a completed result with the cache's own expiry window
func (c *cache) persist(ctx context.Context, tokenID uint64, generated *domain.PendingGeneration) error {
	data, err := json.Marshal(generated)
	if err != nil {
		return fmt.Errorf("failed to marshal generation result: %w", err)
	}

	if err := c.redis.Set(ctx, domain.GenerationKey(tokenID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to persist generation result for token %d: %w", tokenID, err)
	}

	return nil
}
