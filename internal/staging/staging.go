// Package staging records the lifecycle of in-flight hand-off attempts, keyed
// by the token id about to be minted. The conditional create is a second dedup
// signal independent of the lock: the lock key is derived from business
// identifiers, the staging key from the token id, which is only known after an
// on-chain read.
package staging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/domain"
	"github.com/choochoo-labs/conductor/internal/generation"
)

// Store defines the interface for staging entry operations
//
//go:generate mockgen -source=staging.go -destination=../mocks/staging.go -package=mocks -mock_names=Store=MockStagingStore
type Store interface {
	// Create conditionally creates a pending entry for a token id.
	// Returns domain.ErrStagingExists when an entry is already present.
	Create(ctx context.Context, tokenID uint64, orchestrator domain.SourceType) error

	// UpdateStatus overwrites the status (and optional last error) of an entry
	UpdateStatus(ctx context.Context, tokenID uint64, status domain.StagingStatus, lastErr string) error

	// Get retrieves one entry; returns domain.ErrStagingNotFound when absent
	Get(ctx context.Context, tokenID uint64) (*domain.StagingEntry, error)

	// List returns all staging entries, for health and admin tooling
	List(ctx context.Context) ([]*domain.StagingEntry, error)

	// Abandon marks an entry abandoned and clears the associated
	// pending-generation cache so a retry can start clean. Admin-invoked,
	// after confirmed operator intervention.
	Abandon(ctx context.Context, tokenID uint64, reason string) error
}

// IsStuck reports whether an entry has been in flight longer than threshold
// without reaching a promoted state. Pure function.
func IsStuck(entry *domain.StagingEntry, threshold time.Duration, now time.Time) bool {
	if entry.Status == domain.StagingStatusPromoted {
		return false
	}

	return now.Sub(entry.CreatedAt) > threshold
}

type store struct {
	redis adapter.RedisClient
	clock adapter.Clock
	cache generation.Cache
	ttl   time.Duration
}

// NewStore creates a new staging store. Entries carry ttl so attempts from
// crashed pipelines age out without operator action.
func NewStore(redis adapter.RedisClient, clock adapter.Clock, cache generation.Cache, ttl time.Duration) Store {
	return &store{
		redis: redis,
		clock: clock,
		cache: cache,
		ttl:   ttl,
	}
}

// Create conditionally creates a pending entry for a token id
func (s *store) Create(ctx context.Context, tokenID uint64, orchestrator domain.SourceType) error {
	entry := domain.StagingEntry{
		TokenID:      tokenID,
		Status:       domain.StagingStatusPending,
		Orchestrator: orchestrator,
		CreatedAt:    s.clock.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal staging entry: %w", err)
	}

	created, err := s.redis.SetNX(ctx, domain.StagingKey(tokenID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create staging entry for token %d: %w", tokenID, err)
	}
	if !created {
		return domain.ErrStagingExists
	}

	return nil
}

// UpdateStatus overwrites the status of an entry, preserving its remaining fields
func (s *store) UpdateStatus(ctx context.Context, tokenID uint64, status domain.StagingStatus, lastErr string) error {
	entry, err := s.Get(ctx, tokenID)
	if err != nil {
		return err
	}

	entry.Status = status
	entry.LastError = lastErr

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal staging entry: %w", err)
	}

	if err := s.redis.Set(ctx, domain.StagingKey(tokenID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to update staging entry for token %d: %w", tokenID, err)
	}

	return nil
}

// Get retrieves one entry with strict decoding
func (s *store) Get(ctx context.Context, tokenID uint64) (*domain.StagingEntry, error) {
	raw, err := s.redis.Get(ctx, domain.StagingKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrStagingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read staging entry for token %d: %w", tokenID, err)
	}

	entry, err := decodeEntry([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("staging entry for token %d: %w", tokenID, err)
	}

	return entry, nil
}

// List returns all staging entries. Undecodable entries fail the listing
// rather than being skipped silently.
func (s *store) List(ctx context.Context) ([]*domain.StagingEntry, error) {
	keys, err := s.redis.Keys(ctx, domain.StagingKeyPrefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan staging entries: %w", err)
	}

	entries := make([]*domain.StagingEntry, 0, len(keys))
	for _, key := range keys {
		raw, err := s.redis.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			// Expired between scan and read
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read staging entry %s: %w", key, err)
		}

		entry, err := decodeEntry([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("staging entry %s: %w", key, err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Abandon marks an entry abandoned and clears the pending-generation cache
func (s *store) Abandon(ctx context.Context, tokenID uint64, reason string) error {
	if err := s.UpdateStatus(ctx, tokenID, domain.StagingStatusAbandoned, reason); err != nil {
		return err
	}

	return s.cache.Invalidate(ctx, tokenID)
}

// decodeEntry strictly decodes a stored staging entry, rejecting unknown fields
func decodeEntry(data []byte) (*domain.StagingEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var entry domain.StagingEntry
	if err := dec.Decode(&entry); err != nil {
		return nil, fmt.Errorf("malformed staging entry: %w", err)
	}
	if entry.TokenID == 0 || !domain.IsValidStagingStatus(entry.Status) {
		return nil, fmt.Errorf("malformed staging entry: missing token id or invalid status %q", entry.Status)
	}

	return &entry, nil
}
