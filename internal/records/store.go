// Package records is the read side of the promoted state: permanent token
// records, the current-holder pointer, the token id tracker and the
// social-post workflow state. All writes to the first three happen through
// the promotion script; this store only decodes them, strictly.
package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/domain"
)

// Store defines the interface for reading promoted state and reading/writing
// the workflow state singleton
//
//go:generate mockgen -source=store.go -destination=../mocks/records.go -package=mocks -mock_names=Store=MockRecordsStore
type Store interface {
	// GetTokenRecord retrieves a permanent token record;
	// returns domain.ErrTokenNotFound when absent
	GetTokenRecord(ctx context.Context, tokenID uint64) (*domain.TokenRecord, error)

	// GetCurrentHolder retrieves the current-holder pointer, nil when unset
	GetCurrentHolder(ctx context.Context) (*domain.CurrentHolderPointer, error)

	// GetTracker retrieves the token id tracker, nil when unset
	GetTracker(ctx context.Context) (*domain.TokenIDTracker, error)

	// GetWorkflowState retrieves the workflow state; when unset it returns
	// the initial NOT_CASTED state
	GetWorkflowState(ctx context.Context) (*domain.WorkflowState, error)

	// SetWorkflowState overwrites the workflow state singleton
	SetWorkflowState(ctx context.Context, state *domain.WorkflowState) error

	// SetCurrentHolder overwrites the current-holder pointer outside a
	// promotion, used to backfill a holder whose wallet address was not
	// known when the pointer was written
	SetCurrentHolder(ctx context.Context, holder *domain.CurrentHolderPointer) error
}

type store struct {
	redis adapter.RedisClient
}

// NewStore creates a new records store
func NewStore(redis adapter.RedisClient) Store {
	return &store{redis: redis}
}

// GetTokenRecord retrieves a permanent token record
func (s *store) GetTokenRecord(ctx context.Context, tokenID uint64) (*domain.TokenRecord, error) {
	raw, err := s.redis.Get(ctx, domain.TokenKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token record %d: %w", tokenID, err)
	}

	var record domain.TokenRecord
	if err := strictDecode([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("token record %d: %w", tokenID, domain.ErrInvalidTokenDataJSON)
	}

	return &record, nil
}

// GetCurrentHolder retrieves the current-holder pointer
func (s *store) GetCurrentHolder(ctx context.Context) (*domain.CurrentHolderPointer, error) {
	raw, err := s.redis.Get(ctx, domain.KeyCurrentHolder).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read current holder: %w", err)
	}

	var holder domain.CurrentHolderPointer
	if err := strictDecode([]byte(raw), &holder); err != nil {
		return nil, fmt.Errorf("current holder: %w", domain.ErrInvalidTokenDataJSON)
	}

	return &holder, nil
}

// GetTracker retrieves the token id tracker
func (s *store) GetTracker(ctx context.Context) (*domain.TokenIDTracker, error) {
	raw, err := s.redis.Get(ctx, domain.KeyTokenTracker).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token tracker: %w", err)
	}

	var tracker domain.TokenIDTracker
	if err := strictDecode([]byte(raw), &tracker); err != nil {
		return nil, domain.ErrInvalidTrackerJSON
	}

	return &tracker, nil
}

// GetWorkflowState retrieves the workflow state singleton
func (s *store) GetWorkflowState(ctx context.Context) (*domain.WorkflowState, error) {
	raw, err := s.redis.Get(ctx, domain.KeyWorkflowState).Result()
	if errors.Is(err, redis.Nil) {
		return &domain.WorkflowState{State: domain.WorkflowNotCasted}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow state: %w", err)
	}

	var state domain.WorkflowState
	if err := strictDecode([]byte(raw), &state); err != nil {
		return nil, domain.ErrInvalidWorkflowStateJSON
	}
	if state.State == "" {
		return nil, domain.ErrInvalidWorkflowStateJSON
	}

	return &state, nil
}

// SetWorkflowState overwrites the workflow state singleton
func (s *store) SetWorkflowState(ctx context.Context, state *domain.WorkflowState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow state: %w", err)
	}

	if err := s.redis.Set(ctx, domain.KeyWorkflowState, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write workflow state: %w", err)
	}

	return nil
}

// SetCurrentHolder overwrites the current-holder pointer
func (s *store) SetCurrentHolder(ctx context.Context, holder *domain.CurrentHolderPointer) error {
	data, err := json.Marshal(holder)
	if err != nil {
		return fmt.Errorf("failed to marshal current holder: %w", err)
	}

	if err := s.redis.Set(ctx, domain.KeyCurrentHolder, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write current holder: %w", err)
	}

	return nil
}

// strictDecode rejects unknown fields so schema drift surfaces instead of
// propagating a half-read value
func strictDecode(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
