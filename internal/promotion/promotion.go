// Package promotion converts a staged hand-off attempt into the permanent
// record set: token record, current-holder pointer and monotonic token id
// tracker, with the staging entry removed, as one server-side indivisible
// unit. The script validates everything before mutating anything, so a
// failure leaves no partial state.
package promotion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/domain"
)

// promoteScript runs server-side against the shared store.
//
// KEYS[1] = token record key
// KEYS[2] = current-holder pointer key
// KEYS[3] = token id tracker key
// KEYS[4] = staging entry key
// ARGV[1] = serialized token record
// ARGV[2] = serialized holder pointer
// ARGV[3] = token id
// ARGV[4] = promotion timestamp (RFC3339)
//
// All reads and validation run before the first write: an error reply means
// nothing was mutated.
const promoteScript = `
if redis.call("EXISTS", KEYS[4]) == 0 then
  return redis.error_reply("staging_not_found")
end

local existing = redis.call("GET", KEYS[1])
if existing then
  local ok = pcall(cjson.decode, existing)
  if not ok then
    return redis.error_reply("invalid_token_data_json")
  end
  if existing ~= ARGV[1] then
    return redis.error_reply("token_data_mismatch")
  end
end

local current = 0
local trackerRaw = redis.call("GET", KEYS[3])
if trackerRaw then
  local ok, tracker = pcall(cjson.decode, trackerRaw)
  if not ok or type(tracker) ~= "table" or type(tracker["currentTokenId"]) ~= "number" then
    return redis.error_reply("invalid_tracker_json")
  end
  current = tracker["currentTokenId"]
end

local status = "exists"
if not existing then
  redis.call("SET", KEYS[1], ARGV[1])
  status = "created"
end

redis.call("SET", KEYS[2], ARGV[2])

local id = tonumber(ARGV[3])
if id > current then
  redis.call("SET", KEYS[3], cjson.encode({["currentTokenId"] = id, ["timestamp"] = ARGV[4]}))
end

redis.call("DEL", KEYS[4])

return status
`

// Promoter defines the interface for atomic promotion
//
//go:generate mockgen -source=promotion.go -destination=../mocks/promotion.go -package=mocks -mock_names=Promoter=MockPromoter
type Promoter interface {
	// Promote atomically writes the permanent record set for record.TokenID.
	// Returns domain.PromoteCreated for a new record, domain.PromoteExists
	// for an idempotent replay with byte-identical content. Integrity
	// failures (domain.ErrStagingNotFound, domain.ErrTokenDataMismatch,
	// domain.ErrInvalidTokenDataJSON, domain.ErrInvalidTrackerJSON) leave
	// the store untouched.
	Promote(ctx context.Context, record *domain.TokenRecord, holder *domain.CurrentHolderPointer) (domain.PromoteStatus, error)
}

type promoter struct {
	redis adapter.RedisClient
	clock adapter.Clock
}

// NewPromoter creates a new atomic promoter
func NewPromoter(redis adapter.RedisClient, clock adapter.Clock) Promoter {
	return &promoter{
		redis: redis,
		clock: clock,
	}
}

// Promote atomically writes the permanent record set for record.TokenID
func (p *promoter) Promote(ctx context.Context, record *domain.TokenRecord, holder *domain.CurrentHolderPointer) (domain.PromoteStatus, error) {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal token record: %w", err)
	}

	holderJSON, err := json.Marshal(holder)
	if err != nil {
		return "", fmt.Errorf("failed to marshal holder pointer: %w", err)
	}

	keys := []string{
		domain.TokenKey(record.TokenID),
		domain.KeyCurrentHolder,
		domain.KeyTokenTracker,
		domain.StagingKey(record.TokenID),
	}
	args := []interface{}{
		string(recordJSON),
		string(holderJSON),
		record.TokenID,
		p.clock.Now().UTC().Format(time.RFC3339Nano),
	}

	result, err := p.redis.Eval(ctx, promoteScript, keys, args...).Result()
	if err != nil {
		return "", mapScriptError(record.TokenID, err)
	}

	status, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected promotion reply for token %d: %v", record.TokenID, result)
	}

	switch domain.PromoteStatus(status) {
	case domain.PromoteCreated:
		return domain.PromoteCreated, nil
	case domain.PromoteExists:
		return domain.PromoteExists, nil
	default:
		return "", fmt.Errorf("unexpected promotion status for token %d: %q", record.TokenID, status)
	}
}

// mapScriptError translates script error replies into sentinel errors
func mapScriptError(tokenID uint64, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "staging_not_found"):
		return fmt.Errorf("promote token %d: %w", tokenID, domain.ErrStagingNotFound)
	case strings.Contains(msg, "token_data_mismatch"):
		return fmt.Errorf("promote token %d: %w", tokenID, domain.ErrTokenDataMismatch)
	case strings.Contains(msg, "invalid_token_data_json"):
		return fmt.Errorf("promote token %d: %w", tokenID, domain.ErrInvalidTokenDataJSON)
	case strings.Contains(msg, "invalid_tracker_json"):
		return fmt.Errorf("promote token %d: %w", tokenID, domain.ErrInvalidTrackerJSON)
	default:
		return fmt.Errorf("failed to promote token %d: %w", tokenID, err)
	}
}
