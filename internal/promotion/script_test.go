package promotion_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/domain"
	"github.com/choochoo-labs/conductor/internal/promotion"
)

// The tests below run the promotion script against an embedded Redis, so the
// server-side validation and write set are exercised for real instead of
// being replayed through mocks.

// newScriptPromoter connects a promoter to an embedded Redis
func newScriptPromoter(t *testing.T) (*miniredis.Miniredis, promotion.Promoter) {
	srv := miniredis.RunT(t)

	client := adapter.NewRedisClient(srv.Addr(), "", 0)
	t.Cleanup(func() {
		_ = client.Close()
	})

	return srv, promotion.NewPromoter(client, adapter.NewClock())
}

// seedStagingEntry plants a minting-stage entry for tokenID
func seedStagingEntry(t *testing.T, srv *miniredis.Miniredis, tokenID uint64) {
	entry := domain.StagingEntry{
		TokenID:      tokenID,
		Status:       domain.StagingStatusMinting,
		Orchestrator: domain.SourceTypeRandom,
		CreatedAt:    time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(entry)
	assert.NoError(t, err)
	assert.NoError(t, srv.Set(domain.StagingKey(tokenID), string(raw)))
}

func scriptRecord(tokenID uint64) *domain.TokenRecord {
	record := testRecord()
	record.TokenID = tokenID
	record.TransactionHash = fmt.Sprintf("0xtx%d", tokenID)
	return record
}

func storedTrackerID(t *testing.T, srv *miniredis.Miniredis) uint64 {
	raw, err := srv.Get(domain.KeyTokenTracker)
	assert.NoError(t, err)

	var tracker domain.TokenIDTracker
	assert.NoError(t, json.Unmarshal([]byte(raw), &tracker))
	return tracker.CurrentTokenID
}

func TestPromoteScript_CreatesRecordSet(t *testing.T) {
	ctx := context.Background()
	srv, promoter := newScriptPromoter(t)

	seedStagingEntry(t, srv, 42)

	record := scriptRecord(42)
	holder := testHolder()

	status, err := promoter.Promote(ctx, record, holder)
	assert.NoError(t, err)
	assert.Equal(t, domain.PromoteCreated, status)

	wantRecord, err := json.Marshal(record)
	assert.NoError(t, err)
	storedRecord, err := srv.Get(domain.TokenKey(42))
	assert.NoError(t, err)
	assert.Equal(t, string(wantRecord), storedRecord)

	wantHolder, err := json.Marshal(holder)
	assert.NoError(t, err)
	storedHolder, err := srv.Get(domain.KeyCurrentHolder)
	assert.NoError(t, err)
	assert.Equal(t, string(wantHolder), storedHolder)

	assert.Equal(t, uint64(42), storedTrackerID(t, srv))

	// The staging entry is consumed by the promotion
	assert.False(t, srv.Exists(domain.StagingKey(42)))
}

func TestPromoteScript_IdempotentReplay(t *testing.T) {
	ctx := context.Background()
	srv, promoter := newScriptPromoter(t)

	record := scriptRecord(42)
	holder := testHolder()

	seedStagingEntry(t, srv, 42)
	status, err := promoter.Promote(ctx, record, holder)
	assert.NoError(t, err)
	assert.Equal(t, domain.PromoteCreated, status)

	// A crashed pipeline retries with an identical payload
	seedStagingEntry(t, srv, 42)
	status, err = promoter.Promote(ctx, record, holder)
	assert.NoError(t, err)
	assert.Equal(t, domain.PromoteExists, status)

	wantRecord, err := json.Marshal(record)
	assert.NoError(t, err)
	storedRecord, err := srv.Get(domain.TokenKey(42))
	assert.NoError(t, err)
	assert.Equal(t, string(wantRecord), storedRecord)

	assert.False(t, srv.Exists(domain.StagingKey(42)))
}

func TestPromoteScript_MismatchLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	srv, promoter := newScriptPromoter(t)

	first := scriptRecord(42)
	firstHolder := testHolder()

	seedStagingEntry(t, srv, 42)
	_, err := promoter.Promote(ctx, first, firstHolder)
	assert.NoError(t, err)

	// A conflicting attempt reuses the token id with different content
	conflicting := scriptRecord(42)
	conflicting.TransactionHash = "0xother"
	otherHolder := testHolder()
	otherHolder.FID = 9999

	seedStagingEntry(t, srv, 42)
	_, err = promoter.Promote(ctx, conflicting, otherHolder)
	assert.ErrorIs(t, err, domain.ErrTokenDataMismatch)

	// The first record set survives and the staging entry is not consumed
	wantRecord, err := json.Marshal(first)
	assert.NoError(t, err)
	storedRecord, err := srv.Get(domain.TokenKey(42))
	assert.NoError(t, err)
	assert.Equal(t, string(wantRecord), storedRecord)

	wantHolder, err := json.Marshal(firstHolder)
	assert.NoError(t, err)
	storedHolder, err := srv.Get(domain.KeyCurrentHolder)
	assert.NoError(t, err)
	assert.Equal(t, string(wantHolder), storedHolder)

	assert.True(t, srv.Exists(domain.StagingKey(42)))
}

func TestPromoteScript_TrackerMonotonic(t *testing.T) {
	ctx := context.Background()
	srv, promoter := newScriptPromoter(t)

	// Out-of-order promotions must never move the tracker backwards
	for _, tokenID := range []uint64{7, 9, 8} {
		seedStagingEntry(t, srv, tokenID)
		status, err := promoter.Promote(ctx, scriptRecord(tokenID), testHolder())
		assert.NoError(t, err)
		assert.Equal(t, domain.PromoteCreated, status)
	}

	assert.Equal(t, uint64(9), storedTrackerID(t, srv))
}

func TestPromoteScript_MissingStagingEntry(t *testing.T) {
	ctx := context.Background()
	srv, promoter := newScriptPromoter(t)

	_, err := promoter.Promote(ctx, scriptRecord(42), testHolder())
	assert.ErrorIs(t, err, domain.ErrStagingNotFound)

	assert.False(t, srv.Exists(domain.TokenKey(42)))
	assert.False(t, srv.Exists(domain.KeyCurrentHolder))
	assert.False(t, srv.Exists(domain.KeyTokenTracker))
}

func TestPromoteScript_CorruptTrackerRejected(t *testing.T) {
	ctx := context.Background()
	srv, promoter := newScriptPromoter(t)

	seedStagingEntry(t, srv, 42)
	assert.NoError(t, srv.Set(domain.KeyTokenTracker, "not-json"))

	_, err := promoter.Promote(ctx, scriptRecord(42), testHolder())
	assert.ErrorIs(t, err, domain.ErrInvalidTrackerJSON)

	// Validation failed before the first write
	assert.False(t, srv.Exists(domain.TokenKey(42)))
	assert.False(t, srv.Exists(domain.KeyCurrentHolder))
	assert.True(t, srv.Exists(domain.StagingKey(42)))

	raw, err := srv.Get(domain.KeyTokenTracker)
	assert.NoError(t, err)
	assert.Equal(t, "not-json", raw)
}
