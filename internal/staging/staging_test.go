package staging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/choochoo-labs/conductor/internal/domain"
	"github.com/choochoo-labs/conductor/internal/logger"
	"github.com/choochoo-labs/conductor/internal/mocks"
	"github.com/choochoo-labs/conductor/internal/staging"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testStagingMocks contains all the mocks needed for testing the staging store
type testStagingMocks struct {
	ctrl            *gomock.Controller
	redisClient     *mocks.MockRedisClient
	clock           *mocks.MockClock
	generationCache *mocks.MockGenerationCache
}

// setupTestStaging creates all the mocks for testing
func setupTestStaging(t *testing.T) *testStagingMocks {
	ctrl := gomock.NewController(t)

	return &testStagingMocks{
		ctrl:            ctrl,
		redisClient:     mocks.NewMockRedisClient(ctrl),
		clock:           mocks.NewMockClock(ctrl),
		generationCache: mocks.NewMockGenerationCache(ctrl),
	}
}

// tearDownTestStaging cleans up the test mocks
func tearDownTestStaging(mocks *testStagingMocks) {
	mocks.ctrl.Finish()
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		setNXVal   bool
		setNXErr   error
		wantErr    error
		wantAnyErr bool
	}{
		{
			name:     "creates pending entry",
			setNXVal: true,
		},
		{
			name:     "entry already exists",
			setNXVal: false,
			wantErr:  domain.ErrStagingExists,
		},
		{
			name:       "store error",
			setNXErr:   errors.New("connection refused"),
			wantAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestStaging(t)
			defer tearDownTestStaging(tm)

			tm.clock.EXPECT().Now().Return(now)

			boolCmd := redis.NewBoolCmd(ctx)
			if tt.setNXErr != nil {
				boolCmd.SetErr(tt.setNXErr)
			} else {
				boolCmd.SetVal(tt.setNXVal)
			}

			tm.redisClient.EXPECT().
				SetNX(gomock.Any(), domain.StagingKey(42), gomock.Any(), 24*time.Hour).
				DoAndReturn(func(_ context.Context, _ string, value interface{}, _ time.Duration) *redis.BoolCmd {
					var entry domain.StagingEntry
					assert.NoError(t, json.Unmarshal(value.([]byte), &entry))
					assert.Equal(t, uint64(42), entry.TokenID)
					assert.Equal(t, domain.StagingStatusPending, entry.Status)
					assert.Equal(t, domain.SourceTypeRandom, entry.Orchestrator)
					assert.Equal(t, now, entry.CreatedAt)
					return boolCmd
				})

			store := staging.NewStore(tm.redisClient, tm.clock, tm.generationCache, 24*time.Hour)
			err := store.Create(ctx, 42, domain.SourceTypeRandom)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			if tt.wantAnyErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	tm := setupTestStaging(t)
	defer tearDownTestStaging(tm)

	existing := domain.StagingEntry{
		TokenID:      42,
		Status:       domain.StagingStatusPending,
		Orchestrator: domain.SourceTypeYoink,
		CreatedAt:    createdAt,
	}
	raw, err := json.Marshal(existing)
	assert.NoError(t, err)

	getCmd := redis.NewStringCmd(ctx)
	getCmd.SetVal(string(raw))
	tm.redisClient.EXPECT().
		Get(gomock.Any(), domain.StagingKey(42)).
		Return(getCmd)

	setCmd := redis.NewStatusCmd(ctx)
	setCmd.SetVal("OK")
	tm.redisClient.EXPECT().
		Set(gomock.Any(), domain.StagingKey(42), gomock.Any(), 24*time.Hour).
		DoAndReturn(func(_ context.Context, _ string, value interface{}, _ time.Duration) *redis.StatusCmd {
			var entry domain.StagingEntry
			assert.NoError(t, json.Unmarshal(value.([]byte), &entry))
			// Status and error change, the rest is preserved
			assert.Equal(t, domain.StagingStatusFailed, entry.Status)
			assert.Equal(t, "mint reverted", entry.LastError)
			assert.Equal(t, uint64(42), entry.TokenID)
			assert.Equal(t, domain.SourceTypeYoink, entry.Orchestrator)
			assert.Equal(t, createdAt, entry.CreatedAt)
			return setCmd
		})

	store := staging.NewStore(tm.redisClient, tm.clock, tm.generationCache, 24*time.Hour)
	assert.NoError(t, store.UpdateStatus(ctx, 42, domain.StagingStatusFailed, "mint reverted"))
}

func TestUpdateStatus_NotFound(t *testing.T) {
	ctx := context.Background()

	tm := setupTestStaging(t)
	defer tearDownTestStaging(tm)

	getCmd := redis.NewStringCmd(ctx)
	getCmd.SetErr(redis.Nil)
	tm.redisClient.EXPECT().
		Get(gomock.Any(), domain.StagingKey(42)).
		Return(getCmd)

	store := staging.NewStore(tm.redisClient, tm.clock, tm.generationCache, 24*time.Hour)
	err := store.UpdateStatus(ctx, 42, domain.StagingStatusFailed, "")
	assert.ErrorIs(t, err, domain.ErrStagingNotFound)
}

func TestGet(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		raw     string
		getErr  error
		wantErr error
		check   func(t *testing.T, entry *domain.StagingEntry)
	}{
		{
			name: "decodes stored entry",
			raw:  `{"token_id":42,"status":"minting","orchestrator":"manual","created_at":"2025-05-01T12:00:00Z"}`,
			check: func(t *testing.T, entry *domain.StagingEntry) {
				assert.Equal(t, uint64(42), entry.TokenID)
				assert.Equal(t, domain.StagingStatusMinting, entry.Status)
				assert.Equal(t, domain.SourceTypeManual, entry.Orchestrator)
			},
		},
		{
			name:    "missing entry",
			getErr:  redis.Nil,
			wantErr: domain.ErrStagingNotFound,
		},
		{
			name: "rejects unknown fields",
			raw:  `{"token_id":42,"status":"pending","orchestrator":"random","created_at":"2025-05-01T12:00:00Z","extra":true}`,
		},
		{
			name: "rejects invalid status",
			raw:  `{"token_id":42,"status":"shipped","orchestrator":"random","created_at":"2025-05-01T12:00:00Z"}`,
		},
		{
			name: "rejects missing token id",
			raw:  `{"status":"pending","orchestrator":"random","created_at":"2025-05-01T12:00:00Z"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestStaging(t)
			defer tearDownTestStaging(tm)

			getCmd := redis.NewStringCmd(ctx)
			if tt.getErr != nil {
				getCmd.SetErr(tt.getErr)
			} else {
				getCmd.SetVal(tt.raw)
			}
			tm.redisClient.EXPECT().
				Get(gomock.Any(), domain.StagingKey(42)).
				Return(getCmd)

			store := staging.NewStore(tm.redisClient, tm.clock, tm.generationCache, 24*time.Hour)
			entry, err := store.Get(ctx, 42)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			if tt.check == nil {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			tt.check(t, entry)
		})
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()

	tm := setupTestStaging(t)
	defer tearDownTestStaging(tm)

	keysCmd := redis.NewStringSliceCmd(ctx)
	keysCmd.SetVal([]string{domain.StagingKey(7), domain.StagingKey(8)})
	tm.redisClient.EXPECT().
		Keys(gomock.Any(), domain.StagingKeyPrefix+"*").
		Return(keysCmd)

	firstCmd := redis.NewStringCmd(ctx)
	firstCmd.SetVal(`{"token_id":7,"status":"pending","orchestrator":"random","created_at":"2025-05-01T12:00:00Z"}`)
	tm.redisClient.EXPECT().
		Get(gomock.Any(), domain.StagingKey(7)).
		Return(firstCmd)

	// Expired between scan and read
	secondCmd := redis.NewStringCmd(ctx)
	secondCmd.SetErr(redis.Nil)
	tm.redisClient.EXPECT().
		Get(gomock.Any(), domain.StagingKey(8)).
		Return(secondCmd)

	store := staging.NewStore(tm.redisClient, tm.clock, tm.generationCache, 24*time.Hour)
	entries, err := store.List(ctx)

	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, uint64(7), entries[0].TokenID)
}

func TestAbandon(t *testing.T) {
	ctx := context.Background()

	tm := setupTestStaging(t)
	defer tearDownTestStaging(tm)

	getCmd := redis.NewStringCmd(ctx)
	getCmd.SetVal(`{"token_id":42,"status":"failed","orchestrator":"random","created_at":"2025-05-01T12:00:00Z","last_error":"mint reverted"}`)
	tm.redisClient.EXPECT().
		Get(gomock.Any(), domain.StagingKey(42)).
		Return(getCmd)

	setCmd := redis.NewStatusCmd(ctx)
	setCmd.SetVal("OK")
	tm.redisClient.EXPECT().
		Set(gomock.Any(), domain.StagingKey(42), gomock.Any(), 24*time.Hour).
		DoAndReturn(func(_ context.Context, _ string, value interface{}, _ time.Duration) *redis.StatusCmd {
			var entry domain.StagingEntry
			assert.NoError(t, json.Unmarshal(value.([]byte), &entry))
			assert.Equal(t, domain.StagingStatusAbandoned, entry.Status)
			assert.Equal(t, "operator confirmed no mint", entry.LastError)
			return setCmd
		})

	// Abandon must clear the cached generation result so a retry starts clean
	tm.generationCache.EXPECT().
		Invalidate(gomock.Any(), uint64(42)).
		Return(nil)

	store := staging.NewStore(tm.redisClient, tm.clock, tm.generationCache, 24*time.Hour)
	assert.NoError(t, store.Abandon(ctx, 42, "operator confirmed no mint"))
}

func TestIsStuck(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	threshold := 10 * time.Minute

	tests := []struct {
		name   string
		status domain.StagingStatus
		age    time.Duration
		want   bool
	}{
		{
			name:   "fresh pending entry",
			status: domain.StagingStatusPending,
			age:    time.Minute,
			want:   false,
		},
		{
			name:   "old pending entry",
			status: domain.StagingStatusPending,
			age:    time.Hour,
			want:   true,
		},
		{
			name:   "old minting entry",
			status: domain.StagingStatusMinting,
			age:    time.Hour,
			want:   true,
		},
		{
			name:   "promoted entries never count",
			status: domain.StagingStatusPromoted,
			age:    time.Hour,
			want:   false,
		},
		{
			name:   "exactly at threshold",
			status: domain.StagingStatusGenerating,
			age:    threshold,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &domain.StagingEntry{
				TokenID:   42,
				Status:    tt.status,
				CreatedAt: now.Add(-tt.age),
			}
			assert.Equal(t, tt.want, staging.IsStuck(entry, threshold, now))
		})
	}
}
