package records_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/choochoo-labs/conductor/internal/domain"
	"github.com/choochoo-labs/conductor/internal/logger"
	"github.com/choochoo-labs/conductor/internal/mocks"
	"github.com/choochoo-labs/conductor/internal/records"
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

// testStoreMocks contains all the mocks needed for testing the records store
type testStoreMocks struct {
	ctrl        *gomock.Controller
	redisClient *mocks.MockRedisClient
}

// setupTestStore creates all the mocks for testing
func setupTestStore(t *testing.T) *testStoreMocks {
	ctrl := gomock.NewController(t)

	return &testStoreMocks{
		ctrl:        ctrl,
		redisClient: mocks.NewMockRedisClient(ctrl),
	}
}

// tearDownTestStore cleans up the test mocks
func tearDownTestStore(mocks *testStoreMocks) {
	mocks.ctrl.Finish()
}

func TestGetTokenRecord(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		raw     string
		getErr  error
		wantErr error
		check   func(t *testing.T, record *domain.TokenRecord)
	}{
		{
			name: "decodes stored record",
			raw:  `{"token_id":42,"image_hash":"QmImage","metadata_hash":"QmMeta","token_uri":"ipfs://QmMeta","holder":{"fid":1234,"username":"conductor","display_name":"","pfp_url":"","address":"0xabc"},"transaction_hash":"0xdeadbeef","timestamp":"2025-05-01T12:00:00Z","source_type":"random"}`,
			check: func(t *testing.T, record *domain.TokenRecord) {
				assert.Equal(t, uint64(42), record.TokenID)
				assert.Equal(t, "0xdeadbeef", record.TransactionHash)
				assert.Equal(t, domain.SourceTypeRandom, record.SourceType)
				assert.Equal(t, uint64(1234), record.Holder.FID)
			},
		},
		{
			name:    "missing record",
			getErr:  redis.Nil,
			wantErr: domain.ErrTokenNotFound,
		},
		{
			name:    "rejects unknown fields",
			raw:     `{"token_id":42,"mystery":true}`,
			wantErr: domain.ErrInvalidTokenDataJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestStore(t)
			defer tearDownTestStore(tm)

			getCmd := redis.NewStringCmd(ctx)
			if tt.getErr != nil {
				getCmd.SetErr(tt.getErr)
			} else {
				getCmd.SetVal(tt.raw)
			}
			tm.redisClient.EXPECT().
				Get(gomock.Any(), domain.TokenKey(42)).
				Return(getCmd)

			store := records.NewStore(tm.redisClient)
			record, err := store.GetTokenRecord(ctx, 42)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			tt.check(t, record)
		})
	}
}

func TestGetCurrentHolder(t *testing.T) {
	ctx := context.Background()

	t.Run("nil when unset", func(t *testing.T) {
		tm := setupTestStore(t)
		defer tearDownTestStore(tm)

		getCmd := redis.NewStringCmd(ctx)
		getCmd.SetErr(redis.Nil)
		tm.redisClient.EXPECT().
			Get(gomock.Any(), domain.KeyCurrentHolder).
			Return(getCmd)

		store := records.NewStore(tm.redisClient)
		holder, err := store.GetCurrentHolder(ctx)

		assert.NoError(t, err)
		assert.Nil(t, holder)
	})

	t.Run("decodes stored pointer", func(t *testing.T) {
		tm := setupTestStore(t)
		defer tearDownTestStore(tm)

		getCmd := redis.NewStringCmd(ctx)
		getCmd.SetVal(`{"fid":1234,"username":"conductor","display_name":"Conductor","pfp_url":"https://example.com/pfp.png","address":"0xabc","timestamp":"2025-05-01T12:00:00Z"}`)
		tm.redisClient.EXPECT().
			Get(gomock.Any(), domain.KeyCurrentHolder).
			Return(getCmd)

		store := records.NewStore(tm.redisClient)
		holder, err := store.GetCurrentHolder(ctx)

		assert.NoError(t, err)
		assert.Equal(t, uint64(1234), holder.FID)
		assert.Equal(t, "0xabc", holder.Address)
	})
}

func TestGetTracker(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		raw     string
		getErr  error
		wantErr error
		wantID  uint64
		wantNil bool
	}{
		{
			name:   "decodes tracker",
			raw:    `{"currentTokenId":42,"timestamp":"2025-05-01T12:00:00Z"}`,
			wantID: 42,
		},
		{
			name:    "nil when unset",
			getErr:  redis.Nil,
			wantNil: true,
		},
		{
			name:    "rejects malformed tracker",
			raw:     `{"currentTokenId":"forty-two"}`,
			wantErr: domain.ErrInvalidTrackerJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestStore(t)
			defer tearDownTestStore(tm)

			getCmd := redis.NewStringCmd(ctx)
			if tt.getErr != nil {
				getCmd.SetErr(tt.getErr)
			} else {
				getCmd.SetVal(tt.raw)
			}
			tm.redisClient.EXPECT().
				Get(gomock.Any(), domain.KeyTokenTracker).
				Return(getCmd)

			store := records.NewStore(tm.redisClient)
			tracker, err := store.GetTracker(ctx)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, tracker)
				return
			}
			assert.Equal(t, tt.wantID, tracker.CurrentTokenID)
		})
	}
}

func TestGetWorkflowState(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		raw       string
		getErr    error
		wantErr   error
		wantState domain.WorkflowStateName
		wantCast  string
	}{
		{
			name:      "initial state when unset",
			getErr:    redis.Nil,
			wantState: domain.WorkflowNotCasted,
		},
		{
			name:      "decodes stored state",
			raw:       `{"state":"CHANCE_ACTIVE","current_cast_hash":"0xcast"}`,
			wantState: domain.WorkflowChanceActive,
			wantCast:  "0xcast",
		},
		{
			name:    "rejects empty state name",
			raw:     `{"current_cast_hash":"0xcast"}`,
			wantErr: domain.ErrInvalidWorkflowStateJSON,
		},
		{
			name:    "rejects unknown fields",
			raw:     `{"state":"CASTED","mystery":true}`,
			wantErr: domain.ErrInvalidWorkflowStateJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestStore(t)
			defer tearDownTestStore(tm)

			getCmd := redis.NewStringCmd(ctx)
			if tt.getErr != nil {
				getCmd.SetErr(tt.getErr)
			} else {
				getCmd.SetVal(tt.raw)
			}
			tm.redisClient.EXPECT().
				Get(gomock.Any(), domain.KeyWorkflowState).
				Return(getCmd)

			store := records.NewStore(tm.redisClient)
			state, err := store.GetWorkflowState(ctx)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantState, state.State)
			assert.Equal(t, tt.wantCast, state.CurrentCastHash)
		})
	}
}

func TestSetWorkflowState(t *testing.T) {
	ctx := context.Background()

	tm := setupTestStore(t)
	defer tearDownTestStore(tm)

	setCmd := redis.NewStatusCmd(ctx)
	setCmd.SetVal("OK")
	tm.redisClient.EXPECT().
		Set(gomock.Any(), domain.KeyWorkflowState, gomock.Any(), time.Duration(0)).
		DoAndReturn(func(_ context.Context, _ string, value interface{}, _ time.Duration) *redis.StatusCmd {
			var state domain.WorkflowState
			assert.NoError(t, json.Unmarshal(value.([]byte), &state))
			assert.Equal(t, domain.WorkflowManualSend, state.State)
			assert.Equal(t, "0xcast", state.CurrentCastHash)
			return setCmd
		})

	store := records.NewStore(tm.redisClient)
	err := store.SetWorkflowState(ctx, &domain.WorkflowState{
		State:           domain.WorkflowManualSend,
		CurrentCastHash: "0xcast",
	})

	assert.NoError(t, err)
}

func TestSetCurrentHolder(t *testing.T) {
	ctx := context.Background()

	tm := setupTestStore(t)
	defer tearDownTestStore(tm)

	setCmd := redis.NewStatusCmd(ctx)
	setCmd.SetVal("OK")
	tm.redisClient.EXPECT().
		Set(gomock.Any(), domain.KeyCurrentHolder, gomock.Any(), time.Duration(0)).
		DoAndReturn(func(_ context.Context, _ string, value interface{}, _ time.Duration) *redis.StatusCmd {
			var holder domain.CurrentHolderPointer
			assert.NoError(t, json.Unmarshal(value.([]byte), &holder))
			assert.Equal(t, uint64(1234), holder.FID)
			assert.Equal(t, "0xabc", holder.Address)
			return setCmd
		})

	store := records.NewStore(tm.redisClient)
	err := store.SetCurrentHolder(ctx, &domain.CurrentHolderPointer{
		FID:     1234,
		Address: "0xabc",
	})

	assert.NoError(t, err)
}
