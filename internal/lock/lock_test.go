package lock_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/choochoo-labs/conductor/internal/domain"
	"github.com/choochoo-labs/conductor/internal/lock"
	"github.com/choochoo-labs/conductor/internal/logger"
	"github.com/choochoo-labs/conductor/internal/mocks"
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

// testLockMocks contains all the mocks needed for testing the lock manager
type testLockMocks struct {
	ctrl        *gomock.Controller
	redisClient *mocks.MockRedisClient
}

// setupTestLock creates all the mocks for testing
func setupTestLock(t *testing.T) *testLockMocks {
	ctrl := gomock.NewController(t)

	return &testLockMocks{
		ctrl:        ctrl,
		redisClient: mocks.NewMockRedisClient(ctrl),
	}
}

// tearDownTestLock cleans up the test mocks
func tearDownTestLock(mocks *testLockMocks) {
	mocks.ctrl.Finish()
}

func TestAcquire(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		setNXResult  bool
		setNXErr     error
		wantAcquired bool
		wantErr      bool
	}{
		{
			name:         "acquires free lock",
			setNXResult:  true,
			wantAcquired: true,
		},
		{
			name:         "reports held lock",
			setNXResult:  false,
			wantAcquired: false,
		},
		{
			name:     "store error",
			setNXErr: errors.New("connection refused"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestLock(t)
			defer tearDownTestLock(tm)

			boolCmd := redis.NewBoolCmd(ctx)
			if tt.setNXErr != nil {
				boolCmd.SetErr(tt.setNXErr)
			} else {
				boolCmd.SetVal(tt.setNXResult)
			}

			tm.redisClient.EXPECT().
				SetNX(gomock.Any(), "train:lock:test", "1", time.Minute).
				Return(boolCmd)

			manager := lock.NewManager(tm.redisClient)
			acquired, err := manager.Acquire(ctx, "train:lock:test", time.Minute)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantAcquired, acquired)
		})
	}
}

func TestRelease(t *testing.T) {
	ctx := context.Background()

	tm := setupTestLock(t)
	defer tearDownTestLock(tm)

	intCmd := redis.NewIntCmd(ctx)
	intCmd.SetVal(1)
	tm.redisClient.EXPECT().
		Del(gomock.Any(), "train:lock:test").
		Return(intCmd)

	manager := lock.NewManager(tm.redisClient)
	assert.NoError(t, manager.Release(ctx, "train:lock:test"))
}

func TestWithLock_RunsAndReleases(t *testing.T) {
	ctx := context.Background()

	tm := setupTestLock(t)
	defer tearDownTestLock(tm)

	boolCmd := redis.NewBoolCmd(ctx)
	boolCmd.SetVal(true)
	tm.redisClient.EXPECT().
		SetNX(gomock.Any(), "train:lock:test", "1", time.Minute).
		Return(boolCmd)

	intCmd := redis.NewIntCmd(ctx)
	intCmd.SetVal(1)
	tm.redisClient.EXPECT().
		Del(gomock.Any(), "train:lock:test").
		Return(intCmd)

	manager := lock.NewManager(tm.redisClient)

	ran := false
	err := manager.WithLock(ctx, "train:lock:test", time.Minute, func(ctx context.Context) error {
		ran = true
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, ran)
}

func TestWithLock_Contention(t *testing.T) {
	ctx := context.Background()

	tm := setupTestLock(t)
	defer tearDownTestLock(tm)

	boolCmd := redis.NewBoolCmd(ctx)
	boolCmd.SetVal(false)
	tm.redisClient.EXPECT().
		SetNX(gomock.Any(), "train:lock:test", "1", time.Minute).
		Return(boolCmd)

	manager := lock.NewManager(tm.redisClient)

	err := manager.WithLock(ctx, "train:lock:test", time.Minute, func(ctx context.Context) error {
		t.Fatal("fn must not run when the lock is held")
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrLockContention)
}

func TestWithLock_ReleasesOnError(t *testing.T) {
	ctx := context.Background()

	tm := setupTestLock(t)
	defer tearDownTestLock(tm)

	boolCmd := redis.NewBoolCmd(ctx)
	boolCmd.SetVal(true)
	tm.redisClient.EXPECT().
		SetNX(gomock.Any(), "train:lock:test", "1", time.Minute).
		Return(boolCmd)

	intCmd := redis.NewIntCmd(ctx)
	intCmd.SetVal(1)
	tm.redisClient.EXPECT().
		Del(gomock.Any(), "train:lock:test").
		Return(intCmd)

	manager := lock.NewManager(tm.redisClient)

	wantErr := errors.New("pipeline failed")
	err := manager.WithLock(ctx, "train:lock:test", time.Minute, func(ctx context.Context) error {
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
}

func TestWithLock_ReleasesOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	tm := setupTestLock(t)
	defer tearDownTestLock(tm)

	boolCmd := redis.NewBoolCmd(ctx)
	boolCmd.SetVal(true)
	tm.redisClient.EXPECT().
		SetNX(gomock.Any(), "train:lock:test", "1", time.Minute).
		Return(boolCmd)

	intCmd := redis.NewIntCmd(context.Background())
	intCmd.SetVal(1)
	tm.redisClient.EXPECT().
		Del(gomock.Any(), "train:lock:test").
		Return(intCmd)

	manager := lock.NewManager(tm.redisClient)

	err := manager.WithLock(ctx, "train:lock:test", time.Minute, func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
}
