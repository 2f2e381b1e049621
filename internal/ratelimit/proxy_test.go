package ratelimit_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/choochoo-labs/conductor/internal/logger"
	"github.com/choochoo-labs/conductor/internal/mocks"
	"github.com/choochoo-labs/conductor/internal/ratelimit"
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

// testProxyMocks contains all the mocks needed for testing the proxy
type testProxyMocks struct {
	ctrl             *gomock.Controller
	redisClient      *mocks.MockRedisClient
	redisRateLimiter *mocks.MockRedisRateLimiter
	clock            *mocks.MockClock
}

// setupTestProxy creates all the mocks for testing
func setupTestProxy(t *testing.T) *testProxyMocks {
	ctrl := gomock.NewController(t)

	tm := &testProxyMocks{
		ctrl:             ctrl,
		redisClient:      mocks.NewMockRedisClient(ctrl),
		redisRateLimiter: mocks.NewMockRedisRateLimiter(ctrl),
		clock:            mocks.NewMockClock(ctrl),
	}

	tm.redisClient.EXPECT().
		NewRateLimiter().
		Return(tm.redisRateLimiter)

	return tm
}

// tearDownTestProxy cleans up the test mocks
func tearDownTestProxy(mocks *testProxyMocks) {
	mocks.ctrl.Finish()
}

func testConfig() ratelimit.Config {
	return ratelimit.Config{
		Provider:          "test-provider",
		RequestsPerSecond: 10,
		Burst:             20,
		MaxQueueTime:      5 * time.Second,
		MaxWorkers:        4,
		MaxQueueSize:      16,
	}
}

func TestNewProxy_InvalidConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	redisClient := mocks.NewMockRedisClient(ctrl)
	clock := mocks.NewMockClock(ctrl)

	_, err := ratelimit.NewProxy(ratelimit.Config{}, redisClient, clock)
	assert.Error(t, err)
}

func TestRequest_DistributedAllowed(t *testing.T) {
	ctx := context.Background()

	tm := setupTestProxy(t)
	defer tearDownTestProxy(tm)

	tm.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), "train:ratelimit:test-provider", redis_rate.PerSecond(10)).
		Return(&redis_rate.Result{Allowed: 1}, nil)

	proxy, err := ratelimit.NewProxy(testConfig(), tm.redisClient, tm.clock)
	assert.NoError(t, err)
	defer func() { _ = proxy.Close() }()

	result, err := proxy.Request(ctx, func(ctx context.Context) (interface{}, error) {
		return "response", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "response", result)
}

func TestRequest_RetriesWhenRateLimited(t *testing.T) {
	ctx := context.Background()

	tm := setupTestProxy(t)
	defer tearDownTestProxy(tm)

	fired := make(chan time.Time, 1)
	fired <- time.Now()

	gomock.InOrder(
		tm.redisRateLimiter.EXPECT().
			Allow(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&redis_rate.Result{Allowed: 0, RetryAfter: 10 * time.Millisecond}, nil),
		tm.redisRateLimiter.EXPECT().
			Allow(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&redis_rate.Result{Allowed: 1}, nil),
	)
	tm.clock.EXPECT().
		After(gomock.Any()).
		Return(fired)

	proxy, err := ratelimit.NewProxy(testConfig(), tm.redisClient, tm.clock)
	assert.NoError(t, err)
	defer func() { _ = proxy.Close() }()

	result, err := proxy.Request(ctx, func(ctx context.Context) (interface{}, error) {
		return 42, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestRequest_FallsBackToLocalLimiter(t *testing.T) {
	ctx := context.Background()

	tm := setupTestProxy(t)
	defer tearDownTestProxy(tm)

	tm.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	proxy, err := ratelimit.NewProxy(testConfig(), tm.redisClient, tm.clock)
	assert.NoError(t, err)
	defer func() { _ = proxy.Close() }()

	// The distributed limiter fails once; the local limiter's burst admits
	// the request immediately
	result, err := proxy.Request(ctx, func(ctx context.Context) (interface{}, error) {
		return "local", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "local", result)
}

func TestRequest_FunctionError(t *testing.T) {
	ctx := context.Background()

	tm := setupTestProxy(t)
	defer tearDownTestProxy(tm)

	tm.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&redis_rate.Result{Allowed: 1}, nil)

	proxy, err := ratelimit.NewProxy(testConfig(), tm.redisClient, tm.clock)
	assert.NoError(t, err)
	defer func() { _ = proxy.Close() }()

	wantErr := errors.New("upstream 500")
	_, err = proxy.Request(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, wantErr
	})

	assert.ErrorIs(t, err, wantErr)
}

func TestRequest_AfterClose(t *testing.T) {
	ctx := context.Background()

	tm := setupTestProxy(t)
	defer tearDownTestProxy(tm)

	proxy, err := ratelimit.NewProxy(testConfig(), tm.redisClient, tm.clock)
	assert.NoError(t, err)

	assert.NoError(t, proxy.Close())

	_, err = proxy.Request(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})
	assert.Error(t, err)
}

func TestTypedRequest_NilProxy(t *testing.T) {
	ctx := context.Background()

	// A nil proxy executes the function directly, without rate limiting
	value, err := ratelimit.Request(ctx, nil, func(ctx context.Context) (string, error) {
		return "direct", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "direct", value)
}

func TestTypedRequest_ReturnsTypedValue(t *testing.T) {
	ctx := context.Background()

	tm := setupTestProxy(t)
	defer tearDownTestProxy(tm)

	tm.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&redis_rate.Result{Allowed: 1}, nil)

	proxy, err := ratelimit.NewProxy(testConfig(), tm.redisClient, tm.clock)
	assert.NoError(t, err)
	defer func() { _ = proxy.Close() }()

	value, err := ratelimit.Request(ctx, proxy, func(ctx context.Context) ([]byte, error) {
		return []byte("typed"), nil
	})

	assert.NoError(t, err)
	assert.Equal(t, []byte("typed"), value)
}
