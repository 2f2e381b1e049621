package adapter

import (
	"context"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// RedisClient defines the interface for Redis operations to enable mocking.
// This is the single source of mutable cross-process state: every write path
// that must be exactly-once or monotonic goes through SetNX (locks, staging)
// or Eval (atomic promotion).
//
//go:generate mockgen -source=redis.go -destination=../mocks/redis.go -package=mocks -mock_names=RedisClient=MockRedisClient
type RedisClient interface {
	// Ping checks if Redis is reachable
	Ping(ctx context.Context) *redis.StatusCmd

	// Get retrieves the value of a key
	Get(ctx context.Context, key string) *redis.StringCmd

	// Set stores a value under a key with an optional expiration (0 = no expiry)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd

	// SetNX stores a value only if the key does not exist, with an optional expiration
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd

	// Del removes the given keys
	Del(ctx context.Context, keys ...string) *redis.IntCmd

	// Keys returns all keys matching the given pattern
	Keys(ctx context.Context, pattern string) *redis.StringSliceCmd

	// Eval executes a Lua script server-side as one indivisible unit
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd

	// NewRateLimiter creates a new distributed rate limiter using this Redis client
	NewRateLimiter() RedisRateLimiter

	// Close closes the Redis connection
	Close() error
}

// RealRedisClient wraps the actual Redis client
type RealRedisClient struct {
	client *redis.Client
}

// NewRedisClient creates a new Redis client
func NewRedisClient(addr, password string, db int) RedisClient {
	return &RealRedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Ping checks if Redis is reachable
func (r *RealRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	return r.client.Ping(ctx)
}

// Get retrieves the value of a key
func (r *RealRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.client.Get(ctx, key)
}

// Set stores a value under a key with an optional expiration
func (r *RealRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return r.client.Set(ctx, key, value, expiration)
}

// SetNX stores a value only if the key does not exist
func (r *RealRedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	return r.client.SetNX(ctx, key, value, expiration)
}

// Del removes the given keys
func (r *RealRedisClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return r.client.Del(ctx, keys...)
}

// Keys returns all keys matching the given pattern
func (r *RealRedisClient) Keys(ctx context.Context, pattern string) *redis.StringSliceCmd {
	return r.client.Keys(ctx, pattern)
}

// Eval executes a Lua script server-side
func (r *RealRedisClient) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return r.client.Eval(ctx, script, keys, args...)
}

// NewRateLimiter creates a new rate limiter using this Redis client
func (r *RealRedisClient) NewRateLimiter() RedisRateLimiter {
	return NewRateLimiter(redis_rate.NewLimiter(r.client))
}

// Close closes the Redis connection
func (r *RealRedisClient) Close() error {
	return r.client.Close()
}

// RedisRateLimiter defines the interface for distributed rate limiting operations
//
//go:generate mockgen -source=redis.go -destination=../mocks/redis.go -package=mocks -mock_names=RedisRateLimiter=MockRedisRateLimiter
type RedisRateLimiter interface {
	// Allow checks if a request is allowed based on the rate limit
	// Returns the result containing allowed status and retry information
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RealRateLimiter wraps the redis_rate.Limiter
type RealRateLimiter struct {
	limiter *redis_rate.Limiter
}

// NewRateLimiter creates a new rate limiter from a redis_rate.Limiter
func NewRateLimiter(limiter *redis_rate.Limiter) RedisRateLimiter {
	return &RealRateLimiter{
		limiter: limiter,
	}
}

// Allow checks if a request is allowed based on the rate limit
func (r *RealRateLimiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	return r.limiter.Allow(ctx, key, limit)
}
