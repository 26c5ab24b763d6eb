package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is a distributed token-bucket limiter backed by Redis.
// All replicas sharing the Redis instance see the same budget per key.
type RedisRateLimiter struct {
	client       *redis.Client
	keyPrefix    string
	defaultLimit int
	defaultTTL   time.Duration
}

type RedisRateLimiterConfig struct {
	KeyPrefix    string
	DefaultLimit int
	DefaultTTL   time.Duration
}

// NewRedisRateLimiter wraps an existing Redis client; the client is shared
// with the scheduler lock and is not closed by the limiter.
func NewRedisRateLimiter(client *redis.Client, config RedisRateLimiterConfig) *RedisRateLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "ratelimit:"
	}
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = 60
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = time.Minute
	}

	return &RedisRateLimiter{
		client:       client,
		keyPrefix:    config.KeyPrefix,
		defaultLimit: config.DefaultLimit,
		defaultTTL:   config.DefaultTTL,
	}
}

// Refill and consume atomically inside Redis. The bucket state lives in two
// keys per limited key and expires after two windows of inactivity.
var allowScript = redis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])

	local tokens_key = key .. ":tokens"
	local timestamp_key = key .. ":timestamp"

	local tokens = tonumber(redis.call('GET', tokens_key))
	local last_update = tonumber(redis.call('GET', timestamp_key))

	if tokens == nil then
		tokens = limit
		last_update = now
	end

	local elapsed = now - last_update
	local refill_rate = limit / window
	local new_tokens = math.min(limit, tokens + (elapsed * refill_rate))

	local allowed = 0
	if new_tokens >= 1 then
		new_tokens = new_tokens - 1
		allowed = 1
	end

	redis.call('SET', tokens_key, new_tokens, 'EX', window * 2)
	redis.call('SET', timestamp_key, now, 'EX', window * 2)

	return {allowed, math.floor(new_tokens)}
`)

// Allow reports whether one more request under key fits within limit
// requests per window.
func (r *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		limit = r.defaultLimit
	}
	if window <= 0 {
		window = r.defaultTTL
	}

	redisKey := r.keyPrefix + key
	now := time.Now().Unix()

	result, err := allowScript.Run(ctx, r.client, []string{redisKey}, limit, int(window.Seconds()), now).Result()
	if err != nil {
		return false, fmt.Errorf("redis script execution failed: %w", err)
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) < 1 {
		return false, fmt.Errorf("invalid script result")
	}

	allowed, ok := resultSlice[0].(int64)
	if !ok {
		return false, fmt.Errorf("invalid allowed value")
	}

	return allowed == 1, nil
}

// Reset clears the bucket state for a key.
func (r *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	redisKey := r.keyPrefix + key

	pipe := r.client.Pipeline()
	pipe.Del(ctx, redisKey+":tokens")
	pipe.Del(ctx, redisKey+":timestamp")
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to reset rate limit: %w", err)
	}

	return nil
}

// Ping verifies the Redis connection.
func (r *RedisRateLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
