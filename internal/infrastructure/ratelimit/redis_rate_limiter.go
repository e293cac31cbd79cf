package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/adminauth/internal/config"
	"github.com/turtacn/adminauth/internal/domain/service"
	"github.com/turtacn/adminauth/pkg/constants"
	"github.com/turtacn/adminauth/pkg/errors"
	"github.com/turtacn/adminauth/pkg/logger"
)

var _ service.RateLimitService = (*LoginRateLimiter)(nil)

// Lua script for atomic token bucket operations
const tokenBucketLuaScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local requested = tonumber(ARGV[3])
local now = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(bucket[1]) or capacity
local last_refill = tonumber(bucket[2]) or now

local elapsed = math.max(0, now - last_refill)
tokens = math.min(tokens + elapsed * rate / 1000, capacity)  -- rate is per second, elapsed in ms

local allowed = 0
if tokens >= requested then
    tokens = tokens - requested
    allowed = 1
end

-- time until one token is available again
local retry_ms = 0
if allowed == 0 then
    retry_ms = math.ceil((requested - tokens) / rate * 1000)
end

redis.call('HMSET', key, 'tokens', tokens, 'last_refill', now)
redis.call('PEXPIRE', key, math.ceil((capacity - tokens) / rate * 1000) + 60000)

return {allowed, math.floor(tokens), retry_ms}
`

var tokenBucketScript = redis.NewScript(tokenBucketLuaScript)

// LoginRateLimiter throttles login attempts with a token bucket per scope and key. Buckets live
// in Redis so every instance shares them; when Redis is absent or failing, an in-process pool
// takes over if local fallback is enabled.
type LoginRateLimiter struct {
	client        redis.UniversalClient
	local         *TokenBucketPool
	localFallback bool
	capacity      int64
	rate          float64 // tokens per second
	logger        logger.Logger
	now           func() time.Time
}

// Option customizes a LoginRateLimiter.
type Option func(*LoginRateLimiter)

// WithClock replaces the clock used for refill computations.
func WithClock(now func() time.Time) Option {
	return func(rl *LoginRateLimiter) {
		if now != nil {
			rl.now = now
		}
	}
}

// NewLoginRateLimiter creates a limiter allowing cfg.LoginAttemptsPerMin attempts per minute per key.
// client may be nil, in which case only the local pool is used.
func NewLoginRateLimiter(client redis.UniversalClient, cfg *config.RateLimitConfig, log logger.Logger, opts ...Option) *LoginRateLimiter {
	limit := int64(cfg.LoginAttemptsPerMin)
	if limit <= 0 {
		limit = constants.DefaultLoginAttemptsPerMinute
	}

	rl := &LoginRateLimiter{
		client:        client,
		localFallback: cfg.LocalFallback || client == nil,
		capacity:      limit,
		rate:          float64(limit) / constants.RateLimitWindowTTL.Seconds(),
		logger:        log.WithComponent("login_rate_limiter"),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(rl)
	}
	rl.local = NewTokenBucketPool(TokenBucketConfig{
		Capacity: float64(rl.capacity),
		Rate:     rl.rate,
		Now:      rl.now,
	})

	rl.logger.Info(context.Background(), "Login rate limiter initialized",
		logger.Int64("attempts_per_window", limit),
		logger.Duration("window", constants.RateLimitWindowTTL),
		logger.Bool("redis", client != nil),
		logger.Bool("local_fallback", rl.localFallback),
	)
	return rl
}

// Allow consumes one attempt for key in scope.
func (rl *LoginRateLimiter) Allow(ctx context.Context, scope constants.RateLimitScope, key string) (bool, time.Duration, error) {
	bucketKey := rl.buildKey(scope, key)

	if rl.client == nil {
		allowed, retry := rl.local.GetOrCreate(bucketKey).Take()
		return allowed, retry, nil
	}

	allowed, retry, err := rl.evalBucket(ctx, bucketKey)
	if err == nil {
		return allowed, retry, nil
	}

	if rl.localFallback {
		rl.logger.Warn(ctx, "Redis rate limiter unavailable, using local bucket",
			logger.String("scope", string(scope)),
			logger.Error(err),
		)
		allowed, retry := rl.local.GetOrCreate(bucketKey).Take()
		return allowed, retry, nil
	}
	return false, 0, errors.ErrInternalServer.WithMessage("rate limiter unavailable").WithError(err)
}

// Reset clears the bucket for key in scope, both in Redis and locally.
func (rl *LoginRateLimiter) Reset(ctx context.Context, scope constants.RateLimitScope, key string) error {
	bucketKey := rl.buildKey(scope, key)
	rl.local.Remove(bucketKey)

	if rl.client == nil {
		return nil
	}
	if err := rl.client.Del(ctx, bucketKey).Err(); err != nil && err != redis.Nil {
		return errors.ErrInternalServer.WithMessage("failed to reset rate limit").WithError(err)
	}
	return nil
}

// CleanupLocalBuckets drops local buckets idle for longer than maxIdle.
func (rl *LoginRateLimiter) CleanupLocalBuckets(maxIdle time.Duration) int {
	removed := rl.local.Cleanup(maxIdle)
	if removed > 0 {
		rl.logger.Debug(context.Background(), "Cleaned up idle buckets", logger.Int("count", removed))
	}
	return removed
}

func (rl *LoginRateLimiter) evalBucket(ctx context.Context, key string) (bool, time.Duration, error) {
	result, err := tokenBucketScript.Run(ctx, rl.client, []string{key},
		rl.capacity, rl.rate, 1, rl.now().UnixMilli()).Slice()
	if err != nil {
		return false, 0, err
	}
	if len(result) < 3 {
		return false, 0, fmt.Errorf("invalid token bucket script result: %v", result)
	}

	allowed, _ := result[0].(int64)
	retryMs, _ := result[2].(int64)
	return allowed == 1, time.Duration(retryMs) * time.Millisecond, nil
}

func (rl *LoginRateLimiter) buildKey(scope constants.RateLimitScope, key string) string {
	return fmt.Sprintf("%slogin:%s:%s", constants.CacheKeyPrefixRateLimit, scope, key)
}
