package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter counts hits in a fixed window
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

// RedisLimiter implements RateLimiter with a pipelined INCR and EXPIRE NX
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

var rateLimiterInstance RateLimiter

// InitRateLimiter connects to Redis and registers the process-wide limiter
func InitRateLimiter(ctx context.Context, redisURL string) (RateLimiter, error) {
	if redisURL == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	rateLimiterInstance = &RedisLimiter{client: client, prefix: "adcut:rl"}
	return rateLimiterInstance, nil
}

// GetRateLimiter returns the registered limiter, or nil when rate limiting is off
func GetRateLimiter() RateLimiter {
	return rateLimiterInstance
}

// SetRateLimiter sets the limiter (primarily for testing)
func SetRateLimiter(limiter RateLimiter) {
	rateLimiterInstance = limiter
}

// Allow increments the counter for key and reports whether it is still within limit.
// EXPIRE NX runs on every hit so a key whose TTL was never set still expires.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	fullKey := l.prefix + ":" + key
	var incr *redis.IntCmd
	_, err := l.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, fullKey)
		if window > 0 {
			pipe.ExpireNX(ctx, fullKey, window)
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	count := incr.Val()
	return count <= limit, count, nil
}

// Close releases the Redis connection pool
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
