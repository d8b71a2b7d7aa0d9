package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds throttle tuning parameters.
type Config struct {
	MaxInvalidAttempts int
	Cooldown           time.Duration
	Prefix             string
}

// Limiter enforces a per-source budget of rejected token presentations
// using fixed-window Redis counters.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	if cfg.Prefix == "" {
		cfg.Prefix = "tg"
	}
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// Check reports whether the source is within its invalid-token budget.
// Returns ErrThrottled when the budget is exhausted.
func (l *Limiter) Check(ctx context.Context, source string) error {
	if source == "" {
		return nil
	}

	count, err := l.redis.Get(ctx, l.key(source)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count > int64(l.config.MaxInvalidAttempts) {
		return ErrThrottled
	}

	return nil
}

// Increment records one rejected token presentation for the source.
func (l *Limiter) Increment(ctx context.Context, source string) error {
	if source == "" {
		return nil
	}

	count, err := l.redis.Incr(ctx, l.key(source)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, l.key(source), l.config.Cooldown).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	if count > int64(l.config.MaxInvalidAttempts) {
		return ErrThrottled
	}

	return nil
}

// Reset clears the counter for a source. Called after a successful
// authentication from that source.
func (l *Limiter) Reset(ctx context.Context, source string) error {
	if source == "" {
		return nil
	}

	if err := l.redis.Del(ctx, l.key(source)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Attempts returns the current counter for a source. Missing keys
// return zero.
func (l *Limiter) Attempts(ctx context.Context, source string) (int, error) {
	count, err := l.redis.Get(ctx, l.key(source)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

func (l *Limiter) key(source string) string {
	return l.config.Prefix + ":invalid:" + source
}
