// Package ratelimit caps failed login attempts per account with a Redis
// fixed-window counter.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/redis/go-redis/v9"
)

var ErrRedisUnavailable = errors.New("redis unavailable")

// LoginLimiter tracks failed logins per email.
type LoginLimiter interface {
	// Check returns common.ErrRateLimited when the budget is spent.
	Check(ctx context.Context, email string) error
	Fail(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// Noop never limits. It is used when no Redis address is configured.
type Noop struct{}

func (Noop) Check(context.Context, string) error { return nil }
func (Noop) Fail(context.Context, string) error  { return nil }
func (Noop) Reset(context.Context, string) error { return nil }

type RedisLimiter struct {
	redis       redis.UniversalClient
	maxAttempts int
	cooldown    time.Duration
}

func NewRedisLimiter(client redis.UniversalClient, maxAttempts int, cooldown time.Duration) *RedisLimiter {
	return &RedisLimiter{redis: client, maxAttempts: maxAttempts, cooldown: cooldown}
}

func loginKey(email string) string {
	return "posterboard:login:" + strings.ToLower(email)
}

func (l *RedisLimiter) Check(ctx context.Context, email string) error {
	count, err := l.redis.Get(ctx, loginKey(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count >= int64(l.maxAttempts) {
		return common.ErrRateLimited
	}
	return nil
}

// Fail counts one failed attempt. The window starts at the first failure.
func (l *RedisLimiter) Fail(ctx context.Context, email string) error {
	key := loginKey(email)

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.cooldown).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return nil
}

func (l *RedisLimiter) Reset(ctx context.Context, email string) error {
	if err := l.redis.Del(ctx, loginKey(email)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
