package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"anoa.com/kgscp/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limiter enforces a per-user cooldown between actions of the same kind.
type Limiter interface {
	// Acquire starts the cooldown for action, or returns *apperror.RateLimitError when
	// one is already running.
	Acquire(ctx context.Context, userID uuid.UUID, action string, window time.Duration) error
	// Release drops the cooldown so a failed action can be retried right away.
	Release(ctx context.Context, userID uuid.UUID, action string)
}

type redisLimiter struct {
	rdb *redis.Client
}

// New returns a Redis cooldown limiter. A nil client disables limiting.
func New(rdb *redis.Client) Limiter {
	return &redisLimiter{rdb: rdb}
}

func key(userID uuid.UUID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
}

func (l *redisLimiter) Acquire(ctx context.Context, userID uuid.UUID, action string, window time.Duration) error {
	if l.rdb == nil || window <= 0 {
		return nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(userID, action), "locked", window).Result()
	if err != nil {
		return fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	if wasSet {
		return nil
	}

	ttl, err := l.rdb.TTL(ctx, key(userID, action)).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return &apperror.RateLimitError{
		Message:    fmt.Sprintf("please wait %.0f seconds before trying again", ttl.Seconds()),
		RetryAfter: ttl,
	}
}

func (l *redisLimiter) Release(ctx context.Context, userID uuid.UUID, action string) {
	if l.rdb == nil {
		return
	}
	_ = l.rdb.Del(ctx, key(userID, action)).Err()
}
