package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campuslink/portal/internal/core/domain"
)

// RedisOTPs keeps pending codes in Redis with a TTL, so codes expire
// server-side even when the stub restarts.
// Key format: otp:<purpose>:<email>
type RedisOTPs struct {
	client *redis.Client
}

func NewRedisOTPs(client *redis.Client) *RedisOTPs {
	return &RedisOTPs{client: client}
}

func (r *RedisOTPs) Put(ctx context.Context, purpose domain.Purpose, email, code string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(purpose, email), code, ttl).Err(); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

func (r *RedisOTPs) Verify(ctx context.Context, purpose domain.Purpose, email, code string) (bool, error) {
	key := r.key(purpose, email)
	stored, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("check otp: %w", err)
	}
	if stored != code {
		return false, nil
	}
	// consume so the code cannot be replayed
	_ = r.client.Del(ctx, key).Err()
	return true, nil
}

func (r *RedisOTPs) key(purpose domain.Purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}
