package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type RateLimitRepository interface {
	// Allow реализует фиксированное окно: INCR по ключу scope:id, EXPIRE
	// при первом инкременте. Например, максимум 5 запросов за 10 секунд.
	Allow(ctx context.Context, scope, id string, max int64, window time.Duration) (bool, error)
}

type redisRateLimitRepository struct {
	client *redis.Client
}

func NewRedisRateLimitRepository(client *redis.Client) RateLimitRepository {
	return &redisRateLimitRepository{client: client}
}

func (r *redisRateLimitRepository) Allow(ctx context.Context, scope, id string, max int64, window time.Duration) (bool, error) {
	key := rateLimitKey(scope, id)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}
	return count <= max, nil
}
