package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Madmax-op/FoodShare/models"
)

// RedisCache stores snapshots as JSON with a TTL, so expiry is left to Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache stores snapshots in Redis with ttl as the key expiry.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, scope string, period models.Period) (Snapshot, bool, error) {
	data, err := c.client.Get(ctx, cacheKey(scope, period)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to read leaderboard cache: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to decode leaderboard cache: %w", err)
	}
	return snap, true, nil
}

func (c *RedisCache) Put(ctx context.Context, scope string, period models.Period, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard cache: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(scope, period), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write leaderboard cache: %w", err)
	}
	return nil
}
