package dedup

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "cardpush:fire:"

// RedisGuard claims keys with SETNX so every instance shares one view
type RedisGuard struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewRedisGuard(client *goredis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, keyPrefix+key, 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim fire key %s: %w", key, err)
	}
	return ok, nil
}
