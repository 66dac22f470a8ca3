package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const checkoutLockPrefix = "checkout:lock:"

// RedisLocker is a per-key mutual exclusion backed by SET NX with a TTL, so a
// crashed request never holds a cart forever.
type RedisLocker struct {
	rdb *redis.Client
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker { return &RedisLocker{rdb: rdb} }

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.rdb.SetNX(ctx, checkoutLockPrefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, checkoutLockPrefix+key).Err()
}
