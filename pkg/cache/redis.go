package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "crm:analysis:"

// RedisStore shares analysis results across replicas. Errors are swallowed on
// purpose: a cache miss is always an acceptable answer, a failed Redis node
// must never take the insight endpoints down with it.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	val, err := s.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.rdb.Set(ctx, redisKeyPrefix+key, value, ttl)
}

func (s *RedisStore) Delete(ctx context.Context, key string) {
	s.rdb.Del(ctx, redisKeyPrefix+key)
}
