package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore backs the cache with an in-process go-cache instance. Suitable
// for single-instance deployments; multi-instance setups should use RedisStore
// so all replicas see the same analyses.
type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(DefaultTTL, 10*time.Minute),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	if x, found := s.cache.Get(key); found {
		return x.(string), true
	}
	return "", false
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.cache.Set(key, value, ttl)
}

func (s *MemoryStore) Delete(_ context.Context, key string) {
	s.cache.Delete(key)
}
