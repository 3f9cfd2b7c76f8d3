package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tjelz/sitecontext/pkg/urlutil"
)

// RedisStore caches rendered context documents so repeat requests for the
// same site skip the crawl entirely. The core pipeline itself stays
// stateless; caching lives only here, in the service wrapper.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisStore{client: rdb}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func contextKey(origin string) string {
	return fmt.Sprintf("sitecontext:%s", urlutil.HashURL(origin))
}

// CacheContext stores a rendered Markdown context for an origin with a TTL.
func (s *RedisStore) CacheContext(ctx context.Context, origin, markdown string, ttl time.Duration) error {
	return s.client.Set(ctx, contextKey(origin), markdown, ttl).Err()
}

// GetCachedContext returns the cached context for an origin, or ok=false
// when the key is absent.
func (s *RedisStore) GetCachedContext(ctx context.Context, origin string) (string, bool, error) {
	val, err := s.client.Get(ctx, contextKey(origin)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
