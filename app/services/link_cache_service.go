package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LinkCacheService caches token-to-link resolutions so every portal request
// does not hit the database. Entries are short lived and invalidated on
// revocation, so a revoked link stops resolving within the cache TTL at worst
// and immediately in the common case.
type LinkCacheService interface {
	GetLinkID(ctx context.Context, token string) (uint, bool)
	SetLinkID(ctx context.Context, token string, linkID uint)
	Invalidate(ctx context.Context, token string)
}

// RedisLinkCache implements LinkCacheService over Redis
type RedisLinkCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLinkCache creates a Redis backed link cache. A nil client disables
// caching; every lookup falls through to the store.
func NewRedisLinkCache(client *redis.Client, ttl time.Duration) LinkCacheService {
	return &RedisLinkCache{
		client: client,
		ttl:    ttl,
	}
}

func linkCacheKey(token string) string {
	return fmt.Sprintf("client_link:token:%s", token)
}

// GetLinkID looks up a cached token resolution
func (c *RedisLinkCache) GetLinkID(ctx context.Context, token string) (uint, bool) {
	if c.client == nil {
		return 0, false
	}

	val, err := c.client.Get(ctx, linkCacheKey(token)).Result()
	if err != nil {
		return 0, false
	}

	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// SetLinkID caches a token resolution. Failures are ignored; the cache is an
// optimization, not a source of truth.
func (c *RedisLinkCache) SetLinkID(ctx context.Context, token string, linkID uint) {
	if c.client == nil {
		return
	}
	_ = c.client.Set(ctx, linkCacheKey(token), strconv.FormatUint(uint64(linkID), 10), c.ttl).Err()
}

// Invalidate drops a cached token, used on revocation
func (c *RedisLinkCache) Invalidate(ctx context.Context, token string) {
	if c.client == nil {
		return
	}
	_ = c.client.Del(ctx, linkCacheKey(token)).Err()
}
