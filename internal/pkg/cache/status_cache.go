package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"subscription-webhook-be/internal/dto"
	"subscription-webhook-be/internal/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// StatusCache memoizes access-status answers per user. Misses and backend
// errors both read as "not cached"; the store stays the source of truth.
type StatusCache interface {
	Get(ctx context.Context, userId string) (*dto.SubscriptionStatusResponse, bool)
	Set(ctx context.Context, userId string, status *dto.SubscriptionStatusResponse, ttl time.Duration)
	Invalidate(ctx context.Context, userId string)
}

const keyPrefix = "subscription:status:"

type redisStatusCache struct {
	rdb    *redis.Client
	logger logger.ILogger
}

func NewRedisStatusCache(rdb *redis.Client, logger logger.ILogger) StatusCache {
	return &redisStatusCache{rdb: rdb, logger: logger}
}

func (c *redisStatusCache) Get(ctx context.Context, userId string) (*dto.SubscriptionStatusResponse, bool) {
	raw, err := c.rdb.Get(ctx, keyPrefix+userId).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("CACHE", "Redis get failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
		}
		return nil, false
	}
	var status dto.SubscriptionStatusResponse
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, false
	}
	return &status, true
}

func (c *redisStatusCache) Set(ctx context.Context, userId string, status *dto.SubscriptionStatusResponse, ttl time.Duration) {
	raw, err := json.Marshal(status)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+userId, raw, ttl).Err(); err != nil {
		c.logger.Warn("CACHE", "Redis set failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
	}
}

func (c *redisStatusCache) Invalidate(ctx context.Context, userId string) {
	if err := c.rdb.Del(ctx, keyPrefix+userId).Err(); err != nil {
		c.logger.Warn("CACHE", "Redis delete failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
	}
}

type localStatusCache struct {
	cache *gocache.Cache
}

// NewLocalStatusCache is the single-instance fallback when Redis is absent.
func NewLocalStatusCache(defaultTTL time.Duration) StatusCache {
	return &localStatusCache{cache: gocache.New(defaultTTL, 10*time.Minute)}
}

func (c *localStatusCache) Get(_ context.Context, userId string) (*dto.SubscriptionStatusResponse, bool) {
	x, found := c.cache.Get(userId)
	if !found {
		return nil, false
	}
	status := *x.(*dto.SubscriptionStatusResponse)
	return &status, true
}

func (c *localStatusCache) Set(_ context.Context, userId string, status *dto.SubscriptionStatusResponse, ttl time.Duration) {
	stored := *status
	c.cache.Set(userId, &stored, ttl)
}

func (c *localStatusCache) Invalidate(_ context.Context, userId string) {
	c.cache.Delete(userId)
}
