package question

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultSeenTTL = 5 * time.Minute

// RedisSeenCache caches each user's voted-history id set so deck requests do
// not re-read the interaction table on every swipe. The reaction recorder
// invalidates the entry after each write.
type RedisSeenCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

var _ SeenCache = (*RedisSeenCache)(nil)

func NewSeenCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisSeenCache {
	if ttl <= 0 {
		ttl = defaultSeenTTL
	}
	return &RedisSeenCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "seen_cache").Logger(),
	}
}

func (c *RedisSeenCache) key(userID string) string {
	return "seen:" + userID
}

func (c *RedisSeenCache) Get(ctx context.Context, userID string) ([]string, bool) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("cache read failed")
		}
		return nil, false
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, false
	}
	return ids, true
}

func (c *RedisSeenCache) Set(ctx context.Context, userID string, ids []string) {
	data, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(userID), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("cache write failed")
	}
}

func (c *RedisSeenCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("cache invalidation failed")
	}
}
