// Package cache provides Redis-backed read caching for hot listing
// endpoints.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tendant/social-content/pkg/socialcontent"
)

const hashtagKey = "socialcontent:hashtags"

// HashtagCache wraps a HashtagService with a shared Redis cache. Reads
// are served from Redis when the key is warm; cache failures fall
// through to the underlying service.
type HashtagCache struct {
	next   socialcontent.HashtagService
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewHashtagCache creates a caching layer in front of next. A zero ttl
// defaults to one minute.
func NewHashtagCache(next socialcontent.HashtagService, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *HashtagCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HashtagCache{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *HashtagCache) GetAll(ctx context.Context) ([]*socialcontent.Hashtag, error) {
	raw, err := c.client.Get(ctx, hashtagKey).Bytes()
	if err == nil {
		var hashtags []*socialcontent.Hashtag
		if err := json.Unmarshal(raw, &hashtags); err == nil {
			return hashtags, nil
		}
		// Corrupt entry, drop it and refill below.
		c.client.Del(ctx, hashtagKey)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("hashtag cache read failed", "error", err)
	}

	hashtags, err := c.next.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(hashtags); err == nil {
		if err := c.client.Set(ctx, hashtagKey, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("hashtag cache write failed", "error", err)
		}
	}

	return hashtags, nil
}

// Invalidate drops the cached listing. Callers use it after hashtag
// writes so the next read refills from the repository.
func (c *HashtagCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, hashtagKey).Err(); err != nil {
		c.logger.Warn("hashtag cache invalidation failed", "error", err)
	}
}
