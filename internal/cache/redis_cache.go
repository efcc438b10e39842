package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quizshare/quizshare-backend/internal/config"
	"github.com/quizshare/quizshare-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisCache backs the slug read cache, the per-test submission
// counters and the submission event queue.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache creates a new RedisCache. ttl applies to cached test
// payloads only; counters and queue entries do not expire.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// GetTestBySlug returns the cached test for a slug, or (nil, nil) on a
// cache miss.
func (c *RedisCache) GetTestBySlug(ctx context.Context, slug string) (*model.Test, error) {
	raw, err := c.rdb.Get(ctx, config.CacheKey.TestBySlugKey(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var test model.Test
	if err := json.Unmarshal(raw, &test); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &test, nil
}

// SetTestBySlug caches a test payload under its slug. Tests are
// immutable after creation so the entry never goes stale.
func (c *RedisCache) SetTestBySlug(ctx context.Context, t *model.Test) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.rdb.Set(ctx, config.CacheKey.TestBySlugKey(t.Slug), raw, c.ttl).Err()
}

// TestStats returns submission counts for the given tests. Tests with
// no recorded submissions are absent from the map.
func (c *RedisCache) TestStats(ctx context.Context, testIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	pipe := c.rdb.Pipeline()
	cmds := make([]*redis.StringCmd, len(testIDs))
	for i, id := range testIDs {
		cmds[i] = pipe.HGet(ctx, config.CacheKey.TestStatsKey(id.String()), "submissions")
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("stats pipeline: %w", err)
	}

	stats := make(map[uuid.UUID]int64, len(testIDs))
	for i, cmd := range cmds {
		n, err := cmd.Int64()
		if err != nil {
			continue // No counter yet
		}
		stats[testIDs[i]] = n
	}
	return stats, nil
}

// EnqueueSubmission pushes a submission event onto the worker queue.
func (c *RedisCache) EnqueueSubmission(ctx context.Context, ev model.SubmissionEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return c.rdb.RPush(ctx, config.WorkerKey.SubmissionEventsQueue, raw).Err()
}
