package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/infra/metrics"
)

const statsKey = "job_stats"

// StatsCache keeps the job statistics snapshot for a short TTL so the
// statistics endpoint doesn't hammer the database under dashboards polling.
type StatsCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewStatsCache(client RedisClient, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns the cached snapshot or (nil, nil) on a miss.
func (c *StatsCache) Get(ctx context.Context) (*model.JobStatistics, error) {
	raw, err := c.client.Get(ctx, statsKey)
	if err != nil {
		if errors.Is(err, Nil) {
			metrics.IncCacheRequest("job_stats", "miss")
			return nil, nil
		}
		return nil, err
	}
	var stats model.JobStatistics
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		// Corrupt entry: treat as a miss, it will be overwritten.
		metrics.IncCacheRequest("job_stats", "miss")
		return nil, nil
	}
	metrics.IncCacheRequest("job_stats", "hit")
	return &stats, nil
}

func (c *StatsCache) Set(ctx context.Context, stats *model.JobStatistics) error {
	b, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey, string(b), c.ttl)
}

// Invalidate drops the snapshot after a write that changes counts.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, statsKey)
}
