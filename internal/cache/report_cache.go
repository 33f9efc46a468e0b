package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/retailops/stocksim/internal/config"
	"github.com/retailops/stocksim/internal/domain"
)

const reportKeyPrefix = "stocksim:report"

// ReportCache caches run summaries per (store, item) pair.
type ReportCache interface {
	Get(ctx context.Context, storeID, itemID string) (*domain.ReportSummary, bool, error)
	Set(ctx context.Context, summary domain.ReportSummary) error
	Invalidate(ctx context.Context, storeID, itemID string) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

// NewReportCache returns a redis-backed cache when caching is enabled,
// a noop cache otherwise.
func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReportCache{client: client, ttl: ttl}, nil
}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func reportKey(storeID, itemID string) string {
	return fmt.Sprintf("%s:%s:%s", reportKeyPrefix, storeID, itemID)
}

func (c *redisReportCache) Get(ctx context.Context, storeID, itemID string) (*domain.ReportSummary, bool, error) {
	payload, err := c.client.Get(ctx, reportKey(storeID, itemID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.ReportSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode report cache: %w", err)
	}
	return &summary, true, nil
}

func (c *redisReportCache) Set(ctx context.Context, summary domain.ReportSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode report cache: %w", err)
	}

	if err := c.client.Set(ctx, reportKey(summary.StoreID, summary.ItemID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) Invalidate(ctx context.Context, storeID, itemID string) error {
	return c.client.Del(ctx, reportKey(storeID, itemID)).Err()
}

func (n *noopReportCache) Get(ctx context.Context, storeID, itemID string) (*domain.ReportSummary, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) Set(ctx context.Context, summary domain.ReportSummary) error {
	return nil
}

func (n *noopReportCache) Invalidate(ctx context.Context, storeID, itemID string) error {
	return nil
}
