package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/rProsia8/Expense-Tracker/internal/model"
)

// CategoryStatsCache keeps each user's per-category totals in redis for a
// short TTL. Writers delete the key; the TTL only bounds staleness across
// processes.
type CategoryStatsCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewCategoryStatsCache(client *redisv9.Client, ttl time.Duration) *CategoryStatsCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &CategoryStatsCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *CategoryStatsCache) GetCategoryTotals(ctx context.Context, userID uint) ([]model.CategoryTotal, bool, error) {
	key := c.statsKey(userID)
	raw, err := c.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get category stats failed: %w", err)
	}

	var totals []model.CategoryTotal
	if err := json.Unmarshal([]byte(raw), &totals); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached category stats failed: %w", err)
	}
	return totals, true, nil
}

func (c *CategoryStatsCache) SetCategoryTotals(ctx context.Context, userID uint, totals []model.CategoryTotal) error {
	key := c.statsKey(userID)
	payload, err := json.Marshal(totals)
	if err != nil {
		return fmt.Errorf("marshal category stats failed: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set category stats failed: %w", err)
	}
	return nil
}

func (c *CategoryStatsCache) DeleteCategoryTotals(ctx context.Context, userID uint) error {
	key := c.statsKey(userID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete category stats failed: %w", err)
	}
	return nil
}

func (c *CategoryStatsCache) statsKey(userID uint) string {
	return fmt.Sprintf("expense:stats:category:%d", userID)
}
