// Package redis holds read-through caches in front of the MySQL repositories.
package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	levelDomain "loan-origination/internal/domain/approvallevel"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const approvalLevelsKey = "loan-origination:approval-levels:v1"

var _ levelDomain.Repository = (*ApprovalLevelCache)(nil)

// ApprovalLevelCache serves List from Redis and falls back to the source on a
// miss or when Redis is unreachable. ReplaceAll writes through and drops the key.
type ApprovalLevelCache struct {
	rdb    *redis.Client
	source levelDomain.Repository
	ttl    time.Duration
}

func NewApprovalLevelCache(rdb *redis.Client, source levelDomain.Repository, ttl time.Duration) *ApprovalLevelCache {
	return &ApprovalLevelCache{rdb: rdb, source: source, ttl: ttl}
}

func (c *ApprovalLevelCache) List(ctx context.Context) ([]levelDomain.Level, error) {
	raw, err := c.rdb.Get(ctx, approvalLevelsKey).Bytes()
	switch {
	case err == nil:
		var levels []levelDomain.Level
		if err := json.Unmarshal(raw, &levels); err == nil {
			return levels, nil
		}
		slog.Warn("approval levels cache: corrupt entry, reloading", "key", approvalLevelsKey)
	case !errors.Is(err, redis.Nil):
		slog.Warn("approval levels cache: read failed", "error", err)
	}

	levels, err := c.source.List(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(levels)
	if err != nil {
		return levels, nil
	}
	if err := c.rdb.Set(ctx, approvalLevelsKey, payload, c.ttl).Err(); err != nil {
		slog.Warn("approval levels cache: write failed", "error", err)
	}
	return levels, nil
}

func (c *ApprovalLevelCache) ReplaceAll(ctx context.Context, levels []levelDomain.Level) error {
	if err := c.source.ReplaceAll(ctx, levels); err != nil {
		return err
	}
	return c.Invalidate(ctx)
}

func (c *ApprovalLevelCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, approvalLevelsKey).Err()
}
