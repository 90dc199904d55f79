package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Hashforgamers/hfg-booking/internal/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConsoleCache keeps a short-lived JSON snapshot of each vendor's console
// availability so dashboard reads don't hammer the availability table. Cache
// errors degrade to misses; the store stays authoritative.
type ConsoleCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewConsoleCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *ConsoleCache {
	return &ConsoleCache{rdb: rdb, ttl: ttl, logger: logger}
}

func snapshotKey(vendorID int64) string {
	return fmt.Sprintf("vendor:consoles:%d", vendorID)
}

func (c *ConsoleCache) Get(ctx context.Context, vendorID int64) ([]*model.ConsoleAvailability, bool) {
	data, err := c.rdb.Get(ctx, snapshotKey(vendorID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("console cache read failed", zap.Int64("vendor_id", vendorID), zap.Error(err))
		return nil, false
	}

	var consoles []*model.ConsoleAvailability
	if err := json.Unmarshal(data, &consoles); err != nil {
		c.logger.Warn("console cache entry corrupt", zap.Int64("vendor_id", vendorID), zap.Error(err))
		return nil, false
	}

	return consoles, true
}

func (c *ConsoleCache) Set(ctx context.Context, vendorID int64, consoles []*model.ConsoleAvailability) {
	data, err := json.Marshal(consoles)
	if err != nil {
		c.logger.Warn("console cache marshal failed", zap.Int64("vendor_id", vendorID), zap.Error(err))
		return
	}

	if err := c.rdb.Set(ctx, snapshotKey(vendorID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("console cache write failed", zap.Int64("vendor_id", vendorID), zap.Error(err))
	}
}

func (c *ConsoleCache) Invalidate(ctx context.Context, vendorID int64) {
	if err := c.rdb.Del(ctx, snapshotKey(vendorID)).Err(); err != nil {
		c.logger.Warn("console cache invalidation failed", zap.Int64("vendor_id", vendorID), zap.Error(err))
	}
}
