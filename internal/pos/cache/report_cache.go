package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	KeyLowStock = "pos:report:low_stock"
	KeyKPIs     = "pos:report:kpis"
)

// ReportCache 报表读缓存（低库存列表、看板指标）
// rdb 为 nil 时缓存关闭，所有读取都直接未命中。
// 实时库存和下单时的库存校验从不经过这里。
type ReportCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewReportCache 创建报表缓存
func NewReportCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *ReportCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportCache{rdb: rdb, ttl: ttl, logger: logger}
}

// Enabled 是否配置了redis
func (c *ReportCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get 读取并反序列化到 dst，未命中或出错返回 false
func (c *ReportCache) Get(ctx context.Context, key string, dst interface{}) bool {
	if !c.Enabled() {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("report cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("report cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set 序列化并写入，失败只记日志
func (c *ReportCache) Set(ctx context.Context, key string, v interface{}) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("report cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("report cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate 库存或销售变更后清除报表缓存
func (c *ReportCache) Invalidate(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	if err := c.rdb.Del(ctx, KeyLowStock, KeyKPIs).Err(); err != nil {
		c.logger.Warn("report cache invalidate failed", zap.Error(err))
	}
}

// Ping 就绪检查用
func (c *ReportCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}
