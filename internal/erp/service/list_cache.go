package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const listCachePrefix = "bws:tickets:"

// ListCache redis 中的磅单全量列表快照。nil 表示未启用
//
// 每类磅单有一个版本号 bws:tickets:<kind>:ver，快照写在
// bws:tickets:<kind>:<ver> 下。Invalidate 只递增版本号，读库期间发生的写操作
// 会让随后的 Set 落到旧版本键上，读者永远看不到它。
type ListCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewListCache rdb 为 nil 时返回 nil
func NewListCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *ListCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListCache{rdb: rdb, ttl: ttl, logger: logger}
}

func versionKey(kind string) string {
	return listCachePrefix + kind + ":ver"
}

func snapshotKey(kind string, version int64) string {
	return fmt.Sprintf("%s%s:%d", listCachePrefix, kind, version)
}

// Get 读取当前版本的快照到 dest。返回的版本号需在读库前取得并传给 Set；
// 版本号为负表示 redis 不可用，Set 将跳过
func (c *ListCache) Get(ctx context.Context, kind string, dest any) (version int64, hit bool) {
	if c == nil {
		return -1, false
	}
	version, err := c.rdb.Get(ctx, versionKey(kind)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("ticket list cache version read failed", zap.String("kind", kind), zap.Error(err))
		return -1, false
	}

	data, err := c.rdb.Get(ctx, snapshotKey(kind, version)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("ticket list cache read failed", zap.String("kind", kind), zap.Error(err))
		}
		return version, false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("ticket list cache corrupt", zap.String("kind", kind), zap.Error(err))
		return version, false
	}
	return version, true
}

// Set 写入 version 对应的快照
func (c *ListCache) Set(ctx context.Context, kind string, version int64, v any) {
	if c == nil || version < 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, snapshotKey(kind, version), data, c.ttl).Err(); err != nil {
		c.logger.Warn("ticket list cache write failed", zap.String("kind", kind), zap.Error(err))
	}
}

// Invalidate 写操作后递增版本号，旧快照随 TTL 过期
func (c *ListCache) Invalidate(ctx context.Context, kind string) {
	if c == nil {
		return
	}
	if err := c.rdb.Incr(ctx, versionKey(kind)).Err(); err != nil {
		c.logger.Warn("ticket list cache invalidate failed", zap.String("kind", kind), zap.Error(err))
	}
}
