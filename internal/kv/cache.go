package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"admind/internal/errs"
)

// 只读请求遇到瞬时故障时的最大尝试次数,写入不自动重试
const maxReadAttempts = 2

// Loader 在缓存未命中时计算原始值。
type Loader func(ctx context.Context) (string, error)

// Cache 是针对配置、字典、用户权限集等读多写少数据的读穿透缓存。
// 写方必须在关系库提交之后调用 Invalidate。
type Cache struct {
	client *redis.Client
}

// NewCache 基于共享 Redis 客户端创建缓存层。
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// GetOrCompute 返回缓存值;未命中时调用 loader 并回填。
// loader 出错时不回填缓存,错误原样返回。
func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, loader Loader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cached, err := c.getWithRetry(ctx, key)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		// KV 故障降级为直接加载,不阻塞读路径
		value, loadErr := loader(ctx)
		if loadErr != nil {
			return "", loadErr
		}
		return value, nil
	}

	value, err := loader(ctx)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return value, errs.Wrap(errs.KindUnavailable, "cache populate failed", err)
	}
	return value, nil
}

// Invalidate 删除指定缓存键,幂等。
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return errs.Wrap(errs.KindUnavailable, "cache invalidate failed", err)
	}
	return nil
}

// InvalidatePrefix 删除前缀下的所有缓存键,使用游标扫描。
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pattern := prefix + "*"
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return errs.Wrap(errs.KindUnavailable, fmt.Sprintf("failed to delete key %s", iter.Val()), err)
		}
	}
	if err := iter.Err(); err != nil {
		return errs.Wrap(errs.KindUnavailable, fmt.Sprintf("scan failed for pattern %s", pattern), err)
	}
	return nil
}

func (c *Cache) getWithRetry(ctx context.Context, key string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxReadAttempts; attempt++ {
		value, err := c.client.Get(ctx, key).Result()
		if err == nil {
			return value, nil
		}
		if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		lastErr = err
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return "", lastErr
}
