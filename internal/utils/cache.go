package utils

import (
	"context"
	"encoding/json"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/metrics"
)

// LayeredCache 进程内缓存（go-cache）+ 可选 Redis 二级缓存
type LayeredCache struct {
	local  *cache.Cache
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	sf     singleflight.Group
}

// NewLayeredCache rdb 为 nil 时只使用进程内缓存
func NewLayeredCache(rdb *redis.Client, prefix string, ttl time.Duration) *LayeredCache {
	return &LayeredCache{
		local:  cache.New(ttl, 2*ttl),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Remember 依次查进程内缓存、Redis，都未命中时调用 load 并回填
func Remember[T any](ctx context.Context, c *LayeredCache, key string, load func() (T, error)) (T, error) {
	fullKey := c.prefix + key

	if v, ok := c.local.Get(fullKey); ok {
		if typed, ok := v.(T); ok {
			metrics.CacheHits.WithLabelValues("local").Inc()
			return typed, nil
		}
	}

	if c.rdb != nil {
		if raw, err := c.rdb.Get(ctx, fullKey).Bytes(); err == nil {
			var typed T
			if err := json.Unmarshal(raw, &typed); err == nil {
				metrics.CacheHits.WithLabelValues("redis").Inc()
				c.local.Set(fullKey, typed, c.ttl)
				return typed, nil
			}
		}
	}

	metrics.CacheMisses.Inc()
	val, err, _ := c.sf.Do(fullKey, func() (interface{}, error) {
		return load()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed := val.(T)

	c.local.Set(fullKey, typed, c.ttl)
	if c.rdb != nil {
		if data, err := json.Marshal(typed); err == nil {
			if err := c.rdb.Set(ctx, fullKey, data, c.ttl).Err(); err != nil {
				logging.Warn().Err(err).Str("key", fullKey).Msg("[Cache] 写入 Redis 失败")
			}
		}
	}
	return typed, nil
}

// Flush 清空本缓存的全部条目（Redis 中按前缀删除）
func (c *LayeredCache) Flush(ctx context.Context) error {
	c.local.Flush()
	if c.rdb == nil {
		return nil
	}

	iter := c.rdb.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// ItemCount 进程内缓存条目数
func (c *LayeredCache) ItemCount() int {
	return c.local.ItemCount()
}

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// SearchCache 搜索结果缓存封装
type SearchCache[T any] struct {
	storage *lru.Cache[string, CacheItem[T]]
	ttl     time.Duration
}

// NewSearchCache size 是最大缓存条数，ttl 是数据有效期
func NewSearchCache[T any](size int, ttl time.Duration) *SearchCache[T] {
	// lru.New 是线程安全的
	c, _ := lru.New[string, CacheItem[T]](size)
	return &SearchCache[T]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 写入（已存在则覆盖）
func (c *SearchCache[T]) Set(key string, value T) {
	c.storage.Add(key, CacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	})
}

// Get 读取，过期条目视为未命中并删除
func (c *SearchCache[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}

	if time.Now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}

	return item.Value, true
}

// Clear 清空
func (c *SearchCache[T]) Clear() {
	c.storage.Purge()
}

// Len 当前条目数
func (c *SearchCache[T]) Len() int {
	return c.storage.Len()
}
