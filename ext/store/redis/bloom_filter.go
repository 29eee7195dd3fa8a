// Package redis 提供基于 Redis 的布隆过滤器检查器，
// 服务长周期曝光去重：近期曝光走 IDs 列表，超过列表窗口的
// 历史按天落成布隆过滤器，误判率可配。
package redis

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/redis/go-redis/v9"

	"github.com/rushteam/matchkit/filter"
	"github.com/rushteam/matchkit/store"
)

// BloomFilterChecker 实现 filter.BloomFilterChecker：
// 每个 key（{prefix}:bloom:{userID}:{date}）对应一个序列化在
// Redis 里的布隆过滤器，反序列化结果缓存在本地。
//
// 使用方式：
//
//	checker := redis.NewBloomFilterChecker(redisStore, 1000000, 0.01)
//	adapter := filter.NewStoreAdapterWithBloomFilter(redisStore, checker)
//	exposed := filter.NewExposedFilter(adapter, "user:exposed", 14*24*3600, 30)
type BloomFilterChecker struct {
	client *redis.Client

	// capacity 预期元素数，falsePositiveRate 期望误判率（0.01 = 1%）
	capacity          uint
	falsePositiveRate float64

	mu    sync.RWMutex
	cache map[string]*bloom.BloomFilter
}

var _ filter.BloomFilterChecker = (*BloomFilterChecker)(nil)

// NewBloomFilterChecker 基于 matchkit 的 RedisStore 创建检查器，复用其连接。
func NewBloomFilterChecker(s *store.RedisStore, capacity uint, falsePositiveRate float64) *BloomFilterChecker {
	return NewBloomFilterCheckerWithClient(s.GetClient(), capacity, falsePositiveRate)
}

// NewBloomFilterCheckerWithClient 直接用 *redis.Client 创建检查器。
func NewBloomFilterCheckerWithClient(client *redis.Client, capacity uint, falsePositiveRate float64) *BloomFilterChecker {
	return &BloomFilterChecker{
		client:            client,
		capacity:          capacity,
		falsePositiveRate: falsePositiveRate,
		cache:             make(map[string]*bloom.BloomFilter),
	}
}

// CheckInBloomFilter 实现 filter.BloomFilterChecker。
// 返回 true 表示 jobID 可能已曝光（有误判可能），false 表示一定没有。
func (c *BloomFilterChecker) CheckInBloomFilter(ctx context.Context, key string, jobID string) (bool, error) {
	c.mu.RLock()
	cached := c.cache[key]
	c.mu.RUnlock()
	if cached != nil {
		return cached.Test([]byte(jobID)), nil
	}

	bf, err := c.load(ctx, key)
	if err != nil {
		return false, err
	}
	if bf == nil {
		// 过滤器不存在：一定不在
		return false, nil
	}

	c.mu.Lock()
	c.cache[key] = bf
	c.mu.Unlock()
	return bf.Test([]byte(jobID)), nil
}

// AddJobs 把一批 jobID 写进 key 对应的布隆过滤器（曝光归档任务用）。
// ttl 为秒，0 表示不过期。
func (c *BloomFilterChecker) AddJobs(ctx context.Context, key string, jobIDs []string, ttl int) error {
	c.mu.RLock()
	bf := c.cache[key]
	c.mu.RUnlock()

	if bf == nil {
		loaded, err := c.load(ctx, key)
		if err != nil {
			return err
		}
		bf = loaded
		if bf == nil {
			bf = bloom.NewWithEstimates(c.capacity, c.falsePositiveRate)
		}
	}

	for _, jobID := range jobIDs {
		bf.Add([]byte(jobID))
	}

	var buf bytes.Buffer
	if _, err := bf.WriteTo(&buf); err != nil {
		return fmt.Errorf("serialize bloom filter: %w", err)
	}
	var expiration time.Duration
	if ttl > 0 {
		expiration = time.Duration(ttl) * time.Second
	}
	if err := c.client.Set(ctx, key, buf.Bytes(), expiration).Err(); err != nil {
		return fmt.Errorf("save bloom filter: %w", err)
	}

	c.mu.Lock()
	c.cache[key] = bf
	c.mu.Unlock()
	return nil
}

// ClearCache 清空本地缓存，强制下次从 Redis 重新加载。
func (c *BloomFilterChecker) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*bloom.BloomFilter)
}

// load 从 Redis 读取并反序列化；key 不存在时返回 (nil, nil)。
func (c *BloomFilterChecker) load(ctx context.Context, key string) (*bloom.BloomFilter, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get bloom filter: %w", err)
	}
	bf := bloom.NewWithEstimates(c.capacity, c.falsePositiveRate)
	if _, err := bf.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("deserialize bloom filter: %w", err)
	}
	return bf, nil
}
