package filter

import (
	"context"

	"github.com/rushteam/matchkit/core"
)

// BlacklistFilter 是下架名单过滤器，过滤掉已下架/封禁的职位。
type BlacklistFilter struct {
	// JobIDs 是内存中的下架职位 ID 列表
	JobIDs []string

	// Store 用于从存储中读取下架名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的名单 key（可选）
	Key string
}

// BlacklistStore 是下架名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取下架职位 ID 列表
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建一个下架名单过滤器。
func NewBlacklistFilter(jobIDs []string, storeAdapter *StoreAdapter, key string) *BlacklistFilter {
	var store BlacklistStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &BlacklistFilter{
		JobIDs: jobIDs,
		Store:  store,
		Key:    key,
	}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.MatchContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	// 从内存列表检查
	for _, id := range f.JobIDs {
		if item.JobID == id {
			return true, nil
		}
	}

	// 从 Store 检查
	if f.Store != nil && f.Key != "" {
		blacklist, err := f.Store.GetBlacklist(ctx, f.Key)
		if err == nil {
			for _, id := range blacklist {
				if item.JobID == id {
					return true, nil
				}
			}
		}
	}

	return false, nil
}
