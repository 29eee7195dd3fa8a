package filter

import (
	"context"

	"github.com/rushteam/matchkit/core"
)

// UserBlockFilter 过滤掉候选人已投递或主动屏蔽的职位。
type UserBlockFilter struct {
	// Store 用于从存储中读取候选人的屏蔽列表
	Store UserBlockStore

	// KeyPrefix 是 Store 中的 key 前缀，实际 key 为 {KeyPrefix}:{UserID}
	KeyPrefix string
}

// UserBlockStore 是候选人屏蔽列表的存储接口。
type UserBlockStore interface {
	// GetUserBlocks 获取候选人已投递/已屏蔽的职位 ID 列表
	GetUserBlocks(ctx context.Context, userID string, keyPrefix string) ([]string, error)
}

// NewUserBlockFilter 创建一个候选人屏蔽过滤器。
func NewUserBlockFilter(storeAdapter *StoreAdapter, keyPrefix string) *UserBlockFilter {
	var store UserBlockStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &UserBlockFilter{
		Store:     store,
		KeyPrefix: keyPrefix,
	}
}

func (f *UserBlockFilter) Name() string {
	return "filter.user_block"
}

func (f *UserBlockFilter) ShouldFilter(
	ctx context.Context,
	mctx *core.MatchContext,
	item *core.Item,
) (bool, error) {
	if item == nil || mctx == nil || mctx.UserID == "" {
		return false, nil
	}

	if f.Store == nil {
		return false, nil
	}

	keyPrefix := f.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "user:block"
	}

	blockedIDs, err := f.Store.GetUserBlocks(ctx, mctx.UserID, keyPrefix)
	if err != nil {
		return false, nil
	}

	for _, id := range blockedIDs {
		if item.JobID == id {
			return true, nil
		}
	}

	return false, nil
}
