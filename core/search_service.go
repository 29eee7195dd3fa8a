package core

import "context"

// DelegatedSearchService 是外部多信号检索服务的领域接口。
//
// 部署了全文+trigram+画像契合+行为先验的外部检索能力时，
// 搜索排序可以直接采用其 hybrid_score；服务缺席或调用失败
// 都不是致命错误——调用方必须透明回退到进程内排序路径，
// 并把回退原因记录为 Label。
type DelegatedSearchService interface {
	// Name 返回服务名称（用于日志/回退原因）
	Name() string

	// Search 执行一次多信号检索；不可用时返回 DELEGATED_UNAVAILABLE
	Search(ctx context.Context, req *DelegatedSearchRequest) (*DelegatedSearchResult, error)

	// Close 关闭连接
	Close() error
}

// DelegatedSearchRequest 委托检索请求
type DelegatedSearchRequest struct {
	UserID   string
	Query    string
	SortMode string
	Limit    int

	// Filters 透传的过滤条件（地区、行业等），语义由实现方定义
	Filters map[string]any
}

// DelegatedSearchRow 是委托检索返回的单行：组合分与各信号分。
type DelegatedSearchRow struct {
	JobID string

	// HybridScore 是实现方已组合好的最终分，进程内不再重新加权
	HybridScore float64

	FullTextScore  float64
	TrigramScore   float64
	ProfileFit     float64
	RecencyScore   float64
	BehaviorPrior  float64
}

// DelegatedSearchResult 委托检索结果
type DelegatedSearchResult struct {
	Rows []DelegatedSearchRow
}
