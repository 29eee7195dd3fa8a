package core

import "github.com/rushteam/matchkit/pkg/utils"

// MatchContext 承载一次匹配/检索请求的用户与场景信息，贯穿整个 Pipeline 透传。
// 引擎本身无内部并发：每个请求独立计算，MatchContext 不跨请求共享。
type MatchContext struct {
	UserID    string
	RequestID string // 曝光记录的关联键，通常为 uuid
	Scene     string // recommend / search / batch

	// Candidate 是请求内重算的候选人特征包；数据源缺失时为 nil
	Candidate *CandidateFeatures

	// Weights 是本次请求的权重快照，在请求入口一次性读取，请求期间不变
	Weights map[string]float64

	// Labels 是请求级标签：降级原因、命中的开关等
	Labels map[string]utils.Label

	// Params 请求级上下文参数：query、sort_mode、limit 等
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (mctx *MatchContext) PutLabel(key string, lbl utils.Label) {
	if mctx.Labels == nil {
		mctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := mctx.Labels[key]; ok {
		mctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	mctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (mctx *MatchContext) GetLabel(key string) (utils.Label, bool) {
	if mctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := mctx.Labels[key]
	return lbl, ok
}

// ParamString 从 Params 读取 string，缺失返回空串。
func (mctx *MatchContext) ParamString(key string) string {
	if mctx.Params == nil {
		return ""
	}
	if s, ok := mctx.Params[key].(string); ok {
		return s
	}
	return ""
}
