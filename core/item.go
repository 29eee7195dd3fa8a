package core

import "github.com/rushteam/matchkit/pkg/utils"

// Item 是匹配链路中的统一承载结构：一条候选人-职位的打分结果。
// 在 Pipeline 中逐步被充实：召回阶段写入 Job 与语义相似度，
// 排序阶段写入 Score/Breakdown/Reasons，重排阶段盖上 SelectionStrategy 与 Position，
// 之后冻结为缓存条目和曝光记录。
type Item struct {
	JobID string

	// Score 是加权多因子总分，范围 [0,100]
	Score float64

	// ActionProbability 是校准后的行为概率（如投递概率），用于排序与离线评估
	ActionProbability float64

	// Reasons 是面向用户的解释，最多 4 条
	Reasons []string

	// Breakdown 是各因子的归一化子分与诊断信息，产出后不可变
	Breakdown *ScoreBreakdown

	ModelVersion   string // embedding 模型版本
	ScoringVersion string // 打分算法版本

	// SelectionStrategy 由多样性重排写入：new_job / long_tail / exploration / core / core_relaxed
	SelectionStrategy string
	// Position 是重排后的最终位次（从 0 开始）
	Position int

	IsNewJob          bool
	IsLongTailCompany bool

	// Job 是打分所需的职位特征，仅在链路内透传，不进入曝光记录
	Job *JobFeatures

	Labels map[string]utils.Label
	Meta   map[string]any
}

func NewItem(jobID string) *Item {
	return &Item{
		JobID:  jobID,
		Labels: make(map[string]utils.Label),
		Meta:   make(map[string]any),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// MetaFloat 从 Meta 读取 float64，缺失或类型不符返回 0。
func (it *Item) MetaFloat(key string) float64 {
	if it.Meta == nil {
		return 0
	}
	if f, ok := it.Meta[key].(float64); ok {
		return f
	}
	return 0
}
