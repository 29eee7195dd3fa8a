package core

import (
	"context"
	"time"
)

// ConfigSource 是权重与排序配置的来源接口。
// 配置源缺失或返回错误时，调用方必须使用文档化的默认值继续，
// 绝不因配置问题让请求失败（CONFIG_UNAVAILABLE 只用于观测）。
type ConfigSource interface {
	// ScoringWeights 返回五因子权重（skill/demand/seniority/salary/geo）
	ScoringWeights(ctx context.Context) (map[string]float64, error)

	// RankingConfig 返回某子系统/场景的排序配置
	RankingConfig(ctx context.Context, subsystem, feature string) (*RankingConfig, error)
}

// FeatureGate 是发布开关接口（kill-switch 语义）。
// 引擎运行前先询问开关：关闭时返回空结果集，而不是错误。
type FeatureGate interface {
	IsEnabled(ctx context.Context, flagKey, subjectID string, defaultVal bool) bool
}

// RankingConfig 是一次排序运行的全部可调参数。
// 所有字段都有硬编码默认值（DefaultRankingConfig），配置源只做覆盖。
type RankingConfig struct {
	// 召回段
	JobPoolSize   int `yaml:"job_pool_size" json:"job_pool_size"`     // 参与 shortlist 的最近职位数上限
	JobPoolDays   int `yaml:"job_pool_days" json:"job_pool_days"`     // 职位池时间窗（天）
	ShortlistSize int `yaml:"shortlist_size" json:"shortlist_size"`   // 进入全量打分的候选数

	// 排序段
	MinScore float64 `yaml:"min_score" json:"min_score"` // 低于此总分的结果被丢弃

	// 缓存段
	CacheTTL time.Duration `yaml:"cache_ttl" json:"cache_ttl"`

	// 权重覆盖（为空时使用权重源/默认权重）
	Weights map[string]float64 `yaml:"weights" json:"weights"`

	// 多样性护栏段
	MaxPerCompany     int     `yaml:"max_per_company" json:"max_per_company"`
	MinNewJobShare    float64 `yaml:"min_new_job_share" json:"min_new_job_share"`
	NewJobWindowDays  int     `yaml:"new_job_window_days" json:"new_job_window_days"`
	MinLongTailShare  float64 `yaml:"min_long_tail_share" json:"min_long_tail_share"`
	LongTailThreshold int     `yaml:"long_tail_threshold" json:"long_tail_threshold"`
	ExplorationRate   float64 `yaml:"exploration_rate" json:"exploration_rate"`

	// 搜索段：进程内 hybrid 打分权重。
	// 有查询词时 语义/词法/新鲜度，无查询词（浏览）时 画像契合/新鲜度。
	SearchSemanticWeight float64 `yaml:"search_semantic_weight" json:"search_semantic_weight"`
	SearchLexicalWeight  float64 `yaml:"search_lexical_weight" json:"search_lexical_weight"`
	SearchRecencyWeight  float64 `yaml:"search_recency_weight" json:"search_recency_weight"`
	BrowseFitWeight      float64 `yaml:"browse_fit_weight" json:"browse_fit_weight"`
	BrowseRecencyWeight  float64 `yaml:"browse_recency_weight" json:"browse_recency_weight"`
}

// DefaultRankingConfig 返回文档化的默认排序配置。
func DefaultRankingConfig() *RankingConfig {
	return &RankingConfig{
		JobPoolSize:       500,
		JobPoolDays:       30,
		ShortlistSize:     220,
		MinScore:          25,
		CacheTTL:          60 * time.Minute,
		MaxPerCompany:     3,
		MinNewJobShare:    0.2,
		NewJobWindowDays:  7,
		MinLongTailShare:  0.15,
		LongTailThreshold: 2,
		ExplorationRate:   0.1,

		SearchSemanticWeight: 0.55,
		SearchLexicalWeight:  0.35,
		SearchRecencyWeight:  0.10,
		BrowseFitWeight:      0.25,
		BrowseRecencyWeight:  0.75,
	}
}
