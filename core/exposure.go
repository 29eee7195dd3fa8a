package core

import (
	"context"
	"time"
)

// Exposure 是一条只追加的曝光记录：某职位在某请求中以某位次展示给了某用户。
// 它是离线评估（AUC / log-loss / precision@k）的 ground truth 输入，
// 与反馈记录（是否投递）join 后产出排序质量指标。
type Exposure struct {
	RequestID string  `json:"request_id"`
	UserID    string  `json:"user_id"`
	JobID     string  `json:"job_id"`
	Position  int     `json:"position"`
	Score     float64 `json:"score"`

	// PredictedActionProbability 是展示时刻的模型预测，评估时作为排序依据
	PredictedActionProbability float64 `json:"predicted_action_probability"`

	// RankingStrategy 是该位次的选择策略（core / new_job / exploration ...）
	RankingStrategy string `json:"ranking_strategy"`

	ModelVersion   string    `json:"model_version"`
	ScoringVersion string    `json:"scoring_version"`
	CreatedAt      time.Time `json:"created_at"`
}

// Feedback 是用户对某职位的目标行为记录（如 "apply"）。
// Positive 表示是否发生了目标行为。
type Feedback struct {
	UserID   string `json:"user_id"`
	JobID    string `json:"job_id"`
	Action   string `json:"action"`
	Positive bool   `json:"positive"`
}

// Telemetry 是旁路遥测接口：曝光与事件的 fire-and-forget 上报。
// 实现方的任何失败都不得影响返回给调用方的排序结果。
type Telemetry interface {
	// LogExposures 追加一批曝光记录
	LogExposures(ctx context.Context, exposures []*Exposure)

	// LogEvent 上报一个事件（降级原因、缓存命中等）
	LogEvent(ctx context.Context, name string, fields map[string]any)
}
