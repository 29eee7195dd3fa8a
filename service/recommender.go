package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/feature"
	"github.com/rushteam/matchkit/filter"
	"github.com/rushteam/matchkit/model"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/utils"
	"github.com/rushteam/matchkit/rank"
	"github.com/rushteam/matchkit/recall"
	"github.com/rushteam/matchkit/rerank"
	"github.com/rushteam/matchkit/scoring"
	"github.com/rushteam/matchkit/store"
)

// FlagMatchingEnabled 是推荐链路的 kill-switch 开关名。
const FlagMatchingEnabled = "matching_enabled"

// Recommender 是推荐入口：为一个候选人产出 Top-N 职位推荐。
//
// 请求流程：
//  1. 开关检查（关闭 → 空结果，nil error）
//  2. 缓存整单读（命中 → 跳过整条流水线）
//  3. 画像取数（缺失 → 空结果 + 降级 Label）
//  4. Pipeline：shortlist → 疲劳过滤 → 打分 → 多样性护栏
//  5. 缓存写 + 曝光上报（旁路，失败只打日志）
//
// 引擎无内部并发：每个请求独立计算，Recommender 可被任意多
// goroutine 并发调用。
type Recommender struct {
	Profiles   core.ProfileStore
	Embeddings core.EmbeddingStore
	Store      core.Store

	Engine  *scoring.Engine
	Weights *scoring.Holder

	// Calibrator 为 nil 时用 model.DefaultLogistic
	Calibrator model.Calibrator

	Cache *store.RecommendationCache

	// ConfigSource 为 nil 或不可用时全部用默认值
	ConfigSource core.ConfigSource

	// Gate 为 nil 时视为全部开启
	Gate core.FeatureGate

	// Telemetry 为 nil 时不上报曝光
	Telemetry core.Telemetry

	Logger *zap.Logger

	// Now 便于测试注入
	Now func() time.Time
}

func (r *Recommender) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.NewNop()
}

func (r *Recommender) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Recommend 为 userID 产出至多 limit 条推荐，按最终位次排列。
// 数据源不可用与配置缺失都按降级处理：宁可空结果，不让请求失败。
func (r *Recommender) Recommend(ctx context.Context, userID string, limit int) ([]*core.Item, error) {
	log := r.logger()

	if r.Gate != nil && !r.Gate.IsEnabled(ctx, FlagMatchingEnabled, userID, true) {
		log.Info("matching disabled by gate", zap.String("user_id", userID))
		return []*core.Item{}, nil
	}

	mctx := &core.MatchContext{
		UserID:    userID,
		RequestID: uuid.NewString(),
		Scene:     "recommend",
		Params:    map[string]any{"limit": limit},
	}

	// 配置与权重快照在请求入口一次性读取，请求期间不变
	rc := r.rankingConfig(ctx, mctx)
	mctx.Weights = r.weightsSnapshot(ctx, mctx)

	// 缓存整单命中时跳过整条流水线
	if cached, ok := r.Cache.GetRanked(ctx, userID, scoring.Version); ok {
		items := itemsFromCache(cached, limit)
		log.Debug("recommendation cache hit",
			zap.String("user_id", userID),
			zap.String("request_id", mctx.RequestID),
			zap.Int("count", len(items)))
		r.reportExposures(ctx, mctx, items)
		return items, nil
	}

	rec, err := r.Profiles.GetCandidate(ctx, userID)
	if err != nil || rec == nil {
		mctx.PutLabel("degraded", utils.Label{Value: "profile_missing", Source: "service"})
		log.Warn("candidate profile unavailable",
			zap.String("user_id", userID),
			zap.Error(err))
		return []*core.Item{}, nil
	}
	mctx.Candidate = feature.BuildCandidateFeatures(rec)

	p := r.buildPipeline(limit, rc)
	items, err := p.Run(ctx, mctx, nil)
	if err != nil {
		// 数据源整体不可用：降级为空结果
		if core.IsDataSourceUnavailable(err) {
			mctx.PutLabel("degraded", utils.Label{Value: "job_pool_unavailable", Source: "service"})
			log.Warn("job pool unavailable",
				zap.String("user_id", userID),
				zap.Error(err))
			return []*core.Item{}, nil
		}
		return nil, err
	}

	if err := r.Cache.PutRanked(ctx, userID, items); err != nil {
		log.Warn("recommendation cache write failed",
			zap.String("user_id", userID),
			zap.Error(err))
	}

	r.reportExposures(ctx, mctx, items)

	log.Info("recommendation computed",
		zap.String("user_id", userID),
		zap.String("request_id", mctx.RequestID),
		zap.Int("count", len(items)))
	return items, nil
}

// InvalidateUser 清掉用户的推荐缓存，画像更新后调用。
func (r *Recommender) InvalidateUser(ctx context.Context, userID string, jobIDs []string) error {
	return r.Cache.Invalidate(ctx, userID, jobIDs)
}

func (r *Recommender) buildPipeline(limit int, rc *core.RankingConfig) *pipeline.Pipeline {
	nodes := []pipeline.Node{
		&recall.EmbeddingShortlist{
			Profiles:   r.Profiles,
			Embeddings: r.Embeddings,
			Config:     rc,
			Now:        r.Now,
		},
	}
	if r.Store != nil {
		// 疲劳窗口与遥测的曝光历史保留窗口一致
		window := int64((14 * 24 * time.Hour) / time.Second)
		nodes = append(nodes, &filter.FilterNode{Filters: []filter.Filter{
			filter.NewExposedFilter(filter.NewStoreAdapter(r.Store), "", window, 0),
		}})
	}
	nodes = append(nodes,
		&rank.ScoreNode{
			Engine:     r.Engine,
			Weights:    r.Weights,
			Calibrator: r.Calibrator,
			Config:     rc,
		},
		&rerank.GuardrailSelector{
			Limit:  limit,
			Config: rc,
			Now:    r.Now,
		},
	)
	return &pipeline.Pipeline{Nodes: nodes}
}

func (r *Recommender) rankingConfig(ctx context.Context, mctx *core.MatchContext) *core.RankingConfig {
	if r.ConfigSource == nil {
		return core.DefaultRankingConfig()
	}
	rc, err := r.ConfigSource.RankingConfig(ctx, "matching", "recommendations")
	if err != nil {
		mctx.PutLabel("config", utils.Label{Value: "defaults_used", Source: "service"})
		if rc == nil {
			rc = core.DefaultRankingConfig()
		}
	}
	return rc
}

func (r *Recommender) weightsSnapshot(ctx context.Context, mctx *core.MatchContext) map[string]float64 {
	if r.ConfigSource == nil {
		return nil
	}
	weights, err := r.ConfigSource.ScoringWeights(ctx)
	if err != nil {
		mctx.PutLabel("config", utils.Label{Value: "default_weights", Source: "service"})
		return nil
	}
	return weights
}

// reportExposures 旁路上报曝光：失败只打日志，不影响返回。
func (r *Recommender) reportExposures(ctx context.Context, mctx *core.MatchContext, items []*core.Item) {
	if r.Telemetry == nil || len(items) == 0 {
		return
	}
	now := r.now()
	exposures := make([]*core.Exposure, 0, len(items))
	for _, it := range items {
		exposures = append(exposures, &core.Exposure{
			RequestID:                  mctx.RequestID,
			UserID:                     mctx.UserID,
			JobID:                      it.JobID,
			Position:                   it.Position,
			Score:                      it.Score,
			PredictedActionProbability: it.ActionProbability,
			RankingStrategy:            it.SelectionStrategy,
			ModelVersion:               it.ModelVersion,
			ScoringVersion:             it.ScoringVersion,
			CreatedAt:                  now,
		})
	}
	r.Telemetry.LogExposures(ctx, exposures)
}

// itemsFromCache 把缓存条目还原成按位次排列的结果。
func itemsFromCache(cached []*store.CachedMatch, limit int) []*core.Item {
	if limit > 0 && len(cached) > limit {
		cached = cached[:limit]
	}
	items := make([]*core.Item, 0, len(cached))
	for i, m := range cached {
		it := core.NewItem(m.JobID)
		it.Score = m.Score
		it.ActionProbability = m.ActionProbability
		it.Reasons = m.Reasons
		it.Breakdown = m.Breakdown
		it.ModelVersion = m.ModelVersion
		it.ScoringVersion = m.ScoringVersion
		it.Position = i
		it.PutLabel("served_from", utils.Label{Value: "cache", Source: "service"})
		items = append(items, it)
	}
	return items
}
