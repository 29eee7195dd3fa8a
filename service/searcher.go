package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/embedding"
	"github.com/rushteam/matchkit/feature"
	"github.com/rushteam/matchkit/pkg/utils"
	"github.com/rushteam/matchkit/recall"
	"github.com/rushteam/matchkit/rerank"
	"github.com/rushteam/matchkit/search"
)

// Searcher 是检索入口：对职位池执行混合排序检索。
// 部署了外部多信号检索服务时优先委托；缺席或失败时透明回退
// 到进程内混合排序（语义 + 词法 + 新鲜度），回退原因进 Label。
type Searcher struct {
	Profiles core.ProfileStore

	// Delegated 为 nil 时始终走进程内路径
	Delegated core.DelegatedSearchService

	// ConfigSource 为 nil 或不可用时用默认值
	ConfigSource core.ConfigSource

	Logger *zap.Logger

	// Now 便于测试注入
	Now func() time.Time
}

func (s *Searcher) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

// Search 执行一次检索。query 可为空（浏览模式：画像契合 + 新鲜度排序），
// sortMode 解析失败静默回落到默认排序。
func (s *Searcher) Search(ctx context.Context, userID, query, sortMode string, limit int) ([]*core.Item, error) {
	log := s.logger()

	mctx := &core.MatchContext{
		UserID:    userID,
		RequestID: uuid.NewString(),
		Scene:     "search",
		Params: map[string]any{
			"query":     query,
			"sort_mode": sortMode,
			"limit":     limit,
		},
	}

	rc := core.DefaultRankingConfig()
	if s.ConfigSource != nil {
		if cfg, err := s.ConfigSource.RankingConfig(ctx, "matching", "search"); cfg != nil {
			rc = cfg
			if err != nil {
				mctx.PutLabel("config", utils.Label{Value: "defaults_used", Source: "service"})
			}
		}
	}

	items, err := s.jobPool(ctx, mctx, rc)
	if err != nil {
		mctx.PutLabel("degraded", utils.Label{Value: "job_pool_unavailable", Source: "service"})
		log.Warn("job pool unavailable for search",
			zap.String("user_id", userID),
			zap.Error(err))
		return []*core.Item{}, nil
	}

	ranker := &search.HybridRanker{
		Delegated: s.Delegated,
		Guardrail: &rerank.GuardrailSelector{Limit: limit, Config: rc, Now: s.Now},
		Config:    rc,
		Now:       s.Now,
	}
	items, err = ranker.Process(ctx, mctx, items)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	if lbl, ok := mctx.GetLabel("search_fallback"); ok {
		log.Info("delegated search fell back",
			zap.String("user_id", userID),
			zap.String("reason", lbl.Value))
	}
	log.Debug("search completed",
		zap.String("user_id", userID),
		zap.String("request_id", mctx.RequestID),
		zap.String("query", query),
		zap.Int("count", len(items)))
	return items, nil
}

// jobPool 拉出检索底池并标注画像契合度（浏览模式的排序信号）。
func (s *Searcher) jobPool(ctx context.Context, mctx *core.MatchContext, rc *core.RankingConfig) ([]*core.Item, error) {
	jobs, err := s.Profiles.ListRecentJobs(ctx, rc.JobPoolSize, rc.JobPoolDays)
	if err != nil {
		return nil, err
	}

	// 画像缺席是合法状态：契合度记 0，只靠文本与新鲜度排序
	var candVec []float64
	if mctx.UserID != "" {
		if rec, err := s.Profiles.GetCandidate(ctx, mctx.UserID); err == nil && rec != nil {
			cand := feature.BuildCandidateFeatures(rec)
			mctx.Candidate = cand
			candVec = embedding.Embed(cand.Text)
		}
	}

	items := make([]*core.Item, 0, len(jobs))
	for _, rec := range jobs {
		if rec == nil {
			continue
		}
		job := feature.BuildJobFeatures(rec)
		it := core.NewItem(job.ID)
		it.Job = job
		it.ModelVersion = embedding.ModelVersion
		if candVec != nil {
			it.Meta[recall.MetaSemanticSimilarity] = embedding.Similarity(candVec, embedding.Embed(job.Text))
		}
		items = append(items, it)
	}
	return items, nil
}
