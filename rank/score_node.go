package rank

import (
	"context"
	"sort"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/model"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/utils"
	"github.com/rushteam/matchkit/recall"
	"github.com/rushteam/matchkit/scoring"
)

// ScoreNode 是排序 Node：对 shortlist 里的每条候选人-职位配对跑
// 全量打分引擎，校准行为概率，丢弃低于门槛的结果，然后按
// (行为概率, 匹配分) 双键降序排序。
//
// - 写入 labels：rank_model
// - 写入 Score / Reasons / Breakdown / ActionProbability / ScoringVersion
type ScoreNode struct {
	Engine  *scoring.Engine
	Weights *scoring.Holder

	// Calibrator 为 nil 时用 model.DefaultLogistic
	Calibrator model.Calibrator

	// Config 为 nil 时使用 core.DefaultRankingConfig（MinScore 门槛）
	Config *core.RankingConfig
}

func (n *ScoreNode) Name() string        { return "rank.score" }
func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ScoreNode) Process(
	ctx context.Context,
	mctx *core.MatchContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Engine == nil || len(items) == 0 {
		return items, nil
	}

	cfg := n.Config
	if cfg == nil {
		cfg = core.DefaultRankingConfig()
	}
	cal := n.Calibrator
	if cal == nil {
		cal = model.DefaultLogistic()
	}
	w := n.weights(mctx)

	var cand *core.CandidateFeatures
	if mctx != nil {
		cand = mctx.Candidate
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		semSim := it.MetaFloat(recall.MetaSemanticSimilarity)
		total, reasons, bd := n.Engine.ScoreJob(ctx, cand, it.Job, semSim, w)

		it.Score = total
		it.Reasons = reasons
		it.Breakdown = bd
		it.ScoringVersion = scoring.Version
		it.ActionProbability = cal.Calibrate(total)
		it.PutLabel("rank_model", utils.Label{Value: cal.Name(), Source: "rank"})

		if total < cfg.MinScore {
			continue
		}
		out = append(out, it)
	}

	// 双键排序：先行为概率，再匹配分；同分按 JobID 保证确定性
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ActionProbability != out[j].ActionProbability {
			return out[i].ActionProbability > out[j].ActionProbability
		}
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].JobID < out[j].JobID
	})
	return out, nil
}

// weights 返回本次请求的权重：请求快照优先，其次 Holder，最后默认值。
func (n *ScoreNode) weights(mctx *core.MatchContext) scoring.Weights {
	if mctx != nil && len(mctx.Weights) > 0 {
		return scoring.FromMap(mctx.Weights)
	}
	if n.Weights != nil {
		return n.Weights.Load()
	}
	return scoring.DefaultWeights()
}
