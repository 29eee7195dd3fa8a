package search

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/embedding"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/text"
	"github.com/rushteam/matchkit/pkg/utils"
	"github.com/rushteam/matchkit/recall"
)

// Meta 键
const (
	MetaHybridScore = "hybrid_score"
)

const recencyWindowDays = 30.0

// HybridRanker 对候选职位集合做搜索排序。
//
// 两条路径：
//   - 委托路径：外部多信号检索可用时直接采用其 hybrid_score
//   - 进程内路径：词法命中率 + embedding 语义 + 新鲜度加权
//
// 委托路径的任何失败都透明回退到进程内路径，回退原因记录为
// 请求级 Label "search_fallback"。Process 从不返回错误。
type HybridRanker struct {
	// Delegated 为 nil 时始终走进程内路径
	Delegated core.DelegatedSearchService

	// Guardrail 是相关度排序时施加的多样性护栏（rerank.GuardrailSelector），可为 nil
	Guardrail pipeline.Node

	// Config 提供进程内 hybrid 打分权重；nil 时用 core.DefaultRankingConfig
	Config *core.RankingConfig

	// Now 便于测试注入
	Now func() time.Time
}

func (r *HybridRanker) Name() string        { return "search.hybrid" }
func (r *HybridRanker) Kind() pipeline.Kind { return pipeline.KindRank }

// Process 读取 mctx.Params 的 "query" 与 "sort_mode"，对 items 重打分并排序。
func (r *HybridRanker) Process(
	ctx context.Context,
	mctx *core.MatchContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	query := ""
	mode := SortDefault
	if mctx != nil {
		query = mctx.ParamString("query")
		mode = ParseSortMode(mctx.ParamString("sort_mode"))
	}
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}

	ranked := r.rankDelegated(ctx, mctx, items, query, mode)
	if ranked == nil {
		ranked = r.rankInProcess(items, query, now)
	}

	r.order(ranked, mode)

	// 相关度排序时套多样性护栏；newest/jhi 排序保持精确次序
	if mode.relevance() && r.Guardrail != nil {
		out, err := r.Guardrail.Process(ctx, mctx, ranked)
		if err == nil {
			return out, nil
		}
	}
	for i, it := range ranked {
		it.Position = i
	}
	return ranked, nil
}

// rankDelegated 走委托检索；失败返回 nil（调用方回退进程内路径）。
func (r *HybridRanker) rankDelegated(
	ctx context.Context,
	mctx *core.MatchContext,
	items []*core.Item,
	query string,
	mode SortMode,
) []*core.Item {
	if r.Delegated == nil {
		return nil
	}

	userID := ""
	if mctx != nil {
		userID = mctx.UserID
	}
	res, err := r.Delegated.Search(ctx, &core.DelegatedSearchRequest{
		UserID:   userID,
		Query:    query,
		SortMode: string(mode),
		Limit:    len(items),
	})
	if err != nil || res == nil {
		if mctx != nil {
			reason := r.Delegated.Name() + " unavailable"
			if err != nil {
				reason = r.Delegated.Name() + ": " + err.Error()
			}
			mctx.PutLabel("search_fallback", utils.Label{Value: reason, Source: "search"})
		}
		return nil
	}

	scores := make(map[string]float64, len(res.Rows))
	order := make(map[string]int, len(res.Rows))
	for i, row := range res.Rows {
		scores[row.JobID] = row.HybridScore
		order[row.JobID] = i
	}

	// 只保留委托服务认识的职位，按其给出的次序
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if _, ok := scores[it.JobID]; !ok {
			continue
		}
		it.Meta[MetaHybridScore] = scores[it.JobID]
		it.PutLabel("search_path", utils.Label{Value: r.Delegated.Name(), Source: "search"})
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return order[out[i].JobID] < order[out[j].JobID]
	})
	return out
}

// rankInProcess 是进程内 hybrid 打分，权重来自 RankingConfig。
// 有查询词：语义 + 词法 + 新鲜度；无查询词（浏览）：画像契合 + 新鲜度。
func (r *HybridRanker) rankInProcess(items []*core.Item, query string, now time.Time) []*core.Item {
	cfg := r.Config
	if cfg == nil {
		cfg = core.DefaultRankingConfig()
	}

	var queryVec []float64
	var queryTokens []string
	if query != "" {
		queryVec = embedding.Embed(query)
		queryTokens = text.Tokenize(query)
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}

		var hybrid float64
		rec := recency(it.Job, now)
		if query != "" {
			sem := 0.0
			lex := 0.0
			if it.Job != nil {
				sem = embedding.Similarity(queryVec, embedding.Embed(it.Job.Text))
				lex = lexicalHit(queryTokens, it.Job.Text)
			}
			hybrid = cfg.SearchSemanticWeight*sem + cfg.SearchLexicalWeight*lex + cfg.SearchRecencyWeight*rec
		} else {
			fit := it.MetaFloat(recall.MetaSemanticSimilarity)
			hybrid = cfg.BrowseFitWeight*fit + cfg.BrowseRecencyWeight*rec
		}

		it.Meta[MetaHybridScore] = hybrid
		it.PutLabel("search_path", utils.Label{Value: "in_process", Source: "search"})
		out = append(out, it)
	}
	return out
}

// order 按排序方式整理结果次序。
func (r *HybridRanker) order(items []*core.Item, mode SortMode) {
	switch mode {
	case SortNewest:
		sort.SliceStable(items, func(i, j int) bool {
			pi, pj := postedAt(items[i]), postedAt(items[j])
			if !pi.Equal(pj) {
				return pi.After(pj)
			}
			return items[i].JobID < items[j].JobID
		})
	case SortJHIDesc:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Score != items[j].Score {
				return items[i].Score > items[j].Score
			}
			return items[i].JobID < items[j].JobID
		})
	case SortJHIAsc:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Score != items[j].Score {
				return items[i].Score < items[j].Score
			}
			return items[i].JobID < items[j].JobID
		})
	default: // 相关度：hybrid 分降序
		sort.SliceStable(items, func(i, j int) bool {
			hi, hj := items[i].MetaFloat(MetaHybridScore), items[j].MetaFloat(MetaHybridScore)
			if hi != hj {
				return hi > hj
			}
			return items[i].JobID < items[j].JobID
		})
	}
}

func postedAt(it *core.Item) time.Time {
	if it == nil || it.Job == nil {
		return time.Time{}
	}
	return it.Job.PostedAt
}

// lexicalHit 返回查询 token 在职位文本中的命中比例。
func lexicalHit(tokens []string, jobText string) float64 {
	if len(tokens) == 0 || jobText == "" {
		return 0
	}
	hits := 0
	for _, tok := range tokens {
		if strings.Contains(jobText, tok) {
			hits++
		}
	}
	return float64(hits) / float64(len(tokens))
}

// recency 返回 clamp(1 − age/30d, 0, 1)。
func recency(job *core.JobFeatures, now time.Time) float64 {
	if job == nil {
		return 0
	}
	v := 1 - job.AgeDays(now)/recencyWindowDays
	return math.Max(0, math.Min(1, v))
}
