package rerank

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/text"
	"github.com/rushteam/matchkit/pkg/utils"
)

// 选择策略，写入 Item.SelectionStrategy 并随曝光记录落盘
const (
	StrategyNewJob      = "new_job"
	StrategyLongTail    = "long_tail"
	StrategyExploration = "exploration"
	StrategyCore        = "core"
	StrategyCoreRelaxed = "core_relaxed"
)

// GuardrailSelector 是多样性护栏重排：在排序结果上按确定性的
// 多 pass 选择构造最终列表，保证新职位、长尾公司与探索位的最小份额，
// 并限制单一公司的职位数。
//
// 选择完全确定：同样的输入（含 UserID）永远产出同样的列表，
// 探索位用哈希而不是随机数。
//
// Pass 顺序：
//  1. new_job     —— 新职位配额（MinNewJobShare）
//  2. long_tail   —— 长尾公司配额（MinLongTailShare）
//  3. exploration —— 探索位（ExplorationRate），按 0.6·hash + 0.4·新鲜度 选取
//  4. core        —— 按排序顺序补齐，单公司不超过 MaxPerCompany
//  5. core_relaxed—— 仍不满时放开公司上限补齐
type GuardrailSelector struct {
	// Limit 是最终列表长度；<=0 时不超过输入长度
	Limit int

	// Config 为 nil 时使用 core.DefaultRankingConfig
	Config *core.RankingConfig

	// Now 便于测试注入
	Now func() time.Time
}

func (n *GuardrailSelector) Name() string        { return "rerank.guardrail" }
func (n *GuardrailSelector) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *GuardrailSelector) Process(
	_ context.Context,
	mctx *core.MatchContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	cfg := n.Config
	if cfg == nil {
		cfg = core.DefaultRankingConfig()
	}
	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}

	limit := n.Limit
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}

	newQuota := int(math.Ceil(cfg.MinNewJobShare * float64(limit)))
	longTailQuota := int(math.Ceil(cfg.MinLongTailShare * float64(limit)))
	exploreQuota := int(math.Ceil(cfg.ExplorationRate * float64(limit)))

	seed := ""
	if mctx != nil {
		seed = mctx.UserID
	}

	sel := &selection{
		limit:         limit,
		maxPerCompany: cfg.MaxPerCompany,
		taken:         make(map[string]bool, limit),
		perCompany:    make(map[string]int, limit),
	}

	// Pass 1：新职位配额，按排序顺序取
	for _, it := range items {
		if sel.full() || sel.count(StrategyNewJob) >= newQuota {
			break
		}
		if it != nil && it.IsNewJob {
			sel.take(it, StrategyNewJob)
		}
	}

	// Pass 2：长尾公司配额；Pass 1 已选中的长尾职位计入配额
	longTailHave := 0
	for _, it := range sel.items {
		if it.IsLongTailCompany {
			longTailHave++
		}
	}
	for _, it := range items {
		if sel.full() || longTailHave >= longTailQuota {
			break
		}
		if it != nil && it.IsLongTailCompany && sel.take(it, StrategyLongTail) {
			longTailHave++
		}
	}

	// Pass 3：探索位。确定性打分：0.6·hash(user, job) + 0.4·新鲜度
	if exploreQuota > 0 && !sel.full() {
		type scored struct {
			item  *core.Item
			score float64
		}
		pool := make([]scored, 0, len(items))
		for _, it := range items {
			if it == nil || sel.taken[it.JobID] {
				continue
			}
			fresh := 0.0
			if it.Job != nil && cfg.JobPoolDays > 0 {
				fresh = 1 - it.Job.AgeDays(now)/float64(cfg.JobPoolDays)
				if fresh < 0 {
					fresh = 0
				}
			}
			pool = append(pool, scored{
				item:  it,
				score: 0.6*text.Hash01(seed+":"+it.JobID) + 0.4*fresh,
			})
		}
		sort.SliceStable(pool, func(i, j int) bool {
			if pool[i].score != pool[j].score {
				return pool[i].score > pool[j].score
			}
			return pool[i].item.JobID < pool[j].item.JobID
		})
		for _, s := range pool {
			if sel.full() || sel.count(StrategyExploration) >= exploreQuota {
				break
			}
			sel.take(s.item, StrategyExploration)
		}
	}

	// Pass 4：按排序顺序补齐（公司上限生效）
	for _, it := range items {
		if sel.full() {
			break
		}
		if it != nil {
			sel.take(it, StrategyCore)
		}
	}

	// Pass 5：仍不满时放开公司上限
	if !sel.full() {
		for _, it := range items {
			if sel.full() {
				break
			}
			if it != nil && !sel.taken[it.JobID] {
				sel.takeRelaxed(it)
			}
		}
	}

	for i, it := range sel.items {
		it.Position = i
		it.PutLabel("rerank_strategy", utils.Label{Value: it.SelectionStrategy, Source: "rerank"})
	}
	return sel.items, nil
}

// selection 维护重排过程中的已选集合与公司计数。
type selection struct {
	limit         int
	maxPerCompany int

	items      []*core.Item
	taken      map[string]bool
	perCompany map[string]int
	byStrategy map[string]int
}

func (s *selection) full() bool { return len(s.items) >= s.limit }

func (s *selection) count(strategy string) int {
	if s.byStrategy == nil {
		return 0
	}
	return s.byStrategy[strategy]
}

func (s *selection) company(it *core.Item) string {
	if it.Job == nil {
		return ""
	}
	return it.Job.CompanyID
}

// take 尝试选入一个职位；重复或触发公司上限时返回 false。
func (s *selection) take(it *core.Item, strategy string) bool {
	if s.full() || s.taken[it.JobID] {
		return false
	}
	company := s.company(it)
	if company != "" && s.maxPerCompany > 0 && s.perCompany[company] >= s.maxPerCompany {
		return false
	}
	s.add(it, strategy, company)
	return true
}

// takeRelaxed 无视公司上限选入（补齐 pass 用）。
func (s *selection) takeRelaxed(it *core.Item) {
	s.add(it, StrategyCoreRelaxed, s.company(it))
}

func (s *selection) add(it *core.Item, strategy, company string) {
	it.SelectionStrategy = strategy
	s.items = append(s.items, it)
	s.taken[it.JobID] = true
	if company != "" {
		s.perCompany[company]++
	}
	if s.byStrategy == nil {
		s.byStrategy = make(map[string]int, 8)
	}
	s.byStrategy[strategy]++
}
