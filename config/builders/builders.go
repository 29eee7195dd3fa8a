package builders

import (
	"fmt"

	"github.com/rushteam/matchkit/config"
	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/filter"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/conv"
	"github.com/rushteam/matchkit/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("filter.exposed", BuildExposedFilterNode)
	config.Register("filter.rule", BuildRuleFilterNode)
	config.Register("rerank.guardrail", BuildGuardrailNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("recall.shortlist", BuildShortlistNode)
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("rank.score", BuildScoreNode)
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "blacklist":
			ids := conv.SliceAnyToString(filterMap["job_ids"])
			if ids == nil {
				ids = []string{}
			}
			key := conv.ConfigGet(filterMap, "key", "")
			filters = append(filters, filter.NewBlacklistFilter(ids, nil, key))
		case "user_block":
			keyPrefix := conv.ConfigGet(filterMap, "key_prefix", "")
			filters = append(filters, filter.NewUserBlockFilter(nil, keyPrefix))
		case "exposed":
			keyPrefix := conv.ConfigGet(filterMap, "key_prefix", "")
			timeWindow := conv.ConfigGetInt64(filterMap, "time_window", 0)
			bloomFilterDayWindow := conv.ConfigGet(filterMap, "bloom_filter_day_window", 0)
			filters = append(filters, filter.NewExposedFilter(nil, keyPrefix, timeWindow, bloomFilterDayWindow))
		case "rule":
			expr := conv.ConfigGet(filterMap, "expr", "")
			filters = append(filters, filter.NewRuleFilter(expr))
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildExposedFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	keyPrefix := conv.ConfigGet(cfg, "key_prefix", "")
	timeWindow := conv.ConfigGetInt64(cfg, "time_window", 0)
	bloomFilterDayWindow := conv.ConfigGet(cfg, "bloom_filter_day_window", 0)
	return &filter.FilterNode{Filters: []filter.Filter{
		filter.NewExposedFilter(nil, keyPrefix, timeWindow, bloomFilterDayWindow),
	}}, nil
}

func BuildRuleFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr not found")
	}
	return &filter.FilterNode{Filters: []filter.Filter{filter.NewRuleFilter(expr)}}, nil
}

func BuildGuardrailNode(cfg map[string]interface{}) (pipeline.Node, error) {
	node := &rerank.GuardrailSelector{
		Limit: int(conv.ConfigGetInt64(cfg, "limit", 0)),
	}

	// 护栏参数只在配置里出现时覆盖默认值
	rc := core.DefaultRankingConfig()
	if n := conv.ConfigGetInt64(cfg, "max_per_company", 0); n > 0 {
		rc.MaxPerCompany = int(n)
	}
	if v := conv.ConfigGetFloat64(cfg, "min_new_job_share", -1); v >= 0 {
		rc.MinNewJobShare = v
	}
	if n := conv.ConfigGetInt64(cfg, "new_job_window_days", 0); n > 0 {
		rc.NewJobWindowDays = int(n)
	}
	if v := conv.ConfigGetFloat64(cfg, "min_long_tail_share", -1); v >= 0 {
		rc.MinLongTailShare = v
	}
	if n := conv.ConfigGetInt64(cfg, "long_tail_threshold", 0); n > 0 {
		rc.LongTailThreshold = int(n)
	}
	if v := conv.ConfigGetFloat64(cfg, "exploration_rate", -1); v >= 0 {
		rc.ExplorationRate = v
	}
	node.Config = rc
	return node, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}

// BuildShortlistNode 召回节点依赖画像与向量存储，无法只靠配置构建；
// 需要在代码里组装后通过 NodeFactory.Register 覆盖注册。
func BuildShortlistNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return nil, fmt.Errorf("recall.shortlist requires profile and embedding stores, wire it in code")
}

// BuildFanoutNode 同上：并发召回依赖已组装的 Source 列表。
func BuildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return nil, fmt.Errorf("recall.fanout requires wired recall sources, wire it in code")
}

// BuildScoreNode 同上：打分节点依赖打分引擎与需求模型。
func BuildScoreNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return nil, fmt.Errorf("rank.score requires a scoring engine, wire it in code")
}
