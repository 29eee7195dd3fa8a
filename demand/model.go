// Package demand 实现市场需求模型：按 (技能, 国家, 城市) 维度维护
// 时间衰减的需求分，用于打分引擎的 demand_boost 因子。
//
// 需求分由批任务离线重算（见 Recompute），线上只做只读查询；
// 查询路径上的任何失败都降级为 0 分，不影响请求。
package demand

import (
	"context"
	"strings"
)

// Source 是需求分的查询接口。
//
// 实现：
//   - StoreSource：KV 存储（Redis/内存）中的参照表
//   - feast.DemandSource：Feast 在线特征服务
type Source interface {
	// Name 返回来源名称（用于日志/监控）
	Name() string

	// Scores 返回 (country, city) 市场内各技能的需求分，
	// 没有记录的技能直接缺席于结果 map
	Scores(ctx context.Context, skills []string, country, city string) (map[string]float64, error)
}

// MaxSkills 是单次查询参与计算的技能数上限。
const MaxSkills = 20

// Model 是需求模型的查询端。
type Model struct {
	Source Source
}

// Weight 返回候选人技能组合在目标市场的需求权重 [0,1]：
// 至多取前 MaxSkills 个技能，对有已知需求分的技能取平均；
// 一个都查不到（或来源失败）时返回 0。
func (m *Model) Weight(ctx context.Context, skills []string, country, city string) float64 {
	if m == nil || m.Source == nil || len(skills) == 0 {
		return 0
	}

	lookup := make([]string, 0, MaxSkills)
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		lookup = append(lookup, s)
		if len(lookup) == MaxSkills {
			break
		}
	}
	if len(lookup) == 0 {
		return 0
	}

	scores, err := m.Source.Scores(ctx, lookup, country, city)
	if err != nil || len(scores) == 0 {
		return 0
	}

	var sum float64
	var n int
	for _, s := range lookup {
		if v, ok := scores[s]; ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	w := sum / float64(n)
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}
