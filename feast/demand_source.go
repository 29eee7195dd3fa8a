package feast

import (
	"context"
	"strings"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/demand"
)

var _ demand.Source = (*DemandSource)(nil)

// DemandSource 把 Feast 在线特征服务适配成需求分来源。
//
// 特征视图约定：
//   - 实体：skill + country + city（均为小写字符串）
//   - 特征：{FeatureView}:score，取值 [0,1]
//
// 查询失败返回 DATA_SOURCE_UNAVAILABLE，由上层决定降级（需求因子记 0）。
type DemandSource struct {
	Client Client

	// FeatureView 特征视图名称，默认 "skill_demand"
	FeatureView string

	// Project 项目名称（可选，空则用客户端默认）
	Project string
}

// Name 实现 demand.Source
func (s *DemandSource) Name() string { return "feast" }

// Scores 实现 demand.Source：批量查询各技能在 (country, city) 市场的需求分。
// 特征缺席（Feast 返回空值）的技能不出现在结果里。
func (s *DemandSource) Scores(ctx context.Context, skills []string, country, city string) (map[string]float64, error) {
	if s == nil || s.Client == nil || len(skills) == 0 {
		return map[string]float64{}, nil
	}

	view := s.FeatureView
	if view == "" {
		view = "skill_demand"
	}
	featureName := view + ":score"

	rows := make([]map[string]interface{}, 0, len(skills))
	for _, skill := range skills {
		rows = append(rows, map[string]interface{}{
			"skill":   strings.ToLower(strings.TrimSpace(skill)),
			"country": strings.ToLower(country),
			"city":    strings.ToLower(city),
		})
	}

	resp, err := s.Client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   []string{featureName},
		EntityRows: rows,
		Project:    s.Project,
	})
	if err != nil {
		return nil, core.NewDomainErrorWithCause(core.ModuleDemand, core.ErrorCodeDataSourceUnavailable,
			"feast online features unavailable", err)
	}

	scores := make(map[string]float64, len(skills))
	for i, fv := range resp.FeatureVectors {
		if i >= len(skills) {
			break
		}
		raw, ok := fv.Values[featureName]
		if !ok {
			continue
		}
		score, ok := raw.(float64)
		if !ok {
			continue
		}
		scores[skills[i]] = score
	}
	return scores, nil
}
