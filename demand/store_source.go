package demand

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/matchkit/core"
)

// StoreSource 是 KV 存储实现的需求分参照表。
// 布局：每个市场一个 Hash，key 为 "demand:{country}:{city}"，
// field 为技能，value 为最近窗口的 Row JSON。
// Upsert 覆盖写同一窗口的记录：last-writer-wins，重跑安全。
type StoreSource struct {
	Store core.KeyValueStore
}

func (s *StoreSource) Name() string { return "store" }

func marketKey(country, city string) string {
	return fmt.Sprintf("demand:%s:%s", country, city)
}

// Scores 实现 Source 接口：读取市场 Hash 中各技能的最近需求分。
func (s *StoreSource) Scores(ctx context.Context, skills []string, country, city string) (map[string]float64, error) {
	if s == nil || s.Store == nil {
		return nil, core.NewDomainError(core.ModuleDemand, core.ErrorCodeUnavailable, "demand: store not configured")
	}

	out := make(map[string]float64, len(skills))
	key := marketKey(country, city)
	for _, skill := range skills {
		data, err := s.Store.HGet(ctx, key, skill)
		if err != nil {
			if core.IsStoreNotFound(err) {
				continue
			}
			return nil, err
		}
		var row Row
		if json.Unmarshal(data, &row) != nil {
			continue
		}
		out[skill] = row.Score
	}
	return out, nil
}

// Upsert 写入一批重算产出的需求分，返回写入行数。
// 单行写失败不中断整批，失败行不计入返回值。
func (s *StoreSource) Upsert(ctx context.Context, rows []Row) (int, error) {
	if s == nil || s.Store == nil {
		return 0, core.NewDomainError(core.ModuleDemand, core.ErrorCodeUnavailable, "demand: store not configured")
	}

	var written int
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			continue
		}
		if err := s.Store.HSet(ctx, marketKey(row.Country, row.City), row.Skill, data); err != nil {
			continue
		}
		written++
	}
	return written, nil
}
