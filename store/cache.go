package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rushteam/matchkit/core"
)

// CachedMatch 是推荐缓存里的一条 (候选人, 职位) 打分结果。
// 带上模型与算法版本，读出时版本失配视为过期。
type CachedMatch struct {
	JobID             string                `json:"job_id"`
	Score             float64               `json:"score"`
	ActionProbability float64               `json:"action_probability"`
	Reasons           []string              `json:"reasons,omitempty"`
	Breakdown         *core.ScoreBreakdown  `json:"breakdown,omitempty"`
	ModelVersion      string                `json:"model_version"`
	ScoringVersion    string                `json:"scoring_version"`
	ComputedAt        time.Time             `json:"computed_at"`
}

// RecommendationCache 把打分结果按 (候选人, 职位) 维度缓存到 Store。
// key 形如 rec:{user}:{job}；TTL 到期或 ScoringVersion 变更后失效重算。
type RecommendationCache struct {
	Store core.Store

	// TTL 为缓存秒数，<=0 时用 core.DefaultRankingConfig 的值
	TTL int
}

func NewRecommendationCache(s core.Store, ttl time.Duration) *RecommendationCache {
	return &RecommendationCache{Store: s, TTL: int(ttl / time.Second)}
}

func (c *RecommendationCache) key(userID, jobID string) string {
	return "rec:" + userID + ":" + jobID
}

func (c *RecommendationCache) listKey(userID string) string {
	return "rec:" + userID + ":list"
}

func (c *RecommendationCache) ttlSeconds() int {
	if c.TTL > 0 {
		return c.TTL
	}
	return int(core.DefaultRankingConfig().CacheTTL / time.Second)
}

// GetBatch 返回 user 对 jobIDs 中已缓存且版本匹配的结果，缺失的直接缺席。
// 存储读失败按全部未命中处理，不向上冒错。
func (c *RecommendationCache) GetBatch(ctx context.Context, userID string, jobIDs []string, scoringVersion string) map[string]*CachedMatch {
	out := make(map[string]*CachedMatch)
	if c == nil || c.Store == nil || len(jobIDs) == 0 {
		return out
	}

	keys := make([]string, 0, len(jobIDs))
	byKey := make(map[string]string, len(jobIDs))
	for _, jobID := range jobIDs {
		k := c.key(userID, jobID)
		keys = append(keys, k)
		byKey[k] = jobID
	}

	values, err := c.Store.BatchGet(ctx, keys)
	if err != nil {
		return out
	}
	for k, raw := range values {
		var m CachedMatch
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		if scoringVersion != "" && m.ScoringVersion != scoringVersion {
			continue
		}
		out[byKey[k]] = &m
	}
	return out
}

// GetRanked 读取 user 的完整已排序缓存列表（命中则整条流水线可跳过）。
// 列表键缺失、任一成员过期或版本失配都按整体未命中处理。
func (c *RecommendationCache) GetRanked(ctx context.Context, userID, scoringVersion string) ([]*CachedMatch, bool) {
	if c == nil || c.Store == nil {
		return nil, false
	}
	raw, err := c.Store.Get(ctx, c.listKey(userID))
	if err != nil {
		return nil, false
	}
	var jobIDs []string
	if err := json.Unmarshal(raw, &jobIDs); err != nil || len(jobIDs) == 0 {
		return nil, false
	}
	byJob := c.GetBatch(ctx, userID, jobIDs, scoringVersion)
	out := make([]*CachedMatch, 0, len(jobIDs))
	for _, jobID := range jobIDs {
		m, ok := byJob[jobID]
		if !ok {
			return nil, false
		}
		out = append(out, m)
	}
	return out, true
}

// PutRanked 写入 user 的已排序列表：成对条目加一个有序 job id 列表键。
func (c *RecommendationCache) PutRanked(ctx context.Context, userID string, items []*core.Item) error {
	if c == nil || c.Store == nil || len(items) == 0 {
		return nil
	}
	if err := c.PutBatch(ctx, userID, items); err != nil {
		return err
	}
	jobIDs := make([]string, 0, len(items))
	for _, it := range items {
		if it != nil && it.JobID != "" {
			jobIDs = append(jobIDs, it.JobID)
		}
	}
	raw, err := json.Marshal(jobIDs)
	if err != nil {
		return err
	}
	return c.Store.Set(ctx, c.listKey(userID), raw, c.ttlSeconds())
}

// PutBatch 写入一批打分结果。写失败只丢缓存，不影响本次请求的返回。
func (c *RecommendationCache) PutBatch(ctx context.Context, userID string, items []*core.Item) error {
	if c == nil || c.Store == nil || len(items) == 0 {
		return nil
	}

	kvs := make(map[string][]byte, len(items))
	now := time.Now()
	for _, it := range items {
		if it == nil || it.JobID == "" {
			continue
		}
		raw, err := json.Marshal(&CachedMatch{
			JobID:             it.JobID,
			Score:             it.Score,
			ActionProbability: it.ActionProbability,
			Reasons:           it.Reasons,
			Breakdown:         it.Breakdown,
			ModelVersion:      it.ModelVersion,
			ScoringVersion:    it.ScoringVersion,
			ComputedAt:        now,
		})
		if err != nil {
			continue
		}
		kvs[c.key(userID, it.JobID)] = raw
	}
	return c.Store.BatchSet(ctx, kvs, c.ttlSeconds())
}

// Invalidate 删除 user 对指定职位的缓存（画像更新后调用），连同列表键。
func (c *RecommendationCache) Invalidate(ctx context.Context, userID string, jobIDs []string) error {
	if c == nil || c.Store == nil {
		return nil
	}
	if err := c.Store.Delete(ctx, c.listKey(userID)); err != nil {
		return err
	}
	for _, jobID := range jobIDs {
		if err := c.Store.Delete(ctx, c.key(userID, jobID)); err != nil {
			return err
		}
	}
	return nil
}
