package config

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/matchkit/core"
)

// fileDocument 是配置文件的顶层结构。
//
// 示例（YAML）：
//
//	scoring_weights:
//	  skill: 0.45
//	  demand: 0.15
//	ranking:
//	  matching:
//	    recommendations:
//	      shortlist_size: 200
//	      min_score: 30
//	      cache_ttl_minutes: 45
type fileDocument struct {
	ScoringWeights map[string]float64               `yaml:"scoring_weights"`
	Ranking        map[string]map[string]rankingDoc `yaml:"ranking"`
}

// rankingDoc 是 RankingConfig 的文件表示；指针字段区分"缺席"与"显式 0"。
type rankingDoc struct {
	JobPoolSize       *int     `yaml:"job_pool_size"`
	JobPoolDays       *int     `yaml:"job_pool_days"`
	ShortlistSize     *int     `yaml:"shortlist_size"`
	MinScore          *float64 `yaml:"min_score"`
	CacheTTLMinutes   *int     `yaml:"cache_ttl_minutes"`
	MaxPerCompany     *int     `yaml:"max_per_company"`
	MinNewJobShare    *float64 `yaml:"min_new_job_share"`
	NewJobWindowDays  *int     `yaml:"new_job_window_days"`
	MinLongTailShare  *float64 `yaml:"min_long_tail_share"`
	LongTailThreshold *int     `yaml:"long_tail_threshold"`
	ExplorationRate   *float64 `yaml:"exploration_rate"`

	SearchSemanticWeight *float64 `yaml:"search_semantic_weight"`
	SearchLexicalWeight  *float64 `yaml:"search_lexical_weight"`
	SearchRecencyWeight  *float64 `yaml:"search_recency_weight"`
	BrowseFitWeight      *float64 `yaml:"browse_fit_weight"`
	BrowseRecencyWeight  *float64 `yaml:"browse_recency_weight"`

	Weights map[string]float64 `yaml:"weights"`
}

// FileSource 是基于 YAML 文件的配置源，实现 core.ConfigSource。
//
// 文件一次性加载（Reload 可刷新）；缺失的配置段按接口约定
// 返回 CONFIG_UNAVAILABLE，调用方用默认值继续。
type FileSource struct {
	path string

	mu  sync.RWMutex
	doc *fileDocument
}

// NewFileSource 加载配置文件并返回配置源。文件不存在时返回错误，
// 调用方可以选择降级为纯默认值运行。
func NewFileSource(path string) (*FileSource, error) {
	s := &FileSource{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload 重新读取配置文件。
func (s *FileSource) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	s.mu.Lock()
	s.doc = &doc
	s.mu.Unlock()
	return nil
}

// ScoringWeights 实现 core.ConfigSource。
func (s *FileSource) ScoringWeights(ctx context.Context) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil || len(s.doc.ScoringWeights) == 0 {
		return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeConfigUnavailable, "scoring_weights not configured")
	}
	out := make(map[string]float64, len(s.doc.ScoringWeights))
	for k, v := range s.doc.ScoringWeights {
		out[k] = v
	}
	return out, nil
}

// RankingConfig 实现 core.ConfigSource：返回默认配置叠加文件覆盖。
// (subsystem, feature) 没有配置段时返回 CONFIG_UNAVAILABLE。
func (s *FileSource) RankingConfig(ctx context.Context, subsystem, feature string) (*core.RankingConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := core.DefaultRankingConfig()
	if s.doc == nil {
		return cfg, core.NewDomainError(core.ModuleConfig, core.ErrorCodeConfigUnavailable, "config not loaded")
	}
	sub, ok := s.doc.Ranking[subsystem]
	if !ok {
		return cfg, core.NewDomainError(core.ModuleConfig, core.ErrorCodeConfigUnavailable,
			fmt.Sprintf("no ranking config for subsystem %q", subsystem))
	}
	doc, ok := sub[feature]
	if !ok {
		return cfg, core.NewDomainError(core.ModuleConfig, core.ErrorCodeConfigUnavailable,
			fmt.Sprintf("no ranking config for %s/%s", subsystem, feature))
	}

	doc.apply(cfg)
	return cfg, nil
}

// apply 把文件里出现的字段覆盖到默认配置上
func (d *rankingDoc) apply(cfg *core.RankingConfig) {
	if d.JobPoolSize != nil {
		cfg.JobPoolSize = *d.JobPoolSize
	}
	if d.JobPoolDays != nil {
		cfg.JobPoolDays = *d.JobPoolDays
	}
	if d.ShortlistSize != nil {
		cfg.ShortlistSize = *d.ShortlistSize
	}
	if d.MinScore != nil {
		cfg.MinScore = *d.MinScore
	}
	if d.CacheTTLMinutes != nil {
		cfg.CacheTTL = time.Duration(*d.CacheTTLMinutes) * time.Minute
	}
	if d.MaxPerCompany != nil {
		cfg.MaxPerCompany = *d.MaxPerCompany
	}
	if d.MinNewJobShare != nil {
		cfg.MinNewJobShare = *d.MinNewJobShare
	}
	if d.NewJobWindowDays != nil {
		cfg.NewJobWindowDays = *d.NewJobWindowDays
	}
	if d.MinLongTailShare != nil {
		cfg.MinLongTailShare = *d.MinLongTailShare
	}
	if d.LongTailThreshold != nil {
		cfg.LongTailThreshold = *d.LongTailThreshold
	}
	if d.ExplorationRate != nil {
		cfg.ExplorationRate = *d.ExplorationRate
	}
	if d.SearchSemanticWeight != nil {
		cfg.SearchSemanticWeight = *d.SearchSemanticWeight
	}
	if d.SearchLexicalWeight != nil {
		cfg.SearchLexicalWeight = *d.SearchLexicalWeight
	}
	if d.SearchRecencyWeight != nil {
		cfg.SearchRecencyWeight = *d.SearchRecencyWeight
	}
	if d.BrowseFitWeight != nil {
		cfg.BrowseFitWeight = *d.BrowseFitWeight
	}
	if d.BrowseRecencyWeight != nil {
		cfg.BrowseRecencyWeight = *d.BrowseRecencyWeight
	}
	if len(d.Weights) > 0 {
		cfg.Weights = make(map[string]float64, len(d.Weights))
		for k, v := range d.Weights {
			cfg.Weights[k] = v
		}
	}
}

var _ core.ConfigSource = (*FileSource)(nil)
