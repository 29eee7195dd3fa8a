package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rushteam/matchkit/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matchkit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileSource_ScoringWeights(t *testing.T) {
	path := writeConfig(t, `
scoring_weights:
  skill: 0.5
  demand: 0.2
`)
	src, err := NewFileSource(path)
	if err != nil {
		t.Fatal(err)
	}

	weights, err := src.ScoringWeights(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if weights["skill"] != 0.5 || weights["demand"] != 0.2 {
		t.Errorf("weights = %v", weights)
	}
}

func TestFileSource_ScoringWeightsMissing(t *testing.T) {
	src, err := NewFileSource(writeConfig(t, "ranking: {}\n"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = src.ScoringWeights(context.Background())
	if !core.IsConfigUnavailable(err) {
		t.Errorf("err = %v, want CONFIG_UNAVAILABLE", err)
	}
}

func TestFileSource_RankingConfigOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
ranking:
  matching:
    recommendations:
      shortlist_size: 200
      min_score: 30
      cache_ttl_minutes: 45
      search_semantic_weight: 0.7
`)
	src, err := NewFileSource(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := src.RankingConfig(context.Background(), "matching", "recommendations")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ShortlistSize != 200 || cfg.MinScore != 30 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.CacheTTL != 45*time.Minute {
		t.Errorf("CacheTTL = %v, want 45m", cfg.CacheTTL)
	}
	if cfg.SearchSemanticWeight != 0.7 {
		t.Errorf("SearchSemanticWeight = %v, want 0.7", cfg.SearchSemanticWeight)
	}
	// 文件未提及的字段保持默认
	def := core.DefaultRankingConfig()
	if cfg.JobPoolSize != def.JobPoolSize || cfg.MaxPerCompany != def.MaxPerCompany {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.SearchLexicalWeight != def.SearchLexicalWeight || cfg.BrowseRecencyWeight != def.BrowseRecencyWeight {
		t.Errorf("search weight defaults lost: %+v", cfg)
	}
}

func TestFileSource_RankingConfigMissingSection(t *testing.T) {
	src, err := NewFileSource(writeConfig(t, "scoring_weights: {skill: 1}\n"))
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := src.RankingConfig(context.Background(), "matching", "search")
	if !core.IsConfigUnavailable(err) {
		t.Errorf("err = %v, want CONFIG_UNAVAILABLE", err)
	}
	// 即使报错也返回可用的默认配置
	if cfg == nil || cfg.ShortlistSize != core.DefaultRankingConfig().ShortlistSize {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestStaticGate(t *testing.T) {
	gate := NewStaticGate(map[string]bool{"matching_enabled": false})
	ctx := context.Background()

	if gate.IsEnabled(ctx, "matching_enabled", "u1", true) {
		t.Error("explicit false must win over default")
	}
	if !gate.IsEnabled(ctx, "unknown_flag", "u1", true) {
		t.Error("unknown flag must fall back to default")
	}

	gate.Set("matching_enabled", true)
	if !gate.IsEnabled(ctx, "matching_enabled", "u1", false) {
		t.Error("Set must flip the flag")
	}
}
