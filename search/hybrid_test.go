package search

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/matchkit/core"
)

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		in   string
		want SortMode
	}{
		{"default", SortDefault},
		{"newest", SortNewest},
		{"jhi_desc", SortJHIDesc},
		{"jhi_asc", SortJHIAsc},
		{"recommended", SortRecommended},
		{"NEWEST", SortNewest},
		{" jhi_desc ", SortJHIDesc},
		{"junk", SortDefault},
		{"", SortDefault},
	}
	for _, tt := range tests {
		if got := ParseSortMode(tt.in); got != tt.want {
			t.Errorf("ParseSortMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func searchItem(jobID, jobText string, score float64, postedAt time.Time) *core.Item {
	it := core.NewItem(jobID)
	it.Score = score
	it.Job = &core.JobFeatures{ID: jobID, Text: jobText, PostedAt: postedAt}
	return it
}

func searchCtx(query, sortMode string) *core.MatchContext {
	return &core.MatchContext{
		UserID: "u1",
		Scene:  "search",
		Params: map[string]any{"query": query, "sort_mode": sortMode},
	}
}

func TestHybrid_QueryRanking(t *testing.T) {
	now := time.Now()
	r := &HybridRanker{Now: func() time.Time { return now }}

	items := []*core.Item{
		searchItem("off-topic", "kuchar do restaurace praha", 0, now.Add(-2*24*time.Hour)),
		searchItem("on-topic", "python developer backend django", 0, now.Add(-2*24*time.Hour)),
	}

	out, err := r.Process(context.Background(), searchCtx("python developer", ""), items)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].JobID != "on-topic" {
		t.Errorf("top = %s, want on-topic", out[0].JobID)
	}
	if out[0].MetaFloat(MetaHybridScore) <= out[1].MetaFloat(MetaHybridScore) {
		t.Error("hybrid scores not ordered")
	}
}

func TestHybrid_BrowseIsRecencyDominated(t *testing.T) {
	now := time.Now()
	r := &HybridRanker{Now: func() time.Time { return now }}

	items := []*core.Item{
		searchItem("stale", "python developer", 0, now.Add(-25*24*time.Hour)),
		searchItem("fresh", "kuchar", 0, now.Add(-1*24*time.Hour)),
	}

	out, err := r.Process(context.Background(), searchCtx("", ""), items)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].JobID != "fresh" {
		t.Errorf("top = %s, want fresh (recency-dominated browsing)", out[0].JobID)
	}
}

func TestHybrid_WeightsComeFromConfig(t *testing.T) {
	now := time.Now()
	items := func() []*core.Item {
		return []*core.Item{
			searchItem("stale-relevant", "python developer backend django", 0, now.Add(-25*24*time.Hour)),
			searchItem("fresh-irrelevant", "kuchar do restaurace", 0, now.Add(-1*24*time.Hour)),
		}
	}

	// 默认权重：语义为主，相关职位在前
	r := &HybridRanker{Now: func() time.Time { return now }}
	out, err := r.Process(context.Background(), searchCtx("python developer", ""), items())
	if err != nil {
		t.Fatal(err)
	}
	if out[0].JobID != "stale-relevant" {
		t.Errorf("default weights top = %s, want stale-relevant", out[0].JobID)
	}

	// 新鲜度拉满的配置要能反转次序
	cfg := core.DefaultRankingConfig()
	cfg.SearchSemanticWeight = 0
	cfg.SearchLexicalWeight = 0
	cfg.SearchRecencyWeight = 1
	r = &HybridRanker{Config: cfg, Now: func() time.Time { return now }}
	out, err = r.Process(context.Background(), searchCtx("python developer", ""), items())
	if err != nil {
		t.Fatal(err)
	}
	if out[0].JobID != "fresh-irrelevant" {
		t.Errorf("recency-only weights top = %s, want fresh-irrelevant", out[0].JobID)
	}
}

func TestHybrid_SortNewest(t *testing.T) {
	now := time.Now()
	r := &HybridRanker{Now: func() time.Time { return now }}

	items := []*core.Item{
		searchItem("older", "python developer", 90, now.Add(-10*24*time.Hour)),
		searchItem("newer", "kuchar", 10, now.Add(-1*24*time.Hour)),
	}

	out, err := r.Process(context.Background(), searchCtx("python", "newest"), items)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].JobID != "newer" {
		t.Errorf("top = %s, want newer", out[0].JobID)
	}
}

func TestHybrid_SortByMatchScore(t *testing.T) {
	now := time.Now()
	r := &HybridRanker{Now: func() time.Time { return now }}
	items := []*core.Item{
		searchItem("low", "python", 20, now),
		searchItem("high", "python", 80, now),
	}

	out, _ := r.Process(context.Background(), searchCtx("python", "jhi_desc"), items)
	if out[0].JobID != "high" {
		t.Errorf("jhi_desc top = %s, want high", out[0].JobID)
	}

	out, _ = r.Process(context.Background(), searchCtx("python", "jhi_asc"), items)
	if out[0].JobID != "low" {
		t.Errorf("jhi_asc top = %s, want low", out[0].JobID)
	}
}

type fakeDelegated struct {
	rows []core.DelegatedSearchRow
	err  error
}

func (f *fakeDelegated) Name() string { return "fake-delegated" }
func (f *fakeDelegated) Close() error { return nil }

func (f *fakeDelegated) Search(ctx context.Context, req *core.DelegatedSearchRequest) (*core.DelegatedSearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &core.DelegatedSearchResult{Rows: f.rows}, nil
}

func TestHybrid_DelegatedPath(t *testing.T) {
	now := time.Now()
	r := &HybridRanker{
		Now: func() time.Time { return now },
		Delegated: &fakeDelegated{rows: []core.DelegatedSearchRow{
			{JobID: "b", HybridScore: 0.9},
			{JobID: "a", HybridScore: 0.4},
		}},
	}

	items := []*core.Item{
		searchItem("a", "python", 0, now),
		searchItem("b", "python", 0, now),
		searchItem("unknown-to-delegated", "python", 0, now),
	}

	mctx := searchCtx("python", "")
	out, err := r.Process(context.Background(), mctx, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].JobID != "b" {
		t.Errorf("out = %v, want delegated order [b a]", out)
	}
	if _, ok := mctx.GetLabel("search_fallback"); ok {
		t.Error("successful delegated path must not record a fallback")
	}
}

func TestHybrid_DelegatedFailureFallsBack(t *testing.T) {
	now := time.Now()
	r := &HybridRanker{
		Now:       func() time.Time { return now },
		Delegated: &fakeDelegated{err: core.NewDomainError(core.ModuleSearch, core.ErrorCodeDelegatedUnavailable, "search: delegated ranker down")},
	}

	items := []*core.Item{searchItem("a", "python developer", 0, now)}
	mctx := searchCtx("python", "")

	out, err := r.Process(context.Background(), mctx, items)
	if err != nil {
		t.Fatalf("fallback must not surface an error, got %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("fallback returned %d items, want 1", len(out))
	}
	if _, ok := mctx.GetLabel("search_fallback"); !ok {
		t.Error("fallback reason must be recorded as a label")
	}
}
