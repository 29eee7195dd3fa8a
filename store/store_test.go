package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/matchkit/core"
)

func TestMemoryStore_GetSet(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("Get missing: err = %v, want store not-found", err)
	}

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, err)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("Get after delete: err = %v, want store not-found", err)
	}
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), 1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("fresh key should be readable: %v", err)
	}

	time.Sleep(1100 * time.Millisecond)
	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("expired key: err = %v, want store not-found", err)
	}
}

func TestMemoryStore_Batch(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.BatchSet(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}); err != nil {
		t.Fatal(err)
	}
	got, err := s.BatchGet(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet = %v", got)
	}
}

func TestMemoryStore_HashAndZSet(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.HSet(ctx, "demand:cz:praha", "python", []byte("0.91")); err != nil {
		t.Fatal(err)
	}
	v, err := s.HGet(ctx, "demand:cz:praha", "python")
	if err != nil || string(v) != "0.91" {
		t.Errorf("HGet = %q, %v", v, err)
	}
	all, err := s.HGetAll(ctx, "demand:cz:praha")
	if err != nil || len(all) != 1 {
		t.Errorf("HGetAll = %v, %v", all, err)
	}

	for member, score := range map[string]float64{"j1": 3, "j2": 1, "j3": 2} {
		if err := s.ZAdd(ctx, "exposed:u1", score, member); err != nil {
			t.Fatal(err)
		}
	}
	members, err := s.ZRange(ctx, "exposed:u1", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 3 || members[0] != "j1" || members[2] != "j2" {
		t.Errorf("ZRange = %v, want descending by score", members)
	}
	if sc, err := s.ZScore(ctx, "exposed:u1", "j3"); err != nil || sc != 2 {
		t.Errorf("ZScore = %v, %v", sc, err)
	}
}

func TestRecommendationCache_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()
	cache := NewRecommendationCache(s, time.Hour)

	items := []*core.Item{
		{JobID: "j1", Score: 62.5, ActionProbability: 0.61, Reasons: []string{"skills match the job requirements"}, ScoringVersion: "v2"},
		{JobID: "j2", Score: 31.0, ActionProbability: 0.35, ScoringVersion: "v2"},
	}
	if err := cache.PutBatch(ctx, "u1", items); err != nil {
		t.Fatal(err)
	}

	got := cache.GetBatch(ctx, "u1", []string{"j1", "j2", "j3"}, "v2")
	if len(got) != 2 {
		t.Fatalf("GetBatch returned %d entries, want 2", len(got))
	}
	if got["j1"].Score != 62.5 || got["j1"].Reasons[0] != "skills match the job requirements" {
		t.Errorf("j1 entry = %+v", got["j1"])
	}

	// 另一个用户的命名空间互不干扰
	if other := cache.GetBatch(ctx, "u2", []string{"j1"}, "v2"); len(other) != 0 {
		t.Errorf("u2 should have no cached entries, got %v", other)
	}
}

func TestRecommendationCache_VersionMismatchIsMiss(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()
	cache := NewRecommendationCache(s, time.Hour)

	if err := cache.PutBatch(ctx, "u1", []*core.Item{{JobID: "j1", Score: 50, ScoringVersion: "v1"}}); err != nil {
		t.Fatal(err)
	}
	if got := cache.GetBatch(ctx, "u1", []string{"j1"}, "v2"); len(got) != 0 {
		t.Errorf("stale scoring version should miss, got %v", got)
	}
}

func TestRecommendationCache_Invalidate(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()
	cache := NewRecommendationCache(s, time.Hour)

	if err := cache.PutBatch(ctx, "u1", []*core.Item{{JobID: "j1", Score: 50, ScoringVersion: "v2"}}); err != nil {
		t.Fatal(err)
	}
	if err := cache.Invalidate(ctx, "u1", []string{"j1"}); err != nil {
		t.Fatal(err)
	}
	if got := cache.GetBatch(ctx, "u1", []string{"j1"}, "v2"); len(got) != 0 {
		t.Errorf("invalidated entry should miss, got %v", got)
	}
}

func TestRecommendationCache_RankedList(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()
	cache := NewRecommendationCache(s, time.Hour)

	items := []*core.Item{
		{JobID: "j2", Score: 70, ScoringVersion: "v2"},
		{JobID: "j1", Score: 65, ScoringVersion: "v2"},
		{JobID: "j3", Score: 40, ScoringVersion: "v2"},
	}
	if err := cache.PutRanked(ctx, "u1", items); err != nil {
		t.Fatal(err)
	}

	got, ok := cache.GetRanked(ctx, "u1", "v2")
	if !ok {
		t.Fatal("GetRanked miss after PutRanked")
	}
	if len(got) != 3 || got[0].JobID != "j2" || got[1].JobID != "j1" || got[2].JobID != "j3" {
		t.Fatalf("ranked order not preserved: %+v", got)
	}

	if _, ok := cache.GetRanked(ctx, "u2", "v2"); ok {
		t.Error("u2 should have no ranked list")
	}
	if _, ok := cache.GetRanked(ctx, "u1", "v3"); ok {
		t.Error("scoring version mismatch should be a whole-list miss")
	}
}

func TestRecommendationCache_RankedListMissingMemberIsMiss(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()
	cache := NewRecommendationCache(s, time.Hour)

	items := []*core.Item{
		{JobID: "j1", Score: 65, ScoringVersion: "v2"},
		{JobID: "j2", Score: 40, ScoringVersion: "v2"},
	}
	if err := cache.PutRanked(ctx, "u1", items); err != nil {
		t.Fatal(err)
	}

	// 单条成员被单独失效后，整条列表按未命中处理
	if err := s.Delete(ctx, "rec:u1:j2"); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.GetRanked(ctx, "u1", "v2"); ok {
		t.Error("missing member must invalidate the whole ranked list")
	}
}

func TestRecommendationCache_InvalidateDropsRankedList(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()
	cache := NewRecommendationCache(s, time.Hour)

	if err := cache.PutRanked(ctx, "u1", []*core.Item{{JobID: "j1", Score: 50, ScoringVersion: "v2"}}); err != nil {
		t.Fatal(err)
	}
	if err := cache.Invalidate(ctx, "u1", []string{"j1"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.GetRanked(ctx, "u1", "v2"); ok {
		t.Error("Invalidate must drop the ranked list")
	}
}

func TestEmbeddings_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()
	emb := NewEmbeddings(s)

	if _, err := emb.GetEmbedding(ctx, "c1"); !core.IsStoreNotFound(err) {
		t.Errorf("missing embedding: err = %v, want store not-found", err)
	}

	want := &core.Embedding{
		OwnerID:      "c1",
		Vector:       []float64{0.1, 0.2, 0.3},
		ModelName:    "hashed-bow",
		ModelVersion: "v2",
		UpdatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if err := emb.UpsertEmbedding(ctx, want); err != nil {
		t.Fatal(err)
	}

	got, err := emb.GetEmbedding(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if got.OwnerID != want.OwnerID || got.ModelVersion != want.ModelVersion || len(got.Vector) != 3 {
		t.Errorf("got %+v", got)
	}

	if err := emb.UpsertEmbedding(ctx, nil); err == nil {
		t.Error("nil embedding should be rejected")
	}

	batch, err := emb.BatchGetEmbeddings(ctx, []string{"c1", "c2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 1 || batch["c1"] == nil {
		t.Errorf("BatchGetEmbeddings = %v", batch)
	}
}
