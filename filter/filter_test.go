package filter

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/store"
)

func TestFilterNode_DropsMatchedItems(t *testing.T) {
	n := &FilterNode{Filters: []Filter{
		NewBlacklistFilter([]string{"banned"}, nil, ""),
	}}

	items := []*core.Item{core.NewItem("ok"), core.NewItem("banned")}
	out, err := n.Process(context.Background(), &core.MatchContext{UserID: "u1"}, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].JobID != "ok" {
		t.Errorf("out = %v", out)
	}
}

func TestExposedFilter_RecentWindow(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	now := time.Now().Unix()
	raw, _ := json.Marshal([]map[string]any{
		{"job_id": "seen-today", "timestamp": now - 3600},
		{"job_id": "seen-long-ago", "timestamp": now - 90*24*3600},
	})
	if err := s.Set(ctx, "user:exposed:u1", raw); err != nil {
		t.Fatal(err)
	}

	f := NewExposedFilter(NewStoreAdapter(s), "user:exposed", 7*24*3600, 0)
	mctx := &core.MatchContext{UserID: "u1"}

	if got, _ := f.ShouldFilter(ctx, mctx, core.NewItem("seen-today")); !got {
		t.Error("recently exposed job should be filtered")
	}
	if got, _ := f.ShouldFilter(ctx, mctx, core.NewItem("seen-long-ago")); got {
		t.Error("exposure outside the window should not filter")
	}
	if got, _ := f.ShouldFilter(ctx, mctx, core.NewItem("never-seen")); got {
		t.Error("unseen job should not be filtered")
	}
}

func TestExposedFilter_MissingHistoryKeepsAll(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()

	f := NewExposedFilter(NewStoreAdapter(s), "user:exposed", 3600, 0)
	got, err := f.ShouldFilter(context.Background(), &core.MatchContext{UserID: "u1"}, core.NewItem("j1"))
	if err != nil || got {
		t.Errorf("got %v, %v; want false, nil", got, err)
	}
}

func TestUserBlockFilter(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	raw, _ := json.Marshal([]string{"applied-1", "dismissed-2"})
	if err := s.Set(ctx, "user:block:u1", raw); err != nil {
		t.Fatal(err)
	}

	f := NewUserBlockFilter(NewStoreAdapter(s), "user:block")
	mctx := &core.MatchContext{UserID: "u1"}

	if got, _ := f.ShouldFilter(ctx, mctx, core.NewItem("applied-1")); !got {
		t.Error("applied job should be filtered")
	}
	if got, _ := f.ShouldFilter(ctx, mctx, core.NewItem("other")); got {
		t.Error("unrelated job should pass")
	}
}

func TestRuleFilter(t *testing.T) {
	mctx := &core.MatchContext{
		UserID: "u1",
		Params: map[string]any{"own_company": "acme"},
	}

	ownJob := core.NewItem("j1")
	ownJob.Job = &core.JobFeatures{CompanyID: "acme"}
	otherJob := core.NewItem("j2")
	otherJob.Job = &core.JobFeatures{CompanyID: "globex"}

	f := NewRuleFilter(`item.company_id == mctx.params.own_company`)

	if got, _ := f.ShouldFilter(context.Background(), mctx, ownJob); !got {
		t.Error("own-company job should be filtered")
	}
	if got, _ := f.ShouldFilter(context.Background(), mctx, otherJob); got {
		t.Error("other-company job should pass")
	}
}

func TestRuleFilter_CompilesOnce(t *testing.T) {
	f := NewRuleFilter(`item.score > 50.0`)
	mctx := &core.MatchContext{}

	hi := core.NewItem("hi")
	hi.Score = 80
	lo := core.NewItem("lo")
	lo.Score = 10

	if got, _ := f.ShouldFilter(context.Background(), mctx, hi); !got {
		t.Error("high-score item should match the rule")
	}
	first := f.prog
	if first == nil {
		t.Fatal("expression was not compiled")
	}
	if got, _ := f.ShouldFilter(context.Background(), mctx, lo); got {
		t.Error("low-score item should pass")
	}
	if f.prog != first {
		t.Error("compiled program should be reused across items")
	}
}

func TestRuleFilter_BadExpressionKeepsItem(t *testing.T) {
	f := NewRuleFilter(`this is not cel`)
	it := core.NewItem("j1")
	got, err := f.ShouldFilter(context.Background(), &core.MatchContext{}, it)
	if err != nil || got {
		t.Errorf("broken rule must not drop items: got %v, %v", got, err)
	}
}

func TestRuleFilter_EmptyExpression(t *testing.T) {
	f := NewRuleFilter("")
	got, err := f.ShouldFilter(context.Background(), &core.MatchContext{}, core.NewItem("j1"))
	if err != nil || got {
		t.Errorf("empty rule must not filter: got %v, %v", got, err)
	}
}
