package recall

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/matchkit/core"
)

type staticSource struct {
	name string
	ids  []string
	err  error
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Recall(ctx context.Context, mctx *core.MatchContext) ([]*core.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	items := make([]*core.Item, 0, len(s.ids))
	for _, id := range s.ids {
		items = append(items, core.NewItem(id))
	}
	return items, nil
}

func TestFanout_MergeFirstDedupes(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&staticSource{name: "a", ids: []string{"j1", "j2"}},
			&staticSource{name: "b", ids: []string{"j2", "j3"}},
		},
		Dedup: true,
	}

	items, err := n.Process(context.Background(), &core.MatchContext{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]bool)
	for _, it := range items {
		if seen[it.JobID] {
			t.Errorf("duplicate job %s", it.JobID)
		}
		seen[it.JobID] = true
	}
	if len(items) != 3 {
		t.Errorf("got %d items, want 3", len(items))
	}
}

func TestFanout_FailedSourceDoesNotBreakOthers(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&staticSource{name: "bad", err: errors.New("down")},
			&staticSource{name: "good", ids: []string{"j1"}},
		},
	}

	items, err := n.Process(context.Background(), &core.MatchContext{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].JobID != "j1" {
		t.Errorf("items = %v", items)
	}
}

func TestFanout_Empty(t *testing.T) {
	n := &Fanout{}
	items, err := n.Process(context.Background(), &core.MatchContext{}, nil)
	if err != nil || items != nil {
		t.Errorf("got %v, %v", items, err)
	}
}
