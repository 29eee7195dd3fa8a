package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/matchkit/core"
)

type fakeNode struct {
	name string
	kind Kind
	fn   func(items []*core.Item) ([]*core.Item, error)
}

func (n *fakeNode) Name() string { return n.name }
func (n *fakeNode) Kind() Kind   { return n.kind }
func (n *fakeNode) Process(ctx context.Context, mctx *core.MatchContext, items []*core.Item) ([]*core.Item, error) {
	return n.fn(items)
}

func TestPipeline_RunChainsNodes(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&fakeNode{name: "gen", kind: KindRecall, fn: func(items []*core.Item) ([]*core.Item, error) {
			return []*core.Item{core.NewItem("j1"), core.NewItem("j2"), core.NewItem("j3")}, nil
		}},
		&fakeNode{name: "drop-first", kind: KindFilter, fn: func(items []*core.Item) ([]*core.Item, error) {
			return items[1:], nil
		}},
	}}

	out, err := p.Run(context.Background(), &core.MatchContext{UserID: "u1"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].JobID != "j2" {
		t.Errorf("out = %v", out)
	}
}

func TestPipeline_RunStopsOnError(t *testing.T) {
	wantErr := errors.New("boom")
	called := false
	p := &Pipeline{Nodes: []Node{
		&fakeNode{name: "fail", kind: KindRecall, fn: func(items []*core.Item) ([]*core.Item, error) {
			return nil, wantErr
		}},
		&fakeNode{name: "after", kind: KindRank, fn: func(items []*core.Item) ([]*core.Item, error) {
			called = true
			return items, nil
		}},
	}}

	if _, err := p.Run(context.Background(), &core.MatchContext{}, nil); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if called {
		t.Error("nodes after a failure must not run")
	}
}

func TestNodeFactory(t *testing.T) {
	f := NewNodeFactory()
	f.Register("noop", func(cfg map[string]interface{}) (Node, error) {
		return &fakeNode{name: "noop", kind: KindPostProcess, fn: func(items []*core.Item) ([]*core.Item, error) {
			return items, nil
		}}, nil
	})

	if _, err := f.Build("noop", nil); err != nil {
		t.Errorf("Build noop: %v", err)
	}
	if _, err := f.Build("unknown", nil); err == nil {
		t.Error("Build unknown should fail")
	}
}
