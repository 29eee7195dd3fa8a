package rerank

import (
	"context"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个职位。
// 通常在排序（Rank）节点之后使用，用于限制进入重排的结果数量。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.ScoreNode{...},             // 排序
//	        &rerank.TopNNode{N: 100},         // 截取 Top 100
//	        &rerank.GuardrailSelector{...},   // 多样性护栏
//	    },
//	}
type TopNNode struct {
	// N 要保留的职位数量（Top N）
	// 如果 N <= 0，则返回所有职位（不截断）
	// 如果 N > len(items)，则返回所有职位
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.MatchContext,
	items []*core.Item,
) ([]*core.Item, error) {
	// 如果 N <= 0，不截断，返回所有职位
	if n.N <= 0 {
		return items, nil
	}

	// 如果职位数量小于等于 N，直接返回
	if len(items) <= n.N {
		return items, nil
	}

	// 截取前 N 个职位
	return items[:n.N], nil
}
