package filter

import (
	"context"
	"sync"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pkg/dsl"
)

// RuleFilter 是基于 CEL 表达式的规则过滤器。
// 表达式在首次求值时编译一次，之后对每个 item 复用编译结果。
// 表达式对单个 item 求值，结果为 true 时该职位被过滤。
//
// 典型规则：
//   - `item.company_id == mctx.params.own_company` → 不给候选人推自己公司的职位
//   - `item.country != "cz" && item.country != "sk"` → 限定市场
type RuleFilter struct {
	// Expr 是 CEL 表达式，空表达式不过滤任何职位
	Expr string

	once sync.Once
	prog *dsl.Program
}

func NewRuleFilter(expr string) *RuleFilter {
	return &RuleFilter{Expr: expr}
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

// program 惰性编译表达式；编译失败时返回 nil，之后不再重试。
func (f *RuleFilter) program() *dsl.Program {
	f.once.Do(func() {
		p, err := dsl.Compile(f.Expr)
		if err != nil {
			return
		}
		f.prog = p
	})
	return f.prog
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	mctx *core.MatchContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" || item == nil || mctx == nil {
		return false, nil
	}

	prog := f.program()
	if prog == nil {
		// 规则坏掉时保守放行：宁可多推一条也不清空结果
		return false, nil
	}
	ok, err := prog.Evaluate(item, mctx)
	if err != nil {
		return false, nil
	}
	return ok, nil
}
