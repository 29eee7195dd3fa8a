package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/matchkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量和函数
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// 定义变量类型
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("mctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Program 是编译好的规则表达式，编译一次后可在任意多个 item 上复用求值。
// cel.Program 线程安全，Program 可被并发使用。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.recall_source == "recall.shortlist"
//   - 数值：item.score > 40.0 / item.action_probability >= 0.5
//   - 逻辑：item.is_new_job && item.score > 30.0
//   - 存在性：label.search_fallback != null
//   - 包含：label.recall_source.contains("shortlist")
//
// 示例：
//   - `item.company_id == mctx.params.own_company` → 过滤候选人自己公司的职位
//   - `item.is_long_tail_company && item.score < 20.0` → 低分长尾职位
type Program struct {
	prg cel.Program
}

// Compile 编译一条规则表达式。过滤器应在构造时编译一次并复用结果，
// 而不是对每个 item 重新编译。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil || env == nil {
		return nil, fmt.Errorf("cel env unavailable: %v", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}
	return &Program{prg: prg}, nil
}

// Evaluate 对单个 item 执行表达式，返回布尔结果。
func (p *Program) Evaluate(item *core.Item, mctx *core.MatchContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, mctx))
	if err != nil {
		// 对于不存在的 key，CEL 会返回错误
		// 用户应该使用 label.key != null 来检查存在性，而不是直接访问
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// Eval 是一次性的规则求值入口：每次调用都重新编译表达式。
// 适合交互式调试或只求值一次的场景；热路径请用 Compile + Program。
type Eval struct {
	item *core.Item
	mctx *core.MatchContext
}

// NewEval 创建一个新的 DSL 解释器。
func NewEval(item *core.Item, mctx *core.MatchContext) *Eval {
	return &Eval{item: item, mctx: mctx}
}

// Evaluate 解析并执行 DSL 表达式，返回布尔结果。
// 空表达式视为恒真。
//
// 注意：has(label.key) 可以用 label.key != null 替代
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	prg, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return prg.Evaluate(e.item, e.mctx)
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, mctx *core.MatchContext) map[string]interface{} {
	// 构建 label map
	labels := make(map[string]interface{})
	for k, v := range item.Labels {
		labels[k] = map[string]interface{}{
			"value":  v.Value,
			"source": v.Source,
		}
	}

	// 构建 item map
	itemMap := map[string]interface{}{
		"job_id":               item.JobID,
		"score":                item.Score,
		"action_probability":   item.ActionProbability,
		"is_new_job":           item.IsNewJob,
		"is_long_tail_company": item.IsLongTailCompany,
		"meta":                 item.Meta,
		"labels":               labels,
	}
	if item.Job != nil {
		itemMap["company_id"] = item.Job.CompanyID
		itemMap["country"] = item.Job.Country
		itemMap["city"] = item.Job.City
	}

	// 构建 mctx map
	mctxMap := map[string]interface{}{
		"user_id":    mctx.UserID,
		"request_id": mctx.RequestID,
		"scene":      mctx.Scene,
		"params":     mctx.Params,
	}

	// 提供 label 作为顶层访问，label.recall_source 直接返回 value。
	// 注意：CEL 访问不存在的 key 会报错，所以用户应使用 label.key != null
	// 来检查存在性。
	labelAccessor := make(map[string]interface{})
	for k, v := range labels {
		labelAccessor[k] = v.(map[string]interface{})["value"]
	}

	return map[string]interface{}{
		"item":  itemMap,
		"label": labelAccessor,
		"mctx":  mctxMap,
	}
}
