package scoring

import "sync/atomic"

// Weights 是五因子权重。不变式：各权重非负且总和为 1.0，
// 由 normalized() 在任何更新路径上强制保证。
type Weights struct {
	Skill     float64 `json:"skill" yaml:"skill"`
	Demand    float64 `json:"demand" yaml:"demand"`
	Seniority float64 `json:"seniority" yaml:"seniority"`
	Salary    float64 `json:"salary" yaml:"salary"`
	Geo       float64 `json:"geo" yaml:"geo"`
}

// DefaultWeights 是配置源缺席时的文档化默认权重。
func DefaultWeights() Weights {
	return Weights{Skill: 0.45, Demand: 0.15, Seniority: 0.15, Salary: 0.10, Geo: 0.15}
}

// normalized 返回满足不变式的副本：负值归零，总和归一；
// 全零（或全负）输入回退到默认权重。
func (w Weights) normalized() Weights {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}
	w.Skill = clamp(w.Skill)
	w.Demand = clamp(w.Demand)
	w.Seniority = clamp(w.Seniority)
	w.Salary = clamp(w.Salary)
	w.Geo = clamp(w.Geo)

	sum := w.Skill + w.Demand + w.Seniority + w.Salary + w.Geo
	if sum == 0 {
		return DefaultWeights()
	}
	w.Skill /= sum
	w.Demand /= sum
	w.Seniority /= sum
	w.Salary /= sum
	w.Geo /= sum
	return w
}

// FromMap 从权重源返回的 map 构建 Weights：以默认权重为底，
// 只覆盖出现的键，垃圾值被 normalized() 吸收。
func FromMap(m map[string]float64) Weights {
	w := DefaultWeights()
	if m == nil {
		return w
	}
	if v, ok := m["skill"]; ok {
		w.Skill = v
	}
	if v, ok := m["demand"]; ok {
		w.Demand = v
	}
	if v, ok := m["seniority"]; ok {
		w.Seniority = v
	}
	if v, ok := m["salary"]; ok {
		w.Salary = v
	}
	if v, ok := m["geo"]; ok {
		w.Geo = v
	}
	return w.normalized()
}

// Map 返回 map 形式（用于透传到 MatchContext.Weights）。
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		"skill":     w.Skill,
		"demand":    w.Demand,
		"seniority": w.Seniority,
		"salary":    w.Salary,
		"geo":       w.Geo,
	}
}

// Holder 持有进程级权重并支持运行时替换。
// 读路径是无锁的原子快照：每个请求 Load 一次、全程使用同一份；
// Configure 构建新的归一化副本后整体原子换入，
// 读方永远不会看到写了一半的权重。
type Holder struct {
	ptr atomic.Pointer[Weights]
}

// NewHolder 以默认权重初始化。
func NewHolder() *Holder {
	h := &Holder{}
	w := DefaultWeights()
	h.ptr.Store(&w)
	return h
}

// Load 返回当前权重快照。
func (h *Holder) Load() Weights {
	return *h.ptr.Load()
}

// Configure 用部分覆盖更新权重并返回生效后的快照。
// 输入缺失或包含垃圾值时落在默认权重上，从不失败。
func (h *Holder) Configure(m map[string]float64) Weights {
	w := FromMap(m)
	h.ptr.Store(&w)
	return w
}
