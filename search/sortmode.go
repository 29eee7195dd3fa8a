// Package search 实现搜索排序：进程内 hybrid 打分（词法+语义+新鲜度）
// 与可选的委托多信号检索，委托失败时透明回退，调用方永远拿到结果。
package search

import "strings"

// SortMode 是搜索排序方式的封闭枚举。
// 字符串入口统一走 ParseSortMode，未识别的值归一化为 SortDefault。
type SortMode string

const (
	SortDefault     SortMode = "default"     // 相关度（hybrid 分）
	SortNewest      SortMode = "newest"      // 发布时间倒序
	SortJHIDesc     SortMode = "jhi_desc"    // 匹配分降序
	SortJHIAsc      SortMode = "jhi_asc"     // 匹配分升序
	SortRecommended SortMode = "recommended" // 相关度 + 多样性护栏
)

// ParseSortMode 把任意字符串归一化为 SortMode，未识别 → SortDefault。
func ParseSortMode(s string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortNewest:
		return SortNewest
	case SortJHIDesc:
		return SortJHIDesc
	case SortJHIAsc:
		return SortJHIAsc
	case SortRecommended:
		return SortRecommended
	case SortDefault:
		return SortDefault
	default:
		return SortDefault
	}
}

// relevance 返回该排序方式是否按相关度排（需要施加多样性护栏）。
func (m SortMode) relevance() bool {
	return m == SortDefault || m == SortRecommended
}
