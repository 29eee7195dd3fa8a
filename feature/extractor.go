// Package feature 把原始候选人/职位记录加工成归一化特征包。
// 特征包按请求重算、不落库；落库的只有源画像和 embedding。
// 脏字段（无法解析的薪资、缺失的地点）一律按缺失降级，
// 单条坏记录绝不让整个请求或批次失败。
package feature

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rushteam/matchkit/core"
)

// BuildCandidateFeatures 从原始画像派生候选人特征包。
// 各集合统一小写、去空白、去重；自由文本拼接 title+bio+技能集合，
// 供 embedding 与关键词扫描使用。
func BuildCandidateFeatures(rec *core.CandidateRecord) *core.CandidateFeatures {
	if rec == nil {
		return nil
	}

	f := &core.CandidateFeatures{
		ID:             rec.ID,
		Title:          strings.TrimSpace(rec.Title),
		Address:        strings.ToLower(strings.TrimSpace(rec.Address)),
		Country:        strings.ToLower(strings.TrimSpace(rec.Country)),
		City:           strings.ToLower(strings.TrimSpace(rec.City)),
		Skills:         normalizeSet(rec.Skills),
		InferredSkills: normalizeSet(rec.InferredSkills),
		Strengths:      normalizeSet(rec.Strengths),
		Leadership:     normalizeSet(rec.Leadership),
		Values:         normalizeSet(rec.Values),
		Motivations:    normalizeSet(rec.Motivations),
		Preferences:    normalizeSet(rec.Preferences),
	}
	f.SeniorityLevel = SeniorityFromTitle(rec.Title)

	parts := make([]string, 0, 8)
	appendNonEmpty := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}
	appendNonEmpty(rec.Title)
	appendNonEmpty(rec.Bio)
	appendNonEmpty(strings.Join(f.Skills, " "))
	appendNonEmpty(strings.Join(f.InferredSkills, " "))
	appendNonEmpty(strings.Join(f.Strengths, " "))
	appendNonEmpty(strings.Join(f.Preferences, " "))
	f.Text = strings.ToLower(strings.Join(parts, " "))

	return f
}

// BuildJobFeatures 从原始职位行派生职位特征包。
// 薪资字符串解析失败视为缺失（0），打分时该因子自然降权。
func BuildJobFeatures(rec *core.JobRecord) *core.JobFeatures {
	if rec == nil {
		return nil
	}

	f := &core.JobFeatures{
		ID:        rec.ID,
		CompanyID: rec.CompanyID,
		Title:     strings.TrimSpace(rec.Title),
		Location:  strings.ToLower(strings.TrimSpace(rec.Location)),
		Country:   strings.ToLower(strings.TrimSpace(rec.Country)),
		City:      strings.ToLower(strings.TrimSpace(rec.City)),
		Role:      strings.ToLower(strings.TrimSpace(rec.Role)),
		Industry:  strings.ToLower(strings.TrimSpace(rec.Industry)),
		Currency:  strings.ToLower(strings.TrimSpace(rec.Currency)),
		PostedAt:  rec.PostedAt,
	}
	if v, ok := ParseAmount(rec.SalaryFrom); ok {
		f.SalaryFrom = v
	}
	if v, ok := ParseAmount(rec.SalaryTo); ok {
		f.SalaryTo = v
	}
	f.SeniorityLevel = SeniorityFromTitle(rec.Title)
	f.Text = strings.ToLower(strings.TrimSpace(rec.Title + " " + rec.Description))

	return f
}

// normalizeSet 小写、trim、去空、去重，保持稳定排序以便结果可复现。
func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ParseAmount 宽容地解析薪资数值："40 000"、"40,000 Kč"、"40000" 都可接受。
// 解析不出数字时返回 (0, false)——调用方按缺失处理，不报错。
func ParseAmount(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	var b strings.Builder
	dotSeen := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case (r == '.' || r == ',') && !dotSeen && b.Len() > 0:
			// 逗号/点既可能是千位分隔也可能是小数点；只有后面不足三位数字时当小数点。
			// 简化处理：先记下候选小数点，结尾再裁决。
			b.WriteRune('.')
			dotSeen = true
		case r == ' ' || r == ' ' || r == '\'':
			// 千位分隔，跳过
		default:
			if b.Len() > 0 {
				// 数字已经结束（如 "40000 Kč měsíčně"）
				goto parse
			}
		}
	}

parse:
	s := b.String()
	if s == "" {
		return 0, false
	}
	// "40.000" 这类三位小数实际是千位分隔
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 == 3 {
		s = strings.Replace(s, ".", "", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// 资历级别 0（实习）~ 4（负责人），头衔没有任何关键词时默认 2。
var seniorityKeywords = []struct {
	level int
	terms []string
}{
	{0, []string{"intern", "trainee", "stážista", "stazista", "praktikant"}},
	{1, []string{"junior", "absolvent", "graduate"}},
	{3, []string{"senior", "samostatný", "samostatny"}},
	{4, []string{"lead", "principal", "head", "director", "chief", "vedoucí", "vedouci", "ředitel", "reditel"}},
}

// SeniorityFromTitle 从头衔关键词推断资历级别。
func SeniorityFromTitle(title string) int {
	t := strings.ToLower(title)
	if t == "" {
		return 2
	}
	// 高级别关键词优先（"senior engineering lead" 应判为 4）
	for i := len(seniorityKeywords) - 1; i >= 0; i-- {
		for _, term := range seniorityKeywords[i].terms {
			if strings.Contains(t, term) {
				return seniorityKeywords[i].level
			}
		}
	}
	return 2
}
