// Package salary 实现薪资归一化：把职位薪资换算成 EUR，
// 对照地区/角色/资历基线产出 [0,1] 的薪资吸引力分。
// 任何一级查不到都逐级回退，最终回退到默认基线——此处永不报错。
package salary

import "strings"

// 静态汇率表（兑 EUR）。未知货币按 1.0 处理而不是失败。
var fxToEUR = map[string]float64{
	"eur": 1.0,
	"czk": 0.041,
	"pln": 0.23,
	"huf": 0.0025,
	"usd": 0.92,
	"gbp": 1.17,
	"chf": 1.04,
}

const (
	// DefaultBaselineEUR 是所有基线查找都落空时的兜底月薪基线
	DefaultBaselineEUR = 2200.0

	// attractivenessCeiling：薪资达到基线 1.4 倍即拿满分
	attractivenessCeiling = 1.4
)

// BaselineKey 是基线表的查找键；字段留空表示该维度不参与匹配。
type BaselineKey struct {
	TaxonomyID string // 角色分类表中的精确条目 id
	RoleFamily string
	Track      string // 职业轨道（如 technical / managerial）
	Role       string
	Industry   string
	Seniority  string
	Region     string // country 或 country:city
}

// Baselines 是月薪基线表（EUR）。最具体的键先查：
// 分类表 id → 角色族+轨道 → 角色 → 行业 → 资历 → 地区 → 默认。
type Baselines struct {
	ByTaxonomyID map[string]float64
	ByFamilyTrack map[string]float64 // "family/track"
	ByRole        map[string]float64
	ByIndustry    map[string]float64
	BySeniority   map[string]float64
	ByRegion      map[string]float64
}

// Normalizer 组合汇率表与基线表。
type Normalizer struct {
	Baselines *Baselines
}

// lookupBaseline 按最具体优先的顺序查基线，全部落空返回默认值。
func (n *Normalizer) lookupBaseline(key BaselineKey) float64 {
	b := n.baselines()
	if key.TaxonomyID != "" {
		if v, ok := b.ByTaxonomyID[key.TaxonomyID]; ok {
			return v
		}
	}
	if key.RoleFamily != "" {
		if v, ok := b.ByFamilyTrack[key.RoleFamily+"/"+key.Track]; ok {
			return v
		}
	}
	if key.Role != "" {
		if v, ok := b.ByRole[strings.ToLower(key.Role)]; ok {
			return v
		}
	}
	if key.Industry != "" {
		if v, ok := b.ByIndustry[strings.ToLower(key.Industry)]; ok {
			return v
		}
	}
	if key.Seniority != "" {
		if v, ok := b.BySeniority[strings.ToLower(key.Seniority)]; ok {
			return v
		}
	}
	if key.Region != "" {
		region := strings.ToLower(key.Region)
		if v, ok := b.ByRegion[region]; ok {
			return v
		}
		// "country:city" 查不到时回退到 country 级
		if i := strings.IndexByte(region, ':'); i > 0 {
			if v, ok := b.ByRegion[region[:i]]; ok {
				return v
			}
		}
	}
	return DefaultBaselineEUR
}

func (n *Normalizer) baselines() *Baselines {
	if n != nil && n.Baselines != nil {
		return n.Baselines
	}
	return defaultBaselines
}

// ToEUR 把金额按静态汇率换算成 EUR；未知货币按 1.0 兑换。
func ToEUR(amount float64, currency string) float64 {
	rate, ok := fxToEUR[strings.ToLower(strings.TrimSpace(currency))]
	if !ok {
		rate = 1.0
	}
	return amount * rate
}

// Normalize 返回职位薪资相对基线的吸引力分 [0,1]。
// 取薪资上界（只有单边时取该边）；没有任何薪资信息时返回 0。
// 公式：clamp(eur / baseline / 1.4, 0, 1)。
func (n *Normalizer) Normalize(salaryFrom, salaryTo float64, currency string, key BaselineKey) float64 {
	amount := salaryTo
	if amount <= 0 {
		amount = salaryFrom
	}
	if amount <= 0 {
		return 0
	}

	eur := ToEUR(amount, currency)
	baseline := n.lookupBaseline(key)
	if baseline <= 0 {
		baseline = DefaultBaselineEUR
	}

	score := eur / baseline / attractivenessCeiling
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// defaultBaselines 覆盖常见市场的粗粒度基线，细粒度条目由参照数据下发。
var defaultBaselines = &Baselines{
	ByTaxonomyID:  map[string]float64{},
	ByFamilyTrack: map[string]float64{
		"developer/technical": 3400,
		"driver/operations":   1700,
		"nurse/healthcare":    1900,
	},
	ByRole: map[string]float64{
		"developer":   3200,
		"tester":      2600,
		"driver":      1600,
		"nurse":       1800,
		"accountant":  2100,
		"cook":        1500,
		"electrician": 1900,
	},
	ByIndustry: map[string]float64{
		"software":   3000,
		"healthcare": 1900,
		"logistics":  1700,
		"finance":    2500,
	},
	BySeniority: map[string]float64{
		"junior": 1700,
		"medior": 2300,
		"senior": 3100,
		"lead":   3600,
	},
	ByRegion: map[string]float64{
		"cs":       1900,
		"cs:praha": 2300,
		"cs:brno":  2000,
		"sk":       1700,
		"pl":       1800,
		"de":       3400,
	},
}
