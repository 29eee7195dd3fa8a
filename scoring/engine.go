// Package scoring 实现加权多因子打分引擎：把语义相似度、精确技能命中、
// 角色迁移、市场需求、资历、薪资与地理信号组合成 0..100 的匹配分，
// 附带完整的拆解与面向用户的解释。
package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/demand"
	"github.com/rushteam/matchkit/salary"
	"github.com/rushteam/matchkit/taxonomy"
)

// Version 是打分算法版本，随结果进入缓存与曝光记录，供 A/B 切片评估。
const Version = "v2"

const (
	maxExactSkills = 20
	maxReasons     = 4
	maxMissingCore = 5

	// 强领域不匹配且角色迁移弱时对 skill_match 的惩罚系数
	domainVetoFactor = 0.3

	// 硬上限：领域强不匹配（且几乎无精确技能命中）/ 资质缺失
	capDomainMismatch = 15.0
	capMissingQual    = 10.0
)

// Engine 组合分类表、需求模型与薪资归一化器。无内部状态，并发安全。
type Engine struct {
	Taxonomy *taxonomy.Taxonomy
	Demand   *demand.Model
	Salary   *salary.Normalizer
}

// ScoreJob 对一条候选人-职位配对打分。
// semSim 是召回阶段算好的 embedding 相似度 [0,1]。
// 任何输入缺失都降级而不 panic：空候选人/职位得 0 分与良构的拆解。
func (e *Engine) ScoreJob(
	ctx context.Context,
	cand *core.CandidateFeatures,
	job *core.JobFeatures,
	semSim float64,
	w Weights,
) (float64, []string, *core.ScoreBreakdown) {
	bd := &core.ScoreBreakdown{HardCap: 100}
	if e.Taxonomy != nil {
		bd.TaxonomyVersion = e.Taxonomy.Version
	}
	if cand == nil || job == nil {
		return 0, nil, bd
	}

	bd.SemanticSimilarity = clamp01(semSim)

	// 1. 精确技能命中率
	exactRatio, missingCore := exactSkillRatio(cand.Skills, job.Text)
	bd.ExactSkillRatio = exactRatio
	bd.MissingCoreSkills = missingCore

	// 2. 领域与角色信号
	var domainSig taxonomy.DomainSignal
	var roleSig taxonomy.RoleSignal
	if e.Taxonomy != nil {
		domainSig = e.Taxonomy.DomainAlignment(cand.Text, job.Text)
		roleSig = e.Taxonomy.RoleTransfer(cand.Text, job.Text)
		bd.MissingRequiredQualifications = e.Taxonomy.MissingQualifications(cand.Text, job.Text)
	}
	bd.DomainAlignment = domainSig.Score
	bd.StrongDomainMismatch = domainSig.StrongMismatch
	bd.CandidateDomains = domainSig.CandidateDomains
	bd.JobDomains = domainSig.JobDomains
	bd.RoleTransfer = roleSig.Score

	// 3. skill_match：语义+精确命中为主，角色迁移为辅；
	// 领域强不匹配且迁移弱时，领域否决压过原始语义相似度
	skillMatch := 0.8*(0.65*bd.SemanticSimilarity+0.35*exactRatio) + 0.2*roleSig.Score
	if domainSig.StrongMismatch && roleSig.Score < 0.5 {
		skillMatch *= domainVetoFactor
	}
	bd.SkillMatch = clamp01(skillMatch)

	// 4. 其余因子
	bd.DemandBoost = e.demandBoost(ctx, cand)
	bd.SeniorityAlignment = seniorityAlignment(cand.SeniorityLevel, job.SeniorityLevel)
	bd.SalaryAlignment = e.salaryAlignment(cand, job)
	bd.GeographyWeight = geographyWeight(cand, job)

	// 5. 加权总分
	total := 100 * (w.Skill*bd.SkillMatch +
		w.Demand*bd.DemandBoost +
		w.Seniority*bd.SeniorityAlignment +
		w.Salary*bd.SalaryAlignment +
		w.Geo*bd.GeographyWeight)
	total = math.Round(total*100) / 100

	// 6. 硬上限在加权和之后生效，两条上限取更紧的
	cap := 100.0
	if domainSig.StrongMismatch && exactRatio <= 0.1 {
		cap = capDomainMismatch
	}
	if len(bd.MissingRequiredQualifications) > 0 && cap > capMissingQual {
		cap = capMissingQual
	}
	bd.HardCap = cap
	if total > cap {
		total = cap
	}
	if total < 0 {
		total = 0
	}
	bd.Total = total

	return total, e.reasons(bd, roleSig, w), bd
}

// exactSkillRatio 统计候选人技能在职位文本中的字面命中。
// 分子封顶 maxExactSkills，分母为 min(maxExactSkills, 技能数)。
func exactSkillRatio(skills []string, jobText string) (float64, []string) {
	if len(skills) == 0 || jobText == "" {
		return 0, nil
	}
	var hits int
	var missing []string
	checked := 0
	for _, skill := range skills {
		if checked == maxExactSkills {
			break
		}
		checked++
		if strings.Contains(jobText, skill) {
			hits++
			continue
		}
		if len(missing) < maxMissingCore {
			missing = append(missing, skill)
		}
	}
	denom := len(skills)
	if denom > maxExactSkills {
		denom = maxExactSkills
	}
	return float64(hits) / float64(denom), missing
}

func (e *Engine) demandBoost(ctx context.Context, cand *core.CandidateFeatures) float64 {
	if e.Demand == nil {
		return 0
	}
	skills := cand.Skills
	if len(skills) < demand.MaxSkills {
		skills = append(append([]string{}, skills...), cand.InferredSkills...)
	}
	return e.Demand.Weight(ctx, skills, cand.Country, cand.City)
}

// seniorityAlignment：级差归一到 [-1,1] 后，对齐度 = 1 − |级差|/4。
func seniorityAlignment(candLevel, jobLevel int) float64 {
	gap := float64(candLevel - jobLevel)
	if gap > 4 {
		gap = 4
	}
	if gap < -4 {
		gap = -4
	}
	return 1 - math.Abs(gap)/4
}

var seniorityNames = map[int]string{0: "junior", 1: "junior", 2: "medior", 3: "senior", 4: "lead"}

func (e *Engine) salaryAlignment(cand *core.CandidateFeatures, job *core.JobFeatures) float64 {
	norm := e.Salary
	if norm == nil {
		norm = &salary.Normalizer{}
	}
	region := cand.Country
	if cand.City != "" {
		region = cand.Country + ":" + cand.City
	}
	return norm.Normalize(job.SalaryFrom, job.SalaryTo, job.Currency, salary.BaselineKey{
		Role:      job.Role,
		Industry:  job.Industry,
		Seniority: seniorityNames[job.SeniorityLevel],
		Region:    region,
	})
}

var remoteMarkers = []string{"remote", "home office", "homeoffice", "hybrid", "prace z domova", "práce z domova"}

// geographyWeight：地址与职位地点子串匹配给 0.7，职位文本含远程标记加 0.3，封顶 1。
func geographyWeight(cand *core.CandidateFeatures, job *core.JobFeatures) float64 {
	var g float64
	if locationMatches(cand, job) {
		g = 0.7
	}
	for _, marker := range remoteMarkers {
		if strings.Contains(job.Text, marker) {
			g += 0.3
			break
		}
	}
	return clamp01(g)
}

func locationMatches(cand *core.CandidateFeatures, job *core.JobFeatures) bool {
	if cand.City != "" && cand.City == job.City {
		return true
	}
	if cand.Address != "" && job.Location != "" &&
		(strings.Contains(cand.Address, job.Location) || strings.Contains(job.Location, cand.City) && cand.City != "") {
		return true
	}
	return false
}

// reasons 产出至多 4 条解释：不匹配/资质类 callout 在前，
// 其后按加权贡献取前 3 个非零因子。
func (e *Engine) reasons(bd *core.ScoreBreakdown, roleSig taxonomy.RoleSignal, w Weights) []string {
	var out []string

	if len(bd.MissingRequiredQualifications) > 0 {
		out = append(out, "missing required qualification: "+bd.MissingRequiredQualifications[0])
	}
	if bd.StrongDomainMismatch {
		out = append(out, "job is outside your detected field")
	}
	// 经迁移关系（而非同族）对齐时单独点出
	if roleSig.Score > 0.55 && roleSig.Score < 1.0 && len(roleSig.CandidateFamilies) > 0 {
		out = append(out, "related role family to your experience")
	}

	type component struct {
		weighted float64
		text     string
	}
	components := []component{
		{w.Skill * bd.SkillMatch, "skills match the job requirements"},
		{w.Demand * bd.DemandBoost, "your skills are in demand in this market"},
		{w.Seniority * bd.SeniorityAlignment, "seniority level fits"},
		{w.Salary * bd.SalaryAlignment, "salary is competitive for the role"},
		{w.Geo * bd.GeographyWeight, "location fits your profile"},
	}
	sort.SliceStable(components, func(i, j int) bool {
		return components[i].weighted > components[j].weighted
	})
	for i, c := range components {
		if i == 3 || c.weighted <= 0 {
			break
		}
		out = append(out, c.text)
	}

	if len(out) > maxReasons {
		out = out[:maxReasons]
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Explain 返回拆解的单行摘要（日志/调试用）。
func Explain(bd *core.ScoreBreakdown) string {
	if bd == nil {
		return ""
	}
	return fmt.Sprintf("total=%.2f cap=%.0f skill=%.2f demand=%.2f seniority=%.2f salary=%.2f geo=%.2f",
		bd.Total, bd.HardCap, bd.SkillMatch, bd.DemandBoost, bd.SeniorityAlignment, bd.SalaryAlignment, bd.GeographyWeight)
}
