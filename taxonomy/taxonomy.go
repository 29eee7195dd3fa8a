// Package taxonomy 维护角色分类表：领域关键词、角色族关键词、
// 角色族迁移关系与受监管职业的资质规则。
//
// 分类表在进程启动时加载一次，生命周期内只读；如果以后要热更新，
// 必须整体原子替换，而不是原地修改。
package taxonomy

import (
	"strings"

	"github.com/rushteam/matchkit/pkg/text"
)

// RequiredQualificationRule 是受监管职业的资质规则：
// 职位文本命中 JobTerms 时，候选人文本必须出现至少一个 CandidateTerms，
// 否则视为资质缺失，最终分被硬压。
type RequiredQualificationRule struct {
	Name           string   `json:"name"`
	JobTerms       []string `json:"job_terms"`
	CandidateTerms []string `json:"candidate_terms"`
}

// Taxonomy 是完整的角色分类表。
type Taxonomy struct {
	Version string `json:"taxonomy_version"`

	// DomainKeywords 领域 -> 关键词列表（如 healthcare -> [nemocnice, ordinace ...]）
	DomainKeywords map[string][]string `json:"domain_keywords"`

	// RoleFamilyKeywords 角色族 -> 关键词列表（如 driver -> [ridic, kamion ...]）
	RoleFamilyKeywords map[string][]string `json:"role_family_keywords"`

	// RoleFamilyRelations 角色族间迁移强度，权重 [0,1]，按对称取用
	RoleFamilyRelations map[string]map[string]float64 `json:"role_family_relations"`

	RequiredQualifications []RequiredQualificationRule `json:"required_qualification_rules"`
}

// 对齐信号的固定值。领域/角色信号检测不到时给中性分，
// 而不是惩罚信息不足的文本。
const (
	domainNeutral  = 0.6
	domainOverlap  = 1.0
	domainMismatch = 0.1

	roleNeutral     = 0.55
	roleExact       = 1.0
	roleNoTransfer  = 0.2
	roleRelationMax = 0.9 // 0.55 + 0.35*1.0，始终低于 exact
)

// DomainSignal 是领域对齐的结果。
type DomainSignal struct {
	Score            float64
	StrongMismatch   bool
	CandidateDomains []string
	JobDomains       []string
}

// RoleSignal 是角色族迁移的结果。
type RoleSignal struct {
	Score             float64
	CandidateFamilies []string
	JobFamilies       []string
}

// normalize 统一小写并去变音符号，关键词与待扫描文本都走同一口径。
func normalize(s string) string {
	return text.Normalize(s)
}

// detect 返回文本命中的分组（关键词子串匹配，文本已归一化）。
func detect(normText string, keywords map[string][]string) []string {
	if normText == "" {
		return nil
	}
	var hits []string
	for family, kws := range keywords {
		for _, kw := range kws {
			if kw != "" && strings.Contains(normText, kw) {
				hits = append(hits, family)
				break
			}
		}
	}
	return hits
}

// DomainAlignment 计算候选人文本与职位文本的领域对齐信号。
//   - 任一侧检测不到领域 → 中性 0.6（信号不足）
//   - 领域有交集 → 1.0
//   - 两侧都有明确领域且不相交 → 0.1 并标记强不匹配
func (t *Taxonomy) DomainAlignment(candText, jobText string) DomainSignal {
	cand := detect(normalize(candText), t.DomainKeywords)
	job := detect(normalize(jobText), t.DomainKeywords)

	sig := DomainSignal{CandidateDomains: cand, JobDomains: job}
	if len(cand) == 0 || len(job) == 0 {
		sig.Score = domainNeutral
		return sig
	}
	if overlaps(cand, job) {
		sig.Score = domainOverlap
		return sig
	}
	sig.Score = domainMismatch
	sig.StrongMismatch = true
	return sig
}

// RoleTransfer 计算角色族迁移信号。
//   - 任一侧检测不到角色族 → 中性 0.55
//   - 角色族有交集 → 1.0（同族）
//   - 无交集但存在非零的对称迁移关系 → 0.55 + 0.35·强度（封顶低于同族）
//   - 其他 → 0.2
func (t *Taxonomy) RoleTransfer(candText, jobText string) RoleSignal {
	cand := detect(normalize(candText), t.RoleFamilyKeywords)
	job := detect(normalize(jobText), t.RoleFamilyKeywords)

	sig := RoleSignal{CandidateFamilies: cand, JobFamilies: job}
	if len(cand) == 0 || len(job) == 0 {
		sig.Score = roleNeutral
		return sig
	}
	if overlaps(cand, job) {
		sig.Score = roleExact
		return sig
	}

	var best float64
	for _, cf := range cand {
		for _, jf := range job {
			if rel := t.relation(cf, jf); rel > best {
				best = rel
			}
		}
	}
	if best > 0 {
		score := roleNeutral + 0.35*best
		if score > roleRelationMax {
			score = roleRelationMax
		}
		sig.Score = score
		return sig
	}
	sig.Score = roleNoTransfer
	return sig
}

// relation 返回两个角色族间的对称迁移强度（取两个方向的较大值）。
func (t *Taxonomy) relation(a, b string) float64 {
	var rel float64
	if m, ok := t.RoleFamilyRelations[a]; ok {
		rel = m[b]
	}
	if m, ok := t.RoleFamilyRelations[b]; ok {
		if m[a] > rel {
			rel = m[a]
		}
	}
	if rel < 0 {
		return 0
	}
	if rel > 1 {
		return 1
	}
	return rel
}

// MissingQualifications 返回职位触发但候选人缺少证据的资质规则名。
// 非空结果会把最终分硬压到 10 以下——不把受监管职业推荐给
// 没有明确资质证据的候选人。
func (t *Taxonomy) MissingQualifications(candText, jobText string) []string {
	normJob := normalize(jobText)
	if normJob == "" {
		return nil
	}
	normCand := normalize(candText)

	var missing []string
	for _, rule := range t.RequiredQualifications {
		if !containsAny(normJob, rule.JobTerms) {
			continue
		}
		if containsAny(normCand, rule.CandidateTerms) {
			continue
		}
		missing = append(missing, rule.Name)
	}
	return missing
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func containsAny(normText string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(normText, term) {
			return true
		}
	}
	return false
}
