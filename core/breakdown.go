package core

// ScoreBreakdown 是单次打分的完整拆解：各因子的归一化子分（0..1）、
// 诊断信息与硬上限。产出后不可变，随 Item 进入缓存条目与曝光记录，
// 用于线上解释与离线归因。
type ScoreBreakdown struct {
	SkillMatch         float64 `json:"skill_match"`
	DemandBoost        float64 `json:"demand_boost"`
	SeniorityAlignment float64 `json:"seniority_alignment"`
	SalaryAlignment    float64 `json:"salary_alignment"`
	GeographyWeight    float64 `json:"geography_weight"`

	// 中间量，便于归因
	SemanticSimilarity float64 `json:"semantic_similarity"`
	ExactSkillRatio    float64 `json:"exact_skill_ratio"`
	RoleTransfer       float64 `json:"role_transfer"`
	DomainAlignment    float64 `json:"domain_alignment"`

	// 领域/角色诊断
	StrongDomainMismatch bool     `json:"strong_domain_mismatch"`
	CandidateDomains     []string `json:"candidate_domains,omitempty"`
	JobDomains           []string `json:"job_domains,omitempty"`

	// MissingCoreSkills 是候选人声明但职位文本中找不到的技能（截断展示）
	MissingCoreSkills []string `json:"missing_core_skills,omitempty"`

	// MissingRequiredQualifications 非空时总分被硬压到 10 以下
	MissingRequiredQualifications []string `json:"missing_required_qualifications,omitempty"`

	// Total 是加权总分 [0,100]，HardCap 是本次生效的硬上限（无上限时为 100）
	Total   float64 `json:"total"`
	HardCap float64 `json:"hard_cap"`

	TaxonomyVersion string `json:"taxonomy_version"`
}
