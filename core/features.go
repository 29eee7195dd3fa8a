package core

import "time"

// CandidateRecord 是画像存储返回的原始候选人记录。
// 字段保持“存储里是什么就是什么”：清洗、归一化、缺失处理都在 feature 包完成。
type CandidateRecord struct {
	ID      string
	Title   string
	Address string
	Country string
	City    string

	Skills         []string
	InferredSkills []string
	Strengths      []string
	Leadership     []string
	Values         []string
	Motivations    []string
	Preferences    []string

	Bio       string
	UpdatedAt time.Time
}

// JobRecord 是职位存储返回的原始职位记录。
// 薪资字段保留原始字符串：脏数据（"40 000"、"dohodou"）在特征抽取时按缺失处理，
// 单条坏记录不中断整个批次。
type JobRecord struct {
	ID        string
	CompanyID string

	Title       string
	Description string
	Location    string
	Country     string
	City        string
	Role        string
	Industry    string

	SalaryFrom string
	SalaryTo   string
	Currency   string

	PostedAt  time.Time
	UpdatedAt time.Time
}

// CandidateFeatures 是归一化后的候选人特征包。
// 每次请求从 CandidateRecord 重算，不直接持久化（持久化的只有源画像和 embedding）。
type CandidateFeatures struct {
	ID      string
	Title   string
	Address string
	Country string
	City    string

	// 以下集合均已小写、去空白、去重
	Skills         []string
	InferredSkills []string
	Strengths      []string
	Leadership     []string
	Values         []string
	Motivations    []string
	Preferences    []string

	// Text 是用于 embedding 与关键词扫描的自由文本拼接
	Text string

	// SeniorityLevel 由职位头衔关键词推断，0（实习）~ 4（负责人），默认 2
	SeniorityLevel int
}

// JobFeatures 是归一化后的职位特征包，按职位行派生。
type JobFeatures struct {
	ID        string
	CompanyID string

	Title    string
	Location string
	Country  string
	City     string
	Role     string
	Industry string

	// SalaryFrom/SalaryTo 解析失败时为 0（按缺失参与打分）
	SalaryFrom float64
	SalaryTo   float64
	Currency   string

	// Text 是标题+描述拼接的小写文本，exact-skill、词法检索都扫它
	Text string

	SeniorityLevel int
	PostedAt       time.Time
}

// AgeDays 返回职位发布至 now 的天数，PostedAt 为零值时返回一个很大的天数。
func (j *JobFeatures) AgeDays(now time.Time) float64 {
	if j.PostedAt.IsZero() {
		return 1e9
	}
	return now.Sub(j.PostedAt).Hours() / 24
}
