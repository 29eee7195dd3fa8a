package demand

import (
	"math"
	"time"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pkg/text"
)

// 批重算参数。半衰期 21 天：三周前的职位对需求分的贡献减半。
const (
	WindowDays   = 120
	HalfLifeDays = 21.0
	ScaleFactor  = 12.0
)

// Row 是一条重算产出的需求分记录，按 (skill, country, city, window) 幂等 upsert。
type Row struct {
	Skill   string  `json:"skill"`
	Country string  `json:"country"`
	City    string  `json:"city"`
	Score   float64 `json:"score"`

	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}

// Recompute 扫描近期职位并重算各市场的技能需求分。
// 算法：
//  1. 只看 WindowDays 内发布的职位
//  2. 对职位描述分词，每个 token 出现按指数衰减 exp(-ln2·age/半衰期) 计权
//  3. 按 (country, city) 市场累积，每个技能的加权频次除以市场总权重
//  4. 乘以经验系数 ScaleFactor 并 clamp 到 1.0，得到可横向比较的 0..1 需求分
//
// 纯函数：同样的输入永远产出同样的行集合，重复执行天然幂等。
func Recompute(jobs []*core.JobFeatures, now time.Time) []Row {
	windowStart := now.AddDate(0, 0, -WindowDays)

	type market struct {
		total  float64
		skills map[string]float64
	}
	markets := make(map[string]*market)
	keys := make(map[string][2]string) // market key -> (country, city)

	for _, job := range jobs {
		if job == nil || job.PostedAt.IsZero() || job.PostedAt.Before(windowStart) {
			continue
		}
		ageDays := now.Sub(job.PostedAt).Hours() / 24
		if ageDays < 0 {
			ageDays = 0
		}
		decay := math.Exp(-math.Ln2 * ageDays / HalfLifeDays)

		key := job.Country + "\x00" + job.City
		mk, ok := markets[key]
		if !ok {
			mk = &market{skills: make(map[string]float64)}
			markets[key] = mk
			keys[key] = [2]string{job.Country, job.City}
		}
		for _, tok := range text.Tokenize(job.Text) {
			mk.skills[tok] += decay
			mk.total += decay
		}
	}

	var rows []Row
	for key, mk := range markets {
		if mk.total == 0 {
			continue
		}
		loc := keys[key]
		for skill, weight := range mk.skills {
			score := ScaleFactor * weight / mk.total
			if score > 1 {
				score = 1
			}
			rows = append(rows, Row{
				Skill:       skill,
				Country:     loc[0],
				City:        loc[1],
				Score:       score,
				WindowStart: windowStart,
				WindowEnd:   now,
			})
		}
	}
	return rows
}
