// Package evaluate 实现离线评估：曝光记录与反馈记录 join 后计算
// AUC、log-loss 与 precision@k，整体与按打分算法版本切片各算一份。
//
// 指标在数学上无定义时（缺正类/负类、k<=0、无请求）返回“无值”
// 而不是 0：Metric.Valid 为 false 的值绝不能当 0 参与比较。
package evaluate

import (
	"math"
	"sort"

	"github.com/rushteam/matchkit/core"
)

// logLossEpsilon 把概率从 {0,1} 上拉开，避免 log(0)
const logLossEpsilon = 1e-15

// Metric 是一个可能无定义的指标值。
type Metric struct {
	Value float64
	Valid bool
}

func defined(v float64) Metric { return Metric{Value: v, Valid: true} }

func undefined() Metric { return Metric{} }

// Report 是一次评估的全部指标。
type Report struct {
	Exposures int
	Positives int

	AUC          Metric
	LogLoss      Metric
	PrecisionAtK Metric
}

// labeled 是 join 后的一条样本。
type labeled struct {
	requestID string
	jobID     string
	position  int
	prob      float64
	positive  bool
}

// Evaluate 把曝光与反馈按 (user, job) join 后计算整体指标，
// 并按 ScoringVersion 切片各算一份（A/B 对比用）。
func Evaluate(exposures []*core.Exposure, feedback []*core.Feedback, k int) (*Report, map[string]*Report) {
	overall := report(join(exposures, feedback), k)

	byVersion := make(map[string]*Report)
	grouped := make(map[string][]*core.Exposure)
	for _, e := range exposures {
		if e == nil {
			continue
		}
		grouped[e.ScoringVersion] = append(grouped[e.ScoringVersion], e)
	}
	for version, group := range grouped {
		byVersion[version] = report(join(group, feedback), k)
	}
	return overall, byVersion
}

func join(exposures []*core.Exposure, feedback []*core.Feedback) []labeled {
	positives := make(map[[2]string]bool, len(feedback))
	for _, f := range feedback {
		if f != nil && f.Positive {
			positives[[2]string{f.UserID, f.JobID}] = true
		}
	}

	out := make([]labeled, 0, len(exposures))
	for _, e := range exposures {
		if e == nil {
			continue
		}
		out = append(out, labeled{
			requestID: e.RequestID,
			jobID:     e.JobID,
			position:  e.Position,
			prob:      e.PredictedActionProbability,
			positive:  positives[[2]string{e.UserID, e.JobID}],
		})
	}
	return out
}

func report(samples []labeled, k int) *Report {
	r := &Report{Exposures: len(samples)}
	for _, s := range samples {
		if s.positive {
			r.Positives++
		}
	}
	r.AUC = auc(samples)
	r.LogLoss = logLoss(samples)
	r.PrecisionAtK = precisionAtK(samples, k)
	return r
}

// auc 用 rank-sum（Mann–Whitney）估计 AUC，同分样本取平均秩。
// 任一类缺席时无定义。
func auc(samples []labeled) Metric {
	var pos, neg int
	for _, s := range samples {
		if s.positive {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return undefined()
	}

	sorted := make([]labeled, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].prob < sorted[j].prob
	})

	// 平均秩：同分段 [i, j) 内每个样本的秩都是段内秩的平均
	ranks := make([]float64, len(sorted))
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j].prob == sorted[i].prob {
			j++
		}
		avg := float64(i+1+j) / 2 // (rank_i + rank_{j-1}) / 2，秩从 1 开始
		for t := i; t < j; t++ {
			ranks[t] = avg
		}
		i = j
	}

	var rankSum float64
	for i, s := range sorted {
		if s.positive {
			rankSum += ranks[i]
		}
	}
	p, n := float64(pos), float64(neg)
	return defined((rankSum - p*(p+1)/2) / (p * n))
}

// logLoss 计算平均交叉熵，p 被 ε 拉离 {0,1}。
func logLoss(samples []labeled) Metric {
	if len(samples) == 0 {
		return undefined()
	}
	var sum float64
	for _, s := range samples {
		p := math.Min(math.Max(s.prob, logLossEpsilon), 1-logLossEpsilon)
		if s.positive {
			sum += -math.Log(p)
		} else {
			sum += -math.Log(1 - p)
		}
	}
	return defined(sum / float64(len(samples)))
}

// precisionAtK 按请求分组：每个请求取位次前 k 的样本算命中率，再对请求求平均。
func precisionAtK(samples []labeled, k int) Metric {
	if k <= 0 {
		return undefined()
	}
	byRequest := make(map[string][]labeled)
	for _, s := range samples {
		byRequest[s.requestID] = append(byRequest[s.requestID], s)
	}
	if len(byRequest) == 0 {
		return undefined()
	}

	var total float64
	for _, group := range byRequest {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].position < group[j].position
		})
		top := group
		if len(top) > k {
			top = top[:k]
		}
		hits := 0
		for _, s := range top {
			if s.positive {
				hits++
			}
		}
		total += float64(hits) / float64(k)
	}
	return defined(total / float64(len(byRequest)))
}
