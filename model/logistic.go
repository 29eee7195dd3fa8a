package model

import (
	"encoding/json"
	"math"
	"os"
)

// Logistic 是 sigmoid 校准器：P = 1 / (1 + exp(-(Bias + Scale·score)))。
// 参数由离线评估任务按历史行为拟合后下发；默认参数把 50 分映射到 0.5。
type Logistic struct {
	Bias  float64 // 截距
	Scale float64 // 匹配分斜率
}

// DefaultLogistic 返回内置参数的校准器：50 分 → 0.5，100 分 → ≈0.98。
func DefaultLogistic() *Logistic {
	return &Logistic{Bias: -4, Scale: 0.08}
}

// LoadLogistic 从 JSON 文件加载校准参数，文件由离线评估任务产出。
func LoadLogistic(path string) (*Logistic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw struct {
		Bias  float64 `json:"bias"`
		Scale float64 `json:"scale"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	m := &Logistic{Bias: raw.Bias, Scale: raw.Scale}
	if m.Scale == 0 {
		m.Scale = DefaultLogistic().Scale
		m.Bias = DefaultLogistic().Bias
	}
	return m, nil
}

func (m *Logistic) Name() string { return "logistic" }

func (m *Logistic) Calibrate(score float64) float64 {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return 1 / (1 + math.Exp(-(m.Bias + m.Scale*score)))
}
