// Package model 提供把匹配分换算成行为概率的校准器。
// 排序阶段按 (行为概率, 匹配分) 双键排序，校准器可以是本地闭式模型，
// 也可以替换成离线训练后下发参数的版本。
package model

// Calibrator 是校准阶段的最小抽象：输入 0..100 的匹配分，
// 输出该候选人对职位产生正向行为（点击/投递）的概率估计 (0,1)。
type Calibrator interface {
	Name() string
	Calibrate(score float64) float64
}
