// Package matchkit 是一个职位匹配与排序工具包（Matching Kit）。
//
// 设计要点：
// - Pipeline-first: 匹配链路通过 Node 串联（Shortlist → Filter → Score → Guardrail）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 降级观测
// - Node 可扩展: 自定义 Node 即可插拔扩展（本地打分或委托搜索均可）
package matchkit

import "github.com/rushteam/matchkit/pipeline"

// 轻量 facade：便于用户直接 import "matchkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
