// Package embedding 实现哈希词袋 embedding：把自由文本确定性地映射为
// 定长单位向量，用于候选人与职位的语义相似度计算。
//
// 这是有意为之的简单设计：无外部模型依赖、可复现、跨进程 bit 级一致。
// 哈希函数与分桶公式是 embedding 模型版本化契约的一部分
// （ModelName/ModelVersion），改动任何一处都必须升版本，
// 否则新旧向量的相似度不可比。
package embedding

import (
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/rushteam/matchkit/pkg/text"
)

const (
	// Dim 是向量维度
	Dim = 256

	// ModelName / ModelVersion 标记向量的生成口径，随向量一起持久化
	ModelName    = "hashed-bow"
	ModelVersion = "1"
)

// Embed 把文本映射为 Dim 维单位向量。
// 流程：分词（见 pkg/text.Tokenize）→ 每个 token 取 SHA-256 前 4 字节
// 作为 32 位哈希 → mod Dim 选桶 → 词频累加 → L2 归一化。
// 空文本或无有效 token 时返回零向量。
func Embed(s string) []float64 {
	vec := make([]float64, Dim)
	tokens := text.Tokenize(s)
	if len(tokens) == 0 {
		return vec
	}
	for _, tok := range tokens {
		vec[bucket(tok)]++
	}
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// bucket 返回 token 对应的桶下标：SHA-256 截断 32 位后 mod Dim。
func bucket(token string) int {
	sum := sha256.Sum256([]byte(token))
	h := binary.BigEndian.Uint32(sum[:4])
	return int(h % Dim)
}

// Similarity 返回两个向量的点积，并 clamp 到 [0,1]。
// 词频向量非负，理论上点积不会为负；防御性地把负值压到 0。
// 单位向量的点积即余弦相似度。
func Similarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	if dot < 0 {
		return 0
	}
	if dot > 1 {
		return 1
	}
	return dot
}
