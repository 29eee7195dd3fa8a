package core

import (
	"context"
	"time"
)

// ProfileStore 是画像/职位数据源的领域接口。
// 引擎把它当作同步的取数调用：超时与重试由外层调用方持有，
// 引擎内部不做网络治理。数据源整体不可用时返回
// DATA_SOURCE_UNAVAILABLE，上层据此返回空结果而非报错。
type ProfileStore interface {
	// GetCandidate 按 id 读取候选人画像；不存在时返回 NOT_FOUND
	GetCandidate(ctx context.Context, id string) (*CandidateRecord, error)

	// ListRecentJobs 返回最近 days 天内发布的职位，按发布时间倒序，至多 limit 条
	ListRecentJobs(ctx context.Context, limit int, days int) ([]*JobRecord, error)
}

// Embedding 是一条持久化的向量：按 owner（候选人或职位）寻址，
// 内容变更时重算，带模型标签以便版本失配时判定过期。
type Embedding struct {
	OwnerID      string    `json:"owner_id"`
	Vector       []float64 `json:"vector"`
	ModelName    string    `json:"model_name"`
	ModelVersion string    `json:"model_version"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EmbeddingStore 是 embedding 的持久化接口，按 owner id 寻址。
// 写入为幂等 upsert；同 key 并发写 last-writer-wins。
type EmbeddingStore interface {
	// GetEmbedding 读取 owner 的向量；不存在时返回 NOT_FOUND
	GetEmbedding(ctx context.Context, ownerID string) (*Embedding, error)

	// UpsertEmbedding 写入/覆盖 owner 的向量
	UpsertEmbedding(ctx context.Context, emb *Embedding) error
}
