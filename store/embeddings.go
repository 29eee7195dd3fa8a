package store

import (
	"context"
	"encoding/json"

	"github.com/rushteam/matchkit/core"
)

// Embeddings 把 core.EmbeddingStore 落到任意 core.Store 后端上。
// key 形如 emb:{owner}，值为 JSON 序列化的 core.Embedding。
// 向量不设 TTL：内容变更时由批任务重算覆盖。
type Embeddings struct {
	Store core.Store
}

func NewEmbeddings(s core.Store) *Embeddings {
	return &Embeddings{Store: s}
}

var _ core.EmbeddingStore = (*Embeddings)(nil)

func (e *Embeddings) key(ownerID string) string { return "emb:" + ownerID }

func (e *Embeddings) GetEmbedding(ctx context.Context, ownerID string) (*core.Embedding, error) {
	raw, err := e.Store.Get(ctx, e.key(ownerID))
	if err != nil {
		return nil, err
	}
	var emb core.Embedding
	if err := json.Unmarshal(raw, &emb); err != nil {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "store: corrupt embedding for "+ownerID)
	}
	return &emb, nil
}

func (e *Embeddings) UpsertEmbedding(ctx context.Context, emb *core.Embedding) error {
	if emb == nil || emb.OwnerID == "" {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "store: embedding owner id is empty")
	}
	raw, err := json.Marshal(emb)
	if err != nil {
		return err
	}
	return e.Store.Set(ctx, e.key(emb.OwnerID), raw)
}

// BatchGetEmbeddings 批量读取向量，缺失或损坏的 owner 直接缺席于结果。
func (e *Embeddings) BatchGetEmbeddings(ctx context.Context, ownerIDs []string) (map[string]*core.Embedding, error) {
	keys := make([]string, 0, len(ownerIDs))
	byKey := make(map[string]string, len(ownerIDs))
	for _, id := range ownerIDs {
		k := e.key(id)
		keys = append(keys, k)
		byKey[k] = id
	}

	values, err := e.Store.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*core.Embedding, len(values))
	for k, raw := range values {
		var emb core.Embedding
		if err := json.Unmarshal(raw, &emb); err != nil {
			continue
		}
		out[byKey[k]] = &emb
	}
	return out, nil
}
