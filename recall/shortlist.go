package recall

import (
	"context"
	"sort"
	"time"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/embedding"
	"github.com/rushteam/matchkit/feature"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/utils"
)

// MetaSemanticSimilarity 是召回阶段写入 Item.Meta 的相似度键，
// 排序阶段按这个键取 semSim，避免重复算向量。
const MetaSemanticSimilarity = "semantic_similarity"

// batchEmbeddingGetter 是可选的批量向量读取能力（store.Embeddings 实现）。
type batchEmbeddingGetter interface {
	BatchGetEmbeddings(ctx context.Context, ownerIDs []string) (map[string]*core.Embedding, error)
}

// EmbeddingShortlist 是主召回源：取最近职位池，按与候选人向量的
// 余弦相似度排序，截出 shortlist 进入全量打分。
//
// 向量优先用持久化副本（模型版本匹配时），缺失或失配时现场重算；
// 职位池内还顺带标记新职位与长尾公司，供重排护栏使用。
type EmbeddingShortlist struct {
	Profiles   core.ProfileStore
	Embeddings core.EmbeddingStore // 可为 nil：全部现场计算

	// Config 为 nil 时使用 core.DefaultRankingConfig
	Config *core.RankingConfig

	// Now 便于测试注入，为 nil 时用 time.Now
	Now func() time.Time
}

func (s *EmbeddingShortlist) Name() string { return "recall.shortlist" }

func (s *EmbeddingShortlist) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 让 shortlist 可以直接作为 Pipeline 的召回 Node 使用。
func (s *EmbeddingShortlist) Process(ctx context.Context, mctx *core.MatchContext, _ []*core.Item) ([]*core.Item, error) {
	return s.Recall(ctx, mctx)
}

func (s *EmbeddingShortlist) Recall(ctx context.Context, mctx *core.MatchContext) ([]*core.Item, error) {
	if mctx == nil || mctx.Candidate == nil || s.Profiles == nil {
		return nil, nil
	}
	cfg := s.Config
	if cfg == nil {
		cfg = core.DefaultRankingConfig()
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	candVec := s.candidateVector(ctx, mctx.Candidate)

	jobs, err := s.Profiles.ListRecentJobs(ctx, cfg.JobPoolSize, cfg.JobPoolDays)
	if err != nil {
		return nil, core.NewDomainErrorWithCause(core.ModuleProfile, core.ErrorCodeDataSourceUnavailable,
			"recall: job pool unavailable", err)
	}
	if len(jobs) == 0 {
		return nil, nil
	}

	// 职位池级别的公司职位数，长尾判定要看全池而不是 shortlist
	companyJobs := make(map[string]int, len(jobs))
	for _, rec := range jobs {
		if rec != nil && rec.CompanyID != "" {
			companyJobs[rec.CompanyID]++
		}
	}

	stored := s.storedVectors(ctx, jobs)

	items := make([]*core.Item, 0, len(jobs))
	for _, rec := range jobs {
		if rec == nil || rec.ID == "" {
			continue
		}
		feat := feature.BuildJobFeatures(rec)

		vec := s.jobVector(stored, rec.ID, feat.Text)
		sim := embedding.Similarity(candVec, vec)

		it := core.NewItem(rec.ID)
		it.Job = feat
		it.ModelVersion = embedding.ModelVersion
		it.Meta[MetaSemanticSimilarity] = sim
		it.IsNewJob = feat.AgeDays(now) <= float64(cfg.NewJobWindowDays)
		it.IsLongTailCompany = feat.CompanyID != "" && companyJobs[feat.CompanyID] <= cfg.LongTailThreshold
		it.PutLabel("recall_source", utils.Label{Value: s.Name(), Source: "recall"})
		items = append(items, it)
	}

	// 相似度降序，同分按 JobID 保证稳定
	sort.SliceStable(items, func(i, j int) bool {
		si := items[i].MetaFloat(MetaSemanticSimilarity)
		sj := items[j].MetaFloat(MetaSemanticSimilarity)
		if si != sj {
			return si > sj
		}
		return items[i].JobID < items[j].JobID
	})

	if cfg.ShortlistSize > 0 && len(items) > cfg.ShortlistSize {
		items = items[:cfg.ShortlistSize]
	}
	return items, nil
}

// candidateVector 返回候选人向量：持久化副本版本匹配时复用，否则现场计算。
func (s *EmbeddingShortlist) candidateVector(ctx context.Context, cand *core.CandidateFeatures) []float64 {
	if s.Embeddings != nil && cand.ID != "" {
		if emb, err := s.Embeddings.GetEmbedding(ctx, cand.ID); err == nil && usable(emb) {
			return emb.Vector
		}
	}
	return embedding.Embed(cand.Text)
}

func (s *EmbeddingShortlist) storedVectors(ctx context.Context, jobs []*core.JobRecord) map[string]*core.Embedding {
	batch, ok := s.Embeddings.(batchEmbeddingGetter)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(jobs))
	for _, rec := range jobs {
		if rec != nil && rec.ID != "" {
			ids = append(ids, rec.ID)
		}
	}
	got, err := batch.BatchGetEmbeddings(ctx, ids)
	if err != nil {
		return nil
	}
	return got
}

func (s *EmbeddingShortlist) jobVector(stored map[string]*core.Embedding, jobID, text string) []float64 {
	if emb, ok := stored[jobID]; ok && usable(emb) {
		return emb.Vector
	}
	return embedding.Embed(text)
}

// usable 校验持久化向量的模型口径是否与当前一致。
func usable(emb *core.Embedding) bool {
	return emb != nil &&
		emb.ModelName == embedding.ModelName &&
		emb.ModelVersion == embedding.ModelVersion &&
		len(emb.Vector) == embedding.Dim
}
