package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/demand"
	"github.com/rushteam/matchkit/embedding"
	"github.com/rushteam/matchkit/feature"
)

// Batch 承载离线批任务：需求分重算与 embedding 刷新。
// 两个任务都是幂等的：重跑产出同样（或单调更新）的存储状态，
// 单实例调度由外部负责，这里不做互斥。
type Batch struct {
	Profiles   core.ProfileStore
	Embeddings core.EmbeddingStore
	Demand     *demand.StoreSource

	Logger *zap.Logger

	// Concurrency 是分片并发度，默认 4
	Concurrency int

	// Now 便于测试注入
	Now func() time.Time
}

func (b *Batch) logger() *zap.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return zap.NewNop()
}

func (b *Batch) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Batch) concurrency() int {
	if b.Concurrency > 0 {
		return b.Concurrency
	}
	return 4
}

// RefreshDemand 扫描近期职位、重算各市场技能需求分并 upsert 到参照表。
// 返回写入行数。纯函数重算 + last-writer-wins 写入，重跑安全。
func (b *Batch) RefreshDemand(ctx context.Context) (int, error) {
	jobs, err := b.recentJobs(ctx, demand.WindowDays)
	if err != nil {
		return 0, err
	}

	rows := demand.Recompute(jobs, b.now())
	if len(rows) == 0 {
		return 0, nil
	}

	// 行集按分片并发 upsert；单行失败不中断，行数只计成功写入
	shards := b.shard(len(rows))
	counts := make([]int, len(shards))
	g, gctx := errgroup.WithContext(ctx)
	for i, sh := range shards {
		i, sh := i, sh
		g.Go(func() error {
			n, err := b.Demand.Upsert(gctx, rows[sh[0]:sh[1]])
			counts[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total int
	for _, n := range counts {
		total += n
	}
	b.logger().Info("demand refreshed",
		zap.Int("jobs", len(jobs)),
		zap.Int("rows", total))
	return total, nil
}

// RefreshEmbeddings 为近期职位重算 embedding。
// 只重算内容或模型口径变化的：存量向量版本匹配且晚于职位更新时间的跳过。
// 返回重算条数。
func (b *Batch) RefreshEmbeddings(ctx context.Context, days int) (int, error) {
	if b.Embeddings == nil {
		return 0, core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "batch: embedding store not configured")
	}
	if days <= 0 {
		days = core.DefaultRankingConfig().JobPoolDays
	}
	jobs, err := b.recentJobs(ctx, days)
	if err != nil {
		return 0, err
	}

	now := b.now()
	shards := b.shard(len(jobs))
	counts := make([]int, len(shards))
	g, gctx := errgroup.WithContext(ctx)
	for i, sh := range shards {
		i, sh := i, sh
		g.Go(func() error {
			for _, job := range jobs[sh[0]:sh[1]] {
				if job == nil {
					continue
				}
				if b.embeddingFresh(gctx, job) {
					continue
				}
				err := b.Embeddings.UpsertEmbedding(gctx, &core.Embedding{
					OwnerID:      job.ID,
					Vector:       embedding.Embed(job.Text),
					ModelName:    embedding.ModelName,
					ModelVersion: embedding.ModelVersion,
					UpdatedAt:    now,
				})
				if err != nil {
					return err
				}
				counts[i]++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total int
	for _, n := range counts {
		total += n
	}
	b.logger().Info("embeddings refreshed",
		zap.Int("jobs", len(jobs)),
		zap.Int("recomputed", total))
	return total, nil
}

// embeddingFresh 判断职位的存量向量是否仍然可用。
func (b *Batch) embeddingFresh(ctx context.Context, job *core.JobFeatures) bool {
	emb, err := b.Embeddings.GetEmbedding(ctx, job.ID)
	if err != nil || emb == nil {
		return false
	}
	if emb.ModelName != embedding.ModelName || emb.ModelVersion != embedding.ModelVersion {
		return false
	}
	return !emb.UpdatedAt.Before(job.PostedAt)
}

// batchPoolLimit 是批任务单轮扫描的职位数上限。
const batchPoolLimit = 10000

func (b *Batch) recentJobs(ctx context.Context, days int) ([]*core.JobFeatures, error) {
	records, err := b.Profiles.ListRecentJobs(ctx, batchPoolLimit, days)
	if err != nil {
		return nil, core.NewDomainErrorWithCause(core.ModuleProfile, core.ErrorCodeDataSourceUnavailable,
			"batch: job pool unavailable", err)
	}
	jobs := make([]*core.JobFeatures, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		jobs = append(jobs, feature.BuildJobFeatures(rec))
	}
	return jobs, nil
}

// shard 把 [0,n) 切成至多 concurrency 份连续区间。
func (b *Batch) shard(n int) [][2]int {
	if n == 0 {
		return nil
	}
	c := b.concurrency()
	if c > n {
		c = n
	}
	size := (n + c - 1) / c
	var shards [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		shards = append(shards, [2]int{start, end})
	}
	return shards
}
