// Package service 是 matchkit 的编排层：把召回、过滤、打分、重排节点
// 组装成面向调用方的推荐与检索入口，并承担缓存、遥测与批任务。
// 叶子包不打日志；结构化日志（zap）只出现在这一层。
package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/rushteam/matchkit/core"
)

// StoreTelemetry 把曝光记录落到 KV 存储并打结构化日志，实现 core.Telemetry。
// 曝光历史与 filter.ExposedFilter 读的是同一个 key
// （"{prefix}:{userID}"，JSON [{job_id, timestamp}]），
// 写入即参与下一次请求的疲劳过滤。
//
// 所有失败只打日志，绝不影响调用方的排序结果。
type StoreTelemetry struct {
	Store  core.Store
	Logger *zap.Logger

	// KeyPrefix 默认 "user:exposed"
	KeyPrefix string

	// HistoryWindow 是曝光历史的保留窗口，默认 14 天
	HistoryWindow time.Duration

	// Now 便于测试注入
	Now func() time.Time
}

type exposedEntry struct {
	JobID     string `json:"job_id"`
	Timestamp int64  `json:"timestamp"`
}

func (t *StoreTelemetry) logger() *zap.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return zap.NewNop()
}

func (t *StoreTelemetry) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *StoreTelemetry) prefix() string {
	if t.KeyPrefix != "" {
		return t.KeyPrefix
	}
	return "user:exposed"
}

func (t *StoreTelemetry) window() time.Duration {
	if t.HistoryWindow > 0 {
		return t.HistoryWindow
	}
	return 14 * 24 * time.Hour
}

// LogExposures 实现 core.Telemetry：把一批曝光追加进用户的曝光历史。
// 读-改-写同一 key；超出保留窗口的旧记录顺带剪掉。
func (t *StoreTelemetry) LogExposures(ctx context.Context, exposures []*core.Exposure) {
	if t == nil || t.Store == nil || len(exposures) == 0 {
		return
	}
	now := t.now()
	cutoff := now.Add(-t.window()).Unix()

	byUser := make(map[string][]*core.Exposure)
	for _, exp := range exposures {
		if exp == nil || exp.UserID == "" || exp.JobID == "" {
			continue
		}
		byUser[exp.UserID] = append(byUser[exp.UserID], exp)
	}

	for userID, batch := range byUser {
		key := t.prefix() + ":" + userID

		var history []exposedEntry
		if raw, err := t.Store.Get(ctx, key); err == nil {
			_ = json.Unmarshal(raw, &history)
		}

		kept := history[:0]
		for _, e := range history {
			if e.Timestamp >= cutoff {
				kept = append(kept, e)
			}
		}
		for _, exp := range batch {
			kept = append(kept, exposedEntry{JobID: exp.JobID, Timestamp: now.Unix()})
		}

		raw, err := json.Marshal(kept)
		if err != nil {
			continue
		}
		ttl := int(t.window() / time.Second)
		if err := t.Store.Set(ctx, key, raw, ttl); err != nil {
			t.logger().Warn("exposure write failed",
				zap.String("user_id", userID),
				zap.Int("count", len(batch)),
				zap.Error(err))
			continue
		}
		t.logger().Debug("exposures logged",
			zap.String("user_id", userID),
			zap.Int("count", len(batch)))
	}
}

// LogEvent 实现 core.Telemetry：事件只进日志。
func (t *StoreTelemetry) LogEvent(ctx context.Context, name string, fields map[string]any) {
	if t == nil {
		return
	}
	zapFields := make([]zap.Field, 0, len(fields)+1)
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	t.logger().Info(name, zapFields...)
}

var _ core.Telemetry = (*StoreTelemetry)(nil)
