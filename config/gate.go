package config

import (
	"context"
	"sync"

	"github.com/rushteam/matchkit/core"
)

// StaticGate 是内存中的发布开关实现（kill-switch），实现 core.FeatureGate。
// 未设置过的 flag 返回调用方给出的默认值。
type StaticGate struct {
	mu    sync.RWMutex
	flags map[string]bool
}

func NewStaticGate(flags map[string]bool) *StaticGate {
	g := &StaticGate{flags: make(map[string]bool, len(flags))}
	for k, v := range flags {
		g.flags[k] = v
	}
	return g
}

// Set 设置一个开关；运行期可随时翻转。
func (g *StaticGate) Set(flagKey string, enabled bool) {
	g.mu.Lock()
	g.flags[flagKey] = enabled
	g.mu.Unlock()
}

// IsEnabled 实现 core.FeatureGate。subjectID 在静态实现里不参与判定，
// 保留参数是为了和按用户灰度的实现保持同一调用面。
func (g *StaticGate) IsEnabled(ctx context.Context, flagKey, subjectID string, defaultVal bool) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if v, ok := g.flags[flagKey]; ok {
		return v
	}
	return defaultVal
}

var _ core.FeatureGate = (*StaticGate)(nil)
