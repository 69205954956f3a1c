// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through package-level hooks that default to no-ops.
// The application registers real implementations once at startup, so library
// packages never import a logging or metrics backend themselves.
//
// # Usage
//
// Register hooks at application startup:
//
//	observability.SetPipelineHooks(observability.NewLogHooks(logger))
//	observability.SetCacheHooks(observability.NewLogHooks(logger))
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnComputeStart(ctx, len(sections))
//	// ... size every section ...
//	observability.Pipeline().OnComputeComplete(ctx, len(sections), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the plot pipeline.
type PipelineHooks interface {
	// Sizing of the whole section list.
	OnComputeStart(ctx context.Context, sections int)
	OnComputeComplete(ctx context.Context, sections int, duration time.Duration, err error)

	// Rendering of one visualization type in one or more formats.
	OnRenderStart(ctx context.Context, vizType string, formats []string)
	OnRenderComplete(ctx context.Context, vizType string, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnComputeStart(context.Context, int)                                      {}
func (NoopPipelineHooks) OnComputeComplete(context.Context, int, time.Duration, error)             {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
