// Package observability provides instrumentation hooks without tying the
// library packages to a metrics backend.
//
// Hook interfaces have no-op defaults. The server registers Prometheus-backed
// implementations at startup; the CLI leaves the defaults in place.
//
//	func main() {
//	    observability.SetPipelineHooks(metrics)
//	    observability.SetCacheHooks(metrics)
//	    observability.SetQueryHooks(metrics)
//	}
//
// Packages emit events through the accessors:
//
//	observability.Pipeline().OnLoadStart(ctx, source)
//	// ... read and normalize ...
//	observability.Pipeline().OnLoadComplete(ctx, source, modules, issues, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from dataset loading, layout and rendering.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, modules, issues int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, nodeCount int)
	OnLayoutComplete(ctx context.Context, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// QueryHooks receives events from interactive queries.
type QueryHooks interface {
	// OnReachability records a reachability query and the closure size.
	OnReachability(ctx context.Context, size int, duration time.Duration, err error)

	// OnFilter records a filter evaluation. empty is set when nothing matched.
	OnFilter(ctx context.Context, survivors int, empty bool, duration time.Duration)

	// OnTrigger records an interaction trigger such as "select" or "reset".
	OnTrigger(ctx context.Context, trigger string, err error)
}

// NoopPipelineHooks ignores all pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                             {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, time.Duration, error)         {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks ignores all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopQueryHooks ignores all query events.
type NoopQueryHooks struct{}

func (NoopQueryHooks) OnReachability(context.Context, int, time.Duration, error) {}
func (NoopQueryHooks) OnFilter(context.Context, int, bool, time.Duration)        {}
func (NoopQueryHooks) OnTrigger(context.Context, string, error)                  {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	queryHooks    QueryHooks    = NoopQueryHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetQueryHooks registers query hooks. A nil h is ignored.
func SetQueryHooks(h QueryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		queryHooks = h
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

// Query returns the registered query hooks.
func Query() QueryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return queryHooks
}

// Reset restores the no-op defaults. Used by tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	queryHooks = NoopQueryHooks{}
}
