// Package observability lets callers watch the placement engine, the result
// cache and the HTTP API without those packages depending on a metrics or
// tracing backend.
//
// Three hook interfaces cover the three event sources. Each has a no-op
// implementation that is installed by default; embedding it lets a custom
// hook implement only the events it cares about:
//
//	type resetCounter struct {
//	    observability.NoopPipelineHooks
//	    n atomic.Int64
//	}
//
//	func (c *resetCounter) OnReset(context.Context, string, string, string, int) { c.n.Add(1) }
//
// Hooks observe only. Placement results never depend on what is registered.
//
// # Registration
//
// Register installs any non-nil hooks from a [Hooks] bundle and returns a
// function restoring the previous set, which suits tests:
//
//	restore := observability.Register(observability.Hooks{Pipeline: counter})
//	defer restore()
//
// Emitters read the current set with [Pipeline], [Cache] and [HTTP].
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the middleware pipeline driver.
type PipelineHooks interface {
	// OnComputeStart fires before the first stage runs.
	OnComputeStart(ctx context.Context, placement string, stages int)

	// OnReset fires when a stage requests a pipeline restart. count is the
	// number of resets so far, including this one.
	OnReset(ctx context.Context, stage, from, to string, count int)

	// OnComputeComplete fires once per call, with the error if it failed.
	OnComputeComplete(ctx context.Context, placement string, resets int, duration time.Duration, err error)
}

// CacheHooks receives result cache events. kind is "result" or "sweep".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError fires for requests answered with an error body.
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnComputeStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnReset(context.Context, string, string, string, int)                 {}
func (NoopPipelineHooks) OnComputeComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// Hooks bundles one implementation per event source. Nil fields leave the
// current registration in place.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

func defaults() *Hooks {
	return &Hooks{Pipeline: NoopPipelineHooks{}, Cache: NoopCacheHooks{}, HTTP: NoopHTTPHooks{}}
}

var (
	// current is replaced wholesale on every change; readers never lock.
	current atomic.Pointer[Hooks]
	// writeMu serializes the read-modify-write in Register.
	writeMu sync.Mutex
)

func init() {
	current.Store(defaults())
}

// Register installs the non-nil hooks in h and returns a function that
// restores the set that was active before the call.
func Register(h Hooks) (restore func()) {
	writeMu.Lock()
	defer writeMu.Unlock()

	prev := current.Load()
	next := *prev
	if h.Pipeline != nil {
		next.Pipeline = h.Pipeline
	}
	if h.Cache != nil {
		next.Cache = h.Cache
	}
	if h.HTTP != nil {
		next.HTTP = h.HTTP
	}
	current.Store(&next)
	return func() { current.Store(prev) }
}

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) { Register(Hooks{Pipeline: h}) }

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) { Register(Hooks{Cache: h}) }

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) { Register(Hooks{HTTP: h}) }

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().Pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().Cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current.Load().HTTP }

// Reset restores the no-op hooks.
func Reset() {
	writeMu.Lock()
	defer writeMu.Unlock()
	current.Store(defaults())
}
