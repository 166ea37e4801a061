// Package observability lets treeviz report what it does without depending
// on a metrics library.
//
// Instrumented code calls the hooks returned by [Pipeline], [Cache] and
// [HTTP]. Until something is registered those are no-ops. A program that
// wants metrics registers an implementation once at startup:
//
//	m := prom.New()
//	observability.Register(m)
//	defer observability.Reset()
//
// [Register] installs m for every hook interface it implements; the
// Set* functions install one category at a time. The [prom] subpackage is
// the Prometheus implementation used by "treeviz serve".
//
// [prom]: https://pkg.go.dev/github.com/matzehuels/treeviz/pkg/observability/prom
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives diagram build and render events.
type PipelineHooks interface {
	// Build turns a data tree into a diagram description.
	OnBuildStart(ctx context.Context, nodes, edges int)
	OnBuildComplete(ctx context.Context, nodes, edges int, duration time.Duration, err error)

	// Render runs once per requested image format; cache hits do not render.
	OnRenderStart(ctx context.Context, backend, format string)
	OnRenderComplete(ctx context.Context, backend, format string, size int, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. backend is "file", "redis"
// or "mongo"; op is "get", "set" or "delete".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, backend string)
	OnCacheMiss(ctx context.Context, backend string)
	OnCacheSet(ctx context.Context, backend string, size int)
	OnCacheError(ctx context.Context, backend, op string, err error)
}

// HTTPHooks receives one event per served API request. route is the
// matched route pattern, so path parameters do not explode cardinality.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnBuildStart(context.Context, int, int)                        {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string, string)                 {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)                  {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)                 {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int)             {}
func (NoopCacheHooks) OnCacheError(context.Context, string, string, error) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// slot holds the current implementation of one hook interface. Reads happen
// on every event, so they are lock-free.
type slot[T any] struct {
	v    atomic.Pointer[T]
	noop T
}

func (s *slot[T]) get() T {
	if p := s.v.Load(); p != nil {
		return *p
	}
	return s.noop
}

func (s *slot[T]) set(h T) { s.v.Store(&h) }
func (s *slot[T]) reset()  { s.v.Store(nil) }

var (
	pipelineSlot = slot[PipelineHooks]{noop: NoopPipelineHooks{}}
	cacheSlot    = slot[CacheHooks]{noop: NoopCacheHooks{}}
	httpSlot     = slot[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.set(h)
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.set(h)
	}
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.set(h)
	}
}

// Register installs h for each hook interface it implements and reports
// how many it matched.
func Register(h any) int {
	n := 0
	if p, ok := h.(PipelineHooks); ok {
		SetPipelineHooks(p)
		n++
	}
	if c, ok := h.(CacheHooks); ok {
		SetCacheHooks(c)
		n++
	}
	if x, ok := h.(HTTPHooks); ok {
		SetHTTPHooks(x)
		n++
	}
	return n
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.get() }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset goes back to the no-op hooks.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
