// Package observability lets a binary observe scanner runs, pipeline stages,
// cache traffic and served requests without the library packages depending
// on a metrics backend.
//
// Libraries fetch the current hooks at the call site:
//
//	observability.Scan().OnScanComplete(ctx, "terraform", nodes, elapsed, err)
//
// Every hook defaults to [Noop]. Binaries replace them at startup, usually
// through [Metrics.Install]:
//
//	observability.NewMetrics().Install()
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// ScanHooks observes the scanner registry. err is non-nil when a scanner
// failed, panicked or timed out.
type ScanHooks interface {
	OnScanStart(ctx context.Context, scanner string)
	OnScanComplete(ctx context.Context, scanner string, nodeCount int, d time.Duration, err error)
}

// PipelineHooks observes the merge, layout and render stages.
type PipelineHooks interface {
	OnMergeComplete(ctx context.Context, nodeCount, edgeCount int, d time.Duration)
	OnLayoutStart(ctx context.Context, nodeCount int)
	OnLayoutComplete(ctx context.Context, d time.Duration, err error)
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, d time.Duration, err error)
}

// CacheHooks observes cache lookups. keyType is "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks observes the diagram server. route is the chi route pattern,
// not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, d time.Duration)
}

// Noop implements every hook interface and does nothing.
type Noop struct{}

func (Noop) OnScanStart(context.Context, string)                                 {}
func (Noop) OnScanComplete(context.Context, string, int, time.Duration, error)   {}
func (Noop) OnMergeComplete(context.Context, int, int, time.Duration)            {}
func (Noop) OnLayoutStart(context.Context, int)                                  {}
func (Noop) OnLayoutComplete(context.Context, time.Duration, error)              {}
func (Noop) OnRenderStart(context.Context, string)                               {}
func (Noop) OnRenderComplete(context.Context, string, int, time.Duration, error) {}
func (Noop) OnCacheHit(context.Context, string)                                  {}
func (Noop) OnCacheMiss(context.Context, string)                                 {}
func (Noop) OnCacheSet(context.Context, string, int)                             {}
func (Noop) OnRequest(context.Context, string, string)                           {}
func (Noop) OnResponse(context.Context, string, string, int, time.Duration)      {}

// slot holds the current implementation of one hook interface. A nil
// pointer means Noop.
type slot[H any] struct {
	p atomic.Pointer[H]
}

func (s *slot[H]) load() H {
	if h := s.p.Load(); h != nil {
		return *h
	}
	var noop any = Noop{}
	return noop.(H)
}

func (s *slot[H]) store(h H) {
	if any(h) == nil {
		return
	}
	s.p.Store(&h)
}

var (
	scanSlot     slot[ScanHooks]
	pipelineSlot slot[PipelineHooks]
	cacheSlot    slot[CacheHooks]
	httpSlot     slot[HTTPHooks]
)

// Scan returns the installed scan hooks.
func Scan() ScanHooks { return scanSlot.load() }

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.load() }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return cacheSlot.load() }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.load() }

// SetScanHooks installs h. A nil h leaves the current hooks in place; the
// same holds for the other setters.
func SetScanHooks(h ScanHooks) { scanSlot.store(h) }

func SetPipelineHooks(h PipelineHooks) { pipelineSlot.store(h) }

func SetCacheHooks(h CacheHooks) { cacheSlot.store(h) }

func SetHTTPHooks(h HTTPHooks) { httpSlot.store(h) }

// Reset restores Noop everywhere. Tests that install hooks defer it.
func Reset() {
	scanSlot.p.Store(nil)
	pipelineSlot.p.Store(nil)
	cacheSlot.p.Store(nil)
	httpSlot.p.Store(nil)
}
