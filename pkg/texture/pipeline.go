package texture

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/runZeroInc/lludp/pkg/frame"
	"github.com/runZeroInc/lludp/pkg/registry"
	"github.com/runZeroInc/lludp/pkg/transport"
	"github.com/runZeroInc/lludp/pkg/wire"
)

// Default admission and timing constants (§4.4 "Admission", §9 "Defaults").
const (
	DefaultMaxConcurrent    = 8
	DefaultNegativeCacheCap = 1 << 16
	DefaultRefreshInterval  = 500 * time.Millisecond
	DefaultPriorityBumpRate = 1.05
	DefaultRequestTimeout   = 45 * time.Second
	DefaultHeaderWait       = 5 * time.Second
)

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithMaxConcurrent sets the admission semaphore's weight (§4.4 "bounded
// concurrency").
func WithMaxConcurrent(n int64) Option {
	return func(p *Pipeline) { p.sem = semaphore.NewWeighted(n) }
}

// WithRefreshInterval overrides the priority-bump/timeout sweep cadence.
func WithRefreshInterval(d time.Duration) Option {
	return func(p *Pipeline) { p.refreshInterval = d }
}

// WithRequestTimeout overrides how long an in-progress request may sit
// without a packet before the refresh sweep finalizes it as StateTimeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.requestTimeout = d }
}

// WithLogger overrides the default logrus.Logger used for callback panics
// and ingress diagnostics (§9 "ambient stack: structured logging via the
// same library the teacher uses").
func WithLogger(l *logrus.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// Pipeline is the texture subsystem's aggregate root (§4.4): it owns the
// request registry, the gated asset cache, the admission semaphore and the
// background scheduler/refresh goroutines, and exposes the three upward
// operations named in §6.
type Pipeline struct {
	registry *registry.Registry[Request]
	cache    *gatedCache
	sender   transport.FrameSender
	sem      *semaphore.Weighted
	log      *logrus.Logger

	admit chan wire.AssetId

	refreshInterval time.Duration
	requestTimeout  time.Duration

	stop chan struct{}

	stats Stats
}

// Stats holds the cumulative counters pkg/metrics exposes as Prometheus
// series. All fields are updated with atomic operations so Snapshot never
// takes a lock shared with the request hot path.
type Stats struct {
	BytesTransferred int64 `tcpi:"name=bytes_transferred,prom_type=counter,prom_help='Total bytes of texture data received across completed transfers.'"`
	Finished         int64 `tcpi:"name=finished,prom_type=counter,prom_help='Total texture requests that finished successfully.'"`
	TimedOut         int64 `tcpi:"name=timed_out,prom_type=counter,prom_help='Total texture requests finalized by the refresh sweep timeout.'"`
	Aborted          int64 `tcpi:"name=aborted,prom_type=counter,prom_help='Total texture requests cancelled via AbortTexture.'"`
	NotFound         int64 `tcpi:"name=not_found,prom_type=counter,prom_help='Total texture requests the simulator reported as not in its database.'"`
	CacheHits        int64 `tcpi:"name=cache_hits,prom_type=counter,prom_help='Total RequestTexture calls satisfied directly from the asset cache.'"`
	CacheMisses      int64 `tcpi:"name=cache_misses,prom_type=counter,prom_help='Total RequestTexture calls that missed the asset cache.'"`
}

// Snapshot returns a point-in-time copy of the pipeline's cumulative
// counters, for pkg/metrics.Collector.Collect.
func (p *Pipeline) Snapshot() Stats {
	return Stats{
		BytesTransferred: atomic.LoadInt64(&p.stats.BytesTransferred),
		Finished:         atomic.LoadInt64(&p.stats.Finished),
		TimedOut:         atomic.LoadInt64(&p.stats.TimedOut),
		Aborted:          atomic.LoadInt64(&p.stats.Aborted),
		NotFound:         atomic.LoadInt64(&p.stats.NotFound),
		CacheHits:        atomic.LoadInt64(&p.stats.CacheHits),
		CacheMisses:      atomic.LoadInt64(&p.stats.CacheMisses),
	}
}

// NewPipeline wires a Pipeline against a CacheStore and a FrameSender. Both
// are injected collaborators (§6); the pipeline never constructs its own
// cache backend or socket.
func NewPipeline(store CacheStore, sender transport.FrameSender, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry:        registry.New[Request](),
		cache:           newGatedCache(store, DefaultNegativeCacheCap),
		sender:          sender,
		sem:             semaphore.NewWeighted(DefaultMaxConcurrent),
		log:             logrus.StandardLogger(),
		admit:           make(chan wire.AssetId, 256),
		refreshInterval: DefaultRefreshInterval,
		requestTimeout:  DefaultRequestTimeout,
		stop:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RequestTexture implements §4.4's three-step admission: cache short
// circuit, coalesce, else admit a new Pending request.
func (p *Pipeline) RequestTexture(id wire.AssetId, kind frame.ImageKind, priority float32, discard int8, progressive bool, sink Sink) {
	select {
	case <-p.stop:
		sink(Result{State: StateAborted})
		return
	default:
	}
	if data, ok := p.cache.Get(id); ok {
		atomic.AddInt64(&p.stats.CacheHits, 1)
		sink(Result{State: StateFinished, Transferred: uint32(len(data)), Total: uint32(len(data)), Data: data})
		return
	}
	atomic.AddInt64(&p.stats.CacheMisses, 1)

	req, inserted := p.registry.GetOrInsert(id, func() *Request {
		return NewRequest(id, kind, priority, discard, progressive, sink)
	})
	if !inserted {
		req.AddCallback(sink)
		req.SetPriority(priority)
		return
	}

	select {
	case p.admit <- id:
	case <-p.stop:
	}
	// A Shutdown that drained the registry before this insert landed would
	// otherwise leave the request tracked but never finalized.
	select {
	case <-p.stop:
		p.AbortTexture(id)
	default:
	}
}

// AbortTexture fires a request's cancel signal and, if it is still
// tracked, finalizes it as StateAborted (§4.4 "Cancellation").
func (p *Pipeline) AbortTexture(id wire.AssetId) {
	req, ok := p.registry.TryRemove(id)
	if !ok {
		return
	}
	req.Cancel.Fire()
	p.finalize(req, Result{State: StateAborted})
}

// InFlightCount reports the number of requests the registry currently
// tracks, regardless of lifecycle stage (§6 "in_flight_count() -> usize").
func (p *Pipeline) InFlightCount() int {
	return p.registry.Len()
}

// finalize runs the terminal callback sequence exactly once per request:
// release the admission slot if one was held, fire the terminal result, and
// cache successful bytes (§4.4 "atomic completion path").
func (p *Pipeline) finalize(req *Request, result Result) {
	req.mu.Lock()
	already := req.State.Terminal()
	req.State = result.State
	req.mu.Unlock()
	if already {
		return
	}
	close(req.Done)

	switch result.State {
	case StateFinished:
		atomic.AddInt64(&p.stats.Finished, 1)
		atomic.AddInt64(&p.stats.BytesTransferred, int64(len(result.Data)))
	case StateTimeout:
		atomic.AddInt64(&p.stats.TimedOut, 1)
	case StateAborted:
		atomic.AddInt64(&p.stats.Aborted, 1)
	case StateNotFound:
		atomic.AddInt64(&p.stats.NotFound, 1)
	}

	req.fireCallbacks(result, func(rec any) {
		p.log.WithField("asset_id", req.AssetID).Errorf("texture callback panicked: %v", rec)
	})

	if result.State == StateFinished && len(result.Data) > 0 {
		if err := p.cache.Put(req.AssetID, result.Data); err != nil {
			p.log.WithError(err).WithField("asset_id", req.AssetID).Warn("failed to persist texture to cache")
		}
	}
}

// Shutdown cancels every in-flight request as StateAborted and stops the
// scheduler and refresh goroutines started by Run (§6 "shutdown()"). p.stop
// is closed before the registry is drained; RequestTexture checks p.stop
// both before and after inserting, so a call made after or racing Shutdown
// reports StateAborted to its sink instead of leaving a request behind.
func (p *Pipeline) Shutdown() {
	close(p.stop)
	for id := range p.registry.Snapshot() {
		p.AbortTexture(id)
	}
}

// Close stops the scheduler and refresh goroutines started by Run without
// touching in-flight requests. Shutdown is the usual entry point; Close
// exists for callers that manage request cancellation themselves.
func (p *Pipeline) Close() {
	select {
	case <-p.stop:
	default:
		close(p.stop)
	}
}
