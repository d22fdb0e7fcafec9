package internal

import (
	"sync"
	"sync/atomic"

	"github.com/zephyrtronium/gclib/internal/dlist"
)

// Logger is the minimal diagnostics sink the collector reports through:
// one line per completed collection cycle (cycle number, resulting
// alloc_size, number of terminated thread records reaped). Individual
// phases are not logged. A new Registry's logger is a no-op; SetLogger
// installs another.
type Logger interface {
	Logf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Logf(string, ...any) {}

// RegistryOptions configures a new Registry, the Go analogue of
// spec.md §6's init(heap_or_limit_config).
type RegistryOptions struct {
	// AllocLimit is the allocation-size threshold (in bytes) past which the
	// allocator's auto-collect heuristic becomes eligible to fire. Zero
	// means "never auto-collect from the limit check".
	AllocLimit uint64
	// AutoCollectDelta is the minimum growth, since the last collection,
	// required before the heuristic actually schedules a collection.
	AutoCollectDelta uint64
	// Malloc is the memory source new blocks are obtained from. Nil means
	// DefaultMalloc.
	Malloc MallocFunc
	// StartWorker starts the background async collection worker
	// immediately. Most callers want true; tests that only exercise
	// synchronous Collect can leave it false.
	StartWorker bool
}

// Registry is the collector's GlobalState: the set of active and
// terminated thread records, the running collection cycle counter, the
// sorted-block working set rebuilt at each Collect, and the global
// allocation counters.
type Registry struct {
	mu sync.Mutex

	active     dlist.List[*ThreadRecord]
	terminated dlist.List[*ThreadRecord]

	cycle     uint64
	allBlocks []*BlockHeader

	allocSize               atomic.Uint64
	allocLimit              atomic.Uint64
	lastCollectionAllocSize atomic.Uint64
	autoCollectDelta        atomic.Uint64

	malloc MallocFunc
	logger atomic.Pointer[Logger]

	worker *worker

	lastPause atomic.Int64 // nanoseconds, last observed freeze duration
}

// NewRegistry returns a ready-to-use Registry per opts.
func NewRegistry(opts RegistryOptions) *Registry {
	r := &Registry{malloc: opts.Malloc}
	r.allocLimit.Store(opts.AllocLimit)
	r.autoCollectDelta.Store(opts.AutoCollectDelta)
	var l Logger = noopLogger{}
	r.logger.Store(&l)
	r.worker = newWorker(r)
	if opts.StartWorker {
		r.worker.start()
	}
	return r
}

// SetLogger installs l as the registry's diagnostics sink. Passing nil
// restores the no-op logger.
func (r *Registry) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	r.logger.Store(&l)
}

func (r *Registry) log(format string, args ...any) {
	(*r.logger.Load()).Logf(format, args...)
}

// Attach creates a new ThreadRecord and registers it as active. It is the
// Go analogue of spec.md §5's "thread-local lazy initialization": rather
// than happening implicitly on first use from an OS thread, it is an
// explicit call each participating goroutine makes once (see DESIGN.md
// Open Question decision 5).
func (r *Registry) Attach() *ThreadRecord {
	tr := NewThreadRecord()
	r.mu.Lock()
	r.active.Append(&tr.elem)
	r.mu.Unlock()
	return tr
}

// Detach unregisters tr. If it owns no blocks and no root pointers it is
// deleted immediately; otherwise it survives, moved to the terminated list,
// until a later Collect finds it empty (spec.md §3 ThreadRecord lifecycle).
func (r *Registry) Detach(tr *ThreadRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tr.elem.Linked() {
		dlist.Detach(&tr.elem)
	}
	tr.terminated = true
	if !tr.Empty() {
		r.terminated.Append(&tr.elem)
	}
}

// AllocSize returns the current global allocation size, in bytes, of all
// live blocks across every thread record.
func (r *Registry) AllocSize() uint64 { return r.allocSize.Load() }

// AllocLimit returns the configured auto-collect threshold.
func (r *Registry) AllocLimit() uint64 { return r.allocLimit.Load() }

// SetAllocLimit installs a new auto-collect threshold.
func (r *Registry) SetAllocLimit(v uint64) { r.allocLimit.Store(v) }

// LastCollectionAllocSize returns AllocSize as of the end of the most
// recent Collect.
func (r *Registry) LastCollectionAllocSize() uint64 { return r.lastCollectionAllocSize.Load() }

// maybeAutoCollect implements spec.md §4.4 step 1's heuristic: a
// collection is scheduled (asynchronously; this never blocks) only once
// alloc_size has reached the configured limit and grown by more than
// autoCollectDelta since the last collection finished.
func (r *Registry) maybeAutoCollect() {
	limit := r.allocLimit.Load()
	if limit == 0 {
		return
	}
	size := r.allocSize.Load()
	if size < limit {
		return
	}
	last := r.lastCollectionAllocSize.Load()
	if size <= last {
		return
	}
	if size-last <= r.autoCollectDelta.Load() {
		return
	}
	r.CollectAsync()
}

// CollectAsync wakes the background worker to perform a collection. It
// never blocks.
func (r *Registry) CollectAsync() {
	r.worker.wake()
}

// StopWorker shuts down the background worker. Safe to call even if it was
// never started.
func (r *Registry) StopWorker() {
	r.worker.stop()
}
