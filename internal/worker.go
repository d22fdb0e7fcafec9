package internal

import "sync"

// worker is the background goroutine backing CollectAsync and the
// allocator's auto-collect heuristic (spec.md §4.6). It is woken by a
// condition variable rather than polling, matching the cond-variable idiom
// already established for CoordinationMutex's collector-mode park/wake, and
// performs a single synchronous Collect per wake.
type worker struct {
	r *Registry

	mu      sync.Mutex
	cond    *sync.Cond
	pending bool
	started bool
	stopped bool
	done    chan struct{}
}

func newWorker(r *Registry) *worker {
	w := &worker{r: r}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// start launches the worker goroutine. Calling start more than once, or
// after stop, has no effect.
func (w *worker) start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	w.done = make(chan struct{})
	go w.loop()
}

// wake schedules a collection. It never blocks; if the worker is already
// awake and about to run, the request coalesces with the one in flight.
func (w *worker) wake() {
	w.mu.Lock()
	w.pending = true
	w.cond.Signal()
	w.mu.Unlock()
}

// stop requests the worker goroutine exit and waits for it to do so. Safe
// to call even if start was never called.
func (w *worker) stop() {
	w.mu.Lock()
	if !w.started || w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	w.cond.Signal()
	w.mu.Unlock()
	<-w.done
}

func (w *worker) loop() {
	defer close(w.done)
	for {
		w.mu.Lock()
		for !w.pending && !w.stopped {
			w.cond.Wait()
		}
		if w.stopped {
			w.mu.Unlock()
			return
		}
		w.pending = false
		w.mu.Unlock()

		w.r.Collect()
	}
}
