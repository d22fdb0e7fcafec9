package internal

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// lockState is the state of a CoordinationMutex, packed into a single
// atomic word so that lock() can attempt its fast path with one CAS.
type lockState uint32

const (
	unlocked lockState = iota
	mutatorLocked
	collectorLocked
)

// CoordinationMutex is a two-mode lock: a spin-contended fast path for
// mutator critical sections, and a cooperative, condition-variable-backed
// wait for mutators while a collection is in progress. It is grounded on
// the CAS-packed-state-plus-sync.Cond pattern in
// dijkstracula-go-ilock/ilock.go, specialized to the two states (and one
// collector-request flag) the collector actually needs instead of a general
// intention-lock state matrix.
//
// CoordinationMutex provides ordinary, non-reentrant mutual exclusion: a
// second Lock from a goroutine already holding it blocks exactly like a
// second Lock from any other goroutine would. Nested mutator-mode
// reentrancy (spec.md §4.4's init_fn constructing a pointer, which locks
// the owning thread's mutex again) is handled one layer up, by
// ThreadRecord's own lock/unlock, which can safely track nesting because
// exactly one goroutine ever drives a given ThreadRecord (see DESIGN.md).
//
// The zero value is not ready for use; construct one with NewCoordinationMutex.
type CoordinationMutex struct {
	state      atomic.Uint32
	requested  atomic.Bool
	parkMu     sync.Mutex
	parkSignal *sync.Cond
}

// NewCoordinationMutex returns a ready-to-use, unlocked CoordinationMutex.
func NewCoordinationMutex() *CoordinationMutex {
	m := &CoordinationMutex{}
	m.parkSignal = sync.NewCond(&m.parkMu)
	return m
}

// Lock acquires the mutex for a mutator critical section. If a collection
// has set the collector-request flag, arriving mutators park on the
// condition variable instead of spinning, so that once the collector has
// flipped the flag, no later mutator can slip past it.
func (m *CoordinationMutex) Lock() {
	for {
		if m.state.CompareAndSwap(uint32(unlocked), uint32(mutatorLocked)) {
			return
		}
		if m.requested.Load() {
			m.park()
		} else {
			runtime.Gosched()
		}
	}
}

// park waits for a notification from UnlockForCollection. It reacquires
// nothing on return; the caller's loop retries the CAS.
func (m *CoordinationMutex) park() {
	m.parkMu.Lock()
	// Re-check under the park mutex: the collection may have already
	// finished and broadcast between our Load above and taking this lock.
	if m.requested.Load() && m.state.Load() != uint32(unlocked) {
		m.parkSignal.Wait()
	}
	m.parkMu.Unlock()
}

// Unlock releases a mutator-held lock. It never notifies waiters: only a
// collector's release wakes parked mutators.
func (m *CoordinationMutex) Unlock() {
	m.state.Store(uint32(unlocked))
}

// LockForCollection spin-acquires the mutex unconditionally, ignoring any
// existing collector-request flag (there is at most one collection active
// at a time; the registry's global mutex enforces that), then sets the
// collector-request flag. After this returns, every subsequent Lock call by
// any mutator parks instead of spinning.
func (m *CoordinationMutex) LockForCollection() {
	for !m.state.CompareAndSwap(uint32(unlocked), uint32(collectorLocked)) {
		runtime.Gosched()
	}
	m.requested.Store(true)
}

// UnlockForCollection clears the collector-request flag, releases the
// lock, and wakes every parked mutator.
func (m *CoordinationMutex) UnlockForCollection() {
	m.requested.Store(false)
	m.state.Store(uint32(unlocked))
	m.parkMu.Lock()
	m.parkSignal.Broadcast()
	m.parkMu.Unlock()
}
