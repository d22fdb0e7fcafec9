package internal

import (
	"sort"
	"time"
	"unsafe"

	"github.com/zephyrtronium/gclib/internal/dlist"
)

// Collect performs one synchronous Freeze -> Gather -> Mark -> Partition ->
// Resume -> Sweep cycle (spec.md §4.5) and returns the resulting
// AllocSize. If a collection is already in progress, it returns
// immediately with the current AllocSize rather than blocking.
func (r *Registry) Collect() uint64 {
	if !r.mu.TryLock() {
		return r.allocSize.Load()
	}

	start := time.Now()
	locked := r.freeze()
	r.gather()
	r.mark()
	dead := r.partition()
	r.resume(locked)
	r.lastPause.Store(int64(time.Since(start)))
	r.mu.Unlock()

	r.sweep(locked)
	r.log("gclib: cycle %d complete: alloc_size=%d dead_threads=%d", r.cycle, r.allocSize.Load(), len(dead))

	return r.allocSize.Load()
}

// Stats reports a snapshot of the registry's counters, used by the root
// package's ReadStats.
type Stats struct {
	AllocSize               uint64
	AllocLimit              uint64
	LastCollectionAllocSize uint64
	Cycle                   uint64
	LastPause               time.Duration
}

// ReadStats returns a point-in-time snapshot of the registry's counters.
func (r *Registry) ReadStats() Stats {
	return Stats{
		AllocSize:               r.allocSize.Load(),
		AllocLimit:              r.allocLimit.Load(),
		LastCollectionAllocSize: r.lastCollectionAllocSize.Load(),
		Cycle:                   r.cycle,
		LastPause:               time.Duration(r.lastPause.Load()),
	}
}

// freeze acquires every active and terminated thread record's mutex in
// collector mode, in list order, and returns them in the order acquired so
// resume can release them in reverse.
func (r *Registry) freeze() []*ThreadRecord {
	var locked []*ThreadRecord
	r.active.Each(func(e *dlist.Elem[*ThreadRecord]) {
		e.Value.Mu.LockForCollection()
		locked = append(locked, e.Value)
	})
	r.terminated.Each(func(e *dlist.Elem[*ThreadRecord]) {
		e.Value.Mu.LockForCollection()
		locked = append(locked, e.Value)
	})
	return locked
}

// resume releases every mutex freeze acquired, in reverse order, waking
// any parked mutators.
func (r *Registry) resume(locked []*ThreadRecord) {
	for i := len(locked) - 1; i >= 0; i-- {
		locked[i].Mu.UnlockForCollection()
	}
}

// gather walks every thread record's Blocks and rebuilds allBlocks, sorted
// ascending by payload start address, enabling Trace's binary search.
func (r *Registry) gather() {
	r.allBlocks = r.allBlocks[:0]
	collect := func(e *dlist.Elem[*ThreadRecord]) {
		e.Value.Blocks.Each(func(be *dlist.Elem[*BlockHeader]) {
			r.allBlocks = append(r.allBlocks, be.Value)
		})
	}
	r.active.Each(collect)
	r.terminated.Each(collect)
	sort.Slice(r.allBlocks, func(i, j int) bool {
		return r.allBlocks[i].Start < r.allBlocks[j].Start
	})
}

// mark bumps the cycle counter, resets alloc_size, and traces every root
// pointer of every thread record (active and terminated).
func (r *Registry) mark() {
	r.cycle++
	r.allocSize.Store(0)
	trace := func(e *dlist.Elem[*ThreadRecord]) {
		e.Value.Roots.Each(func(pe *dlist.Elem[*PtrNode]) {
			r.trace(uintptr(pe.Value.Value))
		})
	}
	r.active.Each(trace)
	r.terminated.Each(trace)
}

// trace marks the block (if any) containing addr as reachable in the
// current cycle and recurses into its interior pointer list. Binary
// search tolerates interior pointers: it finds the last block whose start
// address is <= addr, per spec.md §4.5's "step one back" rule, and a
// pointer exactly at a block's end is not considered part of it.
func (r *Registry) trace(addr uintptr) {
	if addr == 0 {
		return
	}
	n := len(r.allBlocks)
	idx := sort.Search(n, func(i int) bool { return r.allBlocks[i].Start > addr })
	if idx == 0 {
		return
	}
	b := r.allBlocks[idx-1]
	if !b.Contains(addr) {
		return
	}
	if b.Cycle == r.cycle {
		return
	}
	b.Cycle = r.cycle

	dlist.Detach(&b.elem)
	b.Owner.Marked.Append(&b.elem)
	r.allocSize.Add(uint64(b.Size))

	b.Ptrs.Each(func(pe *dlist.Elem[*PtrNode]) {
		r.trace(uintptr(pe.Value.Value))
	})
}

// partition moves each thread record's remaining (unmarked) blocks to its
// Unreachable list and its Marked blocks back into Blocks, then deletes any
// terminated thread record that ends up owning neither blocks nor roots.
// Returns the thread records that are now garbage.
func (r *Registry) partition() []*ThreadRecord {
	swap := func(tr *ThreadRecord) {
		tr.Unreachable.MoveFrom(&tr.Blocks)
		tr.Blocks.MoveFrom(&tr.Marked)
	}

	r.active.Each(func(e *dlist.Elem[*ThreadRecord]) { swap(e.Value) })

	var dead []*ThreadRecord
	r.terminated.Each(func(e *dlist.Elem[*ThreadRecord]) {
		swap(e.Value)
		if e.Value.Empty() {
			dead = append(dead, e.Value)
		}
	})
	for _, tr := range dead {
		dlist.Detach(&tr.elem)
	}

	r.allBlocks = r.allBlocks[:0]
	r.lastCollectionAllocSize.Store(r.allocSize.Load())
	return dead
}

// sweep runs outside the freeze: for every block partition moved to an
// Unreachable list, it nulls every member pointer's value (so a finalizer
// dereferencing a stale smart pointer field reads null rather than a
// dangling address), then finalizes and frees the block.
func (r *Registry) sweep(touched []*ThreadRecord) {
	for _, tr := range touched {
		tr.Unreachable.Each(func(e *dlist.Elem[*BlockHeader]) {
			b := e.Value
			b.Ptrs.Each(func(pe *dlist.Elem[*PtrNode]) {
				pe.Value.Owner = nil
				pe.Value.Value = nil
			})
			if b.VTable != nil && b.VTable.Finalize != nil {
				b.VTable.Finalize(unsafe.Pointer(b.Start), unsafe.Pointer(b.End))
			}
			b.free()
		})
		tr.Unreachable = dlist.List[*BlockHeader]{}
	}
}
