package internal

import "github.com/zephyrtronium/gclib/internal/dlist"

// ThreadRecord is the collector-visible per-thread (per-Mutator, in this
// Go port's terms — see DESIGN.md Open Question decision 5) state: its coordination
// mutex, its root pointer list, its owned blocks, and the bookkeeping lists
// the collector uses during a cycle.
//
// A ThreadRecord may outlive the goroutine that created it: if it still
// owns blocks or root pointers when its Mutator detaches, it is moved to
// the registry's terminated-threads list until a later Collect finds it
// empty.
type ThreadRecord struct {
	elem dlist.Elem[*ThreadRecord]

	Mu *CoordinationMutex

	// Roots is this thread's root pointer list: every live smart pointer
	// not embedded within a managed block's payload.
	Roots PtrList

	// Blocks is the set of blocks this thread currently owns (reachable as
	// of the last collection, or allocated since).
	Blocks dlist.List[*BlockHeader]

	// Marked is used transiently during a collection's Mark phase: blocks
	// traced as reachable are moved here out of Blocks, then swapped back
	// into Blocks during Partition.
	Marked dlist.List[*BlockHeader]

	// Unreachable is populated by Partition and consumed by Sweep, after
	// the freeze has ended.
	Unreachable dlist.List[*BlockHeader]

	// cursor is the current_ptr_list_cursor: where newly constructed
	// pointers attach. It is Roots except during the body of an Alloc
	// call, when it is redirected to the new block's interior PtrList.
	cursor *PtrList

	// terminated is set once the owning Mutator has detached.
	terminated bool

	// lockDepth counts nested mutator-mode acquisitions made through lock.
	// It is plain, unsynchronized arithmetic: exactly one goroutine ever
	// drives a given ThreadRecord's mutator-side locking (see DESIGN.md),
	// so no other goroutine can observe or race on this field. This is what
	// lets a pointer be constructed inside Alloc's init_fn (spec.md §4.3's
	// "during a gcnew body"), which already holds Mu for the whole call
	// (spec.md §4.4 step 2), without deadlocking on Mu itself, while Mu
	// remains an ordinary, non-reentrant CoordinationMutex safe for use by
	// unrelated concurrent goroutines (the collector's LockForCollection).
	lockDepth int
}

// lock acquires tr.Mu, or, if the calling goroutine already holds it via an
// outer lock call, just bumps the nesting depth.
func (tr *ThreadRecord) lock() {
	if tr.lockDepth > 0 {
		tr.lockDepth++
		return
	}
	tr.Mu.Lock()
	tr.lockDepth = 1
}

// unlock reverses one lock call, releasing Mu only once the nesting depth
// returns to zero.
func (tr *ThreadRecord) unlock() {
	tr.lockDepth--
	if tr.lockDepth == 0 {
		tr.Mu.Unlock()
	}
}

// NewThreadRecord returns a new, empty ThreadRecord whose cursor defaults
// to its own root list.
func NewThreadRecord() *ThreadRecord {
	tr := &ThreadRecord{Mu: NewCoordinationMutex()}
	tr.elem.Value = tr
	tr.cursor = &tr.Roots
	return tr
}

// Cursor returns the list new pointer constructions currently attach to.
func (tr *ThreadRecord) Cursor() *PtrList {
	return tr.cursor
}

// SwapCursor installs list as the current cursor and returns the previous
// one, so callers can restore it (exception-safely, via defer) once done.
// This is the Go analogue of the "scoped guard object" design.md §9
// recommends for the allocator's cursor swap.
func (tr *ThreadRecord) SwapCursor(list *PtrList) (prev *PtrList) {
	prev = tr.cursor
	tr.cursor = list
	return prev
}

// Empty reports whether the thread record owns no blocks and no root
// pointers, the condition under which a terminated record may be deleted.
func (tr *ThreadRecord) Empty() bool {
	return tr.Blocks.Empty() && tr.Roots.Empty()
}
