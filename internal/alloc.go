package internal

import (
	"unsafe"

	"github.com/zephyrtronium/gclib/internal/dlist"
)

// Alloc is the allocator entry point (spec.md §4.4): it reserves
// payloadSize bytes via the registry's malloc, records the block against
// tr, redirects tr's pointer-list cursor to the new block's interior list
// for the duration of initFn, and rolls back every side effect if initFn
// fails.
//
// The whole call executes under tr.Mu, a single scoped acquisition that
// prevents a collection from observing a block mid-construction (see
// SPEC_FULL.md §4's note on the original's Unknown/Valid/Invalid status, which
// this single critical section makes unnecessary).
func Alloc(r *Registry, tr *ThreadRecord, payloadSize uintptr, vtable *VTable, initFn func(payload unsafe.Pointer) error) (*BlockHeader, error) {
	r.maybeAutoCollect()

	tr.lock()
	defer tr.unlock()

	block := newBlockHeader(payloadSize, vtable, tr, r.malloc)
	if block == nil {
		return nil, ErrOutOfMemory
	}

	tr.Blocks.Append(&block.elem)
	prevCursor := tr.SwapCursor(&block.Ptrs)
	r.allocSize.Add(uint64(block.Size))

	if err := initFn(block.Payload()); err != nil {
		tr.cursor = prevCursor
		dlist.Detach(&block.elem)
		r.allocSize.Add(-uint64(block.Size))
		block.free()
		return nil, &ConstructorError{Cause: err}
	}

	tr.cursor = prevCursor
	return block, nil
}

// Delete performs explicit immediate destruction (spec.md §4.7): finalize
// runs first (outside any lock, matching Collect's sweep, which also
// finalizes outside the freeze), then the block is detached from its
// owner's list and its memory released. Safe regardless of whether a
// collection happens later, since after this call the block is reachable
// from no thread-record list.
func Delete(r *Registry, block *BlockHeader) {
	if block == nil {
		return
	}
	if block.VTable != nil && block.VTable.Finalize != nil {
		block.VTable.Finalize(unsafe.Pointer(block.Start), unsafe.Pointer(block.End))
	}

	owner := block.Owner
	owner.lock()
	if block.elem.Linked() {
		dlist.Detach(&block.elem)
	}
	owner.unlock()

	r.allocSize.Add(-uint64(block.Size))
	block.free()
}
