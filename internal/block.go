package internal

import (
	"unsafe"

	"github.com/zephyrtronium/gclib/internal/dlist"
)

// VTable is the trio of per-type operations the collector needs to scan,
// finalize, and release a block without knowing its concrete Go type. One
// VTable exists per (type, is-array) pair, selected at allocation time and
// recorded in the BlockHeader, mirroring
// original_source/include/gclib/GCBlockHeaderVTable.hpp.
type VTable struct {
	// Scan reports every live pointer address found in [begin, end) to
	// visit. It may be nil: every pointer inside the block already
	// registered itself in the block's PtrList at construction time (the
	// common case for gclib.Ptr[T] fields). The collector's mark phase does
	// not call Scan; it follows only the block's PtrList.
	Scan func(begin, end unsafe.Pointer, visit func(unsafe.Pointer))

	// Finalize runs the destructor(s) for the block's payload. For arrays,
	// it must run in reverse order.
	Finalize func(begin, end unsafe.Pointer)

	// Free releases the raw memory obtained from the MallocFunc that
	// produced it.
	Free func(raw unsafe.Pointer)
}

// MallocFunc is the pluggable memory source for the allocator, matching
// spec.md §6: "the core never assumes a specific allocator." It returns nil
// on failure, exactly like C's malloc.
type MallocFunc func(size uintptr) unsafe.Pointer

// DefaultMalloc backs allocations with ordinary Go heap memory. The
// returned pointer remains reachable from Go's own garbage collector for as
// long as the BlockHeader that wraps it is reachable (BlockHeader.raw holds
// the slice), which is the whole of this collector's "non-moving, points
// into the Go heap" memory model.
func DefaultMalloc(size uintptr) unsafe.Pointer {
	raw := make([]byte, size)
	return unsafe.Pointer(&raw[0])
}

// BlockHeader is the per-allocation metadata for one block managed by the
// collector: a single payload or a contiguous array of payloads, never
// moved once allocated.
type BlockHeader struct {
	elem dlist.Elem[*BlockHeader]

	// Ptrs enumerates every smart pointer whose storage lies within this
	// block's payload range. It is the block's interior PtrList.
	Ptrs PtrList

	// raw retains the backing storage so Go's own GC cannot reclaim it
	// while this BlockHeader is reachable, and is what Free ultimately
	// receives.
	raw []byte

	// Start and End are the payload's address range: [Start, End). Start is
	// used as the sort/search key for Trace's binary search; End is
	// exclusive (a pointer exactly equal to End is not interior).
	Start, End uintptr

	// Cycle is the collection cycle number at which this block was last
	// marked reachable.
	Cycle uint64

	VTable *VTable

	// Owner is the thread record that currently owns this block (it moves
	// between the registry's bookkeeping lists, but always belongs to
	// exactly one ThreadRecord at a time).
	Owner *ThreadRecord

	// Size is the payload size in bytes, the unit of GlobalState.AllocSize
	// accounting.
	Size uintptr

	// freed makes free idempotent, guarding against a double Free. It is a
	// plain field: Delete and Collect's sweep call free without holding the
	// owning thread's mutex.
	freed bool
}

// newBlockHeader allocates size bytes via malloc (or DefaultMalloc if nil)
// and returns a BlockHeader describing the whole allocation as payload. It
// returns nil if malloc fails (OutOfMemory).
func newBlockHeader(size uintptr, vtable *VTable, owner *ThreadRecord, malloc MallocFunc) *BlockHeader {
	if malloc == nil {
		malloc = DefaultMalloc
	}
	if size == 0 {
		size = 1
	}
	raw := malloc(size)
	if raw == nil {
		return nil
	}
	start := uintptr(raw)
	b := &BlockHeader{
		raw:    unsafe.Slice((*byte)(raw), int(size)),
		Start:  start,
		End:    start + size,
		VTable: vtable,
		Owner:  owner,
		Size:   size,
	}
	b.elem.Value = b
	return b
}

// Payload returns the address of the start of the block's payload.
func (b *BlockHeader) Payload() unsafe.Pointer {
	return unsafe.Pointer(b.Start)
}

// Contains reports whether addr falls within [Start, End), i.e. whether
// addr names this block as its owner, tolerating interior pointers. A
// pointer exactly equal to End is NOT considered interior (spec.md §9).
func (b *BlockHeader) Contains(addr uintptr) bool {
	return addr >= b.Start && addr < b.End
}

// free invokes VTable.Free exactly once and drops the retained backing
// slice so the underlying Go memory becomes collectible.
func (b *BlockHeader) free() {
	if b.freed {
		return
	}
	b.freed = true
	if b.VTable != nil && b.VTable.Free != nil {
		b.VTable.Free(unsafe.Pointer(b.Start))
	}
	b.raw = nil
}
