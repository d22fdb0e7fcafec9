package internal

import (
	"unsafe"

	"github.com/zephyrtronium/gclib/internal/dlist"
)

// PtrList is an intrusive list of PtrNodes, rooted either at a
// ThreadRecord (roots) or at a BlockHeader (interior members).
type PtrList = dlist.List[*PtrNode]

// PtrNode is the small struct embedded in every smart pointer instance. It
// is dormant (owner_mutex == nil) until the pointer it belongs to is
// constructed, and becomes dormant again once detached.
type PtrNode struct {
	elem dlist.Elem[*PtrNode]

	// Owner is the thread record whose mutex serializes every read and
	// write of Value, matching spec.md §4.3: "the owner_mutex serializes
	// every read and write of the node's value with both other mutator
	// mutations and the collector's mark phase." Nil means the node is
	// dormant. It names a ThreadRecord rather than bare owner_mutex so that
	// locking goes through ThreadRecord.lock/unlock, which tolerates the
	// same goroutine re-entering from inside an enclosing Alloc call (see
	// DESIGN.md); CoordinationMutex itself stays a plain, non-reentrant
	// mutex.
	Owner *ThreadRecord

	// Value is the address this pointer currently holds, or nil.
	Value unsafe.Pointer
}

// attach links n into list, recording owner as n's owning thread record.
// The caller must already hold owner's lock.
func (n *PtrNode) attach(list *PtrList, owner *ThreadRecord, value unsafe.Pointer) {
	n.elem.Value = n
	n.Owner = owner
	n.Value = value
	list.Append(&n.elem)
}

// detach unlinks n from its list and marks it dormant. The caller must
// already hold n.Owner's lock (or guarantee exclusive access, as during
// sweep).
func (n *PtrNode) detach() {
	if n.elem.Linked() {
		dlist.Detach(&n.elem)
	}
	n.Owner = nil
	n.Value = nil
}

// linked reports whether n currently belongs to a list.
func (n *PtrNode) linked() bool {
	return n.elem.Linked()
}
