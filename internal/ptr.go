package internal

import "unsafe"

// Ptr is the untyped smart pointer core: a self-registering pointer value
// visible to the collector. Typed wrappers (the out-of-scope collaborator
// layer in the root gclib package) embed a Ptr and never touch its node
// directly.
type Ptr struct {
	node PtrNode
}

// NewPtr constructs a Ptr holding value, registering it on tr's current
// cursor (ordinarily tr's root list; the allocator temporarily redirects
// the cursor to a block's interior list for the duration of a
// constructor). This never fails and never allocates beyond the returned
// Ptr itself.
func NewPtr(tr *ThreadRecord, value unsafe.Pointer) *Ptr {
	tr.lock()
	p := &Ptr{}
	p.node.attach(tr.Cursor(), tr, value)
	tr.unlock()
	return p
}

// CopyPtr constructs a new Ptr on tr's current cursor holding the same
// value as other, reading other's value under other's own owning thread
// record's lock so the read is never torn with respect to a concurrent
// mutation or collection mark pass.
func CopyPtr(tr *ThreadRecord, other *Ptr) *Ptr {
	return NewPtr(tr, other.peek())
}

// MovePtr constructs a new Ptr on tr's current cursor holding other's
// value, then nils out other's value without detaching other's node (it
// remains linked into its list, now dormant in the sense that it holds
// null, exactly as spec.md §4.3 describes for move-construct).
func MovePtr(tr *ThreadRecord, other *Ptr) *Ptr {
	return NewPtr(tr, other.take())
}

// peek reads the pointer's current value under its owning thread record's
// lock, or returns nil if the node is dormant.
func (p *Ptr) peek() unsafe.Pointer {
	owner := p.node.Owner
	if owner == nil {
		return nil
	}
	owner.lock()
	v := p.node.Value
	owner.unlock()
	return v
}

// take reads and nils the pointer's value under its owning thread record's
// lock, without detaching the node from its list.
func (p *Ptr) take() unsafe.Pointer {
	owner := p.node.Owner
	if owner == nil {
		return nil
	}
	owner.lock()
	v := p.node.Value
	p.node.Value = nil
	owner.unlock()
	return v
}

// Get returns the pointer's current value.
func (p *Ptr) Get() unsafe.Pointer {
	return p.peek()
}

// Set stores value into the pointer under its owning thread record's lock.
// A dormant pointer (one that has been released) silently discards the
// write, matching a destructed C++ smart pointer's "no further operations"
// contract. A pointer that has been moved out of is still attached and
// accepts the write.
func (p *Ptr) Set(value unsafe.Pointer) {
	owner := p.node.Owner
	if owner == nil {
		return
	}
	owner.lock()
	p.node.Value = value
	owner.unlock()
}

// AssignFrom copies other's current value into p under both pointers'
// owning thread records' locks (p's for the write, other's for the read),
// without changing which lists either node belongs to.
func (p *Ptr) AssignFrom(other *Ptr) {
	p.Set(other.peek())
}

// AssignMoveFrom copies other's current value into p and nils other's
// value, without detaching either node from its list.
func (p *Ptr) AssignMoveFrom(other *Ptr) {
	p.Set(other.take())
}

// Release is the smart pointer's destructor: if the node is still attached
// to a thread record, it locks it and detaches from its list. Safe to call
// more than once.
func (p *Ptr) Release() {
	owner := p.node.Owner
	if owner == nil {
		return
	}
	owner.lock()
	p.node.detach()
	owner.unlock()
}
