package gclib

import (
	"unsafe"

	"github.com/zephyrtronium/gclib/internal"
)

// Finalizer is implemented by payload types that need to run cleanup logic
// when the collector reclaims them, whether by Collect's sweep or an
// explicit Delete. For AllocArray, Finalize runs on every element in
// reverse index order, matching the VTable contract in spec.md §3.
type Finalizer interface {
	Finalize()
}

// Ptr is a typed, garbage-collected smart pointer to a T: the generic
// collaborator layer spec.md §6 calls out as built atop the untyped core.
type Ptr[T any] struct {
	inner *internal.Ptr
	reg   *internal.Registry
	block *internal.BlockHeader
}

// NewPtr returns a new, null root Ptr[T] attached to m. It is typically
// followed by CopyFrom or MoveFrom to give it a value, or Set.
func NewPtr[T any](m *Mutator) *Ptr[T] {
	return &Ptr[T]{inner: internal.NewPtr(m.tr, nil)}
}

// vtableFor builds the VTable for a contiguous run of n Ts, whose Finalize
// calls every element's Finalizer.Finalize in reverse order if T
// implements it.
func vtableFor[T any](n int) *internal.VTable {
	var zero T
	elemSize := unsafe.Sizeof(zero)
	return &internal.VTable{
		Finalize: func(begin, _ unsafe.Pointer) {
			for i := n - 1; i >= 0; i-- {
				elem := (*T)(unsafe.Add(begin, uintptr(i)*elemSize))
				if f, ok := any(elem).(Finalizer); ok {
					f.Finalize()
				}
			}
		},
	}
}

// Alloc constructs one garbage-collected T via m. init, if non-nil, runs
// against the zeroed payload before the pointer is returned; if it
// returns an error, every side effect of the allocation is rolled back and
// the error is returned wrapped in a *ConstructorError.
func Alloc[T any](m *Mutator, init func(*T) error) (*Ptr[T], error) {
	var zero T
	block, err := internal.Alloc(m.reg, m.tr, unsafe.Sizeof(zero), vtableFor[T](1), func(payload unsafe.Pointer) error {
		v := (*T)(payload)
		*v = zero
		if init == nil {
			return nil
		}
		return init(v)
	})
	if err != nil {
		return nil, err
	}
	return &Ptr[T]{
		inner: internal.NewPtr(m.tr, block.Payload()),
		reg:   m.reg,
		block: block,
	}, nil
}

// AllocArray constructs n contiguous garbage-collected Ts via m. init, if
// non-nil, is called once per element with its index and zeroed payload.
// If any call fails, every already-constructed element is finalized in
// reverse order, the allocation is rolled back, and the error is returned
// wrapped in a *ConstructorError.
func AllocArray[T any](m *Mutator, n int, init func(i int, v *T) error) (*Ptr[T], error) {
	var zero T
	elemSize := unsafe.Sizeof(zero)
	block, err := internal.Alloc(m.reg, m.tr, elemSize*uintptr(n), vtableFor[T](n), func(payload unsafe.Pointer) error {
		constructed := 0
		for i := 0; i < n; i++ {
			v := (*T)(unsafe.Add(payload, uintptr(i)*elemSize))
			*v = zero
			if init != nil {
				if err := init(i, v); err != nil {
					for j := constructed - 1; j >= 0; j-- {
						ev := (*T)(unsafe.Add(payload, uintptr(j)*elemSize))
						if f, ok := any(ev).(Finalizer); ok {
							f.Finalize()
						}
					}
					return err
				}
			}
			constructed++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Ptr[T]{
		inner: internal.NewPtr(m.tr, block.Payload()),
		reg:   m.reg,
		block: block,
	}, nil
}

// Delete performs explicit, immediate destruction: it finalizes and frees
// p's block outside of any collection and releases p itself. A null or
// already-reclaimed p (one whose value reads null, e.g. after a prior
// Collect swept it) is a no-op, per spec.md §4.7.
func Delete[T any](p *Ptr[T]) {
	if p == nil || p.inner == nil || p.block == nil {
		return
	}
	if p.inner.Get() == nil {
		return
	}
	internal.Delete(p.reg, p.block)
	p.inner.Release()
	p.block, p.reg = nil, nil
}

// Get returns p's current value, or ErrNullDereference if it is null.
func (p *Ptr[T]) Get() (*T, error) {
	v := p.inner.Get()
	if v == nil {
		return nil, ErrNullDereference
	}
	return (*T)(v), nil
}

// Set stores v, the address of a payload already owned by some Ptr[T], as
// p's value. Passing nil makes p null.
func (p *Ptr[T]) Set(v *T) {
	p.inner.Set(unsafe.Pointer(v))
}

// CopyFrom makes p an independent pointer holding the same value as other.
func (p *Ptr[T]) CopyFrom(other *Ptr[T]) {
	p.inner.AssignFrom(other.inner)
	p.reg, p.block = other.reg, other.block
}

// MoveFrom makes p hold other's value and nulls other, without detaching
// either from its list.
func (p *Ptr[T]) MoveFrom(other *Ptr[T]) {
	p.inner.AssignMoveFrom(other.inner)
	p.reg, p.block = other.reg, other.block
	other.reg, other.block = nil, nil
}

// Release detaches p from its list. Safe to call more than once. p reads
// as null after this returns.
func (p *Ptr[T]) Release() {
	p.inner.Release()
	p.reg, p.block = nil, nil
}
