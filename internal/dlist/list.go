// Package dlist implements a generic intrusive circular doubly-linked list
// with a sentinel head, used throughout gclib for the various
// append/detach/move-from collections named in the specification (append
// and detach are O(1); move-from is linear in the elements moved): a
// thread's root pointer list, a block's interior pointer list, a thread
// record's block lists, and the collector registry's thread lists.
//
// An Elem is meant to be embedded as a named field inside the type it
// links (for example, a PtrNode embeds a dlist.Elem[*PtrNode] to become a
// member of a PtrList), so linking a value never allocates separately from
// the value itself.
package dlist

// Elem is one node of a List. The zero value is an unlinked element holding
// the zero value of T.
type Elem[T any] struct {
	prev, next *Elem[T]
	list       *List[T]
	Value      T
}

// Next returns the next element in the list, or nil if e is the last
// element or is not linked into any list.
func (e *Elem[T]) Next() *Elem[T] {
	if e.list == nil {
		return nil
	}
	if n := e.next; n != &e.list.root {
		return n
	}
	return nil
}

// Prev returns the previous element in the list, or nil if e is the first
// element or is not linked into any list.
func (e *Elem[T]) Prev() *Elem[T] {
	if e.list == nil {
		return nil
	}
	if p := e.prev; p != &e.list.root {
		return p
	}
	return nil
}

// Linked reports whether e is currently linked into a list.
func (e *Elem[T]) Linked() bool {
	return e.list != nil
}

// List is a circular doubly-linked list with a sentinel head node. The
// zero value is an empty, ready-to-use list.
type List[T any] struct {
	root Elem[T]
	init bool
}

// New returns a new empty list.
func New[T any]() *List[T] {
	l := new(List[T])
	l.lazyInit()
	return l
}

func (l *List[T]) lazyInit() {
	if !l.init {
		l.root.next = &l.root
		l.root.prev = &l.root
		l.root.list = l
		l.init = true
	}
}

// Empty reports whether the list has no elements.
func (l *List[T]) Empty() bool {
	l.lazyInit()
	return l.root.next == &l.root
}

// Front returns the first element of the list, or nil if the list is empty.
func (l *List[T]) Front() *Elem[T] {
	l.lazyInit()
	if l.Empty() {
		return nil
	}
	return l.root.next
}

// Back returns the last element of the list, or nil if the list is empty.
func (l *List[T]) Back() *Elem[T] {
	l.lazyInit()
	if l.Empty() {
		return nil
	}
	return l.root.prev
}

func (l *List[T]) insert(e, at *Elem[T]) *Elem[T] {
	e.prev = at
	e.next = at.next
	e.prev.next = e
	e.next.prev = e
	e.list = l
	return e
}

// Append links e as the new last element of l. e must not already be
// linked into any list. O(1).
func (l *List[T]) Append(e *Elem[T]) *Elem[T] {
	l.lazyInit()
	return l.insert(e, l.root.prev)
}

// Prepend links e as the new first element of l. e must not already be
// linked into any list. O(1).
func (l *List[T]) Prepend(e *Elem[T]) *Elem[T] {
	l.lazyInit()
	return l.insert(e, &l.root)
}

// Detach unconditionally unlinks e from whatever list it belongs to. The
// caller must ensure e is currently linked into some list. O(1).
func Detach[T any](e *Elem[T]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next, e.list = nil, nil, nil
}

// MoveFrom destructively transfers every element of other into l, leaving
// other empty. Appends to l's current contents. Relinking is O(1), but every
// moved element's list back-reference is rewritten, so the call as a whole
// takes time linear in the number of elements moved.
func (l *List[T]) MoveFrom(other *List[T]) {
	l.lazyInit()
	other.lazyInit()
	if other.Empty() {
		return
	}
	first, last := other.root.next, other.root.prev
	at := l.root.prev

	at.next = first
	first.prev = at
	last.next = &l.root
	l.root.prev = last

	for e := first; e != &l.root; e = e.next {
		e.list = l
	}

	other.root.next, other.root.prev = &other.root, &other.root
}

// Each calls f for every element of l in order. f must not mutate l.
func (l *List[T]) Each(f func(*Elem[T])) {
	l.lazyInit()
	for e := l.root.next; e != &l.root; e = e.next {
		f(e)
	}
}

// Len returns the number of elements in l. O(n).
func (l *List[T]) Len() int {
	n := 0
	l.Each(func(*Elem[T]) { n++ })
	return n
}
