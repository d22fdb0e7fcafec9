package gclib

import "github.com/zephyrtronium/gclib/internal"

// Mutator stands in for "the current thread" in spec terms: a goroutine
// that allocates or touches Ptr[T] values must attach one before doing so,
// and detach it when finished. A ThreadRecord has no OS-thread-local home
// in Go, so this attachment is explicit rather than implicit-on-first-use
// (see DESIGN.md's Open Question decision on this).
type Mutator struct {
	reg *internal.Registry
	tr  *internal.ThreadRecord
}

// Attach registers a new Mutator with c.
func (c *Collector) Attach() *Mutator {
	return &Mutator{reg: c.reg, tr: c.reg.Attach()}
}

// Detach unregisters m. If m still owns blocks or root pointers, its
// ThreadRecord survives until a later Collect finds it empty.
func (m *Mutator) Detach() {
	m.reg.Detach(m.tr)
}
