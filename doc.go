// Package gclib is an embeddable, concurrent, precise, stop-the-world
// tracing garbage collector for explicitly registered smart pointers. It
// does not scan goroutine stacks; every live reference must be held in a
// Ptr[T], either as a root (a struct field or local variable belonging to
// an attached Mutator) or as a member of a managed block's payload.
//
// A typical program attaches one Mutator per goroutine that allocates or
// touches pointers, allocates through Alloc/AllocArray, and either lets
// Collect reclaim unreachable blocks or calls Delete for immediate,
// deterministic destruction.
package gclib
