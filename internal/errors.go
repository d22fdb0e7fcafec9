package internal

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory is returned by Alloc when the configured MallocFunc
// returns nil, after any rollback has already been applied (there is
// nothing to roll back for a failed malloc itself).
var ErrOutOfMemory = errors.New("gclib: out of memory")

// ErrInvalidConfiguration reports a configuration parameter out of its
// valid range, or a repeated Init. It is returned by the root package's
// New and Init at initialization time only, per spec.md §7; NewRegistry
// itself does not validate its options.
var ErrInvalidConfiguration = errors.New("gclib: invalid configuration")

// ErrNullDereference is returned by a typed pointer's Get when its value is
// null.
var ErrNullDereference = errors.New("gclib: null dereference")

// ConstructorError wraps the error an initFn returned, after Alloc has
// rolled back every side effect of the failed allocation (cursor, block
// linkage, alloc_size counter, raw memory).
type ConstructorError struct {
	Cause error
}

func (e *ConstructorError) Error() string {
	return fmt.Sprintf("gclib: constructor failed: %s", e.Cause)
}

func (e *ConstructorError) Unwrap() error {
	return e.Cause
}
