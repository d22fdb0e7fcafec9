package gclib

import "github.com/zephyrtronium/gclib/internal"

// Sentinel and wrapped errors, re-exported from internal so callers never
// need to import the internal package to use errors.Is/errors.As against
// them.
var (
	// ErrOutOfMemory is returned by Alloc/AllocArray when the configured
	// memory source is exhausted.
	ErrOutOfMemory = internal.ErrOutOfMemory
	// ErrInvalidConfiguration is returned by New/Init for an out-of-range
	// configuration value, or by Init if called more than once.
	ErrInvalidConfiguration = internal.ErrInvalidConfiguration
	// ErrNullDereference is returned by Ptr[T].Get on a pointer whose
	// current value is null.
	ErrNullDereference = internal.ErrNullDereference
)

// ConstructorError wraps the error an Alloc/AllocArray init function
// returned, after every side effect of the failed allocation has been
// rolled back. Use errors.As to recover the original cause.
type ConstructorError = internal.ConstructorError
