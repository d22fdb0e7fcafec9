// Package gctest provides a ready-to-use collector registry and attached
// thread record for internal and root-package tests, mirroring the shape
// of the teacher's own testutils helper package: a single constructor that
// hands back everything a test needs and registers cleanup automatically.
package gctest

import (
	"testing"

	"github.com/zephyrtronium/gclib/internal"
)

// NewRegistry returns a Registry with the background worker disabled,
// suitable for tests that drive collection synchronously via Collect.
// t.Cleanup stops the worker in case a test enables it.
func NewRegistry(t *testing.T, opts internal.RegistryOptions) *internal.Registry {
	t.Helper()
	r := internal.NewRegistry(opts)
	t.Cleanup(r.StopWorker)
	return r
}

// Attached returns a Registry and one ThreadRecord already attached to it,
// the common case for tests that only exercise a single mutator.
func Attached(t *testing.T, opts internal.RegistryOptions) (*internal.Registry, *internal.ThreadRecord) {
	t.Helper()
	r := NewRegistry(t, opts)
	tr := r.Attach()
	t.Cleanup(func() { r.Detach(tr) })
	return r, tr
}
