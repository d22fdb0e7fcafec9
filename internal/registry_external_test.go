package internal_test

import (
	"testing"
	"unsafe"

	"github.com/zephyrtronium/gclib/internal"
	"github.com/zephyrtronium/gclib/internal/gctest"
)

// This file exercises the package through its exported surface only,
// the way a consumer embedding the collector would, complementing the
// white-box tests in package internal itself.

func TestExternalAllocAndCollectReclaimsUnreachable(t *testing.T) {
	r, tr := gctest.Attached(t, internal.RegistryOptions{})

	block, err := internal.Alloc(r, tr, unsafe.Sizeof(int(0)), nil, func(payload unsafe.Pointer) error {
		*(*int)(payload) = 42
		return nil
	})
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}

	p := internal.NewPtr(tr, block.Payload())
	if v := p.Get(); v == nil || *(*int)(v) != 42 {
		t.Fatalf("Get: have %v, want pointer to 42", v)
	}

	p.Release()
	r.Collect()

	if r.AllocSize() != 0 {
		t.Errorf("AllocSize after reclaiming the only block: have %d, want 0", r.AllocSize())
	}
}

func TestExternalRegistryTracksMultipleMutators(t *testing.T) {
	r := gctest.NewRegistry(t, internal.RegistryOptions{})

	a := r.Attach()
	b := r.Attach()

	blockA, err := internal.Alloc(r, a, unsafe.Sizeof(int(0)), nil, func(payload unsafe.Pointer) error {
		*(*int)(payload) = 1
		return nil
	})
	if err != nil {
		t.Fatalf("Alloc for a: %v", err)
	}
	rootA := internal.NewPtr(a, blockA.Payload())
	defer rootA.Release()

	r.Detach(b) // b never allocated, so detaching it should not disturb a's block

	r.Collect()
	if r.AllocSize() == 0 {
		t.Error("a's reachable block should survive collection after detaching the empty mutator b")
	}
}
