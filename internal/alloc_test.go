package internal

import (
	"errors"
	"testing"
	"unsafe"
)

func TestAllocSuccessRecordsBlockAndSize(t *testing.T) {
	r := NewRegistry(RegistryOptions{})
	tr := r.Attach()

	block, err := Alloc(r, tr, unsafe.Sizeof(int(0)), nil, func(payload unsafe.Pointer) error {
		*(*int)(payload) = 42
		return nil
	})
	if err != nil {
		t.Fatalf("Alloc returned an error: %v", err)
	}
	if tr.Blocks.Len() != 1 {
		t.Errorf("thread record block count: have %d, want 1", tr.Blocks.Len())
	}
	if r.AllocSize() != uint64(block.Size) {
		t.Errorf("registry alloc size: have %d, want %d", r.AllocSize(), block.Size)
	}
	if got := *(*int)(block.Payload()); got != 42 {
		t.Errorf("payload round-trip: have %d, want 42", got)
	}
}

func TestAllocConstructorFailureRollsBackEverything(t *testing.T) {
	r := NewRegistry(RegistryOptions{})
	tr := r.Attach()

	cause := errors.New("boom")
	_, err := Alloc(r, tr, 8, nil, func(unsafe.Pointer) error {
		return cause
	})
	if err == nil {
		t.Fatal("Alloc should report the constructor's error")
	}
	var ctorErr *ConstructorError
	if !errors.As(err, &ctorErr) {
		t.Fatalf("Alloc error is not a *ConstructorError: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("the wrapped error does not unwrap to the constructor's cause")
	}
	if tr.Blocks.Len() != 0 {
		t.Errorf("a rolled-back allocation left a block behind, count %d", tr.Blocks.Len())
	}
	if r.AllocSize() != 0 {
		t.Errorf("a rolled-back allocation left alloc size at %d, want 0", r.AllocSize())
	}
}

func TestAllocCursorRedirectsDuringConstruction(t *testing.T) {
	r := NewRegistry(RegistryOptions{})
	tr := r.Attach()

	member := 1
	block, err := Alloc(r, tr, 8, nil, func(unsafe.Pointer) error {
		NewPtr(tr, unsafe.Pointer(&member))
		return nil
	})
	if err != nil {
		t.Fatalf("Alloc returned an error: %v", err)
	}
	if tr.Roots.Len() != 0 {
		t.Errorf("a pointer constructed during Alloc should not land on the root list, have %d", tr.Roots.Len())
	}
	if block.Ptrs.Len() != 1 {
		t.Errorf("a pointer constructed during Alloc should land on the block's interior list, have %d", block.Ptrs.Len())
	}
	if tr.Cursor() != &tr.Roots {
		t.Error("the cursor should be restored to the root list after Alloc returns")
	}
}

func TestDeleteFinalizesAndFrees(t *testing.T) {
	r := NewRegistry(RegistryOptions{})
	tr := r.Attach()

	var finalized, freed bool
	vt := &VTable{
		Finalize: func(unsafe.Pointer, unsafe.Pointer) { finalized = true },
		Free:     func(unsafe.Pointer) { freed = true },
	}
	block, err := Alloc(r, tr, 8, vt, func(unsafe.Pointer) error { return nil })
	if err != nil {
		t.Fatalf("Alloc returned an error: %v", err)
	}

	Delete(r, block)
	if !finalized {
		t.Error("Delete did not run the finalizer")
	}
	if !freed {
		t.Error("Delete did not free the block")
	}
	if tr.Blocks.Len() != 0 {
		t.Errorf("thread record still owns the block after Delete, count %d", tr.Blocks.Len())
	}
	if r.AllocSize() != 0 {
		t.Errorf("alloc size after Delete: have %d, want 0", r.AllocSize())
	}
}
