package internal

import (
	"testing"
	"unsafe"
)

func TestNewPtrGetSet(t *testing.T) {
	tr := NewThreadRecord()
	val := 42
	addr := unsafe.Pointer(&val)

	p := NewPtr(tr, addr)
	if p.Get() != addr {
		t.Error("Get did not return the constructed value")
	}
	if tr.Roots.Len() != 1 {
		t.Errorf("root list length: have %d, want 1", tr.Roots.Len())
	}

	other := 99
	p.Set(unsafe.Pointer(&other))
	if p.Get() != unsafe.Pointer(&other) {
		t.Error("Set did not update the value")
	}
}

func TestCopyPtrIndependence(t *testing.T) {
	tr := NewThreadRecord()
	val := 1
	original := NewPtr(tr, unsafe.Pointer(&val))
	copyPtr := CopyPtr(tr, original)

	if copyPtr.Get() != original.Get() {
		t.Fatal("copy does not observe the same value as the original")
	}

	other := 2
	copyPtr.Set(unsafe.Pointer(&other))
	if original.Get() == copyPtr.Get() {
		t.Error("mutating the copy affected the original")
	}
	if tr.Roots.Len() != 2 {
		t.Errorf("root list length: have %d, want 2", tr.Roots.Len())
	}
}

func TestMovePtrNilsSource(t *testing.T) {
	tr := NewThreadRecord()
	val := 5
	src := NewPtr(tr, unsafe.Pointer(&val))
	dst := MovePtr(tr, src)

	if dst.Get() != unsafe.Pointer(&val) {
		t.Error("move destination does not hold the source's value")
	}
	if src.Get() != nil {
		t.Error("move did not null out the source")
	}
	if !src.node.linked() {
		t.Error("move should not detach the source node, only null its value")
	}
}

func TestReleaseIsDormantAndIdempotent(t *testing.T) {
	tr := NewThreadRecord()
	val := 3
	p := NewPtr(tr, unsafe.Pointer(&val))

	p.Release()
	if tr.Roots.Len() != 0 {
		t.Errorf("root list length after release: have %d, want 0", tr.Roots.Len())
	}
	if p.Get() != nil {
		t.Error("a released pointer should read as null")
	}

	// Set on a dormant pointer is a silent no-op, not a panic.
	p.Set(unsafe.Pointer(&val))
	if p.Get() != nil {
		t.Error("Set on a dormant pointer should have no effect")
	}

	// Release is idempotent.
	p.Release()
}
