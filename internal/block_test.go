package internal

import (
	"testing"
	"unsafe"
)

func TestNewBlockHeaderContains(t *testing.T) {
	b := newBlockHeader(16, nil, nil, DefaultMalloc)
	if b == nil {
		t.Fatal("newBlockHeader returned nil")
	}
	if !b.Contains(b.Start) {
		t.Error("block does not contain its own start address")
	}
	if b.Contains(b.End) {
		t.Error("block considers its exclusive end address interior")
	}
	if !b.Contains(b.Start + 8) {
		t.Error("block does not contain an interior address")
	}
	if b.Contains(b.Start - 1) {
		t.Error("block considers an address before it interior")
	}
}

func TestNewBlockHeaderOutOfMemory(t *testing.T) {
	failingMalloc := func(uintptr) unsafe.Pointer { return nil }
	if b := newBlockHeader(16, nil, nil, failingMalloc); b != nil {
		t.Error("newBlockHeader did not report failure from a failing malloc")
	}
}

func TestBlockHeaderFreeIsIdempotent(t *testing.T) {
	var freed int
	vt := &VTable{Free: func(unsafe.Pointer) { freed++ }}
	b := newBlockHeader(8, vt, nil, DefaultMalloc)
	b.free()
	b.free()
	if freed != 1 {
		t.Errorf("Free called %d times, want 1", freed)
	}
}
