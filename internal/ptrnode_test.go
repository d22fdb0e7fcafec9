package internal

import (
	"testing"
	"unsafe"
)

func TestPtrNodeAttachDetach(t *testing.T) {
	var list PtrList
	owner := NewThreadRecord()
	var n PtrNode

	val := 7
	addr := unsafe.Pointer(&val)
	n.attach(&list, owner, addr)

	if list.Len() != 1 {
		t.Fatalf("list length after attach: have %d, want 1", list.Len())
	}
	if n.Value != addr {
		t.Error("attach did not record the value")
	}
	if !n.linked() {
		t.Error("node reports not linked after attach")
	}

	n.detach()
	if list.Len() != 0 {
		t.Errorf("list length after detach: have %d, want 0", list.Len())
	}
	if n.Owner != nil || n.Value != nil {
		t.Error("detach did not clear owner and value")
	}
	if n.linked() {
		t.Error("node reports linked after detach")
	}

	// detach is safe to call again on an already-dormant node.
	n.detach()
}
