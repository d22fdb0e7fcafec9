package dlist_test

import (
	"testing"

	"github.com/zephyrtronium/gclib/internal/dlist"
)

func TestEmptyList(t *testing.T) {
	var l dlist.List[int]
	if !l.Empty() {
		t.Error("zero-value list is not empty")
	}
	if l.Front() != nil || l.Back() != nil {
		t.Error("zero-value list has a front or back element")
	}
}

func TestAppendOrder(t *testing.T) {
	l := dlist.New[int]()
	es := make([]*dlist.Elem[int], 5)
	for i := range es {
		es[i] = &dlist.Elem[int]{Value: i}
		l.Append(es[i])
	}
	var got []int
	l.Each(func(e *dlist.Elem[int]) { got = append(got, e.Value) })
	want := []int{0, 1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("wrong length: have %v, want %v", got, want)
	}
	for i, v := range want {
		if got[i] != v {
			t.Errorf("index %d: have %d, want %d", i, got[i], v)
		}
	}
	if l.Front() != es[0] || l.Back() != es[len(es)-1] {
		t.Error("front/back do not match first/last appended elements")
	}
}

func TestPrepend(t *testing.T) {
	l := dlist.New[string]()
	a := &dlist.Elem[string]{Value: "a"}
	b := &dlist.Elem[string]{Value: "b"}
	l.Append(a)
	l.Prepend(b)
	if l.Front() != b || l.Back() != a {
		t.Error("prepend did not place element at the front")
	}
}

func TestDetach(t *testing.T) {
	l := dlist.New[int]()
	a := &dlist.Elem[int]{Value: 1}
	b := &dlist.Elem[int]{Value: 2}
	c := &dlist.Elem[int]{Value: 3}
	l.Append(a)
	l.Append(b)
	l.Append(c)

	dlist.Detach(b)
	if b.Linked() {
		t.Error("detached element still reports linked")
	}
	var got []int
	l.Each(func(e *dlist.Elem[int]) { got = append(got, e.Value) })
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("unexpected contents after detach: %v", got)
	}

	dlist.Detach(a)
	dlist.Detach(c)
	if !l.Empty() {
		t.Error("list should be empty after detaching all elements")
	}
}

func TestMoveFrom(t *testing.T) {
	dst := dlist.New[int]()
	src := dlist.New[int]()

	d0 := &dlist.Elem[int]{Value: 100}
	dst.Append(d0)

	s0 := &dlist.Elem[int]{Value: 1}
	s1 := &dlist.Elem[int]{Value: 2}
	src.Append(s0)
	src.Append(s1)

	dst.MoveFrom(src)
	if !src.Empty() {
		t.Error("source list should be empty after MoveFrom")
	}
	var got []int
	dst.Each(func(e *dlist.Elem[int]) { got = append(got, e.Value) })
	want := []int{100, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("have %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: have %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMoveFromEmptySource(t *testing.T) {
	dst := dlist.New[int]()
	dst.Append(&dlist.Elem[int]{Value: 1})
	src := dlist.New[int]()

	dst.MoveFrom(src)
	if dst.Len() != 1 {
		t.Errorf("moving from an empty list changed the destination length: %d", dst.Len())
	}
}

func TestLen(t *testing.T) {
	l := dlist.New[int]()
	for i := 0; i < 10; i++ {
		l.Append(&dlist.Elem[int]{Value: i})
	}
	if l.Len() != 10 {
		t.Errorf("have %d, want 10", l.Len())
	}
}
