package ilist

import "testing"

type thing struct {
	name string
	node Node[thing]
}

// Collect the names of the list's elements in order.
func names(l *List[thing]) []string {
	var ns []string
	l.Each(func(t *thing) bool {
		ns = append(ns, t.name)
		return true
	})
	return ns
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPushBackOrder(t *testing.T) {
	var l List[thing]
	ts := []*thing{{name: "a"}, {name: "b"}, {name: "c"}}
	for _, th := range ts {
		l.PushBack(&th.node, th)
	}
	if l.Len() != 3 || l.Empty() {
		t.Fatalf("Len = %d, Empty = %v after three pushes", l.Len(), l.Empty())
	}
	if got := names(&l); !equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("Order = %v", got)
	}
	if l.Front().name != "a" || l.Back().name != "c" {
		t.Fatalf("Front/Back = %q/%q", l.Front().name, l.Back().name)
	}
}

func TestPushFront(t *testing.T) {
	var l List[thing]
	a, b := &thing{name: "a"}, &thing{name: "b"}
	l.PushFront(&a.node, a)
	l.PushFront(&b.node, b)
	if got := names(&l); !equal(got, []string{"b", "a"}) {
		t.Fatalf("Order = %v", got)
	}
}

func TestRemove(t *testing.T) {
	var l List[thing]
	ts := []*thing{{name: "a"}, {name: "b"}, {name: "c"}}
	for _, th := range ts {
		l.PushBack(&th.node, th)
	}
	l.Remove(&ts[1].node)
	if got := names(&l); !equal(got, []string{"a", "c"}) {
		t.Fatalf("Order after remove = %v", got)
	}
	// Double remove is a no-op.
	l.Remove(&ts[1].node)
	if l.Len() != 2 {
		t.Fatalf("Len after double remove = %d", l.Len())
	}
	// A removed node can be reinserted.
	l.PushBack(&ts[1].node, ts[1])
	if got := names(&l); !equal(got, []string{"a", "c", "b"}) {
		t.Fatalf("Order after reinsert = %v", got)
	}
}

func TestRemoveDuringEach(t *testing.T) {
	var l List[thing]
	ts := []*thing{{name: "a"}, {name: "b"}, {name: "c"}}
	for _, th := range ts {
		l.PushBack(&th.node, th)
	}
	l.Each(func(th *thing) bool {
		if th.name == "b" {
			l.Remove(&th.node)
		}
		return true
	})
	if got := names(&l); !equal(got, []string{"a", "c"}) {
		t.Fatalf("Order after removal inside Each = %v", got)
	}
}

func TestZeroList(t *testing.T) {
	var l List[thing]
	if !l.Empty() || l.Len() != 0 || l.Front() != nil || l.Back() != nil {
		t.Fatal("Zero list is not empty")
	}
	l.Each(func(*thing) bool { t.Fatal("Each on empty list called fn"); return false })
}

func TestDoublePushPanics(t *testing.T) {
	var l List[thing]
	a := &thing{name: "a"}
	l.PushBack(&a.node, a)
	defer func() {
		if recover() == nil {
			t.Fatal("Inserting a linked node did not panic")
		}
	}()
	l.PushBack(&a.node, a)
}
