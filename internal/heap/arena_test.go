package heap

import "testing"

type node struct {
	next Ref
}

func (n *node) Trace(visit func(Ref)) {
	visit(n.next)
}

func TestAllocGetRoundTrip(t *testing.T) {
	a := NewArena()
	ref := a.Alloc(42)

	v, ok := a.Get(ref)
	if !ok || v.(int) != 42 {
		t.Fatalf("Get() = (%v, %v), want (42, true)", v, ok)
	}
}

func TestWeakRefReportsCollection(t *testing.T) {
	a := NewArena()
	ref := a.Alloc("gone")
	weak := a.Weak(ref)

	a.Collect(nil) // no roots: everything is collected

	if _, ok := weak.Resolve(); ok {
		t.Error("Resolve() after collection should report false")
	}
}

func TestCollectTracesThroughCycles(t *testing.T) {
	a := NewArena()
	tok := NewToken()

	r1 := a.Alloc(&node{})
	r2 := a.Alloc(&node{next: r1})
	a.Mutate(tok, r1, func(v any) any {
		v.(*node).next = r2
		return v
	})

	freed := a.Collect([]Ref{r1})
	if freed != 0 {
		t.Errorf("Collect freed %d cells, want 0 (cycle reachable from root)", freed)
	}
	if a.Live() != 2 {
		t.Errorf("Live() = %d, want 2", a.Live())
	}
}

func TestCollectFreesUnreachable(t *testing.T) {
	a := NewArena()
	a.Alloc("unreachable")
	root := a.Alloc("reachable")

	freed := a.Collect([]Ref{root})
	if freed != 1 {
		t.Errorf("Collect freed %d, want 1", freed)
	}
}

func TestRecycledSlotBumpsGeneration(t *testing.T) {
	a := NewArena()
	old := a.Alloc("first")
	a.Collect(nil)
	fresh := a.Alloc("second")

	if old.index == fresh.index && old.gen == fresh.gen {
		t.Error("recycled slot reused the same generation")
	}
	if _, ok := a.Get(old); ok {
		t.Error("stale reference into recycled slot should not resolve")
	}
}
