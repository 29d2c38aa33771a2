package cinder

import "testing"

func TestAddChildAssignsIncrementingDepth(t *testing.T) {
	root := newDisplayObject("root", KindMovieClip)
	a := NewMovieClip("a")
	b := NewMovieClip("b")
	root.AddChild(a)
	root.AddChild(b)

	if a.Depth != 0 || b.Depth != 1 {
		t.Errorf("depths = %d, %d, want 0, 1", a.Depth, b.Depth)
	}
	if root.NumChildren() != 2 {
		t.Fatalf("NumChildren = %d, want 2", root.NumChildren())
	}
	if a.Parent != root || b.Parent != root {
		t.Error("children's Parent not set to root")
	}
}

func TestAddChildAtDepthKeepsDepthOrderSorted(t *testing.T) {
	root := newDisplayObject("root", KindMovieClip)
	a := NewMovieClip("a")
	b := NewMovieClip("b")
	c := NewMovieClip("c")

	root.AddChildAtDepth(b, 5)
	root.AddChildAtDepth(a, 1)
	root.AddChildAtDepth(c, 10)

	got := root.Children()
	if len(got) != 3 || got[0] != a || got[1] != b || got[2] != c {
		t.Fatalf("depth order = %v, want [a, b, c]", got)
	}
	// render order mirrors depth order on insertion.
	ro := root.RenderOrder()
	if len(ro) != 3 || ro[0] != a || ro[1] != b || ro[2] != c {
		t.Fatalf("render order = %v, want [a, b, c]", ro)
	}
}

func TestAddChildReparentsFromPreviousParent(t *testing.T) {
	parentA := newDisplayObject("a", KindMovieClip)
	parentB := newDisplayObject("b", KindMovieClip)
	child := NewMovieClip("child")

	parentA.AddChild(child)
	if child.Parent != parentA {
		t.Fatal("child not attached to parentA")
	}

	parentB.AddChild(child)
	if child.Parent != parentB {
		t.Fatal("child not reparented to parentB")
	}
	if parentA.NumChildren() != 0 {
		t.Errorf("parentA.NumChildren = %d, want 0 after reparent", parentA.NumChildren())
	}
	if parentB.NumChildren() != 1 {
		t.Errorf("parentB.NumChildren = %d, want 1", parentB.NumChildren())
	}
}

func TestReparentFiresRemovedThenAdded(t *testing.T) {
	parentA := newDisplayObject("a", KindMovieClip)
	parentB := newDisplayObject("b", KindMovieClip)
	child := NewMovieClip("child")
	parentA.AddChild(child)

	var order []string
	child.On(eventRemoved, func(e *Event) { order = append(order, "removed") })
	child.On(eventAdded, func(e *Event) { order = append(order, "added") })

	parentB.AddChild(child)

	if len(order) != 2 || order[0] != "removed" || order[1] != "added" {
		t.Fatalf("event order = %v, want [removed, added]", order)
	}
}

func TestRemoveChildOnlyAffectsDirectChild(t *testing.T) {
	root := newDisplayObject("root", KindMovieClip)
	other := newDisplayObject("other", KindMovieClip)
	child := NewMovieClip("child")
	root.AddChild(child)

	other.RemoveChild(child) // not a direct child of other, no-op
	if child.Parent != root {
		t.Fatal("RemoveChild on non-owning parent detached child")
	}

	root.RemoveChild(child)
	if child.Parent != nil {
		t.Fatal("child.Parent not cleared after RemoveChild")
	}
	if root.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", root.NumChildren())
	}
}

func TestRemoveFromParentNoParentIsNoop(t *testing.T) {
	orphan := NewMovieClip("orphan")
	orphan.RemoveFromParent() // must not panic
}

func TestSetChildIndexMovesRenderOrderOnly(t *testing.T) {
	root := newDisplayObject("root", KindMovieClip)
	a := NewMovieClip("a")
	b := NewMovieClip("b")
	c := NewMovieClip("c")
	root.AddChild(a)
	root.AddChild(b)
	root.AddChild(c)

	root.SetChildIndex(c, 0)

	ro := root.RenderOrder()
	if ro[0] != c || ro[1] != a || ro[2] != b {
		t.Fatalf("render order = %v, want [c, a, b]", ro)
	}
	// depth order (and Depth fields) are unaffected.
	depthOrder := root.Children()
	if depthOrder[0] != a || depthOrder[1] != b || depthOrder[2] != c {
		t.Fatalf("depth order = %v, want [a, b, c]", depthOrder)
	}
	if a.Depth != 0 || b.Depth != 1 || c.Depth != 2 {
		t.Error("SetChildIndex mutated Depth fields")
	}
}

func TestChildByNameFindsFirstMatch(t *testing.T) {
	root := newDisplayObject("root", KindMovieClip)
	root.AddChild(NewMovieClip("hero"))
	target := NewMovieClip("enemy")
	root.AddChild(target)

	if got := root.ChildByName("enemy"); got != target {
		t.Errorf("ChildByName(enemy) = %v, want %v", got, target)
	}
	if got := root.ChildByName("missing"); got != nil {
		t.Errorf("ChildByName(missing) = %v, want nil", got)
	}
}

func TestDisposeDetachesAndMarksSubtree(t *testing.T) {
	root := newDisplayObject("root", KindMovieClip)
	parent := NewMovieClip("parent")
	child := NewMovieClip("child")
	root.AddChild(parent)
	parent.AddChild(child)

	parent.Dispose()

	if parent.Parent != nil {
		t.Error("Dispose did not detach from root")
	}
	if !parent.IsDisposed() || !child.IsDisposed() {
		t.Error("Dispose did not mark subtree disposed")
	}
	if root.NumChildren() != 0 {
		t.Errorf("root.NumChildren = %d, want 0", root.NumChildren())
	}
}
