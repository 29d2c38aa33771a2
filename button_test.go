package cinder

import "testing"

func TestNewButtonStartsInUpStateWithNoChildAttached(t *testing.T) {
	b := NewButton("btn")
	if b.Kind != KindButton {
		t.Fatalf("Kind = %v, want KindButton", b.Kind)
	}
	if b.Button.State() != ButtonStateUp {
		t.Errorf("State() = %v, want ButtonStateUp", b.Button.State())
	}
	if b.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0 before any state is assigned", b.NumChildren())
	}
}

func TestSetStateAttachesAssignedSubtree(t *testing.T) {
	b := NewButton("btn")
	up := NewGraphic("up")
	over := NewGraphic("over")
	b.Button.SetUpState(up)
	b.Button.SetOverState(over)

	b.Button.SetState(ButtonStateUp)
	if b.NumChildren() != 1 || b.ChildAt(0) != up {
		t.Fatalf("expected up attached, got children %v", b.Children())
	}

	b.Button.SetState(ButtonStateOver)
	if b.NumChildren() != 1 || b.ChildAt(0) != over {
		t.Fatalf("expected over attached after switch, got children %v", b.Children())
	}
	if up.Parent != nil {
		t.Error("previous state subtree was not detached")
	}
}

func TestSetStateToUnassignedStateDetachesWithNothingAttached(t *testing.T) {
	b := NewButton("btn")
	up := NewGraphic("up")
	b.Button.SetUpState(up)
	b.Button.SetState(ButtonStateUp)

	b.Button.SetState(ButtonStateDown) // no down state assigned
	if b.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0 after switching to an unassigned state", b.NumChildren())
	}
	if up.Parent != nil {
		t.Error("up state still attached after switching away")
	}
}

func TestAllStateChildrenOrderNormalAndWeird(t *testing.T) {
	b := newButtonData(NewButton("btn"))
	up := NewGraphic("up")
	over := NewGraphic("over")
	down := NewGraphic("down")
	hit := NewGraphic("hit")
	b.upState, b.overState, b.downState, b.hitAreaState = up, over, down, hit

	normal := b.allStateChildren(false)
	want := []*DisplayObject{up, over, down, hit}
	for i := range want {
		if normal[i] != want[i] {
			t.Fatalf("normal order = %v, want %v", normal, want)
		}
	}

	weird := b.allStateChildren(true)
	wantWeird := []*DisplayObject{hit, up, down, over}
	for i := range wantWeird {
		if weird[i] != wantWeird[i] {
			t.Fatalf("weird order = %v, want %v", weird, wantWeird)
		}
	}
}

func TestConstructFrameAttachesDefaultStateOnce(t *testing.T) {
	b := NewButton("btn")
	up := NewMovieClip("up")
	b.Button.SetUpState(up)

	ctx := &frameContext{}
	b.Button.constructFrame(ctx)
	if b.NumChildren() != 1 || b.ChildAt(0) != up {
		t.Fatalf("expected up attached after constructFrame, got %v", b.Children())
	}

	// Detach manually and call again: constructFrame is one-shot and must
	// not re-attach once b.Button.constructed is set.
	b.RemoveChild(up)
	b.Button.constructFrame(ctx)
	if b.NumChildren() != 0 {
		t.Error("constructFrame ran a second time after already constructing")
	}
}

func TestConstructFrameLatchesWeirdOrderWhenUpStateIsMovieClip(t *testing.T) {
	b := NewButton("btn")
	b.Button.SetUpState(NewMovieClip("up"))

	b.Button.constructFrame(&frameContext{})

	if !b.Button.weirdFrameScriptOrder {
		t.Error("expected weirdFrameScriptOrder to latch when the up state is a movie clip")
	}
}

func TestConstructFrameLatchesWeirdOrderWhenUpStateContainsMovieClip(t *testing.T) {
	b := NewButton("btn")
	up := NewGraphic("up")
	up.AddChild(NewMovieClip("nested"))
	b.Button.SetUpState(up)

	b.Button.constructFrame(&frameContext{})

	if !b.Button.weirdFrameScriptOrder {
		t.Error("expected weirdFrameScriptOrder to latch when the up state contains a movie clip child")
	}
}

func TestConstructFrameLeavesWeirdOrderUnsetWithoutMovieClip(t *testing.T) {
	b := NewButton("btn")
	b.Button.SetUpState(NewGraphic("up"))

	b.Button.constructFrame(&frameContext{})

	if b.Button.weirdFrameScriptOrder {
		t.Error("expected weirdFrameScriptOrder to stay unset with no movie clip in the up state")
	}
}
