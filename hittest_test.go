package cinder

import (
	"testing"

	"github.com/cindervm/cinder/internal/geom"
)

func square(name string, w geom.Twips) *DisplayObject {
	d := NewShape(name)
	d.Draw().BeginFill(1, 1, 1, 1)
	d.Draw().MoveTo(geom.Point{})
	d.Draw().LineTo(geom.Point{X: w})
	d.Draw().LineTo(geom.Point{X: w, Y: w})
	d.Draw().LineTo(geom.Point{Y: w})
	d.Draw().EndFill()
	return d
}

func TestHitTestPointBoundsModeInsideAndOutside(t *testing.T) {
	root := newDisplayObject("root", KindMovieClip)
	shape := square("s", geom.FromPixels(100))
	root.AddChild(shape)
	refreshWorldTransformSubtree(root, geom.Identity, geom.IdentityColorTransform)

	if !shape.HitTestPoint(geom.Point{X: geom.FromPixels(50), Y: geom.FromPixels(50)}, HitTestBounds) {
		t.Error("expected point inside the shape's bounds to hit")
	}
	if shape.HitTestPoint(geom.Point{X: geom.FromPixels(500), Y: geom.FromPixels(500)}, HitTestBounds) {
		t.Error("expected point far outside the shape's bounds to miss")
	}
}

func TestHitTestPointInvisibleNeverHits(t *testing.T) {
	root := newDisplayObject("root", KindMovieClip)
	shape := square("s", geom.FromPixels(100))
	shape.Visible = false
	root.AddChild(shape)
	refreshWorldTransformSubtree(root, geom.Identity, geom.IdentityColorTransform)

	if shape.HitTestPoint(geom.Point{X: geom.FromPixels(50), Y: geom.FromPixels(50)}, HitTestBounds) {
		t.Error("invisible shape should never be hit")
	}
}

func TestPickReturnsFrontmostHit(t *testing.T) {
	root := newDisplayObject("root", KindMovieClip)
	back := square("back", geom.FromPixels(100))
	front := square("front", geom.FromPixels(100))
	root.AddChild(back)
	root.AddChild(front)
	refreshWorldTransformSubtree(root, geom.Identity, geom.IdentityColorTransform)

	got := root.Pick(geom.Point{X: geom.FromPixels(50), Y: geom.FromPixels(50)}, HitTestBounds)
	if got != front {
		t.Errorf("Pick = %v, want front-most %v", got, front)
	}
}

func TestPickHonorsMouseEnabledFalse(t *testing.T) {
	root := newDisplayObject("root", KindMovieClip)
	shape := square("s", geom.FromPixels(100))
	shape.MouseEnabled = false
	root.AddChild(shape)
	refreshWorldTransformSubtree(root, geom.Identity, geom.IdentityColorTransform)

	if got := shape.Pick(geom.Point{X: geom.FromPixels(50), Y: geom.FromPixels(50)}, HitTestBounds); got != nil {
		t.Errorf("Pick on a mouseEnabled=false object = %v, want nil", got)
	}
}

func TestPickHonorsMouseChildrenFalse(t *testing.T) {
	root := newDisplayObject("root", KindMovieClip)
	container := NewMovieClip("container")
	container.MouseChildren = false
	child := square("child", geom.FromPixels(100))
	root.AddChild(container)
	container.AddChild(child)
	refreshWorldTransformSubtree(root, geom.Identity, geom.IdentityColorTransform)

	got := container.Pick(geom.Point{X: geom.FromPixels(50), Y: geom.FromPixels(50)}, HitTestBounds)
	if got != nil {
		t.Errorf("Pick descended into children despite mouseChildren=false, got %v", got)
	}
}

func TestPickButtonSubstitutesHitArea(t *testing.T) {
	btn := NewButton("btn")
	up := square("up", geom.FromPixels(10)) // small visible state
	hit := square("hit", geom.FromPixels(100)) // larger hit area
	btn.Button.SetUpState(up)
	btn.Button.SetHitArea(hit)
	btn.Button.SetState(ButtonStateUp)
	refreshWorldTransformSubtree(btn, geom.Identity, geom.IdentityColorTransform)

	// A point inside the hit area but outside the small visible "up"
	// state should still hit the button, since the hit area replaces the
	// visible subtree for picking purposes.
	got := btn.Pick(geom.Point{X: geom.FromPixels(50), Y: geom.FromPixels(50)}, HitTestBounds)
	if got != btn {
		t.Errorf("Pick = %v, want the button itself via its hit area", got)
	}
}
