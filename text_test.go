package cinder

import "testing"

func TestNewTextFieldDefaults(t *testing.T) {
	f := NewTextField("label", "hello")
	if f.Kind != KindText {
		t.Fatalf("Kind = %v, want KindText", f.Kind)
	}
	if f.Text.Content != "hello" {
		t.Errorf("Content = %q, want %q", f.Text.Content, "hello")
	}
	if f.Text.Editable {
		t.Error("NewTextField should not be editable")
	}
}

func TestNewEditableTextFieldIsEditableAndSelectable(t *testing.T) {
	f := NewEditableTextField("input")
	if !f.Text.Editable || !f.Text.Selectable {
		t.Error("NewEditableTextField should be editable and selectable")
	}
	if f.Text.Content != "" {
		t.Errorf("Content = %q, want empty", f.Text.Content)
	}
}

func TestSetTextUpdatesContentAndFiresOnChanged(t *testing.T) {
	f := NewEditableTextField("input")
	var seen string
	f.Text.onChanged = func(d *DisplayObject) { seen = d.Text.Content }

	f.SetText("typed")

	if f.Text.Content != "typed" {
		t.Errorf("Content = %q, want %q", f.Text.Content, "typed")
	}
	if seen != "typed" {
		t.Errorf("onChanged saw %q, want %q", seen, "typed")
	}
}

func TestSetTextOnNonTextObjectIsNoop(t *testing.T) {
	d := NewMovieClip("clip")
	d.SetText("ignored") // must not panic despite d.Text being nil
}

func TestTextLocalBoundsMatchesConfiguredBounds(t *testing.T) {
	f := NewTextField("label", "hello")
	f.Text.Bounds.XMax = 100
	f.Text.Bounds.YMax = 20

	got := f.LocalBounds()
	if got.XMax != 100 || got.YMax != 20 {
		t.Errorf("LocalBounds = %v, want XMax=100 YMax=20", got)
	}
}
