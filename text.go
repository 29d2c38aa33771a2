package cinder

import "github.com/cindervm/cinder/internal/geom"

// TextData is the per-field payload for a KindText DisplayObject,
// covering both static (device/embedded-font) and editable text fields.
type TextData struct {
	// Content is the current plain-text (or, when HTML is true,
	// HTML-subset-markup) contents of the field.
	Content string
	HTML    bool

	FontName string
	FontSize float64
	Color    Color
	Align    TextAlign
	Bold     bool
	Italic   bool

	// Bounds is the field's layout box in local twip space, set at
	// placement time from the tag's text-bounds rectangle.
	Bounds geom.Rectangle

	Multiline bool
	WordWrap  bool
	Selectable bool

	// Editable allows host input to mutate Content; static text fields
	// leave this false.
	Editable bool

	MaxChars int

	// onChanged, if set, runs whenever Editable text content changes via
	// host input, ahead of the scripted change event this will later
	// drive through Dispatch.
	onChanged func(*DisplayObject)
}

// NewTextField creates a static, non-editable text display object.
func NewTextField(name, content string) *DisplayObject {
	d := newDisplayObject(name, KindText)
	d.Text = &TextData{
		Content:  content,
		FontSize: 12,
		Color:    Color{0, 0, 0, 1},
	}
	return d
}

// NewEditableTextField creates an editable text display object, the
// generalization of an AVM1/AVM2 dynamic or input text field.
func NewEditableTextField(name string) *DisplayObject {
	d := NewTextField(name, "")
	d.Text.Editable = true
	d.Text.Selectable = true
	return d
}

// SetText replaces the field's content and fires onChanged if set.
func (d *DisplayObject) SetText(content string) {
	if d.Text == nil {
		return
	}
	d.Text.Content = content
	if d.Text.onChanged != nil {
		d.Text.onChanged(d)
	}
}

func (d *DisplayObject) textLocalBounds() geom.Rectangle {
	if d.Text == nil {
		return geom.Rectangle{}
	}
	return d.Text.Bounds
}
