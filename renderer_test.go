package cinder

import (
	"testing"

	"github.com/cindervm/cinder/internal/geom"
)

type recordingRenderer struct {
	fakeRenderer
	began, ended int
	submitted    []DrawCommand
}

func (r *recordingRenderer) BeginFrame()            { r.began++ }
func (r *recordingRenderer) EndFrame()              { r.ended++ }
func (r *recordingRenderer) Submit(cmd DrawCommand) { r.submitted = append(r.submitted, cmd) }

func TestRenderSelfReturnsFalseForContainerKinds(t *testing.T) {
	d := NewMovieClip("clip")
	_, ok := d.renderSelf()
	if ok {
		t.Error("renderSelf should report no content for a movie clip with no graphic payload")
	}
}

func TestRenderSelfReturnsTrueForGraphicKinds(t *testing.T) {
	d := square("s", geom.FromPixels(10))
	_, ok := d.renderSelf()
	if !ok {
		t.Error("renderSelf should report content for a shape")
	}
}

func TestRenderFrameSkipsInvisibleSubtrees(t *testing.T) {
	r := &recordingRenderer{}
	stage := NewStage(StageConfig{Renderer: r})
	visible := square("v", geom.FromPixels(10))
	hidden := square("h", geom.FromPixels(10))
	hidden.Visible = false
	stage.Root().AddChild(visible)
	stage.Root().AddChild(hidden)

	stage.RunFrame()

	if r.began != 1 || r.ended != 1 {
		t.Errorf("BeginFrame/EndFrame calls = %d/%d, want 1/1", r.began, r.ended)
	}
	if len(r.submitted) != 1 {
		t.Errorf("submitted %d commands, want 1 (invisible subtree must be skipped)", len(r.submitted))
	}
}

func TestRenderFrameWithoutRendererIsNoop(t *testing.T) {
	stage := NewStage(StageConfig{})
	stage.Root().AddChild(square("s", geom.FromPixels(10)))
	stage.RunFrame() // must not panic with Renderer unset
}
