package cinder

import (
	"testing"

	"github.com/cindervm/cinder/internal/geom"
)

func TestRunFrameAdvancesMovieClipTimeline(t *testing.T) {
	stage := NewStage(StageConfig{})
	clip := NewMovieClip("clip")
	clip.Timeline.FrameCount = 5
	stage.Root().AddChild(clip)

	stage.RunFrame()
	if clip.Timeline.CurrentFrame != 1 {
		t.Errorf("CurrentFrame = %d, want 1 after one RunFrame", clip.Timeline.CurrentFrame)
	}
	stage.RunFrame()
	if clip.Timeline.CurrentFrame != 2 {
		t.Errorf("CurrentFrame = %d, want 2 after two RunFrame calls", clip.Timeline.CurrentFrame)
	}
}

func TestRunFrameRunsScriptsInOrder(t *testing.T) {
	stage := NewStage(StageConfig{})
	clip := NewMovieClip("clip")
	clip.Timeline.FrameCount = 3
	var ran bool
	clip.Timeline.Actions = []FrameAction{
		{Frame: 1, Run: func(c *DisplayObject, budget *int) error { ran = true; return nil }},
	}
	stage.Root().AddChild(clip)

	stage.RunFrame()

	if !ran {
		t.Error("frame 1's action did not run during its own RunFrame")
	}
}

func TestRunFrameRespectsInstructionBudget(t *testing.T) {
	stage := NewStage(StageConfig{})
	stage.Config.InstructionBudget = 0
	clip := NewMovieClip("clip")
	clip.Timeline.FrameCount = 2
	ran := false
	clip.Timeline.Actions = []FrameAction{
		{Frame: 1, Run: func(c *DisplayObject, budget *int) error { ran = true; return nil }},
	}
	stage.Root().AddChild(clip)

	var reported error
	stage.OnError(func(err error) { reported = err })
	stage.RunFrame()

	if ran {
		t.Error("script ran despite a zero instruction budget")
	}
	if reported == nil {
		t.Error("expected the budget exhaustion to be reported through OnError")
	}
}

func TestRunFrameUpdatesWorldTransformOfNestedChildren(t *testing.T) {
	stage := NewStage(StageConfig{})
	parent := NewMovieClip("parent")
	parent.Matrix = geom.Translate(geom.FromPixels(10), geom.FromPixels(20))
	child := NewMovieClip("child")
	child.Matrix = geom.Translate(geom.FromPixels(1), geom.FromPixels(2))
	parent.AddChild(child)
	stage.Root().AddChild(parent)

	stage.RunFrame()

	want := geom.FromPixels(11)
	if child.WorldMatrix().TX != want {
		t.Errorf("child world TX = %v, want %v", child.WorldMatrix().TX, want)
	}
}

func TestRunFrameIncrementsFrameCount(t *testing.T) {
	stage := NewStage(StageConfig{})
	if stage.FrameCount() != 0 {
		t.Fatalf("FrameCount = %d, want 0 before any RunFrame", stage.FrameCount())
	}
	stage.RunFrame()
	stage.RunFrame()
	if stage.FrameCount() != 2 {
		t.Errorf("FrameCount = %d, want 2", stage.FrameCount())
	}
}

func TestRunFrameConstructsButtonStatesOnce(t *testing.T) {
	stage := NewStage(StageConfig{})
	btn := NewButton("btn")
	up := NewMovieClip("up")
	btn.Button.SetUpState(up)
	stage.Root().AddChild(btn)

	stage.RunFrame()

	if btn.NumChildren() != 1 || btn.ChildAt(0) != up {
		t.Fatalf("expected up state attached after first RunFrame, got %v", btn.Children())
	}
}
