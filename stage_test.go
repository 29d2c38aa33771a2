package cinder

import (
	"errors"
	"testing"

	"github.com/cindervm/cinder/internal/geom"
)

func TestNewStageAppliesDefaults(t *testing.T) {
	s := NewStage(StageConfig{})
	if s.Config.FrameRate != 24 {
		t.Errorf("FrameRate = %v, want default 24", s.Config.FrameRate)
	}
	if s.Config.InstructionBudget != 1_000_000 {
		t.Errorf("InstructionBudget = %v, want default 1_000_000", s.Config.InstructionBudget)
	}
	if s.Root() == nil || s.Root().Kind != KindStage {
		t.Error("Root() did not return a KindStage object")
	}
}

func TestNewStageHonorsExplicitConfig(t *testing.T) {
	s := NewStage(StageConfig{FrameRate: 60, InstructionBudget: 500})
	if s.Config.FrameRate != 60 {
		t.Errorf("FrameRate = %v, want 60", s.Config.FrameRate)
	}
	if s.Config.InstructionBudget != 500 {
		t.Errorf("InstructionBudget = %v, want 500", s.Config.InstructionBudget)
	}
}

func TestOnErrorReceivesReportedErrors(t *testing.T) {
	s := NewStage(StageConfig{})
	var got error
	s.OnError(func(err error) { got = err })

	s.reportErrorf("bad opcode %d", 42)

	if got == nil {
		t.Fatal("OnError callback was not invoked")
	}
	if got.Error() != "bad opcode 42" {
		t.Errorf("error = %q, want %q", got.Error(), "bad opcode 42")
	}
}

func TestReportErrorWithoutHandlerDoesNotPanic(t *testing.T) {
	s := NewStage(StageConfig{})
	s.reportError(errors.New("unhandled"))
}

func TestPickDelegatesToRoot(t *testing.T) {
	s := NewStage(StageConfig{})
	shape := square("s", geom.FromPixels(100))
	s.Root().AddChild(shape)
	refreshWorldTransformSubtree(s.Root(), geom.Identity, geom.IdentityColorTransform)

	got := s.Pick(geom.Point{X: geom.FromPixels(50), Y: geom.FromPixels(50)}, HitTestBounds)
	if got != shape {
		t.Errorf("Pick = %v, want %v", got, shape)
	}
}

func TestDeliverLoadQueuesUntilNextRunFrame(t *testing.T) {
	s := NewStage(StageConfig{})
	var delivered []LoadResult
	s.OnLoadComplete(func(st *Stage, r LoadResult) { delivered = append(delivered, r) })

	s.DeliverLoad(LoadResult{URL: "a.swf"})
	if len(delivered) != 0 {
		t.Fatal("DeliverLoad must not call the handler synchronously")
	}

	s.RunFrame()
	if len(delivered) != 1 || delivered[0].URL != "a.swf" {
		t.Fatalf("delivered = %v, want one result for a.swf", delivered)
	}

	s.RunFrame()
	if len(delivered) != 1 {
		t.Error("a load already drained should not be redelivered on the next frame")
	}
}
