package cinder

import "testing"

func TestApplyTimelineTagsPlacesAndRemovesByDepth(t *testing.T) {
	clip := NewMovieClip("clip")
	dict := NewCharacterDictionary()
	tags := []Tag{
		ShapeTag{CharacterID: 1},
		PlaceObjectTag{CharacterID: 1, Depth: 10, Name: "box"},
		ShowFrameTag{},
		RemoveObjectTag{Depth: 10},
		ShowFrameTag{},
	}

	ApplyTimelineTags(clip, tags, dict, nil)

	if clip.Timeline.FrameCount != 3 {
		t.Errorf("FrameCount = %d, want 3", clip.Timeline.FrameCount)
	}
	if len(clip.Children()) != 0 {
		t.Errorf("expected the placed child to have been removed, got %d children", len(clip.Children()))
	}
}

func TestApplyTimelineTagsPlaceWithoutRemoveLeavesChild(t *testing.T) {
	clip := NewMovieClip("clip")
	dict := NewCharacterDictionary()
	tags := []Tag{
		ShapeTag{CharacterID: 1},
		PlaceObjectTag{CharacterID: 1, Depth: 10, Name: "box"},
		ShowFrameTag{},
	}

	ApplyTimelineTags(clip, tags, dict, nil)

	children := clip.Children()
	if len(children) != 1 {
		t.Fatalf("got %d children, want 1", len(children))
	}
	if children[0].Name != "box" {
		t.Errorf("Name = %q, want %q", children[0].Name, "box")
	}
	if children[0].Kind != KindShape {
		t.Errorf("Kind = %v, want KindShape", children[0].Kind)
	}
}

func TestApplyTimelineTagsPlaceObjectWithUnknownCharacterIsNoop(t *testing.T) {
	clip := NewMovieClip("clip")
	dict := NewCharacterDictionary()
	tags := []Tag{
		PlaceObjectTag{CharacterID: 99, Depth: 1},
	}

	ApplyTimelineTags(clip, tags, dict, nil)

	if len(clip.Children()) != 0 {
		t.Errorf("expected no children placed for an undefined character, got %d", len(clip.Children()))
	}
}

func TestApplyTimelineTagsCollectsFrameAndSceneLabels(t *testing.T) {
	clip := NewMovieClip("clip")
	dict := NewCharacterDictionary()
	tags := []Tag{
		FrameLabelTag{Name: "start"},
		ShowFrameTag{},
		SceneLabelTag{Name: "Scene 2", FrameIndex: 5},
		ShowFrameTag{},
	}

	ApplyTimelineTags(clip, tags, dict, nil)

	if len(clip.Timeline.Labels) != 2 {
		t.Fatalf("got %d labels, want 2", len(clip.Timeline.Labels))
	}
	if clip.Timeline.Labels[0] != (FrameLabel{Name: "start", Frame: 1}) {
		t.Errorf("first label = %+v, want {start 1}", clip.Timeline.Labels[0])
	}
	if clip.Timeline.Labels[1] != (FrameLabel{Name: "Scene 2", Frame: 5}) {
		t.Errorf("second label = %+v, want {Scene 2 5}", clip.Timeline.Labels[1])
	}
}

type recordingScriptRunner struct {
	actions [][]byte
	abcs    []DoABCTag
}

func (r *recordingScriptRunner) RunAction(clip *DisplayObject, bytecode []byte, budget *int) error {
	r.actions = append(r.actions, bytecode)
	return nil
}

func (r *recordingScriptRunner) RunABC(clip *DisplayObject, abc DoABCTag, budget *int) error {
	r.abcs = append(r.abcs, abc)
	return nil
}

func TestApplyTimelineTagsWiresDoActionAndDoABCIntoFrameActions(t *testing.T) {
	clip := NewMovieClip("clip")
	dict := NewCharacterDictionary()
	runner := &recordingScriptRunner{}
	tags := []Tag{
		DoActionTag{Bytecode: []byte{1, 2, 3}},
		DoABCTag{Name: "main", Bytecode: []byte{4, 5}},
		ShowFrameTag{},
	}

	ApplyTimelineTags(clip, tags, dict, runner)

	if len(clip.Timeline.Actions) != 2 {
		t.Fatalf("got %d frame actions, want 2", len(clip.Timeline.Actions))
	}
	budget := 1000
	for _, a := range clip.Timeline.Actions {
		a.Run(clip, &budget)
	}
	if len(runner.actions) != 1 || len(runner.actions[0]) != 3 {
		t.Errorf("RunAction not invoked with the expected bytecode: %v", runner.actions)
	}
	if len(runner.abcs) != 1 || runner.abcs[0].Name != "main" {
		t.Errorf("RunABC not invoked with the expected blob: %v", runner.abcs)
	}
}

func TestApplyTimelineTagsFrameActionIsNoopWithoutRunner(t *testing.T) {
	clip := NewMovieClip("clip")
	dict := NewCharacterDictionary()
	tags := []Tag{
		DoActionTag{Bytecode: []byte{1}},
		ShowFrameTag{},
	}

	ApplyTimelineTags(clip, tags, dict, nil)

	budget := 1000
	clip.Timeline.Actions[0].Run(clip, &budget) // must not panic with a nil runner
}

func TestApplyTimelineTagsBuildsNestedSpriteTimeline(t *testing.T) {
	clip := NewMovieClip("clip")
	dict := NewCharacterDictionary()
	tags := []Tag{
		ShapeTag{CharacterID: 1},
		SpriteTag{CharacterID: 2, Tags: []Tag{
			PlaceObjectTag{CharacterID: 1, Depth: 1, Name: "inner"},
			ShowFrameTag{},
			ShowFrameTag{},
		}},
		PlaceObjectTag{CharacterID: 2, Depth: 1, Name: "nested"},
		ShowFrameTag{},
	}

	ApplyTimelineTags(clip, tags, dict, nil)

	children := clip.Children()
	if len(children) != 1 || children[0].Kind != KindMovieClip {
		t.Fatalf("expected one nested movie clip child, got %+v", children)
	}
	nested := children[0]
	if nested.Timeline.FrameCount != 3 {
		t.Errorf("nested FrameCount = %d, want 3", nested.Timeline.FrameCount)
	}
	if len(nested.Children()) != 1 || nested.Children()[0].Name != "inner" {
		t.Errorf("expected the nested sprite's own placement to have run, got %+v", nested.Children())
	}
}

func TestBuildCharacterWiresButtonStates(t *testing.T) {
	dict := NewCharacterDictionary()
	dict.entries[1] = ShapeTag{CharacterID: 1}
	tag := ButtonTag{CharacterID: 10, Records: []ButtonRecord{
		{CharacterID: 1, Up: true, Over: true},
		{CharacterID: 1, HitTest: true},
	}}

	d := BuildCharacter(tag, dict, nil)
	if d == nil || d.Kind != KindButton {
		t.Fatalf("expected a button display object, got %+v", d)
	}
	if d.Button.UpState() == nil || d.Button.OverState() == nil {
		t.Error("expected up and over states to be populated")
	}
	if d.Button.HitArea() == nil {
		t.Error("expected hit area to be populated")
	}
	if d.Button.UpState() == d.Button.OverState() {
		t.Error("up and over states must be distinct instances, each with a single parent")
	}
}

func TestLoadMovieAttachesRootAndAppliesBackgroundColor(t *testing.T) {
	stage := NewStage(StageConfig{})
	tags := []Tag{
		BackgroundColorTag{Color: Color{R: 0.1, G: 0.2, B: 0.3, A: 1}},
		ShapeTag{CharacterID: 1},
		PlaceObjectTag{CharacterID: 1, Depth: 1, Name: "box"},
		ShowFrameTag{},
	}

	root := LoadMovie(stage, tags, nil)

	if root.Parent != stage.Root() {
		t.Error("LoadMovie must attach the built root clip to the stage")
	}
	if stage.Config.BackgroundColor != (Color{R: 0.1, G: 0.2, B: 0.3, A: 1}) {
		t.Errorf("BackgroundColor = %+v, want {0.1 0.2 0.3 1}", stage.Config.BackgroundColor)
	}
	if len(root.Children()) != 1 {
		t.Errorf("got %d children on the root clip, want 1", len(root.Children()))
	}
}
