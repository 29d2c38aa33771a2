package cinder

// ScriptRunner executes decoded action/ABC bytecode against a receiving
// clip. A host wires a concrete ScriptRunner backed by internal/avm1
// and internal/avm2 so DoActionTag/DoABCTag have somewhere to run.
// budget is the frame's remaining instruction allowance, shared across
// every clip's scripts this frame; an implementation threads it into
// its interpreter (avm1.Interpreter.SetBudget, avm2.Machine.Budget) so
// the interpreter itself decrements it and returns class.ErrBudgetExhausted
// once it reaches zero.
type ScriptRunner interface {
	RunAction(clip *DisplayObject, bytecode []byte, budget *int) error
	RunABC(clip *DisplayObject, abc DoABCTag, budget *int) error
}

// CharacterDictionary maps a tag stream's CharacterID values to the
// defining tag (ShapeTag, SpriteTag, ButtonTag, FontTag, TextTag,
// SoundTag), the generalization of a decoded SWF file's single global
// character table. Entries accumulate across the whole tag stream,
// including nested SpriteTag bodies, matching the format's own scoping.
type CharacterDictionary struct {
	entries map[uint16]Tag
}

// NewCharacterDictionary returns an empty dictionary.
func NewCharacterDictionary() *CharacterDictionary {
	return &CharacterDictionary{entries: make(map[uint16]Tag)}
}

// Lookup returns the tag that defined id, if any.
func (d *CharacterDictionary) Lookup(id uint16) (Tag, bool) {
	t, ok := d.entries[id]
	return t, ok
}

// LoadMovie builds a movie clip from a decoded top-level tag stream and
// attaches it to stage's root, the entry point a host calls once per
// loaded SWF (or loadMovie-style nested load). runner may be nil, in
// which case DoAction/DoABC tags are recorded as FrameActions that
// silently no-op when run.
func LoadMovie(stage *Stage, tags []Tag, runner ScriptRunner) *DisplayObject {
	for _, raw := range tags {
		if bg, ok := raw.(BackgroundColorTag); ok {
			stage.Config.BackgroundColor = bg.Color
		}
	}
	dict := NewCharacterDictionary()
	root := NewMovieClip("_root")
	ApplyTimelineTags(root, tags, dict, runner)
	stage.Root().AddChild(root)
	return root
}

// ApplyTimelineTags consumes one timeline's worth of tags (a file's
// top-level stream, or a SpriteTag's nested body) against clip,
// populating its Timeline's FrameCount/Labels/Actions and placing
// children by depth as ShowFrameTag boundaries advance the frame
// counter. Character-defining tags (ShapeTag, SpriteTag, ButtonTag,
// FontTag, TextTag, SoundTag) are recorded into dict as they're
// encountered, matching the decoder's own tag order (a character must
// be defined before any PlaceObjectTag references its CharacterID).
func ApplyTimelineTags(clip *DisplayObject, tags []Tag, dict *CharacterDictionary, runner ScriptRunner) {
	tl := clip.Timeline
	if tl == nil {
		return
	}

	frame := 1
	placed := make(map[int16]*DisplayObject)

	for _, raw := range tags {
		switch t := raw.(type) {
		case ShapeTag:
			dict.entries[t.CharacterID] = t
		case SpriteTag:
			dict.entries[t.CharacterID] = t
		case SoundTag:
			dict.entries[t.CharacterID] = t
		case ButtonTag:
			dict.entries[t.CharacterID] = t
		case FontTag:
			dict.entries[t.CharacterID] = t
		case TextTag:
			dict.entries[t.CharacterID] = t

		case PlaceObjectTag:
			applyPlaceObject(clip, dict, runner, t, placed)

		case RemoveObjectTag:
			if child, ok := placed[t.Depth]; ok {
				clip.RemoveChild(child)
				delete(placed, t.Depth)
			}

		case FrameLabelTag:
			tl.Labels = append(tl.Labels, FrameLabel{Name: t.Name, Frame: frame})

		case SceneLabelTag:
			tl.Labels = append(tl.Labels, FrameLabel{Name: t.Name, Frame: t.FrameIndex})

		case DoActionTag:
			bytecode := t.Bytecode
			tl.Actions = append(tl.Actions, FrameAction{Frame: frame, Run: func(c *DisplayObject, budget *int) error {
				if runner == nil {
					return nil
				}
				return runner.RunAction(c, bytecode, budget)
			}})

		case DoABCTag:
			abc := t
			tl.Actions = append(tl.Actions, FrameAction{Frame: frame, Run: func(c *DisplayObject, budget *int) error {
				if runner == nil {
					return nil
				}
				return runner.RunABC(c, abc, budget)
			}})

		case ShowFrameTag:
			frame++
		}
	}

	tl.FrameCount = frame
	if tl.FrameCount < 1 {
		tl.FrameCount = 1
	}
}

// applyPlaceObject handles one PlaceObjectTag: a fresh placement builds
// a new display object from dict and inserts it at Depth; a Move
// placement retargets the instance already occupying Depth (only its
// Name is generalized here, since Matrix/ColorXform updates on an
// existing instance are a per-placement-record detail the decoder
// itself resolves before handing cinder a PlaceObjectTag.
func applyPlaceObject(parent *DisplayObject, dict *CharacterDictionary, runner ScriptRunner, t PlaceObjectTag, placed map[int16]*DisplayObject) {
	if t.Move {
		if child, ok := placed[t.Depth]; ok && t.Name != "" {
			child.Name = t.Name
		}
		return
	}

	charTag, ok := dict.Lookup(t.CharacterID)
	if !ok {
		return
	}
	child := BuildCharacter(charTag, dict, runner)
	if child == nil {
		return
	}
	if t.Name != "" {
		child.Name = t.Name
	}
	parent.AddChildAtDepth(child, t.Depth)
	placed[t.Depth] = child
}

// BuildCharacter instantiates a fresh, unnamed display object from a
// dictionary tag: a SpriteTag recurses through ApplyTimelineTags to
// build its nested timeline; a ButtonTag builds each referenced state
// subtree independently (a SWF button record may flag the same
// CharacterID for more than one state, but each state needs its own
// instance since a display object has exactly one parent at a time).
// Returns nil for tag kinds with no direct display representation
// (SoundTag, FontTag).
func BuildCharacter(tag Tag, dict *CharacterDictionary, runner ScriptRunner) *DisplayObject {
	switch t := tag.(type) {
	case SpriteTag:
		clip := NewMovieClip("")
		ApplyTimelineTags(clip, t.Tags, dict, runner)
		return clip
	case ShapeTag:
		return NewShape("")
	case TextTag:
		return NewTextField("", "")
	case ButtonTag:
		return buildButton(t, dict, runner)
	default:
		return nil
	}
}

func buildButton(t ButtonTag, dict *CharacterDictionary, runner ScriptRunner) *DisplayObject {
	btn := NewButton("")
	for _, rec := range t.Records {
		charTag, ok := dict.Lookup(rec.CharacterID)
		if !ok {
			continue
		}
		if rec.Up {
			if c := BuildCharacter(charTag, dict, runner); c != nil {
				btn.Button.SetUpState(c)
			}
		}
		if rec.Over {
			if c := BuildCharacter(charTag, dict, runner); c != nil {
				btn.Button.SetOverState(c)
			}
		}
		if rec.Down {
			if c := BuildCharacter(charTag, dict, runner); c != nil {
				btn.Button.SetDownState(c)
			}
		}
		if rec.HitTest {
			if c := BuildCharacter(charTag, dict, runner); c != nil {
				btn.Button.SetHitArea(c)
			}
		}
	}
	return btn
}
