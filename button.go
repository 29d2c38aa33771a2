package cinder

// ButtonState selects which of a button's four state subtrees is
// currently attached to the display list, mirroring
// swf::ButtonState::{UP,OVER,DOWN,HIT_TEST}.
type ButtonState uint8

const (
	ButtonStateUp ButtonState = iota
	ButtonStateOver
	ButtonStateDown
	ButtonStateHitTest
)

// ButtonData is the per-button payload for a KindButton DisplayObject:
// four mutually exclusive state subtrees, grounded on
// original_source/core/src/display_object/avm2_button.rs's
// Avm2ButtonData (up_state/over_state/down_state/hit_area, all
// Lock<Option<DisplayObject>> there; plain fields here since the
// runtime is single-threaded.
type ButtonData struct {
	owner *DisplayObject

	state ButtonState

	upState      *DisplayObject
	overState    *DisplayObject
	downState    *DisplayObject
	hitAreaState *DisplayObject

	// attached is whichever of the four states is currently a child of
	// owner; at most one ever is, matching avm2_button.rs's invariant
	// that only the active state renders.
	attached *DisplayObject

	// weirdFrameScriptOrder mirrors Avm2ButtonData's
	// weird_framescript_order: Cell<bool> quirk, latched by
	// constructFrame when the up state is a movie clip or directly
	// contains one; constructFrame then reads it to choose the
	// state-child construction order. It is never cleared.
	weirdFrameScriptOrder bool

	constructed bool

	trackAsMenu bool
}

func newButtonData(owner *DisplayObject) *ButtonData {
	return &ButtonData{owner: owner, state: ButtonStateUp}
}

// NewButton creates a four-state interactive button with no state
// subtrees assigned; use SetUpState/SetOverState/SetDownState/SetHitArea
// to populate them before the first Construct phase attaches one.
func NewButton(name string) *DisplayObject {
	d := newDisplayObject(name, KindButton)
	d.Button = newButtonData(d)
	return d
}

// SetUpState, SetOverState, SetDownState, and SetHitArea assign the
// display-object subtree rendered for each of a button's four states.
// None of these attach to the parent chain until SetState (or the first
// Construct phase) selects them.
func (b *ButtonData) SetUpState(d *DisplayObject)      { b.upState = d }
func (b *ButtonData) SetOverState(d *DisplayObject)    { b.overState = d }
func (b *ButtonData) SetDownState(d *DisplayObject)    { b.downState = d }
func (b *ButtonData) SetHitArea(d *DisplayObject)      { b.hitAreaState = d }

func (b *ButtonData) UpState() *DisplayObject      { return b.upState }
func (b *ButtonData) OverState() *DisplayObject    { return b.overState }
func (b *ButtonData) DownState() *DisplayObject    { return b.downState }
func (b *ButtonData) HitArea() *DisplayObject      { return b.hitAreaState }

// State reports the button's current visible state.
func (b *ButtonData) State() ButtonState { return b.state }

// stateSubtree returns the subtree configured for state, or nil if none
// was assigned.
func (b *ButtonData) stateSubtree(state ButtonState) *DisplayObject {
	switch state {
	case ButtonStateUp:
		return b.upState
	case ButtonStateOver:
		return b.overState
	case ButtonStateDown:
		return b.downState
	case ButtonStateHitTest:
		return b.hitAreaState
	default:
		return nil
	}
}

// SetState switches the button's visible state, detaching whichever
// subtree is currently attached (firing removed) and attaching the new
// one (firing added), mirroring Avm2Button::set_state's
// set_state_child call. Switching to a state with no assigned subtree
// leaves nothing attached.
func (b *ButtonData) SetState(state ButtonState) {
	b.state = state
	next := b.stateSubtree(state)
	b.setStateChild(next)
}

func (b *ButtonData) setStateChild(next *DisplayObject) {
	if b.attached == next {
		return
	}
	if b.attached != nil {
		b.owner.RemoveChild(b.attached)
	}
	b.attached = next
	if next != nil {
		b.owner.AddChildAtDepth(next, 0)
	}
}

// allStateChildren returns the four state subtrees in construction
// order. When weirdOrder is set it returns [hit_area, up, down, over]
// instead of [up, over, down, hit_area], mirroring
// Avm2Button::all_state_children(weird_order) exactly.
func (b *ButtonData) allStateChildren(weirdOrder bool) []*DisplayObject {
	if weirdOrder {
		return []*DisplayObject{b.hitAreaState, b.upState, b.downState, b.overState}
	}
	return []*DisplayObject{b.upState, b.overState, b.downState, b.hitAreaState}
}

// constructFrame runs a button's one-time eager state construction: it
// walks every assigned state subtree (regardless of which is currently
// visible) through its own Construct phase so that scripted state
// contents are ready before the first render, then attaches whichever
// state SetState last selected (or ButtonStateUp by default).
// Grounded on Avm2Button::construct_frame, which constructs all four
// states before firing dispatch_added_event for the button itself.
//
// If the up state turns out to hold a movie clip (itself, or one of
// its own direct children), weirdFrameScriptOrder latches and
// allStateChildren visits [hit_area, up, down, over] instead of
// [up, over, down, hit_area], matching all_state_children(weird_order).
// Only the construction order changes; no frame script runs ahead of
// its normal schedule.
func (b *ButtonData) constructFrame(ctx *frameContext) {
	if b.constructed {
		return
	}
	b.constructed = true

	if hasMovieClipState(b.upState) {
		b.weirdFrameScriptOrder = true
	}

	for _, child := range b.allStateChildren(b.weirdFrameScriptOrder) {
		if child == nil {
			continue
		}
		constructFrameRecursive(child, ctx)
	}

	if b.attached == nil {
		b.setStateChild(b.stateSubtree(b.state))
	}
}

// hasMovieClipState reports whether state is itself a movie clip or
// directly contains one, the condition that triggers
// weirdFrameScriptOrder.
func hasMovieClipState(state *DisplayObject) bool {
	if state == nil {
		return false
	}
	if state.Kind == KindMovieClip {
		return true
	}
	for _, child := range state.Children() {
		if child.Kind == KindMovieClip {
			return true
		}
	}
	return false
}
