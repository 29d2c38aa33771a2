package cinder

import (
	"errors"

	"github.com/cindervm/cinder/internal/class"
	"github.com/cindervm/cinder/internal/geom"
)

// frameContext threads per-frame state through the pipeline's phases:
// the error hook, an instruction budget for script execution, and the
// list of clips with pending scripts the Scripts phase must drain.
type frameContext struct {
	stage *Stage

	// instructionBudget bounds total script work this frame; AVM1/AVM2
	// interpreters decrement it and the Scripts phase aborts remaining
	// clips' scripts once it is exhausted.
	instructionBudget int

	pendingScripts []*DisplayObject
}

// RunFrame executes one complete pass of the five-phase pipeline over
// the stage's display list: Enter, Construct, Scripts, Exit, Render.
// Each phase completes globally across the whole tree before the next
// begins, so a script running during Scripts always sees every clip's
// Construct phase already finished for this frame.
func (s *Stage) RunFrame() {
	ctx := &frameContext{stage: s, instructionBudget: s.Config.InstructionBudget}

	s.drainLoads()

	enterFrameRecursive(s.root, geom.Identity, geom.IdentityColorTransform, ctx)
	constructFrameRecursive(s.root, ctx)
	runScripts(ctx)
	exitFrameRecursive(s.root, ctx)
	s.renderFrame(ctx)
	s.frameCount++
}

// enterFrameRecursive performs the Enter phase depth-first: refresh
// this object's world transform from its (already current) parent,
// advance movie-clip playheads, run the onEnterFrame hook, then recurse.
func enterFrameRecursive(d *DisplayObject, parentMatrix geom.Matrix, parentColor geom.ColorTransform, ctx *frameContext) {
	updateWorldTransform(d, parentMatrix, parentColor)

	if d.Kind == KindMovieClip && d.Timeline != nil {
		d.Timeline.advance()
	}
	if d.onEnterFrame != nil {
		d.onEnterFrame(d)
	}
	for _, c := range d.renderOrder {
		enterFrameRecursive(c, d.worldMatrix, d.worldColorXform, ctx)
	}
}

// constructFrameRecursive performs the Construct phase depth-first. A
// button's eager four-state construction runs through ButtonData's own
// constructFrame so every state subtree is ready before any state is
// rendered, matching Avm2Button::construct_frame. Newly placed nodes
// with pending scripts are appended to ctx.pendingScripts here, in
// depth order, so the Scripts phase can later drain them in the same
// order ("parent sees uninitialized child" requires the parent's own
// Construct to have already published this child on its named field by
// the time the Scripts phase reaches either of them).
func constructFrameRecursive(d *DisplayObject, ctx *frameContext) {
	if d.Kind == KindButton && d.Button != nil {
		d.Button.constructFrame(ctx)
	}
	if d.onConstructFrame != nil {
		d.onConstructFrame(d)
	}
	if d.Kind == KindMovieClip && d.Timeline != nil && len(d.Timeline.pendingScripts) > 0 {
		ctx.pendingScripts = append(ctx.pendingScripts, d)
	}
	for _, c := range d.renderOrder {
		constructFrameRecursive(c, ctx)
	}
}

// runScripts drains every clip queued during Construct, in the depth
// order they were queued, running each clip's frame actions in
// registration order. A clip's own script may mutate the display list
// (add/remove siblings or children); such mutation takes effect
// immediately for subsequent clips in this same Scripts pass, but
// within one clip's action list execution is not re-entered.
//
// ctx.instructionBudget is shared across every clip's actions this
// frame; a ScriptRunner's interpreter decrements it as it dispatches.
// Once it is exhausted, whether observed here before a Run call or
// returned by one as class.ErrBudgetExhausted, the whole Scripts phase
// aborts for the remainder of the frame: no further queued clip's
// actions run, and the exhaustion is reported through ctx.stage's
// error hook rather than panicking or silently truncating the frame.
func runScripts(ctx *frameContext) {
	for _, clip := range ctx.pendingScripts {
		if clip.Timeline == nil {
			continue
		}
		actions := clip.Timeline.drainScripts()
		for _, a := range actions {
			if ctx.instructionBudget <= 0 {
				ctx.stage.reportError(class.ErrBudgetExhausted)
				return
			}
			if a.Run == nil {
				continue
			}
			if err := a.Run(clip, &ctx.instructionBudget); err != nil {
				ctx.stage.reportError(err)
				if errors.Is(err, class.ErrBudgetExhausted) {
					return
				}
			}
		}
	}
}

// exitFrameRecursive performs the Exit phase depth-first. After this
// phase completes for the whole tree, the display list is stable for
// the Render phase: no further script execution occurs until next
// frame's Enter.
func exitFrameRecursive(d *DisplayObject, ctx *frameContext) {
	if d.onExitFrame != nil {
		d.onExitFrame(d)
	}
	for _, c := range d.renderOrder {
		exitFrameRecursive(c, ctx)
	}
}
