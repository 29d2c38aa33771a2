package cinder

import (
	"strings"

	"github.com/cindervm/cinder/internal/avm1"
	"github.com/cindervm/cinder/internal/drawing"
	"github.com/cindervm/cinder/internal/geom"
	"github.com/cindervm/cinder/internal/heap"
	"github.com/cindervm/cinder/internal/value"
)

// Kind distinguishes rendering and timeline behavior for a DisplayObject,
// one tag per character kind the display list can place.
type Kind uint8

const (
	KindMovieClip    Kind = iota // container with its own timeline
	KindGraphic                  // static vector shape, no timeline
	KindButton                   // four-state interactive button
	KindText                     // static or editable text field
	KindBitmap                   // raster image
	KindVideo                    // video stream surface
	KindShape                    // single-frame vector shape (synonym used by simple placements)
	KindMorphShape               // shape that interpolates between two shapes by ratio
	KindLoaderSurface            // placeholder for content loaded asynchronously via a Loader
	KindStage                    // the root of the display list
)

// HitShape overrides the default bounding-box hit test with a custom
// shape test in the display object's local coordinate space.
type HitShape interface {
	Contains(p geom.Point) bool
}

// DisplayObject is the base contract every node of the display list
// satisfies: identity, hierarchy, local/world transform, visibility,
// and the frame-lifecycle hooks the pipeline drives. It is a single
// flat struct rather than an interface-per-kind hierarchy, covering
// every {container/sprite/mesh/particle/text}-equivalent role through
// the ten Kind values above.
type DisplayObject struct {
	// Identity

	// ID is a unique auto-assigned identifier (never zero for a live object).
	ID uint32
	// Name is the instance name selected by timeline placement, or a
	// script-assigned name; AVM1/AVM2 property lookups on a parent clip
	// resolve to the child whose Name matches.
	Name string
	Kind Kind

	// Hierarchy

	// Parent is this object's container, or nil for the stage root.
	Parent *DisplayObject
	// Depth is the signed 16-bit placement key the timeline assigns;
	// unique among a container's children at Construct-phase completion.
	Depth int16

	// children holds depth order; renderOrder mirrors it until script
	// mutates ordering via SetChildIndex (container.go).
	children    []*DisplayObject
	renderOrder []*DisplayObject

	// Local transform

	// Matrix is this object's transform relative to Parent, in twip space.
	Matrix geom.Matrix
	// ColorXform is this object's color transform relative to Parent.
	ColorXform geom.ColorTransform

	// Computed world state, refreshed by updateWorldTransform during Enter.
	worldMatrix     geom.Matrix
	worldColorXform geom.ColorTransform
	worldDirty      bool

	// Visibility & interaction

	// Visible controls whether this object and its subtree are drawn and
	// hit-tested for shape mode; bounds-mode picking still honors it.
	Visible bool
	// CachedBitmap requests the renderer treat this subtree as a single
	// flattened bitmap until invalidated.
	CachedBitmap bool
	// BlendMode selects this object's compositing operation.
	BlendMode BlendMode
	// ScrollRect, if non-nil, clips this object's rendered content and
	// shifts the clipped region's origin, in local twip space.
	ScrollRect *geom.Rectangle
	// Filters is the ordered chain of visual effects applied to this
	// object's rendered output.
	Filters []Filter

	// MouseEnabled opts this object out of hit testing when false.
	MouseEnabled bool
	// MouseChildren opts this object's children out of hit testing when
	// false; the object itself may still be hit.
	MouseChildren bool
	// HitShape overrides the bounding-box shape test. Nil means use LocalBounds().
	HitShape HitShape

	listeners []*listenerEntry

	// Per-kind payloads (nil unless Kind selects them)

	Timeline *Timeline   // KindMovieClip
	Button   *ButtonData // KindButton
	Text     *TextData   // KindText

	graphic *GraphicData    // KindGraphic, KindShape
	morph   *MorphShapeData // KindMorphShape

	// UserData is an arbitrary host-attached value (ECS bridging, etc.).
	UserData any

	// Frame-lifecycle hooks (nil is a valid no-op for leaf kinds).
	onEnterFrame     func(*DisplayObject)
	onConstructFrame func(*DisplayObject)
	onExitFrame      func(*DisplayObject)

	disposed bool

	// Arena identity. A node gains identity the first time it is attached under
	// an already arena-hosted parent (see attachArena); an object that
	// is never placed under a Stage root has none, matching the fact
	// that only placed instances are script-addressable.
	arena     *heap.Arena
	selfRef   heap.Ref
	ct        *clipTarget
	variables map[string]value.Value
}

var displayObjectIDCounter uint32

// nextDisplayObjectID returns the next auto-assigned identifier. The
// runtime is single-threaded, so a plain package counter is
// sufficient; no atomic increment is needed.
func nextDisplayObjectID() uint32 {
	displayObjectIDCounter++
	return displayObjectIDCounter
}

func newDisplayObject(name string, kind Kind) *DisplayObject {
	return &DisplayObject{
		ID:            nextDisplayObjectID(),
		Name:          name,
		Kind:          kind,
		Matrix:        geom.Identity,
		ColorXform:    geom.IdentityColorTransform,
		Visible:       true,
		MouseEnabled:  true,
		MouseChildren: true,
		worldDirty:    true,
	}
}

// NewMovieClip creates a movie clip: a container display object with its
// own timeline.
func NewMovieClip(name string) *DisplayObject {
	d := newDisplayObject(name, KindMovieClip)
	d.Timeline = newTimeline()
	return d
}

// NewGraphic creates a static vector shape with no timeline.
func NewGraphic(name string) *DisplayObject {
	d := newDisplayObject(name, KindGraphic)
	d.graphic = &GraphicData{Surface: drawing.NewSurface(), cacheScale: drawing.NewCache()}
	return d
}

// WorldMatrix returns the object's transform composed with every
// ancestor's transform, refreshed as of the most recent Enter phase.
func (d *DisplayObject) WorldMatrix() geom.Matrix {
	return d.worldMatrix
}

// WorldColorTransform returns the object's color transform composed
// with every ancestor's, refreshed as of the most recent Enter phase.
func (d *DisplayObject) WorldColorTransform() geom.ColorTransform {
	return d.worldColorXform
}

// InvalidateTransform marks this object's (and by composition every
// descendant's) world transform as stale; the next Enter phase
// recomputes it. Call after mutating Matrix directly.
func (d *DisplayObject) InvalidateTransform() {
	markTransformDirty(d)
}

func markTransformDirty(d *DisplayObject) {
	if d.worldDirty {
		return
	}
	d.worldDirty = true
	for _, c := range d.children {
		markTransformDirty(c)
	}
}

// updateWorldTransform recomputes d's world matrix/color transform from
// its parent's (already-current) world state, composing via
// geom.Multiply. Updates d only; the pipeline's Enter phase supplies
// the tree traversal so each object is recomputed exactly once per
// frame instead of once per ancestor visited.
func updateWorldTransform(d *DisplayObject, parentMatrix geom.Matrix, parentColor geom.ColorTransform) {
	d.worldMatrix = geom.Multiply(parentMatrix, d.Matrix)
	d.worldColorXform = parentColor.Compose(d.ColorXform)
	d.worldDirty = false
}

// refreshWorldTransformSubtree recomputes d and every descendant's world
// transform immediately, for callers outside the frame pipeline (tests,
// host code querying WorldBounds before the next RunFrame).
func refreshWorldTransformSubtree(d *DisplayObject, parentMatrix geom.Matrix, parentColor geom.ColorTransform) {
	updateWorldTransform(d, parentMatrix, parentColor)
	for _, c := range d.renderOrder {
		refreshWorldTransformSubtree(c, d.worldMatrix, d.worldColorXform)
	}
}

// LocalBounds returns the object's bounds in its own coordinate space.
// Text reports its layout bounds and the graphic, shape and morph-shape
// kinds report their drawing surface's bounds; every other kind,
// bitmaps included, reports a zero rectangle.
func (d *DisplayObject) LocalBounds() geom.Rectangle {
	switch d.Kind {
	case KindText:
		return d.textLocalBounds()
	case KindGraphic, KindShape, KindMorphShape:
		return d.drawingLocalBounds()
	default:
		return geom.Rectangle{}
	}
}

// WorldBounds returns the object's bounds transformed into world space
// by its current world matrix.
func (d *DisplayObject) WorldBounds() geom.Rectangle {
	b := d.LocalBounds()
	corners := [4]geom.Point{
		{X: b.XMin, Y: b.YMin},
		{X: b.XMax, Y: b.YMin},
		{X: b.XMax, Y: b.YMax},
		{X: b.XMin, Y: b.YMax},
	}
	out := geom.Rectangle{}
	for i, c := range corners {
		p := d.worldMatrix.TransformPoint(c)
		if i == 0 {
			out = geom.Rectangle{XMin: p.X, XMax: p.X, YMin: p.Y, YMax: p.Y}
			continue
		}
		if p.X < out.XMin {
			out.XMin = p.X
		}
		if p.X > out.XMax {
			out.XMax = p.X
		}
		if p.Y < out.YMin {
			out.YMin = p.Y
		}
		if p.Y > out.YMax {
			out.YMax = p.Y
		}
	}
	return out
}

// RenderBounds returns WorldBounds expanded by the padding any chained
// Filters contribute, used by the renderer to size offscreen buffers and by
// invalidation to know how far a repaint must extend.
func (d *DisplayObject) RenderBounds() geom.Rectangle {
	b := d.WorldBounds()
	if len(d.Filters) == 0 {
		return b
	}
	pad := 0
	for _, f := range d.Filters {
		if p := f.Padding(); p > pad {
			pad = p
		}
	}
	twips := geom.Twips(pad) * geom.TwipsPerPixel
	return geom.Rectangle{
		XMin: b.XMin - twips,
		XMax: b.XMax + twips,
		YMin: b.YMin - twips,
		YMax: b.YMax + twips,
	}
}

// Stage walks up Parent links to find the root KindStage object, or nil
// if this object is not attached to a stage.
func (d *DisplayObject) Stage() *DisplayObject {
	cur := d
	for cur.Parent != nil {
		cur = cur.Parent
	}
	if cur.Kind == KindStage {
		return cur
	}
	return nil
}

// IsDisposed reports whether Dispose's teardown has already run on d.
func (d *DisplayObject) IsDisposed() bool { return d.disposed }

// attachArena registers d and its already-attached subtree as cells of
// arena, the generalization of "placing a character" into script
// addressability. Called from AddChild/AddChildAtDepth whenever the new
// parent is itself arena-hosted, so a whole subtree gains identity in
// one propagating walk the first time it lands under a Stage root,
// without every New* constructor needing an arena parameter.
func (d *DisplayObject) attachArena(arena *heap.Arena) {
	if d.arena == arena && !d.selfRef.IsZero() {
		return
	}
	d.arena = arena
	if d.ct == nil {
		d.ct = &clipTarget{d: d}
	}
	d.selfRef = arena.Alloc(d.ct)
	for _, c := range d.children {
		c.attachArena(arena)
	}
}

// Ref returns d's arena reference, the zero Ref if d has never been
// attached under a Stage root.
func (d *DisplayObject) Ref() heap.Ref { return d.selfRef }

// AsClipTarget returns d's avm1.ClipTarget adapter, or nil if d has
// never been attached under a Stage root (and so has no arena
// identity yet).
func (d *DisplayObject) AsClipTarget() avm1.ClipTarget {
	if d.ct == nil {
		return nil
	}
	return d.ct
}

// clipTarget adapts a DisplayObject onto avm1.ClipTarget. It is a
// separate type, not a method set on DisplayObject itself, because
// ClipTarget's Parent() method would otherwise collide with
// DisplayObject's own Parent field; the adapter is also the value
// stored in the arena cell, so it doubles as d's Traceable identity
// (see Trace below).
type clipTarget struct {
	d *DisplayObject
}

// Trace reports d's children as live outgoing edges, letting the
// collector reach a whole placed subtree from a single rooted Ref.
func (c *clipTarget) Trace(visit func(heap.Ref)) {
	for _, ch := range c.d.children {
		if !ch.selfRef.IsZero() {
			visit(ch.selfRef)
		}
	}
}

// Resolve walks a slash- or dot-separated path from d: a leading "/"
// starts from the stage root, a ".." segment steps to Parent, and every
// other name (between slashes or dots) looks up a same-named child,
// matching AVM1's classic clip-targeting paths.
func (c *clipTarget) Resolve(path string) (heap.Ref, bool) {
	cur := c.d
	if strings.HasPrefix(path, "/") {
		root := cur.Stage()
		if root == nil {
			return heap.Ref{}, false
		}
		cur = root
		path = strings.TrimPrefix(path, "/")
	}
	if path == "" {
		return cur.selfRef, !cur.selfRef.IsZero()
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if seg == ".." {
			if cur.Parent == nil {
				return heap.Ref{}, false
			}
			cur = cur.Parent
			continue
		}
		for _, name := range strings.Split(seg, ".") {
			if name == "" {
				continue
			}
			next := cur.ChildByName(name)
			if next == nil {
				return heap.Ref{}, false
			}
			cur = next
		}
	}
	return cur.selfRef, !cur.selfRef.IsZero()
}

// Child returns the named direct child's reference.
func (c *clipTarget) Child(name string) (heap.Ref, bool) {
	next := c.d.ChildByName(name)
	if next == nil {
		return heap.Ref{}, false
	}
	return next.selfRef, !next.selfRef.IsZero()
}

// Parent returns this clip's parent's reference (".." in a slash path).
func (c *clipTarget) Parent() (heap.Ref, bool) {
	if c.d.Parent == nil {
		return heap.Ref{}, false
	}
	return c.d.Parent.selfRef, !c.d.Parent.selfRef.IsZero()
}

// GetVariable/SetVariable back a clip's own timeline-scoped variable
// pool, distinct from property lookups through the class/prototype
// chain.
func (c *clipTarget) GetVariable(name string) (value.Value, bool) {
	if c.d.variables == nil {
		return value.Value{}, false
	}
	v, ok := c.d.variables[name]
	return v, ok
}

func (c *clipTarget) SetVariable(name string, v value.Value) {
	if c.d.variables == nil {
		c.d.variables = make(map[string]value.Value)
	}
	c.d.variables[name] = v
}

func (c *clipTarget) GotoFrame(frame int) {
	if c.d.Timeline != nil {
		c.d.Timeline.GotoFrame(frame)
	}
}

func (c *clipTarget) Play() {
	if c.d.Timeline != nil {
		c.d.Timeline.Play()
	}
}

func (c *clipTarget) Stop() {
	if c.d.Timeline != nil {
		c.d.Timeline.Stop()
	}
}

// FrameLoaded reports whether frame is within the clip's decoded frame
// count. Movies are parsed in full before a Stage runs any frame, so
// every frame of an already-placed clip's own timeline is loaded; a
// clip with no Timeline at all (a graphic, not a movie clip) has no
// frame to wait on and reports false.
func (c *clipTarget) FrameLoaded(frame int) bool {
	if c.d.Timeline == nil {
		return false
	}
	return frame >= 1 && frame <= c.d.Timeline.FrameCount
}
