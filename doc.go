// Package cinder is a legacy vector-animation runtime: it plays back a
// decoded SWF-style movie's display list, timelines, and scripts
// without depending on any particular renderer, audio backend, or
// network stack.
//
// The host decodes a tag stream (cinder never parses bytes itself;
// see [Tag] and its variants) and drives a [Stage] through
// [Stage.RunFrame] once per tick. Each call runs the full frame
// pipeline: advance timelines and dispatch enterFrame, construct
// newly-placed clips and buttons, run any pending frame scripts
// (AVM1/AVM2 bytecode via the internal/avm1 and internal/avm2
// packages), dispatch exitFrame, then walk the render-order tree
// once more emitting [DrawCommand]s to the configured [Renderer].
//
// # Display list
//
// Every visible thing on the stage is a [DisplayObject]: a movie
// clip, shape, button, bitmap, text field, or the stage's own root.
// [DisplayObject] carries the shared transform/color/visibility state
// every kind needs; kind-specific data (a button's four state
// subtrees, a movie clip's [Timeline], a shape's drawing surface)
// lives behind the matching accessor ([DisplayObject.Button],
// [DisplayObject.Draw], and so on) and is nil unless [DisplayObject.Kind]
// matches.
//
//	stage := cinder.NewStage(cinder.StageConfig{
//		Width: 800, Height: 600, Renderer: myRenderer,
//	})
//	clip := cinder.NewMovieClip("hero")
//	stage.Root().AddChild(clip)
//	for {
//		stage.RunFrame()
//	}
//
// Containers ([DisplayObject.AddChild], [DisplayObject.AddChildAtDepth])
// maintain both a depth order (the SWF placement depth) and a
// separately mutable render order; scripts reorder the latter via
// [DisplayObject.SetChildIndex] without touching depth.
//
// # Events
//
// [DisplayObject.On] registers a [Listener] for an [EventKind]; mouse
// and keyboard events dispatch capture-then-bubble like a typical DOM
// ([DisplayObject.Dispatch]), and [Event.StopPropagation] truncates
// the remaining walk. [Stage.Pick] resolves a point to the topmost
// hit-testable object under it, honoring mouseEnabled/mouseChildren
// opt-outs and a button's separate hit-area subtree.
//
// # Drawing
//
// Shapes build their geometry through internal/drawing's
// [DisplayObject.Draw] surface (MoveTo/LineTo/CurveTo/BeginFill/
// LineStyle), which cinder tessellates into triangles on demand and
// caches per render scale so repeated frames at a stable zoom level
// skip re-tessellation. Morph shapes have no such surface: Draw
// returns nil for them.
//
// # Backends
//
// cinder depends on no graphics, audio, or storage library directly;
// a host supplies concrete [Renderer], [Audio], [Loader], and
// [SharedObjectStore] implementations. render/ebitenrender,
// store/boltstore, and ecs ship reference adapters for
// [Ebitengine], [bbolt], and [Donburi] respectively.
//
// [Ebitengine]: https://ebitengine.org
// [bbolt]: https://github.com/etcd-io/bbolt
// [Donburi]: https://github.com/yohamta/donburi
package cinder
