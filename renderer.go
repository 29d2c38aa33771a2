package cinder

import "github.com/cindervm/cinder/internal/geom"

// BitmapHandle identifies a bitmap registered with a Renderer.
type BitmapHandle uint32

// ShapeHandle identifies a tessellated vector shape registered with a
// Renderer.
type ShapeHandle uint32

// DrawCommand is one emitted draw instruction for the Render phase
//. Renderer implementations
// translate this into GPU state; the core never depends on a graphics
// library directly (render/ebitenrender supplies the concrete backend).
type DrawCommand struct {
	Shape  ShapeHandle
	Bitmap BitmapHandle

	WorldMatrix geom.Matrix
	ColorXform  geom.ColorTransform
	Blend       BlendMode

	Filters []Filter

	// ScrollRect, if non-nil, clips this command to the given local
	// rectangle before compositing.
	ScrollRect *geom.Rectangle
}

// Renderer is the host-supplied backend a Stage submits per-frame draw
// commands to: a narrow interface the root package depends on instead
// of a concrete graphics library, so any batching backend can sit
// behind it.
type Renderer interface {
	// RegisterBitmap uploads pixel data and returns a handle draw
	// commands can reference; width/height are in device pixels.
	RegisterBitmap(pixels []byte, width, height int) (BitmapHandle, error)
	RemoveBitmap(BitmapHandle)

	// RegisterShape uploads a tessellated vector shape (already
	// flattened to triangles by internal/drawing) and returns a handle.
	RegisterShape(vertices []float32, indices []uint16) (ShapeHandle, error)
	RemoveShape(ShapeHandle)

	// BeginFrame/Submit/EndFrame bracket one Render phase's command
	// stream; Submit may be called any number of times between them.
	BeginFrame()
	Submit(cmd DrawCommand)
	EndFrame()

	// DeviceReset reports whether the backend lost its GPU context
	// since the previous frame (e.g. window resize, context loss) and
	// every registered bitmap/shape handle must be re-uploaded.
	DeviceReset() bool
}

// renderFrame walks the render-order tree once, depth-first, emitting a
// DrawCommand per visible leaf, and submits them to the configured
// Renderer. No script runs during this walk.
func (s *Stage) renderFrame(ctx *frameContext) {
	if s.renderer == nil {
		return
	}
	s.renderer.BeginFrame()
	renderRecursive(s.root, s.renderer)
	s.renderer.EndFrame()
}

func renderRecursive(d *DisplayObject, r Renderer) {
	if !d.Visible {
		return
	}
	if cmd, ok := d.renderSelf(); ok {
		r.Submit(cmd)
	}
	for _, c := range d.renderOrder {
		renderRecursive(c, r)
	}
}

// renderSelf builds this object's own DrawCommand, if it has visible
// content of its own (containers with no shape/bitmap payload return
// ok=false and contribute only their children).
func (d *DisplayObject) renderSelf() (DrawCommand, bool) {
	switch d.Kind {
	case KindBitmap, KindGraphic, KindShape, KindMorphShape, KindVideo, KindText:
		cmd := DrawCommand{
			WorldMatrix: d.worldMatrix,
			ColorXform:  d.worldColorXform,
			Blend:       d.BlendMode,
			Filters:     d.Filters,
			ScrollRect:  d.ScrollRect,
		}
		if d.graphic != nil {
			if h, ok := d.cachedShape(d.worldMatrix.ScaleX()); ok {
				cmd.Shape = h
			}
		}
		return cmd, true
	default:
		return DrawCommand{}, false
	}
}
