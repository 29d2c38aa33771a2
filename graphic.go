package cinder

import (
	"github.com/cindervm/cinder/internal/drawing"
	"github.com/cindervm/cinder/internal/geom"
)

// GraphicData is the per-shape payload for KindGraphic/KindShape display
// objects: a recorded vector path plus its cached renderer-side
// tessellation handle, if one has been registered.
type GraphicData struct {
	Surface *drawing.Surface

	shapeHandle ShapeHandle
	hasHandle   bool
	cacheScale  *drawing.Cache
}

// MorphShapeData is the per-shape payload for KindMorphShape display
// objects.
type MorphShapeData struct {
	Morph *drawing.MorphShape
}

// NewShape creates a static vector shape backed by an empty drawing
// surface; callers issue MoveTo/LineTo/CurveTo/BeginFill through Draw().
func NewShape(name string) *DisplayObject {
	d := newDisplayObject(name, KindShape)
	d.graphic = &GraphicData{Surface: drawing.NewSurface(), cacheScale: drawing.NewCache()}
	return d
}

// NewMorphShape creates a shape that interpolates between start and end
// by ratio (driven by MorphShapeData.Morph).
func NewMorphShape(name string, start, end *drawing.Surface) *DisplayObject {
	d := newDisplayObject(name, KindMorphShape)
	d.morph = &MorphShapeData{Morph: drawing.NewMorphShape(start, end)}
	return d
}

// Draw returns the shape's drawing surface for recording path commands,
// or nil if this object is not a shape/graphic kind.
func (d *DisplayObject) Draw() *drawing.Surface {
	if d.graphic == nil {
		return nil
	}
	return d.graphic.Surface
}

// Morph returns the object's morph-shape state, or nil if this is not a
// KindMorphShape object.
func (d *DisplayObject) Morph() *drawing.MorphShape {
	if d.morph == nil {
		return nil
	}
	return d.morph.Morph
}

func (d *DisplayObject) drawingLocalBounds() geom.Rectangle {
	if d.graphic != nil {
		return d.graphic.Surface.Bounds()
	}
	if d.morph != nil {
		b := d.morph.Morph.Start.Bounds()
		return b.Union(d.morph.Morph.End.Bounds())
	}
	return geom.Rectangle{}
}

// cachedShape returns the tessellation handle valid for scale, asking
// the cache first and falling back to (0, false) when nothing within
// the cache's threshold exists; the caller is responsible for
// retessellating and calling cacheShape to insert the result.
func (d *DisplayObject) cachedShape(scale float64) (ShapeHandle, bool) {
	if d.graphic == nil || d.graphic.cacheScale == nil {
		return 0, false
	}
	h, ok := d.graphic.cacheScale.FindNearAndTouch(scale)
	return ShapeHandle(h), ok
}

func (d *DisplayObject) cacheShape(scale float64, handle ShapeHandle) {
	if d.graphic == nil || d.graphic.cacheScale == nil {
		return
	}
	d.graphic.cacheScale.Insert(scale, drawing.ShapeHandle(handle))
}

// EnsureTessellated returns a shape handle valid for scale, reusing a
// cached tessellation within the cache's threshold or building and
// registering a new one with r otherwise. tolerance bounds curve
// flattening error in twips.
func (d *DisplayObject) EnsureTessellated(r Renderer, scale float64, tolerance geom.Twips) (ShapeHandle, error) {
	if d.graphic == nil {
		return 0, nil
	}
	if h, ok := d.cachedShape(scale); ok {
		return h, nil
	}

	verts, indices := tessellate(d.graphic.Surface, tolerance)
	h, err := r.RegisterShape(verts, indices)
	if err != nil {
		return 0, err
	}
	d.cacheShape(scale, h)
	return h, nil
}

// tessellate flattens every subpath's curves and fans each into
// triangles around its first vertex, a simple convex-polygon
// triangulation applied here to recorded drawing-surface subpaths
// instead of a fixed regular polygon.
func tessellate(s *drawing.Surface, tolerance geom.Twips) ([]float32, []uint16) {
	var verts []float32
	var indices []uint16
	base := uint16(0)
	for _, sp := range s.Vertices(tolerance) {
		for _, p := range sp.Points {
			verts = append(verts, float32(p.X.ToPixels()), float32(p.Y.ToPixels()))
		}
		n := uint16(len(sp.Points))
		for i := uint16(1); i+1 < n; i++ {
			indices = append(indices, base, base+i, base+i+1)
		}
		base += n
	}
	return verts, indices
}
