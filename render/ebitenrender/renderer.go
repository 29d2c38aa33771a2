package ebitenrender

import (
	"fmt"
	"image"
	"image/color"

	"github.com/cindervm/cinder"
	"github.com/hajimehoshi/ebiten/v2"
)

// Renderer implements cinder.Renderer using ebiten images and
// DrawTriangles: a bitmap-registry plus tessellated-shape-registry pair
// addressed by cinder's own BitmapHandle/ShapeHandle, with no
// atlas-page lookup since cinder shapes are tessellated on demand
// rather than packed ahead of time.
type Renderer struct {
	target *ebiten.Image

	bitmaps    map[cinder.BitmapHandle]*ebiten.Image
	nextBitmap cinder.BitmapHandle

	shapes    map[cinder.ShapeHandle]shapeMesh
	nextShape cinder.ShapeHandle

	deviceReset bool
}

type shapeMesh struct {
	vertices []float32
	indices  []uint16
}

// NewRenderer creates a Renderer that draws into target. Call
// SetTarget to repoint it at a new destination image (e.g. after a
// window resize recreates the screen image), which also flags
// DeviceReset for one frame.
func NewRenderer(target *ebiten.Image) *Renderer {
	return &Renderer{
		target:  target,
		bitmaps: make(map[cinder.BitmapHandle]*ebiten.Image),
		shapes:  make(map[cinder.ShapeHandle]shapeMesh),
	}
}

// SetTarget repoints the renderer at a new destination image.
func (r *Renderer) SetTarget(target *ebiten.Image) {
	r.target = target
	r.deviceReset = true
}

// RegisterBitmap uploads pixels (tightly packed RGBA8, width*height*4
// bytes) as a new ebiten image and returns its handle.
func (r *Renderer) RegisterBitmap(pixels []byte, width, height int) (cinder.BitmapHandle, error) {
	if len(pixels) != width*height*4 {
		return 0, fmt.Errorf("ebitenrender: pixel buffer length %d does not match %dx%d RGBA8", len(pixels), width, height)
	}
	img := ebiten.NewImage(width, height)
	img.WritePixels(pixels)

	r.nextBitmap++
	h := r.nextBitmap
	r.bitmaps[h] = img
	return h, nil
}

// RemoveBitmap disposes of a previously registered bitmap.
func (r *Renderer) RemoveBitmap(h cinder.BitmapHandle) {
	if img, ok := r.bitmaps[h]; ok {
		img.Deallocate()
		delete(r.bitmaps, h)
	}
}

// RegisterShape stores a tessellated triangle mesh (2 floats per
// vertex: x, y in device pixels) and returns its handle.
func (r *Renderer) RegisterShape(vertices []float32, indices []uint16) (cinder.ShapeHandle, error) {
	r.nextShape++
	h := r.nextShape
	r.shapes[h] = shapeMesh{vertices: vertices, indices: indices}
	return h, nil
}

// RemoveShape discards a previously registered shape mesh.
func (r *Renderer) RemoveShape(h cinder.ShapeHandle) {
	delete(r.shapes, h)
}

// BeginFrame is a no-op placeholder bracket; ebiten's Draw callback
// already bounds one frame, so there is no separate command-buffer
// reset to perform here.
func (r *Renderer) BeginFrame() {}

// EndFrame clears the one-shot DeviceReset flag after the frame that
// reported it has been consumed.
func (r *Renderer) EndFrame() {
	r.deviceReset = false
}

// DeviceReset reports whether SetTarget repointed the renderer since
// the last EndFrame, meaning every previously registered bitmap/shape
// handle's underlying GPU resource may need re-submission.
func (r *Renderer) DeviceReset() bool {
	return r.deviceReset
}

// Submit draws one DrawCommand against the current target: either a
// registered bitmap via DrawImage, or a registered tessellated shape
// via DrawTriangles, both with the command's world matrix, color
// transform, blend mode, and optional scroll-rect clip applied.
func (r *Renderer) Submit(cmd cinder.DrawCommand) {
	if r.target == nil {
		return
	}

	dest := r.target
	var clipRegion image.Rectangle
	if cmd.ScrollRect != nil {
		clipRegion = image.Rect(
			int(cmd.ScrollRect.XMin.ToPixels()), int(cmd.ScrollRect.YMin.ToPixels()),
			int(cmd.ScrollRect.XMax.ToPixels()), int(cmd.ScrollRect.YMax.ToPixels()),
		)
		dest = dest.SubImage(clipRegion).(*ebiten.Image)
	}

	a, b, c, d := cmd.WorldMatrix.A, cmd.WorldMatrix.B, cmd.WorldMatrix.C, cmd.WorldMatrix.D
	tx, ty := cmd.WorldMatrix.TX.ToPixels(), cmd.WorldMatrix.TY.ToPixels()

	if img, ok := r.bitmaps[cmd.Bitmap]; cmd.Bitmap != 0 && ok {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.SetElement(0, 0, a)
		op.GeoM.SetElement(0, 1, c)
		op.GeoM.SetElement(1, 0, b)
		op.GeoM.SetElement(1, 1, d)
		op.GeoM.SetElement(0, 2, tx)
		op.GeoM.SetElement(1, 2, ty)
		cr, cg, cbv, ca := cmd.ColorXform.Apply(1, 1, 1, 1)
		op.ColorScale.Scale(float32(cr), float32(cg), float32(cbv), float32(ca))
		op.Blend = toEbitenBlend(cmd.Blend)
		dest.DrawImage(img, op)
		return
	}

	if mesh, ok := r.shapes[cmd.Shape]; cmd.Shape != 0 && ok {
		cr, cg, cbv, ca := cmd.ColorXform.Apply(1, 1, 1, 1)
		verts := make([]ebiten.Vertex, len(mesh.vertices)/2)
		for i := range verts {
			x := mesh.vertices[i*2]
			y := mesh.vertices[i*2+1]
			verts[i] = ebiten.Vertex{
				DstX:   float32(a)*x + float32(c)*y + float32(tx),
				DstY:   float32(b)*x + float32(d)*y + float32(ty),
				SrcX:   0,
				SrcY:   0,
				ColorR: float32(cr),
				ColorG: float32(cg),
				ColorB: float32(cbv),
				ColorA: float32(ca),
			}
		}
		op := &ebiten.DrawTrianglesOptions{Blend: toEbitenBlend(cmd.Blend)}
		dest.DrawTriangles(verts, mesh.indices, whitePixel(), op)
	}
}

var whitePixelImage *ebiten.Image

// whitePixel returns a shared 1x1 opaque white image, used as
// DrawTriangles' source texture for flat-color vector shapes (no UVs
// needed; SrcX/SrcY stay at 0 and every vertex samples the same texel).
func whitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}
