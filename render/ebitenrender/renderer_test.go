package ebitenrender

import (
	"testing"

	"github.com/cindervm/cinder"
	"github.com/hajimehoshi/ebiten/v2"
)

func TestToEbitenBlendNormalIsSourceOver(t *testing.T) {
	if got := toEbitenBlend(cinder.BlendNormal); got != ebiten.BlendSourceOver {
		t.Errorf("toEbitenBlend(BlendNormal) = %v, want BlendSourceOver", got)
	}
}

func TestToEbitenBlendCoversEveryMode(t *testing.T) {
	modes := []cinder.BlendMode{
		cinder.BlendNormal, cinder.BlendAdd, cinder.BlendMultiply,
		cinder.BlendScreen, cinder.BlendErase, cinder.BlendLayer,
		cinder.BlendBelow, cinder.BlendNone,
	}
	seen := make(map[ebiten.Blend]bool)
	for _, m := range modes {
		seen[toEbitenBlend(m)] = true
	}
	if len(seen) < 6 {
		t.Errorf("expected at least 6 distinct blend factor sets, got %d", len(seen))
	}
}

func TestToEbitenBlendUnknownFallsBackToSourceOver(t *testing.T) {
	if got := toEbitenBlend(cinder.BlendMode(255)); got != ebiten.BlendSourceOver {
		t.Errorf("toEbitenBlend(unknown) = %v, want BlendSourceOver", got)
	}
}

func TestRegisterBitmapRejectsMismatchedLength(t *testing.T) {
	r := NewRenderer(ebiten.NewImage(64, 64))
	_, err := r.RegisterBitmap(make([]byte, 10), 4, 4)
	if err == nil {
		t.Fatal("expected error for mismatched pixel buffer length")
	}
}

func TestRegisterBitmapAssignsIncrementingHandles(t *testing.T) {
	r := NewRenderer(ebiten.NewImage(64, 64))
	h1, err := r.RegisterBitmap(make([]byte, 4*2*2), 2, 2)
	if err != nil {
		t.Fatalf("RegisterBitmap: %v", err)
	}
	h2, err := r.RegisterBitmap(make([]byte, 4*2*2), 2, 2)
	if err != nil {
		t.Fatalf("RegisterBitmap: %v", err)
	}
	if h1 == h2 || h1 == 0 || h2 == 0 {
		t.Fatalf("expected distinct nonzero handles, got %d and %d", h1, h2)
	}
}

func TestRemoveBitmapIsIdempotent(t *testing.T) {
	r := NewRenderer(ebiten.NewImage(64, 64))
	h, _ := r.RegisterBitmap(make([]byte, 4*2*2), 2, 2)
	r.RemoveBitmap(h)
	r.RemoveBitmap(h) // must not panic on a handle already removed
}

func TestRegisterShapeAssignsIncrementingHandles(t *testing.T) {
	r := NewRenderer(ebiten.NewImage(64, 64))
	h1, _ := r.RegisterShape([]float32{0, 0, 1, 0, 0, 1}, []uint16{0, 1, 2})
	h2, _ := r.RegisterShape([]float32{0, 0, 1, 0, 0, 1}, []uint16{0, 1, 2})
	if h1 == h2 || h1 == 0 || h2 == 0 {
		t.Fatalf("expected distinct nonzero handles, got %d and %d", h1, h2)
	}
}

func TestSetTargetFlagsDeviceResetUntilEndFrame(t *testing.T) {
	r := NewRenderer(ebiten.NewImage(64, 64))
	if r.DeviceReset() {
		t.Fatal("DeviceReset should start false")
	}
	r.SetTarget(ebiten.NewImage(128, 128))
	if !r.DeviceReset() {
		t.Fatal("DeviceReset should be true right after SetTarget")
	}
	r.EndFrame()
	if r.DeviceReset() {
		t.Fatal("DeviceReset should clear after EndFrame")
	}
}

func TestSubmitWithUnregisteredHandlesDoesNothing(t *testing.T) {
	r := NewRenderer(ebiten.NewImage(64, 64))
	r.Submit(cinder.DrawCommand{Bitmap: 99, Shape: 99})
}
