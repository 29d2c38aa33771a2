package geom

import "testing"

func TestIdentityTransformPoint(t *testing.T) {
	p := Point{X: FromPixels(10), Y: FromPixels(20)}
	got := Identity.TransformPoint(p)
	if got != p {
		t.Errorf("Identity.TransformPoint(%v) = %v, want %v", p, got, p)
	}
}

func TestInvertRoundTrip(t *testing.T) {
	m := CreateBoxWithRotation(2, 0.5, 0.3, FromPixels(5), FromPixels(-7))
	p := Point{X: FromPixels(37), Y: FromPixels(-12)}

	world := m.TransformPoint(p)
	back := m.Invert().TransformPoint(world)

	if abs32(int64(back.X-p.X)) > 1 || abs32(int64(back.Y-p.Y)) > 1 {
		t.Errorf("round trip = %v, want within 1 twip of %v", back, p)
	}
}

func TestInvertSingularFallsBackToIdentity(t *testing.T) {
	m := Matrix{} // zero matrix, determinant 0
	if got := m.Invert(); got != Identity {
		t.Errorf("Invert(zero) = %v, want Identity", got)
	}
}

func TestMultiplyParentChildOrder(t *testing.T) {
	parent := Translate(FromPixels(100), FromPixels(0))
	child := Scale(2, 2)
	combined := Multiply(parent, child)

	p := Point{X: FromPixels(1), Y: FromPixels(1)}
	got := combined.TransformPoint(p)
	want := parent.TransformPoint(child.TransformPoint(p))

	if got != want {
		t.Errorf("Multiply(parent, child) applied = %v, want %v", got, want)
	}
}

func abs32(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
