package drawing

import (
	"testing"

	"github.com/cindervm/cinder/internal/geom"
)

func TestSurfaceLineToBounds(t *testing.T) {
	s := NewSurface()
	s.MoveTo(geom.Point{X: 0, Y: 0})
	s.LineTo(geom.Point{X: 100, Y: 0})
	s.LineTo(geom.Point{X: 100, Y: 100})
	s.LineTo(geom.Point{X: 0, Y: 100})

	b := s.Bounds()
	if b.XMin != 0 || b.YMin != 0 || b.XMax != 100 || b.YMax != 100 {
		t.Fatalf("Bounds() = %+v, want {0,100,0,100}", b)
	}
}

func TestSurfaceVerticesStraightEdgesUnchanged(t *testing.T) {
	s := NewSurface()
	s.BeginFill(1, 0, 0, 1)
	s.MoveTo(geom.Point{X: 0, Y: 0})
	s.LineTo(geom.Point{X: 100, Y: 0})
	s.LineTo(geom.Point{X: 100, Y: 100})
	s.EndFill()

	flat := s.Vertices(geom.Twips(1))
	if len(flat) != 1 {
		t.Fatalf("expected 1 subpath, got %d", len(flat))
	}
	got := flat[0].Points
	want := []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}}
	if len(got) != len(want) {
		t.Fatalf("Points = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Points[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if !flat[0].Fill.HasColor || flat[0].Fill.R != 1 {
		t.Errorf("Fill = %+v, want red fill", flat[0].Fill)
	}
}

func TestSurfaceVerticesCurveSubdivides(t *testing.T) {
	s := NewSurface()
	s.MoveTo(geom.Point{X: 0, Y: 0})
	// A curve with a control point far from the chord midpoint should
	// subdivide into more than just its single endpoint.
	s.CurveTo(geom.Point{X: 500, Y: 1000}, geom.Point{X: 1000, Y: 0})

	flat := s.Vertices(geom.Twips(20)) // 1 pixel tolerance
	if len(flat) != 1 {
		t.Fatalf("expected 1 subpath, got %d", len(flat))
	}
	if len(flat[0].Points) < 3 {
		t.Fatalf("expected curve to subdivide into multiple points, got %d", len(flat[0].Points))
	}
	last := flat[0].Points[len(flat[0].Points)-1]
	if last.X != 1000 || last.Y != 0 {
		t.Errorf("last point = %v, want {1000,0}", last)
	}
}

func TestSurfaceVerticesCoarseToleranceSkipsSubdivision(t *testing.T) {
	s := NewSurface()
	s.MoveTo(geom.Point{X: 0, Y: 0})
	s.CurveTo(geom.Point{X: 500, Y: 1000}, geom.Point{X: 1000, Y: 0})

	flat := s.Vertices(geom.Twips(1_000_000))
	if len(flat[0].Points) != 2 {
		t.Fatalf("expected no subdivision at coarse tolerance (start and end only), got %d points", len(flat[0].Points))
	}
}
