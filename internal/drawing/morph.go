package drawing

import (
	"github.com/cindervm/cinder/internal/geom"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// MorphShape interpolates between a start and end Surface by ratio, the
// generalization of SWF's DefineMorphShape: every corresponding vertex
// pair is linearly interpolated (the format defines no other mode), but
// playback of the ratio itself over time can ease, so a host driving a
// morph shape's ratio continuously uses a gween.Tween.
type MorphShape struct {
	Start, End *Surface

	ratioTween *gween.Tween
	ratio      float32
}

// NewMorphShape pairs a start and end shape. Ratio begins at 0 (fully Start).
func NewMorphShape(start, end *Surface) *MorphShape {
	return &MorphShape{Start: start, End: end}
}

// Ratio returns the current interpolation ratio in [0, 1].
func (m *MorphShape) Ratio() float64 { return float64(m.ratio) }

// SetRatio jumps directly to ratio, canceling any running ease.
func (m *MorphShape) SetRatio(ratio float64) {
	m.ratioTween = nil
	m.ratio = float32(ratio)
}

// EaseRatioTo starts (or replaces) a tween from the current ratio to
// target over duration seconds using fn, advanced by calling Update
// each frame.
func (m *MorphShape) EaseRatioTo(target float64, duration float32, fn ease.TweenFunc) {
	m.ratioTween = gween.New(m.ratio, float32(target), duration, fn)
}

// Update advances any running ratio tween by dt seconds and reports
// whether it has finished (or there was none running).
func (m *MorphShape) Update(dt float32) bool {
	if m.ratioTween == nil {
		return true
	}
	val, finished := m.ratioTween.Update(dt)
	m.ratio = val
	if finished {
		m.ratioTween = nil
	}
	return finished
}

// Flattened returns the vertex interpolation between Start and End at
// the current ratio. Start and End must have the same subpath/segment
// topology (the only case SWF's morph format permits); mismatched
// topology returns Start's flattening unchanged.
func (m *MorphShape) Flattened(tolerance geom.Twips) []FlattenedSubpath {
	startFlat := m.Start.Vertices(tolerance)
	endFlat := m.End.Vertices(tolerance)
	if len(startFlat) != len(endFlat) {
		return startFlat
	}
	ratio := float64(m.ratio)
	out := make([]FlattenedSubpath, len(startFlat))
	for i := range startFlat {
		a, b := startFlat[i], endFlat[i]
		if len(a.Points) != len(b.Points) {
			out[i] = a
			continue
		}
		pts := make([]geom.Point, len(a.Points))
		for j := range a.Points {
			pts[j] = lerpPoint(a.Points[j], b.Points[j], ratio)
		}
		out[i] = FlattenedSubpath{
			Points: pts,
			Fill:   lerpFill(a.Fill, b.Fill, ratio),
			Stroke: a.Stroke,
		}
	}
	return out
}

func lerpPoint(a, b geom.Point, t float64) geom.Point {
	return geom.Point{
		X: a.X + geom.Twips(float64(b.X-a.X)*t),
		Y: a.Y + geom.Twips(float64(b.Y-a.Y)*t),
	}
}

func lerpFill(a, b Fill, t float64) Fill {
	if !a.HasColor || !b.HasColor {
		return a
	}
	return Fill{
		HasColor: true,
		R:        a.R + (b.R-a.R)*t,
		G:        a.G + (b.G-a.G)*t,
		B:        a.B + (b.B-a.B)*t,
		A:        a.A + (b.A-a.A)*t,
	}
}
