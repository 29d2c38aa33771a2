package drawing

import "github.com/cindervm/cinder/internal/geom"

// Fill describes the paint applied to a closed subpath; gradients and
// bitmap fills are left as a future extension and unset fields mean
// "no fill" (stroke-only subpath).
type Fill struct {
	HasColor bool
	R, G, B, A float64
}

// Stroke describes the line style applied along a subpath.
type Stroke struct {
	HasStroke bool
	Width     geom.Twips
	R, G, B, A float64
}

// segmentKind distinguishes a straight edge from a quadratic curve edge
// within a subpath, matching SWF's EDGERECORD which encodes exactly one
// optional control point per edge.
type segmentKind uint8

const (
	segLine segmentKind = iota
	segCurve
)

type segment struct {
	kind    segmentKind
	control geom.Point // only meaningful when kind == segCurve
	to      geom.Point
}

// subpath is one contiguous pen-down run: a starting point plus the
// edges drawn from it, with the fill/stroke active when beginFill/
// lineStyle was last called before this subpath started.
type subpath struct {
	start    geom.Point
	segments []segment
	fill     Fill
	stroke   Stroke
}

// Surface accumulates drawing commands the way a Graphics API
// (AVM1 MovieClip drawing methods, AVM2 flash.display.Graphics) issues
// them: moveTo/lineTo/curveTo with an active fill/stroke context, an
// open-ended recorded path rather than a fixed shape generator.
type Surface struct {
	subpaths []subpath

	cur        geom.Point
	curFill    Fill
	curStroke  Stroke
	building   bool
	pending    []segment
	pendingStart geom.Point

	cache Cache
}

// NewSurface returns an empty drawing surface positioned at the origin.
func NewSurface() *Surface {
	return &Surface{}
}

// Clear discards every recorded subpath and resets the pen to the origin.
func (s *Surface) Clear() {
	s.subpaths = nil
	s.cur = geom.Point{}
	s.building = false
	s.pending = nil
}

// MoveTo lifts the pen to p without drawing, flushing any in-progress subpath.
func (s *Surface) MoveTo(p geom.Point) {
	s.flush()
	s.cur = p
}

// LineTo draws a straight edge from the current pen position to p.
func (s *Surface) LineTo(p geom.Point) {
	s.startIfNeeded()
	s.pending = append(s.pending, segment{kind: segLine, to: p})
	s.cur = p
}

// CurveTo draws a quadratic Bezier edge from the current pen position
// through control to p, matching SWF's single-control-point curve edge.
func (s *Surface) CurveTo(control, p geom.Point) {
	s.startIfNeeded()
	s.pending = append(s.pending, segment{kind: segCurve, control: control, to: p})
	s.cur = p
}

// BeginFill sets the solid fill color used by subpaths started from
// this point on, until the next BeginFill/EndFill.
func (s *Surface) BeginFill(r, g, b, a float64) {
	s.flush()
	s.curFill = Fill{HasColor: true, R: r, G: g, B: b, A: a}
}

// EndFill clears the active fill, so further subpaths are stroke-only.
func (s *Surface) EndFill() {
	s.flush()
	s.curFill = Fill{}
}

// LineStyle sets the active stroke; width is in twips, matching SWF's
// LINESTYLE record.
func (s *Surface) LineStyle(width geom.Twips, r, g, b, a float64) {
	s.flush()
	s.curStroke = Stroke{HasStroke: true, Width: width, R: r, G: g, B: b, A: a}
}

func (s *Surface) startIfNeeded() {
	if !s.building {
		s.building = true
		s.pendingStart = s.cur
		s.pending = nil
	}
}

func (s *Surface) flush() {
	if !s.building || len(s.pending) == 0 {
		s.building = false
		s.pending = nil
		return
	}
	s.subpaths = append(s.subpaths, subpath{
		start:    s.pendingStart,
		segments: s.pending,
		fill:     s.curFill,
		stroke:   s.curStroke,
	})
	s.building = false
	s.pending = nil
}

// Bounds returns the axis-aligned bounds of every recorded point
// (including curve control points, a conservative but cheap superset
// of the true flattened-curve bounds).
func (s *Surface) Bounds() geom.Rectangle {
	s.flush()
	first := true
	out := geom.Rectangle{}
	extend := func(p geom.Point) {
		if first {
			out = geom.Rectangle{XMin: p.X, XMax: p.X, YMin: p.Y, YMax: p.Y}
			first = false
			return
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
	for _, sp := range s.subpaths {
		extend(sp.start)
		for _, seg := range sp.segments {
			if seg.kind == segCurve {
				extend(seg.control)
			}
			extend(seg.to)
		}
	}
	return out
}

// Vertices flattens every subpath's quadratic curves into line segments
// by recursive midpoint subdivision and returns a flat polyline-per-
// subpath vertex list paired with its fill, ready for a renderer's
// triangulation step. tolerance is the maximum twip deviation a chord
// may have from its true curve before it is subdivided again.
func (s *Surface) Vertices(tolerance geom.Twips) []FlattenedSubpath {
	s.flush()
	out := make([]FlattenedSubpath, 0, len(s.subpaths))
	for _, sp := range s.subpaths {
		pts := []geom.Point{sp.start}
		cur := sp.start
		for _, seg := range sp.segments {
			switch seg.kind {
			case segLine:
				pts = append(pts, seg.to)
				cur = seg.to
			case segCurve:
				pts = append(pts, flattenQuadratic(cur, seg.control, seg.to, tolerance, 0)...)
				cur = seg.to
			}
		}
		out = append(out, FlattenedSubpath{Points: pts, Fill: sp.fill, Stroke: sp.stroke})
	}
	return out
}

// FlattenedSubpath is one subpath reduced to straight-line points.
type FlattenedSubpath struct {
	Points []geom.Point
	Fill   Fill
	Stroke Stroke
}

const maxSubdivisionDepth = 16

// flattenQuadratic recursively subdivides the quadratic Bezier
// (from, control, to) until the control point lies within tolerance
// twips of the chord's midpoint on each axis, returning the
// subdivided points excluding "from" (the caller already has it).
func flattenQuadratic(from, control, to geom.Point, tolerance geom.Twips, depth int) []geom.Point {
	if depth >= maxSubdivisionDepth || flatEnough(from, control, to, tolerance) {
		return []geom.Point{to}
	}
	// de Casteljau midpoint split.
	fc := midpoint(from, control)
	ct := midpoint(control, to)
	mid := midpoint(fc, ct)

	left := flattenQuadratic(from, fc, mid, tolerance, depth+1)
	right := flattenQuadratic(mid, ct, to, tolerance, depth+1)
	return append(left, right...)
}

func flatEnough(from, control, to geom.Point, tolerance geom.Twips) bool {
	chordMid := midpoint(from, to)
	dx := control.X - chordMid.X
	dy := control.Y - chordMid.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= tolerance && dy <= tolerance
}

func midpoint(a, b geom.Point) geom.Point {
	return geom.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
