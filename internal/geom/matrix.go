package geom

import "math"

// Matrix is the 2D affine transform used by every display object, laid
// out [a b c d tx ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// a/b/c/d are unitless scale/skew/rotation factors; tx/ty are translations
// in Twips. This layout and field naming follows the SWF MATRIX record
// (scale_x, rotate_skew_0, rotate_skew_1, scale_y, translate_x, translate_y).
type Matrix struct {
	A, B, C, D float64
	TX, TY     Twips
}

// Identity is the identity matrix.
var Identity = Matrix{A: 1, D: 1}

// Zero is the zero matrix (collapses every point to the origin).
var Zero = Matrix{}

// TwipsToPixels scales twip-space coordinates down to pixel space.
var TwipsToPixels = Matrix{A: 1.0 / TwipsPerPixel, D: 1.0 / TwipsPerPixel}

// PixelsToTwips scales pixel-space coordinates up to twip space.
var PixelsToTwips = Matrix{A: TwipsPerPixel, D: TwipsPerPixel}

// Scale builds a pure scaling matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

// Rotate builds a pure rotation matrix (radians, clockwise in the Y-down
// SWF coordinate system).
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{A: cos, B: sin, C: -sin, D: cos}
}

// Translate builds a pure translation matrix.
func Translate(x, y Twips) Matrix {
	return Matrix{A: 1, D: 1, TX: x, TY: y}
}

// CreateBox builds the common "PlaceObject" matrix shape: scale then
// translate, no rotation or skew.
func CreateBox(scaleX, scaleY float64, translateX, translateY Twips) Matrix {
	return Matrix{A: scaleX, D: scaleY, TX: translateX, TY: translateY}
}

// CreateBoxWithRotation builds scale+rotate+translate in one matrix.
func CreateBoxWithRotation(scaleX, scaleY, rotation float64, translateX, translateY Twips) Matrix {
	sin, cos := math.Sincos(rotation)
	return Matrix{
		A: cos * scaleX, B: sin * scaleY,
		C: -sin * scaleX, D: cos * scaleY,
		TX: translateX, TY: translateY,
	}
}

// Compose builds a display object's local matrix from its individual
// transform properties, in the order: scale -> skew -> rotate -> translate
// around (pivotX, pivotY).
func Compose(scaleX, scaleY, skewX, skewY, rotation float64, pivotX, pivotY, x, y Twips) Matrix {
	sin, cos := math.Sincos(rotation)

	var tanSkewX, tanSkewY float64
	if skewX != 0 {
		tanSkewX = math.Tan(skewX)
	}
	if skewY != 0 {
		tanSkewY = math.Tan(skewY)
	}

	a := scaleX
	b := tanSkewY * scaleX
	c := tanSkewX * scaleY
	d := scaleY

	px, py := float64(pivotX), float64(pivotY)
	preTx := -px*scaleX - tanSkewX*py*scaleY
	preTy := -tanSkewY*px*scaleX - py*scaleY

	ra := cos*a - sin*b
	rb := sin*a + cos*b
	rc := cos*c - sin*d
	rd := sin*c + cos*d
	rtx := cos*preTx - sin*preTy
	rty := sin*preTx + cos*preTy

	return Matrix{
		A: ra, B: rb, C: rc, D: rd,
		TX: Twips(rtx) + x,
		TY: Twips(rty) + y,
	}
}

// Multiply returns p composed with c, i.e. applying the result to a point
// is equivalent to applying c then p (p*c, parent-then-child order).
func Multiply(p, c Matrix) Matrix {
	return Matrix{
		A: p.A*c.A + p.C*c.B,
		B: p.B*c.A + p.D*c.B,
		C: p.A*c.C + p.C*c.D,
		D: p.B*c.C + p.D*c.D,
		TX: Twips(float64(p.A)*float64(c.TX)+float64(p.C)*float64(c.TY)) + p.TX,
		TY: Twips(float64(p.B)*float64(c.TX)+float64(p.D)*float64(c.TY)) + p.TY,
	}
}

// Invert returns m's inverse, or Identity if m is singular (determinant
// within 1e-12 of zero).
func (m Matrix) Invert() Matrix {
	det := m.A*m.D - m.C*m.B
	if det > -1e-12 && det < 1e-12 {
		return Identity
	}
	invDet := 1.0 / det
	a := m.D * invDet
	b := -m.B * invDet
	c := -m.C * invDet
	d := m.A * invDet
	tx := float64(m.TX)
	ty := float64(m.TY)
	return Matrix{
		A: a, B: b, C: c, D: d,
		TX: Twips(-(a*tx + c*ty)),
		TY: Twips(-(b*tx + d*ty)),
	}
}

// TransformPoint applies m to a twip-space point.
func (m Matrix) TransformPoint(p Point) Point {
	x, y := float64(p.X), float64(p.Y)
	return Point{
		X: Twips(math.Round(m.A*x + m.C*y + float64(m.TX))),
		Y: Twips(math.Round(m.B*x + m.D*y + float64(m.TY))),
	}
}

// ScaleX returns the matrix's effective X scale factor (magnitude of the
// first column), used by the tessellation cache to pick a
// retessellation scale.
func (m Matrix) ScaleX() float64 {
	return math.Hypot(m.A, m.B)
}

// ScaleY returns the matrix's effective Y scale factor (magnitude of the
// second column).
func (m Matrix) ScaleY() float64 {
	return math.Hypot(m.C, m.D)
}
