// Package value implements the runtime value model shared by both
// bytecode interpreters: a tagged union plus the ECMA and legacy-AVM1
// coercion rules a SWF host needs.
package value

import (
	"math"

	"github.com/cindervm/cinder/internal/heap"
)

// Kind tags a Value's active field.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindInt
	KindUint
	KindDouble
	KindString
	KindObject
)

// Value is the tagged union described in undefined, null, boolean,
// integer, unsigned integer, double, string, or object reference. It is
// a flat struct rather than an interface so that common arithmetic never
// allocates or costs an interface dispatch.
type Value struct {
	kind Kind
	b    bool
	i    int32
	u    uint32
	f    float64
	s    string
	obj  heap.Ref
}

// Undefined is the undefined value.
var Undefined = Value{kind: KindUndefined}

// Null is the null value.
var Null = Value{kind: KindNull}

// Bool constructs a boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Int constructs a signed 32-bit integer value.
func Int(i int32) Value { return Value{kind: KindInt, i: i} }

// Uint constructs an unsigned 32-bit integer value.
func Uint(u uint32) Value { return Value{kind: KindUint, u: u} }

// Double constructs a double-precision value.
func Double(f float64) Value { return Value{kind: KindDouble, f: f} }

// String constructs a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Object constructs an object-reference value pointing into the heap
// arena.
func Object(ref heap.Ref) Value { return Value{kind: KindObject, obj: ref} }

// Kind reports the value's active tag.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether v is the undefined value.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNullOrUndefined reports whether v is null or undefined.
func (v Value) IsNullOrUndefined() bool { return v.kind == KindNull || v.kind == KindUndefined }

// ObjectRef returns v's heap reference. Only meaningful when Kind() ==
// KindObject.
func (v Value) ObjectRef() heap.Ref { return v.obj }

// RawString returns v's string payload without coercion. Only meaningful
// when Kind() == KindString.
func (v Value) RawString() string { return v.s }

// RawBool returns v's boolean payload without coercion.
func (v Value) RawBool() bool { return v.b }

// RawDouble returns v's double payload without coercion.
func (v Value) RawDouble() float64 { return v.f }

// RawInt returns v's signed-integer payload without coercion.
func (v Value) RawInt() int32 { return v.i }

// RawUint returns v's unsigned-integer payload without coercion.
func (v Value) RawUint() uint32 { return v.u }

// numericPayload extracts a float64 view of the numeric kinds without
// going through the full coercion protocol; used internally by
// ToNumber/StrictEquals fast paths.
func (v Value) numericPayload() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindUint:
		return float64(v.u), true
	case KindDouble:
		return v.f, true
	default:
		return 0, false
	}
}

// IsNaN reports whether v is a double holding NaN.
func (v Value) IsNaN() bool {
	return v.kind == KindDouble && math.IsNaN(v.f)
}
