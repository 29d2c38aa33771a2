package value

import "math"

// StrictEquals implements ECMA strict equality (===): no coercion, NaN is
// never equal to itself, object references compare by identity.
func StrictEquals(a, b Value) bool {
	if a.kind != b.kind {
		// int/uint/double are distinct Kinds but are the same ECMA
		// "Number" type; strict equals compares them numerically.
		if isNumeric(a.kind) && isNumeric(b.kind) {
			af, _ := a.numericPayload()
			bf, _ := b.numericPayload()
			return af == bf
		}
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindBoolean:
		return a.b == b.b
	case KindInt, KindUint, KindDouble:
		af, _ := a.numericPayload()
		bf, _ := b.numericPayload()
		return af == bf
	case KindString:
		return a.s == b.s
	case KindObject:
		return a.obj == b.obj
	default:
		return false
	}
}

func isNumeric(k Kind) bool {
	return k == KindInt || k == KindUint || k == KindDouble
}

// LooseEquals implements ECMA abstract equality (==), undefined
// folds with null, numbers compare by IEEE-754 equality (NaN unequal to
// itself), strings compare by code unit, and a string/number mix
// converts the string with NaN fallback.
func LooseEquals(a, b Value) bool {
	if a.kind == b.kind {
		return StrictEquals(a, b)
	}

	if a.IsNullOrUndefined() && b.IsNullOrUndefined() {
		return true
	}
	if a.IsNullOrUndefined() || b.IsNullOrUndefined() {
		return false
	}

	if isNumeric(a.kind) && isNumeric(b.kind) {
		return StrictEquals(a, b)
	}

	if isNumeric(a.kind) && b.kind == KindString {
		bf := stringToNumber(b.s)
		af, _ := a.numericPayload()
		return af == bf && !math.IsNaN(bf)
	}
	if a.kind == KindString && isNumeric(b.kind) {
		af := stringToNumber(a.s)
		bf, _ := b.numericPayload()
		return af == bf && !math.IsNaN(af)
	}

	if a.kind == KindBoolean {
		return LooseEquals(Double(ToNumberECMA(a)), b)
	}
	if b.kind == KindBoolean {
		return LooseEquals(a, Double(ToNumberECMA(b)))
	}

	if isNumeric(a.kind) && b.kind == KindObject {
		return false // object-to-primitive handled by caller before reaching here
	}
	if a.kind == KindObject && isNumeric(b.kind) {
		return false
	}

	return false
}

// Divide implements numeric division with the file-version-gated
// division-by-zero rule of AVM2 and AVM1 file version >=5
// produce ±Infinity/NaN; AVM1 file version <=4 produces the marker
// string "#ERROR#" instead of a number.
//
// The marker-string case is surfaced as a Value of Kind String so
// callers (AVM1's Divide/Divide2 opcodes) can push it directly onto the
// operand stack in place of a numeric result.
func Divide(numerator, denominator float64, mode AVM1CoercionMode) Value {
	if denominator == 0 && mode == AVM1Legacy {
		return String(DivisionByZeroMarker)
	}
	return Double(numerator / denominator)
}
