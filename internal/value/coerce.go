package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AVM1CoercionMode selects the file-version-gated numeric coercion
// variant used by legacy AVM1 content: SWF versions 4 and
// earlier collapse booleans/undefined/null to 0 and report division by
// zero as a marker string; version 5 and later use the ECMA rules.
type AVM1CoercionMode uint8

const (
	// AVM1Legacy is the <=4 file-version coercion variant.
	AVM1Legacy AVM1CoercionMode = iota
	// AVM1ECMA is the >=5 file-version coercion variant (matches AVM2).
	AVM1ECMA
)

// DivisionByZeroMarker is the legacy AVM1 (file version 4) result of
// dividing by zero, in place of ±Inf/NaN.
const DivisionByZeroMarker = "#ERROR#"

// ErrCannotCoerceToObject is returned by ToObject for null/undefined.
var ErrCannotCoerceToObject = fmt.Errorf("value: cannot coerce null or undefined to object")

// ToBoolean coerces v per ECMA ToBoolean (used identically by AVM1 and
// AVM2): falsy are undefined, null, false, 0, NaN, and "".
func ToBoolean(v Value) bool {
	switch v.kind {
	case KindUndefined, KindNull:
		return false
	case KindBoolean:
		return v.b
	case KindInt:
		return v.i != 0
	case KindUint:
		return v.u != 0
	case KindDouble:
		return v.f != 0 && !math.IsNaN(v.f)
	case KindString:
		return v.s != ""
	case KindObject:
		return true
	default:
		return false
	}
}

// ToNumberECMA coerces v per ECMA-262 3rd edition ToNumber, used by AVM2
// and by AVM1 content from file version 5 onward.
func ToNumberECMA(v Value) float64 {
	switch v.kind {
	case KindUndefined:
		return math.NaN()
	case KindNull:
		return 0
	case KindBoolean:
		if v.b {
			return 1
		}
		return 0
	case KindInt:
		return float64(v.i)
	case KindUint:
		return float64(v.u)
	case KindDouble:
		return v.f
	case KindString:
		return stringToNumber(v.s)
	case KindObject:
		// Object-to-primitive (valueOf/toString) is resolved by the
		// class/object model layer before reaching here; a bare object
		// reference with no primitive hint coerces to NaN.
		return math.NaN()
	default:
		return math.NaN()
	}
}

// ToNumberAVM1 coerces v per the legacy AVM1 rule: in file version <=4,
// booleans/undefined/null collapse to 0 (never NaN); from version 5 on it
// defers to ToNumberECMA.
func ToNumberAVM1(v Value, mode AVM1CoercionMode) float64 {
	if mode == AVM1ECMA {
		return ToNumberECMA(v)
	}
	switch v.kind {
	case KindUndefined, KindNull:
		return 0
	case KindBoolean:
		if v.b {
			return 1
		}
		return 0
	default:
		return ToNumberECMA(v)
	}
}

func stringToNumber(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return f
	}
	if i, err := strconv.ParseInt(t, 0, 64); err == nil {
		return float64(i)
	}
	return math.NaN()
}

// ToInt32 coerces v to a signed 32-bit integer, truncating toward zero
// and wrapping per ECMA ToInt32 (modulo 2^32, sign-extended).
func ToInt32(v Value) int32 {
	return int32(toUint32Bits(ToNumberECMA(v)))
}

// ToUint32 coerces v to an unsigned 32-bit integer per ECMA ToUint32.
func ToUint32(v Value) uint32 {
	return toUint32Bits(ToNumberECMA(v))
}

func toUint32Bits(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	// Truncate toward zero, then wrap into [0, 2^32).
	trunc := math.Trunc(f)
	m := math.Mod(trunc, 4294967296)
	if m < 0 {
		m += 4294967296
	}
	return uint32(m)
}

// ToInteger coerces v per ECMA ToInteger: truncate toward zero, NaN
// becomes 0, infinities are preserved.
func ToInteger(v Value) float64 {
	f := ToNumberECMA(v)
	if math.IsNaN(f) {
		return 0
	}
	if math.IsInf(f, 0) {
		return f
	}
	return math.Trunc(f)
}

// ToStringECMA coerces v per ECMA ToString.
func ToStringECMA(v Value) string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(int64(v.i), 10)
	case KindUint:
		return strconv.FormatUint(uint64(v.u), 10)
	case KindDouble:
		return formatDouble(v.f)
	case KindString:
		return v.s
	case KindObject:
		return "[object Object]"
	default:
		return ""
	}
}

func formatDouble(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ShiftCount masks a shift-count operand to its low 5 bits, 's
// boundary behavior (1 >>> 33 == 1 >>> 1).
func ShiftCount(v Value) uint32 {
	return ToUint32(v) & 0x1f
}
