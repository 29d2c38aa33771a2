package avm1

import (
	"github.com/cindervm/cinder/internal/value"
)

// toNumber coerces v to a float64 using the interpreter's configured
// AVM1 legacy-or-ECMA mode.
func (in *Interpreter) toNumber(v value.Value) float64 {
	return value.ToNumberAVM1(v, in.mode)
}

func (in *Interpreter) binaryNumeric(f func(a, b float64) float64) error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	in.push(value.Double(f(in.toNumber(a), in.toNumber(b))))
	return nil
}

func (in *Interpreter) binaryNumericBool(f func(a, b float64) bool) error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	in.push(value.Bool(f(in.toNumber(a), in.toNumber(b))))
	return nil
}

func (in *Interpreter) binaryStringBool(f func(a, b string) bool) error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	in.push(value.Bool(f(value.ToStringECMA(a), value.ToStringECMA(b))))
	return nil
}

func (in *Interpreter) binaryBool(f func(a, b bool) bool) error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	in.push(value.Bool(f(value.ToBoolean(a), value.ToBoolean(b))))
	return nil
}

func (in *Interpreter) binaryBits(f func(a, b int32) int32) error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	in.push(value.Int(f(value.ToInt32(a), value.ToInt32(b))))
	return nil
}

func (in *Interpreter) opShift(f func(a int32, n uint32) int32) error {
	count, err := in.pop()
	if err != nil {
		return err
	}
	operand, err := in.pop()
	if err != nil {
		return err
	}
	in.push(value.Int(f(value.ToInt32(operand), value.ShiftCount(count))))
	return nil
}

func (in *Interpreter) opShiftUnsigned() error {
	count, err := in.pop()
	if err != nil {
		return err
	}
	operand, err := in.pop()
	if err != nil {
		return err
	}
	in.push(value.Uint(value.ToUint32(operand) >> value.ShiftCount(count)))
	return nil
}

// opDivide implements Divide's legacy "#ERROR#" string marker for
// division by zero in legacy coercion mode.
func (in *Interpreter) opDivide() error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	in.push(value.Divide(in.toNumber(a), in.toNumber(b), in.mode))
	return nil
}

// opAdd2 implements the ECMA-coercion Add2 opcode: if
// either operand is a string, the result is string concatenation;
// otherwise both coerce to ECMA numbers and add.
func (in *Interpreter) opAdd2() error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	if a.Kind() == value.KindString || b.Kind() == value.KindString {
		in.push(value.String(value.ToStringECMA(a) + value.ToStringECMA(b)))
		return nil
	}
	in.push(value.Double(value.ToNumberECMA(a) + value.ToNumberECMA(b)))
	return nil
}

func (in *Interpreter) opStringAdd() error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	in.push(value.String(value.ToStringECMA(a) + value.ToStringECMA(b)))
	return nil
}

func (in *Interpreter) opEquals2() error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	in.push(value.Bool(value.LooseEquals(a, b)))
	return nil
}

func (in *Interpreter) opStrictEquals() error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	in.push(value.Bool(value.StrictEquals(a, b)))
	return nil
}

func (in *Interpreter) opLess2() error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	if a.Kind() == value.KindString && b.Kind() == value.KindString {
		in.push(value.Bool(value.ToStringECMA(a) < value.ToStringECMA(b)))
		return nil
	}
	in.push(value.Bool(value.ToNumberECMA(a) < value.ToNumberECMA(b)))
	return nil
}

func (in *Interpreter) opStringExtract() error {
	count, err := in.pop()
	if err != nil {
		return err
	}
	start, err := in.pop()
	if err != nil {
		return err
	}
	s, err := in.pop()
	if err != nil {
		return err
	}
	runes := []rune(value.ToStringECMA(s))
	lo := clampIndex(int(value.ToInteger(start)), len(runes))
	n := int(value.ToInteger(count))
	hi := clampIndex(lo+n, len(runes))
	if hi < lo {
		hi = lo
	}
	in.push(value.String(string(runes[lo:hi])))
	return nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// opConstantPool rebuilds the interpreter's string constant pool from a
// ConstantPool action body: a little-endian u16 count followed by that
// many NUL-terminated strings.
func (in *Interpreter) opConstantPool(body []byte) error {
	c := newCursor(body)
	count, err := c.readU16()
	if err != nil {
		return err
	}
	pool := make([]value.Value, 0, count)
	for i := uint16(0); i < count; i++ {
		s, err := c.readCString()
		if err != nil {
			return err
		}
		pool = append(pool, value.String(s))
	}
	in.constants = pool
	return nil
}

// opPush decodes one or more type-tagged operands from a Push action
// body and pushes each in order.
func (in *Interpreter) opPush(body []byte) error {
	c := newCursor(body)
	for !c.atEnd() {
		tag, err := c.readByte()
		if err != nil {
			return err
		}
		v, err := in.readPushValue(c, tag)
		if err != nil {
			return err
		}
		in.push(v)
	}
	return nil
}

func (in *Interpreter) readPushValue(c *cursor, tag byte) (value.Value, error) {
	switch tag {
	case 0: // string
		s, err := c.readCString()
		return value.String(s), err
	case 1: // float (32-bit)
		f, err := c.readFloat32()
		return value.Double(float64(f)), err
	case 2: // null
		return value.Null, nil
	case 3: // undefined
		return value.Undefined, nil
	case 4: // register
		idx, err := c.readByte()
		if err != nil {
			return value.Undefined, err
		}
		return in.register(idx)
	case 5: // boolean
		b, err := c.readByte()
		return value.Bool(b != 0), err
	case 6: // double
		d, err := c.readFloat64()
		return value.Double(d), err
	case 7: // integer (32-bit)
		u, err := c.readU32()
		return value.Int(int32(u)), err
	case 8: // constant8
		idx, err := c.readByte()
		if err != nil {
			return value.Undefined, err
		}
		return in.constant(int(idx))
	case 9: // constant16
		idx, err := c.readU16()
		if err != nil {
			return value.Undefined, err
		}
		return in.constant(int(idx))
	default:
		return value.Undefined, ErrUnknownOpcode
	}
}

func (in *Interpreter) constant(idx int) (value.Value, error) {
	if idx < 0 || idx >= len(in.constants) {
		return value.Undefined, ErrRangeConstant
	}
	return in.constants[idx], nil
}

func (in *Interpreter) register(idx byte) (value.Value, error) {
	if int(idx) >= len(in.registers) {
		return value.Undefined, ErrBadRegister
	}
	return in.registers[idx], nil
}

func (in *Interpreter) setRegister(idx byte, v value.Value) error {
	if int(idx) >= len(in.registers) {
		return ErrBadRegister
	}
	in.registers[idx] = v
	return nil
}

// opStoreRegister stores the top of stack (without popping it, matching
// the SWF semantics where StoreRegister is typically followed by Pop)
// into the register named by the action body's single byte.
func (in *Interpreter) opStoreRegister(body []byte) error {
	if len(body) < 1 {
		return ErrBadRegister
	}
	if len(in.stack) == 0 {
		return ErrStackUnderflow
	}
	return in.setRegister(body[0], in.stack[len(in.stack)-1])
}
