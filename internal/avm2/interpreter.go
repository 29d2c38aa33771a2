package avm2

import (
	"fmt"
	"math"

	"github.com/cindervm/cinder/internal/class"
	"github.com/cindervm/cinder/internal/heap"
	"github.com/cindervm/cinder/internal/value"
)

// NativeFunc is a method body implemented directly in Go rather than by
// interpreted bytecode, used for built-in classes (Array, Date, the
// global functions).
type NativeFunc func(call *Call) (value.Value, error)

// Call is the argument bundle a NativeFunc receives.
type Call struct {
	Machine *Machine
	This    value.Value
	// Receiver is This resolved to its heap object, or nil if This is
	// not an object value. Native methods operate on the object
	// directly rather than re-resolving it through an Arena themselves.
	Receiver any
	Args     []value.Value
}

// Callable is one resolvable method body: either bytecode (Abc+Body
// populated) or a native Go function.
type Callable struct {
	Abc    *AbcFile
	Body   *MethodBody
	Native NativeFunc
}

// Machine owns the method table every class.MethodHandle.ID indexes
// into, and the heap arena/token shared by every activation it spawns.
// A single Machine is long-lived for one movie's VM, mirroring how
// Arena is shared across frames in pipeline.
type Machine struct {
	Arena   *heap.Arena
	Tok     heap.Token
	methods []Callable

	// Budget, if non-nil, is a shared instruction counter every running
	// Activation decrements once per bytecode step; run fails with
	// class.ErrBudgetExhausted instead of stepping once it reaches zero.
	// nil means unbounded.
	Budget *int
}

// NewMachine creates a machine over the given arena and mutation token.
// Method table index 0 is reserved as "no method" so that a zero-value
// class.MethodHandle (e.g. a class with no instance initializer) is
// never mistaken for a real registered callable.
func NewMachine(arena *heap.Arena, tok heap.Token) *Machine {
	return &Machine{Arena: arena, Tok: tok, methods: make([]Callable, 1)}
}

// Register adds a callable to the method table and returns the
// class.MethodHandle that addresses it.
func (m *Machine) Register(c Callable) class.MethodHandle {
	id := len(m.methods)
	m.methods = append(m.methods, c)
	return class.MethodHandle{ID: id, IsNative: c.Native != nil}
}

// Invoke calls the method addressed by h with the given receiver and
// arguments.
func (m *Machine) Invoke(h class.MethodHandle, this value.Value, args []value.Value) (value.Value, error) {
	if h.ID <= 0 || h.ID >= len(m.methods) {
		return value.Undefined, ErrNotCallable
	}
	c := m.methods[h.ID]
	if c.Native != nil {
		var recv any
		if this.Kind() == value.KindObject {
			recv, _ = m.Arena.Get(this.ObjectRef())
		}
		return c.Native(&Call{Machine: m, This: this, Receiver: recv, Args: args})
	}
	act := newActivation(m, c.Abc, c.Body)
	return act.run(this, args)
}

// scopeEntry is one entry of the scope stack: an object plus whether it
// was pushed by pushwith (which, unlike pushscope, also affects the
// with-scope search used by findproperty's dynamic fallback).
type scopeEntry struct {
	obj   *class.Object
	ref   heap.Ref
	isWith bool
}

// Activation is one running call frame: its operand stack, local
// registers, and scope stack, over a single MethodBody's bytecode.
type Activation struct {
	m      *Machine
	abc    *AbcFile
	pool   *ConstantPool
	body   *MethodBody
	code   *reader
	stack  []value.Value
	locals []value.Value
	scopes []scopeEntry
	this   value.Value
}

func newActivation(m *Machine, abc *AbcFile, body *MethodBody) *Activation {
	return &Activation{
		m:      m,
		abc:    abc,
		pool:   abc.Pool,
		body:   body,
		locals: make([]value.Value, body.NumLocals),
	}
}

func (a *Activation) push(v value.Value) { a.stack = append(a.stack, v) }

func (a *Activation) pop() (value.Value, error) {
	n := len(a.stack)
	if n == 0 {
		return value.Undefined, ErrStackUnderflow
	}
	v := a.stack[n-1]
	a.stack = a.stack[:n-1]
	return v, nil
}

func (a *Activation) popN(n int) ([]value.Value, error) {
	if n < 0 || n > len(a.stack) {
		return nil, ErrStackUnderflow
	}
	out := make([]value.Value, n)
	copy(out, a.stack[len(a.stack)-n:])
	a.stack = a.stack[:len(a.stack)-n]
	return out, nil
}

func (a *Activation) pushScope(obj *class.Object, ref heap.Ref, isWith bool) {
	a.scopes = append(a.scopes, scopeEntry{obj: obj, ref: ref, isWith: isWith})
}

func (a *Activation) objectOf(v value.Value) (*class.Object, bool) {
	if v.Kind() != value.KindObject {
		return nil, false
	}
	raw, ok := a.m.Arena.Get(v.ObjectRef())
	if !ok {
		return nil, false
	}
	obj, ok := raw.(*class.Object)
	return obj, ok
}

// run executes the method body to completion (ReturnValue/ReturnVoid)
// or until an unhandled error/thrown value propagates out.
func (a *Activation) run(this value.Value, args []value.Value) (value.Value, error) {
	a.this = this
	for i, arg := range args {
		if i+1 < len(a.locals) {
			a.locals[i+1] = arg
		}
	}
	if len(a.locals) > 0 {
		a.locals[0] = this
	}

	a.code = newReader(a.body.Code)
	for {
		if a.m.Budget != nil {
			if *a.m.Budget <= 0 {
				return value.Undefined, class.ErrBudgetExhausted
			}
			*a.m.Budget--
		}

		result, retVal, err := a.step()
		if err != nil {
			if a.tryHandle(err) {
				continue
			}
			return value.Undefined, err
		}
		if result {
			return retVal, nil
		}
	}
}

// tryHandle searches the method body's exception table for a handler
// covering the offset the error occurred at, scanned in table order.
// On a match it repositions code to TargetOffset, pushes the thrown
// value, and reports true so run's loop resumes execution there.
func (a *Activation) tryHandle(cause error) bool {
	thrown, ok := cause.(*thrownValue)
	if !ok {
		return false
	}
	offset := uint32(thrown.offset)
	for _, exc := range a.body.Exceptions {
		if offset < exc.FromOffset || offset >= exc.ToOffset {
			continue
		}
		// A type_name of 0 (none) matches any thrown value, per the ABC
		// convention for a bare "catch all" handler.
		a.code = newReader(a.body.Code)
		a.code.pos = int(exc.TargetOffset)
		a.push(thrown.value)
		return true
	}
	return false
}

// thrownValue wraps a script-thrown value with the code offset Throw
// executed at, so tryHandle can match it against the exception table.
type thrownValue struct {
	value  value.Value
	offset int
}

func (t *thrownValue) Error() string { return "avm2: thrown value" }

// step decodes and executes one instruction. The first return is true
// when the method has returned (retVal is then meaningful).
func (a *Activation) step() (bool, value.Value, error) {
	opByte, err := a.code.readU8()
	if err != nil {
		return true, value.Undefined, nil // ran off the end without an explicit return
	}
	op := Op(opByte)
	startOffset := a.code.pos - 1

	switch op {
	case OpNop, OpLabel, OpDebug, OpDebugLine, OpDebugFile, OpBreakpointLine, OpTimestamp:
		return false, value.Undefined, a.skipDebugOperands(op)

	case OpReturnVoid:
		return true, value.Undefined, nil
	case OpReturnValue:
		v, err := a.pop()
		return true, v, err

	case OpThrow:
		v, err := a.pop()
		if err != nil {
			return false, value.Undefined, err
		}
		return false, value.Undefined, &thrownValue{value: v, offset: startOffset}

	case OpPushNull:
		a.push(value.Null)
	case OpPushUndefined:
		a.push(value.Undefined)
	case OpPushTrue:
		a.push(value.Bool(true))
	case OpPushFalse:
		a.push(value.Bool(false))
	case OpPushNaN:
		a.push(value.Double(math.NaN()))
	case OpPushByte:
		b, err := a.code.readU8()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.Int(int32(int8(b))))
	case OpPushShort:
		n, err := a.code.readU30()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.Int(int32(n)))
	case OpPushInt:
		idx, err := a.code.readIndex()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.Int(a.pool.Int(idx)))
	case OpPushUint:
		idx, err := a.code.readIndex()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.Uint(a.pool.Uint(idx)))
	case OpPushDouble:
		idx, err := a.code.readIndex()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.Double(a.pool.Double(idx)))
	case OpPushString:
		idx, err := a.code.readIndex()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.String(a.pool.String(idx)))

	case OpPop:
		if _, err := a.pop(); err != nil {
			return false, value.Undefined, err
		}
	case OpDup:
		v, err := a.pop()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(v)
		a.push(v)
	case OpSwap:
		vs, err := a.popN(2)
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(vs[1])
		a.push(vs[0])

	case OpGetLocal0, OpGetLocal1, OpGetLocal2, OpGetLocal3:
		a.push(a.localAt(int(op - OpGetLocal0)))
	case OpSetLocal0, OpSetLocal1, OpSetLocal2, OpSetLocal3:
		v, err := a.pop()
		if err != nil {
			return false, value.Undefined, err
		}
		a.setLocalAt(int(op-OpSetLocal0), v)
	case OpGetLocal:
		idx, err := a.code.readU30()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(a.localAt(int(idx)))
	case OpSetLocal:
		idx, err := a.code.readU30()
		if err != nil {
			return false, value.Undefined, err
		}
		v, err := a.pop()
		if err != nil {
			return false, value.Undefined, err
		}
		a.setLocalAt(int(idx), v)
	case OpKill:
		idx, err := a.code.readU30()
		if err != nil {
			return false, value.Undefined, err
		}
		a.setLocalAt(int(idx), value.Undefined)

	case OpJump:
		off, err := a.code.readI24()
		if err != nil {
			return false, value.Undefined, err
		}
		a.code.pos += int(off)
	case OpIfTrue, OpIfFalse, OpIfEq, OpIfNE, OpIfLT, OpIfLE, OpIfGT, OpIfGE,
		OpIfStrictEq, OpIfStrictNE, OpIfNLT, OpIfNLE, OpIfNGT, OpIfNGE:
		if err := a.conditionalJump(op); err != nil {
			return false, value.Undefined, err
		}

	case OpNot:
		v, err := a.pop()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.Bool(!value.ToBoolean(v)))
	case OpBitNot:
		v, err := a.pop()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.Int(^value.ToInt32(v)))
	case OpNegate:
		v, err := a.pop()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.Double(-value.ToNumberECMA(v)))
	case OpIncrement:
		v, err := a.pop()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.Double(value.ToNumberECMA(v) + 1))
	case OpDecrement:
		v, err := a.pop()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.Double(value.ToNumberECMA(v) - 1))
	case OpTypeOf:
		v, err := a.pop()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.String(typeOfName(v)))

	case OpAdd:
		if err := a.binaryOp(opAdd); err != nil {
			return false, value.Undefined, err
		}
	case OpSubtract:
		if err := a.binaryNumeric(func(x, y float64) float64 { return x - y }); err != nil {
			return false, value.Undefined, err
		}
	case OpMultiply:
		if err := a.binaryNumeric(func(x, y float64) float64 { return x * y }); err != nil {
			return false, value.Undefined, err
		}
	case OpDivide:
		if err := a.binaryNumeric(func(x, y float64) float64 { return x / y }); err != nil {
			return false, value.Undefined, err
		}
	case OpModulo:
		if err := a.binaryNumeric(math.Mod); err != nil {
			return false, value.Undefined, err
		}
	case OpLShift:
		if err := a.binaryInt(func(x, y int32) int32 { return x << (uint32(y) & 31) }); err != nil {
			return false, value.Undefined, err
		}
	case OpRShift:
		if err := a.binaryInt(func(x, y int32) int32 { return x >> (uint32(y) & 31) }); err != nil {
			return false, value.Undefined, err
		}
	case OpURShift:
		if err := a.binaryUint(func(x, y uint32) uint32 { return x >> (y & 31) }); err != nil {
			return false, value.Undefined, err
		}
	case OpBitAnd:
		if err := a.binaryInt(func(x, y int32) int32 { return x & y }); err != nil {
			return false, value.Undefined, err
		}
	case OpBitOr:
		if err := a.binaryInt(func(x, y int32) int32 { return x | y }); err != nil {
			return false, value.Undefined, err
		}
	case OpBitXor:
		if err := a.binaryInt(func(x, y int32) int32 { return x ^ y }); err != nil {
			return false, value.Undefined, err
		}
	case OpEquals:
		if err := a.binaryBool(value.LooseEquals); err != nil {
			return false, value.Undefined, err
		}
	case OpStrictEquals:
		if err := a.binaryBool(value.StrictEquals); err != nil {
			return false, value.Undefined, err
		}
	case OpLessThan:
		if err := a.binaryBool(func(x, y value.Value) bool { return value.ToNumberECMA(x) < value.ToNumberECMA(y) }); err != nil {
			return false, value.Undefined, err
		}
	case OpLessEquals:
		if err := a.binaryBool(func(x, y value.Value) bool { return value.ToNumberECMA(x) <= value.ToNumberECMA(y) }); err != nil {
			return false, value.Undefined, err
		}
	case OpGreaterThan:
		if err := a.binaryBool(func(x, y value.Value) bool { return value.ToNumberECMA(x) > value.ToNumberECMA(y) }); err != nil {
			return false, value.Undefined, err
		}
	case OpGreaterEquals:
		if err := a.binaryBool(func(x, y value.Value) bool { return value.ToNumberECMA(x) >= value.ToNumberECMA(y) }); err != nil {
			return false, value.Undefined, err
		}

	case OpConvertD:
		v, err := a.pop()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.Double(value.ToNumberECMA(v)))
	case OpConvertI:
		v, err := a.pop()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.Int(value.ToInt32(v)))
	case OpConvertU:
		v, err := a.pop()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.Uint(value.ToUint32(v)))
	case OpConvertB:
		v, err := a.pop()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.Bool(value.ToBoolean(v)))
	case OpConvertS, OpCoerceS:
		v, err := a.pop()
		if err != nil {
			return false, value.Undefined, err
		}
		a.push(value.String(value.ToStringECMA(v)))
	case OpCoerceA, OpConvertO, OpCheckFilter:
		// identity coercions for this subset of the type system.
	case OpCoerce:
		if _, err := a.code.readIndex(); err != nil { // target type multiname; untyped coercion is identity here.
			return false, value.Undefined, err
		}

	case OpGetScopeObject:
		idx, err := a.code.readU30()
		if err != nil {
			return false, value.Undefined, err
		}
		if int(idx) < len(a.scopes) {
			a.push(value.Object(a.scopes[idx].ref))
		} else {
			a.push(value.Undefined)
		}
	case OpGetGlobalScope:
		if len(a.scopes) > 0 {
			a.push(value.Object(a.scopes[0].ref))
		} else {
			a.push(value.Undefined)
		}
	case OpPushScope, OpPushWith:
		v, err := a.pop()
		if err != nil {
			return false, value.Undefined, err
		}
		obj, ok := a.objectOf(v)
		if !ok {
			return false, value.Undefined, ErrNotCallable
		}
		a.pushScope(obj, v.ObjectRef(), op == OpPushWith)
	case OpPopScope:
		if len(a.scopes) > 0 {
			a.scopes = a.scopes[:len(a.scopes)-1]
		}

	case OpGetProperty:
		if err := a.opGetProperty(); err != nil {
			return false, value.Undefined, err
		}
	case OpSetProperty, OpInitProperty:
		if err := a.opSetProperty(); err != nil {
			return false, value.Undefined, err
		}
	case OpDeleteProperty:
		if err := a.opDeleteProperty(); err != nil {
			return false, value.Undefined, err
		}
	case OpFindPropStrict, OpFindProperty:
		if err := a.opFindProperty(op == OpFindPropStrict); err != nil {
			return false, value.Undefined, err
		}
	case OpGetLex:
		if err := a.opGetLex(); err != nil {
			return false, value.Undefined, err
		}

	case OpCallProperty, OpCallPropVoid:
		if err := a.opCallProperty(op == OpCallPropVoid); err != nil {
			return false, value.Undefined, err
		}
	case OpCall:
		if err := a.opCall(); err != nil {
			return false, value.Undefined, err
		}
	case OpConstructProp:
		if err := a.opConstructProp(); err != nil {
			return false, value.Undefined, err
		}
	case OpConstruct:
		if err := a.opConstruct(); err != nil {
			return false, value.Undefined, err
		}
	case OpNewArray:
		if err := a.opNewArray(); err != nil {
			return false, value.Undefined, err
		}
	case OpNewObject:
		if err := a.opNewObjectLiteral(); err != nil {
			return false, value.Undefined, err
		}
	case OpInstanceOf:
		if err := a.opInstanceOf(); err != nil {
			return false, value.Undefined, err
		}
	case OpIsType, OpIsTypeLate, OpAsType, OpAsTypeLate:
		if err := a.opTypeTest(op); err != nil {
			return false, value.Undefined, err
		}

	default:
		return false, value.Undefined, fmt.Errorf("%w: %#x", ErrUnsupported, byte(op))
	}
	return false, value.Undefined, nil
}

func (a *Activation) localAt(i int) value.Value {
	if i < 0 || i >= len(a.locals) {
		return value.Undefined
	}
	return a.locals[i]
}

func (a *Activation) setLocalAt(i int, v value.Value) {
	if i >= 0 && i < len(a.locals) {
		a.locals[i] = v
	}
}

// skipDebugOperands consumes the fixed operand layout of the debug/
// timestamp family of opcodes without acting on them (no debugger is
// implemented).
func (a *Activation) skipDebugOperands(op Op) error {
	switch op {
	case OpDebug:
		if _, err := a.code.readU8(); err != nil {
			return err
		}
		if _, err := a.code.readIndex(); err != nil {
			return err
		}
		if _, err := a.code.readU8(); err != nil {
			return err
		}
		_, err := a.code.readU30()
		return err
	case OpDebugLine, OpBreakpointLine:
		_, err := a.code.readU30()
		return err
	case OpDebugFile:
		_, err := a.code.readIndex()
		return err
	default:
		return nil
	}
}

func (a *reader) readI24() (int32, error) {
	b, err := a.readBytes(3)
	if err != nil {
		return 0, err
	}
	v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	if v&0x800000 != 0 {
		v |= ^0xffffff
	}
	return v, nil
}

func (a *Activation) conditionalJump(op Op) error {
	var cond bool
	switch op {
	case OpIfTrue, OpIfFalse:
		v, err := a.pop()
		if err != nil {
			return err
		}
		b := value.ToBoolean(v)
		cond = b == (op == OpIfTrue)
	default:
		vs, err := a.popN(2)
		if err != nil {
			return err
		}
		x, y := vs[0], vs[1]
		switch op {
		case OpIfEq:
			cond = value.LooseEquals(x, y)
		case OpIfNE:
			cond = !value.LooseEquals(x, y)
		case OpIfStrictEq:
			cond = value.StrictEquals(x, y)
		case OpIfStrictNE:
			cond = !value.StrictEquals(x, y)
		case OpIfLT:
			cond = value.ToNumberECMA(x) < value.ToNumberECMA(y)
		case OpIfLE:
			cond = value.ToNumberECMA(x) <= value.ToNumberECMA(y)
		case OpIfGT:
			cond = value.ToNumberECMA(x) > value.ToNumberECMA(y)
		case OpIfGE:
			cond = value.ToNumberECMA(x) >= value.ToNumberECMA(y)
		case OpIfNLT:
			cond = !(value.ToNumberECMA(x) < value.ToNumberECMA(y))
		case OpIfNLE:
			cond = !(value.ToNumberECMA(x) <= value.ToNumberECMA(y))
		case OpIfNGT:
			cond = !(value.ToNumberECMA(x) > value.ToNumberECMA(y))
		case OpIfNGE:
			cond = !(value.ToNumberECMA(x) >= value.ToNumberECMA(y))
		}
	}
	off, err := a.code.readI24()
	if err != nil {
		return err
	}
	if cond {
		a.code.pos += int(off)
	}
	return nil
}

func opAdd(x, y float64) float64 { return x + y }

// binaryOp is Add's special-cased string-concat-or-numeric-sum rule
//: string concatenation if either operand
// is a string, numeric addition otherwise.
func (a *Activation) binaryOp(numeric func(x, y float64) float64) error {
	vs, err := a.popN(2)
	if err != nil {
		return err
	}
	x, y := vs[0], vs[1]
	if x.Kind() == value.KindString || y.Kind() == value.KindString {
		a.push(value.String(value.ToStringECMA(x) + value.ToStringECMA(y)))
		return nil
	}
	a.push(value.Double(numeric(value.ToNumberECMA(x), value.ToNumberECMA(y))))
	return nil
}

func (a *Activation) binaryNumeric(f func(x, y float64) float64) error {
	vs, err := a.popN(2)
	if err != nil {
		return err
	}
	a.push(value.Double(f(value.ToNumberECMA(vs[0]), value.ToNumberECMA(vs[1]))))
	return nil
}

func (a *Activation) binaryInt(f func(x, y int32) int32) error {
	vs, err := a.popN(2)
	if err != nil {
		return err
	}
	a.push(value.Int(f(value.ToInt32(vs[0]), value.ToInt32(vs[1]))))
	return nil
}

func (a *Activation) binaryUint(f func(x, y uint32) uint32) error {
	vs, err := a.popN(2)
	if err != nil {
		return err
	}
	a.push(value.Uint(f(value.ToUint32(vs[0]), value.ToUint32(vs[1]))))
	return nil
}

func (a *Activation) binaryBool(f func(x, y value.Value) bool) error {
	vs, err := a.popN(2)
	if err != nil {
		return err
	}
	a.push(value.Bool(f(vs[0], vs[1])))
	return nil
}

func typeOfName(v value.Value) string {
	switch v.Kind() {
	case value.KindUndefined:
		return "undefined"
	case value.KindNull:
		return "object"
	case value.KindBoolean:
		return "boolean"
	case value.KindInt, value.KindUint, value.KindDouble:
		return "number"
	case value.KindString:
		return "string"
	default:
		return "object"
	}
}
