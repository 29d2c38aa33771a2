package avm1

import (
	"fmt"
	"math/rand"

	"github.com/cindervm/cinder/internal/class"
	"github.com/cindervm/cinder/internal/heap"
	"github.com/cindervm/cinder/internal/value"
)

// Interpreter runs one AVM1 action stream against a Context. A fresh
// Interpreter is cheap to create; callers typically make one per
// DoAction call, reusing the Context across calls on the same clip.
type Interpreter struct {
	ctx   *Context
	arena *heap.Arena
	tok   heap.Token
	mode  value.AVM1CoercionMode

	stack     []value.Value
	constants []value.Value
	registers [4 + 256]value.Value // indexed directly by register number 0-255

	// withChain holds the object scopes pushed by the With opcode, most
	// recently pushed last; GetVariable/SetVariable consult it before
	// falling back to the active clip's own variable pool.
	withChain []*class.Object

	// locals is the current function-call frame's variable object, or
	// nil at the top level of a DoAction where GetVariable/SetVariable
	// read and write the active clip's timeline variables directly.
	locals *class.Object

	// returnValue holds the operand Return popped, once DoAction exits
	// via errReturn.
	returnValue value.Value

	// budget, if non-nil, is a shared counter decremented once per
	// dispatched action; runBlock returns class.ErrBudgetExhausted
	// instead of dispatching once it reaches zero. nil means unbounded.
	// With-scoped sub-runs share it by running on the same Interpreter,
	// and closures by callValue handing the same pointer to the callee.
	budget *int
}

// NewInterpreter constructs an Interpreter bound to ctx and arena. mode
// selects the AVM1 legacy-vs-ECMA coercion rules used by Add/Equals/
// ToNumber.
func NewInterpreter(ctx *Context, arena *heap.Arena, tok heap.Token, mode value.AVM1CoercionMode) *Interpreter {
	return &Interpreter{ctx: ctx, arena: arena, tok: tok, mode: mode}
}

// SetBudget attaches a shared instruction counter that runBlock
// decrements once per dispatched action, failing the pass with
// class.ErrBudgetExhausted once it hits zero. Pass nil to run unbounded.
func (in *Interpreter) SetBudget(budget *int) {
	in.budget = budget
}

// DoAction runs one action byte stream to completion or until an
// unsupported opcode or runtime error is hit. Such a failure terminates
// only this action pass, is reported through ctx.OnError if set, and is
// also returned to the caller for diagnostics. It never panics on
// malformed bytecode.
func (in *Interpreter) DoAction(data []byte) error {
	err := in.runBlock(data)
	if err == errReturn {
		return nil
	}
	if err != nil {
		return in.fail(err)
	}
	return nil
}

// runBlock executes one action byte stream to completion, to an
// unhandled error, or to a Return. It is also used to run the scoped
// block of a With action against the same interpreter state (shared
// stack, registers, locals) with the target object pushed onto
// withChain, and to run a closure body from a fresh Interpreter in
// callValue. Errors (including errReturn) propagate to the caller
// rather than being reported here, so that nested invocations are
// reported exactly once, at the outermost DoAction.
func (in *Interpreter) runBlock(data []byte) error {
	cur := newCursor(data)

	for !cur.atEnd() {
		opByte, err := cur.readByte()
		if err != nil {
			return err
		}
		op := Opcode(opByte)

		var body []byte
		if op.HasOperands() {
			length, err := cur.readU16()
			if err != nil {
				return err
			}
			body, err = cur.readBytes(int(length))
			if err != nil {
				return err
			}
		}

		if in.budget != nil {
			if *in.budget <= 0 {
				return class.ErrBudgetExhausted
			}
			*in.budget--
		}

		if err := in.dispatch(cur, op, body); err != nil {
			return err
		}
	}
	return nil
}

var errReturn = fmt.Errorf("avm1: return")

func (in *Interpreter) fail(err error) error {
	in.ctx.reportError(err)
	return err
}

func (in *Interpreter) push(v value.Value) { in.stack = append(in.stack, v) }

func (in *Interpreter) pop() (value.Value, error) {
	if len(in.stack) == 0 {
		return value.Undefined, ErrStackUnderflow
	}
	v := in.stack[len(in.stack)-1]
	in.stack = in.stack[:len(in.stack)-1]
	return v, nil
}

func (in *Interpreter) popN(n int) ([]value.Value, error) {
	if len(in.stack) < n {
		return nil, ErrStackUnderflow
	}
	out := make([]value.Value, n)
	copy(out, in.stack[len(in.stack)-n:])
	in.stack = in.stack[:len(in.stack)-n]
	return out, nil
}

// dispatch executes a single decoded action. body is nil for opcodes
// below 0x80.
func (in *Interpreter) dispatch(cur *cursor, op Opcode, body []byte) error {
	switch op {
	case OpEnd:
		return nil
	case OpReturn:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.returnValue = v
		return errReturn

	case OpPlay:
		if in.ctx.ActiveClip != nil {
			in.ctx.ActiveClip.Play()
		}
		return nil
	case OpStop:
		if in.ctx.ActiveClip != nil {
			in.ctx.ActiveClip.Stop()
		}
		return nil
	case OpStopSounds:
		if in.ctx.Audio != nil {
			in.ctx.Audio.StopAll()
		}
		return nil
	case OpNextFrame, OpPrevFrame:
		return nil // playhead stepping is owned by the pipeline, not modeled here

	case OpPop:
		_, err := in.pop()
		return err

	case OpTrace:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.trace(value.ToStringECMA(v))
		return nil

	case OpConstantPool:
		return in.opConstantPool(body)
	case OpPush:
		return in.opPush(body)
	case OpStoreRegister:
		return in.opStoreRegister(body)

	case OpJump:
		return in.opJump(cur, body)
	case OpIf:
		return in.opIf(cur, body)
	case OpWaitForFrame:
		return in.opWaitForFrame(cur, body)
	case OpWaitForFrame2:
		return in.opWaitForFrame2(cur, body)
	case OpSetTarget:
		return in.opSetTarget(string(trimNul(body)))
	case OpSetTarget2:
		return in.opSetTarget2()
	case OpWith:
		return in.opWith(cur, body)
	case OpDefineFunction2:
		return in.opDefineFunction2(body)

	case OpGetVariable:
		return in.opGetVariable()
	case OpSetVariable:
		return in.opSetVariable()
	case OpGetMember:
		return in.opGetMember()
	case OpSetMember:
		return in.opSetMember()
	case OpDefineLocal:
		return in.opDefineLocal()
	case OpDefineLocal2:
		return in.opDefineLocal2()

	case OpCallFunction:
		return in.opCallFunction()
	case OpCallMethod:
		return in.opCallMethod()

	case OpAdd:
		return in.binaryNumeric(func(a, b float64) float64 { return a + b })
	case OpSubtract:
		return in.binaryNumeric(func(a, b float64) float64 { return a - b })
	case OpMultiply:
		return in.binaryNumeric(func(a, b float64) float64 { return a * b })
	case OpDivide:
		return in.opDivide()
	case OpModulo:
		return in.binaryNumeric(mathMod)
	case OpAdd2:
		return in.opAdd2()
	case OpStringAdd:
		return in.opStringAdd()

	case OpEquals:
		return in.binaryNumericBool(func(a, b float64) bool { return a == b })
	case OpLess:
		return in.binaryNumericBool(func(a, b float64) bool { return a < b })
	case OpGreater:
		return in.binaryNumericBool(func(a, b float64) bool { return a > b })
	case OpEquals2:
		return in.opEquals2()
	case OpLess2:
		return in.opLess2()
	case OpStrictEquals:
		return in.opStrictEquals()
	case OpStringEquals:
		return in.binaryStringBool(func(a, b string) bool { return a == b })
	case OpStringLess:
		return in.binaryStringBool(func(a, b string) bool { return a < b })
	case OpStringGreater:
		return in.binaryStringBool(func(a, b string) bool { return a > b })

	case OpAnd:
		return in.binaryBool(func(a, b bool) bool { return a && b })
	case OpOr:
		return in.binaryBool(func(a, b bool) bool { return a || b })
	case OpNot:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.push(value.Bool(!value.ToBoolean(v)))
		return nil

	case OpBitAnd:
		return in.binaryBits(func(a, b int32) int32 { return a & b })
	case OpBitOr:
		return in.binaryBits(func(a, b int32) int32 { return a | b })
	case OpBitXor:
		return in.binaryBits(func(a, b int32) int32 { return a ^ b })
	case OpBitLShift:
		return in.opShift(func(a int32, n uint32) int32 { return a << n })
	case OpBitRShift:
		return in.opShift(func(a int32, n uint32) int32 { return a >> n })
	case OpBitURShift:
		return in.opShiftUnsigned()

	case OpStringLength, OpMBStringLength:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.push(value.Int(int32(len([]rune(value.ToStringECMA(v))))))
		return nil
	case OpStringExtract, OpMBStringExtract:
		return in.opStringExtract()
	case OpToInteger:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.push(value.Double(value.ToInteger(v)))
		return nil
	case OpToNumber:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.push(value.Double(in.toNumber(v)))
		return nil
	case OpToString:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.push(value.String(value.ToStringECMA(v)))
		return nil
	case OpTypeOf:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.push(value.String(typeOf(v)))
		return nil

	case OpPushDuplicate:
		if len(in.stack) == 0 {
			return ErrStackUnderflow
		}
		in.push(in.stack[len(in.stack)-1])
		return nil
	case OpStackSwap:
		if len(in.stack) < 2 {
			return ErrStackUnderflow
		}
		n := len(in.stack)
		in.stack[n-1], in.stack[n-2] = in.stack[n-2], in.stack[n-1]
		return nil

	case OpIncrement:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.push(value.Double(in.toNumber(v) + 1))
		return nil
	case OpDecrement:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.push(value.Double(in.toNumber(v) - 1))
		return nil

	case OpRandomNumber:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.push(value.Int(randomBelow(int32(value.ToInteger(v)))))
		return nil
	case OpGetTime:
		if in.ctx.Clock != nil {
			in.push(value.Double(in.ctx.Clock()))
		} else {
			in.push(value.Double(0))
		}
		return nil

	case OpCall, OpNewObject, OpInitArray, OpDefineFunction, OpDelete, OpDelete2:
		return ErrUnsupported

	default:
		return ErrUnknownOpcode
	}
}

func (in *Interpreter) trace(s string) {
	_ = s // trace output is discarded; no hook in this package receives it
}

func trimNul(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}

func typeOf(v value.Value) string {
	switch v.Kind() {
	case value.KindUndefined:
		return "undefined"
	case value.KindBoolean:
		return "boolean"
	case value.KindString:
		return "string"
	case value.KindObject:
		return "object"
	default:
		return "number"
	}
}

func mathMod(a, b float64) float64 {
	if b == 0 {
		return nanValue()
	}
	m := a - b*float64(int64(a/b))
	return m
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}

// randomBelow returns a value in [0, n), matching ActionScript's
// random(n) builtin.
func randomBelow(n int32) int32 {
	if n <= 0 {
		return 0
	}
	return rand.Int31n(n)
}
