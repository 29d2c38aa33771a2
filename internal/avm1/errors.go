package avm1

import "errors"

// ErrUnsupported is returned for the opcodes this interpreter declines to
// implement (legacy object-construction/function-definition forms
// superseded by DefineFunction2 and the shared class model — Call,
// NewObject, InitArray, DefineFunction, Delete, Delete2). An unsupported
// opcode terminates only the current DoAction pass, it is reported
// through Context.OnError if set, and it never panics.
var ErrUnsupported = errors.New("avm1: unsupported opcode")

// ErrStackUnderflow is a legacy runtime error: popping past the bottom
// of the operand stack. Like ErrUnsupported it terminates the current
// action pass without affecting sibling clips' scripts.
var ErrStackUnderflow = errors.New("avm1: stack underflow")

// ErrUnknownOpcode is raised when the action stream contains a byte the
// dispatch table has no handler for.
var ErrUnknownOpcode = errors.New("avm1: unknown opcode")

// ErrBadRegister is raised when StoreRegister/register-push addresses a
// slot outside the interpreter's fixed register file.
var ErrBadRegister = errors.New("avm1: bad register index")

// ErrRangeConstant is raised when a Push constant8/constant16 operand
// indexes outside the current constant pool.
var ErrRangeConstant = errors.New("avm1: constant pool index out of range")
