package avm2

import (
	"errors"
	"fmt"
)

// Sentinel errors raised by the ABC reader and the interpreter dispatch
// loop. Runtime script errors (TypeError, RangeError, ReferenceError)
// reuse the class package's sentinels so a single errors.Is test works
// across both interpreters.
var (
	ErrUnsupported    = errors.New("avm2: unsupported opcode")
	ErrStackUnderflow = errors.New("avm2: stack underflow")
	ErrNoActiveHandler = errors.New("avm2: no exception handler for thrown value")
	ErrNotCallable    = errors.New("avm2: value is not callable")
)

func errInvalidMultinameKind(kind byte) error {
	return fmt.Errorf("avm2: invalid multiname kind %#x", kind)
}

func errInvalidTraitKind(kind byte) error {
	return fmt.Errorf("avm2: invalid trait kind %#x", kind)
}
