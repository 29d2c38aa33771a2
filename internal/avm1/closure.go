package avm1

import (
	"github.com/cindervm/cinder/internal/class"
	"github.com/cindervm/cinder/internal/value"
)

// ClosureParam names one formal parameter of a DefineFunction2 closure
// and, when non-zero, the fixed register it preloads into rather than
// a named local.
type ClosureParam struct {
	Name     string
	Register byte
}

// PreloadFlags mirrors DefineFunction2's preload bitfield: which of
// this/arguments/super/root/parent/global get bound into a register
// automatically, and whether "arguments" and "this" are suppressed
// entirely.
type PreloadFlags struct {
	PreloadThis      bool
	SuppressThis     bool
	PreloadArguments bool
	SuppressArgs     bool
	PreloadSuper     bool
	SuppressSuper    bool
	PreloadRoot      bool
	PreloadParent    bool
	PreloadGlobal    bool
}

// ClosureState is the typed sub-state a DefineFunction/DefineFunction2
// object carries: its body bytes and the calling convention needed to
// bind arguments into locals or registers.
type ClosureState struct {
	Name          string
	Params        []ClosureParam
	Body          []byte
	RegisterCount byte
	Preload       PreloadFlags
}

// CinderSubState satisfies class.SubState.
func (*ClosureState) CinderSubState() {}

// callValue invokes fn (an object whose Sub is a *ClosureState) with
// the given this-value and arguments, returning whatever the body
// returns via Return (or Undefined if it falls off the end).
func (in *Interpreter) callValue(fn value.Value, this value.Value, args []value.Value) (value.Value, error) {
	if fn.Kind() != value.KindObject {
		return value.Undefined, ErrUnsupported
	}
	obj, ok := in.arena.MustGet(fn.ObjectRef()).(*class.Object)
	if !ok {
		return value.Undefined, ErrUnsupported
	}
	closure, ok := obj.Sub.(*ClosureState)
	if !ok {
		return value.Undefined, ErrUnsupported
	}

	callee := NewInterpreter(in.ctx, in.arena, in.tok, in.mode)
	callee.SetBudget(in.budget)
	callee.locals = class.NewObject(obj.Class)

	for i, p := range closure.Params {
		var v value.Value
		if i < len(args) {
			v = args[i]
		}
		if p.Register != 0 {
			_ = callee.setRegister(p.Register, v)
		} else {
			callee.locals.SetOwn(class.NewQName(p.Name), class.Property{Value: v})
		}
	}
	if closure.Preload.PreloadThis && !closure.Preload.SuppressThis {
		_ = callee.setRegister(1, this)
	}

	err := callee.runBlock(closure.Body)
	if err != nil && err != errReturn {
		return value.Undefined, err
	}
	return callee.returnValue, nil
}
