package avm2

import (
	"github.com/cindervm/cinder/internal/class"
	"github.com/cindervm/cinder/internal/value"
)

// resolvedName is a multiname after its run-time name/namespace
// operands (if any) have been popped off the stack.
type resolvedName struct {
	qname  class.QName
	nsSet  []class.Namespace
	single bool // true when qname is an exact QName; false means search nsSet.
}

// readMultinameOperand reads the multiname index operand of a
// property-access instruction and, if the multiname is late-bound,
// pops the run-time name and/or namespace operands the instruction
// pushed them as (: RTQName* pop just a namespace, *L pop just
// a name, and the plain L forms are already covered by that same pop
// since Kind carries no compile-time name either).
func (a *Activation) readMultinameOperand() (resolvedName, error) {
	idx, err := a.code.readIndex()
	if err != nil {
		return resolvedName{}, err
	}
	mn := a.pool.Multiname(idx)

	var nsOverride *class.Namespace
	if mn.IsRuntimeNamespace() {
		v, err := a.pop()
		if err != nil {
			return resolvedName{}, err
		}
		ns := namespaceFromValue(a, v)
		nsOverride = &ns
	}
	var nameOverride *string
	if mn.IsRuntimeName() {
		v, err := a.pop()
		if err != nil {
			return resolvedName{}, err
		}
		s := value.ToStringECMA(v)
		nameOverride = &s
	}

	switch mn.Kind {
	case MNQName, MNQNameA:
		local := a.pool.String(mn.Name)
		ns := namespaceOf(a.pool, a.pool.Namespace(mn.NS))
		return resolvedName{qname: class.QName{NS: ns, Local: local}, single: true}, nil
	case MNRTQName, MNRTQNameA:
		local := a.pool.String(mn.Name)
		return resolvedName{qname: class.QName{NS: *nsOverride, Local: local}, single: true}, nil
	case MNRTQNameL, MNRTQNameLA:
		return resolvedName{qname: class.QName{NS: *nsOverride, Local: *nameOverride}, single: true}, nil
	case MNMultiname, MNMultinameA:
		return resolvedName{qname: class.NewQName(a.pool.String(mn.Name)), nsSet: ResolveSet(a.pool, mn)}, nil
	case MNMultinameL, MNMultinameLA:
		return resolvedName{qname: class.NewQName(*nameOverride), nsSet: ResolveSet(a.pool, mn)}, nil
	default:
		return resolvedName{}, errInvalidMultinameKind(byte(mn.Kind))
	}
}

func namespaceFromValue(a *Activation, v value.Value) class.Namespace {
	return class.Namespace{Kind: class.NamespacePublic, URI: value.ToStringECMA(v)}
}

func (a *Activation) resolve(obj *class.Object, rn resolvedName) (class.Resolution, error) {
	if rn.single || len(rn.nsSet) == 0 {
		return class.Lookup(a.m.Arena, obj, rn.qname)
	}
	return class.ResolveInNamespaces(a.m.Arena, obj, rn.qname.Local, rn.nsSet)
}

func (a *Activation) opGetProperty() error {
	rn, err := a.readMultinameOperand()
	if err != nil {
		return err
	}
	objV, err := a.pop()
	if err != nil {
		return err
	}
	obj, ok := a.objectOf(objV)
	if !ok {
		a.push(value.Undefined)
		return nil
	}
	res, err := a.resolve(obj, rn)
	if err != nil {
		a.push(value.Undefined)
		return nil
	}
	a.push(a.valueOf(res, obj))
	return nil
}

func (a *Activation) valueOf(res class.Resolution, this *class.Object) value.Value {
	if res.FromOwnOrProto {
		return res.Prop.Value
	}
	switch res.Trait.Kind {
	case class.PropData, class.PropConst:
		return res.Trait.SlotValue.Value
	case class.PropMethod:
		return value.Undefined // methods are called, not read as values, in this model.
	default:
		return value.Undefined
	}
}

func (a *Activation) opSetProperty() error {
	rn, err := a.readMultinameOperand()
	if err != nil {
		return err
	}
	v, err := a.pop()
	if err != nil {
		return err
	}
	objV, err := a.pop()
	if err != nil {
		return err
	}
	obj, ok := a.objectOf(objV)
	if !ok {
		return nil
	}
	obj.SetOwn(rn.qname, class.Property{Value: v})
	return nil
}

func (a *Activation) opDeleteProperty() error {
	rn, err := a.readMultinameOperand()
	if err != nil {
		return err
	}
	objV, err := a.pop()
	if err != nil {
		return err
	}
	obj, ok := a.objectOf(objV)
	if !ok {
		a.push(value.Bool(true))
		return nil
	}
	a.push(value.Bool(obj.DeleteOwn(rn.qname)))
	return nil
}

// opFindProperty implements FindPropStrict/FindProperty: search the
// scope stack innermost-first, pushing the first scope object that
// owns the name as an own property. On a miss both forms push the
// outermost (global) scope; with an empty scope stack FindPropStrict
// fails with ErrNotCallable and FindProperty pushes Undefined.
func (a *Activation) opFindProperty(strict bool) error {
	rn, err := a.readMultinameOperand()
	if err != nil {
		return err
	}
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if _, ok := a.scopes[i].obj.GetOwn(rn.qname); ok {
			a.push(value.Object(a.scopes[i].ref))
			return nil
		}
	}
	if len(a.scopes) > 0 {
		a.push(value.Object(a.scopes[0].ref))
		return nil
	}
	if strict {
		return ErrNotCallable
	}
	a.push(value.Undefined)
	return nil
}

// opGetLex is FindPropStrict immediately followed by GetProperty of the
// same name, the compiler's shorthand for resolving a lexical reference
//.
func (a *Activation) opGetLex() error {
	idx, err := a.code.readIndex()
	if err != nil {
		return err
	}
	mn := a.pool.Multiname(idx)
	qn := Resolve(a.pool, mn)
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if p, ok := a.scopes[i].obj.GetOwn(qn); ok {
			a.push(p.Value)
			return nil
		}
	}
	a.push(value.Undefined)
	return nil
}

func (a *Activation) callable(res class.Resolution) (class.MethodHandle, bool) {
	if !res.FromVTable {
		return class.MethodHandle{}, false
	}
	switch res.Trait.Kind {
	case class.PropMethod:
		return res.Trait.Method, true
	case class.PropVirtual:
		if res.Trait.Getter != nil {
			return *res.Trait.Getter, true
		}
	}
	return class.MethodHandle{}, false
}

// opCallProperty implements CallProperty/CallPropVoid: resolve a
// multiname against the popped receiver, then invoke it with the
// popped argument list. CallPropVoid
// discards the result instead of pushing it.
func (a *Activation) opCallProperty(void bool) error {
	rn, err := a.readMultinameOperand()
	if err != nil {
		return err
	}
	argc, err := a.code.readU30()
	if err != nil {
		return err
	}
	args, err := a.popN(int(argc))
	if err != nil {
		return err
	}
	recvV, err := a.pop()
	if err != nil {
		return err
	}
	obj, ok := a.objectOf(recvV)
	if !ok {
		if !void {
			a.push(value.Undefined)
		}
		return nil
	}
	res, err := a.resolve(obj, rn)
	if err != nil {
		if !void {
			a.push(value.Undefined)
		}
		return nil
	}
	h, ok := a.callable(res)
	if !ok {
		if !void {
			a.push(value.Undefined)
		}
		return nil
	}
	result, err := a.m.Invoke(h, recvV, args)
	if err != nil {
		return err
	}
	if !void {
		a.push(result)
	}
	return nil
}

// opCall implements the generic Call instruction: function value,
// receiver, then argc arguments, all already on the stack (used for
// calling a value that is not resolved through a property, e.g. a
// closure stored in a local).
func (a *Activation) opCall() error {
	argc, err := a.code.readU30()
	if err != nil {
		return err
	}
	args, err := a.popN(int(argc))
	if err != nil {
		return err
	}
	recvV, err := a.pop()
	if err != nil {
		return err
	}
	fnV, err := a.pop()
	if err != nil {
		return err
	}
	h, ok := a.handleOf(fnV)
	if !ok {
		return ErrNotCallable
	}
	result, err := a.m.Invoke(h, recvV, args)
	if err != nil {
		return err
	}
	a.push(result)
	return nil
}

// handleOf resolves a function value (an object whose class carries a
// CallHandler, the convention for closures and bound methods) to
// its method handle.
func (a *Activation) handleOf(v value.Value) (class.MethodHandle, bool) {
	obj, ok := a.objectOf(v)
	if !ok || obj.Class == nil || obj.Class.CallHandler == nil {
		return class.MethodHandle{}, false
	}
	return *obj.Class.CallHandler, true
}

func (a *Activation) opConstructProp() error {
	rn, err := a.readMultinameOperand()
	if err != nil {
		return err
	}
	argc, err := a.code.readU30()
	if err != nil {
		return err
	}
	args, err := a.popN(int(argc))
	if err != nil {
		return err
	}
	objV, err := a.pop()
	if err != nil {
		return err
	}
	obj, ok := a.objectOf(objV)
	if !ok {
		return ErrNotCallable
	}
	res, err := a.resolve(obj, rn)
	if err != nil {
		return ErrNotCallable
	}
	cls, ok := a.classOf(res, obj)
	if !ok {
		return ErrNotCallable
	}
	inst, err := a.construct(cls, args)
	if err != nil {
		return err
	}
	a.push(inst)
	return nil
}

func (a *Activation) opConstruct() error {
	argc, err := a.code.readU30()
	if err != nil {
		return err
	}
	args, err := a.popN(int(argc))
	if err != nil {
		return err
	}
	ctorV, err := a.pop()
	if err != nil {
		return err
	}
	cls, ok := a.classValueOf(ctorV)
	if !ok {
		return ErrNotCallable
	}
	inst, err := a.construct(cls, args)
	if err != nil {
		return err
	}
	a.push(inst)
	return nil
}

// construct implements `new` over cls: allocate an instance (via
// cls.Allocator or class.NewObject), run the instance initializer, and
// return the resulting object as a value.
func (a *Activation) construct(cls *class.Class, args []value.Value) (value.Value, error) {
	alloc := cls.Allocator
	if alloc == nil {
		alloc = class.NewObject
	}
	obj := alloc(cls)
	obj.Proto = cls.Proto
	ref := a.m.Arena.Alloc(obj)
	instVal := value.Object(ref)
	if cls.InstanceInit.ID > 0 {
		if _, err := a.m.Invoke(cls.InstanceInit, instVal, args); err != nil {
			return value.Undefined, err
		}
	}
	return instVal, nil
}

// classValueOf and classOf bridge a runtime value carrying a class
// reference back to the *class.Class it names; class objects are
// represented as an Object whose Sub is a *ClassRef.
func (a *Activation) classValueOf(v value.Value) (*class.Class, bool) {
	obj, ok := a.objectOf(v)
	if !ok {
		return nil, false
	}
	ref, ok := obj.Sub.(*ClassRef)
	if !ok {
		return nil, false
	}
	return ref.Class, true
}

func (a *Activation) classOf(res class.Resolution, owner *class.Object) (*class.Class, bool) {
	if res.FromOwnOrProto {
		return a.classValueOf(res.Prop.Value)
	}
	if res.Trait.Kind == class.PropData || res.Trait.Kind == class.PropConst {
		return a.classValueOf(res.Trait.SlotValue.Value)
	}
	return nil, false
}

// ClassRef is the sub-state an AVM2 class object (the runtime value a
// script sees when it references a class by name, e.g. for `new X()`)
// carries: a pointer back to the resolved class.Class.
type ClassRef struct {
	Class *class.Class
}

// CinderSubState satisfies class.SubState.
func (*ClassRef) CinderSubState() {}

func (a *Activation) opNewArray() error {
	n, err := a.code.readU30()
	if err != nil {
		return err
	}
	elems, err := a.popN(int(n))
	if err != nil {
		return err
	}
	obj := class.NewObject(nil)
	obj.Slots = elems
	ref := a.m.Arena.Alloc(obj)
	a.push(value.Object(ref))
	return nil
}

// opNewObjectLiteral builds a dynamic object literal from n key/value
// pairs popped off the stack (compiled from `{a: 1, b: 2}` syntax).
func (a *Activation) opNewObjectLiteral() error {
	n, err := a.code.readU30()
	if err != nil {
		return err
	}
	pairs, err := a.popN(int(n) * 2)
	if err != nil {
		return err
	}
	obj := class.NewObject(nil)
	for i := 0; i+1 < len(pairs); i += 2 {
		obj.SetOwn(class.NewQName(value.ToStringECMA(pairs[i])), class.Property{Value: pairs[i+1]})
	}
	ref := a.m.Arena.Alloc(obj)
	a.push(value.Object(ref))
	return nil
}

func (a *Activation) opInstanceOf() error {
	vs, err := a.popN(2)
	if err != nil {
		return err
	}
	obj, ok := a.objectOf(vs[0])
	cls, clsOK := a.classValueOf(vs[1])
	if !ok || !clsOK || obj.Class == nil {
		a.push(value.Bool(false))
		return nil
	}
	a.push(value.Bool(obj.Class.IsInstanceOf(cls)))
	return nil
}

// opTypeTest implements IsType/IsTypeLate (boolean result) and
// AsType/AsTypeLate (the value itself, or null on mismatch) — the four
// type-check instructions share the same class-chain test and differ
// only in how the multiname operand is supplied and what gets pushed.
func (a *Activation) opTypeTest(op Op) error {
	var cls *class.Class
	var ok bool
	if op == OpIsType || op == OpAsType {
		idx, err := a.code.readIndex()
		if err != nil {
			return err
		}
		qn := Resolve(a.pool, a.pool.Multiname(idx))
		for i := len(a.scopes) - 1; i >= 0; i-- {
			if p, hit := a.scopes[i].obj.GetOwn(qn); hit {
				cls, ok = a.classValueOf(p.Value)
				break
			}
		}
	} else {
		t, err := a.pop()
		if err != nil {
			return err
		}
		cls, ok = a.classValueOf(t)
	}
	v, err := a.pop()
	if err != nil {
		return err
	}
	obj, objOK := a.objectOf(v)
	matches := objOK && ok && obj.Class != nil && obj.Class.IsInstanceOf(cls)
	switch op {
	case OpIsType, OpIsTypeLate:
		a.push(value.Bool(matches))
	default:
		if matches {
			a.push(v)
		} else {
			a.push(value.Null)
		}
	}
	return nil
}
