package avm1

import (
	"github.com/cindervm/cinder/internal/class"
	"github.com/cindervm/cinder/internal/value"
)

// opJump implements the unconditional branch: body is a single
// little-endian s16 offset relative to the position immediately after
// this action's operand block.
func (in *Interpreter) opJump(cur *cursor, body []byte) error {
	offset, err := readOffset(body)
	if err != nil {
		return err
	}
	cur.jump(offset)
	return nil
}

// opIf pops a condition and, if truthy, performs the same branch Jump
// does.
func (in *Interpreter) opIf(cur *cursor, body []byte) error {
	cond, err := in.pop()
	if err != nil {
		return err
	}
	offset, err := readOffset(body)
	if err != nil {
		return err
	}
	if value.ToBoolean(cond) {
		cur.jump(offset)
	}
	return nil
}

func readOffset(body []byte) (int16, error) {
	c := newCursor(body)
	return c.readS16()
}

// opSetTarget retargets ActiveClip to the clip addressed by path,
// resolved from StartClip, or from Root when StartClip is nil (an
// empty path retargets to StartClip, matching
// SetTarget's documented "" == "return to the original target"
// behavior).
func (in *Interpreter) opSetTarget(path string) error {
	if path == "" {
		in.ctx.ActiveClip = in.ctx.StartClip
		return nil
	}
	target, ok := in.resolveClip(path)
	if !ok {
		return ErrUnsupported
	}
	in.ctx.ActiveClip = target
	return nil
}

// opSetTarget2 pops a path string and retargets the same way SetTarget
// does with a literal path.
func (in *Interpreter) opSetTarget2() error {
	v, err := in.pop()
	if err != nil {
		return err
	}
	return in.opSetTarget(value.ToStringECMA(v))
}

// opWaitForFrame implements WaitForFrame: body is a u16 frame number
// followed by a u8 count of subsequent actions to skip if that frame of
// the active clip's own timeline isn't loaded yet.
func (in *Interpreter) opWaitForFrame(cur *cursor, body []byte) error {
	c := newCursor(body)
	frame, err := c.readU16()
	if err != nil {
		return err
	}
	skip, err := c.readByte()
	if err != nil {
		return err
	}
	return in.waitForFrame(cur, int(frame), int(skip))
}

// opWaitForFrame2 implements WaitForFrame2: the frame number is popped
// off the stack instead of carried as an operand; body is just the u8
// skip count.
func (in *Interpreter) opWaitForFrame2(cur *cursor, body []byte) error {
	v, err := in.pop()
	if err != nil {
		return err
	}
	c := newCursor(body)
	skip, err := c.readByte()
	if err != nil {
		return err
	}
	return in.waitForFrame(cur, int(value.ToInteger(v)), int(skip))
}

func (in *Interpreter) waitForFrame(cur *cursor, frame, skip int) error {
	clip := in.ctx.ActiveClip
	if clip != nil && clip.FrameLoaded(frame) {
		return nil
	}
	return cur.skipActions(skip)
}

func (in *Interpreter) resolveClip(path string) (ClipTarget, bool) {
	base := in.ctx.StartClip
	if base == nil {
		base = in.ctx.Root
	}
	if base == nil {
		return nil, false
	}
	ref, ok := base.Resolve(path)
	if !ok {
		return nil, false
	}
	obj, ok := in.arena.Get(ref)
	if !ok {
		return nil, false
	}
	target, ok := obj.(ClipTarget)
	return target, ok
}

// lookupVariable resolves name against the with-chain (innermost
// first), then the current call frame's locals, then the active
// clip's own timeline variables, then the shared globals object.
func (in *Interpreter) lookupVariable(name string) (value.Value, bool) {
	qn := class.NewQName(name)
	for i := len(in.withChain) - 1; i >= 0; i-- {
		if p, ok := in.withChain[i].GetOwn(qn); ok {
			return p.Value, true
		}
	}
	if in.locals != nil {
		if p, ok := in.locals.GetOwn(qn); ok {
			return p.Value, true
		}
	}
	if in.ctx.ActiveClip != nil {
		if v, ok := in.ctx.ActiveClip.GetVariable(name); ok {
			return v, true
		}
	}
	if globals, ok := in.globalsObject(); ok {
		if p, ok := globals.GetOwn(qn); ok {
			return p.Value, true
		}
	}
	return value.Undefined, false
}

func (in *Interpreter) globalsObject() (*class.Object, bool) {
	if in.ctx.Globals.IsZero() {
		return nil, false
	}
	raw, ok := in.arena.Get(in.ctx.Globals)
	if !ok {
		return nil, false
	}
	obj, ok := raw.(*class.Object)
	return obj, ok
}

// setVariable writes name into the innermost scope that should own it:
// the topmost with-scope if any, else the current locals if inside a
// function call, else the active clip's timeline variables.
func (in *Interpreter) setVariable(name string, v value.Value) {
	qn := class.NewQName(name)
	if len(in.withChain) > 0 {
		in.withChain[len(in.withChain)-1].SetOwn(qn, class.Property{Value: v})
		return
	}
	if in.locals != nil {
		in.locals.SetOwn(qn, class.Property{Value: v})
		return
	}
	if in.ctx.ActiveClip != nil {
		in.ctx.ActiveClip.SetVariable(name, v)
	}
}

func (in *Interpreter) opGetVariable() error {
	nameV, err := in.pop()
	if err != nil {
		return err
	}
	v, _ := in.lookupVariable(value.ToStringECMA(nameV))
	in.push(v)
	return nil
}

func (in *Interpreter) opSetVariable() error {
	v, err := in.pop()
	if err != nil {
		return err
	}
	nameV, err := in.pop()
	if err != nil {
		return err
	}
	in.setVariable(value.ToStringECMA(nameV), v)
	return nil
}

// opGetMember pops an object and a member name and pushes the resolved
// property.
func (in *Interpreter) opGetMember() error {
	nameV, err := in.pop()
	if err != nil {
		return err
	}
	objV, err := in.pop()
	if err != nil {
		return err
	}
	obj, ok := in.objectOf(objV)
	if !ok {
		in.push(value.Undefined)
		return nil
	}
	res, err := class.Lookup(in.arena, obj, class.NewQName(value.ToStringECMA(nameV)))
	if err != nil {
		in.push(value.Undefined)
		return nil
	}
	if res.FromOwnOrProto {
		in.push(res.Prop.Value)
	} else {
		in.push(res.Trait.SlotValue.Value)
	}
	return nil
}

func (in *Interpreter) opSetMember() error {
	v, err := in.pop()
	if err != nil {
		return err
	}
	nameV, err := in.pop()
	if err != nil {
		return err
	}
	objV, err := in.pop()
	if err != nil {
		return err
	}
	obj, ok := in.objectOf(objV)
	if !ok {
		return nil
	}
	obj.SetOwn(class.NewQName(value.ToStringECMA(nameV)), class.Property{Value: v})
	return nil
}

func (in *Interpreter) objectOf(v value.Value) (*class.Object, bool) {
	if v.Kind() != value.KindObject {
		return nil, false
	}
	raw, ok := in.arena.Get(v.ObjectRef())
	if !ok {
		return nil, false
	}
	obj, ok := raw.(*class.Object)
	return obj, ok
}

func (in *Interpreter) opDefineLocal() error {
	v, err := in.pop()
	if err != nil {
		return err
	}
	nameV, err := in.pop()
	if err != nil {
		return err
	}
	in.setVariable(value.ToStringECMA(nameV), v)
	return nil
}

func (in *Interpreter) opDefineLocal2() error {
	nameV, err := in.pop()
	if err != nil {
		return err
	}
	in.setVariable(value.ToStringECMA(nameV), value.Undefined)
	return nil
}

func (in *Interpreter) opCallFunction() error {
	nameV, err := in.pop()
	if err != nil {
		return err
	}
	numArgsV, err := in.pop()
	if err != nil {
		return err
	}
	args, err := in.popN(int(value.ToInteger(numArgsV)))
	if err != nil {
		return err
	}
	fn, ok := in.lookupVariable(value.ToStringECMA(nameV))
	if !ok {
		in.push(value.Undefined)
		return nil
	}
	result, err := in.callValue(fn, value.Undefined, args)
	if err != nil {
		return err
	}
	in.push(result)
	return nil
}

func (in *Interpreter) opCallMethod() error {
	nameV, err := in.pop()
	if err != nil {
		return err
	}
	objV, err := in.pop()
	if err != nil {
		return err
	}
	numArgsV, err := in.pop()
	if err != nil {
		return err
	}
	args, err := in.popN(int(value.ToInteger(numArgsV)))
	if err != nil {
		return err
	}

	methodName := value.ToStringECMA(nameV)
	obj, ok := in.objectOf(objV)
	if !ok {
		in.push(value.Undefined)
		return nil
	}
	res, err := class.Lookup(in.arena, obj, class.NewQName(methodName))
	if err != nil {
		in.push(value.Undefined)
		return nil
	}
	var fn value.Value
	if res.FromOwnOrProto {
		fn = res.Prop.Value
	} else {
		fn = res.Trait.SlotValue.Value
	}
	result, err := in.callValue(fn, objV, args)
	if err != nil {
		return err
	}
	in.push(result)
	return nil
}

// opWith implements the With opcode: pop the scope object, run the
// following blockSize bytes of the enclosing action stream (as read
// from cur, not body) with that object pushed onto withChain, then pop
// it back off regardless of how the block exited.
func (in *Interpreter) opWith(cur *cursor, body []byte) error {
	blockSize, err := readU16Body(body)
	if err != nil {
		return err
	}
	scopeV, err := in.pop()
	if err != nil {
		return err
	}
	scope, ok := in.objectOf(scopeV)
	if !ok {
		// Still must consume the scoped block even when the scope value
		// isn't an object, so the outer cursor stays aligned.
		if _, err := cur.readBytes(int(blockSize)); err != nil {
			return err
		}
		return nil
	}

	block, err := cur.readBytes(int(blockSize))
	if err != nil {
		return err
	}
	in.withChain = append(in.withChain, scope)
	err = in.runBlock(block)
	in.withChain = in.withChain[:len(in.withChain)-1]
	return err
}

func readU16Body(body []byte) (uint16, error) {
	c := newCursor(body)
	return c.readU16()
}

// opDefineFunction2 decodes a DefineFunction2 action body: a name, a
// parameter/register table, the preload bitfield, a register count,
// and the function's own body length and bytes. It allocates a class
// object carrying a *ClosureState and pushes (or names) it.
func (in *Interpreter) opDefineFunction2(body []byte) error {
	c := newCursor(body)
	name, err := c.readCString()
	if err != nil {
		return err
	}
	numParams, err := c.readU16()
	if err != nil {
		return err
	}
	registerCount, err := c.readByte()
	if err != nil {
		return err
	}
	flagsLo, err := c.readByte()
	if err != nil {
		return err
	}
	flagsHi, err := c.readByte()
	if err != nil {
		return err
	}
	preload := decodePreloadFlags(flagsLo, flagsHi)

	params := make([]ClosureParam, 0, numParams)
	for i := uint16(0); i < numParams; i++ {
		reg, err := c.readByte()
		if err != nil {
			return err
		}
		pname, err := c.readCString()
		if err != nil {
			return err
		}
		params = append(params, ClosureParam{Name: pname, Register: reg})
	}

	codeSize, err := c.readU16()
	if err != nil {
		return err
	}
	fnBody, err := c.readBytes(int(codeSize))
	if err != nil {
		return err
	}

	closure := &ClosureState{
		Name:          name,
		Params:        params,
		Body:          fnBody,
		RegisterCount: registerCount,
		Preload:       preload,
	}
	obj := class.NewObject(nil)
	obj.Sub = closure
	ref := in.arena.Alloc(obj)
	fnVal := value.Object(ref)

	if name != "" {
		in.setVariable(name, fnVal)
	} else {
		in.push(fnVal)
	}
	return nil
}

// decodePreloadFlags follows the SWF7 DefineFunction2 bitfield layout:
// low byte bit0=PreloadThis, bit1=SuppressThis, bit2=PreloadArguments,
// bit3=SuppressArguments, bit4=PreloadSuper, bit5=SuppressSuper,
// bit6=PreloadRoot, bit7=PreloadParent; high byte bit0=PreloadGlobal.
func decodePreloadFlags(lo, hi byte) PreloadFlags {
	return PreloadFlags{
		PreloadThis:      lo&0x01 != 0,
		SuppressThis:     lo&0x02 != 0,
		PreloadArguments: lo&0x04 != 0,
		SuppressArgs:     lo&0x08 != 0,
		PreloadSuper:     lo&0x10 != 0,
		SuppressSuper:    lo&0x20 != 0,
		PreloadRoot:      lo&0x40 != 0,
		PreloadParent:    lo&0x80 != 0,
		PreloadGlobal:    hi&0x01 != 0,
	}
}
