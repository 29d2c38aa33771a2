package avm2

import (
	"testing"

	"github.com/cindervm/cinder/internal/class"
	"github.com/cindervm/cinder/internal/heap"
	"github.com/cindervm/cinder/internal/value"
)

func newTestMachine() *Machine {
	arena := heap.NewArena()
	return NewMachine(arena, heap.NewToken())
}

// TestPushByteAddReturnsSum builds a minimal method body by hand
// (pushbyte 3, pushbyte 4, add, returnvalue) and checks the machine
// executes it the way a compiled `3 + 4` expression would.
func TestPushByteAddReturnsSum(t *testing.T) {
	m := newTestMachine()
	body := &MethodBody{
		Code: []byte{byte(OpPushByte), 3, byte(OpPushByte), 4, byte(OpAdd), byte(OpReturnValue)},
	}
	abc := &AbcFile{Pool: &ConstantPool{}}
	h := m.Register(Callable{Abc: abc, Body: body})

	result, err := m.Invoke(h, value.Undefined, nil)
	if err != nil {
		t.Fatalf("Invoke error = %v", err)
	}
	if got := value.ToNumberECMA(result); got != 7 {
		t.Errorf("result = %v, want 7", got)
	}
}

// TestInstructionBudgetExhaustionAbortsRun sets a budget of 2 against a
// method body that needs three steps (two pushbytes plus a pop) and
// checks the machine stops with ErrBudgetExhausted instead of running
// to completion.
func TestInstructionBudgetExhaustionAbortsRun(t *testing.T) {
	m := newTestMachine()
	budget := 2
	m.Budget = &budget
	body := &MethodBody{
		Code: []byte{byte(OpPushByte), 3, byte(OpPushByte), 4, byte(OpPop), byte(OpReturnVoid)},
	}
	abc := &AbcFile{Pool: &ConstantPool{}}
	h := m.Register(Callable{Abc: abc, Body: body})

	_, err := m.Invoke(h, value.Undefined, nil)
	if err == nil {
		t.Fatal("Invoke should fail once the instruction budget is exhausted")
	}
	if err != class.ErrBudgetExhausted {
		t.Errorf("Invoke error = %v, want class.ErrBudgetExhausted", err)
	}
	if budget != 0 {
		t.Errorf("budget = %d, want 0", budget)
	}
}

// TestAddStringConcat reproduces Add's ECMA string-concat special case:
// pushstring "a", pushstring "b", add -> "ab".
func TestAddStringConcat(t *testing.T) {
	m := newTestMachine()
	pool := &ConstantPool{Strings: []string{"a", "b"}}
	body := &MethodBody{
		Code: []byte{
			byte(OpPushString), 1, // index 1 -> "a"
			byte(OpPushString), 2, // index 2 -> "b"
			byte(OpAdd),
			byte(OpReturnValue),
		},
	}
	abc := &AbcFile{Pool: pool}
	h := m.Register(Callable{Abc: abc, Body: body})

	result, err := m.Invoke(h, value.Undefined, nil)
	if err != nil {
		t.Fatalf("Invoke error = %v", err)
	}
	if got := value.ToStringECMA(result); got != "ab" {
		t.Errorf("result = %q, want %q", got, "ab")
	}
}

// TestThrowCaughtByExceptionTable verifies the handler-search protocol:
// a Throw inside the protected range jumps execution to the handler's
// target offset with the thrown value left on the stack.
func TestThrowCaughtByExceptionTable(t *testing.T) {
	m := newTestMachine()
	// code:
	//   0: pushbyte 9      (offsets 0-1)
	//   2: throw           (offset 2)   <- protected [0,3)
	//   3: pop             (handler target: discard thrown value)
	//   4: pushbyte 42
	//   6: returnvalue
	code := []byte{
		byte(OpPushByte), 9,
		byte(OpThrow),
		byte(OpPop),
		byte(OpPushByte), 42,
		byte(OpReturnValue),
	}
	body := &MethodBody{
		Code: code,
		Exceptions: []Exception{
			{FromOffset: 0, ToOffset: 3, TargetOffset: 3},
		},
	}
	abc := &AbcFile{Pool: &ConstantPool{}}
	h := m.Register(Callable{Abc: abc, Body: body})

	result, err := m.Invoke(h, value.Undefined, nil)
	if err != nil {
		t.Fatalf("Invoke error = %v", err)
	}
	if got := value.ToNumberECMA(result); got != 42 {
		t.Errorf("result = %v, want 42 (handler ran)", got)
	}
}

// TestArrayPushAndLength exercises the native Array class end to end
// through CallProperty-equivalent direct invocation, isolating the
// native method wiring itself from CallProperty bytecode.
func TestArrayPushAndLength(t *testing.T) {
	m := newTestMachine()
	arrCls := NewArrayClass(m)
	arr := arrCls.Allocator(arrCls)
	ref := m.Arena.Alloc(arr)
	arrVal := value.Object(ref)

	pushTrait := arrCls.VTable().At(mustResolve(t, arrCls, "push"))
	if _, err := m.Invoke(pushTrait.Method, arrVal, []value.Value{value.Int(1), value.Int(2)}); err != nil {
		t.Fatalf("push error = %v", err)
	}
	lengthTrait := arrCls.VTable().At(mustResolve(t, arrCls, "length"))
	lenVal, err := m.Invoke(*lengthTrait.Getter, arrVal, nil)
	if err != nil {
		t.Fatalf("length getter error = %v", err)
	}
	if got := value.ToNumberECMA(lenVal); got != 2 {
		t.Errorf("length = %v, want 2", got)
	}
}

func mustResolve(t *testing.T, cls *class.Class, name string) int {
	t.Helper()
	idx, ok := cls.VTable().Resolve(class.NewQName(name))
	if !ok {
		t.Fatalf("trait %q not found", name)
	}
	return idx
}

// TestReadConstantPoolRoundTrip confirms the ABC constant pool reader's
// off-by-one ("len-1 entries") convention against a hand-encoded pool
// with one string constant.
func TestReadConstantPoolRoundTrip(t *testing.T) {
	var data []byte
	u30 := func(n byte) []byte { return []byte{n} }
	data = append(data, u30(1)...) // ints: len=1 -> 0 entries
	data = append(data, u30(1)...) // uints: len=1 -> 0 entries
	data = append(data, u30(1)...) // doubles: len=1 -> 0 entries
	data = append(data, u30(2)...) // strings: len=2 -> 1 entry
	data = append(data, u30(5)...) // string length 5
	data = append(data, []byte("hello")...)
	data = append(data, u30(1)...) // namespaces: len=1 -> 0
	data = append(data, u30(1)...) // namespace_sets: len=1 -> 0
	data = append(data, u30(1)...) // multinames: len=1 -> 0

	r := newReader(data)
	pool, err := r.readConstantPool()
	if err != nil {
		t.Fatalf("readConstantPool error = %v", err)
	}
	if len(pool.Strings) != 1 || pool.Strings[0] != "hello" {
		t.Errorf("Strings = %v, want [\"hello\"]", pool.Strings)
	}
	if pool.String(Index(1)) != "hello" {
		t.Errorf("String(1) = %q, want %q", pool.String(Index(1)), "hello")
	}
}
