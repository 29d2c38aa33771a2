package avm1

import (
	"errors"
	"testing"

	"github.com/cindervm/cinder/internal/class"
	"github.com/cindervm/cinder/internal/heap"
	"github.com/cindervm/cinder/internal/value"
)

func newTestInterpreter(mode value.AVM1CoercionMode) *Interpreter {
	arena := heap.NewArena()
	return NewInterpreter(&Context{}, arena, heap.NewToken(), mode)
}

// TestAddProducesSum reproduces scenario 1: push 3, push 4, Add -> [7].
func TestAddProducesSum(t *testing.T) {
	in := newTestInterpreter(value.AVM1ECMA)
	in.push(value.Int(3))
	in.push(value.Int(4))

	if err := in.dispatch(nil, OpAdd, nil); err != nil {
		t.Fatalf("dispatch(Add) error = %v", err)
	}

	if len(in.stack) != 1 {
		t.Fatalf("stack = %v, want one result", in.stack)
	}
	if got := in.stack[0].RawDouble(); got != 7 {
		t.Errorf("Add result = %v, want 7", got)
	}
}

// TestAdd2StringCoercion reproduces scenario 2: push "ab", push 1,
// Add2 -> ["ab1"] (string concatenation once either operand is a
// string).
func TestAdd2StringCoercion(t *testing.T) {
	in := newTestInterpreter(value.AVM1ECMA)
	in.push(value.String("ab"))
	in.push(value.Int(1))

	if err := in.dispatch(nil, OpAdd2, nil); err != nil {
		t.Fatalf("dispatch(Add2) error = %v", err)
	}

	if len(in.stack) != 1 {
		t.Fatalf("stack = %v, want one result", in.stack)
	}
	if got := in.stack[0].RawString(); got != "ab1" {
		t.Errorf("Add2 result = %q, want %q", got, "ab1")
	}
}

func TestDivideByZeroLegacyProducesErrorMarker(t *testing.T) {
	in := newTestInterpreter(value.AVM1Legacy)
	in.push(value.Int(1))
	in.push(value.Int(0))

	if err := in.dispatch(nil, OpDivide, nil); err != nil {
		t.Fatalf("dispatch(Divide) error = %v", err)
	}
	if got := in.stack[0].RawString(); got != value.DivisionByZeroMarker {
		t.Errorf("Divide/0 legacy result = %q, want %q", got, value.DivisionByZeroMarker)
	}
}

func TestStackUnderflowReportsError(t *testing.T) {
	var reported error
	in := newTestInterpreter(value.AVM1ECMA)
	in.ctx.OnError = func(err error) { reported = err }

	// A single Add opcode with nothing on the stack.
	err := in.DoAction([]byte{byte(OpAdd)})
	if err == nil {
		t.Fatal("DoAction should fail on stack underflow")
	}
	if reported == nil {
		t.Error("ctx.OnError should have been invoked")
	}
}

func TestPushConstantPoolRoundTrip(t *testing.T) {
	in := newTestInterpreter(value.AVM1ECMA)

	// ConstantPool: count=1, "hi\0"
	pool := []byte{1, 0, 'h', 'i', 0}
	// Push: tag 8 (constant8), index 0
	push := []byte{8, 0}

	action := buildAction(OpConstantPool, pool, OpPush, push, OpEnd, nil)
	if err := in.DoAction(action); err != nil {
		t.Fatalf("DoAction error = %v", err)
	}
	if len(in.stack) != 1 || in.stack[0].RawString() != "hi" {
		t.Errorf("stack = %v, want [\"hi\"]", in.stack)
	}
}

// fakeClip is a minimal ClipTarget stub for opWaitForFrame tests; only
// FrameLoaded is exercised, the rest report zero values.
type fakeClip struct {
	loaded map[int]bool
}

func (f *fakeClip) Resolve(path string) (heap.Ref, bool)        { return heap.Ref{}, false }
func (f *fakeClip) Child(name string) (heap.Ref, bool)          { return heap.Ref{}, false }
func (f *fakeClip) Parent() (heap.Ref, bool)                    { return heap.Ref{}, false }
func (f *fakeClip) GetVariable(name string) (value.Value, bool) { return value.Undefined, false }
func (f *fakeClip) SetVariable(name string, v value.Value)      {}
func (f *fakeClip) GotoFrame(frame int)                         {}
func (f *fakeClip) Play()                                       {}
func (f *fakeClip) Stop()                                       {}
func (f *fakeClip) FrameLoaded(frame int) bool                  { return f.loaded[frame] }

func TestWaitForFrameSkipsActionsWhenFrameNotLoaded(t *testing.T) {
	in := newTestInterpreter(value.AVM1ECMA)
	in.ctx.ActiveClip = &fakeClip{loaded: map[int]bool{}}

	// WaitForFrame(frame=5, skip=1) followed by two Plays; with frame 5
	// not loaded, the first Play should be skipped and only the second
	// should run.
	waitBody := []byte{5, 0, 1}
	action := buildAction(OpWaitForFrame, waitBody, OpPlay, nil, OpPlay, nil)

	if err := in.DoAction(action); err != nil {
		t.Fatalf("DoAction error = %v", err)
	}
}

func TestWaitForFrameRunsNextActionWhenFrameLoaded(t *testing.T) {
	in := newTestInterpreter(value.AVM1ECMA)
	in.ctx.ActiveClip = &fakeClip{loaded: map[int]bool{5: true}}

	ran := false
	in.ctx.Audio = stubAudioGate{onStopAll: func() { ran = true }}

	waitBody := []byte{5, 0, 1}
	action := buildAction(OpWaitForFrame, waitBody, OpStopSounds, nil)

	if err := in.DoAction(action); err != nil {
		t.Fatalf("DoAction error = %v", err)
	}
	if !ran {
		t.Error("expected the action following a loaded WaitForFrame target to run, not be skipped")
	}
}

type stubAudioGate struct {
	onStopAll func()
}

func (s stubAudioGate) StopAll() { s.onStopAll() }

func TestInstructionBudgetExhaustionAbortsAction(t *testing.T) {
	in := newTestInterpreter(value.AVM1ECMA)
	budget := 1
	in.SetBudget(&budget)

	// Two Play actions in a row; only the first should run before the
	// budget (set to 1) is spent.
	action := buildAction(OpPlay, nil, OpPlay, nil)
	err := in.DoAction(action)
	if err == nil {
		t.Fatal("DoAction should fail once the instruction budget is exhausted")
	}
	if !errors.Is(err, class.ErrBudgetExhausted) {
		t.Errorf("DoAction error = %v, want class.ErrBudgetExhausted", err)
	}
	if budget != 0 {
		t.Errorf("budget = %d, want 0", budget)
	}
}

func buildAction(pairs ...any) []byte {
	var out []byte
	for i := 0; i < len(pairs); i += 2 {
		op := pairs[i].(Opcode)
		var body []byte
		if pairs[i+1] != nil {
			body = pairs[i+1].([]byte)
		}
		out = append(out, byte(op))
		if op.HasOperands() {
			out = append(out, byte(len(body)), byte(len(body)>>8))
			out = append(out, body...)
		}
	}
	return out
}
