package avm2

import (
	"github.com/cindervm/cinder/internal/class"
	"github.com/cindervm/cinder/internal/value"
)

// ArrayState is the sub-state an Array instance carries. Array storage
// itself lives in class.Object.Slots (the shared indexed-slot array
// every object may have); ArrayState only tags the object as an Array
// so native methods and the `is Array` check have something to find,
// mirroring how avm2::globals::array.rs distinguishes a plain object
// from one backed by Vec<Value>.
type ArrayState struct{}

// CinderSubState satisfies class.SubState.
func (ArrayState) CinderSubState() {}

// NewArrayClass builds the built-in Array class: a dynamic class (array
// literals may carry ad hoc named properties alongside indexed storage)
// whose instance v-table exposes length, push, pop, and join as native
// traits, grounded on the method surface of avm2/globals/array.rs's
// trait registrations.
func NewArrayClass(m *Machine) *class.Class {
	cls := &class.Class{Name: class.NewQName("Array")}
	cls.Allocator = func(c *class.Class) *class.Object {
		obj := class.NewObject(c)
		obj.Sub = ArrayState{}
		return obj
	}

	pushHandle := m.Register(Callable{Native: nativeArrayPush})
	popHandle := m.Register(Callable{Native: nativeArrayPop})
	joinHandle := m.Register(Callable{Native: nativeArrayJoin})
	lengthGetter := m.Register(Callable{Native: nativeArrayLength})

	cls.OwnTraits = []class.Trait{
		{Name: class.NewQName("push"), Kind: class.PropMethod, Method: pushHandle},
		{Name: class.NewQName("pop"), Kind: class.PropMethod, Method: popHandle},
		{Name: class.NewQName("join"), Kind: class.PropMethod, Method: joinHandle},
		{Name: class.NewQName("length"), Kind: class.PropVirtual, Getter: getterPtr(lengthGetter)},
	}
	class.FinalizeClass(m.Arena, cls, nil, nil)
	return cls
}

func getterPtr(h class.MethodHandle) *class.MethodHandle { return &h }

func nativeArrayLength(call *Call) (value.Value, error) {
	obj, ok := objectReceiver(call)
	if !ok {
		return value.Int(0), nil
	}
	return value.Int(int32(len(obj.Slots))), nil
}

func nativeArrayPush(call *Call) (value.Value, error) {
	obj, ok := objectReceiver(call)
	if !ok {
		return value.Undefined, ErrNotCallable
	}
	obj.Slots = append(obj.Slots, call.Args...)
	return value.Int(int32(len(obj.Slots))), nil
}

func nativeArrayPop(call *Call) (value.Value, error) {
	obj, ok := objectReceiver(call)
	if !ok || len(obj.Slots) == 0 {
		return value.Undefined, nil
	}
	last := obj.Slots[len(obj.Slots)-1]
	obj.Slots = obj.Slots[:len(obj.Slots)-1]
	return last, nil
}

func nativeArrayJoin(call *Call) (value.Value, error) {
	obj, ok := objectReceiver(call)
	if !ok {
		return value.String(""), nil
	}
	sep := ","
	if len(call.Args) > 0 {
		sep = value.ToStringECMA(call.Args[0])
	}
	out := ""
	for i, v := range obj.Slots {
		if i > 0 {
			out += sep
		}
		out += value.ToStringECMA(v)
	}
	return value.String(out), nil
}

// objectReceiver type-asserts the native call's receiver back to its
// heap object. Native methods have no Activation/Arena of their own to
// resolve a value.Value through, so the receiver must be handed to them
// pre-resolved; Machine.Invoke does this by stashing the resolved
// object on Call before dispatch for native handles.
func objectReceiver(call *Call) (*class.Object, bool) {
	obj, ok := call.Receiver.(*class.Object)
	return obj, ok
}
