package avm2

import (
	"time"

	"github.com/cindervm/cinder/internal/class"
	"github.com/cindervm/cinder/internal/value"
)

// DateState is a Date instance's sub-state: milliseconds since the
// Unix epoch, stored as a float64 the way avm2::globals::date.rs keeps
// its DateObject's backing value (an ECMA "time value" can itself be
// NaN for an invalid date, hence the float rather than an int64).
type DateState struct {
	Millis float64
}

// CinderSubState satisfies class.SubState.
func (*DateState) CinderSubState() {}

// NewDateClass builds the built-in Date class: getTime/setTime plus a
// getFullYear-style accessor, grounded on the trait surface
// avm2::globals::date.rs registers for its native methods.
func NewDateClass(m *Machine) *class.Class {
	cls := &class.Class{Name: class.NewQName("Date")}
	cls.Allocator = func(c *class.Class) *class.Object {
		obj := class.NewObject(c)
		obj.Sub = &DateState{Millis: float64(time.Now().UnixMilli())}
		return obj
	}

	getTime := m.Register(Callable{Native: nativeDateGetTime})
	setTime := m.Register(Callable{Native: nativeDateSetTime})
	getFullYear := m.Register(Callable{Native: nativeDateGetFullYear})

	cls.OwnTraits = []class.Trait{
		{Name: class.NewQName("getTime"), Kind: class.PropMethod, Method: getTime},
		{Name: class.NewQName("setTime"), Kind: class.PropMethod, Method: setTime},
		{Name: class.NewQName("getFullYear"), Kind: class.PropMethod, Method: getFullYear},
	}
	class.FinalizeClass(m.Arena, cls, nil, nil)
	return cls
}

func dateReceiver(call *Call) (*DateState, bool) {
	obj, ok := call.Receiver.(*class.Object)
	if !ok {
		return nil, false
	}
	d, ok := obj.Sub.(*DateState)
	return d, ok
}

func nativeDateGetTime(call *Call) (value.Value, error) {
	d, ok := dateReceiver(call)
	if !ok {
		return value.Double(0), nil
	}
	return value.Double(d.Millis), nil
}

func nativeDateSetTime(call *Call) (value.Value, error) {
	d, ok := dateReceiver(call)
	if !ok || len(call.Args) == 0 {
		return value.Double(0), nil
	}
	d.Millis = value.ToNumberECMA(call.Args[0])
	return value.Double(d.Millis), nil
}

func nativeDateGetFullYear(call *Call) (value.Value, error) {
	d, ok := dateReceiver(call)
	if !ok {
		return value.Double(0), nil
	}
	t := time.UnixMilli(int64(d.Millis)).UTC()
	return value.Int(int32(t.Year())), nil
}
