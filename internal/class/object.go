package class

import (
	"github.com/cindervm/cinder/internal/heap"
	"github.com/cindervm/cinder/internal/value"
)

// SubState is implemented by the optional typed payloads an Object may
// carry: function metadata, array storage, date value, class
// descriptor. It is an empty marker interface with an exported marker
// method — concrete sub-state types live in the packages that own that
// domain (avm1 for ClosureState, avm2 for ArrayState/DateState/ClassRef)
// so that class does not import them
// and create a dependency cycle; each owning package defines its own
// CinderSubState() method to satisfy this interface.
type SubState interface {
	CinderSubState()
}

// Object is a graph node in the shared heap: a class reference, a
// prototype-chain link, an ordered property map, an optional indexed
// slot array, and an optional typed sub-state.
type Object struct {
	// Class is the object's class, used for v-table trait dispatch.
	Class *Class

	// Proto is the prototype-chain link consulted for dynamic classes
	// when a property is missing from Class's v-table.
	Proto heap.Ref

	// names preserves property insertion order; index maps a QName to
	// its position in names/props.
	names []QName
	index map[QName]int
	props []Property

	// Slots is the optional indexed array storage (used by Array/Vector
	// objects); nil for objects with no indexed storage.
	Slots []value.Value

	// Sub is the optional typed sub-state payload.
	Sub SubState
}

// NewObject creates an object of the given class with an empty property
// map.
func NewObject(cls *Class) *Object {
	return &Object{Class: cls, index: make(map[QName]int)}
}

// Trace implements heap.Traceable: an object's outgoing strong edges are
// its prototype link and any object-valued properties or slots.
func (o *Object) Trace(visit func(heap.Ref)) {
	visit(o.Proto)
	for _, p := range o.props {
		traceValue(p.Value, visit)
	}
	for _, v := range o.Slots {
		traceValue(v, visit)
	}
}

func traceValue(v value.Value, visit func(heap.Ref)) {
	if v.Kind() == value.KindObject {
		visit(v.ObjectRef())
	}
}

// GetOwn returns the own property named name, without consulting the
// class v-table or the prototype chain.
func (o *Object) GetOwn(name QName) (Property, bool) {
	i, ok := o.index[name]
	if !ok {
		return Property{}, false
	}
	return o.props[i], true
}

// SetOwn inserts or overwrites an own property, preserving insertion
// order for new names. Returns false if the existing property is
// read-only and must not be overwritten (caller raises the appropriate
// error).
func (o *Object) SetOwn(name QName, prop Property) bool {
	if i, ok := o.index[name]; ok {
		if o.props[i].Attr.Has(AttrReadOnly) {
			return false
		}
		o.props[i] = prop
		return true
	}
	o.index[name] = len(o.props)
	o.names = append(o.names, name)
	o.props = append(o.props, prop)
	return true
}

// DeleteOwn removes an own property. Returns false if the property does
// not exist or carries AttrDontDelete.
func (o *Object) DeleteOwn(name QName) bool {
	i, ok := o.index[name]
	if !ok {
		return false
	}
	if o.props[i].Attr.Has(AttrDontDelete) {
		return false
	}
	delete(o.index, name)
	o.names = append(o.names[:i], o.names[i+1:]...)
	o.props = append(o.props[:i], o.props[i+1:]...)
	for n, idx := range o.index {
		if idx > i {
			o.index[n] = idx - 1
		}
	}
	return true
}

// OwnNames returns the object's own property names in insertion order,
// skipping those marked AttrDontEnumerate.
func (o *Object) OwnNames() []QName {
	out := make([]QName, 0, len(o.names))
	for _, n := range o.names {
		if !o.props[o.index[n]].Attr.Has(AttrDontEnumerate) {
			out = append(out, n)
		}
	}
	return out
}
