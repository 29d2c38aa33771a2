package class

import (
	"fmt"

	"github.com/cindervm/cinder/internal/heap"
)

// Resolution is the result of resolving a name against an object: either
// a v-table trait (dispatched by disposition index, no further lookup
// needed) or an own/prototype-chain data property.
type Resolution struct {
	// FromVTable is true when Trait is populated (method/virtual/slot
	// trait on a sealed or dynamic class).
	FromVTable bool
	Trait      Trait
	Index      int

	// FromOwnOrProto is true when Prop/Owner is populated (an own
	// property or one found by walking the prototype chain of a
	// dynamic class).
	FromOwnOrProto bool
	Prop           Property
	Owner          *Object
}

// Lookup resolves name against obj in resolution order: the object's class
// v-table first (exact qualified-name match), then the object's own
// property map, then — only if obj's class is dynamic — the prototype
// chain. A sealed class whose v-table and own map both miss fails with
// ErrReference.
func Lookup(arena *heap.Arena, obj *Object, name QName) (Resolution, error) {
	if obj.Class != nil && obj.Class.vtable != nil {
		if idx, ok := obj.Class.vtable.Resolve(name); ok {
			return Resolution{FromVTable: true, Trait: obj.Class.vtable.entries[idx], Index: idx}, nil
		}
	}

	if prop, ok := obj.GetOwn(name); ok {
		return Resolution{FromOwnOrProto: true, Prop: prop, Owner: obj}, nil
	}

	if obj.Class != nil && obj.Class.IsSealed() {
		return Resolution{}, fmt.Errorf("property %q not found on sealed class %q: %w", name.Local, obj.Class.Name.Local, ErrReference)
	}

	// Dynamic class: fall through the prototype chain.
	cur := obj.Proto
	for !cur.IsZero() {
		protoVal, ok := arena.Get(cur)
		if !ok {
			break
		}
		protoObj, ok := protoVal.(*Object)
		if !ok {
			break
		}
		if prop, ok := protoObj.GetOwn(name); ok {
			return Resolution{FromOwnOrProto: true, Prop: prop, Owner: protoObj}, nil
		}
		cur = protoObj.Proto
	}

	return Resolution{}, fmt.Errorf("property %q not found: %w", name.Local, ErrReference)
}

// ResolveInNamespaces is Lookup generalized over a namespace set
//.
func ResolveInNamespaces(arena *heap.Arena, obj *Object, local string, ns []Namespace) (Resolution, error) {
	if obj.Class != nil && obj.Class.vtable != nil {
		if idx, ok := obj.Class.vtable.ResolveInNamespaces(local, ns); ok {
			return Resolution{FromVTable: true, Trait: obj.Class.vtable.entries[idx], Index: idx}, nil
		}
	}
	for _, n := range ns {
		if res, err := Lookup(arena, obj, QName{NS: n, Local: local}); err == nil {
			return res, nil
		}
	}
	return Lookup(arena, obj, NewQName(local))
}
