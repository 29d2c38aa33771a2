package class

import "github.com/cindervm/cinder/internal/heap"

// Flags collects the class-level boolean flags: sealed, final,
// interface, generic.
type Flags uint8

const (
	FlagSealed Flags = 1 << iota
	FlagFinal
	FlagInterface
	FlagGeneric
)

// Has reports whether f is set in flags.
func (flags Flags) Has(f Flags) bool { return flags&f != 0 }

// Trait is one declared member of a class: a qualified name plus its
// property shape (method, virtual getter/setter, data slot, or constant
// slot). Traits are resolved into v-table entries at class finalization;
// DefiningClass and Scope are filled in at that point.
type Trait struct {
	Name   QName
	Kind   PropertyKind
	Attr   PropertyAttr
	Method MethodHandle
	Getter *MethodHandle
	Setter *MethodHandle

	// SlotValue is the initial value for PropData/PropConst traits.
	SlotValue Property

	// DefiningClass is the class that declared this trait (may differ
	// from the class whose v-table holds it, for inherited traits).
	DefiningClass *Class

	// Scope is the lexical scope chain captured for this trait's
	// defining class at the time the trait was *resolved* into a
	// v-table, not at definition time. It is opaque to package class; the owning interpreter
	// (avm1/avm2) type-asserts it back to its own scope-chain type.
	Scope any
}

// Class is the shared class/object-model node.
type Class struct {
	Name       QName
	Super      *Class
	Interfaces []*Class

	// OwnTraits are the traits this class declares, in declaration
	// order; Super's traits are not repeated here.
	OwnTraits []Trait

	InstanceInit MethodHandle
	CallHandler  *MethodHandle

	// ClassInit is the static initializer run once, right after
	// finalization links Proto, when the class object itself is brought
	// to life. Zero means the class has no static initializer (true of
	// every built-in class defined directly in Go).
	ClassInit MethodHandle

	// ClassScope is the lexical scope chain captured when the class
	// object itself was constructed (used to resolve OwnTraits'
	// multinames and to run the class initializer).
	ClassScope any

	// Allocator produces a fresh instance Object for `new`/`construct`.
	// Defaults to NewObject(class) when nil.
	Allocator func(*Class) *Object

	Flags Flags

	// Proto is the linked prototype object, set by LinkPrototype during
	// finalization. Zero until finalized.
	Proto heap.Ref

	// vtable is the resolved instance v-table; built by BuildVTable and
	// immutable afterwards.
	vtable *VTable

	finalized bool

	// Parameterization (apply([T])).
	typeParam    *Class // nil if this class is not itself a type parameter application
	applications map[*Class]*Class
}

// IsSealed reports whether the class forbids prototype fallback on a
// missing property.
func (c *Class) IsSealed() bool { return c.Flags.Has(FlagSealed) }

// IsDynamic is the negation of IsSealed, named for readability at call
// sites that branch on "can this miss fall through to the prototype".
func (c *Class) IsDynamic() bool { return !c.IsSealed() }

// VTable returns the class's resolved instance v-table. Panics if the
// class has not been finalized via BuildVTable — callers only reach
// here after construction completes.
func (c *Class) VTable() *VTable {
	if c.vtable == nil {
		panic("class: VTable() called before BuildVTable")
	}
	return c.vtable
}

// Finalized reports whether BuildVTable has run.
func (c *Class) Finalized() bool { return c.finalized }

// IsInstanceOf reports whether c's class chain contains target, or any
// interface chain of any of c's superclasses contains target.
func (c *Class) IsInstanceOf(target *Class) bool {
	for cur := c; cur != nil; cur = cur.Super {
		if cur == target {
			return true
		}
		for _, iface := range cur.Interfaces {
			if interfaceChainContains(iface, target) {
				return true
			}
		}
	}
	return false
}

func interfaceChainContains(iface, target *Class) bool {
	if iface == target {
		return true
	}
	for _, super := range iface.Interfaces {
		if interfaceChainContains(super, target) {
			return true
		}
	}
	return false
}

// Apply returns the cached derived class parameterized by param (or by
// the canonical Object class if param is nil), creating and caching it
// via makeDerived on first use.
func (c *Class) Apply(param *Class, makeDerived func(base, param *Class) *Class) *Class {
	if c.applications == nil {
		c.applications = make(map[*Class]*Class)
	}
	key := param // nil is a valid map key here
	if derived, ok := c.applications[key]; ok {
		return derived
	}
	derived := makeDerived(c, param)
	derived.typeParam = param
	c.applications[key] = derived
	return derived
}

// TypeParam returns the class this class was parameterized with, or nil
// if it is not a parameterized application (or was applied with a null
// parameter, which also reads as the Object class by convention of the
// caller).
func (c *Class) TypeParam() *Class { return c.typeParam }
