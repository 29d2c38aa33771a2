package class

import "github.com/cindervm/cinder/internal/heap"

// VTable is the ordered, resolved trait table a class finalizes to; each
// entry carries its defining class, captured scope, and method/slot
// handle. A multiname resolves to a disposition index into this array;
// dispatch is then an index lookup, never a name lookup.
type VTable struct {
	entries []Trait
	index   map[QName]int
}

// Len returns the number of resolved trait entries.
func (vt *VTable) Len() int { return len(vt.entries) }

// At returns the trait entry at disposition index i.
func (vt *VTable) At(i int) Trait { return vt.entries[i] }

// Resolve returns the disposition index for name, or (-1, false) if no
// trait with that exact qualified name exists in the table.
func (vt *VTable) Resolve(name QName) (int, bool) {
	i, ok := vt.index[name]
	return i, ok
}

// ResolveInNamespaces searches, in order, for the first trait whose
// local name matches and whose namespace is in ns. An empty ns set falls back to the public namespace.
func (vt *VTable) ResolveInNamespaces(local string, ns []Namespace) (int, bool) {
	if len(ns) == 0 {
		ns = []Namespace{PublicNamespace}
	}
	for _, n := range ns {
		if i, ok := vt.index[QName{NS: n, Local: local}]; ok {
			return i, ok
		}
	}
	return -1, false
}

// BuildVTable performs the trait-resolution v-table step: it
// copies every inherited entry from super's v-table (stable indices are
// preserved across inheritance, per the core invariant), then walks
// defClass's own traits in declaration order, resolving each one's
// multiname against resolveScope — the class's captured lexical scope
// *at resolution time*, not at definition time — and appending or
// overriding the corresponding entry.
//
// resolveScope is passed through unchanged into each Trait.Scope field;
// package class does not interpret it.
func BuildVTable(defClass, super *Class, resolveScope any) *VTable {
	vt := &VTable{index: make(map[QName]int)}

	if super != nil {
		superVT := super.VTable()
		vt.entries = append(vt.entries, superVT.entries...)
		for name, idx := range superVT.index {
			vt.index[name] = idx
		}
	}

	for _, trait := range defClass.OwnTraits {
		t := trait
		t.DefiningClass = defClass
		t.Scope = resolveScope

		if idx, ok := vt.index[t.Name]; ok {
			vt.entries[idx] = t
			continue
		}
		vt.index[t.Name] = len(vt.entries)
		vt.entries = append(vt.entries, t)
	}

	defClass.vtable = vt
	defClass.finalized = true
	return vt
}

// CopyForInterface makes the implementation trait named
// implementationName additionally reachable under publicAlias (the
// interface-qualified name) so that qualified interface calls reach
// the implementation; it is a no-op if publicAlias already resolves to
// something.
func (vt *VTable) CopyForInterface(publicAlias, implementationName QName) {
	idx, ok := vt.index[implementationName]
	if !ok {
		return
	}
	if _, exists := vt.index[publicAlias]; exists {
		return
	}
	vt.index[publicAlias] = idx
}

// LinkPrototype allocates defClass's prototype object into arena if it
// doesn't have one yet, chaining it onto Super's own prototype (linking
// it first if needed) so prototype-chain lookups reach inherited
// dynamic properties. A no-op, returning the existing Ref, if defClass
// is already linked.
func LinkPrototype(arena *heap.Arena, defClass *Class) heap.Ref {
	if !defClass.Proto.IsZero() {
		return defClass.Proto
	}
	proto := NewObject(nil)
	if defClass.Super != nil {
		proto.Proto = LinkPrototype(arena, defClass.Super)
	}
	defClass.Proto = arena.Alloc(proto)
	return defClass.Proto
}

// FinalizeClass runs BuildVTable, then finishes bringing defClass to
// life: LinkPrototype wires the prototype chain, and every interface
// defClass implements has its traits aliased into the v-table under
// their interface-qualified names via CopyForInterface, so a qualified
// interface call reaches defClass's own implementation. Running the
// class initializer (ClassInit) is left to the caller, since invoking a
// method handle requires the owning interpreter's machine, which
// package class has no access to.
func FinalizeClass(arena *heap.Arena, defClass, super *Class, resolveScope any) *VTable {
	vt := BuildVTable(defClass, super, resolveScope)
	LinkPrototype(arena, defClass)
	for _, iface := range defClass.Interfaces {
		linkInterfaceTraits(vt, iface)
	}
	return vt
}

func linkInterfaceTraits(vt *VTable, iface *Class) {
	ivt := iface.VTable()
	for i := 0; i < ivt.Len(); i++ {
		t := ivt.At(i)
		vt.CopyForInterface(t.Name, QName{NS: PublicNamespace, Local: t.Name.Local})
	}
	for _, super := range iface.Interfaces {
		linkInterfaceTraits(vt, super)
	}
}
