package class

import "github.com/cindervm/cinder/internal/value"

// PropertyAttr holds the attribute bits carried by every property:
// don't-enumerate, don't-delete, read-only.
type PropertyAttr uint8

const (
	AttrDontEnumerate PropertyAttr = 1 << iota
	AttrDontDelete
	AttrReadOnly
)

// Has reports whether a is set in attrs.
func (attrs PropertyAttr) Has(a PropertyAttr) bool { return attrs&a != 0 }

// PropertyKind distinguishes the four property shapes named in data
// slot, constant slot, method, and virtual (get and/or set).
type PropertyKind uint8

const (
	PropData PropertyKind = iota
	PropConst
	PropMethod
	PropVirtual
)

// MethodHandle is an opaque identifier for a callable body. The
// interpreters (avm1, avm2) own the concrete dispatch; class only stores
// the handle and the metadata needed to invoke it through a v-table.
type MethodHandle struct {
	// ID indexes into the owning interpreter's method table.
	ID int
	// IsNative marks handles implemented directly in Go rather than
	// interpreted bytecode (built-in classes such as Array and Date).
	IsNative bool
}

// Property is one named slot on an Object or trait entry in a Class.
type Property struct {
	Kind PropertyKind
	Attr PropertyAttr

	// Data/Const
	Value value.Value

	// Method
	Method MethodHandle

	// Virtual
	Getter *MethodHandle
	Setter *MethodHandle
}
