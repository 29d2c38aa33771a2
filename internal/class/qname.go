// Package class implements the shared dynamic object/class model used by
// both bytecode interpreters: prototype-chain objects, sealed classes
// with trait-resolved v-tables, and the two-phase class construction
// protocol (BuildVTable, then FinalizeClass's prototype/interface linking).
package class

// Namespace is an AVM2 namespace (public, internal, private, protected,
// explicit, static-protected, or a user package name). AVM1 objects use
// the zero Namespace for every property, which collapses QName lookup to
// plain string lookup — namespace-set resolution is a strict
// generalization of AVM1's flat property map.
type Namespace struct {
	Kind NamespaceKind
	URI  string
}

// NamespaceKind distinguishes the AVM2 namespace flavors relevant to
// resolution order.
type NamespaceKind uint8

const (
	NamespacePublic NamespaceKind = iota
	NamespaceInternal
	NamespacePrivate
	NamespaceProtected
	NamespaceStaticProtected
	NamespaceExplicit
	NamespacePackage
)

// PublicNamespace is the implicit namespace for AVM1 properties and
// AVM2's public/dynamic properties.
var PublicNamespace = Namespace{Kind: NamespacePublic}

// QName is a fully qualified name: a namespace plus a local name. It is
// the resolved form every multiname eventually reduces to.
type QName struct {
	NS    Namespace
	Local string
}

// NewQName builds a QName in the public namespace (the common case for
// AVM1 and for AVM2 dynamic/public members).
func NewQName(local string) QName {
	return QName{NS: PublicNamespace, Local: local}
}
