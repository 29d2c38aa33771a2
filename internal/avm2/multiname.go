package avm2

import "github.com/cindervm/cinder/internal/class"

// MultinameKind is the ABC multiname tag byte, matching swf::avm2::read::Reader::read_multiname's
// dispatch exactly.
type MultinameKind byte

const (
	MNQName       MultinameKind = 0x07
	MNQNameA      MultinameKind = 0x0d
	MNRTQName     MultinameKind = 0x0f
	MNRTQNameA    MultinameKind = 0x10
	MNRTQNameL    MultinameKind = 0x11
	MNRTQNameLA   MultinameKind = 0x12
	MNMultiname   MultinameKind = 0x09
	MNMultinameA  MultinameKind = 0x0e
	MNMultinameL  MultinameKind = 0x1b
	MNMultinameLA MultinameKind = 0x1c
)

// Multiname is a constant-pool multiname record in its unresolved form.
// Depending on Kind, only a subset of the fields is meaningful:
//   - QName/QNameA: NS + Name are compile-time fixed.
//   - RTQName/RTQNameA: Name is fixed, the namespace is popped from the
//     operand stack at run time ("RunTime Qualified").
//   - RTQNameL/RTQNameLA: both namespace and name are popped at run time
//     ("Late").
//   - Multiname/MultinameA: Name is fixed, NSSet gives the namespace set
//     to search in order.
//   - MultinameL/MultinameLA: the name itself is popped at run time (an
//     E4X-style "obj[expr]" late lookup); NSSet still applies.
type Multiname struct {
	Kind  MultinameKind
	NS    Index
	Name  Index
	NSSet Index
}

// IsAttribute reports whether this multiname addresses an XML attribute
// (the "A" suffixed kinds, interop).
func (m Multiname) IsAttribute() bool {
	switch m.Kind {
	case MNQNameA, MNRTQNameA, MNRTQNameLA, MNMultinameA, MNMultinameLA:
		return true
	default:
		return false
	}
}

// IsRuntimeName reports whether resolving m requires a name popped from
// the operand stack at run time (the "L" / late-bound kinds).
func (m Multiname) IsRuntimeName() bool {
	switch m.Kind {
	case MNRTQNameL, MNRTQNameLA, MNMultinameL, MNMultinameLA:
		return true
	default:
		return false
	}
}

// IsRuntimeNamespace reports whether resolving m requires a namespace
// popped from the operand stack (the "RT" kinds).
func (m Multiname) IsRuntimeNamespace() bool {
	switch m.Kind {
	case MNRTQName, MNRTQNameA, MNRTQNameL, MNRTQNameLA:
		return true
	default:
		return false
	}
}

func (r *reader) readMultiname() (Multiname, error) {
	kind, err := r.readU8()
	if err != nil {
		return Multiname{}, err
	}
	m := Multiname{Kind: MultinameKind(kind)}
	switch m.Kind {
	case MNQName, MNQNameA:
		if m.NS, err = r.readIndex(); err != nil {
			return Multiname{}, err
		}
		if m.Name, err = r.readIndex(); err != nil {
			return Multiname{}, err
		}
	case MNRTQName, MNRTQNameA:
		if m.Name, err = r.readIndex(); err != nil {
			return Multiname{}, err
		}
	case MNRTQNameL, MNRTQNameLA:
		// no further fields: both namespace and name are run-time.
	case MNMultiname, MNMultinameA:
		if m.Name, err = r.readIndex(); err != nil {
			return Multiname{}, err
		}
		if m.NSSet, err = r.readIndex(); err != nil {
			return Multiname{}, err
		}
	case MNMultinameL, MNMultinameLA:
		if m.NSSet, err = r.readIndex(); err != nil {
			return Multiname{}, err
		}
	default:
		return Multiname{}, errInvalidMultinameKind(kind)
	}
	return m, nil
}

// Resolve turns a compile-time multiname (one with neither a run-time
// name nor a run-time namespace) into a class.QName, using pool to look
// up the interned strings and namespace records.
func Resolve(pool *ConstantPool, m Multiname) class.QName {
	local := pool.String(m.Name)
	switch m.Kind {
	case MNQName, MNQNameA:
		return class.QName{NS: namespaceOf(pool, pool.Namespace(m.NS)), Local: local}
	default:
		return class.NewQName(local)
	}
}

// ResolveSet returns the ordered namespace set a Multiname/MultinameA/
// MultinameL/MultinameLA record searches, for use with
// class.ResolveInNamespaces.
func ResolveSet(pool *ConstantPool, m Multiname) []class.Namespace {
	idxs := pool.NamespaceSet(m.NSSet)
	out := make([]class.Namespace, 0, len(idxs))
	for _, idx := range idxs {
		out = append(out, namespaceOf(pool, pool.Namespace(idx)))
	}
	return out
}

func namespaceOf(pool *ConstantPool, ns NamespaceEntry) class.Namespace {
	uri := pool.String(ns.Name)
	switch ns.Kind {
	case NSPrivate:
		return class.Namespace{Kind: class.NamespacePrivate, URI: uri}
	case NSPackageInternal:
		return class.Namespace{Kind: class.NamespaceInternal, URI: uri}
	case NSProtected:
		return class.Namespace{Kind: class.NamespaceProtected, URI: uri}
	case NSStaticProtected:
		return class.Namespace{Kind: class.NamespaceStaticProtected, URI: uri}
	case NSExplicit:
		return class.Namespace{Kind: class.NamespaceExplicit, URI: uri}
	case NSPackage:
		return class.Namespace{Kind: class.NamespacePackage, URI: uri}
	default: // NSNamespace and anything else reads as public.
		return class.Namespace{Kind: class.NamespacePublic, URI: uri}
	}
}
