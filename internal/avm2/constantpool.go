// Package avm2 implements the AVM2 method interpreter: multiname
// resolution, v-table call/construct/super dispatch shared
// with the class model, coercion instructions, and exception-handler
// search. The ABC binary reader here (constant pool, method, instance,
// class, script, and method-body records) mirrors the record layout
// read by Ruffle's swf crate, adapted into a plain Go decoder built on
// the same bitio byte cursor internal/avm1's action reader uses, instead
// of the original's Read+Seek generic reader.
package avm2

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/icza/bitio"
)

// Index is a 1-based constant-pool reference; 0 means "none" for the
// fields where that is legal (e.g. an untyped parameter, no superclass).
type Index uint32

// IsNone reports whether idx is the reserved zero ("no value") index.
func (idx Index) IsNone() bool { return idx == 0 }

// ConstantPool holds every literal an ABC file's bytecode can index
// into: the distinct int/uint/double/string/namespace/namespace-set/
// multiname arrays.
type ConstantPool struct {
	Ints          []int32
	Uints         []uint32
	Doubles       []float64
	Strings       []string
	Namespaces    []NamespaceEntry
	NamespaceSets [][]Index
	Multinames    []Multiname
}

func (p *ConstantPool) String(idx Index) string {
	if idx.IsNone() || int(idx) > len(p.Strings) {
		return ""
	}
	return p.Strings[idx-1]
}

func (p *ConstantPool) Int(idx Index) int32 {
	if idx.IsNone() || int(idx) > len(p.Ints) {
		return 0
	}
	return p.Ints[idx-1]
}

func (p *ConstantPool) Uint(idx Index) uint32 {
	if idx.IsNone() || int(idx) > len(p.Uints) {
		return 0
	}
	return p.Uints[idx-1]
}

func (p *ConstantPool) Double(idx Index) float64 {
	if idx.IsNone() || int(idx) > len(p.Doubles) {
		return math.NaN()
	}
	return p.Doubles[idx-1]
}

func (p *ConstantPool) Namespace(idx Index) NamespaceEntry {
	if idx.IsNone() || int(idx) > len(p.Namespaces) {
		return NamespaceEntry{}
	}
	return p.Namespaces[idx-1]
}

func (p *ConstantPool) NamespaceSet(idx Index) []Index {
	if idx.IsNone() || int(idx) > len(p.NamespaceSets) {
		return nil
	}
	return p.NamespaceSets[idx-1]
}

func (p *ConstantPool) Multiname(idx Index) Multiname {
	if idx.IsNone() || int(idx) > len(p.Multinames) {
		return Multiname{}
	}
	return p.Multinames[idx-1]
}

// NamespaceKind distinguishes the namespace flavors the constant pool
// can hold.
type NamespaceKind byte

const (
	NSPrivate          NamespaceKind = 0x05
	NSNamespace        NamespaceKind = 0x08
	NSPackage          NamespaceKind = 0x16
	NSPackageInternal  NamespaceKind = 0x17
	NSProtected        NamespaceKind = 0x18
	NSExplicit         NamespaceKind = 0x19
	NSStaticProtected  NamespaceKind = 0x1a
)

// NamespaceEntry is one constant-pool namespace record.
type NamespaceEntry struct {
	Kind NamespaceKind
	Name Index
}

// reader decodes the ABC binary record formats, byte for byte matching
// swf::avm2::read::Reader's variable-length integer and record layouts.
// Like internal/avm1's cursor, each multi-byte read opens a fresh
// bitio.Reader over the remaining slice and advances pos by the bytes
// actually consumed.
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader { return &reader{data: data} }

func (r *reader) bitReader() *bitio.Reader {
	return bitio.NewReader(bytes.NewReader(r.data[r.pos:]))
}

func (r *reader) readU8() (byte, error) {
	b, err := r.bitReader().ReadByte()
	if err != nil {
		return 0, io.ErrUnexpectedEOF
	}
	r.pos++
	return b, nil
}

// readU30 reads a LEB128-style variable-length unsigned integer capped
// at 30 significant bits, the encoding used throughout the ABC format
// for lengths and constant-pool indices.
func (r *reader) readU30() (uint32, error) {
	var n uint32
	var shift uint
	for {
		b, err := r.readU8()
		if err != nil {
			return 0, err
		}
		n |= uint32(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 35 {
			return 0, fmt.Errorf("avm2: u30 overflow")
		}
	}
	return n, nil
}

func (r *reader) readIndex() (Index, error) {
	v, err := r.readU30()
	return Index(v), err
}

func (r *reader) readS32() (int32, error) {
	var n int32
	var shift uint
	for {
		b, err := r.readU8()
		if err != nil {
			return 0, err
		}
		n |= int32(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 32 {
				n = n << (32 - shift) >> (32 - shift)
			}
			break
		}
	}
	return n, nil
}

func (r *reader) readU16() (uint16, error) {
	rd := r.bitReader()
	bits, err := rd.ReadBits(16)
	if err != nil {
		return 0, io.ErrUnexpectedEOF
	}
	r.pos += 2
	// ABC fields are little-endian; bitio.ReadBits is big-endian bit
	// order, so the two bytes must be swapped back (mirrors avm1.cursor.readU16).
	v := uint16(bits)
	return v>>8 | v<<8, nil
}

func (r *reader) readF64() (float64, error) {
	if r.pos+8 > len(r.data) {
		return 0, io.ErrUnexpectedEOF
	}
	rd := r.bitReader()
	var lo, hi uint32
	for shift := 0; shift < 32; shift += 8 {
		b, err := rd.ReadByte()
		if err != nil {
			return 0, io.ErrUnexpectedEOF
		}
		lo |= uint32(b) << shift
	}
	for shift := 0; shift < 32; shift += 8 {
		b, err := rd.ReadByte()
		if err != nil {
			return 0, io.ErrUnexpectedEOF
		}
		hi |= uint32(b) << shift
	}
	r.pos += 8
	bits := uint64(hi)<<32 | uint64(lo)
	return math.Float64frombits(bits), nil
}

func (r *reader) readString() (string, error) {
	n, err := r.readU30()
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.data) {
		return "", io.ErrUnexpectedEOF
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *reader) readBytes(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, io.ErrUnexpectedEOF
	}
	rd := r.bitReader()
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := rd.ReadByte()
		if err != nil {
			return nil, io.ErrUnexpectedEOF
		}
		buf[i] = b
	}
	r.pos += n
	return buf, nil
}

func (r *reader) readNamespace() (NamespaceEntry, error) {
	kind, err := r.readU8()
	if err != nil {
		return NamespaceEntry{}, err
	}
	name, err := r.readIndex()
	if err != nil {
		return NamespaceEntry{}, err
	}
	switch NamespaceKind(kind) {
	case NSPrivate, NSNamespace, NSPackage, NSPackageInternal, NSProtected, NSExplicit, NSStaticProtected:
		return NamespaceEntry{Kind: NamespaceKind(kind), Name: name}, nil
	default:
		return NamespaceEntry{}, fmt.Errorf("avm2: invalid namespace kind %#x", kind)
	}
}

func (r *reader) readNamespaceSet() ([]Index, error) {
	n, err := r.readU30()
	if err != nil {
		return nil, err
	}
	out := make([]Index, n)
	for i := range out {
		out[i], err = r.readIndex()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// readConstantPool decodes the full constant pool. Every array in the
// ABC format is stored with a length one greater than its element
// count — entry 0 of each is implicitly absent (index 0 means "none")
// — matching the `for _ in 0..len-1` loop in the reference reader.
func (r *reader) readConstantPool() (*ConstantPool, error) {
	pool := &ConstantPool{}

	n, err := r.readU30()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		pool.Ints = make([]int32, n-1)
		for i := range pool.Ints {
			if pool.Ints[i], err = r.readS32(); err != nil {
				return nil, err
			}
		}
	}

	if n, err = r.readU30(); err != nil {
		return nil, err
	}
	if n > 0 {
		pool.Uints = make([]uint32, n-1)
		for i := range pool.Uints {
			v, err := r.readS32()
			if err != nil {
				return nil, err
			}
			pool.Uints[i] = uint32(v)
		}
	}

	if n, err = r.readU30(); err != nil {
		return nil, err
	}
	if n > 0 {
		pool.Doubles = make([]float64, n-1)
		for i := range pool.Doubles {
			if pool.Doubles[i], err = r.readF64(); err != nil {
				return nil, err
			}
		}
	}

	if n, err = r.readU30(); err != nil {
		return nil, err
	}
	if n > 0 {
		pool.Strings = make([]string, n-1)
		for i := range pool.Strings {
			if pool.Strings[i], err = r.readString(); err != nil {
				return nil, err
			}
		}
	}

	if n, err = r.readU30(); err != nil {
		return nil, err
	}
	if n > 0 {
		pool.Namespaces = make([]NamespaceEntry, n-1)
		for i := range pool.Namespaces {
			if pool.Namespaces[i], err = r.readNamespace(); err != nil {
				return nil, err
			}
		}
	}

	if n, err = r.readU30(); err != nil {
		return nil, err
	}
	if n > 0 {
		pool.NamespaceSets = make([][]Index, n-1)
		for i := range pool.NamespaceSets {
			if pool.NamespaceSets[i], err = r.readNamespaceSet(); err != nil {
				return nil, err
			}
		}
	}

	if n, err = r.readU30(); err != nil {
		return nil, err
	}
	if n > 0 {
		pool.Multinames = make([]Multiname, n-1)
		for i := range pool.Multinames {
			if pool.Multinames[i], err = r.readMultiname(); err != nil {
				return nil, err
			}
		}
	}

	return pool, nil
}
