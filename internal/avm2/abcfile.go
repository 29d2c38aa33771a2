package avm2

// MethodParam describes one formal parameter's type multiname and,
// when the method declares optional parameters, its default value.
type MethodParam struct {
	Type Index
}

// DefaultValueKind is the ABC "kind" byte tagging an optional
// parameter's or Const trait's default/initial value.
type DefaultValueKind byte

const (
	DVUndefined        DefaultValueKind = 0x00
	DVString           DefaultValueKind = 0x01
	DVInt              DefaultValueKind = 0x03
	DVUint             DefaultValueKind = 0x04
	DVPrivate          DefaultValueKind = 0x05
	DVDouble           DefaultValueKind = 0x06
	DVNamespace        DefaultValueKind = 0x08
	DVFalse            DefaultValueKind = 0x0a
	DVTrue             DefaultValueKind = 0x0b
	DVNull             DefaultValueKind = 0x0c
	DVPackage          DefaultValueKind = 0x16
	DVPackageInternal  DefaultValueKind = 0x17
	DVProtected        DefaultValueKind = 0x18
	DVExplicit         DefaultValueKind = 0x19
	DVStaticProtected  DefaultValueKind = 0x1a
)

// DefaultValue is a decoded optional-parameter or Const-trait value: Kind
// tags which of Index/nothing is meaningful.
type DefaultValue struct {
	Kind  DefaultValueKind
	Index Index
}

// MethodFlags are Method's flag byte bits, per the method_info record.
type MethodFlags byte

const (
	MethodNeedsArguments MethodFlags = 0x01
	MethodNeedsActivation MethodFlags = 0x02
	MethodNeedsRest      MethodFlags = 0x04
	MethodHasOptional    MethodFlags = 0x08
	MethodSetsDXNS       MethodFlags = 0x40
	MethodHasParamNames  MethodFlags = 0x80
)

func (f MethodFlags) Has(bit MethodFlags) bool { return f&bit != 0 }

// Method is one method_info record: its signature plus the flag bits
// governing argument-object/activation/rest-param/optional-param
// handling the interpreter must honor on every call.
type Method struct {
	ReturnType Index
	Params     []MethodParam
	Name       Index
	Flags      MethodFlags
	Optional   []DefaultValue
	ParamNames []Index
}

func (r *reader) readMethod() (Method, error) {
	var m Method
	paramCount, err := r.readU30()
	if err != nil {
		return m, err
	}
	if m.ReturnType, err = r.readIndex(); err != nil {
		return m, err
	}
	m.Params = make([]MethodParam, paramCount)
	for i := range m.Params {
		if m.Params[i].Type, err = r.readIndex(); err != nil {
			return m, err
		}
	}
	if m.Name, err = r.readIndex(); err != nil {
		return m, err
	}
	flags, err := r.readU8()
	if err != nil {
		return m, err
	}
	m.Flags = MethodFlags(flags)

	if m.Flags.Has(MethodHasOptional) {
		n, err := r.readU30()
		if err != nil {
			return m, err
		}
		m.Optional = make([]DefaultValue, n)
		for i := range m.Optional {
			if m.Optional[i], err = r.readOptionalValue(); err != nil {
				return m, err
			}
		}
	}
	if m.Flags.Has(MethodHasParamNames) {
		m.ParamNames = make([]Index, paramCount)
		for i := range m.ParamNames {
			if m.ParamNames[i], err = r.readIndex(); err != nil {
				return m, err
			}
		}
	}
	return m, nil
}

func (r *reader) readOptionalValue() (DefaultValue, error) {
	idx, err := r.readIndex()
	if err != nil {
		return DefaultValue{}, err
	}
	kind, err := r.readU8()
	if err != nil {
		return DefaultValue{}, err
	}
	return DefaultValue{Kind: DefaultValueKind(kind), Index: idx}, nil
}

// InstanceFlags are Instance's flag byte bits.
type InstanceFlags byte

const (
	InstanceSealed    InstanceFlags = 0x01
	InstanceFinal     InstanceFlags = 0x02
	InstanceInterface InstanceFlags = 0x04
	InstanceProtectedNS InstanceFlags = 0x08
)

func (f InstanceFlags) Has(bit InstanceFlags) bool { return f&bit != 0 }

// Instance is one instance_info record: a class's name, superclass,
// interface list, instance initializer, and instance-side traits.
type Instance struct {
	Name            Index
	SuperName       Index
	Flags           InstanceFlags
	ProtectedNS     Index
	Interfaces      []Index
	InitMethod      Index
	Traits          []Trait
}

func (r *reader) readInstance() (Instance, error) {
	var in Instance
	var err error
	if in.Name, err = r.readIndex(); err != nil {
		return in, err
	}
	if in.SuperName, err = r.readIndex(); err != nil {
		return in, err
	}
	flags, err := r.readU8()
	if err != nil {
		return in, err
	}
	in.Flags = InstanceFlags(flags)
	if in.Flags.Has(InstanceProtectedNS) {
		if in.ProtectedNS, err = r.readIndex(); err != nil {
			return in, err
		}
	}
	ifaceCount, err := r.readU30()
	if err != nil {
		return in, err
	}
	in.Interfaces = make([]Index, ifaceCount)
	for i := range in.Interfaces {
		if in.Interfaces[i], err = r.readIndex(); err != nil {
			return in, err
		}
	}
	if in.InitMethod, err = r.readIndex(); err != nil {
		return in, err
	}
	if in.Traits, err = r.readTraits(); err != nil {
		return in, err
	}
	return in, nil
}

// Class is one class_info record: the static-side initializer and
// class-level (static) traits, paired by index with the Instance of the
// same position.
type Class struct {
	InitMethod Index
	Traits     []Trait
}

func (r *reader) readClass() (Class, error) {
	var c Class
	var err error
	if c.InitMethod, err = r.readIndex(); err != nil {
		return c, err
	}
	if c.Traits, err = r.readTraits(); err != nil {
		return c, err
	}
	return c, nil
}

// Script is one script_info record: a top-level init method plus the
// traits it exports (global functions/vars/classes for a single frame's
// SymbolClass or DoABC tag).
type Script struct {
	InitMethod Index
	Traits     []Trait
}

func (r *reader) readScript() (Script, error) {
	var s Script
	var err error
	if s.InitMethod, err = r.readIndex(); err != nil {
		return s, err
	}
	if s.Traits, err = r.readTraits(); err != nil {
		return s, err
	}
	return s, nil
}

// TraitKind is the low nibble of a trait_info's kind byte.
type TraitKind byte

const (
	TraitSlot TraitKind = iota
	TraitMethod
	TraitGetter
	TraitSetter
	TraitClass
	TraitFunction
	TraitConst
)

// TraitAttr are the high-nibble attribute bits of a trait_info's kind
// byte.
type TraitAttr byte

const (
	TraitFinal    TraitAttr = 0x10
	TraitOverride TraitAttr = 0x20
	TraitMetadata TraitAttr = 0x40
)

// Trait is one trait_info record in its unresolved (index-referencing)
// form, before class.BuildVTable resolves it against a live ConstantPool
// into a class.Trait.
type Trait struct {
	Name Index
	Kind TraitKind
	Attr TraitAttr

	// Slot/Const
	SlotID    uint32
	TypeName  Index
	Value     DefaultValue

	// Method/Getter/Setter
	DispID Index
	Method Index

	// Class
	ClassIdx Index

	// Function
	FunctionIdx Index

	Metadata []Index
}

func (r *reader) readTraits() ([]Trait, error) {
	n, err := r.readU30()
	if err != nil {
		return nil, err
	}
	out := make([]Trait, n)
	for i := range out {
		if out[i], err = r.readTrait(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *reader) readTrait() (Trait, error) {
	var t Trait
	var err error
	if t.Name, err = r.readIndex(); err != nil {
		return t, err
	}
	kindByte, err := r.readU8()
	if err != nil {
		return t, err
	}
	t.Kind = TraitKind(kindByte & 0x0f)
	t.Attr = TraitAttr(kindByte & 0xf0)

	switch t.Kind {
	case TraitSlot, TraitConst:
		slotID, err := r.readU30()
		if err != nil {
			return t, err
		}
		t.SlotID = slotID
		if t.TypeName, err = r.readIndex(); err != nil {
			return t, err
		}
		valIdx, err := r.readIndex()
		if err != nil {
			return t, err
		}
		if !valIdx.IsNone() {
			kind, err := r.readU8()
			if err != nil {
				return t, err
			}
			t.Value = DefaultValue{Kind: DefaultValueKind(kind), Index: valIdx}
		}
	case TraitMethod, TraitGetter, TraitSetter:
		if t.DispID, err = r.readIndex(); err != nil {
			return t, err
		}
		if t.Method, err = r.readIndex(); err != nil {
			return t, err
		}
	case TraitClass:
		slotID, err := r.readU30()
		if err != nil {
			return t, err
		}
		t.SlotID = slotID
		if t.ClassIdx, err = r.readIndex(); err != nil {
			return t, err
		}
	case TraitFunction:
		slotID, err := r.readU30()
		if err != nil {
			return t, err
		}
		t.SlotID = slotID
		if t.FunctionIdx, err = r.readIndex(); err != nil {
			return t, err
		}
	default:
		return t, errInvalidTraitKind(kindByte & 0x0f)
	}

	if t.Attr&TraitMetadata != 0 {
		n, err := r.readU30()
		if err != nil {
			return t, err
		}
		t.Metadata = make([]Index, n)
		for i := range t.Metadata {
			if t.Metadata[i], err = r.readIndex(); err != nil {
				return t, err
			}
		}
	}
	return t, nil
}

// Exception is one exception_info record in a method body's exception
// table: the protected code range,
// the handler's target offset, and the caught type/variable names.
type Exception struct {
	FromOffset   uint32
	ToOffset     uint32
	TargetOffset uint32
	TypeName     Index
	VarName      Index
}

func (r *reader) readException() (Exception, error) {
	var e Exception
	var err error
	from, err := r.readU30()
	if err != nil {
		return e, err
	}
	to, err := r.readU30()
	if err != nil {
		return e, err
	}
	target, err := r.readU30()
	if err != nil {
		return e, err
	}
	e.FromOffset, e.ToOffset, e.TargetOffset = from, to, target
	if e.TypeName, err = r.readIndex(); err != nil {
		return e, err
	}
	if e.VarName, err = r.readIndex(); err != nil {
		return e, err
	}
	return e, nil
}

// MethodBody is one method_body record: the compiled instruction stream
// for a single Method plus its stack/local-register sizing and
// exception table.
type MethodBody struct {
	Method         Index
	MaxStack       uint32
	NumLocals      uint32
	InitScopeDepth uint32
	MaxScopeDepth  uint32
	Code           []byte
	Exceptions     []Exception
	Traits         []Trait
}

func (r *reader) readMethodBody() (MethodBody, error) {
	var b MethodBody
	var err error
	if b.Method, err = r.readIndex(); err != nil {
		return b, err
	}
	if b.MaxStack, err = r.readU30(); err != nil {
		return b, err
	}
	if b.NumLocals, err = r.readU30(); err != nil {
		return b, err
	}
	if b.InitScopeDepth, err = r.readU30(); err != nil {
		return b, err
	}
	if b.MaxScopeDepth, err = r.readU30(); err != nil {
		return b, err
	}
	codeLen, err := r.readU30()
	if err != nil {
		return b, err
	}
	if b.Code, err = r.readBytes(int(codeLen)); err != nil {
		return b, err
	}
	excCount, err := r.readU30()
	if err != nil {
		return b, err
	}
	b.Exceptions = make([]Exception, excCount)
	for i := range b.Exceptions {
		if b.Exceptions[i], err = r.readException(); err != nil {
			return b, err
		}
	}
	if b.Traits, err = r.readTraits(); err != nil {
		return b, err
	}
	return b, nil
}

// AbcFile is a fully decoded ABC container (a DoABC tag's payload): the
// constant pool plus the method/metadata/instance/class/script/
// method-body record arrays, indexed the same way the bytecode's own
// indices address them.
type AbcFile struct {
	MinorVersion uint16
	MajorVersion uint16
	Pool         *ConstantPool
	Methods      []Method
	Instances    []Instance
	Classes      []Class
	Scripts      []Script
	MethodBodies []MethodBody
}

// ReadAbcFile decodes a complete ABC file from data.
func ReadAbcFile(data []byte) (*AbcFile, error) {
	r := newReader(data)
	f := &AbcFile{}
	var err error
	if f.MinorVersion, err = r.readU16(); err != nil {
		return nil, err
	}
	if f.MajorVersion, err = r.readU16(); err != nil {
		return nil, err
	}
	if f.Pool, err = r.readConstantPool(); err != nil {
		return nil, err
	}

	methodCount, err := r.readU30()
	if err != nil {
		return nil, err
	}
	f.Methods = make([]Method, methodCount)
	for i := range f.Methods {
		if f.Methods[i], err = r.readMethod(); err != nil {
			return nil, err
		}
	}

	// metadata_info array: present in the container but unused by this
	// interpreter (no reflection/metadata API is implemented), so its
	// records are skipped without being retained.
	metaCount, err := r.readU30()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < metaCount; i++ {
		if _, err := r.readIndex(); err != nil { // name
			return nil, err
		}
		n, err := r.readU30()
		if err != nil {
			return nil, err
		}
		for j := uint32(0); j < n; j++ {
			if _, err := r.readIndex(); err != nil { // key
				return nil, err
			}
		}
		for j := uint32(0); j < n; j++ {
			if _, err := r.readIndex(); err != nil { // value
				return nil, err
			}
		}
	}

	classCount, err := r.readU30()
	if err != nil {
		return nil, err
	}
	f.Instances = make([]Instance, classCount)
	for i := range f.Instances {
		if f.Instances[i], err = r.readInstance(); err != nil {
			return nil, err
		}
	}
	f.Classes = make([]Class, classCount)
	for i := range f.Classes {
		if f.Classes[i], err = r.readClass(); err != nil {
			return nil, err
		}
	}

	scriptCount, err := r.readU30()
	if err != nil {
		return nil, err
	}
	f.Scripts = make([]Script, scriptCount)
	for i := range f.Scripts {
		if f.Scripts[i], err = r.readScript(); err != nil {
			return nil, err
		}
	}

	bodyCount, err := r.readU30()
	if err != nil {
		return nil, err
	}
	f.MethodBodies = make([]MethodBody, bodyCount)
	for i := range f.MethodBodies {
		if f.MethodBodies[i], err = r.readMethodBody(); err != nil {
			return nil, err
		}
	}

	return f, nil
}
