package cinder

// Tag is implemented by every decoded tag variant a tag stream may
// contain.
type Tag interface {
	tag()
}

// ShapeTag places a vector shape's outline definition in the character
// dictionary, keyed by CharacterID.
type ShapeTag struct {
	CharacterID uint16
	Bounds      Rect
}

// SpriteTag defines a movie clip (nested timeline) character.
type SpriteTag struct {
	CharacterID uint16
	FrameCount  int
	Tags        []Tag
}

// SoundTag registers a decoded sound character.
type SoundTag struct {
	CharacterID  uint16
	SampleRate   uint32
	Channels     int
	SampleCount  uint32
}

// ButtonTag defines a button character's four state-character mappings.
type ButtonTag struct {
	CharacterID uint16
	Records     []ButtonRecord
}

// ButtonRecord places one character into one or more of a button's states.
type ButtonRecord struct {
	CharacterID uint16
	Depth       int16
	Up, Over, Down, HitTest bool
	Matrix      Rect // placement transform, decoded form
}

// FontTag registers a decoded embedded font character.
type FontTag struct {
	CharacterID uint16
	Name        string
}

// TextTag places a static text character's glyph layout.
type TextTag struct {
	CharacterID uint16
	Bounds      Rect
}

// PlaceObjectTag places or modifies a character at a depth on the
// timeline of whichever sprite this tag stream belongs to.
type PlaceObjectTag struct {
	CharacterID uint16
	Depth       int16
	Name        string
	Move        bool // true: modify existing instance; false: new placement
}

// RemoveObjectTag removes whatever instance occupies a depth.
type RemoveObjectTag struct {
	Depth int16
}

// DoActionTag carries an AVM1 action byte-stream to run once this
// frame's Scripts phase reaches its clip.
type DoActionTag struct {
	Bytecode []byte
}

// DoABCTag carries an AVM2 ABC blob (a whole method body set, not a
// single method) to load into the class/method tables.
type DoABCTag struct {
	Name     string
	LazyInit bool
	Bytecode []byte
}

// ShowFrameTag marks the end of the current frame's tag sequence.
type ShowFrameTag struct{}

// FrameLabelTag names the current frame.
type FrameLabelTag struct {
	Name string
}

// SceneLabelTag names a scene (a labeled frame range) in the root timeline.
type SceneLabelTag struct {
	Name       string
	FrameIndex int
}

// FileAttributesTag carries movie-level flags decoded from the file header.
type FileAttributesTag struct {
	UseAVM2        bool
	UseNetwork     bool
	HasMetadata    bool
}

// BackgroundColorTag sets the stage's background color.
type BackgroundColorTag struct {
	Color Color
}

func (ShapeTag) tag()           {}
func (SpriteTag) tag()          {}
func (SoundTag) tag()           {}
func (ButtonTag) tag()          {}
func (FontTag) tag()            {}
func (TextTag) tag()            {}
func (PlaceObjectTag) tag()     {}
func (RemoveObjectTag) tag()    {}
func (DoActionTag) tag()        {}
func (DoABCTag) tag()           {}
func (ShowFrameTag) tag()       {}
func (FrameLabelTag) tag()      {}
func (SceneLabelTag) tag()      {}
func (FileAttributesTag) tag()  {}
func (BackgroundColorTag) tag() {}
