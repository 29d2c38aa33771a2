package avm1

import (
	"github.com/cindervm/cinder/internal/heap"
	"github.com/cindervm/cinder/internal/value"
)

// ClipTarget is the narrow surface an embedding display list exposes to
// AVM1 so that action code can resolve slash paths, retarget itself
// (SetTarget/SetTarget2), and drive the clip's playhead
// (GotoFrame/Play/Stop) without this
// package importing the display tree package directly (C6 depends on
// C3, not the reverse).
type ClipTarget interface {
	// Resolve walks a slash- or dot-separated path from this clip and
	// returns the addressed clip's heap reference.
	Resolve(path string) (heap.Ref, bool)
	// Child returns the named direct child of this clip, if any.
	Child(name string) (heap.Ref, bool)
	// Parent returns this clip's parent, if any (".." in a slash path).
	Parent() (heap.Ref, bool)
	// GetVariable/SetVariable read and write a clip-scoped variable
	// (the timeline's own variable pool, distinct from object
	// properties resolved through the class/prototype chain).
	GetVariable(name string) (value.Value, bool)
	SetVariable(name string, v value.Value)
	// GotoFrame, Play, and Stop drive the clip's own playhead.
	GotoFrame(frame int)
	Play()
	Stop()
	// FrameLoaded reports whether frame (1-indexed) is already part of
	// this clip's timeline, the condition WaitForFrame/WaitForFrame2
	// branch on. An embedder with no progressive-download model can
	// simply report every frame within FrameCount as loaded.
	FrameLoaded(frame int) bool
}

// AudioGate is the narrow interface AVM1's StopSounds opcode drives; a
// full audio subsystem lives outside this package.
type AudioGate interface {
	StopAll()
}

// UrlLoader services GetURL/GetURL2. Embedders that don't support navigation can
// supply a no-op implementation.
type UrlLoader interface {
	Load(url, target string, method int) error
}

// Context carries the per-DoAction inputs named in the global
// clock, the root and currently active clip, and the start clip a
// relative slash path resolves against. OnError, if set, receives
// errors from unsupported opcodes and legacy runtime failures; DoAction
// also returns them to its caller.
type Context struct {
	Clock      func() float64
	Root       ClipTarget
	ActiveClip ClipTarget
	StartClip  ClipTarget
	Audio      AudioGate
	Loader     UrlLoader
	OnError    func(error)

	// Globals backs AVM1's single shared global object (_global) and
	// top-level function table as a heap reference. Concrete embedders
	// store a *class.Object behind it.
	Globals heap.Ref
}

func (c *Context) reportError(err error) {
	if c.OnError != nil {
		c.OnError(err)
	}
}
