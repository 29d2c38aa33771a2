package cinder

import (
	"fmt"

	"github.com/cindervm/cinder/internal/geom"
	"github.com/cindervm/cinder/internal/heap"
)

// StageConfig configures a Stage at construction time: the movie-level
// settings a decoded file-attributes tag carries.
type StageConfig struct {
	Width, Height float64 // device pixels
	FrameRate     float64
	BackgroundColor Color

	// InstructionBudget bounds the total script work one RunFrame call
	// may perform across every clip's Scripts phase before remaining
	// clips' scripts are skipped for that frame.
	InstructionBudget int

	Renderer Renderer
	Audio    Audio
	Loader   Loader
	Store    SharedObjectStore
}

// Stage is the display list's root and the host-facing entry point for
// driving frames.
type Stage struct {
	Config StageConfig

	root  *DisplayObject
	arena *heap.Arena

	renderer Renderer
	audio    Audio
	loader   Loader
	store    SharedObjectStore

	onError func(error)

	frameCount int

	pendingLoads    []LoadResult
	onLoadComplete  func(*Stage, LoadResult)
}

// OnLoadComplete registers fn to run once per delivered LoadResult, at
// the start of the next RunFrame after DeliverLoad queues it — a phase
// boundary, keeping load-completion callbacks off the load-delivery call stack.
func (s *Stage) OnLoadComplete(fn func(*Stage, LoadResult)) {
	s.onLoadComplete = fn
}

func (s *Stage) drainLoads() {
	if len(s.pendingLoads) == 0 {
		return
	}
	loads := s.pendingLoads
	s.pendingLoads = nil
	for _, l := range loads {
		if s.onLoadComplete != nil {
			s.onLoadComplete(s, l)
		}
	}
}

// NewStage constructs a Stage with an empty display list root.
func NewStage(cfg StageConfig) *Stage {
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 24
	}
	if cfg.InstructionBudget <= 0 {
		cfg.InstructionBudget = 1_000_000
	}
	root := newDisplayObject("_root", KindStage)
	root.Visible = true
	arena := heap.NewArena()
	root.attachArena(arena)
	s := &Stage{
		Config:   cfg,
		root:     root,
		arena:    arena,
		renderer: cfg.Renderer,
		audio:    cfg.Audio,
		loader:   cfg.Loader,
		store:    cfg.Store,
	}
	return s
}

// Root returns the stage's root display object. AddChild on it places
// top-level movie clips and graphics.
func (s *Stage) Root() *DisplayObject { return s.root }

// Arena returns the shared mutation arena every display object attached
// under this stage's root is hosted in, and that AVM1/AVM2's own
// script-object allocations should share.
func (s *Stage) Arena() *heap.Arena { return s.arena }

// Collect runs a mark-sweep pass over the stage's arena, rooted at the
// display tree plus any additional script-held roots the host supplies
// (interned classes, live interpreter activations).
func (s *Stage) Collect(extraRoots ...heap.Ref) int {
	roots := append([]heap.Ref{s.root.selfRef}, extraRoots...)
	return s.arena.Collect(roots)
}

// OnError registers fn to receive every non-fatal runtime error
// (coercion failures, unsupported opcodes, XML parse errors, host I/O
// errors) raised during RunFrame, rather than a logging library; the
// host wires its own logging behind the callback.
func (s *Stage) OnError(fn func(error)) {
	s.onError = fn
}

func (s *Stage) reportError(err error) {
	if s.onError != nil {
		s.onError(err)
		return
	}
	_ = err // no default logging; silence is valid absent a host hook
}

func (s *Stage) reportErrorf(format string, args ...any) {
	s.reportError(fmt.Errorf(format, args...))
}

// FrameCount returns the number of RunFrame calls this stage has completed.
func (s *Stage) FrameCount() int { return s.frameCount }

// Pick finds the front-most display object under worldPoint, or nil.
func (s *Stage) Pick(worldPoint geom.Point, mode HitTestMode) *DisplayObject {
	return s.root.Pick(worldPoint, mode)
}
