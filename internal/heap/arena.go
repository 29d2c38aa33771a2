// Package heap implements the mutation arena: a single cyclic-graph-
// tolerant store for every script object and display object in a movie,
// addressed by generational reference instead of raw pointers.
//
// There are no raw pointers in script-visible state. A [Ref] is a small
// value (index + generation) that is only valid as long as the generation
// matches the slot's current generation; once the slot is recycled by the
// collector, old Refs report collection instead of resolving to someone
// else's data (see [WeakRef]).
package heap

import "fmt"

// Ref addresses a single cell in the arena. The zero Ref is never valid
// (index 0 is reserved).
type Ref struct {
	index uint32
	gen   uint32
}

// IsZero reports whether r is the zero value (never allocated).
func (r Ref) IsZero() bool { return r.index == 0 }

type cell struct {
	value  any
	gen    uint32
	alive  bool
	marked bool
}

// Arena owns every heap cell for one movie. It is not safe for concurrent
// use — the runtime is single-threaded and cooperatively
// scheduled, so the arena requires no locking.
type Arena struct {
	cells []cell
	free  []uint32
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	// index 0 is reserved so the zero Ref is always invalid.
	return &Arena{cells: make([]cell, 1, 256)}
}

// Alloc stores value in a fresh cell and returns its strong reference.
func (a *Arena) Alloc(value any) Ref {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
		a.cells[idx].value = value
		a.cells[idx].alive = true
	} else {
		idx = uint32(len(a.cells))
		a.cells = append(a.cells, cell{value: value, alive: true})
	}
	return Ref{index: idx, gen: a.cells[idx].gen}
}

// Get returns an immutable borrow of the value at ref. The returned bool
// is false if ref has been collected.
func (a *Arena) Get(ref Ref) (any, bool) {
	c := a.cellFor(ref)
	if c == nil {
		return nil, false
	}
	return c.value, true
}

// MustGet is Get but panics on a stale reference; used at call sites that
// hold a Token proving the object is still rooted (e.g. the currently
// executing activation's receiver).
func (a *Arena) MustGet(ref Ref) any {
	v, ok := a.Get(ref)
	if !ok {
		panic(fmt.Sprintf("heap: stale reference %v", ref))
	}
	return v
}

// Set replaces the value stored at ref and reports false if ref has
// been collected. Requires a Token.
func (a *Arena) Set(_ Token, ref Ref, value any) bool {
	c := a.cellFor(ref)
	if c == nil {
		return false
	}
	c.value = value
	return true
}

// Mutate replaces the value at ref with fn's result (fn receives the
// current value) and reports false, without calling fn, if ref has been
// collected. Requires a Token.
func (a *Arena) Mutate(tok Token, ref Ref, fn func(any) any) bool {
	c := a.cellFor(ref)
	if c == nil {
		return false
	}
	c.value = fn(c.value)
	_ = tok
	return true
}

func (a *Arena) cellFor(ref Ref) *cell {
	if ref.IsZero() || int(ref.index) >= len(a.cells) {
		return nil
	}
	c := &a.cells[ref.index]
	if !c.alive || c.gen != ref.gen {
		return nil
	}
	return c
}

// Weak returns a [WeakRef] to ref's cell.
func (a *Arena) Weak(ref Ref) WeakRef {
	return WeakRef{arena: a, ref: ref}
}

// WeakRef is a reference that does not keep its target alive; Resolve
// reports collection once its cell has been swept.
type WeakRef struct {
	arena *Arena
	ref   Ref
}

// Resolve returns the referenced value, or (nil, false) if it has been
// collected.
func (w WeakRef) Resolve() (any, bool) {
	if w.arena == nil {
		return nil, false
	}
	return w.arena.Get(w.ref)
}

// Ref exposes the underlying strong-typed reference (e.g. to re-root an
// object found via a weak link).
func (w WeakRef) Ref() Ref { return w.ref }
