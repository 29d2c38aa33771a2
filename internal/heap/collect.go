package heap

// Traceable is implemented by any value stored in the arena that itself
// holds strong [Ref]s to other cells (a class object's property map, a
// display container's child list, an interpreter activation's scope
// stack, ...). The collector calls Trace to discover live outgoing edges;
// values with no outgoing references need not implement it.
type Traceable interface {
	Trace(visit func(Ref))
}

// Collect runs a mark-sweep pass rooted at roots (the stage, interned
// classes, live interpreter activation stacks, and external handles held
// by the host. Cells not reached from roots are freed and
// their generation bumped, so any outstanding [WeakRef] or stale [Ref]
// correctly reports collection instead of resolving to whatever value is
// later allocated into the recycled slot.
//
// The collector tolerates cycles (class<->instance, parent<->child,
// XML node<->parent) by tracking visited indices rather than recursing
// without a visited set.
func (a *Arena) Collect(roots []Ref) (freed int) {
	for i := range a.cells {
		a.cells[i].marked = false
	}

	var stack []uint32
	mark := func(ref Ref) {
		c := a.cellFor(ref)
		if c == nil || c.marked {
			return
		}
		c.marked = true
		stack = append(stack, ref.index)
	}

	for _, r := range roots {
		mark(r)
	}

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c := &a.cells[idx]
		if t, ok := c.value.(Traceable); ok {
			t.Trace(mark)
		}
	}

	for idx := 1; idx < len(a.cells); idx++ {
		c := &a.cells[idx]
		if c.alive && !c.marked {
			c.value = nil
			c.alive = false
			c.gen++
			a.free = append(a.free, uint32(idx))
			freed++
		}
	}
	return freed
}

// Live returns the number of currently allocated (reachable-or-not,
// i.e. not yet swept) cells. Exposed for diagnostics and tests.
func (a *Arena) Live() int {
	n := 0
	for i := 1; i < len(a.cells); i++ {
		if a.cells[i].alive {
			n++
		}
	}
	return n
}
