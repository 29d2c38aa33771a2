package cinder

// EventKind identifies the kind of event flowing through the display
// list's capture/target/bubble dispatch.
type EventKind uint8

const (
	eventAdded EventKind = iota
	eventRemoved
	eventAddedToStage
	eventRemovedFromStage

	EventMouseDown
	EventMouseUp
	EventMouseMove
	EventClick
	EventRollOver
	EventRollOut
	EventPress
	EventRelease
	EventReleaseOutside

	EventKeyDown
	EventKeyUp
)

// Event carries one dispatch through the display list. Target is fixed
// at dispatch time; CurrentTarget changes as the walk advances through
// capture, target, and bubble phases.
type Event struct {
	Kind          EventKind
	Target        *DisplayObject
	CurrentTarget *DisplayObject
	Bubbles       bool
	stopped       bool
}

// StopPropagation halts the walk after the current listener finishes
// handling this dispatch; no further ancestors (or descendants, during
// capture) are visited.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Listener receives a dispatched event.
type Listener func(*Event)

type listenerEntry struct {
	kind EventKind
	fn   Listener
}

// On registers fn to run whenever an event of kind is dispatched with d
// as its CurrentTarget during any phase (capture, target, or bubble).
// Returns a handle whose Remove un-registers it.
func (d *DisplayObject) On(kind EventKind, fn Listener) *ListenerHandle {
	entry := &listenerEntry{kind: kind, fn: fn}
	d.listeners = append(d.listeners, entry)
	return &ListenerHandle{owner: d, entry: entry}
}

// ListenerHandle identifies one registered listener for later removal.
type ListenerHandle struct {
	owner *DisplayObject
	entry *listenerEntry
}

// Remove un-registers the listener. Safe to call more than once.
func (h *ListenerHandle) Remove() {
	if h == nil || h.owner == nil {
		return
	}
	for i, e := range h.owner.listeners {
		if e == h.entry {
			h.owner.listeners = append(h.owner.listeners[:i], h.owner.listeners[i+1:]...)
			break
		}
	}
	h.owner = nil
}

// Dispatch runs the capture (stage->target, exclusive), target, and
// bubble (target's parent->stage, exclusive) phases for kind targeting
// d, synchronously on the calling goroutine. Only objects for which
// Bubbles is honored; a non-bubbling event still runs capture+target
// but skips the bubble walk.
func (d *DisplayObject) Dispatch(kind EventKind, bubbles bool) {
	ev := &Event{Kind: kind, Target: d, Bubbles: bubbles}

	var chain []*DisplayObject
	for a := d.Parent; a != nil; a = a.Parent {
		chain = append(chain, a)
	}
	// chain is target->...->stage; capture walks stage->target, exclusive.
	for i := len(chain) - 1; i >= 0; i-- {
		fireListeners(chain[i], ev)
		if ev.stopped {
			return
		}
	}

	fireListeners(d, ev)
	if ev.stopped || !bubbles {
		return
	}

	for _, a := range chain {
		fireListeners(a, ev)
		if ev.stopped {
			return
		}
	}
}

func fireListeners(target *DisplayObject, ev *Event) {
	ev.CurrentTarget = target
	for _, e := range target.listeners {
		if e.kind == ev.Kind {
			e.fn(ev)
			if ev.stopped {
				return
			}
		}
	}
}

// dispatchSimple fires a non-bubbling lifecycle event (added/removed)
// directly at d without a capture/bubble walk; these fire once, at the
// node whose attachment changed.
func dispatchSimple(d *DisplayObject, kind EventKind) {
	ev := &Event{Kind: kind, Target: d, CurrentTarget: d}
	for _, e := range d.listeners {
		if e.kind == kind {
			e.fn(ev)
			if ev.stopped {
				return
			}
		}
	}
}
