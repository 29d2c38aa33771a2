package cinder

import "sort"

// Children returns the depth-order child list. The returned slice MUST
// NOT be mutated; use AddChild/RemoveChild/SetChildIndex instead.
func (d *DisplayObject) Children() []*DisplayObject {
	return d.children
}

// RenderOrder returns the current render-order child list (initially
// identical to depth order, mutable via SetChildIndex).
func (d *DisplayObject) RenderOrder() []*DisplayObject {
	return d.renderOrder
}

// NumChildren returns the number of children in depth order.
func (d *DisplayObject) NumChildren() int {
	return len(d.children)
}

// ChildAt returns the depth-order child at index, or nil if out of range.
func (d *DisplayObject) ChildAt(index int) *DisplayObject {
	if index < 0 || index >= len(d.children) {
		return nil
	}
	return d.children[index]
}

// ChildByName returns the first depth-order child whose Name matches, or
// nil. AVM1/AVM2 property resolution on a clip's named-child field uses
// this.
func (d *DisplayObject) ChildByName(name string) *DisplayObject {
	for _, c := range d.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AddChild appends child to the end of both orderings at the next
// available depth. If child already has a parent, it is first removed
// from that parent (firing a removed event there) before being inserted
// here (firing an added event), matching reparent semantics.
func (d *DisplayObject) AddChild(child *DisplayObject) {
	depth := int16(len(d.children))
	if len(d.children) > 0 {
		depth = d.children[len(d.children)-1].Depth + 1
	}
	d.AddChildAtDepth(child, depth)
}

// AddChildAtDepth inserts child at the given timeline depth, keeping
// both depth order and render order in sync (render order mirrors
// depth order on insertion; SetChildIndex is the only way to diverge
// them).
func (d *DisplayObject) AddChildAtDepth(child *DisplayObject, depth int16) {
	if child.Parent != nil {
		child.Parent.removeChildNoEvent(child)
		dispatchSimple(child, eventRemoved)
	}
	child.Parent = d
	child.Depth = depth
	if d.arena != nil {
		child.attachArena(d.arena)
	}

	i := sort.Search(len(d.children), func(i int) bool { return d.children[i].Depth >= depth })
	d.children = append(d.children, nil)
	copy(d.children[i+1:], d.children[i:])
	d.children[i] = child

	j := len(d.renderOrder)
	for k, r := range d.renderOrder {
		if r.Depth > depth {
			j = k
			break
		}
	}
	d.renderOrder = append(d.renderOrder, nil)
	copy(d.renderOrder[j+1:], d.renderOrder[j:])
	d.renderOrder[j] = child
	markTransformDirty(child)
	dispatchSimple(child, eventAdded)
}

// RemoveChild removes child from this container if it is a direct child.
// Fires a removed event.
func (d *DisplayObject) RemoveChild(child *DisplayObject) {
	if child.Parent != d {
		return
	}
	d.removeChildNoEvent(child)
	dispatchSimple(child, eventRemoved)
}

// RemoveFromParent removes this object from its parent, if any.
func (d *DisplayObject) RemoveFromParent() {
	if d.Parent != nil {
		d.Parent.RemoveChild(d)
	}
}

func (d *DisplayObject) removeChildNoEvent(child *DisplayObject) {
	for i, c := range d.children {
		if c == child {
			d.children = append(d.children[:i], d.children[i+1:]...)
			break
		}
	}
	for i, c := range d.renderOrder {
		if c == child {
			d.renderOrder = append(d.renderOrder[:i], d.renderOrder[i+1:]...)
			break
		}
	}
	child.Parent = nil
}

// SetChildIndex moves child to position index within the render-order
// list only; depth order (and thus child.Depth) is untouched. This is
// how script-driven z-ordering diverges from timeline placement order.
func (d *DisplayObject) SetChildIndex(child *DisplayObject, index int) {
	cur := -1
	for i, c := range d.renderOrder {
		if c == child {
			cur = i
			break
		}
	}
	if cur < 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(d.renderOrder)-1 {
		index = len(d.renderOrder) - 1
	}
	d.renderOrder = append(d.renderOrder[:cur], d.renderOrder[cur+1:]...)
	d.renderOrder = append(d.renderOrder, nil)
	copy(d.renderOrder[index+1:], d.renderOrder[index:])
	d.renderOrder[index] = child
}

// Dispose detaches d from its parent and recursively marks this subtree
// disposed. Disposed objects must not be reused.
func (d *DisplayObject) Dispose() {
	d.RemoveFromParent()
	disposeSubtree(d)
}

func disposeSubtree(d *DisplayObject) {
	d.disposed = true
	for _, c := range d.children {
		c.Parent = nil
		disposeSubtree(c)
	}
	d.children = nil
	d.renderOrder = nil
}
