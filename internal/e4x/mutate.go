package e4x

import "fmt"

// ErrAncestorInsertion is returned when inserting a node into itself or
// one of its own ancestors.
var ErrAncestorInsertion = fmt.Errorf("e4x: cannot insert a node into itself or an ancestor")

// AppendChild appends child to n's children (ECMA-357 9.1.1 append), a
// no-op returning an error if n is not an element.
func (n *Node) AppendChild(child *Node) error {
	if !n.IsElement() {
		return fmt.Errorf("e4x: cannot append a child to a non-element node")
	}
	if n.IsAncestorOrSelf(child) {
		return ErrAncestorInsertion
	}
	child.Parent = n
	child.attachArena(n.arena)
	n.Children = append(n.Children, child)
	return nil
}

// InsertAt inserts value at index, per ECMA-357 9.1.1.11 [[Insert]]. If
// value is itself a list (represented by the caller passing multiple
// nodes via InsertListAt) use that variant instead; InsertAt handles the
// single-node degenerate case, which ECMA-357 defines as delete-then-
// insert via [[Replace]] semantics once room has been made.
func (n *Node) InsertAt(index int, value *Node) error {
	if !n.IsElement() {
		return nil
	}
	if n.IsAncestorOrSelf(value) {
		return ErrAncestorInsertion
	}
	if index < 0 {
		index = 0
	}
	if index > len(n.Children) {
		index = len(n.Children)
	}
	value.Parent = n
	value.attachArena(n.arena)
	n.Children = append(n.Children, nil)
	copy(n.Children[index+1:], n.Children[index:])
	n.Children[index] = value
	return nil
}

// InsertListAt inserts every node in values starting at index, in order
// (ECMA-357 9.1.1.11 step 10: inserting an XMLList).
func (n *Node) InsertListAt(index int, values []*Node) error {
	if !n.IsElement() {
		return nil
	}
	if index < 0 {
		index = 0
	}
	if index > len(n.Children) {
		index = len(n.Children)
	}
	for _, v := range values {
		if n.IsAncestorOrSelf(v) {
			return ErrAncestorInsertion
		}
		v.Parent = n
		v.attachArena(n.arena)
	}
	tail := append([]*Node(nil), n.Children[index:]...)
	n.Children = append(n.Children[:index], values...)
	n.Children = append(n.Children, tail...)
	return nil
}

// Replace replaces the child at index with value (ECMA-357 9.1.1.12
// [[Replace]]). Replacing with an attribute node is rejected (the XML
// attribute case the Rust source special-cases).
func (n *Node) Replace(index int, value *Node) error {
	if !n.IsElement() {
		return nil
	}
	if value.Kind == KindAttribute {
		return nil
	}
	if index < 0 || index >= len(n.Children) {
		return nil
	}
	if n.IsAncestorOrSelf(value) {
		return ErrAncestorInsertion
	}
	old := n.Children[index]
	old.Parent = nil
	value.Parent = n
	value.attachArena(n.arena)
	n.Children[index] = value
	return nil
}

// DeleteByIndex removes the child at index, detaching its parent link
// (ECMA-357 9.1.1.4 [[DeleteByIndex]]). Out-of-range indices are a no-op.
func (n *Node) DeleteByIndex(index int) {
	if !n.IsElement() || index < 0 || index >= len(n.Children) {
		return
	}
	child := n.Children[index]
	child.Parent = nil
	n.Children = append(n.Children[:index], n.Children[index+1:]...)
}

// RemoveMatchingChildren removes every element child whose local name
// equals name, detaching each.
func (n *Node) RemoveMatchingChildren(name string) {
	if !n.IsElement() {
		return
	}
	kept := n.Children[:0]
	for _, c := range n.Children {
		if c.IsElement() && c.Local == name {
			c.Parent = nil
			continue
		}
		kept = append(kept, c)
	}
	n.Children = kept
}

// RemoveChild detaches a specific child node, matched by identity.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.DeleteByIndex(i)
			return
		}
	}
}

// RemoveAttribute detaches a specific attribute, matched by local name.
func (n *Node) RemoveAttribute(local string) {
	for i, a := range n.Attributes {
		if a.Name == local {
			n.Attributes = append(n.Attributes[:i], n.Attributes[i+1:]...)
			return
		}
	}
}
