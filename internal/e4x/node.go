// Package e4x implements the E4X-style XML value tree used by AVM2: a
// separate tree of {element, attribute, text, cdata, comment,
// processing-instruction} nodes with ECMA-357 mutation semantics,
// grounded on original_source/core/src/avm2/e4x.rs.
package e4x

import "github.com/cindervm/cinder/internal/heap"

// Kind distinguishes the E4X node variants.
type Kind uint8

const (
	KindElement Kind = iota
	KindAttribute
	KindText
	KindCData
	KindComment
	KindProcessingInstruction
)

// Attribute is a single element attribute (name + value); attributes are
// ordered but comparison under Equals ignores that order.
type Attribute struct {
	Namespace string
	Name      string
	Value     string
}

// Node is one node of the E4X tree. Attribute/child ordering is
// preserved for element nodes; text/cdata/comment/PI nodes carry only a
// payload string.
type Node struct {
	Kind      Kind
	Namespace string
	Local     string

	// Parent is a weak back-link; nil for a root node.
	Parent *Node

	// Element-only payload.
	Attributes []Attribute
	Children   []*Node

	// Text/CData/Comment/ProcessingInstruction payload.
	Text string

	// Target is the processing-instruction target (e.g. "xml-stylesheet").
	Target string

	// Arena identity. Every node allocates
	// into its own single-node arena at construction; attachArena
	// re-homes a subtree into its new parent's arena the moment it is
	// actually linked in (AppendChild/InsertAt/InsertListAt/Replace),
	// so a whole document ends up sharing one arena by the time it has
	// any root-reachable shape, without a constructor parameter at
	// every NewElement/NewText call site.
	arena   *heap.Arena
	selfRef heap.Ref
}

// NewElement creates an empty element node.
func NewElement(namespace, local string) *Node {
	n := &Node{Kind: KindElement, Namespace: namespace, Local: local}
	n.arena = heap.NewArena()
	n.selfRef = n.arena.Alloc(n)
	return n
}

// NewText creates a text node.
func NewText(text string) *Node {
	n := &Node{Kind: KindText, Text: text}
	n.arena = heap.NewArena()
	n.selfRef = n.arena.Alloc(n)
	return n
}

// Ref returns n's reference within its current arena.
func (n *Node) Ref() heap.Ref { return n.selfRef }

// Arena returns the arena n is currently hosted in.
func (n *Node) Arena() *heap.Arena { return n.arena }

// Trace reports n's children as live outgoing edges, the same
// cycle-tolerant discovery the collector uses for the display tree and
// AVM1/AVM2 script objects.
func (n *Node) Trace(visit func(heap.Ref)) {
	for _, c := range n.Children {
		if !c.selfRef.IsZero() {
			visit(c.selfRef)
		}
	}
}

// attachArena re-homes n (and its already-linked subtree) into arena,
// called whenever n is actually inserted under a parent so the whole
// reachable document converges on one shared arena.
func (n *Node) attachArena(arena *heap.Arena) {
	if n.arena == arena {
		return
	}
	n.arena = arena
	n.selfRef = arena.Alloc(n)
	for _, c := range n.Children {
		c.attachArena(arena)
	}
}

// IsElement reports whether n is an element node (the only kind that may
// have children/attributes; the insert/replace/append family are
// no-ops on every other kind.
func (n *Node) IsElement() bool { return n.Kind == KindElement }

// Ancestors yields n's parent, grandparent, ... up to the root, used by
// the insert-ancestor-rejection check.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// IsAncestorOrSelf reports whether target is n itself or one of n's
// ancestors.
func (n *Node) IsAncestorOrSelf(target *Node) bool {
	if n == target {
		return true
	}
	for _, a := range n.Ancestors() {
		if a == target {
			return true
		}
	}
	return false
}

// DeepCopy returns a structural copy of n (and its subtree) with no
// parent link, matching ECMA-357 value semantics for XML assignment.
func (n *Node) DeepCopy() *Node {
	cp := &Node{
		Kind: n.Kind, Namespace: n.Namespace, Local: n.Local,
		Text: n.Text, Target: n.Target,
	}
	cp.arena = heap.NewArena()
	cp.selfRef = cp.arena.Alloc(cp)
	if n.Attributes != nil {
		cp.Attributes = append([]Attribute(nil), n.Attributes...)
	}
	for _, c := range n.Children {
		child := c.DeepCopy()
		child.Parent = cp
		child.attachArena(cp.arena)
		cp.Children = append(cp.Children, child)
	}
	return cp
}
