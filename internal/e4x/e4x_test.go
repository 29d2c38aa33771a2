package e4x

import (
	"errors"
	"testing"
)

func TestParseSerializeRoundTrip(t *testing.T) {
	const src = "<a><b/><c>x</c></a>"
	nodes, err := Parse(src, ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("Parse() returned %d top-level nodes, want 1", len(nodes))
	}

	got := Serialize(nodes[0], PrintOptions{})
	if got != src {
		t.Errorf("round trip = %q, want %q", got, src)
	}
}

func TestEqualsIgnoresAttributeOrder(t *testing.T) {
	a, err := Parse(`<e x="1" y="2"/>`, ParseOptions{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse(`<e y="2" x="1"/>`, ParseOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !Equals(a[0], b[0]) {
		t.Error("Equals should ignore attribute order")
	}
}

func TestIgnoreWhiteElidesWhitespaceText(t *testing.T) {
	nodes, err := Parse("<a>\n  <b/>\n</a>", ParseOptions{IgnoreWhite: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes[0].Children) != 1 {
		t.Fatalf("Children = %d, want 1 (whitespace elided)", len(nodes[0].Children))
	}
}

func TestUnboundPrefixFailsParsing(t *testing.T) {
	_, err := Parse(`<foo:a/>`, ParseOptions{})
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Code != ErrUnboundNamespacePfx {
		t.Errorf("Parse(unbound prefix) error = %v, want ErrUnboundNamespacePfx", err)
	}
}

func TestAppendChildRejectsAncestor(t *testing.T) {
	root := NewElement("", "a")
	child := NewElement("", "b")
	root.AppendChild(child)

	if err := child.AppendChild(root); !errors.Is(err, ErrAncestorInsertion) {
		t.Errorf("AppendChild(ancestor) error = %v, want ErrAncestorInsertion", err)
	}
}

func TestDeleteByIndexDetachesParent(t *testing.T) {
	root := NewElement("", "a")
	child := NewElement("", "b")
	root.AppendChild(child)

	root.DeleteByIndex(0)

	if len(root.Children) != 0 {
		t.Error("DeleteByIndex should remove the child")
	}
	if child.Parent != nil {
		t.Error("DeleteByIndex should clear the removed child's parent link")
	}
}

func TestRemoveMatchingChildren(t *testing.T) {
	root, _ := Parse("<a><b/><c/><b/></a>", ParseOptions{})
	root[0].RemoveMatchingChildren("b")
	if len(root[0].Children) != 1 || root[0].Children[0].Local != "c" {
		t.Errorf("RemoveMatchingChildren left %v, want only <c/>", root[0].Children)
	}
}

func TestInsertAtDegenerateReplace(t *testing.T) {
	root := NewElement("", "a")
	root.AppendChild(NewText("x"))

	if err := root.InsertAt(0, NewText("y")); err != nil {
		t.Fatalf("InsertAt error = %v", err)
	}
	if len(root.Children) != 2 || root.Children[0].Text != "y" {
		t.Errorf("Children = %v, want [y x]", root.Children)
	}
}
