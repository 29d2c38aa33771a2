package e4x

import "sort"

// Equals implements structural XML equality: same kind, name,
// text payload, children (in order), and attributes compared as sets
// (attribute order is ignored).
func Equals(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Namespace != b.Namespace || a.Local != b.Local {
		return false
	}

	switch a.Kind {
	case KindText, KindCData, KindComment:
		return a.Text == b.Text
	case KindProcessingInstruction:
		return a.Target == b.Target && a.Text == b.Text
	case KindAttribute:
		return a.Text == b.Text
	}

	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equals(a.Children[i], b.Children[i]) {
			return false
		}
	}

	return attributesEqual(a.Attributes, b.Attributes)
}

func attributesEqual(a, b []Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]Attribute(nil), a...)
	sb := append([]Attribute(nil), b...)
	less := func(s []Attribute) func(i, j int) bool {
		return func(i, j int) bool {
			if s[i].Namespace != s[j].Namespace {
				return s[i].Namespace < s[j].Namespace
			}
			return s[i].Name < s[j].Name
		}
	}
	sort.Slice(sa, less(sa))
	sort.Slice(sb, less(sb))
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}
