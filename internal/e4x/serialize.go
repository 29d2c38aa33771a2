package e4x

import "strings"

// PrintOptions controls serialization. A negative
// Indent disables pretty printing regardless of Pretty.
type PrintOptions struct {
	Pretty bool
	Indent int
}

// Serialize renders n (and its subtree) as well-formed markup.
func Serialize(n *Node, opts PrintOptions) string {
	var b strings.Builder
	pretty := opts.Pretty && opts.Indent >= 0
	writeNode(&b, n, 0, pretty, opts.Indent)
	return b.String()
}

// SerializeAll renders a top-level node list, each on its own line when
// pretty-printing.
func SerializeAll(nodes []*Node, opts PrintOptions) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = Serialize(n, opts)
	}
	return strings.Join(parts, "\n")
}

func writeNode(b *strings.Builder, n *Node, depth int, pretty bool, indent int) {
	pad := ""
	if pretty {
		pad = strings.Repeat(" ", depth*indent)
	}

	switch n.Kind {
	case KindText:
		b.WriteString(pad)
		b.WriteString(escapeElementValue(n.Text))
		return
	case KindCData:
		b.WriteString(pad)
		b.WriteString("<![CDATA[")
		b.WriteString(n.Text)
		b.WriteString("]]>")
		return
	case KindComment:
		b.WriteString(pad)
		b.WriteString("<!--")
		b.WriteString(n.Text)
		b.WriteString("-->")
		return
	case KindProcessingInstruction:
		b.WriteString(pad)
		b.WriteString("<?")
		b.WriteString(n.Target)
		if n.Text != "" {
			b.WriteByte(' ')
			b.WriteString(n.Text)
		}
		b.WriteString("?>")
		return
	case KindAttribute:
		b.WriteString(escapeAttributeValue(n.Text))
		return
	}

	// Element.
	b.WriteString(pad)
	b.WriteByte('<')
	b.WriteString(qualifiedName(n.Namespace, n.Local))
	for _, a := range n.Attributes {
		b.WriteByte(' ')
		b.WriteString(qualifiedName(a.Namespace, a.Name))
		b.WriteString(`="`)
		b.WriteString(escapeAttributeValue(a.Value))
		b.WriteByte('"')
	}

	if len(n.Children) == 0 {
		b.WriteString("/>")
		return
	}

	b.WriteByte('>')
	onlySimpleText := len(n.Children) == 1 && n.Children[0].Kind == KindText

	if pretty && !onlySimpleText {
		b.WriteByte('\n')
	}
	for _, c := range n.Children {
		writeNode(b, c, depth+1, pretty && !onlySimpleText, indent)
		if pretty && !onlySimpleText {
			b.WriteByte('\n')
		}
	}
	if pretty && !onlySimpleText {
		b.WriteString(pad)
	}
	b.WriteString("</")
	b.WriteString(qualifiedName(n.Namespace, n.Local))
	b.WriteByte('>')
}

func qualifiedName(namespace, local string) string {
	if namespace == "" {
		return local
	}
	return namespace + ":" + local
}

func escapeElementValue(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func escapeAttributeValue(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", `"`, "&quot;", "\n", "&#xA;", "\t", "&#x9;")
	return r.Replace(s)
}
