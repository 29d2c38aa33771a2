package e4x

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseOptions controls the elision rules of Parse.
type ParseOptions struct {
	// IgnoreWhite elides whitespace-only text nodes.
	IgnoreWhite bool
	// IgnoreComments elides comment nodes.
	IgnoreComments bool
	// IgnoreProcessingInstructions elides processing-instruction nodes.
	IgnoreProcessingInstructions bool
}

// ParseError is a typed AVM2 error from the parser, with a Code
// distinguishing unterminated CDATA/comment/DOCTYPE/processing
// instruction/element and duplicate attributes.
type ParseError struct {
	Code ErrorCode
	Msg  string
}

func (e *ParseError) Error() string { return fmt.Sprintf("e4x parse error (%s): %s", e.Code, e.Msg) }

// ErrorCode enumerates the distinct XML parse error codes.
type ErrorCode string

const (
	ErrUnterminatedCDATA   ErrorCode = "unterminated-cdata"
	ErrUnterminatedComment ErrorCode = "unterminated-comment"
	ErrUnterminatedDoctype ErrorCode = "unterminated-doctype"
	ErrUnterminatedPI      ErrorCode = "unterminated-processing-instruction"
	ErrUnterminatedElement ErrorCode = "unterminated-element"
	ErrDuplicateAttribute  ErrorCode = "duplicate-attribute"
	ErrUnboundNamespacePfx ErrorCode = "unbound-namespace-prefix"
)

const reservedXMLPrefix = "xml"

// Parse consumes s and returns its top-level nodes. It is built
// on the standard library's encoding/xml tokenizer — no XML parsing
// library appears anywhere in the example corpus, so the stdlib decoder
// is used directly rather than introducing an unrelated dependency; see
// DESIGN.md.
func Parse(s string, opts ParseOptions) ([]*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(s))
	dec.Strict = true

	var stack []parseScope
	var roots []*Node

	appendNode := func(n *Node) {
		if len(stack) == 0 {
			roots = append(roots, n)
			return
		}
		parent := stack[len(stack)-1].node
		n.Parent = parent
		parent.Children = append(parent.Children, n)
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, classifyTokenError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			declared := map[string]string{}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					declared[a.Name.Local] = a.Value
				} else if a.Name.Space == "" && a.Name.Local == "xmlns" {
					declared[""] = a.Value
				}
			}

			if err := checkBoundPrefix(t.Name, declared, stack); err != nil {
				return nil, err
			}

			elem := NewElement(t.Name.Space, t.Name.Local)
			seen := map[xml.Name]bool{}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
					continue
				}
				if seen[a.Name] {
					return nil, &ParseError{Code: ErrDuplicateAttribute, Msg: a.Name.Local}
				}
				seen[a.Name] = true
				if err := checkBoundPrefix(a.Name, declared, stack); err != nil {
					return nil, err
				}
				elem.Attributes = append(elem.Attributes, Attribute{
					Namespace: a.Name.Space, Name: a.Name.Local, Value: a.Value,
				})
			}

			appendNode(elem)
			stack = append(stack, parseScope{prefixToURI: declared, node: elem})

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, &ParseError{Code: ErrUnterminatedElement, Msg: t.Name.Local}
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			text := string(t)
			if opts.IgnoreWhite && strings.TrimSpace(text) == "" {
				continue
			}
			appendNode(NewText(text))

		case xml.Comment:
			if opts.IgnoreComments {
				continue
			}
			appendNode(&Node{Kind: KindComment, Text: string(t)})

		case xml.ProcInst:
			if opts.IgnoreProcessingInstructions {
				continue
			}
			appendNode(&Node{Kind: KindProcessingInstruction, Target: t.Target, Text: string(t.Inst)})

		case xml.Directive:
			// DOCTYPE and other directives are not modeled as E4X nodes;
			// an unterminated one surfaces as a decoder error above.
		}
	}

	if len(stack) != 0 {
		return nil, &ParseError{Code: ErrUnterminatedElement, Msg: stack[len(stack)-1].node.Local}
	}

	return roots, nil
}

// parseScope tracks the xmlns:* prefix bindings declared on one element,
// plus a back-link to the element itself (used only for error messages).
type parseScope struct {
	prefixToURI map[string]string
	node        *Node
}

func checkBoundPrefix(name xml.Name, declaredHere map[string]string, stack []parseScope) error {
	if name.Space == "" || name.Space == reservedXMLPrefix {
		return nil
	}
	for _, uri := range declaredHere {
		if uri == name.Space {
			return nil
		}
	}
	for i := len(stack) - 1; i >= 0; i-- {
		for _, uri := range stack[i].prefixToURI {
			if uri == name.Space {
				return nil
			}
		}
	}
	return &ParseError{Code: ErrUnboundNamespacePfx, Msg: name.Space}
}

func classifyTokenError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "CDATA"):
		return &ParseError{Code: ErrUnterminatedCDATA, Msg: msg}
	case strings.Contains(msg, "comment"):
		return &ParseError{Code: ErrUnterminatedComment, Msg: msg}
	case strings.Contains(msg, "DOCTYPE") || strings.Contains(msg, "directive"):
		return &ParseError{Code: ErrUnterminatedDoctype, Msg: msg}
	case strings.Contains(msg, "processing instruction") || strings.Contains(msg, "<?"):
		return &ParseError{Code: ErrUnterminatedPI, Msg: msg}
	default:
		return &ParseError{Code: ErrUnterminatedElement, Msg: msg}
	}
}
