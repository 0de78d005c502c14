// Package sexpr reads the s-expressions printed by ast.Dump and matches them
// against patterns written in golden test documents.
package sexpr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeEllipsis
	NodeList
)

// Node represents any s-expression datum
type Node struct {
	Type  NodeType
	Text  string  // NodeSymbol, NodeString
	Items []*Node // NodeList
}

func NewSymbol(name string) *Node  { return &Node{Type: NodeSymbol, Text: name} }
func NewString(value string) *Node { return &Node{Type: NodeString, Text: value} }
func NewEllipsis() *Node           { return &Node{Type: NodeEllipsis} }
func NewList(items ...*Node) *Node { return &Node{Type: NodeList, Items: items} }

func (n *Node) String() string {
	switch n.Type {
	case NodeSymbol:
		return n.Text
	case NodeString:
		return strconv.Quote(n.Text)
	case NodeEllipsis:
		return "..."
	case NodeList:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return fmt.Sprintf("UNKNOWN_NODE_TYPE_%d", n.Type)
}

// IsAtom checks if the node is an atomic value
func (n *Node) IsAtom() bool {
	return n.Type != NodeList
}

// Parse parses exactly one datum. Text after ';' up to the end of the line
// is a comment.
func Parse(input string) (*Node, error) {
	r := &reader{input: input}
	node, err := r.datum()
	if err != nil {
		return nil, err
	}
	r.skipSpace()
	if r.pos < len(r.input) {
		return nil, fmt.Errorf("offset %d: expected end of input, found %q", r.pos, r.input[r.pos:])
	}
	return node, nil
}

// Canonical reformats input with single spaces so that two dumps can be
// compared as strings regardless of line breaks and indentation.
func Canonical(input string) (string, error) {
	node, err := Parse(input)
	if err != nil {
		return "", err
	}
	return node.String(), nil
}

type reader struct {
	input string
	pos   int
}

func (r *reader) skipSpace() {
	for r.pos < len(r.input) {
		c := r.input[r.pos]
		switch {
		case c == ';':
			for r.pos < len(r.input) && r.input[r.pos] != '\n' {
				r.pos++
			}
		case unicode.IsSpace(rune(c)):
			r.pos++
		default:
			return
		}
	}
}

func (r *reader) datum() (*Node, error) {
	r.skipSpace()
	if r.pos >= len(r.input) {
		return nil, fmt.Errorf("offset %d: unexpected end of input", r.pos)
	}

	switch r.input[r.pos] {
	case '(':
		return r.list()
	case ')':
		return nil, fmt.Errorf("offset %d: unexpected ')'", r.pos)
	case '"':
		return r.str()
	}

	start := r.pos
	for r.pos < len(r.input) && isSymbolChar(r.input[r.pos]) {
		r.pos++
	}
	text := r.input[start:r.pos]
	if text == "..." {
		return NewEllipsis(), nil
	}
	return NewSymbol(text), nil
}

func (r *reader) list() (*Node, error) {
	open := r.pos
	r.pos++ // '('

	list := NewList()
	for {
		r.skipSpace()
		if r.pos >= len(r.input) {
			return nil, fmt.Errorf("offset %d: unterminated list", open)
		}
		if r.input[r.pos] == ')' {
			r.pos++
			return list, nil
		}
		item, err := r.datum()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}
}

// str reads a Go-syntax quoted string, the format ast.Dump writes.
func (r *reader) str() (*Node, error) {
	start := r.pos
	r.pos++
	for r.pos < len(r.input) {
		switch r.input[r.pos] {
		case '\\':
			r.pos += 2
			continue
		case '"':
			r.pos++
			value, err := strconv.Unquote(r.input[start:r.pos])
			if err != nil {
				return nil, fmt.Errorf("offset %d: %w", start, err)
			}
			return NewString(value), nil
		}
		r.pos++
	}
	return nil, fmt.Errorf("offset %d: unterminated string", start)
}

func isSymbolChar(c byte) bool {
	switch c {
	case '(', ')', '"', ';':
		return false
	}
	return !unicode.IsSpace(rune(c))
}

// Match checks actual against pattern. In a pattern the symbol `_` matches
// any single datum and a trailing `...` in a list matches any remaining
// items. The error names the path to the first mismatch.
func Match(pattern, actual *Node) error {
	return match(pattern, actual, "root")
}

func match(pattern, actual *Node, path string) error {
	if pattern.Type == NodeSymbol && pattern.Text == "_" {
		return nil
	}
	if pattern.Type != actual.Type {
		return fmt.Errorf("at %s: expected %s, got %s", path, pattern, actual)
	}
	if pattern.IsAtom() {
		if pattern.Text != actual.Text {
			return fmt.Errorf("at %s: expected %s, got %s", path, pattern, actual)
		}
		return nil
	}

	for i, item := range pattern.Items {
		if item.Type == NodeEllipsis {
			if i != len(pattern.Items)-1 {
				return fmt.Errorf("at %s: '...' must be the last item of a list", path)
			}
			return nil
		}
		if i >= len(actual.Items) {
			return fmt.Errorf("at %s: expected %s, list ends after %d items", path, item, len(actual.Items))
		}
		if err := match(item, actual.Items[i], fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	if len(actual.Items) > len(pattern.Items) {
		return fmt.Errorf("at %s: unexpected extra item %s", path, actual.Items[len(pattern.Items)])
	}
	return nil
}
