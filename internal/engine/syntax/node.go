// Package syntax holds the read-only tree the rule engine walks.
//
// Trees are produced by a parser collaborator (see internal/engine/parser) and
// only borrowed by the engine for the duration of a scan.
package syntax

import "fmt"

// Kind is the closed set of node tags the engine dispatches on.
type Kind uint8

const (
	KindOther Kind = iota
	KindProgram
	KindJSXElement
	KindJSXOpeningElement
	KindJSXClosingElement
	KindJSXText
	KindJSXAttribute
	KindJSXExpression
	KindString
	KindTemplateString
	KindTemplateSubstitution
	KindBinaryExpression
	KindTernaryExpression
	KindCallExpression
	KindArguments
	KindMemberExpression
	KindIdentifier
	KindVariableDeclarator
	KindObject
	KindPair
	KindArray
	// KindParenthesized also covers TypeScript `as`, `satisfies` and non-null
	// wrappers, which do not change a value.
	KindParenthesized
	KindNumber
	KindError

	kindCount
)

var kindNames = [kindCount]string{
	KindOther:                "other",
	KindProgram:              "program",
	KindJSXElement:           "jsx_element",
	KindJSXOpeningElement:    "jsx_opening_element",
	KindJSXClosingElement:    "jsx_closing_element",
	KindJSXText:              "jsx_text",
	KindJSXAttribute:         "jsx_attribute",
	KindJSXExpression:        "jsx_expression",
	KindString:               "string",
	KindTemplateString:       "template_string",
	KindTemplateSubstitution: "template_substitution",
	KindBinaryExpression:     "binary_expression",
	KindTernaryExpression:    "ternary_expression",
	KindCallExpression:       "call_expression",
	KindArguments:            "arguments",
	KindMemberExpression:     "member_expression",
	KindIdentifier:           "identifier",
	KindVariableDeclarator:   "variable_declarator",
	KindObject:               "object",
	KindPair:                 "pair",
	KindArray:                "array",
	KindParenthesized:        "parenthesized",
	KindNumber:               "number",
	KindError:                "error",
}

func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// KindCount is the number of distinct kinds, usable as a lookup-table size.
const KindCount = int(kindCount)

// Position is a 1-based line/column pair.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span locates a node in its file. Byte offsets are half-open [StartByte, EndByte).
type Span struct {
	Start     Position `json:"start"`
	End       Position `json:"end"`
	StartByte int      `json:"start_byte"`
	EndByte   int      `json:"end_byte"`
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Within reports whether the span lies inside a file of size bytes.
func (s Span) Within(size int) bool {
	return s.StartByte >= 0 && s.EndByte >= s.StartByte && s.EndByte <= size
}

// Contains reports whether other lies inside s.
func (s Span) Contains(other Span) bool {
	return other.StartByte >= s.StartByte && other.EndByte <= s.EndByte
}

// Node is one element of a syntax tree. Only named grammar nodes are kept.
type Node struct {
	Kind Kind
	// Type is the raw grammar node type, e.g. "jsx_self_closing_element".
	Type string
	// Field is this node's field name inside its parent ("function", "value", ...).
	Field string
	// Text is populated for literal and identifier-like kinds only.
	Text string
	// Operator is set on binary expressions.
	Operator string
	Span     Span
	Children []*Node
}

// ChildByField returns the first child carrying the given field name.
func (n *Node) ChildByField(field string) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Field == field {
			return child
		}
	}
	return nil
}

// ChildOfKind returns the first child with the given kind.
func (n *Node) ChildOfKind(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

// Is reports whether n is non-nil and of kind k.
func (n *Node) Is(k Kind) bool {
	return n != nil && n.Kind == k
}

// File is a parsed source file handed to the engine.
type File struct {
	Path     string
	Language string
	Source   []byte
	Root     *Node
}

// Size returns the file length in bytes.
func (f *File) Size() int {
	if f == nil {
		return 0
	}
	return len(f.Source)
}

// Slice returns the source text covered by span, or "" when out of range.
func (f *File) Slice(span Span) string {
	if f == nil || !span.Within(len(f.Source)) {
		return ""
	}
	return string(f.Source[span.StartByte:span.EndByte])
}
