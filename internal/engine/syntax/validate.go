package syntax

import "fmt"

// SpanError describes a node whose span breaks the tree's structural contract.
type SpanError struct {
	Type   string
	Span   Span
	Reason string
}

func (e *SpanError) Error() string {
	return fmt.Sprintf("%s node at bytes [%d,%d): %s", e.Type, e.Span.StartByte, e.Span.EndByte, e.Reason)
}

// CheckNode validates a single node against the file size and its parent.
// The walker calls it per node so a tree is never validated in a separate pass.
func CheckNode(node, parent *Node, size int) error {
	if node == nil {
		return nil
	}
	if node.Span.StartByte < 0 || node.Span.EndByte < node.Span.StartByte {
		return &SpanError{Type: node.Type, Span: node.Span, Reason: "inverted span"}
	}
	if node.Span.EndByte > size {
		return &SpanError{Type: node.Type, Span: node.Span, Reason: fmt.Sprintf("outside file of %d bytes", size)}
	}
	if parent != nil && !parent.Span.Contains(node.Span) {
		return &SpanError{Type: node.Type, Span: node.Span, Reason: "outside parent span"}
	}
	return nil
}
