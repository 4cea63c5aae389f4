package parser

import (
	"i18nscan/internal/engine/syntax"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// buildTree copies the named nodes of a tree-sitter tree into a syntax tree so
// the engine never holds cgo handles past tree.Close().
func buildTree(root *sitter.Node, source []byte) *syntax.Node {
	if root == nil {
		return nil
	}
	return buildNode(root, "", source)
}

func buildNode(node *sitter.Node, field string, source []byte) *syntax.Node {
	grammarType := node.Kind()
	kind := syntax.KindOf(grammarType)
	out := &syntax.Node{
		Kind:  kind,
		Type:  grammarType,
		Field: field,
		Span:  spanOf(node),
	}
	if syntax.KeepsText(kind) {
		out.Text = string(source[node.StartByte():node.EndByte()])
	}
	if kind == syntax.KindBinaryExpression {
		if op := node.ChildByFieldName("operator"); op != nil {
			out.Operator = op.Kind()
		}
	}

	count := node.ChildCount()
	if count == 0 {
		return out
	}
	out.Children = make([]*syntax.Node, 0, count)
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		out.Children = append(out.Children, buildNode(child, node.FieldNameForChild(uint32(i)), source))
	}
	return out
}

func spanOf(node *sitter.Node) syntax.Span {
	start := node.StartPosition()
	end := node.EndPosition()
	return syntax.Span{
		Start:     syntax.Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1},
		End:       syntax.Position{Line: int(end.Row) + 1, Column: int(end.Column) + 1},
		StartByte: int(node.StartByte()),
		EndByte:   int(node.EndByte()),
	}
}
