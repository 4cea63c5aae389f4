// Package matcher holds the side-effect-free node predicates and value
// extractors shared by every rule.
package matcher

import (
	"i18nscan/internal/engine/syntax"
)

// IsJSXTextNode reports whether node is raw text between JSX tags.
func IsJSXTextNode(node *syntax.Node) bool {
	return node.Is(syntax.KindJSXText)
}

// IsJSXAttributeValue reports whether node is the value of a JSX attribute
// named attrName. ancestors is the chain from the root down to node's parent.
func IsJSXAttributeValue(node *syntax.Node, ancestors []*syntax.Node, attrName string) bool {
	if node == nil || len(ancestors) == 0 {
		return false
	}
	parent := ancestors[len(ancestors)-1]
	if !parent.Is(syntax.KindJSXAttribute) {
		return false
	}
	return JSXAttributeName(parent) == attrName && JSXAttributeValue(parent) == node
}

// JSXAttributeName returns the attribute's name, including namespace or
// hyphenated forms such as "aria-label".
func JSXAttributeName(attr *syntax.Node) string {
	if !attr.Is(syntax.KindJSXAttribute) || len(attr.Children) == 0 {
		return ""
	}
	name := attr.Children[0]
	if !name.Is(syntax.KindIdentifier) {
		return ""
	}
	return name.Text
}

// JSXAttributeValue returns the attribute's value node, or nil for bare
// boolean attributes like <input disabled />.
func JSXAttributeValue(attr *syntax.Node) *syntax.Node {
	if !attr.Is(syntax.KindJSXAttribute) || len(attr.Children) < 2 {
		return nil
	}
	return attr.Children[1]
}

// JSXElementName returns the tag name of a JSX element ("div", "Trans",
// "Foo.Bar"), or "" for fragments and names it cannot spell.
func JSXElementName(element *syntax.Node) string {
	if !element.Is(syntax.KindJSXElement) {
		return ""
	}
	holder := element
	if opening := element.ChildOfKind(syntax.KindJSXOpeningElement); opening != nil {
		holder = opening
	}
	return dottedName(holder.ChildByField("name"))
}

// CalleeName spells the function being called as a dotted path:
// t, i18n.t, toast.error, this.$t. Computed or call-result callees yield "".
func CalleeName(call *syntax.Node) string {
	if !call.Is(syntax.KindCallExpression) {
		return ""
	}
	return dottedName(call.ChildByField("function"))
}

func dottedName(node *syntax.Node) string {
	if node == nil {
		return ""
	}
	switch node.Kind {
	case syntax.KindIdentifier:
		return node.Text
	case syntax.KindMemberExpression:
		objectNode, propertyNode := node.ChildByField("object"), node.ChildByField("property")
		// JSX member names (<Foo.Bar>) may come without field names.
		if objectNode == nil && propertyNode == nil && len(node.Children) == 2 {
			objectNode, propertyNode = node.Children[0], node.Children[1]
		}
		object := dottedName(objectNode)
		property := dottedName(propertyNode)
		if object == "" || property == "" {
			return ""
		}
		return object + "." + property
	case syntax.KindParenthesized:
		if len(node.Children) == 1 {
			return dottedName(node.Children[0])
		}
	}
	return ""
}

// CallArguments returns a call's argument expressions in order. A tagged
// template (t`key`) yields the template as its only argument.
func CallArguments(call *syntax.Node) []*syntax.Node {
	if !call.Is(syntax.KindCallExpression) {
		return nil
	}
	args := call.ChildByField("arguments")
	if args == nil {
		return nil
	}
	if args.Is(syntax.KindTemplateString) {
		return []*syntax.Node{args}
	}
	out := make([]*syntax.Node, 0, len(args.Children))
	for _, child := range args.Children {
		if child.Type == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// Unwrap strips parentheses, TypeScript value-preserving wrappers and JSX
// expression containers.
func Unwrap(node *syntax.Node) *syntax.Node {
	for node != nil {
		switch node.Kind {
		case syntax.KindParenthesized, syntax.KindJSXExpression:
			next := firstValueChild(node)
			if next == nil {
				return node
			}
			node = next
		default:
			return node
		}
	}
	return nil
}

func firstValueChild(node *syntax.Node) *syntax.Node {
	for _, child := range node.Children {
		if child.Type == "comment" {
			continue
		}
		return child
	}
	return nil
}

// PropertyKey returns the static name of an object pair's key.
func PropertyKey(pair *syntax.Node) (string, bool) {
	if !pair.Is(syntax.KindPair) {
		return "", false
	}
	key := pair.ChildByField("key")
	if key == nil {
		return "", false
	}
	switch key.Kind {
	case syntax.KindIdentifier, syntax.KindNumber:
		return key.Text, key.Text != ""
	case syntax.KindString:
		return ResolveStaticStringValue(key)
	}
	return "", false
}

// PairValue returns the value expression of an object pair.
func PairValue(pair *syntax.Node) *syntax.Node {
	if !pair.Is(syntax.KindPair) {
		return nil
	}
	return pair.ChildByField("value")
}

// ContainsCall reports whether any call inside node (node included) has a
// callee accepted by match.
func ContainsCall(node *syntax.Node, match func(name string) bool) bool {
	if node == nil {
		return false
	}
	if node.Kind == syntax.KindCallExpression && match(CalleeName(node)) {
		return true
	}
	for _, child := range node.Children {
		if ContainsCall(child, match) {
			return true
		}
	}
	return false
}

var functionTypes = map[string]bool{
	"function_declaration":           true,
	"function_expression":            true,
	"function":                       true,
	"generator_function_declaration": true,
	"generator_function":             true,
	"arrow_function":                 true,
	"method_definition":              true,
}

// IsFunctionBoundary reports whether node opens a new function scope.
func IsFunctionBoundary(node *syntax.Node) bool {
	return node != nil && functionTypes[node.Type]
}

// ParameterNames lists the names a function binds through its parameters,
// including destructured and defaulted ones. Type annotations and default
// values are skipped.
func ParameterNames(fn *syntax.Node) []string {
	if !IsFunctionBoundary(fn) {
		return nil
	}
	var names []string
	for _, field := range []string{"parameters", "parameter"} {
		names = appendBoundNames(names, fn.ChildByField(field))
	}
	return names
}

func appendBoundNames(names []string, node *syntax.Node) []string {
	if node == nil {
		return names
	}
	switch {
	case node.Kind == syntax.KindIdentifier:
		return append(names, node.Text)
	case node.Type == "type_annotation", node.Type == "accessibility_modifier":
		return names
	}
	for _, child := range node.Children {
		if child.Field == "right" && (node.Type == "assignment_pattern" || node.Type == "object_assignment_pattern") {
			continue
		}
		if child.Field == "value" && (node.Type == "required_parameter" || node.Type == "optional_parameter") {
			continue
		}
		if child.Field == "key" && node.Type == "pair_pattern" {
			continue
		}
		names = appendBoundNames(names, child)
	}
	return names
}
