package syntax

// grammarKinds maps tree-sitter JavaScript / TypeScript / TSX node types onto the
// closed kind set. Types missing here become KindOther and are still walked.
var grammarKinds = map[string]Kind{
	"program":                               KindProgram,
	"jsx_element":                           KindJSXElement,
	"jsx_self_closing_element":              KindJSXElement,
	"jsx_opening_element":                   KindJSXOpeningElement,
	"jsx_closing_element":                   KindJSXClosingElement,
	"jsx_text":                              KindJSXText,
	"jsx_attribute":                         KindJSXAttribute,
	"jsx_expression":                        KindJSXExpression,
	"string":                                KindString,
	"template_string":                       KindTemplateString,
	"template_substitution":                 KindTemplateSubstitution,
	"binary_expression":                     KindBinaryExpression,
	"ternary_expression":                    KindTernaryExpression,
	"call_expression":                       KindCallExpression,
	"arguments":                             KindArguments,
	"member_expression":                     KindMemberExpression,
	"identifier":                            KindIdentifier,
	"property_identifier":                   KindIdentifier,
	"shorthand_property_identifier":         KindIdentifier,
	"private_property_identifier":           KindIdentifier,
	"shorthand_property_identifier_pattern": KindIdentifier,
	"jsx_namespace_name":                    KindIdentifier,
	"this":                                  KindIdentifier,
	"variable_declarator":                   KindVariableDeclarator,
	"object":                                KindObject,
	"pair":                                  KindPair,
	"array":                                 KindArray,
	"parenthesized_expression":              KindParenthesized,
	"as_expression":                         KindParenthesized,
	"satisfies_expression":                  KindParenthesized,
	"non_null_expression":                   KindParenthesized,
	"number":                                KindNumber,
	"ERROR":                                 KindError,
}

// KindOf classifies a raw grammar node type.
func KindOf(grammarType string) Kind {
	if kind, ok := grammarKinds[grammarType]; ok {
		return kind
	}
	return KindOther
}

// KeepsText reports whether nodes of this kind carry their source text.
func KeepsText(kind Kind) bool {
	switch kind {
	case KindJSXText, KindString, KindTemplateString, KindIdentifier, KindNumber:
		return true
	}
	return false
}
