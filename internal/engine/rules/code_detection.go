package rules

import (
	"html"
	"strconv"
	"strings"

	"i18nscan/internal/engine/finding"
	"i18nscan/internal/engine/matcher"
	"i18nscan/internal/engine/syntax"
)

const (
	RuleJSXText        = "checkJsxText"
	RuleJSXAttribute   = "checkJsxAttribute"
	RuleTernaryLocale  = "checkTernaryLocale"
	RuleToastMessage   = "checkToastMessage"
	RuleStringVariable = "checkStringVariable"
)

// optionMessageKeys are the option-object properties UI feedback helpers read
// their text from, e.g. notification.error({ message: "..." }).
var optionMessageKeys = []string{"message", "title", "description", "content", "text"}

func CodeDetectionRules() []Rule {
	return []Rule{
		{
			ID:          RuleJSXText,
			Category:    finding.CategoryHardcoded,
			Description: "JSX text content that reads as natural language",
			Kinds:       []syntax.Kind{syntax.KindJSXText},
			Check:       checkJSXText,
		},
		{
			ID:          RuleJSXAttribute,
			Category:    finding.CategoryHardcoded,
			Description: "user-facing JSX attribute (title, placeholder, alt, aria-*) with a literal value",
			Kinds:       []syntax.Kind{syntax.KindJSXAttribute},
			Check:       checkJSXAttribute,
		},
		{
			ID:          RuleTernaryLocale,
			Category:    finding.CategoryHardcoded,
			Description: "conditional expression choosing between literal strings",
			Kinds:       []syntax.Kind{syntax.KindTernaryExpression},
			Check:       checkTernaryLocale,
		},
		{
			ID:          RuleToastMessage,
			Category:    finding.CategoryHardcoded,
			Description: "toast, alert or notification call with a literal message",
			Kinds:       []syntax.Kind{syntax.KindCallExpression},
			Check:       checkToastMessage,
		},
		{
			ID:          RuleStringVariable,
			Category:    finding.CategoryHardcoded,
			Description: "variable initialized with a natural-language string",
			Kinds:       []syntax.Kind{syntax.KindVariableDeclarator},
			Check:       checkStringVariable,
		},
	}
}

func hardcoded(node *syntax.Node, text, key, message string) []finding.Finding {
	return []finding.Finding{{
		Confidence:   finding.ConfidenceHigh,
		Span:         node.Span,
		Text:         text,
		SuggestedKey: key,
		Message:      message,
	}}
}

// collapseSpace folds the whitespace runs JSX renders as a single space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func checkJSXText(node *syntax.Node, ctx *Context) []finding.Finding {
	if !matcher.IsJSXTextNode(node) {
		return nil
	}
	span, ok := jsxTextRun(node, ctx)
	if !ok {
		return nil
	}
	text := collapseSpace(html.UnescapeString(ctx.Source(span)))
	if text == "" {
		return nil
	}
	for _, ancestor := range ctx.Ancestors() {
		if ancestor.Kind == syntax.KindJSXElement && ctx.Settings.IsIgnoredElement(matcher.JSXElementName(ancestor)) {
			return nil
		}
	}
	if !ctx.Settings.Policy.LooksLikeNaturalLanguage(text) {
		return nil
	}
	return []finding.Finding{{
		Confidence:   finding.ConfidenceHigh,
		Span:         span,
		Text:         text,
		SuggestedKey: matcher.SuggestKey(ctx.Path(), "", text),
		Message:      "hardcoded JSX text; wrap it in a translation call",
	}}
}

// jsxTextRun joins consecutive text pieces (one per source line, plus
// character references such as &amp;) into one span. The first jsx_text of a
// run reports, with the span widened over any leading references; later
// jsx_text pieces return ok=false.
func jsxTextRun(node *syntax.Node, ctx *Context) (syntax.Span, bool) {
	parent := ctx.Parent()
	if parent == nil {
		return node.Span, true
	}
	index := -1
	for i, child := range parent.Children {
		if child == node {
			index = i
			break
		}
	}
	if index < 0 {
		return node.Span, true
	}
	first := node
	for i := index - 1; i >= 0; i-- {
		prev := parent.Children[i]
		if !isTextPiece(prev) {
			break
		}
		if matcher.IsJSXTextNode(prev) {
			return syntax.Span{}, false
		}
		first = prev
	}
	last := node
	for _, next := range parent.Children[index+1:] {
		if !isTextPiece(next) {
			break
		}
		last = next
	}
	return syntax.Span{
		Start:     first.Span.Start,
		End:       last.Span.End,
		StartByte: first.Span.StartByte,
		EndByte:   last.Span.EndByte,
	}, true
}

func isTextPiece(node *syntax.Node) bool {
	return matcher.IsJSXTextNode(node) || node.Type == "html_character_reference"
}

func checkJSXAttribute(node *syntax.Node, ctx *Context) []finding.Finding {
	name := matcher.JSXAttributeName(node)
	if !ctx.Settings.IsTrackedAttribute(name) {
		return nil
	}
	value := matcher.JSXAttributeValue(node)
	if !matcher.IsJSXAttributeValue(value, []*syntax.Node{node}, name) {
		return nil
	}
	text, ok := matcher.ResolveAttributeValue(value, nil)
	if !ok {
		return nil
	}
	text = strings.TrimSpace(text)
	if !ctx.Settings.Policy.LooksLikeNaturalLanguage(text) {
		return nil
	}
	return hardcoded(value, text,
		matcher.SuggestKey(ctx.Path(), name, text),
		"hardcoded "+name+" attribute")
}

func checkTernaryLocale(node *syntax.Node, ctx *Context) []finding.Finding {
	consequence, ok := matcher.ResolveStaticStringValue(node.ChildByField("consequence"))
	if !ok {
		return nil
	}
	alternative, ok := matcher.ResolveStaticStringValue(node.ChildByField("alternative"))
	if !ok {
		return nil
	}
	policy := ctx.Settings.Policy
	var text string
	switch {
	case policy.LooksLikeNaturalLanguage(consequence):
		text = strings.TrimSpace(consequence)
	case policy.LooksLikeNaturalLanguage(alternative):
		text = strings.TrimSpace(alternative)
	default:
		return nil
	}
	return hardcoded(node, text,
		matcher.SuggestKey(ctx.Path(), "", text),
		"conditional picks between literal strings "+strconv.Quote(consequence)+" and "+strconv.Quote(alternative))
}

func checkToastMessage(node *syntax.Node, ctx *Context) []finding.Finding {
	callee := matcher.CalleeName(node)
	if !ctx.Settings.IsUIFeedbackFunction(callee) {
		return nil
	}
	args := matcher.CallArguments(node)
	arg, text, ok := firstStaticArgument(args)
	if !ok && len(args) > 0 {
		arg, text, ok = optionMessage(matcher.Unwrap(args[0]))
	}
	if !ok {
		return nil
	}
	text = strings.TrimSpace(text)
	if !ctx.Settings.Policy.LooksLikeNaturalLanguage(text) {
		return nil
	}
	return hardcoded(arg, text,
		matcher.SuggestKey(ctx.Path(), lastSegment(callee), text),
		"hardcoded message passed to "+callee)
}

func firstStaticArgument(args []*syntax.Node) (*syntax.Node, string, bool) {
	for _, arg := range args {
		if text, ok := matcher.ResolveStaticStringValue(arg); ok {
			return arg, text, true
		}
	}
	return nil, "", false
}

func optionMessage(object *syntax.Node) (*syntax.Node, string, bool) {
	if !object.Is(syntax.KindObject) {
		return nil, "", false
	}
	for _, want := range optionMessageKeys {
		for _, pair := range object.Children {
			if key, ok := matcher.PropertyKey(pair); !ok || key != want {
				continue
			}
			value := matcher.PairValue(pair)
			if text, ok := matcher.ResolveStaticStringValue(value); ok {
				return value, text, true
			}
		}
	}
	return nil, "", false
}

func checkStringVariable(node *syntax.Node, ctx *Context) []finding.Finding {
	name := node.ChildByField("name")
	value := matcher.Unwrap(node.ChildByField("value"))
	if !name.Is(syntax.KindIdentifier) || value == nil {
		return nil
	}
	// Aliases (`const b = a`) are reported at the original declaration.
	if value.Kind == syntax.KindIdentifier {
		return nil
	}
	if matcher.ContainsCall(value, ctx.Settings.IsTranslationFunction) {
		return nil
	}
	for _, ancestor := range ctx.Ancestors() {
		if ancestor.Kind == syntax.KindCallExpression && ctx.Settings.IsTranslationFunction(matcher.CalleeName(ancestor)) {
			return nil
		}
	}
	text, ok := matcher.ResolveWithScope(value, ctx.Lookup)
	if !ok {
		return nil
	}
	text = strings.TrimSpace(text)
	if !ctx.Settings.Policy.LooksLikeNaturalLanguage(text) {
		return nil
	}
	return hardcoded(value, text,
		matcher.SuggestKey(ctx.Path(), name.Text, ""),
		"variable "+name.Text+" holds a hardcoded string")
}

func lastSegment(dotted string) string {
	if i := strings.LastIndexByte(dotted, '.'); i >= 0 {
		return dotted[i+1:]
	}
	return dotted
}
