package rules

import (
	"strings"

	"i18nscan/internal/engine/finding"
	"i18nscan/internal/engine/matcher"
	"i18nscan/internal/engine/syntax"
)

const (
	RuleTranslationFunction = "checkTranslationFunction"
	RuleDataStructure       = "checkDataStructure"
)

func KeyExtractionRules() []Rule {
	return []Rule{
		{
			ID:          RuleTranslationFunction,
			Category:    finding.CategoryExtracted,
			Description: "translation call t(key, defaultValue?); dynamic keys are reported with low confidence",
			Kinds:       []syntax.Kind{syntax.KindCallExpression},
			Check:       checkTranslationFunction,
		},
		{
			ID:          RuleDataStructure,
			Category:    finding.CategoryExtracted,
			Description: "object or array literal shaped as a locale dictionary, dotted-key table or message descriptor",
			Kinds:       []syntax.Kind{syntax.KindObject, syntax.KindArray},
			Check:       checkDataStructure,
		},
	}
}

func extracted(node *syntax.Node, key, value, locale string) finding.Finding {
	return finding.Finding{
		Confidence:   finding.ConfidenceHigh,
		Span:         node.Span,
		Text:         value,
		Key:          key,
		DefaultValue: value,
		Locale:       locale,
	}
}

func checkTranslationFunction(node *syntax.Node, ctx *Context) []finding.Finding {
	callee := matcher.CalleeName(node)
	if !ctx.Settings.IsTranslationFunction(callee) {
		return nil
	}
	args := matcher.CallArguments(node)
	if len(args) == 0 {
		return nil
	}
	defaultValue := ""
	if len(args) > 1 {
		defaultValue = translationDefault(args[1], ctx)
	}

	keyArg := matcher.Unwrap(args[0])
	if key, ok := matcher.ResolveWithScope(keyArg, ctx.Lookup); ok {
		return []finding.Finding{{
			Confidence:   finding.ConfidenceHigh,
			Span:         args[0].Span,
			Text:         key,
			Key:          key,
			DefaultValue: defaultValue,
		}}
	}

	// i18next accepts an array of fallback keys.
	if keyArg.Is(syntax.KindArray) {
		if keys, ok := staticElements(keyArg, ctx); ok {
			out := make([]finding.Finding, 0, len(keys))
			for i, key := range keys {
				out = append(out, finding.Finding{
					Confidence:   finding.ConfidenceHigh,
					Span:         keyArg.Children[i].Span,
					Text:         key,
					Key:          key,
					DefaultValue: defaultValue,
				})
			}
			return out
		}
	}

	return []finding.Finding{{
		Confidence:   finding.ConfidenceLow,
		Dynamic:      true,
		Span:         args[0].Span,
		Text:         ctx.Source(args[0].Span),
		DefaultValue: defaultValue,
		Message:      "translation key passed to " + callee + " is not statically resolvable",
	}}
}

// translationDefault reads the default value from t(key, "Default") or
// t(key, { defaultValue: "Default" }).
func translationDefault(arg *syntax.Node, ctx *Context) string {
	arg = matcher.Unwrap(arg)
	if value, ok := matcher.ResolveWithScope(arg, ctx.Lookup); ok {
		return value
	}
	if !arg.Is(syntax.KindObject) {
		return ""
	}
	for _, pair := range arg.Children {
		if key, ok := matcher.PropertyKey(pair); ok && key == "defaultValue" {
			if value, ok := matcher.ResolveWithScope(matcher.PairValue(pair), ctx.Lookup); ok {
				return value
			}
		}
	}
	return ""
}

func staticElements(array *syntax.Node, ctx *Context) ([]string, bool) {
	if len(array.Children) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(array.Children))
	for _, element := range array.Children {
		value, ok := matcher.ResolveWithScope(element, ctx.Lookup)
		if !ok {
			return nil, false
		}
		out = append(out, value)
	}
	return out, true
}

func checkDataStructure(node *syntax.Node, ctx *Context) []finding.Finding {
	for _, ancestor := range ctx.Ancestors() {
		if ancestor.Kind == syntax.KindObject && isLocaleDictionary(ancestor, ctx.Settings) {
			return nil
		}
	}

	if node.Kind == syntax.KindArray {
		return extractTupleArray(node)
	}
	if isLocaleDictionary(node, ctx.Settings) {
		return extractLocaleDictionary(node, ctx)
	}
	if out := extractDottedDictionary(node); out != nil {
		return out
	}
	return extractMessageDescriptor(node)
}

// objectPairs returns the pairs of an object literal, or nil when the object
// has spreads, methods or shorthand properties.
func objectPairs(object *syntax.Node) []*syntax.Node {
	pairs := make([]*syntax.Node, 0, len(object.Children))
	for _, child := range object.Children {
		switch {
		case child.Type == "comment":
		case child.Kind == syntax.KindPair:
			pairs = append(pairs, child)
		default:
			return nil
		}
	}
	return pairs
}

// isLocaleDictionary checks keys only: at least MinDictionaryEntries pairs, all
// keyed by locale codes, with string or object values.
func isLocaleDictionary(object *syntax.Node, settings *Settings) bool {
	pairs := objectPairs(object)
	if len(pairs) < settings.MinDictionaryEntries() {
		return false
	}
	for _, pair := range pairs {
		key, ok := matcher.PropertyKey(pair)
		if !ok {
			return false
		}
		if _, ok := settings.LocaleCode(key); !ok {
			return false
		}
		value := matcher.Unwrap(matcher.PairValue(pair))
		if value == nil {
			return false
		}
		switch value.Kind {
		case syntax.KindObject, syntax.KindString, syntax.KindTemplateString, syntax.KindBinaryExpression:
		default:
			return false
		}
	}
	return true
}

func extractLocaleDictionary(object *syntax.Node, ctx *Context) []finding.Finding {
	baseKey := dictionaryName(ctx)
	var out []finding.Finding
	for _, pair := range objectPairs(object) {
		key, _ := matcher.PropertyKey(pair)
		locale, _ := ctx.Settings.LocaleCode(key)
		value := matcher.Unwrap(matcher.PairValue(pair))
		if value.Is(syntax.KindObject) {
			out = flattenLeaves(value, "", locale, out)
			continue
		}
		if text, ok := matcher.ResolveStaticStringValue(value); ok {
			out = append(out, extracted(value, baseKey, text, locale))
		}
	}
	return out
}

// flattenLeaves appends every static string leaf of object under its dotted
// path. Non-string, non-object values are skipped.
func flattenLeaves(object *syntax.Node, prefix, locale string, out []finding.Finding) []finding.Finding {
	for _, child := range object.Children {
		if child.Kind != syntax.KindPair {
			continue
		}
		key, ok := matcher.PropertyKey(child)
		if !ok {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		value := matcher.Unwrap(matcher.PairValue(child))
		if value.Is(syntax.KindObject) {
			out = flattenLeaves(value, key, locale, out)
			continue
		}
		if text, ok := matcher.ResolveStaticStringValue(value); ok {
			out = append(out, extracted(value, key, text, locale))
		}
	}
	return out
}

// dictionaryName names a locale dictionary whose locales map straight to
// strings: the declared variable or property it is assigned to, else the
// file namespace.
func dictionaryName(ctx *Context) string {
	parent := ctx.Parent()
	for i := 1; parent.Is(syntax.KindParenthesized); i++ {
		parent = ctx.Ancestor(i)
	}
	switch {
	case parent.Is(syntax.KindVariableDeclarator):
		if name := parent.ChildByField("name"); name.Is(syntax.KindIdentifier) {
			return name.Text
		}
	case parent.Is(syntax.KindPair):
		if key, ok := matcher.PropertyKey(parent); ok {
			return key
		}
	}
	return matcher.Namespace(ctx.Path())
}

func extractDottedDictionary(object *syntax.Node) []finding.Finding {
	pairs := objectPairs(object)
	if len(pairs) == 0 {
		return nil
	}
	out := make([]finding.Finding, 0, len(pairs))
	for _, pair := range pairs {
		key, ok := matcher.PropertyKey(pair)
		if !ok || !matcher.IsDottedKey(key) {
			return nil
		}
		value := matcher.PairValue(pair)
		text, ok := matcher.ResolveStaticStringValue(value)
		if !ok {
			return nil
		}
		out = append(out, extracted(value, key, text, ""))
	}
	return out
}

// extractMessageDescriptor handles { id: "app.greeting", defaultMessage: "Hello" }.
func extractMessageDescriptor(object *syntax.Node) []finding.Finding {
	var id, message string
	var hasID, hasMessage bool
	for _, pair := range object.Children {
		key, ok := matcher.PropertyKey(pair)
		if !ok {
			continue
		}
		switch key {
		case "id":
			id, hasID = matcher.ResolveStaticStringValue(matcher.PairValue(pair))
		case "defaultMessage":
			message, hasMessage = matcher.ResolveStaticStringValue(matcher.PairValue(pair))
		}
	}
	if !hasID || !hasMessage || strings.TrimSpace(id) == "" {
		return nil
	}
	return []finding.Finding{extracted(object, id, message, "")}
}

// extractTupleArray handles [["nav.home", "Home"], ["nav.about", "About"]].
func extractTupleArray(array *syntax.Node) []finding.Finding {
	if len(array.Children) == 0 {
		return nil
	}
	out := make([]finding.Finding, 0, len(array.Children))
	for _, element := range array.Children {
		if !element.Is(syntax.KindArray) || len(element.Children) != 2 {
			return nil
		}
		key, ok := matcher.ResolveStaticStringValue(element.Children[0])
		if !ok || !matcher.IsDottedKey(key) {
			return nil
		}
		text, ok := matcher.ResolveStaticStringValue(element.Children[1])
		if !ok {
			return nil
		}
		out = append(out, extracted(element, key, text, ""))
	}
	return out
}
