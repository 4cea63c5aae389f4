package matcher

import (
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"i18nscan/internal/engine/syntax"
)

// maxResolveDepth bounds identifier chasing through the scope table; it also
// breaks cycles such as `a = b; b = a`.
const maxResolveDepth = 16

// Lookup returns the most recent initializer bound to name, or nil.
type Lookup func(name string) *syntax.Node

// ResolveStaticStringValue folds node into a constant string. It accepts string
// literals, template literals without substitutions and `+` concatenations of
// operands that fold themselves. ok=false means "skip this node", not an error.
func ResolveStaticStringValue(node *syntax.Node) (string, bool) {
	return resolve(node, nil, 0)
}

// ResolveWithScope is ResolveStaticStringValue that also follows identifiers
// through lookup.
func ResolveWithScope(node *syntax.Node, lookup Lookup) (string, bool) {
	return resolve(node, lookup, 0)
}

func resolve(node *syntax.Node, lookup Lookup, depth int) (string, bool) {
	if node == nil || depth > maxResolveDepth {
		return "", false
	}
	switch node.Kind {
	case syntax.KindString:
		return decodeQuoted(node.Text)
	case syntax.KindTemplateString:
		if node.ChildOfKind(syntax.KindTemplateSubstitution) != nil {
			return "", false
		}
		return decodeQuoted(node.Text)
	case syntax.KindBinaryExpression:
		if node.Operator != "+" {
			return "", false
		}
		left, ok := resolve(node.ChildByField("left"), lookup, depth+1)
		if !ok {
			return "", false
		}
		right, ok := resolve(node.ChildByField("right"), lookup, depth+1)
		if !ok {
			return "", false
		}
		return left + right, true
	case syntax.KindParenthesized, syntax.KindJSXExpression:
		inner := firstValueChild(node)
		if inner == nil {
			return "", false
		}
		return resolve(inner, lookup, depth+1)
	case syntax.KindIdentifier:
		if lookup == nil {
			return "", false
		}
		return resolve(lookup(node.Text), lookup, depth+1)
	}
	return "", false
}

// decodeQuoted strips the surrounding quote characters of a JS string or
// template literal and interprets its escape sequences.
func decodeQuoted(raw string) (string, bool) {
	if len(raw) < 2 {
		return "", false
	}
	quote := raw[0]
	if quote != '"' && quote != '\'' && quote != '`' {
		return "", false
	}
	if raw[len(raw)-1] != quote {
		return "", false
	}
	return DecodeEscapes(raw[1 : len(raw)-1])
}

// DecodeEscapes interprets JavaScript string escape sequences.
func DecodeEscapes(body string) (string, bool) {
	if !strings.ContainsRune(body, '\\') {
		return body, true
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", false
		}
		switch esc := body[i]; esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case 'x':
			if i+2 >= len(body) {
				return "", false
			}
			v, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(v))
			i += 2
		case 'u':
			r, consumed, ok := decodeUnicodeEscape(body[i+1:])
			if !ok {
				return "", false
			}
			b.WriteRune(r)
			i += consumed
		default:
			b.WriteByte(esc)
		}
	}
	return b.String(), true
}

func decodeUnicodeEscape(rest string) (rune, int, bool) {
	if strings.HasPrefix(rest, "{") {
		end := strings.IndexByte(rest, '}')
		if end < 2 {
			return 0, 0, false
		}
		v, err := strconv.ParseUint(rest[1:end], 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			return 0, 0, false
		}
		return rune(v), end + 1, true
	}
	if len(rest) < 4 {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(rest[:4], 16, 16)
	if err != nil {
		return 0, 0, false
	}
	return rune(v), 4, true
}

// ResolveAttributeValue folds a JSX attribute value. Quoted JSX attribute
// strings take no backslash escapes, unlike JS strings inside {...}, but do
// decode HTML character references.
func ResolveAttributeValue(value *syntax.Node, lookup Lookup) (string, bool) {
	if value == nil {
		return "", false
	}
	if value.Is(syntax.KindString) {
		if len(value.Text) < 2 {
			return "", false
		}
		return html.UnescapeString(value.Text[1 : len(value.Text)-1]), true
	}
	return ResolveWithScope(value, lookup)
}
