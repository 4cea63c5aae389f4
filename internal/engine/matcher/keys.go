package matcher

import (
	"path"
	"regexp"
	"strings"
	"unicode"
)

const slugWords = 4

var dottedKeyRE = regexp.MustCompile(`^([\w-]+:)?[A-Za-z_$][\w$-]*(\.[A-Za-z_$][\w$-]*)+$`)

// IsDottedKey reports whether s looks like a namespaced translation key such
// as "errors.notFound" or "common:buttons.save".
func IsDottedKey(s string) bool {
	return dottedKeyRE.MatchString(s)
}

// SuggestKey derives a deterministic translation key for a hardcoded string:
// namespace[.hint][.slug]. The namespace is the file stem in lower camel case,
// or the parent directory for index files.
func SuggestKey(filePath, hint, text string) string {
	parts := []string{Namespace(filePath)}
	if h := lowerCamel(splitWords(hint)); h != "" {
		parts = append(parts, h)
	}
	if strings.TrimSpace(text) != "" {
		parts = append(parts, Slug(text))
	}
	return strings.Join(parts, ".")
}

// Namespace returns the key namespace for a source path.
func Namespace(filePath string) string {
	clean := path.Clean(strings.ReplaceAll(filePath, "\\", "/"))
	base := path.Base(clean)
	stem := base
	if i := strings.IndexByte(base, '.'); i > 0 {
		stem = base[:i]
	}
	if stem == "index" {
		if dir := path.Base(path.Dir(clean)); dir != "." && dir != "/" {
			stem = dir
		}
	}
	if ns := lowerCamel(splitWords(stem)); ns != "" {
		return ns
	}
	return "common"
}

// Slug condenses text to its first few words in lower camel case.
func Slug(text string) string {
	words := splitWords(strings.NewReplacer("'", "", "’", "").Replace(text))
	if len(words) > slugWords {
		words = words[:slugWords]
	}
	if slug := lowerCamel(words); slug != "" {
		return slug
	}
	return "text"
}

// splitWords breaks s on non-alphanumerics and on lower-to-upper transitions.
func splitWords(s string) []string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	var prev rune
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			prev = 0
			continue
		}
		if unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			flush()
		}
		current = append(current, r)
		prev = r
	}
	flush()
	return words
}

func lowerCamel(words []string) string {
	var b strings.Builder
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		if i > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		b.WriteString(string(runes))
	}
	return b.String()
}
