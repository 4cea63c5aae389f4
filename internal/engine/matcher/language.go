package matcher

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reason names the policy row that decided a Verdict.
type Reason string

const (
	ReasonEmpty          Reason = "empty"
	ReasonDenyPattern    Reason = "deny-pattern"
	ReasonAllowPattern   Reason = "allow-pattern"
	ReasonTooShort       Reason = "too-short"
	ReasonNoLetters      Reason = "no-letters"
	ReasonURLOrPath      Reason = "url-or-path"
	ReasonNonLatinScript Reason = "non-latin-script"
	ReasonIdentifier     Reason = "identifier"
	ReasonSingleWord     Reason = "single-word"
	ReasonSingleToken    Reason = "single-token"
	ReasonCSSClasses     Reason = "css-classes"
	ReasonCodeLike       Reason = "code-like"
	ReasonSymbolHeavy    Reason = "symbol-heavy"
	ReasonTooFewWords    Reason = "too-few-words"
	ReasonNatural        Reason = "natural-language"
)

// Verdict is the classifier's answer together with the deciding row.
type Verdict struct {
	Natural bool
	Reason  Reason
}

// PolicyConfig tunes the natural-language classifier per project.
type PolicyConfig struct {
	// MinLength is the minimum rune count of the trimmed text.
	MinLength int
	// MinWords is the minimum number of alphabetic words in multi-token text.
	MinWords int
	// AllowSingleWord accepts a lone capitalized word such as "Cancel".
	AllowSingleWord bool
	// Allow and Deny are regular expressions checked before every other row;
	// Deny wins over Allow.
	Allow []string
	Deny  []string
}

func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		MinLength:       3,
		MinWords:        2,
		AllowSingleWord: true,
	}
}

// Policy is a compiled, immutable PolicyConfig. Safe for concurrent use.
type Policy struct {
	cfg   PolicyConfig
	allow []*regexp.Regexp
	deny  []*regexp.Regexp
}

func NewPolicy(cfg PolicyConfig) (*Policy, error) {
	defaults := DefaultPolicyConfig()
	if cfg.MinLength <= 0 {
		cfg.MinLength = defaults.MinLength
	}
	if cfg.MinWords <= 0 {
		cfg.MinWords = defaults.MinWords
	}
	allow, err := compileAll("allow", cfg.Allow)
	if err != nil {
		return nil, err
	}
	deny, err := compileAll("deny", cfg.Deny)
	if err != nil {
		return nil, err
	}
	return &Policy{cfg: cfg, allow: allow, deny: deny}, nil
}

func compileAll(kind string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile %s pattern %q: %w", kind, pattern, err)
		}
		out = append(out, re)
	}
	return out, nil
}

var defaultPolicy, _ = NewPolicy(DefaultPolicyConfig())

// LooksLikeNaturalLanguage classifies text with the default policy.
func LooksLikeNaturalLanguage(text string) bool {
	return defaultPolicy.LooksLikeNaturalLanguage(text)
}

func (p *Policy) LooksLikeNaturalLanguage(text string) bool {
	return p.Classify(text).Natural
}

func (p *Policy) Config() PolicyConfig {
	return p.cfg
}

var (
	urlRE        = regexp.MustCompile(`^(?i)([a-z][a-z0-9+.\-]*://|www\.|mailto:|tel:|data:)`)
	emailRE      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	capitalWord  = regexp.MustCompile(`^\p{Lu}\p{Ll}+$`)
	cssTokenRE   = regexp.MustCompile(`^[a-z0-9!_:/\[\]().%#\-]+$`)
	cssMarkerRE  = regexp.MustCompile(`[-:/_\[0-9]`)
	codeLikeRE   = regexp.MustCompile(`(=>|===|!==|&&|\|\||\(\)|;\s*$|^\s*(import|export|const|let|var|function|return)\s)`)
	wordRE       = regexp.MustCompile(`^\p{L}+(['’\-]\p{L}+)*$`)
	trailingMark = ".,!?:;…)]\"'”’»"
	leadingMark  = "([\"'“‘«¿¡"
)

// Classify runs the ordered decision table; the first matching row wins.
func (p *Policy) Classify(text string) Verdict {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Verdict{Reason: ReasonEmpty}
	}
	for _, re := range p.deny {
		if re.MatchString(trimmed) {
			return Verdict{Reason: ReasonDenyPattern}
		}
	}
	for _, re := range p.allow {
		if re.MatchString(trimmed) {
			return Verdict{Natural: true, Reason: ReasonAllowPattern}
		}
	}
	if utf8.RuneCountInString(trimmed) < p.cfg.MinLength {
		return Verdict{Reason: ReasonTooShort}
	}

	letters, others := countLetters(trimmed)
	if letters == 0 {
		return Verdict{Reason: ReasonNoLetters}
	}

	tokens := strings.Fields(trimmed)
	if len(tokens) == 1 {
		return p.classifyToken(tokens[0], others)
	}

	if isCSSClassList(tokens) {
		return Verdict{Reason: ReasonCSSClasses}
	}
	if codeLikeRE.MatchString(trimmed) {
		return Verdict{Reason: ReasonCodeLike}
	}
	if others >= 2 {
		return Verdict{Natural: true, Reason: ReasonNonLatinScript}
	}
	if letterSpaceRatio(trimmed) < 0.6 {
		return Verdict{Reason: ReasonSymbolHeavy}
	}
	if countWords(tokens) < p.cfg.MinWords {
		return Verdict{Reason: ReasonTooFewWords}
	}
	return Verdict{Natural: true, Reason: ReasonNatural}
}

func (p *Policy) classifyToken(token string, otherLetters int) Verdict {
	if urlRE.MatchString(token) || emailRE.MatchString(token) || isPathLike(token) {
		return Verdict{Reason: ReasonURLOrPath}
	}
	// Scripts without case or word spacing (CJK, Thai, ...) are prose even as
	// a single token.
	if otherLetters >= 2 {
		return Verdict{Natural: true, Reason: ReasonNonLatinScript}
	}
	word := strings.TrimRight(token, trailingMark)
	word = strings.TrimLeft(word, leadingMark)
	if capitalWord.MatchString(word) {
		if p.cfg.AllowSingleWord {
			return Verdict{Natural: true, Reason: ReasonSingleWord}
		}
		return Verdict{Reason: ReasonSingleToken}
	}
	if isLowerWord(word) {
		return Verdict{Reason: ReasonSingleToken}
	}
	return Verdict{Reason: ReasonIdentifier}
}

func countLetters(text string) (letters, caseless int) {
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if !unicode.IsUpper(r) && !unicode.IsLower(r) {
			caseless++
		}
	}
	return letters, caseless
}

func isLowerWord(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLower(r) {
			return false
		}
	}
	return true
}

func isPathLike(token string) bool {
	for _, prefix := range []string{"/", "./", "../", "~/", "#", "@/"} {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}
	return strings.Contains(token, "/")
}

func isCSSClassList(tokens []string) bool {
	marked := false
	for _, token := range tokens {
		if !cssTokenRE.MatchString(token) {
			return false
		}
		if cssMarkerRE.MatchString(token) && strings.IndexFunc(token, unicode.IsLetter) >= 0 {
			marked = true
		}
	}
	return marked
}

func letterSpaceRatio(text string) float64 {
	total, good := 0, 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			good++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(good) / float64(total)
}

func countWords(tokens []string) int {
	words := 0
	for _, token := range tokens {
		token = strings.TrimRight(token, trailingMark)
		token = strings.TrimLeft(token, leadingMark)
		if utf8.RuneCountInString(token) >= 2 && wordRE.MatchString(token) {
			words++
		}
	}
	return words
}
