package rules

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/text/language"

	"i18nscan/internal/core/errors"
	"i18nscan/internal/engine/matcher"
	"i18nscan/internal/shared/util"
)

var (
	DefaultAttributes = []string{
		"title", "placeholder", "alt", "aria-label", "aria-placeholder", "aria-description", "label",
	}
	DefaultIgnoreElements      = []string{"script", "style", "code", "pre", "Trans"}
	DefaultUIFeedbackFunctions = []string{
		"toast", "toast.*", "alert", "window.alert", "confirm", "window.confirm", "prompt",
		"message.*", "notification.*", "enqueueSnackbar", "showToast", "notify", "notify.*",
	}
	DefaultTranslationFunctions = []string{"t", "i18n.t", "i18next.t", "$t", "this.$t", "translate"}
)

const DefaultMinDictionaryEntries = 2

// Options is the caller-facing engine configuration. Empty name lists fall
// back to the defaults above.
type Options struct {
	EnabledRules         []string
	DisabledRules        []string
	IgnorePatterns       []string
	UIFeedbackFunctions  []string
	TranslationFunctions []string
	Attributes           []string
	IgnoreElements       []string
	// LocaleCodes restricts which object keys count as locales. When empty any
	// BCP 47 tag whose base is a widely used language is accepted.
	LocaleCodes          []string
	MinDictionaryEntries int
	Heuristic            matcher.PolicyConfig
}

func DefaultOptions() Options {
	return Options{
		UIFeedbackFunctions:  append([]string(nil), DefaultUIFeedbackFunctions...),
		TranslationFunctions: append([]string(nil), DefaultTranslationFunctions...),
		Attributes:           append([]string(nil), DefaultAttributes...),
		IgnoreElements:       append([]string(nil), DefaultIgnoreElements...),
		MinDictionaryEntries: DefaultMinDictionaryEntries,
		Heuristic:            matcher.DefaultPolicyConfig(),
	}
}

// Settings is the compiled, read-only form of Options shared by every file
// scan of a run.
type Settings struct {
	Policy *matcher.Policy

	ignore               []glob.Glob
	uiFeedback           []glob.Glob
	translation          []glob.Glob
	attributes           map[string]bool
	ignoreElements       map[string]bool
	locales              map[string]bool
	minDictionaryEntries int
}

func NewSettings(opts Options) (*Settings, error) {
	policy, err := matcher.NewPolicy(opts.Heuristic)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "invalid heuristic policy")
	}

	s := &Settings{
		Policy:               policy,
		attributes:           toSet(withDefault(opts.Attributes, DefaultAttributes)),
		ignoreElements:       toSet(withDefault(opts.IgnoreElements, DefaultIgnoreElements)),
		minDictionaryEntries: opts.MinDictionaryEntries,
	}
	if s.minDictionaryEntries <= 0 {
		s.minDictionaryEntries = DefaultMinDictionaryEntries
	}

	if s.ignore, err = compileGlobs(opts.IgnorePatterns, "ignore", '/'); err != nil {
		return nil, err
	}
	if s.uiFeedback, err = compileGlobs(withDefault(opts.UIFeedbackFunctions, DefaultUIFeedbackFunctions), "ui feedback function", '.'); err != nil {
		return nil, err
	}
	if s.translation, err = compileGlobs(withDefault(opts.TranslationFunctions, DefaultTranslationFunctions), "translation function", '.'); err != nil {
		return nil, err
	}

	if len(opts.LocaleCodes) > 0 {
		s.locales = make(map[string]bool, len(opts.LocaleCodes))
		for _, code := range opts.LocaleCodes {
			tag, err := language.Parse(strings.TrimSpace(code))
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid locale code %q", code))
			}
			s.locales[tag.String()] = true
		}
	}
	return s, nil
}

func compileGlobs(patterns []string, label string, separator rune) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, separator)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid %s pattern %q", label, p))
		}
		out = append(out, g)
	}
	return out, nil
}

func withDefault(values, defaults []string) []string {
	if len(values) == 0 {
		return defaults
	}
	return values
}

func toSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out[v] = true
		}
	}
	return out
}

func matchAny(globs []glob.Glob, value string) bool {
	if value == "" {
		return false
	}
	for _, g := range globs {
		if g.Match(value) {
			return true
		}
	}
	return false
}

// IsIgnored reports whether a file path matches an ignore pattern, either as
// a whole or by its base name.
func (s *Settings) IsIgnored(filePath string) bool {
	normalized := util.NormalizePatternPath(filePath)
	return matchAny(s.ignore, normalized) || matchAny(s.ignore, path.Base(normalized))
}

func (s *Settings) IsUIFeedbackFunction(callee string) bool {
	return matchAny(s.uiFeedback, callee)
}

func (s *Settings) IsTranslationFunction(callee string) bool {
	return matchAny(s.translation, callee)
}

func (s *Settings) IsTrackedAttribute(name string) bool {
	return s.attributes[name]
}

func (s *Settings) IsIgnoredElement(name string) bool {
	return s.ignoreElements[name]
}

func (s *Settings) MinDictionaryEntries() int {
	return s.minDictionaryEntries
}

var localeShape = regexp.MustCompile(`^[A-Za-z]{2,3}([-_][A-Za-z0-9]{2,8})*$`)

// commonLocales are the base languages recognized when no locale codes are
// configured. Codes that double as property names ("to", "as", "or") are absent.
var commonLocales = []language.Tag{
	language.Arabic, language.Bengali, language.Bulgarian, language.Catalan, language.Chinese,
	language.Croatian, language.Czech, language.Danish, language.Dutch, language.English,
	language.Estonian, language.Finnish, language.French, language.German, language.Greek,
	language.Hebrew, language.Hindi, language.Hungarian, language.Icelandic, language.Indonesian,
	language.Italian, language.Japanese, language.Korean, language.Latvian, language.Lithuanian,
	language.Malay, language.Norwegian, language.Persian, language.Polish, language.Portuguese,
	language.Romanian, language.Russian, language.Serbian, language.Slovak, language.Slovenian,
	language.Spanish, language.Swahili, language.Swedish, language.Tamil, language.Thai,
	language.Turkish, language.Ukrainian, language.Urdu, language.Vietnamese,
}

var commonBases = func() map[string]bool {
	out := make(map[string]bool, len(commonLocales))
	for _, tag := range commonLocales {
		base, _ := tag.Base()
		out[base.String()] = true
	}
	return out
}()

// LocaleCode returns the canonical BCP 47 form of key when it names a known
// locale: one of the configured codes (or a region of one), or a common base
// language when none are configured.
func (s *Settings) LocaleCode(key string) (string, bool) {
	if !localeShape.MatchString(key) {
		return "", false
	}
	tag, err := language.Parse(key)
	if err != nil {
		return "", false
	}
	canonical := tag.String()
	base, _ := tag.Base()
	if s.locales != nil {
		if s.locales[canonical] || s.locales[base.String()] {
			return canonical, true
		}
		return "", false
	}
	if !commonBases[base.String()] {
		return "", false
	}
	return canonical, true
}
