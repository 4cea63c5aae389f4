package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i18nscan/internal/core/errors"
	"i18nscan/internal/engine/matcher"
)

func TestNewSettings_Defaults(t *testing.T) {
	s, err := NewSettings(Options{})
	require.NoError(t, err)

	for _, name := range []string{"toast", "toast.error", "window.alert", "message.success", "notify.info"} {
		assert.True(t, s.IsUIFeedbackFunction(name), name)
	}
	for _, name := range []string{"toaster", "toast.promise.then", "console.log", ""} {
		assert.False(t, s.IsUIFeedbackFunction(name), name)
	}
	for _, name := range []string{"t", "i18n.t", "i18next.t", "$t", "this.$t", "translate"} {
		assert.True(t, s.IsTranslationFunction(name), name)
	}
	assert.False(t, s.IsTranslationFunction("test"))
	assert.True(t, s.IsTrackedAttribute("aria-label"))
	assert.False(t, s.IsTrackedAttribute("className"))
	assert.True(t, s.IsIgnoredElement("Trans"))
	assert.Equal(t, DefaultMinDictionaryEntries, s.MinDictionaryEntries())
	assert.False(t, s.IsIgnored("src/App.tsx"))
}

func TestSettings_IsIgnored(t *testing.T) {
	s, err := NewSettings(Options{IgnorePatterns: []string{"**/node_modules/**", "*.stories.tsx", "generated/*"}})
	require.NoError(t, err)

	assert.True(t, s.IsIgnored("web/node_modules/react/index.js"))
	assert.True(t, s.IsIgnored("src/components/Button.stories.tsx"))
	assert.True(t, s.IsIgnored("./generated/api.ts"))
	assert.True(t, s.IsIgnored(`generated\api.ts`))
	assert.False(t, s.IsIgnored("generated/deep/api.ts"))
	assert.False(t, s.IsIgnored("src/components/Button.tsx"))
}

func TestSettings_LocaleCode(t *testing.T) {
	s, err := NewSettings(Options{})
	require.NoError(t, err)

	valid := map[string]string{"en": "en", "pt-BR": "pt-BR", "zh-Hant": "zh-Hant", "de": "de", "en-GB": "en-GB"}
	for key, want := range valid {
		got, ok := s.LocaleCode(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
	for _, key := range []string{"title", "to", "as", "nav", "xx", "e", "en.US", ""} {
		_, ok := s.LocaleCode(key)
		assert.False(t, ok, key)
	}

	restricted, err := NewSettings(Options{LocaleCodes: []string{"en", "fr-CA"}})
	require.NoError(t, err)
	_, ok := restricted.LocaleCode("en-US")
	assert.True(t, ok, "region of a configured base")
	_, ok = restricted.LocaleCode("fr-CA")
	assert.True(t, ok)
	_, ok = restricted.LocaleCode("fr")
	assert.False(t, ok)
	_, ok = restricted.LocaleCode("de")
	assert.False(t, ok)
}

func TestNewSettings_Invalid(t *testing.T) {
	cases := map[string]Options{
		"glob":      {IgnorePatterns: []string{"src/[abc"}},
		"locale":    {LocaleCodes: []string{"not a locale"}},
		"heuristic": {Heuristic: matcher.PolicyConfig{Allow: []string{"("}}},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewSettings(opts)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeValidationError), err.Error())
		})
	}
}
