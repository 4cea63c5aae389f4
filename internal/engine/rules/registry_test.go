package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i18nscan/internal/core/errors"
	"i18nscan/internal/engine/finding"
	"i18nscan/internal/engine/syntax"
)

func noop(*syntax.Node, *Context) []finding.Finding { return nil }

func TestBuiltin_OrderAndKinds(t *testing.T) {
	r := Builtin()
	assert.Equal(t, []string{
		RuleJSXText, RuleJSXAttribute, RuleTernaryLocale, RuleToastMessage, RuleStringVariable,
		RuleTranslationFunction, RuleDataStructure,
	}, r.IDs())

	var calls []string
	for _, rule := range r.ForKind(syntax.KindCallExpression) {
		calls = append(calls, rule.ID)
	}
	assert.Equal(t, []string{RuleToastMessage, RuleTranslationFunction}, calls)
	assert.Len(t, r.ForKind(syntax.KindArray), 1)
	assert.Empty(t, r.ForKind(syntax.KindIdentifier))
	assert.Nil(t, r.ForKind(syntax.Kind(250)))

	for _, rule := range r.Rules() {
		assert.NotEmpty(t, rule.Description, rule.ID)
	}
}

func TestNewRegistry_Validation(t *testing.T) {
	kinds := []syntax.Kind{syntax.KindString}
	cases := map[string][]Rule{
		"empty id":  {{ID: " ", Kinds: kinds, Check: noop}},
		"no check":  {{ID: "a", Kinds: kinds}},
		"no kinds":  {{ID: "a", Check: noop}},
		"duplicate": {{ID: "a", Kinds: kinds, Check: noop}, {ID: "a", Kinds: kinds, Check: noop}},
	}
	for name, rules := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewRegistry(rules...)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeValidationError))
		})
	}
}

func TestRegistry_Select(t *testing.T) {
	r := Builtin()

	only, err := r.Select([]string{RuleTranslationFunction, RuleJSXText}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{RuleJSXText, RuleTranslationFunction}, only.IDs(), "registration order is kept")

	without, err := r.Select(nil, []string{RuleStringVariable})
	require.NoError(t, err)
	assert.Equal(t, r.Len()-1, without.Len())
	_, ok := without.Lookup(RuleStringVariable)
	assert.False(t, ok)

	_, err = r.Select([]string{"checkNothing"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
	assert.Contains(t, err.Error(), "checkNothing")

	_, err = r.Select(nil, []string{"nope"})
	require.Error(t, err)
}

func TestRule_Targets(t *testing.T) {
	rule, ok := Builtin().Lookup(RuleDataStructure)
	require.True(t, ok)
	assert.True(t, rule.Targets(syntax.KindObject))
	assert.True(t, rule.Targets(syntax.KindArray))
	assert.False(t, rule.Targets(syntax.KindString))
}
