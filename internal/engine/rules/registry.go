package rules

import (
	"fmt"
	"sort"
	"strings"

	"i18nscan/internal/core/errors"
	"i18nscan/internal/engine/syntax"
)

// Registry is an ordered, immutable rule set with a kind -> rules lookup
// table. Registration order is dispatch order.
type Registry struct {
	rules  []Rule
	index  map[string]int
	byKind [syntax.KindCount][]Rule
}

func NewRegistry(rules ...Rule) (*Registry, error) {
	r := &Registry{
		rules: make([]Rule, 0, len(rules)),
		index: make(map[string]int, len(rules)),
	}
	for _, rule := range rules {
		id := strings.TrimSpace(rule.ID)
		if id == "" {
			return nil, errors.New(errors.CodeValidationError, "rule id must not be empty")
		}
		if rule.Check == nil {
			return nil, errors.AddContext(errors.New(errors.CodeValidationError, "rule has no check function"), errors.CtxRule, id)
		}
		if len(rule.Kinds) == 0 {
			return nil, errors.AddContext(errors.New(errors.CodeValidationError, "rule targets no node kinds"), errors.CtxRule, id)
		}
		if _, dup := r.index[id]; dup {
			return nil, errors.AddContext(errors.New(errors.CodeValidationError, "duplicate rule id"), errors.CtxRule, id)
		}
		rule.ID = id
		rule.Kinds = append([]syntax.Kind(nil), rule.Kinds...)
		r.index[id] = len(r.rules)
		r.rules = append(r.rules, rule)
		for _, kind := range rule.Kinds {
			if int(kind) >= syntax.KindCount {
				return nil, errors.AddContext(errors.New(errors.CodeValidationError, fmt.Sprintf("unknown node kind %s", kind)), errors.CtxRule, id)
			}
			r.byKind[kind] = append(r.byKind[kind], rule)
		}
	}
	return r, nil
}

// MustNewRegistry is NewRegistry for rule sets known to be valid.
func MustNewRegistry(rules ...Rule) *Registry {
	r, err := NewRegistry(rules...)
	if err != nil {
		panic(err)
	}
	return r
}

// Builtin returns every built-in rule: code detection first, then key
// extraction.
func Builtin() *Registry {
	all := append(CodeDetectionRules(), KeyExtractionRules()...)
	return MustNewRegistry(all...)
}

// Select narrows the registry. An empty enabled list keeps every rule;
// disabled ids are removed afterwards. Unknown ids are rejected.
func (r *Registry) Select(enabled, disabled []string) (*Registry, error) {
	if err := r.checkKnown(enabled); err != nil {
		return nil, err
	}
	if err := r.checkKnown(disabled); err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(r.rules))
	if len(enabled) == 0 {
		for _, rule := range r.rules {
			keep[rule.ID] = true
		}
	} else {
		for _, id := range enabled {
			keep[strings.TrimSpace(id)] = true
		}
	}
	for _, id := range disabled {
		delete(keep, strings.TrimSpace(id))
	}

	selected := make([]Rule, 0, len(keep))
	for _, rule := range r.rules {
		if keep[rule.ID] {
			selected = append(selected, rule)
		}
	}
	return NewRegistry(selected...)
}

func (r *Registry) checkKnown(ids []string) error {
	var unknown []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := r.index[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return errors.New(errors.CodeNotFound, fmt.Sprintf("unknown rule id(s): %s (known: %s)",
		strings.Join(unknown, ", "), strings.Join(r.IDs(), ", ")))
}

// ForKind returns the rules targeting kind, in registration order. The slice
// is shared and must not be modified.
func (r *Registry) ForKind(kind syntax.Kind) []Rule {
	if int(kind) >= syntax.KindCount {
		return nil
	}
	return r.byKind[kind]
}

func (r *Registry) Lookup(id string) (Rule, bool) {
	i, ok := r.index[id]
	if !ok {
		return Rule{}, false
	}
	return r.rules[i], true
}

// IDs returns rule ids in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.rules))
	for i, rule := range r.rules {
		ids[i] = rule.ID
	}
	return ids
}

func (r *Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

func (r *Registry) Len() int {
	return len(r.rules)
}
