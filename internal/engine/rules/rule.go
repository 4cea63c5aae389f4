// Package rules holds the rule descriptor, the built-in detection and
// extraction rules and the registry that maps node kinds to rules.
package rules

import (
	"i18nscan/internal/engine/finding"
	"i18nscan/internal/engine/syntax"
)

// CheckFunc inspects one node. It must be pure with respect to ctx: reading
// the ancestor chain and scope table only. The dispatcher stamps RuleID,
// Category and File on every returned finding.
type CheckFunc func(node *syntax.Node, ctx *Context) []finding.Finding

// Rule is an immutable rule descriptor.
type Rule struct {
	ID          string
	Category    finding.Category
	Description string
	Kinds       []syntax.Kind
	Check       CheckFunc
}

// Targets reports whether the rule inspects nodes of kind.
func (r Rule) Targets(kind syntax.Kind) bool {
	for _, k := range r.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
