package formats

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"i18nscan/internal/engine/finding"
)

// Occurrence is one place a key or hardcoded string was seen.
type Occurrence struct {
	Value  string `yaml:"value,omitempty" json:"value,omitempty"`
	Locale string `yaml:"locale,omitempty" json:"locale,omitempty"`
	File   string `yaml:"file" json:"file"`
	Line   int    `yaml:"line" json:"line"`
	Column int    `yaml:"column" json:"column"`
	Rule   string `yaml:"rule" json:"rule"`
}

type CatalogEntry struct {
	Key         string       `yaml:"key" json:"key"`
	Occurrences []Occurrence `yaml:"occurrences" json:"occurrences"`
}

// Suggestion is a hardcoded string with the key it could move to.
type Suggestion struct {
	Key        string `yaml:"key" json:"key"`
	Text       string `yaml:"text" json:"text"`
	Occurrence `yaml:",inline"`
}

// Catalog groups extracted pairs by key. Conflicting values for one key stay
// side by side as separate occurrences.
type Catalog struct {
	Tool        string         `yaml:"tool" json:"tool"`
	Keys        []CatalogEntry `yaml:"keys" json:"keys"`
	DynamicKeys []Occurrence   `yaml:"dynamic_keys,omitempty" json:"dynamic_keys,omitempty"`
	Suggestions []Suggestion   `yaml:"suggestions,omitempty" json:"suggestions,omitempty"`
}

func BuildCatalog(projectRoot string, report finding.Report) Catalog {
	catalog := Catalog{Tool: toolName, Keys: []CatalogEntry{}}
	byKey := make(map[string]int)

	for _, f := range report.Findings {
		occ := Occurrence{
			File:   relativeURI(projectRoot, f.File),
			Line:   f.Span.Start.Line,
			Column: f.Span.Start.Column,
			Rule:   f.RuleID,
		}
		switch {
		case f.Dynamic:
			occ.Value = f.Text
			catalog.DynamicKeys = append(catalog.DynamicKeys, occ)
		case f.Category == finding.CategoryExtracted:
			occ.Value = f.DefaultValue
			occ.Locale = f.Locale
			idx, ok := byKey[f.Key]
			if !ok {
				idx = len(catalog.Keys)
				byKey[f.Key] = idx
				catalog.Keys = append(catalog.Keys, CatalogEntry{Key: f.Key})
			}
			catalog.Keys[idx].Occurrences = append(catalog.Keys[idx].Occurrences, occ)
		case f.SuggestedKey != "":
			catalog.Suggestions = append(catalog.Suggestions, Suggestion{
				Key:        f.SuggestedKey,
				Text:       f.Text,
				Occurrence: occ,
			})
		}
	}

	sort.SliceStable(catalog.Keys, func(i, j int) bool {
		return catalog.Keys[i].Key < catalog.Keys[j].Key
	})
	return catalog
}

// GenerateCatalog renders the catalog as "yaml" or "json".
func GenerateCatalog(projectRoot string, report finding.Report, format string) ([]byte, error) {
	catalog := BuildCatalog(projectRoot, report)
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		return yaml.Marshal(catalog)
	case "json":
		return json.MarshalIndent(catalog, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}
