package parser

import (
	"fmt"
	"sort"
	"strings"
)

type LanguageSpec struct {
	Name             string
	Extensions       []string
	TestFileSuffixes []string
	Enabled          bool
}

func DefaultLanguageRegistry() map[string]LanguageSpec {
	return map[string]LanguageSpec{
		"javascript": {
			Name:       "javascript",
			Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
			TestFileSuffixes: []string{
				".test.js", ".spec.js", ".test.jsx", ".spec.jsx",
			},
			Enabled: true,
		},
		"typescript": {
			Name:             "typescript",
			Extensions:       []string{".ts", ".mts", ".cts"},
			TestFileSuffixes: []string{".test.ts", ".spec.ts", ".d.ts"},
			Enabled:          true,
		},
		"tsx": {
			Name:             "tsx",
			Extensions:       []string{".tsx"},
			TestFileSuffixes: []string{".test.tsx", ".spec.tsx", ".stories.tsx"},
			Enabled:          true,
		},
	}
}

// BuildLanguageRegistry narrows the default registry to the requested
// languages. An empty list keeps every default language enabled.
func BuildLanguageRegistry(enabled []string) (map[string]LanguageSpec, error) {
	registry := DefaultLanguageRegistry()
	if len(enabled) == 0 {
		return registry, nil
	}

	want := make(map[string]bool, len(enabled))
	for _, lang := range enabled {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == "" {
			continue
		}
		if _, ok := registry[lang]; !ok {
			return nil, fmt.Errorf("unknown language %q (supported: %s)", lang, strings.Join(sortedLanguageNames(registry), ", "))
		}
		want[lang] = true
	}
	for name, spec := range registry {
		spec.Enabled = want[name]
		registry[name] = spec
	}
	return registry, nil
}

func cloneLanguageRegistry(in map[string]LanguageSpec) map[string]LanguageSpec {
	out := make(map[string]LanguageSpec, len(in))
	for name, spec := range in {
		spec.Extensions = append([]string(nil), spec.Extensions...)
		spec.TestFileSuffixes = append([]string(nil), spec.TestFileSuffixes...)
		out[name] = spec
	}
	return out
}

func sortedLanguageNames(registry map[string]LanguageSpec) []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
