package config

import (
	"strings"
	"testing"
)

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"version", "version = 3", "unsupported config version"},
		{"glob scan path", "[scan]\npaths = [\"src/**\"]", "not a pattern"},
		{"workers", "[scan]\nworkers = 1000", "scan.workers"},
		{"unknown enabled rule", "[rules]\nenabled = [\"checkEverything\"]", "unknown rule \"checkEverything\""},
		{"unknown disabled rule", "[rules]\ndisabled = [\"nope\"]", "rules.disabled"},
		{"all enabled disabled", "[rules]\nenabled = [\"checkJsxText\"]\ndisabled = [\"checkJsxText\"]", "removes every rule"},
		{"format", "[output]\nformat = \"html\"", "output.format"},
		{"catalog format", "[output]\ncatalog_format = \"po\"", "output.catalog_format"},
		{"same output files", "[output]\npath = \"a.json\"\ncatalog = \"a.json\"", "same file"},
		{"busy timeout", "[history]\nenabled = true\nbusy_timeout = \"5ms\"", "busy_timeout"},
		{"debounce", "[watch]\ndebounce = \"2m\"", "watch.debounce"},
		{"rescans", "[watch]\nmax_rescans_per_second = 500", "max_rescans_per_second"},
		{"ignore glob", "[scan]\nignore = [\"src/[\"]", "invalid rule settings"},
		{"locale", "[extraction]\nlocale_codes = [\"not a locale\"]", "invalid locale code"},
		{"deny regex", "[heuristic]\ndeny = [\"(\"]", "deny pattern"},
		{"translation glob", "[extraction]\ntranslation_functions = [\"t[\"]", "translation function"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.content)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidate_HistoryDisabledSkipsChecks(t *testing.T) {
	if _, err := Parse("[history]\nbusy_timeout = \"5ms\""); err != nil {
		t.Fatalf("disabled history should not be validated: %v", err)
	}
}
