// Package formats renders aggregated scan reports.
package formats

import (
	"path/filepath"
	"strconv"
	"strings"

	"i18nscan/internal/engine/finding"
)

// relativeURI converts an absolute file path to a forward-slash relative path
// anchored at projectRoot. Relative paths are returned with forward slashes.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(projectRoot, filePath)
		if err == nil && !strings.HasPrefix(rel, "..") {
			filePath = rel
		}
	}
	return filepath.ToSlash(filePath)
}

// findingSummary is the one-line description shared by the text, TSV and
// SARIF renderers.
func findingSummary(f finding.Finding) string {
	switch {
	case f.Message != "":
		return f.Message
	case f.Dynamic:
		return "dynamic translation key " + f.Text
	case f.Category == finding.CategoryExtracted:
		msg := "translation key " + strconv.Quote(f.Key)
		if f.DefaultValue != "" {
			msg += " = " + strconv.Quote(f.DefaultValue)
		}
		if f.Locale != "" {
			msg += " [" + f.Locale + "]"
		}
		return msg
	default:
		msg := "hardcoded string " + strconv.Quote(f.Text)
		if f.SuggestedKey != "" {
			msg += ", suggested key " + f.SuggestedKey
		}
		return msg
	}
}

// sanitizeCell flattens a value for a single TSV cell.
func sanitizeCell(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
}
