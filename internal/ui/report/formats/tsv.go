package formats

import (
	"fmt"
	"strings"

	"i18nscan/internal/engine/finding"
)

type TSVGenerator struct {
	projectRoot string
}

func NewTSVGenerator(projectRoot string) *TSVGenerator {
	return &TSVGenerator{projectRoot: projectRoot}
}

func (t *TSVGenerator) Generate(report finding.Report) (string, error) {
	var buf strings.Builder

	buf.WriteString("File\tLine\tColumn\tRule\tCategory\tConfidence\tDynamic\tText\tSuggestedKey\tKey\tDefaultValue\tLocale\n")
	for _, f := range report.Findings {
		buf.WriteString(fmt.Sprintf("%s\t%d\t%d\t%s\t%s\t%s\t%t\t%s\t%s\t%s\t%s\t%s\n",
			relativeURI(t.projectRoot, f.File),
			f.Span.Start.Line,
			f.Span.Start.Column,
			f.RuleID,
			f.Category,
			f.Confidence,
			f.Dynamic,
			sanitizeCell(f.Text),
			f.SuggestedKey,
			sanitizeCell(f.Key),
			sanitizeCell(f.DefaultValue),
			f.Locale,
		))
	}

	return buf.String(), nil
}
