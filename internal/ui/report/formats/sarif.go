package formats

import (
	"bytes"
	"fmt"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"i18nscan/internal/engine/finding"
	"i18nscan/internal/engine/rules"
	"i18nscan/internal/shared/version"
)

const (
	toolName       = "i18nscan"
	informationURI = "https://github.com/i18nscan/i18nscan"
	srcRootBase    = "%SRCROOT%"

	// ruleIDDiagnostic carries engine diagnostics (crashed rules, invalid
	// findings) and files that could not be scanned.
	ruleIDDiagnostic = "i18nscan/engine"
)

// GenerateSARIF builds a SARIF v2.1.0 document from an aggregated report.
// File URIs are made relative to projectRoot so reports are safe to share.
// Hardcoded strings and dynamic keys are warnings, extracted keys are notes.
func GenerateSARIF(projectRoot string, report finding.Report, ruleSet []rules.Rule) ([]byte, error) {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, informationURI)
	driverVersion := version.Version
	run.Tool.Driver.Version = &driverVersion

	for _, rule := range ruleSet {
		run.AddRule(rule.ID).
			WithDescription(rule.Description).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: categoryLevel(rule.Category)})
	}
	if len(report.Diagnostics) > 0 || len(report.FailedFiles) > 0 {
		run.AddRule(ruleIDDiagnostic).
			WithDescription("the rule engine could not fully analyse a file").
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "error"})
	}

	for _, f := range report.Findings {
		result := sarif.NewRuleResult(f.RuleID).
			WithMessage(sarif.NewTextMessage(findingSummary(f))).
			WithLevel(findingLevel(f)).
			WithLocations([]*sarif.Location{spanLocation(projectRoot, f.File, f.Span.Start.Line, f.Span.Start.Column, f.Span.End.Line, f.Span.End.Column)})
		result.PropertyBag = *sarif.NewPropertyBag()
		result.Add("category", string(f.Category))
		result.Add("confidence", string(f.Confidence))
		if f.SuggestedKey != "" {
			result.Add("suggestedKey", f.SuggestedKey)
		}
		if f.Key != "" {
			result.Add("key", f.Key)
		}
		if f.Locale != "" {
			result.Add("locale", f.Locale)
		}
		run.AddResult(result)
	}

	for _, d := range report.Diagnostics {
		msg := fmt.Sprintf("%s in rule %s: %s", d.Kind, d.RuleID, d.Message)
		run.AddResult(sarif.NewRuleResult(ruleIDDiagnostic).
			WithMessage(sarif.NewTextMessage(msg)).
			WithLevel("error").
			WithLocations([]*sarif.Location{spanLocation(projectRoot, d.File, d.Span.Start.Line, d.Span.Start.Column, d.Span.End.Line, d.Span.End.Column)}))
	}
	for _, failed := range report.FailedFiles {
		run.AddResult(sarif.NewRuleResult(ruleIDDiagnostic).
			WithMessage(sarif.NewTextMessage("file not scanned: " + failed.Error)).
			WithLevel("error").
			WithLocations([]*sarif.Location{spanLocation(projectRoot, failed.Path, 0, 0, 0, 0)}))
	}

	doc.AddRun(run)

	var buf bytes.Buffer
	if err := doc.PrettyWrite(&buf); err != nil {
		return nil, fmt.Errorf("write SARIF report: %w", err)
	}
	return buf.Bytes(), nil
}

func categoryLevel(category finding.Category) string {
	if category == finding.CategoryExtracted {
		return "note"
	}
	return "warning"
}

func findingLevel(f finding.Finding) string {
	if f.Dynamic {
		return "warning"
	}
	return categoryLevel(f.Category)
}

// spanLocation builds a location; a zero start line omits the region.
func spanLocation(projectRoot, file string, startLine, startColumn, endLine, endColumn int) *sarif.Location {
	uri := relativeURI(projectRoot, file)
	base := srcRootBase
	physical := &sarif.PhysicalLocation{
		ArtifactLocation: &sarif.ArtifactLocation{URI: &uri, URIBaseId: &base},
	}
	if startLine > 0 {
		physical.Region = &sarif.Region{
			StartLine:   &startLine,
			StartColumn: &startColumn,
			EndLine:     &endLine,
			EndColumn:   &endColumn,
		}
	}
	return &sarif.Location{PhysicalLocation: physical}
}
