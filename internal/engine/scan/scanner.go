// Package scan walks syntax trees once per file and dispatches nodes to the
// rules registered for their kind.
package scan

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"i18nscan/internal/core/errors"
	"i18nscan/internal/engine/finding"
	"i18nscan/internal/engine/matcher"
	"i18nscan/internal/engine/rules"
	"i18nscan/internal/engine/syntax"
	"i18nscan/internal/shared/worker"
)

// Scanner is immutable and safe to share across goroutines.
type Scanner struct {
	registry *rules.Registry
	settings *rules.Settings
}

func NewScanner(registry *rules.Registry, settings *rules.Settings) *Scanner {
	return &Scanner{registry: registry, settings: settings}
}

func (s *Scanner) Registry() *rules.Registry {
	return s.registry
}

// Scan analyses one file. It never panics on rule failures and always returns
// a report; file-level problems land in FileReport.Err.
func (s *Scanner) Scan(ctx context.Context, file *syntax.File) finding.FileReport {
	report := finding.FileReport{Findings: []finding.Finding{}}
	if file == nil {
		report.Err = errors.New(errors.CodeMalformedTree, "nil source file")
		return report
	}
	report.Path = file.Path
	report.Language = file.Language

	if err := ctx.Err(); err != nil {
		report.Err = err
		return report
	}
	if s.settings.IsIgnored(file.Path) {
		report.Skipped = true
		return report
	}
	if file.Root == nil {
		report.Err = errors.AddContext(errors.New(errors.CodeMalformedTree, "file has no syntax tree"), errors.CtxPath, file.Path)
		return report
	}

	w := &walker{
		registry: s.registry,
		rctx:     rules.NewContext(file, s.settings),
		report:   &report,
		size:     file.Size(),
	}
	if err := w.walkRoot(ctx, file.Root); err != nil {
		report.Err = err
	}
	sort.SliceStable(report.Findings, func(i, j int) bool {
		return finding.Less(report.Findings[i], report.Findings[j])
	})
	return report
}

// ScanAll scans files in parallel on pool and returns one report per file in
// input order. Files not started before ctx is cancelled carry ctx.Err().
func (s *Scanner) ScanAll(ctx context.Context, pool *worker.Pool, files []*syntax.File) []finding.FileReport {
	reports := make([]finding.FileReport, len(files))
	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		err := pool.Submit(ctx, func(ctx context.Context) {
			defer wg.Done()
			reports[i] = s.Scan(ctx, file)
		})
		if err != nil {
			wg.Done()
			reports[i] = unscanned(file, err)
		}
	}
	wg.Wait()
	return reports
}

func unscanned(file *syntax.File, err error) finding.FileReport {
	report := finding.FileReport{Findings: []finding.Finding{}, Err: err}
	if file != nil {
		report.Path = file.Path
		report.Language = file.Language
	}
	return report
}

type walker struct {
	registry *rules.Registry
	rctx     *rules.Context
	report   *finding.FileReport
	size     int
}

// walkRoot visits the root and checks for cancellation between its
// top-level statements.
func (w *walker) walkRoot(ctx context.Context, root *syntax.Node) error {
	if err := w.check(root, nil); err != nil {
		return err
	}
	w.dispatch(root)
	w.rctx.Enter(root)
	defer w.rctx.Leave()
	for _, child := range root.Children {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.visit(child, root); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) visit(node, parent *syntax.Node) error {
	if err := w.check(node, parent); err != nil {
		return err
	}
	w.dispatch(node)
	if node.Kind == syntax.KindVariableDeclarator {
		w.bind(node)
	}
	if len(node.Children) == 0 {
		return nil
	}
	if matcher.IsFunctionBoundary(node) {
		w.rctx.PushScope(matcher.ParameterNames(node))
		defer w.rctx.PopScope()
	}
	w.rctx.Enter(node)
	defer w.rctx.Leave()
	for _, child := range node.Children {
		if err := w.visit(child, node); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) check(node, parent *syntax.Node) error {
	if node == nil {
		return nil
	}
	if err := syntax.CheckNode(node, parent, w.size); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeMalformedTree, "malformed syntax tree"), errors.CtxPath, w.rctx.Path())
	}
	return nil
}

func (w *walker) bind(declarator *syntax.Node) {
	name := declarator.ChildByField("name")
	if !name.Is(syntax.KindIdentifier) {
		return
	}
	if value := matcher.Unwrap(declarator.ChildByField("value")); value != nil {
		w.rctx.Bind(name.Text, value)
	}
}

func (w *walker) dispatch(node *syntax.Node) {
	for _, rule := range w.registry.ForKind(node.Kind) {
		w.apply(rule, node)
	}
}

// apply runs one rule on one node, turning a panic into a rule-crashed
// diagnostic and out-of-file findings into invalid-finding diagnostics.
func (w *walker) apply(rule rules.Rule, node *syntax.Node) {
	defer func() {
		if r := recover(); r != nil {
			w.report.Diagnostics = append(w.report.Diagnostics, finding.Diagnostic{
				Kind:    finding.DiagnosticRuleCrashed,
				RuleID:  rule.ID,
				File:    w.report.Path,
				Span:    node.Span,
				Message: fmt.Sprint(r),
			})
		}
	}()

	for _, f := range rule.Check(node, w.rctx) {
		f.RuleID = rule.ID
		f.Category = rule.Category
		f.File = w.report.Path
		if f.Confidence == "" {
			f.Confidence = finding.ConfidenceHigh
		}
		if !f.Span.Within(w.size) {
			w.report.Diagnostics = append(w.report.Diagnostics, finding.Diagnostic{
				Kind:    finding.DiagnosticInvalidFinding,
				RuleID:  rule.ID,
				File:    w.report.Path,
				Span:    f.Span,
				Message: fmt.Sprintf("finding span [%d,%d) lies outside file of %d bytes", f.Span.StartByte, f.Span.EndByte, w.size),
			})
			continue
		}
		w.report.Findings = append(w.report.Findings, f)
	}
}
