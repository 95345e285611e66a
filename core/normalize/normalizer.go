package normalize

import (
	"path/filepath"

	"github.com/huangsam/qualityscore/schema"
)

// PMDErrorPriority is the highest PMD priority still reported as an error.
const PMDErrorPriority = 2

// Normalizer converts raw reports into issues and duplication blocks.
// It does no I/O.
type Normalizer struct {
	catalog *Catalog
	root    string
}

// New creates a normalizer. Duplication paths are made relative to root when root is set.
func New(catalog *Catalog, root string) *Normalizer {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Normalizer{catalog: catalog, root: root}
}

// Issues flattens every lint finding, tool by tool in report order.
func (n *Normalizer) Issues(reports schema.Reports) []schema.Issue {
	issues := []schema.Issue{}
	for _, r := range reports {
		switch r := r.(type) {
		case schema.ESLintReport:
			issues = append(issues, n.eslintIssues(r)...)
		case schema.RuffReport:
			issues = append(issues, n.ruffIssues(r)...)
		case schema.PMDReport:
			issues = append(issues, n.pmdIssues(r)...)
		case schema.JSCPDReport, schema.LineCountReport, schema.RadonReport:
			// metrics only
		}
	}
	return issues
}

func (n *Normalizer) eslintIssues(r schema.ESLintReport) []schema.Issue {
	var out []schema.Issue
	for _, file := range r {
		for _, m := range file.Messages {
			severity := schema.SeverityWarn
			if m.Severity.Int() == schema.ESLintErrorSeverity {
				severity = schema.SeverityError
			}
			inline := ""
			if len(m.Suggestions) > 0 {
				inline = m.Suggestions[0].Desc
			}
			out = append(out, schema.Issue{
				Tool:        schema.ESLintTool,
				File:        file.FilePath,
				Line:        m.Line.Int(),
				Column:      m.Column.Int(),
				Severity:    severity,
				Rule:        m.RuleID,
				Message:     m.Message,
				Description: n.catalog.Description(m.RuleID),
				Impact:      n.catalog.Impact(m.RuleID),
				Suggestion:  n.catalog.Suggestion(schema.ESLintTool, m.RuleID, m.Message, inline),
				Fix:         eslintFix(m.Fix),
			})
		}
	}
	return out
}

func eslintFix(f *schema.ESLintFix) *schema.IssueFix {
	if f == nil {
		return nil
	}
	fix := &schema.IssueFix{Text: f.Text, Range: make([]int, 0, len(f.Range))}
	for _, v := range f.Range {
		fix.Range = append(fix.Range, v.Int())
	}
	return fix
}

func (n *Normalizer) ruffIssues(r schema.RuffReport) []schema.Issue {
	out := make([]schema.Issue, 0, len(r))
	for _, f := range r {
		var line, column int
		if f.Location != nil {
			line, column = f.Location.Row.Int(), f.Location.Column.Int()
		}
		inline := ""
		if f.Fix != nil {
			inline = f.Fix.Message
		}
		out = append(out, schema.Issue{
			Tool:        schema.RuffTool,
			File:        f.Filename,
			Line:        line,
			Column:      column,
			Severity:    schema.SeverityError,
			Rule:        f.Code,
			Message:     f.Message,
			Description: n.catalog.Description(f.Code),
			Impact:      n.catalog.Impact(f.Code),
			Suggestion:  n.catalog.Suggestion(schema.RuffTool, f.Code, f.Message, inline),
		})
	}
	return out
}

func (n *Normalizer) pmdIssues(r schema.PMDReport) []schema.Issue {
	violations := r.AllViolations()
	out := make([]schema.Issue, 0, len(violations))
	for _, v := range violations {
		severity := schema.SeverityWarn
		if p := v.Priority.Int(); p > 0 && p <= PMDErrorPriority {
			severity = schema.SeverityError
		}
		message := v.Description
		if message == "" {
			message = v.Rule
		}
		out = append(out, schema.Issue{
			Tool:        schema.PMDTool,
			File:        v.File,
			Line:        v.BeginLine.Int(),
			Column:      v.BeginColumn.Int(),
			Severity:    severity,
			Rule:        v.Rule,
			Message:     message,
			Description: n.catalog.Description(v.Rule),
			Impact:      n.catalog.Impact(v.Rule),
			Suggestion:  n.catalog.Suggestion(schema.PMDTool, v.Rule, message, ""),
		})
	}
	return out
}

// DuplicationBlocks maps duplicate pairs from the duplication report.
func (n *Normalizer) DuplicationBlocks(reports schema.Reports) []schema.DuplicationBlock {
	blocks := []schema.DuplicationBlock{}
	jscpd, ok := reports.JSCPD()
	if !ok {
		return blocks
	}
	for _, d := range jscpd.Duplicates {
		first, second := n.relative(d.FirstFile.Name), n.relative(d.SecondFile.Name)
		blocks = append(blocks, schema.DuplicationBlock{
			Lines:  d.Lines.Int(),
			Tokens: d.Tokens.Int(),
			Files:  []string{first, second},
			Locations: []schema.DuplicationLocation{
				{File: first, Start: d.FirstFile.Start.Int(), End: d.FirstFile.End.Int()},
				{File: second, Start: d.SecondFile.Start.Int(), End: d.SecondFile.End.Int()},
			},
			Fragment:   d.Fragment,
			Suggestion: DuplicationFix,
		})
	}
	return blocks
}

func (n *Normalizer) relative(path string) string {
	if n.root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(n.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
