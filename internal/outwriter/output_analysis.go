package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteAnalysisResult outputs one analysis, dispatching based on the output format configured.
func WriteAnalysisResult(a *schema.Analysis, cfg *contract.Config) error {
	if a == nil || a.Scores == nil {
		return fmt.Errorf("analysis has no scores to print")
	}
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, a)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisCSV(w, a)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisText(w, a, cfg)
		}, "Wrote table")
	}
	return nil
}

// writeAnalysisCSV writes one row per criterion followed by the overall row.
func writeAnalysisCSV(w io.Writer, a *schema.Analysis) error {
	header := []string{"analysis_id", "project", "criterion", "score", "weight", "based_on"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		s := a.Scores
		for _, c := range schema.AllCriteria {
			model := s.ScoringModel.Get(c)
			rec := []string{
				a.ID,
				a.ProjectName,
				string(c),
				strconv.Itoa(s.Metrics.Get(c)),
				fmtWeight(s.Weights.Get(c)),
				model.BasedOn,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return cw.Write([]string{
			a.ID, a.ProjectName, "overall", strconv.Itoa(s.Summary.Overall), fmtWeight(s.Weights.Sum()), string(s.Summary.QualityLevel),
		})
	})
}

// writeAnalysisText renders the score card, metrics, explanation and top issues.
func writeAnalysisText(w io.Writer, a *schema.Analysis, cfg *contract.Config) error {
	s := a.Scores
	title := a.DisplayName
	if title == "" {
		title = a.ProjectName
	}
	if _, err := fmt.Fprintf(w, "📊 %s\n", title); err != nil {
		return err
	}
	if a.ID != "" {
		if _, err := fmt.Fprintf(w, "Analysis %s created %s\n", a.ID, a.CreatedAt.Format(contract.DateTimeFormat)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Overall: %s (%s)\n\n",
		scoreLabel(cfg, s.Summary.Overall, s.Summary.QualityLevel), gradeLabel(cfg, s.Summary.QualityLevel)); err != nil {
		return err
	}

	if err := writeScoreTable(w, s); err != nil {
		return err
	}
	if err := writeMetricSnapshot(w, s.Meta); err != nil {
		return err
	}
	if err := writeExplanation(w, a.Explanation, a.QualityDetail); err != nil {
		return err
	}
	if err := writeIssueTable(w, a.Issues, cfg); err != nil {
		return err
	}
	if len(a.DuplicationBlocks) > 0 {
		if _, err := fmt.Fprintf(w, "Duplication blocks: %d\n", len(a.DuplicationBlocks)); err != nil {
			return err
		}
	}
	return nil
}

func writeScoreTable(w io.Writer, s *schema.Scores) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Criterion", "Score", "Weight", "Based On"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, c := range schema.AllCriteria {
		data = append(data, []string{
			string(c),
			strconv.Itoa(s.Metrics.Get(c)),
			fmtWeight(s.Weights.Get(c)),
			s.ScoringModel.Get(c).BasedOn,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeMetricSnapshot(w io.Writer, m schema.MetricSnapshot) error {
	_, err := fmt.Fprintf(w,
		"Code lines: %d, comment lines: %d, kLOC: %.2f, lint errors: %d, complexity avg: %.2f, duplication: %.2f%%, comment density: %.2f%%\n\n",
		m.CodeLines, m.CommentLines, m.KLOC, m.LintErrors, m.ComplexityAvg, m.DupPercent, m.CommentDensity)
	return err
}

func writeExplanation(w io.Writer, reasons []schema.QualityReason, detail *schema.QualityDetail) error {
	for _, r := range reasons {
		if _, err := fmt.Fprintf(w, "  [%s] %s\n", r.Level, r.Text); err != nil {
			return err
		}
	}
	if detail != nil && detail.Conclusion != "" {
		if _, err := fmt.Fprintf(w, "Conclusion: %s\n", detail.Conclusion); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeIssueTable prints at most cfg.IssueLimit issues in their stored order.
func writeIssueTable(w io.Writer, issues []schema.Issue, cfg *contract.Config) error {
	if len(issues) == 0 {
		_, err := fmt.Fprintln(w, "No issues found")
		return err
	}
	limit := cfg.IssueLimit
	if limit <= 0 || limit > len(issues) {
		limit = len(issues)
	}
	pathWidth := GetMaxTablePathWidth(cfg)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Tool", "File", "Line", "Severity", "Rule", "Message"})

	var data [][]string
	for _, issue := range issues[:limit] {
		data = append(data, []string{
			string(issue.Tool),
			contract.TruncatePath(issue.File, pathWidth),
			strconv.Itoa(issue.Line),
			string(issue.Severity),
			issue.Rule,
			truncateText(issue.Message, maxMessageWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d of %d issues\n", limit, len(issues))
	return err
}
