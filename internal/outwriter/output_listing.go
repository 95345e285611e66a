package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteAnalysisList outputs analysis listing rows, newest first as given.
func WriteAnalysisList(rows []schema.AnalysisSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if rows == nil {
				rows = []schema.AnalysisSummary{}
			}
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisListCSV(w, rows)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisListTable(w, rows, cfg)
		}, "Wrote table")
	}
}

func writeAnalysisListCSV(w io.Writer, rows []schema.AnalysisSummary) error {
	header := []string{"id", "project_id", "project", "version_label", "version_index", "overall", "grade", "issues", "created_at"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				r.ID,
				r.ProjectID,
				r.ProjectName,
				r.VersionLabel,
				strconv.Itoa(r.VersionIndex),
				strconv.Itoa(r.Overall),
				string(r.Grade),
				strconv.Itoa(r.IssueCount),
				r.CreatedAt.Format(contract.DateTimeFormat),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeAnalysisListTable(w io.Writer, rows []schema.AnalysisSummary, cfg *contract.Config) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No analyses found")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Project", "Version", "Score", "Grade", "Issues", "Created"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range rows {
		version := "-"
		if r.VersionIndex > 0 {
			version = fmt.Sprintf("%s (v%d)", r.VersionLabel, r.VersionIndex)
		}
		data = append(data, []string{
			r.ID,
			r.ProjectName,
			version,
			scoreLabel(cfg, r.Overall, r.Grade),
			gradeLabel(cfg, r.Grade),
			strconv.Itoa(r.IssueCount),
			humanize.Time(r.CreatedAt),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d analyses. Backend: %s\n", len(rows), cfg.Backend)
	return err
}
