package datastore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/internal/parquet"
)

// ExportStore writes an owner's analyses and issues to two Parquet files
// named after outputFile.
func ExportStore(ctx context.Context, store contract.DataStore, owner, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalAnalyses == 0 {
		return errors.New("no analysis data found to export")
	}
	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)

	summaries, err := store.ListAnalyses(ctx, owner, "", 0)
	if err != nil {
		return fmt.Errorf("failed to retrieve analyses: %w", err)
	}
	issues, err := store.ListIssueRecords(ctx, owner, "")
	if err != nil {
		return fmt.Errorf("failed to retrieve issues: %w", err)
	}

	analysesFile := outputFile + ".analyses.parquet"
	rows := parquet.ConvertAnalysisSummaries(summaries)
	if err := parquet.WriteAnalysesParquet(rows, analysesFile); err != nil {
		return fmt.Errorf("failed to write analyses: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d analyses to: %s\n", len(rows), analysesFile)

	issuesFile := outputFile + ".issues.parquet"
	issueRows := parquet.ConvertIssueRecords(issues)
	if err := parquet.WriteIssuesParquet(issueRows, issuesFile); err != nil {
		return fmt.Errorf("failed to write issues: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d issues to: %s\n", len(issueRows), issuesFile)
	return nil
}
