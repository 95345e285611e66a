// Package parquet exports persisted analyses and issues to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/qualityscore/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRow is one persisted analysis.
// This struct maps to the qualityscore_analyses database table.
type AnalysisRow struct {
	// AnalysisID is the unique identifier of the analysis
	AnalysisID string `parquet:"analysis_id,snappy"`

	ProjectID   string `parquet:"project_id,snappy"`
	ProjectName string `parquet:"project_name,snappy"`

	// VersionLabel is nullable for analyses that were never versioned
	VersionLabel *string `parquet:"version_label,optional,snappy"`
	VersionIndex int32   `parquet:"version_index,snappy"`

	// Overall is the weighted composite score (0-100)
	Overall int32  `parquet:"overall,snappy"`
	Grade   string `parquet:"grade,snappy"`

	IssueCount int32 `parquet:"issue_count,snappy"`

	// CreatedAt is stored as TIMESTAMP with nanosecond precision
	CreatedAt time.Time `parquet:"created_at,snappy"`
}

// IssueRow is one persisted issue.
// This struct maps to the qualityscore_analysis_issues database table.
type IssueRow struct {
	ID         int64  `parquet:"id,snappy"`
	AnalysisID string `parquet:"analysis_id,snappy"`
	Tool       string `parquet:"tool,snappy"`
	FilePath   string `parquet:"file_path,snappy"`
	Line       int32  `parquet:"line,snappy"`
	Column     int32  `parquet:"column,snappy"`
	Severity   string `parquet:"severity,snappy"`
	Rule       string `parquet:"rule,snappy"`
	Message    string `parquet:"message,snappy"`

	// Suggestion is nullable when no fix guidance exists
	Suggestion *string `parquet:"suggestion,optional,snappy"`
}

// WriteAnalysesParquet writes analysis rows to a Parquet file.
func WriteAnalysesParquet(data []AnalysisRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteIssuesParquet writes issue rows to a Parquet file.
func WriteIssuesParquet(data []IssueRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet derives the schema from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertAnalysisSummaries converts listing rows for Parquet export.
func ConvertAnalysisSummaries(summaries []schema.AnalysisSummary) []AnalysisRow {
	result := make([]AnalysisRow, len(summaries))
	for i, s := range summaries {
		result[i] = AnalysisRow{
			AnalysisID:   s.ID,
			ProjectID:    s.ProjectID,
			ProjectName:  s.ProjectName,
			VersionLabel: optional(s.VersionLabel),
			VersionIndex: int32(s.VersionIndex),
			Overall:      int32(s.Overall),
			Grade:        string(s.Grade),
			IssueCount:   int32(s.IssueCount),
			CreatedAt:    s.CreatedAt,
		}
	}
	return result
}

// ConvertIssueRecords converts persisted issue rows for Parquet export.
func ConvertIssueRecords(records []schema.IssueRecord) []IssueRow {
	result := make([]IssueRow, len(records))
	for i, r := range records {
		result[i] = IssueRow{
			ID:         r.ID,
			AnalysisID: r.AnalysisID,
			Tool:       string(r.Tool),
			FilePath:   r.File,
			Line:       int32(r.Line),
			Column:     int32(r.Column),
			Severity:   string(r.Severity),
			Rule:       r.Rule,
			Message:    r.Message,
			Suggestion: optional(r.Suggestion),
		}
	}
	return result
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
