package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/qualityscore/schema"
)

// InsertAnalysis implements the AnalysisStore interface.
// The issues are stored separately by InsertIssues; the payload column keeps the rest.
func (s *Store) InsertAnalysis(ctx context.Context, a *schema.Analysis) error {
	if s.disabled() {
		return nil
	}
	record := *a
	record.Issues = nil
	payload, err := json.Marshal(&record)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	summary := a.Summary()
	query := s.q(fmt.Sprintf(`INSERT INTO %s (id, owner, project_id, project_name, version_id, version_label,
		version_index, overall, grade, issue_count, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table(analysesTable)))
	_, err = s.db.ExecContext(ctx, query,
		a.ID, a.Owner, a.ProjectID, a.ProjectName, a.VersionID, a.VersionLabel,
		a.VersionIndex, summary.Overall, string(summary.Grade), summary.IssueCount, s.ts(a.CreatedAt), string(payload))
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// InsertIssues implements the AnalysisStore interface. All rows are written in one transaction.
func (s *Store) InsertIssues(ctx context.Context, owner, analysisID string, issues []schema.Issue) error {
	if s.disabled() || len(issues) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := s.q(fmt.Sprintf(`INSERT INTO %s (analysis_id, owner, tool, file_path, line_number, column_number,
		severity, rule_id, message, description, impact, suggestion, fix)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table(issuesTable)))
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare issue insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, issue := range issues {
		var fix string
		if issue.Fix != nil {
			raw, err := json.Marshal(issue.Fix)
			if err != nil {
				return fmt.Errorf("failed to encode fix of issue %d: %w", i, err)
			}
			fix = string(raw)
		}
		if _, err := stmt.ExecContext(ctx, analysisID, owner, string(issue.Tool), issue.File, issue.Line, issue.Column,
			string(issue.Severity), issue.Rule, issue.Message, issue.Description, issue.Impact, issue.Suggestion,
			nullString(fix)); err != nil {
			return fmt.Errorf("failed to insert issue %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// DeleteAnalysis implements the AnalysisStore interface.
func (s *Store) DeleteAnalysis(ctx context.Context, owner, analysisID string) error {
	if s.disabled() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, s.q(fmt.Sprintf(`DELETE FROM %s WHERE id = ? AND owner = ?`, s.table(analysesTable))),
		analysisID, owner)
	if err != nil {
		return fmt.Errorf("failed to delete analysis %s: %w", analysisID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return schema.ErrAnalysisNotFound
	}
	if _, err := tx.ExecContext(ctx, s.q(fmt.Sprintf(`DELETE FROM %s WHERE analysis_id = ? AND owner = ?`, s.table(issuesTable))),
		analysisID, owner); err != nil {
		return fmt.Errorf("failed to delete issues of analysis %s: %w", analysisID, err)
	}
	return tx.Commit()
}

// GetAnalysis implements the AnalysisStore interface.
func (s *Store) GetAnalysis(ctx context.Context, owner, analysisID string) (*schema.Analysis, error) {
	if s.disabled() {
		return nil, schema.ErrAnalysisNotFound
	}
	query := s.q(fmt.Sprintf(`SELECT payload FROM %s WHERE id = ? AND owner = ?`, s.table(analysesTable)))
	var payload string
	if err := s.db.QueryRowContext(ctx, query, analysisID, owner).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schema.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to read analysis %s: %w", analysisID, err)
	}

	var a schema.Analysis
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, fmt.Errorf("failed to decode analysis %s: %w", analysisID, err)
	}
	records, err := s.ListIssueRecords(ctx, owner, analysisID)
	if err != nil {
		return nil, err
	}
	a.Issues = make([]schema.Issue, 0, len(records))
	for _, r := range records {
		a.Issues = append(a.Issues, r.Issue)
	}
	return &a, nil
}

// ListAnalyses implements the AnalysisStore interface. A non-positive limit returns everything.
func (s *Store) ListAnalyses(ctx context.Context, owner, projectID string, limit int) ([]schema.AnalysisSummary, error) {
	if s.disabled() {
		return nil, nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, `SELECT id, project_id, project_name, version_label, version_index, overall, grade, issue_count, created_at
		FROM %s WHERE owner = ?`, s.table(analysesTable))
	args := []any{owner}
	if projectID != "" {
		b.WriteString(" AND project_id = ?")
		args = append(args, projectID)
	}
	b.WriteString(" ORDER BY created_at DESC, id")
	if limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.q(b.String()), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.AnalysisSummary
	for rows.Next() {
		var sum schema.AnalysisSummary
		var grade string
		var created dbTime
		if err := rows.Scan(&sum.ID, &sum.ProjectID, &sum.ProjectName, &sum.VersionLabel, &sum.VersionIndex,
			&sum.Overall, &grade, &sum.IssueCount, &created); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		sum.Grade = schema.Grade(grade)
		sum.CreatedAt = created.Time
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}
	return out, nil
}

// CountAnalyses implements the AnalysisStore interface.
func (s *Store) CountAnalyses(ctx context.Context, owner string) (int, error) {
	if s.disabled() {
		return 0, nil
	}
	var n int
	query := s.q(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE owner = ?`, s.table(analysesTable)))
	if err := s.db.QueryRowContext(ctx, query, owner).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return n, nil
}

// CountAnalysesSince implements the AnalysisStore interface.
func (s *Store) CountAnalysesSince(ctx context.Context, owner string, since time.Time) (int, error) {
	if s.disabled() {
		return 0, nil
	}
	var n int
	query := s.q(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE owner = ? AND created_at > ?`, s.table(analysesTable)))
	if err := s.db.QueryRowContext(ctx, query, owner, s.ts(since)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recent analyses: %w", err)
	}
	return n, nil
}

// ListIssueRecords implements the DataStore interface.
// An empty owner or analysisID widens the selection to every owner or analysis.
func (s *Store) ListIssueRecords(ctx context.Context, owner, analysisID string) ([]schema.IssueRecord, error) {
	if s.disabled() {
		return nil, nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, `SELECT id, analysis_id, owner, tool, file_path, line_number, column_number, severity, rule_id,
		message, description, impact, suggestion, fix FROM %s WHERE 1 = 1`, s.table(issuesTable))
	var args []any
	if owner != "" {
		b.WriteString(" AND owner = ?")
		args = append(args, owner)
	}
	if analysisID != "" {
		b.WriteString(" AND analysis_id = ?")
		args = append(args, analysisID)
	}
	b.WriteString(" ORDER BY id")

	rows, err := s.db.QueryContext(ctx, s.q(b.String()), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.IssueRecord
	for rows.Next() {
		var r schema.IssueRecord
		var tool, severity string
		var fix sql.NullString
		if err := rows.Scan(&r.ID, &r.AnalysisID, &r.Owner, &tool, &r.File, &r.Line, &r.Column, &severity, &r.Rule,
			&r.Message, &r.Description, &r.Impact, &r.Suggestion, &fix); err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		r.Tool = schema.Tool(tool)
		r.Severity = schema.Severity(severity)
		if fix.Valid {
			var f schema.IssueFix
			if err := json.Unmarshal([]byte(fix.String), &f); err == nil {
				r.Fix = &f
			}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issues: %w", err)
	}
	return out, nil
}

// DedupeIssues implements the DataStore interface. For each group of identical
// rows the one with the lowest id is kept. An empty analysisID covers all analyses.
func (s *Store) DedupeIssues(ctx context.Context, analysisID string) (int64, error) {
	if s.disabled() {
		return 0, nil
	}
	table := s.table(issuesTable)
	filter, args := "", []any{}
	if analysisID != "" {
		filter = " WHERE analysis_id = ?"
		args = append(args, analysisID, analysisID)
	}
	keyFilter := strings.Replace(filter, "WHERE", "AND", 1)

	// The derived table lets MySQL read the table it is deleting from.
	query := fmt.Sprintf(`DELETE FROM %[1]s WHERE id NOT IN (
		SELECT keep_id FROM (
			SELECT MIN(id) AS keep_id FROM %[1]s%[2]s
			GROUP BY analysis_id, owner, tool, file_path, line_number, column_number, rule_id, message
		) AS keepers
	)%[3]s`, table, filter, keyFilter)

	res, err := s.db.ExecContext(ctx, s.q(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to dedupe issues: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count removed issues: %w", err)
	}
	return n, nil
}
