package datastore

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"
)

// GetStatus implements the DataStore interface.
func (s *Store) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.disabled() {
		return status, nil
	}

	for _, table := range allTables {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table(table))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalProjects = int(status.TableSizes[projectsTable])
	status.TotalVersions = int(status.TableSizes[versionsTable])
	status.TotalAnalyses = int(status.TableSizes[analysesTable])
	status.TotalIssues = int(status.TableSizes[issuesTable])

	if status.TotalAnalyses > 0 {
		var last, oldest dbTime
		query := fmt.Sprintf("SELECT MAX(created_at), MIN(created_at) FROM %s", s.table(analysesTable))
		if err := s.db.QueryRow(query).Scan(&last, &oldest); err != nil {
			return status, fmt.Errorf("failed to get analysis time range: %w", err)
		}
		status.LastAnalysisTime = last.Time
		status.OldestAnalysisTime = oldest.Time
	}
	return status, nil
}

// PrintStatus writes store status information to w.
func PrintStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Projects: %d\n", status.TotalProjects)
	_, _ = fmt.Fprintf(w, "Versions: %d\n", status.TotalVersions)
	_, _ = fmt.Fprintf(w, "Analyses: %d\n", status.TotalAnalyses)
	_, _ = fmt.Fprintf(w, "Issues: %d\n", status.TotalIssues)
	if status.TotalAnalyses > 0 {
		_, _ = fmt.Fprintf(w, "Last Analysis: %s (%s)\n",
			status.LastAnalysisTime.Format(contract.DateTimeFormat), humanize.Time(status.LastAnalysisTime))
		_, _ = fmt.Fprintf(w, "Oldest Analysis: %s (%s)\n",
			status.OldestAnalysisTime.Format(contract.DateTimeFormat), humanize.Time(status.OldestAnalysisTime))
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range allTables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
