package schema

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAnalysisNotFound is returned when no analysis matches an id and owner.
	ErrAnalysisNotFound = errors.New("analysis not found")

	// ErrProjectNotFound is returned when no project matches an id and owner.
	ErrProjectNotFound = errors.New("project not found")
)

// SourceInfo points at the archived source package of an analysis.
type SourceInfo struct {
	SHA256       string    `json:"sha256"`
	ZipSize      int64     `json:"zipSize"`
	OriginalName string    `json:"originalName"`
	ArchivedPath string    `json:"archivedPath"`
	ArchivedAt   time.Time `json:"archivedAt"`
}

// Project is an owner-scoped collection of versions.
type Project struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Name      string    `json:"name"`
	Language  Language  `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// Version is an immutable snapshot of a project's analyzed source.
type Version struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"project_id"`
	Index       int          `json:"version_index"`
	Label       string       `json:"label"`
	Weights     WeightVector `json:"weights"`
	ContentHash string       `json:"content_hash"`
	CreatedAt   time.Time    `json:"created_at"`
}

// DisplayName renders "<project> – <label> (v<index>)".
func (v Version) DisplayName(projectName string) string {
	return fmt.Sprintf("%s – %s (v%d)", projectName, v.Label, v.Index)
}

// Analysis is the top-level aggregate of one accepted run.
type Analysis struct {
	ID                string             `json:"id"`
	Owner             string             `json:"owner"`
	ProjectID         string             `json:"projectId"`
	ProjectName       string             `json:"projectName"`
	VersionID         string             `json:"versionId,omitempty"`
	VersionLabel      string             `json:"versionLabel,omitempty"`
	VersionIndex      int                `json:"versionIndex,omitempty"`
	DisplayName       string             `json:"displayName,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	Languages         []Language         `json:"languages,omitempty"`
	Tools             []Tool             `json:"tools,omitempty"`
	Source            *SourceInfo        `json:"source"`
	Scores            *Scores            `json:"scores"`
	Explanation       []QualityReason    `json:"explanation"`
	QualityDetail     *QualityDetail     `json:"qualityDetail,omitempty"`
	Issues            []Issue            `json:"issues"`
	DuplicationBlocks []DuplicationBlock `json:"duplicationBlocks"`
}

// Summary condenses an analysis for listings.
func (a *Analysis) Summary() AnalysisSummary {
	s := AnalysisSummary{
		ID:           a.ID,
		ProjectID:    a.ProjectID,
		ProjectName:  a.ProjectName,
		VersionLabel: a.VersionLabel,
		VersionIndex: a.VersionIndex,
		IssueCount:   len(a.Issues),
		CreatedAt:    a.CreatedAt,
	}
	if a.Scores != nil {
		s.Overall = a.Scores.Summary.Overall
		s.Grade = a.Scores.Summary.QualityLevel
	}
	return s
}

// AnalysisSummary is a listing row for an analysis.
type AnalysisSummary struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	ProjectName  string    `json:"project_name"`
	VersionLabel string    `json:"version_label"`
	VersionIndex int       `json:"version_index"`
	Overall      int       `json:"overall"`
	Grade        Grade     `json:"grade"`
	IssueCount   int       `json:"issue_count"`
	CreatedAt    time.Time `json:"created_at"`
}
