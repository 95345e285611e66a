// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/qualityscore/schema"
)

// CommandRunner runs external analysis tools.
// This allows adapters to be tested without the tools installed.
type CommandRunner interface {
	// Run executes name with args inside dir and returns stdout.
	// A non-zero exit still returns whatever stdout was captured, alongside the error.
	Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// AnalysisStore persists analyses and their issue rows.
type AnalysisStore interface {
	// InsertAnalysis writes the analysis row without its issues.
	InsertAnalysis(ctx context.Context, a *schema.Analysis) error

	// InsertIssues writes all issue rows of an analysis as one batch.
	InsertIssues(ctx context.Context, owner, analysisID string, issues []schema.Issue) error

	// DeleteAnalysis removes an analysis and its issues, scoped by owner.
	DeleteAnalysis(ctx context.Context, owner, analysisID string) error

	// GetAnalysis returns a full analysis with issues, or schema.ErrAnalysisNotFound.
	GetAnalysis(ctx context.Context, owner, analysisID string) (*schema.Analysis, error)

	// ListAnalyses returns summaries newest first, optionally filtered by project.
	ListAnalyses(ctx context.Context, owner, projectID string, limit int) ([]schema.AnalysisSummary, error)

	// CountAnalyses returns how many analyses the owner has in total.
	CountAnalyses(ctx context.Context, owner string) (int, error)

	// CountAnalysesSince returns how many analyses the owner created after since.
	CountAnalysesSince(ctx context.Context, owner string, since time.Time) (int, error)
}

// VersionStore reads and creates project versions.
type VersionStore interface {
	ListVersions(ctx context.Context, projectID string) ([]schema.Version, error)
	CreateVersion(ctx context.Context, v schema.Version) error

	// DeleteVersion removes a version that never got an analysis.
	DeleteVersion(ctx context.Context, projectID, versionID string) error
}

// ProjectStore resolves projects for an owner.
type ProjectStore interface {
	// GetProject returns the project, or schema.ErrProjectNotFound.
	GetProject(ctx context.Context, owner, projectID string) (*schema.Project, error)

	// GetOrCreateProject finds a project by owner and name, creating it with language if missing.
	GetOrCreateProject(ctx context.Context, owner, name string, language schema.Language) (*schema.Project, error)
}

// SettingsStore holds per-owner weight configuration.
type SettingsStore interface {
	// GetWeights returns the saved weights and whether any were saved.
	GetWeights(ctx context.Context, owner string) (schema.WeightVector, bool, error)
	SaveWeights(ctx context.Context, owner string, weights schema.WeightVector) error
}

// DataStore is the full persistence surface used by the CLI.
type DataStore interface {
	AnalysisStore
	VersionStore
	ProjectStore
	SettingsStore

	// ListIssueRecords returns persisted issue rows, optionally for one analysis.
	ListIssueRecords(ctx context.Context, owner, analysisID string) ([]schema.IssueRecord, error)

	// DedupeIssues removes repeated issue rows and returns how many were removed.
	DedupeIssues(ctx context.Context, analysisID string) (int64, error)

	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}
