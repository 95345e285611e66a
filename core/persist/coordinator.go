// Package persist commits an analysis and its issues as one logical unit.
package persist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"
)

// ErrOrphanedAnalysis marks a commit whose compensating delete failed, leaving
// an analysis row without issues.
var ErrOrphanedAnalysis = errors.New("analysis row left without issues")

// ValidationError names the first missing field of a commit.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}

// Coordinator writes analyses through an AnalysisStore.
type Coordinator struct {
	store  contract.AnalysisStore
	logger *slog.Logger
}

// NewCoordinator creates a coordinator for store.
func NewCoordinator(store contract.AnalysisStore, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Coordinator{store: store, logger: logger}
}

// Commit validates, inserts the analysis, then inserts all issues in one
// batch. When the batch fails the analysis row is deleted again and the
// original error is returned. If that delete also fails, the returned error
// joins both and matches ErrOrphanedAnalysis.
func (c *Coordinator) Commit(ctx context.Context, owner string, a *schema.Analysis, issues []schema.Issue) error {
	if err := Validate(owner, a, issues); err != nil {
		return err
	}

	if err := c.store.InsertAnalysis(ctx, a); err != nil {
		return fmt.Errorf("failed to insert analysis %s: %w", a.ID, err)
	}

	insertErr := c.store.InsertIssues(ctx, owner, a.ID, issues)
	if insertErr == nil {
		return nil
	}
	insertErr = fmt.Errorf("failed to insert issues for analysis %s: %w", a.ID, insertErr)

	c.logger.Warn("issue insert failed, removing analysis", "analysis_id", a.ID, "error", insertErr)
	if delErr := c.store.DeleteAnalysis(ctx, owner, a.ID); delErr != nil {
		c.logger.Error("compensating delete failed, analysis row is orphaned",
			"analysis_id", a.ID, "insert_error", insertErr, "delete_error", delErr)
		return errors.Join(insertErr, fmt.Errorf("%w: %w", ErrOrphanedAnalysis, delErr))
	}
	return insertErr
}

// Validate checks required fields in a fixed order and reports the first missing one.
func Validate(owner string, a *schema.Analysis, issues []schema.Issue) error {
	switch {
	case blank(owner):
		return &ValidationError{Field: "owner"}
	case a == nil || blank(a.ID):
		return &ValidationError{Field: "analysis.id"}
	case blank(a.ProjectID):
		return &ValidationError{Field: "analysis.projectId"}
	case blank(a.ProjectName):
		return &ValidationError{Field: "analysis.projectName"}
	case a.Scores == nil:
		return &ValidationError{Field: "analysis.scores.summary.overall"}
	case a.Scores.Summary.QualityLevel == "":
		return &ValidationError{Field: "analysis.scores.summary.quality_level"}
	}
	for i, issue := range issues {
		if blank(issue.File) {
			return &ValidationError{Field: fmt.Sprintf("issue[%d].file", i)}
		}
		if blank(issue.Message) {
			return &ValidationError{Field: fmt.Sprintf("issue[%d].message", i)}
		}
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
