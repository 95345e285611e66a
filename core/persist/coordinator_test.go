package persist

import (
	"context"
	"errors"
	"testing"

	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/internal/datastore"
	"github.com/huangsam/qualityscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAnalysis() *schema.Analysis {
	return &schema.Analysis{
		ID:          "a1",
		ProjectID:   "p1",
		ProjectName: "demo",
		Scores: &schema.Scores{
			Summary: schema.ScoreSummary{Overall: 80, QualityLevel: schema.GradeB},
		},
	}
}

func validIssues() []schema.Issue {
	return []schema.Issue{
		{Tool: schema.ESLintTool, File: "a.js", Message: "unused"},
		{Tool: schema.RuffTool, File: "b.py", Message: "import"},
	}
}

func TestValidateOrder(t *testing.T) {
	tests := []struct {
		name   string
		owner  string
		mutate func(a *schema.Analysis, issues []schema.Issue) []schema.Issue
		field  string
	}{
		{"owner", " ", nil, "owner"},
		{"id", "u", func(a *schema.Analysis, i []schema.Issue) []schema.Issue { a.ID = ""; a.ProjectID = ""; return i }, "analysis.id"},
		{"project id", "u", func(a *schema.Analysis, i []schema.Issue) []schema.Issue { a.ProjectID = ""; return i }, "analysis.projectId"},
		{"project name", "u", func(a *schema.Analysis, i []schema.Issue) []schema.Issue { a.ProjectName = ""; return i }, "analysis.projectName"},
		{"scores", "u", func(a *schema.Analysis, i []schema.Issue) []schema.Issue { a.Scores = nil; return i }, "analysis.scores.summary.overall"},
		{"grade", "u", func(a *schema.Analysis, i []schema.Issue) []schema.Issue {
			a.Scores.Summary.QualityLevel = ""
			return i
		}, "analysis.scores.summary.quality_level"},
		{"issue file", "u", func(_ *schema.Analysis, i []schema.Issue) []schema.Issue { i[1].File = ""; return i }, "issue[1].file"},
		{"issue message", "u", func(_ *schema.Analysis, i []schema.Issue) []schema.Issue { i[0].Message = ""; return i }, "issue[0].message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, issues := validAnalysis(), validIssues()
			if tt.mutate != nil {
				issues = tt.mutate(a, issues)
			}
			err := Validate(tt.owner, a, issues)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.field+" is required", err.Error())
		})
	}

	assert.NoError(t, Validate("u", validAnalysis(), nil))
	assert.ErrorContains(t, Validate("u", nil, nil), "analysis.id")
}

func TestCommitSuccess(t *testing.T) {
	ctx := context.Background()
	a, issues := validAnalysis(), validIssues()
	store := &contract.MockDataStore{}
	store.On("InsertAnalysis", ctx, a).Return(nil)
	store.On("InsertIssues", ctx, "u", "a1", issues).Return(nil)

	require.NoError(t, NewCoordinator(store, nil).Commit(ctx, "u", a, issues))
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "DeleteAnalysis", ctx, "u", "a1")
}

func TestCommitValidationSkipsStore(t *testing.T) {
	store := &contract.MockDataStore{}
	err := NewCoordinator(store, nil).Commit(context.Background(), "", validAnalysis(), nil)
	assert.ErrorContains(t, err, "owner is required")
	store.AssertExpectations(t)
}

func TestCommitAnalysisInsertFails(t *testing.T) {
	ctx := context.Background()
	a := validAnalysis()
	store := &contract.MockDataStore{}
	store.On("InsertAnalysis", ctx, a).Return(errors.New("disk full"))

	err := NewCoordinator(store, nil).Commit(ctx, "u", a, validIssues())
	assert.ErrorContains(t, err, "disk full")
	store.AssertExpectations(t)
}

func TestCommitCompensates(t *testing.T) {
	ctx := context.Background()
	a, issues := validAnalysis(), validIssues()
	store := &contract.MockDataStore{}
	store.On("InsertAnalysis", ctx, a).Return(nil)
	store.On("InsertIssues", ctx, "u", "a1", issues).Return(errors.New("bad row"))
	store.On("DeleteAnalysis", ctx, "u", "a1").Return(nil)

	err := NewCoordinator(store, nil).Commit(ctx, "u", a, issues)
	assert.ErrorContains(t, err, "bad row")
	assert.NotErrorIs(t, err, ErrOrphanedAnalysis)
	store.AssertExpectations(t)
}

func TestCommitOrphaned(t *testing.T) {
	ctx := context.Background()
	a, issues := validAnalysis(), validIssues()
	store := &contract.MockDataStore{}
	store.On("InsertAnalysis", ctx, a).Return(nil)
	store.On("InsertIssues", ctx, "u", "a1", issues).Return(errors.New("bad row"))
	store.On("DeleteAnalysis", ctx, "u", "a1").Return(errors.New("connection lost"))

	err := NewCoordinator(store, nil).Commit(ctx, "u", a, issues)
	assert.ErrorIs(t, err, ErrOrphanedAnalysis)
	assert.ErrorContains(t, err, "bad row")
	assert.ErrorContains(t, err, "connection lost")
	store.AssertExpectations(t)
}

// brokenIssues is a real store whose issue batch always fails.
type brokenIssues struct {
	contract.AnalysisStore
}

func (brokenIssues) InsertIssues(context.Context, string, string, []schema.Issue) error {
	return errors.New("issue table is read-only")
}

func TestCommitRollsBackOnSQLite(t *testing.T) {
	ctx := context.Background()
	store, err := datastore.NewDataStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	a := validAnalysis()
	a.Owner = "u1"
	err = NewCoordinator(brokenIssues{store}, nil).Commit(ctx, "u1", a, validIssues())
	require.ErrorContains(t, err, "issue table is read-only")
	assert.NotErrorIs(t, err, ErrOrphanedAnalysis)

	_, err = store.GetAnalysis(ctx, "u1", "a1")
	assert.ErrorIs(t, err, schema.ErrAnalysisNotFound)
	count, err := store.CountAnalyses(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)
}
