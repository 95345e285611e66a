package datastore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/qualityscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewDataStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleAnalysis(id string, created time.Time) *schema.Analysis {
	return &schema.Analysis{
		ID:           id,
		Owner:        "u1",
		ProjectID:    "p1",
		ProjectName:  "demo",
		VersionID:    "v-" + id,
		VersionLabel: "release-" + id,
		VersionIndex: 1,
		CreatedAt:    created,
		Languages:    []schema.Language{schema.JavaScript},
		Scores: &schema.Scores{
			ProjectName: "demo",
			Summary:     schema.ScoreSummary{Overall: 77, QualityLevel: schema.GradeB},
			Weights:     schema.DefaultWeights(),
		},
		Issues: []schema.Issue{
			{Tool: schema.ESLintTool, File: "app.js", Line: 3, Column: 1, Severity: schema.SeverityError,
				Rule: "semi", Message: "Missing semicolon.", Fix: &schema.IssueFix{Range: []int{10, 10}, Text: ";"}},
			{Tool: schema.ESLintTool, File: "app.js", Line: 7, Severity: schema.SeverityWarn,
				Rule: "no-console", Message: "Unexpected console statement."},
		},
	}
}

func TestNewDataStoreUnsupported(t *testing.T) {
	_, err := NewDataStore("oracle", "")
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestNoneBackend(t *testing.T) {
	ctx := context.Background()
	store, err := NewDataStore(schema.NoneBackend, "")
	require.NoError(t, err)

	p, err := store.GetOrCreateProject(ctx, "u1", "demo", schema.Python)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, schema.Python, p.Language)

	_, err = store.GetProject(ctx, "u1", p.ID)
	assert.ErrorIs(t, err, schema.ErrProjectNotFound)
	assert.NoError(t, store.InsertAnalysis(ctx, sampleAnalysis("a1", time.Now())))
	_, err = store.GetAnalysis(ctx, "u1", "a1")
	assert.ErrorIs(t, err, schema.ErrAnalysisNotFound)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestProjects(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	p1, err := store.GetOrCreateProject(ctx, "u1", "demo", schema.JavaScript)
	require.NoError(t, err)
	p2, err := store.GetOrCreateProject(ctx, "u1", "demo", schema.Python)
	require.NoError(t, err)
	assert.Equal(t, p1.ID, p2.ID)
	assert.Equal(t, schema.JavaScript, p2.Language, "existing project keeps its language")

	other, err := store.GetOrCreateProject(ctx, "u2", "demo", schema.Java)
	require.NoError(t, err)
	assert.NotEqual(t, p1.ID, other.ID)

	got, err := store.GetProject(ctx, "u1", p1.ID)
	require.NoError(t, err)
	assert.Equal(t, "demo", got.Name)

	_, err = store.GetProject(ctx, "u2", p1.ID)
	assert.ErrorIs(t, err, schema.ErrProjectNotFound)
}

func TestVersions(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	weights := schema.WeightVector{Style: 0.5, Complexity: 0.2, Duplication: 0.2, Comment: 0.1}

	for i, label := range []string{"second", "first"} {
		require.NoError(t, store.CreateVersion(ctx, schema.Version{
			ID: label, ProjectID: "p1", Index: 2 - i, Label: label, Weights: weights,
			ContentHash: "hash-" + label, CreatedAt: time.Now(),
		}))
	}

	versions, err := store.ListVersions(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "first", versions[0].Label)
	assert.Equal(t, 2, versions[1].Index)
	assert.True(t, versions[0].Weights.Equal(weights))

	err = store.CreateVersion(ctx, schema.Version{ID: "dup", ProjectID: "p1", Index: 1, Label: "dup"})
	assert.Error(t, err, "version index is unique per project")

	require.NoError(t, store.DeleteVersion(ctx, "other", "second"))
	require.NoError(t, store.DeleteVersion(ctx, "p1", "second"))
	versions, err = store.ListVersions(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "first", versions[0].Label)
}

func TestWeights(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	_, found, err := store.GetWeights(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, found)

	w := schema.WeightVector{Style: 0.4, Complexity: 0.3, Duplication: 0.2, Comment: 0.1}
	require.NoError(t, store.SaveWeights(ctx, "u1", w))
	w.Comment = 0.2
	require.NoError(t, store.SaveWeights(ctx, "u1", w))

	got, found, err := store.GetWeights(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, w, got)
}

func TestAnalysisRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := sampleAnalysis("a1", created)

	require.NoError(t, store.InsertAnalysis(ctx, a))
	require.NoError(t, store.InsertIssues(ctx, "u1", "a1", a.Issues))

	got, err := store.GetAnalysis(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.Equal(t, "demo", got.ProjectName)
	assert.Equal(t, 77, got.Scores.Summary.Overall)
	assert.Equal(t, created, got.CreatedAt)
	require.Len(t, got.Issues, 2)
	assert.Equal(t, "semi", got.Issues[0].Rule)
	require.NotNil(t, got.Issues[0].Fix)
	assert.Equal(t, ";", got.Issues[0].Fix.Text)
	assert.Nil(t, got.Issues[1].Fix)

	_, err = store.GetAnalysis(ctx, "u2", "a1")
	assert.ErrorIs(t, err, schema.ErrAnalysisNotFound)
}

func TestListAndCountAnalyses(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"a1", "a2", "a3"} {
		a := sampleAnalysis(id, base.Add(time.Duration(i)*time.Hour))
		if id == "a3" {
			a.ProjectID = "p2"
		}
		require.NoError(t, store.InsertAnalysis(ctx, a))
	}

	all, err := store.ListAnalyses(ctx, "u1", "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a3", all[0].ID, "newest first")
	assert.Equal(t, 2, all[0].IssueCount)
	assert.Equal(t, schema.GradeB, all[0].Grade)

	limited, err := store.ListAnalyses(ctx, "u1", "p1", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "a2", limited[0].ID)

	n, err := store.CountAnalyses(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = store.CountAnalysesSince(ctx, "u1", base.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = store.CountAnalyses(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteAnalysis(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	a := sampleAnalysis("a1", time.Now())
	require.NoError(t, store.InsertAnalysis(ctx, a))
	require.NoError(t, store.InsertIssues(ctx, "u1", "a1", a.Issues))

	assert.ErrorIs(t, store.DeleteAnalysis(ctx, "u2", "a1"), schema.ErrAnalysisNotFound)
	require.NoError(t, store.DeleteAnalysis(ctx, "u1", "a1"))

	_, err := store.GetAnalysis(ctx, "u1", "a1")
	assert.ErrorIs(t, err, schema.ErrAnalysisNotFound)
	records, err := store.ListIssueRecords(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDedupeIssues(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	a := sampleAnalysis("a1", time.Now())
	b := sampleAnalysis("a2", time.Now())

	require.NoError(t, store.InsertIssues(ctx, "u1", "a1", append(a.Issues, a.Issues...)))
	require.NoError(t, store.InsertIssues(ctx, "u1", "a2", append(b.Issues, b.Issues[0])))

	removed, err := store.DedupeIssues(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	records, err := store.ListIssueRecords(ctx, "", "a2")
	require.NoError(t, err)
	assert.Len(t, records, 3, "other analyses are untouched")

	removed, err = store.DedupeIssues(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	records, err = store.ListIssueRecords(ctx, "u1", "")
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Less(t, records[0].ID, records[1].ID)
}

func TestGetStatus(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.InsertAnalysis(ctx, sampleAnalysis("a1", base)))
	require.NoError(t, store.InsertAnalysis(ctx, sampleAnalysis("a2", base.Add(time.Hour))))
	_, err := store.GetOrCreateProject(ctx, "u1", "demo", schema.JavaScript)
	require.NoError(t, err)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, 2, status.TotalAnalyses)
	assert.Equal(t, 1, status.TotalProjects)
	assert.Equal(t, base.Add(time.Hour), status.LastAnalysisTime)
	assert.Equal(t, base, status.OldestAnalysisTime)
	assert.Len(t, status.TableSizes, len(allTables))

	var buf bytes.Buffer
	PrintStatus(&buf, status)
	assert.Contains(t, buf.String(), "Analyses: 2")
	assert.Contains(t, buf.String(), "qualityscore_analyses: 2 rows")
}

func TestExportStore(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	out := filepath.Join(t.TempDir(), "export")

	var buf bytes.Buffer
	assert.ErrorContains(t, ExportStore(ctx, store, "u1", out, &buf), "no analysis data")
	assert.ErrorContains(t, ExportStore(ctx, store, "u1", "", &buf), "--output-file is required")

	a := sampleAnalysis("a1", time.Now())
	require.NoError(t, store.InsertAnalysis(ctx, a))
	require.NoError(t, store.InsertIssues(ctx, "u1", "a1", a.Issues))

	require.NoError(t, ExportStore(ctx, store, "u1", out, &buf))
	assert.FileExists(t, out+".analyses.parquet")
	assert.FileExists(t, out+".issues.parquet")
	assert.Contains(t, buf.String(), "Exported 2 issues")
}

func TestMigrateStore(t *testing.T) {
	var buf bytes.Buffer
	err := MigrateStore(schema.NoneBackend, "", -1, &buf)
	assert.ErrorContains(t, err, "migrations are not supported for NoneBackend")

	dbPath := filepath.Join(t.TempDir(), "migrate.db")
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, -1, &buf))
	assert.Contains(t, buf.String(), "Successfully migrated")

	buf.Reset()
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, -1, &buf))
	assert.Contains(t, buf.String(), "No migration needed")

	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, 0, &buf))
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, 1, &buf))

	// A migrated database still opens; table creation is idempotent.
	store, err := NewDataStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestClearStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "clear.db")
	store, err := NewDataStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""), "missing file is fine")
	assert.Error(t, ClearStore(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearStore(schema.NoneBackend, "", ""))
	assert.ErrorContains(t, ClearStore("oracle", "", ""), "unsupported backend")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "SELECT $1, $2", rebind("SELECT ?, ?", schema.PostgreSQLBackend))
	assert.Equal(t, "SELECT ?", rebind("SELECT ?", schema.MySQLBackend))
	assert.Equal(t, "`t`", quoteTableName("t", schema.MySQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.SQLiteBackend))
	assert.NoError(t, validateTableName("qualityscore_projects"))
	assert.Error(t, validateTableName("bad name;"))
	assert.Equal(t, []string{"A", "B"}, splitStatements("A;\n\n B ;\n"))

	var ts dbTime
	require.NoError(t, ts.Scan("2024-05-01 12:00:00.123456"))
	assert.True(t, ts.Valid)
	assert.Equal(t, 123456000, ts.Time.Nanosecond())
	require.NoError(t, ts.Scan(nil))
	assert.False(t, ts.Valid)
	assert.Error(t, ts.Scan(42))
}
