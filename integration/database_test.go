//go:build database

package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/qualityscore/internal/datastore"
	"github.com/huangsam/qualityscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startMySQL starts a MySQL 8 container and returns its DSN.
func startMySQL(t *testing.T) string {
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "qualityscore",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "3306")
	require.NoError(t, err)
	return fmt.Sprintf("root:secret123@tcp(%s:%s)/qualityscore?parseTime=true&multiStatements=true", host, port.Port())
}

// startPostgres starts a Postgres 18 container and returns its connection string.
func startPostgres(t *testing.T) string {
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432")
	require.NoError(t, err)
	return fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
}

// exerciseStore runs the store contract end to end against a live backend.
func exerciseStore(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	ctx := context.Background()
	var out strings.Builder
	require.NoError(t, datastore.MigrateStore(backend, connStr, -1, &out))

	s, err := datastore.NewDataStore(backend, connStr)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	project, err := s.GetOrCreateProject(ctx, "u1", "demo", schema.JavaScript)
	require.NoError(t, err)
	again, err := s.GetOrCreateProject(ctx, "u1", "demo", schema.JavaScript)
	require.NoError(t, err)
	assert.Equal(t, project.ID, again.ID)

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, s.CreateVersion(ctx, schema.Version{
		ID: "v-1", ProjectID: project.ID, Index: 1, Label: "v1",
		Weights: schema.DefaultWeights(), ContentHash: "abc", CreatedAt: now,
	}))
	versions, err := s.ListVersions(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "abc", versions[0].ContentHash)

	require.NoError(t, s.SaveWeights(ctx, "u1", schema.WeightVector{Style: 0.5, Comment: 0.5}))
	weights, found, err := s.GetWeights(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.InDelta(t, 0.5, weights.Style, 1e-9)

	analysis := &schema.Analysis{
		ID: "a1", Owner: "u1", ProjectID: project.ID, ProjectName: "demo",
		VersionID: "v-1", VersionLabel: "v1", VersionIndex: 1, CreatedAt: now,
		Scores: &schema.Scores{Summary: schema.ScoreSummary{Overall: 80, QualityLevel: schema.GradeB}},
	}
	issue := schema.Issue{Tool: schema.ESLintTool, File: "src/a.js", Line: 1, Column: 2, Severity: schema.SeverityError, Rule: "semi", Message: "Missing semicolon."}
	require.NoError(t, s.InsertAnalysis(ctx, analysis))
	require.NoError(t, s.InsertIssues(ctx, "u1", "a1", []schema.Issue{issue, issue}))

	removed, err := s.DedupeIssues(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	got, err := s.GetAnalysis(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.Equal(t, 80, got.Scores.Summary.Overall)
	assert.Len(t, got.Issues, 1)

	count, err := s.CountAnalysesSince(ctx, "u1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	status, err := s.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, status.TotalAnalyses)

	require.NoError(t, s.DeleteAnalysis(ctx, "u1", "a1"))
	_, err = s.GetAnalysis(ctx, "u1", "a1")
	assert.ErrorIs(t, err, schema.ErrAnalysisNotFound)

	require.NoError(t, datastore.ClearStore(backend, "", connStr))
}

// TestStoreWithMySQL exercises the datastore and the CLI against MySQL.
func TestStoreWithMySQL(t *testing.T) {
	connStr := startMySQL(t)
	exerciseStore(t, schema.MySQLBackend, connStr)

	env := []string{"QUALITYSCORE_BACKEND=mysql", "QUALITYSCORE_DB_CONNECT=" + connStr}
	_, err := runCommand(t, "..", env, "analysis", "migrate")
	require.NoError(t, err)
	out, err := runCommand(t, "..", env, "analysis", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "mysql")
	_, err = runCommand(t, "..", env, "analysis", "clear")
	require.NoError(t, err)
}

// TestStoreWithPostgres exercises the datastore and the CLI against PostgreSQL.
func TestStoreWithPostgres(t *testing.T) {
	connStr := startPostgres(t)
	exerciseStore(t, schema.PostgreSQLBackend, connStr)

	env := []string{"QUALITYSCORE_BACKEND=postgresql", "QUALITYSCORE_DB_CONNECT=" + connStr}
	_, err := runCommand(t, "..", env, "analysis", "migrate")
	require.NoError(t, err)
	out, err := runCommand(t, "..", env, "analysis", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "postgresql")
	_, err = runCommand(t, "..", env, "analysis", "clear")
	require.NoError(t, err)
}
