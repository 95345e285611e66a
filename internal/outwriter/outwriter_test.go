package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAnalysis() *schema.Analysis {
	weights := schema.DefaultWeights()
	return &schema.Analysis{
		ID:           "a1",
		Owner:        "u1",
		ProjectID:    "p1",
		ProjectName:  "demo",
		VersionLabel: "v1",
		VersionIndex: 1,
		DisplayName:  "demo – v1 (v1)",
		CreatedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Scores: &schema.Scores{
			ProjectName: "demo",
			Summary:     schema.ScoreSummary{Overall: 82, QualityLevel: schema.GradeB},
			Meta:        schema.MetricSnapshot{CodeLines: 1000, KLOC: 1, LintErrors: 3, CommentDensity: 12.5},
			Metrics:     schema.SubScores{Style: 85, Complexity: 90, Duplication: 100, Comment: 60},
			Weights:     weights,
			ScoringModel: schema.ScoringModel{
				Style:       schema.CriterionModel{Weight: weights.Style, BasedOn: "ESLint violations per 1k LOC"},
				Complexity:  schema.CriterionModel{Weight: weights.Complexity, BasedOn: "average cyclomatic complexity"},
				Duplication: schema.CriterionModel{Weight: weights.Duplication, BasedOn: "JSCPD duplication (%)"},
				Comment:     schema.CriterionModel{Weight: weights.Comment, BasedOn: "comment density (%)"},
			},
		},
		Explanation: []schema.QualityReason{
			{Key: "style", Level: schema.LevelMedium, Text: "Some lint violations"},
		},
		QualityDetail: &schema.QualityDetail{Conclusion: "Improve comment."},
		Issues: []schema.Issue{
			{Tool: schema.ESLintTool, File: "src/app.js", Line: 4, Severity: schema.SeverityError, Rule: "no-unused-vars", Message: "'x' is unused"},
			{Tool: schema.ESLintTool, File: "src/app.js", Line: 9, Severity: schema.SeverityWarn, Rule: "eqeqeq", Message: "Expected '==='"},
			{Tool: schema.ESLintTool, File: "src/lib.js", Line: 1, Severity: schema.SeverityWarn, Rule: "semi", Message: "Missing semicolon"},
		},
		DuplicationBlocks: []schema.DuplicationBlock{{Lines: 5, Files: []string{"a.js", "b.js"}}},
	}
}

func textConfig() *contract.Config {
	return &contract.Config{Output: schema.TextOut, IssueLimit: 2, Width: 120, Backend: schema.SQLiteBackend}
}

func TestWriteAnalysisText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeAnalysisText(&buf, sampleAnalysis(), textConfig()))

	out := buf.String()
	assert.Contains(t, out, "demo – v1 (v1)")
	assert.Contains(t, out, "Overall: 82 (B)")
	assert.Contains(t, out, "ESLint violations per 1k LOC")
	assert.Contains(t, out, "[medium] Some lint violations")
	assert.Contains(t, out, "Conclusion: Improve comment.")
	assert.Contains(t, out, "no-unused-vars")
	assert.NotContains(t, out, "semi", "issues beyond the limit are not printed")
	assert.Contains(t, out, "Showing 2 of 3 issues")
	assert.Contains(t, out, "Duplication blocks: 1")
}

func TestWriteAnalysisTextNoIssues(t *testing.T) {
	a := sampleAnalysis()
	a.Issues = nil
	a.DuplicationBlocks = nil
	var buf bytes.Buffer
	require.NoError(t, writeAnalysisText(&buf, a, textConfig()))
	assert.Contains(t, buf.String(), "No issues found")
	assert.NotContains(t, buf.String(), "Duplication blocks")
}

func TestWriteAnalysisCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeAnalysisCSV(&buf, sampleAnalysis()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6) // header + 4 criteria + overall
	assert.Equal(t, []string{"a1", "demo", "style", "85", "0.30", "ESLint violations per 1k LOC"}, records[1])
	assert.Equal(t, "overall", records[5][2])
	assert.Equal(t, "82", records[5][3])
	assert.Equal(t, "B", records[5][5])
}

func TestWriteAnalysisResultJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
	require.NoError(t, NewOutWriter().WriteAnalysis(sampleAnalysis(), cfg))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded schema.Analysis
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, "a1", decoded.ID)
	assert.Equal(t, 82, decoded.Scores.Summary.Overall)
	assert.Len(t, decoded.Issues, 3)
}

func TestWriteAnalysisResultRequiresScores(t *testing.T) {
	err := WriteAnalysisResult(&schema.Analysis{ID: "a1"}, textConfig())
	assert.ErrorContains(t, err, "no scores")
}

func TestWriteAnalysisList(t *testing.T) {
	rows := []schema.AnalysisSummary{
		{ID: "a2", ProjectName: "demo", VersionLabel: "v2", VersionIndex: 2, Overall: 91, Grade: schema.GradeA, IssueCount: 1, CreatedAt: time.Now().Add(-2 * time.Hour)},
		{ID: "a1", ProjectName: "demo", Overall: 70, Grade: schema.GradeC, CreatedAt: time.Now().Add(-48 * time.Hour)},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeAnalysisListTable(&buf, rows, textConfig()))
		out := buf.String()
		assert.Contains(t, out, "v2 (v2)")
		assert.Contains(t, out, "2 hours ago")
		assert.Contains(t, out, "Showing 2 analyses. Backend: sqlite")
	})

	t.Run("empty table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeAnalysisListTable(&buf, nil, textConfig()))
		assert.Equal(t, "No analyses found\n", buf.String())
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeAnalysisListCSV(&buf, rows))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "id", records[0][0])
		assert.Equal(t, "91", records[1][5])
	})

	t.Run("json empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "list.json")
		require.NoError(t, WriteAnalysisList(nil, &contract.Config{Output: schema.JSONOut, OutputFile: path}))
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[]", strings.TrimSpace(string(content)))
	})
}

func TestWriteWeights(t *testing.T) {
	weights := schema.WeightVector{Style: 0.5, Complexity: 0.5}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeWeightsTable(&buf, "u1", weights, true))
		out := buf.String()
		assert.Contains(t, out, "Weights for u1 (saved settings)")
		assert.Contains(t, out, "0.50")
		assert.Contains(t, out, "Sum: 1.00")
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "weights.json")
		cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
		require.NoError(t, NewOutWriter().WriteWeights("u1", weights, false, cfg))
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		var decoded weightsView
		require.NoError(t, json.Unmarshal(content, &decoded))
		assert.False(t, decoded.Saved)
		assert.Equal(t, weights, decoded.Weights)
	})

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "weights.csv")
		cfg := &contract.Config{Output: schema.CSVOut, OutputFile: path}
		require.NoError(t, WriteWeights("u1", weights, false, cfg))
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "style,0.50,0.30")
	})
}

func TestWriteDecision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decision.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
	require.NoError(t, NewOutWriter().WriteDecision(schema.DuplicateVersion, "label v1 already exists", cfg))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded decisionView
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, schema.DuplicateVersion, decoded.Code)
	assert.Equal(t, "label v1 already exists", decoded.Reason)

	textPath := filepath.Join(t.TempDir(), "decision.txt")
	require.NoError(t, WriteDecision(schema.DuplicateVersion, "label v1 already exists", &contract.Config{OutputFile: textPath}))
	text, err := os.ReadFile(textPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), "DUPLICATE_VERSION: label v1 already exists")
}
