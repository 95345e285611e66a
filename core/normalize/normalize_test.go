package normalize

import (
	"encoding/json"
	"testing"

	"github.com/huangsam/qualityscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogExplainCaseInsensitive(t *testing.T) {
	c := DefaultCatalog()
	e, ok := c.Explain("No-Unused-Vars")
	require.True(t, ok)
	assert.Equal(t, "A variable is declared but never used.", e.Description)

	_, ok = c.Explain("F401")
	assert.False(t, ok)
}

func TestDefaultImpact(t *testing.T) {
	tests := []struct {
		rule     string
		expected string
	}{
		{"UnusedPrivateField", "Reduces code clarity and adds technical debt."},
		{"no-console-log", "Leftover logging can leak into production."},
		{"NPathComplexity", "High complexity makes the code hard to maintain."},
		{"AvoidDuplicateLiterals", "Duplication raises maintenance cost."},
		{"code-style", "Breaks the style guide and hurts consistency."},
		{"E501", GenericImpact},
		{"", GenericImpact},
	}
	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			assert.Equal(t, tt.expected, DefaultImpact(tt.rule))
		})
	}
}

func TestCatalogSuggestionChain(t *testing.T) {
	c := DefaultCatalog()
	tests := []struct {
		name     string
		tool     schema.Tool
		rule     string
		message  string
		inline   string
		expected string
	}{
		{
			name:     "eslint extractor",
			tool:     schema.ESLintTool,
			rule:     "no-unused-vars",
			message:  "'total' is assigned a value but never used.",
			expected: "Remove unused variable 'total'.",
		},
		{
			name:     "eslint table when extractor misses",
			tool:     schema.ESLintTool,
			rule:     "no-unused-vars",
			message:  "'x' is defined but never used.",
			expected: "Remove the unused variable or use it as intended.",
		},
		{
			name:     "ruff import extractor",
			tool:     schema.RuffTool,
			rule:     "F401",
			message:  "`os` imported but unused",
			expected: "Remove import 'os' if unused.",
		},
		{
			name:     "ruff variable extractor",
			tool:     schema.RuffTool,
			rule:     "F841",
			message:  "Local variable 'tmp' is assigned to but never used",
			expected: "Remove variable 'tmp' if unused.",
		},
		{
			name:     "ruff table",
			tool:     schema.RuffTool,
			rule:     "E501",
			message:  "Line too long (120 > 88)",
			expected: "Split the long line to keep it readable.",
		},
		{
			name:     "inline fix before explanation",
			tool:     schema.ESLintTool,
			rule:     "complexity",
			inline:   "Extract a helper.",
			expected: "Extract a helper.",
		},
		{
			name:     "explanation suggestion",
			tool:     schema.ESLintTool,
			rule:     "complexity",
			expected: "Split it into smaller functions with fewer branches.",
		},
		{
			name:     "pmd tool fallback",
			tool:     schema.PMDTool,
			rule:     "SystemPrintln",
			expected: PMDGenericFix,
		},
		{
			name:     "generic fallback",
			tool:     schema.RuffTool,
			rule:     "UP035",
			expected: GenericSuggestion,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Suggestion(tt.tool, tt.rule, tt.message, tt.inline))
		})
	}
}

func TestCatalogDescriptionFallback(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, "Loose equality with == instead of ===.", c.Description("eqeqeq"))
	assert.Equal(t, "Loose equality with == instead of ===.", c.Description(" EQEQEQ "))
	assert.Equal(t, GenericDescription, c.Description("custom-rule"))
	assert.Equal(t, GenericDescription, c.Description(""))
}

func TestNewCatalogIsolatedFromInput(t *testing.T) {
	explanations := map[string]Explanation{"My-Rule": {Description: "mine"}}
	c := NewCatalog(explanations, nil)
	explanations["My-Rule"] = Explanation{Description: "changed"}

	e, ok := c.Explain("my-rule")
	require.True(t, ok)
	assert.Equal(t, "mine", e.Description)
}

func TestIssuesESLint(t *testing.T) {
	var r schema.ESLintReport
	require.NoError(t, json.Unmarshal([]byte(`[{"filePath":"/p/a.js","messages":[
		{"ruleId":"no-unused-vars","severity":2,"message":"'x' is assigned a value but never used.","line":3,"column":7},
		{"ruleId":"semi","severity":1,"message":"Missing semicolon.","line":4,"column":10,
		 "fix":{"range":[40,40],"text":";"},"suggestions":[{"desc":"Add semicolon"}]}
	]}]`), &r))

	issues := New(nil, "").Issues(schema.Reports{r})
	require.Len(t, issues, 2)

	assert.Equal(t, schema.Issue{
		Tool:        schema.ESLintTool,
		File:        "/p/a.js",
		Line:        3,
		Column:      7,
		Severity:    schema.SeverityError,
		Rule:        "no-unused-vars",
		Message:     "'x' is assigned a value but never used.",
		Description: "A variable is declared but never used.",
		Impact:      "Clutters the code and adds technical debt.",
		Suggestion:  "Remove unused variable 'x'.",
	}, issues[0])

	assert.Equal(t, schema.SeverityWarn, issues[1].Severity)
	assert.Equal(t, GenericDescription, issues[1].Description)
	assert.Equal(t, "Add semicolon", issues[1].Suggestion)
	require.NotNil(t, issues[1].Fix)
	assert.Equal(t, []int{40, 40}, issues[1].Fix.Range)
	assert.Equal(t, ";", issues[1].Fix.Text)
}

func TestIssuesRuffAndPMD(t *testing.T) {
	ruff := schema.RuffReport{
		{Code: "F401", Message: "`sys` imported but unused", Filename: "m.py", Location: &schema.RuffLocation{Row: 1, Column: 8}},
		{Code: "UP035", Message: "Deprecated import", Filename: "m.py", Fix: &schema.RuffFix{Message: "Import from collections.abc"}},
	}
	pmd := schema.PMDReport{Files: []schema.PMDFile{{Filename: "A.java", Violations: []schema.PMDViolation{
		{BeginLine: 5, BeginColumn: 2, Rule: "EmptyCatchBlock", Description: "Avoid empty catch blocks", Priority: 2},
		{BeginLine: 9, Rule: "GodClass", Priority: 3},
		{Rule: "Unknown", Priority: 0},
	}}}}

	issues := New(nil, "").Issues(schema.Reports{ruff, schema.LineCountReport{}, pmd})
	require.Len(t, issues, 5)

	assert.Equal(t, schema.RuffTool, issues[0].Tool)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, 8, issues[0].Column)
	assert.Equal(t, schema.SeverityError, issues[0].Severity)
	assert.Equal(t, "Remove import 'sys' if unused.", issues[0].Suggestion)
	assert.Equal(t, 0, issues[1].Line)
	assert.Equal(t, "Import from collections.abc", issues[1].Suggestion)

	assert.Equal(t, schema.PMDTool, issues[2].Tool)
	assert.Equal(t, "A.java", issues[2].File)
	assert.Equal(t, schema.SeverityError, issues[2].Severity)
	assert.Equal(t, "Handle or log the exception in the catch block.", issues[2].Suggestion)
	assert.Equal(t, schema.SeverityWarn, issues[3].Severity)
	assert.Equal(t, "GodClass", issues[3].Message)
	assert.Equal(t, GenericDescription, issues[3].Description)
	assert.Equal(t, schema.SeverityWarn, issues[4].Severity)
	assert.Equal(t, PMDGenericFix, issues[4].Suggestion)
}

func TestIssuesEmpty(t *testing.T) {
	issues := New(nil, "").Issues(nil)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestDuplicationBlocks(t *testing.T) {
	var r schema.JSCPDReport
	require.NoError(t, json.Unmarshal([]byte(`{"duplicates":[
		{"lines":6,"tokens":48,"fragment":"let a = 1;",
		 "firstFile":{"name":"/work/src/a.js","start":1,"end":6},
		 "secondFile":"/work/src/lib/b.js"}
	]}`), &r))

	blocks := New(nil, "/work/src").DuplicationBlocks(schema.Reports{r})
	require.Len(t, blocks, 1)
	b := blocks[0]
	assert.Equal(t, 6, b.Lines)
	assert.Equal(t, 48, b.Tokens)
	assert.Equal(t, []string{"a.js", "lib/b.js"}, b.Files)
	assert.Equal(t, 1, b.Locations[0].Start)
	assert.Equal(t, 6, b.Locations[0].End)
	require.NotNil(t, b.Fragment)
	assert.Equal(t, "let a = 1;", *b.Fragment)
	assert.Equal(t, DuplicationFix, b.Suggestion)

	unrooted := New(nil, "").DuplicationBlocks(schema.Reports{r})
	assert.Equal(t, []string{"/work/src/a.js", "/work/src/lib/b.js"}, unrooted[0].Files)

	assert.Empty(t, New(nil, "").DuplicationBlocks(schema.Reports{schema.ESLintReport{}}))
}
