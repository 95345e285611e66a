package schema_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/huangsam/qualityscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		finite   bool
	}{
		{"integer", `6`, 6, true},
		{"float", `6.25`, 6.25, true},
		{"numeric string", `"6"`, 6, true},
		{"padded numeric string", `" 7.5 "`, 7.5, true},
		{"null is zero", `null`, 0, true},
		{"word string", `"six"`, 0, false},
		{"empty string", `""`, 0, false},
		{"boolean", `true`, 0, false},
		{"object", `{"a":1}`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n schema.Number
			require.NoError(t, json.Unmarshal([]byte(tt.input), &n))
			assert.Equal(t, tt.finite, n.Finite())
			if tt.finite {
				assert.Equal(t, tt.expected, float64(n))
			}
		})
	}
}

func TestNumberMarshal(t *testing.T) {
	data, err := json.Marshal(schema.Number(math.NaN()))
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	data, err = json.Marshal(schema.Number(2.5))
	require.NoError(t, err)
	assert.Equal(t, "2.5", string(data))

	assert.Equal(t, 3.0, schema.Number(math.Inf(1)).Or(3))
	assert.Equal(t, 4, schema.Number(4.9).Int())
}

func TestReportKinds(t *testing.T) {
	tests := []struct {
		report schema.Report
		kind   schema.ReportKind
		tool   schema.Tool
	}{
		{schema.ESLintReport{}, schema.LintKind, schema.ESLintTool},
		{schema.RuffReport{}, schema.LintKind, schema.RuffTool},
		{schema.PMDReport{}, schema.ViolationsKind, schema.PMDTool},
		{schema.RadonReport{}, schema.ComplexityKind, schema.RadonTool},
		{schema.JSCPDReport{}, schema.DuplicationKind, schema.JSCPDTool},
		{schema.LineCountReport{}, schema.LineCountKind, schema.ClocTool},
	}
	for _, tt := range tests {
		t.Run(string(tt.tool), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.report.Kind())
			assert.Equal(t, tt.tool, tt.report.Tool())
		})
	}
}

func TestESLintReportCounts(t *testing.T) {
	var r schema.ESLintReport
	require.NoError(t, json.Unmarshal([]byte(`[
		{"filePath":"a.js","messages":[
			{"ruleId":"no-unused-vars","severity":2,"message":"x","line":1,"column":2},
			{"ruleId":null,"severity":1,"message":"y","line":3,"column":4}
		]},
		{"filePath":"b.js","messages":[{"ruleId":"eqeqeq","severity":"2","message":"z"}]},
		{"filePath":"c.js"}
	]`), &r))

	assert.Equal(t, 2, r.ErrorCount())
	assert.Equal(t, 1, r.WarningCount())
	assert.Equal(t, "", r[0].Messages[1].RuleID)
}

func TestPMDReportFlatten(t *testing.T) {
	var r schema.PMDReport
	require.NoError(t, json.Unmarshal([]byte(`{
		"files":[{"filename":"A.java","violations":[
			{"beginline":3,"begincolumn":5,"rule":"CyclomaticComplexity","priority":3,"metric":12},
			{"beginline":9,"rule":"UnusedLocalVariable","priority":1}
		]}],
		"violations":[{"file":"B.java","rule":"CyclomaticComplexity","additionalProperties":{"ccn":"6"}}]
	}`), &r))

	all := r.AllViolations()
	require.Len(t, all, 3)
	assert.Equal(t, "A.java", all[0].File)
	assert.Equal(t, "A.java", all[1].File)
	assert.Equal(t, "B.java", all[2].File)
	assert.Equal(t, 3, r.ViolationCount())
	assert.InDelta(t, 9.0, r.AverageComplexity(), 1e-9)
}

func TestPMDReportNoComplexity(t *testing.T) {
	r := schema.PMDReport{Violations: []schema.PMDViolation{{Rule: "GodClass"}}}
	assert.Equal(t, 0.0, r.AverageComplexity())
}

func TestRadonReportSkipsErrors(t *testing.T) {
	var r schema.RadonReport
	require.NoError(t, json.Unmarshal([]byte(`{
		"a.py":[{"type":"function","name":"f","complexity":4},{"type":"function","name":"g","complexity":8}],
		"b.py":{"error":"invalid syntax"},
		"c.py":[{"type":"class","name":"C","complexity":null}]
	}`), &r))

	assert.Contains(t, r, "a.py")
	assert.NotContains(t, r, "b.py")
	avg, count := r.AverageComplexity()
	assert.Equal(t, 2, count)
	assert.InDelta(t, 6.0, avg, 1e-9)
}

func TestJSCPDReportShapes(t *testing.T) {
	var r schema.JSCPDReport
	require.NoError(t, json.Unmarshal([]byte(`{
		"statistics":{"total":{"percentage":"6","duplicatedLines":12}},
		"duplicates":[
			{"lines":5,"tokens":40,"firstFile":"/p/a.js","secondFile":{"name":"/p/b.js","start":3,"end":8}}
		]
	}`), &r))

	require.NotNil(t, r.Percentage())
	assert.Equal(t, 6.0, float64(*r.Percentage()))
	assert.Equal(t, 12, r.DuplicatedLines())
	require.Len(t, r.Duplicates, 1)
	assert.Equal(t, "/p/a.js", r.Duplicates[0].FirstFile.Name)
	assert.Equal(t, "/p/b.js", r.Duplicates[0].SecondFile.Name)
	assert.Equal(t, 3, r.Duplicates[0].SecondFile.Start.Int())

	var empty schema.JSCPDReport
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.Nil(t, empty.Percentage())
	assert.Equal(t, 0, empty.DuplicatedLines())
}

func TestLineCountReportShapes(t *testing.T) {
	var cloc schema.LineCountReport
	require.NoError(t, json.Unmarshal([]byte(`{"SUM":{"code":200,"comment":30,"blank":10,"nFiles":4}}`), &cloc))
	assert.Equal(t, 200.0, cloc.CodeLines())
	assert.Equal(t, 30.0, cloc.CommentLines())

	var flat schema.LineCountReport
	require.NoError(t, json.Unmarshal([]byte(`{"source":"120","comment":12,"blank":3,"total":135}`), &flat))
	assert.Equal(t, 120.0, flat.CodeLines())
	assert.Equal(t, 12.0, flat.CommentLines())
}

func TestReportsLookup(t *testing.T) {
	rs := schema.Reports{schema.ESLintReport{}, schema.LineCountReport{Source: 10}}

	_, ok := rs.ESLint()
	assert.True(t, ok)
	lc, ok := rs.LineCount()
	assert.True(t, ok)
	assert.Equal(t, 10.0, lc.CodeLines())
	_, ok = rs.Radon()
	assert.False(t, ok)
	assert.Equal(t, []schema.Tool{schema.ESLintTool, schema.ClocTool}, rs.Tools())
}
