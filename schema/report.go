package schema

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Report is a raw tool report tagged by its kind.
// The set of implementations is closed; consumers switch over the concrete types.
type Report interface {
	Kind() ReportKind
	Tool() Tool
	isReport()
}

// ESLintReport is the JSON formatter output of ESLint: one entry per linted file.
type ESLintReport []ESLintFileResult

// ESLintFileResult holds the messages reported for one file.
type ESLintFileResult struct {
	FilePath     string          `json:"filePath"`
	Messages     []ESLintMessage `json:"messages"`
	ErrorCount   Number          `json:"errorCount"`
	WarningCount Number          `json:"warningCount"`
}

// ESLintMessage is a single ESLint finding.
type ESLintMessage struct {
	RuleID      string             `json:"ruleId"`
	Severity    Number             `json:"severity"`
	Message     string             `json:"message"`
	Line        Number             `json:"line"`
	Column      Number             `json:"column"`
	Fix         *ESLintFix         `json:"fix,omitempty"`
	Suggestions []ESLintSuggestion `json:"suggestions,omitempty"`
}

// ESLintFix is an autofix proposed by a rule.
type ESLintFix struct {
	Range []Number `json:"range"`
	Text  string   `json:"text"`
}

// ESLintSuggestion is an editor suggestion attached to a message.
type ESLintSuggestion struct {
	MessageID string `json:"messageId,omitempty"`
	Desc      string `json:"desc"`
}

// ESLintErrorSeverity is the numeric severity ESLint uses for errors.
const ESLintErrorSeverity = 2

func (ESLintReport) Kind() ReportKind { return LintKind }
func (ESLintReport) Tool() Tool { return ESLintTool }
func (ESLintReport) isReport() {}

// ErrorCount counts messages with error severity across all files.
func (r ESLintReport) ErrorCount() int {
	count := 0
	for _, file := range r {
		for _, m := range file.Messages {
			if m.Severity.Int() == ESLintErrorSeverity {
				count++
			}
		}
	}
	return count
}

// WarningCount counts messages below error severity across all files.
func (r ESLintReport) WarningCount() int {
	count := 0
	for _, file := range r {
		for _, m := range file.Messages {
			if m.Severity.Int() != ESLintErrorSeverity {
				count++
			}
		}
	}
	return count
}

// RuffReport is the JSON output of `ruff check --output-format json`.
type RuffReport []RuffFinding

// RuffFinding is a single Ruff diagnostic.
type RuffFinding struct {
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Filename string        `json:"filename"`
	Location *RuffLocation `json:"location,omitempty"`
	Fix      *RuffFix      `json:"fix,omitempty"`
	URL      string        `json:"url,omitempty"`
}

// RuffLocation is a 1-based source position.
type RuffLocation struct {
	Row    Number `json:"row"`
	Column Number `json:"column"`
}

// RuffFix is the fix Ruff offers for a diagnostic.
type RuffFix struct {
	Message       string `json:"message"`
	Applicability string `json:"applicability,omitempty"`
}

func (RuffReport) Kind() ReportKind { return LintKind }
func (RuffReport) Tool() Tool { return RuffTool }
func (RuffReport) isReport() {}

// ErrorCount is the number of findings; Ruff reports everything as an error.
func (r RuffReport) ErrorCount() int { return len(r) }

// PMDReport is the JSON renderer output of `pmd check -f json`.
// Violations may appear per file or already flattened at the top level.
type PMDReport struct {
	Files      []PMDFile      `json:"files,omitempty"`
	Violations []PMDViolation `json:"violations,omitempty"`
}

// PMDFile groups the violations of one source file.
type PMDFile struct {
	Filename   string         `json:"filename"`
	Violations []PMDViolation `json:"violations"`
}

// PMDViolation is a single rule violation.
type PMDViolation struct {
	File                 string         `json:"file,omitempty"`
	BeginLine            Number         `json:"beginline"`
	BeginColumn          Number         `json:"begincolumn"`
	EndLine              Number         `json:"endline"`
	EndColumn            Number         `json:"endcolumn"`
	Description          string         `json:"description"`
	Rule                 string         `json:"rule"`
	RuleSet              string         `json:"ruleset,omitempty"`
	Priority             Number         `json:"priority"`
	ExternalInfoURL      string         `json:"externalInfoUrl,omitempty"`
	Metric               *Number        `json:"metric,omitempty"`
	AdditionalProperties *PMDProperties `json:"additionalProperties,omitempty"`
	Properties           *PMDProperties `json:"properties,omitempty"`
}

// PMDProperties carries rule specific values such as the cyclomatic number.
type PMDProperties struct {
	CCN *Number `json:"ccn,omitempty"`
}

func (PMDReport) Kind() ReportKind { return ViolationsKind }
func (PMDReport) Tool() Tool { return PMDTool }
func (PMDReport) isReport() {}

// AllViolations flattens per-file and top-level violations, in that order.
func (r PMDReport) AllViolations() []PMDViolation {
	var out []PMDViolation
	for _, f := range r.Files {
		for _, v := range f.Violations {
			if v.File == "" {
				v.File = f.Filename
			}
			out = append(out, v)
		}
	}
	return append(out, r.Violations...)
}

// ViolationCount is the number of violations in the report.
func (r PMDReport) ViolationCount() int { return len(r.AllViolations()) }

// CyclomaticValue returns the complexity carried by a CyclomaticComplexity violation.
func (v PMDViolation) CyclomaticValue() (float64, bool) {
	if !strings.Contains(strings.ToLower(v.Rule), "cyclomaticcomplexity") {
		return 0, false
	}
	for _, n := range []*Number{v.Metric, v.AdditionalProperties.ccn(), v.Properties.ccn()} {
		if n != nil && n.Finite() {
			return float64(*n), true
		}
	}
	return 0, false
}

func (p *PMDProperties) ccn() *Number {
	if p == nil {
		return nil
	}
	return p.CCN
}

// AverageComplexity averages the cyclomatic values, or zero when none exist.
func (r PMDReport) AverageComplexity() float64 {
	sum, count := 0.0, 0
	for _, v := range r.AllViolations() {
		if cc, ok := v.CyclomaticValue(); ok {
			sum += cc
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// RadonReport is the output of `radon cc -j`: blocks keyed by file path.
// Files radon failed to parse are dropped during decoding.
type RadonReport map[string][]RadonBlock

// RadonBlock is one function, method or class measured by radon.
type RadonBlock struct {
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Rank       string  `json:"rank,omitempty"`
	Complexity *Number `json:"complexity"`
	LineNo     Number  `json:"lineno"`
	ClassName  string  `json:"classname,omitempty"`
}

func (RadonReport) Kind() ReportKind { return ComplexityKind }
func (RadonReport) Tool() Tool { return RadonTool }
func (RadonReport) isReport() {}

// UnmarshalJSON keeps only the entries whose value is a list of blocks.
func (r *RadonReport) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(RadonReport, len(raw))
	for file, msg := range raw {
		if !bytes.HasPrefix(bytes.TrimSpace(msg), []byte("[")) {
			continue
		}
		var blocks []RadonBlock
		if err := json.Unmarshal(msg, &blocks); err != nil {
			continue
		}
		out[file] = blocks
	}
	*r = out
	return nil
}

// AverageComplexity returns the mean complexity and the number of measured blocks.
func (r RadonReport) AverageComplexity() (float64, int) {
	sum, count := 0.0, 0
	for _, blocks := range r {
		for _, b := range blocks {
			if b.Complexity != nil && b.Complexity.Finite() {
				sum += float64(*b.Complexity)
				count++
			}
		}
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}

// JSCPDReport is the json reporter output of jscpd.
type JSCPDReport struct {
	Statistics *JSCPDStatistics `json:"statistics,omitempty"`
	Duplicates []JSCPDDuplicate `json:"duplicates,omitempty"`
}

// JSCPDStatistics wraps the totals section.
type JSCPDStatistics struct {
	Total *JSCPDTotals `json:"total,omitempty"`
}

// JSCPDTotals holds aggregate duplication figures.
type JSCPDTotals struct {
	Lines           Number  `json:"lines"`
	DuplicatedLines Number  `json:"duplicatedLines"`
	Clones          Number  `json:"clones"`
	Percentage      *Number `json:"percentage"`
}

// JSCPDDuplicate is a pair of near-identical fragments.
type JSCPDDuplicate struct {
	Format     string       `json:"format,omitempty"`
	Lines      Number       `json:"lines"`
	Tokens     Number       `json:"tokens"`
	FirstFile  JSCPDFileRef `json:"firstFile"`
	SecondFile JSCPDFileRef `json:"secondFile"`
	Fragment   *string      `json:"fragment,omitempty"`
}

// JSCPDFileRef locates one side of a duplicate. It decodes from a plain
// path string or from an object with name and line range.
type JSCPDFileRef struct {
	Name  string `json:"name"`
	Start Number `json:"start"`
	End   Number `json:"end"`
}

// UnmarshalJSON accepts either a string path or an object.
func (f *JSCPDFileRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*f = JSCPDFileRef{Name: name}
		return nil
	}
	type plain JSCPDFileRef
	var p plain
	if bytes.Equal(data, []byte("null")) {
		*f = JSCPDFileRef{}
		return nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		*f = JSCPDFileRef{}
		return nil
	}
	*f = JSCPDFileRef(p)
	return nil
}

func (JSCPDReport) Kind() ReportKind { return DuplicationKind }
func (JSCPDReport) Tool() Tool { return JSCPDTool }
func (JSCPDReport) isReport() {}

// Percentage returns the raw duplication percentage, or nil when absent.
func (r JSCPDReport) Percentage() *Number {
	if r.Statistics == nil || r.Statistics.Total == nil {
		return nil
	}
	return r.Statistics.Total.Percentage
}

// DuplicatedLines returns the duplicated line total, or zero when absent.
func (r JSCPDReport) DuplicatedLines() int {
	if r.Statistics == nil || r.Statistics.Total == nil {
		return 0
	}
	return r.Statistics.Total.DuplicatedLines.Int()
}

// LineCountReport holds line counts in either cloc shape (a SUM section)
// or the flat shape produced by the in-process counter.
type LineCountReport struct {
	Sum       *LineCounts           `json:"SUM,omitempty"`
	Source    Number                `json:"source"`
	Comment   Number                `json:"comment"`
	Blank     Number                `json:"blank"`
	Total     Number                `json:"total"`
	Languages map[string]LineCounts `json:"languages,omitempty"`
}

// LineCounts is a cloc style per-language or summary row.
type LineCounts struct {
	Files   Number `json:"nFiles"`
	Blank   Number `json:"blank"`
	Comment Number `json:"comment"`
	Code    Number `json:"code"`
}

func (LineCountReport) Kind() ReportKind { return LineCountKind }
func (LineCountReport) Tool() Tool { return ClocTool }
func (LineCountReport) isReport() {}

// CodeLines returns the number of source lines.
func (r LineCountReport) CodeLines() float64 {
	if r.Sum != nil {
		return r.Sum.Code.Or(0)
	}
	return r.Source.Or(0)
}

// CommentLines returns the number of comment lines.
func (r LineCountReport) CommentLines() float64 {
	if r.Sum != nil {
		return r.Sum.Comment.Or(0)
	}
	return r.Comment.Or(0)
}

// Reports is the set of raw reports gathered for one analysis run.
// Ordering is fixed so consumers produce issues tool by tool.
type Reports []Report

// ESLint returns the ESLint report, if any.
func (rs Reports) ESLint() (ESLintReport, bool) { return findReport[ESLintReport](rs) }

// Ruff returns the Ruff report, if any.
func (rs Reports) Ruff() (RuffReport, bool) { return findReport[RuffReport](rs) }

// PMD returns the PMD report, if any.
func (rs Reports) PMD() (PMDReport, bool) { return findReport[PMDReport](rs) }

// Radon returns the Radon report, if any.
func (rs Reports) Radon() (RadonReport, bool) { return findReport[RadonReport](rs) }

// JSCPD returns the duplication report, if any.
func (rs Reports) JSCPD() (JSCPDReport, bool) { return findReport[JSCPDReport](rs) }

// LineCount returns the line count report, if any.
func (rs Reports) LineCount() (LineCountReport, bool) { return findReport[LineCountReport](rs) }

// Tools lists the tools that produced a report, in order.
func (rs Reports) Tools() []Tool {
	out := make([]Tool, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Tool())
	}
	return out
}

func findReport[T Report](rs Reports) (T, bool) {
	for _, r := range rs {
		if v, ok := r.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
