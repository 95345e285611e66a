package schema

// Custom string types for type safety.
type (
	// Criterion represents one of the four scoring criteria.
	Criterion string

	// Grade represents the letter grade derived from the composite score.
	Grade string

	// Tool identifies the external analysis tool behind a report or issue.
	Tool string

	// ReportKind tags the shape of a raw report payload.
	ReportKind string

	// Severity represents the normalized severity of an issue.
	Severity string

	// DecisionCode is the outcome of the version dedup check.
	DecisionCode string

	// Language is a source language that selects language-specific adapters.
	Language string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string
)

// Scoring criteria, in canonical order.
const (
	StyleCriterion       Criterion = "style"
	ComplexityCriterion  Criterion = "complexity"
	DuplicationCriterion Criterion = "duplication"
	CommentCriterion     Criterion = "comment"
)

// AllCriteria lists every criterion in canonical order.
var AllCriteria = []Criterion{StyleCriterion, ComplexityCriterion, DuplicationCriterion, CommentCriterion}

// Quality grades.
const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// Tools with a known report shape.
const (
	ESLintTool Tool = "eslint"
	RuffTool   Tool = "ruff"
	PMDTool    Tool = "pmd"
	JSCPDTool  Tool = "jscpd"
	ClocTool   Tool = "cloc"
	RadonTool  Tool = "radon"
)

// Report kinds.
const (
	LintKind        ReportKind = "lint"
	LineCountKind   ReportKind = "linecount"
	DuplicationKind ReportKind = "duplication"
	ComplexityKind  ReportKind = "complexity"
	ViolationsKind  ReportKind = "violations"
)

// Issue severities.
const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warn"
)

// Dedup and pipeline decision codes.
const (
	Accepted                  DecisionCode = "ACCEPTED"
	DuplicateVersion          DecisionCode = "DUPLICATE_VERSION"
	DuplicateSourceAndWeights DecisionCode = "DUPLICATE_SOURCE_AND_WEIGHTS"
	LanguageDetectFail        DecisionCode = "LANGUAGE_DETECT_FAIL"
	SourceMismatch            DecisionCode = "SOURCE_MISMATCH"
)

// Languages with dedicated adapters.
const (
	JavaScript Language = "javascript"
	Python     Language = "python"
	Java       Language = "java"
)

// LanguagePriority orders languages when picking a project's primary language.
var LanguagePriority = []Language{JavaScript, Python, Java}

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
