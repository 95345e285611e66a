package scoring

import (
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/huangsam/qualityscore/schema"
)

// complexityMessage pulls the measured value out of ESLint's complexity rule message.
var complexityMessage = regexp.MustCompile(`(?i)complexity of (\d+)`)

// Overrides carry authoritative values from adapters other than the default
// report shapes. A nil field means no override.
type Overrides struct {
	LintErrors    *int
	ComplexityAvg *float64
}

// Input is everything the engine needs for one computation.
type Input struct {
	Reports     schema.Reports
	ProjectName string
	Weights     schema.WeightOverrides
	UserWeights bool // caller supplied the weights explicitly
	Overrides   Overrides
	Now         time.Time
}

// Engine computes scores. It is safe for concurrent use.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an engine that reports advisories to logger.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: orDiscard(logger)}
}

// Compute derives the metric snapshot, sub-scores, composite score and
// scoring model. It never fails: missing inputs read as zero.
func (e *Engine) Compute(in Input) *schema.Scores {
	m := e.Extract(in.Reports, in.Overrides)
	weights := ResolveWeights(in.Weights, e.logger)
	metrics := m.SubScores()
	overall := Composite(metrics, weights)

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	name := in.ProjectName
	if name == "" {
		name = "unknown"
	}

	return &schema.Scores{
		ProjectName:  name,
		Summary:      schema.ScoreSummary{Overall: overall, QualityLevel: GradeFor(overall)},
		Meta:         m.Snapshot(),
		Metrics:      metrics,
		Weights:      weights,
		ScoringModel: BuildScoringModel(weights, in.UserWeights),
		CreatedAt:    now.UTC(),
	}
}

// Metrics are the unrounded values behind a snapshot.
type Metrics struct {
	CodeLines     float64
	CommentLines  float64
	LintErrors    int
	ComplexityAvg float64
	DupPercent    float64
}

// KLOC is thousands of code lines.
func (m Metrics) KLOC() float64 { return m.CodeLines / 1000 }

// CommentDensity is comment lines as a percentage of code lines.
func (m Metrics) CommentDensity() float64 {
	if m.CodeLines <= 0 {
		return 0
	}
	return m.CommentLines / m.CodeLines * 100
}

// SubScores computes the four sub-scores, each rounded before combination.
func (m Metrics) SubScores() schema.SubScores {
	return schema.SubScores{
		Style:       int(Round(ScoreStyle(m.KLOC(), m.LintErrors))),
		Complexity:  int(Round(ScoreComplexity(m.ComplexityAvg))),
		Duplication: int(Round(ScoreDuplication(m.DupPercent))),
		Comment:     int(Round(ScoreComment(m.CommentDensity()))),
	}
}

// Snapshot rounds the fractional metrics to two decimals.
func (m Metrics) Snapshot() schema.MetricSnapshot {
	return schema.MetricSnapshot{
		CodeLines:      int(m.CodeLines),
		CommentLines:   int(m.CommentLines),
		KLOC:           round2(m.KLOC()),
		LintErrors:     m.LintErrors,
		ComplexityAvg:  round2(m.ComplexityAvg),
		DupPercent:     round2(m.DupPercent),
		CommentDensity: round2(m.CommentDensity()),
	}
}

// FromSnapshot rebuilds metrics from a stored snapshot.
func FromSnapshot(s schema.MetricSnapshot) Metrics {
	return Metrics{
		CodeLines:     float64(s.CodeLines),
		CommentLines:  float64(s.CommentLines),
		LintErrors:    s.LintErrors,
		ComplexityAvg: s.ComplexityAvg,
		DupPercent:    s.DupPercent,
	}
}

// Extract reads metrics from raw reports, applying overrides.
func (e *Engine) Extract(reports schema.Reports, overrides Overrides) Metrics {
	var m Metrics
	if lc, ok := reports.LineCount(); ok {
		m.CodeLines, m.CommentLines = lc.CodeLines(), lc.CommentLines()
	}

	eslint, _ := reports.ESLint()
	m.LintErrors = eslint.ErrorCount()
	if overrides.LintErrors != nil {
		m.LintErrors = *overrides.LintErrors
	}

	m.ComplexityAvg = average(ESLintComplexityValues(eslint))
	if overrides.ComplexityAvg != nil {
		m.ComplexityAvg = *overrides.ComplexityAvg
	}

	m.DupPercent = e.duplicationPercent(reports)
	return m
}

func (e *Engine) duplicationPercent(reports schema.Reports) float64 {
	jscpd, ok := reports.JSCPD()
	if !ok {
		return 0
	}
	pct := jscpd.Percentage()
	if pct == nil {
		return 0
	}
	if !pct.Finite() {
		e.logger.Warn("duplication percentage is not a number, using 0")
		return 0
	}
	return float64(*pct)
}

// Composite combines rounded sub-scores with resolved weights.
func Composite(metrics schema.SubScores, weights schema.WeightVector) int {
	total := 0.0
	for _, c := range schema.AllCriteria {
		total += float64(metrics.Get(c)) * weights.Get(c)
	}
	return int(Round(total))
}

// ESLintComplexityValues collects the values reported by the complexity rule.
func ESLintComplexityValues(r schema.ESLintReport) []int {
	var values []int
	for _, file := range r {
		for _, m := range file.Messages {
			if m.RuleID != "complexity" {
				continue
			}
			match := complexityMessage.FindStringSubmatch(m.Message)
			if match == nil {
				continue
			}
			if v, err := strconv.Atoi(match[1]); err == nil {
				values = append(values, v)
			}
		}
	}
	return values
}

// OverridesFromReports derives overrides from language-specific adapters.
// The lint override sums Ruff findings and PMD violations and applies only
// when non-zero. Radon complexity wins over PMD complexity.
func OverridesFromReports(reports schema.Reports) Overrides {
	var o Overrides

	lint := 0
	if ruff, ok := reports.Ruff(); ok {
		lint += ruff.ErrorCount()
	}
	pmd, hasPMD := reports.PMD()
	if hasPMD {
		lint += pmd.ViolationCount()
	}
	if lint != 0 {
		o.LintErrors = &lint
	}

	if radon, ok := reports.Radon(); ok {
		avg, _ := radon.AverageComplexity()
		o.ComplexityAvg = &avg
	} else if hasPMD {
		avg := pmd.AverageComplexity()
		o.ComplexityAvg = &avg
	}
	return o
}

func average(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}
