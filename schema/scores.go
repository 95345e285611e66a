package schema

import "time"

// MetricSnapshot holds the scalar facts extracted from one analysis run.
// Fractional values are rounded to two decimals when the snapshot is built.
type MetricSnapshot struct {
	CodeLines      int     `json:"codeLines"`
	CommentLines   int     `json:"commentLines"`
	KLOC           float64 `json:"kLOC"`
	LintErrors     int     `json:"lintErrors"`
	ComplexityAvg  float64 `json:"complexityAvg"`
	DupPercent     float64 `json:"dupPercent"`
	CommentDensity float64 `json:"commentDensity"`
}

// SubScores holds the four integer criterion scores in [0,100].
type SubScores struct {
	Style       int `json:"style"`
	Complexity  int `json:"complexity"`
	Duplication int `json:"duplication"`
	Comment     int `json:"comment"`
}

// Get returns the sub-score of a criterion.
func (s SubScores) Get(c Criterion) int {
	switch c {
	case StyleCriterion:
		return s.Style
	case ComplexityCriterion:
		return s.Complexity
	case DuplicationCriterion:
		return s.Duplication
	case CommentCriterion:
		return s.Comment
	}
	return 0
}

// ScoreSummary is the composite score and its grade.
type ScoreSummary struct {
	Overall      int   `json:"overall"`
	QualityLevel Grade `json:"quality_level"`
}

// CriterionModel describes how much one criterion counts and what it is based on.
type CriterionModel struct {
	Weight  float64 `json:"weight"`
	BasedOn string  `json:"basedOn"`
}

// ScoringModel is the per-criterion weight and rationale.
type ScoringModel struct {
	Style       CriterionModel `json:"style"`
	Complexity  CriterionModel `json:"complexity"`
	Duplication CriterionModel `json:"duplication"`
	Comment     CriterionModel `json:"comment"`
}

// Get returns the model entry of a criterion.
func (m ScoringModel) Get(c Criterion) CriterionModel {
	switch c {
	case StyleCriterion:
		return m.Style
	case ComplexityCriterion:
		return m.Complexity
	case DuplicationCriterion:
		return m.Duplication
	case CommentCriterion:
		return m.Comment
	}
	return CriterionModel{}
}

// Scores is the scoring output for one analysis.
type Scores struct {
	ProjectName  string         `json:"project_name"`
	Summary      ScoreSummary   `json:"summary"`
	Meta         MetricSnapshot `json:"meta"`
	Metrics      SubScores      `json:"metrics"`
	Weights      WeightVector   `json:"weights"`
	ScoringModel ScoringModel   `json:"scoring_model"`
	CreatedAt    time.Time      `json:"created_at"`
	Source       *SourceInfo    `json:"source,omitempty"`
}

// Explanation levels.
const (
	LevelExcellent = "excellent"
	LevelGood      = "good"
	LevelMedium    = "medium"
	LevelLow       = "low"
	LevelBad       = "bad"
	LevelInfo      = "info"
)

// QualityReason is one line of the quality explanation.
type QualityReason struct {
	Key   string `json:"key"`
	Level string `json:"level"`
	Text  string `json:"text"`
}

// QualityDetail is the narrative summary of where a score falls short.
type QualityDetail struct {
	Items      []string    `json:"items"`
	WeakKeys   []Criterion `json:"weakKeys"`
	Conclusion string      `json:"conclusion"`
}
