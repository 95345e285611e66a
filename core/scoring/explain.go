package scoring

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/qualityscore/schema"
)

// UserConfigBasis is the rationale shown when the caller picked the weights.
const UserConfigBasis = "user configuration"

var defaultBasis = map[schema.Criterion]string{
	schema.StyleCriterion:       "ESLint violations per 1k LOC",
	schema.ComplexityCriterion:  "average cyclomatic complexity",
	schema.DuplicationCriterion: "JSCPD duplication (%)",
	schema.CommentCriterion:     "comment density (%)",
}

// weakLabels name criteria inside the conclusion sentence.
var weakLabels = map[schema.Criterion]string{
	schema.StyleCriterion:       "style",
	schema.DuplicationCriterion: "duplication",
	schema.CommentCriterion:     "comment density",
	schema.ComplexityCriterion:  "complexity",
}

// BuildScoringModel pairs each resolved weight with its rationale.
func BuildScoringModel(weights schema.WeightVector, userWeights bool) schema.ScoringModel {
	model := func(c schema.Criterion) schema.CriterionModel {
		basis := defaultBasis[c]
		if userWeights {
			basis = UserConfigBasis
		}
		return schema.CriterionModel{Weight: weights.Get(c), BasedOn: basis}
	}
	return schema.ScoringModel{
		Style:       model(schema.StyleCriterion),
		Complexity:  model(schema.ComplexityCriterion),
		Duplication: model(schema.DuplicationCriterion),
		Comment:     model(schema.CommentCriterion),
	}
}

// assessment is one criterion's band: the level, the sentence and whether it falls short.
type assessment struct {
	key   schema.Criterion
	level string
	text  string
	weak  bool
}

func assess(m schema.MetricSnapshot) []assessment {
	out := make([]assessment, 0, 4)

	switch {
	case m.LintErrors == 0:
		out = append(out, assessment{schema.StyleCriterion, schema.LevelGood, "Good code style: no lint errors found.", false})
	case m.LintErrors <= 5:
		out = append(out, assessment{schema.StyleCriterion, schema.LevelMedium,
			fmt.Sprintf("Average code style (%d lint errors).", m.LintErrors), true})
	default:
		out = append(out, assessment{schema.StyleCriterion, schema.LevelBad,
			fmt.Sprintf("Poor code style (%d lint errors), fix soon.", m.LintErrors), true})
	}

	dup := formatNumber(m.DupPercent)
	switch {
	case m.DupPercent == 0:
		out = append(out, assessment{schema.DuplicationCriterion, schema.LevelExcellent, "No duplicated code (0%), clean structure.", false})
	case m.DupPercent <= 10:
		out = append(out, assessment{schema.DuplicationCriterion, schema.LevelGood,
			fmt.Sprintf("Low duplication (%s%%), within the accepted threshold.", dup), false})
	case m.DupPercent <= 20:
		out = append(out, assessment{schema.DuplicationCriterion, schema.LevelMedium,
			fmt.Sprintf("High duplication (%s%%), consider refactoring.", dup), true})
	default:
		out = append(out, assessment{schema.DuplicationCriterion, schema.LevelBad,
			fmt.Sprintf("Very high duplication (%s%%), serious maintenance impact.", dup), true})
	}

	density := formatNumber(m.CommentDensity)
	switch {
	case m.CommentDensity >= 15:
		out = append(out, assessment{schema.CommentCriterion, schema.LevelGood,
			fmt.Sprintf("Good comment density (%s%%).", density), false})
	case m.CommentDensity >= 10:
		out = append(out, assessment{schema.CommentCriterion, schema.LevelMedium,
			fmt.Sprintf("Acceptable comment density (%s%%).", density), false})
	case m.CommentDensity >= 5:
		out = append(out, assessment{schema.CommentCriterion, schema.LevelLow,
			fmt.Sprintf("Low comment density (%s%%).", density), true})
	default:
		out = append(out, assessment{schema.CommentCriterion, schema.LevelBad,
			fmt.Sprintf("Very low comment density (%s%%), logic is not explained.", density), true})
	}

	switch {
	case m.ComplexityAvg <= 5:
		out = append(out, assessment{schema.ComplexityCriterion, schema.LevelGood, "Low complexity, easy to test.", false})
	case m.ComplexityAvg <= 10:
		out = append(out, assessment{schema.ComplexityCriterion, schema.LevelMedium, "Moderate complexity.", true})
	default:
		out = append(out, assessment{schema.ComplexityCriterion, schema.LevelBad, "High complexity, split large functions.", true})
	}

	return out
}

// FinalNote closes every explanation.
const FinalNote = "The overall score is weighted; comments and complexity weigh heavily on long-term maintainability."

// Explain lists one reason per criterion followed by a final note.
func Explain(m schema.MetricSnapshot) []schema.QualityReason {
	var reasons []schema.QualityReason
	for _, a := range assess(m) {
		reasons = append(reasons, schema.QualityReason{Key: string(a.key), Level: a.level, Text: a.text})
	}
	return append(reasons, schema.QualityReason{Key: "final", Level: schema.LevelInfo, Text: FinalNote})
}

// Detail summarizes the explanation and names the criteria below target.
func Detail(m schema.MetricSnapshot) schema.QualityDetail {
	detail := schema.QualityDetail{Items: []string{}, WeakKeys: []schema.Criterion{}}
	for _, a := range assess(m) {
		detail.Items = append(detail.Items, a.text)
		if a.weak && !slices.Contains(detail.WeakKeys, a.key) {
			detail.WeakKeys = append(detail.WeakKeys, a.key)
		}
	}

	switch n := len(detail.WeakKeys); {
	case n == 0:
		detail.Conclusion = "High score because all key criteria are met."
	case n <= 2:
		names := make([]string, 0, n)
		for _, k := range detail.WeakKeys {
			names = append(names, weakLabels[k])
		}
		detail.Conclusion = fmt.Sprintf("Score reduced because %s %s below target.", strings.Join(names, " and "), verbFor(n))
	default:
		detail.Conclusion = "Low score because many key criteria are not met."
	}
	return detail
}

func verbFor(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}

// formatNumber prints the shortest representation, so 6 stays "6" and 6.25 stays "6.25".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
