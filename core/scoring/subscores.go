package scoring

import (
	"math"

	"github.com/huangsam/qualityscore/schema"
)

// StylePenaltyPerError is the number of points lost per lint error per thousand lines.
const StylePenaltyPerError = 5

// ScoreStyle scores lint errors per thousand lines of code.
func ScoreStyle(kloc float64, lintErrors int) float64 {
	if kloc <= 0 {
		return 100
	}
	perKLOC := float64(lintErrors) / kloc
	return clamp(100 - perKLOC*StylePenaltyPerError)
}

// ScoreComplexity bands the average cyclomatic complexity.
func ScoreComplexity(avg float64) float64 {
	switch {
	case avg <= 5:
		return 100
	case avg <= 10:
		return 70
	case avg <= 20:
		return 40
	default:
		return 10
	}
}

// ScoreDuplication bands the duplication percentage.
func ScoreDuplication(pct float64) float64 {
	switch {
	case pct <= 3:
		return 100
	case pct <= 8:
		return 80
	case pct <= 15:
		return 50
	default:
		return 20
	}
}

// ScoreComment scores comment density. The range [10,25] is ideal; sparse
// comments ramp up from 20 and heavy commenting ramps down to 60.
func ScoreComment(pct float64) float64 {
	switch {
	case pct >= 10 && pct <= 25:
		return 100
	case pct <= 0.001:
		return 20
	case pct > 40:
		return 60
	case pct < 10:
		return clamp(20 + (pct/10)*80)
	case pct < 40:
		return clamp(100 - ((pct-25)/15)*40)
	default:
		return 60
	}
}

// GradeFor maps an overall score to its grade.
func GradeFor(overall int) schema.Grade {
	switch {
	case overall >= 85:
		return schema.GradeA
	case overall >= 70:
		return schema.GradeB
	case overall >= 50:
		return schema.GradeC
	default:
		return schema.GradeD
	}
}

// Round rounds half up, matching the reference outputs for negative halves too.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// round2 keeps two decimals for the metric snapshot.
func round2(x float64) float64 {
	return Round(x*100) / 100
}

func clamp(x float64) float64 {
	return math.Max(0, math.Min(100, x))
}
