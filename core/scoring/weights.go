// Package scoring turns metric snapshots into sub-scores, a composite score and a grade.
package scoring

import (
	"log/slog"

	"github.com/huangsam/qualityscore/schema"
)

// ResolveWeights overlays user overrides on the default vector and normalizes
// the result to sum to 1.0. Values that are not finite non-negative numbers
// fall back to their default. A sum of zero or less yields the defaults.
func ResolveWeights(overrides schema.WeightOverrides, logger *slog.Logger) schema.WeightVector {
	logger = orDiscard(logger)
	defaults := schema.DefaultWeights()

	var resolved schema.WeightVector
	hasZero := false
	for _, c := range schema.AllCriteria {
		v := defaults.Get(c)
		if o := overrides.Get(c); schema.IsUsableWeight(o) {
			v = *o
		}
		if v == 0 {
			hasZero = true
		}
		resolved.Set(c, v)
	}

	total := resolved.Sum()
	if total <= 0 {
		logger.Warn("weight sum is not positive, using defaults", "sum", total)
		return defaults
	}
	if hasZero {
		for _, c := range schema.AllCriteria {
			if resolved.Get(c) == 0 {
				logger.Warn("criterion has zero weight and will not affect the overall score", "criterion", c)
			}
		}
	}

	var normalized schema.WeightVector
	for _, c := range schema.AllCriteria {
		normalized.Set(c, resolved.Get(c)/total)
	}
	return normalized
}
