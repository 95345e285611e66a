package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// WeightVector maps each scoring criterion to its weight.
// A resolved vector sums to 1.0 within floating tolerance.
type WeightVector struct {
	Style       float64 `json:"style"`
	Complexity  float64 `json:"complexity"`
	Duplication float64 `json:"duplication"`
	Comment     float64 `json:"comment"`
}

// DefaultWeights returns the fallback weight vector.
func DefaultWeights() WeightVector {
	return WeightVector{Style: 0.30, Complexity: 0.25, Duplication: 0.20, Comment: 0.25}
}

// Get returns the weight of a criterion, or zero for an unknown criterion.
func (w WeightVector) Get(c Criterion) float64 {
	switch c {
	case StyleCriterion:
		return w.Style
	case ComplexityCriterion:
		return w.Complexity
	case DuplicationCriterion:
		return w.Duplication
	case CommentCriterion:
		return w.Comment
	}
	return 0
}

// Set assigns the weight of a criterion. Unknown criteria are ignored.
func (w *WeightVector) Set(c Criterion, v float64) {
	switch c {
	case StyleCriterion:
		w.Style = v
	case ComplexityCriterion:
		w.Complexity = v
	case DuplicationCriterion:
		w.Duplication = v
	case CommentCriterion:
		w.Comment = v
	}
}

// Sum returns the total of all four weights.
func (w WeightVector) Sum() float64 {
	return w.Style + w.Complexity + w.Duplication + w.Comment
}

// Equal compares two vectors field by field as numbers.
func (w WeightVector) Equal(other WeightVector) bool {
	return w.Style == other.Style &&
		w.Complexity == other.Complexity &&
		w.Duplication == other.Duplication &&
		w.Comment == other.Comment
}

// Overrides converts a resolved vector back into a full override set.
func (w WeightVector) Overrides() WeightOverrides {
	return WeightOverrides{
		Style:       floatPtr(w.Style),
		Complexity:  floatPtr(w.Complexity),
		Duplication: floatPtr(w.Duplication),
		Comment:     floatPtr(w.Comment),
	}
}

// WeightOverrides holds the user-supplied partial weight map.
// A nil field means the key was absent or held a value that is not a number.
type WeightOverrides struct {
	Style       *float64 `json:"style,omitempty" mapstructure:"style"`
	Complexity  *float64 `json:"complexity,omitempty" mapstructure:"complexity"`
	Duplication *float64 `json:"duplication,omitempty" mapstructure:"duplication"`
	Comment     *float64 `json:"comment,omitempty" mapstructure:"comment"`
}

// Get returns the override for a criterion.
func (o WeightOverrides) Get(c Criterion) *float64 {
	switch c {
	case StyleCriterion:
		return o.Style
	case ComplexityCriterion:
		return o.Complexity
	case DuplicationCriterion:
		return o.Duplication
	case CommentCriterion:
		return o.Comment
	}
	return nil
}

// Set stores an override for a criterion.
func (o *WeightOverrides) Set(c Criterion, v float64) {
	switch c {
	case StyleCriterion:
		o.Style = floatPtr(v)
	case ComplexityCriterion:
		o.Complexity = floatPtr(v)
	case DuplicationCriterion:
		o.Duplication = floatPtr(v)
	case CommentCriterion:
		o.Comment = floatPtr(v)
	}
}

// IsEmpty reports whether no criterion was supplied.
func (o WeightOverrides) IsEmpty() bool {
	return o.Style == nil && o.Complexity == nil && o.Duplication == nil && o.Comment == nil
}

// UnmarshalJSON decodes a flat object with the four recognized keys.
// Unrecognized keys are ignored. Numeric strings are coerced; null and other
// non-numbers leave the key absent.
func (o *WeightOverrides) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = WeightOverrides{}
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("weights must be a JSON object: %w", err)
	}
	var out WeightOverrides
	for _, c := range AllCriteria {
		msg, ok := raw[string(c)]
		if !ok {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			continue
		}
		var v Number
		if err := json.Unmarshal(msg, &v); err != nil || !v.Finite() {
			continue
		}
		out.Set(c, float64(v))
	}
	*o = out
	return nil
}

// ErrEmptyWeights is returned when weight input is blank.
var ErrEmptyWeights = errors.New("weights input is empty")

// ParseWeightOverrides decodes a weights JSON object such as {"style":0.5}.
func ParseWeightOverrides(data []byte) (WeightOverrides, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return WeightOverrides{}, ErrEmptyWeights
	}
	var o WeightOverrides
	if err := json.Unmarshal(data, &o); err != nil {
		return WeightOverrides{}, err
	}
	return o, nil
}

// IsUsableWeight reports whether a supplied weight may replace its default.
func IsUsableWeight(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) && *v >= 0
}

func floatPtr(v float64) *float64 { return &v }
