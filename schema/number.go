package schema

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a lenient JSON number used inside tool reports.
// It accepts JSON numbers, numeric strings and null (zero). Any other JSON
// value decodes to NaN instead of failing the whole document.
type Number float64

// UnmarshalJSON implements json.Unmarshaler and never returns an error for
// well-formed JSON input.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*n = 0
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = Number(math.NaN())
			return nil
		}
		*n = Number(parseNumeric(s))
	default:
		v, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			v = math.NaN()
		}
		*n = Number(v)
	}
	return nil
}

// MarshalJSON writes non-finite values as null so reports stay encodable.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Finite() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(n))
}

// Finite reports whether the number is neither NaN nor infinite.
func (n Number) Finite() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Or returns the value, or fallback when it is not finite.
func (n Number) Or(fallback float64) float64 {
	if !n.Finite() {
		return fallback
	}
	return float64(n)
}

// Int returns the value truncated to an int, or zero when it is not finite.
func (n Number) Int() int {
	return int(n.Or(0))
}

// parseNumeric converts a trimmed numeric string, returning NaN when the
// string does not hold a number. Empty strings are not numbers here.
func parseNumeric(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
