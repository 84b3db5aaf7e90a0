package types

import (
	"strconv"
	"strings"
)

// AsFloat coerces a loosely-typed payload value to float64.
// Agent payloads carry numbers that may arrive as ints, floats, or formatted
// strings ("$45,000.00"); anything unparseable coerces to the zero value
// rather than failing, so a malformed field never aborts a collaboration.
func AsFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case string:
		clean := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(n))
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// AsFloatOr coerces like AsFloat but substitutes def when the value is
// nil or unparseable.
func AsFloatOr(v any, def float64) float64 {
	if v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		clean := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(s))
		if _, err := strconv.ParseFloat(clean, 64); err != nil {
			return def
		}
	}
	switch v.(type) {
	case float64, float32, int, int32, int64, uint, string:
		return AsFloat(v)
	default:
		return def
	}
}

// AsInt coerces a loosely-typed payload value to int via AsFloat.
func AsInt(v any) int {
	return int(AsFloat(v))
}

// Clamp constrains x to the closed interval [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
