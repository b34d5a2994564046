package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseDuration coerces raw input to a whole number of minutes. Empty,
// non-numeric, non-finite, negative and fractional values are rejected.
func ParseDuration(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// ParseLimit coerces a result-count limit. ok is false when the value is
// absent or not a finite, whole, non-negative number, in which case no limit
// applies. "2", "2.0" and "2e0" are the same limit.
func ParseLimit(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < 0 || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 {
		return math.MaxInt32, true
	}
	return int(f), true
}
