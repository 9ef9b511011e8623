package normalize

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber coerces a raw cell to a float. Empty, non-numeric ("Not
// Available", "34,5"), NaN and infinite values all come back as nil.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

