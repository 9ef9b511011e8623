package normalize

import (
	"strconv"
	"strings"
)

// PadDigits left-pads a numeric code with zeros to width, the way FIPS
// components are published ("6" -> "06"). An integral float spelling such as
// "6.0" is accepted since some extracts round-trip codes through floats.
// Returns nil if the value is empty, not a non-negative integer, or longer
// than width.
func PadDigits(v string, width int) *string {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}
	if whole, frac, ok := strings.Cut(s, "."); ok {
		if strings.Trim(frac, "0") != "" {
			return nil
		}
		s = whole
	}
	if s == "" || !isDigits(s) {
		return nil
	}
	if len(s) > width {
		// Leading zeros beyond width are harmless ("0006037" for a 5-wide FIPS).
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil
		}
		s = strconv.FormatUint(n, 10)
		if len(s) > width {
			return nil
		}
	}
	s = strings.Repeat("0", width-len(s)) + s
	return &s
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
