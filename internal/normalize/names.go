package normalize

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// NormalizeHeader strips a UTF-8 BOM, trims, lowercases and collapses
// whitespace so "Facility  Name" and "facility name" compare equal.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.TrimSpace(h)
	h = strings.ToLower(h)
	return multiSpace.ReplaceAllString(h, " ")
}
